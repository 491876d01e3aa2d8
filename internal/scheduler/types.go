package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"parishpress/internal/content"
	"parishpress/internal/eventbus"
	"parishpress/internal/publisher"
	"parishpress/internal/storage"
	logx "parishpress/pkg/logx"
)

// Config controls the scheduler service.
type Config struct {
	Enabled bool
	// TickSpec drives the due-item scan. Cron spec or "@every" interval;
	// default "@every 1m".
	TickSpec string
	Timezone string // IANA TZ, e.g. "Europe/Amsterdam"
	// PublishTimeout bounds each publisher call. 0 disables the bound.
	PublishTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.TickSpec == "" {
		c.TickSpec = "@every 1m"
	}
	if c.PublishTimeout < 0 {
		c.PublishTimeout = 0
	}
	return c
}

// ErrNotFound is returned when an operation names an unknown item id.
var ErrNotFound = errors.New("scheduled item not found")

// NotCancellableError rejects a cancel on an item that already reached a
// terminal publish outcome.
type NotCancellableError struct {
	ID     string
	Status content.Status
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("item %s is %s and cannot be cancelled", e.ID, e.Status)
}

// Event types published on the bus.
const (
	EventItemScheduled     = "item.scheduled"
	EventItemPublished     = "item.published"
	EventItemPublishFailed = "item.publish_failed"
	EventItemCancelled     = "item.cancelled"
	EventItemDeleted       = "item.deleted"
)

// ItemEvent is the bus payload for item lifecycle events.
type ItemEvent struct {
	ID    string
	Title string
	Type  content.Type
	When  time.Time // the item's publish time
	Error string    // set on publish failure
	Next  *time.Time
}

type Service struct {
	mu sync.Mutex

	log   logx.Logger
	cfg   Config
	loc   *time.Location
	store storage.Store
	reg   *publisher.Registry
	bus   eventbus.Bus

	items  []content.Item
	loaded bool

	parser cron.Parser
	c      *cron.Cron
	tickID cron.EntryID

	// scanning skips overlapping ticks; a scan already holds the item list.
	scanning atomic.Bool
	skipped  atomic.Uint64

	lastScan    time.Time
	lastScanDue int
	started     uint64

	now func() time.Time
}

// ItemInfo is a read-only view of one scheduled item for status output.
type ItemInfo struct {
	ID           string
	Title        string
	Type         content.Type
	Status       content.Status
	ScheduledFor time.Time
	Recurring    bool
}

type Snapshot struct {
	Enabled      bool
	Timezone     string
	TickSpec     string
	NextTick     time.Time
	LastScan     time.Time
	LastScanDue  int
	ScansStarted uint64
	ScansSkipped uint64
	ByStatus     map[content.Status]int
	Items        []ItemInfo
}
