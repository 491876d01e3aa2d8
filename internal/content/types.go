package content

import (
	"time"

	"github.com/google/uuid"
)

// Type selects which publisher handles an item.
type Type string

const (
	TypeEvent  Type = "event"
	TypeSermon Type = "sermon"
	TypeEmail  Type = "email"
	TypePost   Type = "post"
)

func (t Type) Known() bool {
	switch t {
	case TypeEvent, TypeSermon, TypeEmail, TypePost:
		return true
	}
	return false
}

// Status is the lifecycle state of a scheduled item.
// "scheduled" is the only non-terminal state.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool { return s != StatusScheduled }

// Payload carries the type-specific fields of an item.
// Only the fields relevant to the item's Type are populated.
type Payload struct {
	// event + sermon
	Description string `json:"description,omitempty"`
	// event
	Location string `json:"location,omitempty"`
	// sermon
	Preacher string `json:"preacher,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
	// email
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Item is a content item awaiting future publication.
type Item struct {
	ID           string      `json:"id"`
	Type         Type        `json:"type"`
	Title        string      `json:"title"`
	Payload      Payload     `json:"payload"`
	ScheduledFor time.Time   `json:"scheduled_for"`
	Status       Status      `json:"status"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	PublishedAt  *time.Time  `json:"published_at,omitempty"`
}

// Successor derives the next occurrence of a recurring item: fresh ID,
// status back to scheduled, publication timestamp cleared.
func (it Item) Successor(next time.Time, now time.Time) Item {
	cp := it
	cp.ID = uuid.NewString()
	cp.ScheduledFor = next
	cp.Status = StatusScheduled
	cp.CreatedAt = now
	cp.PublishedAt = nil
	if it.Recurrence != nil {
		r := *it.Recurrence
		cp.Recurrence = &r
	}
	return cp
}
