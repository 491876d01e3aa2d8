package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"parishpress/internal/eventbus"
	"parishpress/internal/publisher"
	"parishpress/internal/storage"
	logx "parishpress/pkg/logx"
)

func New(cfg Config, store storage.Store, reg *publisher.Registry, bus eventbus.Bus, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:   cfg.withDefaults(),
		store: store,
		reg:   reg,
		bus:   bus,
		log:   log,
		// SecondOptional allows both 5-field and 6-field (with seconds) cron specs.
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:    time.Now,
	}
}

// Enabled reports the current config flag. (Thread-safe; Apply() may run concurrently.)
func (s *Service) Enabled() bool {
	s.mu.Lock()
	en := s.cfg.Enabled
	s.mu.Unlock()
	return en
}

// Apply swaps config at runtime. A changed tick spec or timezone restarts
// the cron runner; the item list is untouched.
func (s *Service) Apply(cfg Config) {
	cfg = cfg.withDefaults()
	s.mu.Lock()
	old := s.cfg
	s.cfg = cfg
	running := s.c != nil
	s.mu.Unlock()

	if !running {
		return
	}
	if old.TickSpec != cfg.TickSpec || strings.TrimSpace(old.Timezone) != strings.TrimSpace(cfg.Timezone) {
		s.restart()
	}
}

// Start loads the persisted item list and begins the periodic scan.
// A load failure is not fatal: the scheduler starts with an empty list and
// the store error is logged (first successful save re-establishes the file).
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.c != nil {
		s.mu.Unlock()
		return nil
	}
	cfg := s.cfg
	if !cfg.Enabled {
		s.mu.Unlock()
		s.log.Debug("scheduler disabled; not starting")
		return nil
	}

	if !s.loaded {
		items, err := s.store.LoadItems(ctx)
		if err != nil {
			s.log.Error("loading scheduled items failed; starting empty", logx.Err(err))
			items = nil
		}
		s.items = items
		s.loaded = true
	}

	loc := s.loadLocationLocked()
	s.loc = loc
	s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	id, err := s.c.AddFunc(cfg.TickSpec, func() { s.CheckDue(s.now()) })
	if err != nil {
		s.c = nil
		s.mu.Unlock()
		return err
	}
	s.tickID = id
	s.c.Start()
	n := len(s.items)
	s.mu.Unlock()

	s.log.Info("scheduler started",
		logx.String("tick", cfg.TickSpec),
		logx.String("tz", loc.String()),
		logx.Int("items", n))

	// Catch up on items that came due while the daemon was down.
	go s.CheckDue(s.now())
	return nil
}

// Stop halts the periodic scan. An in-flight scan runs to completion.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		// stop continues in background
	}
	s.log.Info("scheduler stopped")
}

func (s *Service) restart() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Stop(ctx)
	if err := s.Start(ctx); err != nil {
		s.log.Error("scheduler restart failed", logx.Err(err))
	}
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone; using local", logx.String("tz", tz), logx.Err(err))
		return time.Local
	}
	return loc
}

func (s *Service) publishEvent(typ string, ev ItemEvent) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: typ, Time: s.now(), Data: ev})
}
