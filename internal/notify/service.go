package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"parishpress/internal/eventbus"
	"parishpress/internal/scheduler"
	logx "parishpress/pkg/logx"
)

const historyMax = 300

// Service implements an async notification pipeline:
// bus subscription + bounded queue + worker + rate limit.
//
// It is safe for concurrent use.
type Service struct {
	mu sync.Mutex

	log   logx.Logger
	bus   eventbus.Bus
	cfg   Config
	sinks []Sink

	limiter *rate.Limiter

	queue     chan Notification
	unsub     func()
	runCancel context.CancelFunc
	wg        sync.WaitGroup

	hmu     sync.Mutex
	history []Notification
}

func New(cfg Config, bus eventbus.Bus, log logx.Logger, extra ...Sink) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	cfg = cfg.withDefaults()
	sinks := []Sink{logSink{log: log}}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, newWebhookSink(cfg.WebhookURL, cfg.WebhookTimeout))
	}
	sinks = append(sinks, extra...)
	return &Service{
		log:     log,
		bus:     bus,
		cfg:     cfg,
		sinks:   sinks,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

func (s *Service) Apply(cfg Config) {
	cfg = cfg.withDefaults()
	s.mu.Lock()
	s.cfg = cfg
	// Token bucket: burst = rate per sec, so short spikes don't block too hard.
	s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	s.mu.Unlock()
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.queue != nil || !s.cfg.Enabled {
		s.mu.Unlock()
		return
	}
	s.queue = make(chan Notification, s.cfg.QueueSize)
	runCtx, cancel := context.WithCancel(ctx)
	s.runCancel = cancel
	ch, unsub := s.bus.Subscribe(64)
	s.unsub = unsub
	queue := s.queue
	s.mu.Unlock()

	// Pump: translate bus events into notifications without blocking the bus.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				n, ok := fromEvent(ev)
				if !ok {
					continue
				}
				select {
				case queue <- n:
				default:
					s.log.Warn("notification queue full; dropping", logx.String("item", n.ItemID))
				}
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(runCtx, queue)
	}()
}

// Stop unsubscribes from the bus and waits for in-flight deliveries.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	unsub := s.unsub
	cancel := s.runCancel
	s.unsub = nil
	s.runCancel = nil
	s.queue = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (s *Service) worker(ctx context.Context, queue <-chan Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-queue:
			s.mu.Lock()
			lim := s.limiter
			s.mu.Unlock()
			if err := lim.Wait(ctx); err != nil {
				return
			}
			s.deliver(ctx, n)
		}
	}
}

func (s *Service) deliver(ctx context.Context, n Notification) {
	s.mu.Lock()
	sinks := s.sinks
	s.mu.Unlock()
	for _, sink := range sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			s.log.Warn("notification delivery failed", logx.String("item", n.ItemID), logx.Err(err))
		}
	}
	s.appendHistory(n)
}

func (s *Service) appendHistory(n Notification) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.history = append(s.history, n)
	if len(s.history) > historyMax {
		s.history = s.history[len(s.history)-historyMax:]
	}
}

// History returns recent notifications, oldest first.
func (s *Service) History() []Notification {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	out := make([]Notification, len(s.history))
	copy(out, s.history)
	return out
}

// fromEvent maps an item lifecycle event to its user-facing message.
// Unknown event types produce no notification.
func fromEvent(ev eventbus.Event) (Notification, bool) {
	it, ok := ev.Data.(scheduler.ItemEvent)
	if !ok {
		return Notification{}, false
	}

	var kind Kind
	var msg string
	switch ev.Type {
	case scheduler.EventItemScheduled:
		kind = KindSuccess
		msg = fmt.Sprintf("%q scheduled for %s", it.Title, formatWhen(it.When))
	case scheduler.EventItemPublished:
		kind = KindSuccess
		msg = fmt.Sprintf("%q published", it.Title)
		if it.Next != nil {
			msg += fmt.Sprintf("; next occurrence %s", formatWhen(*it.Next))
		}
	case scheduler.EventItemPublishFailed:
		kind = KindError
		msg = fmt.Sprintf("publishing %q failed: %s", it.Title, it.Error)
	case scheduler.EventItemCancelled:
		kind = KindSuccess
		msg = fmt.Sprintf("%q cancelled", it.Title)
	case scheduler.EventItemDeleted:
		kind = KindSuccess
		msg = fmt.Sprintf("%q deleted", it.Title)
	default:
		return Notification{}, false
	}

	return Notification{Kind: kind, Message: msg, ItemID: it.ID, At: ev.Time}, true
}

func formatWhen(t time.Time) string {
	return t.Format("Mon Jan 2 2006 at 15:04")
}
