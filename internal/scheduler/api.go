package scheduler

import (
	"context"
	"fmt"
	"time"

	"parishpress/internal/content"
	logx "parishpress/pkg/logx"
)

// Schedule validates the draft, appends the new item, and persists the list.
// On a persistence failure the in-memory list is left unchanged and the error
// is returned to the caller for retry.
func (s *Service) Schedule(ctx context.Context, d content.Draft) (content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	it, err := d.Build(s.now(), s.locLocked())
	if err != nil {
		return content.Item{}, err
	}

	next := append(s.copyItemsLocked(), it)
	if err := s.store.SaveItems(ctx, next); err != nil {
		return content.Item{}, fmt.Errorf("persisting scheduled items: %w", err)
	}
	s.items = next

	s.log.Info("item scheduled",
		logx.String("id", it.ID),
		logx.String("type", string(it.Type)),
		logx.String("title", it.Title),
		logx.Time("for", it.ScheduledFor),
		logx.Bool("recurring", it.Recurrence != nil))
	s.publishEvent(EventItemScheduled, ItemEvent{ID: it.ID, Title: it.Title, Type: it.Type, When: it.ScheduledFor})
	return it, nil
}

// Cancel moves a still-scheduled item to cancelled. Cancelling twice is a
// no-op; cancelling an item that already published or failed is rejected.
func (s *Service) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	switch s.items[idx].Status {
	case content.StatusCancelled:
		return nil
	case content.StatusScheduled:
		// fall through
	default:
		return &NotCancellableError{ID: id, Status: s.items[idx].Status}
	}

	next := s.copyItemsLocked()
	next[idx].Status = content.StatusCancelled
	if err := s.store.SaveItems(ctx, next); err != nil {
		return fmt.Errorf("persisting scheduled items: %w", err)
	}
	it := next[idx]
	s.items = next

	s.log.Info("item cancelled", logx.String("id", it.ID), logx.String("title", it.Title))
	s.publishEvent(EventItemCancelled, ItemEvent{ID: it.ID, Title: it.Title, Type: it.Type, When: it.ScheduledFor})
	return nil
}

// Delete removes the item regardless of status. Removing an unknown id is a
// no-op so repeated deletes from a stale admin view don't error.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}
	it := s.items[idx]

	next := make([]content.Item, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.store.SaveItems(ctx, next); err != nil {
		return fmt.Errorf("persisting scheduled items: %w", err)
	}
	s.items = next

	s.log.Info("item deleted", logx.String("id", it.ID), logx.String("title", it.Title))
	s.publishEvent(EventItemDeleted, ItemEvent{ID: it.ID, Title: it.Title, Type: it.Type, When: it.ScheduledFor})
	return nil
}

// Items returns a copy of the current list in insertion order.
func (s *Service) Items() []content.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItemsLocked()
}

// Get returns the item with the given id.
func (s *Service) Get(id string) (content.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.items[idx], true
	}
	return content.Item{}, false
}

func (s *Service) ensureLoadedLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	items, err := s.store.LoadItems(ctx)
	if err != nil {
		s.log.Error("loading scheduled items failed; starting empty", logx.Err(err))
		items = nil
	}
	s.items = items
	s.loaded = true
}

func (s *Service) copyItemsLocked() []content.Item {
	out := make([]content.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Service) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) locLocked() *time.Location {
	if s.loc != nil {
		return s.loc
	}
	return s.loadLocationLocked()
}
