package storage

import (
	"context"
	"time"

	"parishpress/internal/content"
)

// Config configures storage.
//
// Driver values:
//   - "memory" (or empty): no durable backing
//   - "file": single-document JSON backend
//   - "sqlite": SQLite database file
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the persistence API used by the scheduler.
//
// SaveItems replaces the stored list wholesale. LoadItems returns an empty
// slice when nothing has been persisted yet; malformed stored data also
// degrades to empty rather than failing the caller.
type Store interface {
	LoadItems(ctx context.Context) ([]content.Item, error)
	SaveItems(ctx context.Context, items []content.Item) error
	Close() error
}
