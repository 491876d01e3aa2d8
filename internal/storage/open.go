package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"parishpress/internal/content"
	logx "parishpress/pkg/logx"
)

// Open initializes the configured store.
// An empty or "memory" driver yields a process-local store so the scheduler
// always has something to write to.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "none", "memory":
		return &memStore{}, nil
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}

type memStore struct {
	mu    sync.Mutex
	items []content.Item
	set   bool
}

func (s *memStore) LoadItems(ctx context.Context) ([]content.Item, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return []content.Item{}, nil
	}
	out := make([]content.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memStore) SaveItems(ctx context.Context, items []content.Item) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]content.Item, len(items))
	copy(s.items, items)
	s.set = true
	return nil
}

func (s *memStore) Close() error { return nil }
