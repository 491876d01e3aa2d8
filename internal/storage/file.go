package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"parishpress/internal/content"
	logx "parishpress/pkg/logx"
)

// fileStore keeps the scheduled-item list in a single JSON document.
//
// Writes go to <path>.tmp first and are renamed into place, so a crash
// mid-write can never leave a half-written list behind.
type fileStore struct {
	log  logx.Logger
	path string

	mu sync.Mutex
}

type fileDoc struct {
	Items []content.Item `json:"items"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileStore{log: log, path: path}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) LoadItems(ctx context.Context) ([]content.Item, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []content.Item{}, nil
		}
		return nil, err
	}
	var doc fileDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		// Malformed persisted data degrades to an empty list instead of
		// crashing the caller. The broken file is left in place for inspection.
		s.log.Warn("stored item list is malformed; starting empty", logx.String("path", s.path), logx.Err(err))
		return []content.Item{}, nil
	}
	if doc.Items == nil {
		doc.Items = []content.Item{}
	}
	return doc.Items, nil
}

func (s *fileStore) SaveItems(ctx context.Context, items []content.Item) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(fileDoc{Items: items}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
