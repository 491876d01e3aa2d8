package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"parishpress/internal/content"
	logx "parishpress/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	// Basic pragmas.
	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) LoadItems(ctx context.Context) ([]content.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, title, payload, scheduled_for, status, recurrence, created_at, published_at
		 FROM items ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []content.Item{}
	for rows.Next() {
		var (
			it          content.Item
			typ, status string
			payload     string
			schedFor    string
			createdAt   string
			recurrence  sql.NullString
			publishedAt sql.NullString
		)
		if err := rows.Scan(&it.ID, &typ, &it.Title, &payload, &schedFor, &status, &recurrence, &createdAt, &publishedAt); err != nil {
			return nil, err
		}
		it.Type = content.Type(typ)
		it.Status = content.Status(status)
		if err := json.Unmarshal([]byte(payload), &it.Payload); err != nil {
			// A single unreadable row should not take the whole list down.
			s.log.Warn("skipping item with malformed payload", logx.String("id", it.ID), logx.Err(err))
			continue
		}
		if it.ScheduledFor, err = parseTS(schedFor); err != nil {
			s.log.Warn("skipping item with malformed scheduled_for", logx.String("id", it.ID), logx.Err(err))
			continue
		}
		if it.CreatedAt, err = parseTS(createdAt); err != nil {
			s.log.Warn("skipping item with malformed created_at", logx.String("id", it.ID), logx.Err(err))
			continue
		}
		if recurrence.Valid && strings.TrimSpace(recurrence.String) != "" {
			var r content.Recurrence
			if err := json.Unmarshal([]byte(recurrence.String), &r); err == nil {
				it.Recurrence = &r
			}
		}
		if publishedAt.Valid && strings.TrimSpace(publishedAt.String) != "" {
			if ts, err := parseTS(publishedAt.String); err == nil {
				it.PublishedAt = &ts
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *sqliteStore) SaveItems(ctx context.Context, items []content.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return err
	}
	for i, it := range items {
		payload, err := json.Marshal(it.Payload)
		if err != nil {
			return err
		}
		var recurrence any
		if it.Recurrence != nil {
			b, err := json.Marshal(it.Recurrence)
			if err != nil {
				return err
			}
			recurrence = string(b)
		}
		var publishedAt any
		if it.PublishedAt != nil {
			publishedAt = it.PublishedAt.Format(time.RFC3339Nano)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO items(position, id, type, title, payload, scheduled_for, status, recurrence, created_at, published_at)
			 VALUES(?,?,?,?,?,?,?,?,?,?)`,
			i, it.ID, string(it.Type), it.Title, string(payload),
			it.ScheduledFor.Format(time.RFC3339Nano), string(it.Status),
			recurrence, it.CreatedAt.Format(time.RFC3339Nano), publishedAt,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
