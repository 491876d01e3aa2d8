package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
logging:
  level: debug
  console: true
scheduler:
  enabled: true
  tick: "@every 30s"
  timezone: America/Chicago
backend:
  base_url: https://cms.example.org/api
  token: secret
storage:
  driver: file
  path: ./items.json
notifier:
  rate_per_sec: 2
`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.Tick != "@every 30s" {
		t.Fatalf("scheduler = %+v", cfg.Scheduler)
	}
	if cfg.Scheduler.Timezone != "America/Chicago" {
		t.Fatalf("timezone = %q", cfg.Scheduler.Timezone)
	}
	if cfg.Backend.BaseURL != "https://cms.example.org/api" {
		t.Fatalf("backend = %+v", cfg.Backend)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if cfg.Notifier == nil || cfg.Notifier.RatePerSec != 2 {
		t.Fatalf("notifier = %+v", cfg.Notifier)
	}
	if m.Get() != cfg {
		t.Fatal("Get should return the committed config")
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{
  "scheduler": {"enabled": true},
  "backend": {"base_url": "http://localhost:8080"}
}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Scheduler.Enabled || cfg.Backend.BaseURL != "http://localhost:8080" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
scheduler:
  enabled: true
  interval_minutes: 5
backend:
  base_url: http://localhost
`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("unknown fields must be rejected")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{"scheduler":{"enabled":true}} {"extra":1}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("trailing tokens must be rejected")
	}
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml")).Parse(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestSubscribePublishDropOldest(t *testing.T) {
	t.Parallel()
	m := NewManager("unused")
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	a := &Config{}
	b := &Config{}
	m.publish(a)
	m.publish(b) // buffer full: a is dropped, b delivered

	select {
	case got := <-ch:
		if got != b {
			t.Fatal("expected the newest config")
		}
	case <-time.After(time.Second):
		t.Fatal("no config delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()
	m := NewManager("unused")
	ch := m.Subscribe(1)
	m.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed")
	}
	m.Unsubscribe(ch) // double unsubscribe is a no-op
}

func TestReloadSkipsUnchangedContent(t *testing.T) {
	t.Parallel()
	body := "scheduler:\n  enabled: true\nbackend:\n  base_url: http://localhost\n"
	path := writeConfig(t, "config.yaml", body)

	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatal(err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	m.reload(context.Background())
	select {
	case <-ch:
		t.Fatal("unchanged content must not republish")
	default:
	}

	if err := os.WriteFile(path, []byte("scheduler:\n  enabled: false\nbackend:\n  base_url: http://localhost\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	m.reload(context.Background())
	select {
	case cfg := <-ch:
		if cfg.Scheduler.Enabled {
			t.Fatal("expected the updated config")
		}
	case <-time.After(time.Second):
		t.Fatal("changed content must republish")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationField("backend.timeout", "1m30s")
	if err != nil || d != 90*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
	if _, err := ParseDurationField("backend.timeout", "soon"); err == nil {
		t.Fatal("invalid duration must error")
	}
	if _, err := ParseDurationField("backend.timeout", "-5s"); err == nil {
		t.Fatal("negative duration must error")
	}
	got, err := ParseDurationOrDefault("backend.timeout", "", 5*time.Second)
	if err != nil || got != 5*time.Second {
		t.Fatalf("default = %v, %v", got, err)
	}
	got, err = ParseDurationOrDefault("backend.timeout", "250ms", 5*time.Second)
	if err != nil || got != 250*time.Millisecond {
		t.Fatalf("parsed = %v, %v", got, err)
	}
}
