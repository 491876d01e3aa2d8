package app

import (
	"fmt"
	"strings"
	"time"

	"parishpress/internal/config"
	"parishpress/internal/notify"
	"parishpress/internal/publisher/backend"
	"parishpress/internal/scheduler"
	"parishpress/internal/storage"
	logx "parishpress/pkg/logx"
)

// validate parses every derived section so a hot reload can be rejected
// before anything is applied.
func validate(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if _, err := buildScheduler(cfg.Scheduler); err != nil {
		return err
	}
	if _, err := buildBackend(cfg.Backend); err != nil {
		return err
	}
	if _, err := buildNotifier(cfg.Notifier); err != nil {
		return err
	}
	if cfg.Storage != nil {
		if _, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
			return err
		}
	}
	return nil
}

func buildLogging(c config.LoggingConfig) logx.Config {
	out := logx.Config{Level: c.Level, Console: c.Console}
	out.File.Enabled = c.File.Enabled
	out.File.Path = c.File.Path
	if !out.Console && !out.File.Enabled {
		out.Console = true
	}
	return out
}

func buildScheduler(c config.SchedulerConfig) (scheduler.Config, error) {
	timeout, err := config.ParseDurationField("scheduler.publish_timeout", c.PublishTimeout)
	if err != nil {
		return scheduler.Config{}, err
	}
	return scheduler.Config{
		Enabled:        c.Enabled,
		TickSpec:       strings.TrimSpace(c.Tick),
		Timezone:       c.Timezone,
		PublishTimeout: timeout,
	}, nil
}

func buildBackend(c config.BackendConfig) (backend.Config, error) {
	timeout, err := config.ParseDurationOrDefault("backend.timeout", c.Timeout, 15*time.Second)
	if err != nil {
		return backend.Config{}, err
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return backend.Config{}, fmt.Errorf("backend.base_url is required")
	}
	return backend.Config{BaseURL: c.BaseURL, Token: c.Token, Timeout: timeout}, nil
}

func buildStorage(c *config.StorageConfig) storage.Config {
	if c == nil {
		return storage.Config{}
	}
	busy, _ := config.ParseDurationField("storage.busy_timeout", c.BusyTimeout)
	return storage.Config{Driver: c.Driver, Path: c.Path, BusyTimeout: busy}
}

func buildNotifier(c *config.NotifierConfig) (notify.Config, error) {
	out := notify.Config{Enabled: true}
	if c == nil {
		return out, nil
	}
	if c.Enabled != nil {
		out.Enabled = *c.Enabled
	}
	out.QueueSize = c.QueueSize
	out.RatePerSec = c.RatePerSec
	out.WebhookURL = strings.TrimSpace(c.WebhookURL)
	timeout, err := config.ParseDurationField("notifier.webhook_timeout", c.WebhookTimeout)
	if err != nil {
		return notify.Config{}, err
	}
	out.WebhookTimeout = timeout
	return out, nil
}
