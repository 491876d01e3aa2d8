package config

// Config is the top-level configuration document (YAML or JSON).
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging   LoggingConfig   `json:"logging"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Backend   BackendConfig   `json:"backend"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
	Notifier  *NotifierConfig `json:"notifier,omitempty"`
}

type LoggingConfig struct {
	Level   string `json:"level,omitempty"`
	Console bool   `json:"console"`
	File    struct {
		Enabled bool   `json:"enabled"`
		Path    string `json:"path,omitempty"`
	} `json:"file,omitempty"`
}

// SchedulerConfig controls the due-item scan.
//
// Tick accepts cron expressions ("*/5 * * * *"), descriptors ("@hourly"),
// and intervals ("@every 1m"). Defaults to one scan per minute.
type SchedulerConfig struct {
	Enabled        bool   `json:"enabled"`
	Tick           string `json:"tick,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	PublishTimeout string `json:"publish_timeout,omitempty"`
}

// BackendConfig points at the hosted CMS backend the publishers write to.
type BackendConfig struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token,omitempty"` // bearer token (do not log)
	Timeout string `json:"timeout,omitempty"`
}

// StorageConfig controls where the scheduled-item list is persisted.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./parishpress_items.json" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// NotifierConfig controls the notification pipeline.
// If the whole section is omitted, the notifier defaults to enabled.
type NotifierConfig struct {
	Enabled        *bool  `json:"enabled,omitempty"`
	QueueSize      int    `json:"queue_size,omitempty"`
	RatePerSec     int    `json:"rate_per_sec,omitempty"`
	WebhookURL     string `json:"webhook_url,omitempty"`
	WebhookTimeout string `json:"webhook_timeout,omitempty"`
}
