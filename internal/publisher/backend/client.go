// Package backend is the HTTP client for the hosted CMS backend.
// It exposes the three create-operations the scheduler publishes through.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"parishpress/internal/content"
	"parishpress/internal/publisher"
	logx "parishpress/pkg/logx"
)

type Config struct {
	BaseURL string
	Token   string // bearer token; do not log
	Timeout time.Duration
}

type Client struct {
	base  string
	token string
	http  *http.Client
	log   logx.Logger
}

func New(cfg Config, log logx.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend.base_url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		base:  base,
		token: cfg.Token,
		http:  &http.Client{Timeout: timeout},
		log:   log,
	}, nil
}

// Register binds the client's create-operations onto the registry.
// "post" stays unregistered: the backend has no resource for it yet.
func (c *Client) Register(reg *publisher.Registry) {
	reg.Register(content.TypeEvent, func(ctx context.Context, it content.Item) error {
		return c.CreateEvent(ctx, it)
	})
	reg.Register(content.TypeSermon, func(ctx context.Context, it content.Item) error {
		return c.CreateSermon(ctx, it)
	})
	reg.Register(content.TypeEmail, func(ctx context.Context, it content.Item) error {
		return c.CreateEmailCampaign(ctx, it)
	})
}

type eventBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
}

type sermonBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Preacher    string `json:"preacher"`
	AudioURL    string `json:"audio_url"`
}

type campaignBody struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Content string `json:"content"`
	Status  string `json:"status"`
	SentAt  string `json:"sent_at"`
}

func (c *Client) CreateEvent(ctx context.Context, it content.Item) error {
	return c.post(ctx, "/events", eventBody{
		Title:       it.Title,
		Description: it.Payload.Description,
		Date:        it.ScheduledFor.Format("2006-01-02"),
		Time:        it.ScheduledFor.Format("15:04"),
		Location:    it.Payload.Location,
	})
}

func (c *Client) CreateSermon(ctx context.Context, it content.Item) error {
	return c.post(ctx, "/sermons", sermonBody{
		Title:       it.Title,
		Description: it.Payload.Description,
		Date:        it.ScheduledFor.Format("2006-01-02"),
		Preacher:    it.Payload.Preacher,
		AudioURL:    it.Payload.AudioURL,
	})
}

// CreateEmailCampaign creates the campaign already marked sent, stamped with
// the publish time, matching how the admin panel records outgoing mail.
func (c *Client) CreateEmailCampaign(ctx context.Context, it content.Item) error {
	return c.post(ctx, "/email-campaigns", campaignBody{
		Name:    it.Title,
		Subject: it.Payload.Subject,
		Content: it.Payload.Body,
		Status:  "sent",
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the error message; backends usually
		// return a short JSON error.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("POST %s: backend returned %s: %s", path, resp.Status, strings.TrimSpace(string(snippet)))
	}
	c.log.Debug("backend write ok", logx.String("path", path), logx.Int("status", resp.StatusCode))
	return nil
}
