package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parishpress/internal/content"
	logx "parishpress/pkg/logx"
)

func testItem(typ content.Type) content.Item {
	return content.Item{
		ID:    "id-1",
		Type:  typ,
		Title: "Food Drive",
		Payload: content.Payload{
			Description: "desc",
			Location:    "hall",
			Preacher:    "Pastor Jane",
			AudioURL:    "https://cdn.example.org/s.mp3",
			Subject:     "June news",
			Body:        "Hello",
		},
		ScheduledFor: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		Status:       content.StatusScheduled,
	}
}

func TestClientCreateEvent(t *testing.T) {
	t.Parallel()
	var gotPath, gotAuth string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Token: "secret"}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.CreateEvent(context.Background(), testItem(content.TypeEvent)); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if gotPath != "/events" {
		t.Fatalf("path = %s, want /events", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if body["title"] != "Food Drive" || body["date"] != "2025-06-01" || body["time"] != "14:00" || body["location"] != "hall" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestClientCreateEmailCampaignMarkedSent(t *testing.T) {
	t.Parallel()
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email-campaigns" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.CreateEmailCampaign(context.Background(), testItem(content.TypeEmail)); err != nil {
		t.Fatalf("CreateEmailCampaign: %v", err)
	}
	if body["status"] != "sent" {
		t.Fatalf("status = %v, want sent", body["status"])
	}
	sentAt, _ := body["sent_at"].(string)
	if _, err := time.Parse(time.RFC3339, sentAt); err != nil {
		t.Fatalf("sent_at %q is not RFC3339: %v", sentAt, err)
	}
	if body["name"] != "Food Drive" || body["subject"] != "June news" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestClientBackendErrorSurfaces(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.CreateSermon(context.Background(), testItem(content.TypeSermon)); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestClientRequiresBaseURL(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{}, logx.Nop()); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}
