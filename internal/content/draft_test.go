package content

import (
	"errors"
	"testing"
	"time"
)

func TestDraftBuild(t *testing.T) {
	t.Parallel()
	now := date(2025, 5, 20, 12, 0)

	d := Draft{
		Title:       "Food Drive",
		Type:        TypeEvent,
		Date:        "2025-06-01",
		TimeOfDay:   "14:00",
		Description: "Community food drive",
		Location:    "Fellowship Hall",
	}
	it, err := d.Build(now, time.UTC)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if it.ID == "" {
		t.Fatal("expected generated id")
	}
	if it.Status != StatusScheduled {
		t.Fatalf("Status = %s, want scheduled", it.Status)
	}
	if want := date(2025, 6, 1, 14, 0); !it.ScheduledFor.Equal(want) {
		t.Fatalf("ScheduledFor = %v, want %v", it.ScheduledFor, want)
	}
	if !it.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", it.CreatedAt, now)
	}
	if it.Payload.Location != "Fellowship Hall" || it.Payload.Description == "" {
		t.Fatalf("unexpected payload: %+v", it.Payload)
	}
	if it.Payload.Subject != "" || it.Payload.Preacher != "" {
		t.Fatalf("event payload must not carry other types' fields: %+v", it.Payload)
	}
}

func TestDraftBuildDefaultsTime(t *testing.T) {
	t.Parallel()
	d := Draft{Title: "Sunday Message", Type: TypeSermon, Date: "2025-06-01"}
	it, err := d.Build(date(2025, 5, 20, 12, 0), time.UTC)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if want := date(2025, 6, 1, 9, 0); !it.ScheduledFor.Equal(want) {
		t.Fatalf("ScheduledFor = %v, want 09:00 default %v", it.ScheduledFor, want)
	}
}

func TestDraftBuildRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{name: "empty title", draft: Draft{Type: TypeEvent, Date: "2025-06-01"}, field: "title"},
		{name: "blank title", draft: Draft{Title: "   ", Type: TypeEvent, Date: "2025-06-01"}, field: "title"},
		{name: "missing date", draft: Draft{Title: "x", Type: TypeEvent}, field: "date"},
		{name: "bad date", draft: Draft{Title: "x", Type: TypeEvent, Date: "01/06/2025"}, field: "date"},
		{name: "bad time", draft: Draft{Title: "x", Type: TypeEvent, Date: "2025-06-01", TimeOfDay: "25:00"}, field: "time"},
		{name: "unknown type", draft: Draft{Title: "x", Type: "podcast", Date: "2025-06-01"}, field: "type"},
		{
			name:  "unknown frequency",
			draft: Draft{Title: "x", Type: TypeEvent, Date: "2025-06-01", Recurrence: &Recurrence{Frequency: "hourly", Interval: 1}},
			field: "recurrence.frequency",
		},
		{
			name:  "zero interval",
			draft: Draft{Title: "x", Type: TypeEvent, Date: "2025-06-01", Recurrence: &Recurrence{Frequency: Daily}},
			field: "recurrence.interval",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Build(time.Now(), time.UTC)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestDraftPayloadPerType(t *testing.T) {
	t.Parallel()
	d := Draft{
		Title:       "Newsletter",
		Type:        TypeEmail,
		Date:        "2025-06-01",
		Subject:     "June news",
		Body:        "Hello church family",
		Description: "ignored for email",
		Location:    "ignored for email",
	}
	it, err := d.Build(time.Now(), time.UTC)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if it.Payload.Subject != "June news" || it.Payload.Body != "Hello church family" {
		t.Fatalf("unexpected email payload: %+v", it.Payload)
	}
	if it.Payload.Description != "" || it.Payload.Location != "" {
		t.Fatalf("email payload must drop event fields: %+v", it.Payload)
	}
}
