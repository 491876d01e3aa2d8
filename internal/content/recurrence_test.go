package content

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNextAfterVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rec  Recurrence
		from time.Time
		want time.Time
	}{
		{name: "daily", rec: Recurrence{Frequency: Daily, Interval: 1}, from: date(2025, 6, 1, 9, 0), want: date(2025, 6, 2, 9, 0)},
		{name: "daily interval 3", rec: Recurrence{Frequency: Daily, Interval: 3}, from: date(2025, 6, 1, 9, 0), want: date(2025, 6, 4, 9, 0)},
		{name: "weekly", rec: Recurrence{Frequency: Weekly, Interval: 1}, from: date(2025, 6, 1, 10, 30), want: date(2025, 6, 8, 10, 30)},
		{name: "weekly interval 2", rec: Recurrence{Frequency: Weekly, Interval: 2}, from: date(2025, 6, 1, 10, 30), want: date(2025, 6, 15, 10, 30)},
		{name: "monthly", rec: Recurrence{Frequency: Monthly, Interval: 1}, from: date(2025, 6, 1, 9, 0), want: date(2025, 7, 1, 9, 0)},
		{name: "monthly clamp jan31", rec: Recurrence{Frequency: Monthly, Interval: 1}, from: date(2025, 1, 31, 9, 0), want: date(2025, 2, 28, 9, 0)},
		{name: "monthly clamp leap year", rec: Recurrence{Frequency: Monthly, Interval: 1}, from: date(2024, 1, 31, 9, 0), want: date(2024, 2, 29, 9, 0)},
		{name: "monthly clamp may31 to jun30", rec: Recurrence{Frequency: Monthly, Interval: 1}, from: date(2025, 5, 31, 14, 0), want: date(2025, 6, 30, 14, 0)},
		{name: "monthly across year", rec: Recurrence{Frequency: Monthly, Interval: 2}, from: date(2025, 11, 30, 9, 0), want: date(2026, 1, 30, 9, 0)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := tt.rec.NextAfter(tt.from)
			if err != nil {
				t.Fatalf("NextAfter error: %v", err)
			}
			if !ok {
				t.Fatal("expected ok=true without end date")
			}
			if !got.Equal(tt.want) {
				t.Fatalf("NextAfter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextAfterEndDate(t *testing.T) {
	t.Parallel()
	end := date(2025, 6, 15, 0, 0)
	rec := Recurrence{Frequency: Monthly, Interval: 1, End: &end}
	next, ok, err := rec.NextAfter(date(2025, 6, 1, 9, 0))
	if err != nil {
		t.Fatalf("NextAfter error: %v", err)
	}
	if ok {
		t.Fatalf("expected no successor past end date, got %v", next)
	}

	// Landing exactly on the end date still yields a successor.
	end2 := date(2025, 6, 8, 10, 0)
	rec2 := Recurrence{Frequency: Weekly, Interval: 1, End: &end2}
	next2, ok2, err := rec2.NextAfter(date(2025, 6, 1, 10, 0))
	if err != nil {
		t.Fatalf("NextAfter error: %v", err)
	}
	if !ok2 || !next2.Equal(end2) {
		t.Fatalf("expected successor on end date, got %v ok=%v", next2, ok2)
	}
}

func TestNextAfterUnknownFrequency(t *testing.T) {
	t.Parallel()
	rec := Recurrence{Frequency: "fortnightly", Interval: 1}
	_, _, err := rec.NextAfter(date(2025, 6, 1, 9, 0))
	var fe *FrequencyError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FrequencyError, got %v", err)
	}
}

func TestSuccessorResetsLifecycle(t *testing.T) {
	t.Parallel()
	published := date(2025, 6, 1, 9, 0)
	it := Item{
		ID:           "orig",
		Type:         TypeSermon,
		Title:        "Sunday Message",
		ScheduledFor: published,
		Status:       StatusPublished,
		PublishedAt:  &published,
		Recurrence:   &Recurrence{Frequency: Weekly, Interval: 1},
	}
	now := date(2025, 6, 1, 9, 1)
	succ := it.Successor(date(2025, 6, 8, 9, 0), now)

	if succ.ID == it.ID || succ.ID == "" {
		t.Fatalf("successor must get a fresh id, got %q", succ.ID)
	}
	if succ.Status != StatusScheduled {
		t.Fatalf("successor status = %s, want scheduled", succ.Status)
	}
	if succ.PublishedAt != nil {
		t.Fatal("successor must not carry publishedAt")
	}
	if !succ.CreatedAt.Equal(now) {
		t.Fatalf("successor createdAt = %v, want %v", succ.CreatedAt, now)
	}
	if succ.Recurrence == nil || succ.Recurrence == it.Recurrence {
		t.Fatal("successor must deep-copy the recurrence rule")
	}
}
