package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPublishTime is used when a draft omits the time of day.
const DefaultPublishTime = "09:00"

const dateLayout = "2006-01-02"

// Draft is a scheduling request as submitted by the admin panel.
// Date is "YYYY-MM-DD"; TimeOfDay is "HH:MM" and defaults to 09:00.
type Draft struct {
	Title     string
	Type      Type
	Date      string
	TimeOfDay string

	// Type-specific fields; only the ones matching Type are kept.
	Description string
	Location    string
	Preacher    string
	AudioURL    string
	Subject     string
	Body        string

	Recurrence *Recurrence
}

// Build validates the draft and constructs a new scheduled Item.
// No state is mutated on error.
func (d Draft) Build(now time.Time, loc *time.Location) (Item, error) {
	if loc == nil {
		loc = time.Local
	}
	if strings.TrimSpace(d.Title) == "" {
		return Item{}, &ValidationError{Field: "title"}
	}
	if !d.Type.Known() {
		return Item{}, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown content type %q", string(d.Type))}
	}
	if strings.TrimSpace(d.Date) == "" {
		return Item{}, &ValidationError{Field: "date"}
	}
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(d.Date), loc)
	if err != nil {
		return Item{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("expected YYYY-MM-DD, got %q", d.Date)}
	}
	tod := strings.TrimSpace(d.TimeOfDay)
	if tod == "" {
		tod = DefaultPublishTime
	}
	hour, minute, err := parseHHMM(tod)
	if err != nil {
		return Item{}, &ValidationError{Field: "time", Reason: err.Error()}
	}
	if d.Recurrence != nil && !d.Recurrence.Valid() {
		if d.Recurrence.Interval < 1 && d.Recurrence.Frequency.valid() {
			return Item{}, &ValidationError{Field: "recurrence.interval", Reason: "must be >= 1"}
		}
		return Item{}, &ValidationError{Field: "recurrence.frequency", Reason: fmt.Sprintf("unknown frequency %q", string(d.Recurrence.Frequency))}
	}

	when := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)

	it := Item{
		ID:           uuid.NewString(),
		Type:         d.Type,
		Title:        strings.TrimSpace(d.Title),
		Payload:      d.payload(),
		ScheduledFor: when,
		Status:       StatusScheduled,
		CreatedAt:    now,
	}
	if d.Recurrence != nil {
		r := *d.Recurrence
		it.Recurrence = &r
	}
	return it, nil
}

func (f Frequency) valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// payload keeps only the fields relevant to the draft's content type.
func (d Draft) payload() Payload {
	switch d.Type {
	case TypeEvent:
		return Payload{Description: d.Description, Location: d.Location}
	case TypeSermon:
		return Payload{Description: d.Description, Preacher: d.Preacher, AudioURL: d.AudioURL}
	case TypeEmail:
		return Payload{Subject: d.Subject, Body: d.Body}
	default:
		return Payload{Description: d.Description, Body: d.Body}
	}
}

func parseHHMM(s string) (hour int, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
