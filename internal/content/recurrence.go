package content

import "time"

// Frequency is the unit of a recurrence step.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Recurrence re-schedules an item after each successful publish.
// A nil End means the item recurs forever.
type Recurrence struct {
	Frequency Frequency  `json:"frequency"`
	Interval  int        `json:"interval"`
	End       *time.Time `json:"end,omitempty"`
}

func (r *Recurrence) Valid() bool {
	if r == nil {
		return true
	}
	switch r.Frequency {
	case Daily, Weekly, Monthly:
	default:
		return false
	}
	return r.Interval >= 1
}

// NextAfter computes the occurrence following from, preserving time-of-day.
// ok is false when the computed date falls past End (no successor).
func (r *Recurrence) NextAfter(from time.Time) (next time.Time, ok bool, err error) {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	switch r.Frequency {
	case Daily:
		next = from.AddDate(0, 0, interval)
	case Weekly:
		next = from.AddDate(0, 0, 7*interval)
	case Monthly:
		next = addMonthsClamped(from, interval)
	default:
		return time.Time{}, false, &FrequencyError{Frequency: string(r.Frequency)}
	}
	if r.End != nil && next.After(*r.End) {
		return next, false, nil
	}
	return next, true, nil
}

// addMonthsClamped advances by whole calendar months. When the target month
// has fewer days than the original day-of-month (Jan 31 + 1 month), the day
// is clamped to the last day of the target month instead of rolling over.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(months), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
