package content

import "fmt"

// ValidationError rejects a scheduling request before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid draft: field %q is required", e.Field)
	}
	return fmt.Sprintf("invalid draft: field %q: %s", e.Field, e.Reason)
}

// FrequencyError reports a recurrence rule whose frequency is not one of
// daily/weekly/monthly. It is a configuration problem, not a publish failure.
type FrequencyError struct {
	Frequency string
}

func (e *FrequencyError) Error() string {
	return fmt.Sprintf("unknown recurrence frequency %q", e.Frequency)
}
