// Package scheduler owns the list of scheduled content items and publishes
// the ones that come due.
//
// # Overview
//
// Items are created through Schedule, persisted as a whole list, and scanned
// periodically by CheckDue. A due item (status "scheduled", publish time at or
// before the scan time) is dispatched to the publisher registered for its
// content type. Success moves it to "published" and, for recurring items,
// appends a successor one recurrence step later. Failure moves it to "failed"
// without affecting the rest of the scan.
//
// # Tick
//
// The periodic scan is driven by robfig/cron. The tick spec accepts cron
// expressions, descriptors ("@hourly"), and "@every" intervals; the default
// is one scan per minute.
//
// # Concurrency
//
// Operations serialize on one mutex: a scan runs to completion (including
// publisher calls) before any mutating operation observes state, because the
// unit of persistence is the complete list. An overlapping tick is skipped
// via a re-entrancy flag rather than queued.
package scheduler
