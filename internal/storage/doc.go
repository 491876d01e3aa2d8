package storage

// Package storage persists the scheduled-item list.
//
// The whole list is the unit of persistence: every mutation is written back
// as a complete replace. At tens to low hundreds of items this stays cheap
// and rules out partial-update inconsistency.
//
// Drivers:
//   - "memory": process-local only (default when storage is not configured)
//   - "file":   single JSON document, atomic tmp+rename replace
//   - "sqlite": SQLite database file, replace inside one transaction
