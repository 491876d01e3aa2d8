package scheduler

import (
	"time"

	"parishpress/internal/content"
)

// Snapshot returns a point-in-time view of the scheduler for status output.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	cfg := s.cfg
	loc := s.loc
	c := s.c
	tickID := s.tickID
	lastScan := s.lastScan
	lastDue := s.lastScanDue
	started := s.started
	items := s.copyItemsLocked()
	s.mu.Unlock()

	tz := cfg.Timezone
	if tz == "" && loc != nil {
		tz = loc.String()
	}

	byStatus := map[content.Status]int{}
	infos := make([]ItemInfo, 0, len(items))
	for _, it := range items {
		byStatus[it.Status]++
		infos = append(infos, ItemInfo{
			ID:           it.ID,
			Title:        it.Title,
			Type:         it.Type,
			Status:       it.Status,
			ScheduledFor: it.ScheduledFor,
			Recurring:    it.Recurrence != nil,
		})
	}

	var nextTick time.Time
	if c != nil && tickID != 0 {
		nextTick = c.Entry(tickID).Next
	}

	return Snapshot{
		Enabled:      cfg.Enabled,
		Timezone:     tz,
		TickSpec:     cfg.TickSpec,
		NextTick:     nextTick,
		LastScan:     lastScan,
		LastScanDue:  lastDue,
		ScansStarted: started,
		ScansSkipped: s.skipped.Load(),
		ByStatus:     byStatus,
		Items:        infos,
	}
}
