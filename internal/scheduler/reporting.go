package scheduler

import (
	"hotelac/internal/hvac"
	"hotelac/internal/journal"
	"hotelac/internal/logger"
	"hotelac/internal/numeric"
)

func logJournalFailure(action string, roomID int, err error) {
	logger.Error("scheduler: %s room %d failed: %v (continuing; in-memory state remains authoritative)", action, roomID, err)
}

// Status returns a full observation of one room (spec.md §4.5
// Observation/reporting operations).
func (s *Scheduler) Status(id int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rooms.Get(id)
	return Status{
		RoomID:          r.ID,
		Mode:            r.Mode.String(),
		TargetTemp:      r.TargetTemp,
		CurrentTemp:     numeric.Round2(r.CurrentTemp),
		FanSpeed:        r.Speed.String(),
		State:           r.State.String(),
		AccumulatedCost: numeric.Round2(r.Cost),
		ServiceSeconds:  s.serviceTimer.Get(id),
		WaitSeconds:     s.waitTimer.Get(id),
	}
}

// AllStatus returns every room's observation, ordered by room id.
func (s *Scheduler) AllStatus() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Status, 0, len(s.rooms.All()))
	for _, r := range s.rooms.All() {
		out = append(out, Status{
			RoomID:          r.ID,
			Mode:            r.Mode.String(),
			TargetTemp:      r.TargetTemp,
			CurrentTemp:     numeric.Round2(r.CurrentTemp),
			FanSpeed:        r.Speed.String(),
			State:           r.State.String(),
			AccumulatedCost: numeric.Round2(r.Cost),
			ServiceSeconds:  s.serviceTimer.Get(r.ID),
			WaitSeconds:     s.waitTimer.Get(r.ID),
		})
	}
	return out
}

// QueuePosition reports id's 1-based waiting position, or its current
// state if it isn't waiting (spec.md §6.2).
func (s *Scheduler) QueuePosition(id int) QueuePosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rooms.Get(id)
	if r.State != hvac.PowerWaiting {
		return QueuePosition{State: r.State.String()}
	}
	return QueuePosition{State: "wait", ListNumber: s.waiting.PositionOf(id)}
}

// Bill returns every journal entry for id, ordered by id ascending
// (spec.md §4.5 Observation: "per-room bill (totals + journal entries)").
func (s *Scheduler) Bill(id int) ([]journal.Record, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.journal.ListForRoom(id)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.journal.SumForRoom(id)
	if err != nil {
		return entries, 0, err
	}
	return entries, numeric.Round2(total), nil
}

// SummaryTotals returns the plant-wide cost total across every room.
func (s *Scheduler) SummaryTotals() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, err := s.journal.SumAll()
	if err != nil {
		return Summary{}, err
	}
	return Summary{TotalCost: numeric.Round2(total), RoomCount: len(s.rooms.All())}, nil
}
