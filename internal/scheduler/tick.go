package scheduler

import (
	"time"

	"hotelac/internal/engine"
	"hotelac/internal/hvac"
	"hotelac/internal/journal"
	"hotelac/internal/numeric"
)

// Tick runs delta simulated seconds (spec.md §4.5 tick(Δ)): timers
// advance, the engine updates every room, state transitions are applied,
// queues are rebalanced, and the journal is kept current.
func (s *Scheduler) Tick(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < delta; i++ {
		s.tickOneSecond()
	}
}

func (s *Scheduler) tickOneSecond() {
	now := time.Now()

	// 1. advance timers; service-time tie-breaks shift uniformly, so a
	// resort is cheap insurance even though ticking alone can't change
	// relative order.
	s.serviceTimer.Tick(1)
	s.waitTimer.Tick(1)
	s.serving.Resort()

	// 2. snapshot pre-tick state.
	before := make(map[int]hvac.PowerState, len(s.rooms.All()))
	for _, r := range s.rooms.All() {
		before[r.ID] = r.State
	}

	// 3. run the engine for every room.
	for _, r := range s.rooms.All() {
		wasServing := r.State == hvac.PowerServing
		result := engine.Step(r, s.cfg.FeeRate)
		r.CurrentTemp = result.Temp
		if wasServing {
			r.Cost += result.Cost
			if recID, ok := s.openRecord[r.ID]; ok {
				if err := s.journal.UpdateCostAndMaybeEnd(recID, result.Cost, nil); err != nil {
					logJournalFailure("bill tick", r.ID, err)
				}
			}
		}

		switch result.Transition {
		case engine.ToPaused:
			r.State = hvac.PowerPaused
		case engine.ToWaiting:
			r.State = hvac.PowerWaiting
			s.pushWaitingWithEviction(r.ID)
			s.waitTimer.Create(r.ID)
			s.waitTimer.Reset(r.ID)
		}
	}

	// 4. minute alignment, every 60th simulated second.
	s.minuteCounter++
	if s.minuteCounter == 60 {
		s.minuteCounter = 0
		s.alignMinute()
	}

	// 5. rooms that left serving this second lose their slot, journal
	// record, and service timer.
	for _, r := range s.rooms.All() {
		if before[r.ID] == hvac.PowerServing && r.State != hvac.PowerServing {
			s.serving.Pop(r.ID)
			s.serviceTimer.Remove(r.ID)
			delete(s.minuteStart, r.ID)
			s.closeOpenRecord(r.ID, now)
		}
	}

	// 6. refill from waiting while a slot is open.
	for s.serving.HasSlot() {
		members := s.waiting.Members()
		if len(members) == 0 {
			break
		}
		id := members[0]
		s.waiting.Pop(id)
		s.waitTimer.Remove(id)
		s.admitToServing(id, now, journal.OpQueueFill)
	}

	// 7. at most one time-slice rotation per second.
	s.rotateTimeSlice(now)
}

// alignMinute applies spec.md §4.4's per-60-tick rounding: the
// temperature display snaps to one decimal and billed cost is adjusted
// by the difference rounding introduced, keeping the two consistent. A
// serving room whose rounded temperature lands on target is paused.
func (s *Scheduler) alignMinute() {
	for _, r := range s.rooms.All() {
		start, ok := s.minuteStart[r.ID]
		if !ok {
			start = r.CurrentTemp
		}
		billed := r.State == hvac.PowerServing
		roundedTemp, adjustment := engine.MinuteAlign(r.CurrentTemp, start, s.cfg.FeeRate, billed)
		r.CurrentTemp = roundedTemp
		if billed && adjustment != 0 {
			r.Cost = numeric.Round2(r.Cost + adjustment)
			if recID, ok := s.openRecord[r.ID]; ok {
				if err := s.journal.UpdateCostAndMaybeEnd(recID, adjustment, nil); err != nil {
					logJournalFailure("minute align", r.ID, err)
				}
			}
		} else {
			r.Cost = numeric.Round2(r.Cost)
		}
		if billed && numeric.Within(r.CurrentTemp, r.TargetTemp, 0.005) {
			// step 5 releases its slot, record and service timer.
			r.CurrentTemp = r.TargetTemp
			r.State = hvac.PowerPaused
		}
		s.minuteStart[r.ID] = r.CurrentTemp
	}
}

// rotateTimeSlice implements spec.md §4.5 step 7: only when serving is
// full and waiting is non-empty, for each fan speed present in serving,
// swap the longest-served room at that speed with a same-speed waiting
// room that has waited at least one time slice.
func (s *Scheduler) rotateTimeSlice(now time.Time) {
	if s.serving.HasSlot() || s.waiting.Len() == 0 {
		return
	}

	speeds := map[hvac.Speed]bool{}
	for _, id := range s.serving.Members() {
		speeds[s.rooms.Get(id).Speed] = true
	}

	for speed := range speeds {
		waitingCandidate, ok := s.highestPriorityWaitingAtSpeed(speed)
		if !ok {
			continue
		}
		if s.waitTimer.Get(waitingCandidate) < s.cfg.TimeSliceSeconds {
			continue
		}
		servingVictim, ok := s.longestServingAtSpeed(speed)
		if !ok {
			continue
		}

		s.serving.Pop(servingVictim)
		s.serviceTimer.Remove(servingVictim)
		delete(s.minuteStart, servingVictim)
		s.closeOpenRecord(servingVictim, now)
		s.rooms.Get(servingVictim).State = hvac.PowerWaiting
		s.waitTimer.Create(servingVictim)
		s.waitTimer.Reset(servingVictim)
		s.pushWaitingWithEviction(servingVictim)

		s.waiting.Pop(waitingCandidate)
		s.waitTimer.Remove(waitingCandidate)
		s.admitToServing(waitingCandidate, now, journal.OpServingResume)
		return // at most one rotation per tick
	}
}

func (s *Scheduler) highestPriorityWaitingAtSpeed(speed hvac.Speed) (int, bool) {
	for _, id := range s.waiting.Members() {
		if s.rooms.Get(id).Speed == speed {
			return id, true
		}
	}
	return 0, false
}

func (s *Scheduler) longestServingAtSpeed(speed hvac.Speed) (int, bool) {
	var (
		victim  int
		longest int
		found   bool
	)
	for _, id := range s.serving.Members() {
		if s.rooms.Get(id).Speed != speed {
			continue
		}
		t := s.serviceTimer.Get(id)
		if !found || t > longest {
			victim, longest, found = id, t, true
		}
	}
	return victim, found
}
