package scheduler

import (
	"time"

	"hotelac/internal/hvac"
	"hotelac/internal/journal"
	"hotelac/internal/numeric"
	"hotelac/internal/room"
)

// admitToServing moves id into the serving queue, resets its service
// timer, and opens a journal record tagged op.
func (s *Scheduler) admitToServing(id int, now time.Time, op journal.OperationType) {
	r := s.rooms.Get(id)
	r.State = hvac.PowerServing
	s.serving.Push(id)
	s.serviceTimer.Create(id)
	s.serviceTimer.Reset(id)
	s.minuteStart[id] = r.CurrentTemp
	s.openNewRecord(id, now, op)
}

// admitToWaiting moves id into the waiting queue, evicting the
// lowest-priority waiting room to paused first if the queue is full
// (spec.md §4.3 edge case, §7 kind 3).
func (s *Scheduler) admitToWaiting(id int) {
	r := s.rooms.Get(id)
	r.State = hvac.PowerWaiting
	s.pushWaitingWithEviction(id)
	s.waitTimer.Create(id)
	s.waitTimer.Reset(id)
}

// demoteToWaiting removes a serving room, closes its open record, and
// places it back in the waiting queue (spec.md §4.5 step 2's victim
// handling).
func (s *Scheduler) demoteToWaiting(id int, now time.Time) {
	s.serving.Pop(id)
	s.serviceTimer.Remove(id)
	delete(s.minuteStart, id)
	s.closeOpenRecord(id, now)

	r := s.rooms.Get(id)
	r.State = hvac.PowerWaiting
	s.pushWaitingWithEviction(id)
	s.waitTimer.Create(id)
	s.waitTimer.Reset(id)
}

// pushWaitingWithEviction pushes id onto the waiting queue, evicting the
// lowest-priority current member to paused first if there is no slot.
func (s *Scheduler) pushWaitingWithEviction(id int) {
	if s.waiting.Push(id) {
		return
	}
	if victim, ok := s.waiting.Lowest(); ok {
		s.evictWaitingToPaused(victim)
	}
	s.waiting.Push(id)
}

// evictWaitingToPaused removes a waiting room and transitions it to
// paused, preserving its ownership of the plant without a slot in either
// queue (spec.md §7 kind 3).
func (s *Scheduler) evictWaitingToPaused(id int) {
	s.waiting.Pop(id)
	s.waitTimer.Remove(id)
	r := s.rooms.Get(id)
	r.State = hvac.PowerPaused
}

// findPreemptionVictim implements spec.md §4.5 step 2's victim rule:
// among serving rooms with strictly lower fan speed than newSpeed, pick
// the single one if unique; break ties at the same lowest speed by
// longest time-in-service; across different lower speeds, prefer the
// lowest speed.
func (s *Scheduler) findPreemptionVictim(newSpeed hvac.Speed) (int, bool) {
	var (
		victim      int
		victimSpeed hvac.Speed
		victimTime  int
		found       bool
	)
	for _, id := range s.serving.Members() {
		r := s.rooms.Get(id)
		if r.Speed >= newSpeed {
			continue
		}
		t := s.serviceTimer.Get(id)
		switch {
		case !found:
			victim, victimSpeed, victimTime, found = id, r.Speed, t, true
		case r.Speed < victimSpeed:
			victim, victimSpeed, victimTime = id, r.Speed, t
		case r.Speed == victimSpeed && t > victimTime:
			victim, victimTime = id, t
		}
	}
	return victim, found
}

// closeOpenRecord closes id's currently-open journal record, if any.
func (s *Scheduler) closeOpenRecord(id int, now time.Time) {
	recID, ok := s.openRecord[id]
	if !ok {
		return
	}
	if err := s.journal.UpdateCostAndMaybeEnd(recID, 0, &now); err != nil {
		logJournalFailure("close record", id, err)
	}
	delete(s.openRecord, id)
}

// openNewRecord opens a journal record for id tagged op and tracks it as
// the room's open record.
func (s *Scheduler) openNewRecord(id int, now time.Time, op journal.OperationType) {
	r := s.rooms.Get(id)
	recID, err := s.journal.CreateRecord(id, now, r.Mode.String(), r.Speed.String(), r.TargetTemp, s.cfg.FeeRate, op)
	if err != nil {
		logJournalFailure("open record", id, err)
		return
	}
	s.openRecord[id] = recID
}

// recordZeroDuration writes a closed, zero-duration marker record — used
// for events that note something (a speed bump re-sort, a target-temp
// change) without opening or closing the room's real service segment.
func (s *Scheduler) recordZeroDuration(id int, now time.Time, op journal.OperationType) {
	r := s.rooms.Get(id)
	recID, err := s.journal.CreateRecord(id, now, r.Mode.String(), r.Speed.String(), r.TargetTemp, s.cfg.FeeRate, op)
	if err != nil {
		logJournalFailure("mark event", id, err)
		return
	}
	if err := s.journal.UpdateCostAndMaybeEnd(recID, 0, &now); err != nil {
		logJournalFailure("close marker", id, err)
	}
}

// admissionFromState reports a no-op operation's current observable
// state, spec.md §7 kind 2's "return current state" for inapplicable
// operations.
func (s *Scheduler) admissionFromState(r *room.Room) Admission {
	return Admission{RoomID: r.ID, State: r.State.String()}
}

// servingAdmission is the full serve-admission shape (spec.md §6.2).
func (s *Scheduler) servingAdmission(r *room.Room) Admission {
	total, err := s.journal.SumForRoom(r.ID)
	if err != nil {
		logJournalFailure("sum for room", r.ID, err)
		total = r.Cost
	}
	return Admission{
		RoomID:     r.ID,
		State:      hvac.PowerServing.String(),
		Mode:       r.Mode.String(),
		TargetTemp: r.TargetTemp,
		CurrentFee: 0,
		TotalFee:   numeric.Round2(total),
	}
}
