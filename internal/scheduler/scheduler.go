// Package scheduler reconciles the three drifted scheduler copies this
// repository's teacher carried (internal/ac, internal/service,
// internal/scheduler) into the single design spec.md §4.5 describes: one
// authoritative, single-writer scheduler driving the Room Store, Queues,
// Timers, Engine and Journal.
package scheduler

import (
	"sync"
	"time"

	"hotelac/config"
	"hotelac/internal/clock"
	"hotelac/internal/hvac"
	"hotelac/internal/journal"
	"hotelac/internal/logger"
	"hotelac/internal/numeric"
	"hotelac/internal/queue"
	"hotelac/internal/room"
)

// Scheduler is the single authoritative mutator of scheduler state
// (spec.md §5: single-writer, many-reader). Every exported method takes
// the same mutex, so external callers never need their own locking.
type Scheduler struct {
	cfg config.Config

	mu sync.Mutex

	rooms *room.Store

	serviceTimer *clock.Timer
	waitTimer    *clock.Timer

	serving *queue.Queue
	waiting *queue.Queue

	journal journal.Journal

	// openRecord maps a room id to its currently-open journal record, if
	// any (spec.md §3: "at most one open record per room at a time").
	openRecord map[int]int64

	// minuteStart is the temperature recorded at the start of the
	// current minute, used by minute alignment (spec.md §4.4).
	minuteStart map[int]float64

	// minuteCounter counts simulated seconds 0..59 within the current
	// minute.
	minuteCounter int
}

// New builds a scheduler with cfg.RoomCount rooms, all powered off.
func New(cfg config.Config, j journal.Journal) *Scheduler {
	s := &Scheduler{
		cfg:          cfg,
		rooms:        room.NewStore(cfg.RoomCount, cfg.InitialTemp),
		serviceTimer: clock.New(),
		waitTimer:    clock.New(),
		journal:      j,
		openRecord:   make(map[int]int64),
		minuteStart:  make(map[int]float64),
	}
	s.serving = queue.New(cfg.ServingCapacity, s.servingLess)
	s.waiting = queue.New(cfg.WaitingCapacity, s.waitingLess)
	return s
}

// servingLess orders the serving queue by fan speed descending, then
// longest time-in-service first (spec.md §3).
func (s *Scheduler) servingLess(a, b int) bool {
	ra, rb := s.rooms.Get(a), s.rooms.Get(b)
	if ra.Speed != rb.Speed {
		return ra.Speed > rb.Speed
	}
	return s.serviceTimer.Get(a) > s.serviceTimer.Get(b)
}

// waitingLess orders the waiting queue by fan speed descending, then
// longest time-in-wait first (spec.md §3).
func (s *Scheduler) waitingLess(a, b int) bool {
	ra, rb := s.rooms.Get(a), s.rooms.Get(b)
	if ra.Speed != rb.Speed {
		return ra.Speed > rb.Speed
	}
	return s.waitTimer.Get(a) > s.waitTimer.Get(b)
}

// PowerOn implements spec.md §4.5 powerOn.
func (s *Scheduler) PowerOn(id int, currentTemp float64, mode hvac.Mode) Admission {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()

	r := s.rooms.Get(id)
	if r.State != hvac.PowerOff {
		return s.admissionFromState(r)
	}

	r.Mode = mode
	r.CurrentTemp = numeric.Round3(currentTemp)
	if r.TargetTemp == 0 {
		r.TargetTemp = s.cfg.DefaultTargetTemp
	}
	r.Speed = hvac.SpeedMedium

	if s.serving.HasSlot() {
		s.admitToServing(id, now, journal.OpPowerOn)
		return s.servingAdmission(r)
	}

	if victim, ok := s.findPreemptionVictim(r.Speed); ok {
		s.demoteToWaiting(victim, now)
		s.admitToServing(id, now, journal.OpPriorityReplace)
		return s.servingAdmission(r)
	}

	s.admitToWaiting(id)
	return Admission{RoomID: id, State: hvac.PowerWaiting.String()}
}

// ChangeSpeed implements spec.md §4.5 changeSpeed.
func (s *Scheduler) ChangeSpeed(id int, newSpeed hvac.Speed) ChangeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	r := s.rooms.Get(id)

	switch {
	case s.serving.Contains(id):
		old := r.Speed
		r.Speed = newSpeed
		s.serving.Resort()
		if newSpeed != old {
			s.closeOpenRecord(id, now)
			s.openNewRecord(id, now, journal.OpSpeedChange)
		}
		if newSpeed > old {
			// No victim search against the room's own slot — it is
			// already serving. This only re-establishes priority and
			// records the adjustment (spec.md §4's speed-adjust-priority
			// supplement).
			s.recordZeroDuration(id, now, journal.OpSpeedAdjustPriority)
		}
		return ChangeResult{OK: "SOk"}

	case s.waiting.Contains(id):
		old := r.Speed
		r.Speed = newSpeed
		if newSpeed > old {
			s.waiting.Resort()
			s.waitTimer.Reset(id)
		}
		if victim, ok := s.findPreemptionVictim(newSpeed); ok {
			// Free id's own waiting slot before the victim needs one —
			// id is about to leave the waiting queue for serving, so it
			// must never be the one evicted in its place.
			s.waiting.Pop(id)
			s.waitTimer.Remove(id)
			s.demoteToWaiting(victim, now)
			s.admitToServing(id, now, journal.OpPriorityReplace)
		}
		return ChangeResult{OK: "SOk"}

	default:
		// Not in either queue: speed change doesn't apply (spec.md §4.5
		// "otherwise, return the room's current state (no-op)").
		return ChangeResult{RoomID: r.ID, State: r.State.String()}
	}
}

// ChangeTemperature implements spec.md §4.5 changeTemperature.
func (s *Scheduler) ChangeTemperature(id int, newTarget float64) ChangeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rooms.Get(id)

	switch r.State {
	case hvac.PowerServing, hvac.PowerWaiting, hvac.PowerPaused:
		r.TargetTemp = newTarget
		s.recordZeroDuration(id, time.Now(), journal.OpTempChange)
		return ChangeResult{OK: "SOk"}
	default:
		return ChangeResult{RoomID: r.ID, State: r.State.String()}
	}
}

// PowerOff implements spec.md §4.5 powerOff.
func (s *Scheduler) PowerOff(id int) PowerOffResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	r := s.rooms.Get(id)

	s.serving.Pop(id)
	s.waiting.Pop(id)
	s.serviceTimer.Remove(id)
	s.waitTimer.Remove(id)
	delete(s.minuteStart, id)

	var segmentCost float64
	if recID, ok := s.openRecord[id]; ok {
		if rec, err := s.journal.Get(recID); err == nil {
			segmentCost = rec.Cost
		}
		s.closeOpenRecord(id, now)
	}

	r.State = hvac.PowerOff

	total, err := s.journal.SumForRoom(id)
	if err != nil {
		logger.Error("scheduler: power off room %d: total lookup failed: %v", id, err)
		total = r.Cost
	}
	return PowerOffResult{
		RoomID:     id,
		State:      hvac.PowerOff.String(),
		CurrentFee: numeric.Round2(segmentCost),
		TotalFee:   numeric.Round2(total),
	}
}
