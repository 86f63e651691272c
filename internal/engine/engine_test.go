package engine

import (
	"testing"

	"hotelac/internal/hvac"
	"hotelac/internal/numeric"
	"hotelac/internal/room"
)

func newRoom(state hvac.PowerState, mode hvac.Mode, speed hvac.Speed, current, target float64) *room.Room {
	return &room.Room{
		ID:          1,
		InitialTemp: 30,
		CurrentTemp: current,
		Mode:        mode,
		TargetTemp:  target,
		Speed:       speed,
		State:       state,
	}
}

func TestStepServingMovesTowardTargetAndBills(t *testing.T) {
	r := newRoom(hvac.PowerServing, hvac.ModeCooling, hvac.SpeedHigh, 30.0, 25.0)
	res := Step(r, 1.0)

	wantDelta := hvac.SpeedHigh.DegreesPerSecond()
	wantTemp := numeric.Round3(30.0 - wantDelta)
	if res.Temp != wantTemp {
		t.Errorf("Temp = %v, want %v", res.Temp, wantTemp)
	}
	if res.Cost <= 0 {
		t.Errorf("Cost = %v, want > 0 while serving", res.Cost)
	}
	if res.Transition != NoTransition {
		t.Errorf("Transition = %v, want NoTransition", res.Transition)
	}
}

func TestStepServingSnapsAndTransitionsAtTarget(t *testing.T) {
	r := newRoom(hvac.PowerServing, hvac.ModeCooling, hvac.SpeedLow, 25.002, 25.0)
	res := Step(r, 1.0)

	if res.Temp != 25.0 {
		t.Errorf("Temp = %v, want snapped to 25.0", res.Temp)
	}
	if res.Transition != ToPaused {
		t.Errorf("Transition = %v, want ToPaused", res.Transition)
	}
	// Even though the remaining distance to target (0.002) is less than a
	// full second's nominal rate, the full rate is billed for this second
	// — only the displayed/stored temperature clamps to target.
	wantCost := hvac.SpeedLow.DegreesPerSecond() * 1.0
	if res.Cost < wantCost-0.005 || res.Cost > wantCost+0.005 {
		t.Errorf("Cost = %v, want ~%v (full nominal rate, not the clamped remainder)", res.Cost, wantCost)
	}
}

func TestStepServingPastTargetDoesNotBill(t *testing.T) {
	// Cooling room already below target: the past-target edge case.
	r := newRoom(hvac.PowerServing, hvac.ModeCooling, hvac.SpeedHigh, 24.0, 25.0)
	res := Step(r, 1.0)

	if res.Cost != 0 {
		t.Errorf("Cost = %v, want 0 for a room already past target", res.Cost)
	}
	if res.Transition != ToPaused {
		t.Errorf("Transition = %v, want ToPaused", res.Transition)
	}
}

func TestStepWaitingFreezesTemperature(t *testing.T) {
	r := newRoom(hvac.PowerWaiting, hvac.ModeCooling, hvac.SpeedMedium, 28.0, 25.0)
	res := Step(r, 1.0)

	if res.Temp != 28.0 {
		t.Errorf("Temp = %v, want unchanged while waiting", res.Temp)
	}
	if res.Cost != 0 {
		t.Errorf("Cost = %v, want 0 while waiting", res.Cost)
	}
}

func TestStepPausedDriftsAwayAndReleases(t *testing.T) {
	r := newRoom(hvac.PowerPaused, hvac.ModeCooling, hvac.SpeedMedium, 25.5, 25.0)
	res := Step(r, 1.0)
	if res.Temp <= 25.5 {
		t.Errorf("Temp = %v, want drift above 25.5", res.Temp)
	}
	if res.Transition == ToWaiting {
		t.Fatal("should not release this early")
	}

	r2 := newRoom(hvac.PowerPaused, hvac.ModeCooling, hvac.SpeedMedium, 25.995, 25.0)
	res2 := Step(r2, 1.0)
	if res2.Transition != ToWaiting {
		t.Errorf("Transition = %v, want ToWaiting once a degree past target", res2.Transition)
	}
}

func TestStepOffDriftsTowardInitial(t *testing.T) {
	r := newRoom(hvac.PowerOff, hvac.ModeCooling, hvac.SpeedMedium, 25.0, 25.0)
	r.InitialTemp = 30.0
	res := Step(r, 1.0)
	if res.Temp <= 25.0 {
		t.Errorf("Temp = %v, want drift toward initial (30.0)", res.Temp)
	}
	if res.Cost != 0 {
		t.Errorf("Cost = %v, want 0 while off", res.Cost)
	}
}

func TestMinuteAlignAdjustsBilledCostOnly(t *testing.T) {
	roundedTemp, adjustment := MinuteAlign(24.97, 25.0, 1.0, true)
	if roundedTemp != 25.0 {
		t.Errorf("roundedTemp = %v, want 25.0", roundedTemp)
	}
	if adjustment == 0 {
		t.Errorf("adjustment should be nonzero when rounding changes the billed delta")
	}

	_, unbilledAdjustment := MinuteAlign(24.97, 25.0, 1.0, false)
	if unbilledAdjustment != 0 {
		t.Errorf("unbilled rooms should never carry a cost adjustment, got %v", unbilledAdjustment)
	}
}
