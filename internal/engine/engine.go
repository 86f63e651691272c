// Package engine implements the thermal/billing step (spec.md §4.4): a
// pure, per-room, per-second update of temperature and cost. It never
// touches the room store, timers, or queues directly — it is invoked by
// the scheduler once per room per simulated second and returns what
// changed, leaving all bookkeeping (queue membership, journal writes) to
// the caller.
package engine

import (
	"math"

	"hotelac/internal/hvac"
	"hotelac/internal/numeric"
	"hotelac/internal/room"
)

// snapTolerance is how close current must be to target to count as
// "reached" (spec.md §3, §4.4).
const snapTolerance = 0.005

// releaseTolerance is the drift-past-target distance that releases a
// paused room back to waiting (spec.md §4.4), with its own tolerance.
const (
	releaseDistance  = 1.0
	releaseTolerance = 0.001
)

// Transition is a state change the engine asks the caller to apply. The
// engine itself never mutates queue/timer state — spec.md keeps that
// responsibility with the scheduler.
type Transition int

const (
	NoTransition Transition = iota
	ToPaused
	ToWaiting
)

// Result is one second's worth of change to a room.
type Result struct {
	Temp       float64
	Cost       float64
	Transition Transition
}

// Step advances r by one simulated second at the given fee rate (monetary
// units per degree of actual serving temperature change). r is read, not
// mutated — the caller applies Temp/Cost to the room and acts on
// Transition.
func Step(r *room.Room, feeRate float64) Result {
	switch r.State {
	case hvac.PowerOff:
		return stepOff(r)
	case hvac.PowerWaiting:
		return Result{Temp: r.CurrentTemp}
	case hvac.PowerPaused:
		return stepPaused(r)
	case hvac.PowerServing:
		return stepServing(r, feeRate)
	default:
		return Result{Temp: r.CurrentTemp}
	}
}

// stepOff drifts current temperature toward the room's initial
// temperature at the standard drift rate, billing nothing.
func stepOff(r *room.Room) Result {
	temp := driftToward(r.CurrentTemp, r.InitialTemp, hvac.DriftDegreesPerSecond())
	temp = numeric.Round3(temp)
	if numeric.Within(temp, r.InitialTemp, snapTolerance) {
		temp = r.InitialTemp
	}
	return Result{Temp: temp}
}

// stepPaused drifts away from target at the standard drift rate — warmer
// for cooling rooms, cooler for heating rooms — and reports ToWaiting
// once the room has drifted a full degree past target.
func stepPaused(r *room.Room) Result {
	rate := hvac.DriftDegreesPerSecond()
	var temp float64
	if r.Mode == hvac.ModeCooling {
		temp = r.CurrentTemp + rate
	} else {
		temp = r.CurrentTemp - rate
	}
	temp = numeric.Round3(temp)

	res := Result{Temp: temp}
	if r.Mode == hvac.ModeCooling {
		if temp >= r.TargetTemp+releaseDistance-releaseTolerance {
			res.Transition = ToWaiting
		}
	} else {
		if temp <= r.TargetTemp-releaseDistance+releaseTolerance {
			res.Transition = ToWaiting
		}
	}
	return res
}

// stepServing moves current temperature toward target at the room's fan
// speed rate and bills the actual change. It handles two special cases:
// a room already on the far side of target from where serving would take
// it (bills nothing, drifts instead), and reaching target exactly or
// within tolerance (snaps and transitions to paused).
func stepServing(r *room.Room, feeRate float64) Result {
	pastTarget := (r.Mode == hvac.ModeCooling && r.CurrentTemp < r.TargetTemp) ||
		(r.Mode == hvac.ModeHeating && r.CurrentTemp > r.TargetTemp)
	if pastTarget {
		res := stepPaused(r)
		res.Transition = ToPaused
		return res
	}

	rate := r.Speed.DegreesPerSecond()
	var temp float64
	if r.Mode == hvac.ModeCooling {
		temp = r.CurrentTemp - rate
		if temp <= r.TargetTemp {
			temp = r.TargetTemp
		}
	} else {
		temp = r.CurrentTemp + rate
		if temp >= r.TargetTemp {
			temp = r.TargetTemp
		}
	}
	temp = numeric.Round3(temp)
	cost := rate * feeRate

	res := Result{Temp: temp, Cost: cost}
	if numeric.Within(temp, r.TargetTemp, snapTolerance) {
		res.Temp = r.TargetTemp
		res.Transition = ToPaused
	}
	return res
}

func driftToward(current, target, rate float64) float64 {
	switch {
	case current > target:
		if next := current - rate; next >= target {
			return next
		}
		return target
	case current < target:
		if next := current + rate; next <= target {
			return next
		}
		return target
	default:
		return current
	}
}

// MinuteAlign applies spec.md §4.4's minute-alignment rounding. It
// compares the absolute change since minuteStart to the same change after
// rounding current to one decimal, and returns the cost adjustment (in
// monetary units) needed to keep billing consistent with the displayed
// temperature. billed reports whether the room should be billed at all
// (only serving rooms are).
func MinuteAlign(currentTemp, minuteStart, feeRate float64, billed bool) (roundedTemp float64, costAdjustment float64) {
	roundedTemp = numeric.Round1(currentTemp)
	if !billed {
		return roundedTemp, 0
	}
	actualChange := math.Abs(currentTemp - minuteStart)
	roundedChange := math.Abs(roundedTemp - minuteStart)
	return roundedTemp, numeric.Round2((roundedChange - actualChange) * feeRate)
}
