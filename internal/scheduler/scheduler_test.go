package scheduler

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelac/config"
	"hotelac/internal/hvac"
	"hotelac/internal/journal"
	"hotelac/internal/logger"
)

func init() {
	logger.SetLevel(logger.DebugLevel)
	if f, err := os.OpenFile("scheduler_test.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		logger.SetOutput(f)
	}
}

func testConfig(rooms, serveCap, waitCap, timeSlice int) config.Config {
	return config.Config{
		RoomCount:         rooms,
		ServingCapacity:   serveCap,
		WaitingCapacity:   waitCap,
		TimeSliceSeconds:  timeSlice,
		InitialTemp:       func(int) float64 { return 30.0 },
		DefaultTargetTemp: 25.0,
		FeeRate:           1.0,
	}
}

// TestSingleRoomCoolDown covers the single-room cool-down scenario: a room
// powers on at medium fan above target, drifts down at the medium rate, and
// settles into paused once it reaches target.
func TestSingleRoomCoolDown(t *testing.T) {
	s := New(testConfig(1, 1, 0, 30), journal.NewMemory())

	admission := s.PowerOn(1, 30.0, hvac.ModeCooling)
	require.Equal(t, "serving", admission.State)

	s.Tick(600)

	status := s.Status(1)
	assert.Equal(t, "paused", status.State)
	assert.InDelta(t, 25.0, status.CurrentTemp, 0.05)

	_, total, err := s.Bill(1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, total, 0.1)
}

// TestPriorityPreemption covers a higher fan-speed admission bumping one
// of two lower-speed rooms that have served equally long into waiting.
func TestPriorityPreemption(t *testing.T) {
	s := New(testConfig(3, 2, 2, 30), journal.NewMemory())

	s.PowerOn(1, 30.0, hvac.ModeCooling)
	s.PowerOn(2, 30.0, hvac.ModeCooling)
	s.ChangeSpeed(1, hvac.SpeedLow)
	s.ChangeSpeed(2, hvac.SpeedLow)
	require.Equal(t, "serving", s.Status(1).State)
	require.Equal(t, "serving", s.Status(2).State)

	s.Tick(10)

	admission := s.PowerOn(3, 30.0, hvac.ModeCooling)
	require.Equal(t, "serving", admission.State)

	oneWaiting := s.Status(1).State == "waiting" || s.Status(2).State == "waiting"
	assert.True(t, oneWaiting, "expected one of the low-speed rooms to be bumped to waiting")
}

// TestTimeSliceRotation covers a waiting room at the same fan speed as the
// sole serving room taking its slot once it has waited a full time slice.
func TestTimeSliceRotation(t *testing.T) {
	s := New(testConfig(2, 1, 1, 30), journal.NewMemory())

	s.PowerOn(1, 30.0, hvac.ModeCooling)
	s.PowerOn(2, 30.0, hvac.ModeCooling)
	require.Equal(t, "serving", s.Status(1).State)
	require.Equal(t, "waiting", s.Status(2).State)

	s.Tick(30)

	assert.Equal(t, "waiting", s.Status(1).State)
	assert.Equal(t, "serving", s.Status(2).State)
	assert.Equal(t, 0, s.Status(1).WaitSeconds)
	assert.Equal(t, 0, s.Status(2).WaitSeconds)
}

// TestPausedAndResumed covers a room reaching target, pausing, drifting back
// a full degree past target, and being refilled straight into serving.
func TestPausedAndResumed(t *testing.T) {
	s := New(testConfig(1, 1, 0, 30), journal.NewMemory())

	s.PowerOn(1, 25.2, hvac.ModeCooling)
	s.ChangeSpeed(1, hvac.SpeedLow)

	s.Tick(60)
	require.Equal(t, "paused", s.Status(1).State)

	s.Tick(200)
	assert.Equal(t, "serving", s.Status(1).State)
}

// TestBillConsistency checks that the journal's running total for a room
// always matches the accumulated cost reported on its status.
func TestBillConsistency(t *testing.T) {
	s := New(testConfig(1, 1, 0, 30), journal.NewMemory())
	s.PowerOn(1, 30.0, hvac.ModeCooling)

	for i := 0; i < 10; i++ {
		s.Tick(5)
		_, total, err := s.Bill(1)
		require.NoError(t, err)
		assert.InDelta(t, s.Status(1).AccumulatedCost, total, 0.01)
	}
}

// TestFullWaitingEviction covers the edge case where a preempted serving
// room cannot fit into an already-full waiting queue: the lowest-priority
// waiting room is evicted to paused to make room.
func TestFullWaitingEviction(t *testing.T) {
	s := New(testConfig(3, 1, 1, 30), journal.NewMemory())

	s.PowerOn(1, 30.0, hvac.ModeCooling)
	s.PowerOn(2, 30.0, hvac.ModeCooling)
	require.Equal(t, "serving", s.Status(1).State)
	require.Equal(t, "waiting", s.Status(2).State)

	s.ChangeSpeed(1, hvac.SpeedLow)

	admission := s.PowerOn(3, 30.0, hvac.ModeCooling)
	require.Equal(t, "serving", admission.State)

	assert.Equal(t, "waiting", s.Status(1).State)
	assert.Equal(t, "paused", s.Status(2).State)
	assert.Equal(t, "serving", s.Status(3).State)
}

func TestPowerOffClosesOpenRecordAndReportsTotals(t *testing.T) {
	s := New(testConfig(1, 1, 0, 30), journal.NewMemory())
	s.PowerOn(1, 30.0, hvac.ModeCooling)
	s.Tick(10)

	result := s.PowerOff(1)
	assert.Equal(t, "off", result.State)
	assert.Greater(t, result.CurrentFee, 0.0)
	assert.Equal(t, result.CurrentFee, result.TotalFee)

	records, err := s.journal.ListForRoom(1)
	require.NoError(t, err)
	for _, rec := range records {
		assert.False(t, rec.Open(), "no record should remain open after power off")
	}
}

func TestInapplicableOperationsReturnCurrentState(t *testing.T) {
	s := New(testConfig(1, 1, 0, 30), journal.NewMemory())

	result := s.ChangeSpeed(1, hvac.SpeedHigh)
	assert.Empty(t, result.OK)
	assert.Equal(t, 1, result.RoomID)
	assert.Equal(t, "off", result.State)
	assert.Equal(t, "off", s.Status(1).State)

	admission := s.PowerOn(1, 30.0, hvac.ModeCooling)
	require.Equal(t, "serving", admission.State)

	second := s.PowerOn(1, 28.0, hvac.ModeCooling)
	assert.Equal(t, "serving", second.State)
}
