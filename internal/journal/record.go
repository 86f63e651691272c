// Package journal implements the Detail Journal (spec.md §3, §4.5, §6.1):
// the append-mostly record of service segments backing every bill. The
// scheduler is the only writer; reporting views are read-only callers of
// the same interface.
package journal

import "time"

// OperationType tags why a record was opened (spec.md §3).
type OperationType string

const (
	OpPowerOn             OperationType = "power-on"
	OpSpeedChange         OperationType = "speed-change"
	OpTempChange          OperationType = "temp-change"
	OpPriorityReplace     OperationType = "priority-replace"
	OpQueueFill           OperationType = "queue-fill"
	OpSpeedAdjustPriority OperationType = "speed-adjust-priority"
	OpServingResume       OperationType = "serving-resume"
)

// timeLayout is the lexically-comparable ISO-8601-local format spec.md
// §6.1 requires for persisted timestamps.
const timeLayout = "2006-01-02T15:04:05"

// FormatTime renders t in the journal's persisted timestamp format.
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// Record is one persisted detail-journal row (spec.md §6.1's authoritative
// schema).
type Record struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	RoomID          int    `gorm:"index"`
	RequestTime     string `gorm:"type:varchar(32)"`
	StartTime       string `gorm:"type:varchar(32)"`
	EndTime         string `gorm:"type:varchar(32)"` // "" while open
	Mode            string `gorm:"type:varchar(16)"`
	TargetTemp      float64
	FanSpeed        string `gorm:"type:varchar(16)"`
	FeeRate         float64
	ServiceDuration int // seconds
	Cost            float64
	AccumulatedCost float64
	OperationType   string `gorm:"type:varchar(32)"`
}

// Open reports whether the record has no end time yet.
func (r Record) Open() bool {
	return r.EndTime == ""
}

// RoomTotal is the result of a per-room cost summary.
type RoomTotal struct {
	RoomID    int
	TotalCost float64
}
