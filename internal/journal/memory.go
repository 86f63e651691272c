package journal

import (
	"fmt"
	"sync"
	"time"

	"hotelac/internal/numeric"
)

// Memory is an in-process Journal implementation satisfying the same
// interface as GormJournal, used by scheduler tests so they don't need a
// SQLite file on disk.
type Memory struct {
	mu      sync.Mutex
	records map[int64]Record
	nextID  int64
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{records: make(map[int64]Record)}
}

func (m *Memory) CreateRecord(roomID int, requestTime time.Time, mode, fanSpeed string, targetTemp, feeRate float64, op OperationType) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	prior := m.sumForRoomLocked(roomID)
	m.records[id] = Record{
		ID:              id,
		RoomID:          roomID,
		RequestTime:     FormatTime(requestTime),
		StartTime:       FormatTime(requestTime),
		Mode:            mode,
		TargetTemp:      targetTemp,
		FanSpeed:        fanSpeed,
		FeeRate:         feeRate,
		AccumulatedCost: numeric.Round2(prior),
		OperationType:   string(op),
	}
	return id, nil
}

func (m *Memory) UpdateCostAndMaybeEnd(recordID int64, costDelta float64, endTime *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordID]
	if !ok {
		return fmt.Errorf("journal: unknown record %d", recordID)
	}
	rec.Cost += costDelta
	rec.AccumulatedCost = numeric.Round2(m.sumBeforeLocked(rec.RoomID, recordID) + rec.Cost)
	if endTime != nil {
		rec.EndTime = FormatTime(*endTime)
		if start, err := time.Parse(timeLayout, rec.StartTime); err == nil {
			rec.ServiceDuration = int(endTime.Sub(start).Seconds())
		}
	}
	m.records[recordID] = rec
	return nil
}

func (m *Memory) UpdateFanSpeedAndRate(recordID int64, feeRate float64, fanSpeed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordID]
	if !ok {
		return fmt.Errorf("journal: unknown record %d", recordID)
	}
	rec.FeeRate = feeRate
	rec.FanSpeed = fanSpeed
	m.records[recordID] = rec
	return nil
}

func (m *Memory) Get(recordID int64) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordID]
	if !ok {
		return Record{}, fmt.Errorf("journal: unknown record %d", recordID)
	}
	return rec, nil
}

func (m *Memory) ListForRoom(roomID int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for id := int64(1); id <= m.nextID; id++ {
		if rec, ok := m.records[id]; ok && rec.RoomID == roomID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory) SumForRoom(roomID int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sumForRoomLocked(roomID), nil
}

func (m *Memory) sumForRoomLocked(roomID int) float64 {
	var total float64
	for _, rec := range m.records {
		if rec.RoomID == roomID {
			total += rec.Cost
		}
	}
	return total
}

func (m *Memory) sumBeforeLocked(roomID int, excludeID int64) float64 {
	var total float64
	for id, rec := range m.records {
		if rec.RoomID == roomID && id < excludeID {
			total += rec.Cost
		}
	}
	return total
}

func (m *Memory) SumAll() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, rec := range m.records {
		total += rec.Cost
	}
	return total, nil
}

func (m *Memory) SumRange(start, end *time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, rec := range m.records {
		if start != nil && rec.StartTime < FormatTime(*start) {
			continue
		}
		if end != nil && rec.StartTime > FormatTime(*end) {
			continue
		}
		total += rec.Cost
	}
	return total, nil
}

func (m *Memory) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[int64]Record)
	m.nextID = 0
	return nil
}
