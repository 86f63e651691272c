package journal

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hotelac/internal/logger"
	"hotelac/internal/numeric"
)

// GormJournal persists detail records through Gorm against a SQLite file
// (spec.md §5: "a relational database is the reference choice").
type GormJournal struct {
	db *gorm.DB
}

// Open connects to the SQLite file at path (created if absent) and
// migrates the Record table.
func Open(path string) (*GormJournal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	return &GormJournal{db: db}, nil
}

// CreateRecord opens a new detail record tagged with the operation that
// caused it (spec.md §3).
func (j *GormJournal) CreateRecord(roomID int, requestTime time.Time, mode, fanSpeed string, targetTemp, feeRate float64, op OperationType) (int64, error) {
	rec := Record{
		RoomID:        roomID,
		RequestTime:   FormatTime(requestTime),
		StartTime:     FormatTime(requestTime),
		Mode:          mode,
		TargetTemp:    targetTemp,
		FanSpeed:      fanSpeed,
		FeeRate:       feeRate,
		OperationType: string(op),
	}
	prior, err := j.SumForRoom(roomID)
	if err != nil {
		logger.Error("journal: create record room %d: running total lookup failed: %v", roomID, err)
	}
	rec.AccumulatedCost = numeric.Round2(prior)
	if err := j.db.Create(&rec).Error; err != nil {
		logger.Error("journal: create record room %d op %s failed: %v", roomID, op, err)
		return 0, err
	}
	logger.Debug("journal: opened record %d room %d op %s", rec.ID, roomID, op)
	return rec.ID, nil
}

// UpdateCostAndMaybeEnd adds costDelta to the record's segment cost,
// recomputes accumulated_cost, and closes the record when endTime is
// given (spec.md §6.1).
func (j *GormJournal) UpdateCostAndMaybeEnd(recordID int64, costDelta float64, endTime *time.Time) error {
	var rec Record
	if err := j.db.First(&rec, recordID).Error; err != nil {
		logger.Error("journal: update record %d failed: %v", recordID, err)
		return err
	}
	rec.Cost += costDelta

	priorStart, err := j.sumBefore(rec.RoomID, recordID)
	if err != nil {
		logger.Error("journal: update record %d: running total lookup failed: %v", recordID, err)
	}
	rec.AccumulatedCost = numeric.Round2(priorStart + rec.Cost)

	if endTime != nil {
		rec.EndTime = FormatTime(*endTime)
		if start, err := time.Parse(timeLayout, rec.StartTime); err == nil {
			rec.ServiceDuration = int(endTime.Sub(start).Seconds())
		}
	}
	if err := j.db.Save(&rec).Error; err != nil {
		logger.Error("journal: save record %d failed: %v", recordID, err)
		return err
	}
	return nil
}

// UpdateFanSpeedAndRate retags an open record's fan speed and fee rate
// without closing it (used when a serving room's speed changes but the
// scheduler chooses to keep the record open rather than rotate it).
func (j *GormJournal) UpdateFanSpeedAndRate(recordID int64, feeRate float64, fanSpeed string) error {
	err := j.db.Model(&Record{}).Where("id = ?", recordID).
		Updates(map[string]any{"fee_rate": feeRate, "fan_speed": fanSpeed}).Error
	if err != nil {
		logger.Error("journal: update fan speed on record %d failed: %v", recordID, err)
	}
	return err
}

// Get returns one record by id.
func (j *GormJournal) Get(recordID int64) (Record, error) {
	var rec Record
	err := j.db.First(&rec, recordID).Error
	return rec, err
}

// ListForRoom returns every record for roomID, ascending by id.
func (j *GormJournal) ListForRoom(roomID int) ([]Record, error) {
	var recs []Record
	err := j.db.Where("room_id = ?", roomID).Order("id asc").Find(&recs).Error
	return recs, err
}

// SumForRoom returns the sum of segment costs for roomID.
func (j *GormJournal) SumForRoom(roomID int) (float64, error) {
	var total float64
	err := j.db.Model(&Record{}).Where("room_id = ?", roomID).
		Select("COALESCE(SUM(cost), 0)").Scan(&total).Error
	return total, err
}

// sumBefore sums segment costs for roomID across records with id strictly
// less than excludeID, used to build a running accumulated_cost.
func (j *GormJournal) sumBefore(roomID int, excludeID int64) (float64, error) {
	var total float64
	err := j.db.Model(&Record{}).
		Where("room_id = ? AND id < ?", roomID, excludeID).
		Select("COALESCE(SUM(cost), 0)").Scan(&total).Error
	return total, err
}

// SumAll returns the sum of segment costs across every room.
func (j *GormJournal) SumAll() (float64, error) {
	var total float64
	err := j.db.Model(&Record{}).Select("COALESCE(SUM(cost), 0)").Scan(&total).Error
	return total, err
}

// SumRange sums segment costs whose start_time falls within [start, end]
// (either bound may be nil).
func (j *GormJournal) SumRange(start, end *time.Time) (float64, error) {
	q := j.db.Model(&Record{})
	if start != nil {
		q = q.Where("start_time >= ?", FormatTime(*start))
	}
	if end != nil {
		q = q.Where("start_time <= ?", FormatTime(*end))
	}
	var total float64
	err := q.Select("COALESCE(SUM(cost), 0)").Scan(&total).Error
	return total, err
}

// ClearAll deletes every record.
func (j *GormJournal) ClearAll() error {
	return j.db.Exec("DELETE FROM records").Error
}
