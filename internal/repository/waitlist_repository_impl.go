package repository

import (
	"errors"
	"time"

	"hospital-scheduling/internal/domain/entity"
	domainRepo "hospital-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// priorityRankExpr orders waitlist rows urgent > high > normal > low.
const priorityRankExpr = `CASE priority
	WHEN 'urgent' THEN 0
	WHEN 'high' THEN 1
	WHEN 'normal' THEN 2
	WHEN 'low' THEN 3
	ELSE 4 END`

type waitlistRepository struct{}

func NewWaitlistRepository() domainRepo.WaitlistRepository {
	return &waitlistRepository{}
}

func (r *waitlistRepository) Create(db *gorm.DB, entry *entity.WaitlistEntry) error {
	return db.Create(entry).Error
}

func (r *waitlistRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.WaitlistEntry, error) {
	var entry entity.WaitlistEntry
	err := db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *waitlistRepository) FindActive(db *gorm.DB) ([]entity.WaitlistEntry, error) {
	var entries []entity.WaitlistEntry
	err := db.Where("status IN ?", []entity.WaitlistStatus{entity.WaitlistStatusWaiting, entity.WaitlistStatusNotified}).
		Order(priorityRankExpr + " ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindPromotionCandidates narrows by doctor/department filter and preferred
// date range in SQL; priority rank then created_at gives the deterministic
// tie-break order. Time-of-day bucket matching is left to the engine because
// the preference set lives in a jsonb column.
func (r *waitlistRepository) FindPromotionCandidates(db *gorm.DB, slot entity.FreedSlot) ([]entity.WaitlistEntry, error) {
	var entries []entity.WaitlistEntry

	query := db.Where("status = ?", entity.WaitlistStatusWaiting).
		Where("preferred_date_start <= ?", slot.Date.Format("2006-01-02")).
		Where("preferred_date_end IS NULL OR preferred_date_end >= ?", slot.Date.Format("2006-01-02"))

	if slot.DepartmentID != nil {
		query = query.Where(
			"doctor_id = ? OR (doctor_id IS NULL AND department_id = ?) OR (doctor_id IS NULL AND department_id IS NULL)",
			slot.DoctorID, *slot.DepartmentID,
		)
	} else {
		query = query.Where("doctor_id = ? OR (doctor_id IS NULL AND department_id IS NULL)", slot.DoctorID)
	}

	err := query.Order(priorityRankExpr + " ASC, created_at ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *waitlistRepository) MarkNotified(db *gorm.DB, id uuid.UUID, notifiedAt, expiresAt time.Time) (int64, error) {
	result := db.Model(&entity.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, entity.WaitlistStatusWaiting).
		Updates(map[string]interface{}{
			"status":      entity.WaitlistStatusNotified,
			"notified_at": notifiedAt,
			"expires_at":  expiresAt,
		})
	return result.RowsAffected, result.Error
}

func (r *waitlistRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.WaitlistStatus) (int64, error) {
	result := db.Model(&entity.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *waitlistRepository) FindExpiredNotified(db *gorm.DB, now time.Time) ([]entity.WaitlistEntry, error) {
	var entries []entity.WaitlistEntry
	err := db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", entity.WaitlistStatusNotified, now).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *waitlistRepository) CountByStatus(db *gorm.DB) (map[entity.WaitlistStatus]int64, error) {
	type row struct {
		Status entity.WaitlistStatus
		Count  int64
	}
	var rows []row
	err := db.Model(&entity.WaitlistEntry{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.WaitlistStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *waitlistRepository) CountActiveByPriority(db *gorm.DB) (map[entity.WaitlistPriority]int64, error) {
	type row struct {
		Priority entity.WaitlistPriority
		Count    int64
	}
	var rows []row
	err := db.Model(&entity.WaitlistEntry{}).
		Select("priority, COUNT(*) as count").
		Where("status IN ?", []entity.WaitlistStatus{entity.WaitlistStatusWaiting, entity.WaitlistStatusNotified}).
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.WaitlistPriority]int64, len(rows))
	for _, r := range rows {
		counts[r.Priority] = r.Count
	}
	return counts, nil
}
