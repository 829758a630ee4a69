package repository

import (
	"errors"
	"time"

	"hospital-scheduling/internal/domain/entity"
	domainRepo "hospital-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scheduleOverrideRepository struct{}

func NewScheduleOverrideRepository() domainRepo.ScheduleOverrideRepository {
	return &scheduleOverrideRepository{}
}

func (r *scheduleOverrideRepository) Create(db *gorm.DB, override *entity.ScheduleOverride) error {
	return db.Create(override).Error
}

func (r *scheduleOverrideRepository) FindByStaffAndDate(db *gorm.DB, staffID uuid.UUID, date time.Time) (*entity.ScheduleOverride, error) {
	var override entity.ScheduleOverride
	err := db.Where("staff_id = ? AND date = ?", staffID, date.Format("2006-01-02")).First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

func (r *scheduleOverrideRepository) FindByStaffID(db *gorm.DB, staffID uuid.UUID) ([]entity.ScheduleOverride, error) {
	var overrides []entity.ScheduleOverride
	err := db.Where("staff_id = ?", staffID).Order("date ASC").Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *scheduleOverrideRepository) Delete(db *gorm.DB, id int) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.ScheduleOverride{})
	return affected.RowsAffected, affected.Error
}
