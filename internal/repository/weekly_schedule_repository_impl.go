package repository

import (
	"errors"

	"hospital-scheduling/internal/domain/entity"
	domainRepo "hospital-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type weeklyScheduleRepository struct{}

func NewWeeklyScheduleRepository() domainRepo.WeeklyScheduleRepository {
	return &weeklyScheduleRepository{}
}

func (r *weeklyScheduleRepository) Create(db *gorm.DB, schedule *entity.WeeklySchedule) error {
	return db.Create(schedule).Error
}

func (r *weeklyScheduleRepository) FindByID(db *gorm.DB, id int) (*entity.WeeklySchedule, error) {
	var schedule entity.WeeklySchedule
	err := db.Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *weeklyScheduleRepository) FindByStaffID(db *gorm.DB, staffID uuid.UUID) ([]entity.WeeklySchedule, error) {
	var schedules []entity.WeeklySchedule
	err := db.Where("staff_id = ?", staffID).Order("day_of_week ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *weeklyScheduleRepository) FindByStaffAndDay(db *gorm.DB, staffID uuid.UUID, dayOfWeek int) (*entity.WeeklySchedule, error) {
	var schedule entity.WeeklySchedule
	err := db.Where("staff_id = ? AND day_of_week = ?", staffID, dayOfWeek).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *weeklyScheduleRepository) Update(db *gorm.DB, schedule *entity.WeeklySchedule) error {
	return db.Save(schedule).Error
}

func (r *weeklyScheduleRepository) Delete(db *gorm.DB, id int) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.WeeklySchedule{})
	return affected.RowsAffected, affected.Error
}
