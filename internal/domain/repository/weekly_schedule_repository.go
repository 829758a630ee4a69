package repository

import (
	"hospital-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeeklyScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.WeeklySchedule) error
	FindByID(db *gorm.DB, id int) (*entity.WeeklySchedule, error)
	FindByStaffID(db *gorm.DB, staffID uuid.UUID) ([]entity.WeeklySchedule, error)
	FindByStaffAndDay(db *gorm.DB, staffID uuid.UUID, dayOfWeek int) (*entity.WeeklySchedule, error)
	Update(db *gorm.DB, schedule *entity.WeeklySchedule) error
	Delete(db *gorm.DB, id int) (int64, error)
}
