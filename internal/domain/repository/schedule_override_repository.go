package repository

import (
	"time"

	"hospital-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleOverrideRepository interface {
	Create(db *gorm.DB, override *entity.ScheduleOverride) error
	FindByStaffAndDate(db *gorm.DB, staffID uuid.UUID, date time.Time) (*entity.ScheduleOverride, error)
	FindByStaffID(db *gorm.DB, staffID uuid.UUID) ([]entity.ScheduleOverride, error)
	Delete(db *gorm.DB, id int) (int64, error)
}
