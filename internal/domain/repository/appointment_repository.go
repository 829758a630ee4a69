package repository

import (
	"time"

	"hospital-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	// CreateIfSlotFree inserts the appointment only if no non-cancelled
	// appointment exists for the same (doctor, date, time). The insert and
	// the uniqueness check are one atomic statement against the partial
	// unique index; returns false when the slot is already taken.
	CreateIfSlotFree(db *gorm.DB, appointment *entity.Appointment) (bool, error)

	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)

	// UpdateStatus compare-and-sets the status from an expected prior value.
	// Returns affected rows: 1 = success, 0 = lost the race or wrong state.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
}
