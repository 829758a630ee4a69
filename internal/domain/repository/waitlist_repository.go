package repository

import (
	"time"

	"hospital-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	Create(db *gorm.DB, entry *entity.WaitlistEntry) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.WaitlistEntry, error)

	// FindActive returns waiting and notified entries, newest priority first.
	FindActive(db *gorm.DB) ([]entity.WaitlistEntry, error)

	// FindPromotionCandidates returns waiting entries whose doctor/department
	// filters accept the freed slot and whose preferred date range contains
	// its date, ordered by priority rank then created_at (FIFO within a tier).
	// Time-of-day bucket filtering happens in the engine.
	FindPromotionCandidates(db *gorm.DB, slot entity.FreedSlot) ([]entity.WaitlistEntry, error)

	// MarkNotified compare-and-sets waiting -> notified, recording the
	// dispatch timestamp and the response-window deadline.
	// Returns affected rows: 1 = success, 0 = lost the race.
	MarkNotified(db *gorm.DB, id uuid.UUID, notifiedAt, expiresAt time.Time) (int64, error)

	// UpdateStatus compare-and-sets the status from an expected prior value.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.WaitlistStatus) (int64, error)

	// FindExpiredNotified returns notified entries whose response window
	// elapsed before now. Consumed by the expiry sweep.
	FindExpiredNotified(db *gorm.DB, now time.Time) ([]entity.WaitlistEntry, error)

	CountByStatus(db *gorm.DB) (map[entity.WaitlistStatus]int64, error)
	CountActiveByPriority(db *gorm.DB) (map[entity.WaitlistPriority]int64, error)
}
