package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hospital-scheduling/internal/converter"
	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/delivery/http/middleware"
	"hospital-scheduling/internal/domain/entity"
	"hospital-scheduling/internal/domain/repository"
	"hospital-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrWaitlistNotFound  = errors.New("waitlist entry not found")
	ErrWaitlistNotOwned  = errors.New("waitlist entry does not belong to you")
	ErrPastPreferredDate = errors.New("preferred date range starts in the past")
	ErrInvalidDateRange  = errors.New("preferred date range ends before it starts")
)

// WaitlistUsecase owns the waitlist entry lifecycle and the promotion
// policy applied when a slot frees up.
type WaitlistUsecase interface {
	Create(ctx context.Context, req *dto.CreateWaitlistRequest) (*dto.WaitlistEntryResponse, error)
	Notify(ctx context.Context, entryID uuid.UUID) (*dto.WaitlistEntryResponse, error)
	Book(ctx context.Context, entryID uuid.UUID) error
	Cancel(ctx context.Context, entryID uuid.UUID) error
	GetActiveQueue(ctx context.Context) (*dto.WaitlistListResponse, error)
	GetStats(ctx context.Context) (*dto.WaitlistStatsResponse, error)

	// SlotFreedHandler
	HandleSlotFreed(ctx context.Context, slot entity.FreedSlot) error

	// service.NotifiedExpirer
	ExpireNotified(ctx context.Context) (int, error)
}

type waitlistUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	waitlistRepo   repository.WaitlistRepository
	dispatcher     service.NotificationDispatcher
	auditService   service.AuditService
	responseWindow time.Duration
}

func NewWaitlistUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	waitlistRepo repository.WaitlistRepository,
	dispatcher service.NotificationDispatcher,
	auditService service.AuditService,
	responseWindow time.Duration,
) WaitlistUsecase {
	return &waitlistUsecase{
		db:             db,
		log:            log,
		waitlistRepo:   waitlistRepo,
		dispatcher:     dispatcher,
		auditService:   auditService,
		responseWindow: responseWindow,
	}
}

// Create validates and persists a new waiting entry for the logged-in
// patient. Validation failures reject before any state is created.
func (u *waitlistUsecase) Create(ctx context.Context, req *dto.CreateWaitlistRequest) (*dto.WaitlistEntryResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	dateStart, err := time.Parse("2006-01-02", req.PreferredDateStart)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStart.Before(today) {
		return nil, ErrPastPreferredDate
	}

	var dateEnd *time.Time
	if req.PreferredDateEnd != "" {
		parsed, err := time.Parse("2006-01-02", req.PreferredDateEnd)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		if parsed.Before(dateStart) {
			return nil, ErrInvalidDateRange
		}
		dateEnd = &parsed
	}

	priority := entity.WaitlistPriority(req.Priority)
	if req.Priority == "" {
		priority = entity.WaitlistPriorityNormal
	}
	if !entity.ValidWaitlistPriority(priority) {
		return nil, fmt.Errorf("unknown priority %q", req.Priority)
	}

	for _, slot := range req.PreferredTimeSlots {
		if !entity.ValidTimeSlot(slot) {
			return nil, fmt.Errorf("unknown time slot %q", slot)
		}
	}

	entry := &entity.WaitlistEntry{
		PatientID:          patientID,
		DoctorID:           req.DoctorID,
		DepartmentID:       req.DepartmentID,
		PreferredDateStart: dateStart,
		PreferredDateEnd:   dateEnd,
		PreferredTimeSlots: req.PreferredTimeSlots,
		Priority:           priority,
		Status:             entity.WaitlistStatusWaiting,
		Reason:             req.Reason,
	}

	if err := u.waitlistRepo.Create(u.db.WithContext(ctx), entry); err != nil {
		u.log.Warnf("Failed to create waitlist entry for patient %s: %+v", patientID, err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, u.db.WithContext(ctx), &patientID, entity.AuditActionWaitlistCreate, "waitlist_entry", entry.ID.String(), entry); err != nil {
		u.log.Warnf("Failed to audit waitlist create %s: %+v", entry.ID, err)
	}

	u.log.Infof("Waitlist entry created: id=%s, priority=%s", entry.ID, priority)
	return converter.WaitlistEntryToResponse(entry), nil
}

// Notify moves a waiting entry to notified by explicit staff action. The
// notification must be dispatched before the entry is marked: an entry is
// never notified without a confirmed dispatch.
func (u *waitlistUsecase) Notify(ctx context.Context, entryID uuid.UUID) (*dto.WaitlistEntryResponse, error) {
	entry, err := u.waitlistRepo.FindByID(u.db.WithContext(ctx), entryID)
	if err != nil {
		u.log.Warnf("Failed to find waitlist entry %s: %+v", entryID, err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrWaitlistNotFound
	}
	if !entry.CanTransitionTo(entity.WaitlistStatusNotified) {
		return nil, ErrInvalidStateTransition
	}

	notified, err := u.notifyEntry(ctx, entry, "A slot matching your waitlist request has become available. Please contact the hospital within 24 hours to confirm.")
	if err != nil {
		return nil, err
	}
	if !notified {
		return nil, ErrInvalidStateTransition
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogTransition(ctx, u.db.WithContext(ctx), &userID, entity.AuditActionWaitlistNotify, "waitlist_entry", entryID.String(), string(entity.WaitlistStatusWaiting), string(entity.WaitlistStatusNotified)); err != nil {
		u.log.Warnf("Failed to audit waitlist notify %s: %+v", entryID, err)
	}

	refreshed, err := u.waitlistRepo.FindByID(u.db.WithContext(ctx), entryID)
	if err != nil || refreshed == nil {
		return converter.WaitlistEntryToResponse(entry), nil
	}
	return converter.WaitlistEntryToResponse(refreshed), nil
}

// Book records that the notified patient took the slot; the entry leaves
// the active queue permanently.
func (u *waitlistUsecase) Book(ctx context.Context, entryID uuid.UUID) error {
	return u.transition(ctx, entryID, entity.WaitlistStatusBooked, entity.AuditActionWaitlistBook)
}

// Cancel withdraws the request; allowed from waiting or notified. Patients
// may only withdraw their own entries, staff may withdraw any.
func (u *waitlistUsecase) Cancel(ctx context.Context, entryID uuid.UUID) error {
	if roleID, ok := middleware.GetRoleIDFromContext(ctx); ok && roleID == entity.RoleIDPatient {
		userID, ok := middleware.GetUserIDFromContext(ctx)
		if !ok {
			return errors.New("user not found in context")
		}
		entry, err := u.waitlistRepo.FindByID(u.db.WithContext(ctx), entryID)
		if err != nil {
			u.log.Warnf("Failed to find waitlist entry %s: %+v", entryID, err)
			return err
		}
		if entry == nil {
			return ErrWaitlistNotFound
		}
		if entry.PatientID != userID {
			return ErrWaitlistNotOwned
		}
	}
	return u.transition(ctx, entryID, entity.WaitlistStatusCancelled, entity.AuditActionWaitlistCancel)
}

func (u *waitlistUsecase) transition(ctx context.Context, entryID uuid.UUID, to entity.WaitlistStatus, action string) error {
	entry, err := u.waitlistRepo.FindByID(u.db.WithContext(ctx), entryID)
	if err != nil {
		u.log.Warnf("Failed to find waitlist entry %s: %+v", entryID, err)
		return err
	}
	if entry == nil {
		return ErrWaitlistNotFound
	}
	if !entry.CanTransitionTo(to) {
		return ErrInvalidStateTransition
	}

	affected, err := u.waitlistRepo.UpdateStatus(u.db.WithContext(ctx), entryID, entry.Status, to)
	if err != nil {
		u.log.Warnf("Failed to transition waitlist entry %s to %s: %+v", entryID, to, err)
		return err
	}
	if affected == 0 {
		return ErrInvalidStateTransition
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogTransition(ctx, u.db.WithContext(ctx), &userID, action, "waitlist_entry", entryID.String(), string(entry.Status), string(to)); err != nil {
		u.log.Warnf("Failed to audit waitlist transition %s: %+v", entryID, err)
	}

	u.log.Infof("Waitlist entry %s: %s -> %s", entryID, entry.Status, to)
	return nil
}

// HandleSlotFreed implements the promotion policy: among waiting entries
// matching the freed slot, pick by priority rank then earliest creation,
// and promote exactly one. A candidate that cannot be promoted (dispatch
// failure, or it changed state concurrently) falls through to the
// next-best candidate rather than leaving the slot silently unpromoted.
func (u *waitlistUsecase) HandleSlotFreed(ctx context.Context, slot entity.FreedSlot) error {
	candidates, err := u.waitlistRepo.FindPromotionCandidates(u.db.WithContext(ctx), slot)
	if err != nil {
		return fmt.Errorf("find promotion candidates: %w", err)
	}

	message := fmt.Sprintf("A slot opened on %s at %s. Please contact the hospital within 24 hours to confirm.", slot.Date.Format("2006-01-02"), slot.Time)

	for i := range candidates {
		entry := &candidates[i]
		if !entry.MatchesSlot(slot) {
			continue
		}

		notified, err := u.notifyEntry(ctx, entry, message)
		if err != nil {
			u.log.Warnf("Failed to dispatch promotion notice for entry %s, trying next candidate: %+v", entry.ID, err)
			continue
		}
		if !notified {
			// Lost a race against a concurrent transition; next candidate.
			continue
		}

		if err := u.auditService.LogTransition(ctx, u.db.WithContext(ctx), nil, entity.AuditActionWaitlistPromote, "waitlist_entry", entry.ID.String(), string(entity.WaitlistStatusWaiting), string(entity.WaitlistStatusNotified)); err != nil {
			u.log.Warnf("Failed to audit waitlist promotion %s: %+v", entry.ID, err)
		}

		u.log.Infof("Waitlist entry %s promoted for slot %s %s (doctor %s)", entry.ID, slot.Date.Format("2006-01-02"), slot.Time, slot.DoctorID)
		return nil
	}

	// No matching entry: the slot simply becomes an ordinary bookable opening.
	u.log.Debugf("No waitlist entry matched freed slot %s %s (doctor %s)", slot.Date.Format("2006-01-02"), slot.Time, slot.DoctorID)
	return nil
}

// notifyEntry dispatches first and only then compare-and-sets
// waiting -> notified. Returns false when the CAS loses.
func (u *waitlistUsecase) notifyEntry(ctx context.Context, entry *entity.WaitlistEntry, message string) (bool, error) {
	deliveredAt, err := u.dispatcher.Dispatch(ctx, service.Notification{
		WaitlistEntryID: entry.ID,
		PatientID:       entry.PatientID,
		Message:         message,
	})
	if err != nil {
		return false, err
	}

	expiresAt := deliveredAt.Add(u.responseWindow)
	affected, err := u.waitlistRepo.MarkNotified(u.db.WithContext(ctx), entry.ID, deliveredAt, expiresAt)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ExpireNotified sweeps notified entries whose response window elapsed.
// Idempotent: the compare-and-set skips entries that already moved on.
func (u *waitlistUsecase) ExpireNotified(ctx context.Context) (int, error) {
	entries, err := u.waitlistRepo.FindExpiredNotified(u.db.WithContext(ctx), time.Now())
	if err != nil {
		return 0, fmt.Errorf("find expired notified entries: %w", err)
	}

	expired := 0
	for _, entry := range entries {
		affected, err := u.waitlistRepo.UpdateStatus(u.db.WithContext(ctx), entry.ID, entity.WaitlistStatusNotified, entity.WaitlistStatusExpired)
		if err != nil {
			u.log.Warnf("Failed to expire waitlist entry %s: %+v", entry.ID, err)
			continue
		}
		if affected == 0 {
			continue
		}

		if err := u.auditService.LogTransition(ctx, u.db.WithContext(ctx), nil, entity.AuditActionWaitlistExpire, "waitlist_entry", entry.ID.String(), string(entity.WaitlistStatusNotified), string(entity.WaitlistStatusExpired)); err != nil {
			u.log.Warnf("Failed to audit waitlist expiry %s: %+v", entry.ID, err)
		}
		expired++
	}

	return expired, nil
}

// GetActiveQueue returns the waiting and notified entries in promotion order
func (u *waitlistUsecase) GetActiveQueue(ctx context.Context) (*dto.WaitlistListResponse, error) {
	entries, err := u.waitlistRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find active waitlist entries: %+v", err)
		return nil, err
	}

	return &dto.WaitlistListResponse{
		Entries: converter.WaitlistEntriesToResponses(entries),
		Total:   len(entries),
	}, nil
}

// GetStats reports queue length per status and active counts per priority
func (u *waitlistUsecase) GetStats(ctx context.Context) (*dto.WaitlistStatsResponse, error) {
	byStatus, err := u.waitlistRepo.CountByStatus(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to count waitlist entries by status: %+v", err)
		return nil, err
	}
	byPriority, err := u.waitlistRepo.CountActiveByPriority(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to count waitlist entries by priority: %+v", err)
		return nil, err
	}

	stats := &dto.WaitlistStatsResponse{
		ByStatus:   make(map[string]int64, len(byStatus)),
		ByPriority: make(map[string]int64, len(byPriority)),
	}
	for status, count := range byStatus {
		stats.ByStatus[string(status)] = count
		if status.IsActive() {
			stats.ActiveTotal += count
		}
	}
	for priority, count := range byPriority {
		stats.ByPriority[string(priority)] = count
	}

	return stats, nil
}
