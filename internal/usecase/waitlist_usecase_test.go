package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-scheduling/internal/delivery/dto"
	"hospital-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

func newWaitlistForTest(repo *fakeWaitlistRepo, dispatcher *fakeDispatcher) WaitlistUsecase {
	return NewWaitlistUsecase(testDB(), testLogger(), repo, dispatcher, &fakeAuditService{}, 24*time.Hour)
}

// seedWaiting adds a waiting entry with the given priority and a creation
// time offset so FIFO order within a tier is deterministic.
func seedWaiting(repo *fakeWaitlistRepo, priority entity.WaitlistPriority, createdOffset time.Duration, mutate func(*entity.WaitlistEntry)) *entity.WaitlistEntry {
	entry := &entity.WaitlistEntry{
		ID:                 uuid.New(),
		PatientID:          uuid.New(),
		PreferredDateStart: mustDate("2026-09-01"),
		Priority:           priority,
		Status:             entity.WaitlistStatusWaiting,
		CreatedAt:          time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC).Add(createdOffset),
	}
	if mutate != nil {
		mutate(entry)
	}
	return repo.add(entry)
}

func TestCreateWaitlistEntry(t *testing.T) {
	repo := newFakeWaitlistRepo()
	engine := newWaitlistForTest(repo, newFakeDispatcher())
	patientID := uuid.New()

	resp, err := engine.Create(ctxWithUser(patientID), &dto.CreateWaitlistRequest{
		PreferredDateStart: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		PreferredTimeSlots: []string{"morning"},
		Priority:           "high",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Status != string(entity.WaitlistStatusWaiting) {
		t.Errorf("new entry should be waiting, got %s", resp.Status)
	}
	if resp.Priority != "high" {
		t.Errorf("priority not persisted: %s", resp.Priority)
	}
	if resp.PatientID != patientID {
		t.Errorf("patient ID not taken from context")
	}
}

func TestCreateWaitlistValidation(t *testing.T) {
	engine := newWaitlistForTest(newFakeWaitlistRepo(), newFakeDispatcher())
	ctx := ctxWithUser(uuid.New())
	future := time.Now().AddDate(0, 0, 10).Format("2006-01-02")

	tests := []struct {
		name    string
		req     *dto.CreateWaitlistRequest
		wantErr error
	}{
		{"past start date", &dto.CreateWaitlistRequest{PreferredDateStart: "2020-01-01"}, ErrPastPreferredDate},
		{"end before start", &dto.CreateWaitlistRequest{PreferredDateStart: future, PreferredDateEnd: "2020-01-01"}, ErrInvalidDateRange},
		{"bad date format", &dto.CreateWaitlistRequest{PreferredDateStart: "01/01/2030"}, ErrInvalidDateFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Create(ctx, tc.req); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateDefaultsToNormalPriority(t *testing.T) {
	engine := newWaitlistForTest(newFakeWaitlistRepo(), newFakeDispatcher())

	resp, err := engine.Create(ctxWithUser(uuid.New()), &dto.CreateWaitlistRequest{
		PreferredDateStart: time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if resp.Priority != string(entity.WaitlistPriorityNormal) {
		t.Errorf("expected default normal priority, got %s", resp.Priority)
	}
}

func TestHandleSlotFreedPriorityThenFIFO(t *testing.T) {
	repo := newFakeWaitlistRepo()
	dispatcher := newFakeDispatcher()
	engine := newWaitlistForTest(repo, dispatcher)

	low := seedWaiting(repo, entity.WaitlistPriorityLow, 0, nil)
	urgentFirst := seedWaiting(repo, entity.WaitlistPriorityUrgent, 1*time.Hour, nil)
	normal := seedWaiting(repo, entity.WaitlistPriorityNormal, 2*time.Hour, nil)
	urgentSecond := seedWaiting(repo, entity.WaitlistPriorityUrgent, 3*time.Hour, nil)

	slot := entity.FreedSlot{DoctorID: uuid.New(), Date: mustDate("2026-09-15"), Time: "10:00"}
	if err := engine.HandleSlotFreed(context.Background(), slot); err != nil {
		t.Fatalf("HandleSlotFreed returned error: %v", err)
	}

	// The earliest-created urgent entry wins.
	if got := repo.get(urgentFirst.ID).Status; got != entity.WaitlistStatusNotified {
		t.Errorf("first urgent entry should be notified, got %s", got)
	}
	for _, entry := range []*entity.WaitlistEntry{low, normal, urgentSecond} {
		if got := repo.get(entry.ID).Status; got != entity.WaitlistStatusWaiting {
			t.Errorf("entry %s (%s) should still be waiting, got %s", entry.ID, entry.Priority, got)
		}
	}
	if dispatcher.count() != 1 {
		t.Errorf("exactly one notification expected, got %d", dispatcher.count())
	}
}

func TestHandleSlotFreedUrgentBeatsEarlierHigh(t *testing.T) {
	repo := newFakeWaitlistRepo()
	dispatcher := newFakeDispatcher()
	engine := newWaitlistForTest(repo, dispatcher)

	high := seedWaiting(repo, entity.WaitlistPriorityHigh, 0, nil)
	urgent := seedWaiting(repo, entity.WaitlistPriorityUrgent, 48*time.Hour, nil)

	slot := entity.FreedSlot{DoctorID: uuid.New(), Date: mustDate("2026-09-15"), Time: "10:00"}
	if err := engine.HandleSlotFreed(context.Background(), slot); err != nil {
		t.Fatalf("HandleSlotFreed returned error: %v", err)
	}

	if got := repo.get(urgent.ID).Status; got != entity.WaitlistStatusNotified {
		t.Errorf("urgent entry should win despite later creation, got %s", got)
	}
	if got := repo.get(high.ID).Status; got != entity.WaitlistStatusWaiting {
		t.Errorf("high entry should still be waiting, got %s", got)
	}
}

func TestHandleSlotFreedRespectsFilters(t *testing.T) {
	repo := newFakeWaitlistRepo()
	dispatcher := newFakeDispatcher()
	engine := newWaitlistForTest(repo, dispatcher)

	slotDoctor := uuid.New()
	otherDoctor := uuid.New()

	wrongDoctor := seedWaiting(repo, entity.WaitlistPriorityUrgent, 0, func(e *entity.WaitlistEntry) {
		e.DoctorID = &otherDoctor
	})
	eveningOnly := seedWaiting(repo, entity.WaitlistPriorityUrgent, 1*time.Hour, func(e *entity.WaitlistEntry) {
		e.PreferredTimeSlots = entity.StringArray{"evening"}
	})
	match := seedWaiting(repo, entity.WaitlistPriorityLow, 2*time.Hour, func(e *entity.WaitlistEntry) {
		e.DoctorID = &slotDoctor
		e.PreferredTimeSlots = entity.StringArray{"morning"}
	})

	slot := entity.FreedSlot{DoctorID: slotDoctor, Date: mustDate("2026-09-15"), Time: "09:00"}
	if err := engine.HandleSlotFreed(context.Background(), slot); err != nil {
		t.Fatalf("HandleSlotFreed returned error: %v", err)
	}

	if got := repo.get(match.ID).Status; got != entity.WaitlistStatusNotified {
		t.Errorf("matching entry should be notified even at low priority, got %s", got)
	}
	if got := repo.get(wrongDoctor.ID).Status; got != entity.WaitlistStatusWaiting {
		t.Errorf("doctor filter ignored: %s", got)
	}
	if got := repo.get(eveningOnly.ID).Status; got != entity.WaitlistStatusWaiting {
		t.Errorf("time slot bucket filter ignored: %s", got)
	}
}

func TestHandleSlotFreedDispatchFailureFallsToNextBest(t *testing.T) {
	repo := newFakeWaitlistRepo()
	dispatcher := newFakeDispatcher()
	engine := newWaitlistForTest(repo, dispatcher)

	first := seedWaiting(repo, entity.WaitlistPriorityUrgent, 0, nil)
	second := seedWaiting(repo, entity.WaitlistPriorityHigh, 1*time.Hour, nil)
	dispatcher.failFor[first.ID] = true

	slot := entity.FreedSlot{DoctorID: uuid.New(), Date: mustDate("2026-09-15"), Time: "10:00"}
	if err := engine.HandleSlotFreed(context.Background(), slot); err != nil {
		t.Fatalf("HandleSlotFreed returned error: %v", err)
	}

	// The failed candidate keeps its place in the queue; it is never marked
	// notified without a confirmed dispatch.
	if got := repo.get(first.ID).Status; got != entity.WaitlistStatusWaiting {
		t.Errorf("failed-dispatch entry must stay waiting, got %s", got)
	}
	if got := repo.get(second.ID).Status; got != entity.WaitlistStatusNotified {
		t.Errorf("next-best entry should be promoted, got %s", got)
	}
}

func TestHandleSlotFreedNoMatchIsNoop(t *testing.T) {
	repo := newFakeWaitlistRepo()
	dispatcher := newFakeDispatcher()
	engine := newWaitlistForTest(repo, dispatcher)

	seedWaiting(repo, entity.WaitlistPriorityUrgent, 0, func(e *entity.WaitlistEntry) {
		e.PreferredDateStart = mustDate("2026-12-01")
	})

	slot := entity.FreedSlot{DoctorID: uuid.New(), Date: mustDate("2026-09-15"), Time: "10:00"}
	if err := engine.HandleSlotFreed(context.Background(), slot); err != nil {
		t.Fatalf("HandleSlotFreed returned error: %v", err)
	}
	if dispatcher.count() != 0 {
		t.Errorf("no notification expected when nothing matches")
	}
}

func TestNotifySetsResponseWindow(t *testing.T) {
	repo := newFakeWaitlistRepo()
	dispatcher := newFakeDispatcher()
	engine := newWaitlistForTest(repo, dispatcher)

	entry := seedWaiting(repo, entity.WaitlistPriorityNormal, 0, nil)

	resp, err := engine.Notify(ctxWithUser(uuid.New()), entry.ID)
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if resp.Status != string(entity.WaitlistStatusNotified) {
		t.Errorf("expected notified, got %s", resp.Status)
	}
	if resp.NotifiedAt == nil || resp.ExpiresAt == nil {
		t.Fatalf("notified and expiry timestamps must be set")
	}
	if got := resp.ExpiresAt.Sub(*resp.NotifiedAt); got != 24*time.Hour {
		t.Errorf("response window should be 24h, got %v", got)
	}
	if dispatcher.count() != 1 {
		t.Errorf("notification should be dispatched exactly once")
	}
}

func TestWaitlistLifecycleTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.WaitlistStatus
		action  func(WaitlistUsecase, uuid.UUID) error
		wantErr error
	}{
		{"waiting can cancel", entity.WaitlistStatusWaiting, func(e WaitlistUsecase, id uuid.UUID) error { return e.Cancel(ctxWithUser(uuid.New()), id) }, nil},
		{"notified can book", entity.WaitlistStatusNotified, func(e WaitlistUsecase, id uuid.UUID) error { return e.Book(ctxWithUser(uuid.New()), id) }, nil},
		{"notified can cancel", entity.WaitlistStatusNotified, func(e WaitlistUsecase, id uuid.UUID) error { return e.Cancel(ctxWithUser(uuid.New()), id) }, nil},
		{"waiting cannot book", entity.WaitlistStatusWaiting, func(e WaitlistUsecase, id uuid.UUID) error { return e.Book(ctxWithUser(uuid.New()), id) }, ErrInvalidStateTransition},
		{"booked is terminal", entity.WaitlistStatusBooked, func(e WaitlistUsecase, id uuid.UUID) error { return e.Cancel(ctxWithUser(uuid.New()), id) }, ErrInvalidStateTransition},
		{"expired is terminal", entity.WaitlistStatusExpired, func(e WaitlistUsecase, id uuid.UUID) error { return e.Book(ctxWithUser(uuid.New()), id) }, ErrInvalidStateTransition},
		{"cancelled is terminal", entity.WaitlistStatusCancelled, func(e WaitlistUsecase, id uuid.UUID) error { return e.Cancel(ctxWithUser(uuid.New()), id) }, ErrInvalidStateTransition},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeWaitlistRepo()
			engine := newWaitlistForTest(repo, newFakeDispatcher())
			entry := seedWaiting(repo, entity.WaitlistPriorityNormal, 0, func(e *entity.WaitlistEntry) {
				e.Status = tc.from
			})

			if err := tc.action(engine, entry.ID); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNotifyMissingEntry(t *testing.T) {
	engine := newWaitlistForTest(newFakeWaitlistRepo(), newFakeDispatcher())

	if _, err := engine.Notify(ctxWithUser(uuid.New()), uuid.New()); err != ErrWaitlistNotFound {
		t.Fatalf("expected ErrWaitlistNotFound, got %v", err)
	}
}

func TestExpireNotifiedSweep(t *testing.T) {
	repo := newFakeWaitlistRepo()
	engine := newWaitlistForTest(repo, newFakeDispatcher())

	past := time.Now().Add(-1 * time.Hour)
	future := time.Now().Add(6 * time.Hour)
	notifiedAt := time.Now().Add(-25 * time.Hour)

	overdue := seedWaiting(repo, entity.WaitlistPriorityNormal, 0, func(e *entity.WaitlistEntry) {
		e.Status = entity.WaitlistStatusNotified
		e.NotifiedAt = &notifiedAt
		e.ExpiresAt = &past
	})
	pending := seedWaiting(repo, entity.WaitlistPriorityNormal, 1*time.Hour, func(e *entity.WaitlistEntry) {
		e.Status = entity.WaitlistStatusNotified
		e.NotifiedAt = &notifiedAt
		e.ExpiresAt = &future
	})
	waiting := seedWaiting(repo, entity.WaitlistPriorityNormal, 2*time.Hour, nil)

	expired, err := engine.ExpireNotified(context.Background())
	if err != nil {
		t.Fatalf("ExpireNotified returned error: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired entry, got %d", expired)
	}
	if got := repo.get(overdue.ID).Status; got != entity.WaitlistStatusExpired {
		t.Errorf("overdue entry should be expired, got %s", got)
	}
	if got := repo.get(pending.ID).Status; got != entity.WaitlistStatusNotified {
		t.Errorf("entry inside its window must stay notified, got %s", got)
	}
	if got := repo.get(waiting.ID).Status; got != entity.WaitlistStatusWaiting {
		t.Errorf("waiting entry must not be touched by the sweep, got %s", got)
	}

	// A second run finds nothing: the sweep is idempotent.
	expired, err = engine.ExpireNotified(context.Background())
	if err != nil {
		t.Fatalf("second ExpireNotified returned error: %v", err)
	}
	if expired != 0 {
		t.Fatalf("second sweep should expire nothing, got %d", expired)
	}
}

func TestCancellationPromotesMatchingEntry(t *testing.T) {
	appointmentRepo := newFakeAppointmentRepo()
	waitlistRepo := newFakeWaitlistRepo()
	dispatcher := newFakeDispatcher()

	engine := newWaitlistForTest(waitlistRepo, dispatcher)
	booking := NewBookingUsecase(testDB(), testLogger(), appointmentRepo, engine, &fakeAuditService{})

	doctorID := uuid.New()
	bookingDate := time.Now().AddDate(0, 0, 14)

	resp, err := booking.Commit(ctxWithUser(uuid.New()), &dto.CreateAppointmentRequest{
		DoctorID: doctorID,
		Date:     bookingDate.Format("2006-01-02"),
		Time:     "09:30",
		Type:     entity.AppointmentTypeConsultation,
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}

	entry := seedWaiting(waitlistRepo, entity.WaitlistPriorityHigh, 0, func(e *entity.WaitlistEntry) {
		e.DoctorID = &doctorID
		e.PreferredDateStart = time.Now().AddDate(0, 0, 1)
		e.PreferredTimeSlots = entity.StringArray{"morning"}
	})

	if _, err := booking.UpdateStatus(ctxWithUser(uuid.New()), resp.ID, &dto.UpdateAppointmentStatusRequest{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel returned error: %v", err)
	}

	if got := waitlistRepo.get(entry.ID).Status; got != entity.WaitlistStatusNotified {
		t.Fatalf("cancellation should promote the matching entry, got %s", got)
	}
	notification, ok := dispatcher.last()
	if !ok {
		t.Fatal("no notification dispatched")
	}
	if notification.WaitlistEntryID != entry.ID || notification.PatientID != entry.PatientID {
		t.Errorf("notification targets wrong entry: %+v", notification)
	}
}

func TestGetStats(t *testing.T) {
	repo := newFakeWaitlistRepo()
	engine := newWaitlistForTest(repo, newFakeDispatcher())

	seedWaiting(repo, entity.WaitlistPriorityUrgent, 0, nil)
	seedWaiting(repo, entity.WaitlistPriorityNormal, 1*time.Hour, nil)
	seedWaiting(repo, entity.WaitlistPriorityNormal, 2*time.Hour, func(e *entity.WaitlistEntry) {
		e.Status = entity.WaitlistStatusNotified
	})
	seedWaiting(repo, entity.WaitlistPriorityLow, 3*time.Hour, func(e *entity.WaitlistEntry) {
		e.Status = entity.WaitlistStatusExpired
	})

	stats, err := engine.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}
	if stats.ActiveTotal != 3 {
		t.Errorf("expected 3 active entries, got %d", stats.ActiveTotal)
	}
	if stats.ByStatus["waiting"] != 2 || stats.ByStatus["notified"] != 1 || stats.ByStatus["expired"] != 1 {
		t.Errorf("unexpected status counts: %+v", stats.ByStatus)
	}
	if stats.ByPriority["normal"] != 2 || stats.ByPriority["urgent"] != 1 {
		t.Errorf("unexpected priority counts: %+v", stats.ByPriority)
	}
	if _, ok := stats.ByPriority["low"]; ok {
		t.Errorf("terminal entries must not count toward active priorities")
	}
}

func TestCancelPatientOwnershipGuard(t *testing.T) {
	repo := newFakeWaitlistRepo()
	engine := newWaitlistForTest(repo, newFakeDispatcher())
	entry := seedWaiting(repo, entity.WaitlistPriorityNormal, 0, nil)

	if err := engine.Cancel(ctxWithRole(uuid.New(), entity.RoleIDPatient), entry.ID); err != ErrWaitlistNotOwned {
		t.Fatalf("expected ErrWaitlistNotOwned, got %v", err)
	}
	if got := repo.get(entry.ID).Status; got != entity.WaitlistStatusWaiting {
		t.Errorf("entry status changed by non-owner: %s", got)
	}

	if err := engine.Cancel(ctxWithRole(entry.PatientID, entity.RoleIDPatient), entry.ID); err != nil {
		t.Fatalf("owner cancel returned error: %v", err)
	}
	if got := repo.get(entry.ID).Status; got != entity.WaitlistStatusCancelled {
		t.Errorf("expected cancelled, got %s", got)
	}
}

func TestCancelStaffMayCancelAnyEntry(t *testing.T) {
	repo := newFakeWaitlistRepo()
	engine := newWaitlistForTest(repo, newFakeDispatcher())
	entry := seedWaiting(repo, entity.WaitlistPriorityHigh, 0, nil)

	if err := engine.Cancel(ctxWithRole(uuid.New(), entity.RoleIDStaff), entry.ID); err != nil {
		t.Fatalf("staff cancel returned error: %v", err)
	}
	if got := repo.get(entry.ID).Status; got != entity.WaitlistStatusCancelled {
		t.Errorf("expected cancelled, got %s", got)
	}
}
