package usecase

import (
	"testing"

	"hospital-scheduling/internal/delivery/dto"

	"github.com/google/uuid"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func newScheduleAdminForTest(weekly *fakeWeeklyRepo, overrides *fakeOverrideRepo) ScheduleAdminUsecase {
	return NewScheduleAdminUsecase(testDB(), testLogger(), weekly, overrides, &fakeAuditService{})
}

func TestCreateWeeklySchedule(t *testing.T) {
	weekly := &fakeWeeklyRepo{}
	admin := newScheduleAdminForTest(weekly, &fakeOverrideRepo{})

	resp, err := admin.CreateWeekly(ctxWithUser(uuid.New()), &dto.CreateWeeklyScheduleRequest{
		StaffID:    uuid.New(),
		DayOfWeek:  intPtr(1),
		StartTime:  "09:00",
		EndTime:    "17:00",
		BreakStart: "12:00",
		BreakEnd:   "13:00",
	})
	if err != nil {
		t.Fatalf("CreateWeekly returned error: %v", err)
	}
	if !resp.IsAvailable {
		t.Errorf("availability should default to true")
	}
	if resp.BreakStart != "12:00" || resp.BreakEnd != "13:00" {
		t.Errorf("break window lost: %+v", resp)
	}
}

func TestCreateWeeklyWindowValidation(t *testing.T) {
	admin := newScheduleAdminForTest(&fakeWeeklyRepo{}, &fakeOverrideRepo{})
	ctx := ctxWithUser(uuid.New())

	tests := []struct {
		name    string
		req     *dto.CreateWeeklyScheduleRequest
		wantErr error
	}{
		{
			"end before start",
			&dto.CreateWeeklyScheduleRequest{StaffID: uuid.New(), DayOfWeek: intPtr(1), StartTime: "17:00", EndTime: "09:00"},
			ErrInvalidWindow,
		},
		{
			"break outside window",
			&dto.CreateWeeklyScheduleRequest{StaffID: uuid.New(), DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "12:00", BreakStart: "13:00", BreakEnd: "14:00"},
			ErrInvalidBreak,
		},
		{
			"half-open break",
			&dto.CreateWeeklyScheduleRequest{StaffID: uuid.New(), DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "17:00", BreakStart: "12:00"},
			ErrInvalidBreak,
		},
		{
			"bad clock",
			&dto.CreateWeeklyScheduleRequest{StaffID: uuid.New(), DayOfWeek: intPtr(1), StartTime: "nine", EndTime: "17:00"},
			ErrInvalidTimeFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := admin.CreateWeekly(ctx, tc.req); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdateWeeklySchedule(t *testing.T) {
	weekly := &fakeWeeklyRepo{}
	admin := newScheduleAdminForTest(weekly, &fakeOverrideRepo{})
	staffID := uuid.New()

	created, err := admin.CreateWeekly(ctxWithUser(uuid.New()), &dto.CreateWeeklyScheduleRequest{
		StaffID:   staffID,
		DayOfWeek: intPtr(2),
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	if err != nil {
		t.Fatalf("CreateWeekly returned error: %v", err)
	}

	updated, err := admin.UpdateWeekly(ctxWithUser(uuid.New()), created.ID, &dto.UpdateWeeklyScheduleRequest{
		EndTime:     "15:00",
		IsAvailable: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("UpdateWeekly returned error: %v", err)
	}
	if updated.EndTime != "15:00" || updated.StartTime != "09:00" {
		t.Errorf("partial update wrong: %+v", updated)
	}
	if updated.IsAvailable {
		t.Errorf("availability flag not updated")
	}

	if _, err := admin.UpdateWeekly(ctxWithUser(uuid.New()), 9999, &dto.UpdateWeeklyScheduleRequest{EndTime: "15:00"}); err != ErrScheduleNotFound {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestDeleteWeeklySchedule(t *testing.T) {
	weekly := &fakeWeeklyRepo{}
	admin := newScheduleAdminForTest(weekly, &fakeOverrideRepo{})

	created, err := admin.CreateWeekly(ctxWithUser(uuid.New()), &dto.CreateWeeklyScheduleRequest{
		StaffID:   uuid.New(),
		DayOfWeek: intPtr(3),
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	if err != nil {
		t.Fatalf("CreateWeekly returned error: %v", err)
	}

	if err := admin.DeleteWeekly(ctxWithUser(uuid.New()), created.ID); err != nil {
		t.Fatalf("DeleteWeekly returned error: %v", err)
	}
	if err := admin.DeleteWeekly(ctxWithUser(uuid.New()), created.ID); err != ErrScheduleNotFound {
		t.Fatalf("expected ErrScheduleNotFound for second delete, got %v", err)
	}
}

func TestCreateOverride(t *testing.T) {
	overrides := &fakeOverrideRepo{}
	admin := newScheduleAdminForTest(&fakeWeeklyRepo{}, overrides)

	resp, err := admin.CreateOverride(ctxWithUser(uuid.New()), &dto.CreateScheduleOverrideRequest{
		StaffID:   uuid.New(),
		Date:      "2026-09-20",
		StartTime: "10:00",
		EndTime:   "14:00",
		Reason:    "clinic relocation",
	})
	if err != nil {
		t.Fatalf("CreateOverride returned error: %v", err)
	}
	if resp.Date != "2026-09-20" || !resp.IsAvailable {
		t.Errorf("override not persisted as expected: %+v", resp)
	}
}

func TestCreateDayOffOverrideSkipsWindowValidation(t *testing.T) {
	admin := newScheduleAdminForTest(&fakeWeeklyRepo{}, &fakeOverrideRepo{})

	resp, err := admin.CreateOverride(ctxWithUser(uuid.New()), &dto.CreateScheduleOverrideRequest{
		StaffID:     uuid.New(),
		Date:        "2026-09-21",
		IsAvailable: boolPtr(false),
		Reason:      "public holiday",
	})
	if err != nil {
		t.Fatalf("day-off override should not need a window, got %v", err)
	}
	if resp.IsAvailable {
		t.Errorf("day-off override should be unavailable")
	}
}

func TestCreateOverrideBadDate(t *testing.T) {
	admin := newScheduleAdminForTest(&fakeWeeklyRepo{}, &fakeOverrideRepo{})

	if _, err := admin.CreateOverride(ctxWithUser(uuid.New()), &dto.CreateScheduleOverrideRequest{
		StaffID: uuid.New(),
		Date:    "21-09-2026",
	}); err != ErrInvalidDateFormat {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestOverrideFeedsSlotResolver(t *testing.T) {
	weekly := &fakeWeeklyRepo{}
	overrides := &fakeOverrideRepo{}
	admin := newScheduleAdminForTest(weekly, overrides)
	resolver := newSlotResolverForTest(weekly, overrides, newFakeAppointmentRepo())

	staffID := uuid.New()
	if _, err := admin.CreateWeekly(ctxWithUser(uuid.New()), &dto.CreateWeeklyScheduleRequest{
		StaffID:   staffID,
		DayOfWeek: intPtr(1),
		StartTime: "09:00",
		EndTime:   "17:00",
	}); err != nil {
		t.Fatalf("CreateWeekly returned error: %v", err)
	}
	if _, err := admin.CreateOverride(ctxWithUser(uuid.New()), &dto.CreateScheduleOverrideRequest{
		StaffID:   staffID,
		Date:      "2026-09-07",
		StartTime: "09:00",
		EndTime:   "10:00",
	}); err != nil {
		t.Fatalf("CreateOverride returned error: %v", err)
	}

	slots, err := resolver.Resolve(ctxWithUser(uuid.New()), staffID, mustDate("2026-09-07"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("override window should yield 2 slots, got %d: %+v", len(slots), slots)
	}

	slots, err = resolver.Resolve(ctxWithUser(uuid.New()), staffID, mustDate("2026-09-14"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("weekly schedule should yield 16 slots on a non-override day, got %d", len(slots))
	}
}

func TestValidateWindowNormalizesBreak(t *testing.T) {
	bs, be, err := validateWindow("09:00", "17:00", "", "")
	if err != nil || bs != nil || be != nil {
		t.Fatalf("no-break window should normalize to nils: %v %v %v", bs, be, err)
	}

	bs, be, err = validateWindow("09:00", "17:00", "12:00", "12:30")
	if err != nil {
		t.Fatalf("valid break rejected: %v", err)
	}
	if *bs != "12:00" || *be != "12:30" {
		t.Errorf("break values mangled: %s %s", *bs, *be)
	}

	if _, _, err := validateWindow("09:00", "17:00", "12:30", "12:00"); err != ErrInvalidBreak {
		t.Fatalf("inverted break should fail, got %v", err)
	}
}
