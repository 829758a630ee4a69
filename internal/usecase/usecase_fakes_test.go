package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"hospital-scheduling/internal/delivery/http/middleware"
	"hospital-scheduling/internal/domain/entity"
	"hospital-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// testDB builds a *gorm.DB that never touches a connection. The fakes
// below ignore the db argument entirely.
func testDB() *gorm.DB {
	return &gorm.DB{Config: &gorm.Config{}, Statement: &gorm.Statement{}}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ctxWithUser(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, userID)
}

func ctxWithRole(userID uuid.UUID, roleID int) context.Context {
	return context.WithValue(ctxWithUser(userID), middleware.RoleIDKey, roleID)
}

func mustDate(t string) time.Time {
	d, err := time.Parse("2006-01-02", t)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeAppointmentRepo keeps appointments in memory and enforces the same
// one-live-booking-per-slot rule as the partial unique index.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment

	failCreate error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) CreateIfSlotFree(db *gorm.DB, appointment *entity.Appointment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return false, f.failCreate
	}

	for _, existing := range f.appointments {
		if existing.DoctorID == appointment.DoctorID &&
			existing.Date.Equal(appointment.Date) &&
			existing.Time == appointment.Time &&
			!existing.IsCancelled() {
			return false, nil
		}
	}

	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	copied := *appointment
	f.appointments[appointment.ID] = &copied
	return true, nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.Appointment
	for _, appointment := range f.appointments {
		if appointment.DoctorID == doctorID && appointment.Date.Equal(date) && !appointment.IsCancelled() {
			result = append(result, *appointment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result, nil
}

func (f *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.Appointment
	for _, appointment := range f.appointments {
		if appointment.PatientID == patientID {
			result = append(result, *appointment)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.Appointment
	for _, appointment := range f.appointments {
		if filter.DoctorID != nil && appointment.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && appointment.PatientID != *filter.PatientID {
			continue
		}
		if filter.DateFrom != "" && appointment.Date.Format("2006-01-02") < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && appointment.Date.Format("2006-01-02") > filter.DateTo {
			continue
		}
		if filter.Status != "" && appointment.Status != filter.Status {
			continue
		}
		result = append(result, *appointment)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appointment, ok := f.appointments[id]
	if !ok || appointment.Status != from {
		return 0, nil
	}
	appointment.Status = to
	appointment.UpdatedAt = time.Now()
	return 1, nil
}

type fakeWeeklyRepo struct {
	schedules []entity.WeeklySchedule
	nextID    int
}

func (f *fakeWeeklyRepo) Create(db *gorm.DB, schedule *entity.WeeklySchedule) error {
	for _, existing := range f.schedules {
		if existing.StaffID == schedule.StaffID && existing.DayOfWeek == schedule.DayOfWeek {
			return errors.New("duplicate staff day")
		}
	}
	f.nextID++
	schedule.ID = f.nextID
	f.schedules = append(f.schedules, *schedule)
	return nil
}

func (f *fakeWeeklyRepo) FindByID(db *gorm.DB, id int) (*entity.WeeklySchedule, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			copied := f.schedules[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeWeeklyRepo) FindByStaffID(db *gorm.DB, staffID uuid.UUID) ([]entity.WeeklySchedule, error) {
	var result []entity.WeeklySchedule
	for _, schedule := range f.schedules {
		if schedule.StaffID == staffID {
			result = append(result, schedule)
		}
	}
	return result, nil
}

func (f *fakeWeeklyRepo) FindByStaffAndDay(db *gorm.DB, staffID uuid.UUID, dayOfWeek int) (*entity.WeeklySchedule, error) {
	for i := range f.schedules {
		if f.schedules[i].StaffID == staffID && f.schedules[i].DayOfWeek == dayOfWeek {
			copied := f.schedules[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeWeeklyRepo) Update(db *gorm.DB, schedule *entity.WeeklySchedule) error {
	for i := range f.schedules {
		if f.schedules[i].ID == schedule.ID {
			f.schedules[i] = *schedule
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeWeeklyRepo) Delete(db *gorm.DB, id int) (int64, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeOverrideRepo struct {
	overrides []entity.ScheduleOverride
	nextID    int
}

func (f *fakeOverrideRepo) Create(db *gorm.DB, override *entity.ScheduleOverride) error {
	f.nextID++
	override.ID = f.nextID
	f.overrides = append(f.overrides, *override)
	return nil
}

func (f *fakeOverrideRepo) FindByStaffAndDate(db *gorm.DB, staffID uuid.UUID, date time.Time) (*entity.ScheduleOverride, error) {
	for i := range f.overrides {
		if f.overrides[i].StaffID == staffID && f.overrides[i].Date.Equal(date) {
			copied := f.overrides[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOverrideRepo) FindByStaffID(db *gorm.DB, staffID uuid.UUID) ([]entity.ScheduleOverride, error) {
	var result []entity.ScheduleOverride
	for _, override := range f.overrides {
		if override.StaffID == staffID {
			result = append(result, override)
		}
	}
	return result, nil
}

func (f *fakeOverrideRepo) Delete(db *gorm.DB, id int) (int64, error) {
	for i := range f.overrides {
		if f.overrides[i].ID == id {
			f.overrides = append(f.overrides[:i], f.overrides[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// fakeWaitlistRepo mirrors the SQL promotion ordering: priority rank
// ascending, then created_at ascending.
type fakeWaitlistRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entity.WaitlistEntry
}

func newFakeWaitlistRepo() *fakeWaitlistRepo {
	return &fakeWaitlistRepo{entries: make(map[uuid.UUID]*entity.WaitlistEntry)}
}

func (f *fakeWaitlistRepo) add(entry *entity.WaitlistEntry) *entity.WaitlistEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return entry
}

func (f *fakeWaitlistRepo) get(id uuid.UUID) *entity.WaitlistEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := f.entries[id]
	if entry == nil {
		return nil
	}
	copied := *entry
	return &copied
}

func (f *fakeWaitlistRepo) Create(db *gorm.DB, entry *entity.WaitlistEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	f.add(entry)
	return nil
}

func (f *fakeWaitlistRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.WaitlistEntry, error) {
	return f.get(id), nil
}

func (f *fakeWaitlistRepo) FindActive(db *gorm.DB) ([]entity.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.WaitlistEntry
	for _, entry := range f.entries {
		if entry.Status.IsActive() {
			result = append(result, *entry)
		}
	}
	sortByPromotionOrder(result)
	return result, nil
}

func (f *fakeWaitlistRepo) FindPromotionCandidates(db *gorm.DB, slot entity.FreedSlot) ([]entity.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.WaitlistEntry
	for _, entry := range f.entries {
		if entry.Status != entity.WaitlistStatusWaiting {
			continue
		}
		if slot.Date.Before(entry.PreferredDateStart) {
			continue
		}
		if entry.PreferredDateEnd != nil && slot.Date.After(*entry.PreferredDateEnd) {
			continue
		}
		if entry.DoctorID != nil && *entry.DoctorID != slot.DoctorID {
			continue
		}
		if entry.DoctorID == nil && entry.DepartmentID != nil {
			if slot.DepartmentID == nil || *entry.DepartmentID != *slot.DepartmentID {
				continue
			}
		}
		result = append(result, *entry)
	}
	sortByPromotionOrder(result)
	return result, nil
}

func sortByPromotionOrder(entries []entity.WaitlistEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].Priority.Rank(), entries[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

func (f *fakeWaitlistRepo) MarkNotified(db *gorm.DB, id uuid.UUID, notifiedAt, expiresAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	if !ok || entry.Status != entity.WaitlistStatusWaiting {
		return 0, nil
	}
	entry.Status = entity.WaitlistStatusNotified
	entry.NotifiedAt = &notifiedAt
	entry.ExpiresAt = &expiresAt
	return 1, nil
}

func (f *fakeWaitlistRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.WaitlistStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	if !ok || entry.Status != from {
		return 0, nil
	}
	entry.Status = to
	return 1, nil
}

func (f *fakeWaitlistRepo) FindExpiredNotified(db *gorm.DB, now time.Time) ([]entity.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.WaitlistEntry
	for _, entry := range f.entries {
		if entry.Status == entity.WaitlistStatusNotified && entry.ExpiresAt != nil && entry.ExpiresAt.Before(now) {
			result = append(result, *entry)
		}
	}
	return result, nil
}

func (f *fakeWaitlistRepo) CountByStatus(db *gorm.DB) (map[entity.WaitlistStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[entity.WaitlistStatus]int64)
	for _, entry := range f.entries {
		counts[entry.Status]++
	}
	return counts, nil
}

func (f *fakeWaitlistRepo) CountActiveByPriority(db *gorm.DB) (map[entity.WaitlistPriority]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[entity.WaitlistPriority]int64)
	for _, entry := range f.entries {
		if entry.Status.IsActive() {
			counts[entry.Priority]++
		}
	}
	return counts, nil
}

// fakeDispatcher records dispatched notifications and can be told to fail
// for specific waitlist entries.
type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []service.Notification
	failFor    map[uuid.UUID]bool
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{failFor: make(map[uuid.UUID]bool)}
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, n service.Notification) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[n.WaitlistEntryID] {
		return time.Time{}, fmt.Errorf("dispatch failed for %s", n.WaitlistEntryID)
	}
	f.dispatched = append(f.dispatched, n)
	return time.Now(), nil
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dispatched)
}

func (f *fakeDispatcher) last() (service.Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.dispatched) == 0 {
		return service.Notification{}, false
	}
	return f.dispatched[len(f.dispatched)-1], true
}

// fakeAuditService records actions without touching storage.
type fakeAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAuditService) record(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	f.record(action)
	return nil
}

func (f *fakeAuditService) LogTransition(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, fromState, toState string) error {
	f.record(action)
	return nil
}

func (f *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	f.record(action)
	return nil
}

// noopSlotFreed is used when a booking test does not exercise promotion.
type noopSlotFreed struct {
	mu    sync.Mutex
	slots []entity.FreedSlot
}

func (n *noopSlotFreed) HandleSlotFreed(ctx context.Context, slot entity.FreedSlot) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.slots = append(n.slots, slot)
	return nil
}
