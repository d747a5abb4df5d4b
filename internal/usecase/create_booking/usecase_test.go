package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	existing     []*domain.Booking
	serviceOnDay []*domain.Booking
	serviceCount int
	staffCount   int

	created *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = 101
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetOverlapping(_ context.Context, staffID int64, window domain.TimeWindow, _ *int64) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.existing {
		if b.StaffID == staffID && b.IsActive() && b.Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByServiceOnDay(_ context.Context, _ int64, _, _ time.Time) (int, error) {
	return f.serviceCount, nil
}

func (f *fakeBookingRepo) CountByStaffOnDay(_ context.Context, _ int64, _, _ time.Time) (int, error) {
	return f.staffCount, nil
}

func (f *fakeBookingRepo) GetByStaffServiceOnDay(_ context.Context, _, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.serviceOnDay, nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return u, nil
}

type fakeServiceRepo struct {
	service *domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, nil
}

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Record(_ context.Context, entry *domain.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeNotifier struct {
	confirmations []notifier.BookingPayload
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, payload notifier.BookingPayload) error {
	f.confirmations = append(f.confirmations, payload)
	return nil
}

type fakeHRClient struct {
	calls int
}

func (f *fakeHRClient) CreateAccessForBooking(_ context.Context, _ int64, _ int) error {
	f.calls++
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Фикстуры

const (
	managerID = int64(1)
	clientID  = int64(2)
	staffID   = int64(3)
	serviceID = int64(10)
)

func baseUsers() map[int64]*domain.User {
	return map[int64]*domain.User{
		managerID: {ID: managerID, Name: "Olga", Email: "olga@agency.test", Role: domain.RoleManager, Active: true},
		clientID:  {ID: clientID, Name: "Ivan", Email: "ivan@client.test", Role: domain.RoleClient, Active: true},
		staffID:   {ID: staffID, Name: "Maria", Email: "maria@agency.test", Role: domain.RoleStaff, Active: true},
	}
}

func dayAt(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", "2026-09-15 "+hhmm)
	require.NoError(t, err)
	return parsed
}

func newTestUseCase(bookings *fakeBookingRepo, users *fakeUserRepo, services *fakeServiceRepo) (*UseCase, *fakeAuditRepo, *fakeNotifier, *fakeHRClient) {
	audit := &fakeAuditRepo{}
	notif := &fakeNotifier{}
	hr := &fakeHRClient{}

	uc := NewUseCase(bookings, users, services, audit, notif, hr, &fakeTxManager{}, noopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)}

	return uc, audit, notif, hr
}

func validRequest(t *testing.T) *Request {
	return &Request{
		CreatedBy: managerID,
		ClientID:  clientID,
		StaffID:   staffID,
		ServiceID: serviceID,
		Title:     "Morning shift",
		StartTime: dayAt(t, "09:00"),
		EndTime:   dayAt(t, "17:00"),
	}
}

// Тесты

func TestCreateBooking_Success(t *testing.T) {
	bookings := &fakeBookingRepo{}
	users := &fakeUserRepo{users: baseUsers()}
	services := &fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}}

	uc, audit, notif, hr := newTestUseCase(bookings, users, services)

	resp, err := uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "Nanny visit", resp.ServiceName)
	assert.Equal(t, "Maria", resp.StaffName)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditBookingCreated, audit.entries[0].Action)
	require.Len(t, notif.confirmations, 1)
	assert.Equal(t, int64(101), notif.confirmations[0].BookingID)
	assert.Equal(t, 1, hr.calls)
}

func TestCreateBooking_ValidationFails(t *testing.T) {
	bookings := &fakeBookingRepo{}
	users := &fakeUserRepo{users: baseUsers()}
	services := &fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}}

	uc, _, _, _ := newTestUseCase(bookings, users, services)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing staff", func(r *Request) { r.StaffID = 0 }},
		{"missing service", func(r *Request) { r.ServiceID = 0 }},
		{"missing start", func(r *Request) { r.StartTime = time.Time{} }},
		{"start after end", func(r *Request) { r.StartTime, r.EndTime = r.EndTime, r.StartTime }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(t)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateBooking_CreatorWithoutCapability(t *testing.T) {
	users := baseUsers()
	uc, _, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeUserRepo{users: users},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}})

	req := validRequest(t)
	req.CreatedBy = staffID // staff роль не создает бронирования

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateBooking_InactiveStaff(t *testing.T) {
	users := baseUsers()
	users[staffID].Active = false

	uc, _, _, _ := newTestUseCase(&fakeBookingRepo{}, &fakeUserRepo{users: users},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}})

	_, err := uc.Execute(context.Background(), validRequest(t))

	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestCreateBooking_OverlapConflict(t *testing.T) {
	// У сотрудника уже есть смена 09:00-17:00; запрос 10:00-11:00 попадает внутрь
	existing := &domain.Booking{
		ID:        55,
		StaffID:   staffID,
		Title:     "Existing shift",
		StartTime: dayAt(t, "09:00"),
		EndTime:   dayAt(t, "17:00"),
		Status:    domain.StatusScheduled,
	}
	bookings := &fakeBookingRepo{existing: []*domain.Booking{existing}}

	uc, audit, _, _ := newTestUseCase(bookings, &fakeUserRepo{users: baseUsers()},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}})

	req := validRequest(t)
	req.StartTime = dayAt(t, "10:00")
	req.EndTime = dayAt(t, "11:00")

	_, err := uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrStaffConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(55), conflictErr.Conflict.ID)
	assert.Equal(t, "Existing shift", conflictErr.Conflict.Title)
	assert.Empty(t, audit.entries)
}

func TestCreateBooking_AdjacentIntervalSucceeds(t *testing.T) {
	// Смена 09:00-17:00 не мешает интервалу 17:00-18:00: границы полуоткрыты
	existing := &domain.Booking{
		ID:        55,
		StaffID:   staffID,
		StartTime: dayAt(t, "09:00"),
		EndTime:   dayAt(t, "17:00"),
		Status:    domain.StatusScheduled,
	}
	bookings := &fakeBookingRepo{existing: []*domain.Booking{existing}}

	uc, _, _, _ := newTestUseCase(bookings, &fakeUserRepo{users: baseUsers()},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}})

	req := validRequest(t)
	req.StartTime = dayAt(t, "17:00")
	req.EndTime = dayAt(t, "18:00")

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
}

func TestCreateBooking_ServiceLimitReached(t *testing.T) {
	bookings := &fakeBookingRepo{serviceCount: 3}

	uc, _, _, _ := newTestUseCase(bookings, &fakeUserRepo{users: baseUsers()},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", DailyBookingLimit: 3, Active: true}})

	_, err := uc.Execute(context.Background(), validRequest(t))

	require.ErrorIs(t, err, ErrServiceLimitReached)

	var limitErr *LimitReachedError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, serviceID, limitErr.ServiceID)
	assert.Equal(t, 3, limitErr.Limit)
	assert.True(t, limitErr.LimitReached)
}

func TestCreateBooking_StaffLimitReached(t *testing.T) {
	users := baseUsers()
	users[staffID].DailyBookingLimit = 2
	bookings := &fakeBookingRepo{staffCount: 2}

	uc, _, _, _ := newTestUseCase(bookings, &fakeUserRepo{users: users},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}})

	_, err := uc.Execute(context.Background(), validRequest(t))

	require.ErrorIs(t, err, ErrStaffLimitReached)

	var limitErr *StaffLimitReachedError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, staffID, limitErr.StaffID)
	assert.True(t, limitErr.StaffLimitReached)
}

func TestCreateBooking_SameServiceSameDay(t *testing.T) {
	sameDay := &domain.Booking{
		ID:        77,
		StaffID:   staffID,
		ServiceID: serviceID,
		Title:     "Earlier visit",
		StartTime: dayAt(t, "06:00"),
		EndTime:   dayAt(t, "08:00"),
		Status:    domain.StatusScheduled,
	}
	bookings := &fakeBookingRepo{serviceOnDay: []*domain.Booking{sameDay}}

	uc, _, _, _ := newTestUseCase(bookings, &fakeUserRepo{users: baseUsers()},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}})

	req := validRequest(t)
	req.EnforceServiceLimit = true

	_, err := uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrSameServiceSameDay)

	// Без флага тот же запрос проходит
	req2 := validRequest(t)
	_, err = uc.Execute(context.Background(), req2)
	require.NoError(t, err)
}

func TestCreateBooking_NoConfirmationWithoutEmail(t *testing.T) {
	users := baseUsers()
	users[clientID].Email = ""

	uc, _, notif, _ := newTestUseCase(&fakeBookingRepo{}, &fakeUserRepo{users: users},
		&fakeServiceRepo{service: &domain.Service{ID: serviceID, Name: "Nanny visit", Active: true}})

	_, err := uc.Execute(context.Background(), validRequest(t))

	require.NoError(t, err)
	assert.Empty(t, notif.confirmations)
}
