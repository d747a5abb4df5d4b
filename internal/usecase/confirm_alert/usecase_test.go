package confirm_alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	alertRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/bookingalert"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
)

type fakeAlertRepo struct {
	alert      *domain.BookingAlert
	confirmErr error

	confirmedID        int64
	confirmedBookingID int64
}

func (f *fakeAlertRepo) GetByID(_ context.Context, id int64) (*domain.BookingAlert, error) {
	if f.alert == nil || f.alert.ID != id {
		return nil, alertRepo.ErrAlertNotFound
	}
	copied := *f.alert
	return &copied, nil
}

func (f *fakeAlertRepo) Confirm(_ context.Context, id int64, bookingID int64) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmedID = id
	f.confirmedBookingID = bookingID
	return nil
}

type fakeBookingRepo struct {
	overlapping []*domain.Booking
	created     []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	saved := *booking
	saved.ID = int64(500 + len(f.created))
	f.created = append(f.created, &saved)
	return &saved, nil
}

func (f *fakeBookingRepo) GetOverlapping(_ context.Context, _ int64, _ domain.TimeWindow, _ *int64) ([]*domain.Booking, error) {
	return f.overlapping, nil
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
	confirmedStaff []int64
}

func (f *fakeNotifier) SendAlertConfirmed(_ context.Context, _ notifier.AlertPayload, staffID int64) error {
	f.confirmedStaff = append(f.confirmedStaff, staffID)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

const (
	managerID = int64(1)
	staffID   = int64(11)
	alertID   = int64(42)
)

func claimedAlert(t *testing.T) *domain.BookingAlert {
	start, err := time.Parse(time.RFC3339, "2026-09-15T09:00:00Z")
	require.NoError(t, err)
	claimed := staffID
	claimedAt := start.Add(-24 * time.Hour)
	return &domain.BookingAlert{
		ID:        alertID,
		Title:     "Nanny needed",
		ServiceID: 10,
		ClientID:  2,
		ManagerID: managerID,
		Location:  domain.Location{Address: "Lenina 1"},
		StartTime: start,
		EndTime:   start.Add(8 * time.Hour),
		Status:    domain.AlertPendingConfirmation,
		ClaimedBy: &claimed,
		ClaimedAt: &claimedAt,
	}
}

func testUsers() map[int64]*domain.User {
	return map[int64]*domain.User{
		managerID: {ID: managerID, Name: "Olga", Role: domain.RoleManager, Active: true},
		staffID:   {ID: staffID, Name: "Maria", Role: domain.RoleStaff, Active: true},
	}
}

func newTestUseCase(alerts *fakeAlertRepo, bookings *fakeBookingRepo, users *fakeUserRepo) (*UseCase, *fakeAuditRepo, *fakeNotifier) {
	audit := &fakeAuditRepo{}
	notif := &fakeNotifier{}
	uc := NewUseCase(alerts, bookings, users,
		&fakeServiceRepo{service: &domain.Service{ID: 10, Name: "Nanny visit", Active: true}},
		audit, notif, &fakeTxManager{}, noopLogger{})
	return uc, audit, notif
}

func TestConfirmAlert_CreatesExactlyOneBooking(t *testing.T) {
	alerts := &fakeAlertRepo{alert: claimedAlert(t)}
	bookings := &fakeBookingRepo{}
	uc, audit, notif := newTestUseCase(alerts, bookings, &fakeUserRepo{users: testUsers()})

	resp, err := uc.Execute(context.Background(), &Request{AlertID: alertID, ConfirmedBy: managerID})

	require.NoError(t, err)
	require.Len(t, bookings.created, 1)

	booking := bookings.created[0]
	assert.Equal(t, staffID, booking.StaffID)
	assert.Equal(t, domain.StatusScheduled, booking.Status)
	assert.Equal(t, "Nanny visit", booking.ServiceName)
	assert.Equal(t, "Maria", booking.StaffName)
	require.NotNil(t, booking.ManagerID)
	assert.Equal(t, managerID, *booking.ManagerID)

	assert.Equal(t, alertID, alerts.confirmedID)
	assert.Equal(t, booking.ID, alerts.confirmedBookingID)

	assert.Equal(t, "confirmed", resp.AlertStatus)
	assert.Equal(t, booking.ID, resp.BookingID)
	assert.Equal(t, staffID, resp.StaffID)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditAlertConfirmed, audit.entries[0].Action)
	assert.Equal(t, []int64{staffID}, notif.confirmedStaff)
}

func TestConfirmAlert_NotAwaitingConfirmation(t *testing.T) {
	alert := claimedAlert(t)
	alert.Status = domain.AlertOpen
	alert.ClaimedBy = nil

	uc, _, _ := newTestUseCase(&fakeAlertRepo{alert: alert}, &fakeBookingRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := uc.Execute(context.Background(), &Request{AlertID: alertID, ConfirmedBy: managerID})

	assert.ErrorIs(t, err, ErrNotAwaitingConfirmation)
}

func TestConfirmAlert_StaffGotConflictingBookingMeanwhile(t *testing.T) {
	alerts := &fakeAlertRepo{alert: claimedAlert(t)}
	bookings := &fakeBookingRepo{
		overlapping: []*domain.Booking{{ID: 77, StaffID: staffID, Status: domain.StatusScheduled}},
	}

	uc, audit, _ := newTestUseCase(alerts, bookings, &fakeUserRepo{users: testUsers()})

	_, err := uc.Execute(context.Background(), &Request{AlertID: alertID, ConfirmedBy: managerID})

	require.ErrorIs(t, err, ErrStaffConflict)
	assert.Empty(t, bookings.created)
	assert.Empty(t, audit.entries)
}

func TestConfirmAlert_StatusConflictOnCommit(t *testing.T) {
	// Конкурирующий reject успел перевести алерт: условный UPDATE не нашел строку
	alerts := &fakeAlertRepo{alert: claimedAlert(t), confirmErr: alertRepo.ErrStatusConflict}

	uc, _, _ := newTestUseCase(alerts, &fakeBookingRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := uc.Execute(context.Background(), &Request{AlertID: alertID, ConfirmedBy: managerID})

	assert.ErrorIs(t, err, ErrNotAwaitingConfirmation)
}

func TestConfirmAlert_StaffCannotConfirm(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeAlertRepo{alert: claimedAlert(t)}, &fakeBookingRepo{},
		&fakeUserRepo{users: testUsers()})

	_, err := uc.Execute(context.Background(), &Request{AlertID: alertID, ConfirmedBy: staffID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestConfirmAlert_AlertNotFound(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeAlertRepo{}, &fakeBookingRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := uc.Execute(context.Background(), &Request{AlertID: alertID, ConfirmedBy: managerID})

	assert.ErrorIs(t, err, ErrAlertNotFound)
}
