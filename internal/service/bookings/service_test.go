package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/booking"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-StaffingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-StaffingService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking     *domain.Booking
	overlapping []*domain.Booking
	listed      []*domain.Booking

	updated       *domain.Booking
	cancelledID   int64
	cancelReason  string
	deleted       []int64
	lastExcludeID *int64
	lastFilter    domain.StaffBookingsFilter
	overlapCalls  int
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetOverlapping(_ context.Context, _ int64, _ domain.TimeWindow, excludeID *int64) ([]*domain.Booking, error) {
	f.overlapCalls++
	f.lastExcludeID = excludeID
	return f.overlapping, nil
}

func (f *fakeBookingRepo) GetByStaffWithFilter(_ context.Context, filter domain.StaffBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	return f.listed, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *domain.Booking) error {
	copied := *booking
	f.updated = &copied
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.cancelledID = id
	f.cancelReason = reason
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
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

type fakeAuditRepo struct {
	entries []*domain.AuditEntry
}

func (f *fakeAuditRepo) Record(_ context.Context, entry *domain.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeNotifier struct {
	updates       []notifier.BookingPayload
	cancellations []notifier.BookingPayload
}

func (f *fakeNotifier) SendBookingUpdate(_ context.Context, booking notifier.BookingPayload) error {
	f.updates = append(f.updates, booking)
	return nil
}

func (f *fakeNotifier) SendBookingCancellation(_ context.Context, booking notifier.BookingPayload) error {
	f.cancellations = append(f.cancellations, booking)
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
	managerID     = int64(1)
	clientID      = int64(2)
	staffID       = int64(11)
	otherClientID = int64(99)
	bookingID     = int64(42)
)

func testUsers() map[int64]*domain.User {
	return map[int64]*domain.User{
		managerID:     {ID: managerID, Name: "Olga", Role: domain.RoleManager, Active: true},
		clientID:      {ID: clientID, Name: "Ivan", Role: domain.RoleClient, Active: true},
		staffID:       {ID: staffID, Name: "Maria", Role: domain.RoleStaff, Active: true},
		otherClientID: {ID: otherClientID, Name: "Petr", Role: domain.RoleClient, Active: true},
	}
}

func scheduledBooking(t *testing.T) *domain.Booking {
	start, err := time.Parse(time.RFC3339, "2026-09-15T09:00:00Z")
	require.NoError(t, err)
	return &domain.Booking{
		ID:          bookingID,
		ClientID:    clientID,
		StaffID:     staffID,
		ServiceID:   10,
		ManagerID:   ptr.Ptr(managerID),
		Title:       "Nanny visit",
		StartTime:   start,
		EndTime:     start.Add(8 * time.Hour),
		Status:      domain.StatusScheduled,
		ServiceName: "Nanny visit",
		StaffName:   "Maria",
	}
}

func newTestService(bookings *fakeBookingRepo, users *fakeUserRepo) (*Service, *fakeAuditRepo, *fakeNotifier) {
	audit := &fakeAuditRepo{}
	notif := &fakeNotifier{}
	svc := NewService(bookings, users, audit, notif, &fakeTxManager{}, noopLogger{})
	return svc, audit, notif
}

func TestUpdate_Success(t *testing.T) {
	bookings := &fakeBookingRepo{booking: scheduledBooking(t)}
	svc, audit, notif := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	newStart, err := time.Parse(time.RFC3339, "2026-09-15T10:00:00Z")
	require.NoError(t, err)
	newEnd := newStart.Add(6 * time.Hour)

	resp, err := svc.Update(context.Background(), bookingID, &models.UpdateBookingRequest{
		UserID:    managerID,
		Title:     ptr.Ptr("Nanny visit, shortened"),
		StartTime: &newStart,
		EndTime:   &newEnd,
	})

	require.NoError(t, err)
	assert.Equal(t, "Nanny visit, shortened", resp.Title)
	assert.Equal(t, newStart, resp.StartTime)

	require.NotNil(t, bookings.updated)
	assert.Equal(t, newEnd, bookings.updated.EndTime)

	// Проверка пересечений исключает само обновляемое бронирование
	require.NotNil(t, bookings.lastExcludeID)
	assert.Equal(t, bookingID, *bookings.lastExcludeID)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditBookingUpdated, audit.entries[0].Action)
	require.Len(t, notif.updates, 1)
	assert.Equal(t, bookingID, notif.updates[0].BookingID)
}

func TestUpdate_TimeConflict(t *testing.T) {
	conflictStart, err := time.Parse(time.RFC3339, "2026-09-15T12:00:00Z")
	require.NoError(t, err)

	bookings := &fakeBookingRepo{
		booking: scheduledBooking(t),
		overlapping: []*domain.Booking{{
			ID:        77,
			Title:     "Evening sitter",
			StartTime: conflictStart,
			EndTime:   conflictStart.Add(4 * time.Hour),
			Status:    domain.StatusScheduled,
		}},
	}
	svc, audit, notif := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	newStart, err := time.Parse(time.RFC3339, "2026-09-15T11:00:00Z")
	require.NoError(t, err)
	newEnd := newStart.Add(3 * time.Hour)

	_, err = svc.Update(context.Background(), bookingID, &models.UpdateBookingRequest{
		UserID:    managerID,
		StartTime: &newStart,
		EndTime:   &newEnd,
	})

	require.ErrorIs(t, err, ErrStaffConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(77), conflictErr.Conflict.ID)

	assert.Nil(t, bookings.updated)
	assert.Empty(t, audit.entries)
	assert.Empty(t, notif.updates)
}

func TestUpdate_ManagerOverridesConflictCheck(t *testing.T) {
	bookings := &fakeBookingRepo{
		booking:     scheduledBooking(t),
		overlapping: []*domain.Booking{{ID: 77, Status: domain.StatusScheduled}},
	}
	svc, _, _ := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	newStart, err := time.Parse(time.RFC3339, "2026-09-15T11:00:00Z")
	require.NoError(t, err)
	newEnd := newStart.Add(3 * time.Hour)

	_, err = svc.Update(context.Background(), bookingID, &models.UpdateBookingRequest{
		UserID:            managerID,
		StartTime:         &newStart,
		EndTime:           &newEnd,
		OverrideConflicts: true,
	})

	require.NoError(t, err)
	assert.Zero(t, bookings.overlapCalls)
}

func TestUpdate_ClientCannotOverrideConflictCheck(t *testing.T) {
	bookings := &fakeBookingRepo{
		booking:     scheduledBooking(t),
		overlapping: []*domain.Booking{{ID: 77, Status: domain.StatusScheduled}},
	}
	svc, _, _ := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	newStart, err := time.Parse(time.RFC3339, "2026-09-15T11:00:00Z")
	require.NoError(t, err)
	newEnd := newStart.Add(3 * time.Hour)

	_, err = svc.Update(context.Background(), bookingID, &models.UpdateBookingRequest{
		UserID:            clientID,
		StartTime:         &newStart,
		EndTime:           &newEnd,
		OverrideConflicts: true,
	})

	assert.ErrorIs(t, err, ErrStaffConflict)
}

func TestUpdate_CancellationGoesThroughCancel(t *testing.T) {
	bookings := &fakeBookingRepo{booking: scheduledBooking(t)}
	svc, _, _ := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	_, err := svc.Update(context.Background(), bookingID, &models.UpdateBookingRequest{
		UserID: managerID,
		Status: ptr.Ptr("cancelled"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_CompletedBooking(t *testing.T) {
	booking := scheduledBooking(t)
	booking.Status = domain.StatusCompleted

	svc, _, _ := newTestService(&fakeBookingRepo{booking: booking}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Update(context.Background(), bookingID, &models.UpdateBookingRequest{
		UserID: managerID,
		Title:  ptr.Ptr("New title"),
	})

	assert.ErrorIs(t, err, ErrCannotUpdate)
}

func TestUpdate_StrangerClientDenied(t *testing.T) {
	svc, _, _ := newTestService(&fakeBookingRepo{booking: scheduledBooking(t)}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Update(context.Background(), bookingID, &models.UpdateBookingRequest{
		UserID: otherClientID,
		Title:  ptr.Ptr("New title"),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_Success(t *testing.T) {
	bookings := &fakeBookingRepo{booking: scheduledBooking(t)}
	svc, audit, notif := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	err := svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{
		UserID:             clientID,
		CancellationReason: "child is sick",
	})

	require.NoError(t, err)
	assert.Equal(t, bookingID, bookings.cancelledID)
	assert.Equal(t, "child is sick", bookings.cancelReason)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditBookingCancelled, audit.entries[0].Action)
	require.Len(t, notif.cancellations, 1)
	assert.Equal(t, bookingID, notif.cancellations[0].BookingID)
}

func TestCancel_CompletedBooking(t *testing.T) {
	booking := scheduledBooking(t)
	booking.Status = domain.StatusCompleted

	svc, _, _ := newTestService(&fakeBookingRepo{booking: booking}, &fakeUserRepo{users: testUsers()})

	err := svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{
		UserID:             managerID,
		CancellationReason: "too late",
	})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_StrangerClientDenied(t *testing.T) {
	bookings := &fakeBookingRepo{booking: scheduledBooking(t)}
	svc, _, notif := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	err := svc.Cancel(context.Background(), bookingID, &models.CancelBookingRequest{
		UserID:             otherClientID,
		CancellationReason: "not my booking",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, bookings.cancelledID)
	assert.Empty(t, notif.cancellations)
}

func TestDelete_ManagerOnly(t *testing.T) {
	bookings := &fakeBookingRepo{booking: scheduledBooking(t)}
	svc, audit, _ := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	err := svc.Delete(context.Background(), bookingID, staffID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, bookings.deleted)

	err = svc.Delete(context.Background(), bookingID, managerID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bookingID}, bookings.deleted)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditBookingDeleted, audit.entries[0].Action)
}

func TestGetByID_Access(t *testing.T) {
	svc, _, _ := newTestService(&fakeBookingRepo{booking: scheduledBooking(t)}, &fakeUserRepo{users: testUsers()})

	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{"client participant", clientID, nil},
		{"staff participant", staffID, nil},
		{"assigned manager", managerID, nil},
		{"stranger client", otherClientID, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetByID(context.Background(), bookingID, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, bookingID, resp.ID)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _ := newTestService(&fakeBookingRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.GetByID(context.Background(), bookingID, managerID)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetStaffBookings_Access(t *testing.T) {
	bookings := &fakeBookingRepo{listed: []*domain.Booking{scheduledBooking(t)}}
	svc, _, _ := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	// Сам сотрудник
	resp, err := svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		UserID:  staffID,
		StaffID: staffID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	// Менеджер
	_, err = svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		UserID:  managerID,
		StaffID: staffID,
	})
	require.NoError(t, err)

	// Клиент не видит чужое расписание
	_, err = svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		UserID:  clientID,
		StaffID: staffID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetStaffBookings_FilterPassedThrough(t *testing.T) {
	bookings := &fakeBookingRepo{}
	svc, _, _ := newTestService(bookings, &fakeUserRepo{users: testUsers()})

	from, err := time.Parse(time.RFC3339, "2026-09-01T00:00:00Z")
	require.NoError(t, err)
	to := from.AddDate(0, 1, 0)

	_, err = svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		UserID:          staffID,
		StaffID:         staffID,
		StartDate:       &from,
		EndDate:         &to,
		Status:          ptr.Ptr("scheduled"),
		IncludeInactive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, staffID, bookings.lastFilter.StaffID)
	require.NotNil(t, bookings.lastFilter.Status)
	assert.Equal(t, domain.StatusScheduled, *bookings.lastFilter.Status)
	assert.True(t, bookings.lastFilter.IncludeInactive)
}

func TestGetStaffBookings_InvalidStatusFilter(t *testing.T) {
	svc, _, _ := newTestService(&fakeBookingRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.GetStaffBookings(context.Background(), &models.GetStaffBookingsRequest{
		UserID:  staffID,
		StaffID: staffID,
		Status:  ptr.Ptr("paused"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
