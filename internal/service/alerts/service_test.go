package alerts

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
	"github.com/m04kA/SMC-StaffingService/internal/service/alerts/models"
)

// Фейки зависимостей

type fakeAlertRepo struct {
	alerts map[int64]*domain.BookingAlert
	open   []*domain.BookingAlert
	stuck  []*domain.BookingAlert
	tx     *fakeTxManager

	claimErr  error
	rejectErr error
	cancelErr error

	claims       []int64
	rejections   []domain.AlertRejection
	rejectedInTx bool
	cancelled    []int64
}

func (f *fakeAlertRepo) GetByID(_ context.Context, id int64) (*domain.BookingAlert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return nil, alertRepo.ErrAlertNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAlertRepo) ListOpen(_ context.Context) ([]*domain.BookingAlert, error) {
	return f.open, nil
}

func (f *fakeAlertRepo) ListStuckClaimed(_ context.Context, _ time.Time) ([]*domain.BookingAlert, error) {
	return f.stuck, nil
}

func (f *fakeAlertRepo) Claim(_ context.Context, id int64, staffID int64, _ time.Time) error {
	if f.claimErr != nil {
		return f.claimErr
	}
	f.claims = append(f.claims, staffID)
	return nil
}

func (f *fakeAlertRepo) Reject(_ context.Context, _ int64, rejection domain.AlertRejection) error {
	if f.rejectErr != nil {
		return f.rejectErr
	}
	f.rejectedInTx = f.tx != nil && f.tx.active
	f.rejections = append(f.rejections, rejection)
	return nil
}

func (f *fakeAlertRepo) Cancel(_ context.Context, id int64) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeBookingRepo struct {
	overlapping []*domain.Booking
}

func (f *fakeBookingRepo) StaffIDsWithOverlapping(_ context.Context, _ domain.TimeWindow) ([]int64, error) {
	ids := make([]int64, 0, len(f.overlapping))
	for _, b := range f.overlapping {
		ids = append(ids, b.StaffID)
	}
	return ids, nil
}

func (f *fakeBookingRepo) GetOverlapping(_ context.Context, staffID int64, _ domain.TimeWindow, _ *int64) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.overlapping {
		if b.StaffID == staffID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeLeaveRepo struct {
	onLeaveIDs []int64
}

func (f *fakeLeaveRepo) StaffIDsOnApprovedLeave(_ context.Context, _ domain.TimeWindow) ([]int64, error) {
	return f.onLeaveIDs, nil
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
	claimedManagers []int64
	rejectedStaff   []int64
	rejectReasons   []string
}

func (f *fakeNotifier) SendAlertClaimed(_ context.Context, _ notifier.AlertPayload, managerID int64) error {
	f.claimedManagers = append(f.claimedManagers, managerID)
	return nil
}

func (f *fakeNotifier) SendAlertRejected(_ context.Context, _ notifier.AlertPayload, staffID int64, reason string) error {
	f.rejectedStaff = append(f.rejectedStaff, staffID)
	f.rejectReasons = append(f.rejectReasons, reason)
	return nil
}

type fakeTxManager struct {
	active bool
	calls  int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.active = true
	f.calls++
	defer func() { f.active = false }()
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
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
	staffID   = int64(11)
	alertID   = int64(42)
)

func area(s string) *string { return &s }

func testUsers() map[int64]*domain.User {
	return map[int64]*domain.User{
		managerID: {ID: managerID, Name: "Olga", Role: domain.RoleManager, Active: true},
		clientID:  {ID: clientID, Name: "Ivan", Role: domain.RoleClient, Active: true},
		staffID:   {ID: staffID, Name: "Maria", Role: domain.RoleStaff, Active: true, LocationArea: area("north")},
	}
}

func openAlert(t *testing.T) *domain.BookingAlert {
	t.Helper()
	start, err := time.Parse(time.RFC3339, "2026-09-15T09:00:00Z")
	require.NoError(t, err)
	return &domain.BookingAlert{
		ID:        alertID,
		Title:     "Nanny needed",
		ServiceID: 10,
		ClientID:  clientID,
		ManagerID: managerID,
		Location:  domain.Location{Address: "Lenina 1"},
		StartTime: start,
		EndTime:   start.Add(8 * time.Hour),
		Status:    domain.AlertOpen,
		SendToAll: true,
	}
}

func claimedAlert(t *testing.T) *domain.BookingAlert {
	alert := openAlert(t)
	claimed := staffID
	claimedAt := alert.StartTime.Add(-48 * time.Hour)
	alert.Status = domain.AlertClaimed
	alert.ClaimedBy = &claimed
	alert.ClaimedAt = &claimedAt
	return alert
}

func newTestService(alerts *fakeAlertRepo, bookings *fakeBookingRepo, leaves *fakeLeaveRepo, users *fakeUserRepo) (*Service, *fakeAuditRepo, *fakeNotifier) {
	audit := &fakeAuditRepo{}
	notif := &fakeNotifier{}
	txm := &fakeTxManager{}
	alerts.tx = txm
	svc := NewService(alerts, bookings, leaves, users, audit, notif, txm, noopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)}
	return svc, audit, notif
}

// Тесты

func TestClaim_Success(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: openAlert(t)}}
	svc, audit, notif := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	resp, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: staffID})

	require.NoError(t, err)
	assert.Equal(t, "claimed", resp.Status)
	require.NotNil(t, resp.ClaimedBy)
	assert.Equal(t, staffID, *resp.ClaimedBy)

	assert.Equal(t, []int64{staffID}, alerts.claims)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditAlertClaimed, audit.entries[0].Action)
	assert.Equal(t, []int64{managerID}, notif.claimedManagers)
}

func TestClaim_LostRaceReturnsNotClaimable(t *testing.T) {
	// Чтение увидело open, но условный UPDATE не нашел строку в open
	alerts := &fakeAlertRepo{
		alerts:   map[int64]*domain.BookingAlert{alertID: openAlert(t)},
		claimErr: alertRepo.ErrStatusConflict,
	}
	svc, audit, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: staffID})

	assert.ErrorIs(t, err, ErrNotClaimable)
	assert.Empty(t, audit.entries)
}

func TestClaim_AlreadyClaimed(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: claimedAlert(t)}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: staffID})

	assert.ErrorIs(t, err, ErrNotClaimable)
}

func TestClaim_NotTargeted(t *testing.T) {
	alert := openAlert(t)
	alert.SendToAll = false
	alert.SelectedLocationAreas = []string{"south"}

	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: alert}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: staffID})

	assert.ErrorIs(t, err, ErrNotTargeted)
}

func TestClaim_PreviouslyRejectedStaffBlocked(t *testing.T) {
	alert := openAlert(t)
	alert.RejectedStaff = []domain.AlertRejection{{StaffID: staffID, Reason: "late arrival last time"}}

	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: alert}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: staffID})

	assert.ErrorIs(t, err, ErrAlreadyRejected)
}

func TestClaim_BusyStaffBlocked(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: openAlert(t)}}
	bookings := &fakeBookingRepo{overlapping: []*domain.Booking{{ID: 7, StaffID: staffID}}}
	svc, _, _ := newTestService(alerts, bookings, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: staffID})

	assert.ErrorIs(t, err, ErrStaffConflict)
}

func TestClaim_OnLeaveBlocked(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: openAlert(t)}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{onLeaveIDs: []int64{staffID}},
		&fakeUserRepo{users: testUsers()})

	_, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: staffID})

	assert.ErrorIs(t, err, ErrStaffConflict)
}

func TestClaim_ClientCannotClaim(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: openAlert(t)}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Claim(context.Background(), alertID, &models.ClaimAlertRequest{StaffID: clientID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReject_ReopensAlertAndRecordsRejection(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: claimedAlert(t)}}
	svc, audit, notif := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	resp, err := svc.Reject(context.Background(), alertID, &models.RejectAlertRequest{
		ManagerID: managerID,
		Reason:    "client asked for another nanny",
	})

	require.NoError(t, err)
	assert.Equal(t, "open", resp.Status)
	assert.Nil(t, resp.ClaimedBy)

	require.Len(t, alerts.rejections, 1)
	assert.Equal(t, staffID, alerts.rejections[0].StaffID)
	assert.Equal(t, "client asked for another nanny", alerts.rejections[0].Reason)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditAlertRejected, audit.entries[0].Action)
	assert.Equal(t, []int64{staffID}, notif.rejectedStaff)
	assert.Equal(t, []string{"client asked for another nanny"}, notif.rejectReasons)
}

func TestReject_ReopenAndRejectionShareTransaction(t *testing.T) {
	// Возврат в open без записи отклонения снял бы блокировку сотрудника,
	// поэтому обе записи должны уйти одной транзакцией
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: claimedAlert(t)}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Reject(context.Background(), alertID, &models.RejectAlertRequest{
		ManagerID: managerID,
		Reason:    "client asked for another nanny",
	})

	require.NoError(t, err)
	require.Len(t, alerts.rejections, 1)
	assert.True(t, alerts.rejectedInTx)
	assert.Equal(t, 1, alerts.tx.calls)
}

func TestReject_ReasonRequired(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: claimedAlert(t)}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Reject(context.Background(), alertID, &models.RejectAlertRequest{ManagerID: managerID})

	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Empty(t, alerts.rejections)
}

func TestReject_OpenAlertHasNothingToReject(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: openAlert(t)}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Reject(context.Background(), alertID, &models.RejectAlertRequest{
		ManagerID: managerID,
		Reason:    "no claim to reject",
	})

	assert.ErrorIs(t, err, ErrNotAwaitingConfirmation)
}

func TestCancel_Success(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: openAlert(t)}}
	svc, audit, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	err := svc.Cancel(context.Background(), alertID, &models.CancelAlertRequest{UserID: managerID})

	require.NoError(t, err)
	assert.Equal(t, []int64{alertID}, alerts.cancelled)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditAlertCancelled, audit.entries[0].Action)
}

func TestCancel_TerminalAlert(t *testing.T) {
	alert := openAlert(t)
	alert.Status = domain.AlertConfirmed

	alerts := &fakeAlertRepo{
		alerts:    map[int64]*domain.BookingAlert{alertID: alert},
		cancelErr: alertRepo.ErrStatusConflict,
	}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	err := svc.Cancel(context.Background(), alertID, &models.CancelAlertRequest{UserID: managerID})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_StaffCannotCancel(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: openAlert(t)}}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	err := svc.Cancel(context.Background(), alertID, &models.CancelAlertRequest{UserID: staffID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestListAvailableForStaff_Filters(t *testing.T) {
	targeted := openAlert(t)

	otherArea := openAlert(t)
	otherArea.ID = 43
	otherArea.SendToAll = false
	otherArea.SelectedLocationAreas = []string{"south"}

	rejected := openAlert(t)
	rejected.ID = 44
	rejected.RejectedStaff = []domain.AlertRejection{{StaffID: staffID, Reason: "rejected earlier"}}

	alerts := &fakeAlertRepo{
		alerts: map[int64]*domain.BookingAlert{alertID: targeted},
		open:   []*domain.BookingAlert{targeted, otherArea, rejected},
	}
	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	resp, err := svc.ListAvailableForStaff(context.Background(), staffID)

	require.NoError(t, err)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, alertID, resp.Alerts[0].ID)
}

func TestGetByID_Visibility(t *testing.T) {
	alert := claimedAlert(t)
	alerts := &fakeAlertRepo{alerts: map[int64]*domain.BookingAlert{alertID: alert}}

	users := testUsers()
	users[99] = &domain.User{ID: 99, Name: "Oleg", Role: domain.RoleClient, Active: true}

	svc, _, _ := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: users})

	// Менеджер видит любой алерт
	_, err := svc.GetByID(context.Background(), alertID, managerID)
	require.NoError(t, err)

	// Клиент видит свой алерт
	_, err = svc.GetByID(context.Background(), alertID, clientID)
	require.NoError(t, err)

	// Забравший смену сотрудник видит алерт
	_, err = svc.GetByID(context.Background(), alertID, staffID)
	require.NoError(t, err)

	// Чужой клиент не видит
	_, err = svc.GetByID(context.Background(), alertID, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSweepStuckClaims_RemindsManagers(t *testing.T) {
	first := claimedAlert(t)
	second := claimedAlert(t)
	second.ID = 43

	alerts := &fakeAlertRepo{stuck: []*domain.BookingAlert{first, second}}
	svc, _, notif := newTestService(alerts, &fakeBookingRepo{}, &fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	count, err := svc.SweepStuckClaims(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []int64{managerID, managerID}, notif.claimedManagers)
}
