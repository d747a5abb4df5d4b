package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	leaveRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/leave"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	"github.com/m04kA/SMC-StaffingService/internal/service/leave/models"
)

type fakeLeaveRepo struct {
	requests    map[int64]*domain.LeaveRequest
	overlapping []*domain.LeaveRequest

	reviewErr error
	deleteErr error

	created *domain.LeaveRequest
	deleted []int64
}

func (f *fakeLeaveRepo) Create(_ context.Context, request *domain.LeaveRequest) (*domain.LeaveRequest, error) {
	saved := *request
	saved.ID = 300
	saved.Status = domain.LeavePending
	f.created = &saved
	return &saved, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, id int64) (*domain.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, leaveRepo.ErrLeaveNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeLeaveRepo) GetByStaff(_ context.Context, staffID int64) ([]*domain.LeaveRequest, error) {
	var out []*domain.LeaveRequest
	for _, r := range f.requests {
		if r.StaffID == staffID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) GetBlockingOverlapping(_ context.Context, _ int64, _, _ time.Time) ([]*domain.LeaveRequest, error) {
	return f.overlapping, nil
}

func (f *fakeLeaveRepo) Review(_ context.Context, id int64, status domain.LeaveStatus, reviewerID int64, denialReason *string) error {
	if f.reviewErr != nil {
		return f.reviewErr
	}
	r, ok := f.requests[id]
	if !ok {
		return leaveRepo.ErrLeaveNotFound
	}
	now := time.Now()
	r.Status = status
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.DenialReason = denialReason
	return nil
}

func (f *fakeLeaveRepo) DeletePending(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
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

const (
	managerID = int64(1)
	staffID   = int64(11)
	leaveID   = int64(300)
)

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testUsers() map[int64]*domain.User {
	return map[int64]*domain.User{
		managerID: {ID: managerID, Name: "Olga", Role: domain.RoleManager, Active: true},
		staffID:   {ID: staffID, Name: "Maria", Role: domain.RoleStaff, Active: true},
	}
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateFormat, value)
	require.NoError(t, err)
	return parsed
}

func newTestService(leaves *fakeLeaveRepo, users *fakeUserRepo) *Service {
	svc := NewService(leaves, users, noopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: now}
	return svc
}

func pendingRequest(t *testing.T) *domain.LeaveRequest {
	return &domain.LeaveRequest{
		ID:        leaveID,
		StaffID:   staffID,
		StartDate: date(t, "2026-09-20"),
		EndDate:   date(t, "2026-09-25"),
		Reason:    "family trip",
		Status:    domain.LeavePending,
	}
}

func TestCreateLeave_Success(t *testing.T) {
	leaves := &fakeLeaveRepo{}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	resp, err := svc.Create(context.Background(), &models.CreateLeaveRequest{
		StaffID:   staffID,
		StartDate: date(t, "2026-09-20"),
		EndDate:   date(t, "2026-09-25"),
		Reason:    "family trip",
	})

	require.NoError(t, err)
	assert.Equal(t, leaveID, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2026-09-20", resp.StartDate)
	assert.Equal(t, "2026-09-25", resp.EndDate)
	require.NotNil(t, leaves.created)
	assert.Equal(t, staffID, leaves.created.StaffID)
}

func TestCreateLeave_InsufficientNotice(t *testing.T) {
	// "Сейчас" 1 сентября: заявка с 5 сентября нарушает недельный срок
	svc := newTestService(&fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Create(context.Background(), &models.CreateLeaveRequest{
		StaffID:   staffID,
		StartDate: date(t, "2026-09-05"),
		EndDate:   date(t, "2026-09-07"),
		Reason:    "short trip",
	})

	assert.ErrorIs(t, err, ErrInsufficientNotice)
}

func TestCreateLeave_ExactlyMinimumNotice(t *testing.T) {
	// Ровно 7 дней от полуночи 8 сентября до "сейчас" не наберется:
	// отсчет от текущего момента, так что первая допустимая дата - 9 сентября
	svc := newTestService(&fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Create(context.Background(), &models.CreateLeaveRequest{
		StaffID:   staffID,
		StartDate: date(t, "2026-09-09"),
		EndDate:   date(t, "2026-09-10"),
		Reason:    "appointment",
	})

	require.NoError(t, err)
}

func TestCreateLeave_OverlappingRequest(t *testing.T) {
	leaves := &fakeLeaveRepo{
		overlapping: []*domain.LeaveRequest{pendingRequest(t)},
	}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	_, err := svc.Create(context.Background(), &models.CreateLeaveRequest{
		StaffID:   staffID,
		StartDate: date(t, "2026-09-22"),
		EndDate:   date(t, "2026-09-28"),
		Reason:    "second trip",
	})

	assert.ErrorIs(t, err, ErrOverlappingLeave)
}

func TestCreateLeave_Validation(t *testing.T) {
	svc := newTestService(&fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	tests := []struct {
		name string
		req  *models.CreateLeaveRequest
	}{
		{"missing reason", &models.CreateLeaveRequest{
			StaffID: staffID, StartDate: date(t, "2026-09-20"), EndDate: date(t, "2026-09-25"),
		}},
		{"end before start", &models.CreateLeaveRequest{
			StaffID: staffID, StartDate: date(t, "2026-09-25"), EndDate: date(t, "2026-09-20"), Reason: "trip",
		}},
		{"missing dates", &models.CreateLeaveRequest{StaffID: staffID, Reason: "trip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateLeave_ManagerCannotRequest(t *testing.T) {
	svc := newTestService(&fakeLeaveRepo{}, &fakeUserRepo{users: testUsers()})

	_, err := svc.Create(context.Background(), &models.CreateLeaveRequest{
		StaffID:   managerID,
		StartDate: date(t, "2026-09-20"),
		EndDate:   date(t, "2026-09-25"),
		Reason:    "trip",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReview_Approve(t *testing.T) {
	leaves := &fakeLeaveRepo{requests: map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)}}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	resp, err := svc.Review(context.Background(), leaveID, &models.ReviewLeaveRequest{
		ReviewerID: managerID,
		Approve:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, managerID, *resp.ReviewedBy)
}

func TestReview_DenyRequiresReason(t *testing.T) {
	leaves := &fakeLeaveRepo{requests: map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)}}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	_, err := svc.Review(context.Background(), leaveID, &models.ReviewLeaveRequest{
		ReviewerID: managerID,
		Approve:    false,
	})
	assert.ErrorIs(t, err, ErrReasonRequired)

	reason := "peak season, no cover available"
	resp, err := svc.Review(context.Background(), leaveID, &models.ReviewLeaveRequest{
		ReviewerID:   managerID,
		Approve:      false,
		DenialReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, "denied", resp.Status)
	require.NotNil(t, resp.DenialReason)
	assert.Equal(t, reason, *resp.DenialReason)
}

func TestReview_AlreadyReviewed(t *testing.T) {
	leaves := &fakeLeaveRepo{
		requests:  map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)},
		reviewErr: leaveRepo.ErrNotPending,
	}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	_, err := svc.Review(context.Background(), leaveID, &models.ReviewLeaveRequest{
		ReviewerID: managerID,
		Approve:    true,
	})

	assert.ErrorIs(t, err, ErrNotPending)
}

func TestReview_StaffCannotReview(t *testing.T) {
	leaves := &fakeLeaveRepo{requests: map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)}}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	_, err := svc.Review(context.Background(), leaveID, &models.ReviewLeaveRequest{
		ReviewerID: staffID,
		Approve:    true,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestWithdraw_Success(t *testing.T) {
	leaves := &fakeLeaveRepo{requests: map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)}}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	err := svc.Withdraw(context.Background(), leaveID, staffID)

	require.NoError(t, err)
	assert.Equal(t, []int64{leaveID}, leaves.deleted)
}

func TestWithdraw_OnlyOwner(t *testing.T) {
	leaves := &fakeLeaveRepo{requests: map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)}}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	err := svc.Withdraw(context.Background(), leaveID, managerID)

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, leaves.deleted)
}

func TestWithdraw_NotPending(t *testing.T) {
	leaves := &fakeLeaveRepo{
		requests:  map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)},
		deleteErr: leaveRepo.ErrNotPending,
	}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	err := svc.Withdraw(context.Background(), leaveID, staffID)

	assert.ErrorIs(t, err, ErrNotPending)
}

func TestGetStaffRequests_Access(t *testing.T) {
	leaves := &fakeLeaveRepo{requests: map[int64]*domain.LeaveRequest{leaveID: pendingRequest(t)}}
	svc := newTestService(leaves, &fakeUserRepo{users: testUsers()})

	// Сам сотрудник
	resp, err := svc.GetStaffRequests(context.Background(), staffID, staffID)
	require.NoError(t, err)
	assert.Len(t, resp.Requests, 1)

	// Менеджер
	_, err = svc.GetStaffRequests(context.Background(), staffID, managerID)
	require.NoError(t, err)
}
