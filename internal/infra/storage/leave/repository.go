package leave

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffingService/pkg/psqlbuilder"
)

var leaveColumns = []string{
	"id",
	"staff_id",
	"start_date",
	"end_date",
	"reason",
	"status",
	"reviewed_by",
	"reviewed_at",
	"denial_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заявками на отпуск
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок на отпуск
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую заявку со статусом pending
func (r *Repository) Create(ctx context.Context, request *domain.LeaveRequest) (*domain.LeaveRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("leave_requests").
		Columns("staff_id", "start_date", "end_date", "reason", "status").
		Values(request.StaffID, request.StartDate, request.EndDate, request.Reason, domain.LeavePending).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&request.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	request.Status = domain.LeavePending
	request.CreatedAt = createdAt.Time
	request.UpdatedAt = updatedAt.Time

	return request, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.LeaveRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leaveColumns...).
		From("leave_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	request, err := scanLeave(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLeaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan leave request: %v", ErrScanRow, err)
	}

	return request, nil
}

// GetByStaff получает заявки сотрудника, новые первыми
func (r *Repository) GetByStaff(ctx context.Context, staffID int64) ([]*domain.LeaveRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leaveColumns...).
		From("leave_requests").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("start_date DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanLeaves(rows)
}

// GetBlockingOverlapping получает pending/approved заявки сотрудника,
// пересекающиеся с [startDate, endDate] по четырехстороннему тесту
// (для проверки дубликатов при создании заявки)
func (r *Repository) GetBlockingOverlapping(ctx context.Context, staffID int64, startDate, endDate time.Time) ([]*domain.LeaveRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leaveColumns...).
		From("leave_requests").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"status": domain.BlockingLeaveStatuses}).
		Where(dateOverlapCondition(startDate, endDate)).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanLeaves(rows)
}

// StaffIDsOnApprovedLeave получает ID сотрудников с одобренным отпуском,
// пересекающимся с окном (для проверки доступности персонала)
func (r *Repository) StaffIDsOnApprovedLeave(ctx context.Context, window domain.TimeWindow) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT staff_id").
		From("leave_requests").
		Where(squirrel.Eq{"status": domain.LeaveApproved}).
		Where(dateOverlapCondition(window.Start, window.End)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: StaffIDsOnApprovedLeave - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: StaffIDsOnApprovedLeave - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staffIDs := make([]int64, 0)
	for rows.Next() {
		var staffID int64
		if err := rows.Scan(&staffID); err != nil {
			return nil, fmt.Errorf("%w: StaffIDsOnApprovedLeave - scan staff_id: %v", ErrScanRow, err)
		}
		staffIDs = append(staffIDs, staffID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: StaffIDsOnApprovedLeave - rows error: %v", ErrScanRow, err)
	}

	return staffIDs, nil
}

// Review переводит pending заявку в approved/denied
// Условный переход: если заявка уже рассмотрена, возвращает ErrNotPending
func (r *Repository) Review(ctx context.Context, id int64, status domain.LeaveStatus, reviewerID int64, denialReason *string) error {
	query, args, err := psqlbuilder.Update("leave_requests").
		Set("status", status).
		Set("reviewed_by", reviewerID).
		Set("reviewed_at", squirrel.Expr("NOW()")).
		Set("denial_reason", denialReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.LeavePending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Review - build update query: %v", ErrBuildQuery, err)
	}

	return r.execPendingOnly(ctx, id, query, args, "Review")
}

// DeletePending удаляет pending заявку (отзыв сотрудником)
func (r *Repository) DeletePending(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete("leave_requests").
		Where(squirrel.Eq{"id": id, "status": domain.LeavePending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeletePending - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execPendingOnly(ctx, id, query, args, "DeletePending")
}

// execPendingOnly выполняет запрос, затрагивающий только pending заявку
// 0 затронутых строк означает: либо заявки нет, либо она уже рассмотрена
func (r *Repository) execPendingOnly(ctx context.Context, id int64, query string, args []interface{}, method string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrLeaveNotFound
		}
		return ErrNotPending
	}

	return nil
}

func (r *Repository) exists(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("leave_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// dateOverlapCondition четырехстороннее условие пересечения диапазонов дат
// (те же четыре случая, что и для бронирований, но на инклюзивных датах)
func dateOverlapCondition(start, end time.Time) squirrel.Or {
	return squirrel.Or{
		squirrel.And{
			squirrel.GtOrEq{"start_date": start},
			squirrel.LtOrEq{"start_date": end},
		},
		squirrel.And{
			squirrel.GtOrEq{"end_date": start},
			squirrel.LtOrEq{"end_date": end},
		},
		squirrel.And{
			squirrel.LtOrEq{"start_date": start},
			squirrel.GtOrEq{"end_date": end},
		},
		squirrel.And{
			squirrel.GtOrEq{"start_date": start},
			squirrel.LtOrEq{"end_date": end},
		},
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLeave(row rowScanner) (*domain.LeaveRequest, error) {
	var request domain.LeaveRequest
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&request.ID,
		&request.StaffID,
		&request.StartDate,
		&request.EndDate,
		&request.Reason,
		&request.Status,
		&request.ReviewedBy,
		&request.ReviewedAt,
		&request.DenialReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	request.CreatedAt = createdAt.Time
	request.UpdatedAt = updatedAt.Time

	return &request, nil
}

func scanLeaves(rows *sql.Rows) ([]*domain.LeaveRequest, error) {
	requests := make([]*domain.LeaveRequest, 0)

	for rows.Next() {
		request, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanLeaves - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanLeaves - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}
