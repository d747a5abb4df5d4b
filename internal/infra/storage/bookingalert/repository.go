package bookingalert

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffingService/pkg/psqlbuilder"
)

var alertColumns = []string{
	"id",
	"title",
	"description",
	"service_id",
	"client_id",
	"manager_id",
	"location_address",
	"location_lat",
	"location_lng",
	"start_time",
	"end_time",
	"status",
	"claimed_by",
	"claimed_at",
	"rejection_reason",
	"send_to_all",
	"selected_location_areas",
	"send_as_notification",
	"send_as_email",
	"emails_sent",
	"booking_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с алертами открытых смен
//
// Все переходы статусов реализованы как условные UPDATE с проверкой
// текущего статуса (compare-and-swap). Конкурирующие claim/confirm/reject
// завершаются с ErrStatusConflict вместо гонки last-write-wins.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория алертов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый алерт со статусом open
func (r *Repository) Create(ctx context.Context, alert *domain.BookingAlert) (*domain.BookingAlert, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_alerts").
		Columns(
			"title",
			"description",
			"service_id",
			"client_id",
			"manager_id",
			"location_address",
			"location_lat",
			"location_lng",
			"start_time",
			"end_time",
			"status",
			"send_to_all",
			"selected_location_areas",
			"send_as_notification",
			"send_as_email",
		).
		Values(
			alert.Title,
			alert.Description,
			alert.ServiceID,
			alert.ClientID,
			alert.ManagerID,
			alert.Location.Address,
			alert.Location.Latitude,
			alert.Location.Longitude,
			alert.StartTime,
			alert.EndTime,
			domain.AlertOpen,
			alert.SendToAll,
			pq.Array(alert.SelectedLocationAreas),
			alert.SendAsNotification,
			alert.SendAsEmail,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&alert.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	alert.Status = domain.AlertOpen
	alert.CreatedAt = createdAt.Time
	alert.UpdatedAt = updatedAt.Time

	return alert, nil
}

// GetByID получает алерт по ID вместе со списком отклоненных сотрудников
// В транзакции блокирует строку через FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingAlert, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(alertColumns...).
		From("booking_alerts").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	alert, err := scanAlert(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan alert: %v", ErrScanRow, err)
	}

	rejections, err := r.getRejections(ctx, id)
	if err != nil {
		return nil, err
	}
	alert.RejectedStaff = rejections

	return alert, nil
}

// ListOpen получает все открытые алерты (для таргетированной фильтрации
// на уровне сервиса), от ближайших смен к дальним
func (r *Repository) ListOpen(ctx context.Context) ([]*domain.BookingAlert, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(alertColumns...).
		From("booking_alerts").
		Where(squirrel.Eq{"status": domain.AlertOpen}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOpen - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpen - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, err
	}

	// Подтягиваем отклонения пачкой, чтобы сервис мог исключить сотрудника,
	// которому менеджер уже отказал по этому алерту
	if err := r.attachRejections(ctx, alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// ListStuckClaimed получает алерты, застрявшие в статусе claimed дольше
// порога (для фонового свипа: claim есть, подтверждения нет)
func (r *Repository) ListStuckClaimed(ctx context.Context, claimedBefore time.Time) ([]*domain.BookingAlert, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(alertColumns...).
		From("booking_alerts").
		Where(squirrel.Eq{"status": []domain.AlertStatus{domain.AlertClaimed, domain.AlertPendingConfirmation}}).
		Where(squirrel.Lt{"claimed_at": claimedBefore}).
		OrderBy("claimed_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStuckClaimed - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStuckClaimed - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// Claim переводит алерт open -> claimed, назначая claimed_by
// Условный переход: если алерт не в статусе open, возвращает
// ErrStatusConflict (или ErrAlertNotFound, если алерта нет вовсе)
func (r *Repository) Claim(ctx context.Context, id int64, staffID int64, claimedAt time.Time) error {
	query, args, err := psqlbuilder.Update("booking_alerts").
		Set("status", domain.AlertClaimed).
		Set("claimed_by", staffID).
		Set("claimed_at", claimedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.AlertOpen}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Claim - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, id, query, args, "Claim")
}

// Confirm переводит алерт claimed/pending_confirmation -> confirmed и
// проставляет ссылку на созданное бронирование. Терминальный переход.
func (r *Repository) Confirm(ctx context.Context, id int64, bookingID int64) error {
	query, args, err := psqlbuilder.Update("booking_alerts").
		Set("status", domain.AlertConfirmed).
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": []domain.AlertStatus{domain.AlertClaimed, domain.AlertPendingConfirmation},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, id, query, args, "Confirm")
}

// Reject возвращает алерт claimed/pending_confirmation -> open, очищает
// claimed_by/claimed_at и записывает отклонение в booking_alert_rejections
// Оба выражения должны выполняться в одной транзакции (контекст с tx):
// reopen без записи отклонения снял бы блокировку отклоненного сотрудника
func (r *Repository) Reject(ctx context.Context, id int64, rejection domain.AlertRejection) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_alerts").
		Set("status", domain.AlertOpen).
		Set("claimed_by", nil).
		Set("claimed_at", nil).
		Set("rejection_reason", rejection.Reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": []domain.AlertStatus{domain.AlertClaimed, domain.AlertPendingConfirmation},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reject - build update query: %v", ErrBuildQuery, err)
	}

	if err := r.execTransition(ctx, id, query, args, "Reject"); err != nil {
		return err
	}

	insertQuery, insertArgs, err := psqlbuilder.Insert("booking_alert_rejections").
		Columns("alert_id", "staff_id", "rejected_at", "reason").
		Values(id, rejection.StaffID, rejection.RejectedAt, rejection.Reason).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reject - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: Reject - insert rejection: %v", ErrExecQuery, err)
	}

	return nil
}

// Cancel переводит алерт в терминальный статус cancelled
// Допустим из любого нетерминального статуса
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Update("booking_alerts").
		Set("status", domain.AlertCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": []domain.AlertStatus{domain.AlertConfirmed, domain.AlertCancelled}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, id, query, args, "Cancel")
}

// MarkEmailsSent помечает, что email рассылка по алерту выполнена
func (r *Repository) MarkEmailsSent(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_alerts").
		Set("emails_sent", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkEmailsSent - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkEmailsSent - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// execTransition выполняет условный переход статуса
// 0 затронутых строк означает: либо алерта нет, либо статус уже другой
func (r *Repository) execTransition(ctx context.Context, id int64, query string, args []interface{}, method string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		// Различаем "не найден" и "не тот статус"
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAlertNotFound
		}
		return ErrStatusConflict
	}

	return nil
}

func (r *Repository) exists(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("booking_alerts").
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

func (r *Repository) getRejections(ctx context.Context, alertID int64) ([]domain.AlertRejection, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("staff_id", "rejected_at", "reason").
		From("booking_alert_rejections").
		Where(squirrel.Eq{"alert_id": alertID}).
		OrderBy("rejected_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getRejections - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getRejections - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rejections := make([]domain.AlertRejection, 0)
	for rows.Next() {
		var rejection domain.AlertRejection
		if err := rows.Scan(&rejection.StaffID, &rejection.RejectedAt, &rejection.Reason); err != nil {
			return nil, fmt.Errorf("%w: getRejections - scan row: %v", ErrScanRow, err)
		}
		rejections = append(rejections, rejection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getRejections - rows error: %v", ErrScanRow, err)
	}

	return rejections, nil
}

func (r *Repository) attachRejections(ctx context.Context, alerts []*domain.BookingAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	alertIDs := make([]int64, len(alerts))
	byID := make(map[int64]*domain.BookingAlert, len(alerts))
	for i, alert := range alerts {
		alertIDs[i] = alert.ID
		byID[alert.ID] = alert
	}

	query, args, err := psqlbuilder.Select("alert_id", "staff_id", "rejected_at", "reason").
		From("booking_alert_rejections").
		Where(squirrel.Eq{"alert_id": alertIDs}).
		OrderBy("rejected_at ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachRejections - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachRejections - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var alertID int64
		var rejection domain.AlertRejection
		if err := rows.Scan(&alertID, &rejection.StaffID, &rejection.RejectedAt, &rejection.Reason); err != nil {
			return fmt.Errorf("%w: attachRejections - scan row: %v", ErrScanRow, err)
		}
		if alert, ok := byID[alertID]; ok {
			alert.RejectedStaff = append(alert.RejectedStaff, rejection)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachRejections - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*domain.BookingAlert, error) {
	var alert domain.BookingAlert
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&alert.ID,
		&alert.Title,
		&alert.Description,
		&alert.ServiceID,
		&alert.ClientID,
		&alert.ManagerID,
		&alert.Location.Address,
		&alert.Location.Latitude,
		&alert.Location.Longitude,
		&alert.StartTime,
		&alert.EndTime,
		&alert.Status,
		&alert.ClaimedBy,
		&alert.ClaimedAt,
		&alert.RejectionReason,
		&alert.SendToAll,
		pq.Array(&alert.SelectedLocationAreas),
		&alert.SendAsNotification,
		&alert.SendAsEmail,
		&alert.EmailsSent,
		&alert.BookingID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	alert.CreatedAt = createdAt.Time
	alert.UpdatedAt = updatedAt.Time

	return &alert, nil
}

func scanAlerts(rows *sql.Rows) ([]*domain.BookingAlert, error) {
	alerts := make([]*domain.BookingAlert, 0)

	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAlerts - scan row: %v", ErrScanRow, err)
		}
		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAlerts - rows error: %v", ErrScanRow, err)
	}

	return alerts, nil
}
