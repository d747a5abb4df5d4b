package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
	"github.com/m04kA/SMC-StaffingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffingService/pkg/psqlbuilder"
)

// Repository append-only репозиторий журнала аудита
// Записи не обновляются и не удаляются
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Record добавляет запись в журнал аудита
// Вызывается fire-and-forget: ошибка логируется вызывающей стороной и
// не откатывает основную операцию
func (r *Repository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if entry.ExternalRef == "" {
		entry.ExternalRef = uuid.NewString()
	}

	var details []byte
	if entry.Details != nil {
		marshalled, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("%w: Record - marshal details: %v", ErrMarshalDetails, err)
		}
		details = marshalled
	}

	query, args, err := psqlbuilder.Insert("audit_log").
		Columns(
			"external_ref",
			"action",
			"entity_type",
			"entity_id",
			"performed_by",
			"title",
			"description",
			"details",
		).
		Values(
			entry.ExternalRef,
			entry.Action,
			entry.EntityType,
			entry.EntityID,
			entry.PerformedBy,
			entry.Title,
			entry.Description,
			details,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
