package confirm_alert

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	confirmAlert "github.com/m04kA/SMC-StaffingService/internal/usecase/confirm_alert"
)

const (
	msgInvalidAlertID        = "некорректный ID алерта"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgAlertNotFound         = "алерт не найден"
	msgForbidden             = "доступ запрещен"
	msgNotAwaitingConfirm    = "алерт не ожидает подтверждения"
	msgStaffScheduleConflict = "у сотрудника появилось пересекающееся бронирование"
)

type Handler struct {
	useCase ConfirmAlertUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAlertUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/alerts/{alertId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	alertID, err := strconv.ParseInt(vars["alertId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /alerts/{alertId}/confirm - Invalid alert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAlertID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /alerts/{alertId}/confirm - Missing user ID: alert_id=%d", alertID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmAlert.Request{
		AlertID:     alertID,
		ConfirmedBy: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmAlert.ErrInvalidInput):
			h.logger.Warn("POST /alerts/{alertId}/confirm - Invalid input: alert_id=%d, error=%v", alertID, err)
			handlers.RespondBadRequest(w, msgInvalidAlertID)

		case errors.Is(err, confirmAlert.ErrAlertNotFound):
			h.logger.Warn("POST /alerts/{alertId}/confirm - Alert not found: alert_id=%d", alertID)
			handlers.RespondNotFound(w, msgAlertNotFound)

		case errors.Is(err, confirmAlert.ErrAccessDenied):
			h.logger.Warn("POST /alerts/{alertId}/confirm - Access denied: alert_id=%d, user_id=%d", alertID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmAlert.ErrNotAwaitingConfirmation):
			h.logger.Warn("POST /alerts/{alertId}/confirm - Not awaiting confirmation: alert_id=%d", alertID)
			handlers.RespondConflict(w, msgNotAwaitingConfirm)

		case errors.Is(err, confirmAlert.ErrStaffConflict):
			h.logger.Warn("POST /alerts/{alertId}/confirm - Staff conflict: alert_id=%d", alertID)
			handlers.RespondConflict(w, msgStaffScheduleConflict)

		default:
			h.logger.Error("POST /alerts/{alertId}/confirm - Failed to confirm alert: alert_id=%d, error=%v", alertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /alerts/{alertId}/confirm - Alert confirmed: alert_id=%d, booking_id=%d, manager_id=%d",
		alertID, result.BookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
