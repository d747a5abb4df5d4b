package reject_alert

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffingService/internal/service/alerts"
)

const (
	msgInvalidAlertID     = "некорректный ID алерта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgAlertNotFound      = "алерт не найден"
	msgForbidden          = "доступ запрещен"
	msgReasonRequired     = "требуется причина отклонения"
	msgNotAwaitingConfirm = "алерт не ожидает подтверждения"
)

type Handler struct {
	service AlertService
	logger  Logger
}

func NewHandler(service AlertService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/alerts/{alertId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	alertID, err := strconv.ParseInt(vars["alertId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /alerts/{alertId}/reject - Invalid alert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAlertID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /alerts/{alertId}/reject - Missing user ID: alert_id=%d", alertID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RejectAlertRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /alerts/{alertId}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	alert, err := h.service.Reject(r.Context(), alertID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, alerts.ErrReasonRequired):
			h.logger.Warn("POST /alerts/{alertId}/reject - Missing reason: alert_id=%d", alertID)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, alerts.ErrAlertNotFound):
			h.logger.Warn("POST /alerts/{alertId}/reject - Alert not found: alert_id=%d", alertID)
			handlers.RespondNotFound(w, msgAlertNotFound)

		case errors.Is(err, alerts.ErrUserNotFound), errors.Is(err, alerts.ErrAccessDenied):
			h.logger.Warn("POST /alerts/{alertId}/reject - Access denied: alert_id=%d, user_id=%d", alertID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, alerts.ErrNotAwaitingConfirmation):
			h.logger.Warn("POST /alerts/{alertId}/reject - Not awaiting confirmation: alert_id=%d", alertID)
			handlers.RespondConflict(w, msgNotAwaitingConfirm)

		default:
			h.logger.Error("POST /alerts/{alertId}/reject - Failed to reject claim: alert_id=%d, error=%v", alertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /alerts/{alertId}/reject - Claim rejected: alert_id=%d, manager_id=%d", alertID, userID)
	handlers.RespondJSON(w, http.StatusOK, alert)
}
