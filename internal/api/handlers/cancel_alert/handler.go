package cancel_alert

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffingService/internal/service/alerts"
	"github.com/m04kA/SMC-StaffingService/internal/service/alerts/models"
)

const (
	msgInvalidAlertID = "некорректный ID алерта"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgAlertNotFound  = "алерт не найден"
	msgForbidden      = "доступ запрещен"
	msgCannotCancel   = "алерт нельзя отменить в текущем статусе"
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

// Handle PATCH /api/v1/alerts/{alertId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	alertID, err := strconv.ParseInt(vars["alertId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /alerts/{alertId}/cancel - Invalid alert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAlertID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /alerts/{alertId}/cancel - Missing user ID: alert_id=%d", alertID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Cancel(r.Context(), alertID, &models.CancelAlertRequest{UserID: userID})
	if err != nil {
		switch {
		case errors.Is(err, alerts.ErrAlertNotFound):
			h.logger.Warn("PATCH /alerts/{alertId}/cancel - Alert not found: alert_id=%d", alertID)
			handlers.RespondNotFound(w, msgAlertNotFound)

		case errors.Is(err, alerts.ErrUserNotFound), errors.Is(err, alerts.ErrAccessDenied):
			h.logger.Warn("PATCH /alerts/{alertId}/cancel - Access denied: alert_id=%d, user_id=%d", alertID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, alerts.ErrCannotCancel):
			h.logger.Warn("PATCH /alerts/{alertId}/cancel - Cannot cancel: alert_id=%d", alertID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /alerts/{alertId}/cancel - Failed to cancel alert: alert_id=%d, error=%v", alertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /alerts/{alertId}/cancel - Alert cancelled: alert_id=%d, user_id=%d", alertID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
