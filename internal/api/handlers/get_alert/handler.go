package get_alert

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
	msgInvalidAlertID = "некорректный ID алерта"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgAlertNotFound  = "алерт не найден"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/alerts/{alertId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	alertID, err := strconv.ParseInt(vars["alertId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /alerts/{alertId} - Invalid alert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAlertID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /alerts/{alertId} - Missing user ID: alert_id=%d", alertID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	alert, err := h.service.GetByID(r.Context(), alertID, userID)
	if err != nil {
		switch {
		case errors.Is(err, alerts.ErrAlertNotFound):
			h.logger.Warn("GET /alerts/{alertId} - Alert not found: alert_id=%d", alertID)
			handlers.RespondNotFound(w, msgAlertNotFound)

		case errors.Is(err, alerts.ErrUserNotFound), errors.Is(err, alerts.ErrAccessDenied):
			h.logger.Warn("GET /alerts/{alertId} - Access denied: alert_id=%d, user_id=%d", alertID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /alerts/{alertId} - Failed to get alert: alert_id=%d, error=%v", alertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /alerts/{alertId} - Alert retrieved: alert_id=%d, user_id=%d", alertID, userID)
	handlers.RespondJSON(w, http.StatusOK, alert)
}
