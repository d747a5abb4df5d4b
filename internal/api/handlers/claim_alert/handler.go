package claim_alert

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
	msgInvalidAlertID  = "некорректный ID алерта"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgAlertNotFound   = "алерт не найден"
	msgForbidden       = "доступ запрещен"
	msgNotClaimable    = "смена уже занята или недоступна"
	msgNotTargeted     = "смена не адресована данному сотруднику"
	msgAlreadyRejected = "заявка на эту смену уже была отклонена"
	msgStaffConflict   = "смена пересекается с расписанием или отпуском"
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

// Handle POST /api/v1/alerts/{alertId}/claim
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	alertID, err := strconv.ParseInt(vars["alertId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /alerts/{alertId}/claim - Invalid alert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAlertID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /alerts/{alertId}/claim - Missing user ID: alert_id=%d", alertID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	alert, err := h.service.Claim(r.Context(), alertID, &models.ClaimAlertRequest{StaffID: userID})
	if err != nil {
		switch {
		case errors.Is(err, alerts.ErrAlertNotFound):
			h.logger.Warn("POST /alerts/{alertId}/claim - Alert not found: alert_id=%d", alertID)
			handlers.RespondNotFound(w, msgAlertNotFound)

		case errors.Is(err, alerts.ErrUserNotFound), errors.Is(err, alerts.ErrAccessDenied):
			h.logger.Warn("POST /alerts/{alertId}/claim - Access denied: alert_id=%d, staff_id=%d", alertID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, alerts.ErrNotClaimable):
			h.logger.Warn("POST /alerts/{alertId}/claim - Not claimable: alert_id=%d, staff_id=%d", alertID, userID)
			handlers.RespondConflict(w, msgNotClaimable)

		case errors.Is(err, alerts.ErrNotTargeted):
			h.logger.Warn("POST /alerts/{alertId}/claim - Not targeted: alert_id=%d, staff_id=%d", alertID, userID)
			handlers.RespondForbidden(w, msgNotTargeted)

		case errors.Is(err, alerts.ErrAlreadyRejected):
			h.logger.Warn("POST /alerts/{alertId}/claim - Already rejected: alert_id=%d, staff_id=%d", alertID, userID)
			handlers.RespondConflict(w, msgAlreadyRejected)

		case errors.Is(err, alerts.ErrStaffConflict):
			h.logger.Warn("POST /alerts/{alertId}/claim - Schedule conflict: alert_id=%d, staff_id=%d", alertID, userID)
			handlers.RespondConflict(w, msgStaffConflict)

		default:
			h.logger.Error("POST /alerts/{alertId}/claim - Failed to claim alert: alert_id=%d, error=%v", alertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /alerts/{alertId}/claim - Alert claimed: alert_id=%d, staff_id=%d", alertID, userID)
	handlers.RespondJSON(w, http.StatusOK, alert)
}
