package get_available_alerts

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffingService/internal/service/alerts"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/alerts/available
// Возвращает открытые алерты, доступные текущему сотруднику
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /alerts/available - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListAvailableForStaff(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, alerts.ErrUserNotFound), errors.Is(err, alerts.ErrAccessDenied):
			h.logger.Warn("GET /alerts/available - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /alerts/available - Failed to list alerts: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /alerts/available - Found %d alerts: user_id=%d", len(result.Alerts), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
