package withdraw_leave

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffingService/internal/service/leave"
)

const (
	msgInvalidLeaveID = "некорректный ID заявки"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgLeaveNotFound  = "заявка не найдена"
	msgForbidden      = "доступ запрещен"
	msgNotPending     = "заявка уже рассмотрена"
)

type Handler struct {
	service LeaveService
	logger  Logger
}

func NewHandler(service LeaveService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/leave-requests/{leaveId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leaveID, err := strconv.ParseInt(vars["leaveId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /leave-requests/{leaveId} - Invalid leave ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLeaveID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /leave-requests/{leaveId} - Missing user ID: leave_id=%d", leaveID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Withdraw(r.Context(), leaveID, userID)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrLeaveNotFound):
			h.logger.Warn("DELETE /leave-requests/{leaveId} - Leave request not found: leave_id=%d", leaveID)
			handlers.RespondNotFound(w, msgLeaveNotFound)

		case errors.Is(err, leave.ErrUserNotFound), errors.Is(err, leave.ErrAccessDenied):
			h.logger.Warn("DELETE /leave-requests/{leaveId} - Access denied: leave_id=%d, user_id=%d", leaveID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, leave.ErrNotPending):
			h.logger.Warn("DELETE /leave-requests/{leaveId} - Not pending: leave_id=%d", leaveID)
			handlers.RespondConflict(w, msgNotPending)

		default:
			h.logger.Error("DELETE /leave-requests/{leaveId} - Failed to withdraw leave request: leave_id=%d, error=%v", leaveID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /leave-requests/{leaveId} - Leave request withdrawn: leave_id=%d, staff_id=%d", leaveID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
