package review_leave

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
	msgInvalidLeaveID     = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgLeaveNotFound      = "заявка не найдена"
	msgForbidden          = "доступ запрещен"
	msgNotPending         = "заявка уже рассмотрена"
	msgReasonRequired     = "требуется причина отказа"
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

// Handle PATCH /api/v1/leave-requests/{leaveId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leaveID, err := strconv.ParseInt(vars["leaveId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /leave-requests/{leaveId}/review - Invalid leave ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLeaveID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /leave-requests/{leaveId}/review - Missing user ID: leave_id=%d", leaveID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReviewLeaveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /leave-requests/{leaveId}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Review(r.Context(), leaveID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrReasonRequired):
			h.logger.Warn("PATCH /leave-requests/{leaveId}/review - Missing denial reason: leave_id=%d", leaveID)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, leave.ErrLeaveNotFound):
			h.logger.Warn("PATCH /leave-requests/{leaveId}/review - Leave request not found: leave_id=%d", leaveID)
			handlers.RespondNotFound(w, msgLeaveNotFound)

		case errors.Is(err, leave.ErrUserNotFound), errors.Is(err, leave.ErrAccessDenied):
			h.logger.Warn("PATCH /leave-requests/{leaveId}/review - Access denied: leave_id=%d, user_id=%d", leaveID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, leave.ErrNotPending):
			h.logger.Warn("PATCH /leave-requests/{leaveId}/review - Not pending: leave_id=%d", leaveID)
			handlers.RespondConflict(w, msgNotPending)

		default:
			h.logger.Error("PATCH /leave-requests/{leaveId}/review - Failed to review leave request: leave_id=%d, error=%v", leaveID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /leave-requests/{leaveId}/review - Leave request reviewed: leave_id=%d, reviewer_id=%d, status=%s",
		leaveID, userID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
