package create_leave

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffingService/internal/service/leave"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные заявки"
	msgForbidden          = "доступ запрещен"
	msgInsufficientNotice = "заявка подается слишком поздно"
	msgOverlappingLeave   = "уже есть заявка на пересекающиеся даты"
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

// Handle POST /api/v1/leave-requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /leave-requests - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateLeaveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /leave-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("POST /leave-requests - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInvalidInput):
			h.logger.Warn("POST /leave-requests - Invalid input: staff_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, leave.ErrUserNotFound), errors.Is(err, leave.ErrAccessDenied):
			h.logger.Warn("POST /leave-requests - Access denied: staff_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, leave.ErrInsufficientNotice):
			h.logger.Warn("POST /leave-requests - Insufficient notice: staff_id=%d, start=%s", userID, req.StartDate)
			handlers.RespondBadRequest(w, msgInsufficientNotice)

		case errors.Is(err, leave.ErrOverlappingLeave):
			h.logger.Warn("POST /leave-requests - Overlapping leave: staff_id=%d", userID)
			handlers.RespondConflict(w, msgOverlappingLeave)

		default:
			h.logger.Error("POST /leave-requests - Failed to create leave request: staff_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /leave-requests - Leave request created: leave_id=%d, staff_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
