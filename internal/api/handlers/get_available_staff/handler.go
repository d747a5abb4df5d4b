package get_available_staff

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	getAvailableStaff "github.com/m04kA/SMC-StaffingService/internal/usecase/get_available_staff"
)

const (
	msgMissingWindow = "требуются параметры start и end"
	msgInvalidTime   = "некорректный формат времени, ожидается RFC 3339"
	msgInvalidWindow = "некорректное временное окно"
)

type Handler struct {
	useCase GetAvailableStaffUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableStaffUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/available?start=...&end=...
// Параметры окна в формате RFC 3339
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startStr := query.Get("start")
	endStr := query.Get("end")

	if startStr == "" || endStr == "" {
		h.logger.Warn("GET /staff/available - Missing window parameters")
		handlers.RespondBadRequest(w, msgMissingWindow)
		return
	}

	startTime, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		h.logger.Warn("GET /staff/available - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	endTime, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		h.logger.Warn("GET /staff/available - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableStaff.Request{
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableStaff.ErrInvalidInput):
			h.logger.Warn("GET /staff/available - Invalid window: %v", err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("GET /staff/available - Failed to get available staff: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/available - Found %d available staff for [%s - %s]",
		len(result.Staff), startStr, endStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
