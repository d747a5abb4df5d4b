package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-StaffingService/internal/api/handlers"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-StaffingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidInput        = "некорректные данные бронирования"
	msgForbidden           = "доступ запрещен"
	msgStaffNotFound       = "сотрудник не найден"
	msgClientNotFound      = "клиент не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgStaffConflict       = "у сотрудника уже есть бронирование на это время"
	msgSameServiceSameDay  = "сотрудник уже назначен на эту услугу в этот день"
	msgServiceLimitReached = "достигнут дневной лимит бронирований услуги"
	msgStaffLimitReached   = "достигнут дневной лимит бронирований сотрудника"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request times: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, &req, userID, err)
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, staff_id=%d, client_id=%d",
		result.ID, req.StaffID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) respondError(w http.ResponseWriter, req *CreateBookingRequest, userID int64, err error) {
	var conflictErr *createBooking.ConflictError
	var limitErr *createBooking.LimitReachedError
	var staffLimitErr *createBooking.StaffLimitReachedError

	switch {
	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createBooking.ErrAccessDenied):
		h.logger.Warn("POST /bookings - Access denied: user_id=%d", userID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, createBooking.ErrStaffNotFound):
		h.logger.Warn("POST /bookings - Staff not found: staff_id=%d", req.StaffID)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, createBooking.ErrClientNotFound):
		h.logger.Warn("POST /bookings - Client not found: client_id=%d", req.ClientID)
		handlers.RespondNotFound(w, msgClientNotFound)

	case errors.Is(err, createBooking.ErrServiceNotFound):
		h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.As(err, &conflictErr):
		// Пересечение интервалов или дубликат услуги за день - в обоих
		// случаях отдаем детали коллизии
		message := msgStaffConflict
		if errors.Is(err, createBooking.ErrSameServiceSameDay) {
			message = msgSameServiceSameDay
		}
		h.logger.Warn("POST /bookings - Conflict: staff_id=%d, conflicting_booking_id=%d",
			req.StaffID, conflictErr.Conflict.ID)
		handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
			Code:     http.StatusConflict,
			Message:  message,
			Conflict: FromConflictError(conflictErr),
		})

	case errors.As(err, &limitErr):
		h.logger.Warn("POST /bookings - Service daily limit reached: service_id=%d, limit=%d",
			limitErr.ServiceID, limitErr.Limit)
		handlers.RespondJSON(w, http.StatusConflict, LimitResponse{
			Code:         http.StatusConflict,
			Message:      msgServiceLimitReached,
			Limit:        limitErr.Limit,
			LimitReached: true,
		})

	case errors.As(err, &staffLimitErr):
		h.logger.Warn("POST /bookings - Staff daily limit reached: staff_id=%d, limit=%d",
			staffLimitErr.StaffID, staffLimitErr.Limit)
		handlers.RespondJSON(w, http.StatusConflict, LimitResponse{
			Code:              http.StatusConflict,
			Message:           msgStaffLimitReached,
			Limit:             staffLimitErr.Limit,
			StaffLimitReached: true,
		})

	default:
		h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
	}
}
