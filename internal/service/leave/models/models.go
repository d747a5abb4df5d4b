package models

import (
	"time"

	"github.com/m04kA/SMC-StaffingService/internal/domain"
)

// Request модели

// CreateLeaveRequest запрос сотрудника на отпуск
// Даты инклюзивные, формат "2006-01-02"
type CreateLeaveRequest struct {
	StaffID   int64     `json:"staffId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
}

// ReviewLeaveRequest запрос менеджера на рассмотрение заявки
type ReviewLeaveRequest struct {
	ReviewerID   int64   `json:"reviewerId"`
	Approve      bool    `json:"approve"`
	DenialReason *string `json:"denialReason,omitempty"`
}

// Response модели

// LeaveResponse ответ с данными заявки на отпуск
type LeaveResponse struct {
	ID        int64  `json:"id"`
	StaffID   int64  `json:"staffId"`
	StartDate string `json:"startDate"` // "2006-01-02"
	EndDate   string `json:"endDate"`   // "2006-01-02"
	Reason    string `json:"reason"`
	Status    string `json:"status"`

	ReviewedBy   *int64     `json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	DenialReason *string    `json:"denialReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LeaveListResponse ответ со списком заявок
type LeaveListResponse struct {
	Requests []LeaveResponse `json:"requests"`
}

// Методы конвертации

// FromDomainLeave конвертирует domain модель в DTO
func FromDomainLeave(l *domain.LeaveRequest) *LeaveResponse {
	if l == nil {
		return nil
	}

	return &LeaveResponse{
		ID:           l.ID,
		StaffID:      l.StaffID,
		StartDate:    l.StartDate.Format(domain.DateFormat),
		EndDate:      l.EndDate.Format(domain.DateFormat),
		Reason:       l.Reason,
		Status:       string(l.Status),
		ReviewedBy:   l.ReviewedBy,
		ReviewedAt:   l.ReviewedAt,
		DenialReason: l.DenialReason,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// FromDomainLeaveList конвертирует список domain моделей в DTO
func FromDomainLeaveList(requests []*domain.LeaveRequest) *LeaveListResponse {
	if requests == nil {
		return &LeaveListResponse{
			Requests: []LeaveResponse{},
		}
	}

	resp := &LeaveListResponse{
		Requests: make([]LeaveResponse, len(requests)),
	}

	for i, request := range requests {
		if leaveResp := FromDomainLeave(request); leaveResp != nil {
			resp.Requests[i] = *leaveResp
		}
	}

	return resp
}
