package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модели

// ListRequest запрос на получение страницы записей клиента или консультанта
type ListRequest struct {
	OwnerID  int64 // customerId или consultantId
	Bucket   domain.Bucket
	Page     int
	PageSize int
	Actor    domain.Actor
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	CustomerID      int64     `json:"customerId"`
	ConsultantID    int64     `json:"consultantId"`
	ServiceID       int64     `json:"serviceId"`
	AppointmentDate string    `json:"appointmentDate"` // "2026-03-02"
	Slot            int       `json:"slot"`
	StartTime       string    `json:"startTime"` // "13:00"
	EndTime         string    `json:"endTime"`   // "15:00"
	Status          int       `json:"status"`
	StatusName      string    `json:"statusName"`
	Notes           string    `json:"notes"`
	MeetingLink     *string   `json:"meetingLink"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Заполняются только в карточке записи
	FeedbackEligible *bool `json:"feedbackEligible,omitempty"`
	HasFeedback      *bool `json:"hasFeedback,omitempty"` // nil, если FeedbackService недоступен
}

// AppointmentListResponse ответ со страницей записей
type AppointmentListResponse struct {
	Items      []AppointmentResponse `json:"items"`
	TotalCount int                   `json:"totalCount"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		ConsultantID:    a.ConsultantID,
		ServiceID:       a.ServiceID,
		AppointmentDate: domain.DateKey(a.AppointmentDate),
		Slot:            int(a.Slot),
		Status:          int(a.Status),
		StatusName:      a.Status.String(),
		Notes:           a.Notes,
		MeetingLink:     a.MeetingLink,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if w, ok := a.Slot.Window(); ok {
		resp.StartTime = w.Start
		resp.EndTime = w.End
	}

	return resp
}

// FromDomainAppointmentList конвертирует страницу domain моделей в DTO
func FromDomainAppointmentList(items []*domain.Appointment, total, page, pageSize, totalPages int) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Items:      make([]AppointmentResponse, 0, len(items)),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
	for _, a := range items {
		resp.Items = append(resp.Items, *FromDomainAppointment(a))
	}
	return resp
}
