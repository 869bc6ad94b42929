package create_appointment

import (
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	createAppointment "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerID      int64  `json:"customerId" validate:"omitempty,gt=0"` // только для сотрудников
	ConsultantID    int64  `json:"consultantId" validate:"required,gt=0"`
	ServiceID       int64  `json:"serviceId" validate:"required,gt=0"`
	AppointmentDate string `json:"appointmentDate" validate:"required,datetime=2006-01-02"` // "2026-03-02"
	Slot            *int   `json:"slot" validate:"required,min=0,max=3"`
	Notes           string `json:"notes" validate:"max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Actor) (*createAppointment.Request, error) {
	date, err := domain.ParseDate(r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		Actor:        actor,
		CustomerID:   r.CustomerID,
		ConsultantID: r.ConsultantID,
		ServiceID:    r.ServiceID,
		Date:         date,
		Slot:         domain.TimeSlot(*r.Slot),
		Notes:        r.Notes,
	}, nil
}
