package update_appointment

import (
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	updateAppointment "github.com/m04kA/SMC-ConsultationService/internal/usecase/update_appointment"
)

// UpdateAppointmentRequest HTTP request model.
// appointmentDate, slot и notes - текущие значения записи, изменить их нельзя.
type UpdateAppointmentRequest struct {
	AppointmentDate string  `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	Slot            *int    `json:"slot" validate:"required,min=0,max=3"`
	Notes           string  `json:"notes" validate:"required,max=500"`
	Status          *int    `json:"status,omitempty" validate:"omitempty,min=0,max=3"`
	MeetingLink     *string `json:"meetingLink,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(id int64, actor domain.Actor) (*updateAppointment.Request, error) {
	date, err := domain.ParseDate(r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	req := &updateAppointment.Request{
		AppointmentID: id,
		Actor:         actor,
		Date:          date,
		Slot:          domain.TimeSlot(*r.Slot),
		Notes:         r.Notes,
		MeetingLink:   r.MeetingLink,
	}
	if r.Status != nil {
		status := domain.AppointmentStatus(*r.Status)
		req.Status = &status
	}

	return req, nil
}
