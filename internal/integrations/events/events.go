package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Типы событий жизненного цикла записи
const (
	TypeAppointmentCreated       = "appointment.created"
	TypeAppointmentStatusChanged = "appointment.status_changed"
	TypeAppointmentMeetingLink   = "appointment.meeting_link_set"
)

// Event конверт события для слоя уведомлений
type Event struct {
	ID         string             `json:"eventId"`
	Type       string             `json:"eventType"`
	OccurredAt time.Time          `json:"occurredAt"`
	Payload    AppointmentPayload `json:"payload"`
}

// AppointmentPayload снимок записи на момент события
type AppointmentPayload struct {
	AppointmentID   int64   `json:"appointmentId"`
	CustomerID      int64   `json:"customerId"`
	ConsultantID    int64   `json:"consultantId"`
	ServiceID       int64   `json:"serviceId"`
	AppointmentDate string  `json:"appointmentDate"`
	Slot            int     `json:"slot"`
	Status          int     `json:"status"`
	PreviousStatus  *int    `json:"previousStatus,omitempty"`
	MeetingLink     *string `json:"meetingLink,omitempty"`
}

// NewAppointmentEvent создает событие со снимком записи
func NewAppointmentEvent(eventType string, appt *domain.Appointment, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		Payload: AppointmentPayload{
			AppointmentID:   appt.ID,
			CustomerID:      appt.CustomerID,
			ConsultantID:    appt.ConsultantID,
			ServiceID:       appt.ServiceID,
			AppointmentDate: domain.DateKey(appt.AppointmentDate),
			Slot:            int(appt.Slot),
			Status:          int(appt.Status),
			MeetingLink:     appt.MeetingLink,
		},
	}
}

// WithPreviousStatus добавляет предыдущий статус (для appointment.status_changed)
func (e Event) WithPreviousStatus(prev domain.AppointmentStatus) Event {
	p := int(prev)
	e.Payload.PreviousStatus = &p
	return e
}
