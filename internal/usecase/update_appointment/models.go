package update_appointment

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модель запроса на изменение записи (PUT).
// Date, Slot и Notes - текущие значения записи у клиента, они обязательны:
// хранилище перезаписывает запись целиком.
type Request struct {
	AppointmentID int64
	Actor         domain.Actor
	Date          time.Time
	Slot          domain.TimeSlot
	Notes         string
	Status        *domain.AppointmentStatus // nil = не менять
	MeetingLink   *string                   // nil = не менять
}

// change изменения, применяемые к записи под блокировкой
type change struct {
	expected    *schedule
	status      *domain.AppointmentStatus
	meetingLink *string
}

// schedule поля записи, которые клиент видел перед изменением
type schedule struct {
	date  time.Time
	slot  domain.TimeSlot
	notes string
}
