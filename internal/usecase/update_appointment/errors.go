package update_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: update_appointment: invalid input data", domain.ErrValidation)

	// ErrInvalidMeetingLink возвращается, когда ссылка на встречу не является http(s) URL
	ErrInvalidMeetingLink = fmt.Errorf("%w: meetingLink must be an absolute http(s) URL", domain.ErrValidation)

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: update_appointment: appointment not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не консультант записи и не сотрудник.
	// Для такого пользователя переход недопустим, поэтому ошибка относится к ErrInvalidTransition
	ErrAccessDenied = fmt.Errorf("%w: update_appointment: only the consultant or staff can change an appointment", domain.ErrInvalidTransition)

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = fmt.Errorf("%w: update_appointment: status change not allowed", domain.ErrInvalidTransition)

	// ErrStaleRecord возвращается, когда клиент прислал устаревшие поля записи
	ErrStaleRecord = fmt.Errorf("%w: update_appointment: appointment changed, refetch and retry", domain.ErrInvalidTransition)

	// ErrMeetingLinkNotAllowed возвращается, когда ссылку задают не в статусе Scheduled
	ErrMeetingLinkNotAllowed = fmt.Errorf("%w: update_appointment: meeting link can only be set while scheduled", domain.ErrInvalidState)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)
