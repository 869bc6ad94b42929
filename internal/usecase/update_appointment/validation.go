package update_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest проверяет форму PUT-запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: appointmentDate is required", ErrInvalidInput)
	}

	if !req.Slot.IsValid() {
		return fmt.Errorf("%w: unknown slot %d", ErrInvalidInput, int(req.Slot))
	}

	if len(req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Status == nil && req.MeetingLink == nil {
		return fmt.Errorf("%w: nothing to update, status or meetingLink is required", ErrInvalidInput)
	}

	return validateStatus(req.Status)
}

func validateStatus(status *domain.AppointmentStatus) error {
	if status != nil && !status.IsValid() {
		return fmt.Errorf("%w: unknown status %d", ErrInvalidInput, int(*status))
	}
	return nil
}

// validateMeetingLink проверяет ссылку до любых изменений записи
func (uc *UseCase) validateMeetingLink(link *string) error {
	if link == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*link)
	if len(trimmed) > domain.MaxMeetingLinkLength {
		return fmt.Errorf("%w: at most %d characters", ErrInvalidMeetingLink, domain.MaxMeetingLinkLength)
	}

	if err := uc.validator.HTTPURL(trimmed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMeetingLink, err)
	}

	return nil
}
