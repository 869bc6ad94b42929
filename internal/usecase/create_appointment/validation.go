package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest проверяет форму запроса (без бизнес-правил)
func validateRequest(req *Request) error {
	if req.ConsultantID <= 0 {
		return fmt.Errorf("%w: consultantId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.CustomerID < 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
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

	return nil
}

// resolveCustomer определяет, за кого создается запись.
// Клиент записывает только себя, сотрудник - указанного клиента.
func resolveCustomer(req *Request) (int64, error) {
	switch {
	case req.Actor.IsStaff():
		if req.CustomerID <= 0 {
			return 0, fmt.Errorf("%w: customerId is required when booking on behalf of a customer", ErrInvalidInput)
		}
		return req.CustomerID, nil

	case req.Actor.Role == domain.RoleCustomer:
		if req.CustomerID != 0 && req.CustomerID != req.Actor.UserID {
			return 0, ErrAccessDenied
		}
		return req.Actor.UserID, nil

	default:
		return 0, ErrAccessDenied
	}
}

// validateReason причина обращения обязательна
func validateReason(notes string) error {
	if strings.TrimSpace(notes) == "" {
		return ErrReasonRequired
	}
	return nil
}

// validateDate дата должна попадать в горизонт бронирования
func validateDate(horizon domain.Horizon, now, date time.Time) error {
	if !horizon.Contains(now, date) {
		return ErrDateOutOfRange
	}
	return nil
}
