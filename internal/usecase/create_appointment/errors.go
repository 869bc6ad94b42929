package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_appointment: invalid input data", domain.ErrValidation)

	// ErrReasonRequired возвращается, когда не указана причина обращения (notes)
	ErrReasonRequired = fmt.Errorf("%w: reason required", domain.ErrValidation)

	// ErrDateOutOfRange возвращается, когда дата вне горизонта бронирования
	ErrDateOutOfRange = fmt.Errorf("%w: date out of range", domain.ErrValidation)

	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = fmt.Errorf("%w: create_appointment: consultant not found", domain.ErrNotFound)

	// ErrSlotAlreadyBooked возвращается, когда слот уже занят неотмененной записью
	ErrSlotAlreadyBooked = fmt.Errorf("%w: slot already booked", domain.ErrConflict)

	// ErrAccessDenied возвращается, когда пользователь записывает не себя без прав сотрудника
	ErrAccessDenied = fmt.Errorf("%w: create_appointment: cannot book on behalf of another customer", domain.ErrAccessDenied)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
