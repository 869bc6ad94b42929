package consultantservice

import "errors"

var (
	// ErrConsultantNotFound возвращается, когда консультант не найден в справочнике
	ErrConsultantNotFound = errors.New("consultant not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("consultantservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("consultantservice client: invalid response")
)
