package feedbackservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("feedbackservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("feedbackservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Наличие отзыва неизвестно, вызывающий отдает hasFeedback = null
	ErrServiceDegraded = errors.New("feedbackservice unavailable: graceful degradation applied")
)
