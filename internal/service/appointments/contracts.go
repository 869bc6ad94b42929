package appointments

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Count(ctx context.Context, filter domain.AppointmentsFilter) (int, error)
}

// FeedbackServiceClient интерфейс клиента для FeedbackService
type FeedbackServiceClient interface {
	HasFeedbackWithGracefulDegradation(ctx context.Context, appointmentID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
