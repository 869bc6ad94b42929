package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/appointment"
	consultantClient "github.com/m04kA/SMC-ConsultationService/internal/integrations/consultantservice"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/events"
)

// UseCase use case для создания записи на консультацию
type UseCase struct {
	appointmentRepo AppointmentRepository
	consultants     ConsultantDirectory
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	horizon         domain.Horizon
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	consultants ConsultantDirectory,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	horizon domain.Horizon,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		consultants:     consultants,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		horizon:         horizon,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Доступность слота, которую видел клиент, не используется: слот проверяется заново
// внутри транзакции, а гонку двух вставок разрешает уникальный индекс хранилища.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("CreateAppointment: actor=%d(%s), customer=%d, consultant=%d, service=%d, date=%s, slot=%d",
		req.Actor.UserID, req.Actor.Role, req.CustomerID, req.ConsultantID, req.ServiceID,
		req.Date.Format(domain.DateFormat), int(req.Slot))

	// 1. Валидация формы запроса
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Причина обращения
	if err := validateReason(req.Notes); err != nil {
		uc.logger.Warn("CreateAppointment: empty reason from actor=%d(%s)", req.Actor.UserID, req.Actor.Role)
		return nil, err
	}

	// 3. За кого создается запись
	customerID, err := resolveCustomer(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: actor=%d(%s) cannot book for customer=%d",
			req.Actor.UserID, req.Actor.Role, req.CustomerID)
		return nil, err
	}

	// 4. Горизонт бронирования
	now := uc.timeProvider.Now()
	date := domain.DateOnly(req.Date)
	if err := validateDate(uc.horizon, now, date); err != nil {
		uc.logger.Warn("CreateAppointment: date=%s out of horizon (%d days)", domain.DateKey(date), uc.horizon.ExtendedDays)
		return nil, err
	}

	// 5. Консультант
	if _, err := uc.consultants.GetConsultant(ctx, req.ConsultantID); err != nil {
		if errors.Is(err, consultantClient.ErrConsultantNotFound) {
			uc.logger.Warn("CreateAppointment: consultant id=%d not found", req.ConsultantID)
			return nil, ErrConsultantNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get consultant id=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: failed to get consultant: %v", ErrInternal, err)
	}

	var result *domain.Appointment

	// 6. Проверка слота и вставка в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 6.1. Активные записи консультанта на дату (FOR UPDATE)
		existing, err := uc.appointmentRepo.ListActiveByConsultant(txCtx, req.ConsultantID, date, date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to list appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
		}

		// 6.2. Та же политика, что и при расчете доступности
		occupancy := domain.BuildOccupancy(existing, uc.logger)
		if !occupancy.IsSlotBookable(date, req.Slot) {
			uc.logger.Warn("CreateAppointment: slot %d on %s already booked for consultant=%d",
				int(req.Slot), domain.DateKey(date), req.ConsultantID)
			return ErrSlotAlreadyBooked
		}

		// 6.3. Создаем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CustomerID:      customerID,
			ConsultantID:    req.ConsultantID,
			ServiceID:       req.ServiceID,
			AppointmentDate: date,
			Slot:            req.Slot,
			Status:          domain.StatusScheduled,
			Notes:           strings.TrimSpace(req.Notes),
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				// параллельная транзакция заняла слот раньше
				uc.logger.Warn("CreateAppointment: lost race for slot %d on %s, consultant=%d",
					int(req.Slot), domain.DateKey(date), req.ConsultantID)
				return ErrSlotAlreadyBooked
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotAlreadyBooked) {
			uc.metrics.IncBookingConflicts()
		}
		return nil, err
	}

	uc.metrics.IncAppointmentsCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 7. Событие после фиксации, ошибка публикации запись не отменяет
	event := events.NewAppointmentEvent(events.TypeAppointmentCreated, result, now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish %s for appointment id=%d: %v",
			event.Type, result.ID, err)
	}

	return result, nil
}
