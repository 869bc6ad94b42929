package update_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/events"
)

// UseCase use case изменения записи: смена статуса и ссылки на встречу
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	validator       URLValidator
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	validator URLValidator,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		validator:       validator,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// outcome результат применения изменений под блокировкой
type outcome struct {
	appt           *domain.Appointment
	previousStatus domain.AppointmentStatus
	statusChanged  bool
	linkChanged    bool
}

// Execute выполняет PUT-изменение записи.
// Поля расписания в запросе должны совпадать с хранимыми, иначе клиент работает
// с устаревшей копией и изменение отклоняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("UpdateAppointment: id=%d, actor=%d(%s), status=%t, meetingLink=%t",
		req.AppointmentID, req.Actor.UserID, req.Actor.Role, req.Status != nil, req.MeetingLink != nil)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed for id=%d: %v", req.AppointmentID, err)
		return nil, err
	}

	return uc.apply(ctx, "UpdateAppointment", req.AppointmentID, req.Actor, change{
		expected: &schedule{
			date:  domain.DateOnly(req.Date),
			slot:  req.Slot,
			notes: req.Notes,
		},
		status:      req.Status,
		meetingLink: req.MeetingLink,
	})
}

// Transition переводит запись в новый статус.
// Вызов без PUT-дисциплины: для внутренних вызывающих, которые не держат копию записи
func (uc *UseCase) Transition(ctx context.Context, id int64, status domain.AppointmentStatus, actor domain.Actor) (*domain.Appointment, error) {
	uc.logger.Info("TransitionAppointment: id=%d, actor=%d(%s), to=%s", id, actor.UserID, actor.Role, status)

	if id <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}
	if err := validateStatus(&status); err != nil {
		uc.logger.Warn("TransitionAppointment: validation failed for id=%d: %v", id, err)
		return nil, err
	}

	return uc.apply(ctx, "TransitionAppointment", id, actor, change{status: &status})
}

// SetMeetingLink задает ссылку на встречу для записи в статусе Scheduled.
// Как и Transition, не требует совпадения полей расписания
func (uc *UseCase) SetMeetingLink(ctx context.Context, id int64, link string, actor domain.Actor) (*domain.Appointment, error) {
	uc.logger.Info("SetMeetingLink: id=%d, actor=%d(%s)", id, actor.UserID, actor.Role)

	if id <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}

	return uc.apply(ctx, "SetMeetingLink", id, actor, change{meetingLink: &link})
}

func (uc *UseCase) apply(ctx context.Context, op string, id int64, actor domain.Actor, ch change) (*domain.Appointment, error) {
	// 1. Ссылка проверяется до любых изменений: некорректный URL не должен
	// привести к частичному применению статуса
	if err := uc.validateMeetingLink(ch.meetingLink); err != nil {
		uc.logger.Warn("%s: invalid meeting link for id=%d: %v", op, id, err)
		return nil, err
	}

	var res outcome

	// 2. Чтение, проверки и запись под блокировкой строки
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("%s: appointment id=%d not found", op, id)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("%s: failed to get appointment id=%d: %v", op, id, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.1. Права
		if !actor.CanManage(appt) {
			uc.logger.Warn("%s: actor=%d(%s) cannot manage appointment id=%d",
				op, actor.UserID, actor.Role, id)
			return ErrAccessDenied
		}

		// 2.2. Устаревшая копия у клиента
		if ch.expected != nil && !appt.SameSchedule(ch.expected.date, ch.expected.slot, ch.expected.notes) {
			uc.logger.Warn("%s: stale record for id=%d", op, id)
			return ErrStaleRecord
		}

		// 2.3. Завершенная запись неизменяема
		if ch.status != nil && appt.Status.IsTerminal() {
			uc.logger.Warn("%s: appointment id=%d is %s", op, id, appt.Status)
			return fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, appt.Status)
		}

		res.previousStatus = appt.Status

		// 2.4. Ссылка на встречу
		if ch.meetingLink != nil {
			before := appt.MeetingLink
			if err := appt.SetMeetingLink(*ch.meetingLink); err != nil {
				uc.logger.Warn("%s: %v", op, err)
				return fmt.Errorf("%w: appointment is %s", ErrMeetingLinkNotAllowed, appt.Status)
			}
			res.linkChanged = before == nil || *before != *appt.MeetingLink
		}

		// 2.5. Статус
		if ch.status != nil {
			changed, err := appt.TransitionTo(*ch.status)
			if err != nil {
				uc.logger.Warn("%s: %v", op, err)
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.previousStatus, *ch.status)
			}
			res.statusChanged = changed
		}

		res.appt = appt

		// 2.6. Повтор того же состояния не пишет в хранилище
		if !res.statusChanged && !res.linkChanged {
			return nil
		}

		if err := uc.appointmentRepo.Replace(txCtx, appt); err != nil {
			uc.logger.Error("%s: failed to save appointment id=%d: %v", op, id, err)
			return fmt.Errorf("%w: failed to save appointment: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !res.statusChanged && !res.linkChanged {
		uc.logger.Info("%s: appointment id=%d unchanged", op, id)
		return res.appt, nil
	}

	uc.logger.Info("%s: appointment id=%d updated, status %s -> %s",
		op, id, res.previousStatus, res.appt.Status)

	// 3. Метрики и события после фиксации
	now := uc.timeProvider.Now()
	if res.statusChanged {
		uc.metrics.IncStatusTransitions(res.appt.Status.String())
		uc.publish(ctx, op, events.NewAppointmentEvent(events.TypeAppointmentStatusChanged, res.appt, now).
			WithPreviousStatus(res.previousStatus))
	}
	if res.linkChanged {
		uc.publish(ctx, op, events.NewAppointmentEvent(events.TypeAppointmentMeetingLink, res.appt, now))
	}

	return res.appt, nil
}

// publish ошибка публикации не отменяет изменение
func (uc *UseCase) publish(ctx context.Context, op string, event events.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("%s: failed to publish %s for appointment id=%d: %v",
			op, event.Type, event.Payload.AppointmentID, err)
	}
}
