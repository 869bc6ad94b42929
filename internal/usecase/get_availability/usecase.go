package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	consultantClient "github.com/m04kA/SMC-ConsultationService/internal/integrations/consultantservice"
)

// UseCase use case для расчета свободных слотов консультанта на горизонте
// Результат - подсказка для выбора слота, при записи доступность проверяется заново
type UseCase struct {
	appointmentRepo AppointmentRepository
	consultants     ConsultantDirectory
	horizon         domain.Horizon
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	consultants ConsultantDirectory,
	horizon domain.Horizon,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		consultants:     consultants,
		horizon:         horizon,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ConsultantID <= 0 {
		uc.logger.Warn("GetAvailability: invalid consultant id=%d", req.ConsultantID)
		return nil, fmt.Errorf("%w: consultantId must be positive", ErrInvalidInput)
	}

	// 1. Определяем количество дней
	days := uc.horizon.Days(req.Mode)
	if req.HorizonDays != nil {
		days = uc.horizon.ClampDays(*req.HorizonDays)
	}

	uc.logger.Info("GetAvailability: consultant=%d, mode=%s, days=%d", req.ConsultantID, req.Mode, days)

	// 2. Получаем консультанта
	consultant, err := uc.consultants.GetConsultant(ctx, req.ConsultantID)
	if err != nil {
		if errors.Is(err, consultantClient.ErrConsultantNotFound) {
			uc.logger.Warn("GetAvailability: consultant id=%d not found", req.ConsultantID)
			return nil, ErrConsultantNotFound
		}
		uc.logger.Error("GetAvailability: failed to get consultant id=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: failed to get consultant: %v", ErrInternal, err)
	}

	// 3. Даты горизонта, начиная с сегодняшней
	dates := uc.horizon.DatesN(uc.timeProvider.Now(), days)
	from, to := dates[0], dates[len(dates)-1]

	// 4. Активные записи консультанта на горизонте
	appointments, err := uc.appointmentRepo.ListActiveByConsultant(ctx, req.ConsultantID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list appointments for consultant=%d: %v", req.ConsultantID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 5. Карта занятости строится заново на каждый запрос
	consultant.BookedShifts = domain.BuildOccupancy(appointments, uc.logger)

	result := make([]DayAvailability, 0, len(dates))
	bookableDays := 0
	for _, date := range dates {
		free := consultant.BookedShifts.FreeSlots(date)
		bookable := consultant.IsDateBookable(date)
		if bookable {
			bookableDays++
		}
		result = append(result, DayAvailability{
			Date:      date,
			FreeSlots: free,
			Bookable:  bookable,
		})
	}

	uc.logger.Info("GetAvailability: consultant=%d, %d of %d days bookable (%s..%s)",
		req.ConsultantID, bookableDays, len(dates), domain.DateKey(from), domain.DateKey(to))

	return &Response{
		ConsultantID: consultant.ID,
		DisplayName:  consultant.DisplayName,
		Specialty:    consultant.Specialty,
		Days:         result,
	}, nil
}
