package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

const (
	DefaultPageSize = 8
	MaxPageSize     = 100
)

// Service сервис чтения записей: карточка и постраничные списки
type Service struct {
	appointmentRepo AppointmentRepository
	feedbackClient  FeedbackServiceClient
	txManager       TransactionManager
	defaultPageSize int
	maxPageSize     int
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей.
// Нулевые размеры страниц заменяются значениями по умолчанию.
func NewService(
	appointmentRepo AppointmentRepository,
	feedbackClient FeedbackServiceClient,
	txManager TransactionManager,
	defaultPageSize int,
	maxPageSize int,
	logger Logger,
) *Service {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if defaultPageSize <= 0 || defaultPageSize > maxPageSize {
		defaultPageSize = min(DefaultPageSize, maxPageSize)
	}

	return &Service{
		appointmentRepo: appointmentRepo,
		feedbackClient:  feedbackClient,
		txManager:       txManager,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
	}
}

// GetByID получает карточку записи.
// Клиент видит свою запись, консультант - записи к себе, сотрудники - любые.
// Для завершенной записи дополнительно запрашивается наличие отзыва.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for actor=%d(%s)", id, actor.UserID, actor.Role)

	if id <= 0 {
		return nil, fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !actor.CanView(appt) {
		s.logger.Warn("GetByID: access denied for actor=%d(%s) to appointment id=%d", actor.UserID, actor.Role, id)
		return nil, ErrAccessDenied
	}

	resp := models.FromDomainAppointment(appt)
	resp.FeedbackEligible = ptr.Ptr(appt.FeedbackEligible())

	if appt.FeedbackEligible() {
		has, err := s.feedbackClient.HasFeedbackWithGracefulDegradation(ctx, id)
		if err != nil {
			// карточка отдается и без сведений об отзыве
			s.logger.Warn("GetByID: feedback lookup degraded for appointment id=%d: %v", id, err)
		} else {
			resp.HasFeedback = ptr.Ptr(has)
		}
	} else {
		resp.HasFeedback = ptr.Ptr(false)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return resp, nil
}

// ListByCustomer получает страницу записей клиента
func (s *Service) ListByCustomer(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByCustomer: customer=%d, bucket=%s, page=%d, pageSize=%d, actor=%d(%s)",
		req.OwnerID, req.Bucket, req.Page, req.PageSize, req.Actor.UserID, req.Actor.Role)

	if req.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}

	if !req.Actor.CanListCustomer(req.OwnerID) {
		s.logger.Warn("ListByCustomer: access denied for actor=%d(%s) to customer=%d",
			req.Actor.UserID, req.Actor.Role, req.OwnerID)
		return nil, ErrAccessDenied
	}

	return s.list(ctx, "ListByCustomer", domain.AppointmentsFilter{CustomerID: ptr.Ptr(req.OwnerID)}, req)
}

// ListByConsultant получает страницу записей консультанта
func (s *Service) ListByConsultant(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByConsultant: consultant=%d, bucket=%s, page=%d, pageSize=%d, actor=%d(%s)",
		req.OwnerID, req.Bucket, req.Page, req.PageSize, req.Actor.UserID, req.Actor.Role)

	if req.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: consultant id must be positive", ErrInvalidInput)
	}

	if !req.Actor.CanListConsultant(req.OwnerID) {
		s.logger.Warn("ListByConsultant: access denied for actor=%d(%s) to consultant=%d",
			req.Actor.UserID, req.Actor.Role, req.OwnerID)
		return nil, ErrAccessDenied
	}

	return s.list(ctx, "ListByConsultant", domain.AppointmentsFilter{ConsultantID: ptr.Ptr(req.OwnerID)}, req)
}

func (s *Service) list(ctx context.Context, op string, filter domain.AppointmentsFilter, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	bucket := req.Bucket
	if bucket == "" {
		bucket = domain.BucketAll
	}
	filter.Statuses = bucket.Statuses()

	var items []*domain.Appointment
	var total, page, pageSize, totalPages int

	// Количество и страница читаются из одного снимка
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		total, err = s.appointmentRepo.Count(txCtx, filter)
		if err != nil {
			return err
		}

		var offset int
		page, pageSize, totalPages, offset = pageWindow(req.Page, req.PageSize, total, s.defaultPageSize, s.maxPageSize)
		filter.Limit, filter.Offset = pageSize, offset

		items, err = s.appointmentRepo.List(txCtx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: fetched %d of %d appointments, page %d/%d", op, len(items), total, page, totalPages)
	return models.FromDomainAppointmentList(items, total, page, pageSize, totalPages), nil
}
