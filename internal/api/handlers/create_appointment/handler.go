package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "отсутствует пользователь"
	msgReasonRequired     = "укажите причину обращения"
	msgDateOutOfRange     = "дата вне доступного для записи периода"
	msgConsultantNotFound = "консультант не найден"
	msgSlotAlreadyBooked  = "выбранный слот уже занят, выберите другой"
	msgForbidden          = "нельзя записать другого клиента"
)

type Handler struct {
	useCase   CreateAppointmentUseCase
	validator Validator
	logger    Logger
}

func NewHandler(useCase CreateAppointmentUseCase, validator Validator, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		validator: validator,
		logger:    logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Warn("POST /appointments - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrReasonRequired):
			h.logger.Warn("POST /appointments - Reason required: user_id=%d", actor.UserID)
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, createAppointment.ErrDateOutOfRange):
			h.logger.Warn("POST /appointments - Date out of range: user_id=%d, date=%s", actor.UserID, req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateOutOfRange)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createAppointment.ErrConsultantNotFound):
			h.logger.Warn("POST /appointments - Consultant not found: consultant_id=%d", req.ConsultantID)
			handlers.RespondNotFound(w, msgConsultantNotFound)

		case errors.Is(err, createAppointment.ErrSlotAlreadyBooked):
			h.logger.Warn("POST /appointments - Slot already booked: consultant_id=%d, date=%s, slot=%d",
				req.ConsultantID, req.AppointmentDate, *req.Slot)
			handlers.RespondConflict(w, msgSlotAlreadyBooked)

		case errors.Is(err, createAppointment.ErrAccessDenied):
			h.logger.Warn("POST /appointments - Access denied: user_id=%d, customer_id=%d", actor.UserID, req.CustomerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, consultant_id=%d, error=%v",
				actor.UserID, req.ConsultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, customer_id=%d, consultant_id=%d",
		result.ID, result.CustomerID, result.ConsultantID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(result))
}
