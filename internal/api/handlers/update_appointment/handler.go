package update_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments/models"
	updateAppointment "github.com/m04kA/SMC-ConsultationService/internal/usecase/update_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingActor         = "отсутствует пользователь"
	msgInvalidMeetingLink   = "ссылка на встречу должна быть абсолютным http(s) URL"
	msgNotFound             = "запись не найдена"
	msgNotPermitted         = "изменять запись может только ее консультант или сотрудник"
	msgStaleRecord          = "запись изменилась, обновите данные и повторите"
	msgInvalidTransition    = "недопустимая смена статуса"
	msgLinkNotAllowed       = "ссылку на встречу можно задать только для запланированной записи"
)

type Handler struct {
	useCase   UpdateAppointmentUseCase
	validator Validator
	logger    Logger
}

func NewHandler(useCase UpdateAppointmentUseCase, validator Validator, logger Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		validator: validator,
		logger:    logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("PUT /appointments/{id} - Invalid appointment ID: %s", mux.Vars(r)["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id} - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, actor)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateAppointment.ErrInvalidMeetingLink):
			h.logger.Warn("PUT /appointments/{id} - Invalid meeting link: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgInvalidMeetingLink)

		case errors.Is(err, updateAppointment.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id} - Invalid input: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, updateAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateAppointment.ErrAccessDenied):
			h.logger.Warn("PUT /appointments/{id} - Transition not permitted: appointment_id=%d, user_id=%d", appointmentID, actor.UserID)
			handlers.RespondConflict(w, msgNotPermitted)

		case errors.Is(err, updateAppointment.ErrStaleRecord):
			h.logger.Warn("PUT /appointments/{id} - Stale record: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgStaleRecord)

		case errors.Is(err, updateAppointment.ErrInvalidTransition):
			h.logger.Warn("PUT /appointments/{id} - Invalid transition: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, updateAppointment.ErrMeetingLinkNotAllowed):
			h.logger.Warn("PUT /appointments/{id} - Meeting link not allowed: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgLinkNotAllowed)

		default:
			h.logger.Error("PUT /appointments/{id} - Failed to update appointment: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id} - Appointment updated successfully: appointment_id=%d, status=%s, user_id=%d",
		appointmentID, result.Status, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(result))
}
