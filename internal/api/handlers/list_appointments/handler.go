package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments/models"
)

const (
	msgMissingActor = "отсутствует пользователь"
	msgInvalidQuery = "укажите customerId или consultantId; bucket = all|upcoming|completed; page и pageSize - целые числа"
	msgForbidden    = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	kind, req, err := parseQuery(r.URL.Query(), actor)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	var result *models.AppointmentListResponse
	if kind == ownerConsultant {
		result, err = h.service.ListByConsultant(r.Context(), req)
	} else {
		result, err = h.service.ListByCustomer(r.Context(), req)
	}
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments - Access denied: user_id=%d, owner_id=%d", actor.UserID, req.OwnerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /appointments - Failed to list appointments: owner_id=%d, error=%v", req.OwnerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Listed %d of %d appointments: owner_id=%d, page=%d",
		len(result.Items), result.TotalCount, req.OwnerID, result.Page)
	handlers.RespondJSON(w, http.StatusOK, result)
}
