package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_availability"
)

const (
	msgInvalidConsultantID = "некорректный ID консультанта"
	msgInvalidQuery        = "некорректные параметры: mode = quick|extended, horizonDays - целое число"
	msgConsultantNotFound  = "консультант не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consultants/{consultantId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consultantID, err := strconv.ParseInt(mux.Vars(r)["consultantId"], 10, 64)
	if err != nil || consultantID <= 0 {
		h.logger.Warn("GET /consultants/{id}/availability - Invalid consultant ID: %s", mux.Vars(r)["consultantId"])
		handlers.RespondBadRequest(w, msgInvalidConsultantID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(consultantID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /consultants/{id}/availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrConsultantNotFound):
			h.logger.Warn("GET /consultants/{id}/availability - Consultant not found: consultant_id=%d", consultantID)
			handlers.RespondNotFound(w, msgConsultantNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /consultants/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /consultants/{id}/availability - Failed to resolve availability: consultant_id=%d, error=%v",
				consultantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consultants/{id}/availability - Availability resolved: consultant_id=%d, days=%d",
		consultantID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
