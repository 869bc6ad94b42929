package create_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/validation"
)

type fakeUseCase struct {
	got *createAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*domain.Appointment, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Appointment{
		ID:              11,
		CustomerID:      req.Actor.UserID,
		ConsultantID:    req.ConsultantID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.Date,
		Slot:            req.Slot,
		Status:          domain.StatusScheduled,
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}, nil
}

const validBody = `{"consultantId": 7, "serviceId": 3, "appointmentDate": "2026-03-03", "slot": 2, "notes": "headache"}`

func do(uc CreateAppointmentUseCase, body string, withActor bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 1, Role: domain.RoleCustomer}))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, validation.New(), logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	rec := do(uc, validBody, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, domain.SlotEarlyAfternoon, uc.got.Slot)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), uc.got.Date)

	var resp models.AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "2026-03-03", resp.AppointmentDate)
	assert.Equal(t, "13:00", resp.StartTime)
	assert.Equal(t, 0, resp.Status)
	assert.Nil(t, resp.MeetingLink)
}

func TestHandle_SlotZeroIsValid(t *testing.T) {
	uc := &fakeUseCase{}
	rec := do(uc, `{"consultantId": 7, "serviceId": 3, "appointmentDate": "2026-03-03", "slot": 0, "notes": "x"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.SlotEarlyMorning, uc.got.Slot)
}

func TestHandle_BadRequests(t *testing.T) {
	bodies := map[string]string{
		"not json":     `{`,
		"unknown":      `{"consultantId": 7, "serviceId": 3, "appointmentDate": "2026-03-03", "slot": 2, "x": 1}`,
		"no slot":      `{"consultantId": 7, "serviceId": 3, "appointmentDate": "2026-03-03"}`,
		"slot too big": `{"consultantId": 7, "serviceId": 3, "appointmentDate": "2026-03-03", "slot": 4}`,
		"bad date":     `{"consultantId": 7, "serviceId": 3, "appointmentDate": "03/03/2026", "slot": 2}`,
		"no service":   `{"consultantId": 7, "appointmentDate": "2026-03-03", "slot": 2}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := do(uc, body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got, "use case must not be called")
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{createAppointment.ErrReasonRequired, http.StatusBadRequest},
		{createAppointment.ErrDateOutOfRange, http.StatusBadRequest},
		{createAppointment.ErrConsultantNotFound, http.StatusNotFound},
		{createAppointment.ErrSlotAlreadyBooked, http.StatusConflict},
		{createAppointment.ErrAccessDenied, http.StatusForbidden},
		{createAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := do(&fakeUseCase{err: tc.err}, validBody, true)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestHandle_Unauthenticated(t *testing.T) {
	rec := do(&fakeUseCase{}, validBody, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
