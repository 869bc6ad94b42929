package list_appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments"
	"github.com/m04kA/SMC-ConsultationService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type fakeService struct {
	method string
	got    *models.ListRequest
	err    error
}

func (f *fakeService) ListByCustomer(_ context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	f.method, f.got = "customer", req
	return f.result()
}

func (f *fakeService) ListByConsultant(_ context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	f.method, f.got = "consultant", req
	return f.result()
}

func (f *fakeService) result() (*models.AppointmentListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{
		Items:      []models.AppointmentResponse{{ID: 1}},
		TotalCount: 17,
		Page:       3,
		PageSize:   8,
		TotalPages: 3,
	}, nil
}

func do(svc AppointmentService, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 1, Role: domain.RoleCustomer}))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_ByCustomer(t *testing.T) {
	svc := &fakeService{}
	rec := do(svc, "/api/v1/appointments?customerId=1&bucket=upcoming&page=5&pageSize=8")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "customer", svc.method)
	assert.Equal(t, int64(1), svc.got.OwnerID)
	assert.Equal(t, domain.BucketUpcoming, svc.got.Bucket)
	assert.Equal(t, 5, svc.got.Page)
	assert.Equal(t, 8, svc.got.PageSize)

	var resp models.AppointmentListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 17, resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
}

func TestHandle_ByConsultant(t *testing.T) {
	svc := &fakeService{}
	rec := do(svc, "/api/v1/appointments?consultantId=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "consultant", svc.method)
	assert.Equal(t, domain.BucketAll, svc.got.Bucket)
	assert.Zero(t, svc.got.Page)
}

func TestHandle_BadQuery(t *testing.T) {
	for _, target := range []string{
		"/api/v1/appointments",
		"/api/v1/appointments?customerId=1&consultantId=7",
		"/api/v1/appointments?customerId=x",
		"/api/v1/appointments?customerId=1&bucket=archived",
		"/api/v1/appointments?customerId=1&page=two",
	} {
		svc := &fakeService{}
		rec := do(svc, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Nil(t, svc.got, target)
	}
}

func TestHandle_Forbidden(t *testing.T) {
	rec := do(&fakeService{err: appointments.ErrAccessDenied}, "/api/v1/appointments?customerId=2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
