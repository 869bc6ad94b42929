package update_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/consultantservice"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/events"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
	"github.com/m04kA/SMC-ConsultationService/pkg/validation"
)

const consultantK = int64(7)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

type fakeDirectory struct{}

func (fakeDirectory) GetConsultant(_ context.Context, id int64) (*domain.Consultant, error) {
	if id != consultantK {
		return nil, consultantservice.ErrConsultantNotFound
	}
	return &domain.Consultant{ID: id, DisplayName: "Dr. Kim"}, nil
}

// countingRepo считает записи в хранилище
type countingRepo struct {
	*appointment.MemoryRepository
	replaces int
}

func (r *countingRepo) Replace(ctx context.Context, appt *domain.Appointment) error {
	r.replaces++
	return r.MemoryRepository.Replace(ctx, appt)
}

type fixture struct {
	uc        *UseCase
	repo      *countingRepo
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := &countingRepo{MemoryRepository: appointment.NewMemoryRepository()}
	pub := &recordingPublisher{}
	m := metrics.New("test", prometheus.NewRegistry())

	uc := NewUseCase(repo, txmanager.NewLockingManager(), validation.New(), pub, m, logger.Nop())
	return &fixture{uc: uc, repo: repo, publisher: pub, metrics: m}
}

func (f *fixture) seed(t *testing.T, customerID int64, slot domain.TimeSlot) *domain.Appointment {
	t.Helper()
	appt, err := f.repo.Create(context.Background(), &domain.Appointment{
		CustomerID:      customerID,
		ConsultantID:    consultantK,
		ServiceID:       1,
		AppointmentDate: domain.DateOnly(now).AddDate(0, 0, 1),
		Slot:            slot,
		Status:          domain.StatusScheduled,
		Notes:           "follow-up",
	})
	require.NoError(t, err)
	return appt
}

func (f *fixture) stored(t *testing.T, id int64) *domain.Appointment {
	t.Helper()
	appt, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return appt
}

func putRequest(appt *domain.Appointment, actor domain.Actor) *Request {
	return &Request{
		AppointmentID: appt.ID,
		Actor:         actor,
		Date:          appt.AppointmentDate,
		Slot:          appt.Slot,
		Notes:         appt.Notes,
	}
}

var (
	owner = domain.Actor{UserID: consultantK, Role: domain.RoleConsultant}
	staff = domain.Actor{UserID: 500, Role: domain.RoleStaff}
)

func TestExecute_CompleteMakesFeedbackEligible(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotLateMorning)

	req := putRequest(appt, owner)
	req.Status = ptr.Ptr(domain.StatusCompleted)

	updated, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.True(t, updated.FeedbackEligible())
	assert.Equal(t, domain.StatusCompleted, f.stored(t, appt.ID).Status)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, events.TypeAppointmentStatusChanged, ev.Type)
	require.NotNil(t, ev.Payload.PreviousStatus)
	assert.Equal(t, int(domain.StatusScheduled), *ev.Payload.PreviousStatus)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StatusTransitions.WithLabelValues("test", "completed")))
}

func TestExecute_TerminalIsImmutable(t *testing.T) {
	for _, terminal := range []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusCancelled} {
		t.Run(terminal.String(), func(t *testing.T) {
			f := newFixture(t)
			appt := f.seed(t, 1, domain.SlotEarlyMorning)
			_, err := f.uc.Transition(context.Background(), appt.ID, terminal, owner)
			require.NoError(t, err)
			replaces := f.repo.replaces

			for _, next := range []domain.AppointmentStatus{
				domain.StatusScheduled, domain.StatusCompleted, domain.StatusCancelled, domain.StatusInProgress,
			} {
				_, err := f.uc.Transition(context.Background(), appt.ID, next, staff)
				require.ErrorIs(t, err, ErrInvalidTransition)
				require.ErrorIs(t, err, domain.ErrInvalidTransition)
			}

			assert.Equal(t, terminal, f.stored(t, appt.ID).Status)
			assert.Equal(t, replaces, f.repo.replaces)
		})
	}
}

func TestTransition_SameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	updated, err := f.uc.Transition(context.Background(), appt.ID, domain.StatusScheduled, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, updated.Status)
	assert.Zero(t, f.repo.replaces)
	assert.Empty(t, f.publisher.events)
}

func TestTransition_ToInProgressNotAllowed(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	_, err := f.uc.Transition(context.Background(), appt.ID, domain.StatusInProgress, owner)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusScheduled, f.stored(t, appt.ID).Status)
}

func TestTransition_Errors(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	_, err := f.uc.Transition(context.Background(), 0, domain.StatusCancelled, owner)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Transition(context.Background(), appt.ID, domain.AppointmentStatus(9), owner)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Transition(context.Background(), 999, domain.StatusCancelled, owner)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_OnlyOwnerOrStaff(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	denied := []domain.Actor{
		{UserID: 1, Role: domain.RoleCustomer},
		{UserID: 8, Role: domain.RoleConsultant},
	}
	for _, actor := range denied {
		_, err := f.uc.Transition(context.Background(), appt.ID, domain.StatusCancelled, actor)
		require.ErrorIs(t, err, ErrAccessDenied)
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.NotErrorIs(t, err, domain.ErrAccessDenied)
	}
	assert.Equal(t, domain.StatusScheduled, f.stored(t, appt.ID).Status)

	_, err := f.uc.Transition(context.Background(), appt.ID, domain.StatusCancelled,
		domain.Actor{UserID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)
}

func TestExecute_StaleRecordRejected(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	req := putRequest(appt, owner)
	req.Slot = domain.SlotLateAfternoon
	req.Status = ptr.Ptr(domain.StatusCancelled)

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrStaleRecord)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusScheduled, f.stored(t, appt.ID).Status)
}

func TestExecute_NothingToUpdate(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	_, err := f.uc.Execute(context.Background(), putRequest(appt, owner))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_MalformedLinkLeavesRecordUntouched(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	for _, link := range []string{"", "meet.example.com/abc", "ftp://meet.example.com/abc", "not a url"} {
		req := putRequest(appt, owner)
		req.Status = ptr.Ptr(domain.StatusCompleted)
		req.MeetingLink = ptr.Ptr(link)

		_, err := f.uc.Execute(context.Background(), req)
		require.ErrorIs(t, err, ErrInvalidMeetingLink, link)
		require.ErrorIs(t, err, domain.ErrValidation)
	}

	stored := f.stored(t, appt.ID)
	assert.Equal(t, domain.StatusScheduled, stored.Status, "status must not be partially applied")
	assert.Nil(t, stored.MeetingLink)
	assert.Zero(t, f.repo.replaces)
}

func TestSetMeetingLink(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	updated, err := f.uc.SetMeetingLink(context.Background(), appt.ID, " https://meet.example.com/abc ", owner)
	require.NoError(t, err)
	require.NotNil(t, updated.MeetingLink)
	assert.Equal(t, "https://meet.example.com/abc", *updated.MeetingLink)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeAppointmentMeetingLink, f.publisher.events[0].Type)

	// та же ссылка повторно - без записи
	_, err = f.uc.SetMeetingLink(context.Background(), appt.ID, "https://meet.example.com/abc", owner)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.replaces)

	// ссылка перезаписывается, пока запись в статусе Scheduled
	updated, err = f.uc.SetMeetingLink(context.Background(), appt.ID, "https://meet.example.com/xyz", staff)
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/xyz", *updated.MeetingLink)
}

func TestSetMeetingLink_NotAllowedAfterCancel(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	_, err := f.uc.Transition(context.Background(), appt.ID, domain.StatusCancelled, owner)
	require.NoError(t, err)

	_, err = f.uc.SetMeetingLink(context.Background(), appt.ID, "https://meet.example.com/abc", owner)
	require.ErrorIs(t, err, ErrMeetingLinkNotAllowed)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Nil(t, f.stored(t, appt.ID).MeetingLink)
}

func TestExecute_LinkAndCompleteInOneRequest(t *testing.T) {
	f := newFixture(t)
	appt := f.seed(t, 1, domain.SlotEarlyMorning)

	req := putRequest(appt, owner)
	req.Status = ptr.Ptr(domain.StatusCompleted)
	req.MeetingLink = ptr.Ptr("https://meet.example.com/abc")

	updated, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	require.NotNil(t, updated.MeetingLink)
	assert.Equal(t, 1, f.repo.replaces)
	assert.Len(t, f.publisher.events, 2)
}

// Консультант K свободен, A бронирует слот, B получает конфликт,
// консультант отменяет запись A, и слот снова доступен для C
func TestCancellationFreesSlotForRebooking(t *testing.T) {
	f := newFixture(t)
	booking := create_appointment.NewUseCase(f.repo, fakeDirectory{}, txmanager.NewLockingManager(),
		f.publisher, f.metrics, domain.NewHorizon(14, 90), logger.Nop())

	date := domain.DateOnly(time.Now()).AddDate(0, 0, 1)
	book := func(customerID int64) (*domain.Appointment, error) {
		return booking.Execute(context.Background(), &create_appointment.Request{
			Actor:        domain.Actor{UserID: customerID, Role: domain.RoleCustomer},
			ConsultantID: consultantK,
			ServiceID:    1,
			Date:         date,
			Slot:         domain.SlotEarlyAfternoon,
			Notes:        "sore throat",
		})
	}
	occupancy := func() domain.Occupancy {
		active, err := f.repo.ListActiveByConsultant(context.Background(), consultantK, date, date)
		require.NoError(t, err)
		return domain.BuildOccupancy(active, logger.Nop())
	}

	for _, w := range domain.ListSlots() {
		assert.True(t, occupancy().IsSlotBookable(date, w.ID))
	}

	a, err := book(1)
	require.NoError(t, err)
	assert.False(t, occupancy().IsSlotBookable(date, domain.SlotEarlyAfternoon))

	_, err = book(2)
	require.ErrorIs(t, err, create_appointment.ErrSlotAlreadyBooked)

	_, err = f.uc.Transition(context.Background(), a.ID, domain.StatusCancelled, owner)
	require.NoError(t, err)
	assert.True(t, occupancy().IsSlotBookable(date, domain.SlotEarlyAfternoon))

	c, err := book(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.CustomerID)

	// отмененная запись сохраняется для истории
	assert.Equal(t, domain.StatusCancelled, f.stored(t, a.ID).Status)
}

func TestTransition_RepositoryFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.uc.appointmentRepo = failingRepo{}

	_, err := f.uc.Transition(context.Background(), 1, domain.StatusCancelled, owner)
	require.ErrorIs(t, err, ErrInternal)
}

type failingRepo struct{}

func (failingRepo) GetByIDForUpdate(context.Context, int64) (*domain.Appointment, error) {
	return nil, errors.New("connection reset")
}

func (failingRepo) Replace(context.Context, *domain.Appointment) error {
	return errors.New("connection reset")
}
