package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointment_TransitionTo(t *testing.T) {
	tests := []struct {
		name        string
		from        AppointmentStatus
		to          AppointmentStatus
		wantChanged bool
		wantErr     error
	}{
		{"scheduled to completed", StatusScheduled, StatusCompleted, true, nil},
		{"scheduled to cancelled", StatusScheduled, StatusCancelled, true, nil},
		{"in progress to completed", StatusInProgress, StatusCompleted, true, nil},
		{"in progress to cancelled", StatusInProgress, StatusCancelled, true, nil},
		{"same non-terminal status is a no-op", StatusScheduled, StatusScheduled, false, nil},
		{"scheduled to in progress is not allowed", StatusScheduled, StatusInProgress, false, ErrInvalidTransition},
		{"in progress back to scheduled", StatusInProgress, StatusScheduled, false, ErrInvalidTransition},
		{"completed is terminal", StatusCompleted, StatusCancelled, false, ErrInvalidTransition},
		{"cancelled is terminal", StatusCancelled, StatusScheduled, false, ErrInvalidTransition},
		{"same terminal status still fails", StatusCompleted, StatusCompleted, false, ErrInvalidTransition},
		{"unknown target", StatusScheduled, AppointmentStatus(9), false, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}

			changed, err := a.TransitionTo(tt.to)

			assert.Equal(t, tt.wantChanged, changed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, a.Status, "status must not change on failure")
				return
			}
			require.NoError(t, err)
			if tt.wantChanged {
				assert.Equal(t, tt.to, a.Status)
			}
		})
	}
}

func TestAppointment_SetMeetingLink(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}

	require.NoError(t, a.SetMeetingLink("https://meet.example.com/abc"))
	require.NoError(t, a.SetMeetingLink("https://meet.example.com/xyz"))
	require.NotNil(t, a.MeetingLink)
	assert.Equal(t, "https://meet.example.com/xyz", *a.MeetingLink)

	for _, st := range []AppointmentStatus{StatusCompleted, StatusCancelled, StatusInProgress} {
		b := &Appointment{Status: st}
		err := b.SetMeetingLink("https://meet.example.com/abc")
		require.ErrorIs(t, err, ErrInvalidState)
		assert.Nil(t, b.MeetingLink)
	}
}

func TestAppointment_FeedbackEligible(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusCompleted}).FeedbackEligible())
	assert.False(t, (&Appointment{Status: StatusScheduled}).FeedbackEligible())
	assert.False(t, (&Appointment{Status: StatusCancelled}).FeedbackEligible())
}

func TestAppointment_SameSchedule(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	a := &Appointment{AppointmentDate: date, Slot: SlotLateMorning, Notes: "back pain"}

	assert.True(t, a.SameSchedule(date.Add(5*time.Hour), SlotLateMorning, "back pain"))
	assert.False(t, a.SameSchedule(date.AddDate(0, 0, 1), SlotLateMorning, "back pain"))
	assert.False(t, a.SameSchedule(date, SlotEarlyMorning, "back pain"))
	assert.False(t, a.SameSchedule(date, SlotLateMorning, ""))
}

func TestBucket(t *testing.T) {
	b, err := ParseBucket("")
	require.NoError(t, err)
	assert.Equal(t, BucketAll, b)
	assert.Nil(t, b.Statuses())

	b, err = ParseBucket("Upcoming")
	require.NoError(t, err)
	assert.ElementsMatch(t, []AppointmentStatus{StatusScheduled, StatusInProgress}, b.Statuses())
	assert.True(t, b.Contains(StatusInProgress))
	assert.False(t, b.Contains(StatusCancelled))

	b, err = ParseBucket("completed")
	require.NoError(t, err)
	assert.ElementsMatch(t, []AppointmentStatus{StatusCompleted, StatusCancelled}, b.Statuses())

	_, err = ParseBucket("archived")
	require.ErrorIs(t, err, ErrValidation)

	assert.True(t, BucketCompleted.Contains(StatusCancelled))
	assert.False(t, BucketCompleted.Contains(StatusScheduled))
	assert.True(t, BucketAll.Contains(StatusInProgress))
}

func TestAppointmentsFilter_MatchesStatus(t *testing.T) {
	assert.True(t, AppointmentsFilter{}.MatchesStatus(StatusCancelled))

	upcoming := AppointmentsFilter{Statuses: BucketUpcoming.Statuses()}
	assert.True(t, upcoming.MatchesStatus(StatusScheduled))
	assert.False(t, upcoming.MatchesStatus(StatusCompleted))
}

func TestActor_Permissions(t *testing.T) {
	appt := &Appointment{CustomerID: 10, ConsultantID: 20}

	customer := Actor{UserID: 10, Role: RoleCustomer}
	otherCustomer := Actor{UserID: 11, Role: RoleCustomer}
	consultant := Actor{UserID: 20, Role: RoleConsultant}
	otherConsultant := Actor{UserID: 21, Role: RoleConsultant}
	staff := Actor{UserID: 1, Role: RoleStaff}

	assert.True(t, customer.CanView(appt))
	assert.False(t, customer.CanManage(appt))
	assert.False(t, otherCustomer.CanView(appt))
	assert.True(t, consultant.CanManage(appt))
	assert.False(t, otherConsultant.CanManage(appt))
	assert.True(t, staff.CanManage(appt))

	assert.True(t, customer.CanListCustomer(10))
	assert.False(t, customer.CanListConsultant(20))
	assert.True(t, consultant.CanListConsultant(20))
	assert.True(t, staff.CanListCustomer(99))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("Admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("root")
	assert.False(t, ok)
}
