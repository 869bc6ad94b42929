package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus lifecycle status of an appointment
type AppointmentStatus int

const (
	StatusScheduled  AppointmentStatus = 0
	StatusCompleted  AppointmentStatus = 1
	StatusCancelled  AppointmentStatus = 2
	StatusInProgress AppointmentStatus = 3
)

// allowedTransitions terminal statuses have no entry
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// IsValid returns true if the status is part of the enumeration
func (s AppointmentStatus) IsValid() bool {
	return s >= StatusScheduled && s <= StatusInProgress
}

// IsTerminal returns true for Completed and Cancelled
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// OccupiesSlot returns true if an appointment in this status holds its slot.
// Cancelled appointments free the slot for re-booking.
func (s AppointmentStatus) OccupiesSlot() bool {
	return s.IsValid() && s != StatusCancelled
}

// CanTransitionTo returns true if next is reachable from s in one step
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusInProgress:
		return "in_progress"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Appointment represents a booked consultation
type Appointment struct {
	ID              int64
	CustomerID      int64
	ConsultantID    int64
	ServiceID       int64
	AppointmentDate time.Time // calendar date, time comes from Slot
	Slot            TimeSlot
	Status          AppointmentStatus
	Notes           string
	MeetingLink     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransitionTo moves the appointment to next.
// Re-sending the current non-terminal status is a no-op and returns changed=false.
func (a *Appointment) TransitionTo(next AppointmentStatus) (bool, error) {
	if !next.IsValid() {
		return false, fmt.Errorf("%w: unknown status %d", ErrValidation, int(next))
	}

	if a.Status.IsTerminal() {
		return false, fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, a.Status)
	}

	if next == a.Status {
		return false, nil
	}

	if !a.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: %s -> %s is not allowed", ErrInvalidTransition, a.Status, next)
	}

	a.Status = next
	return true, nil
}

// SetMeetingLink overwrites the meeting link, allowed only while Scheduled.
// The link must already be validated by the caller.
func (a *Appointment) SetMeetingLink(link string) error {
	if a.Status != StatusScheduled {
		return fmt.Errorf("%w: meeting link can only be set while scheduled, appointment is %s", ErrInvalidState, a.Status)
	}

	link = strings.TrimSpace(link)
	a.MeetingLink = &link
	return nil
}

// FeedbackEligible returns true once the appointment is completed
func (a *Appointment) FeedbackEligible() bool {
	return a.Status == StatusCompleted
}

// SameSchedule returns true if date, slot and notes match the stored record
func (a *Appointment) SameSchedule(date time.Time, slot TimeSlot, notes string) bool {
	return DateOnly(a.AppointmentDate).Equal(DateOnly(date)) &&
		a.Slot == slot &&
		a.Notes == notes
}

// Bucket is a view-level grouping of statuses
type Bucket string

const (
	BucketAll       Bucket = "all"
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
)

// ParseBucket parses a bucket name, empty string means all
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(strings.ToLower(strings.TrimSpace(s))) {
	case "", BucketAll:
		return BucketAll, nil
	case BucketUpcoming:
		return BucketUpcoming, nil
	case BucketCompleted:
		return BucketCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown bucket %q", ErrValidation, s)
	}
}

// Statuses returns the statuses of the bucket, nil means no status filter
func (b Bucket) Statuses() []AppointmentStatus {
	switch b {
	case BucketUpcoming:
		return []AppointmentStatus{StatusScheduled, StatusInProgress}
	case BucketCompleted:
		return []AppointmentStatus{StatusCompleted, StatusCancelled}
	default:
		return nil
	}
}

// Contains returns true if the status falls into the bucket
func (b Bucket) Contains(s AppointmentStatus) bool {
	statuses := b.Statuses()
	return statuses == nil || statusIn(s, statuses)
}

func statusIn(s AppointmentStatus, statuses []AppointmentStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// AppointmentsFilter фильтр для выборки записей
type AppointmentsFilter struct {
	CustomerID   *int64
	ConsultantID *int64
	Statuses     []AppointmentStatus // пусто = все статусы
	Limit        int
	Offset       int
}

// MatchesStatus returns true if the filter has no status restriction or lists s
func (f AppointmentsFilter) MatchesStatus(s AppointmentStatus) bool {
	return len(f.Statuses) == 0 || statusIn(s, f.Statuses)
}
