package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	appt := &domain.Appointment{
		ID:              42,
		CustomerID:      1,
		ConsultantID:    7,
		ServiceID:       3,
		AppointmentDate: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		Slot:            domain.SlotEarlyAfternoon,
		Status:          domain.StatusCancelled,
	}
	event := NewAppointmentEvent(TypeAppointmentStatusChanged, appt, time.Now()).
		WithPreviousStatus(domain.StatusScheduled)

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, event.ID, string(msg.Headers[0].Value))
	assert.Equal(t, TypeAppointmentStatusChanged, string(msg.Headers[1].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "2026-02-03", decoded.Payload.AppointmentDate)
	assert.Equal(t, 2, decoded.Payload.Status)
	require.NotNil(t, decoded.Payload.PreviousStatus)
	assert.Equal(t, 0, *decoded.Payload.PreviousStatus)
}

func TestPublisher_WriteError(t *testing.T) {
	p := &Publisher{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), Event{Type: TypeAppointmentCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}
