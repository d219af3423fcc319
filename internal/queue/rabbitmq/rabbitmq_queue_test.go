package rabbitmq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvscreen/internal/port"
)

type ackCall struct {
	tag     uint64
	ack     bool
	requeue bool
}

// recordingAcker stands in for the broker channel behind a delivery.
type recordingAcker struct {
	mu    sync.Mutex
	calls []ackCall
}

func (r *recordingAcker) Ack(tag uint64, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ackCall{tag: tag, ack: true})
	return nil
}

func (r *recordingAcker) Nack(tag uint64, _ bool, requeue bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ackCall{tag: tag, requeue: requeue})
	return nil
}

func (r *recordingAcker) Reject(tag uint64, requeue bool) error {
	return r.Nack(tag, false, requeue)
}

func (r *recordingAcker) recorded() []ackCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ackCall(nil), r.calls...)
}

func receive(t *testing.T, out <-chan port.Delivery) port.Delivery {
	t.Helper()
	select {
	case d, ok := <-out:
		require.True(t, ok, "out closed early")
		return d
	case <-time.After(time.Second):
		t.Fatal("no delivery forwarded")
	}
	return port.Delivery{}
}

func TestForward_AckAfterShutdownReachesBroker(t *testing.T) {
	q := &Queue{name: "cv-jobs"}
	acker := &recordingAcker{}
	id := uuid.New()

	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{
		Acknowledger: acker,
		DeliveryTag:  7,
		Body:         []byte(`{"submission_id":"` + id.String() + `","file_name":"jane.pdf"}`),
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan port.Delivery)
	go q.forward(ctx, deliveries, out)

	d := receive(t, out)
	assert.Equal(t, id, d.Job.SubmissionID)

	// Shut down while the job is still being processed.
	cancel()
	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("forward did not stop")
	}

	require.NoError(t, d.Ack())
	assert.Equal(t, []ackCall{{tag: 7, ack: true}}, acker.recorded())
}

func TestForward_UndecodableMessageIsDropped(t *testing.T) {
	q := &Queue{name: "cv-jobs"}
	acker := &recordingAcker{}

	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 3, Body: []byte("not json")}
	close(deliveries)

	out := make(chan port.Delivery)
	go q.forward(context.Background(), deliveries, out)

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("forward did not stop")
	}
	assert.Equal(t, []ackCall{{tag: 3, requeue: false}}, acker.recorded())
}

func TestForward_UnclaimedDeliveryIsRequeuedOnShutdown(t *testing.T) {
	q := &Queue{name: "cv-jobs"}
	acker := &recordingAcker{}

	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 9, Body: []byte(`{"file_name":"jane.pdf"}`)}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan port.Delivery)
	stopped := make(chan struct{})
	go func() {
		q.forward(ctx, deliveries, out)
		close(stopped)
	}()

	// Nobody reads out, so forward is parked on the send when the context ends.
	require.Eventually(t, func() bool { return len(deliveries) == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("forward did not stop")
	}
	assert.Equal(t, []ackCall{{tag: 9, requeue: true}}, acker.recorded())
}
