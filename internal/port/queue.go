package port

import (
	"context"

	"cvscreen/internal/domain"
)

// Delivery is one job handed to the worker. Ack must be called once the job is finished;
// Nack returns it to the broker where the implementation supports redelivery.
type Delivery struct {
	Job  domain.FileJob
	Ack  func() error
	Nack func(requeue bool) error
}

// JobQueue hands file jobs from request handlers to the processing worker.
type JobQueue interface {
	Publish(ctx context.Context, job domain.FileJob) error
	// Consume streams deliveries until ctx is canceled or the queue is closed.
	Consume(ctx context.Context) (<-chan Delivery, error)
	Close() error
}
