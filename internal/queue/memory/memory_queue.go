package memory

import (
	"context"
	"errors"
	"sync"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// ErrQueueClosed is returned by Publish after Close.
var ErrQueueClosed = errors.New("memory queue: closed")

// Queue is an in-process port.JobQueue backed by a buffered channel. Jobs that are queued or in
// flight when the process exits are lost.
type Queue struct {
	jobs      chan domain.FileJob
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a Queue that buffers up to size jobs before Publish blocks.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		jobs: make(chan domain.FileJob, size),
		done: make(chan struct{}),
	}
}

var _ port.JobQueue = (*Queue)(nil)

func (q *Queue) Publish(ctx context.Context, job domain.FileJob) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.jobs <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Consume(ctx context.Context) (<-chan port.Delivery, error) {
	out := make(chan port.Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.done:
				return
			case job := <-q.jobs:
				d := port.Delivery{
					Job:  job,
					Ack:  func() error { return nil },
					Nack: func(bool) error { return nil },
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close stops consumers and rejects further publishes.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}

// Len reports the number of buffered jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}
