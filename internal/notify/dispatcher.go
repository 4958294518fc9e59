package notify

import (
	"context"
	"log"
	"time"
)

// Task is a unit of background work. It receives a background context, never
// the originating request's, so cancelling a request does not cancel its task.
type Task func(ctx context.Context) error

// Dispatcher runs fire-and-forget tasks on a single worker goroutine fed by a
// buffered channel. Enqueue never blocks the caller; task failures are logged
// and never surface to any request.
type Dispatcher struct {
	tasks   chan Task
	timeout time.Duration
	done    chan struct{}
}

// NewDispatcher starts the worker. buffer bounds how many tasks may be queued
// before Enqueue starts running tasks inline.
func NewDispatcher(buffer int) *Dispatcher {
	d := &Dispatcher{
		tasks:   make(chan Task, buffer),
		timeout: 30 * time.Second,
		done:    make(chan struct{}),
	}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for task := range d.tasks {
		d.run(task)
	}
}

func (d *Dispatcher) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := task(ctx); err != nil {
		log.Printf("background task: %v", err)
	}
}

// Enqueue submits a task without blocking. If the queue is full the task runs
// on a fresh goroutine instead of being dropped.
func (d *Dispatcher) Enqueue(task Task) {
	select {
	case d.tasks <- task:
	default:
		go d.run(task)
	}
}

// Close stops accepting tasks and waits for the queue to drain.
func (d *Dispatcher) Close() {
	close(d.tasks)
	<-d.done
}
