package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrWriterClosed is returned by Flush after Close.
var ErrWriterClosed = errors.New("writer closed")

// DefaultWriteTimeout bounds a single write when none is configured.
const DefaultWriteTimeout = 10 * time.Second

// WriteFunc performs one persistence call.
type WriteFunc func(ctx context.Context) error

type writeJob struct {
	name string
	fn   WriteFunc
	done chan struct{} // set for flush markers only
}

// Writer runs writes asynchronously on a single goroutine, in submission
// order. Callers never wait for a write, not even behind a slow provider:
// the queue is unbounded. Failures are logged.
type Writer struct {
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []writeJob
	closed bool
	wg     sync.WaitGroup
}

// NewWriter starts a Writer. timeout <= 0 selects DefaultWriteTimeout.
func NewWriter(logger *zap.Logger, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	w := &Writer{
		logger:  logger,
		timeout: timeout,
	}
	w.cond = sync.NewCond(&w.mu)
	w.wg.Add(1)
	go w.run()
	return w
}

// Submit queues fn and returns immediately. name identifies the write in
// logs. Writes submitted after Close are dropped.
func (w *Writer) Submit(name string, fn WriteFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.logger.Warn("write dropped, writer closed", zap.String("write", name))
		return
	}
	w.queue = append(w.queue, writeJob{name: name, fn: fn})
	w.cond.Signal()
}

// Pending returns the number of queued writes, including a running one.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Flush blocks until every write submitted before the call has finished.
func (w *Writer) Flush(ctx context.Context) error {
	done := make(chan struct{})

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	w.queue = append(w.queue, writeJob{done: done})
	w.cond.Signal()
	w.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes and waits for the queued ones to finish.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

func (w *Writer) run() {
	defer w.wg.Done()
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		job := w.queue[0]
		w.mu.Unlock()

		if job.done != nil {
			close(job.done)
		} else {
			w.execute(job)
		}

		w.mu.Lock()
		w.queue[0] = writeJob{}
		w.queue = w.queue[1:]
		w.mu.Unlock()
	}
}

func (w *Writer) execute(job writeJob) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	if err := job.fn(ctx); err != nil {
		w.logger.Error("write failed",
			zap.String("write", job.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	w.logger.Debug("write completed",
		zap.String("write", job.name),
		zap.Duration("elapsed", time.Since(start)),
	)
}
