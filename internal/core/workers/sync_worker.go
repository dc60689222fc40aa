package workers

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Flusher persists one store of one user.
type Flusher interface {
	Flush(ctx context.Context, userID string, store domain.StoreName) error
}

type SyncJob struct {
	UserID string
	Store  domain.StoreName
}

type dueFlush struct {
	job SyncJob
	gen uint64
}

type pendingFlush struct {
	gen   uint64
	timer *time.Timer
}

// SyncWorker debounces store writes: a job is flushed once no newer job for
// the same user and store arrived during the quiet interval.
type SyncWorker struct {
	flusher  Flusher
	debounce time.Duration
	timeout  time.Duration
	metrics  *metrics.Manager

	jobs chan SyncJob
	due  chan dueFlush
	done chan struct{}

	// owned by the loop goroutine
	pending map[SyncJob]*pendingFlush
	gen     uint64
	err     error
}

type SyncWorkerOptions struct {
	Debounce     time.Duration
	FlushTimeout time.Duration
	QueueSize    int
}

func NewSyncWorker(flusher Flusher, m *metrics.Manager, opts SyncWorkerOptions) *SyncWorker {
	if opts.Debounce <= 0 {
		opts.Debounce = time.Second
	}
	if opts.FlushTimeout <= 0 {
		opts.FlushTimeout = 5 * time.Second
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}

	return &SyncWorker{
		flusher:  flusher,
		debounce: opts.Debounce,
		timeout:  opts.FlushTimeout,
		metrics:  m,
		jobs:     make(chan SyncJob, opts.QueueSize),
		due:      make(chan dueFlush),
		done:     make(chan struct{}),
		pending:  make(map[SyncJob]*pendingFlush),
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		logrus.Info("sync worker started")

		for {
			select {
			case job := <-w.jobs:
				w.schedule(job)
			case d := <-w.due:
				p, ok := w.pending[d.job]
				if !ok || p.gen != d.gen {
					continue
				}
				delete(w.pending, d.job)
				if err := w.flush(d.job); err != nil {
					logrus.WithError(err).WithFields(logrus.Fields{
						"user_id": d.job.UserID,
						"store":   d.job.Store,
					}).Error("store flush failed")
				}
			case <-ctx.Done():
				w.err = w.drain()
				logrus.Info("sync worker stopped")
				return
			}
		}
	}()
}

// Enqueue never blocks. When the queue is full the job is dropped; the
// store stays dirty and is picked up by the next mutation or the final
// drain.
func (w *SyncWorker) Enqueue(userID string, store domain.StoreName) {
	select {
	case w.jobs <- SyncJob{UserID: userID, Store: store}:
	default:
		w.metrics.CounterDroppedJobs.Inc()
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"store":   store,
		}).Warn("sync queue full, dropping job")
	}
}

// Done is closed once the worker has drained and stopped.
func (w *SyncWorker) Done() <-chan struct{} {
	return w.done
}

// Err returns the combined errors of the final drain. Only valid after Done.
func (w *SyncWorker) Err() error {
	<-w.done
	return w.err
}

func (w *SyncWorker) schedule(job SyncJob) {
	if p, ok := w.pending[job]; ok {
		p.timer.Stop()
		w.metrics.CounterSuperseded.Inc()
	}

	w.gen++
	d := dueFlush{job: job, gen: w.gen}
	w.pending[job] = &pendingFlush{
		gen: d.gen,
		timer: time.AfterFunc(w.debounce, func() {
			select {
			case w.due <- d:
			case <-w.done:
			}
		}),
	}
}

func (w *SyncWorker) flush(job SyncJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.flusher.Flush(ctx, job.UserID, job.Store)
}

// drain flushes everything still pending, including jobs left in the queue.
func (w *SyncWorker) drain() error {
queued:
	for {
		select {
		case job := <-w.jobs:
			if _, ok := w.pending[job]; !ok {
				w.pending[job] = &pendingFlush{}
			}
		default:
			break queued
		}
	}

	var err error
	for job, p := range w.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		err = multierr.Append(err, w.flush(job))
		delete(w.pending, job)
	}
	if err != nil {
		logrus.WithError(err).Error("sync worker: final flush incomplete")
	}
	return err
}
