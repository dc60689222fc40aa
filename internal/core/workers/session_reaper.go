package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Evictor drops sessions unused for longer than idle.
type Evictor interface {
	EvictIdle(ctx context.Context, idle time.Duration) (int, error)
}

// SessionReaper periodically evicts idle sessions so their memory and
// change subscriptions are released.
type SessionReaper struct {
	evictor  Evictor
	idle     time.Duration
	interval time.Duration
	timeout  time.Duration
	done     chan struct{}
}

func NewSessionReaper(evictor Evictor, idle, timeout time.Duration) *SessionReaper {
	interval := idle / 2
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SessionReaper{
		evictor:  evictor,
		idle:     idle,
		interval: interval,
		timeout:  timeout,
		done:     make(chan struct{}),
	}
}

func (r *SessionReaper) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *SessionReaper) sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.evictor.EvictIdle(ctx, r.idle); err != nil {
		logrus.WithError(err).Warn("idle session eviction incomplete")
	}
}

// Done is closed once the reaper has stopped.
func (r *SessionReaper) Done() <-chan struct{} {
	return r.done
}
