package notify

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

var _ domain.ChangeNotifier = (*LocalChangeNotifier)(nil)

// LocalChangeNotifier delivers events inside a single process. It is used
// when the server runs without Redis.
type LocalChangeNotifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(domain.ChangeEvent)
}

func NewLocalChangeNotifier() *LocalChangeNotifier {
	return &LocalChangeNotifier{subs: make(map[string]map[int]func(domain.ChangeEvent))}
}

func (n *LocalChangeNotifier) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	n.mu.RLock()
	handlers := make([]func(domain.ChangeEvent), 0, len(n.subs[ev.UserID]))
	for _, h := range n.subs[ev.UserID] {
		handlers = append(handlers, h)
	}
	n.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (n *LocalChangeNotifier) Subscribe(ctx context.Context, userID string, onChange func(domain.ChangeEvent)) (func(), error) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[int]func(domain.ChangeEvent))
	}
	n.subs[userID][id] = onChange
	n.mu.Unlock()

	stop := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(stop)
			n.mu.Lock()
			delete(n.subs[userID], id)
			if len(n.subs[userID]) == 0 {
				delete(n.subs, userID)
			}
			n.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-stop:
		}
	}()

	return unsubscribe, nil
}
