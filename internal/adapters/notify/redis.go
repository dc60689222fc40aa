package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ domain.ChangeNotifier = (*RedisChangeNotifier)(nil)

// RedisChangeNotifier fans change events out over one Pub/Sub channel per
// user, so every process serving that user hears about new versions.
type RedisChangeNotifier struct {
	rdb *redis.Client
}

func NewRedisChangeNotifier(rdb *redis.Client) *RedisChangeNotifier {
	return &RedisChangeNotifier{rdb: rdb}
}

func channelFor(userID string) string {
	return fmt.Sprintf("kanso:changes:%s", userID)
}

func (n *RedisChangeNotifier) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: encode event: %w", err)
	}
	if err := n.rdb.Publish(ctx, channelFor(ev.UserID), data).Err(); err != nil {
		return fmt.Errorf("notify: publish: %w", err)
	}
	return nil
}

func (n *RedisChangeNotifier) Subscribe(ctx context.Context, userID string, onChange func(domain.ChangeEvent)) (func(), error) {
	sub := n.rdb.Subscribe(ctx, channelFor(userID))

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("notify: subscribe: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	messages := sub.Channel()

	go func() {
		defer close(done)
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logrus.WithError(err).WithField("channel", msg.Channel).Warn("notify: dropping malformed event")
					continue
				}
				onChange(ev)
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = sub.Close()
			<-done
		})
	}, nil
}
