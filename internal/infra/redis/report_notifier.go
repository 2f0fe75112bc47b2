package redis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ReportNotifier is a Redis pub/sub implementation of app.ReportNotifier, so
// that every service instance learns about submissions stored by any other.
type ReportNotifier struct {
	client *redis.Client
}

func NewReportNotifier(client *redis.Client) *ReportNotifier {
	return &ReportNotifier{client: client}
}

func (n *ReportNotifier) Publish(ctx context.Context, userName string) error {
	return n.client.Publish(ctx, n.channel(userName), "1").Err()
}

// Subscribe forwards pub/sub messages for userName as coalesced signals. The
// subscription is confirmed before Subscribe returns.
func (n *ReportNotifier) Subscribe(ctx context.Context, userName string) (<-chan struct{}, func(), error) {
	pubsub := n.client.Subscribe(ctx, n.channel(userName))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})
	messages := pubsub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case _, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}
	return out, cancel, nil
}

func (n *ReportNotifier) channel(userName string) string {
	return "report:user:" + userName
}
