package memory

import (
	"context"
	"testing"
	"time"
)

func TestReportHubPublishSubscribe(t *testing.T) {
	ctx := context.Background()
	hub := NewReportHub()

	ch, cancel, err := hub.Subscribe(ctx, "alice")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	other, cancelOther, _ := hub.Subscribe(ctx, "bob")
	defer cancelOther()

	// Two publishes coalesce into one pending signal.
	_ = hub.Publish(ctx, "alice")
	_ = hub.Publish(ctx, "alice")

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected signal")
	}
	select {
	case <-ch:
		t.Fatalf("expected signals to coalesce")
	default:
	}
	select {
	case <-other:
		t.Fatalf("bob must not be signalled for alice")
	default:
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after cancel")
	}
	if n := hub.Subscribers("alice"); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}
	if n := hub.Subscribers("bob"); n != 1 {
		t.Fatalf("expected bob still subscribed, got %d", n)
	}
}
