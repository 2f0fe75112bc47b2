package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestReportNotifierDeliversPerUser(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := newClient(mr)
	defer client.Close()
	notifier := NewReportNotifier(client)

	alice, cancelAlice, err := notifier.Subscribe(ctx, "alice")
	if err != nil {
		t.Fatalf("subscribe alice: %v", err)
	}
	bob, cancelBob, err := notifier.Subscribe(ctx, "bob")
	if err != nil {
		t.Fatalf("subscribe bob: %v", err)
	}
	defer cancelBob()

	if err := notifier.Publish(ctx, "alice"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-alice:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected signal for alice")
	}
	select {
	case <-bob:
		t.Fatalf("bob must not be signalled for alice")
	case <-time.After(100 * time.Millisecond):
	}

	cancelAlice()
	cancelAlice()
	select {
	case _, ok := <-alice:
		if ok {
			// A late signal may still be buffered; the close must follow.
			if _, ok := <-alice; ok {
				t.Fatalf("expected channel closed after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected channel closed after cancel")
	}
}
