package memory

import (
	"context"
	"sync"
)

// ReportHub is an in-process implementation of app.ReportNotifier.
type ReportHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan struct{}]struct{}
}

func NewReportHub() *ReportHub {
	return &ReportHub{
		subscribers: make(map[string]map[chan struct{}]struct{}),
	}
}

// Publish signals every subscriber of userName. Slow subscribers never block
// the publisher: a pending signal already means "report changed".
func (h *ReportHub) Publish(_ context.Context, userName string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[userName] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (h *ReportHub) Subscribe(_ context.Context, userName string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	subs, ok := h.subscribers[userName]
	if !ok {
		subs = make(map[chan struct{}]struct{})
		h.subscribers[userName] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[userName]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, userName)
		}
	}
	return ch, cancel, nil
}

// Subscribers reports how many subscriptions are open for userName.
func (h *ReportHub) Subscribers(userName string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[userName])
}
