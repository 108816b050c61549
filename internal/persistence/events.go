package persistence

import (
	"context"
	"sync"
)

// changeNotifier fans snapshot writes out to watchers. Each watcher holds at
// most one pending event and drops newer ones until it drains.
type changeNotifier struct {
	mu       sync.Mutex
	watchers map[chan ChangeEvent]struct{}
}

func newChangeNotifier() *changeNotifier {
	return &changeNotifier{watchers: map[chan ChangeEvent]struct{}{}}
}

func (n *changeNotifier) watch(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan ChangeEvent, 1)
	if ctx.Err() != nil {
		close(ch)
		return ch, nil
	}

	n.mu.Lock()
	n.watchers[ch] = struct{}{}
	n.mu.Unlock()

	context.AfterFunc(ctx, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.watchers, ch)
		close(ch)
	})
	return ch, nil
}

func (n *changeNotifier) notify(changeType ChangeType, key string) {
	evt := ChangeEvent{Type: changeType, Key: key}
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}
