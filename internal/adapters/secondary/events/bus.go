package events

import (
	"sync"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

type subscription struct {
	id      uint64
	handler ports.WindowEventHandler
}

// Bus is a synchronous in-memory window event dispatcher.
type Bus struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[domain.WindowEventKind][]subscription
}

var _ ports.WindowEvents = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[domain.WindowEventKind][]subscription),
	}
}

// Subscribe registers handler for kind. The returned function removes it
// and is safe to call more than once.
func (b *Bus) Subscribe(kind domain.WindowEventKind, handler ports.WindowEventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners[kind] = append(b.listeners[kind], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(kind, id) })
	}
}

func (b *Bus) remove(kind domain.WindowEventKind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[kind]
	for i, s := range subs {
		if s.id == id {
			b.listeners[kind] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.listeners[kind]) == 0 {
		delete(b.listeners, kind)
	}
}

// Publish invokes every handler subscribed to the event's kind on the
// caller's goroutine.
func (b *Bus) Publish(event domain.WindowEvent) {
	b.mu.RLock()
	subs := append([]subscription{}, b.listeners[event.Kind]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// SubscriberCount returns the number of handlers registered for kind.
func (b *Bus) SubscriberCount(kind domain.WindowEventKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[kind])
}
