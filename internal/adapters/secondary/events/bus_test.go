package events_test

import (
	"testing"

	"github.com/lorrc/ticket-sync/internal/adapters/secondary/events"
	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesSubscribersOfKind(t *testing.T) {
	bus := events.NewBus()

	var focus, visibility int
	bus.Subscribe(domain.WindowFocus, func(domain.WindowEvent) { focus++ })
	bus.Subscribe(domain.WindowVisibility, func(ev domain.WindowEvent) {
		if ev.Visible {
			visibility++
		}
	})

	bus.Publish(domain.WindowEvent{Kind: domain.WindowFocus})
	bus.Publish(domain.WindowEvent{Kind: domain.WindowVisibility, Visible: true})
	bus.Publish(domain.WindowEvent{Kind: domain.WindowVisibility, Visible: false})

	assert.Equal(t, 1, focus)
	assert.Equal(t, 1, visibility)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := events.NewBus()

	var first, second int
	unsubFirst := bus.Subscribe(domain.WindowFocus, func(domain.WindowEvent) { first++ })
	bus.Subscribe(domain.WindowFocus, func(domain.WindowEvent) { second++ })
	assert.Equal(t, 2, bus.SubscriberCount(domain.WindowFocus))

	unsubFirst()
	unsubFirst()
	assert.Equal(t, 1, bus.SubscriberCount(domain.WindowFocus))

	bus.Publish(domain.WindowEvent{Kind: domain.WindowFocus})
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := events.NewBus()

	var calls int
	var unsub func()
	unsub = bus.Subscribe(domain.WindowFocus, func(domain.WindowEvent) {
		calls++
		unsub()
	})

	bus.Publish(domain.WindowEvent{Kind: domain.WindowFocus})
	bus.Publish(domain.WindowEvent{Kind: domain.WindowFocus})

	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.SubscriberCount(domain.WindowFocus))
}
