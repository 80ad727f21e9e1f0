package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := New()

	id1, ch1 := bus.Subscribe(4)
	id2, ch2 := bus.Subscribe(4)
	defer bus.Unsubscribe(id1)
	defer bus.Unsubscribe(id2)

	bus.PublishNew(TypeTaskCreated, "task-1", map[string]string{"title": "x"})

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, TypeTaskCreated, ev1.Type)
	assert.Equal(t, "task-1", ev1.TaskID)
	assert.Equal(t, "x", ev1.Metadata["title"])
	assert.Equal(t, ev1.ID, ev2.ID)
}

func TestPublishNewAssignsIDAndTimestamp(t *testing.T) {
	bus := New()
	_, ch := bus.Subscribe(1)

	bus.PublishNew(TypeTaskShipped, "task-1", nil)

	ev := <-ch
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.CreatedAt.IsZero())
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	bus := New()
	_, ch := bus.Subscribe(1)

	bus.PublishNew(TypeTaskCreated, "task-1", nil)
	bus.PublishNew(TypeTaskCreated, "task-2", nil)

	ev := <-ch
	assert.Equal(t, "task-1", ev.TaskID)
	select {
	case unexpected := <-ch:
		t.Fatalf("expected second event to be dropped, got %v", unexpected)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New()
	id, ch := bus.Subscribe(1)

	bus.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after unsubscribe must not panic on the closed channel.
	require.NotPanics(t, func() {
		bus.PublishNew(TypeTaskDeleted, "task-1", nil)
	})
}

func TestUnsubscribeUnknownIDIsNoop(t *testing.T) {
	bus := New()
	require.NotPanics(t, func() {
		bus.Unsubscribe("missing")
	})
}
