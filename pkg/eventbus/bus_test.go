package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwork/taskboard/dao/model"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestChannelBus(t *testing.T) {
	t.Run("delivers to every subscriber of the topic", func(t *testing.T) {
		bus := NewChannelBus()
		a := bus.Subscribe(1, "a")
		b := bus.Subscribe(1, "b")
		other := bus.Subscribe(2, "c")

		bus.Publish(1, Event{Type: TaskCreated, ProjectID: 1})

		assert.Equal(t, TaskCreated, receive(t, a).Type)
		assert.Equal(t, TaskCreated, receive(t, b).Type)
		select {
		case event := <-other:
			t.Fatalf("subscriber of another project received %v", event)
		default:
		}
	})

	t.Run("subscribe is idempotent per subscriber", func(t *testing.T) {
		bus := NewChannelBus()
		first := bus.Subscribe(1, "a")
		second := bus.Subscribe(1, "a")

		bus.Publish(1, Event{Type: TaskUpdated, ProjectID: 1})

		// Same channel, one delivery.
		receive(t, first)
		select {
		case event := <-second:
			t.Fatalf("duplicate delivery: %v", event)
		default:
		}
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		bus := NewChannelBus()
		ch := bus.Subscribe(1, "a")
		bus.Unsubscribe(1, "a")

		_, open := <-ch
		assert.False(t, open)

		// Repeating the call is harmless.
		bus.Unsubscribe(1, "a")
	})

	t.Run("publish without subscribers is a no-op", func(t *testing.T) {
		bus := NewChannelBus()
		bus.Publish(7, Event{Type: TaskDeleted, ProjectID: 7})
	})

	t.Run("slow subscriber loses events instead of blocking", func(t *testing.T) {
		bus := NewChannelBus()
		ch := bus.Subscribe(1, "slow")

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < subscriberBuffer+10; i++ {
				bus.Publish(1, Event{Type: TaskUpdated, ProjectID: 1})
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("publish blocked on a full subscriber")
		}
		assert.Len(t, ch, subscriberBuffer)
	})
}

func TestNewTasksReordered(t *testing.T) {
	tasks := []model.Task{
		{Title: "first", Position: 0},
		{Title: "second", Position: 1},
	}
	tasks[0].ID = 4
	tasks[1].ID = 2

	event := NewTasksReordered(9, tasks)
	assert.Equal(t, TasksReordered, event.Type)
	assert.Equal(t, uint(9), event.ProjectID)

	ranks, ok := event.Payload.([]TaskRank)
	require.True(t, ok)
	require.Len(t, ranks, 2)
	assert.Equal(t, TaskRank{ID: 4, Title: "first", Position: 0}, ranks[0])
	assert.Equal(t, TaskRank{ID: 2, Title: "second", Position: 1}, ranks[1])
}
