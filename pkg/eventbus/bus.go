// Package eventbus fans typed change events out to the sessions currently
// subscribed to a project. Delivery is at-most-once and non-durable: there
// is no replay and no backlog for late subscribers.
package eventbus

import (
	"sync"

	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/pkg/logutils"
)

// EventType enumerates the payloads pushed to subscribers.
type EventType string

const (
	TaskCreated    EventType = "task_created"
	TaskUpdated    EventType = "task_updated"
	TaskDeleted    EventType = "task_deleted"
	TasksReordered EventType = "tasks_reordered"
	ProjectUpdated EventType = "project_updated"
	ProjectDeleted EventType = "project_deleted"
)

// Event is one change notification addressed to a project topic.
type Event struct {
	Type      EventType `json:"type"`
	ProjectID uint      `json:"projectID"`
	Payload   any       `json:"payload"`
}

// TaskRank is the slice of a task carried by a reorder event.
type TaskRank struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// DeletedPayload identifies a removed entity.
type DeletedPayload struct {
	ID        uint `json:"id"`
	ProjectID uint `json:"projectID,omitempty"`
}

// NewTasksReordered builds the reorder event for a project's new ordering.
func NewTasksReordered(projectID uint, tasks []model.Task) Event {
	ranks := make([]TaskRank, len(tasks))
	for i := range tasks {
		ranks[i] = TaskRank{ID: tasks[i].ID, Title: tasks[i].Title, Position: tasks[i].Position}
	}
	return Event{Type: TasksReordered, ProjectID: projectID, Payload: ranks}
}

// Bus is the injected publish/subscribe capability. Subscribe and
// Unsubscribe are idempotent per (topic, subscriber) pair.
type Bus interface {
	Subscribe(topic uint, subscriberID string) <-chan Event
	Unsubscribe(topic uint, subscriberID string)
	Publish(topic uint, event Event)
}

// subscriberBuffer bounds how far one subscriber may lag before events are
// dropped for it. Publish never blocks on a slow subscriber.
const subscriberBuffer = 64

type channelBus struct {
	mu     sync.RWMutex
	topics map[uint]map[string]chan Event
}

// NewChannelBus returns an in-process Bus backed by buffered channels.
func NewChannelBus() Bus {
	return &channelBus{topics: make(map[uint]map[string]chan Event)}
}

func (b *channelBus) Subscribe(topic uint, subscriberID string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[string]chan Event)
		b.topics[topic] = subs
	}
	if ch, ok := subs[subscriberID]; ok {
		return ch
	}
	ch := make(chan Event, subscriberBuffer)
	subs[subscriberID] = ch
	return ch
}

func (b *channelBus) Unsubscribe(topic uint, subscriberID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		return
	}
	ch, ok := subs[subscriberID]
	if !ok {
		return
	}
	delete(subs, subscriberID)
	close(ch)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
}

func (b *channelBus) Publish(topic uint, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.topics[topic] {
		select {
		case ch <- event:
		default:
			// The subscriber fell too far behind; the event is lost for it.
			logutils.Log.Warnf("event bus: dropping %s for slow subscriber %s on project %d",
				event.Type, id, topic)
		}
	}
}
