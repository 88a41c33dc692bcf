package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/loopwork/taskboard/dao/model"
)

type memoryStore struct {
	mu       sync.Mutex
	stored   []model.Notification
	users    map[uint]*model.User
	notified chan struct{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[uint]*model.User),
		notified: make(chan struct{}, 16),
	}
}

func (s *memoryStore) CreateNotification(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	s.stored = append(s.stored, *n)
	s.mu.Unlock()
	s.notified <- struct{}{}
	return nil
}

func (s *memoryStore) GetUser(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *memoryStore) notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification{}, s.stored...)
}

type memoryMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *memoryMailer) SendMessageTo(_ context.Context, email, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func (m *memoryMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.sent...)
}

func waitStored(t *testing.T, store *memoryStore) {
	t.Helper()
	select {
	case <-store.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not stored")
	}
}

func TestDispatcherStoresNotification(t *testing.T) {
	store := newMemoryStore()
	d := NewDispatcher(store, nil)
	defer d.Stop()

	projectID := uint(3)
	d.Dispatch(Request{
		RecipientID: 7,
		Type:        model.NotificationTaskAssignment,
		Message:     "You were assigned the task \"deploy\"",
		ProjectID:   &projectID,
	})
	waitStored(t, store)

	stored := store.notifications()
	require.Len(t, stored, 1)
	assert.Equal(t, uint(7), stored[0].RecipientID)
	assert.Equal(t, model.NotificationTaskAssignment, stored[0].Type)
	assert.False(t, stored[0].Read)
	require.NotNil(t, stored[0].ProjectID)
	assert.Equal(t, uint(3), *stored[0].ProjectID)
}

func TestDispatcherMailsUsersWithAddress(t *testing.T) {
	store := newMemoryStore()
	email := "dev@example.com"
	withMail := &model.User{Name: "dev", Email: &email}
	withMail.ID = 1
	noMail := &model.User{Name: "other"}
	noMail.ID = 2
	store.users[1] = withMail
	store.users[2] = noMail

	mailer := &memoryMailer{}
	d := NewDispatcher(store, mailer)
	defer d.Stop()

	d.Dispatch(Request{RecipientID: 1, Type: model.NotificationTaskUpdate, Message: "m"})
	waitStored(t, store)
	d.Dispatch(Request{RecipientID: 2, Type: model.NotificationTaskUpdate, Message: "m"})
	waitStored(t, store)

	// Both notifications are stored; only the addressed user gets mail.
	require.Eventually(t, func() bool {
		return len(mailer.recipients()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"dev@example.com"}, mailer.recipients())
	assert.Len(t, store.notifications(), 2)
}

func TestDispatcherSurvivesUnknownRecipient(t *testing.T) {
	store := newMemoryStore()
	mailer := &memoryMailer{}
	d := NewDispatcher(store, mailer)
	defer d.Stop()

	// The recipient row is missing; the failure is logged and swallowed.
	d.Dispatch(Request{RecipientID: 42, Type: model.NotificationTaskComment, Message: "m"})
	waitStored(t, store)

	d.Dispatch(Request{RecipientID: 42, Type: model.NotificationTaskComment, Message: "m"})
	waitStored(t, store)

	assert.Len(t, store.notifications(), 2)
	assert.Empty(t, mailer.recipients())
}

func TestDispatchNeverBlocks(t *testing.T) {
	store := newMemoryStore()
	d := NewDispatcher(store, nil)
	d.Stop() // worker gone, queue fills up

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < queueSize+10; i++ {
			d.Dispatch(Request{RecipientID: 1, Type: model.NotificationTaskUpdate, Message: "m"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

func TestSubjectCoversEveryType(t *testing.T) {
	for _, typ := range []model.NotificationType{
		model.NotificationProjectInvitation,
		model.NotificationTaskAssignment,
		model.NotificationTaskUpdate,
		model.NotificationTaskComment,
	} {
		assert.NotEmpty(t, subjectFor(typ))
	}
}
