package alert

import (
	"context"
	"time"

	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/pkg/logutils"
)

// queueSize bounds the in-flight notifications. Enqueue never blocks the
// request path; overflow is dropped with a log line.
const queueSize = 256

const deliverTimeout = 15 * time.Second

type dispatcher struct {
	store  Store
	mailer Mailer
	queue  chan Request
	done   chan struct{}
}

// NewDispatcher starts the single delivery worker. mailer may be nil when
// no email channel is configured; notifications are then only stored.
func NewDispatcher(store Store, mailer Mailer) Dispatcher {
	d := &dispatcher{
		store:  store,
		mailer: mailer,
		queue:  make(chan Request, queueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) Dispatch(req Request) {
	select {
	case d.queue <- req:
	default:
		logutils.Log.Warnf("notification queue full, dropping %s for user %d", req.Type, req.RecipientID)
	}
}

// Stop ends the worker. Queued, undelivered notifications are dropped;
// that is accepted behavior, not an error.
func (d *dispatcher) Stop() {
	close(d.done)
}

func (d *dispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case req := <-d.queue:
			d.deliver(req)
		}
	}
}

func (d *dispatcher) deliver(req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	n := &model.Notification{
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Message:     req.Message,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
	}
	if err := d.store.CreateNotification(ctx, n); err != nil {
		logutils.Log.Errorf("store notification for user %d: %v", req.RecipientID, err)
		return
	}

	if d.mailer == nil {
		return
	}
	user, err := d.store.GetUser(ctx, req.RecipientID)
	if err != nil {
		logutils.Log.Errorf("load notification recipient %d: %v", req.RecipientID, err)
		return
	}
	if user.Email == nil {
		logutils.Log.Debugf("user %s has no email address, skipping mail", user.Name)
		return
	}
	if err := d.mailer.SendMessageTo(ctx, *user.Email, subjectFor(req.Type), req.Message); err != nil {
		logutils.Log.Errorf("send notification mail to %s: %v", *user.Email, err)
	}
}

func subjectFor(t model.NotificationType) string {
	switch t {
	case model.NotificationProjectInvitation:
		return "You have been added to a project"
	case model.NotificationTaskAssignment:
		return "A task was assigned to you"
	case model.NotificationTaskUpdate:
		return "A task assigned to you was updated"
	case model.NotificationTaskComment:
		return "New comment on your task"
	}
	return "Taskboard notification"
}
