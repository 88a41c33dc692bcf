// Package alert is the decoupled notification side-channel. Dispatch is
// fire-and-forget: delivery failures are logged and never surfaced to, nor
// roll back, the command that triggered them.
package alert

import (
	"context"

	"github.com/loopwork/taskboard/dao/model"
)

// Request describes one notification to deliver.
type Request struct {
	RecipientID uint
	Type        model.NotificationType
	Message     string
	ProjectID   *uint
	TaskID      *uint
}

// Dispatcher schedules notifications asynchronously relative to the
// triggering command.
type Dispatcher interface {
	Dispatch(req Request)
	Stop()
}

// Store is the persistence surface the dispatcher records through.
type Store interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

// Mailer is one concrete delivery channel. SMTP implements it; other
// channels (chat robots, webhooks) slot in the same way.
type Mailer interface {
	SendMessageTo(ctx context.Context, email, subject, body string) error
}
