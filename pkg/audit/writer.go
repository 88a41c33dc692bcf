package audit

import (
	"context"

	"github.com/loopwork/taskboard/dao/model"
)

// Sink is the persistence surface the writer appends through.
type Sink interface {
	AppendAudit(ctx context.Context, entry *model.AuditLog) error
}

// Writer appends immutable audit entries. Appends may run concurrently;
// ordering between entries is established by their creation timestamps.
type Writer struct {
	sink Sink
}

func NewWriter(sink Sink) *Writer {
	return &Writer{sink: sink}
}

// Append records one mutation on a task. cs reflects only the submitted
// fields; a submitted-but-unchanged field is still recorded.
func (w *Writer) Append(ctx context.Context, task *model.Task, actorID uint, cs ChangeSet, message string) (*model.AuditLog, error) {
	entry := newEntry(task, actorID, cs, message, false)
	if err := w.sink.AppendAudit(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AppendCreation records the creation entry for a new task: new values
// only, no previous ones.
func (w *Writer) AppendCreation(ctx context.Context, task *model.Task, actorID uint, message string) (*model.AuditLog, error) {
	entry := newEntry(task, actorID, Creation(task), message, true)
	if err := w.sink.AppendAudit(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
