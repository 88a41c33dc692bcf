// Package audit builds and stores the immutable change records written
// alongside every task mutation.
package audit

import (
	"github.com/loopwork/taskboard/dao/model"
)

// Change records a submitted field: the value before the command and the
// value it was set to. Prev and New may be equal; submitting an unchanged
// value still counts as a change for audit purposes.
type Change[T any] struct {
	Prev T
	New  T
}

// ChangeSet distinguishes, per tracked field, whether the field was
// submitted in the triggering command. A nil entry means the field was
// absent from the command and must not appear in the log entry.
type ChangeSet struct {
	Status   *Change[model.TaskStatus]
	Priority *Change[model.TaskPriority]
	Assignee *Change[*uint]
}

// Empty reports whether no tracked field was submitted.
func (cs ChangeSet) Empty() bool {
	return cs.Status == nil && cs.Priority == nil && cs.Assignee == nil
}

// SubmitStatus marks status as submitted.
func (cs *ChangeSet) SubmitStatus(prev, next model.TaskStatus) {
	cs.Status = &Change[model.TaskStatus]{Prev: prev, New: next}
}

// SubmitPriority marks priority as submitted.
func (cs *ChangeSet) SubmitPriority(prev, next model.TaskPriority) {
	cs.Priority = &Change[model.TaskPriority]{Prev: prev, New: next}
}

// SubmitAssignee marks the assignee as submitted. Either side may be nil
// when the task was, or becomes, unassigned.
func (cs *ChangeSet) SubmitAssignee(prev, next *uint) {
	cs.Assignee = &Change[*uint]{Prev: prev, New: next}
}

// Creation builds the change set recorded for a brand-new task: new values
// only, no previous ones.
func Creation(task *model.Task) ChangeSet {
	var cs ChangeSet
	cs.Status = &Change[model.TaskStatus]{New: task.Status}
	cs.Priority = &Change[model.TaskPriority]{New: task.Priority}
	cs.Assignee = &Change[*uint]{New: task.AssigneeID}
	return cs
}

// newEntry maps a change set onto an AuditLog row. Creation entries carry
// empty Prev values, which stay NULL in the row.
func newEntry(task *model.Task, actorID uint, cs ChangeSet, message string, creation bool) *model.AuditLog {
	entry := &model.AuditLog{
		TaskID:  task.ID,
		ActorID: actorID,
		Message: message,
	}
	if cs.Status != nil {
		if !creation {
			prev := cs.Status.Prev
			entry.PrevStatus = &prev
		}
		next := cs.Status.New
		entry.NewStatus = &next
	}
	if cs.Priority != nil {
		if !creation {
			prev := cs.Priority.Prev
			entry.PrevPriority = &prev
		}
		next := cs.Priority.New
		entry.NewPriority = &next
	}
	if cs.Assignee != nil {
		entry.AssigneeSubmitted = true
		if !creation {
			entry.PrevAssigneeID = cs.Assignee.Prev
		}
		entry.NewAssigneeID = cs.Assignee.New
	}
	return entry
}
