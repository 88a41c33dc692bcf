// Package taskctl orchestrates every mutation of the collaborative board:
// authorize, validate, mutate, append the audit entry, publish the change
// event, then notify affected users asynchronously.
package taskctl

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/pkg/alert"
	"github.com/loopwork/taskboard/pkg/audit"
	"github.com/loopwork/taskboard/pkg/authz"
	"github.com/loopwork/taskboard/pkg/eventbus"
	"github.com/loopwork/taskboard/pkg/logutils"
)

// TaskController is the single entry point for board mutations. Ordering-
// sensitive commands on one project are serialized by a per-project lock;
// commands on different projects run concurrently.
type TaskController struct {
	store    Store
	audit    *audit.Writer
	bus      eventbus.Bus
	notifier alert.Dispatcher
	locks    *projectLocks
}

func NewTaskController(store Store, bus eventbus.Bus, notifier alert.Dispatcher) *TaskController {
	return &TaskController{
		store:    store,
		audit:    audit.NewWriter(store),
		bus:      bus,
		notifier: notifier,
		locks:    newProjectLocks(),
	}
}

// authorize loads the actor's membership and evaluates the decision rules.
// A deny aborts the command before any state is touched.
func (c *TaskController) authorize(ctx context.Context, actor authz.Actor, project *model.Project,
	action authz.Action, targetRole model.ProjectRole, itemCreatorID uint) error {
	membership, err := c.store.GetMembership(ctx, project.ID, actor.ID)
	if err != nil {
		return internal(err)
	}
	decision := authz.Evaluate(authz.Request{
		Actor:         actor,
		Project:       project,
		Membership:    membership,
		Action:        action,
		TargetRole:    targetRole,
		ItemCreatorID: itemCreatorID,
	})
	if !decision.Allowed {
		return forbidden(decision.Reason)
	}
	return nil
}

func (c *TaskController) loadProject(ctx context.Context, id uint) (*model.Project, error) {
	project, err := c.store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("project")
		}
		return nil, internal(err)
	}
	return project, nil
}

func (c *TaskController) loadTask(ctx context.Context, id uint) (*model.Task, error) {
	task, err := c.store.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("task")
		}
		return nil, internal(err)
	}
	return task, nil
}

// appendAudit writes the audit entry for an already-committed mutation.
// A failure here is logged with full context and deliberately does not
// roll the mutation back; the inconsistency is accepted rather than
// hidden.
func (c *TaskController) appendAudit(ctx context.Context, task *model.Task, actorID uint,
	cs audit.ChangeSet, message string) {
	if _, err := c.audit.Append(ctx, task, actorID, cs, message); err != nil {
		logutils.Log.WithFields(logutils.Fields{
			"task":  task.ID,
			"actor": actorID,
		}).Errorf("audit append failed after committed mutation: %v", err)
	}
}

// notifyAssignee schedules the assignment side-channel when a task lands
// on someone other than the acting user.
func (c *TaskController) notifyAssignee(task *model.Task, actorID uint, t model.NotificationType, message string) {
	if task.AssigneeID == nil || *task.AssigneeID == actorID {
		return
	}
	c.notifier.Dispatch(alert.Request{
		RecipientID: *task.AssigneeID,
		Type:        t,
		Message:     message,
		ProjectID:   &task.ProjectID,
		TaskID:      &task.ID,
	})
}
