package taskctl

import (
	"context"
	"fmt"

	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/pkg/audit"
	"github.com/loopwork/taskboard/pkg/authz"
	"github.com/loopwork/taskboard/pkg/eventbus"
	"github.com/loopwork/taskboard/pkg/logutils"
)

// CreateTaskInput carries the optional fields of a new task. Status and
// priority default to pending/medium when absent.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	AssigneeID  *uint
}

// AssigneeInput marks the assignee as submitted. A nil UserID unassigns
// the task.
type AssigneeInput struct {
	UserID *uint
}

// UpdateTaskInput distinguishes absent fields (nil) from submitted ones.
// A submitted-but-unchanged tracked field still produces an audit entry.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	Priority    *model.TaskPriority
	Assignee    *AssigneeInput
}

// CreateTask appends a new task at the end of the project's list.
func (c *TaskController) CreateTask(ctx context.Context, actor authz.Actor, projectID uint,
	in CreateTaskInput) (*model.Task, error) {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionCreateItem, "", 0); err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, invalidInput("title", "must not be empty")
	}
	status := model.TaskStatusPending
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalidInput("status", "unknown value")
		}
		status = *in.Status
	}
	priority := model.TaskPriorityMedium
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, invalidInput("priority", "unknown value")
		}
		priority = *in.Priority
	}
	if in.AssigneeID != nil {
		if err := c.requireMember(ctx, projectID, *in.AssigneeID, "assignee"); err != nil {
			return nil, err
		}
	}

	lock := c.locks.forProject(projectID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := c.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, internal(err)
	}
	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		ProjectID:   projectID,
		AssigneeID:  in.AssigneeID,
		CreatorID:   actor.ID,
		Position:    len(existing),
	}
	if err := c.store.CreateTask(ctx, task); err != nil {
		return nil, internal(err)
	}

	if _, err := c.audit.AppendCreation(ctx, task, actor.ID, "created task"); err != nil {
		logutils.Log.Errorf("audit append failed for created task %d: %v", task.ID, err)
	}
	c.bus.Publish(projectID, eventbus.Event{Type: eventbus.TaskCreated, ProjectID: projectID, Payload: task})
	c.notifyAssignee(task, actor.ID, model.NotificationTaskAssignment,
		fmt.Sprintf("You were assigned the new task %q", task.Title))

	return task, nil
}

// ListTasks returns the project's tasks ordered by position.
func (c *TaskController) ListTasks(ctx context.Context, actor authz.Actor, projectID uint) ([]model.Task, error) {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionView, "", 0); err != nil {
		return nil, err
	}
	tasks, err := c.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, internal(err)
	}
	return tasks, nil
}

func (c *TaskController) GetTask(ctx context.Context, actor authz.Actor, taskID uint) (*model.Task, error) {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := c.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionView, "", 0); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies the submitted fields and records one audit entry
// covering the tracked ones.
func (c *TaskController) UpdateTask(ctx context.Context, actor authz.Actor, taskID uint,
	in UpdateTaskInput) (*model.Task, error) {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := c.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionUpdateItem, "", 0); err != nil {
		return nil, err
	}

	if in.Title != nil && *in.Title == "" {
		return nil, invalidInput("title", "must not be empty")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalidInput("status", "unknown value")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, invalidInput("priority", "unknown value")
	}
	if in.Assignee != nil && in.Assignee.UserID != nil {
		if err := c.requireMember(ctx, task.ProjectID, *in.Assignee.UserID, "assignee"); err != nil {
			return nil, err
		}
	}

	var cs audit.ChangeSet
	assigneeChanged := false
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = in.Description
	}
	if in.Status != nil {
		cs.SubmitStatus(task.Status, *in.Status)
		task.Status = *in.Status
	}
	if in.Priority != nil {
		cs.SubmitPriority(task.Priority, *in.Priority)
		task.Priority = *in.Priority
	}
	if in.Assignee != nil {
		prev := task.AssigneeID
		cs.SubmitAssignee(prev, in.Assignee.UserID)
		assigneeChanged = !sameAssignee(prev, in.Assignee.UserID)
		task.AssigneeID = in.Assignee.UserID
	}

	if err := c.store.UpdateTask(ctx, task); err != nil {
		return nil, internal(err)
	}

	if !cs.Empty() {
		c.appendAudit(ctx, task, actor.ID, cs, "updated task")
	}
	c.bus.Publish(task.ProjectID, eventbus.Event{Type: eventbus.TaskUpdated, ProjectID: task.ProjectID, Payload: task})

	if in.Assignee != nil {
		// A newly assigned user gets an assignment notice; re-submitting
		// the same assignee counts as an update of their task.
		if assigneeChanged {
			c.notifyAssignee(task, actor.ID, model.NotificationTaskAssignment,
				fmt.Sprintf("You were assigned the task %q", task.Title))
		} else {
			c.notifyAssignee(task, actor.ID, model.NotificationTaskUpdate,
				fmt.Sprintf("The task %q assigned to you was updated", task.Title))
		}
	}

	return task, nil
}

// UpdateTaskStatus changes only the status. Any transition is permitted.
func (c *TaskController) UpdateTaskStatus(ctx context.Context, actor authz.Actor, taskID uint,
	status model.TaskStatus) (*model.Task, error) {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := c.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionChangeStatus, "", 0); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalidInput("status", "unknown value")
	}

	var cs audit.ChangeSet
	cs.SubmitStatus(task.Status, status)
	task.Status = status

	if err := c.store.UpdateTask(ctx, task); err != nil {
		return nil, internal(err)
	}
	c.appendAudit(ctx, task, actor.ID, cs, fmt.Sprintf("changed status to %s", status))
	c.bus.Publish(task.ProjectID, eventbus.Event{Type: eventbus.TaskUpdated, ProjectID: task.ProjectID, Payload: task})

	return task, nil
}

// ReorderTask moves a task to the clamped target position and renumbers
// the whole list. Moving a task onto its current position is still a
// committed mutation: it produces an audit entry and a fan-out event.
func (c *TaskController) ReorderTask(ctx context.Context, actor authz.Actor, projectID, taskID uint,
	target int) ([]model.Task, error) {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionReorder, "", 0); err != nil {
		return nil, err
	}

	lock := c.locks.forProject(projectID)
	lock.Lock()
	defer lock.Unlock()

	tasks, err := c.store.ListTasks(ctx, projectID)
	if err != nil {
		return nil, internal(err)
	}
	ordered, found := reorderTasks(tasks, taskID, target)
	if !found {
		return nil, notFound("task")
	}
	if err := c.store.SaveTaskPositions(ctx, ordered); err != nil {
		return nil, internal(err)
	}

	var moved *model.Task
	for i := range ordered {
		if ordered[i].ID == taskID {
			moved = &ordered[i]
			break
		}
	}
	c.appendAudit(ctx, moved, actor.ID, audit.ChangeSet{},
		fmt.Sprintf("moved to position %d", moved.Position))
	c.bus.Publish(projectID, eventbus.NewTasksReordered(projectID, ordered))

	return ordered, nil
}

// DeleteTask removes the task and all of its audit entries, then compacts
// the remaining positions.
func (c *TaskController) DeleteTask(ctx context.Context, actor authz.Actor, taskID uint) error {
	task, err := c.loadTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := c.loadProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionDeleteItem, "", task.CreatorID); err != nil {
		return err
	}

	lock := c.locks.forProject(task.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	if err := c.store.DeleteTaskCascade(ctx, taskID); err != nil {
		return internal(err)
	}
	remaining, err := c.store.ListTasks(ctx, task.ProjectID)
	if err != nil {
		return internal(err)
	}
	if changed := renumberTasks(remaining); len(changed) > 0 {
		if err := c.store.SaveTaskPositions(ctx, changed); err != nil {
			return internal(err)
		}
	}
	c.bus.Publish(task.ProjectID, eventbus.Event{
		Type:      eventbus.TaskDeleted,
		ProjectID: task.ProjectID,
		Payload:   eventbus.DeletedPayload{ID: taskID, ProjectID: task.ProjectID},
	})
	return nil
}

func (c *TaskController) requireMember(ctx context.Context, projectID, userID uint, field string) error {
	membership, err := c.store.GetMembership(ctx, projectID, userID)
	if err != nil {
		return internal(err)
	}
	if membership == nil {
		return invalidInput(field, "user is not a member of the project")
	}
	return nil
}

func sameAssignee(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
