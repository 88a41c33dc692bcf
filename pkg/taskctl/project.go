package taskctl

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/pkg/alert"
	"github.com/loopwork/taskboard/pkg/authz"
	"github.com/loopwork/taskboard/pkg/eventbus"
)

// CreateProject stores a new project with the actor as owner. The owner
// membership row is written in the same transaction so the role mapping
// can never lack the owner.
func (c *TaskController) CreateProject(ctx context.Context, actor authz.Actor, name string,
	description *string) (*model.Project, error) {
	if name == "" {
		return nil, invalidInput("name", "must not be empty")
	}
	project := &model.Project{
		Name:        name,
		Description: description,
		OwnerID:     actor.ID,
	}
	owner := &model.Membership{
		UserID: actor.ID,
		Role:   model.ProjectRoleOwner,
	}
	if err := c.store.CreateProject(ctx, project, owner); err != nil {
		return nil, internal(err)
	}
	return project, nil
}

// ListProjects returns the projects the actor belongs to.
func (c *TaskController) ListProjects(ctx context.Context, actor authz.Actor) ([]model.Project, error) {
	projects, err := c.store.ListProjectsForUser(ctx, actor.ID)
	if err != nil {
		return nil, internal(err)
	}
	return projects, nil
}

func (c *TaskController) GetProject(ctx context.Context, actor authz.Actor, projectID uint) (*model.Project, error) {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionView, "", 0); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject renames or re-describes a project. Only the owner or a
// platform admin passes the evaluator for this action.
func (c *TaskController) UpdateProject(ctx context.Context, actor authz.Actor, projectID uint,
	name, description *string) (*model.Project, error) {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionUpdateProject, "", 0); err != nil {
		return nil, err
	}
	if name != nil {
		if *name == "" {
			return nil, invalidInput("name", "must not be empty")
		}
		project.Name = *name
	}
	if description != nil {
		project.Description = description
	}
	if err := c.store.UpdateProject(ctx, project); err != nil {
		return nil, internal(err)
	}
	c.bus.Publish(projectID, eventbus.Event{Type: eventbus.ProjectUpdated, ProjectID: projectID, Payload: project})
	return project, nil
}

// DeleteProject removes the project together with its tasks, audit
// entries, and memberships; child records are never left orphaned.
func (c *TaskController) DeleteProject(ctx context.Context, actor authz.Actor, projectID uint) error {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := c.authorize(ctx, actor, project, authz.ActionDeleteProject, "", 0); err != nil {
		return err
	}

	lock := c.locks.forProject(projectID)
	lock.Lock()
	defer lock.Unlock()

	if err := c.store.DeleteProjectCascade(ctx, projectID); err != nil {
		return internal(err)
	}
	c.bus.Publish(projectID, eventbus.Event{
		Type:      eventbus.ProjectDeleted,
		ProjectID: projectID,
		Payload:   eventbus.DeletedPayload{ID: projectID},
	})
	return nil
}

// AddMember adds a user to a project with the given role. Adding someone
// who already holds a membership is a conflict, not an upsert.
func (c *TaskController) AddMember(ctx context.Context, actor authz.Actor, projectID, userID uint,
	role model.ProjectRole) (*model.Membership, error) {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !role.Valid() || role == model.ProjectRoleOwner {
		return nil, invalidInput("role", "must be admin or member")
	}
	if err := c.authorize(ctx, actor, project, authz.ActionAddMember, role, 0); err != nil {
		return nil, err
	}
	if _, err := c.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, internal(err)
	}

	existing, err := c.store.GetMembership(ctx, projectID, userID)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		if existing.Role == role {
			return nil, conflict("user already holds this role in the project")
		}
		return nil, conflict("user is already a member of the project")
	}

	membership := &model.Membership{ProjectID: projectID, UserID: userID, Role: role}
	if err := c.store.CreateMembership(ctx, membership); err != nil {
		return nil, internal(err)
	}

	c.notifier.Dispatch(alert.Request{
		RecipientID: userID,
		Type:        model.NotificationProjectInvitation,
		Message:     fmt.Sprintf("You were added to the project %q as %s", project.Name, role),
		ProjectID:   &projectID,
	})
	return membership, nil
}

// UpdateMemberRole changes an existing membership's role. The owner's role
// is immutable; re-assigning the identical role is a conflict.
func (c *TaskController) UpdateMemberRole(ctx context.Context, actor authz.Actor, projectID, userID uint,
	role model.ProjectRole) (*model.Membership, error) {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !role.Valid() || role == model.ProjectRoleOwner {
		return nil, invalidInput("role", "must be admin or member")
	}
	if userID == project.OwnerID {
		return nil, invalidInput("user", "the owner's role cannot be changed")
	}
	if err := c.authorize(ctx, actor, project, authz.ActionAssignRole, role, 0); err != nil {
		return nil, err
	}

	membership, err := c.store.GetMembership(ctx, projectID, userID)
	if err != nil {
		return nil, internal(err)
	}
	if membership == nil {
		return nil, notFound("membership")
	}
	if membership.Role == role {
		return nil, conflict("user already holds this role in the project")
	}

	membership.Role = role
	if err := c.store.UpdateMembership(ctx, membership); err != nil {
		return nil, internal(err)
	}

	c.notifier.Dispatch(alert.Request{
		RecipientID: userID,
		Type:        model.NotificationProjectInvitation,
		Message:     fmt.Sprintf("Your role in the project %q changed to %s", project.Name, role),
		ProjectID:   &projectID,
	})
	return membership, nil
}

// RemoveMember drops a user's membership. The owner cannot be removed.
func (c *TaskController) RemoveMember(ctx context.Context, actor authz.Actor, projectID, userID uint) error {
	project, err := c.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if userID == project.OwnerID {
		return invalidInput("user", "the owner cannot be removed from the project")
	}
	if err := c.authorize(ctx, actor, project, authz.ActionRemoveMember, "", 0); err != nil {
		return err
	}

	membership, err := c.store.GetMembership(ctx, projectID, userID)
	if err != nil {
		return internal(err)
	}
	if membership == nil {
		return notFound("membership")
	}
	if err := c.store.DeleteMembership(ctx, projectID, userID); err != nil {
		return internal(err)
	}
	return nil
}

// ListTaskAudit returns a task's audit entries, most recent first.
func (c *TaskController) ListTaskAudit(ctx context.Context, actor authz.Actor, taskID uint) ([]model.AuditLog, error) {
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
	entries, err := c.store.ListAuditByTask(ctx, taskID)
	if err != nil {
		return nil, internal(err)
	}
	return entries, nil
}

// ListActorAudit returns the audit entries of every project the actor can
// access, most recent first.
func (c *TaskController) ListActorAudit(ctx context.Context, actor authz.Actor) ([]model.AuditLog, error) {
	projectIDs, err := c.store.ListProjectIDsForUser(ctx, actor.ID)
	if err != nil {
		return nil, internal(err)
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}
	entries, err := c.store.ListAuditByProjects(ctx, projectIDs)
	if err != nil {
		return nil, internal(err)
	}
	return entries, nil
}
