package taskctl

import (
	"context"

	"github.com/loopwork/taskboard/dao/model"
)

// Store is the persistence collaborator the controller mutates through.
// It offers keyed CRUD and filtered queries only; lookups for missing rows
// return gorm.ErrRecordNotFound.
type Store interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)

	GetProject(ctx context.Context, id uint) (*model.Project, error)
	// CreateProject stores the project and its owner membership as one
	// transaction.
	CreateProject(ctx context.Context, p *model.Project, owner *model.Membership) error
	UpdateProject(ctx context.Context, p *model.Project) error
	// DeleteProjectCascade removes the project together with its tasks,
	// their audit entries, and all memberships.
	DeleteProjectCascade(ctx context.Context, id uint) error
	ListProjectsForUser(ctx context.Context, userID uint) ([]model.Project, error)
	ListProjectIDsForUser(ctx context.Context, userID uint) ([]uint, error)

	// GetMembership returns (nil, nil) when the user has no membership in
	// the project.
	GetMembership(ctx context.Context, projectID, userID uint) (*model.Membership, error)
	CreateMembership(ctx context.Context, m *model.Membership) error
	UpdateMembership(ctx context.Context, m *model.Membership) error
	DeleteMembership(ctx context.Context, projectID, userID uint) error

	CreateTask(ctx context.Context, t *model.Task) error
	GetTask(ctx context.Context, id uint) (*model.Task, error)
	UpdateTask(ctx context.Context, t *model.Task) error
	// ListTasks returns the project's live tasks ordered by position.
	ListTasks(ctx context.Context, projectID uint) ([]model.Task, error)
	// SaveTaskPositions persists the changed positions as a single
	// transaction.
	SaveTaskPositions(ctx context.Context, tasks []model.Task) error
	// DeleteTaskCascade removes the task and all of its audit entries.
	DeleteTaskCascade(ctx context.Context, id uint) error

	AppendAudit(ctx context.Context, entry *model.AuditLog) error
	// Audit listings are sorted by creation time, most recent first.
	ListAuditByTask(ctx context.Context, taskID uint) ([]model.AuditLog, error)
	ListAuditByProjects(ctx context.Context, projectIDs []uint) ([]model.AuditLog, error)
}
