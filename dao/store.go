// Package dao implements the persistence collaborator over GORM. The
// store performs keyed CRUD and filtered queries only; all domain logic
// lives in the controller.
package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/loopwork/taskboard/dao/model"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id uint, role model.Role) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("role", role).Error
}

func (s *Store) GetProject(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Store) CreateProject(ctx context.Context, p *model.Project, owner *model.Membership) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		owner.ProjectID = p.ID
		return tx.Create(owner).Error
	})
}

func (s *Store) UpdateProject(ctx context.Context, p *model.Project) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *Store) DeleteProjectCascade(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&model.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.AuditLog{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
}

func (s *Store) ListProjectsForUser(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.project_id = projects.id AND memberships.deleted_at IS NULL").
		Where("memberships.user_id = ?", userID).
		Order("projects.id DESC").
		Find(&projects).Error
	return projects, err
}

func (s *Store) ListProjectIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&model.Membership{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).Error
	return ids, err
}

func (s *Store) GetMembership(ctx context.Context, projectID, userID uint) (*model.Membership, error) {
	var m model.Membership
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListMemberships(ctx context.Context, projectID uint) ([]model.Membership, error) {
	var memberships []model.Membership
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&memberships).Error
	return memberships, err
}

func (s *Store) CreateMembership(ctx context.Context, m *model.Membership) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *Store) UpdateMembership(ctx context.Context, m *model.Membership) error {
	return s.db.WithContext(ctx).Save(m).Error
}

func (s *Store) DeleteMembership(ctx context.Context, projectID, userID uint) error {
	return s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.Membership{}).Error
}

func (s *Store) CreateTask(ctx context.Context, t *model.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Store) UpdateTask(ctx context.Context, t *model.Task) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *Store) ListTasks(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position").
		Find(&tasks).Error
	return tasks, err
}

func (s *Store) SaveTaskPositions(ctx context.Context, tasks []model.Task) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			err := tx.Model(&model.Task{}).
				Where("id = ?", tasks[i].ID).
				Update("position", tasks[i].Position).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteTaskCascade(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.AuditLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, id).Error
	})
}

func (s *Store) AppendAudit(ctx context.Context, entry *model.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *Store) ListAuditByTask(ctx context.Context, taskID uint) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

func (s *Store) ListAuditByProjects(ctx context.Context, projectIDs []uint) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := s.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = audit_logs.task_id").
		Where("tasks.project_id IN ?", projectIDs).
		Order("audit_logs.created_at DESC, audit_logs.id DESC").
		Find(&entries).Error
	return entries, err
}

func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *Store) ListNotifications(ctx context.Context, recipientID uint, unreadOnly bool) ([]model.Notification, error) {
	q := s.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var notifications []model.Notification
	err := q.Order("created_at DESC, id DESC").Find(&notifications).Error
	return notifications, err
}

func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (s *Store) GetNotification(ctx context.Context, id uint) (*model.Notification, error) {
	var n model.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkNotificationRead flips read from false to true; it never goes back.
func (s *Store) MarkNotificationRead(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

// PurgeReadNotifications hard-deletes read notifications older than the
// cutoff. Used by the nightly maintenance job.
func (s *Store) PurgeReadNotifications(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("read = ? AND created_at < ?", true, before).
		Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

// CountTasksByStatus feeds the metrics endpoint.
func (s *Store) CountTasksByStatus(ctx context.Context) (map[model.TaskStatus]int64, error) {
	type row struct {
		Status model.TaskStatus
		Count  int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
