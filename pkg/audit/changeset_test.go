package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwork/taskboard/dao/model"
)

type recordingSink struct {
	entries []*model.AuditLog
}

func (s *recordingSink) AppendAudit(_ context.Context, entry *model.AuditLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func TestChangeSetEmpty(t *testing.T) {
	var cs ChangeSet
	assert.True(t, cs.Empty())

	cs.SubmitStatus(model.TaskStatusPending, model.TaskStatusPending)
	assert.False(t, cs.Empty())
}

func TestWriterAppend(t *testing.T) {
	task := &model.Task{ProjectID: 7}
	task.ID = 42

	t.Run("records only submitted fields", func(t *testing.T) {
		sink := &recordingSink{}
		writer := NewWriter(sink)

		var cs ChangeSet
		cs.SubmitStatus(model.TaskStatusPending, model.TaskStatusInProgress)

		entry, err := writer.Append(context.Background(), task, 3, cs, "changed status to in_progress")
		require.NoError(t, err)

		assert.Equal(t, uint(42), entry.TaskID)
		assert.Equal(t, uint(3), entry.ActorID)
		require.NotNil(t, entry.PrevStatus)
		require.NotNil(t, entry.NewStatus)
		assert.Equal(t, model.TaskStatusPending, *entry.PrevStatus)
		assert.Equal(t, model.TaskStatusInProgress, *entry.NewStatus)

		// Priority and assignee were not submitted.
		assert.Nil(t, entry.PrevPriority)
		assert.Nil(t, entry.NewPriority)
		assert.False(t, entry.AssigneeSubmitted)
	})

	t.Run("unchanged submitted field still yields a pair", func(t *testing.T) {
		sink := &recordingSink{}
		writer := NewWriter(sink)

		var cs ChangeSet
		cs.SubmitPriority(model.TaskPriorityHigh, model.TaskPriorityHigh)

		entry, err := writer.Append(context.Background(), task, 3, cs, "updated task")
		require.NoError(t, err)
		require.NotNil(t, entry.PrevPriority)
		require.NotNil(t, entry.NewPriority)
		assert.Equal(t, *entry.PrevPriority, *entry.NewPriority)
	})

	t.Run("assignee pair distinguishes unassigned from absent", func(t *testing.T) {
		sink := &recordingSink{}
		writer := NewWriter(sink)

		prev := uint(5)
		var cs ChangeSet
		cs.SubmitAssignee(&prev, nil)

		entry, err := writer.Append(context.Background(), task, 3, cs, "updated task")
		require.NoError(t, err)
		assert.True(t, entry.AssigneeSubmitted)
		require.NotNil(t, entry.PrevAssigneeID)
		assert.Equal(t, uint(5), *entry.PrevAssigneeID)
		assert.Nil(t, entry.NewAssigneeID)
	})

	t.Run("empty change set yields a bare entry", func(t *testing.T) {
		sink := &recordingSink{}
		writer := NewWriter(sink)

		entry, err := writer.Append(context.Background(), task, 3, ChangeSet{}, "moved to position 2")
		require.NoError(t, err)
		assert.Equal(t, "moved to position 2", entry.Message)
		assert.Nil(t, entry.PrevStatus)
		assert.Nil(t, entry.NewStatus)
		assert.False(t, entry.AssigneeSubmitted)
	})
}

func TestWriterAppendCreation(t *testing.T) {
	assignee := uint(9)
	task := &model.Task{
		Status:     model.TaskStatusPending,
		Priority:   model.TaskPriorityMedium,
		AssigneeID: &assignee,
		ProjectID:  7,
	}
	task.ID = 1

	sink := &recordingSink{}
	writer := NewWriter(sink)

	entry, err := writer.AppendCreation(context.Background(), task, 2, "created task")
	require.NoError(t, err)

	// Creation entries carry new values only.
	assert.Nil(t, entry.PrevStatus)
	assert.Nil(t, entry.PrevPriority)
	assert.Nil(t, entry.PrevAssigneeID)
	require.NotNil(t, entry.NewStatus)
	assert.Equal(t, model.TaskStatusPending, *entry.NewStatus)
	require.NotNil(t, entry.NewPriority)
	assert.Equal(t, model.TaskPriorityMedium, *entry.NewPriority)
	assert.True(t, entry.AssigneeSubmitted)
	require.NotNil(t, entry.NewAssigneeID)
	assert.Equal(t, uint(9), *entry.NewAssigneeID)
}
