package taskctl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopwork/taskboard/dao/model"
)

func makeTasks(positions ...int) []model.Task {
	tasks := make([]model.Task, len(positions))
	for i, p := range positions {
		tasks[i] = model.Task{Position: p}
		tasks[i].ID = uint(i + 1)
	}
	return tasks
}

func positionsOf(tasks []model.Task) []int {
	out := make([]int, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Position
	}
	return out
}

func idsOf(tasks []model.Task) []uint {
	out := make([]uint, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].ID
	}
	return out
}

func TestReorderTasks(t *testing.T) {
	t.Run("move forward", func(t *testing.T) {
		tasks := makeTasks(0, 1, 2, 3)
		ordered, found := reorderTasks(tasks, 1, 2)
		require.True(t, found)
		assert.Equal(t, []uint{2, 3, 1, 4}, idsOf(ordered))
		assert.Equal(t, []int{0, 1, 2, 3}, positionsOf(ordered))
	})

	t.Run("move backward", func(t *testing.T) {
		tasks := makeTasks(0, 1, 2, 3)
		ordered, found := reorderTasks(tasks, 4, 0)
		require.True(t, found)
		assert.Equal(t, []uint{4, 1, 2, 3}, idsOf(ordered))
		assert.Equal(t, []int{0, 1, 2, 3}, positionsOf(ordered))
	})

	t.Run("move to own position keeps the order", func(t *testing.T) {
		tasks := makeTasks(0, 1, 2)
		ordered, found := reorderTasks(tasks, 2, 1)
		require.True(t, found)
		assert.Equal(t, []uint{1, 2, 3}, idsOf(ordered))
		assert.Equal(t, []int{0, 1, 2}, positionsOf(ordered))
	})

	t.Run("negative target clamps to front", func(t *testing.T) {
		tasks := makeTasks(0, 1, 2)
		ordered, found := reorderTasks(tasks, 3, -5)
		require.True(t, found)
		assert.Equal(t, []uint{3, 1, 2}, idsOf(ordered))
	})

	t.Run("oversized target clamps to back", func(t *testing.T) {
		tasks := makeTasks(0, 1, 2)
		ordered, found := reorderTasks(tasks, 1, 99)
		require.True(t, found)
		assert.Equal(t, []uint{2, 3, 1}, idsOf(ordered))
	})

	t.Run("unknown task reports not found", func(t *testing.T) {
		tasks := makeTasks(0, 1)
		_, found := reorderTasks(tasks, 42, 0)
		assert.False(t, found)
	})

	t.Run("sparse positions are migrated before the move", func(t *testing.T) {
		// Positions with gaps, as an older dataset might hold them.
		tasks := makeTasks(3, 7, 12)
		ordered, found := reorderTasks(tasks, 3, 0)
		require.True(t, found)
		assert.Equal(t, []uint{3, 1, 2}, idsOf(ordered))
		assert.Equal(t, []int{0, 1, 2}, positionsOf(ordered))
	})

	t.Run("duplicate positions are migrated by load order", func(t *testing.T) {
		tasks := makeTasks(0, 0, 1)
		ordered, found := reorderTasks(tasks, 2, 2)
		require.True(t, found)
		assert.Equal(t, []uint{1, 3, 2}, idsOf(ordered))
		assert.Equal(t, []int{0, 1, 2}, positionsOf(ordered))
	})

	t.Run("single task list", func(t *testing.T) {
		tasks := makeTasks(0)
		ordered, found := reorderTasks(tasks, 1, 4)
		require.True(t, found)
		assert.Equal(t, []int{0}, positionsOf(ordered))
	})
}

func TestRenumberTasks(t *testing.T) {
	t.Run("compacts after a removal", func(t *testing.T) {
		tasks := makeTasks(0, 2, 3)
		changed := renumberTasks(tasks)
		require.Len(t, changed, 2)
		assert.Equal(t, []int{0, 1, 2}, positionsOf(tasks))
	})

	t.Run("dense list is untouched", func(t *testing.T) {
		tasks := makeTasks(0, 1, 2)
		assert.Empty(t, renumberTasks(tasks))
	})
}

func TestProjectLocks(t *testing.T) {
	locks := newProjectLocks()

	assert.Same(t, locks.forProject(1), locks.forProject(1))
	assert.NotSame(t, locks.forProject(1), locks.forProject(2))

	// Concurrent access to the registry itself must be safe.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			lock := locks.forProject(id % 4)
			lock.Lock()
			//nolint:staticcheck // exercising lock handover only
			lock.Unlock()
		}(uint(i))
	}
	wg.Wait()
}
