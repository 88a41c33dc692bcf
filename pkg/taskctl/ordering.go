package taskctl

import (
	"sync"

	"github.com/loopwork/taskboard/dao/model"
)

// reorderTasks computes the new ordering for a project's task list after
// moving taskID to target. tasks must be the project's live tasks in
// current order. The result is renumbered 0..n-1; the boolean reports
// whether taskID was present.
//
// Moving a task to its own current position is legal and still counts as
// a committed mutation for the caller.
func reorderTasks(tasks []model.Task, taskID uint, target int) ([]model.Task, bool) {
	// Implicit migration: if the stored positions are not exactly 0..n-1,
	// renumber by load order before applying the move.
	if !densePositions(tasks) {
		for i := range tasks {
			tasks[i].Position = i
		}
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return tasks, false
	}

	if target < 0 {
		target = 0
	}
	if target > len(tasks)-1 {
		target = len(tasks) - 1
	}

	moved := tasks[idx]
	rest := append(append([]model.Task{}, tasks[:idx]...), tasks[idx+1:]...)
	ordered := append(append(append([]model.Task{}, rest[:target]...), moved), rest[target:]...)

	for i := range ordered {
		ordered[i].Position = i
	}
	return ordered, true
}

// renumberTasks compacts positions to 0..n-1, keeping the given order.
// It returns only the tasks whose position changed.
func renumberTasks(tasks []model.Task) []model.Task {
	var changed []model.Task
	for i := range tasks {
		if tasks[i].Position != i {
			tasks[i].Position = i
			changed = append(changed, tasks[i])
		}
	}
	return changed
}

func densePositions(tasks []model.Task) bool {
	seen := make(map[int]bool, len(tasks))
	for i := range tasks {
		p := tasks[i].Position
		if p < 0 || p >= len(tasks) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// projectLocks serializes ordering-sensitive mutations (create, delete,
// reorder) per project. Different projects proceed concurrently.
type projectLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *projectLocks) forProject(id uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}
