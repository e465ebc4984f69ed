package workload_test

import (
	"testing"
	"time"

	"go-tasktracker/internal/task"
	"go-tasktracker/internal/workload"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTask(status, priority string, due time.Time) task.Task {
	return task.Task{Status: status, Priority: priority, DueDate: due}
}

func TestScore(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	t.Run("empty list is low", func(t *testing.T) {
		res := workload.Score(nil, now)

		assert.Equal(t, 0, res.Score)
		assert.Equal(t, 0, res.OpenCount)
		assert.Equal(t, workload.LevelLow, res.Level)
	})

	t.Run("overdue high task scores six", func(t *testing.T) {
		res := workload.Score([]task.Task{
			newTask(task.StatusTodo, task.PriorityHigh, yesterday),
		}, now)

		assert.Equal(t, 6, res.Score)
		assert.Equal(t, 1, res.OpenCount)
		assert.Equal(t, 1, res.OverdueCount)
		assert.Equal(t, workload.LevelModerate, res.Level)
	})

	t.Run("two medium tasks not overdue", func(t *testing.T) {
		res := workload.Score([]task.Task{
			newTask(task.StatusTodo, task.PriorityMedium, tomorrow),
			newTask(task.StatusInProgress, task.PriorityMedium, tomorrow),
		}, now)

		assert.Equal(t, 2, res.Score)
		assert.Equal(t, 0, res.OverdueCount)
		assert.Equal(t, workload.LevelLow, res.Level)
	})

	t.Run("done tasks are ignored even when past due", func(t *testing.T) {
		res := workload.Score([]task.Task{
			newTask(task.StatusDone, task.PriorityHigh, yesterday),
			newTask(task.StatusDone, task.PriorityLow, tomorrow),
		}, now)

		assert.Equal(t, 0, res.Score)
		assert.Equal(t, 0, res.OpenCount)
		assert.Equal(t, 0, res.OverdueCount)
	})

	t.Run("due exactly now is not overdue", func(t *testing.T) {
		res := workload.Score([]task.Task{
			newTask(task.StatusTodo, task.PriorityLow, now),
		}, now)

		assert.Equal(t, 1, res.Score)
		assert.Equal(t, 0, res.OverdueCount)
	})

	t.Run("same input same output", func(t *testing.T) {
		tasks := []task.Task{
			newTask(task.StatusTodo, task.PriorityHigh, yesterday),
			newTask(task.StatusInProgress, task.PriorityLow, tomorrow),
		}

		assert.Equal(t, workload.Score(tasks, now), workload.Score(tasks, now))
	})

	t.Run("adding overdue high tasks never lowers the score", func(t *testing.T) {
		tasks := []task.Task{newTask(task.StatusTodo, task.PriorityLow, tomorrow)}
		prev := workload.Score(tasks, now).Score
		for i := 0; i < 5; i++ {
			tasks = append(tasks, newTask(task.StatusTodo, task.PriorityHigh, yesterday))
			cur := workload.Score(tasks, now).Score
			assert.GreaterOrEqual(t, cur, prev)
			assert.GreaterOrEqual(t, cur, 0)
			prev = cur
		}
	})
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score int
		want  workload.Level
	}{
		{0, workload.LevelLow},
		{5, workload.LevelLow},
		{6, workload.LevelModerate},
		{10, workload.LevelModerate},
		{11, workload.LevelHigh},
		{42, workload.LevelHigh},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, workload.LevelFor(tc.score), "score %d", tc.score)
	}
}
