// Package workload scores how loaded an employee is from their task list.
package workload

import (
	"time"

	"go-tasktracker/internal/task"
)

type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
)

const (
	openPoints      = 1
	highPriPoints   = 2
	overduePoints   = 3
	lowCeiling      = 5
	moderateCeiling = 10
)

type Result struct {
	OpenCount    int
	OverdueCount int
	Score        int
	Level        Level
}

// Score computes the workload of one employee. now must be captured once by
// the caller and shared across every employee of the same pass.
func Score(tasks []task.Task, now time.Time) Result {
	var res Result
	for _, t := range tasks {
		if !t.IsOpen() {
			continue
		}
		res.OpenCount++
		res.Score += openPoints

		if t.Priority == task.PriorityHigh {
			res.Score += highPriPoints
		}
		if t.IsOverdue(now) {
			res.OverdueCount++
			res.Score += overduePoints
		}
	}
	res.Level = LevelFor(res.Score)
	return res
}

func LevelFor(score int) Level {
	switch {
	case score > moderateCeiling:
		return LevelHigh
	case score > lowCeiling:
		return LevelModerate
	default:
		return LevelLow
	}
}
