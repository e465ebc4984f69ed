package dashboard

import "go-tasktracker/internal/task"

type UserStats struct {
	TotalUsers int64 `json:"totalUsers"`
	AdminCount int64 `json:"adminCount"`
	UserCount  int64 `json:"userCount"`
}

type WorkloadEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OpenTasks     int    `json:"openTasks"`
	OverdueTasks  int    `json:"overdueTasks"`
	WorkloadScore int    `json:"workloadScore"`
	WorkloadLevel string `json:"workloadLevel"`
}

type Summary struct {
	TotalTasks     int64              `json:"totalTasks"`
	CompletedTasks int64              `json:"completedTasks"`
	CompletionRate float64            `json:"completionRate"`
	TasksByStatus  []task.StatusCount `json:"tasksByStatus"`
	UserStats      *UserStats         `json:"userStats"`
	WorkloadData   []WorkloadEntry    `json:"workloadData"`
}
