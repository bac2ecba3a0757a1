package engine

import (
	"maps"
	"slices"

	"cleanquest/internal/model"
)

// cloneQuestTasks copies the quest list and the task list of quest day, the
// only parts a task-level change touches.
func cloneQuestTasks(quests []model.Quest, day int) []model.Quest {
	out := slices.Clone(quests)
	out[day].Tasks = slices.Clone(quests[day].Tasks)
	return out
}

func cloneDaily(in map[string]model.DailyActivity) map[string]model.DailyActivity {
	if in == nil {
		return map[string]model.DailyActivity{}
	}
	return maps.Clone(in)
}

func taskIndex(tasks []model.Task, id string) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}

func userIndex(users []model.User, id string) int {
	return slices.IndexFunc(users, func(u model.User) bool { return u.ID == id })
}

// Normalize replaces nil collections with empty ones so a state decoded from
// an older or hand-edited document behaves like a fresh one.
func Normalize(s model.AppState) model.AppState {
	if s.DayCompleted == nil {
		s.DayCompleted = make([]bool, len(s.Quests))
	}
	if s.BreakHistory == nil {
		s.BreakHistory = []model.BreakRecord{}
	}
	if s.Quests == nil {
		s.Quests = []model.Quest{}
	}
	if s.RealRewards == nil {
		s.RealRewards = []model.Reward{}
	}
	if s.Analytics.TaskCompletions == nil {
		s.Analytics.TaskCompletions = []model.TaskCompletion{}
	}
	if s.Analytics.DailyActivity == nil {
		s.Analytics.DailyActivity = map[string]model.DailyActivity{}
	}
	if s.Users == nil {
		s.Users = []model.User{}
	}
	if s.SharedTasks == nil {
		s.SharedTasks = []model.SharedTask{}
	}
	if s.Notifications == nil {
		s.Notifications = []model.Notification{}
	}
	return s
}

// CloneState returns a deep copy of s that shares no memory with it.
func CloneState(s model.AppState) model.AppState {
	out := s
	out.DayCompleted = slices.Clone(s.DayCompleted)
	out.BreakHistory = slices.Clone(s.BreakHistory)
	out.RealRewards = slices.Clone(s.RealRewards)
	out.CurrentBreakID = clonePtr(s.CurrentBreakID)
	out.CurrentUserID = clonePtr(s.CurrentUserID)

	out.Quests = slices.Clone(s.Quests)
	for i := range out.Quests {
		tasks := slices.Clone(s.Quests[i].Tasks)
		for j := range tasks {
			tasks[j].AssignedTo = clonePtr(tasks[j].AssignedTo)
			tasks[j].AssignedBy = clonePtr(tasks[j].AssignedBy)
		}
		out.Quests[i].Tasks = tasks
	}

	out.Users = slices.Clone(s.Users)
	for i := range out.Users {
		out.Users[i].Friends = slices.Clone(s.Users[i].Friends)
	}

	out.SharedTasks = slices.Clone(s.SharedTasks)
	for i := range out.SharedTasks {
		out.SharedTasks[i].CompletedAt = clonePtr(out.SharedTasks[i].CompletedAt)
	}
	out.Notifications = slices.Clone(s.Notifications)
	for i := range out.Notifications {
		out.Notifications[i].RelatedID = clonePtr(out.Notifications[i].RelatedID)
	}

	out.Analytics.TaskCompletions = slices.Clone(s.Analytics.TaskCompletions)
	if s.Analytics.DailyActivity != nil {
		out.Analytics.DailyActivity = maps.Clone(s.Analytics.DailyActivity)
	}
	out.Analytics.LastActiveTimestamp = clonePtr(s.Analytics.LastActiveTimestamp)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
