package engine

import (
	"time"

	"cleanquest/internal/model"
)

type EffectKind string

const (
	EffectNotify              EffectKind = "notify"
	EffectActivityDelta       EffectKind = "activity_delta"
	EffectCompletionLogged    EffectKind = "completion_logged"
	EffectCompletionRemoved   EffectKind = "completion_removed"
	EffectSharedTaskCompleted EffectKind = "shared_task_completed"
)

// Effect is a derived change produced by Transition. ApplyEffects folds
// effects into the state; callers may also inspect them (logging, sounds).
type Effect interface {
	Kind() EffectKind
	apply(s *model.AppState)
}

// Notify appends a notification.
type Notify struct {
	Notification model.Notification
}

// ActivityDelta adjusts the daily activity bucket for Date.
// Deltas may be negative when a completion is undone.
type ActivityDelta struct {
	Date          string
	Tasks         int
	XP            int
	ActiveMinutes int
	Breaks        int
}

// CompletionLogged appends an entry to the completion log.
type CompletionLogged struct {
	Completion model.TaskCompletion
}

// CompletionRemoved drops every log entry for the task on that day.
type CompletionRemoved struct {
	TaskID   string
	DayIndex int
}

// SharedTaskCompleted marks the shared tasks handed to ToUserID for the task as completed.
type SharedTaskCompleted struct {
	TaskID   string
	DayIndex int
	ToUserID string
	At       time.Time
}

func (Notify) Kind() EffectKind              { return EffectNotify }
func (ActivityDelta) Kind() EffectKind       { return EffectActivityDelta }
func (CompletionLogged) Kind() EffectKind    { return EffectCompletionLogged }
func (CompletionRemoved) Kind() EffectKind   { return EffectCompletionRemoved }
func (SharedTaskCompleted) Kind() EffectKind { return EffectSharedTaskCompleted }

func (e Notify) apply(s *model.AppState) {
	out := make([]model.Notification, 0, len(s.Notifications)+1)
	out = append(out, s.Notifications...)
	s.Notifications = append(out, e.Notification)
}

func (e ActivityDelta) apply(s *model.AppState) {
	daily := cloneDaily(s.Analytics.DailyActivity)
	day, ok := daily[e.Date]
	if !ok {
		day = model.DailyActivity{Date: e.Date}
	}
	day.TasksCompleted += e.Tasks
	day.XPEarned += e.XP
	day.ActiveTimeMinutes += e.ActiveMinutes
	day.BreaksCompleted += e.Breaks
	daily[e.Date] = day
	s.Analytics.DailyActivity = daily
}

func (e CompletionLogged) apply(s *model.AppState) {
	out := make([]model.TaskCompletion, 0, len(s.Analytics.TaskCompletions)+1)
	out = append(out, s.Analytics.TaskCompletions...)
	s.Analytics.TaskCompletions = append(out, e.Completion)
}

func (e CompletionRemoved) apply(s *model.AppState) {
	out := make([]model.TaskCompletion, 0, len(s.Analytics.TaskCompletions))
	for _, c := range s.Analytics.TaskCompletions {
		if c.TaskID == e.TaskID && c.DayIndex == e.DayIndex {
			continue
		}
		out = append(out, c)
	}
	s.Analytics.TaskCompletions = out
}

func (e SharedTaskCompleted) apply(s *model.AppState) {
	out := make([]model.SharedTask, len(s.SharedTasks))
	copy(out, s.SharedTasks)
	for i := range out {
		st := &out[i]
		if st.TaskID != e.TaskID || st.DayIndex != e.DayIndex || st.ToUserID != e.ToUserID {
			continue
		}
		st.Status = model.SharedCompleted
		st.CompletedAt = model.TimePtr(e.At)
	}
	s.SharedTasks = out
}

// ApplyEffects folds effects into s in order. The input state is not modified.
func ApplyEffects(s model.AppState, effects []Effect) model.AppState {
	for _, e := range effects {
		e.apply(&s)
	}
	return s
}
