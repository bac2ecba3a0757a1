package engine

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"cleanquest/internal/model"
)

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// DayProgress is the rounded share of completed tasks for the quest at dayIndex.
// A day without tasks (or an unknown day) reports 0.
func DayProgress(s model.AppState, dayIndex int) int {
	if dayIndex < 0 || dayIndex >= len(s.Quests) {
		return 0
	}
	tasks := s.Quests[dayIndex].Tasks
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return percent(done, len(tasks))
}

// TotalProgress is the rounded share of completed tasks across every quest.
func TotalProgress(s model.AppState) int {
	done, total := 0, 0
	for _, q := range s.Quests {
		for _, t := range q.Tasks {
			total++
			if t.Completed {
				done++
			}
		}
	}
	return percent(done, total)
}

// AllTasksComplete reports whether the quest at dayIndex has tasks and all are done.
func AllTasksComplete(s model.AppState, dayIndex int) bool {
	if dayIndex < 0 || dayIndex >= len(s.Quests) {
		return false
	}
	tasks := s.Quests[dayIndex].Tasks
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

type BreakStats struct {
	Total     int
	Completed int
	// AvgDuration is the rounded mean duration in seconds of completed breaks.
	AvgDuration int
	ThisWeek    int
}

// startOfWeek returns the most recent Sunday (UTC) on or before now.
func startOfWeek(now time.Time) time.Time {
	d := now.UTC()
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// breakDay is the UTC day a break belongs to. Imported records may carry a
// locale-formatted Date, in which case the start time decides.
func breakDay(b model.BreakRecord) time.Time {
	if d, err := time.Parse(isoDateLayout, b.Date); err == nil {
		return d
	}
	st := b.StartTime.UTC()
	return time.Date(st.Year(), st.Month(), st.Day(), 0, 0, 0, 0, time.UTC)
}

func BreakStatistics(s model.AppState, now time.Time) BreakStats {
	var st BreakStats
	sum := 0
	week := startOfWeek(now)
	for _, b := range s.BreakHistory {
		st.Total++
		if b.Completed {
			st.Completed++
			sum += b.Duration
		}
		if !breakDay(b).Before(week) {
			st.ThisWeek++
		}
	}
	if st.Completed > 0 {
		st.AvgDuration = int(math.Round(float64(sum) / float64(st.Completed)))
	}
	return st
}

// TotalBreakMinutes sums the duration of completed breaks.
func TotalBreakMinutes(s model.AppState) int {
	secs := 0
	for _, b := range s.BreakHistory {
		if b.Completed {
			secs += b.Duration
		}
	}
	return secs / 60
}

// Streak counts consecutive calendar days with recorded activity ending today.
// Without activity today the streak is 0.
func Streak(s model.AppState, now time.Time) int {
	day := now.UTC()
	n := 0
	for {
		if _, ok := s.Analytics.DailyActivity[ISODate(day)]; !ok {
			return n
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
}

// TodayActivity returns today's bucket, zero-valued when nothing happened yet.
func TodayActivity(s model.AppState, now time.Time) model.DailyActivity {
	date := ISODate(now)
	if a, ok := s.Analytics.DailyActivity[date]; ok {
		return a
	}
	return model.DailyActivity{Date: date}
}

type CalendarDay struct {
	Date      string
	Activity  model.DailyActivity
	Intensity int
}

// ActivityCalendar returns the last 28 days, oldest first, with an intensity
// of 0-4 derived from the number of completed tasks.
func ActivityCalendar(s model.AppState, now time.Time) []CalendarDay {
	out := make([]CalendarDay, 0, 28)
	for i := 27; i >= 0; i-- {
		date := ISODate(now.AddDate(0, 0, -i))
		a, ok := s.Analytics.DailyActivity[date]
		if !ok {
			a = model.DailyActivity{Date: date}
		}
		out = append(out, CalendarDay{Date: date, Activity: a, Intensity: min(4, max(0, a.TasksCompleted/2))})
	}
	return out
}

type TimeSlot struct {
	Name    string
	Count   int
	Percent int
}

// ProductiveTimes buckets task completions by the hour they happened in loc,
// most productive slot first.
func ProductiveTimes(s model.AppState, loc *time.Location) []TimeSlot {
	if loc == nil {
		loc = time.Local
	}
	slots := []TimeSlot{
		{Name: "Morning (6am-12pm)"},
		{Name: "Afternoon (12pm-6pm)"},
		{Name: "Evening (6pm-12am)"},
		{Name: "Night (12am-6am)"},
	}
	for _, c := range s.Analytics.TaskCompletions {
		h := c.CompletedAt.In(loc).Hour()
		switch {
		case h >= 6 && h < 12:
			slots[0].Count++
		case h >= 12 && h < 18:
			slots[1].Count++
		case h >= 18:
			slots[2].Count++
		default:
			slots[3].Count++
		}
	}
	total := len(s.Analytics.TaskCompletions)
	for i := range slots {
		slots[i].Percent = percent(slots[i].Count, total)
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Count > slots[j].Count })
	return slots
}

type DayStat struct {
	Day       int
	Title     string
	Completed int
	Total     int
	Percent   int
	Done      bool
}

// DayCompletion summarises every quest for the completion chart.
func DayCompletion(s model.AppState) []DayStat {
	out := make([]DayStat, 0, len(s.Quests))
	for i, q := range s.Quests {
		done := 0
		for _, t := range q.Tasks {
			if t.Completed {
				done++
			}
		}
		out = append(out, DayStat{
			Day:       q.Day,
			Title:     q.Title,
			Completed: done,
			Total:     len(q.Tasks),
			Percent:   percent(done, len(q.Tasks)),
			Done:      i < len(s.DayCompleted) && s.DayCompleted[i],
		})
	}
	return out
}

// GrandRewardTitle is granted once every day is complete with at least 300 XP.
const GrandRewardTitle = "Flat Master: Level 1"

func GrandReward(s model.AppState) (string, bool) {
	if s.TotalXP < XPRequiredForLevel(MaxLevel) || len(s.DayCompleted) == 0 {
		return "", false
	}
	for _, d := range s.DayCompleted {
		if !d {
			return "", false
		}
	}
	return GrandRewardTitle, true
}

// UnreadCount counts unread notifications addressed to the current user.
func UnreadCount(s model.AppState) int {
	if s.CurrentUserID == nil {
		return 0
	}
	n := 0
	for _, note := range s.Notifications {
		if note.ToUserID == *s.CurrentUserID && !note.Read {
			n++
		}
	}
	return n
}

// NotificationsFor returns the notifications addressed to userID, newest first.
func NotificationsFor(s model.AppState, userID string) []model.Notification {
	var out []model.Notification
	for _, n := range s.Notifications {
		if n.ToUserID == userID {
			out = append(out, n)
		}
	}
	slices.Reverse(out)
	return out
}

func FindUser(s model.AppState, id string) (model.User, bool) {
	i := userIndex(s.Users, id)
	if i < 0 {
		return model.User{}, false
	}
	return s.Users[i], true
}

func CurrentUser(s model.AppState) (model.User, bool) {
	if s.CurrentUserID == nil {
		return model.User{}, false
	}
	return FindUser(s, *s.CurrentUserID)
}

// Friends resolves the current user's friend ids, skipping dangling ones.
func Friends(s model.AppState) []model.User {
	me, ok := CurrentUser(s)
	if !ok {
		return nil
	}
	var out []model.User
	for _, id := range me.Friends {
		if u, ok := FindUser(s, id); ok {
			out = append(out, u)
		}
	}
	return out
}

// IncomingShares lists shared tasks handed to userID.
func IncomingShares(s model.AppState, userID string) []model.SharedTask {
	var out []model.SharedTask
	for _, st := range s.SharedTasks {
		if st.ToUserID == userID {
			out = append(out, st)
		}
	}
	return out
}

// OutgoingShares lists shared tasks userID handed out.
func OutgoingShares(s model.AppState, userID string) []model.SharedTask {
	var out []model.SharedTask
	for _, st := range s.SharedTasks {
		if st.FromUserID == userID {
			out = append(out, st)
		}
	}
	return out
}

// LocateTask finds the quest holding taskID.
func LocateTask(s model.AppState, taskID string) (dayIndex int, t model.Task, ok bool) {
	for d, q := range s.Quests {
		if i := taskIndex(q.Tasks, taskID); i >= 0 {
			return d, q.Tasks[i], true
		}
	}
	return -1, model.Task{}, false
}

func FindReward(s model.AppState, id int) (model.Reward, bool) {
	for _, r := range s.RealRewards {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reward{}, false
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatMinutes renders minutes as "Hh Mm".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
