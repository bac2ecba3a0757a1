package model

import "time"

// Task is one chore inside a quest. Shared tasks carry both assignment fields.
type Task struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	XP          int     `json:"xp"`
	Completed   bool    `json:"completed"`
	Tip         string  `json:"tip"`
	Shared      bool    `json:"shared,omitempty"`
	AssignedTo  *string `json:"assignedTo,omitempty"`
	AssignedBy  *string `json:"assignedBy,omitempty"`
}

type Quest struct {
	Day       int    `json:"day"`
	Title     string `json:"title"`
	Operation string `json:"operation"`
	Tasks     []Task `json:"tasks"`
	Reward    string `json:"reward"`
	TotalXP   int    `json:"totalXP"`
}

type BreakRecord struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	Duration  int       `json:"duration"`
	Completed bool      `json:"completed"`
	// Date is the ISO calendar date (2006-01-02) of StartTime in UTC.
	Date string `json:"date"`
}

type Reward struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	XPRequired int    `json:"xpRequired"`
	Redeemed   bool   `json:"redeemed"`
	Icon       string `json:"icon"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	Friends   []string  `json:"friends"`
}

type SharedTaskStatus string

const (
	SharedPending   SharedTaskStatus = "pending"
	SharedAccepted  SharedTaskStatus = "accepted"
	SharedRejected  SharedTaskStatus = "rejected"
	SharedCompleted SharedTaskStatus = "completed"
)

func (s SharedTaskStatus) IsValid() bool {
	switch s {
	case SharedPending, SharedAccepted, SharedRejected, SharedCompleted:
		return true
	default:
		return false
	}
}

type SharedTask struct {
	ID          string           `json:"id"`
	TaskID      string           `json:"taskId"`
	DayIndex    int              `json:"dayIndex"`
	FromUserID  string           `json:"fromUserId"`
	ToUserID    string           `json:"toUserId"`
	Status      SharedTaskStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

type NotificationType string

const (
	NotifyTaskShared     NotificationType = "task_shared"
	NotifyTaskCompleted  NotificationType = "task_completed"
	NotifyFriendRequest  NotificationType = "friend_request"
	NotifyFriendAccepted NotificationType = "friend_accepted"
)

type Notification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	FromUserID string           `json:"fromUserId"`
	ToUserID   string           `json:"toUserId"`
	RelatedID  *string          `json:"relatedId,omitempty"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type TaskCompletion struct {
	TaskID      string    `json:"taskId"`
	DayIndex    int       `json:"dayIndex"`
	CompletedAt time.Time `json:"completedAt"`
}

type DailyActivity struct {
	Date              string `json:"date"`
	TasksCompleted    int    `json:"tasksCompleted"`
	XPEarned          int    `json:"xpEarned"`
	ActiveTimeMinutes int    `json:"activeTimeMinutes"`
	BreaksCompleted   int    `json:"breaksCompleted"`
}

type AnalyticsData struct {
	TaskCompletions        []TaskCompletion         `json:"taskCompletions"`
	DailyActivity          map[string]DailyActivity `json:"dailyActivity"`
	TotalActiveTimeMinutes int                      `json:"totalActiveTimeMinutes"`
	LastActiveTimestamp    *time.Time               `json:"lastActiveTimestamp"`
}

// AppState is the whole persisted document. Its JSON form is both the stored
// blob and the export file format.
type AppState struct {
	CurrentDay     int            `json:"currentDay"`
	TotalXP        int            `json:"totalXP"`
	Level          int            `json:"level"`
	DayCompleted   []bool         `json:"dayCompleted"`
	BreakActive    bool           `json:"breakActive"`
	BreakTimeLeft  int            `json:"breakTimeLeft"`
	BreakHistory   []BreakRecord  `json:"breakHistory"`
	CurrentBreakID *string        `json:"currentBreakId"`
	Quests         []Quest        `json:"quests"`
	RealRewards    []Reward       `json:"realRewards"`
	SoundEnabled   bool           `json:"soundEnabled"`
	Analytics      AnalyticsData  `json:"analytics"`
	CurrentUserID  *string        `json:"currentUserId"`
	Users          []User         `json:"users"`
	SharedTasks    []SharedTask   `json:"sharedTasks"`
	Notifications  []Notification `json:"notifications"`
}

// StringPtr is a small helper for the optional id fields.
func StringPtr(s string) *string { return &s }

// TimePtr returns a pointer to a UTC copy of t.
func TimePtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
