package engine

import (
	"time"

	"cleanquest/internal/model"
)

type ActionType string

const (
	ActionInitState            ActionType = "INIT_STATE"
	ActionToggleTask           ActionType = "TOGGLE_TASK"
	ActionCompleteDay          ActionType = "COMPLETE_DAY"
	ActionStartBreak           ActionType = "START_BREAK"
	ActionEndBreak             ActionType = "END_BREAK"
	ActionUpdateBreakTime      ActionType = "UPDATE_BREAK_TIME"
	ActionRedeemReward         ActionType = "REDEEM_REWARD"
	ActionToggleSound          ActionType = "TOGGLE_SOUND"
	ActionSwitchDay            ActionType = "SWITCH_DAY"
	ActionUpdateActiveTime     ActionType = "UPDATE_ACTIVE_TIME"
	ActionMarkActive           ActionType = "MARK_ACTIVE"
	ActionAddUser              ActionType = "ADD_USER"
	ActionSwitchUser           ActionType = "SWITCH_USER"
	ActionAddFriend            ActionType = "ADD_FRIEND"
	ActionRemoveFriend         ActionType = "REMOVE_FRIEND"
	ActionShareTask            ActionType = "SHARE_TASK"
	ActionUpdateSharedTask     ActionType = "UPDATE_SHARED_TASK"
	ActionAddNotification      ActionType = "ADD_NOTIFICATION"
	ActionMarkNotificationRead ActionType = "MARK_NOTIFICATION_READ"
)

// Action is a request to transition the state. Actions carry every timestamp
// and generated id they need so that Transition stays deterministic.
type Action interface {
	Type() ActionType
}

type InitState struct {
	State model.AppState
}

type ToggleTask struct {
	DayIndex int
	TaskID   string
	At       time.Time
	// NotificationID is used when completing a shared task notifies the sharer.
	NotificationID string
}

type CompleteDay struct {
	DayIndex int
}

type StartBreak struct {
	BreakID   string
	StartTime time.Time
}

type EndBreak struct {
	Completed bool
	At        time.Time
}

type UpdateBreakTime struct {
	TimeLeft int
}

type RedeemReward struct {
	RewardID int
}

type ToggleSound struct{}

type SwitchDay struct {
	Day int
}

type UpdateActiveTime struct {
	Timestamp time.Time
}

// MarkActive restarts active-time measurement at Timestamp without crediting
// the time since the previous mark.
type MarkActive struct {
	Timestamp time.Time
}

type AddUser struct {
	UserID string
	Name   string
	Avatar string
	At     time.Time
}

type SwitchUser struct {
	UserID string
}

type AddFriend struct {
	UserID         string
	FriendID       string
	NotificationID string
	At             time.Time
}

type RemoveFriend struct {
	UserID   string
	FriendID string
}

type ShareTask struct {
	SharedTaskID   string
	NotificationID string
	TaskID         string
	DayIndex       int
	FromUserID     string
	ToUserID       string
	At             time.Time
}

type UpdateSharedTask struct {
	SharedTaskID string
	Status       model.SharedTaskStatus
	CompletedAt  *time.Time
}

type AddNotification struct {
	ID         string
	Kind       model.NotificationType
	FromUserID string
	ToUserID   string
	RelatedID  *string
	At         time.Time
}

type MarkNotificationRead struct {
	NotificationID string
}

func (InitState) Type() ActionType            { return ActionInitState }
func (ToggleTask) Type() ActionType           { return ActionToggleTask }
func (CompleteDay) Type() ActionType          { return ActionCompleteDay }
func (StartBreak) Type() ActionType           { return ActionStartBreak }
func (EndBreak) Type() ActionType             { return ActionEndBreak }
func (UpdateBreakTime) Type() ActionType      { return ActionUpdateBreakTime }
func (RedeemReward) Type() ActionType         { return ActionRedeemReward }
func (ToggleSound) Type() ActionType          { return ActionToggleSound }
func (SwitchDay) Type() ActionType            { return ActionSwitchDay }
func (UpdateActiveTime) Type() ActionType     { return ActionUpdateActiveTime }
func (MarkActive) Type() ActionType           { return ActionMarkActive }
func (AddUser) Type() ActionType              { return ActionAddUser }
func (SwitchUser) Type() ActionType           { return ActionSwitchUser }
func (AddFriend) Type() ActionType            { return ActionAddFriend }
func (RemoveFriend) Type() ActionType         { return ActionRemoveFriend }
func (ShareTask) Type() ActionType            { return ActionShareTask }
func (UpdateSharedTask) Type() ActionType     { return ActionUpdateSharedTask }
func (AddNotification) Type() ActionType      { return ActionAddNotification }
func (MarkNotificationRead) Type() ActionType { return ActionMarkNotificationRead }
