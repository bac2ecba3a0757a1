package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cleanquest/internal/model"
)

type ToggleResult struct {
	TaskID       string
	DayIndex     int
	Completed    bool
	XPDelta      int
	LevelBefore  int
	LevelAfter   int
	LevelUp      bool
	DayCompleted bool
	Effects      []Effect
}

// ToggleTask flips a task and, when that finishes every task of a day not yet
// marked complete, completes the day as well.
func (s *Service) ToggleTask(ctx context.Context, dayIndex int, taskID string) (*ToggleResult, error) {
	s.mu.Lock()
	res, err := s.toggleLocked(ctx, dayIndex, taskID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	switch {
	case res.DayCompleted:
		s.playIfEnabled(s.sound.PlayReward)
	case res.Completed:
		s.playIfEnabled(s.sound.PlayComplete)
	default:
		s.playIfEnabled(s.sound.PlayClick)
	}
	return res, nil
}

func (s *Service) toggleLocked(ctx context.Context, dayIndex int, taskID string) (*ToggleResult, error) {
	if dayIndex < 0 || dayIndex >= len(s.state.Quests) {
		return nil, NotFoundError{Kind: "day", ID: strconv.Itoa(dayIndex + 1)}
	}
	if taskIndex(s.state.Quests[dayIndex].Tasks, taskID) < 0 {
		return nil, NotFoundError{Kind: "task", ID: taskID}
	}

	levelBefore := s.state.Level
	xpBefore := s.state.TotalXP
	now := s.now()
	effects := s.dispatchLocked(ctx, ToggleTask{
		DayIndex:       dayIndex,
		TaskID:         taskID,
		At:             now,
		NotificationID: s.newID(PrefixNotification, now),
	})

	ti := taskIndex(s.state.Quests[dayIndex].Tasks, taskID)
	res := &ToggleResult{
		TaskID:      taskID,
		DayIndex:    dayIndex,
		Completed:   s.state.Quests[dayIndex].Tasks[ti].Completed,
		XPDelta:     s.state.TotalXP - xpBefore,
		LevelBefore: levelBefore,
		LevelAfter:  s.state.Level,
		LevelUp:     s.state.Level > levelBefore,
		Effects:     effects,
	}

	if res.Completed && AllTasksComplete(s.state, dayIndex) &&
		dayIndex < len(s.state.DayCompleted) && !s.state.DayCompleted[dayIndex] {
		s.dispatchLocked(ctx, CompleteDay{DayIndex: dayIndex})
		res.DayCompleted = true
	}
	return res, nil
}

// CompleteTask completes a task that is still open.
func (s *Service) CompleteTask(ctx context.Context, taskID string) (*ToggleResult, error) {
	state := s.State()
	day, t, ok := LocateTask(state, taskID)
	if !ok {
		return nil, NotFoundError{Kind: "task", ID: taskID}
	}
	if t.Completed {
		return nil, fmt.Errorf("task %s is already done", taskID)
	}
	return s.ToggleTask(ctx, day, taskID)
}

// UncompleteTask restores a completed task, taking back its XP.
func (s *Service) UncompleteTask(ctx context.Context, taskID string) (*ToggleResult, error) {
	state := s.State()
	day, t, ok := LocateTask(state, taskID)
	if !ok {
		return nil, NotFoundError{Kind: "task", ID: taskID}
	}
	if !t.Completed {
		return nil, fmt.Errorf("task %s is not done", taskID)
	}
	return s.ToggleTask(ctx, day, taskID)
}

// CompleteDay marks a day complete once all of its tasks are done.
func (s *Service) CompleteDay(ctx context.Context, dayIndex int) error {
	s.mu.Lock()
	if dayIndex < 0 || dayIndex >= len(s.state.DayCompleted) {
		s.mu.Unlock()
		return NotFoundError{Kind: "day", ID: strconv.Itoa(dayIndex + 1)}
	}
	if !AllTasksComplete(s.state, dayIndex) {
		s.mu.Unlock()
		return fmt.Errorf("day %d still has open tasks", dayIndex+1)
	}
	already := s.state.DayCompleted[dayIndex]
	s.dispatchLocked(ctx, CompleteDay{DayIndex: dayIndex})
	s.mu.Unlock()

	if !already {
		s.playIfEnabled(s.sound.PlayReward)
	}
	return nil
}

// SwitchDay selects the day (1-based) shown as current.
func (s *Service) SwitchDay(ctx context.Context, day int) error {
	s.mu.Lock()
	if day < 1 || day > len(s.state.Quests) {
		s.mu.Unlock()
		return NotFoundError{Kind: "day", ID: strconv.Itoa(day)}
	}
	s.dispatchLocked(ctx, SwitchDay{Day: day})
	s.mu.Unlock()

	s.playIfEnabled(s.sound.PlayClick)
	return nil
}

// ToggleSound flips the sound preference and returns the new value.
func (s *Service) ToggleSound(ctx context.Context) bool {
	s.mu.Lock()
	s.dispatchLocked(ctx, ToggleSound{})
	enabled := s.state.SoundEnabled
	s.mu.Unlock()

	s.sound.SetEnabled(enabled)
	if enabled {
		s.playIfEnabled(s.sound.PlayClick)
	}
	return enabled
}

func (s *Service) StartBreak(ctx context.Context) (model.BreakRecord, error) {
	s.mu.Lock()
	if s.state.BreakActive {
		s.mu.Unlock()
		return model.BreakRecord{}, ErrBreakActive
	}
	now := s.now()
	s.dispatchLocked(ctx, StartBreak{BreakID: BreakID(now), StartTime: now})
	rec := s.state.BreakHistory[0]
	s.mu.Unlock()

	s.playIfEnabled(s.sound.PlayBreakStart)
	return rec, nil
}

// EndBreak stops the running break. completed is false when the user cuts it short.
func (s *Service) EndBreak(ctx context.Context, completed bool) error {
	s.mu.Lock()
	if !s.state.BreakActive {
		s.mu.Unlock()
		return ErrNoBreak
	}
	s.stopCountdownLocked()
	now := s.now()
	s.dispatchLocked(ctx, EndBreak{Completed: completed, At: now})
	s.dispatchLocked(ctx, MarkActive{Timestamp: now})
	s.mu.Unlock()

	if completed {
		s.playIfEnabled(s.sound.PlayBreakEnd)
	} else {
		s.playIfEnabled(s.sound.PlayClick)
	}
	return nil
}

// TickBreak advances the running break by one second and reports the time
// left. The break ends as completed when the last second elapses.
func (s *Service) TickBreak(ctx context.Context) (left int, active bool) {
	s.mu.Lock()
	left, active, ended := s.tickLocked(ctx)
	s.mu.Unlock()

	if ended {
		s.playIfEnabled(s.sound.PlayBreakEnd)
	}
	return left, active
}

func (s *Service) tickLocked(ctx context.Context) (left int, active, ended bool) {
	if !s.state.BreakActive {
		return 0, false, false
	}
	if s.state.BreakTimeLeft > 1 {
		s.dispatchLocked(ctx, UpdateBreakTime{TimeLeft: s.state.BreakTimeLeft - 1})
		return s.state.BreakTimeLeft, true, false
	}
	now := s.now()
	s.dispatchLocked(ctx, EndBreak{Completed: true, At: now})
	s.dispatchLocked(ctx, MarkActive{Timestamp: now})
	s.stopCountdownLocked()
	return 0, false, true
}

// RecordActivity feeds the active-time tracker. It is skipped during a break.
// Time spent on a break is never credited: ending a break restarts the
// measurement.
func (s *Service) RecordActivity(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.BreakActive {
		return false
	}
	s.dispatchLocked(ctx, UpdateActiveTime{Timestamp: s.now()})
	return true
}

// BeginActivitySession restarts active-time measurement at the current time,
// so the gap since the app last ran is not counted as active time.
func (s *Service) BeginActivitySession(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatchLocked(ctx, MarkActive{Timestamp: s.now()})
}

// RedeemReward claims a reward the user has earned and returns a code to
// show at the counter.
func (s *Service) RedeemReward(ctx context.Context, rewardID int) (model.Reward, string, error) {
	s.mu.Lock()
	r, ok := FindReward(s.state, rewardID)
	if !ok {
		s.mu.Unlock()
		return model.Reward{}, "", NotFoundError{Kind: "reward", ID: strconv.Itoa(rewardID)}
	}
	if r.Redeemed {
		s.mu.Unlock()
		return r, "", ErrAlreadyRedeemed
	}
	if s.state.TotalXP < r.XPRequired {
		xp := s.state.TotalXP
		s.mu.Unlock()
		return r, "", GateError{Feature: r.Name, RequiredXP: r.XPRequired, CurrentXP: xp}
	}
	s.dispatchLocked(ctx, RedeemReward{RewardID: rewardID})
	r, _ = FindReward(s.state, rewardID)
	s.mu.Unlock()

	s.playIfEnabled(s.sound.PlayReward)
	return r, RedemptionCode(), nil
}

// AddUser creates a local profile and makes it the current user.
func (s *Service) AddUser(ctx context.Context, name, avatar string) (model.User, error) {
	n, err := normalizeName(name)
	if err != nil {
		return model.User{}, err
	}
	if avatar == "" {
		avatar = defaultUserAvatar
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	id := s.newID(PrefixUser, now)
	s.dispatchLocked(ctx, AddUser{UserID: id, Name: n, Avatar: avatar, At: now})
	u, ok := FindUser(s.state, id)
	if !ok {
		return model.User{}, fmt.Errorf("user %s was not created", id)
	}
	return u, nil
}

func (s *Service) SwitchUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := FindUser(s.state, userID); !ok {
		return NotFoundError{Kind: "user", ID: userID}
	}
	s.dispatchLocked(ctx, SwitchUser{UserID: userID})
	return nil
}

func (s *Service) currentUserLocked() (string, error) {
	u, ok := CurrentUser(s.state)
	if !ok {
		return "", ErrNoCurrentUser
	}
	return u.ID, nil
}

// AddFriend adds friendID to the current user's friends and notifies them.
func (s *Service) AddFriend(ctx context.Context, friendID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	me, err := s.currentUserLocked()
	if err != nil {
		return err
	}
	if friendID == me {
		return errors.New("cannot add yourself as a friend")
	}
	if _, ok := FindUser(s.state, friendID); !ok {
		return NotFoundError{Kind: "user", ID: friendID}
	}
	now := s.now()
	s.dispatchLocked(ctx, AddFriend{
		UserID:         me,
		FriendID:       friendID,
		NotificationID: s.newID(PrefixNotification, now),
		At:             now,
	})
	return nil
}

func (s *Service) RemoveFriend(ctx context.Context, friendID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	me, err := s.currentUserLocked()
	if err != nil {
		return err
	}
	s.dispatchLocked(ctx, RemoveFriend{UserID: me, FriendID: friendID})
	return nil
}

// ShareTask hands a task of the current user's plan to another profile.
func (s *Service) ShareTask(ctx context.Context, taskID, toUserID string) (model.SharedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	me, err := s.currentUserLocked()
	if err != nil {
		return model.SharedTask{}, err
	}
	day, _, ok := LocateTask(s.state, taskID)
	if !ok {
		return model.SharedTask{}, NotFoundError{Kind: "task", ID: taskID}
	}
	if toUserID == me {
		return model.SharedTask{}, errors.New("cannot share a task with yourself")
	}
	if _, ok := FindUser(s.state, toUserID); !ok {
		return model.SharedTask{}, NotFoundError{Kind: "user", ID: toUserID}
	}

	now := s.now()
	id := s.newID(PrefixSharedTask, now)
	s.dispatchLocked(ctx, ShareTask{
		SharedTaskID:   id,
		NotificationID: s.newID(PrefixNotification, now),
		TaskID:         taskID,
		DayIndex:       day,
		FromUserID:     me,
		ToUserID:       toUserID,
		At:             now,
	})
	for _, st := range s.state.SharedTasks {
		if st.ID == id {
			return st, nil
		}
	}
	return model.SharedTask{}, fmt.Errorf("shared task %s was not created", id)
}

// RespondSharedTask lets the recipient accept, reject or complete a shared task.
func (s *Service) RespondSharedTask(ctx context.Context, sharedTaskID string, status model.SharedTaskStatus) error {
	if !status.IsValid() || status == model.SharedPending {
		return InvalidStatusError{Status: string(status)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	me, err := s.currentUserLocked()
	if err != nil {
		return err
	}
	var found *model.SharedTask
	for i := range s.state.SharedTasks {
		if s.state.SharedTasks[i].ID == sharedTaskID {
			found = &s.state.SharedTasks[i]
			break
		}
	}
	if found == nil {
		return NotFoundError{Kind: "shared task", ID: sharedTaskID}
	}
	if found.ToUserID != me {
		return fmt.Errorf("shared task %s is not assigned to you", sharedTaskID)
	}

	a := UpdateSharedTask{SharedTaskID: sharedTaskID, Status: status}
	if status == model.SharedCompleted {
		a.CompletedAt = model.TimePtr(s.now())
	}
	s.dispatchLocked(ctx, a)
	return nil
}

func (s *Service) AddNotification(ctx context.Context, kind model.NotificationType, fromUserID, toUserID string, relatedID *string) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	id := s.newID(PrefixNotification, now)
	s.dispatchLocked(ctx, AddNotification{
		ID:         id,
		Kind:       kind,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		RelatedID:  relatedID,
		At:         now,
	})
	return s.state.Notifications[len(s.state.Notifications)-1]
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.state.Notifications {
		if n.ID == id {
			s.dispatchLocked(ctx, MarkNotificationRead{NotificationID: id})
			return nil
		}
	}
	return NotFoundError{Kind: "notification", ID: id}
}

// MarkAllRead marks every unread notification of the current user as read.
func (s *Service) MarkAllRead(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	me, err := s.currentUserLocked()
	if err != nil {
		return 0, err
	}
	var ids []string
	for _, n := range s.state.Notifications {
		if n.ToUserID == me && !n.Read {
			ids = append(ids, n.ID)
		}
	}
	for _, id := range ids {
		s.dispatchLocked(ctx, MarkNotificationRead{NotificationID: id})
	}
	return len(ids), nil
}

// Import replaces the whole state with an already validated document.
func (s *Service) Import(ctx context.Context, state model.AppState) {
	s.mu.Lock()
	s.stopCountdownLocked()
	s.dispatchLocked(ctx, InitState{State: state})
	s.resumeBreakLocked(ctx)
	enabled := s.state.SoundEnabled
	s.mu.Unlock()

	s.sound.SetEnabled(enabled)
}
