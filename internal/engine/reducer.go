package engine

import (
	"slices"
	"time"

	"cleanquest/internal/model"
)

const isoDateLayout = "2006-01-02"

// ISODate returns the UTC calendar date of t, the key used for daily activity.
func ISODate(t time.Time) string {
	return t.UTC().Format(isoDateLayout)
}

// Reduce applies a to s, including every derived effect.
func Reduce(s model.AppState, a Action) model.AppState {
	next, effects := Transition(s, a)
	return ApplyEffects(next, effects)
}

// Transition computes the primary state change for a and the derived effects
// still to be applied. It never modifies s and never fails: actions that
// reference missing days, tasks or users leave the state unchanged.
func Transition(s model.AppState, a Action) (model.AppState, []Effect) {
	switch a := a.(type) {
	case InitState:
		return Normalize(a.State), nil
	case ToggleTask:
		return toggleTask(s, a)
	case CompleteDay:
		return completeDay(s, a), nil
	case StartBreak:
		return startBreak(s, a), nil
	case EndBreak:
		return endBreak(s, a)
	case UpdateBreakTime:
		s.BreakTimeLeft = a.TimeLeft
		return s, nil
	case RedeemReward:
		return redeemReward(s, a), nil
	case ToggleSound:
		s.SoundEnabled = !s.SoundEnabled
		return s, nil
	case SwitchDay:
		s.CurrentDay = a.Day
		return s, nil
	case UpdateActiveTime:
		return updateActiveTime(s, a)
	case MarkActive:
		ts := a.Timestamp.UTC()
		s.Analytics.LastActiveTimestamp = &ts
		return s, nil
	case AddUser:
		return addUser(s, a), nil
	case SwitchUser:
		if userIndex(s.Users, a.UserID) < 0 {
			return s, nil
		}
		s.CurrentUserID = model.StringPtr(a.UserID)
		return s, nil
	case AddFriend:
		return addFriend(s, a)
	case RemoveFriend:
		return removeFriend(s, a), nil
	case ShareTask:
		return shareTask(s, a)
	case UpdateSharedTask:
		return updateSharedTask(s, a), nil
	case AddNotification:
		return s, []Effect{Notify{Notification: model.Notification{
			ID:         a.ID,
			Type:       a.Kind,
			FromUserID: a.FromUserID,
			ToUserID:   a.ToUserID,
			RelatedID:  a.RelatedID,
			CreatedAt:  a.At.UTC(),
		}}}
	case MarkNotificationRead:
		return markNotificationRead(s, a), nil
	default:
		return s, nil
	}
}

func toggleTask(s model.AppState, a ToggleTask) (model.AppState, []Effect) {
	if a.DayIndex < 0 || a.DayIndex >= len(s.Quests) {
		return s, nil
	}
	ti := taskIndex(s.Quests[a.DayIndex].Tasks, a.TaskID)
	if ti < 0 {
		return s, nil
	}

	quests := cloneQuestTasks(s.Quests, a.DayIndex)
	t := &quests[a.DayIndex].Tasks[ti]
	t.Completed = !t.Completed

	delta := t.XP
	if !t.Completed {
		delta = -t.XP
	}
	s.Quests = quests
	s.TotalXP += delta
	s.Level = LevelForTotalXP(s.TotalXP)

	date := ISODate(a.At)
	if !t.Completed {
		return s, []Effect{
			CompletionRemoved{TaskID: a.TaskID, DayIndex: a.DayIndex},
			ActivityDelta{Date: date, Tasks: -1, XP: -t.XP},
		}
	}

	effects := []Effect{
		CompletionLogged{Completion: model.TaskCompletion{
			TaskID:      a.TaskID,
			DayIndex:    a.DayIndex,
			CompletedAt: a.At.UTC(),
		}},
		ActivityDelta{Date: date, Tasks: 1, XP: t.XP},
	}

	if !t.Shared || t.AssignedTo == nil || s.CurrentUserID == nil || *t.AssignedTo != *s.CurrentUserID {
		return s, effects
	}
	me := *s.CurrentUserID
	for _, st := range s.SharedTasks {
		if st.TaskID != a.TaskID || st.DayIndex != a.DayIndex || st.ToUserID != me {
			continue
		}
		effects = append(effects,
			SharedTaskCompleted{TaskID: a.TaskID, DayIndex: a.DayIndex, ToUserID: me, At: a.At},
			Notify{Notification: model.Notification{
				ID:         a.NotificationID,
				Type:       model.NotifyTaskCompleted,
				FromUserID: me,
				ToUserID:   st.FromUserID,
				RelatedID:  model.StringPtr(a.TaskID),
				CreatedAt:  a.At.UTC(),
			}},
		)
		break
	}
	return s, effects
}

func completeDay(s model.AppState, a CompleteDay) model.AppState {
	if a.DayIndex < 0 || a.DayIndex >= len(s.DayCompleted) {
		return s
	}
	done := slices.Clone(s.DayCompleted)
	done[a.DayIndex] = true
	s.DayCompleted = done
	if a.DayIndex < len(s.Quests)-1 {
		s.CurrentDay = a.DayIndex + 2
	}
	return s
}

func startBreak(s model.AppState, a StartBreak) model.AppState {
	rec := model.BreakRecord{
		ID:        a.BreakID,
		StartTime: a.StartTime.UTC(),
		Duration:  BreakDurationSeconds,
		Completed: false,
		Date:      ISODate(a.StartTime),
	}
	history := make([]model.BreakRecord, 0, len(s.BreakHistory)+1)
	history = append(history, rec)
	s.BreakHistory = append(history, s.BreakHistory...)
	s.BreakActive = true
	s.BreakTimeLeft = BreakDurationSeconds
	s.CurrentBreakID = model.StringPtr(a.BreakID)
	return s
}

func endBreak(s model.AppState, a EndBreak) (model.AppState, []Effect) {
	if s.CurrentBreakID != nil {
		history := slices.Clone(s.BreakHistory)
		for i := range history {
			if history[i].ID == *s.CurrentBreakID {
				history[i].Completed = a.Completed
			}
		}
		s.BreakHistory = history
	}
	s.BreakActive = false
	s.BreakTimeLeft = BreakDurationSeconds
	s.CurrentBreakID = nil
	if !a.Completed {
		return s, nil
	}
	return s, []Effect{ActivityDelta{Date: ISODate(a.At), Breaks: 1}}
}

func redeemReward(s model.AppState, a RedeemReward) model.AppState {
	rewards := slices.Clone(s.RealRewards)
	for i := range rewards {
		if rewards[i].ID == a.RewardID {
			rewards[i].Redeemed = true
		}
	}
	s.RealRewards = rewards
	return s
}

func updateActiveTime(s model.AppState, a UpdateActiveTime) (model.AppState, []Effect) {
	ts := a.Timestamp.UTC()
	last := s.Analytics.LastActiveTimestamp
	if last == nil {
		s.Analytics.LastActiveTimestamp = &ts
		return s, nil
	}
	minutes := int(ts.Sub(*last) / time.Minute)
	if minutes < 1 {
		return s, nil
	}
	s.Analytics.TotalActiveTimeMinutes += minutes
	s.Analytics.LastActiveTimestamp = &ts
	return s, []Effect{ActivityDelta{Date: ISODate(ts), ActiveMinutes: minutes}}
}

func addUser(s model.AppState, a AddUser) model.AppState {
	if a.UserID == "" || userIndex(s.Users, a.UserID) >= 0 {
		return s
	}
	users := make([]model.User, 0, len(s.Users)+1)
	users = append(users, s.Users...)
	s.Users = append(users, model.User{
		ID:        a.UserID,
		Name:      a.Name,
		Avatar:    a.Avatar,
		CreatedAt: a.At.UTC(),
		Friends:   []string{},
	})
	s.CurrentUserID = model.StringPtr(a.UserID)
	return s
}

func addFriend(s model.AppState, a AddFriend) (model.AppState, []Effect) {
	ui := userIndex(s.Users, a.UserID)
	if ui < 0 || userIndex(s.Users, a.FriendID) < 0 {
		return s, nil
	}
	if !slices.Contains(s.Users[ui].Friends, a.FriendID) {
		users := slices.Clone(s.Users)
		friends := make([]string, 0, len(users[ui].Friends)+1)
		friends = append(friends, users[ui].Friends...)
		users[ui].Friends = append(friends, a.FriendID)
		s.Users = users
	}
	return s, []Effect{Notify{Notification: model.Notification{
		ID:         a.NotificationID,
		Type:       model.NotifyFriendAccepted,
		FromUserID: a.UserID,
		ToUserID:   a.FriendID,
		CreatedAt:  a.At.UTC(),
	}}}
}

func removeFriend(s model.AppState, a RemoveFriend) model.AppState {
	ui := userIndex(s.Users, a.UserID)
	if ui < 0 {
		return s
	}
	users := slices.Clone(s.Users)
	friends := make([]string, 0, len(users[ui].Friends))
	for _, id := range users[ui].Friends {
		if id != a.FriendID {
			friends = append(friends, id)
		}
	}
	users[ui].Friends = friends
	s.Users = users
	return s
}

func shareTask(s model.AppState, a ShareTask) (model.AppState, []Effect) {
	if userIndex(s.Users, a.FromUserID) < 0 || userIndex(s.Users, a.ToUserID) < 0 {
		return s, nil
	}
	if a.DayIndex < 0 || a.DayIndex >= len(s.Quests) {
		return s, nil
	}
	ti := taskIndex(s.Quests[a.DayIndex].Tasks, a.TaskID)
	if ti < 0 {
		return s, nil
	}

	quests := cloneQuestTasks(s.Quests, a.DayIndex)
	t := &quests[a.DayIndex].Tasks[ti]
	t.Shared = true
	t.AssignedTo = model.StringPtr(a.ToUserID)
	t.AssignedBy = model.StringPtr(a.FromUserID)
	s.Quests = quests

	shared := make([]model.SharedTask, 0, len(s.SharedTasks)+1)
	shared = append(shared, s.SharedTasks...)
	s.SharedTasks = append(shared, model.SharedTask{
		ID:         a.SharedTaskID,
		TaskID:     a.TaskID,
		DayIndex:   a.DayIndex,
		FromUserID: a.FromUserID,
		ToUserID:   a.ToUserID,
		Status:     model.SharedPending,
		CreatedAt:  a.At.UTC(),
	})

	return s, []Effect{Notify{Notification: model.Notification{
		ID:         a.NotificationID,
		Type:       model.NotifyTaskShared,
		FromUserID: a.FromUserID,
		ToUserID:   a.ToUserID,
		RelatedID:  model.StringPtr(a.TaskID),
		CreatedAt:  a.At.UTC(),
	}}}
}

func updateSharedTask(s model.AppState, a UpdateSharedTask) model.AppState {
	si := slices.IndexFunc(s.SharedTasks, func(st model.SharedTask) bool { return st.ID == a.SharedTaskID })
	if si < 0 {
		return s
	}
	shared := slices.Clone(s.SharedTasks)
	shared[si].Status = a.Status
	if a.CompletedAt != nil {
		shared[si].CompletedAt = model.TimePtr(*a.CompletedAt)
	}
	s.SharedTasks = shared

	if a.Status != model.SharedRejected {
		return s
	}
	st := shared[si]
	if st.DayIndex < 0 || st.DayIndex >= len(s.Quests) {
		return s
	}
	ti := taskIndex(s.Quests[st.DayIndex].Tasks, st.TaskID)
	if ti < 0 {
		return s
	}
	quests := cloneQuestTasks(s.Quests, st.DayIndex)
	t := &quests[st.DayIndex].Tasks[ti]
	t.Shared = false
	t.AssignedTo = nil
	t.AssignedBy = nil
	s.Quests = quests
	return s
}

func markNotificationRead(s model.AppState, a MarkNotificationRead) model.AppState {
	notes := slices.Clone(s.Notifications)
	for i := range notes {
		if notes[i].ID == a.NotificationID {
			notes[i].Read = true
		}
	}
	s.Notifications = notes
	return s
}
