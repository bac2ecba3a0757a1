package engine

import (
	"errors"
	"fmt"
)

var (
	ErrBreakActive     = errors.New("a break is already running")
	ErrNoBreak         = errors.New("no break is running")
	ErrAlreadyRedeemed = errors.New("reward already redeemed")
	ErrNoCurrentUser   = errors.New("no current user selected")
)

// GateError indicates a reward is locked behind a required amount of XP.
// This is returned by gate checks and should be shown to the user.
type GateError struct {
	Feature    string
	RequiredXP int
	CurrentXP  int
}

func (e GateError) Error() string {
	if e.RequiredXP <= 0 {
		return fmt.Sprintf("'%s' is locked", e.Feature)
	}
	return fmt.Sprintf("'%s' unlocks at %d XP (you have %d)", e.Feature, e.RequiredXP, e.CurrentXP)
}

// NotFoundError reports a reference to a missing day, task, user, reward,
// shared task or notification.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

type InvalidStatusError struct {
	Status string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid shared task status %q (want accepted, rejected or completed)", e.Status)
}
