package sound

// Cue names one of the short effects the app plays.
type Cue string

const (
	CueClick      Cue = "click"
	CueComplete   Cue = "complete"
	CueReward     Cue = "reward"
	CueBreakStart Cue = "break-start"
	CueBreakEnd   Cue = "break-end"
)

// Cues lists every cue; each maps to <cue>.wav in the sound directory.
var Cues = []Cue{CueClick, CueComplete, CueReward, CueBreakStart, CueBreakEnd}

// Player plays feedback sounds. Calls never block and never fail; an
// unavailable or disabled player does nothing.
type Player interface {
	PlayClick()
	PlayComplete()
	PlayReward()
	PlayBreakStart()
	PlayBreakEnd()
	SetEnabled(enabled bool)
	IsAvailable() bool
}

// Nop is a Player with no audio device.
type Nop struct{}

func (Nop) PlayClick()        {}
func (Nop) PlayComplete()     {}
func (Nop) PlayReward()       {}
func (Nop) PlayBreakStart()   {}
func (Nop) PlayBreakEnd()     {}
func (Nop) SetEnabled(bool)   {}
func (Nop) IsAvailable() bool { return false }
