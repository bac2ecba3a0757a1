package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CleanQuest theme (CLI + TUI).
// Kept small: reusable styles and a few emojis.

const (
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconUndo    = "↩️"
	IconBreak   = "☕"
	IconTimer   = "⏱️"
	IconGift    = "🎁"
	IconLock    = "🔒"
	IconBell    = "🔔"
	IconUsers   = "👥"
	IconShare   = "📤"
	IconChart   = "📊"
	IconFire    = "🔥"
	IconSound   = "🔊"
	IconMute    = "🔇"
	IconDisk    = "💾"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeDayDone = lipgloss.NewStyle().Bold(true).Foreground(cGood).Render("DAY COMPLETE")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Check renders a task checkbox.
func Check(done bool) string {
	if done {
		return IconDone
	}
	return IconTodo
}

// SharedStatusText colours a shared task status.
func SharedStatusText(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completed":
		return Good.Render("completed")
	case "accepted":
		return H2.Render("accepted")
	case "pending":
		return Warn.Render("pending")
	case "rejected":
		return Bad.Render("rejected")
	default:
		return Muted.Render(status)
	}
}

// Bar draws a text progress bar for pct (0-100).
func Bar(pct int, width int) string {
	if width <= 0 {
		width = 20
	}
	pct = min(100, max(0, pct))
	filled := pct * width / 100
	return Good.Render(strings.Repeat("█", filled)) + Dim.Render(strings.Repeat("░", width-filled)) + fmt.Sprintf(" %3d%%", pct)
}

// OnOff renders a boolean setting.
func OnOff(on bool) string {
	if on {
		return Good.Render("on")
	}
	return Muted.Render("off")
}
