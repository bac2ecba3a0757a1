package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cleanquest/internal/engine"
	"cleanquest/internal/model"
	"cleanquest/internal/ui"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Toggle  key.Binding
	Break   key.Binding
	Sound   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move")),
		PrevDay: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		NextDay: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "c", "enter"), key.WithHelp("space/c", "toggle task")),
		Break:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start/stop break")),
		Sound:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sound on/off")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.PrevDay, k.Toggle, k.Break, k.Sound, k.Refresh, k.Quit}
}

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	state    model.AppState
	day      int
	selected int

	keys keyMap
	xp   progress.Model

	lastLog string
	loaded  bool
}

type stateMsg struct {
	state model.AppState
}

type toggledMsg struct {
	res *engine.ToggleResult
	err error
}

type tickMsg time.Time

type infoMsg struct {
	text string
	err  error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		keys:    defaultKeys(),
		xp:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: m.svc.State()}
	}
}

func (m boardModel) toggleCmd(day int, taskID string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleTask(m.ctx, day, taskID)
		return toggledMsg{res: res, err: err}
	}
}

func (m boardModel) breakCmd(active bool) tea.Cmd {
	return func() tea.Msg {
		if active {
			err := m.svc.EndBreak(m.ctx, false)
			return infoMsg{text: "Break ended early.", err: err}
		}
		rec, err := m.svc.StartBreak(m.ctx)
		if err != nil {
			return infoMsg{err: err}
		}
		m.svc.StartCountdown(m.ctx)
		return infoMsg{text: fmt.Sprintf("Break started at %s.", rec.StartTime.Local().Format("15:04"))}
	}
}

func (m boardModel) soundCmd() tea.Cmd {
	return func() tea.Msg {
		if m.svc.ToggleSound(m.ctx) {
			return infoMsg{text: "Sound on."}
		}
		return infoMsg{text: "Sound off."}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case stateMsg:
		first := !m.loaded
		m.loaded = true
		m.state = msg.state
		if first {
			m.day = clampDay(msg.state.CurrentDay-1, len(msg.state.Quests))
		}
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.loadCmd(), tick())
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = toggleLog(msg.res)
		return m, m.loadCmd()
	case infoMsg:
		switch {
		case errors.Is(msg.err, engine.ErrBreakActive), errors.Is(msg.err, engine.ErrNoBreak):
			m.lastLog = msg.err.Error()
		case msg.err != nil:
			m.lastLog = "Failed: " + msg.err.Error()
		default:
			m.lastLog = msg.text
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.tasks())-1 {
				m.selected++
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			return m.switchDay(m.day - 1)
		case key.Matches(msg, m.keys.NextDay):
			return m.switchDay(m.day + 1)
		case key.Matches(msg, m.keys.Toggle):
			tasks := m.tasks()
			if m.selected < 0 || m.selected >= len(tasks) {
				return m, nil
			}
			return m, m.toggleCmd(m.day, tasks[m.selected].ID)
		case key.Matches(msg, m.keys.Break):
			return m, m.breakCmd(m.state.BreakActive)
		case key.Matches(msg, m.keys.Sound):
			return m, m.soundCmd()
		}
	}
	return m, nil
}

func (m boardModel) switchDay(day int) (tea.Model, tea.Cmd) {
	if day < 0 || day >= len(m.state.Quests) {
		return m, nil
	}
	m.day = day
	m.selected = 0
	return m, func() tea.Msg {
		err := m.svc.SwitchDay(m.ctx, day+1)
		return infoMsg{text: fmt.Sprintf("Day %d.", day+1), err: err}
	}
}

func (m boardModel) tasks() []model.Task {
	if m.day < 0 || m.day >= len(m.state.Quests) {
		return nil
	}
	return m.state.Quests[m.day].Tasks
}

func toggleLog(res *engine.ToggleResult) string {
	var b strings.Builder
	if res.Completed {
		fmt.Fprintf(&b, "Completed %s: +%d XP", res.TaskID, res.XPDelta)
	} else {
		fmt.Fprintf(&b, "Reopened %s: %d XP", res.TaskID, res.XPDelta)
	}
	if res.LevelUp {
		fmt.Fprintf(&b, " · %s %d → %d", ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
	}
	if res.DayCompleted {
		b.WriteString(" · " + ui.BadgeDayDone)
	}
	return b.String()
}

func (m boardModel) View() string {
	if !m.loaded {
		return "CleanQuest — loading…\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 30
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 20 {
			leftW = 20
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	s := m.state
	lvl := engine.LevelForTotalXP(s.TotalXP)
	cur := engine.XPRequiredForLevel(lvl)
	next := engine.XPRequiredForLevel(lvl + 1)
	ratio := 1.0
	if lvl < engine.MaxLevel && next > cur {
		ratio = float64(s.TotalXP-cur) / float64(next-cur)
	}
	user := "?"
	if u, ok := engine.CurrentUser(s); ok {
		user = u.Avatar + " " + u.Name
	}
	title := ui.Title.Render("CleanQuest")
	return fmt.Sprintf("%s | %s | Level %d | XP %d %s", title, user, lvl, s.TotalXP, m.xp.ViewAs(ratio))
}

func (m boardModel) renderSidebar() string {
	s := m.state
	lines := []string{ui.PanelTitle.Render("Days")}
	for i, q := range s.Quests {
		mark := " "
		if i == m.day {
			mark = ">"
		}
		done := ""
		if i < len(s.DayCompleted) && s.DayCompleted[i] {
			done = " " + ui.IconTrophy
		}
		lines = append(lines, fmt.Sprintf("%s Day %d %3d%%%s", mark, q.Day, engine.DayProgress(s, i), done))
	}
	lines = append(lines, fmt.Sprintf("  Total %3d%%", engine.TotalProgress(s)))
	lines = append(lines, "")

	lines = append(lines, ui.PanelTitle.Render("Break"))
	if s.BreakActive {
		lines = append(lines, fmt.Sprintf("%s %s left", ui.IconBreak, engine.FormatClock(s.BreakTimeLeft)))
	} else {
		lines = append(lines, ui.Muted.Render("not on a break"))
	}
	lines = append(lines, "")

	lines = append(lines, ui.PanelTitle.Render("Rewards"))
	for _, r := range s.RealRewards {
		state := ui.IconLock
		switch {
		case r.Redeemed:
			state = ui.IconDone
		case s.TotalXP >= r.XPRequired:
			state = ui.IconGift
		}
		lines = append(lines, fmt.Sprintf("%s %s %d", state, r.Icon, r.XPRequired))
	}
	if n := engine.UnreadCount(s); n > 0 {
		lines = append(lines, "", fmt.Sprintf("%s %d unread", ui.IconBell, n))
	}
	lines = append(lines, "")

	lines = append(lines, ui.PanelTitle.Render("Keys"))
	for _, b := range m.keys.help() {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	s := m.state
	if m.day < 0 || m.day >= len(s.Quests) {
		return "(no quests)"
	}
	q := s.Quests[m.day]
	out := []string{
		ui.H2.Render(fmt.Sprintf("Day %d: %s", q.Day, q.Title)),
		ui.Muted.Render(fmt.Sprintf("Operation %s · reward %s", q.Operation, q.Reward)),
		"",
	}
	for i, t := range q.Tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %s %s", cursor, ui.Check(t.Completed), t.Description, ui.Muted.Render(fmt.Sprintf("(+%d XP)", t.XP)))
		if t.Shared {
			line += " " + ui.IconShare
		}
		if i == m.selected {
			line = ui.SelectedRow.Render(line)
		}
		out = append(out, line)
	}
	tasks := q.Tasks
	if m.selected >= 0 && m.selected < len(tasks) {
		out = append(out, "", ui.Muted.Render("Tip: "+tasks[m.selected].Tip))
	}
	if title, ok := engine.GrandReward(s); ok {
		out = append(out, "", ui.Gold.Render(ui.IconTrophy+" "+title))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func clampDay(day, n int) int {
	if day < 0 || n == 0 {
		return 0
	}
	if day >= n {
		return n - 1
	}
	return day
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
