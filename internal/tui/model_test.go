package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanquest/internal/engine"
	"cleanquest/internal/sound"
)

type emptyStore struct{}

func (emptyStore) Load(context.Context) ([]byte, error) { return nil, nil }
func (emptyStore) Save(context.Context, []byte) error   { return nil }

func newTestBoard(t *testing.T) boardModel {
	t.Helper()
	svc := engine.NewService(emptyStore{}, sound.Nop{},
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	svc.Load(context.Background())

	m := newBoardModel(context.Background(), svc)
	next, _ := m.Update(m.loadCmd()())
	return next.(boardModel)
}

func press(m boardModel, k tea.KeyMsg) (boardModel, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(boardModel), cmd
}

func TestBoardLoadsCurrentDay(t *testing.T) {
	m := newTestBoard(t)
	assert.True(t, m.loaded)
	assert.Equal(t, 0, m.day)
	assert.Len(t, m.tasks(), 6)
	assert.Contains(t, m.View(), "The Hall & Balcony Cleanup")
}

func TestBoardNavigation(t *testing.T) {
	m := newTestBoard(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.selected)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, m.selected)

	for i := 0; i < 10; i++ {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 5, m.selected)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.day)
	assert.Equal(t, 0, m.selected)

	info, ok := cmd().(infoMsg)
	require.True(t, ok)
	assert.NoError(t, info.err)
	assert.Equal(t, 2, m.svc.State().CurrentDay)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.day)
	assert.Nil(t, cmd)
}

func TestBoardToggleUpdatesLog(t *testing.T) {
	m := newTestBoard(t)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	require.NotNil(t, cmd)
	msg := cmd()
	toggled, ok := msg.(toggledMsg)
	require.True(t, ok)
	require.NoError(t, toggled.err)

	next, reload := m.Update(msg)
	m = next.(boardModel)
	assert.Equal(t, "Completed 1-1: +10 XP", m.lastLog)
	require.NotNil(t, reload)

	next, _ = m.Update(reload())
	m = next.(boardModel)
	assert.Equal(t, 10, m.state.TotalXP)
	assert.True(t, m.tasks()[0].Completed)
}

func TestBoardQuit(t *testing.T) {
	m := newTestBoard(t)
	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestToggleLog(t *testing.T) {
	assert.Equal(t, "Reopened 2-1: -20 XP", toggleLog(&engine.ToggleResult{TaskID: "2-1", XPDelta: -20}))

	line := toggleLog(&engine.ToggleResult{
		TaskID: "1-6", Completed: true, XPDelta: 10,
		LevelUp: true, LevelBefore: 1, LevelAfter: 2, DayCompleted: true,
	})
	assert.Contains(t, line, "Completed 1-6: +10 XP")
	assert.Contains(t, line, "1 → 2")
}

func TestClampDay(t *testing.T) {
	assert.Equal(t, 0, clampDay(-1, 3))
	assert.Equal(t, 1, clampDay(1, 3))
	assert.Equal(t, 2, clampDay(7, 3))
	assert.Equal(t, 0, clampDay(2, 0))
}
