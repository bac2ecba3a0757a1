package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cleanquest/internal/engine"
)

// RunBoard shows the interactive board until the user quits. Active time is
// tracked every activeTick while the board is open, and a break that was
// already running keeps counting down.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer, activeTick time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := trackActivity(ctx, svc, activeTick)
	defer stop()
	if svc.State().BreakActive {
		svc.StartCountdown(ctx)
	}

	m := newBoardModel(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// trackActivity runs the active-time tracker until the returned stop func is
// called. stop waits for an in-flight save, so the store may be closed after.
func trackActivity(ctx context.Context, svc *engine.Service, tick time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.TrackActivity(ctx, tick)
	}()
	return func() {
		cancel()
		<-done
	}
}
