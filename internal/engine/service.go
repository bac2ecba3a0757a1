package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"cleanquest/internal/model"
	"cleanquest/internal/sound"
)

// StateStore persists the serialized state document.
type StateStore interface {
	// Load returns nil, nil when nothing has been stored yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}

// Service owns the application state. Every change goes through one mutex,
// is reduced, and is then saved before the next change is accepted.
type Service struct {
	mu    sync.Mutex
	state model.AppState

	store StateStore
	sound sound.Player
	log   *slog.Logger

	now       func() time.Time
	newID     func(prefix string, now time.Time) string
	breakTick time.Duration
	meters    metric.MeterProvider
	metrics   instruments

	countdown *countdown
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDSource(fn func(prefix string, now time.Time) string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithBreakTick sets the countdown interval (one second of break time per tick).
func WithBreakTick(d time.Duration) Option {
	return func(s *Service) { s.breakTick = d }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meters = mp }
}

func NewService(store StateStore, player sound.Player, opts ...Option) *Service {
	s := &Service{
		store:     store,
		sound:     player,
		log:       slog.Default(),
		now:       time.Now,
		newID:     NewID,
		breakTick: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sound == nil {
		s.sound = sound.Nop{}
	}
	s.log = s.log.With("component", "engine")
	s.metrics = newInstruments(s.meters)
	s.state = InitialState(s.now())
	return s
}

// Load replaces the in-memory state with the persisted one (or a fresh
// install) and settles a break that was running when the app last stopped.
// A store that cannot be read leaves the app running on default state.
func (s *Service) Load(ctx context.Context) {
	state := InitialState(s.now())
	blob, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.loadFailures.Add(ctx, 1)
		s.log.WarnContext(ctx, "state load failed, starting fresh", "error", err)
		blob = nil
	}
	if blob != nil {
		var stored model.AppState
		if err := json.Unmarshal(blob, &stored); err != nil {
			s.log.WarnContext(ctx, "stored state unreadable, starting fresh", "error", err)
		} else {
			state = stored
		}
	}

	s.mu.Lock()
	s.stopCountdownLocked()
	s.dispatchLocked(ctx, InitState{State: state})
	ended := s.resumeBreakLocked(ctx)
	enabled := s.state.SoundEnabled
	s.mu.Unlock()

	s.sound.SetEnabled(enabled)
	if ended {
		s.playIfEnabled(s.sound.PlayBreakEnd)
	}
}

// resumeBreakLocked recomputes the time left of an active break from its
// start time, finishing it when it has already run out.
func (s *Service) resumeBreakLocked(ctx context.Context) bool {
	if !s.state.BreakActive || s.state.CurrentBreakID == nil {
		return false
	}
	now := s.now()
	for _, b := range s.state.BreakHistory {
		if b.ID != *s.state.CurrentBreakID {
			continue
		}
		elapsed := int(now.Sub(b.StartTime) / time.Second)
		if elapsed < b.Duration {
			s.dispatchLocked(ctx, UpdateBreakTime{TimeLeft: b.Duration - elapsed})
			return false
		}
		s.dispatchLocked(ctx, EndBreak{Completed: true, At: now})
		return true
	}
	return false
}

// State returns a copy of the current state.
func (s *Service) State() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CloneState(s.state)
}

// Dispatch reduces a into the state and persists the result.
func (s *Service) Dispatch(ctx context.Context, a Action) []Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, a)
}

func (s *Service) dispatchLocked(ctx context.Context, a Action) []Effect {
	next, effects := Transition(s.state, a)
	s.state = ApplyEffects(next, effects)
	s.metrics.recordDispatch(ctx, a, effects)
	if len(effects) > 0 {
		kinds := make([]string, len(effects))
		for i, e := range effects {
			kinds[i] = string(e.Kind())
		}
		s.log.DebugContext(ctx, "dispatch", "action", a.Type(), "effects", strings.Join(kinds, ","))
	} else {
		s.log.DebugContext(ctx, "dispatch", "action", a.Type())
	}
	s.persistLocked(ctx)
	return effects
}

// persistLocked saves a snapshot. Failures are logged and counted; the
// in-memory state stays authoritative.
func (s *Service) persistLocked(ctx context.Context) {
	blob, err := json.Marshal(s.state)
	if err == nil {
		err = s.store.Save(ctx, blob)
	}
	if err != nil {
		s.metrics.saveFailures.Add(ctx, 1)
		s.log.WarnContext(ctx, "state save failed", "error", err)
	}
}

// Close stops the break countdown and writes a final snapshot.
func (s *Service) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
	s.persistLocked(ctx)
}

func (s *Service) playIfEnabled(play func()) {
	if s.sound.IsAvailable() {
		play()
	}
}

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", errors.New("name is required")
	}
	return n, nil
}
