package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"cleanquest/internal/model"
	"cleanquest/internal/sound"
)

type memStore struct {
	mu      sync.Mutex
	blob    []byte
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.blob, nil
}

func (m *memStore) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.blob = append([]byte(nil), blob...)
	m.saves++
	return nil
}

func (m *memStore) stored(t *testing.T) model.AppState {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var s model.AppState
	require.NoError(t, json.Unmarshal(m.blob, &s))
	return s
}

type recordingPlayer struct {
	mu      sync.Mutex
	enabled bool
	cues    []sound.Cue
}

func (p *recordingPlayer) record(c sound.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		p.cues = append(p.cues, c)
	}
}

func (p *recordingPlayer) PlayClick()      { p.record(sound.CueClick) }
func (p *recordingPlayer) PlayComplete()   { p.record(sound.CueComplete) }
func (p *recordingPlayer) PlayReward()     { p.record(sound.CueReward) }
func (p *recordingPlayer) PlayBreakStart() { p.record(sound.CueBreakStart) }
func (p *recordingPlayer) PlayBreakEnd()   { p.record(sound.CueBreakEnd) }

func (p *recordingPlayer) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

func (p *recordingPlayer) IsAvailable() bool { return true }

func (p *recordingPlayer) played() []sound.Cue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sound.Cue(nil), p.cues...)
}

// testClock returns now and then moves forward by step.
type testClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sequentialIDs() func(prefix string, now time.Time) string {
	var mu sync.Mutex
	n := 0
	return func(prefix string, _ time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-test-%d", prefix, n)
	}
}

type fixture struct {
	svc    *Service
	store  *memStore
	player *recordingPlayer
	clock  *testClock
}

func newFixture(t *testing.T, store *memStore, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store:  store,
		player: &recordingPlayer{},
		clock:  &testClock{now: t0},
	}
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(f.clock.Now),
		WithIDSource(sequentialIDs()),
		WithMeterProvider(sdkmetric.NewMeterProvider()),
	}
	f.svc = NewService(store, f.player, append(base, opts...)...)
	f.svc.Load(context.Background())
	return f
}

func storeWith(t *testing.T, s model.AppState) *memStore {
	t.Helper()
	blob, err := json.Marshal(s)
	require.NoError(t, err)
	return &memStore{blob: blob}
}

func TestServiceLoadFreshInstall(t *testing.T) {
	f := newFixture(t, &memStore{})

	s := f.svc.State()
	assert.Equal(t, 1, s.CurrentDay)
	assert.Len(t, s.Quests, 3)
	assert.Equal(t, DefaultUserID, *s.CurrentUserID)
	assert.Positive(t, f.store.saves)
	assert.Equal(t, s, f.store.stored(t))
}

func TestServiceLoadStoredState(t *testing.T) {
	stored := Reduce(InitialState(t0), ToggleTask{DayIndex: 0, TaskID: "1-4", At: t0})
	stored.SoundEnabled = false
	f := newFixture(t, storeWith(t, stored))

	s := f.svc.State()
	assert.Equal(t, 30, s.TotalXP)
	assert.True(t, s.Quests[0].Tasks[3].Completed)

	_, err := f.svc.CompleteTask(context.Background(), "1-1")
	require.NoError(t, err)
	assert.Empty(t, f.player.played(), "sound preference from the stored state is honoured")
}

func TestServiceLoadUnreadableStateStartsFresh(t *testing.T) {
	f := newFixture(t, &memStore{blob: []byte("{not json")})
	assert.Zero(t, f.svc.State().TotalXP)
	assert.Len(t, f.svc.State().Quests, 3)
}

func TestServiceLoadErrorStartsFresh(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	store := &memStore{loadErr: errors.New("disk gone")}
	f := newFixture(t, store, WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))))

	s := f.svc.State()
	assert.Len(t, s.Quests, 3)
	assert.Zero(t, s.TotalXP)
	assert.Equal(t, int64(1), counterValue(t, reader, "cleanquest.load.failures", "", ""))

	res, err := f.svc.CompleteTask(context.Background(), "1-1")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 10, store.stored(t).TotalXP)
}

func TestServiceLoadResumesRunningBreak(t *testing.T) {
	stored := Reduce(InitialState(t0), StartBreak{BreakID: "b1", StartTime: t0.Add(-100 * time.Second)})
	f := newFixture(t, storeWith(t, stored))

	s := f.svc.State()
	assert.True(t, s.BreakActive)
	assert.Equal(t, 200, s.BreakTimeLeft)
}

func TestServiceLoadFinishesExpiredBreak(t *testing.T) {
	stored := Reduce(InitialState(t0), StartBreak{BreakID: "b1", StartTime: t0.Add(-400 * time.Second)})
	f := newFixture(t, storeWith(t, stored))

	s := f.svc.State()
	assert.False(t, s.BreakActive)
	assert.Nil(t, s.CurrentBreakID)
	assert.True(t, s.BreakHistory[0].Completed)
	assert.Equal(t, 1, s.Analytics.DailyActivity[ISODate(t0)].BreaksCompleted)
	assert.Equal(t, []sound.Cue{sound.CueBreakEnd}, f.player.played())
}

func TestServiceCompletingLastTaskCompletesDay(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	var last *ToggleResult
	for _, task := range DefaultQuests()[0].Tasks {
		res, err := f.svc.CompleteTask(ctx, task.ID)
		require.NoError(t, err)
		last = res
	}

	assert.True(t, last.DayCompleted)
	assert.True(t, last.Completed)
	s := f.svc.State()
	assert.Equal(t, []bool{true, false, false}, s.DayCompleted)
	assert.Equal(t, 2, s.CurrentDay)
	assert.Equal(t, 100, s.TotalXP)

	cues := f.player.played()
	require.Len(t, cues, 6)
	assert.Equal(t, sound.CueReward, cues[5])
	for _, c := range cues[:5] {
		assert.Equal(t, sound.CueComplete, c)
	}

	// undoing keeps the day marked complete
	res, err := f.svc.UncompleteTask(ctx, "1-1")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, -10, res.XPDelta)
	assert.True(t, f.svc.State().DayCompleted[0])
}

func TestServiceToggleReportsLevelUp(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()
	for _, d := range []int{0, 1} {
		for _, task := range DefaultQuests()[d].Tasks[1:] {
			_, err := f.svc.CompleteTask(ctx, task.ID)
			require.NoError(t, err)
		}
	}
	require.Equal(t, 180, f.svc.State().TotalXP)

	res, err := f.svc.CompleteTask(ctx, "1-1")
	require.NoError(t, err)
	assert.False(t, res.LevelUp)

	res, err = f.svc.CompleteTask(ctx, "2-1")
	require.NoError(t, err)
	assert.True(t, res.LevelUp)
	assert.Equal(t, 1, res.LevelBefore)
	assert.Equal(t, 2, res.LevelAfter)
}

func TestServiceTaskErrors(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	_, err := f.svc.UncompleteTask(ctx, "1-1")
	assert.Error(t, err)

	_, err = f.svc.CompleteTask(ctx, "1-1")
	require.NoError(t, err)
	_, err = f.svc.CompleteTask(ctx, "1-1")
	assert.Error(t, err)

	_, err = f.svc.CompleteTask(ctx, "9-9")
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "task", nf.Kind)

	_, err = f.svc.ToggleTask(ctx, 5, "1-1")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "day", nf.Kind)
}

func TestServiceCompleteDayRequiresAllTasks(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	assert.Error(t, f.svc.CompleteDay(ctx, 0))
	assert.Error(t, f.svc.CompleteDay(ctx, 3))

	for _, task := range DefaultQuests()[2].Tasks {
		_, err := f.svc.ToggleTask(ctx, 2, task.ID)
		require.NoError(t, err)
	}
	require.NoError(t, f.svc.CompleteDay(ctx, 2))
	assert.True(t, f.svc.State().DayCompleted[2])

	require.NoError(t, f.svc.SwitchDay(ctx, 2))
	assert.Equal(t, 2, f.svc.State().CurrentDay)
	assert.Error(t, f.svc.SwitchDay(ctx, 0))
	assert.Error(t, f.svc.SwitchDay(ctx, 4))
}

func TestServiceRedeemReward(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	_, _, err := f.svc.RedeemReward(ctx, 1)
	var gate GateError
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, 100, gate.RequiredXP)
	assert.Zero(t, gate.CurrentXP)

	for _, task := range DefaultQuests()[0].Tasks {
		_, err := f.svc.CompleteTask(ctx, task.ID)
		require.NoError(t, err)
	}

	r, code, err := f.svc.RedeemReward(ctx, 1)
	require.NoError(t, err)
	assert.True(t, r.Redeemed)
	assert.True(t, strings.HasPrefix(code, "CLEAN-"))
	assert.True(t, f.store.stored(t).RealRewards[0].Redeemed)

	_, _, err = f.svc.RedeemReward(ctx, 1)
	assert.ErrorIs(t, err, ErrAlreadyRedeemed)

	_, _, err = f.svc.RedeemReward(ctx, 42)
	assert.ErrorAs(t, err, &NotFoundError{})
}

func TestServiceBreakCommands(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	rec, err := f.svc.StartBreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, BreakID(t0), rec.ID)
	assert.Equal(t, BreakDurationSeconds, rec.Duration)

	_, err = f.svc.StartBreak(ctx)
	assert.ErrorIs(t, err, ErrBreakActive)
	assert.False(t, f.svc.RecordActivity(ctx))

	left, active := f.svc.TickBreak(ctx)
	assert.Equal(t, 299, left)
	assert.True(t, active)

	require.NoError(t, f.svc.EndBreak(ctx, false))
	s := f.svc.State()
	assert.False(t, s.BreakActive)
	assert.False(t, s.BreakHistory[0].Completed)
	assert.ErrorIs(t, f.svc.EndBreak(ctx, false), ErrNoBreak)

	left, active = f.svc.TickBreak(ctx)
	assert.Zero(t, left)
	assert.False(t, active)
}

func TestServiceTickingEndsBreakAsCompleted(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	_, err := f.svc.StartBreak(ctx)
	require.NoError(t, err)
	for i := 0; i < BreakDurationSeconds-1; i++ {
		f.svc.TickBreak(ctx)
	}
	require.Equal(t, 1, f.svc.State().BreakTimeLeft)

	left, active := f.svc.TickBreak(ctx)
	assert.Zero(t, left)
	assert.False(t, active)
	s := f.svc.State()
	assert.True(t, s.BreakHistory[0].Completed)
	assert.Equal(t, 1, s.Analytics.DailyActivity[ISODate(t0)].BreaksCompleted)
	assert.Equal(t, []sound.Cue{sound.CueBreakStart, sound.CueBreakEnd}, f.player.played())
}

func TestServiceRecordActivity(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	assert.True(t, f.svc.RecordActivity(ctx))
	f.clock.Advance(3*time.Minute + 20*time.Second)
	assert.True(t, f.svc.RecordActivity(ctx))

	s := f.svc.State()
	assert.Equal(t, 3, s.Analytics.TotalActiveTimeMinutes)
	assert.Equal(t, 3, s.Analytics.DailyActivity[ISODate(t0)].ActiveTimeMinutes)
}

func TestServiceActivitySessionSkipsGap(t *testing.T) {
	stored := Reduce(InitialState(t0), UpdateActiveTime{Timestamp: t0.AddDate(0, 0, -3)})
	f := newFixture(t, storeWith(t, stored))
	ctx := context.Background()

	f.svc.BeginActivitySession(ctx)
	f.clock.Advance(2 * time.Minute)
	require.True(t, f.svc.RecordActivity(ctx))

	assert.Equal(t, 2, f.svc.State().Analytics.TotalActiveTimeMinutes)
}

func TestServiceBreakTimeIsNotActiveTime(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	require.True(t, f.svc.RecordActivity(ctx))
	_, err := f.svc.StartBreak(ctx)
	require.NoError(t, err)
	f.clock.Advance(4 * time.Minute)
	require.NoError(t, f.svc.EndBreak(ctx, false))

	f.clock.Advance(70 * time.Second)
	require.True(t, f.svc.RecordActivity(ctx))
	assert.Equal(t, 1, f.svc.State().Analytics.TotalActiveTimeMinutes)
}

func TestServiceSoundToggle(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	assert.False(t, f.svc.ToggleSound(ctx))
	_, err := f.svc.CompleteTask(ctx, "1-1")
	require.NoError(t, err)
	assert.Empty(t, f.player.played())

	assert.True(t, f.svc.ToggleSound(ctx))
	assert.Equal(t, []sound.Cue{sound.CueClick}, f.player.played())
	assert.True(t, f.store.stored(t).SoundEnabled)
}

func TestServiceSharingFlow(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	sam, err := f.svc.AddUser(ctx, "  Sam ", "")
	require.NoError(t, err)
	assert.Equal(t, "Sam", sam.Name)
	assert.Equal(t, defaultUserAvatar, sam.Avatar)
	assert.Equal(t, sam.ID, *f.svc.State().CurrentUserID)

	_, err = f.svc.AddUser(ctx, "   ", "")
	assert.Error(t, err)
	assert.ErrorAs(t, f.svc.SwitchUser(ctx, "ghost"), &NotFoundError{})

	require.NoError(t, f.svc.SwitchUser(ctx, DefaultUserID))
	assert.Error(t, f.svc.AddFriend(ctx, DefaultUserID))
	assert.ErrorAs(t, f.svc.AddFriend(ctx, "ghost"), &NotFoundError{})
	require.NoError(t, f.svc.AddFriend(ctx, sam.ID))

	_, err = f.svc.ShareTask(ctx, "1-2", DefaultUserID)
	assert.Error(t, err)
	_, err = f.svc.ShareTask(ctx, "9-9", sam.ID)
	assert.ErrorAs(t, err, &NotFoundError{})

	st, err := f.svc.ShareTask(ctx, "1-2", sam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SharedPending, st.Status)
	assert.Equal(t, 0, st.DayIndex)

	err = f.svc.RespondSharedTask(ctx, st.ID, model.SharedAccepted)
	assert.Error(t, err, "only the recipient may respond")

	require.NoError(t, f.svc.SwitchUser(ctx, sam.ID))
	assert.Equal(t, 2, UnreadCount(f.svc.State()), "friend and share notifications")
	assert.ErrorAs(t, f.svc.RespondSharedTask(ctx, st.ID, model.SharedPending), &InvalidStatusError{})
	assert.ErrorAs(t, f.svc.RespondSharedTask(ctx, st.ID, "bogus"), &InvalidStatusError{})
	require.NoError(t, f.svc.RespondSharedTask(ctx, st.ID, model.SharedAccepted))

	_, err = f.svc.CompleteTask(ctx, "1-2")
	require.NoError(t, err)
	s := f.svc.State()
	assert.Equal(t, model.SharedCompleted, s.SharedTasks[0].Status)
	require.NotNil(t, s.SharedTasks[0].CompletedAt)

	n, err := f.svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, f.svc.SwitchUser(ctx, DefaultUserID))
	inbox := NotificationsFor(f.svc.State(), DefaultUserID)
	require.Len(t, inbox, 1)
	assert.Equal(t, model.NotifyTaskCompleted, inbox[0].Type)
	require.NoError(t, f.svc.MarkNotificationRead(ctx, inbox[0].ID))
	assert.Zero(t, UnreadCount(f.svc.State()))
	assert.ErrorAs(t, f.svc.MarkNotificationRead(ctx, "nope"), &NotFoundError{})

	require.NoError(t, f.svc.RemoveFriend(ctx, sam.ID))
	assert.Empty(t, Friends(f.svc.State()))
}

func TestServiceAddNotification(t *testing.T) {
	f := newFixture(t, &memStore{})
	n := f.svc.AddNotification(context.Background(), model.NotifyFriendRequest, "user-9", DefaultUserID, nil)
	assert.Equal(t, "notification-test-1", n.ID)
	assert.Equal(t, t0, n.CreatedAt)
	assert.Equal(t, 1, UnreadCount(f.svc.State()))
}

func TestServiceImportReplacesState(t *testing.T) {
	f := newFixture(t, &memStore{})
	ctx := context.Background()

	imported := completeDayTasks(InitialState(t0), 1, t0)
	imported.SoundEnabled = false
	f.svc.Import(ctx, imported)

	s := f.svc.State()
	assert.Equal(t, 100, s.TotalXP)
	assert.False(t, s.SoundEnabled)
	assert.Equal(t, s, f.store.stored(t))
}

func TestServiceSaveFailureIsNotFatal(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	store := &memStore{}
	f := newFixture(t, store, WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))))
	ctx := context.Background()

	store.mu.Lock()
	store.saveErr = errors.New("database is locked")
	store.mu.Unlock()

	res, err := f.svc.CompleteTask(ctx, "1-1")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 10, f.svc.State().TotalXP)

	assert.Equal(t, int64(1), counterValue(t, reader, "cleanquest.save.failures", "", ""))
}

func TestServiceRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	f := newFixture(t, &memStore{}, WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))))
	ctx := context.Background()

	_, err := f.svc.CompleteTask(ctx, "1-1")
	require.NoError(t, err)
	_, err = f.svc.CompleteTask(ctx, "1-2")
	require.NoError(t, err)

	assert.Equal(t, int64(2), counterValue(t, reader, "cleanquest.actions", "action", string(ActionToggleTask)))
	assert.Equal(t, int64(1), counterValue(t, reader, "cleanquest.actions", "action", string(ActionInitState)))
	assert.Equal(t, int64(2), counterValue(t, reader, "cleanquest.effects", "effect", string(EffectCompletionLogged)))
	assert.Zero(t, counterValue(t, reader, "cleanquest.save.failures", "", ""))
}

// counterValue sums the data points of an int64 counter, optionally filtered
// by one attribute.
func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name, key, value string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if key != "" {
					v, ok := dp.Attributes.Value(attribute.Key(key))
					if !ok || v.AsString() != value {
						continue
					}
				}
				total += dp.Value
			}
		}
	}
	return total
}
