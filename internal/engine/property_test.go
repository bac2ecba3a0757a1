package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"cleanquest/internal/model"
)

type taskRef struct {
	day int
	id  string
}

func allTaskRefs() []taskRef {
	var refs []taskRef
	for d, q := range DefaultQuests() {
		for _, t := range q.Tasks {
			refs = append(refs, taskRef{day: d, id: t.ID})
		}
	}
	return refs
}

// replayToggles toggles the picked tasks in order, one minute apart.
func replayToggles(picks []int) model.AppState {
	refs := allTaskRefs()
	s := InitialState(t0)
	for i, p := range picks {
		r := refs[p]
		s = Reduce(s, ToggleTask{DayIndex: r.day, TaskID: r.id, At: t0.Add(time.Duration(i) * time.Minute)})
	}
	return s
}

func completedCount(s model.AppState) int {
	n := 0
	for _, q := range s.Quests {
		for _, t := range q.Tasks {
			if t.Completed {
				n++
			}
		}
	}
	return n
}

func taskDone(s model.AppState, r taskRef) bool {
	for _, t := range s.Quests[r.day].Tasks {
		if t.ID == r.id {
			return t.Completed
		}
	}
	return false
}

func TestToggleProperties(t *testing.T) {
	refs := allTaskRefs()
	picks := gen.SliceOf(gen.IntRange(0, len(refs)-1))

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("total XP always equals the XP of completed tasks", prop.ForAll(
		func(picks []int) bool {
			s := replayToggles(picks)
			return s.TotalXP == CompletedXP(s.Quests) && s.TotalXP >= 0
		},
		picks,
	))

	properties.Property("level follows total XP", prop.ForAll(
		func(picks []int) bool {
			s := replayToggles(picks)
			return s.Level == LevelForTotalXP(s.TotalXP) && s.Level >= 1 && s.Level <= MaxLevel
		},
		picks,
	))

	properties.Property("completion log holds one entry per completed task", prop.ForAll(
		func(picks []int) bool {
			s := replayToggles(picks)
			return len(s.Analytics.TaskCompletions) == completedCount(s)
		},
		picks,
	))

	properties.Property("toggling a task twice restores XP, tasks and the completion log", prop.ForAll(
		func(picks []int, extra int) bool {
			s := replayToggles(picks)
			r := refs[extra]
			again := reduceAll(s,
				ToggleTask{DayIndex: r.day, TaskID: r.id, At: t0},
				ToggleTask{DayIndex: r.day, TaskID: r.id, At: t0},
			)
			same := again.TotalXP == s.TotalXP &&
				again.Level == s.Level &&
				reflect.DeepEqual(again.Quests, s.Quests)
			if taskDone(s, r) {
				// re-completing moves its log entry to the end
				return same && len(again.Analytics.TaskCompletions) == len(s.Analytics.TaskCompletions)
			}
			return same && reflect.DeepEqual(again.Analytics.TaskCompletions, s.Analytics.TaskCompletions)
		},
		picks,
		gen.IntRange(0, len(refs)-1),
	))

	properties.Property("reducing never mutates its input", prop.ForAll(
		func(picks []int, extra int) bool {
			s := replayToggles(picks)
			before := CloneState(s)
			r := refs[extra]
			_ = Reduce(s, ToggleTask{DayIndex: r.day, TaskID: r.id, At: t0})
			_ = Reduce(s, CompleteDay{DayIndex: r.day})
			_ = Reduce(s, RedeemReward{RewardID: 1})
			return reflect.DeepEqual(before, s)
		},
		picks,
		gen.IntRange(0, len(refs)-1),
	))

	properties.TestingRun(t)
}
