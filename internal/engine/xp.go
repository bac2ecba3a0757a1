package engine

import "cleanquest/internal/model"

const (
	// MaxLevel is the highest reachable level.
	MaxLevel = 3

	// BreakDurationSeconds is the length of every break.
	BreakDurationSeconds = 300
)

var levelThresholds = [...]int{0, 200, 300}

// XPRequiredForLevel returns the total XP threshold required to be at the given level.
// Level 1 (and anything below) requires 0 XP.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}

// LevelForTotalXP returns the highest level L such that totalXP >= XPRequiredForLevel(L).
func LevelForTotalXP(totalXP int) int {
	for l := MaxLevel; l > 1; l-- {
		if totalXP >= XPRequiredForLevel(l) {
			return l
		}
	}
	return 1
}

// XPToNextLevel reports the XP still missing for the next level, or 0 at MaxLevel.
func XPToNextLevel(totalXP int) int {
	lvl := LevelForTotalXP(totalXP)
	if lvl >= MaxLevel {
		return 0
	}
	return XPRequiredForLevel(lvl+1) - totalXP
}

// CompletedXP sums the xp of every completed task. TotalXP always equals it.
func CompletedXP(quests []model.Quest) int {
	sum := 0
	for _, q := range quests {
		for _, t := range q.Tasks {
			if t.Completed {
				sum += t.XP
			}
		}
	}
	return sum
}
