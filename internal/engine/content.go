package engine

import (
	"time"

	"cleanquest/internal/model"
)

const (
	DefaultUserID     = "user-1"
	defaultUserName   = "Default User"
	defaultUserAvatar = "👤"
)

func task(id, desc string, xp int, tip string) model.Task {
	return model.Task{ID: id, Description: desc, XP: xp, Tip: tip}
}

// DefaultQuests returns a fresh copy of the three-day cleaning plan.
func DefaultQuests() []model.Quest {
	return []model.Quest{
		{
			Day:       1,
			Title:     "The Hall & Balcony Cleanup",
			Operation: "Living Light",
			Reward:    "Surface Sweeper",
			TotalXP:   100,
			Tasks: []model.Task{
				task("1-1", "Declutter hall (trash, misplaced items)", 10,
					"Start by gathering a trash bag and a 'belongs elsewhere' basket. Work from one end of the hall to the other, making quick decisions about each item."),
				task("1-2", "Sweep hall & balconies", 20,
					"Sweep from the inside corners outward. For balconies, sweep debris into a dustpan rather than over the edge to be considerate to neighbors below."),
				task("1-3", "Dust balcony railings & furniture", 10,
					"Use a slightly damp microfiber cloth for railings to trap dust instead of spreading it. For outdoor furniture, wipe in the direction of the grain."),
				task("1-4", "Mop floor with Vim floor cleaner", 30,
					"Dilute as directed on the bottle. Start from the farthest corner and work your way toward the exit to avoid stepping on wet areas."),
				task("1-5", "Wipe surfaces with Lizol + tissue", 20,
					"Spray Lizol on the tissue rather than directly on surfaces to prevent over-wetting and potential damage to electronics or wooden surfaces."),
				task("1-6", "Light incense/open windows (Bonus)", 10,
					"Open windows on opposite sides of your home if possible to create cross-ventilation. This air exchange is more effective than just opening one window."),
			},
		},
		{
			Day:       2,
			Title:     "Bedroom & Bathroom Blitz",
			Operation: "Sleep & Sanitize",
			Reward:    "Sanitation Sorcerer",
			TotalXP:   100,
			Tasks: []model.Task{
				task("2-1", "Declutter bedroom", 10,
					"Use the '4-box method': Keep, Donate, Store, Trash. Limit yourself to 10 minutes to avoid getting overwhelmed with decisions."),
				task("2-2", "Make bed & fold clothes", 10,
					"For efficient bed-making, start with the fitted sheet, smoothing from the center outward. For clothes, use the KonMari vertical folding method to see all items at once."),
				task("2-3", "Dust bedroom surfaces", 10,
					"Dust from top to bottom: start with ceiling fans, then shelves, then furniture surfaces, and finally baseboards to avoid re-dusting areas."),
				task("2-4", "Sweep & mop bedroom", 20,
					"Move furniture slightly rather than skipping areas. Focus on corners and under the bed where dust bunnies accumulate."),
				task("2-5", "Apply Harpic & clean toilet", 20,
					"Apply Harpic under the rim and let it sit for 10 minutes before scrubbing for maximum effectiveness. Don't forget to clean the often-missed area where the toilet meets the floor."),
				task("2-6", "Wipe sink, taps, and bathroom tiles", 20,
					"For chrome taps, use a vinegar solution to remove water spots and limescale. Dry with a microfiber cloth to prevent new water spots from forming."),
				task("2-7", "Mop bathroom floor", 10,
					"Use a separate mop or mop head for the bathroom than what you use in other areas of your home for better hygiene."),
			},
		},
		{
			Day:       3,
			Title:     "Kitchen Combat",
			Operation: "Grease Hunter",
			Reward:    "Kitchen Commander",
			TotalXP:   100,
			Tasks: []model.Task{
				task("3-1", "Clear expired items & general clutter", 10,
					"Check not just expiration dates but also 'best before' dates. Some items are still safe to eat after the best before date but may have reduced quality."),
				task("3-2", "Clean stove & counters with Lizol", 20,
					"For stubborn stove stains, make a paste with baking soda and water, apply to the stain, and let sit for 15 minutes before scrubbing."),
				task("3-3", "Wipe cabinets and sink", 20,
					"For wooden cabinets, use a gentle cleaner with a small amount of olive oil to clean and condition the wood simultaneously."),
				task("3-4", "Wash dishes with Pril", 20,
					"Wash in the right order: glasses first, then silverware, then plates, and pots and pans last. This keeps your dishwater cleaner for longer."),
				task("3-5", "Sweep kitchen floor", 10,
					"Use a dustpan with a rubber edge that sits flush with the floor to avoid that annoying line of dust that never seems to go into the dustpan."),
				task("3-6", "Mop with Vim floor cleaner", 20,
					"For tile floors with grout, use a soft brush to scrub the grout lines occasionally. Regular mopping often misses the recessed grout areas."),
			},
		},
	}
}

// DefaultRewards returns the real-world reward catalog, none redeemed.
func DefaultRewards() []model.Reward {
	return []model.Reward{
		{ID: 1, Name: "Coffee Shop Voucher", XPRequired: 100, Icon: "☕"},
		{ID: 2, Name: "Movie Ticket", XPRequired: 200, Icon: "🎬"},
		{ID: 3, Name: "Food Delivery Coupon", XPRequired: 300, Icon: "🍕"},
	}
}

// InitialState builds the state a new install starts from.
func InitialState(now time.Time) model.AppState {
	quests := DefaultQuests()
	return model.AppState{
		CurrentDay:    1,
		TotalXP:       0,
		Level:         1,
		DayCompleted:  make([]bool, len(quests)),
		BreakActive:   false,
		BreakTimeLeft: BreakDurationSeconds,
		BreakHistory:  []model.BreakRecord{},
		Quests:        quests,
		RealRewards:   DefaultRewards(),
		SoundEnabled:  true,
		Analytics: model.AnalyticsData{
			TaskCompletions: []model.TaskCompletion{},
			DailyActivity:   map[string]model.DailyActivity{},
		},
		CurrentUserID: model.StringPtr(DefaultUserID),
		Users: []model.User{{
			ID:        DefaultUserID,
			Name:      defaultUserName,
			Avatar:    defaultUserAvatar,
			CreatedAt: now.UTC(),
			Friends:   []string{},
		}},
		SharedTasks:   []model.SharedTask{},
		Notifications: []model.Notification{},
	}
}
