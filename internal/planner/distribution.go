package planner

import (
	"math"

	"alcyxob/golf-coach/internal/domain"
)

// sessionMix is the share of weekly hours per session type in each phase.
var sessionMix = map[domain.Phase][]struct {
	sessionType string
	share       float64
}{
	domain.PhaseBase: {
		{"technical", 0.45}, {"physical", 0.30}, {"short_game", 0.15}, {"mental", 0.10},
	},
	domain.PhaseSpecialization: {
		{"technical", 0.30}, {"short_game", 0.30}, {"on_course", 0.25}, {"physical", 0.15},
	},
	domain.PhaseTournament: {
		{"on_course", 0.40}, {"short_game", 0.25}, {"mental", 0.20}, {"technical", 0.15},
	},
	domain.PhaseRecovery: {
		{"recovery", 0.50}, {"physical", 0.30}, {"mental", 0.20},
	},
}

// sessionHours is the nominal length of one session.
const sessionHours = 1.5

// WeeklySessionDistribution estimates how many sessions of each type fit into
// weeklyHours for a phase. Types that round to zero sessions are omitted.
func WeeklySessionDistribution(phase domain.Phase, weeklyHours int) map[string]int {
	out := make(map[string]int)
	if weeklyHours <= 0 {
		return out
	}
	for _, m := range sessionMix[phase] {
		if n := int(math.Round(float64(weeklyHours) * m.share / sessionHours)); n > 0 {
			out[m.sessionType] = n
		}
	}
	return out
}
