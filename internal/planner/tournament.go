package planner

import (
	"math"
	"time"

	"alcyxob/golf-coach/internal/domain"
)

type prepWindow struct {
	toppingWeeks int
	taperDays    int
	focusAreas   []string
}

var prepWindows = map[domain.Importance]prepWindow{
	domain.ImportanceA: {
		toppingWeeks: 3,
		taperDays:    7,
		focusAreas:   []string{"Mental preparation", "Course strategy", "Peak performance", "Recovery optimization"},
	},
	domain.ImportanceB: {
		toppingWeeks: 2,
		taperDays:    5,
		focusAreas:   []string{"Competition readiness", "Mental skills", "Tactical preparation"},
	},
	domain.ImportanceC: {
		toppingWeeks: 1,
		taperDays:    3,
		focusAreas:   []string{"Competition exposure", "Performance habits"},
	},
}

func windowFor(importance domain.Importance) prepWindow {
	if w, ok := prepWindows[importance]; ok {
		return w
	}
	return prepWindows[domain.ImportanceC]
}

// WeekNumberFor returns ceil(ceil(days between planStart and date) / 7).
// The plan start itself is week 0; the following seven days are week 1.
func WeekNumberFor(planStart, date time.Time) int {
	days := math.Ceil(DateOf(date).Sub(DateOf(planStart)).Hours() / 24)
	return int(math.Ceil(days / 7))
}

// ScheduleTournaments computes the preparation window of every tournament.
// Tournaments outside the plan year are kept; their week numbers simply fall
// outside 1..52 and the overlay ignores them.
func ScheduleTournaments(planStart time.Time, tournaments []domain.TournamentInput) []domain.ScheduledTournament {
	scheduled := make([]domain.ScheduledTournament, 0, len(tournaments))
	for _, t := range tournaments {
		w := windowFor(t.Importance)
		week := WeekNumberFor(planStart, t.StartDate)
		toppingStart := week - w.toppingWeeks
		if toppingStart < 1 {
			toppingStart = 1
		}
		importance := t.Importance
		if _, ok := prepWindows[importance]; !ok {
			importance = domain.ImportanceC
		}
		endDate := t.EndDate
		if endDate.IsZero() {
			endDate = t.StartDate
		}
		scheduled = append(scheduled, domain.ScheduledTournament{
			TournamentID:         t.TournamentID,
			Name:                 t.Name,
			StartDate:            DateOf(t.StartDate),
			EndDate:              DateOf(endDate),
			Importance:           importance,
			WeekNumber:           week,
			Period:               domain.PeriodTournament,
			ToppingStartWeek:     toppingStart,
			ToppingDurationWeeks: w.toppingWeeks,
			TaperingStartDate:    DateOf(t.StartDate).AddDate(0, 0, -w.taperDays),
			TaperingDurationDays: w.taperDays,
			FocusAreas:           append([]string(nil), w.focusAreas...),
		})
	}
	return scheduled
}

// ApplyTournamentOverlay rewrites weeks in place. Topping weeks in
// [ToppingStartWeek, WeekNumber) become T/peak and the tournament week itself
// becomes T/taper. Tournaments are applied in order, so a later one wins on
// overlapping weeks. Applying the same overlay twice yields the same weeks.
func ApplyTournamentOverlay(weeks []domain.Periodization, tournaments []domain.ScheduledTournament) {
	if len(tournaments) == 0 {
		return
	}
	index := make(map[int]int, len(weeks))
	for i := range weeks {
		index[weeks[i].WeekNumber] = i
	}
	for _, t := range tournaments {
		end := t.ToppingStartWeek + t.ToppingDurationWeeks
		for w := t.ToppingStartWeek; w < end && w < t.WeekNumber; w++ {
			if i, ok := index[w]; ok {
				weeks[i].Period = domain.PeriodTournament
				weeks[i].VolumeIntensity = domain.IntensityPeak
			}
		}
		if i, ok := index[t.WeekNumber]; ok {
			weeks[i].Period = domain.PeriodTournament
			weeks[i].VolumeIntensity = domain.IntensityTaper
		}
	}
}
