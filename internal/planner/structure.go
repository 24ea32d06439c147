package planner

import (
	"time"

	"alcyxob/golf-coach/internal/domain"
)

// DateOf truncates t to midnight UTC of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildStructure lays out the 52 weeks of a plan starting at start and applies
// the tournament overlay. Weeks are numbered 1..52 and are contiguous, each
// covering seven days.
func BuildStructure(start time.Time, tpl PeriodizationTemplate, tournaments []domain.ScheduledTournament) ([]domain.Periodization, error) {
	if start.IsZero() {
		return nil, ErrInvalidStartDate
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	start = DateOf(start)

	weeks := make([]domain.Periodization, 0, WeeksPerPlan)
	for _, phase := range domain.Phases {
		n := tpl.PhaseWeeks(phase)
		profile := tpl.Phases[phase]
		for i := 0; i < n; i++ {
			number := len(weeks) + 1
			weekStart := start.AddDate(0, 0, 7*(number-1))
			weeks = append(weeks, domain.Periodization{
				WeekNumber:      number,
				StartDate:       weekStart,
				EndDate:         weekStart.AddDate(0, 0, 6),
				Period:          periodFor(phase, profile, i, n),
				PeriodPhase:     phase,
				WeekInPeriod:    i + 1,
				LearningPhases:  append([]string(nil), profile.LearningPhases...),
				FocusAreas:      append([]string(nil), profile.FocusAreas...),
				VolumeIntensity: weekIntensity(phase, i, n),
				PlannedHours:    tpl.TargetHours(phase),
			})
		}
	}

	ApplyTournamentOverlay(weeks, tournaments)
	return weeks, nil
}

// periodFor picks the earlier period for the leading part of a phase. The
// tournament phase switches after its first third, the others at the midpoint.
func periodFor(phase domain.Phase, profile PhaseProfile, i, n int) domain.Period {
	split := float64(n) / 2
	if phase == domain.PhaseTournament {
		split = float64(n) / 3
	}
	if float64(i) < split {
		return profile.Periods[0]
	}
	return profile.Periods[1]
}

func weekIntensity(phase domain.Phase, i, n int) domain.Intensity {
	progress := float64(i) / float64(n)
	switch phase {
	case domain.PhaseBase:
		switch {
		case progress < 0.3:
			return domain.IntensityMedium
		case progress < 0.7:
			return domain.IntensityHigh
		default:
			return domain.IntensityMedium
		}
	case domain.PhaseSpecialization:
		return domain.IntensityHigh
	case domain.PhaseTournament:
		if progress < 0.5 {
			return domain.IntensityPeak
		}
		return domain.IntensityTaper
	case domain.PhaseRecovery:
		return domain.IntensityLow
	}
	return domain.IntensityMedium
}
