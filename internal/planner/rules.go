package planner

import (
	"time"

	"alcyxob/golf-coach/internal/domain"
)

// DefaultClubSpeed is assigned when no driver speed has been measured.
const DefaultClubSpeed = "CS90"

type speedBand struct {
	below float64 // exclusive upper bound in mph
	level string
}

var clubSpeedBands = []speedBand{
	{below: 50, level: "CS20"},
	{below: 65, level: "CS40"},
	{below: 80, level: "CS70"},
	{below: 100, level: "CS90"},
	{below: 115, level: "CS110"},
}

// ClubSpeedLevel maps a driver speed in mph to its club-speed level.
// A missing or non-positive speed yields fallback.
func ClubSpeedLevel(driverSpeed *float64, fallback string) string {
	if fallback == "" {
		fallback = DefaultClubSpeed
	}
	if driverSpeed == nil || !(*driverSpeed > 0) {
		return fallback
	}
	for _, b := range clubSpeedBands {
		if *driverSpeed < b.below {
			return b.level
		}
	}
	return "CS120"
}

var periodSettings = map[domain.Period][]string{
	domain.PeriodEstablishment: {"S1", "S2", "S3"},
	domain.PeriodGeneral:       {"S3", "S4", "S5", "S6"},
	domain.PeriodSpecific:      {"S5", "S6", "S7", "S8"},
	domain.PeriodTournament:    {"S7", "S8", "S9", "S10"},
}

// SettingsForPeriod returns the practice settings that suit a period,
// from block practice (S1) up to competition (S10).
func SettingsForPeriod(p domain.Period) []string {
	s, ok := periodSettings[p]
	if !ok {
		s = periodSettings[domain.PeriodEstablishment]
	}
	return append([]string(nil), s...)
}

var compatiblePeriods = map[domain.Period][]domain.Period{
	domain.PeriodEstablishment: {domain.PeriodEstablishment},
	domain.PeriodGeneral:       {domain.PeriodEstablishment, domain.PeriodGeneral},
	domain.PeriodSpecific:      {domain.PeriodGeneral, domain.PeriodSpecific},
	domain.PeriodTournament:    {domain.PeriodSpecific, domain.PeriodTournament},
}

// CompatiblePeriods returns the periods whose sessions may be used in p.
func CompatiblePeriods(p domain.Period) []domain.Period {
	c, ok := compatiblePeriods[p]
	if !ok {
		return []domain.Period{p}
	}
	return append([]domain.Period(nil), c...)
}

// IsRestDay decides whether weekday is a rest day. A non-empty preferred list
// is authoritative: only the listed days are training days. Otherwise Sunday
// always rests and lighter weeks add more rest.
func IsRestDay(weekday time.Weekday, intensity domain.Intensity, preferredDays []int) bool {
	if len(preferredDays) > 0 {
		for _, d := range preferredDays {
			if d == int(weekday) {
				return false
			}
		}
		return true
	}
	if weekday == time.Sunday {
		return true
	}
	switch intensity {
	case domain.IntensityPeak, domain.IntensityHigh:
		return false
	case domain.IntensityMedium:
		return weekday == time.Wednesday
	case domain.IntensityLow, domain.IntensityTaper:
		return weekday == time.Wednesday || weekday == time.Friday
	}
	return false
}

// ValidatePreferredDays rejects weekday numbers outside 0..6.
func ValidatePreferredDays(days []int) error {
	for _, d := range days {
		if d < 0 || d > 6 {
			return ErrInvalidWeekday
		}
	}
	return nil
}
