package planner

import (
	"fmt"
	"math"

	"alcyxob/golf-coach/internal/domain"
)

// WeeksPerPlan is the length of an annual plan.
const WeeksPerPlan = 52

// DefaultScoringAverage is used when a player has no recorded baseline.
// It falls in the Intermediate tier.
const DefaultScoringAverage = 78.0

// SkillTier is the player category derived from the scoring average.
type SkillTier string

const (
	TierElite        SkillTier = "E1"
	TierAdvanced     SkillTier = "A1"
	TierIntermediate SkillTier = "I1"
	TierDeveloping   SkillTier = "D1"
	TierBeginner     SkillTier = "B1"
)

// HoursRange is the weekly training hours band of a tier.
type HoursRange struct {
	Low  int
	High int
}

// PhaseProfile describes how one macro phase is trained.
// Periods holds the earlier and the later period code of the phase.
type PhaseProfile struct {
	Volume         string
	Intensity      domain.Intensity
	FocusAreas     []string
	LearningPhases []string
	Periods        [2]domain.Period
}

// PeriodizationTemplate is the static plan shape of one skill tier.
type PeriodizationTemplate struct {
	Tier                SkillTier
	Name                string
	UpperScore          float64 // exclusive upper bound of the tier's scoring averages
	BaseWeeks           int
	SpecializationWeeks int
	TournamentWeeks     int
	RecoveryWeeks       int
	WeeklyHours         HoursRange
	Phases              map[domain.Phase]PhaseProfile
}

// PhaseWeeks returns the configured length of phase in weeks.
func (t PeriodizationTemplate) PhaseWeeks(phase domain.Phase) int {
	switch phase {
	case domain.PhaseBase:
		return t.BaseWeeks
	case domain.PhaseSpecialization:
		return t.SpecializationWeeks
	case domain.PhaseTournament:
		return t.TournamentWeeks
	case domain.PhaseRecovery:
		return t.RecoveryWeeks
	}
	return 0
}

// TargetHours returns the weekly hours planned for a week of phase.
func (t PeriodizationTemplate) TargetHours(phase domain.Phase) int {
	switch phase {
	case domain.PhaseBase:
		return t.WeeklyHours.Low
	case domain.PhaseSpecialization:
		return t.WeeklyHours.High
	case domain.PhaseTournament:
		return t.MidpointHours()
	case domain.PhaseRecovery:
		return int(math.Round(float64(t.WeeklyHours.Low) / 2))
	}
	return 0
}

// MidpointHours is the rounded middle of the weekly hours band.
func (t PeriodizationTemplate) MidpointHours() int {
	return int(math.Round(float64(t.WeeklyHours.Low+t.WeeklyHours.High) / 2))
}

// IntensityProfile summarizes the nominal load of every phase.
func (t PeriodizationTemplate) IntensityProfile() map[string]domain.PhaseLoad {
	profile := make(map[string]domain.PhaseLoad, len(t.Phases))
	for phase, p := range t.Phases {
		profile[string(phase)] = domain.PhaseLoad{Volume: p.Volume, Intensity: string(p.Intensity)}
	}
	return profile
}

// Validate checks the template invariants. Phase lengths must be positive and
// add up to exactly 52 weeks.
func (t PeriodizationTemplate) Validate() error {
	total := 0
	for _, phase := range domain.Phases {
		weeks := t.PhaseWeeks(phase)
		if weeks <= 0 {
			return &ConfigError{Tier: t.Tier, Reason: fmt.Sprintf("%s phase has %d weeks", phase, weeks)}
		}
		if _, ok := t.Phases[phase]; !ok {
			return &ConfigError{Tier: t.Tier, Reason: fmt.Sprintf("%s phase has no profile", phase)}
		}
		total += weeks
	}
	if total != WeeksPerPlan {
		return &ConfigError{Tier: t.Tier, Reason: fmt.Sprintf("phase weeks sum to %d, want %d", total, WeeksPerPlan)}
	}
	if t.WeeklyHours.Low <= 0 || t.WeeklyHours.High < t.WeeklyHours.Low {
		return &ConfigError{Tier: t.Tier, Reason: fmt.Sprintf("invalid weekly hours %d-%d", t.WeeklyHours.Low, t.WeeklyHours.High)}
	}
	return nil
}

func (t PeriodizationTemplate) clone() PeriodizationTemplate {
	c := t
	c.Phases = make(map[domain.Phase]PhaseProfile, len(t.Phases))
	for phase, p := range t.Phases {
		p.FocusAreas = append([]string(nil), p.FocusAreas...)
		p.LearningPhases = append([]string(nil), p.LearningPhases...)
		c.Phases[phase] = p
	}
	return c
}

// Catalog is the immutable, validated set of templates ordered by tier.
// The last template is the fallback and covers every score up to +Inf.
type Catalog struct {
	templates []PeriodizationTemplate
}

// NewCatalog validates the templates and returns a catalog holding copies of them.
// Templates must be ordered by strictly increasing UpperScore and the last one
// must be unbounded so that every score maps to exactly one tier.
func NewCatalog(templates ...PeriodizationTemplate) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, &ConfigError{Reason: "catalog has no templates"}
	}
	c := &Catalog{templates: make([]PeriodizationTemplate, 0, len(templates))}
	for i, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if i > 0 && !(t.UpperScore > templates[i-1].UpperScore) {
			return nil, &ConfigError{Tier: t.Tier, Reason: "tiers are not ordered by upper score"}
		}
		c.templates = append(c.templates, t.clone())
	}
	if last := templates[len(templates)-1]; !math.IsInf(last.UpperScore, 1) {
		return nil, &ConfigError{Tier: last.Tier, Reason: "fallback tier must be unbounded"}
	}
	return c, nil
}

// TemplateForScore returns the template of the tier whose half-open score
// interval contains averageScore. NaN maps to the fallback tier.
func (c *Catalog) TemplateForScore(averageScore float64) PeriodizationTemplate {
	for _, t := range c.templates {
		if averageScore < t.UpperScore {
			return t.clone()
		}
	}
	return c.templates[len(c.templates)-1].clone()
}

// Templates returns copies of all templates in tier order.
func (c *Catalog) Templates() []PeriodizationTemplate {
	out := make([]PeriodizationTemplate, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.clone()
	}
	return out
}

// DefaultCatalog returns the built-in five-tier catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultTemplates()...)
	if err != nil {
		panic("planner: built-in catalog is invalid: " + err.Error())
	}
	return c
}

func defaultTemplates() []PeriodizationTemplate {
	return []PeriodizationTemplate{
		{
			Tier: TierElite, Name: "Elite", UpperScore: 70,
			BaseWeeks: 8, SpecializationWeeks: 16, TournamentWeeks: 24, RecoveryWeeks: 4,
			WeeklyHours: HoursRange{Low: 20, High: 25},
			Phases: standardPhases(
				[]string{"L3", "L4"},
				[]string{"L4", "L5"},
				[]string{"L5"},
			),
		},
		{
			Tier: TierAdvanced, Name: "Advanced", UpperScore: 75,
			BaseWeeks: 10, SpecializationWeeks: 18, TournamentWeeks: 20, RecoveryWeeks: 4,
			WeeklyHours: HoursRange{Low: 16, High: 22},
			Phases: standardPhases(
				[]string{"L2", "L3", "L4"},
				[]string{"L3", "L4", "L5"},
				[]string{"L4", "L5"},
			),
		},
		{
			Tier: TierIntermediate, Name: "Intermediate", UpperScore: 80,
			BaseWeeks: 12, SpecializationWeeks: 20, TournamentWeeks: 16, RecoveryWeeks: 4,
			WeeklyHours: HoursRange{Low: 12, High: 18},
			Phases: standardPhases(
				[]string{"L2", "L3"},
				[]string{"L3", "L4"},
				[]string{"L4", "L5"},
			),
		},
		{
			Tier: TierDeveloping, Name: "Developing", UpperScore: 85,
			BaseWeeks: 16, SpecializationWeeks: 20, TournamentWeeks: 12, RecoveryWeeks: 4,
			WeeklyHours: HoursRange{Low: 10, High: 15},
			Phases: standardPhases(
				[]string{"L1", "L2", "L3"},
				[]string{"L2", "L3", "L4"},
				[]string{"L3", "L4"},
			),
		},
		{
			Tier: TierBeginner, Name: "Beginner", UpperScore: math.Inf(1),
			BaseWeeks: 20, SpecializationWeeks: 20, TournamentWeeks: 8, RecoveryWeeks: 4,
			WeeklyHours: HoursRange{Low: 8, High: 12},
			Phases: standardPhases(
				[]string{"L1", "L2"},
				[]string{"L2", "L3"},
				[]string{"L3", "L4"},
			),
		},
	}
}

// standardPhases builds the phase profiles shared by all tiers; only the
// learning phases differ. Recovery always works on L1-L2.
func standardPhases(base, specialization, tournament []string) map[domain.Phase]PhaseProfile {
	return map[domain.Phase]PhaseProfile{
		domain.PhaseBase: {
			Volume: "high", Intensity: domain.IntensityMedium,
			FocusAreas:     []string{"Technique fundamentals", "Physical foundation", "Swing mechanics"},
			LearningPhases: base,
			Periods:        [2]domain.Period{domain.PeriodEstablishment, domain.PeriodGeneral},
		},
		domain.PhaseSpecialization: {
			Volume: "medium", Intensity: domain.IntensityHigh,
			FocusAreas:     []string{"Skill transfer", "Short game", "Course management"},
			LearningPhases: specialization,
			Periods:        [2]domain.Period{domain.PeriodGeneral, domain.PeriodSpecific},
		},
		domain.PhaseTournament: {
			Volume: "medium", Intensity: domain.IntensityPeak,
			FocusAreas:     []string{"Competition routines", "Scoring", "Mental preparation"},
			LearningPhases: tournament,
			Periods:        [2]domain.Period{domain.PeriodSpecific, domain.PeriodTournament},
		},
		domain.PhaseRecovery: {
			Volume: "low", Intensity: domain.IntensityLow,
			FocusAreas:     []string{"Recovery", "Mobility", "Season review"},
			LearningPhases: []string{"L1", "L2"},
			Periods:        [2]domain.Period{domain.PeriodGeneral, domain.PeriodGeneral},
		},
	}
}
