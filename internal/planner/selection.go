package planner

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinSessionMinutes  = 30
	MaxSessionMinutes  = 180
	DurationTolerance  = 30
	CandidateLimit     = 20
	DefaultHistoryDays = 7
)

// CandidateSource queries session templates matching a filter.
type CandidateSource interface {
	FindCandidates(ctx context.Context, filter repository.CandidateFilter) ([]domain.SessionCandidate, error)
}

// HistorySource reports the templates a player recently trained with.
type HistorySource interface {
	RecentTemplateIDs(ctx context.Context, playerID primitive.ObjectID, since time.Time) ([]primitive.ObjectID, error)
}

// DayContext is everything known about one plan day when picking its session.
type DayContext struct {
	PlayerID     primitive.ObjectID
	TenantID     primitive.ObjectID
	AnnualPlanID primitive.ObjectID
	Date         time.Time
	WeekNumber   int
	DayOfWeek    int

	Period         domain.Period
	PeriodPhase    domain.Phase
	WeekInPeriod   int
	LearningPhases []string
	Settings       []string
	ClubSpeedLevel string
	Intensity      domain.Intensity

	BreakingPointIDs []primitive.ObjectID

	// RecentTemplateIDs are excluded from selection. The generator loads them
	// once per plan with Selector.RecentSessions.
	RecentTemplateIDs []primitive.ObjectID

	TargetHoursThisWeek float64
	HoursAllocatedSoFar float64

	IsRestDay        bool
	IsTournamentWeek bool
	IsTaperingWeek   bool
	IsToppingWeek    bool

	// PlanUsage counts picks already made for this plan in the current run.
	PlanUsage map[primitive.ObjectID]int
}

// RemainingHours is the part of the weekly target not yet allocated.
func (d DayContext) RemainingHours() float64 {
	return d.TargetHoursThisWeek - d.HoursAllocatedSoFar
}

// SelectionCriteria is the derived filter and scoring target for a day.
type SelectionCriteria struct {
	Period             domain.Period
	CompatiblePeriods  []domain.Period
	LearningPhases     []string
	Settings           []string
	ClubSpeed          string
	TargetDuration     float64 // minutes, not rounded
	Intensity          domain.Intensity
	HasBreakingPoints  bool
	ExcludeTemplateIDs []primitive.ObjectID
}

// ScoreBreakdown keeps the individual contributions of a candidate's score.
// DurationMatch is fractional because the target duration is.
type ScoreBreakdown struct {
	PeriodMatch        int     `json:"periodMatch"`
	LearningPhaseMatch int     `json:"learningPhaseMatch"`
	DurationMatch      float64 `json:"durationMatch"`
	ClubSpeedMatch     int     `json:"clubSpeedMatch"`
	SettingsMatch      int     `json:"settingsMatch"`
	BreakingPoint      int     `json:"breakingPoint"`
	UsagePenalty       int     `json:"usagePenalty"`
	IntensityMatch     int     `json:"intensityMatch"`
}

// Total sums all contributions.
func (b ScoreBreakdown) Total() float64 {
	return float64(b.PeriodMatch+b.LearningPhaseMatch+b.ClubSpeedMatch+
		b.SettingsMatch+b.BreakingPoint-b.UsagePenalty+b.IntensityMatch) + b.DurationMatch
}

// SelectedSession is the winning candidate for a day.
type SelectedSession struct {
	SessionTemplateID primitive.ObjectID
	SessionType       string
	EstimatedDuration int
	LearningPhase     string
	Setting           string
	Period            domain.Period
	Priority          int // total score, rounded
	Score             ScoreBreakdown
}

// Selector picks the best session template for a day.
type Selector struct {
	candidates  CandidateSource
	history     HistorySource
	historyDays int
	now         func() time.Time
}

// NewSelector creates a selector. historyDays <= 0 uses DefaultHistoryDays.
func NewSelector(candidates CandidateSource, history HistorySource, historyDays int) *Selector {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Selector{
		candidates:  candidates,
		history:     history,
		historyDays: historyDays,
		now:         time.Now,
	}
}

// RecentSessions returns the templates the player trained with during the
// last historyDays days, counted back from now.
func (s *Selector) RecentSessions(ctx context.Context, playerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if s.history == nil {
		return nil, nil
	}
	since := s.now().UTC().AddDate(0, 0, -s.historyDays)
	ids, err := s.history.RecentTemplateIDs(ctx, playerID, since)
	if err != nil {
		return nil, fmt.Errorf("loading recent sessions: %w", err)
	}
	return ids, nil
}

// SelectSessionForDay returns nil without error for rest days, when less than
// MinSessionMinutes remain in the week, or when no template qualifies.
// Templates in day.RecentTemplateIDs are never returned.
func (s *Selector) SelectSessionForDay(ctx context.Context, day DayContext) (*SelectedSession, error) {
	if day.IsRestDay {
		return nil, nil
	}
	remainingMinutes := day.RemainingHours() * 60
	if remainingMinutes < MinSessionMinutes {
		return nil, nil
	}
	target := math.Min(remainingMinutes, MaxSessionMinutes)
	recent := day.RecentTemplateIDs

	criteria := SelectionCriteria{
		Period:             day.Period,
		CompatiblePeriods:  CompatiblePeriods(day.Period),
		LearningPhases:     day.LearningPhases,
		Settings:           day.Settings,
		ClubSpeed:          day.ClubSpeedLevel,
		TargetDuration:     target,
		Intensity:          day.Intensity,
		HasBreakingPoints:  len(day.BreakingPointIDs) > 0,
		ExcludeTemplateIDs: recent,
	}

	// Durations are whole minutes: the bounds are the integers inside the window.
	minDuration := int(math.Ceil(target - DurationTolerance))
	if minDuration < MinSessionMinutes {
		minDuration = MinSessionMinutes
	}
	maxDuration := int(math.Floor(target + DurationTolerance))
	candidates, err := s.candidates.FindCandidates(ctx, repository.CandidateFilter{
		TenantID:       day.TenantID,
		Periods:        criteria.CompatiblePeriods,
		LearningPhases: criteria.LearningPhases,
		Settings:       criteria.Settings,
		ClubSpeed:      criteria.ClubSpeed,
		MinDuration:    minDuration,
		MaxDuration:    maxDuration,
		ExcludeIDs:     criteria.ExcludeTemplateIDs,
		Limit:          CandidateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("querying session candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	type scored struct {
		c     domain.SessionCandidate
		score ScoreBreakdown
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		c.UsageCount += day.PlanUsage[c.ID]
		ranked[i] = scored{c: c, score: ScoreCandidate(c, criteria)}
	}
	// Stable so that equal scores keep query order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score.Total() > ranked[j].score.Total()
	})

	best := ranked[0]
	return toSelected(best.c, best.score), nil
}

func toSelected(c domain.SessionCandidate, score ScoreBreakdown) *SelectedSession {
	period := domain.PeriodEstablishment
	if len(c.Periods) > 0 {
		period = c.Periods[0]
	}
	learningPhase := c.LearningPhase
	if learningPhase == "" {
		learningPhase = "N"
	}
	setting := c.Setting
	if setting == "" {
		setting = "S1"
	}
	return &SelectedSession{
		SessionTemplateID: c.ID,
		SessionType:       c.SessionType,
		EstimatedDuration: c.Duration,
		LearningPhase:     learningPhase,
		Setting:           setting,
		Period:            period,
		Priority:          int(math.Round(score.Total())),
		Score:             score,
	}
}

// intensityBands are the inclusive 1..10 ranges that fit each weekly label.
var intensityBands = map[domain.Intensity][2]int{
	domain.IntensityLow:    {1, 4},
	domain.IntensityMedium: {4, 7},
	domain.IntensityHigh:   {7, 9},
	domain.IntensityPeak:   {9, 10},
	domain.IntensityTaper:  {3, 6},
}

// EstimateIntensity returns the template's intensity, or a guess from its
// duration when it was never tagged.
func EstimateIntensity(t domain.SessionTemplate) int {
	if t.Intensity != nil {
		return *t.Intensity
	}
	switch {
	case t.Duration >= 90:
		return 7
	case t.Duration >= 60:
		return 5
	default:
		return 3
	}
}

// ScoreCandidate rates how well c fits the criteria.
func ScoreCandidate(c domain.SessionCandidate, criteria SelectionCriteria) ScoreBreakdown {
	var b ScoreBreakdown

	for _, p := range c.Periods {
		if p == criteria.Period {
			b.PeriodMatch = 100
			break
		}
	}
	if c.LearningPhase != "" && contains(criteria.LearningPhases, c.LearningPhase) {
		b.LearningPhaseMatch = 50
	}
	if d := 50 - math.Abs(float64(c.Duration)-criteria.TargetDuration); d > 0 {
		b.DurationMatch = d
	}
	if c.ClubSpeed != "" && c.ClubSpeed == criteria.ClubSpeed {
		b.ClubSpeedMatch = 30
	}
	if c.Setting != "" && contains(criteria.Settings, c.Setting) {
		b.SettingsMatch = 30
	}
	if criteria.HasBreakingPoints {
		b.BreakingPoint = 20
	}
	b.UsagePenalty = 2 * c.UsageCount
	if band, ok := intensityBands[criteria.Intensity]; ok {
		level := EstimateIntensity(c.SessionTemplate)
		if level >= band[0] && level <= band[1] {
			b.IntensityMatch = 40
		}
	}
	return b
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
