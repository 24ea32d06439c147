package planner

import (
	"context"
	"fmt"
	"time"

	"alcyxob/golf-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DaysPerPlan is the number of calendar days an annual plan covers.
const DaysPerPlan = 365

// SessionPicker chooses the session of a single day. *Selector implements it.
type SessionPicker interface {
	RecentSessions(ctx context.Context, playerID primitive.ObjectID) ([]primitive.ObjectID, error)
	SelectSessionForDay(ctx context.Context, day DayContext) (*SelectedSession, error)
}

// PlanRef carries the plan-level inputs of daily generation.
type PlanRef struct {
	AnnualPlanID     primitive.ObjectID
	PlayerID         primitive.ObjectID
	TenantID         primitive.ObjectID
	StartDate        time.Time
	ClubSpeedLevel   string
	BreakingPointIDs []primitive.ObjectID
}

// DailyResult is the outcome of generating the calendar of a plan.
type DailyResult struct {
	Assignments []domain.DailyAssignment
	Created     int
	Skipped     int
	ByType      map[string]int
	From        time.Time
	To          time.Time
}

// Generator walks the 365 days of a plan and builds one assignment per day
// that is not excluded.
type Generator struct {
	picker SessionPicker
	clock  func() time.Time
}

func NewGenerator(picker SessionPicker) *Generator {
	return &Generator{picker: picker, clock: time.Now}
}

// Generate builds the daily assignments. Days in exclusions are skipped and
// produce no record. A day whose week has no descriptor is also skipped.
// Hours are tracked per week in memory: a day's remaining budget is the
// week's target minus the durations already assigned that week. The player's
// recent sessions are loaded once and excluded on every day.
func (g *Generator) Generate(ctx context.Context, plan PlanRef, weeks []domain.Periodization, exclusions []time.Time, preferredDays []int) (*DailyResult, error) {
	if plan.StartDate.IsZero() {
		return nil, ErrInvalidStartDate
	}
	if err := ValidatePreferredDays(preferredDays); err != nil {
		return nil, err
	}
	start := DateOf(plan.StartDate)
	clubSpeed := plan.ClubSpeedLevel
	if clubSpeed == "" {
		clubSpeed = DefaultClubSpeed
	}

	excluded := make(map[int64]struct{}, len(exclusions))
	for _, d := range exclusions {
		excluded[DateOf(d).Unix()] = struct{}{}
	}
	byWeek := make(map[int]domain.Periodization, len(weeks))
	for _, w := range weeks {
		byWeek[w.WeekNumber] = w
	}

	result := &DailyResult{
		Assignments: make([]domain.DailyAssignment, 0, DaysPerPlan),
		ByType:      make(map[string]int),
		From:        start,
		To:          start.AddDate(0, 0, DaysPerPlan-1),
	}
	allocated := make(map[int]float64)
	usage := make(map[primitive.ObjectID]int)
	now := g.clock().UTC()
	recent, err := g.picker.RecentSessions(ctx, plan.PlayerID)
	if err != nil {
		return nil, err
	}

	for offset := 0; offset < DaysPerPlan; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := start.AddDate(0, 0, offset)
		if _, skip := excluded[date.Unix()]; skip {
			result.Skipped++
			continue
		}
		// 52 weeks cover 364 days; the final day belongs to week 52.
		weekNumber := offset/7 + 1
		if weekNumber > WeeksPerPlan {
			weekNumber = WeeksPerPlan
		}
		week, ok := byWeek[weekNumber]
		if !ok {
			result.Skipped++
			continue
		}

		weekday := date.Weekday()
		rest := IsRestDay(weekday, week.VolumeIntensity, preferredDays)
		day := DayContext{
			PlayerID:            plan.PlayerID,
			TenantID:            plan.TenantID,
			AnnualPlanID:        plan.AnnualPlanID,
			Date:                date,
			WeekNumber:          weekNumber,
			DayOfWeek:           int(weekday),
			Period:              week.Period,
			PeriodPhase:         week.PeriodPhase,
			WeekInPeriod:        week.WeekInPeriod,
			LearningPhases:      week.LearningPhases,
			Settings:            SettingsForPeriod(week.Period),
			ClubSpeedLevel:      clubSpeed,
			Intensity:           week.VolumeIntensity,
			BreakingPointIDs:    plan.BreakingPointIDs,
			RecentTemplateIDs:   recent,
			TargetHoursThisWeek: float64(week.PlannedHours),
			HoursAllocatedSoFar: allocated[weekNumber],
			IsRestDay:           rest,
			IsTournamentWeek:    week.Period == domain.PeriodTournament,
			IsTaperingWeek:      week.VolumeIntensity == domain.IntensityTaper,
			IsToppingWeek:       week.VolumeIntensity == domain.IntensityPeak && week.PeriodPhase == domain.PhaseTournament,
			PlanUsage:           usage,
		}

		a := domain.DailyAssignment{
			AnnualPlanID: plan.AnnualPlanID,
			PlayerID:     plan.PlayerID,
			AssignedDate: date,
			WeekNumber:   weekNumber,
			DayOfWeek:    int(weekday),
			Period:       week.Period,
			ClubSpeed:    clubSpeed,
			Intensity:    week.VolumeIntensity.Level(),
			Status:       domain.StatusPlanned,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		var selected *SelectedSession
		if !rest {
			selected, err = g.picker.SelectSessionForDay(ctx, day)
			if err != nil {
				return nil, fmt.Errorf("selecting session for %s: %w", date.Format("2006-01-02"), err)
			}
		}

		switch {
		case rest:
			a.IsRestDay = true
			a.SessionType = domain.SessionTypeRest
		case selected == nil:
			// Placeholder keeps the calendar gap-free.
			a.SessionType = domain.SessionTypeRest
		default:
			id := selected.SessionTemplateID
			a.SessionTemplateID = &id
			a.SessionType = selected.SessionType
			a.EstimatedDuration = selected.EstimatedDuration
			a.LearningPhase = selected.LearningPhase
			a.Setting = selected.Setting
			a.Priority = selected.Priority
			allocated[weekNumber] += float64(selected.EstimatedDuration) / 60
			usage[id]++
		}

		result.Assignments = append(result.Assignments, a)
		result.ByType[a.SessionType]++
		result.Created++
	}
	return result, nil
}
