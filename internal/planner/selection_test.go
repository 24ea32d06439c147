package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCandidates struct {
	candidates []domain.SessionCandidate
	err        error
	filters    []repository.CandidateFilter
}

func (f *fakeCandidates) FindCandidates(_ context.Context, filter repository.CandidateFilter) ([]domain.SessionCandidate, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.SessionCandidate, len(f.candidates))
	copy(out, f.candidates)
	return out, nil
}

type fakeHistory struct {
	ids   []primitive.ObjectID
	since time.Time
	calls int
}

func (f *fakeHistory) RecentTemplateIDs(_ context.Context, _ primitive.ObjectID, since time.Time) ([]primitive.ObjectID, error) {
	f.calls++
	f.since = since
	return f.ids, nil
}

func candidate(duration int, periods ...domain.Period) domain.SessionCandidate {
	return domain.SessionCandidate{SessionTemplate: domain.SessionTemplate{
		ID:          primitive.NewObjectID(),
		Name:        "session",
		SessionType: "technical",
		Duration:    duration,
		Periods:     periods,
		IsActive:    true,
	}}
}

func trainingDay(period domain.Period, targetHours, allocated float64) DayContext {
	return DayContext{
		PlayerID:            primitive.NewObjectID(),
		TenantID:            primitive.NewObjectID(),
		Date:                planStart,
		WeekNumber:          1,
		DayOfWeek:           1,
		Period:              period,
		LearningPhases:      []string{"L2", "L3"},
		Settings:            SettingsForPeriod(period),
		ClubSpeedLevel:      "CS90",
		Intensity:           domain.IntensityMedium,
		TargetHoursThisWeek: targetHours,
		HoursAllocatedSoFar: allocated,
	}
}

func TestSelectSessionForDayRestDay(t *testing.T) {
	src := &fakeCandidates{candidates: []domain.SessionCandidate{candidate(60, "E")}}
	hist := &fakeHistory{}
	s := NewSelector(src, hist, 0)

	day := trainingDay(domain.PeriodEstablishment, 12, 0)
	day.IsRestDay = true

	got, err := s.SelectSessionForDay(context.Background(), day)
	if err != nil || got != nil {
		t.Fatalf("SelectSessionForDay() = %v, %v; want nil, nil", got, err)
	}
	if len(src.filters) != 0 || hist.calls != 0 {
		t.Error("rest day must not query collaborators")
	}
}

func TestSelectSessionForDayBudget(t *testing.T) {
	tests := []struct {
		name      string
		target    float64
		allocated float64
		wantQuery bool
	}{
		{"exhausted", 10, 10, false},
		{"over budget", 10, 11, false},
		{"29 minutes left", 1, 1 - 29.0/60, false},
		{"30 minutes left", 1, 0.5, true},
		{"fresh week", 12, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeCandidates{candidates: []domain.SessionCandidate{candidate(30, "E")}}
			s := NewSelector(src, nil, 0)

			got, err := s.SelectSessionForDay(context.Background(), trainingDay(domain.PeriodEstablishment, tt.target, tt.allocated))
			if err != nil {
				t.Fatalf("SelectSessionForDay() error = %v", err)
			}
			if queried := len(src.filters) > 0; queried != tt.wantQuery {
				t.Errorf("queried = %v, want %v", queried, tt.wantQuery)
			}
			if !tt.wantQuery && got != nil {
				t.Errorf("got %+v, want none", got)
			}
		})
	}
}

func TestSelectSessionForDayBuildsFilter(t *testing.T) {
	recent := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	hist := &fakeHistory{ids: recent}
	src := &fakeCandidates{}
	s := NewSelector(src, hist, 0)
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	tests := []struct {
		name    string
		period  domain.Period
		target  float64
		wantMin int
		wantMax int
		periods []domain.Period
	}{
		{"capped at three hours", domain.PeriodTournament, 5, 150, 210, []domain.Period{"S", "T"}},
		{"short remaining budget", domain.PeriodGeneral, 0.75, 30, 75, []domain.Period{"E", "G"}},
		{"fractional minutes stay inside the window", domain.PeriodGeneral, 75.5 / 60, 46, 105, []domain.Period{"E", "G"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src.filters = nil
			day := trainingDay(tt.period, tt.target, 0)
			ids, err := s.RecentSessions(context.Background(), day.PlayerID)
			if err != nil {
				t.Fatalf("RecentSessions() error = %v", err)
			}
			day.RecentTemplateIDs = ids
			if _, err := s.SelectSessionForDay(context.Background(), day); err != nil {
				t.Fatalf("SelectSessionForDay() error = %v", err)
			}
			if len(src.filters) != 1 {
				t.Fatalf("queries = %d, want 1", len(src.filters))
			}
			f := src.filters[0]
			if f.MinDuration != tt.wantMin || f.MaxDuration != tt.wantMax {
				t.Errorf("duration range = [%d, %d], want [%d, %d]", f.MinDuration, f.MaxDuration, tt.wantMin, tt.wantMax)
			}
			if len(f.Periods) != len(tt.periods) || f.Periods[0] != tt.periods[0] || f.Periods[1] != tt.periods[1] {
				t.Errorf("periods = %v, want %v", f.Periods, tt.periods)
			}
			if f.Limit != CandidateLimit {
				t.Errorf("limit = %d, want %d", f.Limit, CandidateLimit)
			}
			if f.TenantID != day.TenantID || f.ClubSpeed != "CS90" {
				t.Errorf("tenant/club speed not passed through: %+v", f)
			}
			if len(f.ExcludeIDs) != len(recent) {
				t.Errorf("exclusions = %v, want %v", f.ExcludeIDs, recent)
			}
		})
	}

	if want := now.AddDate(0, 0, -7); !hist.since.Equal(want) {
		t.Errorf("history since = %v, want %v", hist.since, want)
	}
}

func TestSelectSessionPrefersExactPeriod(t *testing.T) {
	compatible := candidate(60, domain.PeriodEstablishment)
	exact := candidate(60, domain.PeriodGeneral)
	src := &fakeCandidates{candidates: []domain.SessionCandidate{compatible, exact}}
	s := NewSelector(src, nil, 0)

	day := trainingDay(domain.PeriodGeneral, 1, 0)
	got, err := s.SelectSessionForDay(context.Background(), day)
	if err != nil {
		t.Fatalf("SelectSessionForDay() error = %v", err)
	}
	if got == nil || got.SessionTemplateID != exact.ID {
		t.Fatalf("selected %+v, want the exact period match", got)
	}

	criteria := SelectionCriteria{Period: domain.PeriodGeneral, TargetDuration: 60, Intensity: domain.IntensityMedium}
	diff := ScoreCandidate(exact, criteria).Total() - ScoreCandidate(compatible, criteria).Total()
	if diff < 100 {
		t.Errorf("score difference = %v, want >= 100", diff)
	}
	if float64(got.Priority) != got.Score.Total() {
		t.Errorf("priority = %d, want score %v", got.Priority, got.Score.Total())
	}
}

func TestSelectSessionPrefersUnusedInPlan(t *testing.T) {
	first := candidate(60, domain.PeriodGeneral)
	second := candidate(60, domain.PeriodGeneral)
	src := &fakeCandidates{candidates: []domain.SessionCandidate{first, second}}
	s := NewSelector(src, nil, 0)

	day := trainingDay(domain.PeriodGeneral, 1, 0)
	day.PlanUsage = map[primitive.ObjectID]int{first.ID: 3}

	got, err := s.SelectSessionForDay(context.Background(), day)
	if err != nil {
		t.Fatalf("SelectSessionForDay() error = %v", err)
	}
	if got.SessionTemplateID != second.ID {
		t.Errorf("selected %s, want the unused template %s", got.SessionTemplateID.Hex(), second.ID.Hex())
	}
}

func TestSelectSessionTieKeepsQueryOrder(t *testing.T) {
	first := candidate(60, domain.PeriodGeneral)
	second := candidate(60, domain.PeriodGeneral)
	s := NewSelector(&fakeCandidates{candidates: []domain.SessionCandidate{first, second}}, nil, 0)

	got, err := s.SelectSessionForDay(context.Background(), trainingDay(domain.PeriodGeneral, 1, 0))
	if err != nil {
		t.Fatalf("SelectSessionForDay() error = %v", err)
	}
	if got.SessionTemplateID != first.ID {
		t.Error("equal scores must keep query order")
	}
}

func TestSelectSessionDefaults(t *testing.T) {
	c := candidate(45)
	s := NewSelector(&fakeCandidates{candidates: []domain.SessionCandidate{c}}, nil, 0)

	got, err := s.SelectSessionForDay(context.Background(), trainingDay(domain.PeriodGeneral, 1, 0))
	if err != nil {
		t.Fatalf("SelectSessionForDay() error = %v", err)
	}
	if got.Period != domain.PeriodEstablishment || got.LearningPhase != "N" || got.Setting != "S1" {
		t.Errorf("defaults = %s/%s/%s, want E/N/S1", got.Period, got.LearningPhase, got.Setting)
	}
	if got.EstimatedDuration != 45 || got.SessionType != "technical" {
		t.Errorf("selected fields = %+v", got)
	}
}

func TestSelectSessionNoCandidates(t *testing.T) {
	s := NewSelector(&fakeCandidates{}, nil, 0)
	got, err := s.SelectSessionForDay(context.Background(), trainingDay(domain.PeriodGeneral, 10, 0))
	if err != nil || got != nil {
		t.Errorf("SelectSessionForDay() = %v, %v; want nil, nil", got, err)
	}
}

func TestSelectSessionPropagatesQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	s := NewSelector(&fakeCandidates{err: boom}, nil, 0)
	_, err := s.SelectSessionForDay(context.Background(), trainingDay(domain.PeriodGeneral, 10, 0))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

func TestScoreCandidate(t *testing.T) {
	intensity := func(v int) *int { return &v }

	full := candidate(60, domain.PeriodGeneral)
	full.LearningPhase = "L3"
	full.Setting = "S4"
	full.ClubSpeed = "CS90"
	full.Intensity = intensity(5)
	full.UsageCount = 3

	criteria := SelectionCriteria{
		Period:            domain.PeriodGeneral,
		LearningPhases:    []string{"L2", "L3"},
		Settings:          []string{"S3", "S4"},
		ClubSpeed:         "CS90",
		TargetDuration:    60,
		Intensity:         domain.IntensityMedium,
		HasBreakingPoints: true,
	}

	tests := []struct {
		name      string
		candidate domain.SessionCandidate
		criteria  func(SelectionCriteria) SelectionCriteria
		want      float64
	}{
		{"every factor", full, nil, 100 + 50 + 50 + 30 + 30 + 20 - 6 + 40},
		{"duration off by 20", func() domain.SessionCandidate { c := full; c.Duration = 80; return c }(), nil, 314 - 20},
		{"duration off by an hour", func() domain.SessionCandidate { c := full; c.Duration = 120; return c }(), nil, 314 - 50},
		{"no breaking points", full, func(c SelectionCriteria) SelectionCriteria { c.HasBreakingPoints = false; return c }, 294},
		{"intensity outside band", full, func(c SelectionCriteria) SelectionCriteria { c.Intensity = domain.IntensityPeak; return c }, 274},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := criteria
			if tt.criteria != nil {
				c = tt.criteria(criteria)
			}
			if got := ScoreCandidate(tt.candidate, c).Total(); got != tt.want {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreCandidateFractionalTarget(t *testing.T) {
	shorter := candidate(45, domain.PeriodGeneral)
	longer := candidate(46, domain.PeriodGeneral)
	criteria := SelectionCriteria{Period: domain.PeriodGeneral, TargetDuration: 45.5, Intensity: domain.IntensityMedium}

	a, b := ScoreCandidate(shorter, criteria), ScoreCandidate(longer, criteria)
	if a.DurationMatch != 49.5 || b.DurationMatch != 49.5 {
		t.Fatalf("duration match = %v / %v, want 49.5 for both", a.DurationMatch, b.DurationMatch)
	}

	criteria.TargetDuration = 45.4
	if a, b := ScoreCandidate(shorter, criteria).Total(), ScoreCandidate(longer, criteria).Total(); a <= b {
		t.Errorf("45 min scored %v, 46 min scored %v; want 45 ahead for a 45.4 min target", a, b)
	}
}

func TestRecentSessions(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	boom := errors.New("cursor closed")

	tests := []struct {
		name      string
		history   HistorySource
		days      int
		wantIDs   int
		wantErr   error
		wantSince time.Time
	}{
		{"no history source", nil, 0, 0, nil, time.Time{}},
		{"default window", &fakeHistory{ids: []primitive.ObjectID{primitive.NewObjectID()}}, 0, 1, nil, now.AddDate(0, 0, -7)},
		{"configured window", &fakeHistory{}, 14, 0, nil, now.AddDate(0, 0, -14)},
		{"query failure", &failingHistory{err: boom}, 0, 0, boom, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(&fakeCandidates{}, tt.history, tt.days)
			s.now = func() time.Time { return now }

			ids, err := s.RecentSessions(context.Background(), primitive.NewObjectID())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(ids) != tt.wantIDs {
				t.Errorf("ids = %v, want %d", ids, tt.wantIDs)
			}
			if h, ok := tt.history.(*fakeHistory); ok && !h.since.Equal(tt.wantSince) {
				t.Errorf("since = %v, want %v", h.since, tt.wantSince)
			}
		})
	}
}

type failingHistory struct{ err error }

func (f *failingHistory) RecentTemplateIDs(context.Context, primitive.ObjectID, time.Time) ([]primitive.ObjectID, error) {
	return nil, f.err
}

func TestEstimateIntensity(t *testing.T) {
	tagged := 9
	tests := []struct {
		name string
		tpl  domain.SessionTemplate
		want int
	}{
		{"tagged", domain.SessionTemplate{Duration: 30, Intensity: &tagged}, 9},
		{"long session", domain.SessionTemplate{Duration: 90}, 7},
		{"hour session", domain.SessionTemplate{Duration: 60}, 5},
		{"short session", domain.SessionTemplate{Duration: 45}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateIntensity(tt.tpl); got != tt.want {
				t.Errorf("EstimateIntensity() = %d, want %d", got, tt.want)
			}
		})
	}
}
