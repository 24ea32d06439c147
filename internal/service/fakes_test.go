package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories shared by the service tests.

type fakeUsers struct {
	byID map[primitive.ObjectID]*domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range f.byID {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	f.byID[user.ID] = &cp
	return user.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetPlayersByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range f.byID {
		if u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) SetCoachForPlayer(_ context.Context, playerID, coachID primitive.ObjectID) error {
	u, ok := f.byID[playerID]
	if !ok {
		return repository.ErrNotFound
	}
	u.CoachID = &coachID
	return nil
}

type fakePlayers struct {
	baselines      map[primitive.ObjectID]domain.PlayerBaseline
	breakingPoints []domain.BreakingPoint
	err            error
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{baselines: make(map[primitive.ObjectID]domain.PlayerBaseline)}
}

func (f *fakePlayers) GetBaseline(_ context.Context, playerID primitive.ObjectID) (*domain.PlayerBaseline, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.baselines[playerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (f *fakePlayers) UpsertBaseline(_ context.Context, b *domain.PlayerBaseline) error {
	f.baselines[b.PlayerID] = *b
	return nil
}

func (f *fakePlayers) ActiveBreakingPointIDs(_ context.Context, playerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, bp := range f.breakingPoints {
		if bp.PlayerID == playerID && bp.Status != domain.BreakingPointResolved {
			ids = append(ids, bp.ID)
		}
	}
	return ids, nil
}

func (f *fakePlayers) CreateBreakingPoint(_ context.Context, bp *domain.BreakingPoint) (primitive.ObjectID, error) {
	bp.ID = primitive.NewObjectID()
	f.breakingPoints = append(f.breakingPoints, *bp)
	return bp.ID, nil
}

type fakePlans struct {
	byID map[primitive.ObjectID]*domain.AnnualPlan
}

func newFakePlans() *fakePlans {
	return &fakePlans{byID: make(map[primitive.ObjectID]*domain.AnnualPlan)}
}

func (f *fakePlans) Create(_ context.Context, plan *domain.AnnualPlan) (primitive.ObjectID, error) {
	if plan.Status == domain.PlanStatusActive {
		for _, p := range f.byID {
			if p.PlayerID == plan.PlayerID && p.Status == domain.PlanStatusActive {
				return primitive.NilObjectID, repository.ErrActivePlanSet
			}
		}
	}
	plan.ID = primitive.NewObjectID()
	cp := *plan
	f.byID[plan.ID] = &cp
	return plan.ID, nil
}

func (f *fakePlans) GetByID(_ context.Context, id primitive.ObjectID) (*domain.AnnualPlan, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlans) GetByPlayerID(_ context.Context, playerID primitive.ObjectID) ([]domain.AnnualPlan, error) {
	out := []domain.AnnualPlan{}
	for _, p := range f.byID {
		if p.PlayerID == playerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (f *fakePlans) GetActiveForPlayer(_ context.Context, playerID primitive.ObjectID) (*domain.AnnualPlan, error) {
	for _, p := range f.byID {
		if p.PlayerID == playerID && p.Status == domain.PlanStatusActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePlans) ArchiveActiveForPlayer(_ context.Context, playerID primitive.ObjectID) (int64, error) {
	var n int64
	for _, p := range f.byID {
		if p.PlayerID == playerID && p.Status == domain.PlanStatusActive {
			p.Status = domain.PlanStatusArchived
			n++
		}
	}
	return n, nil
}

func (f *fakePlans) LinkIntake(_ context.Context, planID, intakeID primitive.ObjectID) error {
	p, ok := f.byID[planID]
	if !ok {
		return repository.ErrNotFound
	}
	p.SourceIntakeID = &intakeID
	return nil
}

func (f *fakePlans) CompleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, p := range f.byID {
		if p.Status == domain.PlanStatusActive && p.EndDate.Before(now) {
			p.Status = domain.PlanStatusCompleted
			n++
		}
	}
	return n, nil
}

type fakeWeeks struct {
	byPlan map[primitive.ObjectID][]domain.Periodization
}

func (f *fakeWeeks) CreateMany(_ context.Context, weeks []domain.Periodization) error {
	if f.byPlan == nil {
		f.byPlan = make(map[primitive.ObjectID][]domain.Periodization)
	}
	for _, w := range weeks {
		f.byPlan[w.AnnualPlanID] = append(f.byPlan[w.AnnualPlanID], w)
	}
	return nil
}

func (f *fakeWeeks) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.Periodization, error) {
	return f.byPlan[planID], nil
}

type fakeTournaments struct {
	byPlan map[primitive.ObjectID][]domain.ScheduledTournament
}

func (f *fakeTournaments) CreateMany(_ context.Context, ts []domain.ScheduledTournament) error {
	if f.byPlan == nil {
		f.byPlan = make(map[primitive.ObjectID][]domain.ScheduledTournament)
	}
	for _, t := range ts {
		f.byPlan[t.AnnualPlanID] = append(f.byPlan[t.AnnualPlanID], t)
	}
	return nil
}

func (f *fakeTournaments) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.ScheduledTournament, error) {
	return f.byPlan[planID], nil
}

type fakeAssignments struct {
	byID      map[primitive.ObjectID]*domain.DailyAssignment
	createErr error
	history   []primitive.ObjectID
}

func newFakeAssignments() *fakeAssignments {
	return &fakeAssignments{byID: make(map[primitive.ObjectID]*domain.DailyAssignment)}
}

func (f *fakeAssignments) CreateMany(_ context.Context, as []domain.DailyAssignment) (int, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	for i := range as {
		as[i].ID = primitive.NewObjectID()
		cp := as[i]
		f.byID[cp.ID] = &cp
	}
	return len(as), nil
}

func (f *fakeAssignments) GetByID(_ context.Context, id primitive.ObjectID) (*domain.DailyAssignment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssignments) GetByPlanAndDate(_ context.Context, planID primitive.ObjectID, date time.Time) (*domain.DailyAssignment, error) {
	for _, a := range f.byID {
		if a.AnnualPlanID == planID && a.AssignedDate.Equal(date) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssignments) GetByPlanAndRange(_ context.Context, planID primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error) {
	out := []domain.DailyAssignment{}
	for _, a := range f.byID {
		if a.AnnualPlanID == planID && !a.AssignedDate.Before(from) && !a.AssignedDate.After(to) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedDate.Before(out[j].AssignedDate) })
	return out, nil
}

func (f *fakeAssignments) RecentTemplateIDs(context.Context, primitive.ObjectID, time.Time) ([]primitive.ObjectID, error) {
	return f.history, nil
}

func (f *fakeAssignments) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.AssignmentStatus, notes string) error {
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	if notes != "" {
		a.Notes = notes
	}
	return nil
}

func (f *fakeAssignments) Update(_ context.Context, assignment *domain.DailyAssignment) error {
	if _, ok := f.byID[assignment.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *assignment
	f.byID[assignment.ID] = &cp
	return nil
}

// fakeTemplates serves candidates by tenant, period and duration window.
type fakeTemplates struct {
	byID map[primitive.ObjectID]*domain.SessionTemplate
}

func newFakeTemplates(templates ...domain.SessionTemplate) *fakeTemplates {
	f := &fakeTemplates{byID: make(map[primitive.ObjectID]*domain.SessionTemplate)}
	for i := range templates {
		t := templates[i]
		if t.ID == primitive.NilObjectID {
			t.ID = primitive.NewObjectID()
		}
		f.byID[t.ID] = &t
	}
	return f
}

func (f *fakeTemplates) Create(_ context.Context, tpl *domain.SessionTemplate) (primitive.ObjectID, error) {
	tpl.ID = primitive.NewObjectID()
	cp := *tpl
	f.byID[tpl.ID] = &cp
	return tpl.ID, nil
}

func (f *fakeTemplates) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionTemplate, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTemplates) GetByTenantID(_ context.Context, tenantID primitive.ObjectID) ([]domain.SessionTemplate, error) {
	out := []domain.SessionTemplate{}
	for _, t := range f.byID {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTemplates) Update(_ context.Context, tpl *domain.SessionTemplate) error {
	if _, ok := f.byID[tpl.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *tpl
	f.byID[tpl.ID] = &cp
	return nil
}

func (f *fakeTemplates) Delete(_ context.Context, id, tenantID primitive.ObjectID) error {
	t, ok := f.byID[id]
	if !ok || t.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTemplates) FindCandidates(_ context.Context, filter repository.CandidateFilter) ([]domain.SessionCandidate, error) {
	var out []domain.SessionCandidate
	for _, t := range f.byID {
		if t.TenantID != filter.TenantID || !t.IsActive {
			continue
		}
		if t.Duration < filter.MinDuration || t.Duration > filter.MaxDuration {
			continue
		}
		if !sharesPeriod(t.Periods, filter.Periods) {
			continue
		}
		out = append(out, domain.SessionCandidate{SessionTemplate: *t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func sharesPeriod(a, b []domain.Period) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

type fakeExports struct {
	byID      map[primitive.ObjectID]*domain.PlanExport
	createErr error
}

func newFakeExports() *fakeExports {
	return &fakeExports{byID: make(map[primitive.ObjectID]*domain.PlanExport)}
}

func (f *fakeExports) Create(_ context.Context, e *domain.PlanExport) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	e.ID = primitive.NewObjectID()
	cp := *e
	f.byID[e.ID] = &cp
	return e.ID, nil
}

func (f *fakeExports) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanExport, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExports) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlanExport, error) {
	out := []domain.PlanExport{}
	for _, e := range f.byID {
		if e.AnnualPlanID == planID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// fakeTx runs fn directly and counts calls.
type fakeTx struct {
	calls int
}

func (t *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) PutObject(_ context.Context, key string, body io.Reader, size int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return err
	}
	if n != size {
		return errors.New("size mismatch")
	}
	s.mu.Lock()
	s.objects[key] = buf.Bytes()
	s.mu.Unlock()
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://exports.example.test/" + key + "?signature=x", nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}
