package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, userID, tenantID primitive.ObjectID, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID:   userID.Hex(),
		Role:     role,
		TenantID: tenantID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

// fakePlanService records the last call and returns canned results.
type fakePlanService struct {
	service.PlanService
	gotActor service.Actor
	gotInput service.GeneratePlanInput
	gotWeek  int
	gotFrom  time.Time
	gotTo    time.Time
	result   *service.GenerationResult
	days     []domain.DailyAssignment
	err      error
}

func (f *fakePlanService) GeneratePlan(_ context.Context, actor service.Actor, in service.GeneratePlanInput) (*service.GenerationResult, error) {
	f.gotActor, f.gotInput = actor, in
	return f.result, f.err
}

func (f *fakePlanService) GetWeek(_ context.Context, actor service.Actor, _ primitive.ObjectID, week int) ([]domain.DailyAssignment, error) {
	f.gotActor, f.gotWeek = actor, week
	return f.days, f.err
}

func (f *fakePlanService) GetCalendar(_ context.Context, actor service.Actor, _ primitive.ObjectID, from, to time.Time) ([]domain.DailyAssignment, error) {
	f.gotActor, f.gotFrom, f.gotTo = actor, from, to
	return f.days, f.err
}

func (f *fakePlanService) GetDay(_ context.Context, _ service.Actor, _ primitive.ObjectID, date time.Time) (*domain.DailyAssignment, error) {
	f.gotFrom = date
	if f.err != nil {
		return nil, f.err
	}
	return &f.days[0], nil
}

type fakeAdjustmentService struct {
	service.AdjustmentService
	gotStatus domain.AssignmentStatus
	gotNotes  string
	gotFirst  time.Time
	gotSecond time.Time
	err       error
}

func (f *fakeAdjustmentService) UpdateAssignmentStatus(_ context.Context, _ service.Actor, id primitive.ObjectID, status domain.AssignmentStatus, notes string) (*domain.DailyAssignment, error) {
	f.gotStatus, f.gotNotes = status, notes
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DailyAssignment{ID: id, Status: status, Notes: notes}, nil
}

func (f *fakeAdjustmentService) SwapSessions(_ context.Context, _ service.Actor, _ primitive.ObjectID, first, second time.Time) ([]domain.DailyAssignment, error) {
	f.gotFirst, f.gotSecond = first, second
	if f.err != nil {
		return nil, f.err
	}
	return []domain.DailyAssignment{{AssignedDate: first}, {AssignedDate: second}}, nil
}

type testServer struct {
	router   *gin.Engine
	plans    *fakePlanService
	adjust   *fakeAdjustmentService
	userID   primitive.ObjectID
	tenantID primitive.ObjectID
}

func newTestServer() *testServer {
	s := &testServer{
		router:   gin.New(),
		plans:    &fakePlanService{},
		adjust:   &fakeAdjustmentService{},
		userID:   primitive.NewObjectID(),
		tenantID: primitive.NewObjectID(),
	}
	SetupRoutes(s.router, testSecret, Services{Plan: s.plans, Adjustment: s.adjust})
	return s
}

func (s *testServer) do(t *testing.T, method, path string, role domain.Role, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, s.userID, s.tenantID, role, time.Hour))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer()
	expired := signToken(t, s.userID, s.tenantID, domain.RoleCoach, -time.Hour)
	otherSecret, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID: s.userID.Hex(), Role: domain.RoleCoach, TenantID: s.tenantID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other"))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong signature", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"valid token", "Bearer " + signToken(t, s.userID, s.tenantID, domain.RolePlayer, time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGeneratePlanHandler(t *testing.T) {
	playerID := primitive.NewObjectID()
	path := "/api/v1/players/" + playerID.Hex() + "/plans"

	t.Run("players cannot generate", func(t *testing.T) {
		s := newTestServer()
		w := s.do(t, http.MethodPost, path, domain.RolePlayer, gin.H{"startDate": "2025-01-06"})
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("request is converted to service input", func(t *testing.T) {
		s := newTestServer()
		s.plans.result = &service.GenerationResult{ArchivedPlans: 1}
		w := s.do(t, http.MethodPost, path, domain.RoleCoach, gin.H{
			"startDate":       "2025-01-06",
			"baselineAverage": 72.5,
			"preferredDays":   []int{1, 3, 5},
			"excludedDates":   []string{"2025-02-01"},
			"tournaments": []gin.H{
				{"name": "Club Championship", "startDate": "2025-05-20", "endDate": "2025-05-22", "importance": "A"},
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
		}
		in := s.plans.gotInput
		if in.PlayerID != playerID {
			t.Errorf("player = %s, want %s", in.PlayerID.Hex(), playerID.Hex())
		}
		if !in.StartDate.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("start = %v", in.StartDate)
		}
		if in.BaselineAverage == nil || *in.BaselineAverage != 72.5 {
			t.Errorf("baseline = %v", in.BaselineAverage)
		}
		if len(in.ExcludedDates) != 1 || len(in.PreferredDays) != 3 {
			t.Errorf("excluded = %v, preferred = %v", in.ExcludedDates, in.PreferredDays)
		}
		if len(in.Tournaments) != 1 || in.Tournaments[0].Importance != domain.ImportanceA ||
			!in.Tournaments[0].EndDate.Equal(time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("tournaments = %+v", in.Tournaments)
		}
		if s.plans.gotActor.UserID != s.userID || s.plans.gotActor.TenantID != s.tenantID || s.plans.gotActor.Role != domain.RoleCoach {
			t.Errorf("actor = %+v", s.plans.gotActor)
		}
	})

	tests := []struct {
		name string
		path string
		body gin.H
		err  error
		want int
	}{
		{"bad player id", "/api/v1/players/nope/plans", gin.H{"startDate": "2025-01-06"}, nil, http.StatusBadRequest},
		{"missing start date", path, gin.H{}, nil, http.StatusBadRequest},
		{"malformed start date", path, gin.H{"startDate": "06/01/2025"}, nil, http.StatusBadRequest},
		{"preferred day out of range", path, gin.H{"startDate": "2025-01-06", "preferredDays": []int{7}}, nil, http.StatusBadRequest},
		{"bad importance", path, gin.H{"startDate": "2025-01-06", "tournaments": []gin.H{{"name": "X", "startDate": "2025-03-01", "importance": "D"}}}, nil, http.StatusBadRequest},
		{"service validation", path, gin.H{"startDate": "2025-01-06"}, service.ErrInvalidPlanInput, http.StatusBadRequest},
		{"player not managed", path, gin.H{"startDate": "2025-01-06"}, service.ErrPlayerNotManaged, http.StatusForbidden},
		{"player not found", path, gin.H{"startDate": "2025-01-06"}, service.ErrPlayerNotFound, http.StatusNotFound},
		{"storage failure", path, gin.H{"startDate": "2025-01-06"}, context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.plans.err = tt.err
			s.plans.result = &service.GenerationResult{}
			w := s.do(t, http.MethodPost, tt.path, domain.RoleCoach, tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGetCalendarHandler(t *testing.T) {
	planID := primitive.NewObjectID()
	base := "/api/v1/plans/" + planID.Hex() + "/calendar"

	t.Run("week query", func(t *testing.T) {
		s := newTestServer()
		s.plans.days = []domain.DailyAssignment{{WeekNumber: 3}}
		w := s.do(t, http.MethodGet, base+"?week=3", domain.RolePlayer, nil)
		if w.Code != http.StatusOK || s.plans.gotWeek != 3 {
			t.Fatalf("status = %d, week = %d", w.Code, s.plans.gotWeek)
		}
	})

	t.Run("date range", func(t *testing.T) {
		s := newTestServer()
		w := s.do(t, http.MethodGet, base+"?from=2025-01-06&to=2025-01-12", domain.RolePlayer, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if s.plans.gotFrom.Format(DateLayout) != "2025-01-06" || s.plans.gotTo.Format(DateLayout) != "2025-01-12" {
			t.Errorf("range = %v..%v", s.plans.gotFrom, s.plans.gotTo)
		}
	})

	tests := []struct {
		name  string
		query string
		err   error
		want  int
	}{
		{"week not a number", "?week=x", nil, http.StatusBadRequest},
		{"week out of range", "?week=53", service.ErrInvalidWeek, http.StatusBadRequest},
		{"bad from", "?from=tomorrow", nil, http.StatusBadRequest},
		{"inverted range", "?from=2025-02-01&to=2025-01-01", service.ErrInvalidDateRange, http.StatusBadRequest},
		{"plan of another coach", "", service.ErrPlanAccessDenied, http.StatusForbidden},
		{"unknown plan", "", service.ErrPlanNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.plans.err = tt.err
			w := s.do(t, http.MethodGet, base+tt.query, domain.RoleCoach, nil)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGetDayHandler(t *testing.T) {
	planID := primitive.NewObjectID()
	s := newTestServer()
	s.plans.days = []domain.DailyAssignment{{SessionType: "technical"}}

	w := s.do(t, http.MethodGet, "/api/v1/plans/"+planID.Hex()+"/days/2025-03-04", domain.RolePlayer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got domain.DailyAssignment
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SessionType != "technical" || s.plans.gotFrom.Format(DateLayout) != "2025-03-04" {
		t.Errorf("got %+v for %v", got, s.plans.gotFrom)
	}

	s.plans.err = service.ErrAssignmentNotFound
	if w := s.do(t, http.MethodGet, "/api/v1/plans/"+planID.Hex()+"/days/2025-03-04", domain.RolePlayer, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing day status = %d, want 404", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/v1/plans/"+planID.Hex()+"/days/March", domain.RolePlayer, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", w.Code)
	}
}

func TestAssignmentHandlers(t *testing.T) {
	assignmentID := primitive.NewObjectID()
	planID := primitive.NewObjectID()

	tests := []struct {
		name   string
		method string
		path   string
		body   gin.H
		err    error
		want   int
	}{
		{"status update", http.MethodPatch, "/api/v1/assignments/" + assignmentID.Hex() + "/status", gin.H{"status": "completed", "notes": "felt good"}, nil, http.StatusOK},
		{"status missing", http.MethodPatch, "/api/v1/assignments/" + assignmentID.Hex() + "/status", gin.H{}, nil, http.StatusBadRequest},
		{"status unknown", http.MethodPatch, "/api/v1/assignments/" + assignmentID.Hex() + "/status", gin.H{"status": "done"}, service.ErrInvalidStatus, http.StatusBadRequest},
		{"transition refused", http.MethodPatch, "/api/v1/assignments/" + assignmentID.Hex() + "/status", gin.H{"status": "planned"}, service.ErrInvalidTransition, http.StatusConflict},
		{"swap", http.MethodPost, "/api/v1/plans/" + planID.Hex() + "/swap", gin.H{"first": "2025-01-06", "second": "2025-01-12"}, nil, http.StatusOK},
		{"swap bad date", http.MethodPost, "/api/v1/plans/" + planID.Hex() + "/swap", gin.H{"first": "2025-01-06", "second": "soon"}, nil, http.StatusBadRequest},
		{"swap refused", http.MethodPost, "/api/v1/plans/" + planID.Hex() + "/swap", gin.H{"first": "2025-01-06", "second": "2025-01-12"}, service.ErrSwapNotAllowed, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.adjust.err = tt.err
			w := s.do(t, tt.method, tt.path, domain.RolePlayer, tt.body)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	s := newTestServer()
	s.do(t, http.MethodPatch, "/api/v1/assignments/"+assignmentID.Hex()+"/status", domain.RolePlayer, gin.H{"status": "skipped", "notes": "travel"})
	if s.adjust.gotStatus != domain.StatusSkipped || s.adjust.gotNotes != "travel" {
		t.Errorf("service got status %q notes %q", s.adjust.gotStatus, s.adjust.gotNotes)
	}
}
