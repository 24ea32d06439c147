package export

import (
	"testing"
	"time"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/planner"

	"github.com/xuri/excelize/v2"
)

func samplePlan(t *testing.T) PlanData {
	t.Helper()
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tpl := planner.DefaultCatalog().TemplateForScore(78)
	tournaments := planner.ScheduleTournaments(start, []domain.TournamentInput{{
		Name:       "Club Championship",
		StartDate:  start.AddDate(0, 0, 7*19+1),
		Importance: domain.ImportanceA,
	}})
	weeks, err := planner.BuildStructure(start, tpl, tournaments)
	if err != nil {
		t.Fatalf("BuildStructure() error = %v", err)
	}
	tplID := weeks[0].ID
	days := []domain.DailyAssignment{
		{AssignedDate: start, WeekNumber: 1, Period: domain.PeriodEstablishment, SessionTemplateID: &tplID,
			SessionType: "technical", EstimatedDuration: 90, LearningPhase: "L2", Setting: "S1",
			ClubSpeed: "CS90", Intensity: 5, Status: domain.StatusPlanned},
		{AssignedDate: start.AddDate(0, 0, 6), WeekNumber: 1, Period: domain.PeriodEstablishment,
			SessionType: domain.SessionTypeRest, ClubSpeed: "CS90", Intensity: 5, IsRestDay: true, Status: domain.StatusPlanned},
	}
	return PlanData{
		Plan: domain.AnnualPlan{
			PlanName:             "78 avg - 12-month plan",
			StartDate:            start,
			EndDate:              start.AddDate(0, 0, 364),
			Status:               domain.PlanStatusActive,
			BaselineAverageScore: 78,
			PlayerCategory:       string(tpl.Tier),
			ClubSpeedLevel:       "CS90",
			BasePeriodWeeks:      tpl.BaseWeeks,
			SpecializationWeeks:  tpl.SpecializationWeeks,
			TournamentWeeks:      tpl.TournamentWeeks,
			RecoveryWeeks:        tpl.RecoveryWeeks,
			WeeklyHoursTarget:    tpl.MidpointHours(),
			IntensityProfile:     tpl.IntensityProfile(),
		},
		PlayerName:  "Sam Player",
		Weeks:       weeks,
		Tournaments: tournaments,
		Assignments: days,
	}
}

func TestBuildPlanWorkbook(t *testing.T) {
	data := samplePlan(t)
	buf, err := BuildPlanWorkbook(data)
	if err != nil {
		t.Fatalf("BuildPlanWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	wantSheets := []string{SheetOverview, SheetPeriodization, SheetCalendar, SheetTournaments}
	got := f.GetSheetList()
	if len(got) != len(wantSheets) {
		t.Fatalf("sheets = %v, want %v", got, wantSheets)
	}
	for i, name := range wantSheets {
		if got[i] != name {
			t.Errorf("sheet %d = %q, want %q", i, got[i], name)
		}
	}

	tests := []struct {
		sheet string
		cell  string
		want  string
	}{
		{SheetOverview, "A1", "78 AVG - 12-MONTH PLAN"},
		{SheetOverview, "B3", "Sam Player"},
		{SheetOverview, "B4", "I1"},
		{SheetOverview, "A13", "base"},
		{SheetOverview, "B13", "12"},
		{SheetOverview, "E13", "mental 1, physical 2, short_game 1, technical 4"},
		{SheetPeriodization, "A1", "Week"},
		{SheetPeriodization, "A2", "1"},
		{SheetPeriodization, "B2", "2025-01-06"},
		{SheetPeriodization, "A53", "52"},
		{SheetPeriodization, "E20", "T"},
		{SheetPeriodization, "G20", "peak"},
		{SheetPeriodization, "G21", "taper"},
		{SheetCalendar, "A2", "2025-01-06"},
		{SheetCalendar, "C2", "Mon"},
		{SheetCalendar, "E2", "technical"},
		{SheetCalendar, "F2", "90"},
		{SheetCalendar, "E3", "rest"},
		{SheetTournaments, "A2", "Club Championship"},
		{SheetTournaments, "D2", "A"},
		{SheetTournaments, "E2", "20"},
		{SheetTournaments, "F2", "17"},
	}
	for _, tt := range tests {
		t.Run(tt.sheet+"!"+tt.cell, func(t *testing.T) {
			v, err := f.GetCellValue(tt.sheet, tt.cell)
			if err != nil {
				t.Fatalf("GetCellValue() error = %v", err)
			}
			if v != tt.want {
				t.Errorf("got %q, want %q", v, tt.want)
			}
		})
	}
}

func TestBuildPlanWorkbookEmptyPlan(t *testing.T) {
	buf, err := BuildPlanWorkbook(PlanData{Plan: domain.AnnualPlan{PlanName: "empty"}})
	if err != nil {
		t.Fatalf("BuildPlanWorkbook() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty workbook bytes")
	}
}
