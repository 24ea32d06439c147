// Package export renders an annual plan as an xlsx workbook.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"alcyxob/golf-coach/internal/domain"
	"alcyxob/golf-coach/internal/planner"

	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SheetOverview      = "Overview"
	SheetPeriodization = "Periodization"
	SheetCalendar      = "Calendar"
	SheetTournaments   = "Tournaments"
)

// ContentType of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PlanData is everything the workbook shows.
type PlanData struct {
	Plan        domain.AnnualPlan
	PlayerName  string
	Weeks       []domain.Periodization
	Tournaments []domain.ScheduledTournament
	Assignments []domain.DailyAssignment
}

var periodColors = map[domain.Period]string{
	domain.PeriodEstablishment: "BDD7EE",
	domain.PeriodGeneral:       "C6EFCE",
	domain.PeriodSpecific:      "FFE699",
	domain.PeriodTournament:    "F8CBAD",
}

type styles struct {
	title  int
	header int
	label  int
	rest   int
	period map[domain.Period]int
}

// BuildPlanWorkbook renders the plan and returns the xlsx bytes.
func BuildPlanWorkbook(data PlanData) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetPeriodization, SheetCalendar, SheetTournaments} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("creating styles: %w", err)
	}

	if err := writeOverview(f, st, data); err != nil {
		return nil, fmt.Errorf("writing overview: %w", err)
	}
	if err := writePeriodization(f, st, data.Weeks); err != nil {
		return nil, fmt.Errorf("writing periodization: %w", err)
	}
	if err := writeCalendar(f, st, data.Assignments); err != nil {
		return nil, fmt.Errorf("writing calendar: %w", err)
	}
	if err := writeTournaments(f, st, data.Tournaments); err != nil {
		return nil, fmt.Errorf("writing tournaments: %w", err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

func newStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	st := &styles{period: make(map[domain.Period]int, len(periodColors))}
	var err error

	st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	st.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E2EFDA"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	st.rest, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Italic: true, Color: "808080"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return nil, err
	}
	for p, color := range periodColors {
		st.period[p], err = f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	return f.SetSheetRow(sheet, cell(1, row), &values)
}

func writeHeader(f *excelize.File, st *styles, sheet string, row int, headers ...string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, row, values...); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), st.header)
}

func writeOverview(f *excelize.File, st *styles, data PlanData) error {
	sheet := SheetOverview
	p := data.Plan

	f.SetCellValue(sheet, "A1", strings.ToUpper(p.PlanName))
	f.MergeCell(sheet, "A1", "D1")
	f.SetCellStyle(sheet, "A1", "D1", st.title)
	f.SetRowHeight(sheet, 1, 30)

	info := [][2]interface{}{
		{"Player:", data.PlayerName},
		{"Category:", p.PlayerCategory},
		{"Scoring average:", p.BaselineAverageScore},
		{"Club speed:", p.ClubSpeedLevel},
		{"Start date:", p.StartDate.Format("2006-01-02")},
		{"End date:", p.EndDate.Format("2006-01-02")},
		{"Weekly hours:", p.WeeklyHoursTarget},
		{"Status:", string(p.Status)},
	}
	row := 3
	for _, kv := range info {
		if err := writeRow(f, sheet, row, kv[0], kv[1]); err != nil {
			return err
		}
		f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.label)
		row++
	}

	row++
	if err := writeHeader(f, st, sheet, row, "Phase", "Weeks", "Volume", "Intensity", "Sessions / week"); err != nil {
		return err
	}
	row++
	phaseWeeks := map[domain.Phase]int{
		domain.PhaseBase:           p.BasePeriodWeeks,
		domain.PhaseSpecialization: p.SpecializationWeeks,
		domain.PhaseTournament:     p.TournamentWeeks,
		domain.PhaseRecovery:       p.RecoveryWeeks,
	}
	phaseHours := make(map[domain.Phase]int)
	for _, w := range data.Weeks {
		if _, ok := phaseHours[w.PeriodPhase]; !ok {
			phaseHours[w.PeriodPhase] = w.PlannedHours
		}
	}
	for _, phase := range domain.Phases {
		load := p.IntensityProfile[string(phase)]
		if err := writeRow(f, sheet, row, string(phase), phaseWeeks[phase], load.Volume, load.Intensity,
			formatDistribution(planner.WeeklySessionDistribution(phase, phaseHours[phase]))); err != nil {
			return err
		}
		row++
	}

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "D", 14)
	f.SetColWidth(sheet, "E", "E", 45)
	return nil
}

func formatDistribution(dist map[string]int) string {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %d", k, dist[k])
	}
	return strings.Join(parts, ", ")
}

func writePeriodization(f *excelize.File, st *styles, weeks []domain.Periodization) error {
	sheet := SheetPeriodization
	if err := writeHeader(f, st, sheet, 1, "Week", "Start", "End", "Phase", "Period", "Week in phase",
		"Intensity", "Hours", "Learning phases", "Focus areas"); err != nil {
		return err
	}
	for i, w := range weeks {
		row := i + 2
		if err := writeRow(f, sheet, row, w.WeekNumber, w.StartDate.Format("2006-01-02"), w.EndDate.Format("2006-01-02"),
			string(w.PeriodPhase), string(w.Period), w.WeekInPeriod, string(w.VolumeIntensity), w.PlannedHours,
			strings.Join(w.LearningPhases, ", "), strings.Join(w.FocusAreas, ", ")); err != nil {
			return err
		}
		if style, ok := st.period[w.Period]; ok {
			f.SetCellStyle(sheet, cell(1, row), cell(10, row), style)
		}
	}
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "C", 12)
	f.SetColWidth(sheet, "D", "H", 14)
	f.SetColWidth(sheet, "I", "J", 40)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return nil
}

func writeCalendar(f *excelize.File, st *styles, assignments []domain.DailyAssignment) error {
	sheet := SheetCalendar
	if err := writeHeader(f, st, sheet, 1, "Date", "Week", "Day", "Period", "Session type", "Minutes",
		"Learning phase", "Setting", "Club speed", "Intensity", "Status"); err != nil {
		return err
	}
	for i, a := range assignments {
		row := i + 2
		if err := writeRow(f, sheet, row, a.AssignedDate.Format("2006-01-02"), a.WeekNumber,
			a.AssignedDate.Weekday().String()[:3], string(a.Period), a.SessionType, a.EstimatedDuration,
			a.LearningPhase, a.Setting, a.ClubSpeed, a.Intensity, string(a.Status)); err != nil {
			return err
		}
		if a.IsRestDay {
			f.SetCellStyle(sheet, cell(1, row), cell(11, row), st.rest)
		}
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "D", 8)
	f.SetColWidth(sheet, "E", "K", 14)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	if len(assignments) > 0 {
		return f.AutoFilter(sheet, fmt.Sprintf("A1:K%d", len(assignments)+1), nil)
	}
	return nil
}

func writeTournaments(f *excelize.File, st *styles, tournaments []domain.ScheduledTournament) error {
	sheet := SheetTournaments
	if err := writeHeader(f, st, sheet, 1, "Name", "Start", "End", "Importance", "Week",
		"Topping from week", "Topping weeks", "Taper from", "Taper days", "Focus areas"); err != nil {
		return err
	}
	for i, t := range tournaments {
		if err := writeRow(f, sheet, i+2, t.Name, t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02"),
			string(t.Importance), t.WeekNumber, t.ToppingStartWeek, t.ToppingDurationWeeks,
			t.TaperingStartDate.Format("2006-01-02"), t.TaperingDurationDays, strings.Join(t.FocusAreas, ", ")); err != nil {
			return err
		}
	}
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "I", 13)
	f.SetColWidth(sheet, "J", "J", 50)
	return nil
}
