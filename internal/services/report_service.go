package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"guard-analytics/pkg/types"
)

const (
	SheetSummary    = "Summary"
	SheetHourly     = "Hourly"
	SheetGuards     = "Guards"
	SheetLocations  = "Locations"
	SheetCompliance = "Compliance"
)

var (
	hourlyHeaders = []string{"Час", "Всего отметок", "Вовремя", "Точная геолокация", "С задержкой", "Соответствие, %"}
	guardHeaders  = []string{
		"ID", "ФИО", "Смен", "Смен вовремя", "Опозданий", "Отметок", "Отметок вовремя", "Точная геолокация",
		"Постов", "Посты", "Часы", "Посещаемость, %", "Соответствие отметок, %", "Балл посещаемости",
		"Балл активности", "Балл охвата", "Итоговый балл",
	}
	locationHeaders = []string{
		"Пост", "Всего смен", "Закрыто смен", "Смен вовремя", "Охранников", "Охранники", "Часы",
		"Покрытие, %", "Пунктуальность, %", "Средняя смена, ч",
	}
	complianceHeaders = []string{"Тип", "Ключ", "Название", "Проверка", "Значение", "Цель", "Пройдена", "Балл, %"}
)

// BuildWorkbook раскладывает дашборд по листам xlsx.
func BuildWorkbook(d types.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeSummary(f, d, bold); err != nil {
		return nil, fmt.Errorf("лист %s: %w", SheetSummary, err)
	}

	hourly := make([][]interface{}, 0, len(d.Hourly))
	for _, b := range d.Hourly {
		hourly = append(hourly, []interface{}{b.Hour, b.Total, b.OnTime, b.LocationAccurate, b.Delayed, b.ComplianceRate})
	}
	guards := make([][]interface{}, 0, len(d.Guards))
	for _, g := range d.Guards {
		guards = append(guards, []interface{}{
			g.GuardID, g.Name, g.Shifts.Total, g.Shifts.OnTime, g.Shifts.Late,
			g.Activities.Total, g.Activities.OnTime, g.Activities.LocationAccurate,
			g.LocationCount, strings.Join(g.Locations, ", "), g.DutyHours,
			g.AttendanceRate, g.ActivityComplianceRate, g.AttendanceScore,
			g.ActivityScore, g.CoverageScore, g.PerformanceScore,
		})
	}
	locations := make([][]interface{}, 0, len(d.Locations))
	for _, l := range d.Locations {
		locations = append(locations, []interface{}{
			l.PostName, l.TotalShifts, l.CoveredShifts, l.OnTimeShifts, l.GuardCount,
			strings.Join(l.Guards, ", "), l.DutyHours, l.CoverageRate, l.PunctualityRate, l.AverageShiftHours,
		})
	}
	var compliance [][]interface{}
	for _, group := range [][]types.EntityCompliance{d.Compliance.Locations, d.Compliance.Guards} {
		for _, e := range group {
			for _, c := range e.Checks {
				compliance = append(compliance, []interface{}{
					string(e.Kind), e.Key, e.Name, c.Name, c.Value, c.Target, yesNo(c.Passed), e.Score,
				})
			}
		}
	}

	tables := []struct {
		sheet   string
		headers []string
		rows    [][]interface{}
	}{
		{SheetHourly, hourlyHeaders, hourly},
		{SheetGuards, guardHeaders, guards},
		{SheetLocations, locationHeaders, locations},
		{SheetCompliance, complianceHeaders, compliance},
	}
	for _, t := range tables {
		if err := writeTable(f, t.sheet, t.headers, t.rows, bold); err != nil {
			return nil, fmt.Errorf("лист %s: %w", t.sheet, err)
		}
	}
	return f, nil
}

func writeSummary(f *excelize.File, d types.Dashboard, bold int) error {
	s := d.Summary
	date := d.Date
	if date == "" {
		date = "все даты"
	}
	rows := [][]interface{}{
		{"Дата", date},
		{"Всего отметок", s.TotalActivities},
		{"Всего смен", s.TotalShifts},
		{"Активных охранников", s.ActiveGuards},
		{"Закрытых постов", s.StaffedLocations},
		{"Отметок с задержкой", s.DelayedActivities},
		{"Информационных тревог", s.InformationalAlerts},
		{"Критических тревог", s.CriticalAlerts},
		{"Средний балл охранников", s.AveragePerformance},
		{"Среднее покрытие постов, %", s.AverageCoverageRate},
		{"Общее соответствие, %", s.OverallComplianceRate},
		{"Пройдено проверок", fmt.Sprintf("%d / %d", d.Compliance.PassedChecks, d.Compliance.TotalChecks)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 32)
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]interface{}, bold int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func yesNo(b bool) string {
	if b {
		return "да"
	}
	return "нет"
}
