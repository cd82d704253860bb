package analytics

import (
	"math"
	"strings"

	"guard-analytics/internal/entities"
	"guard-analytics/pkg/types"
)

// FilterActivity оставляет отметки, у которых Date/Time содержит date как подстроку.
// Пустая дата пропускает все.
func FilterActivity(activity []entities.ActivityRecord, date string) []entities.ActivityRecord {
	out := make([]entities.ActivityRecord, 0, len(activity))
	for _, rec := range activity {
		if strings.Contains(rec.DateTime, date) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterAttendance - то же для Login Date.
func FilterAttendance(attendance []entities.AttendanceRecord, date string) []entities.AttendanceRecord {
	out := make([]entities.AttendanceRecord, 0, len(attendance))
	for _, rec := range attendance {
		if strings.Contains(rec.LoginDate, date) {
			out = append(out, rec)
		}
	}
	return out
}

// Compute строит дашборд за дату. Результат зависит только от входа.
func Compute(date string, activity []entities.ActivityRecord, attendance []entities.AttendanceRecord, opts Options) types.Dashboard {
	activity = FilterActivity(activity, date)
	attendance = FilterAttendance(attendance, date)

	hourly := BuildHourly(activity)
	guards := BuildGuardProfiles(attendance, activity, opts)
	locations := BuildLocationProfiles(attendance)
	compliance := EvaluateCompliance(locations, guards)

	return types.Dashboard{
		Date:       date,
		Summary:    buildSummary(activity, attendance, guards, locations, compliance),
		Hourly:     hourly,
		Guards:     guards,
		Locations:  locations,
		Compliance: compliance,
	}
}

func buildSummary(
	activity []entities.ActivityRecord,
	attendance []entities.AttendanceRecord,
	guards []types.GuardProfile,
	locations []types.LocationProfile,
	compliance types.ComplianceReport,
) types.DashboardSummary {
	s := types.DashboardSummary{
		TotalActivities:       len(activity),
		TotalShifts:           len(attendance),
		ActiveGuards:          len(guards),
		OverallComplianceRate: compliance.OverallScore,
	}
	for _, rec := range activity {
		if rec.TimeAccuracy == entities.TimeAccuracyDelayed {
			s.DelayedActivities++
		}
		switch rec.Alert {
		case entities.AlertCritical:
			s.CriticalAlerts++
		case entities.AlertInformational:
			s.InformationalAlerts++
		}
	}

	var perfSum, coverageSum float64
	for _, g := range guards {
		perfSum += g.PerformanceScore
	}
	for _, l := range locations {
		coverageSum += l.CoverageRate
		if l.CoveredShifts > 0 {
			s.StaffedLocations++
		}
	}
	if len(guards) > 0 {
		s.AveragePerformance = math.Round(perfSum / float64(len(guards)))
	}
	if len(locations) > 0 {
		s.AverageCoverageRate = math.Round(coverageSum / float64(len(locations)))
	}
	return s
}
