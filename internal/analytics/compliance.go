package analytics

import (
	"guard-analytics/pkg/types"
)

// Фиксированные пороги политики соответствия.
const (
	CoverageTarget           = 95.0
	PunctualityTarget        = 90.0
	MinGuardsPerPost         = 2
	AttendanceTarget         = 95.0
	ActivityComplianceTarget = 90.0
	MinCoveredLocations      = 1
)

const checksPerEntity = 3

// EvaluateCompliance проверяет каждый пост и каждого охранника по трем правилам.
// Общий балл = пройденные проверки / все проверки, 0 если проверять нечего.
func EvaluateCompliance(locations []types.LocationProfile, guards []types.GuardProfile) types.ComplianceReport {
	report := types.ComplianceReport{
		Locations: make([]types.EntityCompliance, 0, len(locations)),
		Guards:    make([]types.EntityCompliance, 0, len(guards)),
	}

	for _, l := range locations {
		entity := newEntityCompliance(types.ComplianceKindLocation, l.PostName, l.PostName, []types.ComplianceCheck{
			{Name: "coverage", Value: l.CoverageRate, Target: CoverageTarget, Passed: l.CoverageRate >= CoverageTarget},
			{Name: "punctuality", Value: l.PunctualityRate, Target: PunctualityTarget, Passed: l.PunctualityRate >= PunctualityTarget},
			{Name: "staffing", Value: float64(l.GuardCount), Target: MinGuardsPerPost, Passed: l.GuardCount >= MinGuardsPerPost},
		})
		report.Locations = append(report.Locations, entity)
		report.PassedChecks += entity.Passed
		report.TotalChecks += checksPerEntity
	}

	for _, g := range guards {
		entity := newEntityCompliance(types.ComplianceKindGuard, g.GuardID, g.Name, []types.ComplianceCheck{
			{Name: "attendance", Value: g.AttendanceRate, Target: AttendanceTarget, Passed: g.AttendanceRate >= AttendanceTarget},
			{Name: "activity_compliance", Value: g.ActivityComplianceRate, Target: ActivityComplianceTarget, Passed: g.ActivityComplianceRate >= ActivityComplianceTarget},
			{Name: "location_coverage", Value: float64(g.LocationCount), Target: MinCoveredLocations, Passed: g.LocationCount >= MinCoveredLocations},
		})
		report.Guards = append(report.Guards, entity)
		report.PassedChecks += entity.Passed
		report.TotalChecks += checksPerEntity
	}

	report.OverallScore = percent(report.PassedChecks, report.TotalChecks)
	return report
}

func newEntityCompliance(kind types.ComplianceKind, key, name string, checks []types.ComplianceCheck) types.EntityCompliance {
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}
	return types.EntityCompliance{
		Kind:   kind,
		Key:    key,
		Name:   name,
		Checks: checks,
		Passed: passed,
		Score:  percent(passed, len(checks)),
	}
}
