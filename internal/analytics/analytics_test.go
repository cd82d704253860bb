package analytics

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard-analytics/internal/entities"
	"guard-analytics/pkg/types"
)

func shift(id, name, post string, onTime bool, hours string) entities.AttendanceRecord {
	rec := entities.AttendanceRecord{
		GuardID:   id,
		GuardName: name,
		PostName:  post,
		LoginDate: "2024-05-01 08:00",
		Lateness:  entities.LatenessLate,
		DutyHours: decimal.Zero,
	}
	if onTime {
		rec.Lateness = entities.LatenessOnTime
	}
	if hours != "" {
		rec.DutyHours = decimal.RequireFromString(hours)
		rec.HasDutyHours = true
	}
	return rec
}

func mark(id, at string, accuracy entities.TimeAccuracy, meters float64) entities.ActivityRecord {
	rec := entities.ActivityRecord{GuardID: id, GuardName: id, DateTime: at, TimeAccuracy: accuracy, Alert: entities.AlertNone}
	if ts, err := time.Parse("2006-01-02 15:04", at); err == nil {
		rec.Timestamp = null.TimeFrom(ts)
	}
	if meters >= 0 {
		rec.LocationAccuracy = null.Float64From(meters)
	}
	return rec
}

func TestBuildHourly(t *testing.T) {
	buckets := BuildHourly([]entities.ActivityRecord{
		mark("G1", "2024-05-01 08:10", entities.TimeAccuracyOnTime, 5),
		mark("G1", "2024-05-01 08:50", entities.TimeAccuracyDelayed, 30),
		mark("G2", "2024-05-01 07:00", entities.TimeAccuracyOther, -1),
		mark("G2", "garbage", entities.TimeAccuracyOnTime, 1),
		mark("G3", "2024-05-01 23:05", entities.TimeAccuracyOnTime, LocationAccuracyThresholdMeters),
	})

	require.Len(t, buckets, 3)
	assert.Equal(t, types.HourlyBucket{Hour: 7, Total: 1}, buckets[0])
	assert.Equal(t, types.HourlyBucket{Hour: 8, Total: 2, OnTime: 1, LocationAccurate: 1, Delayed: 1, ComplianceRate: 50}, buckets[1])
	assert.Equal(t, types.HourlyBucket{Hour: 23, Total: 1, OnTime: 1, LocationAccurate: 1, ComplianceRate: 100}, buckets[2])
}

func TestBuildHourly_Empty(t *testing.T) {
	buckets := BuildHourly(nil)
	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

func TestBuildGuardProfiles_AttendanceOnly(t *testing.T) {
	profiles := BuildGuardProfiles([]entities.AttendanceRecord{
		shift("G1", "Ali", "Gate A", true, ""),
		shift("G1", "Ali", "Gate B", false, ""),
	}, nil, Options{})

	require.Len(t, profiles, 1)
	g := profiles[0]
	assert.Equal(t, types.ShiftCounts{Total: 2, OnTime: 1, Late: 1}, g.Shifts)
	assert.Equal(t, []string{"Gate A", "Gate B"}, g.Locations)
	assert.Equal(t, 15.0, g.AttendanceScore)
	assert.Equal(t, 0.0, g.ActivityScore)
	assert.Equal(t, 20.0, g.CoverageScore)
	assert.Equal(t, 35.0, g.PerformanceScore)
	assert.Equal(t, 50.0, g.AttendanceRate)
	assert.Equal(t, 0.0, g.ActivityComplianceRate)
}

func TestBuildGuardProfiles_ActivityCounts(t *testing.T) {
	profiles := BuildGuardProfiles(
		[]entities.AttendanceRecord{shift("G1", "Ali", "Gate A", true, "8.5"), shift("G1", "Ali", "Gate A", true, "3.25")},
		[]entities.ActivityRecord{
			mark("G1", "2024-05-01 08:10", entities.TimeAccuracyOnTime, 10),
			mark("G1", "2024-05-01 09:10", entities.TimeAccuracyDelayed, 50),
		},
		Options{},
	)

	require.Len(t, profiles, 1)
	g := profiles[0]
	assert.Equal(t, types.ActivityCounts{Total: 2, OnTime: 1, LocationAccurate: 1}, g.Activities)
	assert.Equal(t, 30.0, g.AttendanceScore)
	assert.Equal(t, 20.0, g.ActivityScore)
	assert.Equal(t, 10.0, g.CoverageScore)
	assert.Equal(t, 60.0, g.PerformanceScore)
	assert.Equal(t, 50.0, g.ActivityComplianceRate)
	assert.Equal(t, 11.75, g.DutyHours)
}

func TestBuildGuardProfiles_ActivityOnlyPolicy(t *testing.T) {
	attendance := []entities.AttendanceRecord{shift("G1", "Ali", "Gate A", true, "")}
	activity := []entities.ActivityRecord{
		mark("G2", "2024-05-01 08:10", entities.TimeAccuracyOnTime, 5),
		mark("", "2024-05-01 08:15", entities.TimeAccuracyOnTime, 5),
	}

	strict := BuildGuardProfiles(attendance, activity, Options{})
	require.Len(t, strict, 1)
	assert.Equal(t, "G1", strict[0].GuardID)

	lenient := BuildGuardProfiles(attendance, activity, Options{IncludeActivityOnlyGuards: true})
	require.Len(t, lenient, 2)
	var g2 *types.GuardProfile
	for i := range lenient {
		if lenient[i].GuardID == "G2" {
			g2 = &lenient[i]
		}
	}
	require.NotNil(t, g2)
	assert.Equal(t, "G2", g2.Name)
	assert.Equal(t, 0, g2.Shifts.Total)
	assert.Equal(t, 0.0, g2.AttendanceRate)
	assert.Equal(t, 1, g2.Activities.Total)
	assert.Equal(t, 40.0, g2.PerformanceScore)
}

func TestBuildGuardProfiles_SkipsIncompleteAttendance(t *testing.T) {
	profiles := BuildGuardProfiles([]entities.AttendanceRecord{
		shift("G1", "", "Gate A", true, ""),
		shift("", "Ali", "Gate A", true, ""),
	}, nil, Options{})
	assert.Empty(t, profiles)
}

func TestBuildGuardProfiles_CoverageSaturates(t *testing.T) {
	var attendance []entities.AttendanceRecord
	for _, post := range []string{"A", "B", "C", "D", "E"} {
		attendance = append(attendance, shift("G1", "Ali", post, true, ""))
	}
	profiles := BuildGuardProfiles(attendance, nil, Options{})
	require.Len(t, profiles, 1)
	assert.Equal(t, 30.0, profiles[0].CoverageScore)
	assert.Equal(t, 60.0, profiles[0].PerformanceScore)
}

func TestBuildGuardProfiles_SortedStable(t *testing.T) {
	profiles := BuildGuardProfiles([]entities.AttendanceRecord{
		shift("G1", "One", "Gate A", false, ""),
		shift("G2", "Two", "Gate A", true, ""),
		shift("G3", "Three", "Gate B", false, ""),
		shift("G4", "Four", "Gate C", false, ""),
	}, nil, Options{})

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.GuardID)
	}
	assert.Equal(t, []string{"G2", "G1", "G3", "G4"}, ids)
}

func TestBuildLocationProfiles(t *testing.T) {
	profiles := BuildLocationProfiles([]entities.AttendanceRecord{
		shift("G1", "Ali", "Gate A", true, "8.25"),
		shift("", "", "Gate A", false, "12"),
	})

	require.Len(t, profiles, 1)
	l := profiles[0]
	assert.Equal(t, 2, l.TotalShifts)
	assert.Equal(t, 1, l.CoveredShifts)
	assert.Equal(t, 1, l.OnTimeShifts)
	assert.Equal(t, 50.0, l.CoverageRate)
	assert.Equal(t, 100.0, l.PunctualityRate)
	assert.Equal(t, 8.25, l.DutyHours)
	assert.Equal(t, 8.3, l.AverageShiftHours)
	assert.Equal(t, []string{"Ali"}, l.Guards)
}

func TestBuildLocationProfiles_Unstaffed(t *testing.T) {
	profiles := BuildLocationProfiles([]entities.AttendanceRecord{
		shift("", "", "Gate Z", false, ""),
		shift("G1", "Ali", "", true, ""),
	})

	require.Len(t, profiles, 1)
	l := profiles[0]
	assert.Equal(t, "Gate Z", l.PostName)
	assert.Equal(t, 0.0, l.CoverageRate)
	assert.Equal(t, 0.0, l.PunctualityRate)
	assert.Equal(t, 0.0, l.AverageShiftHours)
	assert.Equal(t, 0, l.GuardCount)
}

func TestBuildLocationProfiles_SortedByCoverage(t *testing.T) {
	profiles := BuildLocationProfiles([]entities.AttendanceRecord{
		shift("", "", "Low", false, ""),
		shift("G1", "Ali", "Half", true, ""),
		shift("", "", "Half", true, ""),
		shift("G2", "Bo", "Full", true, ""),
	})

	require.Len(t, profiles, 3)
	assert.Equal(t, "Full", profiles[0].PostName)
	assert.Equal(t, "Half", profiles[1].PostName)
	assert.Equal(t, "Low", profiles[2].PostName)
}

func TestEvaluateCompliance(t *testing.T) {
	report := EvaluateCompliance(
		[]types.LocationProfile{{PostName: "Gate A", CoverageRate: 100, PunctualityRate: 100, GuardCount: 2}},
		[]types.GuardProfile{{GuardID: "G1", Name: "Ali"}},
	)

	require.Len(t, report.Locations, 1)
	require.Len(t, report.Guards, 1)
	assert.Equal(t, 3, report.Locations[0].Passed)
	assert.Equal(t, 100.0, report.Locations[0].Score)
	assert.Equal(t, 0, report.Guards[0].Passed)
	assert.Equal(t, 0.0, report.Guards[0].Score)
	assert.Equal(t, 3, report.PassedChecks)
	assert.Equal(t, 6, report.TotalChecks)
	assert.Equal(t, 50.0, report.OverallScore)
}

func TestEvaluateCompliance_Thresholds(t *testing.T) {
	report := EvaluateCompliance(
		[]types.LocationProfile{{PostName: "Edge", CoverageRate: 95, PunctualityRate: 89, GuardCount: 1}},
		[]types.GuardProfile{{GuardID: "G1", AttendanceRate: 95, ActivityComplianceRate: 90, LocationCount: 1}},
	)

	assert.Equal(t, 1, report.Locations[0].Passed)
	assert.Equal(t, 33.0, report.Locations[0].Score)
	assert.Equal(t, 3, report.Guards[0].Passed)
	assert.Equal(t, 67.0, report.OverallScore)
}

func TestEvaluateCompliance_Empty(t *testing.T) {
	report := EvaluateCompliance(nil, nil)
	assert.Equal(t, 0.0, report.OverallScore)
	assert.Equal(t, 0, report.TotalChecks)
	assert.NotNil(t, report.Locations)
	assert.NotNil(t, report.Guards)
}

func TestCompute_FiltersBySelectedDate(t *testing.T) {
	activity := []entities.ActivityRecord{
		mark("G1", "2024-05-01 08:10", entities.TimeAccuracyOnTime, 5),
		mark("G1", "2024-05-02 08:10", entities.TimeAccuracyOnTime, 5),
	}
	activity[0].Alert = entities.AlertCritical
	attendance := []entities.AttendanceRecord{shift("G1", "Ali", "Gate A", true, "8")}
	other := shift("G2", "Bo", "Gate B", true, "8")
	other.LoginDate = "2024-05-02 08:00"
	attendance = append(attendance, other)

	d := Compute("2024-05-01", activity, attendance, Options{})

	assert.Equal(t, "2024-05-01", d.Date)
	assert.Equal(t, 1, d.Summary.TotalActivities)
	assert.Equal(t, 1, d.Summary.TotalShifts)
	assert.Equal(t, 1, d.Summary.CriticalAlerts)
	assert.Equal(t, 1, d.Summary.StaffedLocations)
	require.Len(t, d.Guards, 1)
	assert.Equal(t, "G1", d.Guards[0].GuardID)
	require.Len(t, d.Locations, 1)
	assert.Equal(t, "Gate A", d.Locations[0].PostName)
	assert.Equal(t, d.Compliance.OverallScore, d.Summary.OverallComplianceRate)
}

func randomDataset(seed int64) ([]entities.ActivityRecord, []entities.AttendanceRecord) {
	r := rand.New(rand.NewSource(seed))
	accuracies := []entities.TimeAccuracy{entities.TimeAccuracyOnTime, entities.TimeAccuracyDelayed, entities.TimeAccuracyOther}
	var activity []entities.ActivityRecord
	var attendance []entities.AttendanceRecord
	for i := 0; i < 300; i++ {
		id := fmt.Sprintf("G%d", r.Intn(15))
		at := fmt.Sprintf("2024-05-01 %02d:%02d", r.Intn(24), r.Intn(60))
		if r.Intn(10) == 0 {
			at = "n/a"
		}
		meters := -1.0
		if r.Intn(4) > 0 {
			meters = r.Float64() * 60
		}
		activity = append(activity, mark(id, at, accuracies[r.Intn(len(accuracies))], meters))
	}
	for i := 0; i < 120; i++ {
		id := fmt.Sprintf("G%d", r.Intn(12))
		name := "Guard " + id
		if r.Intn(8) == 0 {
			id, name = "", ""
		}
		post := fmt.Sprintf("Post %d", r.Intn(7))
		attendance = append(attendance, shift(id, name, post, r.Intn(3) > 0, fmt.Sprintf("%d.%d", r.Intn(12), r.Intn(10))))
	}
	return activity, attendance
}

func inPercentRange(t *testing.T, name string, v float64) {
	t.Helper()
	assert.GreaterOrEqual(t, v, 0.0, name)
	assert.LessOrEqual(t, v, 100.0, name)
}

func TestCompute_Properties(t *testing.T) {
	for _, include := range []bool{false, true} {
		activity, attendance := randomDataset(42)
		d := Compute("2024-05-01", activity, attendance, Options{IncludeActivityOnlyGuards: include})

		for i, b := range d.Hourly {
			inPercentRange(t, "hourly", b.ComplianceRate)
			if i > 0 {
				assert.Less(t, d.Hourly[i-1].Hour, b.Hour, "hours strictly ascending")
			}
		}
		for i, g := range d.Guards {
			inPercentRange(t, "attendance", g.AttendanceRate)
			inPercentRange(t, "activity", g.ActivityComplianceRate)
			inPercentRange(t, "performance", g.PerformanceScore)
			if i > 0 {
				assert.GreaterOrEqual(t, d.Guards[i-1].PerformanceScore, g.PerformanceScore)
			}
		}
		for i, l := range d.Locations {
			inPercentRange(t, "coverage", l.CoverageRate)
			inPercentRange(t, "punctuality", l.PunctualityRate)
			if i > 0 {
				assert.GreaterOrEqual(t, d.Locations[i-1].CoverageRate, l.CoverageRate)
			}
		}
		for _, e := range append(d.Compliance.Locations, d.Compliance.Guards...) {
			inPercentRange(t, "entity compliance", e.Score)
		}
		inPercentRange(t, "overall", d.Compliance.OverallScore)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	activity, attendance := randomDataset(7)
	first := Compute("2024-05-01", activity, attendance, Options{})
	second := Compute("2024-05-01", activity, attendance, Options{})

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("повторный расчет отличается (-first +second):\n%s", diff)
	}
}
