package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"guard-analytics/internal/entities"
	"guard-analytics/pkg/types"
)

// Веса итогового балла охранника.
const (
	attendanceWeight        = 30.0
	activityWeight          = 40.0
	coverageWeight          = 30.0
	coverageSaturationPosts = 3
)

type guardAcc struct {
	id         string
	name       string
	shifts     types.ShiftCounts
	activities types.ActivityCounts
	locations  map[string]struct{}
	hours      decimal.Decimal
}

func newGuardAcc(id, name string) *guardAcc {
	return &guardAcc{id: id, name: name, locations: make(map[string]struct{}), hours: decimal.Zero}
}

// BuildGuardProfiles сводит attendance и activity по идентификатору охранника.
// Результат отсортирован по убыванию PerformanceScore, равные остаются в порядке появления.
func BuildGuardProfiles(attendance []entities.AttendanceRecord, activity []entities.ActivityRecord, opts Options) []types.GuardProfile {
	byID := make(map[string]*guardAcc)
	var order []*guardAcc

	// Проход 1: смены
	for _, rec := range attendance {
		if rec.GuardID == "" || rec.GuardName == "" {
			continue
		}
		g, ok := byID[rec.GuardID]
		if !ok {
			g = newGuardAcc(rec.GuardID, rec.GuardName)
			byID[rec.GuardID] = g
			order = append(order, g)
		}
		g.shifts.Total++
		if rec.Lateness == entities.LatenessOnTime {
			g.shifts.OnTime++
		} else {
			g.shifts.Late++
		}
		if rec.PostName != "" {
			g.locations[rec.PostName] = struct{}{}
		}
		g.hours = g.hours.Add(rec.DutyHours)
	}

	// Проход 2: отметки
	for _, rec := range activity {
		if rec.GuardID == "" {
			continue
		}
		g, ok := byID[rec.GuardID]
		if !ok {
			if !opts.IncludeActivityOnlyGuards {
				continue
			}
			name := rec.GuardName
			if name == "" {
				name = rec.GuardID
			}
			g = newGuardAcc(rec.GuardID, name)
			byID[rec.GuardID] = g
			order = append(order, g)
		}
		g.activities.Total++
		if rec.TimeAccuracy == entities.TimeAccuracyOnTime {
			g.activities.OnTime++
		}
		if isLocationAccurate(rec) {
			g.activities.LocationAccurate++
		}
	}

	out := make([]types.GuardProfile, 0, len(order))
	for _, g := range order {
		out = append(out, g.profile())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformanceScore > out[j].PerformanceScore
	})
	return out
}

func (g *guardAcc) profile() types.GuardProfile {
	var attendanceScore, activityScore float64
	if g.shifts.Total > 0 {
		attendanceScore = attendanceWeight * float64(g.shifts.OnTime) / float64(g.shifts.Total)
	}
	if g.activities.Total > 0 {
		activityScore = activityWeight * float64(g.activities.OnTime+g.activities.LocationAccurate) / float64(2*g.activities.Total)
	}
	coverageScore := math.Min(coverageWeight, coverageWeight*float64(len(g.locations))/coverageSaturationPosts)

	locations := make([]string, 0, len(g.locations))
	for name := range g.locations {
		locations = append(locations, name)
	}
	sort.Strings(locations)

	return types.GuardProfile{
		GuardID:                g.id,
		Name:                   g.name,
		Shifts:                 g.shifts,
		Activities:             g.activities,
		Locations:              locations,
		LocationCount:          len(locations),
		DutyHours:              decimalToFloat(g.hours, 2),
		AttendanceRate:         percent(g.shifts.OnTime, g.shifts.Total),
		ActivityComplianceRate: percent(g.activities.OnTime+g.activities.LocationAccurate, 2*g.activities.Total),
		AttendanceScore:        round2(attendanceScore),
		ActivityScore:          round2(activityScore),
		CoverageScore:          round2(coverageScore),
		PerformanceScore:       math.Round(attendanceScore + activityScore + coverageScore),
	}
}
