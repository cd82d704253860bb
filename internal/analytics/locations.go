package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"guard-analytics/internal/entities"
	"guard-analytics/pkg/types"
)

type locationAcc struct {
	post    string
	total   int
	covered int
	onTime  int
	guards  map[string]struct{}
	hours   decimal.Decimal
}

// BuildLocationProfiles группирует смены по посту. Смена без охранника
// учитывается в total, но не в covered.
func BuildLocationProfiles(attendance []entities.AttendanceRecord) []types.LocationProfile {
	byPost := make(map[string]*locationAcc)
	var order []*locationAcc

	for _, rec := range attendance {
		if rec.PostName == "" {
			continue
		}
		l, ok := byPost[rec.PostName]
		if !ok {
			l = &locationAcc{post: rec.PostName, guards: make(map[string]struct{}), hours: decimal.Zero}
			byPost[rec.PostName] = l
			order = append(order, l)
		}
		l.total++
		if rec.GuardName == "" {
			continue
		}
		l.covered++
		if rec.Lateness == entities.LatenessOnTime {
			l.onTime++
		}
		l.guards[rec.GuardName] = struct{}{}
		l.hours = l.hours.Add(rec.DutyHours)
	}

	out := make([]types.LocationProfile, 0, len(order))
	for _, l := range order {
		out = append(out, l.profile())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CoverageRate > out[j].CoverageRate
	})
	return out
}

func (l *locationAcc) profile() types.LocationProfile {
	guards := make([]string, 0, len(l.guards))
	for name := range l.guards {
		guards = append(guards, name)
	}
	sort.Strings(guards)

	var avgHours float64
	if l.covered > 0 {
		avgHours = decimalToFloat(l.hours.Div(decimal.NewFromInt(int64(l.covered))), 1)
	}

	return types.LocationProfile{
		PostName:          l.post,
		TotalShifts:       l.total,
		CoveredShifts:     l.covered,
		OnTimeShifts:      l.onTime,
		Guards:            guards,
		GuardCount:        len(guards),
		DutyHours:         decimalToFloat(l.hours, 2),
		CoverageRate:      percent(l.covered, l.total),
		PunctualityRate:   percent(l.onTime, l.covered),
		AverageShiftHours: avgHours,
	}
}
