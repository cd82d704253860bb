package analytics

import (
	"sort"

	"guard-analytics/internal/entities"
	"guard-analytics/pkg/types"
)

// BuildHourly группирует отметки по часу. Записи без валидного времени пропускаются.
func BuildHourly(activity []entities.ActivityRecord) []types.HourlyBucket {
	buckets := make(map[int]*types.HourlyBucket)
	for _, rec := range activity {
		if !rec.Timestamp.Valid {
			continue
		}
		hour := rec.Timestamp.Time.Hour()
		b, ok := buckets[hour]
		if !ok {
			b = &types.HourlyBucket{Hour: hour}
			buckets[hour] = b
		}
		b.Total++
		if rec.TimeAccuracy == entities.TimeAccuracyOnTime {
			b.OnTime++
		}
		if isLocationAccurate(rec) {
			b.LocationAccurate++
		}
		if rec.TimeAccuracy == entities.TimeAccuracyDelayed {
			b.Delayed++
		}
	}

	out := make([]types.HourlyBucket, 0, len(buckets))
	for _, b := range buckets {
		b.ComplianceRate = percent(b.OnTime+b.LocationAccurate, 2*b.Total)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}
