// Package analytics - чистое ядро агрегации: записи выгрузок -> почасовая активность,
// профили охранников и постов, оценка соответствия. Пакет не хранит состояния.
package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"guard-analytics/internal/entities"
)

// Порог точности геолокации отметки, в метрах.
const LocationAccuracyThresholdMeters = 20.0

// Options - настраиваемая политика расчета.
type Options struct {
	// IncludeActivityOnlyGuards: охранник без смен в attendance, но с отметками
	// в activity, получает свой профиль.
	IncludeActivityOnlyGuards bool
}

func isLocationAccurate(rec entities.ActivityRecord) bool {
	return rec.LocationAccuracy.Valid && rec.LocationAccuracy.Float64 <= LocationAccuracyThresholdMeters
}

// percent = round(100*num/den), 0 при нулевом знаменателе.
func percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return math.Round(100 * float64(num) / float64(den))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func decimalToFloat(d decimal.Decimal, places int32) float64 {
	f, _ := d.Round(places).Float64()
	return f
}
