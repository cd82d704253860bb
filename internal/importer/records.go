package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"

	"guard-analytics/internal/entities"
)

// Колонки выгрузок. Имена чувствительны к регистру.
const (
	ColDateTime         = "Date/Time"
	ColTimeAccuracy     = "Time Accuracy"
	ColLocationAccuracy = "Location Accuracy"
	ColServiceNumber    = "Service Number"
	ColFullName         = "Full Name"
	ColPostName         = "Post Name"
	ColLateHours        = "Late Hours"
	ColDutyHours        = "Duty Hours"
	ColUserName         = "User Name"
	ColAlert            = "Alert"
	ColLoginDate        = "Login Date"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)

// ParseActivity превращает строки activity report в записи. Кривые значения не ошибка:
// поле просто остается пустым.
func ParseActivity(rows []Row) []entities.ActivityRecord {
	out := make([]entities.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		guardID := row.Get(ColServiceNumber)
		if guardID == "" {
			guardID = row.Get(ColUserName)
		}
		guardName := row.Get(ColFullName)
		if guardName == "" {
			guardName = row.Get(ColUserName)
		}
		raw := row.Get(ColDateTime)

		rec := entities.ActivityRecord{
			GuardID:      guardID,
			GuardName:    guardName,
			DateTime:     raw,
			TimeAccuracy: classifyTimeAccuracy(row.Get(ColTimeAccuracy)),
			Alert:        classifyAlert(row.Get(ColAlert)),
			PostName:     row.Get(ColPostName),
		}
		if ts, ok := parseTimestamp(raw); ok {
			rec.Timestamp = null.TimeFrom(ts)
		}
		if meters, ok := parseFloat(row.Get(ColLocationAccuracy)); ok {
			rec.LocationAccuracy = null.Float64From(meters)
		}
		out = append(out, rec)
	}
	return out
}

// ParseAttendance превращает строки attendance report в записи смен.
func ParseAttendance(rows []Row) []entities.AttendanceRecord {
	out := make([]entities.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		rec := entities.AttendanceRecord{
			GuardID:   row.Get(ColServiceNumber),
			GuardName: row.Get(ColFullName),
			PostName:  row.Get(ColPostName),
			LoginDate: row.Get(ColLoginDate),
			Lateness:  entities.LatenessLate,
			DutyHours: decimal.Zero,
		}
		if row.Get(ColLateHours) == "On-time" {
			rec.Lateness = entities.LatenessOnTime
		}
		if hours, ok := parseDecimal(row.Get(ColDutyHours)); ok {
			rec.DutyHours = hours
			rec.HasDutyHours = true
		}
		out = append(out, rec)
	}
	return out
}

func classifyTimeAccuracy(v string) entities.TimeAccuracy {
	switch {
	case v == "On Time":
		return entities.TimeAccuracyOnTime
	case strings.Contains(v, "Delay"):
		return entities.TimeAccuracyDelayed
	default:
		return entities.TimeAccuracyOther
	}
}

func classifyAlert(v string) entities.AlertLevel {
	lower := strings.ToLower(v)
	switch {
	case lower == "", lower == "none", lower == "no", lower == "-":
		return entities.AlertNone
	case strings.Contains(lower, "critical"):
		return entities.AlertCritical
	default:
		return entities.AlertInformational
	}
}

func parseTimestamp(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// numericPrefix берет числовой префикс ("12.5 m" -> "12.5").
func numericPrefix(v string) string {
	num := leadingNumber.FindString(v)
	num = strings.TrimPrefix(num, "+")
	return strings.TrimSuffix(num, ".")
}

func parseFloat(v string) (float64, bool) {
	num := numericPrefix(v)
	if num == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseDecimal(v string) (decimal.Decimal, bool) {
	num := numericPrefix(v)
	if num == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
