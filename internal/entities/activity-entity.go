package entities

import (
	"github.com/aarondl/null/v8"
)

type TimeAccuracy string

const (
	TimeAccuracyOnTime  TimeAccuracy = "on_time"
	TimeAccuracyDelayed TimeAccuracy = "delayed"
	TimeAccuracyOther   TimeAccuracy = "other"
)

type AlertLevel string

const (
	AlertNone          AlertLevel = "none"
	AlertInformational AlertLevel = "informational"
	AlertCritical      AlertLevel = "critical"
)

// ActivityRecord - одна отметка охранника из activity report
type ActivityRecord struct {
	GuardID          string
	GuardName        string
	DateTime         string
	Timestamp        null.Time
	LocationAccuracy null.Float64
	TimeAccuracy     TimeAccuracy
	Alert            AlertLevel
	PostName         string
}
