package entities

import "github.com/shopspring/decimal"

type Lateness string

const (
	LatenessOnTime Lateness = "on_time"
	LatenessLate   Lateness = "late"
)

// AttendanceRecord - одна смена (логин) из post-basis attendance report
type AttendanceRecord struct {
	GuardID      string
	GuardName    string
	PostName     string
	LoginDate    string
	Lateness     Lateness
	DutyHours    decimal.Decimal
	HasDutyHours bool
}
