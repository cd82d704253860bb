package types

import "time"

// Почасовая активность
type HourlyBucket struct {
	Hour             int     `json:"hour"`
	Total            int     `json:"total"`
	OnTime           int     `json:"on_time"`
	LocationAccurate int     `json:"location_accurate"`
	Delayed          int     `json:"delayed"`
	ComplianceRate   float64 `json:"compliance_rate"`
}

type ShiftCounts struct {
	Total  int `json:"total"`
	OnTime int `json:"on_time"`
	Late   int `json:"late"`
}

type ActivityCounts struct {
	Total            int `json:"total"`
	OnTime           int `json:"on_time"`
	LocationAccurate int `json:"location_accurate"`
}

// GuardProfile - сводка по охраннику за выбранную дату
type GuardProfile struct {
	GuardID                string         `json:"guard_id"`
	Name                   string         `json:"name"`
	Shifts                 ShiftCounts    `json:"shifts"`
	Activities             ActivityCounts `json:"activities"`
	Locations              []string       `json:"locations"`
	LocationCount          int            `json:"location_count"`
	DutyHours              float64        `json:"duty_hours"`
	AttendanceRate         float64        `json:"attendance_rate"`
	ActivityComplianceRate float64        `json:"activity_compliance_rate"`
	AttendanceScore        float64        `json:"attendance_score"`
	ActivityScore          float64        `json:"activity_score"`
	CoverageScore          float64        `json:"coverage_score"`
	PerformanceScore       float64        `json:"performance_score"`
}

// LocationProfile - сводка по посту
type LocationProfile struct {
	PostName          string   `json:"post_name"`
	TotalShifts       int      `json:"total_shifts"`
	CoveredShifts     int      `json:"covered_shifts"`
	OnTimeShifts      int      `json:"on_time_shifts"`
	Guards            []string `json:"guards"`
	GuardCount        int      `json:"guard_count"`
	DutyHours         float64  `json:"duty_hours"`
	CoverageRate      float64  `json:"coverage_rate"`
	PunctualityRate   float64  `json:"punctuality_rate"`
	AverageShiftHours float64  `json:"average_shift_hours"`
}

type ComplianceKind string

const (
	ComplianceKindLocation ComplianceKind = "location"
	ComplianceKindGuard    ComplianceKind = "guard"
)

type ComplianceCheck struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Passed bool    `json:"passed"`
}

type EntityCompliance struct {
	Kind   ComplianceKind    `json:"kind"`
	Key    string            `json:"key"`
	Name   string            `json:"name"`
	Checks []ComplianceCheck `json:"checks"`
	Passed int               `json:"passed"`
	Score  float64           `json:"score"`
}

type ComplianceReport struct {
	Locations    []EntityCompliance `json:"locations"`
	Guards       []EntityCompliance `json:"guards"`
	PassedChecks int                `json:"passed_checks"`
	TotalChecks  int                `json:"total_checks"`
	OverallScore float64            `json:"overall_score"`
}

// DashboardSummary - верхние карточки дашборда
type DashboardSummary struct {
	TotalActivities       int     `json:"total_activities"`
	TotalShifts           int     `json:"total_shifts"`
	ActiveGuards          int     `json:"active_guards"`
	StaffedLocations      int     `json:"staffed_locations"`
	DelayedActivities     int     `json:"delayed_activities"`
	InformationalAlerts   int     `json:"informational_alerts"`
	CriticalAlerts        int     `json:"critical_alerts"`
	AveragePerformance    float64 `json:"average_performance"`
	AverageCoverageRate   float64 `json:"average_coverage_rate"`
	OverallComplianceRate float64 `json:"overall_compliance_rate"`
}

// Dashboard - чистый результат расчета за одну дату, без метаданных
type Dashboard struct {
	Date       string            `json:"date"`
	Summary    DashboardSummary  `json:"summary"`
	Hourly     []HourlyBucket    `json:"hourly"`
	Guards     []GuardProfile    `json:"guards"`
	Locations  []LocationProfile `json:"locations"`
	Compliance ComplianceReport  `json:"compliance"`
}

type DashboardStatus string

const (
	DashboardStatusIdle    DashboardStatus = "idle"
	DashboardStatusLoading DashboardStatus = "loading"
	DashboardStatusReady   DashboardStatus = "ready"
	DashboardStatusFailed  DashboardStatus = "failed"
)

// DashboardState - последнее примененное состояние дашборда
type DashboardState struct {
	Generation  uint64          `json:"generation"`
	SnapshotID  string          `json:"snapshot_id,omitempty"`
	Date        string          `json:"date"`
	Status      DashboardStatus `json:"status"`
	Error       string          `json:"error,omitempty"`
	GeneratedAt *time.Time      `json:"generated_at,omitempty"`
	Dashboard   *Dashboard      `json:"dashboard,omitempty"`
}
