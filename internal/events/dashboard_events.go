package events

import (
	"time"

	"guard-analytics/pkg/types"
)

const (
	DashboardUpdated = "dashboard.updated"
	DashboardFailed  = "dashboard.failed"
)

// DashboardUpdatedEvent - возникает, когда сервис применил новый готовый дашборд.
type DashboardUpdatedEvent struct {
	Generation  uint64
	SnapshotID  string
	Date        string
	GeneratedAt time.Time
	Dashboard   types.Dashboard
}

// Name - реализуем интерфейс eventbus.Event
func (e DashboardUpdatedEvent) Name() string {
	return DashboardUpdated
}

// DashboardFailedEvent - цикл пересчета завершился ошибкой источника или формата.
type DashboardFailedEvent struct {
	Generation uint64
	Date       string
	Err        error
}

func (e DashboardFailedEvent) Name() string {
	return DashboardFailed
}
