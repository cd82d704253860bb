package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"guard-analytics/internal/events"
	"guard-analytics/pkg/eventbus"
	"guard-analytics/pkg/types"
)

const digestTopN = 3

// DigestListener пишет в лог сводку по соответствию после каждого обновления дашборда.
type DigestListener struct {
	logger *zap.Logger
}

func NewDigestListener(logger *zap.Logger) *DigestListener {
	return &DigestListener{logger: logger.Named("digest")}
}

func (l *DigestListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.DashboardUpdated, l.handleUpdated)
	bus.Subscribe(events.DashboardFailed, l.handleFailed)
	l.logger.Info("DigestListener подписан на события дашборда")
}

func (l *DigestListener) handleUpdated(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.DashboardUpdatedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	d := event.Dashboard

	l.logger.Info("Сводка по соответствию",
		zap.Uint64("generation", event.Generation),
		zap.String("snapshot_id", event.SnapshotID),
		zap.String("date", d.Date),
		zap.Float64("overall_compliance", d.Compliance.OverallScore),
		zap.Int("passed_checks", d.Compliance.PassedChecks),
		zap.Int("total_checks", d.Compliance.TotalChecks),
		zap.Int("critical_alerts", d.Summary.CriticalAlerts),
		zap.Strings("top_guards", topGuards(d.Guards, digestTopN)),
		zap.Strings("weak_locations", weakLocations(d.Compliance.Locations, digestTopN)),
	)
	return nil
}

func (l *DigestListener) handleFailed(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.DashboardFailedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", e)
	}
	l.logger.Warn("Дашборд не обновлен",
		zap.Uint64("generation", event.Generation),
		zap.String("date", event.Date),
		zap.Error(event.Err),
	)
	return nil
}

// topGuards - первые n охранников; профили уже отсортированы по убыванию балла.
func topGuards(guards []types.GuardProfile, n int) []string {
	out := make([]string, 0, n)
	for _, g := range guards {
		if len(out) == n {
			break
		}
		out = append(out, fmt.Sprintf("%s (%.0f)", g.Name, g.PerformanceScore))
	}
	return out
}

// weakLocations - посты, не прошедшие хотя бы одну проверку.
func weakLocations(locations []types.EntityCompliance, n int) []string {
	out := make([]string, 0, n)
	for _, e := range locations {
		if len(out) == n {
			break
		}
		if e.Passed < len(e.Checks) {
			out = append(out, fmt.Sprintf("%s (%.0f%%)", e.Name, e.Score))
		}
	}
	return out
}
