package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"guard-analytics/internal/analytics"
	"guard-analytics/internal/entities"
	"guard-analytics/internal/events"
	"guard-analytics/internal/importer"
	"guard-analytics/internal/repositories"
	"guard-analytics/pkg/config"
	"guard-analytics/pkg/eventbus"
	"guard-analytics/pkg/types"
)

type DashboardServiceInterface interface {
	Build(ctx context.Context, date string) (*types.Dashboard, error)
	Select(ctx context.Context, date string) uint64
	Reload(ctx context.Context) uint64
	State() types.DashboardState
	Close()
}

type DashboardService struct {
	repo   repositories.ExportRepositoryInterface
	bus    *eventbus.Bus
	opts   analytics.Options
	logger *zap.Logger

	// Жизненный цикл сервиса: Close отменяет все циклы пересчета.
	root     context.Context
	shutdown context.CancelFunc
	cycles   sync.WaitGroup

	generation atomic.Uint64
	mu         sync.RWMutex
	state      types.DashboardState
	cancel     context.CancelFunc
	now        func() time.Time
}

func NewDashboardService(
	repo repositories.ExportRepositoryInterface,
	bus *eventbus.Bus,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) *DashboardService {
	root, shutdown := context.WithCancel(context.Background())
	return &DashboardService{
		repo:     repo,
		bus:      bus,
		opts:     analytics.Options{IncludeActivityOnlyGuards: cfg.IncludeActivityOnlyGuards},
		logger:   logger.Named("dashboard_service"),
		root:     root,
		shutdown: shutdown,
		state:    types.DashboardState{Date: cfg.DefaultDate, Status: types.DashboardStatusIdle},
		now:      time.Now,
	}
}

// Build синхронно выполняет один цикл: обе выгрузки загружаются параллельно,
// агрегация начинается только когда готовы обе.
func (s *DashboardService) Build(ctx context.Context, date string) (*types.Dashboard, error) {
	var (
		activity   []entities.ActivityRecord
		attendance []entities.AttendanceRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.load(gctx, repositories.ExportActivity)
		if err != nil {
			return err
		}
		activity = importer.ParseActivity(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.load(gctx, repositories.ExportAttendance)
		if err != nil {
			return err
		}
		attendance = importer.ParseAttendance(rows)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	start := time.Now()
	dashboard := analytics.Compute(date, activity, attendance, s.opts)
	s.logger.Debug("Дашборд рассчитан",
		zap.String("date", date),
		zap.Int("activity_rows", len(activity)),
		zap.Int("attendance_rows", len(attendance)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &dashboard, nil
}

func (s *DashboardService) load(ctx context.Context, kind repositories.ExportKind) ([]importer.Row, error) {
	export, err := s.repo.Fetch(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("выгрузка %s: %w", kind, err)
	}
	rows, err := importer.DecodeRows(export.Name, export.Data)
	if err != nil {
		return nil, fmt.Errorf("выгрузка %s: %w", kind, err)
	}
	return rows, nil
}

// Select запускает фоновый пересчет за дату и возвращает номер поколения.
// Предыдущий незавершенный цикл отменяется; результат применяется только
// если его поколение все еще последнее.
func (s *DashboardService) Select(ctx context.Context, date string) uint64 {
	s.mu.Lock()
	gen := s.generation.Add(1)
	if s.cancel != nil {
		s.cancel()
	}
	cycleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.root, cancel)
	s.cancel = cancel

	s.state.Generation = gen
	s.state.Date = date
	s.state.Status = types.DashboardStatusLoading
	s.state.Error = ""
	s.mu.Unlock()

	s.logger.Info("Запущен пересчет дашборда", zap.Uint64("generation", gen), zap.String("date", date))

	s.cycles.Add(1)
	go func() {
		defer s.cycles.Done()
		defer stop()
		defer cancel()

		dashboard, err := s.Build(cycleCtx, date)
		s.apply(cycleCtx, gen, date, dashboard, err)
	}()
	return gen
}

// Reload повторяет Select для текущей выбранной даты.
func (s *DashboardService) Reload(ctx context.Context) uint64 {
	s.mu.RLock()
	date := s.state.Date
	s.mu.RUnlock()
	return s.Select(ctx, date)
}

func (s *DashboardService) apply(ctx context.Context, gen uint64, date string, dashboard *types.Dashboard, err error) {
	if s.root.Err() != nil {
		return
	}

	s.mu.Lock()
	if gen != s.generation.Load() {
		s.mu.Unlock()
		s.logger.Debug("Устаревший результат отброшен",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", s.generation.Load()),
		)
		return
	}

	var event eventbus.Event
	if err != nil {
		s.state.Status = types.DashboardStatusFailed
		s.state.Error = err.Error()
		event = events.DashboardFailedEvent{Generation: gen, Date: date, Err: err}
	} else {
		generatedAt := s.now()
		s.state.Status = types.DashboardStatusReady
		s.state.Error = ""
		s.state.SnapshotID = uuid.NewString()
		s.state.GeneratedAt = &generatedAt
		s.state.Dashboard = dashboard
		event = events.DashboardUpdatedEvent{
			Generation:  gen,
			SnapshotID:  s.state.SnapshotID,
			Date:        date,
			GeneratedAt: generatedAt,
			Dashboard:   *dashboard,
		}
	}
	s.cancel = nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Пересчет дашборда завершился ошибкой",
			zap.Uint64("generation", gen),
			zap.String("date", date),
			zap.Error(err),
		)
	} else {
		s.logger.Info("Дашборд обновлен",
			zap.Uint64("generation", gen),
			zap.String("date", date),
			zap.Int("guards", len(dashboard.Guards)),
			zap.Int("locations", len(dashboard.Locations)),
		)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

// State возвращает копию последнего примененного состояния.
func (s *DashboardService) State() types.DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Close отменяет незавершенные циклы и ждет их выхода.
func (s *DashboardService) Close() {
	s.shutdown()
	s.cycles.Wait()
}
