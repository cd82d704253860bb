// Package watch следит за локальными файлами выгрузок и запускает пересчет,
// когда их подменяют.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"guard-analytics/pkg/config"
)

const defaultDebounce = 500 * time.Millisecond

type Reloader interface {
	Reload(ctx context.Context) uint64
}

type Watcher struct {
	cfg      config.WatchConfig
	targets  map[string]struct{}
	reloader Reloader
	logger   *zap.Logger
	done     chan struct{}
}

// New принимает пути локальных источников; удаленные источники сюда не передаются.
func New(cfg config.WatchConfig, paths []string, reloader Reloader, logger *zap.Logger) *Watcher {
	targets := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			targets[abs] = struct{}{}
		}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	return &Watcher{
		cfg:      cfg,
		targets:  targets,
		reloader: reloader,
		logger:   logger.Named("watcher"),
		done:     make(chan struct{}),
	}
}

// Start подписывается на директории выгрузок и возвращается; цикл событий
// живет до отмены ctx.
func (w *Watcher) Start(ctx context.Context) error {
	if !w.cfg.Enabled || len(w.targets) == 0 {
		w.logger.Info("watcher disabled")
		close(w.done)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		close(w.done)
		return err
	}
	dirs := make(map[string]struct{})
	for target := range w.targets {
		dir := filepath.Dir(target)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			close(w.done)
			return err
		}
		dirs[dir] = struct{}{}
		w.logger.Info("Слежение за директорией выгрузок", zap.String("dir", dir))
	}

	go w.loop(ctx, watcher)
	return nil
}

// Done закрывается, когда цикл событий завершен.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(w.done)
	defer watcher.Close()

	// Таймер взводится только событиями.
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(evt) {
				continue
			}
			w.logger.Debug("Изменение выгрузки", zap.String("file", evt.Name), zap.String("op", evt.Op.String()))
			debounce.Reset(w.cfg.Debounce)
		case <-debounce.C:
			gen := w.reloader.Reload(ctx)
			w.logger.Info("Выгрузка изменилась, запущен пересчет", zap.Uint64("generation", gen))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(evt.Name)
	if err != nil {
		return false
	}
	_, ok := w.targets[abs]
	return ok
}
