// Package watch re-runs a script whenever its file changes
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	graberror "github.com/msto63/grab/foundation/core/error"
	grablog "github.com/msto63/grab/foundation/core/log"
)

// DefaultDebounce is the quiet period after the last change before a run
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher
type Options struct {
	Path     string
	Debounce time.Duration
	Logger   *grablog.Logger
}

// Watcher observes one file
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *grablog.Logger
}

// New creates a Watcher for opts.Path
func New(opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = grablog.GetDefault()
	}
	return &Watcher{
		path:     filepath.Clean(opts.Path),
		debounce: opts.Debounce,
		logger:   opts.Logger.WithField("component", "grab-watch"),
	}
}

// Run calls fn once, then again after every write or create of the file,
// until ctx is done. Errors returned by fn are logged and do not stop the
// watcher. The parent directory is watched so editors that replace the
// file on save are seen.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return graberror.Wrap(err, "failed to create watcher").
			WithCode(graberror.CodeIO).
			WithOperation("watch")
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return graberror.Wrap(err, "failed to watch directory").
			WithCode(graberror.CodeIO).
			WithOperation("watch").
			WithDetail("dir", dir)
	}

	w.logger.Info("watching script", grablog.Fields{"path": w.path})
	w.invoke(ctx, fn)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Trace("file event", grablog.Fields{"op": event.Op.String()})
			timer.Reset(w.debounce)

		case <-timer.C:
			w.invoke(ctx, fn)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnWithErr("watcher error", err)
		}
	}
}

func (w *Watcher) invoke(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		w.logger.Debug("run failed", grablog.Fields{"path": w.path, "error": err.Error()})
	}
}
