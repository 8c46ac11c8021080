package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// ReloadInterval is the minimum time between two reloads.
const ReloadInterval = 200 * time.Millisecond

// Watch broadcasts a reload whenever the served file is written. Bursts of
// file events collapse into at most one reload per ReloadInterval. Watching
// stops when ctx is done.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	target, err := filepath.Abs(s.path)
	if err != nil {
		watcher.Close()

		return err
	}

	// Editors often replace the file, so the directory is watched.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()

		return err
	}

	pending := make(chan struct{}, 1)

	go s.watch(ctx, watcher, target, pending)
	go s.reload(ctx, pending)

	return nil
}

func (s *Server) watch(ctx context.Context, watcher *fsnotify.Watcher, target string, pending chan<- struct{}) {
	defer watcher.Close()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			if name, err := filepath.Abs(ev.Name); err != nil || name != target {
				continue
			}

			tracer().Debugf("file changed: %s", ev.Name)

			select {
			case pending <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			tracer().Errorf("watch: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) reload(ctx context.Context, pending <-chan struct{}) {
	limiter := rate.NewLimiter(rate.Every(ReloadInterval), 1)

	for {
		select {
		case <-pending:
		case <-ctx.Done():
			return
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		s.Broadcast()
	}
}
