package filekv

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the write+rename burst an atomic save produces
// into a single reload.
const debounceWindow = 50 * time.Millisecond

// Watch emits the keys whose entries were changed on disk by someone else
// (another process sharing the store file). The channel closes when ctx is
// cancelled. Implements kv.Watchable.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan string)
	go s.watchLoop(ctx, watcher, out)
	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer watcher.Close()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	fire := func() {
		changed, err := s.reload()
		if err != nil {
			// Mid-write or transient read failure; the next event retries.
			return
		}
		for _, key := range changed {
			select {
			case out <- key:
			case <-ctx.Done():
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != storeFile {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, fire)
			mu.Unlock()

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Watcher errors are non-fatal; keep going.
		}
	}
}
