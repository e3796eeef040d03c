package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
	"github.com/fsnotify/fsnotify"
)

// Change is what happened to the session file.
type Change int

const (
	Written Change = iota + 1
	Removed
)

func (c Change) String() string {
	switch c {
	case Written:
		return "written"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// watchDebounce coalesces the create+write+chmod burst of one atomic save.
const watchDebounce = 50 * time.Millisecond

// Watch calls fn after the session file is written or removed by any
// process, until ctx is cancelled. The parent directory is watched because
// atomic renames replace the file's inode.
func (s *Store) Watch(ctx context.Context, fn func(Change)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file: new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("file: watch dir: %w", err)
	}

	log := slogx.FromContext(ctx)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	var pending Change

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				pending = Removed
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				pending = Written
			default:
				continue
			}
			timer.Reset(watchDebounce)

		case <-timer.C:
			if pending != 0 {
				fn(pending)
				pending = 0
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("session watcher error", "err", err)
		}
	}
}
