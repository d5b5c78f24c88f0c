package library

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/cinema-cli/cinema/log"
	"github.com/fsnotify/fsnotify"
)

// Watch rescans the library whenever a root changes on disk and hands the new index to onChange.
// Bursts of changes are folded into one rescan. It blocks until ctx is done.
//
// Watching goes through the operating system, so it only sees roots on the real filesystem.
func (l *Library) Watch(ctx context.Context, onChange func([]*Movie)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := 0
	for _, root := range l.roots {
		watched += addTree(watcher, root)
	}

	if watched == 0 {
		return fmt.Errorf("none of the library roots can be watched")
	}

	log.Infof("library: watching %d directories", watched)

	var debounce *time.Timer
	rescan := make(chan struct{}, 1)

	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addTree(watcher, event.Name)
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			log.Debugf("library: %s %s", event.Op, event.Name)

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(l.Debounce, func() {
				select {
				case rescan <- struct{}{}:
				default:
				}
			})

		case <-rescan:
			if err := l.Scan(); err != nil {
				log.Warnf("library: rescan: %s", err)
			}
			if onChange != nil {
				onChange(l.All())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("library: watcher: %s", err)
		}
	}
}

// addTree watches dir and every directory below it. It returns how many were added.
func addTree(watcher *fsnotify.Watcher, dir string) int {
	added := 0

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}

		if err := watcher.Add(path); err != nil {
			log.Warnf("library: cannot watch %s: %s", path, err)
			return nil
		}

		added++
		return nil
	})

	return added
}
