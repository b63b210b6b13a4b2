package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow is the quiet period after a config file write before Watcher
// re-reads it, absorbing editors that save in several small writes.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads configuration from rootDir's .objdb/config.yaml whenever it
// changes on disk, invoking callback with the freshly loaded Config. Grounded
// on the teacher's internal/watcher/file_watcher.go debounce-then-fire loop,
// narrowed from a recursive source-tree watch to a single config file.
type Watcher struct {
	rootDir  string
	watcher  *fsnotify.Watcher
	callback func(*Config, error)

	cancel   context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a config file watcher rooted at rootDir. The watch
// target is rootDir/.objdb, added eagerly so the watcher survives the config
// file itself being created after startup.
func NewWatcher(rootDir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	configDir := filepath.Join(rootDir, ".objdb")
	if err := fw.Add(configDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", configDir, err)
	}
	return &Watcher{rootDir: rootDir, watcher: fw, doneCh: make(chan struct{})}, nil
}

// Start begins watching in the background, invoking callback with the
// reloaded config (or the reload error) after each debounced change.
func (w *Watcher) Start(ctx context.Context, callback func(*Config, error)) {
	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)
	go w.watch(ctx)
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	reloadCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Base(event.Name) != "config.yaml" && filepath.Base(event.Name) != "config.yml" {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case reloadCh <- struct{}{}:
				default:
				}
			})
		case <-reloadCh:
			cfg, err := LoadConfigFromDir(w.rootDir)
			if w.callback != nil {
				w.callback(cfg, err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}
