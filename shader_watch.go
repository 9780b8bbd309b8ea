package snowman

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/snowman/snowrt/shaders"
)

// ShaderWatcher posts on Reloads whenever a WGSL file in the watched
// directory is written, created or renamed. Events are coalesced: at most one
// reload is pending at a time.
type ShaderWatcher struct {
	Reloads <-chan struct{}

	watcher *fsnotify.Watcher
	reloads chan struct{}
	done    chan struct{}
	logger  Logger
}

func WatchShaders(dir string, logger Logger) (*ShaderWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	ch := make(chan struct{}, 1)
	w := &ShaderWatcher{
		Reloads: ch,
		watcher: fw,
		reloads: ch,
		done:    make(chan struct{}),
		logger:  orNop(logger),
	}
	go w.run()
	return w, nil
}

func (w *ShaderWatcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !shaders.IsShaderFile(filepath.Base(ev.Name)) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debugf("shader changed: %s", ev.Name)
			select {
			case w.reloads <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("shader watcher: %v", err)
		}
	}
}

// Close stops the watcher goroutine and waits for it to exit.
func (w *ShaderWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
