package application

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the price file must stay quiet before a
// change is reported.
const DefaultDebounce = 300 * time.Millisecond

// PriceWatcher reports changes to the price file. The containing directory is
// watched, so files replaced by rename (as spreadsheet tools do) are seen too.
type PriceWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *slog.Logger

	changes   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// WatchPrices starts watching path. Close must be called to stop it.
func WatchPrices(path string, debounce time.Duration, logger *slog.Logger) (*PriceWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &PriceWatcher{
		watcher:  fw,
		path:     abs,
		debounce: debounce,
		logger:   logger.With("component", "price_watcher"),
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go w.run()
	w.logger.Debug("watching price file", "path", abs)
	return w, nil
}

// Changes delivers one value per settled burst of writes. It is closed when
// the watcher stops.
func (w *PriceWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *PriceWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *PriceWatcher) run() {
	defer close(w.done)
	defer close(w.changes)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("price watcher error", "error", err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// A change is already pending.
			}
		}
	}
}

func (w *PriceWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// waitForPriceChange blocks until the watcher reports a change.
func waitForPriceChange(w *PriceWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return pricesChangedMsg{}
	}
}
