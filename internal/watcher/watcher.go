// Package watcher monitors a recording tree and re-runs report aggregation
// when files change. Runs stay whole-tree: the report artifacts are cheap to
// rebuild and a partial update could leave the tree-level overview stale.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"callreport/internal/config"
	"callreport/internal/output"
)

// RunFunc re-aggregates the whole tree. Called at most once per settled
// burst of filesystem activity.
type RunFunc func() error

// WatchSummary contains stats from one watch session.
type WatchSummary struct {
	RunsTriggered int
	RunErrors     int
	Duration      time.Duration
}

// Watcher monitors a base directory tree for recording changes.
type Watcher struct {
	base      string
	run       RunFunc
	out       *output.Output
	filter    *FileFilter
	stability *StabilityChecker
	debounce  *Debouncer
	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu            sync.Mutex
	runsTriggered int
	runErrors     int
}

// New creates a Watcher for base using the watch settings from wc.
func New(base string, wc config.WatchConfig, run RunFunc, out *output.Output) *Watcher {
	w := &Watcher{
		base:      base,
		run:       run,
		out:       out,
		filter:    NewFileFilter(wc.IgnorePatterns),
		stability: NewStabilityChecker(time.Duration(wc.StableThresholdMs) * time.Millisecond),
		done:      make(chan struct{}),
	}
	w.debounce = NewDebouncer(time.Duration(wc.DebounceSeconds)*time.Second, w.fireRun)
	return w
}

// Start watches the base tree. Every existing directory is registered;
// directories created later are picked up from their create events. The
// watcher runs until Stop is called.
func (w *Watcher) Start() error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	err = filepath.WalkDir(w.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsWatcher.Add(path)
		}
		return nil
	})
	if err != nil {
		w.fsWatcher.Close()
		return err
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts the watcher down and returns the session summary. A pending
// debounced run is cancelled rather than flushed.
func (w *Watcher) Stop() *WatchSummary {
	close(w.done)
	w.wg.Wait()
	w.debounce.Cancel()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &WatchSummary{
		RunsTriggered: w.runsTriggered,
		RunErrors:     w.runErrors,
		Duration:      time.Since(w.startTime),
	}
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.out != nil {
				w.out.Warn("watch error: %v", err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		// New subdirectories join the watch so recordings dropped into
		// them are seen too.
		if isDir(event.Name) {
			if err := w.fsWatcher.Add(event.Name); err != nil && w.out != nil {
				w.out.Warn("failed to watch %s: %v", event.Name, err)
			}
			w.debounce.Trigger()
			return
		}
		if w.filter.ShouldIgnore(event.Name) {
			return
		}
		// A created file may still be filling up. Wait off the event loop
		// and only then schedule the run.
		w.wg.Add(1)
		go func(path string) {
			defer w.wg.Done()
			if err := w.stability.WaitForStable(path); err != nil {
				if w.out != nil {
					w.out.Warn("skipping unstable file %s: %v", path, err)
				}
				return
			}
			w.debounce.Trigger()
		}(event.Name)

	case event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0:
		if w.filter.ShouldIgnore(event.Name) {
			return
		}
		w.debounce.Trigger()
	}
}

// fireRun is the debounced callback: one whole-tree aggregation per burst.
func (w *Watcher) fireRun() {
	w.mu.Lock()
	w.runsTriggered++
	w.mu.Unlock()

	if w.out != nil {
		w.out.Verbose("change detected, rebuilding reports under %s", w.base)
	}
	if err := w.run(); err != nil {
		w.mu.Lock()
		w.runErrors++
		w.mu.Unlock()
		if w.out != nil {
			w.out.Error("report run failed: %v", err)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
