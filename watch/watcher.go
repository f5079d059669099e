// Package watch re-parses files whenever they change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/rdparse/grammars"
	"github.com/dhamidi/rdparse/parse"
)

// Result is the outcome of parsing one file.
type Result struct {
	Path     string
	Node     *parse.Node
	Err      error
	Removed  bool
	Duration time.Duration
}

// Watcher parses a set of files with one grammar and parses them again after
// every write. Directories are watched rather than files so that editors
// replacing a file through a rename are noticed.
type Watcher struct {
	grammar  *grammars.Grammar
	session  *parse.Session
	fs       *fsnotify.Watcher
	log      commonlog.Logger
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
}

func New(g *grammars.Grammar) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		grammar:  g,
		session:  parse.NewSession(g.Schema),
		fs:       fs,
		log:      commonlog.GetLogger("rdparse.watch"),
		debounce: 50 * time.Millisecond,
		files:    make(map[string]bool),
	}, nil
}

// Add starts watching a file.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[abs] {
		return nil
	}
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	w.files[abs] = true
	return nil
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Parse parses one file with the watcher's grammar.
func (w *Watcher) Parse(path string) Result {
	started := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return Result{Path: path, Err: err, Removed: os.IsNotExist(err)}
	}
	defer f.Close()
	n, err := w.session.Parse(f, w.grammar.Root, parse.WithSourceName(path))
	return Result{Path: path, Node: n, Err: err, Duration: time.Since(started)}
}

// Run parses every watched file once, then again whenever it changes, until
// ctx is done. Bursts of events for one file are reported once.
func (w *Watcher) Run(ctx context.Context, report func(Result)) error {
	for _, path := range w.watched() {
		report(w.Parse(path))
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(ev.Name)
			if !w.isWatched(path) {
				continue
			}
			w.log.Debugf("%s: %s", ev.Op, path)
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[path] = true
			timer.Reset(w.debounce)
		case <-timer.C:
			for path := range pending {
				report(w.Parse(path))
				delete(pending, path)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Errorf("watch: %v", err)
		}
	}
}

func (w *Watcher) isWatched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path]
}

func (w *Watcher) watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	return paths
}
