package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/utils/set"
)

// ignored holds patterns, relative to the site root, whose changes never
// trigger a rebuild.
var ignored = []string{
	".*",
	"**/.*",
	"**/.*/**",
	"node_modules/**",
	"**/node_modules/**",
	"**/*~",
}

// Event is a batch of changes seen within one debounce window.
type Event struct {
	Reason string
	Paths  []string
	// Config is set when the config file was among the changes.
	Config bool
}

func New(configPath string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:    w,
		debounce:   debounce,
		configPath: filepath.Clean(configPath),
		root:       filepath.Dir(configPath),
		Events:     make(chan Event, 64),
		Errors:     make(chan error, 64),
	}, nil
}

type Watcher struct {
	Events chan Event
	Errors chan error

	watcher  *fsnotify.Watcher
	debounce time.Duration

	configPath string
	root       string
	ignore     []string
	watched    *set.Set[string]
}

// Start watches the config file and the content source it names, and
// delivers debounced events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.watched = set.New[string]()
	if err := w.addWatch(w.configPath); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	if cfg, err := config.Load(w.configPath); err == nil {
		w.configure(cfg)
	} else {
		lazySend(w.Errors, fmt.Errorf("failed to load config: %w", err))
	}

	go w.loop(ctx)

	return nil
}

// Watched returns the watched paths in lexical order.
func (w *Watcher) Watched() []string {
	paths := w.watched.Values()
	slices.Sort(paths)
	return paths
}

func (w *Watcher) configure(cfg *config.Config) {
	w.ignore = slices.Clone(ignored)
	if output, err := filepath.Rel(w.root, w.resolve(cfg.Build.Output)); err == nil {
		w.ignore = append(w.ignore, filepath.ToSlash(output), filepath.ToSlash(output)+"/**")
	}

	for _, p := range cfg.WatchedPaths() {
		if err := w.addPath(w.resolve(p)); err != nil {
			lazySend(w.Errors, fmt.Errorf("failed to add path: %w", err))
		}
	}
}

func (w *Watcher) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.root, p)
}

func (w *Watcher) loop(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = set.New[string]()
		changed bool
	)

	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}

	flush := func() {
		if pending.Len() == 0 {
			return
		}
		paths := pending.Values()
		slices.Sort(paths)
		pending.Clear()

		reason := "file change"
		if changed {
			reason = "config change"
		}
		lazySend(w.Events, Event{Reason: reason, Paths: paths, Config: changed})
		changed = false
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			if w.isConfigEvent(ev) {
				changed = true
				w.rewatch()
			} else if w.isIgnored(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				w.addDirectoryIfNeeded(ev.Name)
			}
			pending.Add(ev.Name)
			resetTimer()

		case <-timerCh:
			timer = nil
			timerCh = nil
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			lazySend(w.Errors, fmt.Errorf("watch error: %w", err))
		}
	}
}

func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

func (w *Watcher) isIgnored(name string) bool {
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) addPath(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.addWatch(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.isIgnored(path) {
			return filepath.SkipDir
		}

		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(path string) error {
	normalized := filepath.Clean(path)
	if w.watched.Has(normalized) {
		return nil
	}
	if err := w.watcher.Add(normalized); err != nil {
		return err
	}
	w.watched.Add(normalized)
	return nil
}

func (w *Watcher) removeAllWatches() {
	for _, path := range w.watched.Values() {
		if err := w.watcher.Remove(path); err != nil {
			lazySend(w.Errors, fmt.Errorf("failed to remove watch: %w", err))
		}
	}
	w.watched.Clear()
}

// rewatch reloads the config and replaces every watch.
func (w *Watcher) rewatch() {
	cfg, err := config.Load(w.configPath)
	if err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to reload config: %w", err))
		return
	}

	w.removeAllWatches()
	if err := w.addWatch(w.configPath); err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to watch config: %w", err))
	}
	w.configure(cfg)
}

func (w *Watcher) isConfigEvent(ev fsnotify.Event) bool {
	return filepath.Clean(ev.Name) == w.configPath
}

func (w *Watcher) addDirectoryIfNeeded(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addPath(path); err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to watch new directory: %w", err))
	}
}

// lazySend delivers value unless ch is full.
func lazySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
