package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/saturn/pkg/config"
)

// ErrAlreadyRunning is returned by Watch when the watcher is active.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config controls what a FileWatcher follows.
type Config struct {
	// Path is the file or directory to watch
	Path string

	// DebounceInterval is the quiet period before a change is reported
	// (default: 100ms)
	DebounceInterval time.Duration

	// Extensions lists the file extensions reported (default: .cql)
	Extensions []string

	// IncludeHidden reports dot-files and descends into dot-directories
	IncludeHidden bool
}

// FromConfig builds a watcher config for path from the watch section of
// the service configuration.
func FromConfig(cfg config.WatchConfig, path string) *Config {
	return &Config{
		Path:             path,
		DebounceInterval: cfg.DebounceInterval,
		Extensions:       slices.Clone(cfg.Extensions),
	}
}

// OnChange is called with the path of a created or modified file. Errors
// are logged and watching continues.
type OnChange func(path string) error

// FileWatcher reports changes to CQL files under a path.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   Config
	debounce *Debouncer

	// file is set when Path names a single file; its parent directory is
	// watched so that editors replacing the file are followed.
	file string

	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a watcher for cfg.Path.
func NewFileWatcher(cfg *Config, logger *slog.Logger) (*FileWatcher, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("watch path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := *cfg
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = config.DefaultDebounceInterval
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{config.DefaultWatchExtension}
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		config:   c,
		debounce: NewDebouncer(c.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if !info.IsDir() {
		fw.file = filepath.Clean(c.Path)
	}
	return fw, nil
}

// Watch reports changes to onChange until ctx is cancelled or Stop is
// called. It blocks.
func (fw *FileWatcher) Watch(ctx context.Context, onChange OnChange) error {
	fw.mu.Lock()
	if fw.running || fw.stopped {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()
	defer close(fw.doneCh)

	if err := fw.addPath(); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			fw.handle(event, onChange)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event, onChange OnChange) {
	if event.Has(fsnotify.Create) && fw.file == "" {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.addDirectory(event.Name); err != nil {
				fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !fw.shouldProcess(event) {
		return
	}

	fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())

	path := event.Name
	fw.debounce.Trigger(path, func() {
		if _, err := os.Stat(path); err != nil {
			// The file went away during the quiet period.
			return
		}
		if err := onChange(path); err != nil {
			fw.logger.Error("change handler failed", "path", path, "error", err)
		}
	})
}

// Stop ends Watch and releases the underlying watcher. It is safe to call
// more than once and before Watch.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	running := fw.running
	fw.mu.Unlock()

	close(fw.stopCh)
	if running {
		<-fw.doneCh
	}
	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) addPath() error {
	if fw.file != "" {
		return fw.watcher.Add(filepath.Dir(fw.file))
	}
	return fw.addDirectory(fw.config.Path)
}

// addDirectory watches dir and every subdirectory below it.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.hidden(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

// shouldProcess reports whether event names a CQL file that was written
// or created.
func (fw *FileWatcher) shouldProcess(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if fw.file != "" {
		return filepath.Clean(event.Name) == fw.file
	}
	if fw.hidden(event.Name) {
		return false
	}
	return fw.hasExtension(event.Name)
}

func (fw *FileWatcher) hidden(path string) bool {
	return !fw.config.IncludeHidden && strings.HasPrefix(filepath.Base(path), ".")
}

func (fw *FileWatcher) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range fw.config.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
