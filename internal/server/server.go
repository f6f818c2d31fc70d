// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"stitch/internal/builder"
)

const debounceDuration = 500 * time.Millisecond

// BuildFunc rebuilds the site. It is called once at startup and again
// after every batch of source changes.
type BuildFunc func(builder.BuildOptions) error

// Config describes what the dev server serves and watches.
type Config struct {
	Port int
	// OutDir is served as the document root.
	OutDir string
	// Watch lists files and directories that trigger a rebuild. Missing
	// entries are ignored.
	Watch  []string
	Logger *slog.Logger
}

// Run builds the site, serves the output directory with live reload and
// rebuilds when a watched path changes, until ctx is cancelled.
func Run(ctx context.Context, cfg Config, build BuildFunc, opts builder.BuildOptions) error {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	opts.CleanDestination = true
	if err := build(opts); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(log)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	w := &watchSet{watcher: watcher, dirs: make(map[string]bool), log: log}
	for _, path := range cfg.Watch {
		if err := w.addPath(path); err != nil {
			return err
		}
	}

	opts.CleanDestination = false
	go w.run(ctx, hub, build, opts)

	mux := http.NewServeMux()
	mux.Handle(socketPath, hub)
	mux.Handle("/", hub.Middleware(http.FileServer(http.Dir(cfg.OutDir))))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Serving site on http://localhost%s\n", srv.Addr)
	fmt.Println("Press Ctrl+C to stop")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// watchSet adds directories to an fsnotify watcher once each. fsnotify is
// not recursive, so every subdirectory is registered separately.
type watchSet struct {
	watcher *fsnotify.Watcher
	dirs    map[string]bool
	log     *slog.Logger
}

func (w *watchSet) addDir(dir string) {
	dir = filepath.Clean(dir)
	if w.dirs[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		w.log.Warn("Could not watch directory", "dir", dir, "error", err)
		return
	}
	w.dirs[dir] = true
	w.log.Debug("Watching directory", "dir", dir)
}

// addPath watches a directory tree, or the parent directory of a file so
// that editors which save by renaming are still noticed.
func (w *watchSet) addPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not stat path %s: %w", path, err)
	}
	if !info.IsDir() {
		w.addDir(filepath.Dir(path))
		return nil
	}
	return filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			w.addDir(walkPath)
		}
		return nil
	})
}

func (w *watchSet) run(ctx context.Context, hub *Hub, build BuildFunc, opts builder.BuildOptions) {
	var lastBuild time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addPath(event.Name)
				}
			}
			if time.Since(lastBuild) <= debounceDuration {
				continue
			}
			// Let editors finish writing before reading the tree.
			time.Sleep(100 * time.Millisecond)

			w.log.Info("Change detected, rebuilding", "path", event.Name)
			if err := build(opts); err != nil {
				w.log.Error("Rebuild failed", "error", err)
			} else {
				hub.broadcast([]byte(reloadMessage))
			}
			lastBuild = time.Now()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watcher error", "error", err)
		}
	}
}
