// Package watcher is the directory-watching shell: it detects new or
// changed files in the input directory and routes them to the conversion
// pipeline. A cron-driven full rescan backs up the inotify events.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"dump-normalizer/internal/models"
)

// ProcessFunc converts one file. The watcher never retries; a failure is
// recorded and the file is retried only when it changes again or on the
// next rescan.
type ProcessFunc func(path string) (*models.ConvertStatus, error)

type Watcher struct {
	log          zerolog.Logger
	inputDir     string
	cronSchedule string
	process      ProcessFunc

	cron *cron.Cron
	fsw  *fsnotify.Watcher
	done chan struct{}

	mu        sync.RWMutex
	running   bool
	status    map[string]*models.ConvertStatus
	processed map[string]time.Time
}

func New(log zerolog.Logger, inputDir, cronSchedule string, process ProcessFunc) *Watcher {
	return &Watcher{
		log:          log.With().Str("component", "watcher").Logger(),
		inputDir:     inputDir,
		cronSchedule: cronSchedule,
		process:      process,
		cron:         cron.New(),
		done:         make(chan struct{}),
		status:       make(map[string]*models.ConvertStatus),
		processed:    make(map[string]time.Time),
	}
}

// Start begins watching the input directory and schedules the periodic
// rescan. An initial rescan picks up files already present.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(w.inputDir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.inputDir, err)
	}
	w.fsw = fsw

	if _, err := w.cron.AddFunc(w.cronSchedule, w.Rescan); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to add rescan job: %w", err)
	}
	w.cron.Start()
	w.running = true

	w.log.Info().Str("dir", w.inputDir).Str("schedule", w.cronSchedule).Msg("watching")

	go w.loop()
	go w.Rescan()

	return nil
}

// Stop stops accepting new files and waits for the rescan job in flight.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	ctx := w.cron.Stop()
	<-ctx.Done()
	close(w.done)
	w.fsw.Close()

	w.log.Info().Msg("watcher stopped")
}

func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handle(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watch error")
		case <-w.done:
			return
		}
	}
}

// Rescan sweeps the whole input directory. Events can be lost across
// remounts or when the service was down, so the cron sweep is authoritative.
func (w *Watcher) Rescan() {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		w.log.Error().Err(err).Str("dir", w.inputDir).Msg("rescan failed")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !w.IsRunning() {
			return
		}
		w.handle(filepath.Join(w.inputDir, entry.Name()))
	}
}

// handle converts one file unless its current modtime was already
// processed. Failures are isolated per file.
func (w *Watcher) handle(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	if seen, ok := w.processed[path]; ok && !info.ModTime().After(seen) {
		w.mu.Unlock()
		return
	}
	w.processed[path] = info.ModTime()
	w.mu.Unlock()

	status, err := w.process(path)
	if err != nil {
		w.log.Error().Err(err).Str("path", path).Msg("conversion failed")
		status = &models.ConvertStatus{Path: path, Status: "error", ErrorMessage: err.Error()}
	}
	if status == nil {
		return // not a recognized input, nothing to record
	}
	status.LastRunTime = time.Now()

	w.mu.Lock()
	w.status[path] = status
	w.mu.Unlock()

	if status.Status != "error" {
		w.log.Info().Str("path", path).Int("statements", status.Statements).Msg("converted")
	}
}

// Status returns a copy of the per-file conversion status.
func (w *Watcher) Status() map[string]models.ConvertStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string]models.ConvertStatus, len(w.status))
	for path, st := range w.status {
		if st != nil {
			out[path] = *st
		}
	}
	return out
}
