package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"dump-normalizer/internal/apply"
	"dump-normalizer/internal/charset"
	"dump-normalizer/internal/config"
	"dump-normalizer/internal/handlers"
	"dump-normalizer/internal/models"
	"dump-normalizer/internal/services"
	"dump-normalizer/internal/watcher"
)

// Application wires configuration, the format dispatcher, the directory
// watcher and the optional apply target together.
type Application struct {
	Config     *config.AppConfig
	Log        zerolog.Logger
	Dispatcher *handlers.Dispatcher
	Watcher    *watcher.Watcher

	format   models.Format
	targetDB *sql.DB
	applySvc *apply.Service
}

func NewApplication(cfg *config.AppConfig, log zerolog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, err := cfg.Convert.Format()
	if err != nil {
		return nil, err
	}

	opts := services.Options{
		Format:      format,
		Charset:     cfg.Convert.TargetEncoding,
		StripPrefix: cfg.Convert.StripPrefix,
		Merge:       cfg.Convert.Merge,
		StrictSplit: cfg.Convert.StrictSplit,
		StrictMerge: cfg.Convert.StrictMerge,
	}

	a := &Application{
		Config:     cfg,
		Log:        log,
		Dispatcher: handlers.NewDispatcher(log, opts),
		format:     format,
	}

	if cfg.Apply.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		a.targetDB = db
		a.applySvc = apply.NewService(db, log)
	}

	a.Watcher = watcher.New(log, cfg.Watch.InputDir, cfg.Watch.RescanSchedule, a.processFile)
	return a, nil
}

// Convert runs the full pipeline for one file: read, transcode, dispatch
// to the format handler, re-encode.
func (a *Application) Convert(path string) (*handlers.Result, error) {
	handler, ok := a.Dispatcher.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("unrecognized file type: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	decoded, err := charset.Decode(data, a.Config.Convert.SourceEncoding)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	result, err := handler.Handle(filepath.Base(path), decoded)
	if err != nil {
		return nil, err
	}

	result.Document, err = charset.Encode(result.Document, a.Config.Convert.TargetEncoding)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return result, nil
}

// processFile is the watcher callback: convert, write to the output
// directory and optionally apply against the target database.
func (a *Application) processFile(path string) (*models.ConvertStatus, error) {
	if _, ok := a.Dispatcher.ForPath(path); !ok {
		return nil, nil
	}
	if strings.Contains(filepath.Base(path), ".converted.") {
		return nil, nil
	}

	result, err := a.Convert(path)
	if err != nil {
		return nil, err
	}

	outPath := a.outputPath(path)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, result.Document, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}

	if a.applySvc != nil {
		if err := a.applySvc.Run(context.Background(), string(result.Document)); err != nil {
			return nil, fmt.Errorf("apply %s: %w", path, err)
		}
	}

	return &models.ConvertStatus{
		Path:       path,
		Format:     a.format.String(),
		Statements: result.Statements,
		Tables:     result.Tables,
		Status:     "success",
	}, nil
}

func (a *Application) outputPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(a.Config.Watch.OutputDir, base+".converted"+a.format.Extension())
}

func (a *Application) Close() {
	if a.targetDB != nil {
		a.targetDB.Close()
	}
}
