package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	configLoader "github.com/andiksetyawan/config"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"dump-normalizer/internal/app"
	"dump-normalizer/internal/config"
)

func main() {
	var (
		file           = pflag.String("file", "", "convert a single file and exit")
		out            = pflag.String("out", "", "output path for --file (default stdout)")
		inputDir       = pflag.String("input-dir", "", "override watched input directory")
		outputDir      = pflag.String("output-dir", "", "override output directory")
		format         = pflag.String("format", "", "output format: mysql, postgres, csv, json")
		merge          = pflag.Bool("merge", false, "merge statements into dependency order")
		stripPrefix    = pflag.String("strip-prefix", "", "table name prefix to strip")
		sourceEncoding = pflag.String("source-encoding", "", "source encoding (auto to detect)")
		targetEncoding = pflag.String("target-encoding", "", "target encoding")
		strict         = pflag.Bool("strict", false, "fail on unterminated statements and dangling references")
		debug          = pflag.Bool("debug", false, "debug logging")
	)
	pflag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := &config.AppConfig{}
	loader := configLoader.New(
		configLoader.WithEnvPath(".env"),
	)
	if err := loader.Load(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Flags override the environment.
	if *inputDir != "" {
		cfg.Watch.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.Watch.OutputDir = *outputDir
	}
	if *format != "" {
		cfg.Convert.OutputFormat = *format
	}
	if *stripPrefix != "" {
		cfg.Convert.StripPrefix = *stripPrefix
	}
	if *sourceEncoding != "" {
		cfg.Convert.SourceEncoding = *sourceEncoding
	}
	if *targetEncoding != "" {
		cfg.Convert.TargetEncoding = *targetEncoding
	}
	if *merge {
		cfg.Convert.Merge = true
	}
	if *strict {
		cfg.Convert.StrictSplit = true
		cfg.Convert.StrictMerge = true
	}

	application, err := app.NewApplication(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer application.Close()

	if *file != "" {
		convertOnce(application, log, *file, *out)
		return
	}

	if err := application.Watcher.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start watcher")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("shutting down")
	application.Watcher.Stop()
}

func convertOnce(application *app.Application, log zerolog.Logger, path, out string) {
	result, err := application.Convert(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("conversion failed")
	}

	if out == "" {
		fmt.Print(string(result.Document))
		return
	}
	if err := os.WriteFile(out, result.Document, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("write failed")
	}
	log.Info().Str("path", out).Int("statements", result.Statements).Msg("converted")
}
