package config

import (
	"fmt"

	"dump-normalizer/internal/models"
)

type AppConfig struct {
	Watch   WatchConfig    `envPrefix:"WATCH_"`
	Convert ConvertConfig  `envPrefix:"CONVERT_"`
	Apply   ApplyConfig    `envPrefix:"APPLY_"`
	Target  DatabaseConfig `envPrefix:"TARGET_DB_"`
}

type WatchConfig struct {
	InputDir  string `env:"INPUT_DIR" envDefault:"./input"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"./output"`

	// Cron schedule for the periodic full rescan of the input directory.
	RescanSchedule string `env:"RESCAN_SCHEDULE" envDefault:"*/5 * * * *"`
}

type ConvertConfig struct {
	SourceEncoding string `env:"SOURCE_ENCODING" envDefault:"auto"`
	TargetEncoding string `env:"TARGET_ENCODING" envDefault:"utf8mb4"`

	StripPrefix  string `env:"STRIP_PREFIX"`
	Merge        bool   `env:"MERGE" envDefault:"false"`
	OutputFormat string `env:"OUTPUT_FORMAT" envDefault:"mysql"`

	StrictSplit bool `env:"STRICT_SPLIT" envDefault:"false"`
	StrictMerge bool `env:"STRICT_MERGE" envDefault:"false"`
}

type ApplyConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"3306"`
	User     string `env:"USER" envDefault:"root"`
	Password string `env:"PASSWORD" envDefault:"password"`
	Name     string `env:"NAME" envDefault:"converted"`
}

// Format resolves the configured output format name. An unsupported name is
// a fatal configuration error, raised before any file is processed.
func (c *ConvertConfig) Format() (models.Format, error) {
	return models.ParseFormat(c.OutputFormat)
}

// Validate checks the configuration before processing starts.
func (c *AppConfig) Validate() error {
	if _, err := c.Convert.Format(); err != nil {
		return err
	}
	if c.Convert.TargetEncoding == "" {
		return fmt.Errorf("target encoding must not be empty")
	}
	return nil
}
