package services

import "dump-normalizer/internal/models"

// Options carries the per-run conversion settings shared by the schema,
// merge and record services.
type Options struct {
	Format      models.Format
	Charset     string // target charset annotation, e.g. utf8mb4
	StripPrefix string
	Merge       bool
	StrictSplit bool // error on a trailing unterminated statement
	StrictMerge bool // error on a foreign key referencing an unknown table
}

// Collation derives the collation name paired with the target charset.
func (o Options) Collation() string {
	return o.Charset + "_unicode_ci"
}
