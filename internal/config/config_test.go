package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dump-normalizer/internal/models"
)

func TestConvertConfigFormat(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    models.Format
		wantErr bool
	}{
		{name: "mysql", in: "mysql", want: models.FormatMySQL},
		{name: "postgres", in: "postgres", want: models.FormatPostgres},
		{name: "csv", in: "csv", want: models.FormatCSV},
		{name: "json", in: "json", want: models.FormatJSON},
		{name: "unknown", in: "parquet", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ConvertConfig{OutputFormat: tt.in}
			got, err := c.Format()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &AppConfig{
		Convert: ConvertConfig{OutputFormat: "mysql", TargetEncoding: "utf8mb4"},
	}
	require.NoError(t, cfg.Validate())

	cfg.Convert.TargetEncoding = ""
	assert.Error(t, cfg.Validate())

	cfg.Convert.TargetEncoding = "utf8mb4"
	cfg.Convert.OutputFormat = "xlsx"
	assert.Error(t, cfg.Validate())
}
