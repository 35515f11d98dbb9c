// Package apply executes a normalized document against a live MySQL target.
package apply

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"dump-normalizer/internal/services"
)

type Service struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewService(db *sql.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log.With().Str("component", "apply").Logger()}
}

// Run executes the document statement by statement. The document's own
// pragmas disable foreign key checks for the session, so statement order
// inside cycles is tolerated.
func (s *Service) Run(ctx context.Context, document string) error {
	statements, err := services.NewStatementSplitter(false).Split(document)
	if err != nil {
		return err
	}

	for _, stmt := range statements {
		execCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		_, err := s.db.ExecContext(execCtx, stmt)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}

	s.log.Info().Int("statements", len(statements)).Msg("document applied")
	return nil
}
