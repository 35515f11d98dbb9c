package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"dump-normalizer/internal/models"
)

// MergeService orders table definition statements so every referenced table
// is emitted before its dependents. Non-definition statements keep their
// original relative order and follow the definitions.
type MergeService struct {
	log    zerolog.Logger
	strict bool
}

func NewMergeService(log zerolog.Logger, strict bool) *MergeService {
	return &MergeService{log: log.With().Str("component", "merge").Logger(), strict: strict}
}

// Order runs a depth-first post-order walk over the registration order.
// A table already visited, or currently on the walk path, is skipped on the
// recursive call: cycles terminate, but the internal order of a cycle may
// still violate one of its edges. That is a documented limitation, not
// solved by backtracking.
func (m *MergeService) Order(statements []models.Statement, graph *models.DependencyGraph) ([]models.Statement, error) {
	defByTable := make(map[string]models.Statement)
	for _, stmt := range statements {
		if stmt.IsDefinition() {
			// Last write wins for duplicate definitions.
			defByTable[stmt.Table] = stmt
		}
	}

	ordered := make([]models.Statement, 0, len(statements))
	visited := make(map[string]bool)
	onPath := make(map[string]bool)

	var visit func(table string) error
	visit = func(table string) error {
		if visited[table] {
			return nil
		}
		visited[table] = true
		onPath[table] = true
		defer delete(onPath, table)

		for _, dep := range graph.Dependencies(table) {
			if !graph.Has(dep) {
				if m.strict {
					return fmt.Errorf("table %s references unknown table %s", table, dep)
				}
				m.log.Warn().Str("table", table).Str("reference", dep).Msg("dangling foreign key reference, skipping")
				continue
			}
			if onPath[dep] {
				m.log.Warn().Str("table", table).Str("reference", dep).Msg("circular dependency, edge order not guaranteed")
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		if stmt, ok := defByTable[table]; ok {
			ordered = append(ordered, stmt)
		}
		return nil
	}

	for _, table := range graph.Tables() {
		if err := visit(table); err != nil {
			return nil, err
		}
	}

	for _, stmt := range statements {
		if !stmt.IsDefinition() {
			ordered = append(ordered, stmt)
		}
	}

	return ordered, nil
}
