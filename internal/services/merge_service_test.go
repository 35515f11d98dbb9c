package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dump-normalizer/internal/models"
)

func defStatement(table string) models.Statement {
	return models.Statement{Text: "CREATE TABLE `" + table + "` (`id` int);", Table: table}
}

func tableOrder(statements []models.Statement) []string {
	var order []string
	for _, s := range statements {
		if s.IsDefinition() {
			order = append(order, s.Table)
		}
	}
	return order
}

func TestOrderPlacesReferencedTableFirst(t *testing.T) {
	graph := models.NewDependencyGraph()
	graph.Register("orders")
	graph.AddDependency("orders", "customers")
	graph.Register("customers")

	statements := []models.Statement{defStatement("orders"), defStatement("customers")}
	ordered, err := NewMergeService(zerolog.Nop(), false).Order(statements, graph)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tableOrder(ordered))
}

func TestOrderTopologicalValidityAcyclic(t *testing.T) {
	graph := models.NewDependencyGraph()
	graph.Register("c")
	graph.AddDependency("c", "b")
	graph.Register("b")
	graph.AddDependency("b", "a")
	graph.Register("a")

	statements := []models.Statement{defStatement("c"), defStatement("b"), defStatement("a")}
	ordered, err := NewMergeService(zerolog.Nop(), false).Order(statements, graph)
	require.NoError(t, err)

	position := map[string]int{}
	for i, table := range tableOrder(ordered) {
		position[table] = i
	}
	assert.Less(t, position["a"], position["b"])
	assert.Less(t, position["b"], position["c"])
}

func TestOrderTerminatesOnCycle(t *testing.T) {
	graph := models.NewDependencyGraph()
	graph.Register("a")
	graph.AddDependency("a", "b")
	graph.Register("b")
	graph.AddDependency("b", "a")

	statements := []models.Statement{defStatement("a"), defStatement("b")}
	ordered, err := NewMergeService(zerolog.Nop(), false).Order(statements, graph)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "b"}, tableOrder(ordered))
	assert.Len(t, ordered, 2)
}

func TestOrderSelfReferenceTerminates(t *testing.T) {
	graph := models.NewDependencyGraph()
	graph.Register("employees")
	graph.AddDependency("employees", "employees")

	statements := []models.Statement{defStatement("employees")}
	ordered, err := NewMergeService(zerolog.Nop(), false).Order(statements, graph)
	require.NoError(t, err)
	assert.Equal(t, []string{"employees"}, tableOrder(ordered))
}

func TestOrderDanglingReferenceLenient(t *testing.T) {
	graph := models.NewDependencyGraph()
	graph.Register("orders")
	graph.AddDependency("orders", "ghost")

	statements := []models.Statement{defStatement("orders")}
	ordered, err := NewMergeService(zerolog.Nop(), false).Order(statements, graph)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, tableOrder(ordered))
}

func TestOrderDanglingReferenceStrict(t *testing.T) {
	graph := models.NewDependencyGraph()
	graph.Register("orders")
	graph.AddDependency("orders", "ghost")

	statements := []models.Statement{defStatement("orders")}
	_, err := NewMergeService(zerolog.Nop(), true).Order(statements, graph)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestOrderAppendsNonDefinitionsInOriginalOrder(t *testing.T) {
	graph := models.NewDependencyGraph()
	graph.Register("t")

	statements := []models.Statement{
		{Text: "INSERT INTO t VALUES (1);"},
		defStatement("t"),
		{Text: "INSERT INTO t VALUES (2);"},
	}
	ordered, err := NewMergeService(zerolog.Nop(), false).Order(statements, graph)
	require.NoError(t, err)

	require.Len(t, ordered, 3)
	assert.Equal(t, "t", ordered[0].Table)
	assert.Equal(t, "INSERT INTO t VALUES (1);", ordered[1].Text)
	assert.Equal(t, "INSERT INTO t VALUES (2);", ordered[2].Text)
}
