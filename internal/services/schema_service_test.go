package services

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dump-normalizer/internal/models"
)

func newTestSchemaService(opts Options) *SchemaService {
	if opts.Charset == "" {
		opts.Charset = "utf8mb4"
	}
	return NewSchemaService(zerolog.Nop(), opts)
}

func TestProcessRewritesTableDefinition(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL, StripPrefix: "old_"})

	statements, err := svc.Process("CREATE TABLE `old_users` (\n" +
		"  `id` int NOT NULL AUTO_INCREMENT,\n" +
		"  `name` varchar(100) NOT NULL,\n" +
		"  `bio` tinytext,\n" +
		"  PRIMARY KEY (`id`)\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=latin1;\n")
	require.NoError(t, err)
	require.Len(t, statements, 1)

	assert.Equal(t, "users", statements[0].Table)
	assert.Equal(t, "CREATE TABLE `users` (\n"+
		"  `id` int NOT NULL AUTO_INCREMENT,\n"+
		"  `name` varchar(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci NOT NULL,\n"+
		"  `bio` VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci,\n"+
		"  PRIMARY KEY (`id`)\n"+
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;", statements[0].Text)
}

func TestProcessPrefixStripAnchoredAtStart(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL, StripPrefix: "old_"})

	statements, err := svc.Process(
		"CREATE TABLE `users` (`id` int);\n" +
			"CREATE TABLE `archive_old_users` (`id` int);\n")
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, "users", statements[0].Table)
	assert.Equal(t, "archive_old_users", statements[1].Table)
}

func TestProcessExtractsForeignKeys(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL, StripPrefix: "old_"})

	statements, err := svc.Process("CREATE TABLE `old_orders` (\n" +
		"  `id` int NOT NULL,\n" +
		"  `customer_id` int NOT NULL,\n" +
		"  CONSTRAINT `fk_customer` FOREIGN KEY (`customer_id`) REFERENCES `old_customers` (`id`)\n" +
		");\n")
	require.NoError(t, err)
	require.Len(t, statements, 1)

	assert.Equal(t, []string{"customers"}, svc.Graph().Dependencies("orders"))
	assert.Contains(t, statements[0].Text, "REFERENCES `customers`")
}

func TestProcessZeroForeignKeysYieldsEmptySet(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL})

	_, err := svc.Process("CREATE TABLE `plain` (`id` int);")
	require.NoError(t, err)
	assert.True(t, svc.Graph().Has("plain"))
	assert.Empty(t, svc.Graph().Dependencies("plain"))
}

func TestProcessPassesThroughUnparseableStatement(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL})

	statements, err := svc.Process("CREATE TABLE broken (;\nINSERT INTO x VALUES (1);")
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, "CREATE TABLE broken (;", statements[0].Text)
	assert.False(t, statements[0].IsDefinition())
	assert.Equal(t, "INSERT INTO x VALUES (1);", statements[1].Text)
}

func TestProcessDuplicateTableLastWriteWins(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL})

	_, err := svc.Process(
		"CREATE TABLE `t` (`a` int);\n" +
			"CREATE TABLE `t` (`b` int);\n")
	require.NoError(t, err)

	def := svc.Table("t")
	require.NotNil(t, def)
	require.Len(t, def.Columns, 1)
	assert.Equal(t, "b", def.Columns[0].Name)
	assert.Equal(t, []string{"t"}, svc.Graph().Tables())
}

func TestProcessRewritesCharacterSetOptionSpelling(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL})

	statements, err := svc.Process("CREATE TABLE `t` (`id` int) ENGINE=InnoDB DEFAULT CHARACTER SET=latin1;")
	require.NoError(t, err)
	require.Len(t, statements, 1)

	assert.Contains(t, statements[0].Text, "DEFAULT CHARSET=utf8mb4")
	assert.NotContains(t, statements[0].Text, "latin1")
	assert.Equal(t, 1, strings.Count(statements[0].Text, "CHARSET"))
}

func TestProcessQuotedKeywordColumnIsColumn(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL})

	_, err := svc.Process("CREATE TABLE `t` (\n  `key` varchar(10) NOT NULL,\n  `index` int\n);")
	require.NoError(t, err)

	def := svc.Table("t")
	require.NotNil(t, def)
	require.Len(t, def.Columns, 2)
	assert.Equal(t, "key", def.Columns[0].Name)
	assert.Equal(t, "utf8mb4", def.Columns[0].Charset)
	assert.Empty(t, def.Constraints)
}

func TestProcessKeepsEnumCommasIntact(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatMySQL})

	_, err := svc.Process("CREATE TABLE `t` (`state` enum('a,b','c') NOT NULL);")
	require.NoError(t, err)

	def := svc.Table("t")
	require.NotNil(t, def)
	require.Len(t, def.Columns, 1)
	assert.Equal(t, "enum('a,b','c')", def.Columns[0].Type)
}

func TestProcessPostgresSerialization(t *testing.T) {
	svc := newTestSchemaService(Options{Format: models.FormatPostgres})

	statements, err := svc.Process("CREATE TABLE `events` (\n" +
		"  `id` int NOT NULL AUTO_INCREMENT,\n" +
		"  `kind` tinyint NOT NULL,\n" +
		"  `at` datetime NOT NULL\n" +
		") ENGINE=InnoDB;\n")
	require.NoError(t, err)
	require.Len(t, statements, 1)

	text := statements[0].Text
	assert.Contains(t, text, `CREATE TABLE "events"`)
	assert.Contains(t, text, `"kind" SMALLINT NOT NULL`)
	assert.Contains(t, text, `"at" TIMESTAMP NOT NULL`)
	assert.NotContains(t, text, "AUTO_INCREMENT")
	assert.NotContains(t, text, "ENGINE")
	assert.NotContains(t, text, "CHARACTER SET")
}
