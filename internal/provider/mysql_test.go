package provider

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alzkb-graph/internal/registry"
	kberrors "alzkb-graph/pkg/errors"
)

func TestMySQL_TableNameGuard(t *testing.T) {
	// The guard rejects before any query is issued, so no connection is needed
	p := &MySQL{}
	entry := &registry.Entry{
		Source: "aopdb", Dataset: "drugs",
		Provider: registry.ProviderMySQL,
		Table:    "chemical_info; DROP TABLE chemical_info",
	}
	_, err := p.Fetch(context.Background(), entry)
	require.Error(t, err)
	assert.True(t, kberrors.IsErrorType(err, kberrors.ErrorTypeSource))
}

func TestIdentPattern(t *testing.T) {
	valid := []string{"chemical_info", "pathway_gene", "Table2", "_private"}
	for _, name := range valid {
		assert.True(t, identPattern.MatchString(name), "expected %q to be accepted", name)
	}
	invalid := []string{"", "chemical info", "chemical-info", "db.table", "`quoted`", "x;y"}
	for _, name := range invalid {
		assert.False(t, identPattern.MatchString(name), "expected %q to be rejected", name)
	}
}

// TestMySQL_Fetch requires a running MySQL instance.
// Set MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE
// environment variables.
func TestMySQL_Fetch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	host := os.Getenv("MYSQL_HOST")
	if host == "" {
		t.Skip("MYSQL_HOST not set")
	}
	port := os.Getenv("MYSQL_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("MYSQL_USER")
	if user == "" {
		user = "root"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		user, os.Getenv("MYSQL_PASSWORD"), host, port, os.Getenv("MYSQL_DATABASE"))

	ctx := context.Background()
	p, err := OpenMySQL(ctx, dsn)
	require.NoError(t, err)
	defer p.Close()

	const table = "alzkb_fetch_check"
	_, err = p.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+table+" (DTX_id VARCHAR(32), ChemicalID VARCHAR(32) NULL)")
	require.NoError(t, err)
	defer func() {
		_, _ = p.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table)
	}()
	_, err = p.db.ExecContext(ctx, "INSERT INTO "+table+" VALUES ('DTXSID001', 'D000001'), ('DTXSID002', NULL)")
	require.NoError(t, err)

	entry := &registry.Entry{
		Source: "aopdb", Dataset: "drugs",
		Provider: registry.ProviderMySQL,
		Table:    table,
	}
	ds, err := p.Fetch(ctx, entry)
	require.NoError(t, err)

	assert.Equal(t, []string{"DTX_id", "ChemicalID"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "D000001", ds.Rows[0]["ChemicalID"])
	// NULL cells come back as empty strings, which the engine treats as absent
	assert.Equal(t, "", ds.Rows[1]["ChemicalID"])
}
