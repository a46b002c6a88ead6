package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
)

//go:embed schema.sql
var schemaSQL string

// SchemaStatements returns the CREATE TABLE and CREATE INDEX statements of
// the schema, in order, without comments or trailing semicolons.
func SchemaStatements() []string {
	var b strings.Builder
	for _, line := range strings.Split(schemaSQL, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var stmts []string
	for _, s := range strings.Split(b.String(), ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// InitSchema creates any missing tables and indexes in one pipeline request.
// Every statement is idempotent, so it is safe to run against an existing
// database.
func InitSchema(ctx context.Context, exec Executor) error {
	stmts := SchemaStatements()
	batch := make([]remote.Statement, len(stmts))
	for i, s := range stmts {
		batch[i] = remote.NewStatement(s)
	}
	if _, err := exec.ExecuteBatch(ctx, batch); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
