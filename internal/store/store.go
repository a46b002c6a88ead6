// Package store implements the mission, project, and task repositories on
// top of the remote pipeline client. Every statement is scoped to the
// current account; list operations return one page plus the total size of
// the filtered set.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
)

// ErrColumnMismatch is returned when a result does not carry the columns a
// query declared.
var ErrColumnMismatch = errors.New("result columns do not match query")

// Executor runs statements against the database. *remote.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, sql string, args ...any) (*remote.Result, error)
	ExecuteBatch(ctx context.Context, stmts []remote.Statement) (*remote.Result, error)
}

// columns is the ordered column list of a query. Mappers read cells by the
// position a column holds here.
type columns []string

// list renders the columns for a SELECT, qualified with alias when set.
func (c columns) list(alias string) string {
	if alias == "" {
		return strings.Join(c, ", ")
	}
	parts := make([]string, len(c))
	for i, name := range c {
		parts[i] = alias + "." + name
	}
	return strings.Join(parts, ", ")
}

// check verifies res has exactly want columns.
func check(res *remote.Result, want int) error {
	if len(res.Cols) != 0 && len(res.Cols) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrColumnMismatch, len(res.Cols), want)
	}
	for _, row := range res.Rows {
		if len(row) != want {
			return fmt.Errorf("%w: row has %d cells, want %d", ErrColumnMismatch, len(row), want)
		}
	}
	return nil
}

// mapRows converts every row of res with fn after checking its shape.
func mapRows[T any](res *remote.Result, want int, fn func([]remote.Value) (T, error)) ([]T, error) {
	if err := check(res, want); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(res.Rows))
	for _, row := range res.Rows {
		item, err := fn(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// queryOne runs a single-row lookup and returns nil when no row matches.
func queryOne[T any](ctx context.Context, exec Executor, want int, fn func([]remote.Value) (T, error), sql string, args ...any) (*T, error) {
	res, err := exec.Execute(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	items, err := mapRows(res, want, fn)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// execAffected runs a mutation and reports whether it changed any row.
func execAffected(ctx context.Context, exec Executor, sql string, args ...any) (bool, error) {
	res, err := exec.Execute(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// idCell parses a required identity column.
func idCell(row []remote.Value, i int, name string) (int64, error) {
	n, err := row[i].ParseInt64()
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return n, nil
}

// optionalIDCell parses a nullable identity column.
func optionalIDCell(row []remote.Value, i int, name string) (*int64, error) {
	n, err := row[i].ParseNullableInt64()
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return n, nil
}

func boolArg(b bool) int {
	if b {
		return 1
	}
	return 0
}
