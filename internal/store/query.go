package store

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// likeEscaper escapes LIKE wildcards in user text; the escape character is
// backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching text anywhere.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// listQuery describes a filtered, ordered listing. The same FROM and WHERE
// produce both the count and the page, so TotalCount always describes the
// set the page was cut from.
type listQuery struct {
	from      string // table or join expression
	alias     string // qualifier for cols, empty for a bare table
	cols      columns
	where     []string
	args      []any
	filterCol string // column matched against Page.Filter
	orderBy   string
}

// statements builds the count and page statements for page.
func (q listQuery) statements(page types.Page) (count, data remote.Statement) {
	where := append([]string(nil), q.where...)
	args := append([]any(nil), q.args...)
	if f := page.FilterText(); f != "" && q.filterCol != "" {
		where = append(where, q.filterCol+` LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	count = remote.NewStatement("SELECT COUNT(*) FROM "+q.from+clause, args...)

	sql := "SELECT " + q.cols.list(q.alias) + " FROM " + q.from + clause
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += " LIMIT ? OFFSET ?"
	data = remote.NewStatement(sql, append(args, page.Take, page.Skip)...)
	return count, data
}

// fetchPage runs the count and page queries of q concurrently and maps the
// page rows with fn.
func fetchPage[T any](ctx context.Context, exec Executor, q listQuery, page types.Page, fn func([]remote.Value) (T, error)) (types.PagedResult[T], error) {
	if err := page.Validate(); err != nil {
		return types.PagedResult[T]{}, err
	}
	countStmt, dataStmt := q.statements(page)

	var (
		total int64
		items []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := exec.Execute(gctx, countStmt.SQL, countStmt.Args...)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		if len(res.Rows) == 0 || len(res.Rows[0]) == 0 {
			return fmt.Errorf("count: %w", ErrColumnMismatch)
		}
		total, err = res.Rows[0][0].ParseInt64()
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		res, err := exec.Execute(gctx, dataStmt.SQL, dataStmt.Args...)
		if err != nil {
			return err
		}
		items, err = mapRows(res, len(q.cols), fn)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.PagedResult[T]{}, err
	}
	return types.PagedResult[T]{Items: items, TotalCount: int(total)}, nil
}

// placeholders returns n comma-separated parameter markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
