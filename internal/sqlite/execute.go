package sqlite

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
)

// queryKeywords start statements that produce rows.
var queryKeywords = []string{"SELECT", "WITH", "PRAGMA", "EXPLAIN", "VALUES"}

// insertKeywords start statements that report a last insert rowid.
var insertKeywords = []string{"INSERT", "REPLACE"}

func (b *Backend) execute(ctx context.Context, stmt remote.StmtBody) (*remote.Result, error) {
	args := make([]any, len(stmt.Args))
	for i, v := range stmt.Args {
		native, err := v.Native()
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		args[i] = native
	}

	keyword := leadingKeyword(stmt.SQL)
	if slices.Contains(queryKeywords, keyword) {
		return b.query(ctx, stmt.SQL, args)
	}

	res, err := b.db.ExecContext(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, err
	}
	out := &remote.Result{Cols: []remote.Column{}, Rows: [][]remote.Value{}}
	if n, err := res.RowsAffected(); err == nil {
		out.AffectedRowCount = n
	}
	if slices.Contains(insertKeywords, keyword) {
		if id, err := res.LastInsertId(); err == nil {
			s := strconv.FormatInt(id, 10)
			out.LastInsertRowID = &s
		}
	}
	return out, nil
}

func (b *Backend) query(ctx context.Context, sqlText string, args []any) (*remote.Result, error) {
	rows, err := b.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	cols := make([]remote.Column, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = remote.Column{Name: ct.Name(), DeclType: ct.DatabaseTypeName()}
	}

	out := &remote.Result{Cols: cols, Rows: [][]remote.Value{}}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]remote.Value, len(cells))
		for i, c := range cells {
			row[i] = toValue(c)
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// toValue maps a driver value to its wire form.
func toValue(v any) remote.Value {
	switch x := v.(type) {
	case nil:
		return remote.Null()
	case int64:
		return remote.Integer(x)
	case float64:
		return remote.Float(x)
	case bool:
		return remote.Encode(x)
	case []byte:
		return remote.Blob(x)
	case string:
		return remote.Text(x)
	case time.Time:
		return remote.Text(x.UTC().Format(time.RFC3339Nano))
	default:
		return remote.Text(fmt.Sprint(x))
	}
}

// leadingKeyword returns the first SQL keyword, upper-cased, skipping
// whitespace, line comments, and opening parentheses.
func leadingKeyword(sqlText string) string {
	s := sqlText
	for {
		s = strings.TrimLeft(s, " \t\r\n(")
		if strings.HasPrefix(s, "--") {
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				s = s[i+1:]
				continue
			}
			return ""
		}
		break
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		end = len(s)
	}
	return strings.ToUpper(s[:end])
}

