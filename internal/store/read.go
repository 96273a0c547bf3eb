package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/keyjoin/internal/ir"
)

// ReadTable returns every row of table as a record, in rowid order.
//
// where restricts rows by column equality; an ir.IRNull value matches
// IS NULL. Columns are compared in sorted order so the generated SQL is
// stable.
func (s *Store) ReadTable(ctx context.Context, table string, where ir.IRObject) ([]ir.IRObject, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(tables, table) {
		return nil, fmt.Errorf("table %q not found in %s (have %v)", table, s.path, tables)
	}

	query, args, err := selectSQL(table, where)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}

	records := []ir.IRObject{}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", table, len(records)+1, err)
		}

		rec := make(ir.IRObject, len(cols))
		for i, col := range cols {
			v, err := ir.FromGo(raw[i])
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: %w", table, len(records)+1, col, err)
			}
			rec[col] = v
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return records, nil
}

// selectSQL builds the SELECT for ReadTable.
func selectSQL(table string, where ir.IRObject) (string, []any, error) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(quoteIdent(table))

	var args []any
	for i, col := range where.SortedKeys() {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(quoteIdent(col))

		switch v := where[col].(type) {
		case ir.IRNull:
			b.WriteString(" IS NULL")
			continue
		case ir.IRString:
			args = append(args, string(v))
		case ir.IRInt:
			args = append(args, int64(v))
		case ir.IRBool:
			args = append(args, bool(v))
		default:
			return "", nil, fmt.Errorf("where %q: cannot compare a column to %s", col, ir.TypeName(v))
		}
		b.WriteString(" = ?")
	}

	b.WriteString(" ORDER BY rowid ASC")
	return b.String(), args, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
