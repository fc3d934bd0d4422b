package subtitles

import (
	"context"
	"database/sql"
	"fmt"
)

// Column is one column of a store table
type Column struct {
	Name string
	Type string
}

// Sample is the first row of a table rendered for display
type Sample struct {
	Columns []string
	Values  []string // nil when the table is empty
}

// Inspector reports the schema and content shape of an archive store
type Inspector struct {
	db *sql.DB
}

// OpenInspector opens the store at path for inspection
func OpenInspector(path string) (*Inspector, error) {
	db, err := openStore(path)
	if err != nil {
		return nil, err
	}
	return &Inspector{db: db}, nil
}

// Close releases the store
func (i *Inspector) Close() error {
	return i.db.Close()
}

// Tables lists table names in the store
func (i *Inspector) Tables(ctx context.Context) ([]string, error) {
	return listTables(ctx, i.db)
}

// Columns lists the columns of table in declaration order
func (i *Inspector) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := i.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid     int
			col     Column
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoArchiveTable, table)
	}
	return columns, nil
}

// SampleRow returns the first row of table. Blob values are summarized by size.
func (i *Inspector) SampleRow(ctx context.Context, table string) (*Sample, error) {
	if err := requireTable(ctx, i.db, table); err != nil {
		return nil, err
	}
	rows, err := i.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" LIMIT 1")
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	sample := &Sample{Columns: columns}
	if !rows.Next() {
		return sample, rows.Err()
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for j := range values {
		ptrs[j] = &values[j]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan sample: %w", err)
	}
	sample.Values = make([]string, len(values))
	for j, v := range values {
		sample.Values[j] = renderValue(v)
	}
	return sample, nil
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("<blob %d bytes>", len(val))
	default:
		return fmt.Sprint(val)
	}
}
