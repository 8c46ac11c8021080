package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ezerfernandes/mdrender/internal/custom"

	_ "modernc.org/sqlite" // database/sql driver "sqlite"
)

// RowColumn is the column holding the 1-based row number of every exported
// table.
const RowColumn = "row"

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// WriteSQLite writes every dataset to a table of the database at path. An
// existing table of the same name is replaced. All values are stored as
// text.
func WriteSQLite(ctx context.Context, path string, datasets []custom.Dataset) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for i := range datasets {
		if err := writeTable(ctx, tx, &datasets[i]); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("dataset %s: %w", datasets[i].Name, err)
		}
	}

	return tx.Commit()
}

func writeTable(ctx context.Context, tx *sql.Tx, ds *custom.Dataset) error {
	table := quoteIdent(ds.Name)

	columns := make([]string, 0, len(ds.Fields)+1)
	for _, c := range ds.Columns() {
		if c != RowColumn {
			columns = append(columns, c)
		}
	}

	defs := []string{quoteIdent(RowColumn) + " INTEGER PRIMARY KEY"}
	names := []string{quoteIdent(RowColumn)}

	for _, c := range columns {
		defs = append(defs, quoteIdent(c)+" TEXT")
		names = append(names, quoteIdent(c))
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), placeholders))
	if err != nil {
		return err
	}

	defer stmt.Close()

	for i, row := range ds.Rows {
		values := make([]interface{}, 0, len(names))
		values = append(values, i+1)

		for _, c := range columns {
			if v, ok := row[c]; ok {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}

		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return err
		}
	}

	return nil
}
