package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/craftcatalog/internal/core"
)

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// loadSQLite reads every row of table in rowid order.
func loadSQLite(path, table string) (core.Sheet, error) {
	db, err := openSQLite(path)
	if err != nil {
		return core.Sheet{}, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT * FROM " + quoteIdentifier(table) + " ORDER BY rowid")
	if err != nil {
		return core.Sheet{}, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return core.Sheet{}, err
	}

	sheet := core.Sheet{Columns: cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return core.Sheet{}, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = sqlText(v)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, rows.Err()
}

func sqlText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// saveSQLite replaces table with the sheet in one transaction. Every column is
// stored as TEXT.
func saveSQLite(sheet core.Sheet, path, table string) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	quotedTable := quoteIdentifier(table)
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quotedTable); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}

	if len(sheet.Columns) == 0 {
		return tx.Commit()
	}

	defs := make([]string, len(sheet.Columns))
	for i, c := range sheet.Columns {
		defs[i] = quoteIdentifier(c) + " TEXT"
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quotedTable, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(sheet.Columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", quotedTable, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(sheet.Columns))
	for r, row := range sheet.Rows {
		for i := range args {
			args[i] = ""
			if i < len(row) {
				args[i] = row[i]
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", r, err)
		}
	}

	return tx.Commit()
}

// quoteIdentifier quotes a table or column name for SQL.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
