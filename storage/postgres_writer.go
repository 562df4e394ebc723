package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"airbnb-features/models"
	"airbnb-features/utils"
)

// maxParams keeps one INSERT under the Postgres bind parameter limit.
const maxParams = 60000

// PostgresStore persists artifacts as tables and reads inputs back. Every
// artifact table is recreated on write.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and waits for the server to answer,
// retrying with back-off.
func NewPostgresStore(dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func pgType(t models.Type) string {
	switch t {
	case models.TypeFloat:
		return "DOUBLE PRECISION"
	case models.TypeInt:
		return "BIGINT"
	case models.TypeBool:
		return "BOOLEAN"
	}
	return "TEXT"
}

func createTableSQL(name string, t *models.Table) string {
	defs := make([]string, 0, t.NumCols())
	for _, c := range t.Columns() {
		defs = append(defs, pq.QuoteIdentifier(c.Name)+" "+pgType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(name), strings.Join(defs, ", "))
}

// insertSQL builds a multi-row INSERT for rows rows of cols columns.
func insertSQL(name string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	valueStrings := make([]string, 0, rows)
	p := 1
	for r := 0; r < rows; r++ {
		ph := make([]string, len(columns))
		for i := range columns {
			ph[i] = "$" + strconv.Itoa(p)
			p++
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(name), strings.Join(quoted, ", "), strings.Join(valueStrings, ","))
}

func sqlValue(v models.Value, t models.Type) interface{} {
	if v.Null {
		return nil
	}
	switch t {
	case models.TypeFloat:
		return v.F
	case models.TypeInt:
		return v.I
	case models.TypeBool:
		return v.B
	}
	return v.S
}

// WriteTable replaces the table called name with the contents of t, in one transaction.
func (pw *PostgresStore) WriteTable(name string, t *models.Table) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("postgres: drop %q: %w", name, err)
	}
	if _, err := tx.Exec(createTableSQL(name, t)); err != nil {
		return fmt.Errorf("postgres: create %q: %w", name, err)
	}

	cols := t.Columns()
	if len(cols) > 0 {
		batchSize := max(1, maxParams/len(cols))
		for start := 0; start < t.NumRows(); start += batchSize {
			end := min(start+batchSize, t.NumRows())
			args := make([]interface{}, 0, (end-start)*len(cols))
			for r := start; r < end; r++ {
				for _, c := range cols {
					args = append(args, sqlValue(c.Values[r], c.Type))
				}
			}
			if _, err := tx.Exec(insertSQL(name, t.Names(), end-start), args...); err != nil {
				return fmt.Errorf("postgres: insert into %q: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit %q: %w", name, err)
	}
	return nil
}

// columnType maps a Postgres type name to a cell type.
func columnType(dbType string) models.Type {
	switch strings.ToUpper(dbType) {
	case "INT2", "INT4", "INT8":
		return models.TypeInt
	case "FLOAT4", "FLOAT8", "NUMERIC":
		return models.TypeFloat
	case "BOOL":
		return models.TypeBool
	}
	return models.TypeString
}

// ReadTable loads every row of the table called name. Date and timestamp
// columns come back as text so the cleaner parses them like CSV input.
func (pw *PostgresStore) ReadTable(name string) (*models.Table, error) {
	rows, err := pw.db.Query("SELECT * FROM " + pq.QuoteIdentifier(name))
	if err != nil {
		return nil, fmt.Errorf("postgres: read %q: %w", name, err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("postgres: column types of %q: %w", name, err)
	}
	cols := make([]*models.Column, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = models.NewColumn(ct.Name(), columnType(ct.DatabaseTypeName()), nil)
	}

	raw := make([]sql.NullString, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("postgres: scan %q: %w", name, err)
		}
		for i, c := range cols {
			c.Values = append(c.Values, fromSQL(raw[i], c.Type))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read %q: %w", name, err)
	}
	return models.NewTable(cols...)
}

func fromSQL(s sql.NullString, t models.Type) models.Value {
	if !s.Valid {
		return models.Null()
	}
	switch t {
	case models.TypeInt:
		if n, err := strconv.ParseInt(s.String, 10, 64); err == nil {
			return models.Int(n)
		}
		return models.Null()
	case models.TypeFloat:
		if f, err := strconv.ParseFloat(s.String, 64); err == nil {
			return models.Float(f)
		}
		return models.Null()
	case models.TypeBool:
		if b, err := strconv.ParseBool(s.String); err == nil {
			return models.Bool(b)
		}
		return models.Null()
	}
	// pq hands dates over as time.Time, which database/sql renders as RFC 3339
	if d, err := time.Parse(time.RFC3339Nano, s.String); err == nil && d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 {
		return models.Str(d.Format("2006-01-02"))
	}
	return models.Str(s.String)
}

func (pw *PostgresStore) Close() error {
	return pw.db.Close()
}
