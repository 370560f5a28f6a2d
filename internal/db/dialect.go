package db

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// Dialect holds the SQL differences between the supported drivers.
type Dialect struct {
	Driver Driver

	// AbsentID is the literal bound to the auto-increment column on insert.
	// PostgreSQL rejects NULL for a SERIAL column, so it gets DEFAULT.
	AbsentID string

	// Returning is set when the generated id must be read back with
	// RETURNING because the driver has no LastInsertId.
	Returning bool

	numbered bool
	ddl      string
}

var dialects = map[Driver]Dialect{
	MySQL: {
		Driver:   MySQL,
		AbsentID: "NULL",
		ddl: `CREATE TABLE IF NOT EXISTS %s (
			customer_id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			date_of_birth DATE NOT NULL
		)`,
	},
	Postgres: {
		Driver:    Postgres,
		AbsentID:  "DEFAULT",
		Returning: true,
		numbered:  true,
		ddl: `CREATE TABLE IF NOT EXISTS %s (
			customer_id SERIAL PRIMARY KEY,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			date_of_birth DATE NOT NULL
		)`,
	},
	SQLite: {
		Driver:   SQLite,
		AbsentID: "NULL",
		ddl: `CREATE TABLE IF NOT EXISTS %s (
			customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			date_of_birth DATE NOT NULL
		)`,
	},
}

func init() {
	pgx := dialects[Postgres]
	pgx.Driver = PGX
	dialects[PGX] = pgx
}

func DialectFor(driver Driver) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("no SQL dialect for driver %q", driver)
	}
	return d, nil
}

// Placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// CreateTableSQL is the DDL for the customers table under the given name.
func (d Dialect) CreateTableSQL(table string) string {
	return fmt.Sprintf(d.ddl, table)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name can be spliced into SQL as a bare
// table name.
func ValidIdentifier(name string) bool {
	return len(name) <= 64 && identifier.MatchString(name)
}

// EnsureSchema creates the customers table if it does not exist.
func EnsureSchema(ctx context.Context, conn DBTX, d Dialect, table string) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	if _, err := conn.ExecContext(ctx, d.CreateTableSQL(table)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}
