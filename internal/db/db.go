// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	appErrors "github.com/unclebandit/customer-roster/internal/errors"
)

// Driver is a database/sql driver name registered by one of the imports above.
type Driver string

const (
	MySQL    Driver = "mysql"
	Postgres Driver = "postgres"
	PGX      Driver = "pgx"
	SQLite   Driver = "sqlite"
)

// Drivers lists every supported driver.
var Drivers = []Driver{MySQL, Postgres, PGX, SQLite}

func ParseDriver(name string) (Driver, error) {
	for _, d := range Drivers {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unsupported database driver %q", name)
}

// DBTX is the part of *sql.DB, *sql.Conn and *sql.Tx the repositories use.
type DBTX interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Config identifies one database. For SQLite, Name is the database file
// and the network fields are ignored.
type Config struct {
	Driver   Driver
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

func (c Config) port() int {
	if c.Port > 0 {
		return c.Port
	}
	switch c.Driver {
	case Postgres, PGX:
		return 5432
	default:
		return 3306
	}
}

// Address is the host:port pair, or the file name for SQLite.
func (c Config) Address() string {
	if c.Driver == SQLite {
		return c.Name
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.port()))
}

// DSN builds the driver-specific connection string.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case MySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.Address()
		mc.DBName = c.Name
		return mc.FormatDSN(), nil
	case Postgres, PGX:
		sslmode := c.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     c.Address(),
			Path:     "/" + c.Name,
			RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
		}
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else if c.User != "" {
			u.User = url.User(c.User)
		}
		return u.String(), nil
	case SQLite:
		if c.Name == "" {
			return "", fmt.Errorf("sqlite needs a database file name")
		}
		return c.Name, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Open opens the pool and pings it. Any failure is reported as a
// ConnectionError and leaves nothing open.
func Open(ctx context.Context, cfg Config, log logrus.FieldLogger) (*sql.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, appErrors.NewConnectionError(string(cfg.Driver), cfg.Address(), err)
	}

	log.WithFields(logrus.Fields{
		"driver":   cfg.Driver,
		"address":  cfg.Address(),
		"database": cfg.Name,
		"user":     cfg.User,
	}).Debug("opening database")

	conn, err := sql.Open(string(cfg.Driver), dsn)
	if err != nil {
		return nil, appErrors.NewConnectionError(string(cfg.Driver), cfg.Address(), err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, appErrors.NewConnectionError(string(cfg.Driver), cfg.Address(), err)
	}

	log.Info("✅ Connected to the database")
	return conn, nil
}
