package service

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/customer-roster/internal/db"
	appErrors "github.com/unclebandit/customer-roster/internal/errors"
	"github.com/unclebandit/customer-roster/internal/model"
	"github.com/unclebandit/customer-roster/internal/repository"
)

// Session holds one dedicated connection for the lifetime of a run.
type Session struct {
	Service *CustomerService

	pool *sql.DB
	conn *sql.Conn
	log  logrus.FieldLogger
}

// OpenSession connects to the database described by cfg and takes a
// single connection out of the pool. Connection failures are returned as
// *appErrors.ConnectionError.
func OpenSession(ctx context.Context, cfg db.Config, table string, out io.Writer, log logrus.FieldLogger) (*Session, error) {
	dialect, err := db.DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	pool, err := db.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Conn(ctx)
	if err != nil {
		pool.Close()
		return nil, appErrors.NewConnectionError(string(cfg.Driver), cfg.Address(), err)
	}

	repo, err := repository.NewCustomerRepository(conn, dialect, table)
	if err != nil {
		conn.Close()
		pool.Close()
		return nil, err
	}

	return &Session{
		Service: &CustomerService{Repo: repo, Out: out, Log: log},
		pool:    pool,
		conn:    conn,
		log:     log,
	}, nil
}

// Close releases the connection and the pool behind it.
func (s *Session) Close() error {
	err := errors.Join(s.conn.Close(), s.pool.Close())
	s.log.Info("Disconnected from database")
	return err
}

// WithSession opens a session, hands its service to fn and always closes
// the session afterwards. An error from fn takes precedence over a close
// error.
func WithSession(ctx context.Context, cfg db.Config, table string, out io.Writer, log logrus.FieldLogger, fn func(*CustomerService) error) (err error) {
	sess, err := OpenSession(ctx, cfg, table, out, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(sess.Service)
}

// Run performs the whole sequence: connect, insert c, print every row,
// disconnect.
func Run(ctx context.Context, cfg db.Config, table string, c *model.Customer, out io.Writer, log logrus.FieldLogger) error {
	return WithSession(ctx, cfg, table, out, log, func(s *CustomerService) error {
		return s.InsertAndList(ctx, c)
	})
}
