package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/customer-roster/internal/db"
	appErrors "github.com/unclebandit/customer-roster/internal/errors"
	"github.com/unclebandit/customer-roster/internal/model"
	"github.com/unclebandit/customer-roster/internal/service"
)

// Mock repository
type MockCustomerRepo struct {
	rows      []model.Customer
	nextID    int64
	insertErr error
}

func (m *MockCustomerRepo) Insert(ctx context.Context, c *model.Customer) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	c.ID = m.nextID
	m.rows = append(m.rows, *c)
	return nil
}

func (m *MockCustomerRepo) ForEach(ctx context.Context, fn func(model.Customer) error) error {
	for _, c := range m.rows {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockCustomerRepo) ListAll(ctx context.Context) ([]model.Customer, error) {
	return m.rows, nil
}

func (m *MockCustomerRepo) Count(ctx context.Context) (int, error) {
	return len(m.rows), nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func charlie() model.Customer {
	return model.Customer{FirstName: "Charlie", LastName: "Haughey", DateOfBirth: model.MustParseDate("1950-02-01")}
}

func sqliteConfig(t *testing.T) db.Config {
	return db.Config{Driver: db.SQLite, Name: filepath.Join(t.TempDir(), "customers.db")}
}

func prepareSchema(t *testing.T, cfg db.Config) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, cfg, quietLogger())
	require.NoError(t, err)
	defer conn.Close()
	d, err := db.DialectFor(cfg.Driver)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx, conn, d, "customers"))
}

func TestFormatRow(t *testing.T) {
	c := charlie()
	c.ID = 12
	assert.Equal(t, "12, Charlie, Haughey, 1950-02-01", service.FormatRow(c))
}

func TestInsertAndList_PrintsEveryRow(t *testing.T) {
	repo := &MockCustomerRepo{
		rows:   []model.Customer{{ID: 1, FirstName: "Mary", LastName: "Robinson", DateOfBirth: model.MustParseDate("1944-05-21")}},
		nextID: 1,
	}
	var out bytes.Buffer
	log, hook := test.NewNullLogger()
	svc := &service.CustomerService{Repo: repo, Out: &out, Log: log}

	c := charlie()
	require.NoError(t, svc.InsertAndList(context.Background(), &c))

	assert.Equal(t, int64(2), c.ID)
	assert.Equal(t, "1, Mary, Robinson, 1944-05-21\n2, Charlie, Haughey, 1950-02-01\n", out.String())
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, `another "Charlie Haughey" row is INSERTED`)
}

func TestInsertAndList_InsertErrorSkipsListing(t *testing.T) {
	boom := appErrors.NewStatementError("insert", "customers", true, errors.New("duplicate"))
	repo := &MockCustomerRepo{insertErr: boom, rows: []model.Customer{{ID: 1, FirstName: "Mary"}}}
	var out bytes.Buffer
	svc := &service.CustomerService{Repo: repo, Out: &out, Log: quietLogger()}

	c := charlie()
	err := svc.InsertAndList(context.Background(), &c)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
}

func TestList_CountsPrintedRows(t *testing.T) {
	repo := &MockCustomerRepo{}
	var out bytes.Buffer
	svc := &service.CustomerService{Repo: repo, Out: &out, Log: quietLogger()}

	n, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, out.String())
}

func TestRun_AgainstSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	prepareSchema(t, cfg)

	var out bytes.Buffer
	c := charlie()
	require.NoError(t, service.Run(ctx, cfg, "customers", &c, &out, quietLogger()))

	assert.NotZero(t, c.ID)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "Charlie, Haughey, 1950-02-01"))
}

func TestRun_RepeatedRunsAddOneRowEach(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	prepareSchema(t, cfg)

	const runs = 3
	var out bytes.Buffer
	for i := 0; i < runs; i++ {
		out.Reset()
		c := charlie()
		require.NoError(t, service.Run(ctx, cfg, "customers", &c, &out, quietLogger()))
	}

	// the last run prints every row inserted so far
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, runs)
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, "Charlie, Haughey, 1950-02-01"), line)
	}

	err := service.WithSession(ctx, cfg, "customers", io.Discard, quietLogger(), func(s *service.CustomerService) error {
		n, err := s.Repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, runs, n)
		return nil
	})
	require.NoError(t, err)
}

func TestRun_UnreachableDatabase(t *testing.T) {
	cfg := db.Config{Driver: db.MySQL, Host: "127.0.0.1", Port: 1, Name: "test", User: "root"}

	var out bytes.Buffer
	c := charlie()
	err := service.Run(context.Background(), cfg, "customers", &c, &out, quietLogger())

	require.Error(t, err)
	assert.True(t, appErrors.IsConnection(err))
	assert.Empty(t, out.String())
}

func TestRun_MissingTableIsStatementError(t *testing.T) {
	cfg := sqliteConfig(t)

	c := charlie()
	err := service.Run(context.Background(), cfg, "customers", &c, io.Discard, quietLogger())
	require.Error(t, err)
	assert.True(t, appErrors.IsStatement(err))
}

func TestWithSession_ClosesAfterCallbackError(t *testing.T) {
	cfg := sqliteConfig(t)
	prepareSchema(t, cfg)

	log, hook := test.NewNullLogger()
	stop := errors.New("stop")
	err := service.WithSession(context.Background(), cfg, "customers", io.Discard, log, func(*service.CustomerService) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Disconnected from database", hook.LastEntry().Message)
}
