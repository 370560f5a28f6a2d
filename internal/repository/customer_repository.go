package repository

import (
	"context"
	"fmt"

	"github.com/unclebandit/customer-roster/internal/db"
	appErrors "github.com/unclebandit/customer-roster/internal/errors"
	"github.com/unclebandit/customer-roster/internal/model"
)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	Insert(ctx context.Context, c *model.Customer) error
	ForEach(ctx context.Context, fn func(model.Customer) error) error
	ListAll(ctx context.Context) ([]model.Customer, error)
	Count(ctx context.Context) (int, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB      db.DBTX
	Dialect db.Dialect
	Table   string
}

func NewCustomerRepository(conn db.DBTX, dialect db.Dialect, table string) (*CustomerRepository, error) {
	if !db.ValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &CustomerRepository{DB: conn, Dialect: dialect, Table: table}, nil
}

func (r *CustomerRepository) insertQuery() string {
	query := fmt.Sprintf(
		`INSERT INTO %s (customer_id, first_name, last_name, date_of_birth) VALUES (%s, %s, %s, %s)`,
		r.Table, r.Dialect.AbsentID, r.Dialect.Placeholder(1), r.Dialect.Placeholder(2), r.Dialect.Placeholder(3),
	)
	if r.Dialect.Returning {
		query += ` RETURNING customer_id`
	}
	return query
}

func (r *CustomerRepository) selectQuery() string {
	return fmt.Sprintf(`SELECT customer_id, first_name, last_name, date_of_birth FROM %s`, r.Table)
}

// Insert adds one row through a prepared statement and stores the
// database-assigned id back into c. Any id already set on c is ignored.
func (r *CustomerRepository) Insert(ctx context.Context, c *model.Customer) error {
	stmt, err := r.DB.PrepareContext(ctx, r.insertQuery())
	if err != nil {
		return r.statementError("prepare insert", err)
	}
	defer stmt.Close()

	if r.Dialect.Returning {
		var id int64
		if err := stmt.QueryRowContext(ctx, c.FirstName, c.LastName, c.DateOfBirth).Scan(&id); err != nil {
			return r.statementError("insert", err)
		}
		c.ID = id
		return nil
	}

	res, err := stmt.ExecContext(ctx, c.FirstName, c.LastName, c.DateOfBirth)
	if err != nil {
		return r.statementError("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return r.statementError("insert", err)
	}
	c.ID = id
	return nil
}

// ForEach streams every row of the table to fn in storage order. The scan
// stops at the first error, from the database or from fn.
func (r *CustomerRepository) ForEach(ctx context.Context, fn func(model.Customer) error) error {
	rows, err := r.DB.QueryContext(ctx, r.selectQuery())
	if err != nil {
		return r.statementError("list", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DateOfBirth); err != nil {
			return r.statementError("list", err)
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return r.statementError("list", err)
	}
	return nil
}

// ListAll fetches all customers
func (r *CustomerRepository) ListAll(ctx context.Context) ([]model.Customer, error) {
	customers := []model.Customer{}
	err := r.ForEach(ctx, func(c model.Customer) error {
		customers = append(customers, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.Table)).Scan(&total); err != nil {
		return 0, r.statementError("count", err)
	}
	return total, nil
}

func (r *CustomerRepository) statementError(op string, err error) error {
	return appErrors.NewStatementError(op, r.Table, db.IsConstraintViolation(err), err)
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
