// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ConnectionError means the database endpoint could not be reached or
// refused the credentials.
type ConnectionError struct {
    Driver  string
    Address string
    Err     error
}

func (e *ConnectionError) Error() string {
    return fmt.Sprintf("cannot connect to %s database at %s: %v", e.Driver, e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatementError means a statement was prepared or executed and the
// database rejected it. Constraint is set when a table constraint was
// violated.
type StatementError struct {
    Op         string
    Table      string
    Constraint bool
    Err        error
}

func (e *StatementError) Error() string {
    if e.Constraint {
        return fmt.Sprintf("%s on %s violates a constraint: %v", e.Op, e.Table, e.Err)
    }
    return fmt.Sprintf("%s on %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Helper constructors
func NewConnectionError(driver, address string, err error) error {
    return &ConnectionError{Driver: driver, Address: address, Err: err}
}

func NewStatementError(op, table string, constraint bool, err error) error {
    return &StatementError{Op: op, Table: table, Constraint: constraint, Err: err}
}

func IsConnection(err error) bool {
    var ce *ConnectionError
    return errors.As(err, &ce)
}

func IsStatement(err error) bool {
    var se *StatementError
    return errors.As(err, &se)
}

// IsConstraint reports whether err carries a StatementError caused by a
// constraint violation.
func IsConstraint(err error) bool {
    var se *StatementError
    return errors.As(err, &se) && se.Constraint
}
