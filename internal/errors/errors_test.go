package appErrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unclebandit/customer-roster/internal/errors"
)

func TestConnectionErrorWrapping(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
	err := fmt.Errorf("open session: %w", appErrors.NewConnectionError("mysql", "127.0.0.1:3306", cause))

	assert.True(t, appErrors.IsConnection(err))
	assert.False(t, appErrors.IsStatement(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot connect to mysql database at 127.0.0.1:3306")
}

func TestStatementErrorWrapping(t *testing.T) {
	cause := errors.New("Duplicate entry '1' for key 'PRIMARY'")
	err := appErrors.NewStatementError("insert", "customers", true, cause)

	assert.True(t, appErrors.IsStatement(err))
	assert.True(t, appErrors.IsConstraint(err))
	assert.False(t, appErrors.IsConnection(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert on customers violates a constraint: Duplicate entry '1' for key 'PRIMARY'", err.Error())

	plain := appErrors.NewStatementError("list", "customers", false, cause)
	assert.False(t, appErrors.IsConstraint(plain))
	assert.Equal(t, "list on customers failed: Duplicate entry '1' for key 'PRIMARY'", plain.Error())
}
