// internal/service/customer_service.go
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/customer-roster/internal/model"
	"github.com/unclebandit/customer-roster/internal/repository"
)

// CustomerService runs the insert and list operations and prints rows to Out.
type CustomerService struct {
	Repo repository.CustomerRepositoryInterface
	Out  io.Writer
	Log  logrus.FieldLogger
}

// FormatRow renders one customer as printed by List.
func FormatRow(c model.Customer) string {
	return fmt.Sprintf("%d, %s, %s, %s", c.ID, c.FirstName, c.LastName, c.DateOfBirth)
}

func (s *CustomerService) Insert(ctx context.Context, c *model.Customer) error {
	s.Log.Info("Building a PreparedStatement to insert a new row in database.")
	if err := s.Repo.Insert(ctx, c); err != nil {
		return err
	}
	s.Log.WithField("customer_id", c.ID).Debug("row inserted")
	return nil
}

// List prints every row, one per line, and returns how many were printed.
func (s *CustomerService) List(ctx context.Context) (int, error) {
	printed := 0
	err := s.Repo.ForEach(ctx, func(c model.Customer) error {
		if _, err := fmt.Fprintln(s.Out, FormatRow(c)); err != nil {
			return fmt.Errorf("write row %d: %w", c.ID, err)
		}
		printed++
		return nil
	})
	return printed, err
}

// InsertAndList inserts c and then prints the whole table.
func (s *CustomerService) InsertAndList(ctx context.Context, c *model.Customer) error {
	if err := s.Insert(ctx, c); err != nil {
		return err
	}
	if _, err := s.List(ctx); err != nil {
		return err
	}
	s.Log.Infof("Every time you run this, another \"%s %s\" row is INSERTED !", c.FirstName, c.LastName)
	return nil
}
