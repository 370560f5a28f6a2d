// cmd/customers/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/unclebandit/customer-roster/internal/config"
	"github.com/unclebandit/customer-roster/internal/logging"
	"github.com/unclebandit/customer-roster/internal/model"
	"github.com/unclebandit/customer-roster/internal/service"
)

// The row every run inserts.
const (
	firstName = "Charlie"
	lastName  = "Haughey"
	birthDate = "1950-02-01"
)

const failureMessage = "Failed to connect to database - check MySQL is running and that you are using the correct database details"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// sessionFunc is one of the operations run inside a database session.
type sessionFunc func(ctx context.Context, s *service.CustomerService, c *model.Customer) error

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "customers",
		Short:        "Insert a customer row, then print every row of the customers table",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: runWith(out, errOut, func(ctx context.Context, s *service.CustomerService, c *model.Customer) error {
			return s.InsertAndList(ctx, c)
		}),
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(&cobra.Command{
		Use:   "insert",
		Short: "Insert the customer row and print it",
		Args:  cobra.NoArgs,
		RunE: runWith(out, errOut, func(ctx context.Context, s *service.CustomerService, c *model.Customer) error {
			if err := s.Insert(ctx, c); err != nil {
				return err
			}
			_, err := fmt.Fprintln(s.Out, service.FormatRow(*c))
			return err
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every row of the customers table",
		Args:  cobra.NoArgs,
		RunE: runWith(out, errOut, func(ctx context.Context, s *service.CustomerService, _ *model.Customer) error {
			_, err := s.List(ctx)
			return err
		}),
	})

	return root
}

// runWith wraps fn in config loading, a session and the top-level failure
// report. Database failures are reported and swallowed so the process
// still exits normally.
func runWith(out, errOut io.Writer, fn sessionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		bootLog := logging.New(config.DefaultLogLevel, errOut)
		cfg, err := config.Load(bootLog)
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel, errOut)

		ctx := context.Background()
		customer := &model.Customer{
			FirstName:   firstName,
			LastName:    lastName,
			DateOfBirth: model.MustParseDate(birthDate),
		}

		log.WithFields(logrus.Fields{"driver": cfg.DB.Driver, "table": cfg.Table}).Info("Connecting to the database")
		err = service.WithSession(ctx, cfg.DB, cfg.Table, out, log, func(s *service.CustomerService) error {
			return fn(ctx, s, customer)
		})
		if err != nil {
			report(log, errOut, err)
		}
		return nil
	}
}

// report prints the fixed diagnostic and then every layer of err.
func report(log logrus.FieldLogger, w io.Writer, err error) {
	log.WithError(err).Error(failureMessage)
	fmt.Fprintf(w, "%T: %v\n", err, err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "\tcaused by %T: %v\n", cause, cause)
	}
}
