// internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/unclebandit/customer-roster/internal/db"
)

// Defaults. With no .env file and no environment these are the whole
// configuration.
const (
	DefaultDriver     = "mysql"
	DefaultHost       = "localhost"
	DefaultDBName     = "test"
	DefaultUser       = "root"
	DefaultPassword   = ""
	DefaultTable      = "customers"
	DefaultLogLevel   = "info"
	DefaultServerAddr = ":8080"
	DefaultSeedFiles  = "seed/customers.sql"
)

type Config struct {
	DB         db.Config
	Table      string
	LogLevel   string
	ServerAddr string
	SeedFiles  []string
}

// Load reads an optional .env file into the environment and then builds
// the configuration from the environment over the defaults.
func Load(log logrus.FieldLogger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on OS environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.driver", DefaultDriver)
	v.SetDefault("db.host", DefaultHost)
	v.SetDefault("db.port", 0)
	v.SetDefault("db.name", DefaultDBName)
	v.SetDefault("db.user", DefaultUser)
	v.SetDefault("db.password", DefaultPassword)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("customers.table", DefaultTable)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("seed.files", DefaultSeedFiles)
	return v
}

// FromViper maps viper keys (DB_HOST, CUSTOMERS_TABLE, ... in the
// environment) onto a validated Config.
func FromViper(v *viper.Viper) (Config, error) {
	driver, err := db.ParseDriver(v.GetString("db.driver"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DB: db.Config{
			Driver:   driver,
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			Name:     v.GetString("db.name"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Table:      v.GetString("customers.table"),
		LogLevel:   v.GetString("log.level"),
		ServerAddr: v.GetString("server.addr"),
		SeedFiles:  splitList(v.GetString("seed.files")),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if !db.ValidIdentifier(c.Table) {
		return fmt.Errorf("CUSTOMERS_TABLE %q is not a plain table name", c.Table)
	}
	if c.DB.Port < 0 || c.DB.Port > 65535 {
		return fmt.Errorf("DB_PORT %d out of range", c.DB.Port)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
