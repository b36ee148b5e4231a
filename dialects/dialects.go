// Package dialects selects the dialector for a configured driver.
package dialects

import (
	"fmt"
	"strings"

	"nexus.dev/orm"
	"nexus.dev/orm/dialects/mysql"
	"nexus.dev/orm/dialects/postgres"
	"nexus.dev/orm/dialects/sqlite"
)

// New returns the dialector for cfg.Driver
func New(cfg orm.ConnectionConfig) (orm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "mysql", "mariadb":
		return mysql.New(cfg), nil
	case "postgres", "postgresql", "pgsql":
		return postgres.New(cfg), nil
	case "sqlite", "sqlite3", "":
		return sqlite.New(cfg), nil
	}
	return nil, fmt.Errorf("%w: unsupported driver %q", orm.ErrDatabaseUnavailable, cfg.Driver)
}

// Open connects to the database described by cfg
func Open(cfg orm.ConnectionConfig, opts ...orm.Option) (*orm.DB, error) {
	dialector, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return orm.Open(dialector, opts...)
}
