package orm

import (
	"context"
	"database/sql"
	"time"

	"nexus.dev/orm/clause"
)

// Dialector the connection layer of a database, owns everything that varies
// between MySQL, Postgres and SQLite
type Dialector interface {
	Name() string
	Open() (*sql.DB, error)
	BindVarTo(writer clause.Writer, position int)
	// Returning whether INSERT ... RETURNING is supported
	Returning() bool
	// TransactionalDDL whether schema changes can be rolled back
	TransactionalDDL() bool
	AutoIncrementPrimaryKey() string
	DropIndexSQL(table, index string) string
	Translate(err error) error
	// Explain renders sql with vars inlined, for logging
	Explain(sql string, vars ...interface{}) string
}

// ConnPool db conns pool interface, satisfied by *sql.DB and *sql.Tx
type ConnPool interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxBeginner tx beginner
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TxCommitter tx committer
type TxCommitter interface {
	Commit() error
	Rollback() error
}

// QueryObserver receives one observation per executed statement
type QueryObserver interface {
	ObserveQuery(operation string, elapsed time.Duration, err error)
}

// ConnectionConfig connection settings a dialector is selected and built from
type ConnectionConfig struct {
	// Driver mysql, postgres or sqlite
	Driver   string            `yaml:"driver"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Database string            `yaml:"database"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Options  map[string]string `yaml:"options"`
}
