package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"nexus.dev/orm"
	"nexus.dev/orm/clause"
	"nexus.dev/orm/errtranslator"
	"nexus.dev/orm/logger"
)

// DriverName the database/sql driver the dialector opens
const DriverName = "sqlite3"

// Dialector sqlite dialector, foreign keys are enforced and DDL is transactional
type Dialector struct {
	DSN string

	errtranslator.SqliteErrTranslator
}

// New returns a dialector for the database file of cfg, `:memory:` opens an
// in memory database
func New(cfg orm.ConnectionConfig) *Dialector {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", "5000")
	for key, value := range cfg.Options {
		params.Set(key, value)
	}
	return Open(cfg.Database + "?" + params.Encode())
}

// Open returns a dialector for dsn
func Open(dsn string) *Dialector {
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	return &Dialector{DSN: dsn}
}

func (Dialector) Name() string {
	return "sqlite"
}

func (dialector Dialector) Open() (*sql.DB, error) {
	return sql.Open(DriverName, dialector.DSN)
}

func (Dialector) BindVarTo(writer clause.Writer, position int) {
	writer.WriteByte('?')
}

func (Dialector) Returning() bool {
	return false
}

func (Dialector) TransactionalDDL() bool {
	return true
}

func (Dialector) AutoIncrementPrimaryKey() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (Dialector) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX IF EXISTS %s", index)
}

func (Dialector) Explain(sql string, vars ...interface{}) string {
	return logger.ExplainSQL(sql, nil, `"`, vars...)
}
