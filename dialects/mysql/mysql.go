package mysql

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"nexus.dev/orm"
	"nexus.dev/orm/clause"
	"nexus.dev/orm/errtranslator"
	"nexus.dev/orm/logger"
)

// Dialector mysql dialector, identifiers are plain and placeholders are `?`.
// MySQL commits DDL implicitly, so migrations do not run in a transaction.
type Dialector struct {
	Config *mysql.Config
	DSN    string

	errtranslator.MysqlErrTranslator
}

// New returns a dialector for the given connection settings
func New(cfg orm.ConnectionConfig) *Dialector {
	config := mysql.NewConfig()
	config.User = cfg.Username
	config.Passwd = cfg.Password
	config.Net = "tcp"
	config.Addr = cfg.Host
	if cfg.Port != 0 {
		config.Addr = cfg.Host + ":" + strconv.Itoa(cfg.Port)
	}
	config.DBName = cfg.Database
	config.ParseTime = true
	config.MultiStatements = true
	config.Loc = time.Local
	config.Params = map[string]string{"charset": "utf8mb4"}
	for key, value := range cfg.Options {
		config.Params[key] = value
	}

	return &Dialector{Config: config}
}

// Open returns a dialector for dsn
func Open(dsn string) *Dialector {
	return &Dialector{DSN: dsn}
}

func (Dialector) Name() string {
	return "mysql"
}

func (dialector Dialector) Open() (*sql.DB, error) {
	dsn := dialector.DSN
	if dsn == "" && dialector.Config != nil {
		dsn = dialector.Config.FormatDSN()
	}
	return sql.Open("mysql", dsn)
}

func (Dialector) BindVarTo(writer clause.Writer, position int) {
	writer.WriteByte('?')
}

func (Dialector) Returning() bool {
	return false
}

func (Dialector) TransactionalDDL() bool {
	return false
}

func (Dialector) AutoIncrementPrimaryKey() string {
	return "BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY"
}

func (Dialector) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", index, table)
}

func (Dialector) Explain(sql string, vars ...interface{}) string {
	return logger.ExplainSQL(sql, nil, `'`, vars...)
}
