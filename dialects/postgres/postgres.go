package postgres

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	_ "github.com/lib/pq"

	"nexus.dev/orm"
	"nexus.dev/orm/clause"
	"nexus.dev/orm/errtranslator"
	"nexus.dev/orm/logger"
)

var numericPlaceholder = regexp.MustCompile(`\$(\d+)`)

// Dialector postgres dialector, placeholders are `$n`, inserts read the new
// key back with RETURNING and DDL is transactional
type Dialector struct {
	DSN string

	errtranslator.PostgresErrTranslator
}

// New returns a dialector for the given connection settings
func New(cfg orm.ConnectionConfig) *Dialector {
	params := map[string]string{
		"host":    cfg.Host,
		"dbname":  cfg.Database,
		"user":    cfg.Username,
		"sslmode": "disable",
	}
	if cfg.Port != 0 {
		params["port"] = strconv.Itoa(cfg.Port)
	}
	if cfg.Password != "" {
		params["password"] = cfg.Password
	}
	for key, value := range cfg.Options {
		params[key] = value
	}

	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for idx, key := range keys {
		pairs[idx] = key + "=" + quote(params[key])
	}
	return &Dialector{DSN: strings.Join(pairs, " ")}
}

// quote a connection parameter value the way lib/pq parses it
func quote(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}

// Open returns a dialector for dsn
func Open(dsn string) *Dialector {
	return &Dialector{DSN: dsn}
}

func (Dialector) Name() string {
	return "postgres"
}

func (dialector Dialector) Open() (*sql.DB, error) {
	return sql.Open("postgres", dialector.DSN)
}

func (Dialector) BindVarTo(writer clause.Writer, position int) {
	writer.WriteByte('$')
	writer.WriteString(strconv.Itoa(position))
}

func (Dialector) Returning() bool {
	return true
}

func (Dialector) TransactionalDDL() bool {
	return true
}

func (Dialector) AutoIncrementPrimaryKey() string {
	return "BIGSERIAL PRIMARY KEY"
}

func (Dialector) DropIndexSQL(table, index string) string {
	return fmt.Sprintf("DROP INDEX IF EXISTS %s", index)
}

func (Dialector) Explain(sql string, vars ...interface{}) string {
	return logger.ExplainSQL(sql, numericPlaceholder, `'`, vars...)
}
