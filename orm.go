package orm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"nexus.dev/orm/clause"
	"nexus.dev/orm/logger"
)

// Config ORM config
type Config struct {
	// Logger traces every statement
	Logger logger.Interface
	// NowFunc the function to be used when creating a new timestamp
	NowFunc func() time.Time
	// Observer receives one observation per executed statement, e.g. metrics.Observer
	Observer QueryObserver
	// MaxOpenConns defaults to 1, the core assumes a single connection per handle
	MaxOpenConns int
	// Dialector database dialector
	Dialector
}

// Apply update config to new config
func (c *Config) Apply(config *Config) error {
	if config != c {
		*config = *c
	}
	return nil
}

// Option ORM option interface
type Option interface {
	Apply(*Config) error
}

// ConfigOption use functional option for Config.
type ConfigOption func(c *Config)

// Apply update config
func (fn ConfigOption) Apply(c *Config) error {
	fn(c)
	return nil
}

// WithLogger set logger.
func WithLogger(l logger.Interface) ConfigOption {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithNowFunc set now func.
func WithNowFunc(fn func() time.Time) ConfigOption {
	return func(c *Config) {
		c.NowFunc = fn
	}
}

// WithObserver set query observer.
func WithObserver(observer QueryObserver) ConfigOption {
	return func(c *Config) {
		c.Observer = observer
	}
}

// WithMaxOpenConns set the connection limit of the underlying *sql.DB.
func WithMaxOpenConns(n int) ConfigOption {
	return func(c *Config) {
		c.MaxOpenConns = n
	}
}

// DB a live database handle, statements run on ConnPool which is either
// the *sql.DB or, inside a transaction, the *sql.Tx
type DB struct {
	*Config
	ConnPool ConnPool

	sqlDB  *sql.DB
	ctx    context.Context
	lastID *atomic.Int64
}

// Open initialize db session based on dialector
func Open(dialector Dialector, opts ...Option) (db *DB, err error) {
	config := &Config{}
	for _, opt := range opts {
		if opt != nil {
			if err := opt.Apply(config); err != nil {
				return nil, err
			}
		}
	}

	if dialector != nil {
		config.Dialector = dialector
	}

	if config.Dialector == nil {
		return nil, fmt.Errorf("%w: no dialector", ErrDatabaseUnavailable)
	}

	if config.Logger == nil {
		config.Logger = logger.Default
	}

	if config.NowFunc == nil {
		config.NowFunc = func() time.Time { return time.Now().Local() }
	}

	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 1
	}

	sqlDB, err := config.Dialector.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxOpenConns)

	if err = sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}

	return &DB{
		Config:   config,
		ConnPool: sqlDB,
		sqlDB:    sqlDB,
		ctx:      context.Background(),
		lastID:   new(atomic.Int64),
	}, nil
}

func (db *DB) clone() *DB {
	tx := *db
	return &tx
}

// WithContext change current instance db's context to ctx
func (db *DB) WithContext(ctx context.Context) *DB {
	tx := db.clone()
	tx.ctx = ctx
	return tx
}

// Context returns the context statements run with
func (db *DB) Context() context.Context {
	if db.ctx == nil {
		return context.Background()
	}
	return db.ctx
}

// Debug start debug mode
func (db *DB) Debug() *DB {
	tx := db.clone()
	config := *db.Config
	config.Logger = db.Logger.LogMode(logger.Info)
	tx.Config = &config
	return tx
}

// DB returns the underlying *sql.DB
func (db *DB) DB() *sql.DB {
	return db.sqlDB
}

// Close closes the underlying *sql.DB
func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// Exec executes a statement that returns no rows, `?` placeholders are
// bound with the placeholders of the dialect
func (db *DB) Exec(sql string, vars ...interface{}) (sql.Result, error) {
	stmt, err := db.rawStatement(sql, vars)
	if err != nil {
		return nil, err
	}
	return db.exec(stmt.SQL.String(), stmt.Vars)
}

// Raw runs a statement returning rows, placeholders as in Exec
func (db *DB) Raw(sql string, vars ...interface{}) ([]Row, error) {
	stmt, err := db.rawStatement(sql, vars)
	if err != nil {
		return nil, err
	}
	_, rows, err := stmt.Query()
	return rows, err
}

// rawStatement pairs vars with the `?` placeholders of sql, without vars the
// text is kept as is
func (db *DB) rawStatement(sql string, vars []interface{}) (*Statement, error) {
	stmt := &Statement{DB: db}
	if len(vars) == 0 {
		stmt.WriteString(sql)
		return stmt, nil
	}

	if err := checkPlaceholders(sql, vars); err != nil {
		return nil, err
	}
	stmt.Build(clause.Expr{SQL: sql, Vars: vars})
	return stmt, nil
}

// LastInsertID returns the id assigned by the most recent INSERT executed on
// this connection
func (db *DB) LastInsertID() int64 {
	return db.lastID.Load()
}

func (db *DB) exec(query string, vars []interface{}) (result sql.Result, err error) {
	var (
		begin        = time.Now()
		rowsAffected = int64(-1)
	)

	defer func() {
		db.trace(begin, query, vars, rowsAffected, err)
	}()

	result, err = db.ConnPool.ExecContext(db.Context(), query, vars...)
	if err != nil {
		err = db.queryError(query, vars, err)
		return nil, err
	}

	rowsAffected, _ = result.RowsAffected()
	if operation(query) == "insert" {
		if id, idErr := result.LastInsertId(); idErr == nil {
			db.lastID.Store(id)
		}
	}
	return result, nil
}

func (db *DB) query(query string, vars []interface{}) (columns []string, results []Row, err error) {
	var (
		begin        = time.Now()
		rowsAffected = int64(-1)
	)

	defer func() {
		db.trace(begin, query, vars, rowsAffected, err)
	}()

	rows, err := db.ConnPool.QueryContext(db.Context(), query, vars...)
	if err != nil {
		err = db.queryError(query, vars, err)
		return nil, nil, err
	}
	defer rows.Close()

	if columns, results, err = scanRows(rows); err != nil {
		err = db.queryError(query, vars, err)
		return nil, nil, err
	}
	rowsAffected = int64(len(results))
	return columns, results, nil
}

func (db *DB) queryError(query string, vars []interface{}, err error) error {
	if db.Dialector != nil {
		err = db.Dialector.Translate(err)
	}
	return &QueryError{SQL: query, Vars: vars, Err: err}
}

func (db *DB) trace(begin time.Time, query string, vars []interface{}, rowsAffected int64, err error) {
	if db.Observer != nil {
		db.Observer.ObserveQuery(operation(query), time.Since(begin), err)
	}

	db.Logger.Trace(db.Context(), begin, func() (string, int64) {
		if filter, ok := db.Logger.(logger.ParamsFilter); ok {
			if sql, params := filter.ParamsFilter(db.Context(), query, vars...); params == nil {
				return sql, rowsAffected
			}
		}
		return db.Dialector.Explain(query, vars...), rowsAffected
	}, err)
}

// operation the lower-cased leading keyword of a statement
func operation(query string) string {
	query = strings.TrimSpace(query)
	if idx := strings.IndexAny(query, " \t\n("); idx > 0 {
		query = query[:idx]
	}
	return strings.ToLower(query)
}

// Begin begins a transaction
func (db *DB) Begin(opts ...*sql.TxOptions) (*DB, error) {
	var opt *sql.TxOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	beginner, ok := db.ConnPool.(TxBeginner)
	if !ok {
		return nil, ErrInvalidTransaction
	}

	sqlTx, err := beginner.BeginTx(db.Context(), opt)
	if err != nil {
		return nil, err
	}

	tx := db.clone()
	tx.ConnPool = sqlTx
	return tx, nil
}

// Commit commits the changes in a transaction
func (db *DB) Commit() error {
	if committer, ok := db.ConnPool.(TxCommitter); ok && committer != nil {
		return committer.Commit()
	}
	return ErrInvalidTransaction
}

// Rollback rollbacks the changes in a transaction
func (db *DB) Rollback() error {
	if committer, ok := db.ConnPool.(TxCommitter); ok && committer != nil {
		if err := committer.Rollback(); err != nil && err != sql.ErrTxDone {
			return err
		}
		return nil
	}
	return ErrInvalidTransaction
}

// Transaction start a transaction as a block, return error will rollback, otherwise to commit.
func (db *DB) Transaction(fc func(tx *DB) error, opts ...*sql.TxOptions) (err error) {
	panicked := true

	if _, ok := db.ConnPool.(TxCommitter); ok {
		// already inside a transaction
		return fc(db)
	}

	tx, err := db.Begin(opts...)
	if err != nil {
		return err
	}

	defer func() {
		// Make sure to rollback when panic, Block error or Commit error
		if panicked || err != nil {
			tx.Rollback()
		}
	}()

	if err = fc(tx); err == nil {
		panicked = false
		return tx.Commit()
	}

	panicked = false
	return
}
