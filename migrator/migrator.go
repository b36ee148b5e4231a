package migrator

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"github.com/spf13/cast"

	"nexus.dev/orm"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	StatusExecuted = "executed"
	StatusPending  = "pending"
)

// Result outcome of Run or Rollback
type Result struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Errors  []string `json:"errors,omitempty"`
	// Migrations the identifiers applied or reverted, in order
	Migrations []string `json:"migrations,omitempty"`
	// Transactional whether every migration ran in its own transaction
	Transactional bool `json:"transactional"`
}

// Status state of a registered migration
type Status struct {
	Migration  string    `json:"migration"`
	Status     string    `json:"status"`
	Batch      int       `json:"batch,omitempty"`
	ExecutedAt time.Time `json:"executed_at,omitempty"`
}

// Config migrator config
type Config struct {
	// Table ledger table, defaults to `migrations`
	Table string
}

// Option migrator option
type Option func(*Config)

// WithTable set the ledger table
func WithTable(table string) Option {
	return func(c *Config) {
		c.Table = table
	}
}

// Migrator runs the migrations of a registry against a database and records
// them in the ledger table, grouped by batch
type Migrator struct {
	Config
	db       *orm.DB
	registry *Registry
}

// New returns a migrator and creates the ledger table if needed, registry
// defaults to DefaultRegistry
func New(db *orm.DB, registry *Registry, opts ...Option) (*Migrator, error) {
	if registry == nil {
		registry = DefaultRegistry
	}

	m := &Migrator{Config: Config{Table: "migrations"}, db: db, registry: registry}
	for _, opt := range opts {
		opt(&m.Config)
	}

	s := NewSchema(db)
	if err := s.CreateTable(m.Table, []Column{
		s.ID(),
		{Name: "migration", Definition: "VARCHAR(255) NOT NULL UNIQUE"},
		{Name: "batch", Definition: "INTEGER NOT NULL"},
		{Name: "executed_at", Definition: "TIMESTAMP NOT NULL"},
	}); err != nil {
		return nil, fmt.Errorf("creating %s table: %w", m.Table, err)
	}
	return m, nil
}

type ledgerRow struct {
	id         int64
	migration  string
	batch      int
	executedAt time.Time
}

func (m *Migrator) ledger() ([]ledgerRow, error) {
	rows, err := m.db.Table(m.Table).OrderBy("id").Get()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.Table, err)
	}

	ledger := make([]ledgerRow, len(rows))
	for idx, row := range rows {
		ledger[idx] = ledgerRow{
			id:         cast.ToInt64(row["id"]),
			migration:  cast.ToString(row["migration"]),
			batch:      cast.ToInt(row["batch"]),
			executedAt: parseTime(row["executed_at"]),
		}
	}
	return ledger, nil
}

func parseTime(value interface{}) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if t, err := now.Parse(v); err == nil {
			return t
		}
		if t, err := cast.ToTimeE(v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// transaction runs fc in a transaction when the dialect can roll back DDL
func (m *Migrator) transaction(fc func(db *orm.DB) error) error {
	if m.db.Dialector.TransactionalDDL() {
		return m.db.Transaction(fc)
	}
	return fc(m.db)
}

// Run applies the pending migrations in identifier order as one new batch.
// It stops at the first failure, migrations applied before it stay applied.
func (m *Migrator) Run() (Result, error) {
	result := Result{Status: StatusSuccess, Transactional: m.db.Dialector.TransactionalDDL()}

	ledger, err := m.ledger()
	if err != nil {
		return m.failed(result, "", err), err
	}

	executed := make(map[string]bool, len(ledger))
	batch := 0
	for _, row := range ledger {
		executed[row.migration] = true
		if row.batch > batch {
			batch = row.batch
		}
	}
	batch++

	var pending []string
	for _, id := range m.registry.IDs() {
		if !executed[id] {
			pending = append(pending, id)
		}
	}

	if len(pending) == 0 {
		result.Message = "Nothing to migrate"
		return result, nil
	}

	for _, id := range pending {
		migration, _ := m.registry.Get(id)

		err := m.transaction(func(db *orm.DB) error {
			if err := migration.Up(NewSchema(db)); err != nil {
				return err
			}
			_, err := db.Table(m.Table).Insert(map[string]interface{}{
				"migration":   id,
				"batch":       batch,
				"executed_at": db.NowFunc(),
			})
			return err
		})
		if err != nil {
			migrationErr := &MigrationError{Migration: id, Direction: "up", Err: err}
			return m.failed(result, id, migrationErr), migrationErr
		}

		m.db.Logger.Info(m.db.Context(), "migrated %s (batch %d)", id, batch)
		result.Count++
		result.Migrations = append(result.Migrations, id)
	}

	result.Message = fmt.Sprintf("Migrated %d migration(s) in batch %d", result.Count, batch)
	if !result.Transactional {
		result.Message += ", without transactions"
	}
	return result, nil
}

// Rollback reverts the migrations of the last batch, newest first. It stops
// at the first failure, migrations reverted before it stay reverted.
func (m *Migrator) Rollback() (Result, error) {
	result := Result{Status: StatusSuccess, Transactional: m.db.Dialector.TransactionalDDL()}

	ledger, err := m.ledger()
	if err != nil {
		return m.failed(result, "", err), err
	}

	batch := 0
	for _, row := range ledger {
		if row.batch > batch {
			batch = row.batch
		}
	}

	var last []ledgerRow
	for idx := len(ledger) - 1; idx >= 0; idx-- {
		if ledger[idx].batch == batch {
			last = append(last, ledger[idx])
		}
	}

	if len(last) == 0 {
		result.Message = "Nothing to rollback"
		return result, nil
	}

	for _, row := range last {
		migration, ok := m.registry.Get(row.migration)
		if !ok {
			migrationErr := &MigrationError{Migration: row.migration, Direction: "down", Err: ErrMigrationNotFound}
			return m.failed(result, row.migration, migrationErr), migrationErr
		}

		err := m.transaction(func(db *orm.DB) error {
			if err := migration.Down(NewSchema(db)); err != nil {
				return err
			}
			_, err := db.Table(m.Table).Where("id", row.id).Delete()
			return err
		})
		if err != nil {
			migrationErr := &MigrationError{Migration: row.migration, Direction: "down", Err: err}
			return m.failed(result, row.migration, migrationErr), migrationErr
		}

		m.db.Logger.Info(m.db.Context(), "rolled back %s (batch %d)", row.migration, batch)
		result.Count++
		result.Migrations = append(result.Migrations, row.migration)
	}

	result.Message = fmt.Sprintf("Rolled back %d migration(s) of batch %d", result.Count, batch)
	return result, nil
}

func (m *Migrator) failed(result Result, id string, err error) Result {
	result.Status = StatusError
	result.Errors = append(result.Errors, err.Error())
	if id == "" {
		result.Message = err.Error()
	} else {
		result.Message = fmt.Sprintf("Migration %s failed after %d successful migration(s): %v", id, result.Count, err)
	}
	m.db.Logger.Error(m.db.Context(), "%s", result.Message)
	return result
}

// Status returns every registered migration with its state
func (m *Migrator) Status() ([]Status, error) {
	ledger, err := m.ledger()
	if err != nil {
		return nil, err
	}

	executed := make(map[string]ledgerRow, len(ledger))
	for _, row := range ledger {
		executed[row.migration] = row
	}

	ids := m.registry.IDs()
	statuses := make([]Status, len(ids))
	for idx, id := range ids {
		statuses[idx] = Status{Migration: id, Status: StatusPending}
		if row, ok := executed[id]; ok {
			statuses[idx].Status = StatusExecuted
			statuses[idx].Batch = row.batch
			statuses[idx].ExecutedAt = row.executedAt
		}
	}
	return statuses, nil
}
