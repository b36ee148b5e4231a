package migrator

import (
	"fmt"
	"io/fs"
	"path"
	"reflect"
	"sort"
	"strings"
	"sync"

	"nexus.dev/orm/schema"
	"nexus.dev/orm/utils"
)

// Migration a versioned schema change. Up applies it, Down reverts it.
type Migration interface {
	Up(s *Schema) error
	Down(s *Schema) error
}

// Registry the migrations a Migrator can run, keyed by identifier.
// Identifiers sort in the order migrations are applied.
type Registry struct {
	mu         sync.RWMutex
	migrations map[string]Migration
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{migrations: map[string]Migration{}}
}

// DefaultRegistry the registry Register adds to
var DefaultRegistry = NewRegistry()

// Register adds m to DefaultRegistry, see Registry.Register
func Register(m Migration) {
	DefaultRegistry.register(utils.CallerFile(1), m)
}

// Register adds m under the name of the calling file without extension, so
// it is meant to be called from an init function in the migration's own file,
// e.g. `2025_11_12_211750_create_users_table.go`. The type of m must be named
// after the file, `CreateUsersTableMigration`, otherwise Register panics.
func (r *Registry) Register(m Migration) {
	r.register(utils.CallerFile(1), m)
}

func (r *Registry) register(id string, m Migration) {
	if err := r.Add(id, m); err != nil {
		panic(err)
	}
}

// Add adds m under id, the type of m must be named schema.MigrationTypeName(id)
func (r *Registry) Add(id string, m Migration) error {
	if m == nil {
		return fmt.Errorf("migration %s: nil migration", id)
	}

	want := schema.MigrationTypeName(id)
	if got := typeName(m); got != want {
		return fmt.Errorf("migration %s: type %s should be named %s", id, got, want)
	}
	return r.add(id, m)
}

func (r *Registry) add(id string, m Migration) error {
	if id == "" {
		return fmt.Errorf("migration without identifier")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.migrations[id]; ok {
		return fmt.Errorf("migration %s: registered twice", id)
	}
	r.migrations[id] = m
	return nil
}

func typeName(m Migration) string {
	t := reflect.TypeOf(m)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// AddFS adds the SQL migrations of dir in fsys, each identifier has an
// `<id>.up.sql` file and optionally an `<id>.down.sql` file
func (r *Registry) AddFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), upSuffix) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), upSuffix)
		up, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", id, err)
		}

		down, err := fs.ReadFile(fsys, path.Join(dir, id+downSuffix))
		if err != nil && !errorsIsNotExist(err) {
			return fmt.Errorf("reading migration %s: %w", id, err)
		}

		if err := r.add(id, &sqlMigration{id: id, up: string(up), down: string(down)}); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the migration registered as id
func (r *Registry) Get(id string) (Migration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.migrations[id]
	return m, ok
}

// IDs returns the registered identifiers in order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.migrations))
	for id := range r.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type sqlMigration struct {
	id       string
	up, down string
}

func (m *sqlMigration) Up(s *Schema) error {
	return s.Exec(m.up)
}

func (m *sqlMigration) Down(s *Schema) error {
	if strings.TrimSpace(m.down) == "" {
		return fmt.Errorf("migration %s has no %s file", m.id, m.id+downSuffix)
	}
	return s.Exec(m.down)
}
