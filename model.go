package orm

import (
	"nexus.dev/orm/schema"
)

const (
	// CreatedAt column stamped on insert when Timestamps is enabled
	CreatedAt = "created_at"
	// UpdatedAt column stamped on every write when Timestamps is enabled
	UpdatedAt = "updated_at"
	// DeletedAt column marking soft deleted rows
	DeletedAt = "deleted_at"
)

// Field per-attribute accessor and mutator. Get runs on every read of the
// attribute and must be pure, Set runs once when the attribute is written and
// returns the value to store.
type Field struct {
	Get func(value interface{}) interface{}
	Set func(record *Record, value interface{}) (interface{}, error)
}

// ScopeFunc reusable query fragment, applied with Query.Scope
type ScopeFunc func(q *Query, args ...interface{}) *Query

// RelationKind kind of a declared relation
type RelationKind int

const (
	HasOneKind RelationKind = iota + 1
	HasManyKind
	BelongsToKind
	BelongsToManyKind
)

func (kind RelationKind) String() string {
	switch kind {
	case HasOneKind:
		return "has_one"
	case HasManyKind:
		return "has_many"
	case BelongsToKind:
		return "belongs_to"
	case BelongsToManyKind:
		return "belongs_to_many"
	}
	return "unknown"
}

// RelationDef a relation declared on a model
//
//	HasOne/HasMany: ForeignKey on the related table references LocalKey on the parent
//	BelongsTo:      ForeignKey on the parent references OwnerKey on the related table
//	BelongsToMany:  PivotTable.ForeignPivotKey references LocalKey on the parent,
//	                PivotTable.RelatedPivotKey references OwnerKey on the related table
type RelationDef struct {
	Name            string
	Kind            RelationKind
	Related         *Model
	ForeignKey      string
	LocalKey        string
	OwnerKey        string
	PivotTable      string
	ForeignPivotKey string
	RelatedPivotKey string
}

// Model descriptor of a table backed entity. Descriptors are package level
// values, relations are declared in init so models can reference each other.
type Model struct {
	// Name entity name, e.g. `User`
	Name string
	// Table defaults to the plural snake case of Name
	Table string
	// PrimaryKey defaults to `id`
	PrimaryKey string
	// Fillable columns accepted by Fill, Create and Update
	Fillable []string
	// Hidden columns dropped from ToMap and JSON
	Hidden []string
	// Fields accessors and mutators by column
	Fields map[string]Field
	// Timestamps stamp created_at and updated_at
	Timestamps bool
	// SoftDeletes delete by setting deleted_at
	SoftDeletes bool
	// Scopes named query fragments
	Scopes map[string]ScopeFunc

	relations map[string]*RelationDef
}

// TableName returns the table of the model
func (m *Model) TableName() string {
	if m.Table != "" {
		return m.Table
	}
	return schema.TableName(m.Name)
}

// PrimaryKeyName returns the primary key column of the model
func (m *Model) PrimaryKeyName() string {
	if m.PrimaryKey != "" {
		return m.PrimaryKey
	}
	return "id"
}

// Qualify prefix column with the model table
func (m *Model) Qualify(column string) string {
	return m.TableName() + "." + column
}

// IsFillable whether column can be mass assigned
func (m *Model) IsFillable(column string) bool {
	for _, c := range m.Fillable {
		if c == column {
			return true
		}
	}
	return false
}

// IsHidden whether column is hidden from exports
func (m *Model) IsHidden(column string) bool {
	for _, c := range m.Hidden {
		if c == column {
			return true
		}
	}
	return false
}

// Relation returns the relation declared as name
func (m *Model) Relation(name string) (*RelationDef, bool) {
	def, ok := m.relations[name]
	return def, ok
}

// Relations returns the names of the declared relations
func (m *Model) Relations() []string {
	names := make([]string, 0, len(m.relations))
	for name := range m.relations {
		names = append(names, name)
	}
	return names
}

func (m *Model) declare(def *RelationDef) *RelationDef {
	if m.relations == nil {
		m.relations = map[string]*RelationDef{}
	}
	m.relations[def.Name] = def
	return def
}

// HasOne declare a one to one relation owned by the related model, keys are
// the foreign key on the related table and the local key, defaults
// `<model>_id` and the primary key
func (m *Model) HasOne(name string, related *Model, keys ...string) *RelationDef {
	def := m.hasOneOrMany(name, related, keys)
	def.Kind = HasOneKind
	return m.declare(def)
}

// HasMany declare a one to many relation, keys as in HasOne
func (m *Model) HasMany(name string, related *Model, keys ...string) *RelationDef {
	def := m.hasOneOrMany(name, related, keys)
	def.Kind = HasManyKind
	return m.declare(def)
}

func (m *Model) hasOneOrMany(name string, related *Model, keys []string) *RelationDef {
	def := &RelationDef{
		Name:       name,
		Related:    related,
		ForeignKey: schema.ForeignKey(m.Name),
		LocalKey:   m.PrimaryKeyName(),
	}
	if len(keys) > 0 && keys[0] != "" {
		def.ForeignKey = keys[0]
	}
	if len(keys) > 1 && keys[1] != "" {
		def.LocalKey = keys[1]
	}
	return def
}

// BelongsTo declare the inverse of HasOne/HasMany, keys are the foreign key
// on this model and the owner key on the related model, defaults
// `<related>_id` and the related primary key
func (m *Model) BelongsTo(name string, related *Model, keys ...string) *RelationDef {
	def := &RelationDef{
		Name:       name,
		Kind:       BelongsToKind,
		Related:    related,
		ForeignKey: schema.ForeignKey(related.Name),
		OwnerKey:   related.PrimaryKeyName(),
	}
	if len(keys) > 0 && keys[0] != "" {
		def.ForeignKey = keys[0]
	}
	if len(keys) > 1 && keys[1] != "" {
		def.OwnerKey = keys[1]
	}
	return m.declare(def)
}

// BelongsToMany declare a many to many relation through a pivot table, keys
// are the pivot table, the pivot column referencing this model and the pivot
// column referencing the related model, defaults `<a>_<b>` and `<model>_id`
func (m *Model) BelongsToMany(name string, related *Model, keys ...string) *RelationDef {
	def := &RelationDef{
		Name:            name,
		Kind:            BelongsToManyKind,
		Related:         related,
		LocalKey:        m.PrimaryKeyName(),
		OwnerKey:        related.PrimaryKeyName(),
		PivotTable:      schema.JoinTableName(m.Name, related.Name),
		ForeignPivotKey: schema.ForeignKey(m.Name),
		RelatedPivotKey: schema.ForeignKey(related.Name),
	}
	if len(keys) > 0 && keys[0] != "" {
		def.PivotTable = keys[0]
	}
	if len(keys) > 1 && keys[1] != "" {
		def.ForeignPivotKey = keys[1]
	}
	if len(keys) > 2 && keys[2] != "" {
		def.RelatedPivotKey = keys[2]
	}
	return m.declare(def)
}
