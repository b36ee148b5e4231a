package orm

import (
	"fmt"
	"strings"

	"nexus.dev/orm/utils"
)

// Relation resolves a declared relation for a parent record, or for a set of
// parents when eager loading
type Relation interface {
	// Definition returns the declaration the relation was built from
	Definition() *RelationDef
	// Query returns the query over the related model
	Query() *Query
	// AddConstraints scope the query to the parent record
	AddConstraints()
	// AddEagerConstraints scope the query to every parent
	AddEagerConstraints(parents []*Record)
	// GetEager runs the eager query
	GetEager() ([]*Record, error)
	// Match distribute results over parents, caching them as name
	Match(parents []*Record, results []*Record, name string)
	// Results resolves the relation for the parent record, *Record for
	// to-one relations and []*Record for to-many relations
	Results() (interface{}, error)
}

func newRelation(def *RelationDef, parent *Record) Relation {
	base := relation{def: def, parent: parent, query: parent.db.Model(def.Related)}

	switch def.Kind {
	case HasOneKind:
		return &HasOne{hasOneOrMany{base}}
	case HasManyKind:
		return &HasMany{hasOneOrMany{base}}
	case BelongsToKind:
		return &BelongsTo{base}
	case BelongsToManyKind:
		rel := &BelongsToMany{base}
		rel.query.Select(
			def.Related.Qualify("*"),
			rel.pivotColumn(def.ForeignPivotKey)+" AS "+pivotAlias(def.ForeignPivotKey),
			rel.pivotColumn(def.RelatedPivotKey)+" AS "+pivotAlias(def.RelatedPivotKey),
		).Join(def.PivotTable, def.Related.Qualify(def.OwnerKey), "=", rel.pivotColumn(def.RelatedPivotKey))
		return rel
	}
	return nil
}

type relation struct {
	def    *RelationDef
	parent *Record
	query  *Query
}

func (rel *relation) Definition() *RelationDef {
	return rel.def
}

func (rel *relation) Query() *Query {
	return rel.query
}

func (rel *relation) GetEager() ([]*Record, error) {
	return rel.query.Get()
}

// keys the distinct non nil values of column over records
func keys(records []*Record, column string) []interface{} {
	var (
		seen   = map[string]bool{}
		values = make([]interface{}, 0, len(records))
	)

	for _, r := range records {
		value := r.Raw(column)
		if value == nil {
			continue
		}
		if key := utils.ToStringKey(value); !seen[key] {
			seen[key] = true
			values = append(values, value)
		}
	}
	return values
}

type hasOneOrMany struct {
	relation
}

func (rel *hasOneOrMany) AddConstraints() {
	key := rel.parent.Raw(rel.def.LocalKey)
	rel.query.constrain(func(qb *QueryBuilder) {
		qb.Where(rel.def.Related.Qualify(rel.def.ForeignKey), key)
	})
}

func (rel *hasOneOrMany) AddEagerConstraints(parents []*Record) {
	ids := keys(parents, rel.def.LocalKey)
	rel.query.constrain(func(qb *QueryBuilder) {
		qb.WhereIn(rel.def.Related.Qualify(rel.def.ForeignKey), ids)
	})
}

func (rel *hasOneOrMany) dictionary(results []*Record) map[string][]*Record {
	dictionary := map[string][]*Record{}
	for _, result := range results {
		key := utils.ToStringKey(result.Raw(rel.def.ForeignKey))
		dictionary[key] = append(dictionary[key], result)
	}
	return dictionary
}

// HasOne the related model holds a foreign key to the parent, at most one row
type HasOne struct {
	hasOneOrMany
}

// Match assign each parent its related record, or nil
func (rel *HasOne) Match(parents []*Record, results []*Record, name string) {
	dictionary := rel.dictionary(results)
	for _, parent := range parents {
		var related *Record
		if matched := dictionary[utils.ToStringKey(parent.Raw(rel.def.LocalKey))]; len(matched) > 0 {
			related = matched[0]
		}
		parent.SetRelation(name, related)
	}
}

// Results returns the related record, or nil
func (rel *HasOne) Results() (interface{}, error) {
	if rel.parent.Raw(rel.def.LocalKey) == nil {
		return (*Record)(nil), nil
	}
	return rel.query.First()
}

// HasMany the related model holds a foreign key to the parent
type HasMany struct {
	hasOneOrMany
}

// Match assign each parent its related records, an empty slice when none
func (rel *HasMany) Match(parents []*Record, results []*Record, name string) {
	dictionary := rel.dictionary(results)
	for _, parent := range parents {
		matched := dictionary[utils.ToStringKey(parent.Raw(rel.def.LocalKey))]
		if matched == nil {
			matched = []*Record{}
		}
		parent.SetRelation(name, matched)
	}
}

// Results returns the related records
func (rel *HasMany) Results() (interface{}, error) {
	if rel.parent.Raw(rel.def.LocalKey) == nil {
		return []*Record{}, nil
	}
	return rel.query.Get()
}

// BelongsTo the parent holds a foreign key to the related model
type BelongsTo struct {
	relation
}

func (rel *BelongsTo) AddConstraints() {
	key := rel.parent.Raw(rel.def.ForeignKey)
	rel.query.constrain(func(qb *QueryBuilder) {
		qb.Where(rel.def.Related.Qualify(rel.def.OwnerKey), key)
	})
}

func (rel *BelongsTo) AddEagerConstraints(parents []*Record) {
	ids := keys(parents, rel.def.ForeignKey)
	rel.query.constrain(func(qb *QueryBuilder) {
		qb.WhereIn(rel.def.Related.Qualify(rel.def.OwnerKey), ids)
	})
}

// Match assign each parent its owner, or nil
func (rel *BelongsTo) Match(parents []*Record, results []*Record, name string) {
	dictionary := make(map[string]*Record, len(results))
	for _, result := range results {
		dictionary[utils.ToStringKey(result.Raw(rel.def.OwnerKey))] = result
	}

	for _, parent := range parents {
		var owner *Record
		if fk := parent.Raw(rel.def.ForeignKey); fk != nil {
			owner = dictionary[utils.ToStringKey(fk)]
		}
		parent.SetRelation(name, owner)
	}
}

// Results returns the owner record, or nil
func (rel *BelongsTo) Results() (interface{}, error) {
	if rel.parent.Raw(rel.def.ForeignKey) == nil {
		return (*Record)(nil), nil
	}
	return rel.query.First()
}

// BelongsToMany the parent and the related model are linked through a pivot table
type BelongsToMany struct {
	relation
}

const pivotPrefix = "pivot_"

func pivotAlias(column string) string {
	return pivotPrefix + column
}

func (rel *BelongsToMany) pivotColumn(column string) string {
	return rel.def.PivotTable + "." + column
}

func (rel *BelongsToMany) AddConstraints() {
	key := rel.parent.Raw(rel.def.LocalKey)
	rel.query.constrain(func(qb *QueryBuilder) {
		qb.Where(rel.pivotColumn(rel.def.ForeignPivotKey), key)
	})
}

func (rel *BelongsToMany) AddEagerConstraints(parents []*Record) {
	ids := keys(parents, rel.def.LocalKey)
	rel.query.constrain(func(qb *QueryBuilder) {
		qb.WhereIn(rel.pivotColumn(rel.def.ForeignPivotKey), ids)
	})
}

// GetEager runs the query and moves the pivot columns out of the attributes
func (rel *BelongsToMany) GetEager() ([]*Record, error) {
	records, err := rel.query.Get()
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		pivot := Row{}
		names := r.names[:0]
		for _, name := range r.names {
			if strings.HasPrefix(name, pivotPrefix) {
				pivot[strings.TrimPrefix(name, pivotPrefix)] = r.attributes[name]
				delete(r.attributes, name)
				continue
			}
			names = append(names, name)
		}
		r.names = names
		r.pivot = pivot
	}
	return records, nil
}

// Match assign each parent its related records through their pivot keys,
// an empty slice when none
func (rel *BelongsToMany) Match(parents []*Record, results []*Record, name string) {
	dictionary := map[string][]*Record{}
	for _, result := range results {
		key := utils.ToStringKey(result.pivot[rel.def.ForeignPivotKey])
		dictionary[key] = append(dictionary[key], result)
	}

	for _, parent := range parents {
		matched := dictionary[utils.ToStringKey(parent.Raw(rel.def.LocalKey))]
		if matched == nil {
			matched = []*Record{}
		}
		parent.SetRelation(name, matched)
	}
}

// Results returns the related records
func (rel *BelongsToMany) Results() (interface{}, error) {
	if rel.parent.Raw(rel.def.LocalKey) == nil {
		return []*Record{}, nil
	}
	return rel.GetEager()
}

// Attach insert pivot rows linking the parent to the related ids
func (rel *BelongsToMany) Attach(ids ...interface{}) error {
	parentKey := rel.parent.Raw(rel.def.LocalKey)
	if parentKey == nil {
		return fmt.Errorf("%w: %s", ErrPrimaryKeyRequired, rel.parent.model.Name)
	}

	return rel.parent.db.Transaction(func(tx *DB) error {
		for _, id := range ids {
			if _, err := tx.Table(rel.def.PivotTable).Insert(map[string]interface{}{
				rel.def.ForeignPivotKey: parentKey,
				rel.def.RelatedPivotKey: id,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Detach delete the pivot rows linking the parent to ids, every pivot row of
// the parent when ids is empty
func (rel *BelongsToMany) Detach(ids ...interface{}) (int64, error) {
	parentKey := rel.parent.Raw(rel.def.LocalKey)
	if parentKey == nil {
		return 0, fmt.Errorf("%w: %s", ErrPrimaryKeyRequired, rel.parent.model.Name)
	}

	qb := rel.parent.db.Table(rel.def.PivotTable).Where(rel.def.ForeignPivotKey, parentKey)
	if len(ids) > 0 {
		qb.WhereIn(rel.def.RelatedPivotKey, ids)
	}
	return qb.Delete()
}

// Relation returns the relation declared as name, scoped to the record
func (r *Record) Relation(name string) (Relation, error) {
	rel, err := r.relation(name)
	if err != nil {
		return nil, err
	}
	rel.AddConstraints()
	return rel, nil
}

// relation builds the relation declared as name without constraints
func (r *Record) relation(name string) (Relation, error) {
	def, ok := r.model.Relation(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownRelation, r.model.Name, name)
	}
	return newRelation(def, r), nil
}

// SetRelation cache value as the relation name
func (r *Record) SetRelation(name string, value interface{}) {
	r.relations[name] = value
}

// RelationLoaded whether the relation name is cached
func (r *Record) RelationLoaded(name string) bool {
	_, ok := r.relations[name]
	return ok
}

// Related returns the relation name, resolved on first access and cached
func (r *Record) Related(name string) (interface{}, error) {
	if value, ok := r.relations[name]; ok {
		return value, nil
	}
	return r.Reload(name)
}

// Reload resolves the relation name again and replaces the cached value
func (r *Record) Reload(name string) (interface{}, error) {
	rel, err := r.Relation(name)
	if err != nil {
		return nil, err
	}

	value, err := rel.Results()
	if err != nil {
		return nil, err
	}
	r.SetRelation(name, value)
	return value, nil
}

// One returns a to-one relation, nil when there is no related record
func (r *Record) One(name string) (*Record, error) {
	value, err := r.Related(name)
	if err != nil {
		return nil, err
	}

	related, ok := value.(*Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is not a to-one relation", ErrInvalidData, r.model.Name, name)
	}
	return related, nil
}

// Many returns a to-many relation
func (r *Record) Many(name string) ([]*Record, error) {
	value, err := r.Related(name)
	if err != nil {
		return nil, err
	}

	related, ok := value.([]*Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is not a to-many relation", ErrInvalidData, r.model.Name, name)
	}
	return related, nil
}

// Load eager load relations on the record
func (r *Record) Load(paths ...string) error {
	return EagerLoader{}.Load([]*Record{r}, eagerLoads(paths)...)
}

// LoadMissing eager load the relations not loaded yet
func (r *Record) LoadMissing(paths ...string) error {
	return EagerLoader{}.LoadMissing([]*Record{r}, eagerLoads(paths)...)
}

func eagerLoads(paths []string) []EagerLoad {
	loads := make([]EagerLoad, len(paths))
	for idx, path := range paths {
		loads[idx] = EagerLoad{Path: path}
	}
	return loads
}
