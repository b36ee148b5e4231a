package orm

import (
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/now"
	"github.com/spf13/cast"
)

// Record one row of a model. Attributes keep their column order, relations
// resolved through Related or eager loading are cached on the record.
type Record struct {
	model      *Model
	db         *DB
	names      []string
	attributes map[string]interface{}
	dirty      map[string]bool
	relations  map[string]interface{}
	pivot      Row
	exists     bool
}

func newRecord(db *DB, model *Model) *Record {
	return &Record{
		model:      model,
		db:         db,
		attributes: map[string]interface{}{},
		dirty:      map[string]bool{},
		relations:  map[string]interface{}{},
	}
}

func hydrate(db *DB, model *Model, columns []string, row Row) *Record {
	r := newRecord(db, model)
	for _, column := range columns {
		if _, ok := r.attributes[column]; !ok {
			r.names = append(r.names, column)
		}
		r.attributes[column] = row[column]
	}
	r.exists = true
	return r
}

// Model returns the model descriptor of the record
func (r *Record) Model() *Model {
	return r.model
}

// Exists whether the record is persisted
func (r *Record) Exists() bool {
	return r.exists
}

// Key returns the primary key value
func (r *Record) Key() interface{} {
	return r.attributes[r.model.PrimaryKeyName()]
}

// Has whether the attribute is set
func (r *Record) Has(name string) bool {
	_, ok := r.attributes[name]
	return ok
}

// Raw returns the stored value of an attribute, without accessor
func (r *Record) Raw(name string) interface{} {
	return r.attributes[name]
}

// Get returns an attribute through its accessor
func (r *Record) Get(name string) interface{} {
	value := r.attributes[name]
	if field, ok := r.model.Fields[name]; ok && field.Get != nil {
		return field.Get(value)
	}
	return value
}

// GetString returns an attribute as string
func (r *Record) GetString(name string) string {
	return cast.ToString(r.Get(name))
}

// GetInt returns an attribute as int64
func (r *Record) GetInt(name string) int64 {
	return cast.ToInt64(r.Get(name))
}

// GetBool returns an attribute as bool
func (r *Record) GetBool(name string) bool {
	return cast.ToBool(r.Get(name))
}

// GetTime returns an attribute as time, string values are parsed in the
// formats databases return timestamps in
func (r *Record) GetTime(name string) (time.Time, error) {
	switch v := r.Get(name).(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		if t, err := cast.ToTimeE(v); err == nil {
			return t, nil
		}
		return now.Parse(v)
	default:
		return cast.ToTimeE(v)
	}
}

// Set writes an attribute through its mutator
func (r *Record) Set(name string, value interface{}) error {
	if field, ok := r.model.Fields[name]; ok && field.Set != nil {
		v, err := field.Set(r, value)
		if err != nil {
			return fmt.Errorf("set %s.%s: %w", r.model.Name, name, err)
		}
		value = v
	}
	r.SetRaw(name, value)
	return nil
}

// SetRaw writes an attribute as is, mutators use it to derive other attributes
func (r *Record) SetRaw(name string, value interface{}) {
	if _, ok := r.attributes[name]; !ok {
		r.names = append(r.names, name)
	}
	r.attributes[name] = value
	r.dirty[name] = true
}

// Fill writes the fillable attributes of attrs through their mutators,
// other keys are ignored
func (r *Record) Fill(attrs map[string]interface{}) error {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		if r.model.IsFillable(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := r.Set(key, attrs[key]); err != nil {
			return err
		}
	}
	return nil
}

// Attributes returns a copy of the stored attributes
func (r *Record) Attributes() map[string]interface{} {
	attrs := make(map[string]interface{}, len(r.attributes))
	for key, value := range r.attributes {
		attrs[key] = value
	}
	return attrs
}

// Pivot returns the pivot columns a BelongsToMany relation loaded the record with
func (r *Record) Pivot() Row {
	return r.pivot
}

// Trashed whether the record is soft deleted
func (r *Record) Trashed() bool {
	return r.model.SoftDeletes && r.attributes[DeletedAt] != nil
}

func (r *Record) table() *QueryBuilder {
	return r.db.Table(r.model.TableName())
}

func (r *Record) byKey() (*QueryBuilder, error) {
	if !r.exists || r.Key() == nil {
		return nil, fmt.Errorf("%w: %s", ErrPrimaryKeyRequired, r.model.Name)
	}
	return r.table().Where(r.model.PrimaryKeyName(), r.Key()), nil
}

func (r *Record) columns(skip string) ([]string, []interface{}) {
	columns := make([]string, 0, len(r.names))
	values := make([]interface{}, 0, len(r.names))
	for _, name := range r.names {
		if name == skip {
			continue
		}
		columns = append(columns, name)
		values = append(values, r.attributes[name])
	}
	return columns, values
}

// Save inserts a new record, or rewrites every attribute of a persisted one
func (r *Record) Save() error {
	stamp := r.db.NowFunc()
	pk := r.model.PrimaryKeyName()

	if r.exists {
		if r.model.Timestamps {
			r.SetRaw(UpdatedAt, stamp)
		}

		query, err := r.byKey()
		if err != nil {
			return err
		}

		columns, values := r.columns(pk)
		if _, err := query.update(columns, values); err != nil {
			return err
		}
		r.dirty = map[string]bool{}
		return nil
	}

	if r.model.Timestamps {
		if r.attributes[CreatedAt] == nil {
			r.SetRaw(CreatedAt, stamp)
		}
		r.SetRaw(UpdatedAt, stamp)
	}

	if r.attributes[pk] != nil {
		columns, values := r.columns("")
		if _, err := r.table().insertStatement(columns, values).Exec(); err != nil {
			return err
		}
	} else {
		columns, values := r.columns(pk)
		id, err := r.table().insertGetID(columns, values, pk)
		if err != nil {
			return err
		}
		r.SetRaw(pk, id)
	}

	r.exists = true
	r.dirty = map[string]bool{}
	return nil
}

// Update fills attrs and writes the attributes the fill changed, mutator
// derived ones included, plus updated_at. Attributes changed before the call
// stay pending for Save. Returns whether a row was affected
func (r *Record) Update(attrs map[string]interface{}) (bool, error) {
	query, err := r.byKey()
	if err != nil {
		return false, err
	}

	pending := r.dirty
	r.dirty = map[string]bool{}
	defer func() {
		for name := range pending {
			r.dirty[name] = true
		}
	}()

	if err := r.Fill(attrs); err != nil {
		return false, err
	}

	delete(r.dirty, r.model.PrimaryKeyName())
	if len(r.dirty) == 0 {
		return false, nil
	}

	if r.model.Timestamps {
		r.SetRaw(UpdatedAt, r.db.NowFunc())
	}

	var (
		columns []string
		values  []interface{}
	)
	for _, name := range r.names {
		if r.dirty[name] {
			columns = append(columns, name)
			values = append(values, r.attributes[name])
			delete(pending, name)
		}
	}

	affected, err := query.update(columns, values)
	if err != nil {
		return false, err
	}
	r.dirty = map[string]bool{}
	return affected > 0, nil
}

// Delete deletes the record, soft delete models only stamp deleted_at
func (r *Record) Delete() (bool, error) {
	if !r.model.SoftDeletes {
		return r.ForceDelete()
	}

	query, err := r.byKey()
	if err != nil {
		return false, err
	}

	stamp := r.db.NowFunc()
	affected, err := query.update([]string{DeletedAt}, []interface{}{stamp})
	if err != nil {
		return false, err
	}
	r.SetRaw(DeletedAt, stamp)
	delete(r.dirty, DeletedAt)
	return affected > 0, nil
}

// Restore clears deleted_at of a soft deleted record
func (r *Record) Restore() (bool, error) {
	if !r.model.SoftDeletes {
		return false, fmt.Errorf("%w: %s does not use soft deletes", ErrInvalidData, r.model.Name)
	}

	query, err := r.byKey()
	if err != nil {
		return false, err
	}

	affected, err := query.update([]string{DeletedAt}, []interface{}{nil})
	if err != nil {
		return false, err
	}
	r.SetRaw(DeletedAt, nil)
	delete(r.dirty, DeletedAt)
	return affected > 0, nil
}

// ForceDelete deletes the row, regardless of soft deletes
func (r *Record) ForceDelete() (bool, error) {
	query, err := r.byKey()
	if err != nil {
		return false, err
	}

	affected, err := query.Delete()
	if err != nil {
		return false, err
	}
	r.exists = false
	return affected > 0, nil
}

// Refresh reloads the attributes from the database and drops cached relations
func (r *Record) Refresh() error {
	query, err := r.byKey()
	if err != nil {
		return err
	}

	columns, rows, err := query.Limit(1).rows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		r.exists = false
		return nil
	}

	fresh := hydrate(r.db, r.model, columns, rows[0])
	r.names, r.attributes = fresh.names, fresh.attributes
	r.dirty = map[string]bool{}
	r.relations = map[string]interface{}{}
	return nil
}

// ToMap exports the record, accessors applied, hidden attributes dropped and
// loaded relations nested
func (r *Record) ToMap() map[string]interface{} {
	result := make(map[string]interface{}, len(r.names)+len(r.relations))
	for _, name := range r.names {
		if r.model.IsHidden(name) {
			continue
		}
		result[name] = r.Get(name)
	}

	for name, value := range r.relations {
		switch v := value.(type) {
		case *Record:
			if v == nil {
				result[name] = nil
			} else {
				result[name] = v.ToMap()
			}
		case []*Record:
			items := make([]map[string]interface{}, len(v))
			for idx, item := range v {
				items[idx] = item.ToMap()
			}
			result[name] = items
		}
	}

	if len(r.pivot) > 0 {
		result["pivot"] = map[string]interface{}(r.pivot)
	}
	return result
}

// MarshalJSON encodes ToMap
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// String returns the model name and key
func (r *Record) String() string {
	return fmt.Sprintf("%s(%v)", r.model.Name, r.Key())
}
