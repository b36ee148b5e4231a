package orm

import (
	"fmt"
	"strings"
)

// EagerLoad one relation path to eager load, Path is dotted for nested
// relations and Constraint, when set, scopes the query of its last segment
type EagerLoad struct {
	Path       string
	Constraint func(q *Query)
}

// EagerLoader loads relations for a set of records with one query per relation
type EagerLoader struct{}

// Load loads every path, replacing relations already cached
func (loader EagerLoader) Load(records []*Record, loads ...EagerLoad) error {
	return loader.load(records, loads, false)
}

// LoadMissing loads every path for the records that do not have it cached yet
func (loader EagerLoader) LoadMissing(records []*Record, loads ...EagerLoad) error {
	return loader.load(records, loads, true)
}

func (loader EagerLoader) load(records []*Record, loads []EagerLoad, missing bool) error {
	if len(records) == 0 {
		return nil
	}

	model := records[0].model
	for _, r := range records[1:] {
		if r.model != model {
			return fmt.Errorf("%w: %s and %s", ErrMixedModels, model.Name, r.model.Name)
		}
	}

	for _, load := range loads {
		if err := loader.loadPath(records, strings.Split(load.Path, "."), load.Constraint, missing); err != nil {
			return err
		}
	}
	return nil
}

func (loader EagerLoader) loadPath(records []*Record, segments []string, constraint func(q *Query), missing bool) error {
	name := segments[0]
	if len(segments) == 1 {
		return loader.loadRelation(records, name, constraint, missing)
	}

	if err := loader.loadRelation(records, name, nil, true); err != nil {
		return err
	}

	var related []*Record
	for _, r := range records {
		switch v := r.relations[name].(type) {
		case *Record:
			if v != nil {
				related = append(related, v)
			}
		case []*Record:
			related = append(related, v...)
		}
	}

	if len(related) == 0 {
		return nil
	}
	return loader.loadPath(related, segments[1:], constraint, missing)
}

func (loader EagerLoader) loadRelation(records []*Record, name string, constraint func(q *Query), missing bool) error {
	parents := records
	if missing {
		parents = make([]*Record, 0, len(records))
		for _, r := range records {
			if !r.RelationLoaded(name) {
				parents = append(parents, r)
			}
		}
		if len(parents) == 0 {
			return nil
		}
	}

	rel, err := parents[0].relation(name)
	if err != nil {
		return err
	}

	def := rel.Definition()
	parentKey := def.LocalKey
	if def.Kind == BelongsToKind {
		parentKey = def.ForeignKey
	}

	if len(keys(parents, parentKey)) == 0 {
		rel.Match(parents, nil, name)
		return nil
	}

	if constraint != nil {
		constraint(rel.Query())
	}
	rel.AddEagerConstraints(parents)

	results, err := rel.GetEager()
	if err != nil {
		return fmt.Errorf("eager load %s.%s: %w", parents[0].model.Name, name, err)
	}

	rel.Match(parents, results, name)
	return nil
}
