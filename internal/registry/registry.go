// Package registry derives deletable models from the datastore schema,
// following the <namespace>_<model> table naming convention. A table
// without an underscore forms its own single-model namespace.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"purgeall/internal/model"
)

// Schema is the slice of the datastore the registry needs.
type Schema interface {
	Tables(ctx context.Context) ([]string, error)
	Count(ctx context.Context, table string) (int64, error)
}

// Model is a deletable model discovered from the schema.
type Model struct {
	Identifier model.Identifier
	Table      string
	Count      int64
}

// Registry resolves namespaces and model names against the live schema.
type Registry struct {
	db Schema
}

// New builds a Registry over the given schema.
func New(db Schema) *Registry {
	return &Registry{db: db}
}

// NotFoundError reports an unknown namespace or model. A configuration
// error: no deletion is attempted.
type NotFoundError struct {
	Namespace string
	Name      string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("namespace %q not found", e.Namespace)
	}
	return fmt.Sprintf("model %q not found in namespace %q", e.Name, e.Namespace)
}

// split derives an identifier from a table name.
func split(table string) model.Identifier {
	ns, name, ok := strings.Cut(table, "_")
	if !ok || ns == "" || name == "" {
		return model.Identifier{Namespace: table, Name: table}
	}
	return model.Identifier{Namespace: ns, Name: name}
}

// Namespaces returns the distinct namespaces present in the schema,
// sorted.
func (r *Registry) Namespaces(ctx context.Context) ([]string, error) {
	tables, err := r.db.Tables(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, t := range tables {
		ns := split(t).Namespace
		if !seen[ns] {
			seen[ns] = true
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Models returns the models of a namespace with live record counts.
// Namespace matching is case-insensitive.
func (r *Registry) Models(ctx context.Context, namespace string) ([]Model, error) {
	tables, err := r.db.Tables(ctx)
	if err != nil {
		return nil, err
	}

	var out []Model
	for _, t := range tables {
		id := split(t)
		if !strings.EqualFold(id.Namespace, namespace) {
			continue
		}
		n, err := r.db.Count(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, Model{Identifier: id, Table: t, Count: n})
	}
	if len(out) == 0 {
		return nil, &NotFoundError{Namespace: namespace}
	}
	return out, nil
}

// Resolve finds the model named (namespace, name), case-insensitively.
func (r *Registry) Resolve(ctx context.Context, namespace, name string) (Model, error) {
	tables, err := r.db.Tables(ctx)
	if err != nil {
		return Model{}, err
	}

	found := false
	for _, t := range tables {
		id := split(t)
		if !strings.EqualFold(id.Namespace, namespace) {
			continue
		}
		found = true
		if strings.EqualFold(id.Name, name) {
			return Model{Identifier: id, Table: t}, nil
		}
	}
	if !found {
		return Model{}, &NotFoundError{Namespace: namespace}
	}
	return Model{}, &NotFoundError{Namespace: namespace, Name: name}
}

// Count returns the live record count of a table.
func (r *Registry) Count(ctx context.Context, table string) (int64, error) {
	return r.db.Count(ctx, table)
}
