// Package fieldmap converts between storage rows (snake_case columns) and API
// objects (camelCase keys) using an explicit two-way table.
package fieldmap

import (
	"errors"
	"fmt"
)

// IDAlias is the API-side alias of the primary key.
const IDAlias = "_id"

var ErrKeyCollision = errors.New("field mapping collision")

// Row is a loosely typed record keyed by column or API name.
type Row map[string]any

// Pair maps one column to one API key.
type Pair struct {
	Column string
	Field  string
}

// Schema is the conversion table for one entity.
type Schema struct {
	primaryKey string
	toField    map[string]string
	toColumn   map[string]string
}

// New builds a schema. Pairs must be one-to-one.
func New(primaryKey string, pairs ...Pair) *Schema {
	s := &Schema{
		primaryKey: primaryKey,
		toField:    make(map[string]string, len(pairs)),
		toColumn:   make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		if _, dup := s.toField[p.Column]; dup {
			panic("fieldmap: duplicate column " + p.Column)
		}
		if _, dup := s.toColumn[p.Field]; dup {
			panic("fieldmap: duplicate field " + p.Field)
		}
		s.toField[p.Column] = p.Field
		s.toColumn[p.Field] = p.Column
	}
	return s
}

// Field returns the API name for a column; unknown columns map to themselves.
func (s *Schema) Field(column string) string {
	if f, ok := s.toField[column]; ok {
		return f
	}
	return column
}

// Column returns the column for an API name; unknown names map to themselves.
func (s *Schema) Column(field string) string {
	if c, ok := s.toColumn[field]; ok {
		return c
	}
	return field
}

// ToAPI renames mapped columns and adds the primary-key alias. Unmapped keys pass through.
func (s *Schema) ToAPI(row Row) (Row, error) {
	out := make(Row, len(row)+1)
	for k, v := range row {
		if k == IDAlias {
			continue
		}
		if err := put(out, s.Field(k), k, v); err != nil {
			return nil, err
		}
	}
	if alias, ok := row[IDAlias]; ok {
		if err := put(out, IDAlias, IDAlias, alias); err != nil {
			return nil, err
		}
	}
	if id, ok := row[s.primaryKey]; ok {
		if existing, set := out[IDAlias]; set && !equal(existing, id) {
			return nil, fmt.Errorf("%w: %s disagrees with %s", ErrKeyCollision, IDAlias, s.primaryKey)
		}
		out[IDAlias] = id
	}
	return out, nil
}

// ToRow is the inverse of ToAPI. The alias is consumed; it restores the primary key when absent.
func (s *Schema) ToRow(api Row) (Row, error) {
	out := make(Row, len(api))
	for k, v := range api {
		if k == IDAlias {
			continue
		}
		if err := put(out, s.Column(k), k, v); err != nil {
			return nil, err
		}
	}
	if alias, ok := api[IDAlias]; ok {
		if id, set := out[s.primaryKey]; set {
			if !equal(id, alias) {
				return nil, fmt.Errorf("%w: %s disagrees with %s", ErrKeyCollision, IDAlias, s.primaryKey)
			}
		} else {
			out[s.primaryKey] = alias
		}
	}
	return out, nil
}

func put(out Row, key, source string, v any) error {
	if _, exists := out[key]; exists {
		return fmt.Errorf("%w: %q and another key both map to %q", ErrKeyCollision, source, key)
	}
	out[key] = v
	return nil
}

func equal(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = fmt.Sprint(a) == fmt.Sprint(b)
		}
	}()
	return a == b
}

// Invoices maps invoice rows.
var Invoices = New("id",
	Pair{"user_id", "userId"},
	Pair{"invoice_number", "invoiceNumber"},
	Pair{"invoice_date", "invoiceDate"},
	Pair{"due_date", "dueDate"},
	Pair{"bill_from", "billFrom"},
	Pair{"bill_to", "billTo"},
	Pair{"payment_terms", "paymentTerms"},
	Pair{"tax_total", "taxTotal"},
	Pair{"created_at", "createdAt"},
	Pair{"updated_at", "updatedAt"},
)

// Users maps user rows.
var Users = New("id",
	Pair{"business_name", "businessName"},
	Pair{"created_at", "createdAt"},
	Pair{"updated_at", "updatedAt"},
)
