package restddb

import (
	"fmt"
	"slices"
	"strings"
)

// Verb is the REST verb a client call was issued with
type Verb string

const (
	VerbGet    Verb = "GET"
	VerbHead   Verb = "HEAD"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
	VerbPatch  Verb = "PATCH"
	VerbDelete Verb = "DELETE"
)

// String returns the string representation
func (v Verb) String() string {
	return string(v)
}

// KeySchema is the ordered list of attribute names that identify a row.
// The partition key comes first, the optional sort key second.
type KeySchema []string

// Contains reports whether name is one of the key attributes
func (k KeySchema) Contains(name string) bool {
	return slices.Contains(k, name)
}

// String returns the string representation
func (k KeySchema) String() string {
	return "[" + strings.Join(k, ",") + "]"
}

// Id maps key attribute names to scalar values. It must match the
// table's KeySchema exactly.
type Id map[string]any

// Item is a full row: the Id attributes plus arbitrary data attributes
type Item map[string]any

// ValidateId checks that id carries every key attribute and nothing else
func ValidateId(schema KeySchema, id Id) error {
	for _, name := range schema {
		v, ok := id[name]
		if !ok || v == nil {
			return fmt.Errorf("missing key attribute %q", name)
		}
	}

	for name := range id {
		if !schema.Contains(name) {
			return fmt.Errorf("unrecognized key attribute %q", name)
		}
	}

	return nil
}

// NewItem merges the data attributes with the id. Id attributes always win.
func NewItem(id Id, data Item) Item {
	item := make(Item, len(id)+len(data))
	for k, v := range data {
		item[k] = v
	}
	for k, v := range id {
		item[k] = v
	}
	return item
}

// WithoutKeys returns a copy of data with every key attribute removed
func WithoutKeys(schema KeySchema, data Item) Item {
	out := make(Item, len(data))
	for k, v := range data {
		if schema.Contains(k) {
			continue
		}
		out[k] = v
	}
	return out
}
