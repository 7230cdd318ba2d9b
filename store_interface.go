package restddb

import (
	"context"
	"strings"
)

// Store defines the key-value collaborator the client dispatches verbs to.
// Failed preconditions are reported as a BackendError with code
// ErrCodeConditionalCheckFailed; any other failure is classified as is.
type Store interface {
	// DescribeKeySchema returns the ordered key attribute names of table
	DescribeKeySchema(ctx context.Context, table string) (KeySchema, error)

	// GetItem returns the row identified by key, or nil when it is absent.
	// A non-empty projection limits the attributes returned.
	GetItem(ctx context.Context, table string, key Id, projection []string) (Item, error)

	// PutItem writes item when cond holds
	PutItem(ctx context.Context, table string, item Item, cond Condition) error

	// DeleteItem removes the row. Removing an absent row succeeds.
	DeleteItem(ctx context.Context, table string, key Id) error

	// UpdateItem applies update when cond holds and returns the full row
	UpdateItem(ctx context.Context, table string, key Id, cond Condition, update UpdateExpression) (Item, error)
}

// ConditionKind is the existence expectation of a write
type ConditionKind int

const (
	ConditionNone ConditionKind = iota
	ConditionAttributesExist
	ConditionAttributesNotExist
)

// Condition is an existence precondition over a set of attributes
type Condition struct {
	Kind       ConditionKind
	Attributes []string
}

// NoCondition is an unconditional write
var NoCondition = Condition{Kind: ConditionNone}

// AttributesExist requires every attribute to be present on the stored row
func AttributesExist(attrs ...string) Condition {
	return Condition{Kind: ConditionAttributesExist, Attributes: attrs}
}

// AttributesNotExist requires every attribute to be absent on the stored row
func AttributesNotExist(attrs ...string) Condition {
	return Condition{Kind: ConditionAttributesNotExist, Attributes: attrs}
}

// IsNone reports whether the condition is vacuous
func (c Condition) IsNone() bool {
	return c.Kind == ConditionNone || len(c.Attributes) == 0
}

// Holds evaluates the condition against a stored row, nil meaning absent
func (c Condition) Holds(stored Item) bool {
	if c.IsNone() {
		return true
	}

	for _, attr := range c.Attributes {
		_, exists := stored[attr]
		switch c.Kind {
		case ConditionAttributesExist:
			if !exists {
				return false
			}
		case ConditionAttributesNotExist:
			if exists {
				return false
			}
		}
	}
	return true
}

// Expression renders the condition in DynamoDB syntax
//
//	AttributesExist("id", "sk") ⟼ attribute_exists(id) AND attribute_exists(sk)
func (c Condition) Expression() string {
	if c.IsNone() {
		return ""
	}

	fn := "attribute_exists"
	if c.Kind == ConditionAttributesNotExist {
		fn = "attribute_not_exists"
	}

	clauses := make([]string, len(c.Attributes))
	for i, attr := range c.Attributes {
		clauses[i] = fn + "(" + attr + ")"
	}
	return strings.Join(clauses, " AND ")
}
