package store

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sicko7947/restddb"
)

// TableDefinition declares a table served by the local stores
type TableDefinition struct {
	Name      string
	KeySchema restddb.KeySchema
}

// Key encoding: each key value is rendered as TYPE=VALUE and joined by
// keySeparator in key schema order. Numbers share the N type whatever their
// Go representation, so 5 and 5.0 address the same row.
const keySeparator = "\x1f"

func errTableNotFound(table string) error {
	return restddb.NewBackendError(
		restddb.ErrCodeResourceNotFound,
		http.StatusBadRequest,
		fmt.Sprintf("Requested resource not found: Table: %s not found", table),
	)
}

func errValidation(format string, args ...any) error {
	return restddb.NewBackendError(
		restddb.ErrCodeValidation,
		http.StatusBadRequest,
		fmt.Sprintf(format, args...),
	)
}

// encodeKey renders the key attributes of item into a stable string
func encodeKey(schema restddb.KeySchema, item map[string]any) (string, error) {
	parts := make([]string, len(schema))
	for i, name := range schema {
		v, ok := item[name]
		if !ok || v == nil {
			return "", errValidation("The provided key element does not match the schema: missing %s", name)
		}

		part, ok := encodeScalar(v)
		if !ok {
			return "", errValidation("The provided key element does not match the schema: %s is not a scalar", name)
		}
		parts[i] = part
	}
	return strings.Join(parts, keySeparator), nil
}

func encodeScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return "S=" + x, true
	case bool:
		return "BOOL=" + strconv.FormatBool(x), true
	case int:
		return "N=" + strconv.FormatInt(int64(x), 10), true
	case int8:
		return "N=" + strconv.FormatInt(int64(x), 10), true
	case int16:
		return "N=" + strconv.FormatInt(int64(x), 10), true
	case int32:
		return "N=" + strconv.FormatInt(int64(x), 10), true
	case int64:
		return "N=" + strconv.FormatInt(x, 10), true
	case uint:
		return "N=" + strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return "N=" + strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return "N=" + strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return "N=" + strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return "N=" + strconv.FormatUint(x, 10), true
	case float32:
		return "N=" + formatFloat(float64(x)), true
	case float64:
		return "N=" + formatFloat(x), true
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return "N=" + formatFloat(f), true
		}
		return "N=" + x.String(), true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// checkKey rejects keys carrying non-key attributes
func checkKey(schema restddb.KeySchema, key restddb.Id) error {
	if len(key) != len(schema) {
		return errValidation("The provided key element does not match the schema")
	}
	return nil
}

// setClause is one "name = :binding" assignment with its bound value
type setClause struct {
	Name  string
	Value any
}

// parseUpdate resolves a "SET a = :a,b = :b" expression into its clauses
func parseUpdate(update restddb.UpdateExpression) ([]setClause, error) {
	expr := strings.TrimSpace(update.Expression)
	if !strings.HasPrefix(expr, "SET ") {
		return nil, errValidation("Invalid UpdateExpression: %s", update.Expression)
	}

	var clauses []setClause
	for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		name, binding, ok := strings.Cut(clause, "=")
		if !ok {
			return nil, errValidation("Invalid UpdateExpression: %s", update.Expression)
		}

		name = strings.TrimSpace(name)
		binding = strings.TrimSpace(binding)

		value, ok := update.Values[binding]
		if !ok {
			return nil, errValidation("An expression attribute value used in expression is not defined: %s", binding)
		}
		clauses = append(clauses, setClause{Name: name, Value: value})
	}

	return clauses, nil
}

// applyUpdate evaluates a "SET a = :a,b = :b" expression against item
func applyUpdate(item restddb.Item, update restddb.UpdateExpression) error {
	clauses, err := parseUpdate(update)
	if err != nil {
		return err
	}

	for _, c := range clauses {
		item[c.Name] = c.Value
	}
	return nil
}
