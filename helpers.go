package restddb

// CloneItem returns a deep copy of item. Nested maps and slices of the
// generic JSON shapes are copied, other values are shared.
func CloneItem(item Item) Item {
	if item == nil {
		return nil
	}

	out := make(Item, len(item))
	for k, v := range item {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = cloneValue(vv)
		}
		return out
	case Item:
		return CloneItem(x)
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = cloneValue(vv)
		}
		return out
	case []byte:
		return append([]byte(nil), x...)
	default:
		return v
	}
}

// Project keeps only the named attributes of item. An empty projection
// keeps everything.
func Project(item Item, projection []string) Item {
	if len(projection) == 0 {
		return item
	}

	out := make(Item, len(projection))
	for _, name := range projection {
		if v, ok := item[name]; ok {
			out[name] = v
		}
	}
	return out
}
