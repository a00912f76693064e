package records

// ShapeKind enumerates the wire shapes a list endpoint may answer with.
type ShapeKind int

const (
	// ShapeEmpty is null, a scalar, or anything else that holds no records.
	ShapeEmpty ShapeKind = iota
	// ShapeArray is a bare JSON array of records.
	ShapeArray
	// ShapeKeyed is an envelope object whose Key property holds the records
	// (an array, or a single object).
	ShapeKeyed
	// ShapeSingle is one record object, wrapped into a one-element list.
	ShapeSingle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeArray:
		return "array"
	case ShapeKeyed:
		return "keyed"
	case ShapeSingle:
		return "single"
	default:
		return "empty"
	}
}

// Shape is the classified form of a list payload.
type Shape struct {
	Kind ShapeKind
	Key  string // envelope property, set for ShapeKeyed
}

// Classify inspects a decoded JSON value. keys are the envelope properties to
// probe in order; "data" is always probed last.
func Classify(raw any, keys ...string) Shape {
	switch v := raw.(type) {
	case []any:
		return Shape{Kind: ShapeArray}
	case map[string]any:
		probe := make([]string, 0, len(keys)+1)
		probe = append(append(probe, keys...), "data")
		for _, k := range probe {
			inner, ok := v[k]
			if !ok || inner == nil {
				continue
			}
			switch inner.(type) {
			case []any, map[string]any:
				return Shape{Kind: ShapeKeyed, Key: k}
			default:
				return Shape{Kind: ShapeEmpty}
			}
		}
		return Shape{Kind: ShapeSingle}
	default:
		return Shape{Kind: ShapeEmpty}
	}
}

// Collection flattens a list payload into its records, preserving order.
// Elements are returned as decoded; normalizers cope with non-object entries.
func Collection(raw any, keys ...string) []any {
	shape := Classify(raw, keys...)
	switch shape.Kind {
	case ShapeArray:
		return raw.([]any)
	case ShapeKeyed:
		switch inner := raw.(map[string]any)[shape.Key].(type) {
		case []any:
			return inner
		case map[string]any:
			return []any{inner}
		}
	case ShapeSingle:
		return []any{raw}
	}
	return []any{}
}
