package schema

// Value kinds recorded for flattened leaves.
const (
	KindInt     = "int"
	KindPercent = "percent"
	KindFloat   = "float"
	KindString  = "string"
	KindBool    = "bool"
)

// FlatValue is a single leaf of a result tree with its dotted path.
type FlatValue struct {
	Path  string
	Kind  string
	Value string
}

// ValueKind classifies a scalar leaf.
func ValueKind(v any) string {
	switch v.(type) {
	case int:
		return KindInt
	case Percent:
		return KindPercent
	case float64:
		return KindFloat
	case bool:
		return KindBool
	default:
		return KindString
	}
}

// Flatten lists every scalar leaf of the tree in depth-first order.
func Flatten(t *Tree) []FlatValue {
	var out []FlatValue
	t.Walk(func(path string, value any) {
		out = append(out, FlatValue{Path: path, Kind: ValueKind(value), Value: FormatScalar(value)})
	})
	return out
}
