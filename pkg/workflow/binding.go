package workflow

import "strings"

// Binding is the context a template is materialized against. Keys are dotted
// paths; values may also be nested maps, in which case the path walks into
// them.
type Binding map[string]any

func (b Binding) Resolve(key string) (any, bool) {
	if value, ok := b[key]; ok {
		return value, true
	}

	var current any = map[string]any(b)
	for _, part := range strings.Split(key, ".") {
		m, ok := toMap(current)
		if !ok {
			return nil, false
		}

		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Merge overlays other on top of b and returns the result; neither input is
// modified.
func (b Binding) Merge(other Binding) Binding {
	merged := make(Binding, len(b)+len(other))
	for k, v := range b {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}

	return merged
}

func toMap(value any) (map[string]any, bool) {
	switch t := value.(type) {
	case map[string]any:
		return t, true
	case Binding:
		return t, true
	}

	return nil, false
}
