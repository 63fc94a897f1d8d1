package workflow

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Transform materializes a template for one user: it validates the document,
// substitutes every ${dotted.path} placeholder from the binding, rewrites
// logical provider nodes to engine-native types and annotates them with the
// credential reference. The input workflow is not modified.
func Transform(wf *Workflow, binding Binding, cred CredentialRef) (*Workflow, error) {
	if err := Validate(wf, binding); err != nil {
		return nil, err
	}

	out, err := wf.clone()
	if err != nil {
		return nil, ValidationError{Field: "document", Reason: err.Error()}
	}

	for i := range out.Nodes {
		node := &out.Nodes[i]

		substituted, err := substituteAny(node.Parameters, binding)
		if err != nil {
			return nil, err
		}
		if substituted != nil {
			node.Parameters = substituted.(map[string]any)
		}

		switch kind := node.Kind(); kind {
		case KindGmail, KindCalendar, KindDrive, KindSheets:
			node.Type = NodeTypePrefix + node.Type
			if node.Credentials == nil {
				node.Credentials = map[string]any{}
			}
			node.Credentials[credentialKey(kind)] = map[string]any{
				"id":   cred.ID,
				"name": cred.Name,
			}
		}
	}

	if out.Settings != nil {
		substituted, err := substituteAny(out.Settings, binding)
		if err != nil {
			return nil, err
		}
		out.Settings = substituted.(map[string]any)
	}

	return out, nil
}

// Validate performs the structural checks that must pass before any external
// call: every connection endpoint exists and the trigger schema is
// satisfiable from the binding.
func Validate(wf *Workflow, binding Binding) error {
	if len(wf.Nodes) == 0 {
		return ValidationError{Field: "nodes", Reason: "workflow must contain at least one node"}
	}

	known := make(map[string]bool, len(wf.Nodes)*2)
	for i, node := range wf.Nodes {
		if node.ID == "" {
			return ValidationError{Field: fmt.Sprintf("nodes[%d].id", i), Reason: "node misses an id"}
		}
		if node.Type == "" {
			return ValidationError{Field: fmt.Sprintf("nodes[%d].type", i), Reason: "node misses a type"}
		}

		known[node.ID] = true
		if node.Name != "" {
			known[node.Name] = true
		}
	}

	for source, outputs := range wf.Connections {
		if !known[source] {
			return ValidationError{
				Field:  "connections." + source,
				Reason: "references a node that does not exist",
			}
		}

		for _, branch := range outputs.Main {
			for _, link := range branch {
				if !known[link.Node] {
					return ValidationError{
						Field:  "connections." + source,
						Reason: fmt.Sprintf("links to unknown node %q", link.Node),
					}
				}
			}
		}
	}

	if wf.Trigger != nil {
		for name, schema := range wf.Trigger.Parameters {
			if !schema.IsRequired() {
				continue
			}
			if _, ok := binding.Resolve("trigger." + name); !ok {
				return ValidationError{
					Field:  "trigger." + name,
					Reason: "not satisfiable from the binding context",
				}
			}
		}
	}

	return nil
}

func substituteAny(value any, binding Binding) (any, error) {
	switch t := value.(type) {
	case string:
		return substituteString(t, binding)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			substituted, err := substituteAny(v, binding)
			if err != nil {
				return nil, err
			}
			out[k] = substituted
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			substituted, err := substituteAny(v, binding)
			if err != nil {
				return nil, err
			}
			out[i] = substituted
		}
		return out, nil
	}

	return value, nil
}

func substituteString(s string, binding Binding) (any, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s, nil
	}

	// A string that is exactly one placeholder keeps the resolved value's
	// type instead of flattening it to text.
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		key := s[matches[0][2]:matches[0][3]]
		value, ok := binding.Resolve(key)
		if !ok {
			return nil, UnboundPlaceholderError{Key: key}
		}
		return value, nil
	}

	var missing string
	replaced := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := match[2 : len(match)-1]
		value, ok := binding.Resolve(key)
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return fmt.Sprint(value)
	})

	if missing != "" {
		return nil, UnboundPlaceholderError{Key: missing}
	}

	return replaced, nil
}
