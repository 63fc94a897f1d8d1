package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func welcomeWorkflow() map[string]any {
	return map[string]any{
		"name": "Welcome mail",
		"trigger": map[string]any{
			"parameters": map[string]any{
				"email": map[string]any{"type": "string"},
			},
		},
		"nodes": []any{
			map[string]any{
				"id":   "webhook-1",
				"name": "Webhook",
				"type": "n8n-nodes-base.webhook",
				"parameters": map[string]any{
					"path": "welcome",
				},
			},
			map[string]any{
				"id":   "gmail-1",
				"name": "Send welcome",
				"type": "gmail",
				"parameters": map[string]any{
					"operation": "send",
					"to":        "${trigger.email}",
					"subject":   "Welcome, ${user.name}!",
				},
			},
		},
		"connections": map[string]any{
			"Webhook": map[string]any{
				"main": []any{
					[]any{
						map[string]any{"node": "Send welcome", "index": float64(0)},
					},
				},
			},
		},
	}
}

func welcomeBinding() Binding {
	return Binding{
		"trigger": map[string]any{"email": "alice@example.com"},
		"user":    map[string]any{"name": "Alice", "email": "alice@example.com"},
	}
}

func TestTransformWelcomeWorkflow(t *testing.T) {
	wf, err := Parse(welcomeWorkflow())
	require.NoError(t, err)

	cred := CredentialRef{ID: "user1-google", Name: "google alice@example.com"}
	out, err := Transform(wf, welcomeBinding(), cred)
	require.NoError(t, err)

	require.Equal(t, "n8n-nodes-base.webhook", out.Nodes[0].Type)
	require.Nil(t, out.Nodes[0].Credentials)

	gmail := out.Nodes[1]
	require.Equal(t, "n8n-nodes-base.gmail", gmail.Type)
	require.Equal(t, "alice@example.com", gmail.Parameters["to"])
	require.Equal(t, "Welcome, Alice!", gmail.Parameters["subject"])
	require.Equal(t, map[string]any{
		"id":   "user1-google",
		"name": "google alice@example.com",
	}, gmail.Credentials["gmailOAuth2"])

	// The input template keeps its placeholders and logical type.
	require.Equal(t, "gmail", wf.Nodes[1].Type)
	require.Equal(t, "${trigger.email}", wf.Nodes[1].Parameters["to"])
}

func TestTransformUnboundPlaceholder(t *testing.T) {
	wf, err := Parse(welcomeWorkflow())
	require.NoError(t, err)

	binding := Binding{"user": map[string]any{"name": "Alice"}}
	_, err = Transform(wf, binding, CredentialRef{ID: "c1"})

	var validation ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "trigger.email", validation.Field)
}

func TestTransformUnboundParameterPlaceholder(t *testing.T) {
	doc := welcomeWorkflow()
	delete(doc, "trigger")
	wf, err := Parse(doc)
	require.NoError(t, err)

	_, err = Transform(wf, Binding{"user": map[string]any{"name": "Alice"}}, CredentialRef{})

	var unbound UnboundPlaceholderError
	require.ErrorAs(t, err, &unbound)
	require.Equal(t, "trigger.email", unbound.Key)
}

func TestTransformKeepsResolvedValueType(t *testing.T) {
	doc := map[string]any{
		"nodes": []any{
			map[string]any{
				"id":   "n1",
				"type": "n8n-nodes-base.set",
				"parameters": map[string]any{
					"limit": "${settings.limit}",
				},
			},
		},
	}

	wf, err := Parse(doc)
	require.NoError(t, err)

	out, err := Transform(wf, Binding{
		"settings": map[string]any{"limit": float64(10)},
	}, CredentialRef{})
	require.NoError(t, err)
	require.Equal(t, float64(10), out.Nodes[0].Parameters["limit"])
}

func TestTransformNativeWorkflowIsNormalizationOnly(t *testing.T) {
	doc := map[string]any{
		"name": "Native only",
		"nodes": []any{
			map[string]any{
				"id":   "n1",
				"name": "Webhook",
				"type": "n8n-nodes-base.webhook",
				"parameters": map[string]any{
					"path": "hook",
				},
			},
		},
	}

	wf, err := Parse(doc)
	require.NoError(t, err)

	out, err := Transform(wf, Binding{}, CredentialRef{ID: "c1", Name: "cred"})
	require.NoError(t, err)

	// No placeholders and no logical types: the document survives unchanged.
	before, err := wf.Document()
	require.NoError(t, err)
	after, err := out.Document()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestValidateUnknownConnectionTarget(t *testing.T) {
	doc := welcomeWorkflow()
	doc["connections"] = map[string]any{
		"Webhook": map[string]any{
			"main": []any{
				[]any{
					map[string]any{"node": "No such node", "index": float64(0)},
				},
			},
		},
	}

	wf, err := Parse(doc)
	require.NoError(t, err)

	err = Validate(wf, welcomeBinding())
	var validation ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "connections.Webhook", validation.Field)
}

func TestValidateUnknownConnectionSource(t *testing.T) {
	doc := welcomeWorkflow()
	doc["connections"] = map[string]any{
		"Ghost": map[string]any{"main": []any{}},
	}

	wf, err := Parse(doc)
	require.NoError(t, err)

	err = Validate(wf, welcomeBinding())
	var validation ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "connections.Ghost", validation.Field)
}

func TestParseRejectsNodeWithoutType(t *testing.T) {
	_, err := Parse(map[string]any{
		"nodes": []any{
			map[string]any{"id": "n1"},
		},
	})

	var validation ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "nodes[0].type", validation.Field)
}

func TestParseRejectsEmptyWorkflow(t *testing.T) {
	_, err := Parse(map[string]any{"nodes": []any{}})
	require.Error(t, err)
}

func TestOptionalTriggerParameter(t *testing.T) {
	doc := welcomeWorkflow()
	doc["trigger"] = map[string]any{
		"parameters": map[string]any{
			"email": map[string]any{"type": "string", "required": false},
		},
	}
	doc["nodes"].([]any)[1].(map[string]any)["parameters"] = map[string]any{
		"operation": "send",
	}

	wf, err := Parse(doc)
	require.NoError(t, err)
	require.NoError(t, Validate(wf, Binding{}))
}

func TestBindingResolveDottedPath(t *testing.T) {
	binding := Binding{
		"flat.key": "direct",
		"nested":   map[string]any{"inner": map[string]any{"value": 42}},
	}

	value, ok := binding.Resolve("flat.key")
	require.True(t, ok)
	require.Equal(t, "direct", value)

	value, ok = binding.Resolve("nested.inner.value")
	require.True(t, ok)
	require.Equal(t, 42, value)

	_, ok = binding.Resolve("nested.missing")
	require.False(t, ok)
}

func TestBindingMerge(t *testing.T) {
	base := Binding{"a": 1, "b": 2}
	merged := base.Merge(Binding{"b": 3, "c": 4})

	require.Equal(t, Binding{"a": 1, "b": 3, "c": 4}, merged)
	require.Equal(t, Binding{"a": 1, "b": 2}, base)
}
