package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeTypePrefix is the versioned namespace the automation engine expects in
// front of its built-in node types.
const NodeTypePrefix = "n8n-nodes-base."

// Workflow is the internal shape of a template document. The wire format
// stays freeform JSON; Parse and Document convert between the two.
type Workflow struct {
	Name        string         `json:"name,omitempty"`
	Trigger     *Trigger       `json:"trigger,omitempty"`
	Nodes       []Node         `json:"nodes"`
	Connections Connections    `json:"connections,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

type Node struct {
	ID          string         `json:"id"`
	Name        string         `json:"name,omitempty"`
	Type        string         `json:"type"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Credentials map[string]any `json:"credentials,omitempty"`
	Position    []int          `json:"position,omitempty"`
	Disabled    bool           `json:"disabled,omitempty"`
}

// Connections maps a source node (by name, or id for templates that never
// name their nodes) to its outgoing links.
type Connections map[string]NodeOutputs

type NodeOutputs struct {
	Main [][]Link `json:"main"`
}

type Link struct {
	Node  string `json:"node"`
	Type  string `json:"type,omitempty"`
	Index int    `json:"index"`
}

type Trigger struct {
	Parameters map[string]ParameterSchema `json:"parameters"`
}

// ParameterSchema declares one trigger input. Parameters are required unless
// the template says otherwise.
type ParameterSchema struct {
	Type     string `json:"type"`
	Required *bool  `json:"required,omitempty"`
}

func (s ParameterSchema) IsRequired() bool {
	return s.Required == nil || *s.Required
}

// Kind discriminates node handling during transformation. Logical provider
// kinds are author-side shorthands that must be rewritten to engine-native
// types; native kinds pass through.
type Kind int

const (
	KindOther Kind = iota
	KindNative
	KindGmail
	KindCalendar
	KindDrive
	KindSheets
)

func (n Node) Kind() Kind {
	switch n.Type {
	case "gmail":
		return KindGmail
	case "googleCalendar":
		return KindCalendar
	case "googleDrive":
		return KindDrive
	case "googleSheets":
		return KindSheets
	}

	if strings.HasPrefix(n.Type, NodeTypePrefix) || strings.HasPrefix(n.Type, "@n8n/") {
		return KindNative
	}

	return KindOther
}

// CredentialRef points the engine at the credential record a rewritten node
// should execute with.
type CredentialRef struct {
	ID   string
	Name string
}

// credentialKey is the engine-side credential slot per logical kind.
func credentialKey(kind Kind) string {
	switch kind {
	case KindGmail:
		return "gmailOAuth2"
	case KindCalendar:
		return "googleCalendarOAuth2"
	case KindDrive:
		return "googleDriveOAuth2"
	case KindSheets:
		return "googleSheetsOAuth2"
	}

	return ""
}

// Parse decodes a freeform template document into a Workflow. It only checks
// the shape of individual nodes; relational checks live in Validate.
func Parse(doc map[string]any) (*Workflow, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, ValidationError{Field: "document", Reason: err.Error()}
	}

	var wf Workflow
	if err := json.Unmarshal(b, &wf); err != nil {
		return nil, ValidationError{Field: "document", Reason: err.Error()}
	}

	if len(wf.Nodes) == 0 {
		return nil, ValidationError{Field: "nodes", Reason: "workflow must contain at least one node"}
	}

	for i, node := range wf.Nodes {
		if node.ID == "" {
			return nil, ValidationError{
				Field:  fmt.Sprintf("nodes[%d].id", i),
				Reason: "node misses an id",
			}
		}
		if node.Type == "" {
			return nil, ValidationError{
				Field:  fmt.Sprintf("nodes[%d].type", i),
				Reason: "node misses a type",
			}
		}
	}

	return &wf, nil
}

// Document converts the workflow back to the freeform JSON the engine takes.
func (w *Workflow) Document() (map[string]any, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (w *Workflow) clone() (*Workflow, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}

	var out Workflow
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
