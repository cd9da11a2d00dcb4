package model

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// FieldSummary is the canonical form of a field: name, modifier bitmask and
// declared type. Two fields with equal summaries are the same set entry.
type FieldSummary struct {
	Name      string
	Modifiers string
	Type      string
}

// SummarizeField converts a parsed field into its summary.
func SummarizeField(f FieldInfo) FieldSummary {
	return FieldSummary{
		Name:      f.Name,
		Modifiers: strconv.Itoa(f.Modifiers),
		Type:      f.Type,
	}
}

// String renders the summary as a JSON array, e.g. ["out","9","java.io.PrintStream"].
func (s FieldSummary) String() string {
	b, _ := json.Marshal([]string{s.Name, s.Modifiers, s.Type})
	return string(b)
}

// ParseFieldSummary reverses String.
func ParseFieldSummary(s string) (FieldSummary, bool) {
	var parts []string
	if err := json.Unmarshal([]byte(s), &parts); err != nil || len(parts) != 3 {
		return FieldSummary{}, false
	}
	return FieldSummary{Name: parts[0], Modifiers: parts[1], Type: parts[2]}, true
}

// ClassNode is the graph node for one class. It is filled in by a single
// builder and treated as read-only afterwards.
type ClassNode struct {
	id string

	Name        string
	SuperClass  string
	Interfaces  []string
	IsInterface bool

	fields   []FieldSummary
	fieldSet map[FieldSummary]struct{}

	Extend         *ExtendEdge
	Has            []*HasEdge
	InterfaceEdges []*InterfaceEdge
}

// NewClassNode returns an empty node with a fresh ID.
func NewClassNode(name string) *ClassNode {
	return &ClassNode{
		id:         uuid.NewString(),
		Name:       name,
		Interfaces: []string{},
		fieldSet:   make(map[FieldSummary]struct{}),
	}
}

// ID returns the identifier assigned at creation.
func (c *ClassNode) ID() string { return c.id }

// Handle names the node for method owners.
func (c *ClassNode) Handle() ClassHandle { return ClassHandle{Name: c.Name} }

// HasSuperClass reports whether a (non-root) superclass is recorded.
func (c *ClassNode) HasSuperClass() bool { return c.SuperClass != "" }

// HasInterfaces reports whether any interface is declared.
func (c *ClassNode) HasInterfaces() bool { return len(c.Interfaces) > 0 }

// SetSuperClass records the superclass and its EXTEND edge. The root type
// and the empty name are ignored.
func (c *ClassNode) SetSuperClass(name, root string) {
	if name == "" || name == root {
		return
	}
	c.SuperClass = name
	c.Extend = &ExtendEdge{ID: uuid.NewString(), Source: c.Name, Target: name}
}

// AddInterface appends a directly declared interface and its edge.
func (c *ClassNode) AddInterface(name string) {
	c.Interfaces = append(c.Interfaces, name)
	c.InterfaceEdges = append(c.InterfaceEdges, &InterfaceEdge{
		ID:     uuid.NewString(),
		Source: c.Name,
		Target: name,
	})
}

// AddField inserts a summary. It returns false if an equal summary is
// already present.
func (c *ClassNode) AddField(s FieldSummary) bool {
	if _, ok := c.fieldSet[s]; ok {
		return false
	}
	c.fieldSet[s] = struct{}{}
	c.fields = append(c.fields, s)
	return true
}

// Fields returns the field summaries in first-insertion order.
func (c *ClassNode) Fields() []FieldSummary {
	out := make([]FieldSummary, len(c.fields))
	copy(out, c.fields)
	return out
}

// AddMethod appends a HAS edge to m. Repeated names are kept.
func (c *ClassNode) AddMethod(m *MethodNode) *HasEdge {
	e := &HasEdge{ID: uuid.NewString(), Class: c.Name, Method: m}
	c.Has = append(c.Has, e)
	return e
}

// Methods returns the method nodes in declaration order.
func (c *ClassNode) Methods() []*MethodNode {
	out := make([]*MethodNode, 0, len(c.Has))
	for _, e := range c.Has {
		out = append(out, e.Method)
	}
	return out
}
