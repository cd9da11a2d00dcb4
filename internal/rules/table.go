package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ruleKey struct {
	class  string
	method string
}

// Table is an in-memory Repository. It is safe for concurrent reads once
// built.
type Table struct {
	rules map[ruleKey]*Rule
}

// NewTable indexes rules by (class, method). A later rule for the same
// pair replaces an earlier one.
func NewTable(rs ...*Rule) *Table {
	t := &Table{rules: make(map[ruleKey]*Rule, len(rs))}
	for _, r := range rs {
		t.rules[ruleKey{r.Class, r.Method}] = r
	}
	return t
}

// Lookup implements Repository.
func (t *Table) Lookup(class, method string) (*Rule, bool) {
	r, ok := t.rules[ruleKey{class, method}]
	return r, ok
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// groupFile is one entry of a rule file:
//
//	- class: java.lang.Runtime
//	  kind: sink
//	  methods:
//	    - name: exec
//	      polluted: [1]
//	      actions: {}
type groupFile struct {
	Class   string       `yaml:"class"`
	Kind    string       `yaml:"kind"`
	Methods []methodFile `yaml:"methods"`
}

type methodFile struct {
	Name     string            `yaml:"name"`
	Actions  map[string]string `yaml:"actions"`
	Polluted []int             `yaml:"polluted"`
}

// Parse decodes a rule file. JSON input is accepted.
func Parse(data []byte) (*Table, error) {
	var groups []groupFile
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	var rs []*Rule
	for i, g := range groups {
		if g.Class == "" {
			return nil, fmt.Errorf("rule group %d: missing class", i)
		}
		kind, err := ParseKind(g.Kind)
		if err != nil {
			return nil, fmt.Errorf("rule group %s: %w", g.Class, err)
		}
		for _, m := range g.Methods {
			if m.Name == "" {
				return nil, fmt.Errorf("rule group %s: method without name", g.Class)
			}
			rs = append(rs, &Rule{
				Class:    g.Class,
				Method:   m.Name,
				Kind:     kind,
				Actions:  m.Actions,
				Polluted: m.Polluted,
			})
		}
	}
	return NewTable(rs...), nil
}

// LoadFile reads and parses a rule file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return Parse(data)
}
