package rules

import (
	"maps"
	"slices"

	"go-classgraph-neo4j/internal/model"
)

// Resolve finds the rule for method on class. A direct rule wins whatever
// its kind. Otherwise ancestors are tried in order and the first ignore
// rule is returned; sink and source rules are not inherited.
func Resolve(class, method string, ancestors []string, repo Repository) (*Rule, bool) {
	if r, ok := repo.Lookup(class, method); ok {
		return r, true
	}
	for _, name := range ancestors {
		if r, ok := repo.Lookup(name, method); ok && r.IsIgnore() {
			return r, true
		}
	}
	return nil, false
}

// Apply writes the classification of r onto m. A nil rule leaves m
// unclassified and uninitialized.
func Apply(m *model.MethodNode, r *Rule) {
	if r == nil {
		return
	}
	m.IsSink = r.IsSink()
	m.IsPolluted = m.IsSink
	m.IsSource = r.IsSource()
	m.IsIgnore = r.IsIgnore()
	m.Actions = maps.Clone(r.Actions)
	if m.Actions == nil {
		m.Actions = map[string]string{}
	}
	m.PollutedPositions = slices.Clone(r.Polluted)
	m.IsRuleInitialized = true
	m.IsActionInitialized = true
}
