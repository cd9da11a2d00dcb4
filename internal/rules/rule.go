// Package rules classifies methods as taint sinks, sources or ignored
// calls from a read-only rule table.
package rules

import "fmt"

// Kind is the classification a rule assigns.
type Kind string

const (
	KindSink   Kind = "sink"
	KindSource Kind = "source"
	KindIgnore Kind = "ignore"
	// KindKnow marks a method as reviewed and uninteresting.
	KindKnow Kind = "know"
)

// ParseKind validates s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSink, KindSource, KindIgnore, KindKnow:
		return k, nil
	}
	return "", fmt.Errorf("unknown rule kind %q", s)
}

// Rule is the classification of one (class, method) pair.
type Rule struct {
	Class    string
	Method   string
	Kind     Kind
	Actions  map[string]string
	Polluted []int
}

func (r *Rule) IsSink() bool   { return r.Kind == KindSink }
func (r *Rule) IsSource() bool { return r.Kind == KindSource }
func (r *Rule) IsIgnore() bool { return r.Kind == KindIgnore }

// Repository finds the rule for a method declared directly on a class.
// Implementations are read-only for the duration of a scan.
type Repository interface {
	Lookup(class, method string) (*Rule, bool)
}
