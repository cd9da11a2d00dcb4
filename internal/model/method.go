package model

import "github.com/google/uuid"

// ClassHandle refers to a class by name without holding the node.
type ClassHandle struct {
	Name string
}

// MethodNode is a method of a class together with its taint classification.
type MethodNode struct {
	ID        string
	Name      string
	Signature string
	ClassName string

	IsSink     bool
	IsSource   bool
	IsIgnore   bool
	IsPolluted bool

	PollutedPositions []int
	Actions           map[string]string

	// IsRuleInitialized is false when no rule applied; later passes retry
	// only those methods.
	IsRuleInitialized   bool
	IsActionInitialized bool
}

// NewMethodNode returns an unclassified method owned by owner.
func NewMethodNode(owner ClassHandle, m MethodInfo) *MethodNode {
	return &MethodNode{
		ID:        uuid.NewString(),
		Name:      m.Name,
		Signature: m.Signature,
		ClassName: owner.Name,
		Actions:   map[string]string{},
	}
}
