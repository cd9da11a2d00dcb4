package model

// Relationship types as stored in the graph.
const (
	RelExtend    = "EXTEND"
	RelHas       = "HAS"
	RelInterface = "INTERFACE"
)

// ExtendEdge links a class to its superclass. Endpoints are class names;
// IDs are resolved when the scan is persisted.
type ExtendEdge struct {
	ID     string
	Source string
	Target string
}

// HasEdge links a class to one of its methods. It is undirected in the graph.
type HasEdge struct {
	ID     string
	Class  string
	Method *MethodNode
}

// InterfaceEdge links a class to a declared interface. It is stored in
// both directions so either end can be the query origin.
type InterfaceEdge struct {
	ID     string
	Source string
	Target string
}
