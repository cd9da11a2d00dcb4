// Package builder turns a parsed class into a ClassNode with classified
// methods and structural edges.
package builder

import (
	"errors"

	"go-classgraph-neo4j/internal/hierarchy"
	"go-classgraph-neo4j/internal/model"
	"go-classgraph-neo4j/internal/rules"
)

// ErrMissingName is returned for a class descriptor without a name.
var ErrMissingName = errors.New("class descriptor has no name")

// MethodFactory creates the method node for a declared method.
type MethodFactory interface {
	Make(owner model.ClassHandle, m model.MethodInfo) *model.MethodNode
}

// MethodFactoryFunc adapts a function to MethodFactory.
type MethodFactoryFunc func(owner model.ClassHandle, m model.MethodInfo) *model.MethodNode

// Make implements MethodFactory.
func (f MethodFactoryFunc) Make(owner model.ClassHandle, m model.MethodInfo) *model.MethodNode {
	return f(owner, m)
}

// DefaultMethodFactory uses model.NewMethodNode.
var DefaultMethodFactory MethodFactory = MethodFactoryFunc(model.NewMethodNode)

// Builder builds class nodes. All dependencies are read-only, so one
// Builder may serve concurrent Build calls.
type Builder struct {
	walker  *hierarchy.Walker
	repo    rules.Repository
	methods MethodFactory
	root    string
}

// New returns a Builder. A nil factory means DefaultMethodFactory.
func New(catalog hierarchy.Catalog, walker *hierarchy.Walker, repo rules.Repository, methods MethodFactory) *Builder {
	if walker == nil {
		walker = hierarchy.NewWalker(catalog, 0)
	}
	if methods == nil {
		methods = DefaultMethodFactory
	}
	return &Builder{
		walker:  walker,
		repo:    repo,
		methods: methods,
		root:    catalog.RootType(),
	}
}

// Build creates the node for class. Superclass and interface edges come
// from direct declarations; the ancestor closure is used only to resolve
// rules.
func (b *Builder) Build(class *model.ClassInfo) (*model.ClassNode, error) {
	if class == nil || class.Name == "" {
		return nil, ErrMissingName
	}
	node := model.NewClassNode(class.Name)
	node.IsInterface = class.IsInterface
	node.SetSuperClass(class.SuperClass, b.root)
	for _, iface := range class.Interfaces {
		node.AddInterface(iface)
	}
	for _, f := range class.Fields {
		node.AddField(model.SummarizeField(f))
	}

	if len(class.Methods) == 0 {
		return node, nil
	}
	ancestors := b.walker.Closure(class)
	for _, m := range class.Methods {
		method := b.methods.Make(node.Handle(), m)
		rule, _ := rules.Resolve(node.Name, method.Name, ancestors, b.repo)
		rules.Apply(method, rule)
		node.AddMethod(method)
	}
	return node, nil
}

// Reclassify re-runs resolution for the methods of node that no rule has
// initialized yet, using repo. It returns the methods that got a rule.
func (b *Builder) Reclassify(node *model.ClassNode, class *model.ClassInfo, repo rules.Repository) []*model.MethodNode {
	var ancestors []string
	var done []*model.MethodNode
	for _, m := range node.Methods() {
		if m.IsRuleInitialized {
			continue
		}
		if ancestors == nil {
			ancestors = b.walker.Closure(class)
		}
		if rule, ok := rules.Resolve(node.Name, m.Name, ancestors, repo); ok {
			rules.Apply(m, rule)
			done = append(done, m)
		}
	}
	return done
}
