// Package hierarchy computes the transitive ancestors of a class.
package hierarchy

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"go-classgraph-neo4j/internal/model"
)

// Catalog looks up parsed classes by name. It must not change while a
// Walker is using it.
type Catalog interface {
	Class(name string) (*model.ClassInfo, bool)
	// RootType is the universal base type, never reported as an ancestor.
	RootType() string
}

// Walker collects superclasses and interfaces transitively.
type Walker struct {
	catalog Catalog
	cache   *lru.Cache[string, []string]
}

// NewWalker returns a walker over catalog. A positive cacheSize memoizes
// closures by class name; the cache is safe for concurrent use.
func NewWalker(catalog Catalog, cacheSize int) *Walker {
	w := &Walker{catalog: catalog}
	if cacheSize > 0 {
		// only fails for a non-positive size
		w.cache, _ = lru.New[string, []string](cacheSize)
	}
	return w
}

// Closure returns every ancestor of class in depth-first preorder, the
// superclass branch before the interface branches. Each name appears once.
// Ancestors the catalog does not know are listed but not expanded. The
// returned slice may be shared and must not be modified.
func (w *Walker) Closure(class *model.ClassInfo) []string {
	if class == nil {
		return nil
	}
	if w.cache != nil {
		if names, ok := w.cache.Get(class.Name); ok {
			return names
		}
	}
	visited := map[string]bool{class.Name: true}
	names := []string{}
	w.walk(class, visited, &names)
	if w.cache != nil {
		w.cache.Add(class.Name, names)
	}
	return names
}

func (w *Walker) walk(class *model.ClassInfo, visited map[string]bool, out *[]string) {
	root := w.catalog.RootType()
	if class.SuperClass != "" && class.SuperClass != root {
		w.visit(class.SuperClass, visited, out)
	}
	for _, iface := range class.Interfaces {
		if iface == root {
			continue
		}
		w.visit(iface, visited, out)
	}
}

func (w *Walker) visit(name string, visited map[string]bool, out *[]string) {
	if visited[name] {
		return
	}
	visited[name] = true
	*out = append(*out, name)
	if parent, ok := w.catalog.Class(name); ok {
		w.walk(parent, visited, out)
	}
}
