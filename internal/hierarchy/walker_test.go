package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-classgraph-neo4j/internal/model"
)

type mapCatalog map[string]*model.ClassInfo

func (c mapCatalog) Class(name string) (*model.ClassInfo, bool) {
	cls, ok := c[name]
	return cls, ok
}

func (c mapCatalog) RootType() string { return "java.lang.Object" }

func newCatalog(classes ...*model.ClassInfo) mapCatalog {
	c := mapCatalog{}
	for _, cls := range classes {
		c[cls.Name] = cls
	}
	return c
}

func TestWalker_Closure(t *testing.T) {
	catalog := newCatalog(
		&model.ClassInfo{Name: "java.lang.Object"},
		&model.ClassInfo{Name: "Base", SuperClass: "java.lang.Object", Interfaces: []string{"Closeable"}},
		&model.ClassInfo{Name: "Closeable", IsInterface: true, SuperClass: "java.lang.Object", Interfaces: []string{"AutoCloseable"}},
		&model.ClassInfo{Name: "AutoCloseable", IsInterface: true, SuperClass: "java.lang.Object"},
		&model.ClassInfo{Name: "Mid", SuperClass: "Base", Interfaces: []string{"Serializable"}},
		&model.ClassInfo{Name: "Leaf", SuperClass: "Mid", Interfaces: []string{"Runnable", "Closeable"}},
	)
	w := NewWalker(catalog, 0)

	tests := []struct {
		name  string
		class string
		want  []string
	}{
		{"root elided", "Base", []string{"Closeable", "AutoCloseable"}},
		{"no ancestors", "AutoCloseable", []string{}},
		// Serializable and Runnable are unknown: listed but not expanded.
		{"superclass branch first", "Mid", []string{"Base", "Closeable", "AutoCloseable", "Serializable"}},
		{"diamond listed once", "Leaf", []string{"Mid", "Base", "Closeable", "AutoCloseable", "Serializable", "Runnable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, _ := catalog.Class(tt.class)
			got := w.Closure(cls)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "java.lang.Object")
		})
	}
}

func TestWalker_CycleTerminates(t *testing.T) {
	catalog := newCatalog(
		&model.ClassInfo{Name: "A", SuperClass: "B"},
		&model.ClassInfo{Name: "B", SuperClass: "C"},
		&model.ClassInfo{Name: "C", SuperClass: "A", Interfaces: []string{"B"}},
	)
	cls, _ := catalog.Class("A")
	assert.Equal(t, []string{"B", "C"}, NewWalker(catalog, 0).Closure(cls))
}

func TestWalker_Cache(t *testing.T) {
	catalog := newCatalog(
		&model.ClassInfo{Name: "A"},
		&model.ClassInfo{Name: "B", SuperClass: "A"},
	)
	w := NewWalker(catalog, 8)
	cls, _ := catalog.Class("B")

	first := w.Closure(cls)
	// a cached closure survives catalog edits
	catalog["B"] = &model.ClassInfo{Name: "B"}
	assert.Equal(t, first, w.Closure(cls))
	assert.Equal(t, []string{"A"}, first)
}

func TestWalker_NilClass(t *testing.T) {
	assert.Nil(t, NewWalker(newCatalog(), 0).Closure(nil))
}
