package scan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go-classgraph-neo4j/internal/model"
)

// DefaultRootType is the universal base class of JVM programs.
const DefaultRootType = "java.lang.Object"

// Catalog is an in-memory hierarchy.Catalog that keeps declaration order.
type Catalog struct {
	root    string
	order   []string
	classes map[string]*model.ClassInfo
}

// NewCatalog indexes classes by name. Duplicate or empty names are an error.
func NewCatalog(root string, classes []*model.ClassInfo) (*Catalog, error) {
	c := &Catalog{root: root, classes: make(map[string]*model.ClassInfo, len(classes))}
	for i, cls := range classes {
		if cls == nil || cls.Name == "" {
			return nil, fmt.Errorf("class %d: missing name", i)
		}
		if _, dup := c.classes[cls.Name]; dup {
			return nil, fmt.Errorf("duplicate class %s", cls.Name)
		}
		c.classes[cls.Name] = cls
		c.order = append(c.order, cls.Name)
	}
	return c, nil
}

// Class implements hierarchy.Catalog.
func (c *Catalog) Class(name string) (*model.ClassInfo, bool) {
	cls, ok := c.classes[name]
	return cls, ok
}

// RootType implements hierarchy.Catalog.
func (c *Catalog) RootType() string { return c.root }

// Names returns class names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of classes.
func (c *Catalog) Len() int { return len(c.order) }

type catalogFile struct {
	Root    string             `yaml:"root"`
	Classes []*model.ClassInfo `yaml:"classes"`
}

// ParseCatalog decodes a catalog document (YAML or JSON). The root type in
// the document, if any, overrides root.
func ParseCatalog(data []byte, root string) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if f.Root != "" {
		root = f.Root
	}
	return NewCatalog(root, f.Classes)
}

// LoadCatalogFile reads a catalog document from path.
func LoadCatalogFile(path, root string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data, root)
}
