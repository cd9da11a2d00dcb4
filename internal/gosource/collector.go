// Package gosource exposes the named types of a Go module as a class
// catalog, so Go code can be scanned like a JVM class set.
//
// Structs and interfaces become classes. The first embedded struct is the
// superclass; a struct's interfaces are the project interfaces it (or its
// pointer) implements; an interface's interfaces are those it embeds.
package gosource

import (
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"go-classgraph-neo4j/internal/model"
	"go-classgraph-neo4j/internal/scan"
)

// Field modifier bits.
const (
	ModExported   = 0x1
	ModUnexported = 0x2
	ModEmbedded   = 0x1000
)

// LoadMode is the packages.Load mode the collector needs.
const LoadMode = packages.NeedName | packages.NeedTypes | packages.NeedImports | packages.NeedDeps

type namedType struct {
	key   string
	named *types.Named
	info  *model.ClassInfo
}

// Collector gathers named types from packages of one module.
type Collector struct {
	RootModule string

	structs    []namedType
	interfaces []namedType
}

// NewCollector creates a Collector scoped to the given root module path.
func NewCollector(rootModule string) *Collector {
	return &Collector{RootModule: rootModule}
}

// Load runs packages.Load on patterns in dir and collects the result.
func (c *Collector) Load(dir string, patterns ...string) error {
	cfg := &packages.Config{Mode: LoadMode, Dir: dir}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return err
	}
	c.CollectPackages(pkgs)
	return nil
}

// isProjectPackage reports whether pkgPath belongs to the analysed module.
func (c *Collector) isProjectPackage(pkgPath string) bool {
	return strings.HasPrefix(pkgPath, c.RootModule)
}

// CollectPackages walks pkgs and their imports, keeping project packages.
func (c *Collector) CollectPackages(pkgs []*packages.Package) {
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !c.isProjectPackage(pkg.PkgPath) || pkg.Types == nil {
			return
		}
		c.CollectScope(pkg.PkgPath, pkg.Types.Scope())
	})
}

// CollectScope records the struct and interface types declared in scope.
func (c *Collector) CollectScope(pkgPath string, scope *types.Scope) {
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		key := pkgPath + "." + name
		switch t := named.Underlying().(type) {
		case *types.Struct:
			info := &model.ClassInfo{Name: key}
			for i := 0; i < t.NumFields(); i++ {
				f := t.Field(i)
				info.Fields = append(info.Fields, fieldInfo(f))
				if f.Embedded() && info.SuperClass == "" {
					if super, ok := embeddedStruct(f.Type()); ok {
						info.SuperClass = super
					}
				}
			}
			for i := 0; i < named.NumMethods(); i++ {
				info.Methods = append(info.Methods, methodInfo(named.Method(i)))
			}
			c.structs = append(c.structs, namedType{key, named, info})
		case *types.Interface:
			info := &model.ClassInfo{Name: key, IsInterface: true}
			for i := 0; i < t.NumEmbeddeds(); i++ {
				if e, ok := t.EmbeddedType(i).(*types.Named); ok {
					info.Interfaces = append(info.Interfaces, typeKey(e))
				}
			}
			for i := 0; i < t.NumExplicitMethods(); i++ {
				info.Methods = append(info.Methods, methodInfo(t.ExplicitMethod(i)))
			}
			c.interfaces = append(c.interfaces, namedType{key, named, info})
		}
	}
}

// Catalog resolves implemented interfaces and returns the catalog. Go has
// no universal base type, so the root type is empty.
func (c *Collector) Catalog() (*scan.Catalog, error) {
	var ifaces []namedType
	for _, it := range c.interfaces {
		if it.named.Underlying().(*types.Interface).NumMethods() > 0 { // skip empty interfaces
			ifaces = append(ifaces, it)
		}
	}
	classes := make([]*model.ClassInfo, 0, len(c.structs)+len(c.interfaces))
	for _, st := range c.structs {
		st.info.Interfaces = nil
		ptr := types.NewPointer(st.named)
		for _, it := range ifaces {
			iface := it.named.Underlying().(*types.Interface)
			if types.Implements(st.named, iface) || types.Implements(ptr, iface) {
				st.info.Interfaces = append(st.info.Interfaces, it.key)
			}
		}
		sort.Strings(st.info.Interfaces)
		classes = append(classes, st.info)
	}
	for _, it := range c.interfaces {
		classes = append(classes, it.info)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return scan.NewCatalog("", classes)
}

func fieldInfo(f *types.Var) model.FieldInfo {
	mods := ModUnexported
	if f.Exported() {
		mods = ModExported
	}
	if f.Embedded() {
		mods |= ModEmbedded
	}
	return model.FieldInfo{Name: f.Name(), Modifiers: mods, Type: f.Type().String()}
}

func methodInfo(fn *types.Func) model.MethodInfo {
	sig := fn.Type().(*types.Signature)
	// Drop the receiver so overloads compare on parameters only.
	plain := types.NewSignatureType(nil, nil, nil, sig.Params(), sig.Results(), sig.Variadic())
	return model.MethodInfo{Name: fn.Name(), Signature: plain.String()}
}

func embeddedStruct(t types.Type) (string, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return "", false
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return "", false
	}
	return typeKey(named), true
}

func typeKey(n *types.Named) string {
	obj := n.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}
