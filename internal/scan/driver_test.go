package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-classgraph-neo4j/internal/model"
	"go-classgraph-neo4j/internal/rules"
)

const sampleCatalog = `
classes:
  - name: java.lang.Object
    methods:
      - name: hashCode
  - name: com.example.Base
    super: java.lang.Object
    interfaces: [java.io.Closeable]
    methods:
      - name: exec
      - name: close
  - name: java.io.Closeable
    is_interface: true
    super: java.lang.Object
    methods:
      - name: close
  - name: com.example.Handler
    super: com.example.Base
    fields:
      - {name: cmd, modifiers: 2, type: java.lang.String}
    methods:
      - name: exec
      - name: close
      - name: hashCode
`

func sampleRepo() *rules.Table {
	return rules.NewTable(
		&rules.Rule{Class: "com.example.Base", Method: "exec", Kind: rules.KindSink, Polluted: []int{0}},
		&rules.Rule{Class: "java.io.Closeable", Method: "close", Kind: rules.KindIgnore},
		&rules.Rule{Class: "java.lang.Object", Method: "hashCode", Kind: rules.KindIgnore},
	)
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(sampleCatalog), DefaultRootType)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, DefaultRootType, c.RootType())
	assert.Equal(t, "com.example.Base", c.Names()[1])

	h, ok := c.Class("com.example.Handler")
	require.True(t, ok)
	assert.Equal(t, "com.example.Base", h.SuperClass)
	require.Len(t, h.Fields, 1)
	assert.Equal(t, 2, h.Fields[0].Modifiers)
}

func TestParseCatalog_RootOverride(t *testing.T) {
	c, err := ParseCatalog([]byte("root: System.Object\nclasses: []\n"), DefaultRootType)
	require.NoError(t, err)
	assert.Equal(t, "System.Object", c.RootType())
}

func TestNewCatalog_Errors(t *testing.T) {
	_, err := NewCatalog(DefaultRootType, []*model.ClassInfo{{Name: "A"}, {Name: "A"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewCatalog(DefaultRootType, []*model.ClassInfo{{}})
	assert.ErrorContains(t, err, "missing name")
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	c, err := LoadCatalogFile(path, DefaultRootType)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestDriver_Run(t *testing.T) {
	catalog, err := ParseCatalog([]byte(sampleCatalog), DefaultRootType)
	require.NoError(t, err)
	metrics := NewMetrics()
	d := NewDriver(catalog, sampleRepo(), Options{Workers: 3, CacheSize: 16, Metrics: metrics})

	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Nodes, 4)
	for i, name := range catalog.Names() {
		assert.Equal(t, name, res.Nodes[i].Name, "input order kept")
	}

	handler, ok := res.Node("com.example.Handler")
	require.True(t, ok)
	assert.True(t, handler.HasSuperClass())
	kinds := map[string]*model.MethodNode{}
	for _, m := range handler.Methods() {
		kinds[m.Name] = m
	}
	assert.False(t, kinds["exec"].IsSink, "sink on Base is not inherited")
	assert.False(t, kinds["exec"].IsRuleInitialized)
	assert.True(t, kinds["close"].IsIgnore, "ignore through Base's interface")
	// java.lang.Object is the root and never an ancestor.
	assert.False(t, kinds["hashCode"].IsRuleInitialized)

	base, _ := res.Node("com.example.Base")
	assert.True(t, base.Methods()[0].IsSink)

	unclassified := res.Unclassified()
	assert.Len(t, unclassified["com.example.Handler"], 2)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.classes.WithLabelValues("class")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.classes.WithLabelValues("interface")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.methods.WithLabelValues("sink")))
}

func TestDriver_RunErrors(t *testing.T) {
	catalog, err := ParseCatalog([]byte(sampleCatalog), DefaultRootType)
	require.NoError(t, err)
	d := NewDriver(catalog, sampleRepo(), Options{})

	_, err = d.Run(context.Background(), []string{"com.example.Base", "com.example.Base"})
	assert.ErrorContains(t, err, "twice")

	_, err = d.Run(context.Background(), []string{"com.example.Missing"})
	assert.ErrorContains(t, err, "not in catalog")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriver_ManyClassesInParallel(t *testing.T) {
	var classes []*model.ClassInfo
	for i := 0; i < 200; i++ {
		cls := &model.ClassInfo{Name: fmt.Sprintf("C%d", i), Methods: []model.MethodInfo{{Name: "m"}}}
		if i > 0 {
			cls.SuperClass = fmt.Sprintf("C%d", i-1)
		}
		classes = append(classes, cls)
	}
	catalog, err := NewCatalog(DefaultRootType, classes)
	require.NoError(t, err)
	repo := rules.NewTable(&rules.Rule{Class: "C0", Method: "m", Kind: rules.KindIgnore})

	res, err := NewDriver(catalog, repo, Options{Workers: 8, CacheSize: 64}).Run(context.Background(), nil)
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, n := range res.Nodes {
		assert.False(t, ids[n.ID()], "duplicate id")
		ids[n.ID()] = true
		assert.True(t, n.Methods()[0].IsIgnore, n.Name)
	}
}

func TestDriver_Reresolve(t *testing.T) {
	catalog, err := ParseCatalog([]byte(sampleCatalog), DefaultRootType)
	require.NoError(t, err)
	metrics := NewMetrics()
	d := NewDriver(catalog, sampleRepo(), Options{Metrics: metrics})
	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)

	extra := rules.NewTable(&rules.Rule{Class: "com.example.Handler", Method: "exec", Kind: rules.KindSink})
	assert.Equal(t, 1, d.Reresolve(res, extra))
	assert.Len(t, res.Unclassified()["com.example.Handler"], 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.methods.WithLabelValues("reclassified_sink")))
}

func TestMetrics_WriteFile(t *testing.T) {
	m := NewMetrics()
	m.observe(model.NewClassNode("A"))
	path := filepath.Join(t.TempDir(), "scan.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `classgraph_classes_total{type="class"} 1`))
}
