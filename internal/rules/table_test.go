package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
- class: java.lang.Runtime
  kind: sink
  methods:
    - name: exec
      polluted: [1]
      actions:
        return: param-0
- class: java.lang.Object
  kind: ignore
  methods:
    - name: hashCode
    - name: toString
- class: java.lang.String
  kind: know
  methods:
    - name: length
`

func TestParse(t *testing.T) {
	table, err := Parse([]byte(sampleRules))
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	exec, ok := table.Lookup("java.lang.Runtime", "exec")
	require.True(t, ok)
	assert.True(t, exec.IsSink())
	assert.Equal(t, []int{1}, exec.Polluted)
	assert.Equal(t, "param-0", exec.Actions["return"])

	hash, ok := table.Lookup("java.lang.Object", "hashCode")
	require.True(t, ok)
	assert.True(t, hash.IsIgnore())

	length, ok := table.Lookup("java.lang.String", "length")
	require.True(t, ok)
	assert.False(t, length.IsSink() || length.IsSource() || length.IsIgnore())

	_, ok = table.Lookup("java.lang.Runtime", "hashCode")
	assert.False(t, ok)
}

func TestParse_JSON(t *testing.T) {
	table, err := Parse([]byte(`[{"class":"A","kind":"source","methods":[{"name":"read"}]}]`))
	require.NoError(t, err)
	r, ok := table.Lookup("A", "read")
	require.True(t, ok)
	assert.True(t, r.IsSource())
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"missing class":  `[{"kind":"sink","methods":[{"name":"m"}]}]`,
		"unknown kind":   `[{"class":"A","kind":"danger","methods":[{"name":"m"}]}]`,
		"unnamed method": `[{"class":"A","kind":"sink","methods":[{}]}]`,
		"not a list":     `class: A`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
