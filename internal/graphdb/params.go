package graphdb

import (
	"encoding/json"

	"go-classgraph-neo4j/internal/model"
)

// ClassParams returns one UNWIND row per class.
func ClassParams(nodes []*model.ClassNode) []map[string]any {
	batch := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		fields := make([]string, 0, len(n.Fields()))
		for _, f := range n.Fields() {
			fields = append(fields, f.String())
		}
		batch = append(batch, map[string]any{
			"uuid":            n.ID(),
			"name":            n.Name,
			"super_class":     n.SuperClass,
			"interfaces":      append([]string{}, n.Interfaces...),
			"is_interface":    n.IsInterface,
			"has_super_class": n.HasSuperClass(),
			"has_interfaces":  n.HasInterfaces(),
			"fields":          fields,
		})
	}
	return batch
}

// MethodParams returns one row per HAS edge, carrying the method.
// Neo4j properties cannot be maps, so actions are stored as JSON.
func MethodParams(nodes []*model.ClassNode) []map[string]any {
	var batch []map[string]any
	for _, n := range nodes {
		for _, e := range n.Has {
			m := e.Method
			actions, _ := json.Marshal(m.Actions)
			positions := make([]int64, len(m.PollutedPositions))
			for i, p := range m.PollutedPositions {
				positions[i] = int64(p)
			}
			batch = append(batch, map[string]any{
				"uuid":                  m.ID,
				"edge_uuid":             e.ID,
				"name":                  m.Name,
				"signature":             m.Signature,
				"class_name":            n.Name,
				"is_sink":               m.IsSink,
				"is_source":             m.IsSource,
				"is_ignore":             m.IsIgnore,
				"is_polluted":           m.IsPolluted,
				"polluted_positions":    positions,
				"actions":               string(actions),
				"is_initialized":        m.IsRuleInitialized,
				"is_action_initialized": m.IsActionInitialized,
			})
		}
	}
	return batch
}

// ExtendParams returns one row per class with a superclass.
func ExtendParams(nodes []*model.ClassNode) []map[string]any {
	var batch []map[string]any
	for _, n := range nodes {
		if e := n.Extend; e != nil {
			batch = append(batch, map[string]any{
				"uuid":   e.ID,
				"source": e.Source,
				"target": e.Target,
			})
		}
	}
	return batch
}

// InterfaceParams returns one row per declared interface. The query
// mirrors each row.
func InterfaceParams(nodes []*model.ClassNode) []map[string]any {
	var batch []map[string]any
	for _, n := range nodes {
		for _, e := range n.InterfaceEdges {
			batch = append(batch, map[string]any{
				"uuid":   e.ID,
				"source": e.Source,
				"target": e.Target,
			})
		}
	}
	return batch
}

func chunks(rows []map[string]any, size int) [][]map[string]any {
	var out [][]map[string]any
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}
