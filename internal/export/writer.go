package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"go-classgraph-neo4j/internal/model"
)

// File names written by Writer.
const (
	ClassesFile    = "classes.csv"
	MethodsFile    = "methods.csv"
	ExtendFile     = "extend.csv"
	HasFile        = "has.csv"
	InterfacesFile = "interfaces.csv"
)

// Relations are the relationship rows of a scan with endpoint IDs resolved.
type Relations struct {
	Extend     [][]string
	Has        [][]string
	Interfaces [][]string
	// Dropped counts edges whose target class was not scanned.
	Dropped int
}

// BuildRelations resolves edge targets by class name. INTERFACE edges are
// emitted in both directions.
func BuildRelations(nodes []*model.ClassNode) Relations {
	ids := make(map[string]string, len(nodes))
	for _, n := range nodes {
		ids[n.Name] = n.ID()
	}
	var rel Relations
	for _, n := range nodes {
		if e := n.Extend; e != nil {
			if target, ok := ids[e.Target]; ok {
				rel.Extend = append(rel.Extend, []string{e.ID, n.ID(), target})
			} else {
				rel.Dropped++
			}
		}
		for _, e := range n.Has {
			rel.Has = append(rel.Has, []string{e.ID, n.ID(), e.Method.ID})
		}
		for _, e := range n.InterfaceEdges {
			target, ok := ids[e.Target]
			if !ok {
				rel.Dropped++
				continue
			}
			rel.Interfaces = append(rel.Interfaces,
				[]string{e.ID, n.ID(), target},
				[]string{e.ID + "-r", target, n.ID()},
			)
		}
	}
	return rel
}

// Writer writes a scan as CSV files into Dir.
type Writer struct {
	Dir    string
	Logger *slog.Logger
}

// WriteAll writes every file for nodes.
func (w *Writer) WriteAll(nodes []*model.ClassNode) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	classes := make([][]string, 0, len(nodes))
	var methods [][]string
	for _, n := range nodes {
		classes = append(classes, ClassRow(n))
		for _, m := range n.Methods() {
			methods = append(methods, MethodRow(m))
		}
	}
	rel := BuildRelations(nodes)
	if rel.Dropped > 0 {
		logger.Warn("edges to unscanned classes dropped", "count", rel.Dropped)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{ClassesFile, ClassHeader, classes},
		{MethodsFile, MethodHeader, methods},
		{ExtendFile, RelationHeader, rel.Extend},
		{HasFile, RelationHeader, rel.Has},
		{InterfacesFile, RelationHeader, rel.Interfaces},
	}
	for _, f := range files {
		logger.Info("writing csv", "file", f.name, "rows", len(f.rows))
		if err := writeCSV(filepath.Join(w.Dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func sortedActions(actions map[string]string) []string {
	out := make([]string, 0, len(actions))
	for k, v := range actions {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
