// Package export flattens scan results into CSV rows for bulk graph import.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"go-classgraph-neo4j/internal/model"
)

// Delimiter joins list values inside one CSV cell. Names that contain it
// do not survive ParseClassRow.
const Delimiter = "|"

// ClassHeader names the ClassRow columns.
var ClassHeader = []string{
	"id", "name", "super_class", "interfaces",
	"is_interface", "has_super_class", "has_interfaces", "fields",
}

// ClassRow flattens a class node in ClassHeader order.
func ClassRow(c *model.ClassNode) []string {
	fields := c.Fields()
	encoded := make([]string, len(fields))
	for i, f := range fields {
		encoded[i] = f.String()
	}
	return []string{
		c.ID(),
		c.Name,
		c.SuperClass,
		strings.Join(c.Interfaces, Delimiter),
		strconv.FormatBool(c.IsInterface),
		strconv.FormatBool(c.HasSuperClass()),
		strconv.FormatBool(c.HasInterfaces()),
		strings.Join(encoded, Delimiter),
	}
}

// ClassRecord is a parsed class row.
type ClassRecord struct {
	ID            string
	Name          string
	SuperClass    string
	Interfaces    []string
	IsInterface   bool
	HasSuperClass bool
	HasInterfaces bool
	Fields        []string
}

// ParseClassRow reads a row written by ClassRow.
func ParseClassRow(row []string) (ClassRecord, error) {
	if len(row) != len(ClassHeader) {
		return ClassRecord{}, fmt.Errorf("class row has %d columns, want %d", len(row), len(ClassHeader))
	}
	rec := ClassRecord{
		ID:         row[0],
		Name:       row[1],
		SuperClass: row[2],
		Interfaces: splitList(row[3]),
		Fields:     splitList(row[7]),
	}
	var err error
	for i, dst := range []*bool{&rec.IsInterface, &rec.HasSuperClass, &rec.HasInterfaces} {
		if *dst, err = strconv.ParseBool(row[4+i]); err != nil {
			return ClassRecord{}, fmt.Errorf("column %s: %w", ClassHeader[4+i], err)
		}
	}
	return rec, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Delimiter)
}

// MethodHeader names the MethodRow columns.
var MethodHeader = []string{
	"id", "name", "signature", "class_name",
	"is_sink", "is_source", "is_ignore", "is_polluted",
	"polluted_positions", "actions", "is_initialized", "is_action_initialized",
}

// MethodRow flattens a method node in MethodHeader order. Actions are
// written as sorted key=value pairs.
func MethodRow(m *model.MethodNode) []string {
	positions := make([]string, len(m.PollutedPositions))
	for i, p := range m.PollutedPositions {
		positions[i] = strconv.Itoa(p)
	}
	return []string{
		m.ID,
		m.Name,
		m.Signature,
		m.ClassName,
		strconv.FormatBool(m.IsSink),
		strconv.FormatBool(m.IsSource),
		strconv.FormatBool(m.IsIgnore),
		strconv.FormatBool(m.IsPolluted),
		strings.Join(positions, Delimiter),
		strings.Join(sortedActions(m.Actions), Delimiter),
		strconv.FormatBool(m.IsRuleInitialized),
		strconv.FormatBool(m.IsActionInitialized),
	}
}

// RelationHeader names the columns of relationship rows.
var RelationHeader = []string{"id", "source", "target"}
