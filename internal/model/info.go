// Package model holds the graph entities produced by a class scan and the
// parsed class descriptors they are built from.
package model

// ClassInfo is a parsed class as supplied by a scanner. Names are fully
// qualified. SuperClass is empty when the class declares none.
type ClassInfo struct {
	Name        string       `yaml:"name" json:"name"`
	SuperClass  string       `yaml:"super,omitempty" json:"super,omitempty"`
	Interfaces  []string     `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	IsInterface bool         `yaml:"is_interface,omitempty" json:"is_interface,omitempty"`
	Fields      []FieldInfo  `yaml:"fields,omitempty" json:"fields,omitempty"`
	Methods     []MethodInfo `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// FieldInfo describes one declared field.
type FieldInfo struct {
	Name      string `yaml:"name" json:"name"`
	Modifiers int    `yaml:"modifiers" json:"modifiers"`
	Type      string `yaml:"type" json:"type"`
}

// MethodInfo describes one declared method. Overloads share a Name and
// differ by Signature.
type MethodInfo struct {
	Name      string `yaml:"name" json:"name"`
	Signature string `yaml:"signature,omitempty" json:"signature,omitempty"`
}
