package ir

import (
	"slices"
	"unicode/utf16"
)

// Node is a sealed interface over canonical tree values.
type Node interface {
	irNode()
}

// String is a text node.
type String string

func (String) irNode() {}

// Int is an integer node.
type Int int64

func (Int) irNode() {}

// Bool is a boolean node.
type Bool bool

func (Bool) irNode() {}

// Array is an ordered list of nodes.
type Array []Node

func (Array) irNode() {}

// Object maps keys to nodes. Iterate with SortedKeys.
type Object map[string]Node

func (Object) irNode() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units, not bytes).
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	return slices.Compare(ua, ub)
}
