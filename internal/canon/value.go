package canon

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the encodable value kinds.
// There is no null: optional fields are omitted from their Object instead.
type Value interface {
	canonValue()
}

// String is a string value. It is NFC normalized when marshaled.
type String string

func (String) canonValue() {}

// Int is an integer value.
type Int int64

func (Int) canonValue() {}

// Float is a finite floating point value.
type Float float64

func (Float) canonValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) canonValue() {}

// Array is an ordered sequence. Position participates in identity.
type Array []Value

func (Array) canonValue() {}

// Set is an unordered collection. Elements are sorted by their encoding and
// duplicates collapse, so position never participates in identity.
type Set []Value

func (Set) canonValue() {}

// Object maps string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) canonValue() {}

// SetOptional stores v under key when v is non-nil.
func (obj Object) SetOptional(key string, v *float64) {
	if v != nil {
		obj[key] = Float(*v)
	}
}

// SortedKeys returns keys in UTF-16 code unit order.
// Go's sort.Strings uses UTF-8 byte order, which differs for supplementary planes.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
