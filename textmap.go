// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

// ValueKind discriminates the dynamic type carried by a Value.
type ValueKind int

// The four value shapes the text-config grammar produces (spec.md §3/§4.5).
const (
	ValInt ValueKind = iota
	ValString
	ValList
	ValMap
)

// Value is one of: a signed 64-bit integer, a string, a list of
// (string|integer) values, or a nested LvmTextMap.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
	List []Value
	Map  *LvmTextMap
}

// IntValue wraps an integer.
func IntValue(v int64) Value { return Value{Kind: ValInt, Int: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{Kind: ValString, Str: v} }

// ListValue wraps a list of scalar values.
func ListValue(items ...Value) Value { return Value{Kind: ValList, List: items} }

// MapValue wraps a nested map.
func MapValue(m *LvmTextMap) Value { return Value{Kind: ValMap, Map: m} }

type textMapEntry struct {
	key string
	val Value
}

// LvmTextMap is an insertion-ordered mapping from string keys to Values.
// Insertion order must be preserved through a parse/serialize round trip
// (spec.md §3/§9).
type LvmTextMap struct {
	entries []textMapEntry
	index   map[string]int
}

// NewLvmTextMap returns an empty, ready-to-use map.
func NewLvmTextMap() *LvmTextMap {
	return &LvmTextMap{index: make(map[string]int)}
}

// Keys returns the keys in insertion order.
func (m *LvmTextMap) Keys() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.key
	}
	return out
}

// Len returns the number of entries.
func (m *LvmTextMap) Len() int { return len(m.entries) }

// Get returns the value at key and whether it was present.
func (m *LvmTextMap) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.entries[i].val, true
}

// GetInt returns the integer at key.
func (m *LvmTextMap) GetInt(key string) (int64, bool) {
	v, ok := m.Get(key)
	if !ok || v.Kind != ValInt {
		return 0, false
	}
	return v.Int, true
}

// GetString returns the string at key.
func (m *LvmTextMap) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok || v.Kind != ValString {
		return "", false
	}
	return v.Str, true
}

// GetList returns the list at key.
func (m *LvmTextMap) GetList(key string) ([]Value, bool) {
	v, ok := m.Get(key)
	if !ok || v.Kind != ValList {
		return nil, false
	}
	return v.List, true
}

// GetMap returns the nested map at key.
func (m *LvmTextMap) GetMap(key string) (*LvmTextMap, bool) {
	v, ok := m.Get(key)
	if !ok || v.Kind != ValMap {
		return nil, false
	}
	return v.Map, true
}

// set inserts or overwrites key unconditionally — used for programmatic
// construction (the VG<->textmap bridge), where "overwrite" is the
// expected behavior of repeated assignment rather than a parse-time
// duplicate-key violation.
func (m *LvmTextMap) set(key string, val Value) {
	if i, ok := m.index[key]; ok {
		m.entries[i].val = val
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, textMapEntry{key: key, val: val})
}

// SetInt sets key to an integer value.
func (m *LvmTextMap) SetInt(key string, v int64) { m.set(key, IntValue(v)) }

// SetString sets key to a string value.
func (m *LvmTextMap) SetString(key string, v string) { m.set(key, StringValue(v)) }

// SetList sets key to a list value.
func (m *LvmTextMap) SetList(key string, items []Value) { m.set(key, Value{Kind: ValList, List: items}) }

// SetMap sets key to a nested-map value.
func (m *LvmTextMap) SetMap(key string, v *LvmTextMap) { m.set(key, MapValue(v)) }

// insertUnique inserts key during parsing, failing with a
// *DuplicateKeyError if key is already present at this level.
func (m *LvmTextMap) insertUnique(key string, val Value) error {
	if _, ok := m.index[key]; ok {
		return &DuplicateKeyError{Name: key}
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, textMapEntry{key: key, val: val})
	return nil
}

// Equal reports whether m and other hold the same keys, in the same
// order, with structurally equal values. Used by round-trip tests.
func (m *LvmTextMap) Equal(other *LvmTextMap) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.entries) != len(other.entries) {
		return false
	}
	for i, e := range m.entries {
		if e.key != other.entries[i].key {
			return false
		}
		if !valuesEqual(e.val, other.entries[i].val) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValInt:
		return a.Int == b.Int
	case ValString:
		return a.Str == b.Str
	case ValList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !valuesEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case ValMap:
		return a.Map.Equal(b.Map)
	default:
		return false
	}
}
