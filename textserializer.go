// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"strconv"
	"strings"
)

// SerializeTextConfig renders m canonically: nested maps indented one tab
// per level, scalar lines "key = value", arrays on one line, integers in
// decimal, strings quoted. Re-parsing the result and serializing again
// yields byte-identical output (spec.md §4.5's round-trip requirement).
func SerializeTextConfig(m *LvmTextMap) []byte {
	var sb strings.Builder
	writeMapBody(&sb, m, 0)
	return []byte(sb.String())
}

func writeMapBody(sb *strings.Builder, m *LvmTextMap, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		switch val.Kind {
		case ValMap:
			sb.WriteString(indent)
			sb.WriteString(key)
			sb.WriteString(" {\n")
			writeMapBody(sb, val.Map, depth+1)
			sb.WriteString(indent)
			sb.WriteString("}\n")
		default:
			sb.WriteString(indent)
			sb.WriteString(key)
			sb.WriteString(" = ")
			writeValue(sb, val)
			sb.WriteString("\n")
		}
	}
}

func writeValue(sb *strings.Builder, v Value) {
	switch v.Kind {
	case ValInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case ValString:
		sb.WriteByte('"')
		sb.WriteString(v.Str)
		sb.WriteByte('"')
	case ValList:
		sb.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, item)
		}
		sb.WriteByte(']')
	case ValMap:
		// A map can only appear as a top-level entry value in this
		// grammar, never nested inside a list; writeMapBody handles maps
		// directly and never reaches here.
	}
}
