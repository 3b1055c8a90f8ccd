// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

// Fuzz is a go-fuzz entry point over the text-config parser: it must
// never panic on arbitrary input, and a successful parse must round-trip
// through SerializeTextConfig (spec.md §8, invariant 1).
func Fuzz(data []byte) int {
	m, err := ParseTextConfig(data)
	if err != nil {
		return 0
	}
	again, err := ParseTextConfig(SerializeTextConfig(m))
	if err != nil || !m.Equal(again) {
		panic("text config did not round-trip")
	}
	return 1
}
