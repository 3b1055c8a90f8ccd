// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import "testing"

func TestCrc32KnownVector(t *testing.T) {
	// An empty payload's checksum is just the seed run through zero
	// updates, i.e. the seed itself.
	if got := Crc32(nil); got != lvmCRCSeed {
		t.Errorf("Crc32(nil) = 0x%x, want seed 0x%x", got, lvmCRCSeed)
	}

	// A real, non-empty vector: the register is never complemented, so
	// this must NOT match what crc32.Update(lvmCRCSeed, ..., buf) (the
	// standard, inverting construction) would produce.
	buf := []byte("123456789")
	const want = 0x4991cf02
	if got := Crc32(buf); got != want {
		t.Errorf("Crc32(%q) = 0x%x, want 0x%x", buf, got, uint32(want))
	}
}

func TestCrc32Deterministic(t *testing.T) {
	buf := []byte("volume_group_metadata")
	a := Crc32(buf)
	b := Crc32(buf)
	if a != b {
		t.Errorf("Crc32 not deterministic: %x != %x", a, b)
	}
	if Crc32(append(append([]byte{}, buf...), 0)) == a {
		t.Errorf("Crc32 did not change when payload changed")
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		n, m, want uint64
	}{
		{0, 512, 0},
		{1, 512, 512},
		{512, 512, 512},
		{513, 512, 1024},
		{100, 0, 100},
	}
	for _, tt := range tests {
		if got := alignUp(tt.n, tt.m); got != tt.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", tt.n, tt.m, got, tt.want)
		}
	}
}

func TestReadWriteUint32RoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	if !putUint32(buf, 2, 0xdeadbeef) {
		t.Fatal("putUint32 failed in bounds")
	}
	got, ok := readUint32(buf, 2)
	if !ok || got != 0xdeadbeef {
		t.Errorf("readUint32 = %x, %v, want 0xdeadbeef, true", got, ok)
	}
	if _, ok := readUint32(buf, 6); ok {
		t.Error("readUint32 should fail when only 2 bytes remain")
	}
}

func TestReadWriteUint64RoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	if !putUint64(buf, 0, 0x0102030405060708) {
		t.Fatal("putUint64 failed in bounds")
	}
	got, ok := readUint64(buf, 0)
	if !ok || got != 0x0102030405060708 {
		t.Errorf("readUint64 = %x, %v, want 0x0102030405060708, true", got, ok)
	}
	if _, ok := readUint64(buf, 1); ok {
		t.Error("readUint64 should fail when fewer than 8 bytes remain")
	}
}

func TestFixedStringRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	if !putFixedString(buf, 0, 16, "hello") {
		t.Fatal("putFixedString failed in bounds")
	}
	got, ok := readFixedString(buf, 0, 16)
	if !ok || got != "hello" {
		t.Errorf("readFixedString = %q, %v, want \"hello\", true", got, ok)
	}
}

func TestFixedStringTruncates(t *testing.T) {
	buf := make([]byte, 4)
	if !putFixedString(buf, 0, 4, "toolong") {
		t.Fatal("putFixedString failed in bounds")
	}
	got, ok := readFixedString(buf, 0, 4)
	if !ok || got != "tool" {
		t.Errorf("readFixedString = %q, %v, want \"tool\", true", got, ok)
	}
}
