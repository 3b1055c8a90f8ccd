// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"os"
	"path/filepath"
	"testing"
)

func newFixtureDevice(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	if err := os.WriteFile(path, make([]byte, size), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpenROReadAt(t *testing.T) {
	path := newFixtureDevice(t, 4*SectorSize)
	want := []byte("hello, lvm")
	if err := os.WriteFile(path, append(want, make([]byte, 4*SectorSize-len(want))...), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dev, err := OpenRO(path)
	if err != nil {
		t.Fatalf("OpenRO: %v", err)
	}
	defer dev.Close()

	got, err := dev.ReadAt(0, len(want))
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("ReadAt = %q, want %q", got, want)
	}

	if _, err := dev.ReadAt(int64(4*SectorSize), 1); err == nil {
		t.Error("ReadAt past end of device should fail")
	}
}

func TestOpenROWriteAtFails(t *testing.T) {
	path := newFixtureDevice(t, SectorSize)
	dev, err := OpenRO(path)
	if err != nil {
		t.Fatalf("OpenRO: %v", err)
	}
	defer dev.Close()

	if err := dev.WriteAt(0, []byte("x")); err == nil {
		t.Error("WriteAt on a read-only Device should fail")
	}
}

func TestOpenRWWriteAtReadAtRoundTrip(t *testing.T) {
	path := newFixtureDevice(t, SectorSize)
	dev, err := OpenRW(path)
	if err != nil {
		t.Fatalf("OpenRW: %v", err)
	}
	defer dev.Close()

	payload := []byte("committed record")
	if err := dev.WriteAt(10, payload); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if err := dev.Barrier(); err != nil {
		t.Fatalf("Barrier: %v", err)
	}

	got, err := dev.ReadAt(10, len(payload))
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("ReadAt = %q, want %q", got, payload)
	}
}

func TestIsBlockSpecialRegularFile(t *testing.T) {
	path := newFixtureDevice(t, SectorSize)
	ok, err := IsBlockSpecial(path)
	if err != nil {
		t.Fatalf("IsBlockSpecial: %v", err)
	}
	if ok {
		t.Error("a regular file must not report as block-special")
	}
}

func TestListBlockSpecialsSkipsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "not-a-device"), nil, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	paths, err := ListBlockSpecials(dir)
	if err != nil {
		t.Fatalf("ListBlockSpecials: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("ListBlockSpecials = %v, want empty", paths)
	}
}
