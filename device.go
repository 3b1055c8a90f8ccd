// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"os"
	"path/filepath"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// Device is an open block-special file (or a regular file standing in
// for one in tests). Reads that only ever observe committed state (label,
// PV header, MDA header and metadata scans) are served from a read-only
// memory map, the way the teacher's file.go maps a PE image instead of
// buffering it. Writes always go through pwrite (os.File.WriteAt) and are
// never routed through the map, so a writer never has to reason about
// mmap's page-cache write-back timing.
//
// A Device holds an open file. PvHeader carries only the device path, and
// callers open a Device around each read or commit and close it after;
// Mda and the multi-MDA helpers operate on a Device the caller has
// already opened.
type Device struct {
	path     string
	f        *os.File
	mapped   mmap.MMap
	writable bool
}

// OpenRO opens path read-only and memory-maps its current contents for
// ReadAt.
func OpenRO(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapDeviceIo("open_ro", path, err)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, wrapDeviceIo("mmap", path, err)
	}
	return &Device{path: path, f: f, mapped: m}, nil
}

// OpenRW opens path read-write. Reads are served through pread so they
// always observe the latest written bytes without needing to remap.
func OpenRW(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, wrapDeviceIo("open_rw", path, err)
	}
	return &Device{path: path, f: f, writable: true}, nil
}

// Path returns the path this Device was opened from.
func (d *Device) Path() string { return d.path }

// Close releases the underlying file (and map, if any).
func (d *Device) Close() error {
	var err error
	if d.mapped != nil {
		err = d.mapped.Unmap()
	}
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return wrapDeviceIo("close", d.path, err)
	}
	return nil
}

// ReadAt reads exactly len bytes at the absolute device offset off.
func (d *Device) ReadAt(off int64, len int) ([]byte, error) {
	if d.mapped != nil {
		if off < 0 || off+int64(len) > int64(len_(d.mapped)) {
			return nil, wrapDeviceIo("read_at", d.path, os.ErrInvalid)
		}
		out := make([]byte, len)
		copy(out, d.mapped[off:off+int64(len)])
		return out, nil
	}
	buf := make([]byte, len)
	if _, err := d.f.ReadAt(buf, off); err != nil {
		return nil, wrapDeviceIo("read_at", d.path, err)
	}
	return buf, nil
}

// len_ avoids a name clash with the builtin in the ReadAt bounds check
// above (mmap.MMap is itself a []byte).
func len_(m mmap.MMap) int { return len(m) }

// WriteAt writes bytes at the absolute device offset off.
func (d *Device) WriteAt(off int64, bytes []byte) error {
	if !d.writable {
		return wrapDeviceIo("write_at", d.path, os.ErrPermission)
	}
	if _, err := d.f.WriteAt(bytes, off); err != nil {
		return wrapDeviceIo("write_at", d.path, err)
	}
	return nil
}

// Barrier issues a durability barrier: every byte written so far must be
// observable by any other opener before this call returns. The MDA engine
// calls this twice per commit (§4.4/§5): once after the text bytes, once
// after the header sector.
func (d *Device) Barrier() error {
	if !d.writable {
		return nil
	}
	if err := unix.Fdatasync(int(d.f.Fd())); err != nil {
		return wrapDeviceIo("barrier", d.path, err)
	}
	return nil
}

// IsBlockSpecial reports whether path names a block-special file
// (POSIX S_IFBLK), per spec.md §4.2.
func IsBlockSpecial(path string) (bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false, wrapDeviceIo("stat", path, err)
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK, nil
}

// ListBlockSpecials yields the paths of entries in dir whose mode
// indicates a block-special file.
func ListBlockSpecials(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapDeviceIo("readdir", dir, err)
	}
	var out []string
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		ok, err := IsBlockSpecial(full)
		if err != nil {
			continue
		}
		if ok {
			out = append(out, full)
		}
	}
	return out, nil
}
