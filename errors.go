// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the core. Callers match with errors.Is.
var (
	// ErrDeviceIo wraps an OS-level read/write/open failure.
	ErrDeviceIo = errors.New("device i/o error")

	// ErrBadMagic is returned when a fixed magic literal does not match.
	ErrBadMagic = errors.New("bad magic")

	// ErrBadVersion is returned when a structure's version field is
	// unsupported.
	ErrBadVersion = errors.New("bad version")

	// ErrBadChecksum is returned when a CRC32 does not match its payload.
	ErrBadChecksum = errors.New("bad checksum")

	// ErrMalformedLabel is returned when the label header fails a shape
	// check (e.g. self-sector mismatch).
	ErrMalformedLabel = errors.New("malformed label")

	// ErrMalformedPvHeader is returned when the PV header fails a shape
	// check (e.g. an area offset beyond the device).
	ErrMalformedPvHeader = errors.New("malformed pv header")

	// ErrSyntax is the sentinel wrapped by *SyntaxError.
	ErrSyntax = errors.New("syntax error")

	// ErrDuplicateKey is the sentinel wrapped by *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNoCurrentRecord is returned when an MDA header validates but has
	// no live raw_locn.
	ErrNoCurrentRecord = errors.New("no current metadata record")

	// ErrLvExists is returned when a new LV name already exists in the VG.
	ErrLvExists = errors.New("logical volume already exists")

	// ErrPvExists is returned when a new PV name already exists in the VG.
	ErrPvExists = errors.New("physical volume already exists")

	// ErrUnknownLv is returned when an operation names an LV absent from
	// the VG.
	ErrUnknownLv = errors.New("unknown logical volume")

	// ErrNoSpace is returned when the allocator finds no contiguous free
	// range large enough to satisfy a request.
	ErrNoSpace = errors.New("insufficient free extents")

	// ErrUnknownPv is returned when a segment or stripe references a PV
	// absent from the VG.
	ErrUnknownPv = errors.New("unknown physical volume")

	// ErrNotSupported is returned for shapes this core deliberately does
	// not implement (more than one live raw_locn, non-striped segments).
	ErrNotSupported = errors.New("not supported")
)

// deviceIoError wraps an OS-level failure while preserving errors.Is(err,
// ErrDeviceIo) and errors.Unwrap access to the original *fs.PathError or
// similar.
type deviceIoError struct {
	op   string
	path string
	err  error
}

func (e *deviceIoError) Error() string {
	return fmt.Sprintf("device i/o: %s %s: %v", e.op, e.path, e.err)
}

func (e *deviceIoError) Unwrap() error { return e.err }

func (e *deviceIoError) Is(target error) bool { return target == ErrDeviceIo }

func wrapDeviceIo(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &deviceIoError{op: op, path: path, err: err}
}

// SyntaxError describes a text-config parse failure at a specific
// location.
type SyntaxError struct {
	Line   int
	Col    int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, col %d: %s", e.Line, e.Col, e.Reason)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// DuplicateKeyError is returned when a map level defines the same key
// twice.
type DuplicateKeyError struct {
	Name string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Name)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }
