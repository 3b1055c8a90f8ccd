// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import "bytes"

const (
	// MdaHeaderSize is the fixed size, in bytes, of every MDA header
	// sector.
	MdaHeaderSize = 512

	mdaMagicSize       = 16
	mdaVersion         = 1
	rawLocnSize        = 24
	mdaHeaderFixedSize = 40 // crc(4) + magic(16) + version(4) + start(8) + size(8)
	maxRawLocns        = 2  // slot 0 (current), slot 1 (reserved, unsupported)
)

// mdaMagic is the fixed 16-byte literal every MDA header must carry at
// bytes 4..20.
var mdaMagic = []byte{
	0x20, 0x4c, 0x56, 0x4d, 0x32, 0x20, 0x78, 0x5b,
	0x35, 0x41, 0x25, 0x72, 0x30, 0x4e, 0x2a, 0x3e,
}

// RawLocn points at one metadata record within an MDA.
type RawLocn struct {
	Offset   uint64
	Size     uint64
	Checksum uint32
	Ignored  bool
}

// MdaHeader is the 512-byte header at the start of a metadata area.
// RawLocn0 is nil when the MDA has no current committed record yet (a
// freshly initialized PV, per spec.md §3 Lifecycle).
type MdaHeader struct {
	CRC         uint32
	StartOffset uint64
	TotalSize   uint64
	RawLocn0    *RawLocn
}

// parseRawLocns reads a zero-terminated run of raw_locn entries. More
// than one live entry is rejected with ErrNotSupported (spec.md §9: the
// source clones raw_locn without checking this; this implementation
// permits zero and rejects more than one).
func parseRawLocns(buf []byte) ([]RawLocn, error) {
	var out []RawLocn
	pos := 0
	for len(out) < maxRawLocns {
		off, ok := readUint64(buf, pos)
		if !ok {
			return nil, ErrMalformedPvHeader
		}
		if off == 0 {
			return out, nil
		}
		size, _ := readUint64(buf, pos+8)
		checksum, _ := readUint32(buf, pos+16)
		flags, _ := readUint32(buf, pos+20)
		out = append(out, RawLocn{
			Offset:   off,
			Size:     size,
			Checksum: checksum,
			Ignored:  flags&1 != 0,
		})
		pos += rawLocnSize
	}
	return out, nil
}

// ParseMdaHeader validates and parses a 512-byte MDA header.
func ParseMdaHeader(buf []byte) (*MdaHeader, error) {
	if len(buf) < MdaHeaderSize {
		return nil, ErrMalformedPvHeader
	}

	crcField, _ := readUint32(buf, 0)
	if computed := Crc32(buf[4:MdaHeaderSize]); computed != crcField {
		return nil, ErrBadChecksum
	}

	if !bytes.Equal(buf[4:4+mdaMagicSize], mdaMagic) {
		return nil, ErrBadMagic
	}

	ver, _ := readUint32(buf, 20)
	if ver != mdaVersion {
		return nil, ErrBadVersion
	}

	start, _ := readUint64(buf, 24)
	size, _ := readUint64(buf, 32)

	locns, err := parseRawLocns(buf[mdaHeaderFixedSize:])
	if err != nil {
		return nil, err
	}

	hdr := &MdaHeader{CRC: crcField, StartOffset: start, TotalSize: size}
	switch len(locns) {
	case 0:
		// No current record; a freshly initialized MDA.
	case 1:
		rl := locns[0]
		hdr.RawLocn0 = &rl
	default:
		return nil, ErrNotSupported
	}
	return hdr, nil
}

// Serialize renders the header, recomputing its CRC over bytes 4..512.
func (h *MdaHeader) Serialize() []byte {
	buf := make([]byte, MdaHeaderSize)
	copy(buf[4:4+mdaMagicSize], mdaMagic)
	putUint32(buf, 20, mdaVersion)
	putUint64(buf, 24, h.StartOffset)
	putUint64(buf, 32, h.TotalSize)

	if h.RawLocn0 != nil {
		flags := uint32(0)
		if h.RawLocn0.Ignored {
			flags = 1
		}
		putUint64(buf, mdaHeaderFixedSize, h.RawLocn0.Offset)
		putUint64(buf, mdaHeaderFixedSize+8, h.RawLocn0.Size)
		putUint32(buf, mdaHeaderFixedSize+16, h.RawLocn0.Checksum)
		putUint32(buf, mdaHeaderFixedSize+20, flags)
	}
	// Slot 1 (precommitted, unsupported) is left zeroed: an all-zero
	// entry terminates the raw_locn list immediately, so a reader sees
	// exactly the one entry above.

	crc := Crc32(buf[4:MdaHeaderSize])
	putUint32(buf, 0, crc)
	h.CRC = crc
	return buf
}

// Mda is one metadata area on a PV: area.Offset/area.Size locate it on
// dev, and the usable ring for text is [MdaHeaderSize, area.Size) —
// bytes [0, MdaHeaderSize) are permanently reserved for the header and
// are never part of the circular text buffer (spec.md §4.4).
type Mda struct {
	dev  *Device
	area PvArea
}

// OpenMda wraps an already-open Device and the PvArea describing one of
// its metadata areas.
func OpenMda(dev *Device, area PvArea) *Mda {
	return &Mda{dev: dev, area: area}
}

// ReadHeader reads and validates the 512-byte MDA header.
func (m *Mda) ReadHeader() (*MdaHeader, error) {
	buf, err := m.dev.ReadAt(int64(m.area.Offset), MdaHeaderSize)
	if err != nil {
		return nil, err
	}
	return ParseMdaHeader(buf)
}

// ReadMetadata returns the current committed text record, handling
// wrap-around per spec.md §4.4, and verifies its checksum.
func (m *Mda) ReadMetadata() ([]byte, error) {
	hdr, err := m.ReadHeader()
	if err != nil {
		return nil, err
	}
	if hdr.RawLocn0 == nil || hdr.RawLocn0.Ignored {
		return nil, ErrNoCurrentRecord
	}
	rl := hdr.RawLocn0

	end := rl.Offset + rl.Size
	var text []byte
	if end <= m.area.Size {
		text, err = m.dev.ReadAt(int64(m.area.Offset+rl.Offset), int(rl.Size))
		if err != nil {
			return nil, err
		}
	} else {
		firstLen := m.area.Size - rl.Offset
		remaining := rl.Size - firstLen
		first, err := m.dev.ReadAt(int64(m.area.Offset+rl.Offset), int(firstLen))
		if err != nil {
			return nil, err
		}
		second, err := m.dev.ReadAt(int64(m.area.Offset+MdaHeaderSize), int(remaining))
		if err != nil {
			return nil, err
		}
		text = append(first, second...)
	}

	if Crc32(text) != rl.Checksum {
		return nil, ErrBadChecksum
	}
	return text, nil
}

// nextWriteOffset computes where the next record starts, per spec.md
// §4.4's "Choice of next write offset". It deliberately does not
// preserve the original source's collapsing `min(...)` arithmetic flagged
// in spec.md §9 — every commit advances past the previous record instead
// of always restarting at the header sector.
func (m *Mda) nextWriteOffset(hdr *MdaHeader) uint64 {
	var off, size uint64
	if hdr.RawLocn0 != nil {
		off, size = hdr.RawLocn0.Offset, hdr.RawLocn0.Size
	} else {
		off, size = MdaHeaderSize, 0
	}
	start := alignUp(off+size, SectorSize)
	if start >= m.area.Size {
		start = MdaHeaderSize
	}
	return start
}

// WriteMetadata commits payload (the serialized text, already NUL
// terminated) as the new current record: write the text, barrier, update
// raw_locn 0 and the header CRC, barrier again. A crash between the two
// barriers leaves the previously committed record intact (spec.md §4.4/§5).
func (m *Mda) WriteMetadata(payload []byte) error {
	hdr, err := m.ReadHeader()
	if err != nil {
		return err
	}

	start := m.nextWriteOffset(hdr)
	size := uint64(len(payload))

	if start+size <= m.area.Size {
		if err := m.dev.WriteAt(int64(m.area.Offset+start), payload); err != nil {
			return err
		}
	} else {
		firstLen := m.area.Size - start
		if err := m.dev.WriteAt(int64(m.area.Offset+start), payload[:firstLen]); err != nil {
			return err
		}
		if err := m.dev.WriteAt(int64(m.area.Offset+MdaHeaderSize), payload[firstLen:]); err != nil {
			return err
		}
	}

	if err := m.dev.Barrier(); err != nil {
		return err
	}

	hdr.StartOffset = m.area.Offset
	hdr.TotalSize = m.area.Size
	hdr.RawLocn0 = &RawLocn{
		Offset:   start,
		Size:     size,
		Checksum: Crc32(payload),
	}

	if err := m.dev.WriteAt(int64(m.area.Offset), hdr.Serialize()); err != nil {
		return err
	}
	return m.dev.Barrier()
}
