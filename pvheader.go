// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

const (
	pvUUIDSize   = 32
	pvAreaSize   = 16 // offset(8) + size(8)
	pvHeaderBase = pvUUIDSize + 8
)

// PvArea is a (offset, size) pair in bytes, both device-relative.
// offset == 0 terminates a list.
type PvArea struct {
	Offset uint64
	Size   uint64
}

// PvHeader is located at the device offset recorded by the LabelHeader.
// See spec.md §3/§4.3 for the exact on-disk layout.
type PvHeader struct {
	UUID             string
	Size             uint64
	DataAreas        []PvArea
	MetadataAreas    []PvArea
	BootloaderAreas  []PvArea
	ExtVersion       uint32
	ExtFlags         uint32

	// Path is the device this header was read from, carried so later
	// commits target the same device without requiring the caller to
	// pass it separately (spec.md §4.3 find_in_dev).
	Path string
}

// iterPvAreas reads a zero-terminated run of PvArea entries starting at
// buf[0:], returning the entries and the number of bytes consumed
// including the terminator.
func iterPvAreas(buf []byte) ([]PvArea, int, error) {
	var areas []PvArea
	pos := 0
	for {
		off, ok := readUint64(buf, pos)
		if !ok {
			return nil, 0, ErrMalformedPvHeader
		}
		if off == 0 {
			pos += pvAreaSize
			return areas, pos, nil
		}
		size, ok := readUint64(buf, pos+8)
		if !ok {
			return nil, 0, ErrMalformedPvHeader
		}
		areas = append(areas, PvArea{Offset: off, Size: size})
		pos += pvAreaSize
	}
}

// ParsePvHeader parses a PvHeader starting at buf[0:], per the layout in
// spec.md §3: static header, data areas + terminator, metadata areas +
// terminator, 8-byte extension header, and (iff ext_version > 0)
// bootloader areas + terminator.
func ParsePvHeader(buf []byte, path string) (*PvHeader, error) {
	uuid, ok := readFixedString(buf, 0, pvUUIDSize)
	if !ok {
		return nil, ErrMalformedPvHeader
	}
	size, ok := readUint64(buf, pvUUIDSize)
	if !ok {
		return nil, ErrMalformedPvHeader
	}

	cursor := pvHeaderBase

	dataAreas, n, err := iterPvAreas(buf[cursor:])
	if err != nil {
		return nil, err
	}
	cursor += n

	metadataAreas, n, err := iterPvAreas(buf[cursor:])
	if err != nil {
		return nil, err
	}
	cursor += n

	pv := &PvHeader{
		UUID:          uuid,
		Size:          size,
		DataAreas:     dataAreas,
		MetadataAreas: metadataAreas,
		Path:          path,
	}

	// The extension block is consumed only if at least 4 bytes remain
	// (ext_version); ext_flags and bootloader areas are read only if
	// ext_version != 0, and a nonzero ext_version without the 4 bytes of
	// ext_flags after it is ErrMalformedPvHeader. Nothing past ext_version
	// is read when ext_version == 0 (spec.md §9).
	extVersion, ok := readUint32(buf, cursor)
	if !ok {
		return pv, nil
	}
	pv.ExtVersion = extVersion
	if extVersion == 0 {
		return pv, nil
	}

	extFlags, ok := readUint32(buf, cursor+4)
	if !ok {
		return nil, ErrMalformedPvHeader
	}
	pv.ExtFlags = extFlags
	cursor += 8

	bootAreas, _, err := iterPvAreas(buf[cursor:])
	if err != nil {
		return nil, err
	}
	pv.BootloaderAreas = bootAreas

	return pv, nil
}

// serializeAreas appends areas to dst: each area's offset/size, followed by a
// zero-offset terminator entry.
func serializeAreas(dst []byte, areas []PvArea) []byte {
	for _, a := range areas {
		var entry [pvAreaSize]byte
		putUint64(entry[:], 0, a.Offset)
		putUint64(entry[:], 8, a.Size)
		dst = append(dst, entry[:]...)
	}
	var term [pvAreaSize]byte
	return append(dst, term[:]...)
}

// Serialize renders the PvHeader to its on-disk byte layout.
func (pv *PvHeader) Serialize() []byte {
	buf := make([]byte, pvHeaderBase)
	putFixedString(buf, 0, pvUUIDSize, pv.UUID)
	putUint64(buf, pvUUIDSize, pv.Size)

	buf = serializeAreas(buf, pv.DataAreas)
	buf = serializeAreas(buf, pv.MetadataAreas)

	var verFlags [8]byte
	putUint32(verFlags[:], 0, pv.ExtVersion)
	if pv.ExtVersion != 0 {
		putUint32(verFlags[:], 4, pv.ExtFlags)
	}
	buf = append(buf, verFlags[:]...)
	if pv.ExtVersion != 0 {
		buf = serializeAreas(buf, pv.BootloaderAreas)
	}
	return buf
}

// FindInDev reads the first LabelScanSectors sectors of path, locates the
// label, and parses the PvHeader at the offset it records.
func FindInDev(path string) (*LabelHeader, *PvHeader, error) {
	dev, err := OpenRO(path)
	if err != nil {
		return nil, nil, err
	}
	defer dev.Close()

	buf, err := dev.ReadAt(0, LabelScanSectors*SectorSize)
	if err != nil {
		return nil, nil, err
	}

	label, err := FindLabel(buf)
	if err != nil {
		return nil, nil, err
	}

	// The PvHeader's length is not known up front; read a generously
	// sized window and let ParsePvHeader stop at whatever data it
	// actually needs. A PvHeader with unbounded bootloader areas cannot
	// in practice exceed a sector in size on real disks.
	const pvHeaderWindow = 4 * SectorSize
	hdrBuf, err := dev.ReadAt(int64(label.Offset), pvHeaderWindow)
	if err != nil {
		return nil, nil, err
	}

	pv, err := ParsePvHeader(hdrBuf, path)
	if err != nil {
		return nil, nil, err
	}
	return label, pv, nil
}
