// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

// LabelScanSectors is the number of leading sectors scanned for a label,
// per spec.md §4.3.
const LabelScanSectors = 4

const (
	labelIDLiteral  = "LABELONE"
	labelIDSize     = 8
	labelFamilySize = 8
	// labelCRCStart is the byte offset within the 512-byte label sector
	// where the CRC-covered region begins (everything past the crc field
	// itself).
	labelCRCStart = 20
)

// LabelHeader is the 512-byte on-disk record identifying a PV and
// locating its PvHeader. See spec.md §3.
type LabelHeader struct {
	// Sector is the sector index (0..3) this label was found at, or will
	// be written to.
	Sector uint64

	// CRC is the CRC32 of bytes 20..512 of the sector, as last
	// read/computed.
	CRC uint32

	// Offset is the PvHeader offset, normalized in memory to be relative
	// to the start of the device (on disk it is stored relative to the
	// start of the label sector).
	Offset uint64

	// Label identifies the format family ("LVM2 001" for this format).
	Label string
}

// FindLabel scans sectors 0..LabelScanSectors-1 of buf (which must be at
// least LabelScanSectors*SectorSize bytes) and returns the label in the
// first sector that starts with the id literal. That label's embedded
// sector index must equal the sector it was found in (else
// ErrMalformedLabel) and its CRC must match (else ErrBadChecksum); later
// sectors are not tried. ErrMalformedLabel is also returned when no
// sector carries the id literal.
func FindLabel(buf []byte) (*LabelHeader, error) {
	for x := 0; x < LabelScanSectors; x++ {
		start := x * SectorSize
		if start+SectorSize > len(buf) {
			break
		}
		sec := buf[start : start+SectorSize]
		if string(sec[:labelIDSize]) != labelIDLiteral {
			continue
		}

		sector, ok := readUint64(sec, labelIDSize)
		if !ok {
			return nil, ErrMalformedLabel
		}
		if sector != uint64(x) {
			return nil, ErrMalformedLabel
		}

		crc, ok := readUint32(sec, labelIDSize+8)
		if !ok {
			return nil, ErrMalformedLabel
		}
		if computed := Crc32(sec[labelCRCStart:]); computed != crc {
			return nil, ErrBadChecksum
		}

		onDiskOffset, ok := readUint32(sec, labelCRCStart)
		if !ok {
			return nil, ErrMalformedLabel
		}

		label, ok := readFixedString(sec, labelCRCStart+4, labelFamilySize)
		if !ok {
			return nil, ErrMalformedLabel
		}

		return &LabelHeader{
			Sector: sector,
			CRC:    crc,
			Offset: uint64(onDiskOffset) + uint64(start),
			Label:  label,
		}, nil
	}
	return nil, ErrMalformedLabel
}

// serializeLabelSector renders lh into a fresh 512-byte sector, computing
// and embedding the CRC over bytes 20..512.
func serializeLabelSector(lh *LabelHeader) []byte {
	sec := make([]byte, SectorSize)
	copy(sec[:labelIDSize], labelIDLiteral)
	putUint64(sec, labelIDSize, lh.Sector)

	onDiskOffset := uint32(lh.Offset - lh.Sector*SectorSize)
	putUint32(sec, labelCRCStart, onDiskOffset)
	putFixedString(sec, labelCRCStart+4, labelFamilySize, lh.Label)

	crc := Crc32(sec[labelCRCStart:])
	putUint32(sec, labelIDSize+8, crc)
	lh.CRC = crc
	return sec
}

// WriteLabel re-serializes lh, recomputes its CRC, and writes only the
// sector it names.
func WriteLabel(dev *Device, lh *LabelHeader) error {
	sec := serializeLabelSector(lh)
	return dev.WriteAt(int64(lh.Sector*SectorSize), sec)
}
