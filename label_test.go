// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"errors"
	"testing"
)

func TestWriteLabelFindLabelRoundTrip(t *testing.T) {
	for _, sector := range []uint64{0, 1, 3} {
		sector := sector
		t.Run(string(rune('0'+sector)), func(t *testing.T) {
			path := newFixtureDevice(t, LabelScanSectors*SectorSize)
			dev, err := OpenRW(path)
			if err != nil {
				t.Fatalf("OpenRW: %v", err)
			}
			defer dev.Close()

			want := &LabelHeader{
				Sector: sector,
				Offset: sector*SectorSize + SectorSize,
				Label:  "LVM2 001",
			}
			if err := WriteLabel(dev, want); err != nil {
				t.Fatalf("WriteLabel: %v", err)
			}

			buf, err := dev.ReadAt(0, LabelScanSectors*SectorSize)
			if err != nil {
				t.Fatalf("ReadAt: %v", err)
			}
			got, err := FindLabel(buf)
			if err != nil {
				t.Fatalf("FindLabel: %v", err)
			}
			if got.Sector != want.Sector || got.Offset != want.Offset || got.Label != want.Label {
				t.Errorf("FindLabel = %+v, want %+v", got, want)
			}
		})
	}
}

func TestFindLabelNoLabelPresent(t *testing.T) {
	buf := make([]byte, LabelScanSectors*SectorSize)
	if _, err := FindLabel(buf); !errors.Is(err, ErrMalformedLabel) {
		t.Errorf("FindLabel on all-zero buffer = %v, want ErrMalformedLabel", err)
	}
}

func TestFindLabelBadChecksum(t *testing.T) {
	path := newFixtureDevice(t, LabelScanSectors*SectorSize)
	dev, err := OpenRW(path)
	if err != nil {
		t.Fatalf("OpenRW: %v", err)
	}
	defer dev.Close()

	lh := &LabelHeader{Sector: 1, Offset: 2 * SectorSize, Label: "LVM2 001"}
	if err := WriteLabel(dev, lh); err != nil {
		t.Fatalf("WriteLabel: %v", err)
	}

	buf, err := dev.ReadAt(0, LabelScanSectors*SectorSize)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	// Corrupt a byte within the CRC-covered region of sector 1.
	buf[1*SectorSize+labelCRCStart+1] ^= 0xff

	if _, err := FindLabel(buf); !errors.Is(err, ErrBadChecksum) {
		t.Errorf("FindLabel on corrupted sector = %v, want ErrBadChecksum", err)
	}
}

func TestFindLabelSectorMismatch(t *testing.T) {
	path := newFixtureDevice(t, LabelScanSectors*SectorSize)
	dev, err := OpenRW(path)
	if err != nil {
		t.Fatalf("OpenRW: %v", err)
	}
	defer dev.Close()

	lh := &LabelHeader{Sector: 1, Offset: 2 * SectorSize, Label: "LVM2 001"}
	sec := serializeLabelSector(lh)
	// Write this sector-1-addressed label at sector 2 instead: FindLabel
	// must reject the self-reported sector index as inconsistent.
	if err := dev.WriteAt(2*SectorSize, sec); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	buf, err := dev.ReadAt(0, LabelScanSectors*SectorSize)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if _, err := FindLabel(buf); !errors.Is(err, ErrMalformedLabel) {
		t.Errorf("FindLabel with mismatched sector = %v, want ErrMalformedLabel", err)
	}
}
