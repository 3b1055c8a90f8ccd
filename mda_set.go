// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import "github.com/lvm2kit/lvm2/log"

// ReadCurrentMetadata tries each of a PV's metadata areas in order and
// returns the text of the first whose header validates and whose current
// record is not ignored, per spec.md §4.4's multi-MDA read rule. logger
// may be nil; when non-nil it is told why each failing area was skipped.
func ReadCurrentMetadata(dev *Device, areas []PvArea, logger *log.Helper) ([]byte, error) {
	var lastErr error
	for i, area := range areas {
		mda := OpenMda(dev, area)
		text, err := mda.ReadMetadata()
		if err == nil {
			return text, nil
		}
		logger.Warnf("mda %d at offset %d: %v", i, area.Offset, err)
		lastErr = err
	}
	if lastErr == nil {
		return nil, ErrNoCurrentRecord
	}
	return nil, lastErr
}

// WriteAllMetadata commits payload to every metadata area in order,
// reporting success only if all succeed (spec.md §4.4/§9: multi-MDA write
// semantics are underspecified in the original source; this module
// prescribes "write each MDA in order; report success only if all
// succeed"). MDAs that completed their header update before a later one
// failed remain valid from a reader's perspective — the caller may retry.
func WriteAllMetadata(dev *Device, areas []PvArea, payload []byte) error {
	for _, area := range areas {
		mda := OpenMda(dev, area)
		if err := mda.WriteMetadata(payload); err != nil {
			return err
		}
	}
	return nil
}
