// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import "github.com/lvm2kit/lvm2/log"

// ScanResult is one block device found to carry a label and readable
// metadata during a directory scan.
type ScanResult struct {
	Path   string
	Label  *LabelHeader
	Header *PvHeader
	VG     *VG
}

// ScanDir walks every block-special file directly under dir, attempts to
// read a label, PV header and current metadata text from each, and
// returns one ScanResult per device that fully validates (spec.md §6's
// scan contract). Devices that are not block-special, carry no label, or
// fail checksum/parse validation are skipped, not treated as a scan
// failure; logger (may be nil) is told why each skip happened.
func ScanDir(dir string, logger *log.Helper) ([]ScanResult, error) {
	paths, err := ListBlockSpecials(dir)
	if err != nil {
		return nil, err
	}

	var results []ScanResult
	for _, path := range paths {
		label, pvHeader, err := FindInDev(path)
		if err != nil {
			logger.Warnf("scan %s: %v", path, err)
			continue
		}

		dev, err := OpenRO(path)
		if err != nil {
			logger.Warnf("scan %s: %v", path, err)
			continue
		}

		areas := pvHeader.MetadataAreas
		text, err := ReadCurrentMetadata(dev, areas, logger)
		dev.Close()
		if err != nil {
			logger.Warnf("scan %s: no readable metadata: %v", path, err)
			continue
		}

		textMap, err := ParseTextConfig(text)
		if err != nil {
			logger.Warnf("scan %s: malformed metadata: %v", path, err)
			continue
		}
		vg, err := TextMapToVG(textMap)
		if err != nil {
			logger.Warnf("scan %s: metadata does not match schema: %v", path, err)
			continue
		}

		results = append(results, ScanResult{
			Path:   path,
			Label:  label,
			Header: pvHeader,
			VG:     vg,
		})
	}
	return results, nil
}
