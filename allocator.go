// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
)

// defaultLvStatus is the status flag set a freshly allocated LV carries
// (spec.md §4.6).
var defaultLvStatus = []string{"READ", "WRITE", "VISIBLE"}

// NewLinearLV creates a single-segment striped LV of extentCount extents
// on the first PV (in name order) with a contiguous free range at least
// that large, per spec.md §4.6's allocator policy. PV iteration order is
// lexicographic PV name order — confirmed against
// original_source/src/vg.rs, whose pvs field is a Rust BTreeMap (always
// sorted by key); see SPEC_FULL.md §6.2.
func (vg *VG) NewLinearLV(name string, extentCount uint64) (*LV, error) {
	if _, ok := vg.LV(name); ok {
		return nil, ErrLvExists
	}

	free := vg.FreeAreas()

	pvNames := make([]string, len(vg.pvs))
	for i, pv := range vg.pvs {
		pvNames[i] = pv.Name
	}
	sort.Strings(pvNames)

	var chosenPV string
	var chosenStart uint64
	found := false
	for _, pvName := range pvNames {
		starts := sortedUint64Keys(free[pvName])
		for _, start := range starts {
			if free[pvName][start] >= extentCount {
				chosenPV, chosenStart, found = pvName, start, true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return nil, ErrNoSpace
	}

	host, err := os.Hostname()
	if err != nil {
		host = ""
	}

	lv := LV{
		Name:         name,
		ID:           uuid.NewString(),
		Status:       append([]string(nil), defaultLvStatus...),
		CreationHost: host,
		CreationTime: time.Now().Unix(),
		Segments: []Segment{{
			Name:        "segment1",
			Type:        "striped",
			StartExtent: 0,
			ExtentCount: extentCount,
			Stripes:     []Stripe{{PvName: chosenPV, Start: chosenStart}},
		}},
	}

	if err := vg.AddLV(lv); err != nil {
		return nil, err
	}
	return &lv, nil
}
