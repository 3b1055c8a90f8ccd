// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

// Stripe is one (PV name, starting extent on that PV) pair within a
// segment.
type Stripe struct {
	PvName string
	Start  uint64
}

// Segment is a contiguous run of extents within an LV, backed by one or
// more stripes. Only the "striped" type is in scope (spec.md §1
// Non-goals exclude mirrored/RAID/thin segment types).
type Segment struct {
	Name        string
	Type        string
	StartExtent uint64
	ExtentCount uint64
	Stripes     []Stripe
}

// LV is a named sequence of extent-range segments within a VG.
type LV struct {
	Name         string
	ID           string
	Status       []string
	Flags        []string
	CreationHost string
	CreationTime int64
	Segments     []Segment
}

// UsedExtents sums ExtentCount across lv's segments.
func (lv *LV) UsedExtents() uint64 {
	var sum uint64
	for _, seg := range lv.Segments {
		sum += seg.ExtentCount
	}
	return sum
}

// PV is a physical volume as it appears within a VG's metadata (not to be
// confused with the on-disk PvHeader of §4.3, though PeStart/PeCount
// derive from it).
type PV struct {
	Name    string
	ID      string
	Device  string
	Status  []string
	Flags   []string
	DevSize uint64
	PeStart uint64
	PeCount uint64
}

// VG is the in-memory tree of a volume group: its PVs, its LVs, and the
// bookkeeping needed to place new extents. All operations here are pure
// in-memory; persistence happens through the MDA engine and the
// serialization bridge (serialize.go).
type VG struct {
	Name           string
	ID             string
	Seqno          uint64
	Format         string
	Status         []string
	Flags          []string
	ExtentSize     uint64
	MaxLV          uint64
	MaxPV          uint64
	MetadataCopies uint64

	pvs     []PV
	pvIndex map[string]int
	lvs     []LV
	lvIndex map[string]int
}

// NewVG returns an empty VG named name.
func NewVG(name string) *VG {
	return &VG{
		Name:    name,
		pvIndex: make(map[string]int),
		lvIndex: make(map[string]int),
	}
}

// AddPV appends pv, failing if its name is already present.
func (vg *VG) AddPV(pv PV) error {
	if _, ok := vg.pvIndex[pv.Name]; ok {
		return ErrPvExists
	}
	vg.pvIndex[pv.Name] = len(vg.pvs)
	vg.pvs = append(vg.pvs, pv)
	return nil
}

// PV looks up a PV by its local name ("pv0", ...).
func (vg *VG) PV(name string) (PV, bool) {
	i, ok := vg.pvIndex[name]
	if !ok {
		return PV{}, false
	}
	return vg.pvs[i], true
}

// PVs returns the VG's PVs in insertion order.
func (vg *VG) PVs() []PV {
	out := make([]PV, len(vg.pvs))
	copy(out, vg.pvs)
	return out
}

// AddLV appends lv, failing with ErrLvExists if its name is already
// present.
func (vg *VG) AddLV(lv LV) error {
	if _, ok := vg.lvIndex[lv.Name]; ok {
		return ErrLvExists
	}
	vg.lvIndex[lv.Name] = len(vg.lvs)
	vg.lvs = append(vg.lvs, lv)
	return nil
}

// LV looks up an LV by name.
func (vg *VG) LV(name string) (LV, bool) {
	i, ok := vg.lvIndex[name]
	if !ok {
		return LV{}, false
	}
	return vg.lvs[i], true
}

// LVs returns the VG's LVs in insertion order.
func (vg *VG) LVs() []LV {
	out := make([]LV, len(vg.lvs))
	copy(out, vg.lvs)
	return out
}

// RemoveLV removes name from the VG. Destruction of an LV is exactly
// this: removal from the committed VG textmap (spec.md §3 Lifecycle);
// the original source (original_source/src/vg.rs) did not expose this
// operation directly but its presence is implied by that lifecycle rule
// (see SPEC_FULL.md §6.1).
func (vg *VG) RemoveLV(name string) error {
	i, ok := vg.lvIndex[name]
	if !ok {
		return ErrUnknownLv
	}
	vg.lvs = append(vg.lvs[:i], vg.lvs[i+1:]...)
	delete(vg.lvIndex, name)
	for n, idx := range vg.lvIndex {
		if idx > i {
			vg.lvIndex[n] = idx - 1
		}
	}
	return nil
}

// Extents returns the sum of pe_count across the VG's PVs.
func (vg *VG) Extents() uint64 {
	var sum uint64
	for _, pv := range vg.pvs {
		sum += pv.PeCount
	}
	return sum
}

// ExtentsInUse returns the sum of extent_count across every segment of
// every LV.
func (vg *VG) ExtentsInUse() uint64 {
	var sum uint64
	for _, lv := range vg.lvs {
		sum += lv.UsedExtents()
	}
	return sum
}

// ExtentsFree returns Extents() - ExtentsInUse().
func (vg *VG) ExtentsFree() uint64 {
	return vg.Extents() - vg.ExtentsInUse()
}

// UsedAreas maps PV name -> (start_extent -> length) across every stripe
// of every segment of every LV.
func (vg *VG) UsedAreas() map[string]map[uint64]uint64 {
	used := make(map[string]map[uint64]uint64)
	for _, lv := range vg.lvs {
		for _, seg := range lv.Segments {
			for _, st := range seg.Stripes {
				m, ok := used[st.PvName]
				if !ok {
					m = make(map[uint64]uint64)
					used[st.PvName] = m
				}
				m[st.Start] = seg.ExtentCount
			}
		}
	}
	return used
}

// FreeAreas is the complement of UsedAreas within each PV's [0, pe_count)
// range. A PV with no used extents appears with a single [0, pe_count)
// range (spec.md §4.6); this mirrors original_source/src/vg.rs's
// free_areas, which inserts a sentinel entry at pe_count before folding
// over the sorted used ranges.
func (vg *VG) FreeAreas() map[string]map[uint64]uint64 {
	used := vg.UsedAreas()
	free := make(map[string]map[uint64]uint64)

	for _, pv := range vg.pvs {
		areaMap := used[pv.Name]
		starts := sortedUint64Keys(areaMap)

		var prevEnd uint64
		for _, start := range starts {
			length := areaMap[start]
			if prevEnd < start {
				addFreeRange(free, pv.Name, prevEnd, start-prevEnd)
			}
			end := start + length
			if end > prevEnd {
				prevEnd = end
			}
		}
		if prevEnd < pv.PeCount {
			addFreeRange(free, pv.Name, prevEnd, pv.PeCount-prevEnd)
		}
	}
	return free
}

func addFreeRange(free map[string]map[uint64]uint64, pvName string, start, length uint64) {
	m, ok := free[pvName]
	if !ok {
		m = make(map[uint64]uint64)
		free[pvName] = m
	}
	m[start] = length
}

func sortedUint64Keys(m map[uint64]uint64) []uint64 {
	out := make([]uint64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Small maps (one entry per LV segment on a PV); insertion sort keeps
	// this dependency-free and is plenty fast at realistic extent counts.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
