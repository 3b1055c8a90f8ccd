// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import "fmt"

// VGToTextMap converts vg to an LvmTextMap per the schema in spec.md §6.
func VGToTextMap(vg *VG) *LvmTextMap {
	vgMap := NewLvmTextMap()
	vgMap.SetString("id", vg.ID)
	vgMap.SetInt("seqno", int64(vg.Seqno))
	vgMap.SetString("format", vg.Format)
	vgMap.set("status", stringListValue(vg.Status))
	vgMap.set("flags", stringListValue(vg.Flags))
	vgMap.SetInt("extent_size", int64(vg.ExtentSize))
	vgMap.SetInt("max_lv", int64(vg.MaxLV))
	vgMap.SetInt("max_pv", int64(vg.MaxPV))
	vgMap.SetInt("metadata_copies", int64(vg.MetadataCopies))

	pvsMap := NewLvmTextMap()
	for _, pv := range vg.PVs() {
		pvMap := NewLvmTextMap()
		pvMap.SetString("id", pv.ID)
		pvMap.SetString("device", pv.Device)
		pvMap.set("status", stringListValue(pv.Status))
		pvMap.set("flags", stringListValue(pv.Flags))
		pvMap.SetInt("dev_size", int64(pv.DevSize))
		pvMap.SetInt("pe_start", int64(pv.PeStart))
		pvMap.SetInt("pe_count", int64(pv.PeCount))
		pvsMap.SetMap(pv.Name, pvMap)
	}
	vgMap.SetMap("physical_volumes", pvsMap)

	lvsMap := NewLvmTextMap()
	for _, lv := range vg.LVs() {
		lvMap := NewLvmTextMap()
		lvMap.SetString("id", lv.ID)
		lvMap.set("status", stringListValue(lv.Status))
		lvMap.set("flags", stringListValue(lv.Flags))
		lvMap.SetString("creation_host", lv.CreationHost)
		lvMap.SetInt("creation_time", lv.CreationTime)
		lvMap.SetInt("segment_count", int64(len(lv.Segments)))
		for i, seg := range lv.Segments {
			lvMap.SetMap(fmt.Sprintf("segment%d", i+1), segmentToTextMap(seg))
		}
		lvsMap.SetMap(lv.Name, lvMap)
	}
	vgMap.SetMap("logical_volumes", lvsMap)

	root := NewLvmTextMap()
	root.SetMap(vg.Name, vgMap)
	return root
}

func segmentToTextMap(seg Segment) *LvmTextMap {
	segMap := NewLvmTextMap()
	segMap.SetInt("start_extent", int64(seg.StartExtent))
	segMap.SetInt("extent_count", int64(seg.ExtentCount))
	segMap.SetString("type", seg.Type)
	if seg.Type == "striped" {
		segMap.SetInt("stripe_count", int64(len(seg.Stripes)))
		flat := make([]Value, 0, len(seg.Stripes)*2)
		for _, st := range seg.Stripes {
			flat = append(flat, StringValue(st.PvName), IntValue(int64(st.Start)))
		}
		segMap.set("stripes", Value{Kind: ValList, List: flat})
	}
	return segMap
}

func stringListValue(strs []string) Value {
	items := make([]Value, len(strs))
	for i, s := range strs {
		items[i] = StringValue(s)
	}
	return Value{Kind: ValList, List: items}
}

func stringsFromList(items []Value) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = v.Str
	}
	return out
}

// TextMapToVG converts a parsed LvmTextMap back into a VG, per the same
// schema. It validates that every stripe names a PV already present in
// the VG (spec.md §3 Ownership: "validation requires the PV exists in
// the same VG").
func TextMapToVG(root *LvmTextMap) (*VG, error) {
	keys := root.Keys()
	if len(keys) != 1 {
		return nil, &SyntaxError{Reason: "expected exactly one top-level key (the VG name)"}
	}
	name := keys[0]
	vgMap, ok := root.GetMap(name)
	if !ok {
		return nil, &SyntaxError{Reason: "top-level value must be a map"}
	}

	vg := NewVG(name)
	vg.ID, _ = vgMap.GetString("id")
	if seqno, ok := vgMap.GetInt("seqno"); ok {
		vg.Seqno = uint64(seqno)
	}
	vg.Format, _ = vgMap.GetString("format")
	if list, ok := vgMap.GetList("status"); ok {
		vg.Status = stringsFromList(list)
	}
	if list, ok := vgMap.GetList("flags"); ok {
		vg.Flags = stringsFromList(list)
	}
	if v, ok := vgMap.GetInt("extent_size"); ok {
		vg.ExtentSize = uint64(v)
	}
	if v, ok := vgMap.GetInt("max_lv"); ok {
		vg.MaxLV = uint64(v)
	}
	if v, ok := vgMap.GetInt("max_pv"); ok {
		vg.MaxPV = uint64(v)
	}
	if v, ok := vgMap.GetInt("metadata_copies"); ok {
		vg.MetadataCopies = uint64(v)
	}

	if pvsMap, ok := vgMap.GetMap("physical_volumes"); ok {
		for _, pvName := range pvsMap.Keys() {
			pvMap, ok := pvsMap.GetMap(pvName)
			if !ok {
				return nil, &SyntaxError{Reason: "physical_volumes entry must be a map"}
			}
			pv := PV{Name: pvName}
			pv.ID, _ = pvMap.GetString("id")
			pv.Device, _ = pvMap.GetString("device")
			if l, ok := pvMap.GetList("status"); ok {
				pv.Status = stringsFromList(l)
			}
			if l, ok := pvMap.GetList("flags"); ok {
				pv.Flags = stringsFromList(l)
			}
			if v, ok := pvMap.GetInt("dev_size"); ok {
				pv.DevSize = uint64(v)
			}
			if v, ok := pvMap.GetInt("pe_start"); ok {
				pv.PeStart = uint64(v)
			}
			if v, ok := pvMap.GetInt("pe_count"); ok {
				pv.PeCount = uint64(v)
			}
			if err := vg.AddPV(pv); err != nil {
				return nil, err
			}
		}
	}

	if lvsMap, ok := vgMap.GetMap("logical_volumes"); ok {
		for _, lvName := range lvsMap.Keys() {
			lvMap, ok := lvsMap.GetMap(lvName)
			if !ok {
				return nil, &SyntaxError{Reason: "logical_volumes entry must be a map"}
			}
			lv, err := textMapToLV(lvName, lvMap)
			if err != nil {
				return nil, err
			}
			for _, seg := range lv.Segments {
				for _, st := range seg.Stripes {
					if _, ok := vg.PV(st.PvName); !ok {
						return nil, ErrUnknownPv
					}
				}
			}
			if err := vg.AddLV(*lv); err != nil {
				return nil, err
			}
		}
	}

	return vg, nil
}

func textMapToLV(name string, lvMap *LvmTextMap) (*LV, error) {
	lv := &LV{Name: name}
	lv.ID, _ = lvMap.GetString("id")
	if l, ok := lvMap.GetList("status"); ok {
		lv.Status = stringsFromList(l)
	}
	if l, ok := lvMap.GetList("flags"); ok {
		lv.Flags = stringsFromList(l)
	}
	lv.CreationHost, _ = lvMap.GetString("creation_host")
	if v, ok := lvMap.GetInt("creation_time"); ok {
		lv.CreationTime = v
	}

	segCount, _ := lvMap.GetInt("segment_count")
	for i := int64(1); i <= segCount; i++ {
		segName := fmt.Sprintf("segment%d", i)
		segMap, ok := lvMap.GetMap(segName)
		if !ok {
			return nil, &SyntaxError{Reason: "missing " + segName}
		}
		seg, err := textMapToSegment(segName, segMap)
		if err != nil {
			return nil, err
		}
		lv.Segments = append(lv.Segments, *seg)
	}
	return lv, nil
}

func textMapToSegment(name string, segMap *LvmTextMap) (*Segment, error) {
	seg := &Segment{Name: name}
	if v, ok := segMap.GetInt("start_extent"); ok {
		seg.StartExtent = uint64(v)
	}
	if v, ok := segMap.GetInt("extent_count"); ok {
		seg.ExtentCount = uint64(v)
	}
	seg.Type, _ = segMap.GetString("type")

	if seg.Type != "striped" {
		return nil, ErrNotSupported
	}
	flat, _ := segMap.GetList("stripes")
	for j := 0; j+1 < len(flat); j += 2 {
		seg.Stripes = append(seg.Stripes, Stripe{
			PvName: flat[j].Str,
			Start:  uint64(flat[j+1].Int),
		})
	}
	return seg, nil
}
