// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"errors"
	"testing"
)

func TestNewLinearLVPicksFirstPVInNameOrder(t *testing.T) {
	vg := NewVG("data")
	if err := vg.AddPV(PV{Name: "pv1", PeCount: 100}); err != nil {
		t.Fatalf("AddPV(pv1): %v", err)
	}
	if err := vg.AddPV(PV{Name: "pv0", PeCount: 100}); err != nil {
		t.Fatalf("AddPV(pv0): %v", err)
	}

	lv, err := vg.NewLinearLV("lv0", 10)
	if err != nil {
		t.Fatalf("NewLinearLV: %v", err)
	}
	if got := lv.Segments[0].Stripes[0].PvName; got != "pv0" {
		t.Errorf("allocated on %q, want pv0 (lexicographically first)", got)
	}
	if lv.ID == "" {
		t.Error("expected a generated LV ID")
	}
	if lv.UsedExtents() != 10 {
		t.Errorf("UsedExtents() = %d, want 10", lv.UsedExtents())
	}
}

func TestNewLinearLVFillsHoleBeforeNewPV(t *testing.T) {
	vg := NewVG("data")
	if err := vg.AddPV(PV{Name: "pv0", PeCount: 20}); err != nil {
		t.Fatalf("AddPV: %v", err)
	}
	if err := vg.AddPV(PV{Name: "pv1", PeCount: 20}); err != nil {
		t.Fatalf("AddPV: %v", err)
	}
	// Consume all of pv0 except a 5-extent hole in the middle.
	if err := vg.AddLV(LV{Name: "existing-a", Segments: []Segment{
		{Type: "striped", ExtentCount: 5, Stripes: []Stripe{{PvName: "pv0", Start: 0}}},
	}}); err != nil {
		t.Fatalf("AddLV: %v", err)
	}
	if err := vg.AddLV(LV{Name: "existing-b", Segments: []Segment{
		{Type: "striped", ExtentCount: 10, Stripes: []Stripe{{PvName: "pv0", Start: 10}}},
	}}); err != nil {
		t.Fatalf("AddLV: %v", err)
	}

	lv, err := vg.NewLinearLV("lv0", 5)
	if err != nil {
		t.Fatalf("NewLinearLV: %v", err)
	}
	st := lv.Segments[0].Stripes[0]
	if st.PvName != "pv0" || st.Start != 5 {
		t.Errorf("allocated at %s:%d, want pv0:5 (the hole)", st.PvName, st.Start)
	}
}

func TestNewLinearLVNoSpace(t *testing.T) {
	vg := NewVG("data")
	if err := vg.AddPV(PV{Name: "pv0", PeCount: 10}); err != nil {
		t.Fatalf("AddPV: %v", err)
	}
	if _, err := vg.NewLinearLV("lv0", 11); !errors.Is(err, ErrNoSpace) {
		t.Errorf("NewLinearLV over capacity = %v, want ErrNoSpace", err)
	}
}

func TestNewLinearLVDuplicateName(t *testing.T) {
	vg := NewVG("data")
	if err := vg.AddPV(PV{Name: "pv0", PeCount: 10}); err != nil {
		t.Fatalf("AddPV: %v", err)
	}
	if _, err := vg.NewLinearLV("lv0", 1); err != nil {
		t.Fatalf("NewLinearLV: %v", err)
	}
	if _, err := vg.NewLinearLV("lv0", 1); !errors.Is(err, ErrLvExists) {
		t.Errorf("NewLinearLV duplicate name = %v, want ErrLvExists", err)
	}
}
