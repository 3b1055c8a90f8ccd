// Copyright 2024 lvm2kit. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package lvm2

import (
	"errors"
	"testing"
)

func twoPVVG(t *testing.T) *VG {
	t.Helper()
	vg := NewVG("data")
	vg.ExtentSize = 4 * 1024 * 1024
	if err := vg.AddPV(PV{Name: "pv0", ID: "pvid0", PeCount: 100}); err != nil {
		t.Fatalf("AddPV(pv0): %v", err)
	}
	if err := vg.AddPV(PV{Name: "pv1", ID: "pvid1", PeCount: 50}); err != nil {
		t.Fatalf("AddPV(pv1): %v", err)
	}
	return vg
}

func TestVGAddPVDuplicate(t *testing.T) {
	vg := twoPVVG(t)
	if err := vg.AddPV(PV{Name: "pv0"}); !errors.Is(err, ErrPvExists) {
		t.Errorf("AddPV duplicate = %v, want ErrPvExists", err)
	}
}

func TestVGAddLVDuplicate(t *testing.T) {
	vg := twoPVVG(t)
	lv := LV{Name: "lv0", Segments: []Segment{{Type: "striped", ExtentCount: 10, Stripes: []Stripe{{PvName: "pv0", Start: 0}}}}}
	if err := vg.AddLV(lv); err != nil {
		t.Fatalf("AddLV: %v", err)
	}
	if err := vg.AddLV(lv); !errors.Is(err, ErrLvExists) {
		t.Errorf("AddLV duplicate = %v, want ErrLvExists", err)
	}
}

func TestVGRemoveLV(t *testing.T) {
	vg := twoPVVG(t)
	lv := LV{Name: "lv0", Segments: []Segment{{Type: "striped", ExtentCount: 10, Stripes: []Stripe{{PvName: "pv0", Start: 0}}}}}
	if err := vg.AddLV(lv); err != nil {
		t.Fatalf("AddLV: %v", err)
	}
	lv2 := LV{Name: "lv1", Segments: []Segment{{Type: "striped", ExtentCount: 5, Stripes: []Stripe{{PvName: "pv0", Start: 10}}}}}
	if err := vg.AddLV(lv2); err != nil {
		t.Fatalf("AddLV: %v", err)
	}

	if err := vg.RemoveLV("lv0"); err != nil {
		t.Fatalf("RemoveLV: %v", err)
	}
	if _, ok := vg.LV("lv0"); ok {
		t.Error("lv0 should be gone after RemoveLV")
	}
	if got, ok := vg.LV("lv1"); !ok || got.Name != "lv1" {
		t.Errorf("lv1 should remain reachable after removing lv0, got %v, %v", got, ok)
	}
	if err := vg.RemoveLV("lv0"); !errors.Is(err, ErrUnknownLv) {
		t.Errorf("RemoveLV missing lv = %v, want ErrUnknownLv", err)
	}
}

func TestVGExtentAccounting(t *testing.T) {
	vg := twoPVVG(t)
	lv := LV{Name: "lv0", Segments: []Segment{
		{Type: "striped", ExtentCount: 10, Stripes: []Stripe{{PvName: "pv0", Start: 0}}},
		{Type: "striped", ExtentCount: 5, Stripes: []Stripe{{PvName: "pv1", Start: 0}}},
	}}
	if err := vg.AddLV(lv); err != nil {
		t.Fatalf("AddLV: %v", err)
	}

	if got, want := vg.Extents(), uint64(150); got != want {
		t.Errorf("Extents() = %d, want %d", got, want)
	}
	if got, want := vg.ExtentsInUse(), uint64(15); got != want {
		t.Errorf("ExtentsInUse() = %d, want %d", got, want)
	}
	if got, want := vg.ExtentsFree(), uint64(135); got != want {
		t.Errorf("ExtentsFree() = %d, want %d", got, want)
	}
}

func TestVGFreeAreasWholeEmptyPV(t *testing.T) {
	vg := twoPVVG(t)
	free := vg.FreeAreas()
	if len(free["pv0"]) != 1 || free["pv0"][0] != 100 {
		t.Errorf("FreeAreas()[pv0] = %v, want {0: 100}", free["pv0"])
	}
	if len(free["pv1"]) != 1 || free["pv1"][0] != 50 {
		t.Errorf("FreeAreas()[pv1] = %v, want {0: 50}", free["pv1"])
	}
}

func TestVGFreeAreasWithHole(t *testing.T) {
	vg := twoPVVG(t)
	lv := LV{Name: "lv0", Segments: []Segment{
		{Type: "striped", ExtentCount: 10, Stripes: []Stripe{{PvName: "pv0", Start: 0}}},
		{Type: "striped", ExtentCount: 10, Stripes: []Stripe{{PvName: "pv0", Start: 50}}},
	}}
	if err := vg.AddLV(lv); err != nil {
		t.Fatalf("AddLV: %v", err)
	}

	free := vg.FreeAreas()["pv0"]
	if free[10] != 40 {
		t.Errorf("FreeAreas()[pv0][10] = %d, want 40 (hole between the two used ranges)", free[10])
	}
	if free[60] != 40 {
		t.Errorf("FreeAreas()[pv0][60] = %d, want 40 (tail after the second used range)", free[60])
	}
}
