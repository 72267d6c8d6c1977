// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"testing"

	"github.com/cpmech/swmmgo/proj"
	"github.com/cpmech/swmmgo/xsect"
)

func twoLinkProject() *proj.Project {
	p := proj.New(proj.DefaultOptions())
	p.Nodes = []*proj.Node{
		{ID: "J1", Kind: proj.Junction, InvertElev: 100, FullDepth: 10, PondedArea: 20},
		{ID: "J2", Kind: proj.Junction, InvertElev: 98, FullDepth: 10, PondedArea: 20},
		{ID: "OUT", Kind: proj.Outfall, InvertElev: 96, Outfall: &proj.OutfallData{BoundaryType: proj.OutfallFree}},
	}
	p.Links = []*proj.Link{
		{ID: "C1", Kind: proj.Conduit, Node1: 0, Node2: 1, Length: 300, Barrels: 1,
			XSect: &xsect.Section{Shape: xsect.Circular, FullDepth: 2, Roughness: 0.013}},
		{ID: "C2", Kind: proj.Conduit, Node1: 1, Node2: 2, Length: 300, Barrels: 1,
			XSect: &xsect.Section{Shape: xsect.Circular, FullDepth: 2, Roughness: 0.013}},
	}
	p.Nodes[0].NewLatFlow = 5
	return p
}

func TestNewUnknownKernel(t *testing.T) {
	if _, err := New("bogus"); err == nil {
		t.Errorf("expected error for unknown kernel name")
	}
}

func TestForModelDispatch(t *testing.T) {
	for model, want := range map[proj.RoutingModel]string{
		proj.RouteSteady:           "steady",
		proj.RouteKinematic:        "kinematic",
		proj.RouteExtendedKinematic: "extkinematic",
		proj.RouteDynamic:          "dynamic",
	} {
		k, err := ForModel(model)
		if err != nil {
			t.Fatalf("ForModel(%v): %v", model, err)
		}
		if k.Name() != want {
			t.Errorf("ForModel(%v) = %q, want %q", model, k.Name(), want)
		}
	}
}

func TestTopoOrderDetectsCycle(t *testing.T) {
	p := twoLinkProject()
	p.Links = append(p.Links, &proj.Link{ID: "C3", Kind: proj.Conduit, Node1: 2, Node2: 0, Length: 100, Barrels: 1,
		XSect: &xsect.Section{Shape: xsect.Circular, FullDepth: 2, Roughness: 0.013}})
	if _, err := TopoOrder(p); err == nil {
		t.Errorf("expected cycle detection error")
	}
}

func TestSteadyKernelPropagatesFlowDownstream(t *testing.T) {
	p := twoLinkProject()
	k, _ := New("steady")
	if err := k.RouteStep(p, 60); err != nil {
		t.Fatalf("RouteStep: %v", err)
	}
	if p.Links[0].NewFlow != 5 {
		t.Errorf("C1 flow = %v, want 5", p.Links[0].NewFlow)
	}
	if p.Links[1].NewFlow != 5 {
		t.Errorf("C2 flow = %v, want 5", p.Links[1].NewFlow)
	}
}

func TestKinematicKernelConservesInflowAtSteadyState(t *testing.T) {
	p := twoLinkProject()
	k, _ := New("kinematic")
	for i := 0; i < 200; i++ {
		if err := k.RouteStep(p, 10); err != nil {
			t.Fatalf("RouteStep: %v", err)
		}
	}
	if p.Links[1].NewFlow < 1 {
		t.Errorf("downstream flow did not build up toward steady inflow, got %v", p.Links[1].NewFlow)
	}
}

func TestExtendedKinematicNamesDiffer(t *testing.T) {
	k, _ := New("extkinematic")
	ek := k.(*KinematicKernel)
	if !ek.Extended {
		t.Errorf("expected Extended=true for extkinematic allocator")
	}
	if k.Name() != "extkinematic" {
		t.Errorf("Name() = %q", k.Name())
	}
}

func TestDynamicKernelRunsWithoutError(t *testing.T) {
	p := twoLinkProject()
	k, _ := New("dynamic")
	for i := 0; i < 50; i++ {
		if err := k.RouteStep(p, 15); err != nil {
			t.Fatalf("RouteStep: %v", err)
		}
	}
	if p.Nodes[0].NewDepth < 0 {
		t.Errorf("negative depth at J1: %v", p.Nodes[0].NewDepth)
	}
	if p.Links[0].NewFlow <= 0 {
		t.Errorf("expected positive flow into C1, got %v", p.Links[0].NewFlow)
	}
}

func TestDynamicKernelClassifiesAllFullSuppressedUnderSlot(t *testing.T) {
	p := twoLinkProject()
	p.Options.SurchargeMethod = proj.SurchargeSlot
	p.Nodes[0].NewDepth = 10
	p.Nodes[1].NewDepth = 10
	cls := classifyFull(p, p.Links[0], 1.0)
	if cls == proj.ClassAllFull {
		t.Errorf("expected ALL_FULL to be suppressed under Preissmann slot")
	}
}

func TestNormalDepthRoundTripsThroughManningFlow(t *testing.T) {
	p := twoLinkProject()
	l := p.Links[0]
	slope := conduitSlope(p, l)
	q := manningFlow(l, slope, 0.8)
	depth := NormalDepth(p, l, q)
	if depth < 0.7 || depth > 0.9 {
		t.Errorf("NormalDepth round-trip = %v, want close to 0.8", depth)
	}
}
