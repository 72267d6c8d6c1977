// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

import (
	"testing"

	"github.com/cpmech/swmmgo/xsect"
)

func twoJunctionProject() *Project {
	p := New(DefaultOptions())
	p.Nodes = []*Node{
		{ID: "J1", Kind: Junction, FullDepth: 10},
		{ID: "J2", Kind: Junction, FullDepth: 10},
	}
	p.Links = []*Link{
		{ID: "C1", Kind: Conduit, Node1: 0, Node2: 1, Length: 400, Barrels: 1,
			XSect: &xsect.Section{Shape: xsect.Circular, FullDepth: 2}},
	}
	p.Subcatchs = []*Subcatchment{
		{ID: "S1", Area: 15 * 43560, SubAreas: [3]SubArea{{FracArea: 0.1}, {FracArea: 0.3}, {FracArea: 0.6}}},
	}
	return p
}

func TestRebuildAndLookup(t *testing.T) {
	p := twoJunctionProject()
	if err := p.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if p.Lookup(KindNode, "j1") != 0 {
		t.Errorf("case-insensitive lookup failed for J1")
	}
	if p.Lookup(KindLink, "C1") != 0 {
		t.Errorf("lookup failed for C1")
	}
	if p.Lookup(KindNode, "nope") != NoRef {
		t.Errorf("expected NoRef for missing node")
	}
}

func TestValidateSubAreaFractions(t *testing.T) {
	p := twoJunctionProject()
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
	p.Subcatchs[0].SubAreas[2].FracArea = 0.9 // now sums to 1.3
	if err := p.Validate(); err == nil {
		t.Errorf("expected sub-area fraction validation error")
	}
}

func TestValidateDividerRequiresTwoOutlets(t *testing.T) {
	p := twoJunctionProject()
	p.Nodes = append(p.Nodes, &Node{ID: "D1", Kind: Divider, Divider: &DividerData{}, OutLinks: []Ref{0}})
	if err := p.Validate(); err == nil {
		t.Errorf("expected divider-outlet-count validation error")
	}
}

func TestDuplicateNameOnRebuild(t *testing.T) {
	p := twoJunctionProject()
	p.Nodes = append(p.Nodes, &Node{ID: "j1", Kind: Junction})
	if err := p.Rebuild(); err == nil {
		t.Errorf("expected duplicate-name error for case-insensitive J1/j1")
	}
}
