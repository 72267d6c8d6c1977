// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/swmmgo/proj"
	"github.com/cpmech/swmmgo/xsect"
)

const sampleDoc = `{
  "options": {"routing_model": 1},
  "time_series": [
    {"id": "rain1", "time": [0, 3600, 7200], "value": [1, 1, 0]}
  ],
  "gages": [
    {"id": "G1", "time_series": "rain1"}
  ],
  "nodes": [
    {"id": "J1", "kind": "junction", "invert_elev": 100, "full_depth": 10, "ponded_area": 20},
    {"id": "OUT", "kind": "outfall", "invert_elev": 96, "outfall": {"type": "free"}}
  ],
  "links": [
    {"id": "C1", "kind": "conduit", "node1": "J1", "node2": "OUT", "length": 300, "barrels": 1,
     "xsect": {"shape": "circular", "full_depth": 2, "roughness": 0.013}}
  ],
  "subcatchments": [
    {"id": "S1", "gage": "G1", "outlet_node": "J1", "area_ft2": 43560, "width": 200, "slope": 0.01,
     "imperv": {"frac_area": 0.3, "roughness": 0.015, "dstore": 0.005},
     "imperv_depressed": {"frac_area": 0.2, "roughness": 0.015, "dstore": 0.01},
     "pervious": {"frac_area": 0.5, "roughness": 0.24, "dstore": 0.02}}
  ]
}`

func TestLoadResolvesReferencesByName(t *testing.T) {
	p, err := Load([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Gages) != 1 || len(p.Nodes) != 2 || len(p.Links) != 1 || len(p.Subcatchs) != 1 {
		t.Fatalf("unexpected object counts: gages=%d nodes=%d links=%d subcatchs=%d",
			len(p.Gages), len(p.Nodes), len(p.Links), len(p.Subcatchs))
	}
	if p.Gages[0].TSeries != 0 {
		t.Errorf("gage G1 time series ref = %d, want 0", p.Gages[0].TSeries)
	}
	link := p.Links[0]
	if link.Node1 != 0 || link.Node2 != 1 {
		t.Errorf("link C1 endpoints = (%d,%d), want (0,1)", link.Node1, link.Node2)
	}
	if link.XSect == nil || link.XSect.Shape != xsect.Circular {
		t.Fatalf("link C1 cross-section not resolved: %+v", link.XSect)
	}
	sub := p.Subcatchs[0]
	if sub.GageRef != 0 {
		t.Errorf("subcatchment gage ref = %d, want 0", sub.GageRef)
	}
	if sub.Outlet.Kind != proj.OutletNode || sub.Outlet.Ref != 0 {
		t.Errorf("subcatchment outlet = %+v, want {OutletNode 0}", sub.Outlet)
	}
}

func TestLoadFillsDefaultOptionsWhenOmitted(t *testing.T) {
	p, err := Load([]byte(`{"nodes": [], "links": [], "subcatchments": []}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Options.RouteStep != proj.DefaultOptions().RouteStep {
		t.Errorf("RouteStep = %v, want default %v", p.Options.RouteStep, proj.DefaultOptions().RouteStep)
	}
}

func TestLoadRejectsUnknownReference(t *testing.T) {
	_, err := Load([]byte(`{
		"nodes": [{"id": "J1", "kind": "junction"}],
		"links": [{"id": "C1", "kind": "conduit", "node1": "J1", "node2": "NOPE"}]
	}`))
	if err == nil {
		t.Fatalf("expected Load to reject a link referencing an unknown node")
	}
}

func TestLoadResolvesForwardSubcatchmentOutlet(t *testing.T) {
	p, err := Load([]byte(`{
		"nodes": [{"id": "J1", "kind": "junction"}],
		"subcatchments": [
			{"id": "S1", "outlet_subcatchment": "S2", "area_ft2": 10000,
			 "imperv": {"frac_area": 0.3}, "imperv_depressed": {"frac_area": 0.2}, "pervious": {"frac_area": 0.5}},
			{"id": "S2", "outlet_node": "J1", "area_ft2": 20000,
			 "imperv": {"frac_area": 0.3}, "imperv_depressed": {"frac_area": 0.2}, "pervious": {"frac_area": 0.5}}
		]
	}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Subcatchs[0].Outlet.Kind != proj.OutletSubcatch || p.Subcatchs[0].Outlet.Ref != 1 {
		t.Errorf("S1 outlet = %+v, want {OutletSubcatch 1}", p.Subcatchs[0].Outlet)
	}
}

func TestLoadRejectsUnknownCrossSectionShape(t *testing.T) {
	_, err := Load([]byte(`{
		"nodes": [{"id": "J1", "kind": "junction"}, {"id": "J2", "kind": "junction"}],
		"links": [{"id": "C1", "kind": "conduit", "node1": "J1", "node2": "J2",
		           "xsect": {"shape": "hexagonal"}}]
	}`))
	if err == nil {
		t.Fatalf("expected Load to reject an unknown cross-section shape")
	}
}
