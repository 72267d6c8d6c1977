// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runoff

import (
	"testing"

	"github.com/cpmech/swmmgo/proj"
)

func simpleSubcatch() *proj.Subcatchment {
	s := &proj.Subcatchment{
		ID:         "S1",
		Area:       5 * 43560, // 5 acres in ft^2
		Width:      200,
		Slope:      0.01,
		FracImperv: 0.4,
		Routing:    proj.RouteToOutlet,
	}
	s.SubAreas[proj.SubAreaImpervNoDep] = proj.SubArea{FracArea: 0.3, Roughness: 0.011, DStore: 0.05 / 12}
	s.SubAreas[proj.SubAreaImpervDep] = proj.SubArea{FracArea: 0.1, Roughness: 0.011, DStore: 0.1 / 12}
	s.SubAreas[proj.SubAreaPerv] = proj.SubArea{FracArea: 0.6, Roughness: 0.1, DStore: 0.2 / 12}
	s.Infil.ModelName = "horton"
	s.Infil.Params = []float64{4.5 / 12 / 3600, 0.5 / 12 / 3600, 0.000411, 7 * 86400}
	return s
}

func engineForProject(t *testing.T, s *proj.Subcatchment) (*Engine, proj.Ref) {
	t.Helper()
	p := proj.New(proj.DefaultOptions())
	p.Subcatchs = append(p.Subcatchs, s)
	e, err := NewEngine(p)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e, proj.Ref(0)
}

func TestStepProducesRunoffUnderHeavyRain(t *testing.T) {
	s := simpleSubcatch()
	e, ref := engineForProject(t, s)

	in := Inputs{Rainfall: 3.0 / 12 / 3600, Tstep: 60}
	var q float64
	var err error
	for i := 0; i < 120; i++ {
		q, err = e.Step(ref, s, in)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if q <= 0 {
		t.Fatalf("expected positive runoff under sustained heavy rain, got %v", q)
	}
}

func TestStepZeroRainZeroRunoffEventually(t *testing.T) {
	s := simpleSubcatch()
	e, ref := engineForProject(t, s)

	wet := Inputs{Rainfall: 2.0 / 12 / 3600, Tstep: 60}
	for i := 0; i < 30; i++ {
		e.Step(ref, s, wet)
	}
	dry := Inputs{Tstep: 60}
	var q float64
	for i := 0; i < 500; i++ {
		q, _ = e.Step(ref, s, dry)
	}
	if q > 1e-6 {
		t.Fatalf("expected runoff to drain to ~0 under sustained dry weather, got %v", q)
	}
}

func TestRouteToImpervConcentratesPervRunoff(t *testing.T) {
	s := simpleSubcatch()
	s.Routing = proj.RouteToImperv
	e, ref := engineForProject(t, s)

	in := Inputs{Rainfall: 2.0 / 12 / 3600, Tstep: 60}
	for i := 0; i < 60; i++ {
		e.Step(ref, s, in)
	}
	if s.SubAreas[proj.SubAreaPerv].Runoff != 0 {
		t.Fatalf("expected pervious sub-area runoff to be rerouted to impervious, got %v", s.SubAreas[proj.SubAreaPerv].Runoff)
	}
}

func TestRouteToPervConcentratesImpervRunoff(t *testing.T) {
	s := simpleSubcatch()
	s.Routing = proj.RouteToPerv
	e, ref := engineForProject(t, s)

	in := Inputs{Rainfall: 2.0 / 12 / 3600, Tstep: 60}
	for i := 0; i < 60; i++ {
		e.Step(ref, s, in)
	}
	if s.SubAreas[proj.SubAreaImpervNoDep].Runoff != 0 || s.SubAreas[proj.SubAreaImpervDep].Runoff != 0 {
		t.Fatalf("expected impervious runoff to be rerouted to pervious")
	}
}

func TestMassBalanceAccumulates(t *testing.T) {
	s := simpleSubcatch()
	e, ref := engineForProject(t, s)

	in := Inputs{Rainfall: 1.0 / 12 / 3600, Tstep: 60}
	for i := 0; i < 60; i++ {
		e.Step(ref, s, in)
	}
	if s.TotalPrecip <= 0 {
		t.Fatalf("expected cumulative precip to accumulate, got %v", s.TotalPrecip)
	}
	if s.TotalRunoff < 0 {
		t.Fatalf("cumulative runoff should never be negative, got %v", s.TotalRunoff)
	}
}

func TestNoAreaSubcatchIsNoop(t *testing.T) {
	s := simpleSubcatch()
	s.Area = 0
	e, ref := engineForProject(t, s)

	q, err := e.Step(ref, s, Inputs{Rainfall: 1, Tstep: 60})
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if q != 0 {
		t.Fatalf("expected zero-area subcatchment to produce zero runoff, got %v", q)
	}
}
