// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"testing"

	"github.com/cpmech/swmmgo/proj"
	"github.com/cpmech/swmmgo/xsect"
)

func fixtureProject() *proj.Project {
	opts := proj.DefaultOptions()
	opts.RoutingModel = proj.RouteKinematic
	p := proj.New(opts)

	p.TSeries = []*proj.TimeSeries{
		{ID: "rain1", Time: []float64{0, 3600, 7200}, Val: []float64{1, 1, 0}},
	}
	p.Gages = []*proj.Gage{
		{ID: "G1", Source: proj.SourceTimeSeries, TSeries: 0},
	}
	p.Nodes = []*proj.Node{
		{ID: "J1", Kind: proj.Junction, InvertElev: 100, FullDepth: 10, PondedArea: 20},
		{ID: "OUT", Kind: proj.Outfall, InvertElev: 96, Outfall: &proj.OutfallData{BoundaryType: proj.OutfallFree}},
	}
	p.Links = []*proj.Link{
		{ID: "C1", Kind: proj.Conduit, Node1: 0, Node2: 1, Length: 300, Barrels: 1,
			XSect: &xsect.Section{Shape: xsect.Circular, FullDepth: 2, Roughness: 0.013}},
	}
	p.Subcatchs = []*proj.Subcatchment{
		{
			ID:      "S1",
			GageRef: 0,
			Outlet:  proj.Outlet{Kind: proj.OutletNode, Ref: 0},
			Area:    43560, // 1 acre, ft^2
			Width:   200,
			Slope:   0.01,
			SubAreas: [3]proj.SubArea{
				{FracArea: 0.3, Roughness: 0.015, DStore: 0.005},
				{FracArea: 0.2, Roughness: 0.015, DStore: 0.01},
				{FracArea: 0.5, Roughness: 0.24, DStore: 0.02},
			},
		},
	}
	return p
}

func TestControllerLifecycleRejectsOutOfOrderCalls(t *testing.T) {
	p := fixtureProject()
	c := NewController(p)

	if err := c.Start(); err == nil {
		t.Fatalf("Start before Open should fail")
	}
	if err := c.Step(10); err == nil {
		t.Fatalf("Step before Open/Start should fail")
	}
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Open(); err == nil {
		t.Fatalf("double Open should fail")
	}
	if err := c.Step(10); err == nil {
		t.Fatalf("Step before Start should fail")
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.End(); err != nil {
		t.Fatalf("End from Started should be legal even with no Step calls: %v", err)
	}
	if err := c.Step(10); err == nil {
		t.Fatalf("Step after End should fail")
	}
}

func TestControllerOpenValidatesProject(t *testing.T) {
	p := fixtureProject()
	p.Subcatchs[0].SubAreas[0].FracArea = 0.9 // sums > 1, should fail validate
	c := NewController(p)
	if err := c.Open(); err == nil {
		t.Fatalf("expected Open to reject an invalid project")
	}
}

func TestControllerRunsStepsAndAccumulatesRunoff(t *testing.T) {
	p := fixtureProject()
	c := NewController(p)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 360; i++ {
		if err := c.Step(60); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if err := c.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	depth, err := c.GetNodeResult(0, ResultNodeDepth)
	if err != nil {
		t.Fatalf("GetNodeResult: %v", err)
	}
	if depth < 0 {
		t.Errorf("J1 depth went negative: %v", depth)
	}

	flow, err := c.GetLinkResult(0, ResultLinkFlow)
	if err != nil {
		t.Fatalf("GetLinkResult: %v", err)
	}
	if flow <= 0 {
		t.Errorf("expected positive flow through C1 after an hour of rain, got %v", flow)
	}

	report, err := c.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.MaxRunoffFlow <= 0 {
		t.Errorf("expected nonzero tracked runoff, got %v", report.MaxRunoffFlow)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Open(); err != nil {
		t.Fatalf("re-Open after Close: %v", err)
	}
}

func TestControllerRejectsNonPositiveTstep(t *testing.T) {
	p := fixtureProject()
	c := NewController(p)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Step(0); err == nil {
		t.Fatalf("expected Step(0) to fail")
	}
}

func TestSetAndGetNodeProperty(t *testing.T) {
	p := fixtureProject()
	c := NewController(p)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.SetNodeProperty(0, PropFullDepth, 15); err != nil {
		t.Fatalf("SetNodeProperty: %v", err)
	}
	if p.Nodes[0].FullDepth != 15 {
		t.Errorf("FullDepth = %v, want 15", p.Nodes[0].FullDepth)
	}
	if _, err := c.GetNodeResult(99, ResultNodeDepth); err == nil {
		t.Errorf("expected out-of-range ref to error")
	}
}

func TestSetSimSettingRoundTrips(t *testing.T) {
	p := fixtureProject()
	c := NewController(p)
	if err := c.SetSimSetting(SettingCourantFactor, 0.5); err != nil {
		t.Fatalf("SetSimSetting: %v", err)
	}
	got, err := c.GetSimSetting(SettingCourantFactor)
	if err != nil {
		t.Fatalf("GetSimSetting: %v", err)
	}
	if got != 0.5 {
		t.Errorf("CourantFactor = %v, want 0.5", got)
	}
}

// qualityFixtureProject extends fixtureProject with a pollutant, a
// land-use with both buildup and washoff configured, and that land-use
// assigned to the fixture subcatchment, exercising spec §4.H's buildup
// -> washoff -> outlet-node deposit chain.
func qualityFixtureProject() *proj.Project {
	p := fixtureProject()
	// Replace the base fixture's rain-first series with a dry spell
	// followed by a one-hour storm, so buildup has time to accumulate
	// before washoff removes it.
	p.TSeries[0] = &proj.TimeSeries{
		ID:   "rain1",
		Time: []float64{0, 43200, 43201, 46800, 46801},
		Val:  []float64{0, 0, 1, 1, 0},
	}
	p.Pollutants = []*proj.Pollutant{
		{ID: "TSS", Units: proj.UnitsMgL},
	}
	p.Landuses = []*proj.Landuse{
		{
			ID: "RESIDENTIAL",
			Quality: []proj.LanduseQuality{
				{
					PollutRef: 0,
					Buildup:   proj.BuildupPower,
					BuildupC1: 50, BuildupC2: 0.5,
					Washoff:   proj.WashoffExponential,
					WashoffC1: 0.01, WashoffC2: 1.5,
				},
			},
		},
	}
	p.Subcatchs[0].Landuses = []proj.LanduseArea{{LanduseRef: 0, Frac: 1}}
	p.Subcatchs[0].Infil.ModelName = "horton"
	p.Subcatchs[0].Infil.Params = []float64{0.002, 0.0005, 0.00005, 4}
	return p
}

func TestControllerRoutesBuildupWashoffToOutfall(t *testing.T) {
	p := qualityFixtureProject()
	c := NewController(p)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// A 12-hour dry spell lets buildup accumulate before the one-hour
	// storm (qualityFixtureProject's rain series) washes it off.
	for i := 0; i < 720; i++ {
		if err := c.Step(60); err != nil {
			t.Fatalf("dry Step %d: %v", i, err)
		}
	}
	for i := 0; i < 60; i++ {
		if err := c.Step(60); err != nil {
			t.Fatalf("wet Step %d: %v", i, err)
		}
	}

	outfall := p.Nodes[1]
	if len(outfall.NewQual) == 0 || outfall.NewQual[0] <= 0 {
		t.Fatalf("expected positive TSS concentration at outfall after washoff, got %v", outfall.NewQual)
	}
}

func TestControllerStartRejectsCyclicTreatment(t *testing.T) {
	p := qualityFixtureProject()
	p.Pollutants = append(p.Pollutants, &proj.Pollutant{ID: "BOD", Units: proj.UnitsMgL})
	p.Nodes[0].Treatments = []proj.Treatment{
		{PollutRef: 0, Expr: "BOD * 0.5"},
		{PollutRef: 1, Expr: "TSS * 0.5"},
	}
	c := NewController(p)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Start(); err == nil {
		t.Fatalf("expected Start to reject a cyclic treatment dependency")
	}
}

func TestControllerSubcatchStatsCarryRealRates(t *testing.T) {
	p := fixtureProject()
	p.Subcatchs[0].Infil.ModelName = "horton"
	p.Subcatchs[0].Infil.Params = []float64{0.002, 0.0005, 0.00005, 4}
	c := NewController(p)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 120; i++ {
		if err := c.Step(60); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	st := c.tracker.Subcatch[0]
	if st.Infil <= 0 {
		t.Errorf("expected nonzero tracked infiltration, got %v", st.Infil)
	}
	if st.ImpervRunoff <= 0 {
		t.Errorf("expected nonzero tracked impervious runoff, got %v", st.ImpervRunoff)
	}
}

func TestStrideAdvancesInConfiguredRouteSteps(t *testing.T) {
	p := fixtureProject()
	c := NewController(p)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Stride(3600); err != nil {
		t.Fatalf("Stride: %v", err)
	}
	if c.Elapsed() != 3600 {
		t.Errorf("Elapsed() = %v, want 3600", c.Elapsed())
	}
}
