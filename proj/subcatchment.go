// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

import "github.com/cpmech/gosl/chk"

// OutletKind distinguishes what a subcatchment or LID drain discharges to.
type OutletKind int

const (
	OutletNone OutletKind = iota
	OutletNode
	OutletSubcatch
)

// Outlet is a polymorphic destination reference: a node, another
// subcatchment, or none (self-recycling, spec §4.G).
type Outlet struct {
	Kind OutletKind
	Ref  Ref
}

// RoutingMode selects how a subcatchment routes sub-area runoff internally.
type RoutingMode int

const (
	RouteToOutlet RoutingMode = iota
	RouteToImperv
	RouteToPerv
)

// SubArea is one of a subcatchment's three non-linear-reservoir sub-areas.
type SubArea struct {
	FracArea    float64 // fraction of total subcatchment area
	Depth       float64 // current ponded depth, ft
	Roughness   float64 // Manning's n
	DStore      float64 // depression storage, ft
	Runoff      float64 // current outflow rate, cfs
}

// Infiltration holds the subcatchment's selected infiltration model state.
// The concrete model lives in package infil; this struct only carries the
// cumulative state the model needs across steps.
type Infiltration struct {
	ModelName string // "horton", "modhorton", "greenampt", "modgreenampt", "curvenumber"
	Params    []float64
	State     []float64 // model-specific cumulative state, opaque to proj
}

// Aquifer reference used by a subcatchment with groundwater active.
type GroundwaterState struct {
	AquiferRef Ref
	GWFlow     float64
}

// SnowpackState is the subcatchment's current snow-related state; the
// snowpack model parameters live in the Snowpack object referenced here.
type SnowpackState struct {
	Ref      Ref
	SnowDepth float64
}

// LanduseArea is a subcatchment's share of area assigned to a land-use.
type LanduseArea struct {
	LanduseRef Ref
	Frac       float64 // fraction of subcatchment area
}

// Subcatchment: spec §3 "Subcatchment".
type Subcatchment struct {
	ID     string
	GageRef Ref
	Outlet Outlet

	Area   float64 // ft^2
	Width  float64 // ft
	Slope  float64 // fraction
	FracImperv float64

	// sub-areas, indexed by SubAreaImpervNoDep/SubAreaImpervDep/SubAreaPerv
	SubAreas [3]SubArea
	Routing  RoutingMode

	Infil Infiltration

	Runon float64 // ft/s, runoff routed in this step from an upstream subcatchment

	HasAquifer bool
	GW         GroundwaterState

	HasSnowpack bool
	Snow        SnowpackState

	LidUnitRefs []Ref // indices into Project.LidUnits; empty if none
	LidTotalArea float64 // ft^2, sum of LID unit areas (unit area * count)
	LidCaptureArea float64 // ft^2 draining through LID units

	// LanduseArea is one land-use's share of the subcatchment's area, used
	// to weight per-land-use buildup across the whole surface.
	Landuses []LanduseArea

	// pollutant buildup/ponded-concentration, parallel arrays indexed by
	// pollutant Ref
	Buildup         []float64
	PondedConc      []float64

	Runoff    float64 // cfs, current step's total outflow
	NewRunoff float64 // cfs, computed next-step outflow pending commit

	LastInfilRate float64 // ft/s, most recent step's infiltration rate
	LastEvapRate  float64 // ft/s, most recent step's potential evaporation rate

	// cumulative totals (ft, over the subcatchment's area) for mass balance
	TotalPrecip float64
	TotalRunon  float64
	TotalEvap   float64
	TotalInfil  float64
	TotalRunoff float64
	MaxRunoff   float64
}

const (
	SubAreaImpervNoDep = 0
	SubAreaImpervDep   = 1
	SubAreaPerv        = 2
)

func (s *Subcatchment) validate(p *Project) error {
	sum := s.SubAreas[0].FracArea + s.SubAreas[1].FracArea + s.SubAreas[2].FracArea
	if sum < 0.999 || sum > 1.001 {
		return chk.Err("subcatchment %q: sub-area fractions sum to %.6f, want 1.0", s.ID, sum)
	}
	if s.LidTotalArea > s.Area+1e-9 {
		return chk.Err("subcatchment %q: LID total area exceeds subcatchment area", s.ID)
	}
	impervArea := s.FracImperv * s.Area
	if s.LidCaptureArea > impervArea+1e-9 {
		return chk.Err("subcatchment %q: LID capture area exceeds impervious area", s.ID)
	}
	return nil
}
