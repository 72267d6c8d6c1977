// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

import "sort"

// CurveType distinguishes the typed semantics spec §3 names for Curve.
type CurveType int

const (
	CurveStorage CurveType = iota // depth -> area
	CurveDiverter                 // inflow -> diverted
	CurveTidal                    // hour -> stage
	CurveWeirCoef                 // head -> coefficient
	CurvePumpFlow                 // head/depth -> flow
	CurveRating                   // generic X -> Y
	CurveShape                    // custom cross-section: depth -> width
	CurveControl                  // generic control-rule lookup
)

// Curve is a tabular (x, y) lookup with typed semantics.
type Curve struct {
	ID   string
	Type CurveType
	X, Y []float64
}

// Lookup performs piecewise-linear interpolation, extrapolating flat beyond
// the table's ends (the convention the original solver's table.c family
// uses for curves).
func (c *Curve) Lookup(x float64) float64 {
	n := len(c.X)
	if n == 0 {
		return 0
	}
	if x <= c.X[0] {
		return c.Y[0]
	}
	if x >= c.X[n-1] {
		return c.Y[n-1]
	}
	i := sort.SearchFloat64s(c.X, x)
	if i == 0 {
		return c.Y[0]
	}
	x0, x1 := c.X[i-1], c.X[i]
	y0, y1 := c.Y[i-1], c.Y[i]
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// InverseLookup finds x such that Lookup(x) ~= y, assuming Y is monotonic
// (used e.g. for storage-curve depth <- volume inversion).
func (c *Curve) InverseLookup(y float64) float64 {
	n := len(c.Y)
	if n == 0 {
		return 0
	}
	if y <= c.Y[0] {
		return c.X[0]
	}
	if y >= c.Y[n-1] {
		return c.X[n-1]
	}
	for i := 1; i < n; i++ {
		if y <= c.Y[i] {
			y0, y1 := c.Y[i-1], c.Y[i]
			x0, x1 := c.X[i-1], c.X[i]
			if y1 == y0 {
				return x0
			}
			return x0 + (x1-x0)*(y-y0)/(y1-y0)
		}
	}
	return c.X[n-1]
}

// TimeSeries stores (time, value) tuples.
type TimeSeries struct {
	ID   string
	Time []float64 // seconds since simulation start
	Val  []float64
}

// ValueAt interpolates linearly between bracketing entries; holds the last
// value beyond the series' end.
func (t *TimeSeries) ValueAt(time float64) float64 {
	n := len(t.Time)
	if n == 0 {
		return 0
	}
	if time <= t.Time[0] {
		return t.Val[0]
	}
	if time >= t.Time[n-1] {
		return t.Val[n-1]
	}
	i := sort.SearchFloat64s(t.Time, time)
	if i == 0 {
		return t.Val[0]
	}
	t0, t1 := t.Time[i-1], t.Time[i]
	v0, v1 := t.Val[i-1], t.Val[i]
	if t1 == t0 {
		return v0
	}
	return v0 + (v1-v0)*(time-t0)/(t1-t0)
}

// PatternKind selects a Pattern's multiplier period.
type PatternKind int

const (
	PatternMonthly PatternKind = iota
	PatternDaily
	PatternHourly
	PatternWeekendHourly
)

// Pattern stores monthly/daily/hourly/weekend multiplier arrays.
type Pattern struct {
	ID    string
	Kind  PatternKind
	Mults []float64
}

// Multiplier returns the multiplier for the given period index (e.g. hour
// 0-23, month 0-11), wrapping defensively.
func (p *Pattern) Multiplier(index int) float64 {
	if len(p.Mults) == 0 {
		return 1.0
	}
	return p.Mults[index%len(p.Mults)]
}

// Transect is an irregular open-channel cross section, built into an
// xsect.Section table at project-open (spec §4.D).
type Transect struct {
	ID     string
	Station []float64 // horizontal offset, ft
	Elev    []float64 // ft
	Roughness float64
}

// Aquifer holds groundwater model parameters referenced by subcatchments
// with GW active.
type Aquifer struct {
	ID string

	Porosity, FieldCap, WiltPt float64
	Ksat, KSlope, Suction      float64
	UpperEvapFrac              float64
	LowerEvapDepth             float64
	LowerLossCoef              float64
	BottomElev, WaterTableElev, UpperMoisture float64
}

// UnitHydrograph is an RDII response function (rainfall -> node inflow).
type UnitHydrograph struct {
	ID string
	// short/medium/long-term response (R, T, K) triples per month, indexed
	// 0..2; a simplified representation of the original's 12-month table.
	R, T, K [3]float64
}

// Snowpack holds a snow-melt parameter set referenced by a subcatchment.
type Snowpack struct {
	ID string

	DividingTempF float64
	ATIWeight     float64
	NegMeltRatio  float64
	ElevFactor    float64
	PackDepthMax  [3]float64 // plowable, impervious, pervious
}
