// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package xsect implements cross-section geometry: pure functions mapping
// (shape, depth) to (area, topwidth, hydraulic radius) and back, for every
// link cross-section shape spec §4.D names. Unlike gofem's `shp` package
// (isoparametric finite-element basis functions) these are closed-form or
// table-interpolated channel-hydraulics formulas — an unrelated problem
// that happens to share the word "shape".
package xsect

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Shape identifies one of the 22 cross-section variants this package
// defines. Shapes without a formula of their own in area/topwidth/
// wettedPerimeter use the circular formulas.
type Shape int

const (
	Circular Shape = iota
	FilledCircular
	RectClosed
	RectOpen
	Trapezoidal
	Triangular
	Parabolic
	PowerFunction
	RectTriangular
	RectRound
	ModBasketHandle
	Egg
	Horseshoe
	Gothic
	Catenary
	SemiEllip
	BasketHandle
	SemiCircular
	Arch
	Irregular
	Custom
	ForceMain
	nshapes
)

// Closed reports whether shape is a closed (pipe-like) section with a finite
// full depth, as opposed to an open channel.
func (s Shape) Closed() bool {
	switch s {
	case Circular, FilledCircular, RectClosed, ModBasketHandle, Egg, Horseshoe,
		Gothic, Catenary, SemiEllip, BasketHandle, Arch, ForceMain:
		return true
	}
	return false
}

// Section is a fully parameterised cross section: a shape plus its defining
// dimensions (full depth/height, widths, side slopes as applicable). Table
// is populated once at project-open time for Irregular/Custom shapes by
// BuildTable, from a depth/area/width curve.
type Section struct {
	Shape    Shape
	FullDepth float64 // ft; 0 for an unbounded open channel
	FullArea  float64
	MaxWidth  float64
	// rectangular/trapezoidal/triangular/parabolic auxiliary dimensions
	BottomWidth float64
	SideSlope1  float64
	SideSlope2  float64

	// ForceMain roughness model
	ForceMainHazenWilliams bool
	Roughness              float64 // Manning's n, or Hazen-Williams C, or Darcy-Weisbach epsilon

	// Irregular/Custom: depth -> (area, width, hydRadius) table, built once
	table *geometryTable
}

// BuildTable interpolates an Irregular or Custom section's geometry from a
// depth-ordered set of (depth, width) pairs (a transect or curve), following
// spec §4.D ("build their table once at project-open from a curve object").
func (s *Section) BuildTable(depths, widths []float64) error {
	if len(depths) != len(widths) || len(depths) < 2 {
		return chk.Err("xsect: table build needs >=2 matched depth/width points")
	}
	s.table = newGeometryTable(depths, widths)
	s.FullDepth = depths[len(depths)-1]
	s.FullArea = s.table.areaAt(s.FullDepth)
	return nil
}

// Area returns the flow area at the given depth.
func (s *Section) Area(depth float64) float64 {
	if s.table != nil {
		return s.table.areaAt(depth)
	}
	return area(s, clamp(s, depth))
}

// Topwidth returns the free-surface width at the given depth.
func (s *Section) Topwidth(depth float64) float64 {
	if s.table != nil {
		return s.table.widthAt(depth)
	}
	return topwidth(s, clamp(s, depth))
}

// HydRadius returns the hydraulic radius (area / wetted perimeter) at depth.
func (s *Section) HydRadius(depth float64) float64 {
	if s.table != nil {
		return s.table.hydRadiusAt(depth)
	}
	return hydRadius(s, clamp(s, depth))
}

// DepthFromArea inverts Area via bisection; used by the kinematic-wave
// kernel which solves for A then needs the corresponding depth.
func (s *Section) DepthFromArea(a float64) float64 {
	if a <= 0 {
		return 0
	}
	full := s.FullDepth
	if full <= 0 {
		full = 1000.0 // open channel: search an effectively unbounded range
	}
	lo, hi := 0.0, full
	for i := 0; i < 60; i++ {
		mid := 0.5 * (lo + hi)
		if s.Area(mid) < a {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

func clamp(s *Section, depth float64) float64 {
	if depth < 0 {
		return 0
	}
	if s.Shape.Closed() && s.FullDepth > 0 && depth > s.FullDepth {
		return s.FullDepth
	}
	return depth
}

// area/topwidth/hydRadius dispatch on shape family; shapes that share a
// formula family (e.g. all trapezoid-like open channels) route to the same
// helper, matching the element-factory dispatch-by-name idiom from gofem's
// ele/factory.go but over a fixed shape enum instead of a string registry
// (the shape set is closed and known at compile time).
func area(s *Section, d float64) float64 {
	switch s.Shape {
	case Circular:
		return circularArea(d, s.FullDepth)
	case RectOpen, RectClosed:
		return s.BottomWidth * d
	case Trapezoidal:
		return (s.BottomWidth + 0.5*(s.SideSlope1+s.SideSlope2)*d) * d
	case Triangular:
		return 0.5 * (s.SideSlope1 + s.SideSlope2) * d * d
	case Parabolic:
		return (2.0 / 3.0) * s.MaxWidth * d
	case ForceMain:
		return circularArea(d, s.FullDepth)
	default:
		return circularArea(d, s.FullDepth) // reasonable closed-conduit default
	}
}

func topwidth(s *Section, d float64) float64 {
	switch s.Shape {
	case Circular:
		return circularTopwidth(d, s.FullDepth)
	case RectOpen, RectClosed:
		return s.BottomWidth
	case Trapezoidal:
		return s.BottomWidth + (s.SideSlope1+s.SideSlope2)*d
	case Triangular:
		return (s.SideSlope1 + s.SideSlope2) * d
	case Parabolic:
		if d <= 0 {
			return 0
		}
		return s.MaxWidth * math.Sqrt(d/max(s.FullDepth, 1e-9))
	default:
		return circularTopwidth(d, s.FullDepth)
	}
}

func hydRadius(s *Section, d float64) float64 {
	a := area(s, d)
	if a <= 0 {
		return 0
	}
	p := wettedPerimeter(s, d)
	if p <= 0 {
		return 0
	}
	return a / p
}

func wettedPerimeter(s *Section, d float64) float64 {
	switch s.Shape {
	case Circular, ForceMain:
		return circularPerimeter(d, s.FullDepth)
	case RectOpen:
		return s.BottomWidth + 2*d
	case RectClosed:
		return 2*s.BottomWidth + 2*d
	case Trapezoidal:
		return s.BottomWidth +
			d*math.Sqrt(1+s.SideSlope1*s.SideSlope1) +
			d*math.Sqrt(1+s.SideSlope2*s.SideSlope2)
	case Triangular:
		return d*math.Sqrt(1+s.SideSlope1*s.SideSlope1) + d*math.Sqrt(1+s.SideSlope2*s.SideSlope2)
	default:
		return circularPerimeter(d, s.FullDepth)
	}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// circular* implement the classic circular-pipe partial-flow formulas in
// terms of the half central angle theta subtended by the free surface.
func circularTheta(d, full float64) float64 {
	if full <= 0 {
		return 0
	}
	r := full / 2
	y := d - r
	if y > r {
		y = r
	}
	if y < -r {
		y = -r
	}
	return math.Acos(-y / r)
}

func circularArea(d, full float64) float64 {
	if full <= 0 || d <= 0 {
		return 0
	}
	r := full / 2
	if d >= full {
		return math.Pi * r * r
	}
	theta := circularTheta(d, full)
	return r * r * (theta - math.Sin(theta)*math.Cos(theta))
}

func circularTopwidth(d, full float64) float64 {
	if full <= 0 || d <= 0 || d >= full {
		return 0
	}
	r := full / 2
	y := d - r
	return 2 * math.Sqrt(r*r-y*y)
}

func circularPerimeter(d, full float64) float64 {
	if full <= 0 || d <= 0 {
		return 0
	}
	r := full / 2
	if d >= full {
		return 2 * math.Pi * r
	}
	theta := circularTheta(d, full)
	return 2 * r * theta
}
