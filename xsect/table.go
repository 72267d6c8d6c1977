// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xsect

import "math"

// geometryTable is the interpolated depth->(area,width,hydRadius) table
// built once for Irregular/Custom sections, per spec §4.D.
type geometryTable struct {
	depths []float64
	widths []float64
	areas  []float64
	peris  []float64
}

func newGeometryTable(depths, widths []float64) *geometryTable {
	t := &geometryTable{depths: depths, widths: widths}
	t.areas = make([]float64, len(depths))
	t.peris = make([]float64, len(depths))
	for i := 1; i < len(depths); i++ {
		dz := depths[i] - depths[i-1]
		avgW := 0.5 * (widths[i] + widths[i-1])
		t.areas[i] = t.areas[i-1] + avgW*dz
		// trapezoidal-strip wetted perimeter approximation between stations
		dw := 0.5 * (widths[i] - widths[i-1])
		t.peris[i] = t.peris[i-1] + 2*math.Hypot(dw, dz)
	}
	return t
}

func (t *geometryTable) locate(depth float64) (i int, frac float64) {
	if depth <= t.depths[0] {
		return 0, 0
	}
	last := len(t.depths) - 1
	if depth >= t.depths[last] {
		return last - 1, 1
	}
	for i = 0; i < last; i++ {
		if depth <= t.depths[i+1] {
			span := t.depths[i+1] - t.depths[i]
			if span <= 0 {
				return i, 0
			}
			return i, (depth - t.depths[i]) / span
		}
	}
	return last - 1, 1
}

func (t *geometryTable) widthAt(depth float64) float64 {
	i, f := t.locate(depth)
	return t.widths[i] + f*(t.widths[i+1]-t.widths[i])
}

func (t *geometryTable) areaAt(depth float64) float64 {
	i, f := t.locate(depth)
	dz := t.depths[i+1] - t.depths[i]
	if dz <= 0 {
		return t.areas[i]
	}
	avgW := 0.5 * (t.widths[i] + t.widthAt(depth))
	return t.areas[i] + avgW*f*dz
}

func (t *geometryTable) periAt(depth float64) float64 {
	i, f := t.locate(depth)
	return t.peris[i] + f*(t.peris[i+1]-t.peris[i])
}

func (t *geometryTable) hydRadiusAt(depth float64) float64 {
	a := t.areaAt(depth)
	p := t.periAt(depth)
	if p <= 0 {
		return 0
	}
	return a / p
}
