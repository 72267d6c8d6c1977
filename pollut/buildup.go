// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pollut implements the pollutant buildup/washoff kernel and the
// node water-quality reactors spec §4.H names: land-use buildup curves,
// wet-step washoff, CSTR/PLUG node mixing, and a small treatment
// expression language evaluated in the topological order of its
// dependency graph.
package pollut

import (
	"math"

	"github.com/cpmech/swmmgo/proj"
)

// Buildup returns the accumulated mass (per unit area, or per unit curb
// length when PerCurbLen is set) after t seconds of continuous dry
// accumulation, per spec §4.H's buildup function selection.
func Buildup(q *proj.LanduseQuality, t float64) float64 {
	switch q.Buildup {
	case proj.BuildupPower:
		// C1 * days^C2, capped at C1: for C2 > 0 the curve passes C1 after
		// one day, and from then on the cap holds buildup at C1.
		b := q.BuildupC1 * math.Pow(t/86400, q.BuildupC2)
		if b > q.BuildupC1 {
			b = q.BuildupC1
		}
		return b
	case proj.BuildupExponential:
		return q.BuildupC1 * (1 - math.Exp(-q.BuildupC2*t/86400))
	case proj.BuildupSaturation:
		days := t / 86400
		denom := q.BuildupC3 + days
		if denom <= 0 {
			return 0
		}
		return q.BuildupC1 * days / denom
	default:
		return 0
	}
}

// BuildupRate returns the instantaneous accumulation rate d(buildup)/dt
// at dry-time t, by a one-second forward difference of Buildup.
// AdvanceBuildup does not use it: it re-derives t from the stored mass
// with EquivalentBuildupTime.
func BuildupRate(q *proj.LanduseQuality, t float64) float64 {
	const h = 1.0
	return (Buildup(q, t+h) - Buildup(q, t)) / h
}

// EquivalentBuildupTime inverts Buildup(t) = mass for t, via bisection,
// so buildup accumulation remains continuous across variable dry-step
// lengths the way Modified Horton's equivalentTime does for infiltration.
func EquivalentBuildupTime(q *proj.LanduseQuality, mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	lo, hi := 0.0, 86400.0
	for Buildup(q, hi) < mass && hi < 86400*3650 {
		hi *= 2
	}
	for i := 0; i < 60; i++ {
		mid := 0.5 * (lo + hi)
		if Buildup(q, mid) < mass {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// AdvanceBuildup advances a subcatchment's per-pollutant buildup mass over
// a dry sub-step of length dt, weighting each land-use's contribution by
// its area fraction.
func AdvanceBuildup(s *proj.Subcatchment, landuses []*proj.Landuse, pollut proj.Ref, dt float64) {
	if int(pollut) >= len(s.Buildup) {
		return
	}
	var total float64
	for _, la := range s.Landuses {
		if int(la.LanduseRef) >= len(landuses) {
			continue
		}
		lu := landuses[la.LanduseRef]
		q := lu.QualityFor(pollut)
		if q == nil || q.Buildup == proj.BuildupNone {
			continue
		}
		current := s.Buildup[pollut] * la.Frac
		t := EquivalentBuildupTime(q, current)
		rate := BuildupRate(q, t)
		total += rate * dt * la.Frac
	}
	s.Buildup[pollut] += total
}
