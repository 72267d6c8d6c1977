// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pollut

import (
	"math"

	"github.com/cpmech/swmmgo/proj"
)

// Washoff returns the pollutant mass (same units as the subcatchment's
// buildup mass) removed over dt given runoff rate runoffCfs and remaining
// buildup mass, per spec §4.H's exponential/rating-curve/EMC selection.
func Washoff(q *proj.LanduseQuality, runoffCfs, areaFt2, buildupMass, dt float64) float64 {
	if buildupMass <= 0 || runoffCfs <= 0 {
		return 0
	}
	switch q.Washoff {
	case proj.WashoffExponential:
		// dM/dt = -C1 * (runoff/area)^C2 * M, integrated exactly over dt
		// (M * (1 - exp(-rate*dt))), clipped to the remaining mass.
		unitFlow := runoffCfs / math.Max(areaFt2, 1e-9)
		rate := q.WashoffC1 * math.Pow(unitFlow, q.WashoffC2)
		removed := buildupMass * (1 - math.Exp(-rate*dt))
		return math.Min(removed, buildupMass)
	case proj.WashoffRatingCurve:
		// washoff load (mass/sec) = C1 * q^C2, independent of remaining
		// buildup until buildup is exhausted.
		load := q.WashoffC1 * math.Pow(runoffCfs, q.WashoffC2)
		return math.Min(load*dt, buildupMass)
	case proj.WashoffEMC:
		// constant event-mean concentration: mass rate = EMC * flow,
		// converted from concentration x volume; callers already carry
		// mass in the same units EMC*volume produces.
		return math.Min(q.EMC*runoffCfs*dt, buildupMass)
	default:
		return 0
	}
}

// RunoffConcentration returns a subcatchment runoff pollutant
// concentration (mass/volume) for one wet step: washed-off buildup mass
// divided by the step's runoff volume. Runon or ponded water carrying its
// own concentration is not included.
func RunoffConcentration(washoffMass, runoffCfs, dt float64) float64 {
	vol := runoffCfs * dt
	if vol <= 0 {
		return 0
	}
	return washoffMass / vol
}
