// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/ode"
	"github.com/cpmech/swmmgo/infil"
	"github.com/cpmech/swmmgo/proj"
)

// maxSubSteps bounds the sub-step loop so a pathological unit (near-zero
// layer thicknesses) cannot stall the routing step.
const maxSubSteps = 1000

// Balance accumulates one unit's water-balance totals over a call to
// Update, in ft depth over the unit's own area, matching spec §4.F's
// inflow + initial_vol = evap + infil + surf_outflow + drain_outflow +
// final_vol invariant.
type Balance struct {
	Inflow       float64
	Evap         float64
	Infil        float64
	SurfOutflow  float64
	DrainOutflow float64
	InitVolume   float64
	FinalVolume  float64
}

// Error returns the relative mass-balance error,
// |(evap+infil+surf+drain+final) - (inflow+init)| / max(inflow, 1e-9), the quantity spec §4.F bounds by a caller-chosen
// tolerance (default 1e-3).
func (b Balance) Error() float64 {
	in := b.Inflow + b.InitVolume
	out := b.Evap + b.Infil + b.SurfOutflow + b.DrainOutflow + b.FinalVolume
	denom := math.Max(b.Inflow, 1e-9)
	return math.Abs(out-in) / denom
}

// Update advances one LID unit's water balance over a routing step of
// length tstep (sec), given steady rainfall+runon supply rates (ft/s) and
// a potential evaporation rate (ft/s). Returns the step's water-balance
// totals.
func Update(proc *proj.LidProcess, unit *proj.LidUnit, model infil.Model, rainfall, runon, evap, tstep float64) (Balance, error) {
	var bal Balance
	bal.InitVolume = unit.SurfaceDepth + unit.PaveDepth*boolFrac(proc.HasPavement, proc.Pavement.VoidFrac) +
		unit.SoilMoisture*boolThick(proc.HasSoil, proc.Soil.Thickness) +
		unit.StorageDepth*boolFrac(proc.HasStorage, proc.Storage.VoidFrac) +
		unit.DrainMatDepth*boolFrac(proc.HasDrainMat, proc.DrainMat.VoidFrac)

	elapsed := 0.0
	drainOpen := unit.DrainFlow > 0
	for i := 0; i < maxSubSteps && elapsed < tstep; i++ {
		dt := subStepSize(proc, unit, tstep-elapsed)
		stepBal, nowOpen, err := stepOnce(proc, unit, model, rainfall, runon, evap, dt, drainOpen)
		if err != nil {
			return bal, err
		}
		drainOpen = nowOpen
		bal.Inflow += stepBal.Inflow
		bal.Evap += stepBal.Evap
		bal.Infil += stepBal.Infil
		bal.SurfOutflow += stepBal.SurfOutflow
		bal.DrainOutflow += stepBal.DrainOutflow
		elapsed += dt
	}

	if rainfall+runon <= 0 {
		unit.DryTime += tstep
	} else {
		unit.DryTime = 0
	}

	bal.FinalVolume = unit.SurfaceDepth + unit.PaveDepth*boolFrac(proc.HasPavement, proc.Pavement.VoidFrac) +
		unit.SoilMoisture*boolThick(proc.HasSoil, proc.Soil.Thickness) +
		unit.StorageDepth*boolFrac(proc.HasStorage, proc.Storage.VoidFrac) +
		unit.DrainMatDepth*boolFrac(proc.HasDrainMat, proc.DrainMat.VoidFrac)

	unit.TotalInflow += bal.Inflow
	unit.TotalEvap += bal.Evap
	unit.TotalInfil += bal.Infil
	unit.TotalSurfOutflow += bal.SurfOutflow
	unit.TotalDrainOutflow += bal.DrainOutflow
	unit.FinalVolume = bal.FinalVolume

	return bal, nil
}

func boolFrac(has bool, frac float64) float64 {
	if !has {
		return 0
	}
	return frac
}

func boolThick(has bool, thick float64) float64 {
	if !has {
		return 0
	}
	return thick
}

// subStepSize bounds a sub-step so that no single layer's current flux can
// move more than a quarter of its full capacity in one step (never below
// 1 s), per spec §4.F's
// "each routing step subdivides into sub-steps bounded by layer fluxes."
func subStepSize(proc *proj.LidProcess, unit *proj.LidUnit, remaining float64) float64 {
	dt := remaining
	const maxFluxFraction = 0.25 // cap any single substep to a quarter-drain of a layer
	limit := func(depth, capacity, rate float64) {
		if rate <= 0 || capacity <= 0 {
			return
		}
		t := maxFluxFraction * capacity / rate
		if t < dt {
			dt = t
		}
	}
	limit(unit.SurfaceDepth, proc.Surface.Thickness, unit.SurfaceOutflow+unit.InfilRate)
	if proc.HasSoil {
		limit(unit.SoilMoisture, proc.Soil.Porosity, unsatConductivity(proc.Soil, unit.SoilMoisture))
	}
	if dt < 1 {
		dt = 1
	}
	if dt > remaining {
		dt = remaining
	}
	return dt
}

func stepOnce(proc *proj.LidProcess, unit *proj.LidUnit, model infil.Model, rainfall, runon, evap, dt float64, drainWasOpen bool) (Balance, bool, error) {
	var bal Balance
	supply := rainfall + runon
	bal.Inflow = supply * dt

	// surface layer: receives rainfall+runon, loses to overflow (if
	// allowed) and to the infiltration rate into the layer below.
	capTop := capacityRate(proc, unit)
	intoSurface := supply
	unit.SurfaceDepth += intoSurface * dt
	overflow := 0.0
	if proc.Surface.CanOverflow {
		overflow = surfaceOverflow(proc.Surface, unit.SurfaceDepth)
		unit.SurfaceDepth -= overflow * dt
	}
	if unit.SurfaceDepth > proc.Surface.Thickness && !proc.Surface.CanOverflow {
		overflow += (unit.SurfaceDepth - proc.Surface.Thickness) / dt
		unit.SurfaceDepth = proc.Surface.Thickness
	}
	bal.SurfOutflow = overflow * dt

	intoBelow := math.Min(capTop, unit.SurfaceDepth/dt)
	if intoBelow < 0 {
		intoBelow = 0
	}
	unit.SurfaceDepth -= intoBelow * dt
	if unit.SurfaceDepth < 0 {
		unit.SurfaceDepth = 0
	}
	unit.InfilRate = intoBelow

	remaining := intoBelow
	evapLeft := evap

	if proc.HasPavement {
		if period := proc.Pavement.RegenDays * 86400; period > 0 && unit.DryTime >= period {
			unit.PaveCumInfilVolume = regenerate(unit.PaveCumInfilVolume, unit.DryTime, proc.Pavement.RegenDays, proc.Pavement.RegenDegree)
			unit.DryTime -= period
		}
		clog := clogFactor(unit.PaveCumInfilVolume, proc.Pavement.VoidFrac*proc.Pavement.Thickness)
		voidCap := proc.Pavement.VoidFrac * proc.Pavement.Thickness
		capOut := proc.Pavement.Ksat * clog
		unit.PaveDepth += remaining * dt
		outflow := math.Min(capOut, unit.PaveDepth/dt)
		if unit.PaveDepth > voidCap {
			outflow = math.Max(outflow, (unit.PaveDepth-voidCap)/dt)
		}
		unit.PaveDepth -= outflow * dt
		if unit.PaveDepth < 0 {
			unit.PaveDepth = 0
		}
		unit.PaveCumInfilVolume += outflow * dt
		remaining = outflow
		pe := math.Min(evapLeft, unit.PaveDepth/dt)
		unit.PaveDepth -= pe * dt
		bal.Evap += pe * dt
		evapLeft -= pe
	}

	if proc.HasSoil {
		moved, err := soilStep(proc, unit, remaining, dt)
		if err != nil {
			return bal, drainWasOpen, err
		}
		evapDemand := evapLeft * dt
		availMoisture := (unit.SoilMoisture - proc.Soil.WiltPoint) * proc.Soil.Thickness
		actualEvap := math.Min(evapDemand, math.Max(availMoisture, 0))
		if actualEvap > 0 {
			unit.SoilMoisture -= actualEvap / proc.Soil.Thickness
			bal.Evap += actualEvap
			evapLeft -= actualEvap / dt
		}
		remaining = moved
	}

	drainOpen := drainWasOpen
	if proc.HasStorage {
		clog := clogFactor(unit.StorageCumInfilVolume, proc.Storage.VoidFrac*proc.Storage.Thickness)
		unit.StorageDepth += remaining * dt
		voidCap := proc.Storage.VoidFrac * proc.Storage.Thickness
		exf := nativeExfiltration(model, dt, unit.StorageDepth, clog)
		exf = math.Min(exf, unit.StorageDepth/dt)
		unit.StorageDepth -= exf * dt
		unit.StorageCumInfilVolume += exf * dt
		bal.Infil += exf * dt

		var q float64
		if proc.HasDrain {
			q, drainOpen = drainFlow(proc.Drain, unit.StorageDepth, drainWasOpen)
			q = math.Min(q, unit.StorageDepth/dt)
			unit.StorageDepth -= q * dt
			bal.DrainOutflow = q * dt
			unit.OldDrainFlow = unit.DrainFlow
			unit.DrainFlow = q
		}
		if unit.StorageDepth > voidCap {
			bal.SurfOutflow += (unit.StorageDepth - voidCap)
			unit.StorageDepth = voidCap
		}
		if unit.StorageDepth < 0 {
			unit.StorageDepth = 0
		}
	} else {
		// no storage layer: whatever percolated through is lost to
		// native soil directly.
		bal.Infil += remaining * dt
	}

	if proc.HasDrainMat {
		unit.DrainMatDepth += remaining * dt
		q := proc.DrainMat.Alpha * math.Pow(math.Max(unit.DrainMatDepth, 0), 5.0/3.0)
		q = math.Min(q, unit.DrainMatDepth/dt)
		unit.DrainMatDepth -= q * dt
		bal.SurfOutflow += q * dt
		if unit.DrainMatDepth < 0 {
			unit.DrainMatDepth = 0
		}
	}

	return bal, drainOpen, nil
}

// capacityRate returns the maximum rate (ft/s) at which water can leave
// the surface layer downward, bounded by whichever layer sits directly
// beneath it.
func capacityRate(proc *proj.LidProcess, unit *proj.LidUnit) float64 {
	switch {
	case proc.HasPavement:
		return math.Inf(1) // pavement's own capacity bounds the flow, applied downstream
	case proc.HasSoil:
		return proc.Soil.Ksat
	case proc.HasStorage:
		return proc.Storage.Ksat
	default:
		return math.Inf(1)
	}
}

// soilStep advances the lumped soil-moisture state by one sub-step using
// an implicit ODE solve, the same Radau5 pattern the domain's liquid
// retention models use for their single lumped saturation variable: here
// y[0] is volumetric moisture content, driven by constant inflow and a
// moisture-dependent unsaturated-conductivity outflow.
func soilStep(proc *proj.LidProcess, unit *proj.LidUnit, inflow, dt float64) (outflow float64, err error) {
	soil := proc.Soil
	fcn := func(f []float64, dx, x float64, y []float64) error {
		k := unsatConductivity(soil, y[0])
		f[0] = (inflow - k) / soil.Thickness
		return nil
	}
	jac := func(dfdy *la.Triplet, dx, x float64, y []float64) error {
		if dfdy.Max() == 0 {
			dfdy.Init(1, 1, 1)
		}
		const h = 1e-6
		k1 := unsatConductivity(soil, y[0]+h)
		k0 := unsatConductivity(soil, y[0]-h)
		dkdtheta := (k1 - k0) / (2 * h)
		dfdy.Start()
		dfdy.Put(0, 0, -dkdtheta/soil.Thickness)
		return nil
	}

	var solver ode.Solver
	solver.Init("Radau5", 1, fcn, jac, nil, nil)
	solver.SetTol(1e-8, 1e-6)
	solver.Distr = false

	y := []float64{unit.SoilMoisture}
	if err := solver.Solve(y, 0, dt, dt, false); err != nil {
		return 0, chk.Err("lid: soil moisture ODE failed: %v", err)
	}
	theta := y[0]
	if theta < soil.WiltPoint {
		theta = soil.WiltPoint
	}
	if theta > soil.Porosity {
		theta = soil.Porosity
	}
	unit.SoilMoisture = theta
	return unsatConductivity(soil, theta), nil
}
