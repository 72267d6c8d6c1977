// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package runoff implements the subcatchment non-linear-reservoir runoff
// model spec §4.G names: three sub-areas (impervious no-depression,
// impervious with depression, pervious), each independently driven by
// rainfall, snowmelt, runon and infiltration, then routed internally
// according to the subcatchment's routing mode before becoming lateral
// inflow to its outlet.
package runoff

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/swmmgo/infil"
	"github.com/cpmech/swmmgo/proj"
)

// Engine owns the live infiltration model instances for every
// subcatchment's pervious sub-area, keyed by subcatchment Ref. proj.Project
// stores only the declarative {model name, params}; Engine is what actually
// carries per-step numerical state across the run, the same separation
// the domain's capability-interface registries (package infil) assume.
type Engine struct {
	models map[proj.Ref]infil.Model
}

// NewEngine builds live infiltration models for every subcatchment in p.
func NewEngine(p *proj.Project) (*Engine, error) {
	e := &Engine{models: make(map[proj.Ref]infil.Model, len(p.Subcatchs))}
	for i, s := range p.Subcatchs {
		if s.Infil.ModelName == "" {
			continue
		}
		m, err := infil.New(s.Infil.ModelName)
		if err != nil {
			return nil, chk.Err("runoff: subcatchment %q: %v", s.ID, err)
		}
		prms := make(fun.Prms, 0, len(s.Infil.Params))
		names := infilParamNames(s.Infil.ModelName)
		for j, v := range s.Infil.Params {
			name := "p" + itoa(j)
			if j < len(names) {
				name = names[j]
			}
			prms = append(prms, &fun.Prm{N: name, V: v})
		}
		if err := m.Init(prms); err != nil {
			return nil, chk.Err("runoff: subcatchment %q: %v", s.ID, err)
		}
		e.models[proj.Ref(i)] = m
	}
	return e, nil
}

func infilParamNames(model string) []string {
	switch model {
	case "horton", "modhorton":
		return []string{"f0", "fmin", "decay", "drytime"}
	case "greenampt", "modgreenampt":
		return []string{"ksat", "suction", "imd"}
	case "curvenumber":
		return []string{"cn", "drytime"}
	default:
		return nil
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Model returns the live infiltration model for a subcatchment, or nil if
// it has none configured.
func (e *Engine) Model(ref proj.Ref) infil.Model {
	return e.models[ref]
}

// Inputs bundles one routing step's external drivers for a subcatchment.
type Inputs struct {
	Rainfall float64 // ft/s
	Snowmelt float64 // ft/s
	Runon    float64 // ft/s, runoff routed in from an upstream subcatchment
	LidReturn float64 // ft/s, water LID units return to the pervious sub-area
	Evap     float64 // ft/s, potential evaporation
	Tstep    float64 // sec
}

// Step advances one subcatchment's three sub-areas by one routing step and
// returns the subcatchment's net outflow (cfs) to its outlet. ref must be
// the subcatchment's own index, used to look up its live infiltration model.
func (e *Engine) Step(ref proj.Ref, s *proj.Subcatchment, in Inputs) (outflowCfs float64, err error) {
	if s.Area <= 0 {
		return 0, nil
	}

	impervSupply := in.Rainfall + in.Snowmelt + in.Runon
	pervSupply := in.Rainfall + in.Snowmelt + in.Runon + in.LidReturn

	qNoDep := stepSubArea(&s.SubAreas[proj.SubAreaImpervNoDep], impervSupply, in.Evap, s.Slope, s.Width, in.Tstep)
	qDep := stepSubArea(&s.SubAreas[proj.SubAreaImpervDep], impervSupply, in.Evap, s.Slope, s.Width, in.Tstep)

	qPerv, infilRate, err := stepPervious(&s.SubAreas[proj.SubAreaPerv], e.Model(ref), pervSupply, in.Evap, s.Slope, s.Width, in.Tstep)
	if err != nil {
		return 0, err
	}

	route(s, &qNoDep, &qDep, &qPerv)
	s.SubAreas[proj.SubAreaImpervNoDep].Runoff = qNoDep
	s.SubAreas[proj.SubAreaImpervDep].Runoff = qDep
	s.SubAreas[proj.SubAreaPerv].Runoff = qPerv

	total := qNoDep + qDep + qPerv

	s.NewRunoff = total
	area := s.Area
	s.TotalPrecip += (in.Rainfall + in.Snowmelt) * in.Tstep * area
	s.TotalRunon += in.Runon * in.Tstep * area
	s.TotalEvap += in.Evap * in.Tstep * area
	s.TotalInfil += infilRate * in.Tstep * area
	s.TotalRunoff += total * in.Tstep
	if total > s.MaxRunoff {
		s.MaxRunoff = total
	}
	s.Runoff = total
	s.LastInfilRate = infilRate
	s.LastEvapRate = in.Evap

	return total, nil
}

// stepSubArea advances one impervious sub-area's non-linear reservoir:
// dd/dt = supply - evap - q(d), q = alpha*(d-dStore)^(5/3)*fracArea*width,
// explicit Euler with the routing step as a single increment (impervious
// sub-areas respond fast enough that sub-stepping is unnecessary).
func stepSubArea(sa *proj.SubArea, supply, evap, slope, width, tstep float64) float64 {
	if sa.FracArea <= 0 {
		sa.Runoff = 0
		return 0
	}
	alpha := manningAlpha(slope, sa.Roughness)
	d := sa.Depth
	net := supply - evap
	d += net * tstep
	if d < 0 {
		d = 0
	}
	excess := d - sa.DStore
	var q float64
	if excess > 0 {
		q = alpha * math.Pow(excess, 5.0/3.0)
		outVol := q * tstep
		if outVol > excess {
			q = excess / tstep
			outVol = excess
		}
		d -= outVol
	}
	if d < 0 {
		d = 0
	}
	sa.Depth = d
	sa.Runoff = q * width * sa.FracArea
	return sa.Runoff
}

// stepPervious is stepSubArea plus an infiltration loss term computed by
// the subcatchment's selected infiltration model.
func stepPervious(sa *proj.SubArea, model infil.Model, supply, evap, slope, width, tstep float64) (runoffCfs, infilRate float64, err error) {
	if sa.FracArea <= 0 {
		sa.Runoff = 0
		return 0, 0, nil
	}
	available := math.Max(supply, 0) * tstep
	if model != nil {
		infilRate, err = model.Compute(supply, tstep, available+sa.Depth)
		if err != nil {
			return 0, 0, err
		}
	}
	alpha := manningAlpha(slope, sa.Roughness)
	d := sa.Depth
	net := supply - evap - infilRate
	d += net * tstep
	if d < 0 {
		d = 0
	}
	excess := d - sa.DStore
	var q float64
	if excess > 0 {
		q = alpha * math.Pow(excess, 5.0/3.0)
		outVol := q * tstep
		if outVol > excess {
			q = excess / tstep
			outVol = excess
		}
		d -= outVol
	}
	if d < 0 {
		d = 0
	}
	sa.Depth = d
	sa.Runoff = q * width * sa.FracArea
	return sa.Runoff, infilRate, nil
}

// manningAlpha is the standard overland-flow kinematic coefficient
// 1.49*sqrt(slope)/n (US customary units, as the rest of the domain's
// geometry package uses for open-channel overland flow).
func manningAlpha(slope, n float64) float64 {
	if n <= 0 {
		return 0
	}
	return 1.49 * math.Sqrt(math.Max(slope, 0)) / n
}

// route redistributes sub-area runoff according to the subcatchment's
// internal routing mode, per spec §4.G (to_outlet/to_imperv/to_perv).
func route(s *proj.Subcatchment, qNoDep, qDep, qPerv *float64) {
	switch s.Routing {
	case proj.RouteToImperv:
		*qNoDep += *qPerv
		*qPerv = 0
	case proj.RouteToPerv:
		*qPerv += *qNoDep + *qDep
		*qNoDep = 0
		*qDep = 0
	case proj.RouteToOutlet:
		// no redistribution; each sub-area discharges independently
	}
}
