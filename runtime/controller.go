// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package runtime implements the engine's external lifecycle controller,
// spec §4.L: an explicit Open->Start->Step/Stride->End->Report->Close
// state machine wrapping the runoff, lid, route, pollut and massbal
// packages, plus the live property getters/setters the CLI and any host
// application drive the engine through.
package runtime

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cpmech/swmmgo/lid"
	"github.com/cpmech/swmmgo/massbal"
	"github.com/cpmech/swmmgo/pollut"
	"github.com/cpmech/swmmgo/proj"
	"github.com/cpmech/swmmgo/route"
	"github.com/cpmech/swmmgo/runoff"
)

// State is the controller's current lifecycle stage, spec §4.L's
// Unopened -> Opened -> Started -> Ended state machine.
type State int

const (
	Unopened State = iota
	Opened
	Started
	Ended
)

// Controller drives one project through its simulation lifecycle. It is
// the single owner of every package's live, stateful engine instances
// (runoff.Engine, route.Kernel, massbal.Tracker, per-node pollut.Reactors)
// -- proj.Project itself stays a plain data store.
type Controller struct {
	p     *proj.Project
	state State
	log   logrus.FieldLogger

	kernel   route.Kernel
	runoff   *runoff.Engine
	tracker  *massbal.Tracker
	reactors map[proj.Ref]*pollut.Reactors // keyed by node Ref

	treatment map[proj.Ref][]*pollut.TreatmentExpr // keyed by node Ref, topologically scheduled at Start

	subcatchNodeInflow map[proj.Ref]float64   // this step's subcatchment->outlet-node lateral inflow, cfs
	latQualMass        map[proj.Ref][]float64 // this step's lateral pollutant mass rate by node Ref, mass/sec

	elapsed float64 // seconds since Start
}

// NewController returns a controller for p, unopened.
func NewController(p *proj.Project) *Controller {
	return &Controller{p: p, state: Unopened, log: logrus.StandardLogger()}
}

// SetLogger overrides the controller's logger (default: logrus's standard
// logger), mirroring the FieldLogger-as-a-struct-field convention
// spatialmodel-inmap's server types use.
func (c *Controller) SetLogger(log logrus.FieldLogger) { c.log = log }

func (c *Controller) requireState(want State, action string) error {
	if c.state != want {
		return newErr(ErrNotOpen, "%s requires state %v, controller is in state %v", action, want, c.state)
	}
	return nil
}

// Open validates the project, rebuilds its name indices, and allocates
// every live engine instance, spec §4.L's Unopened->Opened transition.
func (c *Controller) Open() error {
	if c.state != Unopened {
		return newErr(ErrAlreadyOpen, "project is already open")
	}
	if err := c.p.Rebuild(); err != nil {
		return newErr(ErrDupName, "%v", err)
	}
	if err := c.p.Validate(); err != nil {
		return newErr(ErrInput, "%v", err)
	}

	kernel, err := route.ForModel(c.p.Options.RoutingModel)
	if err != nil {
		return newErr(ErrSystem, "%v", err)
	}
	c.kernel = kernel

	eng, err := runoff.NewEngine(c.p)
	if err != nil {
		return newErr(ErrSystem, "%v", err)
	}
	c.runoff = eng

	c.tracker = massbal.NewTracker(c.p)

	c.reactors = make(map[proj.Ref]*pollut.Reactors, len(c.p.Nodes))
	for i, n := range c.p.Nodes {
		if n.Reactor == proj.ReactorPlug {
			c.reactors[proj.Ref(i)] = pollut.NewReactors()
		}
	}

	c.state = Opened
	c.log.WithFields(logrus.Fields{"nodes": len(c.p.Nodes), "links": len(c.p.Links),
		"subcatchments": len(c.p.Subcatchs)}).Info("project opened")
	return nil
}

// Start compiles and schedules every node's treatment expressions, seeds
// each node's depth and each link's flow from its configured initial
// condition, and transitions Opened->Started. A cyclic treatment
// dependency is rejected here, spec §8, before any simulation state is
// touched.
func (c *Controller) Start() error {
	if err := c.requireState(Opened, "Start"); err != nil {
		return err
	}
	if err := c.compileTreatment(); err != nil {
		return err
	}
	for _, n := range c.p.Nodes {
		n.NewDepth = n.InitDepth
	}
	for _, l := range c.p.Links {
		l.NewFlow = l.InitFlow
	}
	c.tracker.Runoff.InitStorage = subcatchStorageDepth(c.p)
	c.elapsed = 0
	c.state = Started
	c.log.Info("simulation started")
	return nil
}

// compileTreatment parses and topologically schedules every node's
// treatment expressions, spec §4.H: each node's expressions are ordered
// so a treatment reading another pollutant's concentration always runs
// after that pollutant's own treatment for the step.
func (c *Controller) compileTreatment() error {
	known := make(map[string]proj.Ref, len(c.p.Pollutants))
	for i, q := range c.p.Pollutants {
		known[q.ID] = proj.Ref(i)
	}
	c.treatment = make(map[proj.Ref][]*pollut.TreatmentExpr, len(c.p.Nodes))
	for i, n := range c.p.Nodes {
		if len(n.Treatments) == 0 {
			continue
		}
		exprs := make([]*pollut.TreatmentExpr, 0, len(n.Treatments))
		for _, tr := range n.Treatments {
			te, err := pollut.Compile(tr.Expr, tr.PollutRef, tr.IsRemoval)
			if err != nil {
				return newErr(ErrInput, "node %q: %v", n.ID, err)
			}
			exprs = append(exprs, te)
		}
		scheduled, err := pollut.Schedule(exprs, known)
		if err != nil {
			return newErr(ErrInput, "node %q: %v", n.ID, err)
		}
		c.treatment[proj.Ref(i)] = scheduled
	}
	return nil
}

// subcatchStorageDepth sums the ponded depth (weighted by sub-area
// fraction) held across every subcatchment, the runoff continuity
// balance's storage term, spec §4.K.7.
func subcatchStorageDepth(p *proj.Project) float64 {
	var total float64
	for _, s := range p.Subcatchs {
		for i := range s.SubAreas {
			total += s.SubAreas[i].Depth * s.SubAreas[i].FracArea
		}
	}
	return total
}

// Step advances the whole project by one routing step of length tstep
// (seconds): runoff, LID, node external/DWF inflow assembly, flow
// routing, and statistics -- spec §4.L's per-step driving sequence.
func (c *Controller) Step(tstep float64) error {
	if err := c.requireState(Started, "Step"); err != nil {
		return err
	}
	if tstep <= 0 {
		return newErr(ErrTimestep, "tstep must be > 0, got %v", tstep)
	}

	c.updateGages(tstep)

	np := len(c.p.Pollutants)
	c.latQualMass = make(map[proj.Ref][]float64, len(c.p.Nodes))
	runoffLoad := make([]float64, np)
	externalLoad := make([]float64, np)
	dwfLoad := make([]float64, np)

	if !c.p.Options.IgnoreRain {
		if err := c.stepSubcatchments(tstep, runoffLoad); err != nil {
			return err
		}
	}

	for i, n := range c.p.Nodes {
		ref := proj.Ref(i)
		total, extFlow, dwfFlow := c.externalInflow(n, c.elapsed)
		n.NewLatFlow = total
		if np > 0 {
			extLoad, dwfL := c.externalQualityLoad(n, c.elapsed, extFlow, dwfFlow)
			c.addLatQualMass(ref, extLoad)
			c.addLatQualMass(ref, dwfL)
			for pi := range externalLoad {
				externalLoad[pi] += extLoad[pi]
				dwfLoad[pi] += dwfL[pi]
			}
		}
	}
	c.assignSubcatchOutletInflow()

	if !c.p.Options.IgnoreRoute {
		if err := c.kernel.RouteStep(c.p, tstep); err != nil {
			return newErr(ErrSystem, "%v", err)
		}
		if ct, ok := c.kernel.(interface{ CriticalNodeTimes() map[proj.Ref]float64 }); ok {
			for ref, crit := range ct.CriticalNodeTimes() {
				c.tracker.UpdateCriticalTimeCount(ref, crit)
			}
		}
	}

	if !c.p.Options.IgnoreQual {
		c.stepQuality(tstep)
		c.tracker.AddQualMass(runoffLoad, externalLoad, dwfLoad, tstep)
	}

	c.tracker.UpdateFlowStats(c.p, tstep, c.elapsed)
	c.elapsed += tstep
	return nil
}

// Stride repeatedly calls Step with the project's configured RouteStep
// until total seconds have elapsed, the convenience loop spec §4.L names
// for callers that don't need per-step control.
func (c *Controller) Stride(total float64) error {
	dt := c.p.Options.RouteStep
	if dt <= 0 {
		dt = 15
	}
	remaining := total
	for remaining > 0 {
		step := dt
		if step > remaining {
			step = remaining
		}
		if err := c.Step(step); err != nil {
			return err
		}
		remaining -= step
	}
	return nil
}

// updateGages refreshes every time-series-driven gage's current
// rainfall for the step about to run.
func (c *Controller) updateGages(tstep float64) {
	for _, g := range c.p.Gages {
		if g.APIOverride || g.Source != proj.SourceTimeSeries {
			continue
		}
		if g.TSeries == proj.NoRef {
			continue
		}
		g.CurrentRainfall = c.p.TSeries[g.TSeries].ValueAt(c.elapsed)
	}
}

// stepSubcatchments runs the runoff engine (and any attached LID units)
// for every subcatchment, deposits the result as lateral inflow on its
// outlet node (cross-subcatchment routing adds to the target's Runon,
// which the target consumes in this same step when it comes later in
// the subcatchment list and one step late when it comes earlier), and advances each subcatchment's
// per-pollutant buildup/washoff, depositing the resulting pollutant mass
// onto the same outlet node (spec §4.H). runoffLoad accumulates the
// project-wide per-pollutant washoff mass rate for the quality continuity
// balance.
func (c *Controller) stepSubcatchments(tstep float64, runoffLoad []float64) error {
	pending := make(map[proj.Ref]float64, len(c.p.Subcatchs))
	for i, s := range c.p.Subcatchs {
		ref := proj.Ref(i)
		rainfall := 0.0
		if s.GageRef != proj.NoRef {
			rainfall = c.p.Gages[s.GageRef].Rainfall() / 12 / 3600 // in/hr -> ft/s
		}

		lidReturn, lidOutflow, err := c.stepLidUnits(ref, s, rainfall, tstep)
		if err != nil {
			return err
		}

		out, err := c.runoff.Step(ref, s, runoff.Inputs{
			Rainfall:  rainfall,
			Runon:     s.Runon,
			LidReturn: lidReturn,
			Tstep:     tstep,
		})
		if err != nil {
			return newErr(ErrKinwave, "subcatchment %q: %v", s.ID, err)
		}
		out += lidOutflow

		impervRate := (s.SubAreas[proj.SubAreaImpervNoDep].Runoff + s.SubAreas[proj.SubAreaImpervDep].Runoff) / areaFt2(s)
		pervRate := s.SubAreas[proj.SubAreaPerv].Runoff / areaFt2(s)
		c.tracker.UpdateSubcatchStats(ref, rainfall, s.Runon, s.LastEvapRate, s.LastInfilRate, out/areaFt2(s), impervRate, pervRate, tstep, c.elapsed)
		s.Runon = 0 // consumed this step; any carry-in for next step is set below

		if len(c.p.Pollutants) > 0 {
			load := c.stepSubcatchQuality(s, rainfall, out, tstep)
			for pi, m := range load {
				runoffLoad[pi] += m
			}
			if s.Outlet.Kind == proj.OutletNode {
				c.addLatQualMass(s.Outlet.Ref, load)
			}
		}

		switch s.Outlet.Kind {
		case proj.OutletNode:
			pending[ref] = out
		case proj.OutletSubcatch:
			target := c.p.Subcatchs[s.Outlet.Ref]
			if target.Area > 0 {
				target.Runon += out / areaFt2(target)
			}
		}
	}
	c.subcatchNodeInflow = pending
	return nil
}

// stepSubcatchQuality advances a subcatchment's per-pollutant buildup by
// one dry (or wet) step and washes off whatever the current runoff rate
// removes, spec §4.H: dry steps only grow buildup, wet steps (runoffCfs >
// 0) wash it off. Returns the washed-off mass rate (mass/sec) by
// pollutant Ref, the lateral load deposited on the subcatchment's outlet.
func (c *Controller) stepSubcatchQuality(s *proj.Subcatchment, rainfall, runoffCfs, tstep float64) []float64 {
	np := len(c.p.Pollutants)
	load := make([]float64, np)
	if len(s.Buildup) < np {
		grown := make([]float64, np)
		copy(grown, s.Buildup)
		s.Buildup = grown
	}
	if len(s.PondedConc) < np {
		grown := make([]float64, np)
		copy(grown, s.PondedConc)
		s.PondedConc = grown
	}
	wet := rainfall > 0 || runoffCfs > 1e-9
	for pi := range c.p.Pollutants {
		pr := proj.Ref(pi)
		if !wet {
			pollut.AdvanceBuildup(s, c.p.Landuses, pr, tstep)
			continue
		}
		if runoffCfs <= 0 {
			continue
		}
		var washed float64
		for _, la := range s.Landuses {
			if int(la.LanduseRef) >= len(c.p.Landuses) {
				continue
			}
			lu := c.p.Landuses[la.LanduseRef]
			q := lu.QualityFor(pr)
			if q == nil || q.Washoff == proj.WashoffNone {
				continue
			}
			share := s.Buildup[pi] * la.Frac
			m := pollut.Washoff(q, runoffCfs, areaFt2(s)*la.Frac, share, tstep)
			s.Buildup[pi] -= m
			washed += m
		}
		load[pi] = washed / tstep
		s.PondedConc[pi] = pollut.RunoffConcentration(washed, runoffCfs, tstep)
	}
	return load
}

func areaFt2(s *proj.Subcatchment) float64 { return s.Area }

// addLatQualMass folds a node's pollutant mass-rate contribution (mass/
// sec, indexed by pollutant Ref) into this step's lateral quality
// accumulator, merging subcatchment washoff with external/DWF quality
// inflow at the same node.
func (c *Controller) addLatQualMass(ref proj.Ref, load []float64) {
	if len(load) == 0 {
		return
	}
	cur := c.latQualMass[ref]
	if len(cur) < len(load) {
		grown := make([]float64, len(load))
		copy(grown, cur)
		cur = grown
	}
	for i, m := range load {
		cur[i] += m
	}
	c.latQualMass[ref] = cur
}

// assignSubcatchOutletInflow folds this step's subcatchment outflows,
// computed by stepSubcatchments, into their outlet node's lateral inflow.
func (c *Controller) assignSubcatchOutletInflow() {
	for ref, q := range c.subcatchNodeInflow {
		s := c.p.Subcatchs[ref]
		if s.Outlet.Kind == proj.OutletNode {
			c.p.Nodes[s.Outlet.Ref].NewLatFlow += q
		}
	}
}

// stepLidUnits drives every LID unit attached to s for one routing step,
// splitting the subcatchment's own sub-area runoff between the units per
// their FromImperv/FromPerv routed fractions and accumulating what the
// units return to the pervious sub-area (lidReturn) versus what leaves the
// subcatchment entirely (lidOutflow). The routed runoff used as each
// unit's runon is the *previous* step's sub-area outflow (SubArea.Runoff
// is only overwritten once runoff.Step runs later this same step) -- a
// one-step lag, the same simplification cross-subcatchment routing uses.
func (c *Controller) stepLidUnits(ref proj.Ref, s *proj.Subcatchment, rainfall, tstep float64) (lidReturn, lidOutflow float64, err error) {
	if len(s.LidUnitRefs) == 0 {
		return 0, 0, nil
	}
	model := c.runoff.Model(ref)
	impervRunoff := s.SubAreas[proj.SubAreaImpervNoDep].Runoff + s.SubAreas[proj.SubAreaImpervDep].Runoff
	pervRunoff := s.SubAreas[proj.SubAreaPerv].Runoff

	for _, uref := range s.LidUnitRefs {
		unit := c.p.LidUnits[uref]
		proc := c.p.LidProcs[unit.ProcessRef]
		unitArea := unit.UnitArea * float64(unit.Count)
		if unitArea <= 0 {
			continue
		}
		runon := 0.0
		if unit.FromImperv > 0 {
			runon += impervRunoff * unit.FromImperv / unitArea
		}
		if unit.FromPerv > 0 {
			runon += pervRunoff * unit.FromPerv / unitArea
		}
		bal, uerr := lid.Update(proc, unit, model, rainfall, runon, 0, tstep)
		if uerr != nil {
			return 0, 0, newErr(ErrLidParams, "lid unit on subcatchment %q: %v", s.ID, uerr)
		}
		outCfs := (bal.SurfOutflow + bal.DrainOutflow) * unitArea
		if unit.ReturnsToPervious && unit.DrainTo.Kind == proj.OutletNone {
			lidReturn += outCfs
		} else {
			lidOutflow += outCfs
		}
	}
	return lidReturn, lidOutflow, nil
}

// externalInflow sums a node's configured external-flow inflows (direct
// time-series + pattern-scaled, and dry-weather-flow records) for the
// current simulation time, spec §4.E, returning the combined total along
// with its external-inflow and DWF components broken out so the quality
// load they carry (externalQualityLoad) can be attributed to the same
// source for mass-balance accounting. Month/day-of-week pattern lookups
// fall back to index 0: proj.Options carries no calendar start date (only
// StartDryDays), so only hour-of-day can be derived from elapsed seconds;
// this is a documented simplification, not a bug.
func (c *Controller) externalInflow(n *proj.Node, elapsed float64) (total, extFlow, dwfFlow float64) {
	hour := int(elapsed/3600) % 24

	for _, in := range n.ExtInflows {
		if !in.IsFlow {
			continue // quality-only external-inflow record; applied in externalQualityLoad
		}
		val := in.Baseline
		if in.TSeriesRef != proj.NoRef {
			val = c.p.TSeries[in.TSeriesRef].ValueAt(elapsed)
		}
		scale := in.ScaleFactor
		if scale == 0 {
			scale = 1
		}
		if in.PatternRef != proj.NoRef {
			val *= c.p.Patterns[in.PatternRef].Multiplier(hour)
		}
		extFlow += val * scale
	}

	for _, dwf := range n.DwfInflows {
		if dwf.PollutRef != proj.NoRef {
			continue // quality-only DWF record; applied in externalQualityLoad
		}
		val := dwf.AvgValue
		for _, patRef := range dwf.PatternRefs {
			if patRef == proj.NoRef {
				continue
			}
			pat := c.p.Patterns[patRef]
			idx := 0
			if pat.Kind == proj.PatternHourly || pat.Kind == proj.PatternWeekendHourly {
				idx = hour
			}
			val *= pat.Multiplier(idx)
		}
		dwfFlow += val
	}
	return extFlow + dwfFlow, extFlow, dwfFlow
}

// externalQualityLoad returns a node's quality-only external-inflow and
// DWF-quality mass-rate contributions (mass/sec, indexed by pollutant
// Ref) for elapsed, split by source so AddQualMass can attribute them
// separately in the quality continuity balance. extFlow/dwfFlow are this
// same node's already-computed flow totals (externalInflow), concentration
// inflows carry no flow rate of their own -- they ride along with the
// node's flow-carrying inflow records.
func (c *Controller) externalQualityLoad(n *proj.Node, elapsed, extFlow, dwfFlow float64) (extLoad, dwfLoad []float64) {
	np := len(c.p.Pollutants)
	extLoad = make([]float64, np)
	dwfLoad = make([]float64, np)
	if np == 0 {
		return extLoad, dwfLoad
	}
	hour := int(elapsed/3600) % 24

	for _, in := range n.ExtInflows {
		if in.IsFlow || in.PollutRef == proj.NoRef || int(in.PollutRef) >= np {
			continue
		}
		val := in.Baseline
		if in.TSeriesRef != proj.NoRef {
			val = c.p.TSeries[in.TSeriesRef].ValueAt(elapsed)
		}
		scale := in.ScaleFactor
		if scale == 0 {
			scale = 1
		}
		if in.PatternRef != proj.NoRef {
			val *= c.p.Patterns[in.PatternRef].Multiplier(hour)
		}
		extLoad[in.PollutRef] += val * scale * extFlow
	}

	for _, dwf := range n.DwfInflows {
		if dwf.PollutRef == proj.NoRef || int(dwf.PollutRef) >= np {
			continue
		}
		val := dwf.AvgValue
		for _, patRef := range dwf.PatternRefs {
			if patRef == proj.NoRef {
				continue
			}
			pat := c.p.Patterns[patRef]
			idx := 0
			if pat.Kind == proj.PatternHourly || pat.Kind == proj.PatternWeekendHourly {
				idx = hour
			}
			val *= pat.Multiplier(idx)
		}
		dwfLoad[dwf.PollutRef] += val * dwfFlow
	}
	return extLoad, dwfLoad
}

// stepQuality routes water quality one step: for every node, assembles
// the flow-weighted inbound concentration from upstream links plus
// lateral inflow (subcatchment washoff and external/DWF quality loads,
// c.latQualMass), mixes it through the node's reactor (CSTR or PLUG,
// spec §4.H), then evaluates any scheduled treatment expressions against
// the mixed result, in link-topology order implied by reading NewQual
// before it is overwritten this same pass (single-pass, one node at a
// time, matching the flow-routing step's own single-pass update).
func (c *Controller) stepQuality(tstep float64) {
	np := len(c.p.Pollutants)
	if np == 0 {
		return
	}

	inflow := make([]float64, len(c.p.Nodes))
	massIn := make([][]float64, len(c.p.Nodes))
	for i := range massIn {
		massIn[i] = make([]float64, np)
	}
	for _, l := range c.p.Links {
		if l.Node2 == proj.NoRef {
			continue
		}
		inflow[l.Node2] += l.NewFlow
		up := c.p.Nodes[l.Node1]
		for pi := range c.p.Pollutants {
			conc := 0.0
			if pi < len(up.NewQual) {
				conc = up.NewQual[pi]
			}
			massIn[l.Node2][pi] += conc * l.NewFlow
		}
	}
	for ref, load := range c.latQualMass {
		for pi, m := range load {
			if pi < np {
				massIn[ref][pi] += m
			}
		}
	}

	for i, n := range c.p.Nodes {
		if len(n.NewQual) < np {
			grown := make([]float64, np)
			copy(grown, n.NewQual)
			n.NewQual = grown
		}
		total := inflow[i] + n.NewLatFlow
		ref := proj.Ref(i)
		for pi, pol := range c.p.Pollutants {
			inConc := 0.0
			if total > 1e-9 {
				inConc = massIn[i][pi] / total
			}
			switch n.Reactor {
			case proj.ReactorPlug:
				reactors := c.reactors[ref]
				if reactors == nil {
					reactors = pollut.NewReactors()
					c.reactors[ref] = reactors
				}
				n.NewQual[pi] = reactors.UpdatePlug(proj.Ref(pi), inConc, total, total, tstep)
			default:
				n.NewQual[pi] = pollut.UpdateCSTR(n.NewQual[pi], inConc, total, total, n.NewVolume, pol.DecayRatePipe, tstep)
			}
		}
		c.evalTreatment(n, ref, tstep)
	}
}

// evalTreatment runs a node's scheduled treatment expressions (compiled
// and topologically ordered at Start) against its just-mixed
// concentrations, spec §4.H: each expression either replaces its
// pollutant's concentration outright or removes a fraction of it, and
// runs in dependency order so an expression reading another pollutant's
// concentration sees that pollutant's own treatment result for the step.
func (c *Controller) evalTreatment(n *proj.Node, ref proj.Ref, tstep float64) {
	exprs := c.treatment[ref]
	if len(exprs) == 0 {
		return
	}
	vars := make(map[string]interface{}, len(c.p.Pollutants)+4)
	vars["HRT"] = hydraulicResidenceTime(n, tstep)
	vars["DT"] = tstep
	vars["FLOW"] = n.NewLatFlow
	vars["DEPTH"] = n.NewDepth
	vars["AREA"] = n.PondedArea
	for pi, pol := range c.p.Pollutants {
		if pi < len(n.NewQual) {
			vars[pol.ID] = n.NewQual[pi]
		}
	}
	for _, te := range exprs {
		result, err := te.Eval(vars)
		if err != nil {
			c.log.WithFields(logrus.Fields{"node": n.ID}).Warn(err)
			continue
		}
		if int(te.PollutRef) >= len(n.NewQual) {
			continue
		}
		if te.IsRemoval {
			removed := n.NewQual[te.PollutRef] * math.Min(math.Max(result, 0), 1)
			n.NewQual[te.PollutRef] -= removed
		} else {
			n.NewQual[te.PollutRef] = result
		}
		vars[c.p.Pollutants[te.PollutRef].ID] = n.NewQual[te.PollutRef]
	}
}

// hydraulicResidenceTime estimates a node's HRT (sec), the treatment
// expression language's "HRT" variable, as stored volume over throughput
// flow, spec §4.H.
func hydraulicResidenceTime(n *proj.Node, tstep float64) float64 {
	if n.NewLatFlow <= 1e-9 {
		return tstep
	}
	return n.NewVolume / n.NewLatFlow
}

// End transitions Started->Ended; after this no further Step/Stride
// calls are legal.
func (c *Controller) End() error {
	if err := c.requireState(Started, "End"); err != nil {
		return err
	}
	c.tracker.Runoff.FinalStorage = subcatchStorageDepth(c.p)
	c.tracker.CloseQualBalance()
	c.state = Ended
	c.log.WithFields(logrus.Fields{"elapsed": c.elapsed}).Info("simulation ended")
	return nil
}

// Close releases the controller back to Unopened, allowing Open to be
// called again on the same project.
func (c *Controller) Close() error {
	if c.state != Ended {
		return newErr(ErrNotClosed, "Close requires state Ended, controller is in state %v", c.state)
	}
	c.kernel = nil
	c.runoff = nil
	c.tracker = nil
	c.reactors = nil
	c.state = Unopened
	return nil
}

// Report returns the accumulated statistics tracker for reading after
// End, spec §4.K's run-end reporting.
func (c *Controller) Report() (*massbal.Tracker, error) {
	if c.state != Ended && c.state != Started {
		return nil, newErr(ErrNotStarted, "Report requires the simulation to have started")
	}
	return c.tracker, nil
}

// Elapsed returns the simulation time (seconds since Start) reached by
// the most recently completed Step/Stride call.
func (c *Controller) Elapsed() float64 { return c.elapsed }

// GetNodeResult reads a computed per-node result after a Step.
func (c *Controller) GetNodeResult(ref proj.Ref, prop NodeResult) (float64, error) {
	if int(ref) < 0 || int(ref) >= len(c.p.Nodes) {
		return 0, newErr(ErrInvalidRef, "node ref %d out of range", ref)
	}
	n := c.p.Nodes[ref]
	switch prop {
	case ResultNodeDepth:
		return n.NewDepth, nil
	case ResultNodeHead:
		return n.InvertElev + n.NewDepth, nil
	case ResultNodeVolume:
		return n.NewVolume, nil
	case ResultNodeFlooding:
		return n.Overflow, nil
	case ResultLosses:
		return n.Losses, nil
	case ResultLatInflow:
		return n.NewLatFlow, nil
	default:
		return 0, newErr(ErrInvalidProperty, "unsupported node result %v", prop)
	}
}

// GetLinkResult reads a computed per-link result after a Step.
func (c *Controller) GetLinkResult(ref proj.Ref, prop LinkResult) (float64, error) {
	if int(ref) < 0 || int(ref) >= len(c.p.Links) {
		return 0, newErr(ErrInvalidRef, "link ref %d out of range", ref)
	}
	l := c.p.Links[ref]
	switch prop {
	case ResultLinkFlow:
		return l.NewFlow, nil
	case ResultLinkDepth:
		return l.NewDepth, nil
	case ResultLinkVolume:
		return l.NewVolume, nil
	case ResultUSSurfArea:
		return l.USSurfArea, nil
	case ResultDSSurfArea:
		return l.DSSurfArea, nil
	case ResultSetting:
		return l.Setting, nil
	case ResultTargetSetting:
		return l.TargetSetting, nil
	case ResultFroude:
		return l.Froude, nil
	default:
		return 0, newErr(ErrInvalidProperty, "unsupported link result %v", prop)
	}
}

// SetNodeProperty overwrites a node's input property, taking effect on
// the next Step call (spec §4.L's live-set API).
func (c *Controller) SetNodeProperty(ref proj.Ref, prop NodeProperty, value float64) error {
	if int(ref) < 0 || int(ref) >= len(c.p.Nodes) {
		return newErr(ErrInvalidRef, "node ref %d out of range", ref)
	}
	n := c.p.Nodes[ref]
	switch prop {
	case PropInvertElev:
		n.InvertElev = value
	case PropFullDepth:
		n.FullDepth = value
	case PropSurchargeDepth:
		n.SurchargeDepth = value
	case PropPondedArea:
		n.PondedArea = value
	case PropInitDepth:
		n.InitDepth = value
	default:
		return newErr(ErrInvalidProperty, "unsupported node property %v", prop)
	}
	return nil
}

// SetLinkProperty overwrites a link's input property, taking effect on
// the next Step call.
func (c *Controller) SetLinkProperty(ref proj.Ref, prop LinkProperty, value float64) error {
	if int(ref) < 0 || int(ref) >= len(c.p.Links) {
		return newErr(ErrInvalidRef, "link ref %d out of range", ref)
	}
	l := c.p.Links[ref]
	switch prop {
	case PropOffset1:
		l.InOffset = value
	case PropOffset2:
		l.OutOffset = value
	case PropInitFlow:
		l.InitFlow = value
	case PropFlowLimit:
		l.FlowLimit = value
	case PropInletLoss:
		l.InletLoss = value
	case PropOutletLoss:
		l.OutletLoss = value
	case PropAvgLoss:
		l.AvgLoss = value
	default:
		return newErr(ErrInvalidProperty, "unsupported link property %v", prop)
	}
	return nil
}

// SetLinkTargetSetting overwrites a link's target control setting (gate
// opening / pump speed / orifice fraction), the one link property the
// engine's control-rule actions mutate every step.
func (c *Controller) SetLinkTargetSetting(ref proj.Ref, value float64) error {
	if int(ref) < 0 || int(ref) >= len(c.p.Links) {
		return newErr(ErrInvalidRef, "link ref %d out of range", ref)
	}
	c.p.Links[ref].TargetSetting = value
	return nil
}

// SetSubcatchProperty overwrites a subcatchment's input property, taking
// effect on the next Step call.
func (c *Controller) SetSubcatchProperty(ref proj.Ref, prop SubcatchProperty, value float64) error {
	if int(ref) < 0 || int(ref) >= len(c.p.Subcatchs) {
		return newErr(ErrInvalidRef, "subcatchment ref %d out of range", ref)
	}
	s := c.p.Subcatchs[ref]
	switch prop {
	case PropWidth:
		s.Width = value
	case PropArea:
		s.Area = value
	case PropFracImperv:
		s.FracImperv = value
	case PropSlope:
		s.Slope = value
	default:
		return newErr(ErrInvalidProperty, "unsupported subcatchment property %v", prop)
	}
	return nil
}

// GetSubcatchResult reads a computed per-subcatchment result after a Step.
func (c *Controller) GetSubcatchResult(ref proj.Ref, prop SubcatchResult) (float64, error) {
	if int(ref) < 0 || int(ref) >= len(c.p.Subcatchs) {
		return 0, newErr(ErrInvalidRef, "subcatchment ref %d out of range", ref)
	}
	s := c.p.Subcatchs[ref]
	switch prop {
	case ResultSubcRunoff:
		return s.Runoff, nil
	default:
		return 0, newErr(ErrInvalidProperty, "unsupported subcatchment result %v", prop)
	}
}

// GetSimSetting reads a simulation-wide numeric option.
func (c *Controller) GetSimSetting(setting SimSetting) (float64, error) {
	o := &c.p.Options
	switch setting {
	case SettingRouteStep:
		return o.RouteStep, nil
	case SettingMinRouteStep:
		return o.MinRouteStep, nil
	case SettingLengthStep:
		return o.LengtheningStep, nil
	case SettingStartDryDays:
		return o.StartDryDays, nil
	case SettingCourantFactor:
		return o.CourantFactor, nil
	case SettingMinSurfArea:
		return o.MinSurfArea, nil
	case SettingMinSlope:
		return o.MinSlope, nil
	case SettingHeadTol:
		return o.HeadTol, nil
	default:
		return 0, newErr(ErrInvalidProperty, "unsupported simulation setting %v", setting)
	}
}

// SetSimSetting overwrites a simulation-wide numeric option, taking
// effect on the next Step call.
func (c *Controller) SetSimSetting(setting SimSetting, value float64) error {
	o := &c.p.Options
	switch setting {
	case SettingRouteStep:
		o.RouteStep = value
	case SettingMinRouteStep:
		o.MinRouteStep = value
	case SettingLengthStep:
		o.LengtheningStep = value
	case SettingStartDryDays:
		o.StartDryDays = value
	case SettingCourantFactor:
		o.CourantFactor = value
	case SettingMinSurfArea:
		o.MinSurfArea = value
	case SettingMinSlope:
		o.MinSlope = value
	case SettingHeadTol:
		o.HeadTol = value
	default:
		return newErr(ErrInvalidProperty, "unsupported simulation setting %v", setting)
	}
	return nil
}
