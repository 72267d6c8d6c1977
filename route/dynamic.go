// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"math"
	"runtime"
	"sync"

	"github.com/cpmech/swmmgo/proj"
)

const gravity = 32.2 // ft/s^2

// DynamicKernel implements spec §4.J: the full dynamic-wave solver --
// adaptive Courant-limited internal time stepping, iterative node-link
// head relaxation, EXTRAN virtual-storage or Preissmann-slot surcharge
// handling, and 10-class flow regime tagging. Unlike SteadyKernel and
// KinematicKernel it does not need an acyclic link graph: heads are
// relaxed simultaneously rather than propagated in topological order.
type DynamicKernel struct {
	heads []float64 // scratch: per-node relaxed head, ft
	flows []float64 // scratch: per-link relaxed flow, cfs

	criticalTime map[proj.Ref]float64 // this RouteStep's Courant-critical seconds per node
}

func init() {
	allocators["dynamic"] = func() Kernel { return &DynamicKernel{} }
}

func (k *DynamicKernel) Name() string { return "dynamic" }

func (k *DynamicKernel) RouteStep(p *proj.Project, tstep float64) error {
	if len(k.heads) != len(p.Nodes) {
		k.heads = make([]float64, len(p.Nodes))
	}
	if len(k.flows) != len(p.Links) {
		k.flows = make([]float64, len(p.Links))
	}

	k.criticalTime = make(map[proj.Ref]float64)

	elapsed := 0.0
	for elapsed < tstep {
		dt, criticalLink := k.courantStep(p)
		if dt > tstep-elapsed {
			dt = tstep - elapsed
		}
		if dt < p.Options.MinRouteStep {
			dt = math.Min(p.Options.MinRouteStep, tstep-elapsed)
		}
		if dt <= 0 {
			break
		}
		if criticalLink != proj.NoRef {
			l := p.Links[criticalLink]
			k.criticalTime[l.Node1] += dt
			if l.Node2 != proj.NoRef {
				k.criticalTime[l.Node2] += dt
			}
		}
		k.relax(p, dt)
		elapsed += dt
	}

	for _, n := range p.Nodes {
		n.NewVolume = nodeVolumeFromDepth(n, n.NewDepth)
	}
	for i, l := range p.Links {
		l.NewFlow = k.flows[i]
		l.FlowClassTag = classifyFull(p, l, l.NewFlow)
	}
	return nil
}

// courantStep returns the largest internal time step (bounded below by
// MinRouteStep) that keeps every conduit's Courant number at or below
// CourantFactor, spec §4.J.1's adaptive-timestep rule: dt <= cf*L/(|v|+c)
// where c = sqrt(g*A/T) is the gravity-wave celerity.
func (k *DynamicKernel) courantStep(p *proj.Project) (dt float64, criticalLink proj.Ref) {
	dt = p.Options.RouteStep
	if dt <= 0 {
		dt = 15
	}
	criticalLink = proj.NoRef
	for i, l := range p.Links {
		if l.XSect == nil || l.Length <= 0 {
			continue
		}
		a := l.XSect.Area(l.NewDepth)
		tw := l.XSect.Topwidth(l.NewDepth)
		if a <= 0 || tw <= 0 {
			continue
		}
		c := math.Sqrt(gravity * a / tw)
		v := l.NewFlow / a
		denom := math.Abs(v) + c
		if denom <= 0 {
			continue
		}
		allowed := p.Options.CourantFactor * l.Length / denom
		if allowed < dt {
			dt = allowed
			criticalLink = proj.Ref(i)
		}
	}
	if dt < p.Options.MinRouteStep {
		dt = p.Options.MinRouteStep
	}
	return dt, criticalLink
}

// CriticalNodeTimes returns the Courant-critical seconds attributed to
// each node by the just-completed RouteStep call, keyed by node Ref
// (stats_updateCriticalTimeCount's per-node accumulation).
func (k *DynamicKernel) CriticalNodeTimes() map[proj.Ref]float64 {
	return k.criticalTime
}

// relax advances the node/link system by dt trials, stopping early once
// the largest head change between trials falls under HeadTol, per spec
// §4.J.2's iterative node-link relaxation with MaxTrials as a ceiling.
func (k *DynamicKernel) relax(p *proj.Project, dt float64) {
	for i, n := range p.Nodes {
		k.heads[i] = n.InvertElev + n.NewDepth
	}
	for i, l := range p.Links {
		k.flows[i] = l.NewFlow
	}

	trials := p.Options.MaxTrials
	if trials < 1 {
		trials = 1
	}
	for t := 0; t < trials; t++ {
		k.updateLinkFlows(p, dt)
		maxDelta := k.updateNodeHeads(p, dt)
		if maxDelta < p.Options.HeadTol {
			break
		}
	}

	for i, l := range p.Links {
		l.NewFlow = k.flows[i]
	}
	for i, n := range p.Nodes {
		n.NewDepth = math.Max(k.heads[i]-n.InvertElev, 0)
	}
}

// updateLinkFlows computes each link's new flow from the current relaxed
// head field, in parallel across a GOMAXPROCS-sized stride partition (the
// per-link update depends only on head state left over from the previous
// trial, never on another link's result within the same trial).
func (k *DynamicKernel) updateLinkFlows(p *proj.Project, dt float64) {
	nprocs := p.Options.Workers
	if nprocs <= 0 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	if nprocs > len(p.Links) {
		nprocs = len(p.Links)
	}
	if nprocs < 1 {
		return
	}

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for proc := 0; proc < nprocs; proc++ {
		go func(proc int) {
			defer wg.Done()
			for i := proc; i < len(p.Links); i += nprocs {
				k.flows[i] = k.linkFlow(p, p.Links[i], k.flows[i], dt)
			}
		}(proc)
	}
	wg.Wait()
}

// linkFlow is the semi-implicit dynamic-wave link equation: the momentum
// equation's pressure-gradient term is evaluated explicitly from the
// current head difference and its friction term implicitly from the
// previous trial's flow, avoiding the stability limits a fully-explicit
// friction term would impose.
func (k *DynamicKernel) linkFlow(p *proj.Project, l *proj.Link, qOld, dt float64) float64 {
	if l.XSect == nil || l.Length <= 0 {
		return 0
	}
	h1 := k.heads[l.Node1]
	h2 := k.heads[l.Node2]
	depth := math.Max(l.NewDepth, 1e-4)
	a := l.XSect.Area(depth)
	r := l.XSect.HydRadius(depth)
	n := l.XSect.Roughness
	if a <= 0 || r <= 0 || n <= 0 {
		return 0
	}
	barrels := float64(max1(l.Barrels))

	friction := gravity * n * n * math.Abs(qOld) * dt / (2.21 * a * math.Pow(r, 4.0/3.0) * barrels)
	numer := qOld + gravity*a*dt/l.Length*(h1-h2)
	q := numer / (1 + friction)

	if full := l.XSect.FullDepth; full > 0 {
		qFull := manningFlow(l, conduitSlope(p, l), full)
		if qFull > 0 {
			q = math.Max(math.Min(q, qFull*4), -qFull*4)
		}
	}

	if a > 0 {
		l.Froude = math.Abs(q) / a / math.Sqrt(gravity*a/math.Max(l.XSect.Topwidth(depth), 1e-9))
	}
	return q
}

// updateNodeHeads applies continuity (dV/dh)*dh/dt = inflow - outflow at
// each node using the just-relaxed link flows, switching storage area
// between a node's physical surface area and the chosen surcharge
// representation once the node's depth exceeds its rim, per spec §4.J.3.
// It returns the largest head change seen across all nodes, the
// relaxation loop's convergence signal.
func (k *DynamicKernel) updateNodeHeads(p *proj.Project, dt float64) float64 {
	netFlow := make([]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		netFlow[i] = n.NewLatFlow
	}
	for i, l := range p.Links {
		netFlow[l.Node1] -= k.flows[i]
		if l.Node2 != proj.NoRef {
			netFlow[l.Node2] += k.flows[i]
		}
	}

	maxDelta := 0.0
	for i, n := range p.Nodes {
		if n.Kind == proj.Outfall {
			k.heads[i] = k.outfallHead(p, n)
			continue
		}
		area := k.storageArea(p, n, k.heads[i]-n.InvertElev)
		dh := netFlow[i] / area * dt
		newHead := k.heads[i] + dh
		if !p.Options.AllowPonding {
			crown := n.InvertElev + n.FullDepth
			if newHead > crown && n.PondedArea <= 0 {
				n.Overflow += (newHead - crown) * area / dt
				newHead = crown
			}
		}
		delta := math.Abs(newHead - k.heads[i])
		if delta > maxDelta {
			maxDelta = delta
		}
		k.heads[i] = newHead
	}
	return maxDelta
}

// storageArea returns the node surface area continuity should divide by:
// its rim-level physical area while unsurcharged, and the configured
// surcharge method's effective area once depth exceeds FullDepth -- a
// small constant (virtual storage, EXTRAN-style) or, for the
// Preissmann slot, a narrower constant of 1% of MinSurfArea (at least 1e-4).
func (k *DynamicKernel) storageArea(p *proj.Project, n *proj.Node, depth float64) float64 {
	area := n.PondedArea
	if area <= 0 {
		area = p.Options.MinSurfArea
	}
	if area <= 0 {
		area = 1
	}
	if depth <= n.FullDepth || n.FullDepth <= 0 {
		return area
	}
	switch p.Options.SurchargeMethod {
	case proj.SurchargeSlot:
		// Preissmann slot: a narrow artificial top-width lets depth rise
		// far faster per unit inflow than the EXTRAN pond does.
		return math.Max(p.Options.MinSurfArea*0.01, 1e-4)
	default: // SurchargeExtran: small fictitious pond at the rim
		return math.Max(p.Options.MinSurfArea, 1e-3)
	}
}

// outfallHead resolves a boundary node's head: a fixed-stage outfall
// returns its FixedStage; every other outfall type (free, normal, tidal,
// timeseries) and a node without outfall data returns invert plus its
// current depth. Tidal and time-series stages are not looked up.
func (k *DynamicKernel) outfallHead(p *proj.Project, n *proj.Node) float64 {
	if n.Outfall == nil {
		return n.InvertElev + n.NewDepth
	}
	switch n.Outfall.BoundaryType {
	case proj.OutfallFixed:
		return n.Outfall.FixedStage
	default:
		return n.InvertElev + n.NewDepth
	}
}

// classifyFull is the dynamic kernel's 10-class flow regime tag, spec
// §4.J.4: distinguishing dry, full, sub/supercritical, and the up/down
// critical-control cases the shared steady/kinematic classify() cannot,
// since it alone has both end nodes' depths available.
func classifyFull(p *proj.Project, l *proj.Link, q float64) proj.FlowClass {
	if l.XSect == nil {
		return proj.ClassDry
	}
	if math.Abs(q) <= 1e-12 {
		return proj.ClassDry
	}
	n1, n2 := p.Nodes[l.Node1], p.Nodes[l.Node2]
	if n1.NewDepth <= 1e-6 {
		return proj.ClassUpDry
	}
	if n2.NewDepth <= 1e-6 {
		return proj.ClassDnDry
	}
	full := l.XSect.FullDepth
	if full > 0 {
		upFull := n1.NewDepth >= full-1e-9
		dnFull := n2.NewDepth >= full-1e-9
		if upFull && dnFull {
			// a slotted conduit is never "full" in the closed-pipe sense:
			// the slot itself keeps absorbing rise above the crown.
			if p.Options.SurchargeMethod != proj.SurchargeSlot {
				return proj.ClassAllFull
			}
		} else if upFull {
			return proj.ClassUpFull
		} else if dnFull {
			return proj.ClassDnFull
		}
	}
	if l.Froude > 1 {
		return proj.ClassSupercritical
	}
	if l.Froude > 0.95 {
		if n1.NewDepth > n2.NewDepth {
			return proj.ClassDnCritical
		}
		return proj.ClassUpCritical
	}
	return proj.ClassSubcritical
}
