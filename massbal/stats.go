// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package massbal implements the per-object running statistics and
// system-wide continuity (mass-balance) accounting spec §4.K names:
// subcatchment/node/link/storage/outfall/pump statistics tables updated
// once per routing step, and the flow/quality balance totals whose
// relative error is reported at run end.
package massbal

import (
	"math"

	"github.com/cpmech/swmmgo/proj"
)

// maxTrackedStats bounds how many "worst offender" entries each
// top-N ranking (mass-balance error, Courant-critical count, flow-turn
// count) keeps, mirroring the original solver's MAX_STATS constant.
const maxTrackedStats = 5

// RankedStat is one entry in a top-N "worst offender" ranking: the object
// and the value that earned it a slot.
type RankedStat struct {
	Ref   proj.Ref
	Value float64
}

// topN keeps the maxTrackedStats largest values offered to it via
// consider, smallest-first so index 0 is always the next to evict.
type topN struct {
	entries [maxTrackedStats]RankedStat
	filled  int
}

func (t *topN) consider(ref proj.Ref, value float64) {
	if t.filled < maxTrackedStats {
		t.entries[t.filled] = RankedStat{Ref: ref, Value: value}
		t.filled++
		t.bubbleUp(t.filled - 1)
		return
	}
	if value <= t.entries[0].Value {
		return
	}
	t.entries[0] = RankedStat{Ref: ref, Value: value}
	t.siftDown(0)
}

func (t *topN) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if t.entries[parent].Value <= t.entries[i].Value {
			return
		}
		t.entries[parent], t.entries[i] = t.entries[i], t.entries[parent]
		i = parent
	}
}

func (t *topN) siftDown(i int) {
	for {
		l, r, smallest := 2*i+1, 2*i+2, i
		if l < t.filled && t.entries[l].Value < t.entries[smallest].Value {
			smallest = l
		}
		if r < t.filled && t.entries[r].Value < t.entries[smallest].Value {
			smallest = r
		}
		if smallest == i {
			return
		}
		t.entries[i], t.entries[smallest] = t.entries[smallest], t.entries[i]
		i = smallest
	}
}

// Ranked returns the tracked entries, largest value first.
func (t *topN) Ranked() []RankedStat {
	out := append([]RankedStat{}, t.entries[:t.filled]...)
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].Value > out[i].Value {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// SubcatchStats accumulates one subcatchment's running runoff totals,
// spec §4.K.1; ImpervRunoff/PerviousRunoff is the sub-area split the
// original solver added as a reporting supplement.
type SubcatchStats struct {
	Precip, Runon, Evap, Infil, Runoff float64
	ImpervRunoff, PerviousRunoff       float64
	MaxFlow                            float64
	MaxFlowTime                        float64
}

func (s *SubcatchStats) update(precip, runon, evap, infil, runoffRate, impervRate, pervRate, tstep, elapsed float64) {
	s.Precip += precip * tstep
	s.Runon += runon * tstep
	s.Evap += evap * tstep
	s.Infil += infil * tstep
	s.Runoff += runoffRate * tstep
	s.ImpervRunoff += impervRate * tstep
	s.PerviousRunoff += pervRate * tstep
	if runoffRate > s.MaxFlow {
		s.MaxFlow = runoffRate
		s.MaxFlowTime = elapsed
	}
}

// NodeStats accumulates one node's running depth/flooding/surcharge
// totals, spec §4.K.2.
type NodeStats struct {
	AvgDepth            float64
	MaxDepth            float64
	MaxDepthTime        float64
	MaxRptDepth         float64
	MaxOverflow         float64
	MaxOverflowTime     float64
	MaxPondedVol        float64
	TimeCourantCritical float64
	TimeSurcharged      float64
	TotalLatFlow        float64
	Periods             int
}

func (s *NodeStats) update(n *proj.Node, tstep, elapsed float64) {
	s.AvgDepth += n.NewDepth * tstep
	s.TotalLatFlow += n.NewLatFlow * tstep
	s.Periods++
	if n.NewDepth > s.MaxDepth {
		s.MaxDepth = n.NewDepth
		s.MaxDepthTime = elapsed
	}
	if n.Overflow > s.MaxOverflow {
		s.MaxOverflow = n.Overflow
		s.MaxOverflowTime = elapsed
	}
	if n.Kind != proj.Storage && n.FullDepth > 0 && n.NewDepth >= n.FullDepth-1e-9 {
		s.TimeSurcharged += tstep
	}
	if n.Kind == proj.Storage && n.SurchargeDepth > 0 && n.NewDepth >= n.FullDepth+n.SurchargeDepth-1e-9 {
		s.TimeSurcharged += tstep
	}
}

// LinkStats accumulates one conduit/link's running flow/regime totals,
// spec §4.K.3. flowTurns counts direction reversals, attributed to the
// state the link is in *after* the flip, the resolution recorded in
// DESIGN.md.
type LinkStats struct {
	MaxFlow          float64
	MaxFlowTime      float64
	MaxVeloc         float64
	TimeNormalFlow   float64
	TimeInletControl float64
	TimeSurcharged   float64
	TimeUpstreamFull float64
	TimeDnstreamFull float64
	TimeFullFlow     float64
	FlowTurns        int
	Periods          int

	lastSign int
}

func (s *LinkStats) update(l *proj.Link, tstep, elapsed float64) {
	s.Periods++
	q := l.NewFlow
	if q > s.MaxFlow {
		s.MaxFlow = q
		s.MaxFlowTime = elapsed
	}
	if l.XSect != nil && l.NewDepth > 0 {
		v := q / l.XSect.Area(l.NewDepth)
		if v > s.MaxVeloc {
			s.MaxVeloc = v
		}
	}

	sign := 0
	switch {
	case q > 1e-9:
		sign = 1
	case q < -1e-9:
		sign = -1
	}
	if sign != 0 && s.lastSign != 0 && sign != s.lastSign {
		s.FlowTurns++
	}
	if sign != 0 {
		s.lastSign = sign
	}

	switch l.FlowClassTag {
	case proj.ClassUpFull:
		s.TimeUpstreamFull += tstep
	case proj.ClassDnFull:
		s.TimeDnstreamFull += tstep
	case proj.ClassAllFull:
		s.TimeUpstreamFull += tstep
		s.TimeDnstreamFull += tstep
		s.TimeFullFlow += tstep
	case proj.ClassSubcritical, proj.ClassUpCritical, proj.ClassDnCritical:
		s.TimeNormalFlow += tstep
	}
}

// StorageStats accumulates one storage node's running volume/loss
// totals, spec §4.K.4 (exfiltration losses added per the original
// solver's 5.1.007 changelog note).
type StorageStats struct {
	AvgVol      float64
	MaxVol      float64
	MaxVolTime  float64
	MaxFlow     float64
	EvapLosses  float64
	ExfilLosses float64
	Periods     int
}

func (s *StorageStats) update(n *proj.Node, evapRate, exfilRate, tstep, elapsed float64) {
	s.AvgVol += n.NewVolume * tstep
	s.EvapLosses += evapRate * tstep
	s.ExfilLosses += exfilRate * tstep
	s.Periods++
	if n.NewVolume > s.MaxVol {
		s.MaxVol = n.NewVolume
		s.MaxVolTime = elapsed
	}
}

// OutfallStats accumulates one outfall's running discharge/load totals,
// spec §4.K.5. TotalLoad is indexed by pollutant Ref.
type OutfallStats struct {
	AvgFlow   float64
	MaxFlow   float64
	Periods   int
	TotalLoad []float64
}

func (s *OutfallStats) update(flow float64, quality []float64, tstep float64) {
	s.AvgFlow += flow * tstep
	s.Periods++
	if flow > s.MaxFlow {
		s.MaxFlow = flow
	}
	if len(quality) == 0 {
		return
	}
	if len(s.TotalLoad) < len(quality) {
		grown := make([]float64, len(quality))
		copy(grown, s.TotalLoad)
		s.TotalLoad = grown
	}
	for i, c := range quality {
		s.TotalLoad[i] += flow * c * tstep
	}
}

// PumpStats accumulates one pump's running utilization/flow totals,
// spec §4.K.6.
type PumpStats struct {
	UtilizedTime float64
	MinFlow      float64
	AvgFlow      float64
	MaxFlow      float64
	Periods      int
	StartUps     int

	wasOn bool
}

func (s *PumpStats) update(isOn bool, flow, tstep float64) {
	s.Periods++
	if isOn {
		s.UtilizedTime += tstep
		s.AvgFlow += flow * tstep
		if flow > s.MaxFlow {
			s.MaxFlow = flow
		}
		if s.MinFlow == 0 || flow < s.MinFlow {
			s.MinFlow = flow
		}
		if !s.wasOn {
			s.StartUps++
		}
	}
	s.wasOn = isOn
}

// Tracker owns the per-object statistics tables for an entire project,
// spec §4.K's per-run stats lifetime: allocated at Open, updated every
// routing step, read by reporting at End.
type Tracker struct {
	Subcatch []SubcatchStats
	Node     []NodeStats
	Link     []LinkStats
	Storage  map[proj.Ref]*StorageStats
	Outfall  map[proj.Ref]*OutfallStats
	Pump     map[proj.Ref]*PumpStats

	MaxMassBalErrs topN
	MaxCourantCrit topN
	MaxFlowTurns   topN
	MaxOutfallFlow float64
	MaxRunoffFlow  float64

	Runoff RunoffBalance
	Qual   []QualBalance // indexed by pollutant Ref
}

// NewTracker allocates empty statistics tables sized to p's object
// arrays, grounded on stats_open's per-array allocation in the original
// solver.
func NewTracker(p *proj.Project) *Tracker {
	t := &Tracker{
		Subcatch: make([]SubcatchStats, len(p.Subcatchs)),
		Node:     make([]NodeStats, len(p.Nodes)),
		Link:     make([]LinkStats, len(p.Links)),
		Storage:  map[proj.Ref]*StorageStats{},
		Outfall:  map[proj.Ref]*OutfallStats{},
		Pump:     map[proj.Ref]*PumpStats{},
		Qual:     make([]QualBalance, len(p.Pollutants)),
	}
	for i, n := range p.Nodes {
		switch n.Kind {
		case proj.Storage:
			t.Storage[proj.Ref(i)] = &StorageStats{}
		case proj.Outfall:
			t.Outfall[proj.Ref(i)] = &OutfallStats{}
		}
	}
	for i, l := range p.Links {
		if l.Pump != nil {
			t.Pump[proj.Ref(i)] = &PumpStats{}
		}
	}
	return t
}

// UpdateSubcatchStats records one subcatchment's per-step runoff
// components, called from the runoff engine's per-step driver
// (stats_updateSubcatchStats's call site).
func (t *Tracker) UpdateSubcatchStats(ref proj.Ref, precip, runon, evap, infil, runoffRate, impervRate, pervRate, tstep, elapsed float64) {
	s := &t.Subcatch[ref]
	s.update(precip, runon, evap, infil, runoffRate, impervRate, pervRate, tstep, elapsed)
	if runoffRate > t.MaxRunoffFlow {
		t.MaxRunoffFlow = runoffRate
	}
	t.Runoff.TotalPrecip += precip * tstep
	t.Runoff.TotalRunon += runon * tstep
	t.Runoff.TotalEvap += evap * tstep
	t.Runoff.TotalInfil += infil * tstep
	t.Runoff.TotalRunoff += runoffRate * tstep
}

// AddQualMass folds one step's per-pollutant runoff washoff load and
// external/DWF quality-inflow load into the quality continuity balance,
// called from the controller's lateral-inflow assembly.
func (t *Tracker) AddQualMass(runoffLoad, externalLoad, dwfLoad []float64, tstep float64) {
	for i := range t.Qual {
		if i < len(runoffLoad) {
			t.Qual[i].RunoffMass += runoffLoad[i] * tstep
		}
		if i < len(externalLoad) {
			t.Qual[i].ExternalMass += externalLoad[i] * tstep
		}
		if i < len(dwfLoad) {
			t.Qual[i].DWFMass += dwfLoad[i] * tstep
		}
	}
}

// CloseQualBalance folds each pollutant's accumulated outfall discharge
// load into its quality balance and offers the resulting percent error
// into the mass-balance worst-offenders ranking, called once at
// simulation end (stats_report's quality continuity line).
func (t *Tracker) CloseQualBalance() {
	for _, out := range t.Outfall {
		for pi := range t.Qual {
			if pi < len(out.TotalLoad) {
				t.Qual[pi].OutfallMass += out.TotalLoad[pi]
			}
		}
	}
	for pi := range t.Qual {
		t.RecordMassBalErr(proj.Ref(pi), t.Qual[pi].Error()*100)
	}
}

// UpdateFlowStats records one routing step's node/link/storage/outfall/
// pump statistics, called once per routing step (stats_updateFlowStats's
// call site, routing_execute).
func (t *Tracker) UpdateFlowStats(p *proj.Project, tstep, elapsed float64) {
	inflow := make([]float64, len(p.Nodes))
	for _, l := range p.Links {
		if l.Node2 != proj.NoRef {
			inflow[l.Node2] += l.NewFlow
		}
	}

	for i, n := range p.Nodes {
		t.Node[i].update(n, tstep, elapsed)
		if store, ok := t.Storage[proj.Ref(i)]; ok {
			evapRate, exfilRate := 0.0, 0.0
			if n.StorageDat != nil {
				exfilRate = n.StorageDat.ExfilRate
			}
			store.update(n, evapRate, exfilRate, tstep, elapsed)
		}
		if out, ok := t.Outfall[proj.Ref(i)]; ok {
			out.update(inflow[i], n.NewQual, tstep)
			if inflow[i] > t.MaxOutfallFlow {
				t.MaxOutfallFlow = inflow[i]
			}
		}
	}
	for i, l := range p.Links {
		t.Link[i].update(l, tstep, elapsed)
		if pump, ok := t.Pump[proj.Ref(i)]; ok {
			pump.update(l.Pump != nil && l.Pump.IsOn, l.NewFlow, tstep)
		}
		t.RecordFlowTurn(proj.Ref(i))
	}
}

// UpdateCriticalTimeCount tallies the elapsed time a node's routing step
// was pinned to MinRouteStep by the Courant condition, called from
// runtime.Controller.Step with the per-node times the dynamic-wave
// kernel's CriticalNodeTimes reports (stats_updateCriticalTimeCount's
// role in the original's getVariableStep in dynwave.c).
func (t *Tracker) UpdateCriticalTimeCount(ref proj.Ref, tstep float64) {
	t.Node[ref].TimeCourantCritical += tstep
	t.MaxCourantCrit.consider(ref, t.Node[ref].TimeCourantCritical)
}

// RecordMassBalErr offers a per-category mass-balance percent error into
// the worst-offenders ranking at run end.
func (t *Tracker) RecordMassBalErr(category proj.Ref, pctErr float64) {
	t.MaxMassBalErrs.consider(category, math.Abs(pctErr))
}

// RecordFlowTurn offers a link's flow-turn count into the worst-offenders
// ranking at run end.
func (t *Tracker) RecordFlowTurn(ref proj.Ref) {
	t.MaxFlowTurns.consider(ref, float64(t.Link[ref].FlowTurns))
}
