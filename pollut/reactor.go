// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pollut

import (
	"github.com/cpmech/swmmgo/proj"
)

// PlugState is the FIFO slug queue a PLUG-flow node reactor maintains per
// pollutant: each element is one still-advecting slug of (volume, conc).
type PlugState struct {
	Slugs []plugSlug
}

type plugSlug struct {
	volume float64 // ft^3 remaining
	conc   float64
}

// Reactors holds one node's live PLUG-flow state per pollutant; CSTR
// nodes need no extra state beyond the node's own NewQual array.
type Reactors struct {
	plug map[proj.Ref]*PlugState // keyed by pollutant Ref
}

// NewReactors allocates an empty reactor state set for one node.
func NewReactors() *Reactors {
	return &Reactors{plug: make(map[proj.Ref]*PlugState)}
}

// UpdateCSTR updates a CSTR node's concentration for one pollutant by a
// fully-mixed mass balance over dt: the node's entire storage volume is
// treated as one instantaneously-mixed compartment, per spec §4.H.
//
//	inflowConc, inflowRate (cfs) describe combined lateral + upstream inflow
//	outflowRate (cfs) is the node's total outgoing flow
//	volume (ft^3) is the node's current storage volume (post newVolume)
//	decayRate (1/sec) is the pollutant's first-order pipe decay rate
func UpdateCSTR(conc, inflowConc, inflowRate, outflowRate, volume, decayRate, dt float64) float64 {
	if volume <= 0 {
		return inflowConc
	}
	massIn := inflowConc * inflowRate
	// dM/dt = massIn - outflowRate*C - decayRate*V*C, explicit Euler
	dM := (massIn - outflowRate*conc - decayRate*volume*conc) * dt
	mass := conc*volume + dM
	newVolume := volume + (inflowRate-outflowRate)*dt
	if newVolume <= 0 {
		return 0
	}
	newConc := mass / newVolume
	if newConc < 0 {
		newConc = 0
	}
	return newConc
}

// UpdatePlug advances a PLUG-flow node's FIFO slug queue: a new slug of
// (inflowRate*dt, inflowConc) is pushed in, outflowRate*dt worth of
// volume is drawn off the oldest slugs (first-in-first-out advection),
// and the flow-weighted average concentration of what left is returned.
func (r *Reactors) UpdatePlug(pollut proj.Ref, inflowConc, inflowRate, outflowRate, dt float64) (outConc float64) {
	st, ok := r.plug[pollut]
	if !ok {
		st = &PlugState{}
		r.plug[pollut] = st
	}
	if inflowRate > 0 {
		st.Slugs = append(st.Slugs, plugSlug{volume: inflowRate * dt, conc: inflowConc})
	}

	need := outflowRate * dt
	var massOut, volOut float64
	for need > 0 && len(st.Slugs) > 0 {
		head := &st.Slugs[0]
		take := head.volume
		if take > need {
			take = need
		}
		massOut += take * head.conc
		volOut += take
		head.volume -= take
		need -= take
		if head.volume <= 1e-12 {
			st.Slugs = st.Slugs[1:]
		}
	}
	if volOut <= 0 {
		return 0
	}
	return massOut / volOut
}
