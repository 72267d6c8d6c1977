// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package proj implements the project store: the in-memory,
// cross-referenced graph of typed drainage-network objects (gages,
// subcatchments, nodes, links, pollutants, curves, time series, patterns,
// transects, aquifers, unit hydrographs, snowpacks, LID processes/units,
// control rules) that the rest of the engine operates on.
//
// The Project exclusively owns every object; cross-references between
// objects are stable indices into the owning typed array, never pointers —
// this is the "arena + index" pattern spec.md §9 calls for in place of the
// original solver's pointer-linked graph.
package proj

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/swmmgo/idx"
	"github.com/cpmech/swmmgo/units"
)

// Kind enumerates the name-index namespaces; one Index per Kind.
type Kind int

const (
	KindGage Kind = iota
	KindSubcatch
	KindNode
	KindLink
	KindPollut
	KindLanduse
	KindPattern
	KindCurve
	KindTseries
	KindControl
	KindTransect
	KindAquifer
	KindUnitHyd
	KindSnowpack
	KindLidProc
	nkinds
)

// Ref is a stable cross-reference: an index into the owning Kind's array,
// or NoRef if unset.
type Ref int

const NoRef Ref = -1

// Project owns every typed object array plus the per-kind name index used
// to resolve IDs into indices.
type Project struct {
	Options Options
	Conv    *units.Converter

	indices [nkinds]*idx.Index

	Gages        []*Gage
	Subcatchs    []*Subcatchment
	Nodes        []*Node
	Links        []*Link
	Pollutants   []*Pollutant
	Landuses     []*Landuse
	Patterns     []*Pattern
	Curves       []*Curve
	TSeries      []*TimeSeries
	Controls     []*ControlRule
	Transects    []*Transect
	Aquifers     []*Aquifer
	UnitHyds     []*UnitHydrograph
	Snowpacks    []*Snowpack
	LidProcs     []*LidProcess
	LidUnits     []*LidUnit
}

// New returns an empty project ready for population.
func New(opts Options) *Project {
	p := &Project{Options: opts}
	p.Conv = units.NewConverter(opts.FlowUnits)
	for k := range p.indices {
		p.indices[k] = idx.New()
	}
	return p
}

// Index returns the name index for kind.
func (p *Project) Index(kind Kind) *idx.Index { return p.indices[kind] }

// register inserts name into kind's index at slot, returning a DuplicateName
// error (mapped by the external parser to a user-visible input error) if the
// name collides case-insensitively with an existing entry.
func (p *Project) register(kind Kind, name string, slot int) error {
	if err := p.indices[kind].Insert(name, slot); err != nil {
		return chk.Err("duplicate %v name %q", kind, name)
	}
	return nil
}

// Lookup resolves name to a Ref within kind, or NoRef if not found.
func (p *Project) Lookup(kind Kind, name string) Ref {
	i := p.indices[kind].Lookup(name)
	if i == idx.NotFound {
		return NoRef
	}
	return Ref(i)
}

// Rebuild clears and repopulates every name index from the current object
// arrays; called once at project open, per spec §4.A ("rebuilt on project
// open").
func (p *Project) Rebuild() error {
	for k := range p.indices {
		p.indices[k].Free()
	}
	for i, g := range p.Gages {
		if err := p.register(KindGage, g.ID, i); err != nil {
			return err
		}
	}
	for i, s := range p.Subcatchs {
		if err := p.register(KindSubcatch, s.ID, i); err != nil {
			return err
		}
	}
	for i, n := range p.Nodes {
		if err := p.register(KindNode, n.ID, i); err != nil {
			return err
		}
	}
	for i, l := range p.Links {
		if err := p.register(KindLink, l.ID, i); err != nil {
			return err
		}
	}
	for i, q := range p.Pollutants {
		if err := p.register(KindPollut, q.ID, i); err != nil {
			return err
		}
	}
	for i, c := range p.Curves {
		if err := p.register(KindCurve, c.ID, i); err != nil {
			return err
		}
	}
	for i, ts := range p.TSeries {
		if err := p.register(KindTseries, ts.ID, i); err != nil {
			return err
		}
	}
	for i, pat := range p.Patterns {
		if err := p.register(KindPattern, pat.ID, i); err != nil {
			return err
		}
	}
	for i, lp := range p.LidProcs {
		if err := p.register(KindLidProc, lp.ID, i); err != nil {
			return err
		}
	}
	for i, r := range p.Controls {
		if err := p.register(KindControl, r.ID, i); err != nil {
			return err
		}
	}
	return nil
}

// Validate runs every project-wide invariant check named in spec §3/§8 and
// returns the first violation found (input/validation errors, §7 1xx/2xx).
func (p *Project) Validate() error {
	if err := p.validateGages(); err != nil {
		return err
	}
	for _, s := range p.Subcatchs {
		if err := s.validate(p); err != nil {
			return err
		}
	}
	for _, n := range p.Nodes {
		if err := n.validate(p); err != nil {
			return err
		}
	}
	for _, l := range p.Links {
		if err := l.validate(p); err != nil {
			return err
		}
	}
	return nil
}

// validateGages enforces: if two gages reference the same time series, they
// must specify the same recording interval (spec §3 "Gage" invariant).
func (p *Project) validateGages() error {
	byTS := make(map[Ref]*Gage)
	for _, g := range p.Gages {
		if g.Source != SourceTimeSeries {
			continue
		}
		if other, ok := byTS[g.TSeries]; ok {
			if other.RecordingInterval != g.RecordingInterval {
				return chk.Err("gages %q and %q share time series %v but specify different recording intervals",
					other.ID, g.ID, g.TSeries)
			}
		} else {
			byTS[g.TSeries] = g
		}
	}
	return nil
}
