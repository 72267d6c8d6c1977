// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

import "github.com/cpmech/gosl/chk"

// NodeKind: spec §3 "Node", kind ∈ {Junction, Outfall, Storage, Divider}.
type NodeKind int

const (
	Junction NodeKind = iota
	Outfall
	Storage
	Divider
)

// ExtInflow is one external-inflow record at a node (time series + pattern
// + baseline), kept as a plain slice per node rather than a linked list —
// spec §9's "doubly-linked external-inflow lists -> vector of records".
type ExtInflow struct {
	TSeriesRef Ref
	PatternRef Ref
	Baseline   float64
	ScaleFactor float64
	IsFlow     bool // true => flow inflow; false => concentration-only (quality) inflow
	PollutRef  Ref  // valid when !IsFlow
}

// DwfInflow is a dry-weather-flow inflow record (average flow + pattern set).
type DwfInflow struct {
	AvgValue float64
	PatternRefs [4]Ref // monthly, daily, hourly, weekend-hourly
	PollutRef   Ref    // NoRef for the flow record itself
}

// OutfallBoundary selects how an outfall's stage is determined.
type OutfallBoundaryType int

const (
	OutfallFree OutfallBoundaryType = iota
	OutfallNormal
	OutfallFixed
	OutfallTidal
	OutfallTimeseries
)

type OutfallData struct {
	BoundaryType OutfallBoundaryType
	FixedStage   float64
	TidalCurveRef Ref
	StageTSeriesRef Ref
	HasFlapGate  bool
	APIOverrideStage bool
	APIStage     float64
}

type StorageData struct {
	CurveRef   Ref     // depth -> area
	ConstArea  float64 // used when CurveRef == NoRef (cylindrical storage)
	ExfilRate  float64 // ft/s, constant seepage loss rate
	EvapFactor float64
}

// DividerRule selects the logic a flow divider uses to split inflow.
type DividerRule int

const (
	DividerCutoff DividerRule = iota // diverts everything above a cutoff flow
	DividerTabular                   // inflow -> diverted via curve
	DividerWeir
	DividerOverflow
)

type DividerData struct {
	DivertedLinkRef Ref
	Rule            DividerRule
	CutoffFlow      float64
	CurveRef        Ref
}

// ReactorKind selects a node's water-quality mixing model, spec §4.H.
type ReactorKind int

const (
	ReactorCSTR ReactorKind = iota
	ReactorPlug
)

// Treatment is one pollutant's treatment-removal (or replacement)
// expression at a node, spec §4.H's "treatment equations" object. Exprs
// are compiled and topologically scheduled once at Start; evaluated in
// that order every quality step.
type Treatment struct {
	PollutRef Ref
	Expr      string
	IsRemoval bool // true: Expr evaluates to the fraction removed; false: Expr replaces C directly
}

// Node: spec §3 "Node".
type Node struct {
	ID   string
	Kind NodeKind
	Reactor ReactorKind // storage nodes only; others are trivially CSTR

	InvertElev   float64
	FullDepth    float64
	SurchargeDepth float64
	PondedArea   float64
	InitDepth    float64

	ExtInflows []ExtInflow
	DwfInflows []DwfInflow
	RdiiUnitHydRef Ref
	Treatments []Treatment

	Outfall *OutfallData // non-nil iff Kind == Outfall
	StorageDat *StorageData // non-nil iff Kind == Storage
	Divider *DividerData // non-nil iff Kind == Divider

	// connected links, by signed convention: positive id = outgoing (node is
	// link's upstream end), negated-1 encoding avoided in favor of a second
	// slice for clarity.
	InLinks  []Ref
	OutLinks []Ref

	// per-step solution state
	NewDepth    float64
	NewVolume   float64
	NewLatFlow  float64
	Overflow    float64
	Losses      float64
	NewQual     []float64 // indexed by pollutant Ref

	Degree int // number of connected links, used by topology checks
}

func (n *Node) validate(p *Project) error {
	if n.Kind == Divider {
		if n.Divider == nil {
			return chk.Err("node %q: divider node missing divider data", n.ID)
		}
		if len(n.OutLinks) != 2 {
			return chk.Err("node %q: divider must have exactly two outgoing links, has %d", n.ID, len(n.OutLinks))
		}
	}
	if n.Kind != Storage && n.StorageDat != nil {
		return chk.Err("node %q: storage regulator data only valid on Storage nodes", n.ID)
	}
	if n.InitDepth > n.FullDepth+1e-9 {
		return chk.Err("node %q: initial depth %.3f exceeds full depth %.3f", n.ID, n.InitDepth, n.FullDepth)
	}
	return nil
}

// HighestCrownElev returns the invert-relative elevation of the crown of the
// highest conduit connected to n, used by the dynamic-wave surcharge check
// (§4.J.3). Links is the project's Links array (needed to resolve Ref).
func (n *Node) HighestCrownElev(links []*Link) float64 {
	max := 0.0
	consider := func(refs []Ref) {
		for _, r := range refs {
			l := links[r]
			crown := l.FullDepth()
			if crown > max {
				max = crown
			}
		}
	}
	consider(n.InLinks)
	consider(n.OutLinks)
	return max
}
