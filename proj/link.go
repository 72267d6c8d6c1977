// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/swmmgo/xsect"
)

// LinkKind: spec §3 "Link", kind ∈ {Conduit, Pump, Orifice, Weir, Outlet}.
// Named OutletLink (not Outlet) to avoid colliding with the subcatchment
// drain-target Outlet struct.
type LinkKind int

const (
	Conduit LinkKind = iota
	Pump
	Orifice
	Weir
	OutletLink
)

// FlowClass is the flow-regime tag spec §4.J.4 assigns to every conduit on
// every routing step.
type FlowClass int

const (
	ClassDry FlowClass = iota
	ClassUpDry
	ClassDnDry
	ClassSubcritical
	ClassSupercritical
	ClassUpCritical
	ClassDnCritical
	ClassUpFull
	ClassDnFull
	ClassAllFull
)

// PumpCurveType selects how a pump's curve is interpreted.
type PumpCurveType int

const (
	PumpTypeIdeal PumpCurveType = iota // flow independent of head
	PumpTypeDepthFlow
	PumpTypeHeadFlow
)

type PumpData struct {
	CurveRef  Ref
	CurveType PumpCurveType
	InitStatus bool // on/off at start
	HOpen, HClose float64 // startup/shutoff wet-well depths (hysteresis)
	StartUps   int
	IsOn       bool
}

type OrificeShape int

const (
	OrificeSideFlow OrificeShape = iota
	OrificeBottomFlow
)

type OrificeData struct {
	ShapeKind    OrificeShape
	DischargeCoef float64
	HasFlapGate  bool
	OpenCloseTime float64
}

type WeirKind int

const (
	WeirTransverse WeirKind = iota
	WeirSideFlow
	WeirVNotch
	WeirTrapezoidal
	WeirRoadway
)

type WeirData struct {
	WeirType      WeirKind
	DischargeCoef float64
	EndContractions int
	HasFlapGate   bool
	SideSlope     float64 // V-notch / trapezoidal
	CoeffCurveRef Ref     // weir head -> coefficient, optional
}

type OutletData struct {
	RatingCurveRef Ref   // head -> flow, used when Expon == 0
	Coeff          float64
	Expon          float64
	HasFlapGate    bool
}

// Link: spec §3 "Link".
type Link struct {
	ID   string
	Kind LinkKind

	Node1, Node2 Ref
	Direction    int // +1 or -1; reversed at runtime when adverse slope detected (§3 invariant)

	InOffset, OutOffset float64 // ft, depth-based by default
	InitFlow  float64
	FlowLimit float64
	InletLoss, OutletLoss, AvgLoss float64
	SeepRate  float64

	XSect *xsect.Section
	Length float64 // ft; > 0 required (invariant)
	Barrels int    // >= 1 required (invariant)

	Pump    *PumpData
	Orifice *OrificeData
	Weir    *WeirData
	Outlt   *OutletData

	Setting       float64 // current fractional opening/speed, [0,1]
	TargetSetting float64
	TimeOpen, TimeClosed float64

	NewFlow   float64
	NewDepth  float64
	NewVolume float64
	USSurfArea, DSSurfArea float64
	Froude    float64
	FlowClassTag FlowClass

	NewQual   []float64 // indexed by pollutant Ref
	TotalLoad []float64 // cumulative mass, indexed by pollutant Ref
}

// FullDepth returns the link's cross-sectional full depth (0 for an
// unbounded open channel).
func (l *Link) FullDepth() float64 {
	if l.XSect == nil {
		return 0
	}
	return l.XSect.FullDepth
}

func (l *Link) validate(p *Project) error {
	if l.Kind == Conduit {
		if l.Length <= 0 {
			return chk.Err("link %q: conduit length must be > 0", l.ID)
		}
		if l.Barrels < 1 {
			return chk.Err("link %q: conduit must have >= 1 barrel", l.ID)
		}
	}
	return nil
}
