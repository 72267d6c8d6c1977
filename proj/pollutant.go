// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

// PollutUnits: spec §3 "Pollutant".
type PollutUnits int

const (
	UnitsMgL PollutUnits = iota
	UnitsUgL
	UnitsCountPerL
)

// Pollutant: spec §3 "Pollutant".
type Pollutant struct {
	ID    string
	Units PollutUnits

	MassConvFactor float64 // converts internal mass units to reporting units

	DecayRateRunoff float64 // first-order decay, 1/sec
	DecayRatePipe   float64

	RoadwayRunoffConc float64
	DWFConc           float64
	InitConc          float64

	CoPollutRef    Ref     // optional co-pollutant this one is generated from
	CoPollutFactor float64
}

// BuildupFunc selects the between-events surface-accumulation curve a
// land-use/pollutant pair follows, spec §4.H.
type BuildupFunc int

const (
	BuildupNone BuildupFunc = iota
	BuildupPower
	BuildupExponential
	BuildupSaturation
	BuildupExternal // driven by an external time series, not a curve
)

// WashoffFunc selects the wet-step removal model, spec §4.H.
type WashoffFunc int

const (
	WashoffNone WashoffFunc = iota
	WashoffExponential
	WashoffRatingCurve
	WashoffEMC // event mean concentration: washoff conc is a constant
)

// LanduseQuality is one land-use's buildup/washoff configuration for one
// pollutant.
type LanduseQuality struct {
	PollutRef Ref

	Buildup     BuildupFunc
	BuildupC1   float64 // max buildup (mass/area or mass/curb-length)
	BuildupC2   float64 // rate constant
	BuildupC3   float64 // saturation-function exponent
	PerCurbLen  bool    // normalize buildup by curb length rather than area
	BuildupTSRef Ref    // time series ref when Buildup == BuildupExternal

	Washoff   WashoffFunc
	WashoffC1 float64 // coefficient
	WashoffC2 float64 // exponent
	EMC       float64 // event mean concentration, used when Washoff == WashoffEMC
}

// Landuse is a land-use category referenced by buildup/washoff functions.
type Landuse struct {
	ID        string
	SweptFrac float64
	SweptDays float64
	SweptEff  float64

	Quality []LanduseQuality // one entry per pollutant with nonzero buildup/washoff
}

// QualityFor returns this land-use's configuration for a pollutant, or
// nil if none is set (buildup/washoff are both zero for that pollutant).
func (l *Landuse) QualityFor(pollut Ref) *LanduseQuality {
	for i := range l.Quality {
		if l.Quality[i].PollutRef == pollut {
			return &l.Quality[i]
		}
	}
	return nil
}
