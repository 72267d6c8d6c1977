// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package units implements the engine's single internal (foot-second)
// measurement system and the conversion factors used at every I/O boundary.
// Internal numerical loops never call UCF: they work exclusively in the
// canonical unit. Only readers/writers at the API/report boundary convert.
package units

import "github.com/cpmech/gosl/chk"

// System selects the user-facing length/volume system.
type System int

const (
	US System = iota
	SI
)

// FlowUnit selects the user-facing flow unit.
type FlowUnit int

const (
	CFS FlowUnit = iota // cubic feet per second
	GPM                 // gallons per minute
	MGD                 // million gallons per day
	CMS                 // cubic meters per second
	LPS                 // liters per second
	MLD                 // million liters per day
)

// IsMetric reports whether the flow unit implies SI quantities.
func (f FlowUnit) IsMetric() bool {
	switch f {
	case CMS, LPS, MLD:
		return true
	}
	return false
}

// Quantity identifies a physical quantity category with a user<->internal
// conversion factor, matching spec §4.C's enumerated category list.
type Quantity int

const (
	RAINFALL Quantity = iota // in/hr or mm/hr
	RAINDEPTH
	EVAPRATE
	LENGTH
	LANDAREA
	VOLUME
	WINDSPEED
	TEMPERATURE
	MASS
	GWFLOW
	FLOW
)

// Converter derives conversion factors from the user's chosen flow unit and
// length/volume system.
type Converter struct {
	Sys  System
	Flow FlowUnit
}

// NewConverter builds a Converter; the flow unit alone determines Sys
// (matching the SWMM convention that flow unit choice implies US or SI).
func NewConverter(flow FlowUnit) *Converter {
	sys := US
	if flow.IsMetric() {
		sys = SI
	}
	return &Converter{Sys: sys, Flow: flow}
}

// UCF returns the factor that converts an internal (US customary,
// foot-second) value of the given quantity into the user's chosen unit:
// user = internal * UCF(q). ToInternal divides by the same factor.
func (o *Converter) UCF(q Quantity) float64 {
	switch q {
	case RAINFALL:
		if o.Sys == SI {
			return 0.3048 * 1000 * 3600 // ft/s -> mm/hr
		}
		return 12.0 * 3600 // ft/s -> in/hr
	case RAINDEPTH, EVAPRATE, LENGTH:
		if o.Sys == SI {
			return 0.3048 * 1000 // ft -> mm (rainfall/length quantities reported in mm)
		}
		return 12.0 // ft -> in
	case LANDAREA:
		if o.Sys == SI {
			return 0.3048 * 0.3048 / 10000.0 // ft2 -> hectares
		}
		return 1.0 / 43560.0 // ft2 -> acres
	case VOLUME:
		if o.Sys == SI {
			return 0.3048 * 0.3048 * 0.3048 // ft3 -> m3
		}
		return 1.0
	case WINDSPEED:
		if o.Sys == SI {
			return 0.3048 * 3600.0 / 1000.0 // ft/s -> km/hr
		}
		return 3600.0 / 5280.0 // ft/s -> mph
	case TEMPERATURE:
		return 1.0 // handled additively elsewhere; factor is a no-op placeholder
	case MASS:
		return 1.0 // kg vs lb handled by pollutant-specific mass factor, not here
	case GWFLOW:
		if o.Sys == SI {
			return 0.3048 * 1000.0 * 86400.0 // ft/s -> mm/day
		}
		return 12.0 * 3600.0 // ft/s -> in/hr
	case FLOW:
		return o.flowUCF()
	}
	return 1.0
}

func (o *Converter) flowUCF() float64 {
	switch o.Flow {
	case CFS:
		return 1.0
	case GPM:
		return 448.831
	case MGD:
		return 0.6463169
	case CMS:
		return 0.0283168
	case LPS:
		return 28.3168
	case MLD:
		return 2.4466
	}
	return 1.0
}

// ToUser converts an internal-unit value of quantity q to the user's unit.
func (o *Converter) ToUser(q Quantity, internal float64) float64 {
	return internal * o.UCF(q)
}

// ToInternal converts a user-unit value of quantity q to the internal unit.
func (o *Converter) ToInternal(q Quantity, user float64) float64 {
	f := o.UCF(q)
	if f == 0 {
		chk.Panic("units: zero conversion factor for quantity %d", q)
	}
	return user / f
}
