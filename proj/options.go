// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

import "github.com/cpmech/swmmgo/units"

// RoutingModel selects which of the routing kernels (§4.I/§4.J) drives the
// link/node graph.
type RoutingModel int

const (
	RouteSteady RoutingModel = iota
	RouteKinematic
	RouteExtendedKinematic
	RouteDynamic
)

// SurchargeMethod selects how the dynamic-wave kernel represents a
// surcharged node, per spec §4.J.3.
type SurchargeMethod int

const (
	SurchargeExtran SurchargeMethod = iota // virtual storage with a small minimum surface area
	SurchargeSlot                          // Preissmann slot
)

// Options holds the simulation-wide configuration, the JSON-tagged-struct
// convention gofem's inp.Data/inp.SolverData use for a project's options.
// The text .inp parser (out of scope here) is the component that would
// decode these from a project file; tests and the CLI construct Options
// directly or via encoding/json.
type Options struct {
	Title string `json:"title"`

	FlowUnits units.FlowUnit `json:"flow_units"`

	RoutingModel    RoutingModel    `json:"routing_model"`
	SurchargeMethod SurchargeMethod `json:"surcharge_method"`

	RouteStep    float64 `json:"route_step_sec"`    // user routing step
	MinRouteStep float64 `json:"min_route_step_sec"`
	LengtheningStep float64 `json:"lengthening_step_sec"`
	ReportStep   float64 `json:"report_step_sec"`
	RuleStep     float64 `json:"rule_step_sec"` // cadence at which control rules re-evaluate

	CourantFactor float64 `json:"courant_factor"` // 0 < cf <= 1
	MaxTrials     int     `json:"max_trials"`
	HeadTol       float64 `json:"head_tolerance_ft"`
	MinSurfArea   float64 `json:"min_surface_area_ft2"`
	MinSlope      float64 `json:"min_slope"`

	AllowPonding bool `json:"allow_ponding"`
	SkipSteady   bool `json:"skip_steady_state"`
	IgnoreRain   bool `json:"ignore_rainfall"`
	IgnoreRDII   bool `json:"ignore_rdii"`
	IgnoreSnow   bool `json:"ignore_snowmelt"`
	IgnoreGW     bool `json:"ignore_groundwater"`
	IgnoreRoute  bool `json:"ignore_routing"`
	IgnoreQual   bool `json:"ignore_quality"`

	Workers int `json:"workers"` // 0 => runtime.GOMAXPROCS(0)

	StartDryDays float64 `json:"start_dry_days"`

	LidTolerance float64 `json:"lid_water_balance_tolerance"` // default 1e-3
}

// DefaultOptions returns the engine's stock defaults, matching the original
// solver's documented defaults where spec.md names them.
func DefaultOptions() Options {
	return Options{
		FlowUnits:       units.CFS,
		RoutingModel:    RouteDynamic,
		SurchargeMethod: SurchargeExtran,
		RouteStep:       15,
		MinRouteStep:    0.5,
		LengtheningStep: 0,
		ReportStep:      900,
		RuleStep:        0, // 0 => evaluate every routing step
		CourantFactor:   0.75,
		MaxTrials:       8,
		HeadTol:         0.005,
		MinSurfArea:     12.566, // ft^2, area of a 4-ft diameter manhole
		MinSlope:        0,
		AllowPonding:    false,
		Workers:         0,
		LidTolerance:    1e-3,
	}
}
