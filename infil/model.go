// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package infil implements the pervious-area infiltration models spec §4.E
// names: Horton, Modified Horton, Green-Ampt, Modified Green-Ampt, and
// Curve Number. Every model shares the Model capability interface and is
// registered in a name-keyed factory, directly following gofem's
// mdl/retention liquid-retention-curve models (Init(prms), a package-level
// allocators map, New(name)).
package infil

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model is the capability set spec §4.E names: initialise from named
// parameters, compute the infiltration rate for one wet step, and reset
// cumulative state after a sufficiently long dry spell.
type Model interface {
	Init(prms fun.Prms) error
	GetPrms(example bool) fun.Prms

	// Compute returns the infiltration rate (ft/s) for the given rainfall+
	// runon rate (ft/s), step length (sec), and the depth of water (ft)
	// currently available to infiltrate (ponded + net rainfall for the
	// step). State is advanced internally.
	Compute(rate, tstep, available float64) (infil float64, err error)

	// ResetAfterEvent clears recovery-sensitive state once the dry period
	// since the last wet step exceeds the project's start-dry-days option.
	ResetAfterEvent()
}

// allocators holds all available infiltration models, keyed by name.
var allocators = map[string]func() Model{}

// New returns a new infiltration model by name.
func New(name string) (Model, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("infil: model %q is not available", name)
	}
	return alloc(), nil
}
