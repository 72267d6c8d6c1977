// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package infil

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Horton implements Horton's exponentially-decaying infiltration model.
type Horton struct {
	f0, fmin, decay float64 // max/min rate (ft/s), decay constant (1/s)
	dryTime         float64 // sec, regen time constant

	cumTime float64 // sec since last reset, drives the exponential decay
}

func init() {
	allocators["horton"] = func() Model { return new(Horton) }
}

// Init sets parameters "f0", "fmin", "decay", "drytime" (all in project
// internal units: ft/s rates, seconds times).
func (o *Horton) Init(prms fun.Prms) error {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "f0":
			o.f0 = p.V
		case "fmin":
			o.fmin = p.V
		case "decay":
			o.decay = p.V
		case "drytime":
			o.dryTime = p.V
		default:
			return chk.Err("horton: unknown parameter %q", p.N)
		}
	}
	return nil
}

func (o Horton) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "f0", V: 4.5 / 12 / 3600},
		&fun.Prm{N: "fmin", V: 0.5 / 12 / 3600},
		&fun.Prm{N: "decay", V: 0.000411},
		&fun.Prm{N: "drytime", V: 7 * 86400},
	}
}

func (o *Horton) Compute(rate, tstep, available float64) (float64, error) {
	fp := o.fmin + (o.f0-o.fmin)*math.Exp(-o.decay*o.cumTime)
	infil := math.Min(fp, available/tstep)
	if infil < 0 {
		infil = 0
	}
	// only advance the decay clock while the surface is actually wet and
	// infiltration-limited (rate >= capacity), matching the original
	// solver's convention that drying pauses the Horton clock.
	if rate >= fp {
		o.cumTime += tstep
	}
	return infil, nil
}

func (o *Horton) ResetAfterEvent() {
	o.cumTime = 0
}
