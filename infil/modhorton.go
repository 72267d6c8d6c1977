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

// ModHorton is the Modified Horton model: like Horton, but the decay clock
// advances by cumulative infiltrated VOLUME rather than elapsed time, so it
// responds to intermittent rainfall the way the original solver's
// "MOD_HORTON" option does.
type ModHorton struct {
	f0, fmin, decay, dryTime float64

	cumVol float64 // ft, cumulative infiltrated depth since reset
}

func init() {
	allocators["modhorton"] = func() Model { return new(ModHorton) }
}

func (o *ModHorton) Init(prms fun.Prms) error {
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
			return chk.Err("modhorton: unknown parameter %q", p.N)
		}
	}
	return nil
}

func (o ModHorton) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "f0", V: 4.5 / 12 / 3600},
		&fun.Prm{N: "fmin", V: 0.5 / 12 / 3600},
		&fun.Prm{N: "decay", V: 0.000411},
		&fun.Prm{N: "drytime", V: 7 * 86400},
	}
}

// equivalentTime inverts F(t) = fmin*t + (f0-fmin)/decay*(1-exp(-decay*t))
// for the time whose cumulative infiltration equals cumVol, via bisection;
// this is the standard Modified-Horton trick for making an exponential
// model path-independent of the step size.
func (o *ModHorton) equivalentTime() float64 {
	target := o.cumVol
	f := func(t float64) float64 {
		return o.fmin*t + (o.f0-o.fmin)/math.Max(o.decay, 1e-12)*(1-math.Exp(-o.decay*t)) - target
	}
	lo, hi := 0.0, o.dryTime
	if hi <= 0 {
		hi = 86400 * 30
	}
	for f(hi) < 0 {
		hi *= 2
	}
	for i := 0; i < 50; i++ {
		mid := 0.5 * (lo + hi)
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

func (o *ModHorton) Compute(rate, tstep, available float64) (float64, error) {
	t := o.equivalentTime()
	fp := o.fmin + (o.f0-o.fmin)*math.Exp(-o.decay*t)
	infil := math.Min(fp, available/tstep)
	if infil < 0 {
		infil = 0
	}
	o.cumVol += infil * tstep
	return infil, nil
}

func (o *ModHorton) ResetAfterEvent() {
	o.cumVol = 0
}
