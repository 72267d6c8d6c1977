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

// ModGreenAmpt is the Modified Green-Ampt variant: ponded water above the
// surface is tracked explicitly. Each step infiltrates at most the
// capacity times the step length; the rest of the inflow is carried as
// ponded water into the next step, rather than discarding the
// rainfall-capacity difference the way the plain model does.
type ModGreenAmpt struct {
	ksat, suction, imd float64

	cumF   float64
	ponded float64 // ft, surface ponding not yet infiltrated
}

func init() {
	allocators["modgreenampt"] = func() Model { return new(ModGreenAmpt) }
}

func (o *ModGreenAmpt) Init(prms fun.Prms) error {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "ksat":
			o.ksat = p.V
		case "suction":
			o.suction = p.V
		case "imd":
			o.imd = p.V
		default:
			return chk.Err("modgreenampt: unknown parameter %q", p.N)
		}
	}
	return nil
}

func (o ModGreenAmpt) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "ksat", V: 0.3 / 12 / 3600},
		&fun.Prm{N: "suction", V: 3.5 / 12},
		&fun.Prm{N: "imd", V: 0.3},
	}
}

func (o *ModGreenAmpt) capacity() float64 {
	if o.cumF <= 0 {
		return math.Inf(1)
	}
	return o.ksat * (1 + o.suction*o.imd/o.cumF)
}

func (o *ModGreenAmpt) Compute(rate, tstep, available float64) (float64, error) {
	inflow := rate*tstep + o.ponded
	fp := o.capacity()
	var infilVol float64
	if math.IsInf(fp, 1) {
		infilVol = math.Min(inflow, available)
	} else {
		infilVol = math.Min(fp*tstep, math.Min(inflow, available))
	}
	o.ponded = math.Max(0, inflow-infilVol)
	o.cumF += infilVol
	return infilVol / tstep, nil
}

func (o *ModGreenAmpt) ResetAfterEvent() {
	o.cumF = 0
	o.ponded = 0
}
