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

// GreenAmpt implements the Green-Ampt wetting-front model: infiltration
// capacity f = Ksat*(1 + (suction*IMD)/F), where F is cumulative infiltrated
// depth and IMD is the initial moisture deficit.
type GreenAmpt struct {
	ksat, suction, imd float64

	cumF    float64 // ft, cumulative infiltrated depth (wetting front position)
	saturated bool   // true once a prior step was capacity-limited (ponding began)
}

func init() {
	allocators["greenampt"] = func() Model { return new(GreenAmpt) }
}

func (o *GreenAmpt) Init(prms fun.Prms) error {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "ksat":
			o.ksat = p.V
		case "suction":
			o.suction = p.V
		case "imd":
			o.imd = p.V
		default:
			return chk.Err("greenampt: unknown parameter %q", p.N)
		}
	}
	return nil
}

func (o GreenAmpt) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "ksat", V: 0.3 / 12 / 3600},
		&fun.Prm{N: "suction", V: 3.5 / 12},
		&fun.Prm{N: "imd", V: 0.3},
	}
}

func (o *GreenAmpt) capacity() float64 {
	if o.cumF <= 0 {
		return math.Inf(1) // unsaturated surface: capacity exceeds any rainfall
	}
	return o.ksat * (1 + o.suction*o.imd/o.cumF)
}

func (o *GreenAmpt) Compute(rate, tstep, available float64) (float64, error) {
	fp := o.capacity()
	var infil float64
	if rate < fp && !math.IsInf(fp, 1) {
		// rainfall-limited: all available water infiltrates, no ponding forms
		infil = math.Min(rate, available/tstep)
	} else if math.IsInf(fp, 1) {
		infil = math.Min(rate, available/tstep)
	} else {
		infil = math.Min(fp, available/tstep)
		o.saturated = true
	}
	o.cumF += infil * tstep
	return infil, nil
}

func (o *GreenAmpt) ResetAfterEvent() {
	o.cumF = 0
	o.saturated = false
}
