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

// CurveNumber implements the SCS/NRCS Curve Number method, recast as an
// incremental infiltration rate via the standard F = S*(P-Ia)/(P-Ia+S)
// relation differentiated with respect to cumulative rainfall.
type CurveNumber struct {
	cn, dryTime float64

	s      float64 // ft, potential maximum retention = 1000/CN - 10 (inches) converted to ft
	cumP   float64 // ft, cumulative rainfall since reset
	cumF   float64 // ft, cumulative infiltration
}

func init() {
	allocators["curvenumber"] = func() Model { return new(CurveNumber) }
}

func (o *CurveNumber) Init(prms fun.Prms) error {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "cn":
			o.cn = p.V
		case "drytime":
			o.dryTime = p.V
		default:
			return chk.Err("curvenumber: unknown parameter %q", p.N)
		}
	}
	if o.cn <= 0 {
		return chk.Err("curvenumber: CN must be > 0")
	}
	o.s = (1000.0/o.cn - 10.0) / 12.0
	return nil
}

func (o CurveNumber) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "cn", V: 80},
		&fun.Prm{N: "drytime", V: 7 * 86400},
	}
}

const curveNumberIa = 0.2 // initial-abstraction ratio, Ia = 0.2*S

func (o *CurveNumber) Compute(rate, tstep, available float64) (float64, error) {
	if o.s <= 0 {
		return 0, nil
	}
	ia := curveNumberIa * o.s
	rainVol := math.Min(rate*tstep, available)
	pBefore := o.cumP
	pAfter := pBefore + rainVol
	fBefore := cumulativeRunoff(pBefore, ia, o.s)
	fAfter := cumulativeRunoff(pAfter, ia, o.s)
	runoffDepth := fAfter - fBefore
	if runoffDepth < 0 {
		runoffDepth = 0
	}
	infilVol := rainVol - runoffDepth
	if infilVol < 0 {
		infilVol = 0
	}
	o.cumP = pAfter
	o.cumF += infilVol
	return infilVol / tstep, nil
}

// cumulativeRunoff returns cumulative SCS runoff depth Q for cumulative
// rainfall P: Q = (P-Ia)^2 / (P-Ia+S) for P > Ia, else 0.
func cumulativeRunoff(p, ia, s float64) float64 {
	if p <= ia {
		return 0
	}
	excess := p - ia
	return excess * excess / (excess + s)
}

func (o *CurveNumber) ResetAfterEvent() {
	o.cumP = 0
	o.cumF = 0
}
