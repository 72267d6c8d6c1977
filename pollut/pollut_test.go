// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pollut

import (
	"math"
	"testing"

	"github.com/cpmech/swmmgo/proj"
)

func TestBuildupSaturatesAtC1(t *testing.T) {
	q := &proj.LanduseQuality{Buildup: proj.BuildupSaturation, BuildupC1: 100, BuildupC3: 2}
	b := Buildup(q, 86400*365)
	if b > q.BuildupC1+1e-6 {
		t.Fatalf("saturation buildup exceeded C1: %v > %v", b, q.BuildupC1)
	}
	if b <= 0 {
		t.Fatalf("expected positive buildup after a year, got %v", b)
	}
}

func TestBuildupMonotonic(t *testing.T) {
	for _, fn := range []proj.BuildupFunc{proj.BuildupPower, proj.BuildupExponential, proj.BuildupSaturation} {
		q := &proj.LanduseQuality{Buildup: fn, BuildupC1: 50, BuildupC2: 0.5, BuildupC3: 3}
		last := 0.0
		for _, days := range []float64{1, 2, 5, 10, 20} {
			b := Buildup(q, days*86400)
			if b < last-1e-9 {
				t.Fatalf("buildup function %v not monotonic: day %v gave %v < %v", fn, days, b, last)
			}
			last = b
		}
	}
}

func TestEquivalentBuildupTimeRoundTrips(t *testing.T) {
	q := &proj.LanduseQuality{Buildup: proj.BuildupExponential, BuildupC1: 80, BuildupC2: 0.3}
	mass := Buildup(q, 5*86400)
	t2 := EquivalentBuildupTime(q, mass)
	mass2 := Buildup(q, t2)
	if math.Abs(mass-mass2) > mass*0.01+1e-6 {
		t.Fatalf("round trip mismatch: %v vs %v", mass, mass2)
	}
}

func TestWashoffExponentialNeverExceedsBuildup(t *testing.T) {
	q := &proj.LanduseQuality{Washoff: proj.WashoffExponential, WashoffC1: 0.1, WashoffC2: 1.5}
	removed := Washoff(q, 10, 1000, 5, 3600)
	if removed > 5 {
		t.Fatalf("washoff removed more than available buildup: %v > 5", removed)
	}
	if removed < 0 {
		t.Fatalf("washoff went negative: %v", removed)
	}
}

func TestWashoffRatingCurveClipsToBuildup(t *testing.T) {
	q := &proj.LanduseQuality{Washoff: proj.WashoffRatingCurve, WashoffC1: 1000, WashoffC2: 2}
	removed := Washoff(q, 100, 1000, 0.001, 3600)
	if removed > 0.001+1e-12 {
		t.Fatalf("rating-curve washoff exceeded buildup: %v", removed)
	}
}

func TestUpdateCSTRConvergesTowardInflowConc(t *testing.T) {
	conc := 0.0
	for i := 0; i < 2000; i++ {
		conc = UpdateCSTR(conc, 10, 5, 5, 1000, 0, 1)
	}
	if math.Abs(conc-10) > 0.5 {
		t.Fatalf("CSTR concentration did not converge toward inflow conc: got %v", conc)
	}
}

func TestUpdateCSTRDecayReducesSteadyState(t *testing.T) {
	var noDecay, withDecay float64
	for i := 0; i < 2000; i++ {
		noDecay = UpdateCSTR(noDecay, 10, 5, 5, 1000, 0, 1)
		withDecay = UpdateCSTR(withDecay, 10, 5, 5, 1000, 0.01, 1)
	}
	if withDecay >= noDecay {
		t.Fatalf("decaying CSTR should settle lower than non-decaying: %v >= %v", withDecay, noDecay)
	}
}

func TestPlugFlowAdvectsSlugs(t *testing.T) {
	r := NewReactors()
	pollutRef := proj.Ref(0)

	out1 := r.UpdatePlug(pollutRef, 10, 2, 0, 10) // fill with a slug at concentration 10, no outflow yet
	if out1 != 0 {
		t.Fatalf("expected zero outflow concentration when outflow rate is zero, got %v", out1)
	}
	out2 := r.UpdatePlug(pollutRef, 0, 0, 2, 10) // now draw it back off
	if math.Abs(out2-10) > 1e-9 {
		t.Fatalf("expected the earlier slug's concentration %v back out, got %v", 10.0, out2)
	}
}

func TestTreatmentScheduleOrdersByDependency(t *testing.T) {
	polluts := map[string]Ref{"TSS": 0, "BOD": 1}
	tss, err := Compile("TSS * 0.5", 0, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	bod, err := Compile("TSS * 0.2 + BOD * 0.1", 1, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	order, err := Schedule([]*TreatmentExpr{bod, tss}, polluts)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(order) != 2 || order[0].PollutRef != 0 || order[1].PollutRef != 1 {
		t.Fatalf("expected TSS before BOD, got order %+v", order)
	}
}

func TestTreatmentScheduleDetectsCycle(t *testing.T) {
	polluts := map[string]Ref{"TSS": 0, "BOD": 1}
	a, _ := Compile("BOD * 0.5", 0, true)
	b, _ := Compile("TSS * 0.5", 1, true)
	_, err := Schedule([]*TreatmentExpr{a, b}, polluts)
	if err == nil {
		t.Fatalf("expected cycle detection error")
	}
}

func TestTreatmentEval(t *testing.T) {
	e, err := Compile("FLOW * 0 + DEPTH * 2", 0, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := e.Eval(map[string]interface{}{"FLOW": 5.0, "DEPTH": 3.0})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if math.Abs(v-6) > 1e-9 {
		t.Fatalf("expected 6, got %v", v)
	}
}
