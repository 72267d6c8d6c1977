// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lid

import (
	"math"
	"testing"

	"github.com/cpmech/swmmgo/infil"
	"github.com/cpmech/swmmgo/proj"
)

func soilOnlyProcess() *proj.LidProcess {
	p := &proj.LidProcess{ID: "bioretention"}
	p.Surface = proj.LidSurfaceLayer{Thickness: 0.5, VoidFrac: 1, Roughness: 0, CanOverflow: true, Slope: 0.01}
	p.Surface.Recompute()
	p.HasSoil = true
	p.Soil = proj.LidSoilLayer{
		Thickness: 2.0,
		Porosity:  0.45,
		FieldCap:  0.2,
		WiltPoint: 0.1,
		Ksat:      0.5 / 12 / 3600,
		KSlope:    10,
		Suction:   3.5 / 12,
	}
	return p
}

func TestUpdateMassBalanceWithinTolerance(t *testing.T) {
	proc := soilOnlyProcess()
	unit := &proj.LidUnit{SoilMoisture: proc.Soil.FieldCap}

	rainfall := 1.0 / 12 / 3600 // 1 in/hr
	bal, err := Update(proc, unit, nil, rainfall, 0, 0, 3600)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if e := bal.Error(); e > 1e-3 {
		t.Fatalf("mass balance error %v exceeds tolerance", e)
	}
}

func TestLayerDepthsBounded(t *testing.T) {
	proc := soilOnlyProcess()
	unit := &proj.LidUnit{SoilMoisture: proc.Soil.FieldCap}

	heavyRain := 6.0 / 12 / 3600 // 6 in/hr, deliberately overwhelming
	for i := 0; i < 24; i++ {
		_, err := Update(proc, unit, nil, heavyRain, 0, 0, 3600)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if unit.SurfaceDepth < 0 || unit.SurfaceDepth > proc.Surface.Thickness+1e-9 {
			t.Fatalf("surface depth %v out of [0,%v]", unit.SurfaceDepth, proc.Surface.Thickness)
		}
		if unit.SoilMoisture < proc.Soil.WiltPoint-1e-9 || unit.SoilMoisture > proc.Soil.Porosity+1e-9 {
			t.Fatalf("soil moisture %v out of [%v,%v]", unit.SoilMoisture, proc.Soil.WiltPoint, proc.Soil.Porosity)
		}
	}
}

func TestNoInflowNoDrainMonotonicDrain(t *testing.T) {
	proc := soilOnlyProcess()
	proc.Surface.CanOverflow = false
	unit := &proj.LidUnit{SoilMoisture: proc.Soil.Porosity, SurfaceDepth: 0}

	last := unit.SoilMoisture
	for i := 0; i < 10; i++ {
		_, err := Update(proc, unit, nil, 0, 0, 0, 3600)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if unit.SoilMoisture > last+1e-9 {
			t.Fatalf("soil moisture increased without inflow: %v -> %v", last, unit.SoilMoisture)
		}
		last = unit.SoilMoisture
	}
}

func fullProcess() *proj.LidProcess {
	p := &proj.LidProcess{ID: "permeable-pavement"}
	p.Surface = proj.LidSurfaceLayer{Thickness: 0.1, VoidFrac: 1, Roughness: 0.1, Slope: 0.01, CanOverflow: true}
	p.Surface.Recompute()

	p.HasPavement = true
	p.Pavement = proj.LidPavementLayer{Thickness: 0.5, VoidFrac: 0.3, Ksat: 1.0 / 12 / 3600, RegenDays: 14, RegenDegree: 0.2}

	p.HasStorage = true
	p.Storage = proj.LidStorageLayer{Thickness: 1.0, VoidFrac: 0.5, Ksat: 0.2 / 12 / 3600}

	p.HasDrain = true
	p.Drain = proj.LidDrainLayer{Coeff: 0.01, Expon: 0.5, Offset: 0.2, HOpen: 0.6, HClose: 0.1}

	return p
}

func TestDrainHysteresis(t *testing.T) {
	proc := fullProcess()
	unit := &proj.LidUnit{}

	heavyRain := 4.0 / 12 / 3600
	opened := false
	for i := 0; i < 10; i++ {
		Update(proc, unit, nil, heavyRain, 0, 0, 3600)
		if unit.DrainFlow > 0 {
			opened = true
		}
	}
	if !opened {
		t.Fatalf("expected the drain to open under sustained heavy rainfall")
	}

	for i := 0; i < 20; i++ {
		Update(proc, unit, nil, 0, 0, 0, 3600)
	}
	if unit.DrainFlow != 0 {
		t.Fatalf("expected drain to close once storage head fell below h_close, still flowing %v", unit.DrainFlow)
	}
}

func TestClogFactorMonotonicWithoutRegeneration(t *testing.T) {
	proc := fullProcess()
	proc.Pavement.RegenDays = 0 // disable regeneration for this check
	unit := &proj.LidUnit{}

	rain := 2.0 / 12 / 3600
	last := clogFactor(unit.PaveCumInfilVolume, proc.Pavement.VoidFrac*proc.Pavement.Thickness)
	for i := 0; i < 10; i++ {
		Update(proc, unit, nil, rain, 0, 0, 3600)
		f := clogFactor(unit.PaveCumInfilVolume, proc.Pavement.VoidFrac*proc.Pavement.Thickness)
		if f > last+1e-12 {
			t.Fatalf("clog factor should not increase without regeneration: %v -> %v", last, f)
		}
		last = f
	}
}

func TestRegenerationReducesClog(t *testing.T) {
	cum := 0.5
	after := regenerate(cum, 14*86400, 14, 0.2)
	want := cum * 0.8
	if math.Abs(after-want) > 1e-12 {
		t.Fatalf("expected regenerate to reduce cum by regenDegree, got %v want %v", after, want)
	}
	none := regenerate(cum, 1*86400, 14, 0.2)
	if none != cum {
		t.Fatalf("expected no regeneration before regenDays elapsed, got %v", none)
	}
}

func TestWithNativeInfiltrationModel(t *testing.T) {
	proc := fullProcess()
	unit := &proj.LidUnit{}

	model, err := infil.New("greenampt")
	if err != nil {
		t.Fatalf("infil.New: %v", err)
	}
	model.Init(model.GetPrms(true))

	rain := 1.0 / 12 / 3600
	bal, err := Update(proc, unit, model, rain, 0, 0, 3600)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if bal.Infil < 0 {
		t.Fatalf("expected non-negative native infiltration, got %v", bal.Infil)
	}
}
