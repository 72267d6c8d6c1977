// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package massbal

import "math"

// RunoffBalance accumulates the whole project's running runoff-phase
// totals, spec §4.K.7's continuity check: precip + runon + init_storage
// = evap + infil + runoff + final_storage. Grounded on the same
// accumulate-then-ratio shape as lid.Balance.
type RunoffBalance struct {
	TotalPrecip   float64
	TotalRunon    float64
	TotalEvap     float64
	TotalInfil    float64
	TotalRunoff   float64
	InitStorage   float64
	FinalStorage  float64
}

func (b RunoffBalance) Error() float64 {
	in := b.TotalPrecip + b.TotalRunon + b.InitStorage
	out := b.TotalEvap + b.TotalInfil + b.TotalRunoff + b.FinalStorage
	denom := math.Max(in, 1e-9)
	return math.Abs(out-in) / denom
}

// FlowBalance accumulates the whole project's running flow-routing-phase
// totals, spec §4.K.7: runoff + external_inflow + dwf + gw_inflow +
// II_inflow + init_storage = flooding + outfall_discharge + exfiltration
// + evaporation + final_storage.
type FlowBalance struct {
	TotalRunoff      float64
	TotalExternal    float64
	TotalDWF         float64
	TotalGroundwater float64
	TotalInfilInflow float64
	InitStorage      float64
	TotalFlooding    float64
	TotalOutflow     float64
	TotalExfil       float64
	TotalEvap        float64
	FinalStorage     float64
}

func (b FlowBalance) Error() float64 {
	in := b.TotalRunoff + b.TotalExternal + b.TotalDWF + b.TotalGroundwater + b.TotalInfilInflow + b.InitStorage
	out := b.TotalFlooding + b.TotalOutflow + b.TotalExfil + b.TotalEvap + b.FinalStorage
	denom := math.Max(in, 1e-9)
	return math.Abs(out-in) / denom
}

// QualBalance accumulates one pollutant's running quality-routing-phase
// mass totals, spec §4.K.7's per-pollutant counterpart to FlowBalance.
type QualBalance struct {
	InitMass    float64
	RunoffMass  float64
	ExternalMass float64
	DWFMass     float64
	FloodMass   float64
	OutfallMass float64
	ReactedMass float64 // removed by treatment/decay; sign convention: positive = mass lost
	FinalMass   float64
}

func (b QualBalance) Error() float64 {
	in := b.InitMass + b.RunoffMass + b.ExternalMass + b.DWFMass
	out := b.FloodMass + b.OutfallMass + b.ReactedMass + b.FinalMass
	denom := math.Max(in, 1e-9)
	return math.Abs(out-in) / denom
}
