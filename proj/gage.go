// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

// GageSource identifies where a rain gage's precipitation comes from.
type GageSource int

const (
	SourceTimeSeries GageSource = iota
	SourceExternalFile
	SourceAPI
)

// GageFormat identifies how a gage's recorded values are interpreted.
type GageFormat int

const (
	FormatIntensity GageFormat = iota
	FormatVolume
	FormatCumulative
)

// Gage is a rain gage: §3 "Gage".
type Gage struct {
	ID     string
	Source GageSource
	TSeries Ref // valid when Source == SourceTimeSeries
	RecordingInterval float64 // seconds
	Format GageFormat
	SnowRainSplitTempF float64

	CoGage Ref // back-reference to another gage sharing the same source, or NoRef

	// current state, updated once per wet step
	CurrentRainfall float64
	CurrentSnowfall float64

	APIOverride     bool
	APIOverrideRain float64

	IsUsed bool // true once a subcatchment references this gage
}

// SetAPIRainfall overrides this gage's rainfall for the current step; the
// override persists until changed again (spec §5 "Rain-gage API overrides
// ... persist until changed again").
func (g *Gage) SetAPIRainfall(rain float64) {
	g.APIOverride = true
	g.APIOverrideRain = rain
}

// ClearAPIOverride reverts to the gage's configured source.
func (g *Gage) ClearAPIOverride() {
	g.APIOverride = false
}

// Rainfall returns the effective rainfall intensity for the current step.
func (g *Gage) Rainfall() float64 {
	if g.APIOverride {
		return g.APIOverrideRain
	}
	return g.CurrentRainfall
}
