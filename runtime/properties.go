// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// The property codes below are grounded on the original solver's
// toolkit_enums.h SM_* families: one Go type + const block per original
// typedef enum, used by Controller's live Get/Set API (spec §4.L).

// NodeProperty selects a settable per-node input property.
type NodeProperty int

const (
	PropInvertElev NodeProperty = iota
	PropFullDepth
	PropSurchargeDepth
	PropPondedArea
	PropInitDepth
)

// LinkProperty selects a settable per-link input property.
type LinkProperty int

const (
	PropOffset1 LinkProperty = iota
	PropOffset2
	PropInitFlow
	PropFlowLimit
	PropInletLoss
	PropOutletLoss
	PropAvgLoss
)

// SubcatchProperty selects a settable per-subcatchment input property.
type SubcatchProperty int

const (
	PropWidth SubcatchProperty = iota
	PropArea
	PropFracImperv
	PropSlope
	PropCurbLength
)

// NodeResult selects a per-node computed result read back after a step.
type NodeResult int

const (
	ResultTotalInflow NodeResult = iota
	ResultTotalOutflow
	ResultLosses
	ResultNodeVolume
	ResultNodeFlooding
	ResultNodeDepth
	ResultNodeHead
	ResultLatInflow
)

// LinkResult selects a per-link computed result read back after a step.
type LinkResult int

const (
	ResultLinkFlow LinkResult = iota
	ResultLinkDepth
	ResultLinkVolume
	ResultUSSurfArea
	ResultDSSurfArea
	ResultSetting
	ResultTargetSetting
	ResultFroude
)

// SubcatchResult selects a per-subcatchment computed result read back
// after a step.
type SubcatchResult int

const (
	ResultSubcRain SubcatchResult = iota
	ResultSubcEvap
	ResultSubcInfil
	ResultSubcRunon
	ResultSubcRunoff
)

// SimSetting selects a readable/writable simulation-wide numeric option.
type SimSetting int

const (
	SettingRouteStep SimSetting = iota
	SettingMinRouteStep
	SettingLengthStep
	SettingStartDryDays
	SettingCourantFactor
	SettingMinSurfArea
	SettingMinSlope
	SettingRunoffError
	SettingFlowError
	SettingQualError
	SettingHeadTol
)
