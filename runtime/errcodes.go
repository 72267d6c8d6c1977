// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import "fmt"

// ErrorCode is a numeric runtime/validation/file-I/O error code, spec
// §4.L: grounded on the original solver's error.h ErrorType enum and its
// 1xx (runtime)/2xx (input)/3xx (file I/O) numbering bands; the 5xx band
// is this package's own supplement for API-misuse errors the original
// predates (calling Step before Start, etc.), named the way the original
// toolkit API's own guard codes are.
type ErrorCode int

const (
	ErrNone ErrorCode = 0

	// Runtime errors.
	ErrMemory   ErrorCode = 101
	ErrKinwave  ErrorCode = 103
	ErrOdeSolver ErrorCode = 105
	ErrTimestep ErrorCode = 107

	// Subcatchment/aquifer errors.
	ErrSubcatchOutlet ErrorCode = 108
	ErrAquiferParams  ErrorCode = 109
	ErrGroundElev     ErrorCode = 110

	// Conduit/pump errors.
	ErrLength     ErrorCode = 111
	ErrElevDrop   ErrorCode = 112
	ErrRoughness  ErrorCode = 113
	ErrBarrels    ErrorCode = 114
	ErrSlope      ErrorCode = 115
	ErrNoXsect    ErrorCode = 117
	ErrXsect      ErrorCode = 119
	ErrNoCurve    ErrorCode = 121
	ErrPumpLimits ErrorCode = 122

	// Topology errors.
	ErrLoop       ErrorCode = 131
	ErrMultiOutlet ErrorCode = 133
	ErrDummyLink  ErrorCode = 134

	// Node errors.
	ErrDivider         ErrorCode = 135
	ErrDividerLink     ErrorCode = 136
	ErrWeirDivider     ErrorCode = 137
	ErrNodeDepth       ErrorCode = 138
	ErrRegulator       ErrorCode = 139
	ErrOutfall         ErrorCode = 141
	ErrRegulatorShape  ErrorCode = 143
	ErrNoOutlets       ErrorCode = 145

	// RDII errors.
	ErrUnitHydTimes  ErrorCode = 151
	ErrUnitHydRatios ErrorCode = 153
	ErrRdiiArea      ErrorCode = 155

	// Rain gage errors.
	ErrRainFileConflict ErrorCode = 156
	ErrRainGageFormat   ErrorCode = 157
	ErrRainGageTseries  ErrorCode = 158
	ErrRainGageInterval ErrorCode = 159

	// Treatment function error.
	ErrCyclicTreatment ErrorCode = 161

	// Curve/time series errors.
	ErrCurveSequence     ErrorCode = 171
	ErrTimeseriesSequence ErrorCode = 173

	// Snowmelt errors.
	ErrSnowmeltParams ErrorCode = 181
	ErrSnowpackParams ErrorCode = 182

	// LID errors.
	ErrLidType        ErrorCode = 183
	ErrLidLayer       ErrorCode = 184
	ErrLidParams      ErrorCode = 185
	ErrSubcatchLid    ErrorCode = 186
	ErrLidAreas       ErrorCode = 187
	ErrLidCaptureArea ErrorCode = 188

	// Simulation date/time errors.
	ErrStartDate  ErrorCode = 191
	ErrReportDate ErrorCode = 193
	ErrReportStep ErrorCode = 195

	// Input errors.
	ErrInput            ErrorCode = 200
	ErrDupName          ErrorCode = 207
	ErrTransectManning  ErrorCode = 227
	ErrTreatmentExpr    ErrorCode = 233

	// File name/opening errors.
	ErrFileName ErrorCode = 301
	ErrInpFile  ErrorCode = 303
	ErrRptFile  ErrorCode = 305
	ErrOutFile  ErrorCode = 307
	ErrOutWrite ErrorCode = 309
	ErrOutRead  ErrorCode = 311

	// Runtime/API errors.
	ErrSystem    ErrorCode = 401
	ErrNotClosed ErrorCode = 402
	ErrNotOpen   ErrorCode = 403
	ErrFileSize  ErrorCode = 405

	// API-misuse errors (this engine's own supplement; the original
	// error.h predates a callable step-by-step API).
	ErrAlreadyOpen     ErrorCode = 501
	ErrAlreadyStarted  ErrorCode = 502
	ErrNotStarted      ErrorCode = 503
	ErrAlreadyEnded    ErrorCode = 504
	ErrInvalidProperty ErrorCode = 505
	ErrInvalidRef      ErrorCode = 506
)

// Error pairs a numeric code with a message, the type every exported
// Controller method returns on failure instead of a bare error string.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("swmmgo error %d: %s", e.Code, e.Msg)
}

// newErr constructs an *Error with a formatted message.
func newErr(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
