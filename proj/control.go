// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proj

// ClauseKind enumerates a control rule clause's keyword.
type ClauseKind int

const (
	ClauseIf ClauseKind = iota
	ClauseAnd
	ClauseOr
	ClauseThen
	ClauseElse
)

// ControlObject identifies what a clause's left-hand side refers to.
type ControlObject int

const (
	ObjNode ControlObject = iota
	ObjLink
	ObjGage
	ObjSimulation
)

// ControlClause is one parsed IF/AND/OR/THEN/ELSE clause.
type ControlClause struct {
	Kind ControlObject
	Clause ClauseKind
	TargetRef Ref
	Attribute string // e.g. "DEPTH", "FLOW", "SETTING", "TIME"
	Relation  string // "=", "<", ">", "<=", ">="
	Value     float64

	// THEN/ELSE-only: the action to apply
	ActionAttribute string // e.g. "SETTING"
	ActionValue     float64
}

// ControlRule is a named, prioritized sequence of clauses evaluated between
// routing steps (spec §3/§4.L).
type ControlRule struct {
	ID       string
	Priority float64
	Clauses  []ControlClause
}
