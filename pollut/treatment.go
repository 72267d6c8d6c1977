// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pollut

import (
	"regexp"

	"github.com/Knetic/govaluate"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/swmmgo/proj"
)

// TreatmentExpr is one pollutant's treatment-removal (or replacement)
// formula at a node, spec §4.H: "a small arithmetic expression language
// over {HRT, DT, FLOW, DEPTH, AREA, concentrations}."
type TreatmentExpr struct {
	PollutRef Ref
	IsRemoval bool // true: result is the fraction removed; false: result replaces C directly

	compiled *govaluate.EvaluableExpression
}

// Ref aliases proj.Ref for readability within treatment expressions.
type Ref = proj.Ref

var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// Compile parses a treatment expression once; call before simulation
// start so parse errors surface as validation errors per spec §6.
func Compile(expr string, pollut Ref, isRemoval bool) (*TreatmentExpr, error) {
	ge, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, chk.Err("pollut: invalid treatment expression %q: %v", expr, err)
	}
	return &TreatmentExpr{PollutRef: pollut, IsRemoval: isRemoval, compiled: ge}, nil
}

// Dependencies returns the pollutant names (as written in the expression,
// e.g. "TSS", "BOD") this expression reads, used to build the treatment
// dependency DAG for topological ordering.
func (t *TreatmentExpr) Dependencies(knownPolluts map[string]Ref) []Ref {
	seen := map[Ref]bool{}
	var deps []Ref
	for _, tok := range identPattern.FindAllString(t.compiled.String(), -1) {
		switch tok {
		case "HRT", "DT", "FLOW", "DEPTH", "AREA":
			continue
		}
		if ref, ok := knownPolluts[tok]; ok && !seen[ref] {
			seen[ref] = true
			deps = append(deps, ref)
		}
	}
	return deps
}

// Eval evaluates the expression given the node's current hydraulic state
// and pollutant concentrations (keyed by the same names used in
// Dependencies).
func (t *TreatmentExpr) Eval(vars map[string]interface{}) (float64, error) {
	result, err := t.compiled.Evaluate(vars)
	if err != nil {
		return 0, chk.Err("pollut: treatment expression evaluation failed: %v", err)
	}
	v, ok := result.(float64)
	if !ok {
		return 0, chk.Err("pollut: treatment expression did not evaluate to a number")
	}
	return v, nil
}

// Schedule topologically sorts a node's treatment expressions by their
// pollutant dependency DAG so each is evaluated only after the
// concentrations it reads are final for this step, per spec §4.H. A
// cycle is reported as a fatal validation error, never silently broken.
func Schedule(exprs []*TreatmentExpr, knownPolluts map[string]Ref) ([]*TreatmentExpr, error) {
	byPollut := make(map[Ref]*TreatmentExpr, len(exprs))
	for _, e := range exprs {
		byPollut[e.PollutRef] = e
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[Ref]int, len(exprs))
	var order []*TreatmentExpr

	var visit func(e *TreatmentExpr) error
	visit = func(e *TreatmentExpr) error {
		color[e.PollutRef] = gray
		for _, dep := range e.Dependencies(knownPolluts) {
			if dep == e.PollutRef {
				continue // reading its own pollutant's current value is not a cycle
			}
			depExpr, ok := byPollut[dep]
			if !ok {
				continue // depends on a pollutant with no treatment at this node
			}
			switch color[dep] {
			case gray:
				return chk.Err("pollut: treatment dependency cycle detected at pollutant ref %d", dep)
			case white:
				if err := visit(depExpr); err != nil {
					return err
				}
			}
		}
		color[e.PollutRef] = black
		order = append(order, e)
		return nil
	}

	for _, e := range exprs {
		if color[e.PollutRef] == white {
			if err := visit(e); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}
