// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"math"

	"github.com/cpmech/swmmgo/proj"
)

// conduitSlope returns a conduit's bed slope from its end-node inverts and
// offsets, floored at the project's configured minimum slope (spec §4.I
// names a minimum-slope floor to keep Manning's equation well-posed on
// near-flat or adverse-slope conduits under steady/kinematic routing).
func conduitSlope(p *proj.Project, l *proj.Link) float64 {
	n1, n2 := p.Nodes[l.Node1], p.Nodes[l.Node2]
	z1 := n1.InvertElev + l.InOffset
	z2 := n2.InvertElev + l.OutOffset
	if l.Length <= 0 {
		return p.Options.MinSlope
	}
	s := (z1 - z2) / l.Length
	if s < p.Options.MinSlope {
		s = p.Options.MinSlope
	}
	return s
}

// manningFlow returns the Manning's-equation discharge (cfs) of a single
// barrel at depth d on a conduit of the given slope and roughness.
func manningFlow(l *proj.Link, slope, depth float64) float64 {
	if l.XSect == nil {
		return 0
	}
	a := l.XSect.Area(depth)
	r := l.XSect.HydRadius(depth)
	n := l.XSect.Roughness
	if n <= 0 || a <= 0 || r <= 0 || slope <= 0 {
		return 0
	}
	return (1.49 / n) * a * math.Pow(r, 2.0/3.0) * math.Sqrt(slope) * float64(max1(l.Barrels))
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// NormalDepth inverts manningFlow for depth via bisection, the depth a
// given total conduit flow q (cfs, all barrels) would produce at uniform
// (normal) flow -- spec §4.I.1's steady-kernel depth rule.
func NormalDepth(p *proj.Project, l *proj.Link, q float64) float64 {
	if l.XSect == nil || q <= 0 {
		return 0
	}
	slope := conduitSlope(p, l)
	full := l.XSect.FullDepth
	if full <= 0 {
		full = 1000.0
	}
	lo, hi := 0.0, full
	for i := 0; i < 60; i++ {
		mid := 0.5 * (lo + hi)
		if manningFlow(l, slope, mid) < q {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// nodeVolumeFromDepth returns a node's stored volume at newDepth as a
// cylinder: PondedArea (1 ft^2 when unset) times depth, for every node
// kind. Storage nodes are treated the same way; no depth-area curve is
// consulted here or by the callers.
func nodeVolumeFromDepth(n *proj.Node, depth float64) float64 {
	area := n.PondedArea
	if area <= 0 {
		area = 1
	}
	return area * depth
}

// classify tags a conduit with its flow-regime class, spec §4.J.4: a
// simplified Froude-number/fullness test (the full solver additionally
// distinguishes up-dry/dn-dry/up-critical/dn-critical via upstream and
// downstream depths individually; this shared helper handles the
// classes every kernel can determine from its own flow and depth alone).
func classify(l *proj.Link, q float64) proj.FlowClass {
	if l.XSect == nil {
		return proj.ClassDry
	}
	full := l.XSect.FullDepth
	if q <= 1e-12 {
		return proj.ClassDry
	}
	if full > 0 && l.NewDepth >= full-1e-9 {
		return proj.ClassAllFull
	}
	if l.Froude > 1 {
		return proj.ClassSupercritical
	}
	return proj.ClassSubcritical
}
