// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"math"

	"github.com/cpmech/swmmgo/proj"
)

// KinematicKernel implements spec §4.I.2: per-link kinematic-wave
// continuity (dA/dt + dQ/dx = 0) closed by Manning's equation for
// uniform flow, explicit upwind in link order. Extended sets a link's
// Direction to -1 while its downstream head exceeds its upstream head and
// back to +1 once it no longer does; the flow itself is still computed
// from Node1 to Node2 and is never negative.
type KinematicKernel struct {
	Extended bool
}

func init() {
	allocators["kinematic"] = func() Kernel { return &KinematicKernel{} }
	allocators["extkinematic"] = func() Kernel { return &KinematicKernel{Extended: true} }
}

func (k *KinematicKernel) Name() string {
	if k.Extended {
		return "extkinematic"
	}
	return "kinematic"
}

func (k *KinematicKernel) RouteStep(p *proj.Project, tstep float64) error {
	order, err := TopoOrder(p)
	if err != nil {
		return err
	}

	nodeInflow := make([]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		nodeInflow[i] = n.NewLatFlow
	}

	for _, ref := range order {
		l := p.Links[ref]
		qIn := nodeInflow[l.Node1]

		if k.Extended && reversed(p, l) {
			l.Direction = -1
		} else {
			l.Direction = 1
		}

		slope := conduitSlope(p, l)
		length := math.Max(l.Length, 1e-6)

		a0 := l.XSect.Area(l.NewDepth)
		aNew := a0 + (tstep/length)*(qIn-l.NewFlow)
		if aNew < 0 {
			aNew = 0
		}
		depth := l.XSect.DepthFromArea(aNew)
		qNew := manningFlow(l, slope, depth)
		if qNew < 0 {
			qNew = 0
		}

		l.NewFlow = qNew
		l.NewDepth = depth
		l.FlowClassTag = classify(l, qNew)

		if l.Node2 != proj.NoRef {
			nodeInflow[l.Node2] += qNew
		}
	}

	for _, n := range p.Nodes {
		n.NewVolume = nodeVolumeFromDepth(n, n.NewDepth)
	}
	return nil
}

// reversed reports whether a conduit's downstream head currently exceeds
// its upstream head, the Extended-kinematic trigger for flow reversal.
func reversed(p *proj.Project, l *proj.Link) bool {
	n1, n2 := p.Nodes[l.Node1], p.Nodes[l.Node2]
	h1 := n1.InvertElev + n1.NewDepth
	h2 := n2.InvertElev + n2.NewDepth
	return h2 > h1
}
