// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"github.com/cpmech/swmmgo/proj"
)

// SteadyKernel implements spec §4.I.1: each link's flow equals the sum of
// upstream lateral inflows, depths set to normal flow depth; no
// iteration, used for fast screening runs.
type SteadyKernel struct{}

func init() {
	allocators["steady"] = func() Kernel { return &SteadyKernel{} }
}

func (k *SteadyKernel) Name() string { return "steady" }

func (k *SteadyKernel) RouteStep(p *proj.Project, tstep float64) error {
	order, err := TopoOrder(p)
	if err != nil {
		return err
	}

	inflow := make([]float64, len(p.Nodes))
	for i, n := range p.Nodes {
		inflow[i] += n.NewLatFlow
	}

	for _, ref := range order {
		l := p.Links[ref]
		q := inflow[l.Node1]
		l.NewFlow = q
		if l.Node2 != proj.NoRef {
			inflow[l.Node2] += q
		}
		l.NewDepth = NormalDepth(p, l, q)
		l.FlowClassTag = classify(l, q)
	}

	for _, n := range p.Nodes {
		n.NewVolume = nodeVolumeFromDepth(n, n.NewDepth)
	}
	return nil
}
