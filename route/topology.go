// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/swmmgo/proj"
)

// TopoOrder returns a topological ordering of link refs by their
// Node1->Node2 direction, for the steady and kinematic kernels that must
// process each link only after all of its upstream links, per spec §3's
// "acyclic check under steady/kinematic" invariant. A cycle (only
// possible when every link along it ignores the adverse-slope reversal
// dynamic wave relies on) is a fatal routing error.
func TopoOrder(p *proj.Project) ([]proj.Ref, error) {
	indeg := make([]int, len(p.Links))
	// build per-node incoming-link counts restricted to the link graph:
	// a link's "predecessors" are every other link whose Node2 equals
	// this link's Node1.
	byUpstreamNode := make(map[proj.Ref][]proj.Ref, len(p.Nodes))
	for i, l := range p.Links {
		byUpstreamNode[l.Node2] = append(byUpstreamNode[l.Node2], proj.Ref(i))
	}
	for i, l := range p.Links {
		indeg[i] = len(byUpstreamNode[l.Node1])
	}

	queue := make([]proj.Ref, 0, len(p.Links))
	for i := range p.Links {
		if indeg[i] == 0 {
			queue = append(queue, proj.Ref(i))
		}
	}

	order := make([]proj.Ref, 0, len(p.Links))
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		order = append(order, r)
		l := p.Links[r]
		for j, downstream := range p.Links {
			if downstream.Node1 != l.Node2 {
				continue
			}
			indeg[j]--
			if indeg[j] == 0 {
				queue = append(queue, proj.Ref(j))
			}
		}
	}

	if len(order) != len(p.Links) {
		return nil, chk.Err("route: link graph contains a cycle incompatible with steady/kinematic routing")
	}
	return order, nil
}
