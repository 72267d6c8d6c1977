// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package route implements the flow-routing kernels spec §4.I/§4.J name:
// steady flow, kinematic/extended-kinematic wave, and the full dynamic
// wave solver, all sharing the node-update contract §4.I describes and
// selected by a name-keyed registry mirroring gofem's ele/factory.go
// element-by-name dispatch.
package route

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/swmmgo/proj"
)

// Kernel is the capability set every routing kernel implements: advance
// the whole link/node graph by one routing step, per spec §4.I's shared
// contract (update newVolume from newDepth, set newLatFlow, compute
// newFlow, apply continuity, re-evaluate control rules, record stats).
type Kernel interface {
	Name() string
	RouteStep(p *proj.Project, tstep float64) error
}

var allocators = map[string]func() Kernel{}

// New returns a new routing kernel by name ("steady", "kinematic",
// "extkinematic", "dynamic").
func New(name string) (Kernel, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("route: kernel %q is not available", name)
	}
	return alloc(), nil
}

// ForModel returns the kernel spec §4.I/§4.J names for a project's
// selected RoutingModel option.
func ForModel(m proj.RoutingModel) (Kernel, error) {
	switch m {
	case proj.RouteSteady:
		return New("steady")
	case proj.RouteKinematic:
		return New("kinematic")
	case proj.RouteExtendedKinematic:
		return New("extkinematic")
	case proj.RouteDynamic:
		return New("dynamic")
	default:
		return nil, chk.Err("route: unknown routing model %v", m)
	}
}
