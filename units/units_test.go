// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units

import "testing"

func TestRoundTrip(t *testing.T) {
	for _, flow := range []FlowUnit{CFS, GPM, MGD, CMS, LPS, MLD} {
		c := NewConverter(flow)
		for _, q := range []Quantity{RAINFALL, LENGTH, LANDAREA, VOLUME, WINDSPEED, GWFLOW, FLOW} {
			internal := 3.14159
			user := c.ToUser(q, internal)
			back := c.ToInternal(q, user)
			if diff := back - internal; diff > 1e-6*internal || diff < -1e-6*internal {
				t.Errorf("flow=%v q=%v: round trip %.9f != %.9f", flow, q, back, internal)
			}
		}
	}
}

func TestIsMetric(t *testing.T) {
	if CFS.IsMetric() {
		t.Errorf("cfs should not be metric")
	}
	if !CMS.IsMetric() {
		t.Errorf("cms should be metric")
	}
}
