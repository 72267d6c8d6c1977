// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xsect

import (
	"math"
	"testing"
)

func TestCircularFullArea(t *testing.T) {
	s := &Section{Shape: Circular, FullDepth: 2.0}
	got := s.Area(2.0)
	want := math.Pi * 1.0 * 1.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("full circular area = %.6f, want %.6f", got, want)
	}
}

func TestCircularHalfArea(t *testing.T) {
	s := &Section{Shape: Circular, FullDepth: 2.0}
	got := s.Area(1.0)
	want := 0.5 * math.Pi * 1.0 * 1.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("half circular area = %.6f, want %.6f", got, want)
	}
}

func TestDepthFromAreaRoundTrip(t *testing.T) {
	s := &Section{Shape: RectOpen, BottomWidth: 3.0}
	for _, d := range []float64{0.1, 0.5, 1.0, 2.5} {
		a := s.Area(d)
		back := s.DepthFromArea(a)
		if math.Abs(back-d) > 1e-3 {
			t.Errorf("depth round trip: got %.4f want %.4f", back, d)
		}
	}
}

func TestIrregularTable(t *testing.T) {
	s := &Section{Shape: Irregular}
	depths := []float64{0, 1, 2, 3}
	widths := []float64{0, 4, 8, 10}
	if err := s.BuildTable(depths, widths); err != nil {
		t.Fatal(err)
	}
	if s.Topwidth(1) != 4 {
		t.Errorf("topwidth(1) = %v, want 4", s.Topwidth(1))
	}
	if s.Area(1) <= 0 {
		t.Errorf("area(1) should be positive")
	}
}
