// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idx

import "testing"

func TestInsertLookup(t *testing.T) {
	ix := New()
	names := []string{"J1", "J2", "Outfall1", "C1", "Storage-A"}
	for i, n := range names {
		if err := ix.Insert(n, i); err != nil {
			t.Fatalf("insert %q: %v", n, err)
		}
	}
	for i, n := range names {
		if got := ix.Lookup(n); got != i {
			t.Errorf("lookup(%q) = %d, want %d", n, got, i)
		}
	}
	if ix.Lookup("nope") != NotFound {
		t.Errorf("expected NotFound for missing key")
	}
}

func TestCaseInsensitivity(t *testing.T) {
	ix := New()
	if err := ix.Insert("Junction1", 7); err != nil {
		t.Fatal(err)
	}
	pairs := [][2]string{
		{"junction1", "JUNCTION1"},
		{"Junction1", "jUnCtIoN1"},
	}
	for _, p := range pairs {
		a := ix.Lookup(p[0])
		b := ix.Lookup(p[1])
		if a != b || a != 7 {
			t.Errorf("case-insensitivity broken for %v: got %d, %d", p, a, b)
		}
	}
}

func TestDuplicateName(t *testing.T) {
	ix := New()
	if err := ix.Insert("A", 0); err != nil {
		t.Fatal(err)
	}
	if err := ix.Insert("a", 1); err == nil {
		t.Errorf("expected DuplicateName error for case-insensitive duplicate")
	}
}

func TestFreeAll(t *testing.T) {
	ix := New()
	ix.Insert("X", 1)
	ix.Free()
	if ix.Len() != 0 {
		t.Errorf("expected empty index after Free")
	}
	if ix.Lookup("X") != NotFound {
		t.Errorf("expected NotFound after Free")
	}
}
