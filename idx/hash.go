// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package idx implements the case-insensitive name index used to resolve
// every element ID (gage, subcatchment, node, link, ...) to its slot index
// in the project store.
package idx

import (
	"github.com/cpmech/gosl/chk"
)

// htmaxsize is the number of hash buckets, matching the original solver's
// fixed-size hash table (HTMAXSIZE).
const htmaxsize = 1721

// entry is one chained bucket entry; duplicate keys are rejected at Insert
// time rather than silently chained, so collisions here are genuine
// different-key hash collisions only.
type entry struct {
	key  string
	data int
}

// Index is a per-kind open-chained hash table keyed by case-insensitive name.
type Index struct {
	buckets [][]entry
	size    int
}

// New creates an empty index.
func New() *Index {
	return &Index{buckets: make([][]entry, htmaxsize)}
}

// fold upper-cases ASCII letters only, leaving every other byte untouched —
// this tolerates arbitrary byte values the way the original hash() does via
// its UCHAR() macro.
func fold(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

// sameName performs ASCII case-insensitive string comparison.
func sameName(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if fold(a[i]) != fold(b[i]) {
			return false
		}
	}
	return true
}

// hash computes a small checksum of str, tolerant of arbitrary bytes,
// following the original solver's Fletcher-style two-sum checksum (hash.c).
func hash(str string) uint {
	var sum1 uint
	var sum2 uint
	for i := 0; i < len(str); i++ {
		sum1 += uint(fold(str[i]))
		if sum1 >= 255 {
			sum1 -= 255
		}
		sum2 += sum1
	}
	check1 := sum2 % 255
	check1 = 255 - (sum1+check1)%255
	sum1 = 255 - (sum1+check1)%255
	return ((check1 << 8) | sum1) % htmaxsize
}

// Insert adds name -> data to the index. Returns a DuplicateName error
// (via chk.Err) if name is already present (case-insensitively).
func (o *Index) Insert(name string, data int) error {
	h := hash(name)
	for _, e := range o.buckets[h] {
		if sameName(e.key, name) {
			return chk.Err("duplicate name %q", name)
		}
	}
	o.buckets[h] = append(o.buckets[h], entry{key: name, data: data})
	o.size++
	return nil
}

// NotFound is returned by Lookup when name is not present.
const NotFound = -1

// Lookup returns the slot index registered for name, or NotFound.
func (o *Index) Lookup(name string) int {
	h := hash(name)
	for _, e := range o.buckets[h] {
		if sameName(e.key, name) {
			return e.data
		}
	}
	return NotFound
}

// Len returns the number of names currently indexed.
func (o *Index) Len() int {
	return o.size
}

// IterateKeys calls fn once per (name, data) pair, in bucket order. Order is
// stable for a fixed sequence of Inserts but is not sorted.
func (o *Index) IterateKeys(fn func(name string, data int)) {
	for _, bucket := range o.buckets {
		for _, e := range bucket {
			fn(e.key, e.data)
		}
	}
}

// Free drops every entry, leaving the index ready for reuse.
func (o *Index) Free() {
	o.buckets = make([][]entry, htmaxsize)
	o.size = 0
}
