// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Slots implements iteration.Storage with one flat array per slot
type Slots struct {
	v [][]float64 // [nslots][n] values
}

// NewSlots returns zeroed slots with n values each
func NewSlots(n int) (o *Slots) {
	o = new(Slots)
	o.v = make([][]float64, iteration.NSlots())
	for i := range o.v {
		o.v[i] = make([]float64, n)
	}
	return
}

// Field returns the values in slot s
func (o *Slots) Field(s iteration.Slot) []float64 { return o.v[s] }

// SetField copies v into slot s; the slot is resized if needed
func (o *Slots) SetField(s iteration.Slot, v []float64) {
	if len(o.v[s]) != len(v) {
		o.v[s] = make([]float64, len(v))
	}
	copy(o.v[s], v)
}

// CopySlot sets dst := src
func (o *Slots) CopySlot(dst, src iteration.Slot) { o.SetField(dst, o.v[src]) }

// ZeroSlot sets s := 0
func (o *Slots) ZeroSlot(s iteration.Slot) {
	for i := range o.v[s] {
		o.v[s][i] = 0
	}
}

// restarts holds the in-memory persisted states of a solver; step => slot => values
type restarts map[int]map[iteration.Slot][]float64

// save stores a copy of the slots of a solver at step
func (o restarts) save(step int, s iteration.Storage, slots ...iteration.Slot) {
	m := make(map[iteration.Slot][]float64)
	for _, slot := range slots {
		m[slot] = append([]float64{}, s.Field(slot)...)
	}
	o[step] = m
}

// load restores the slots stored at step
func (o restarts) load(step int, s iteration.Storage, name string) (err error) {
	m, ok := o[step]
	if !ok {
		return chk.Err("%s has no restart at step %d", name, step)
	}
	for slot, v := range m {
		s.SetField(slot, v)
	}
	return
}
