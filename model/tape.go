// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package model implements in-memory reference collaborators: an operator-overloading reverse-mode
// tape, a scalar field solver usable as mean flow or heat, a nonlinear spring structure, a
// one-dimensional grid and the integration services
package model

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Real is a value that may be recorded on a tape
//  Note: I == 0 means passive. An index recorded before the last Reset of the tape is stale and
//        is treated as passive
type Real struct {
	V float64 // value
	I int     // tape index
	g int     // recording generation of I
}

// Const returns a passive real
func Const(v float64) Real { return Real{V: v} }

// Passive returns the value without its tape index
func (o Real) Passive() Real { return Real{V: o.V} }

// node holds the partial derivatives of one recorded operation
type node struct {
	np       int        // number of parents
	parents  [2]int     // indices of the arguments
	partials [2]float64 // derivatives with respect to the arguments
}

// Tape records the operations on active reals and runs reverse sweeps
type Tape struct {
	active bool      // recording
	gen    int       // recording generation; incremented by Reset
	nodes  []node    // [0] is a sentinel
	adj    []float64 // adjoint values; one per node
}

// NewTape returns an empty passive tape
func NewTape() (o *Tape) {
	o = new(Tape)
	o.gen = 1
	o.nodes = []node{{}}
	return
}

// Reset drops the recorded operations; all indices held by reals become stale
func (o *Tape) Reset() {
	o.active = false
	o.gen++
	o.nodes = o.nodes[:1]
	o.adj = o.adj[:0]
}

// StartRecording starts recording
func (o *Tape) StartRecording() { o.active = true }

// StopRecording stops recording
func (o *Tape) StopRecording() { o.active = false }

// Active returns whether the tape is recording
func (o *Tape) Active() bool { return o.active }

// Len returns the number of recorded operations
func (o *Tape) Len() int { return len(o.nodes) - 1 }

// Register registers x as an input; does nothing when passive
func (o *Tape) Register(x *Real) {
	if !o.active {
		x.I, x.g = 0, 0
		return
	}
	x.I, x.g = o.push(node{}), o.gen
}

// SetGradient adds g to the adjoint value of x; does nothing if x is not on the tape
func (o *Tape) SetGradient(x Real, g float64) {
	if !o.valid(x) {
		return
	}
	o.grow()
	o.adj[x.I] += g
}

// Gradient returns the adjoint value of x; zero if x is not on the tape
func (o *Tape) Gradient(x Real) float64 {
	if !o.valid(x) || x.I >= len(o.adj) {
		return 0
	}
	return o.adj[x.I]
}

// ComputeAdjoint propagates the adjoint values from the outputs to the inputs
func (o *Tape) ComputeAdjoint() {
	o.grow()
	for i := len(o.nodes) - 1; i > 0; i-- {
		a := o.adj[i]
		if a == 0 {
			continue
		}
		n := o.nodes[i]
		for k := 0; k < n.np; k++ {
			p := n.parents[k]
			if p <= 0 || p >= i {
				chk.Panic("tape node %d has invalid parent %d", i, p)
			}
			o.adj[p] += n.partials[k] * a
		}
	}
}

// ClearAdjoints zeroes all adjoint values; the recorded operations are kept
func (o *Tape) ClearAdjoints() {
	for i := range o.adj {
		o.adj[i] = 0
	}
}

// operations /////////////////////////////////////////////////////////////////////////////////////

// Add returns a + b
func (o *Tape) Add(a, b Real) Real { return o.binary(a.V+b.V, a, 1, b, 1) }

// Sub returns a - b
func (o *Tape) Sub(a, b Real) Real { return o.binary(a.V-b.V, a, 1, b, -1) }

// Mul returns a * b
func (o *Tape) Mul(a, b Real) Real { return o.binary(a.V*b.V, a, b.V, b, a.V) }

// Div returns a / b
func (o *Tape) Div(a, b Real) Real {
	return o.binary(a.V/b.V, a, 1/b.V, b, -a.V/(b.V*b.V))
}

// Scale returns s * a
func (o *Tape) Scale(s float64, a Real) Real { return o.unary(s*a.V, a, s) }

// Shift returns a + c
func (o *Tape) Shift(a Real, c float64) Real { return o.unary(a.V+c, a, 1) }

// Sq returns a²
func (o *Tape) Sq(a Real) Real { return o.unary(a.V*a.V, a, 2*a.V) }

// Cube returns a³
func (o *Tape) Cube(a Real) Real { return o.unary(a.V*a.V*a.V, a, 3*a.V*a.V) }

// Sqrt returns √a
func (o *Tape) Sqrt(a Real) Real {
	v := math.Sqrt(a.V)
	return o.unary(v, a, 0.5/v)
}

// Sum returns the sum of all values
func (o *Tape) Sum(values ...Real) (s Real) {
	for _, v := range values {
		s = o.Add(s, v)
	}
	return
}

// Values returns the values of a slice of reals
func Values(x []Real) (v []float64) {
	v = make([]float64, len(x))
	for i, r := range x {
		v[i] = r.V
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// valid returns whether x holds an index of the current recording
func (o *Tape) valid(x Real) bool {
	return x.I > 0 && x.g == o.gen && x.I < len(o.nodes)
}

// push appends a node and returns its index
func (o *Tape) push(n node) int {
	o.nodes = append(o.nodes, n)
	return len(o.nodes) - 1
}

// grow sizes the adjoint values to the number of nodes
func (o *Tape) grow() {
	for len(o.adj) < len(o.nodes) {
		o.adj = append(o.adj, 0)
	}
}

// unary records r = f(a)
func (o *Tape) unary(v float64, a Real, da float64) (r Real) {
	r.V = v
	if !o.active || !o.valid(a) {
		return
	}
	r.I, r.g = o.push(node{np: 1, parents: [2]int{a.I}, partials: [2]float64{da}}), o.gen
	return
}

// binary records r = f(a, b)
func (o *Tape) binary(v float64, a Real, da float64, b Real, db float64) (r Real) {
	r.V = v
	if !o.active {
		return
	}
	var n node
	if o.valid(a) {
		n.parents[n.np], n.partials[n.np] = a.I, da
		n.np++
	}
	if o.valid(b) {
		n.parents[n.np], n.partials[n.np] = b.I, db
		n.np++
	}
	if n.np == 0 {
		return
	}
	r.I, r.g = o.push(n), o.gen
	return
}
