// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Grid implements a one-dimensional grid with dual (control) lengths
//  Note: H[i] = (X[i+1] - X[i-1]) / 2 at interior points and one-sided half lengths at the ends
type Grid struct {
	Tape *Tape       // recording
	X    []Real      // [npoint] coordinates
	H    []Real      // [npoint] dual lengths; computed by UpdateGeometry
	Out  []Real      // coordinates registered as output
	vel  [][]float64 // [npoint][1] grid velocities
	sens []float64   // [npoint] coordinate sensitivities
}

// NewGrid returns a uniform grid with n points in [xa, xb]
func NewGrid(tape *Tape, n int, xa, xb float64) (o *Grid) {
	if n < 2 {
		chk.Panic("grid requires at least 2 points; n=%d is invalid", n)
	}
	o = new(Grid)
	o.Tape = tape
	o.X = make([]Real, n)
	o.H = make([]Real, n)
	o.vel = make([][]float64, n)
	o.sens = make([]float64, n)
	dx := (xb - xa) / float64(n-1)
	for i := 0; i < n; i++ {
		o.X[i] = Const(xa + float64(i)*dx)
		o.vel[i] = []float64{0}
	}
	o.UpdateGeometry(nil)
	return
}

// NPoint returns the number of points
func (o *Grid) NPoint() int { return len(o.X) }

// NDim returns 1
func (o *Grid) NDim() int { return 1 }

// Coord returns the coordinates of a point
func (o *Grid) Coord(ipoint int) []float64 { return []float64{o.X[ipoint].V} }

// AddCoord moves a point; the coordinate becomes passive
func (o *Grid) AddCoord(ipoint, idim int, delta float64) {
	o.X[ipoint] = Const(o.X[ipoint].V + delta)
}

// GridVel returns the grid velocity of a point
func (o *Grid) GridVel(ipoint int) []float64 { return o.vel[ipoint] }

// SetGridVel sets the grid velocity of a point
func (o *Grid) SetGridVel(ipoint int, v []float64) { copy(o.vel[ipoint], v) }

// SetGridVelocity does nothing; the grid velocities are set by the movers
func (o *Grid) SetGridVelocity(ctx *iteration.StepContext) {}

// UpdateGeometry recomputes the dual lengths from the coordinates
func (o *Grid) UpdateGeometry(ctx *iteration.StepContext) {
	t := o.Tape
	n := len(o.X)
	o.H[0] = t.Scale(0.5, t.Sub(o.X[1], o.X[0]))
	o.H[n-1] = t.Scale(0.5, t.Sub(o.X[n-1], o.X[n-2]))
	for i := 1; i < n-1; i++ {
		o.H[i] = t.Scale(0.5, t.Sub(o.X[i+1], o.X[i-1]))
	}
}

// RegisterCoordinates registers the coordinates as tape input
func (o *Grid) RegisterCoordinates(ctx *iteration.StepContext) {
	for i := range o.X {
		o.Tape.Register(&o.X[i])
	}
}

// RegisterOutputCoordinates keeps the coordinates as tape output
func (o *Grid) RegisterOutputCoordinates(ctx *iteration.StepContext) {
	o.Out = append(o.Out[:0], o.X...)
}

// CoordGradient returns the adjoint value of the coordinate of a point
func (o *Grid) CoordGradient(ipoint int) float64 { return o.Tape.Gradient(o.X[ipoint]) }

// SetSensitivity stores the adjoint values of the coordinates
func (o *Grid) SetSensitivity() {
	for i := range o.X {
		o.sens[i] = o.CoordGradient(i)
	}
}

// Sensitivity returns the stored sensitivity of the coordinate of a point
func (o *Grid) Sensitivity(ipoint int) float64 { return o.sens[ipoint] }

// Passivate drops the tape indices of the coordinates
func (o *Grid) Passivate() {
	for i := range o.X {
		o.X[i] = o.X[i].Passive()
	}
}
