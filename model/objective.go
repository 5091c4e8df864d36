// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Objective implements J = Σ h_i u_i² of a field
type Objective struct {
	Field *Field // field
	J     Real   // last computed value
}

// Compute computes the objective function from the current state; recorded if the tape is active
func (o *Objective) Compute(ctx *iteration.StepContext) (err error) {
	t := o.Field.Tape
	h := o.Field.Grid.H
	if len(h) != len(o.Field.U) {
		return chk.Err("objective: grid has %d points but field has %d", len(h), len(o.Field.U))
	}
	var j Real
	for i, u := range o.Field.U {
		j = t.Add(j, t.Mul(h[i], t.Sq(u)))
	}
	o.J = j
	return
}

// Seed sets the adjoint of the objective function to w
func (o *Objective) Seed(ctx *iteration.StepContext, w float64) error {
	o.Field.Tape.SetGradient(o.J, w)
	return nil
}

// Value returns the last computed value
func (o *Objective) Value() float64 { return o.J.V }

// ObjWeight returns the seeding weight of the objective: 1 if steady; 1/NExtIter otherwise
func ObjWeight(ctx *iteration.StepContext) float64 {
	if ctx.Cfg.Steady() {
		return 1
	}
	return 1 / float64(ctx.Cfg.Solver.NExtIter)
}
