// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/bmunguia/su2-oneshot/iteration"
)

// DefaultTol is the tolerance on log10 of the residuals
const DefaultTol = -12.0

// Case holds a zone built with the reference collaborators
type Case struct {
	Zone *iteration.Zone // zone
	Tape *Tape           // recording shared by all collaborators
	Grid *Grid           // grid

	// mean flow or heat
	Field    *Field        // direct solver
	Adjoint  *AdjointField // adjoint solver
	Obj      *Objective    // objective function of the field
	DirectIt *Integration  // integration of the direct system
	AdjIt    *Integration  // integration of the adjoint system

	// structure
	Spring    *Spring        // direct solver
	AdjSpring *AdjointSpring // adjoint solver
	Mat       *Material      // design values
}

// NewFlowCase returns a case with a mean-flow field of source q on npoint points in [0, 1]
func NewFlowCase(cfg *inp.Config, npoint int, q float64) *Case {
	return newFieldCase(cfg, iteration.FlowSys, iteration.AdjFlowSys, npoint, q)
}

// NewHeatCase returns a case with a heat field of source q on npoint points in [0, 1]
func NewHeatCase(cfg *inp.Config, npoint int, q float64) *Case {
	return newFieldCase(cfg, iteration.HeatSys, iteration.AdjHeatSys, npoint, q)
}

// NewStructCase returns a case with a chain of n springs loaded by force at the tip
func NewStructCase(cfg *inp.Config, n int, mat *Material, force, alpha float64) (o *Case) {
	o = new(Case)
	o.Tape = NewTape()
	o.Zone = iteration.NewZone(cfg)
	o.Grid = NewGrid(o.Tape, n+1, 0, 1)
	o.Mat = mat
	term := NewTerm(mat)
	o.Spring = NewSpring(o.Tape, term, n, force, alpha)
	o.Spring.Grav = 1
	o.AdjSpring = NewAdjointSpring(o.Spring, mat, cfg.Struct.Dynamic)
	o.DirectIt = NewIntegration(o.Spring, DefaultTol)
	o.AdjIt = NewIntegration(nil, DefaultTol)
	o.Zone.SetGeometry(iteration.Mesh0, o.Grid)
	o.Zone.SetSolver(iteration.FEASys, iteration.Mesh0, o.Spring)
	o.Zone.SetSolver(iteration.AdjFEASys, iteration.Mesh0, o.AdjSpring)
	o.Zone.Integrs[iteration.FEASys] = o.DirectIt
	o.Zone.Integrs[iteration.AdjFEASys] = o.AdjIt
	o.Zone.Terms[iteration.FEATerm] = term
	return
}

// newFieldCase builds a field case for sys and its adjoint
func newFieldCase(cfg *inp.Config, sys, adj iteration.System, npoint int, q float64) (o *Case) {
	o = new(Case)
	o.Tape = NewTape()
	o.Zone = iteration.NewZone(cfg)
	o.Grid = NewGrid(o.Tape, npoint, 0, 1)
	o.Field = NewField(sys, o.Grid, q)
	o.Field.Vinf = cfg.Flow.Freestream
	o.Adjoint = NewAdjointField(adj, o.Field)
	o.Obj = &Objective{Field: o.Field}
	o.DirectIt = NewIntegration(o.Field, DefaultTol)
	o.AdjIt = NewIntegration(nil, DefaultTol)
	o.Zone.SetGeometry(iteration.Mesh0, o.Grid)
	o.Zone.SetSolver(sys, iteration.Mesh0, o.Field)
	o.Zone.SetSolver(adj, iteration.Mesh0, o.Adjoint)
	o.Zone.Integrs[sys] = o.DirectIt
	o.Zone.Integrs[adj] = o.AdjIt
	return
}
