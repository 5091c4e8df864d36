// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import "github.com/cpmech/gosl/chk"

// FEMFluid implements the high-order (discontinuous Galerkin) flow iteration
type FEMFluid struct {
	Base
}

// set factory
func init() {
	Register("femfluid", func(z *Zone, out Output) Iteration {
		return &FEMFluid{Base{Zone: z, Out: out}}
	})
}

// Preprocess sets the initial condition at the first step of a run that does not restart
func (o *FEMFluid) Preprocess(ctx *StepContext) (err error) {
	ctx.IntIter = 0
	if ctx.ExtIter == 0 && !ctx.Cfg.Restarting() {
		o.Zone.Flow(Mesh0).SetInitialCondition(ctx)
	}
	return
}

// Iterate runs one single-grid iteration of the flow
func (o *FEMFluid) Iterate(ctx *StepContext) (err error) {
	ctx.IntIter = 0
	ctx.SetGlobalParam(FlowSys)
	err = o.Zone.Integration(FlowSys).SingleGridIteration(ctx, FlowSys)
	if err != nil {
		return chk.Err("high-order flow iteration failed:\n%v", err)
	}
	return
}

// Update tests the physical time of dual-time runs
func (o *FEMFluid) Update(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	if !cfg.DualTime() {
		return
	}
	flow := o.Zone.Integration(FlowSys)
	flow.SetDualTimeSolver(ctx, Mesh0)
	flow.SetConvergence(false)
	if PhysicalTimeReached(ctx.ExtIter, cfg.Time.Dt, cfg.Time.Total) {
		flow.SetConvergence(true)
	}
	return
}

// Monitor returns the flow convergence
func (o *FEMFluid) Monitor(ctx *StepContext) bool {
	o.Toc()
	return o.Zone.Integration(FlowSys).Convergence()
}

// Solve runs the inner loop
func (o *FEMFluid) Solve(ctx *StepContext) error {
	return Loop(o, &o.Base, o.Zone.Integration(FlowSys), ctx)
}
