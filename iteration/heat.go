// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import "github.com/cpmech/gosl/chk"

// Heat implements the heat equation iteration
type Heat struct {
	Base
}

// set factory
func init() {
	Register("heat", func(z *Zone, out Output) Iteration {
		return NewHeat(z, out)
	})
}

// NewHeat returns a new heat iteration
func NewHeat(z *Zone, out Output) *Heat {
	return &Heat{Base{Zone: z, Out: out}}
}

// Preprocess adapts the CFL number
func (o *Heat) Preprocess(ctx *StepContext) (err error) {
	if ctx.Cfg.Solver.CFLAdapt && ctx.OuterIter != 0 {
		o.Out.SetCFLNumber(ctx)
	}
	return
}

// Iterate runs one iteration of the heat equation
func (o *Heat) Iterate(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	ctx.SetGlobalParam(HeatSys)
	err = o.Zone.Integration(HeatSys).SingleGridIteration(ctx, HeatSys)
	if err != nil {
		return chk.Err("heat iteration failed:\n%v", err)
	}
	if cfg.DualTime() && !cfg.DiscreteAdjoint() {
		o.Out.SetConvHistoryBody(ctx, HeatSys, 0)
	}
	return
}

// Update pushes back the time levels and tests the physical time
func (o *Heat) Update(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	if !cfg.DualTime() {
		return
	}
	heat := o.Zone.Integration(HeatSys)
	for level := 0; level < o.Zone.NLevels(); level++ {
		heat.SetDualTimeSolver(ctx, level)
		heat.SetConvergence(false)
	}
	if PhysicalTimeReached(ctx.ExtIter, cfg.Time.Dt, cfg.Time.Total) {
		heat.SetConvergence(true)
	}
	return
}

// Monitor returns the heat convergence
func (o *Heat) Monitor(ctx *StepContext) bool {
	o.Toc()
	return o.Zone.Integration(HeatSys).Convergence()
}

// Solve runs the inner loop; steady runs write the history at every pass
func (o *Heat) Solve(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	integr := o.Zone.Integration(HeatSys)
	defer integr.SetConvergence(false)
	n := cfg.Solver.NIter
	if cfg.Solver.Multizone {
		n = cfg.Solver.NInnerIter
	}
	o.Tic()
	err = o.Preprocess(ctx)
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		if n == 1 {
			ctx.SetDriving(ctx.OuterIter)
		} else {
			ctx.SetDriving(i)
		}
		err = o.Iterate(ctx)
		if err != nil {
			return
		}
		if cfg.Steady() {
			o.Toc()
			o.Out.SetConvHistoryBody(ctx, HeatSys, o.UsedTime)
		}
		if integr.Convergence() {
			break
		}
	}
	return
}
