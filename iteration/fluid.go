// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import "github.com/cpmech/gosl/chk"

// Fluid implements the finite volume flow iteration (Euler, Navier-Stokes and RANS)
type Fluid struct {
	Base
	vortices []Vortex // vortex gust distribution; read once
}

// set factory
func init() {
	Register("fluid", func(z *Zone, out Output) Iteration {
		return NewFluid(z, out)
	})
}

// NewFluid returns a new fluid iteration
func NewFluid(z *Zone, out Output) *Fluid {
	return &Fluid{Base: Base{Zone: z, Out: out}}
}

// Preprocess seeds FSI initial conditions, applies the wind gust and adapts the CFL number
func (o *Fluid) Preprocess(ctx *StepContext) (err error) {
	ctx.IntIter = 0
	cfg := ctx.Cfg
	if cfg.Solver.FSI && ctx.OuterIter == 0 {
		o.Zone.Flow(Mesh0).SetInitialCondition(ctx)
	}
	if cfg.Gust.Active {
		err = o.WindGust(ctx)
		if err != nil {
			return
		}
	}
	if cfg.Solver.CFLAdapt && ctx.OuterIter != 0 {
		o.Out.SetCFLNumber(ctx)
	}
	return
}

// Iterate runs one iteration of the flow and of the coupled turbulence, transition and heat equations
func (o *Fluid) Iterate(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	dualtime := cfg.DualTime()

	// mean flow
	ctx.SetGlobalParam(FlowSys)
	err = o.Zone.Integration(FlowSys).MultiGridIteration(ctx, FlowSys)
	if err != nil {
		return chk.Err("flow iteration failed:\n%v", err)
	}

	// turbulence and transition
	if cfg.Rans() && !(cfg.DiscreteAdjoint() && cfg.Flow.FrozenVisc) {
		ctx.SetGlobalParam(TurbSys)
		err = o.Zone.Integration(TurbSys).SingleGridIteration(ctx, TurbSys)
		if err != nil {
			return chk.Err("turbulence iteration failed:\n%v", err)
		}
		if cfg.Flow.Transition {
			ctx.SetGlobalParam(TransSys)
			err = o.Zone.Integration(TransSys).SingleGridIteration(ctx, TransSys)
			if err != nil {
				return chk.Err("transition iteration failed:\n%v", err)
			}
		}
	}

	// weakly coupled heat
	if cfg.Flow.WeaklyHeat {
		ctx.SetGlobalParam(HeatSys)
		err = o.Zone.Integration(HeatSys).SingleGridIteration(ctx, HeatSys)
		if err != nil {
			return chk.Err("heat iteration failed:\n%v", err)
		}
	}

	// aeroelastic grid movement
	if cfg.Movement.Active && cfg.Movement.Aeroelastic && dualtime {
		err = SetGridMovement(ctx, o.Zone)
		if err != nil {
			return
		}
		i := ctx.IntIter
		if cfg.Gust.Active && i%cfg.Movement.AeroelasticIter == 0 && i != 0 {
			err = o.WindGust(ctx)
			if err != nil {
				return
			}
		}
	}

	// history
	if dualtime && !cfg.DiscreteAdjoint() {
		o.Out.SetConvHistoryBody(ctx, FlowSys, 0)
	}
	return
}

// Update pushes back the time levels and tests the physical time
func (o *Fluid) Update(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	if !cfg.DualTime() {
		return
	}
	flow := o.Zone.Integration(FlowSys)
	for level := 0; level < o.Zone.NLevels(); level++ {
		flow.SetDualTimeSolver(ctx, level)
		flow.SetConvergence(false)
	}
	if cfg.Rans() {
		turb := o.Zone.Integration(TurbSys)
		turb.SetDualTimeSolver(ctx, Mesh0)
		turb.SetConvergence(false)
	}
	if cfg.Flow.Transition {
		trans := o.Zone.Integration(TransSys)
		trans.SetDualTimeSolver(ctx, Mesh0)
		trans.SetConvergence(false)
	}
	if PhysicalTimeReached(ctx.ExtIter, cfg.Time.Dt, cfg.Time.Total) {
		flow.SetConvergence(true)
	}
	return
}

// Monitor returns the flow convergence and writes the history of steady runs
func (o *Fluid) Monitor(ctx *StepContext) (stop bool) {
	cfg := ctx.Cfg
	o.Toc()
	stop = o.Zone.Integration(FlowSys).Convergence()
	if cfg.Steady() && !(cfg.Solver.Multizone && cfg.Solver.NInnerIter == 1) {
		o.Out.SetConvHistoryBody(ctx, FlowSys, o.UsedTime)
	}
	return
}

// Postprocess reads the inverse design targets of single-zone discrete adjoint runs
func (o *Fluid) Postprocess(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	if !cfg.Singlezone() {
		return
	}
	if cfg.Solver.Kind == "discadjfluid" || cfg.Solver.Kind == "discadjturbo" {
		if cfg.Flow.InvDesignCp {
			o.Out.SetCpInverseDesign(ctx)
		}
		if cfg.Flow.InvDesignHeat {
			o.Out.SetHeatFluxInverseDesign(ctx)
		}
	}
	return
}

// Solve runs the inner loop
func (o *Fluid) Solve(ctx *StepContext) error {
	return Loop(o, &o.Base, o.Zone.Integration(FlowSys), ctx)
}

// WindGust applies the gust field; the vortex distribution is read on first use
func (o *Fluid) WindGust(ctx *StepContext) (err error) {
	if ctx.Cfg.Gust.Type == "vortex" && o.vortices == nil {
		o.vortices, err = ReadVortices(ctx.Cfg.Gust.VortexFile)
		if err != nil {
			return
		}
	}
	return SetWindGustField(ctx, o.Zone, o.vortices)
}

// PhysicalTimeReached returns whether (extIter+1)*dt reached the time horizon
func PhysicalTimeReached(extIter int, dt, total float64) bool {
	return float64(extIter+1)*dt >= total
}
