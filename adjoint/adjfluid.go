// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// AdjFluid implements the continuous adjoint flow iteration; the direct flow is solved (or loaded)
// before the adjoint equations are iterated
type AdjFluid struct {
	iteration.Base
}

// set factory
func init() {
	iteration.Register("adjfluid", func(z *iteration.Zone, out iteration.Output) iteration.Iteration {
		return NewAdjFluid(z, out)
	})
}

// NewAdjFluid returns a new continuous adjoint flow iteration
func NewAdjFluid(z *iteration.Zone, out iteration.Output) *AdjFluid {
	return &AdjFluid{iteration.Base{Zone: z, Out: out}}
}

// Preprocess loads or solves the direct flow and stages the adjoint boundary conditions
func (o *AdjFluid) Preprocess(ctx *iteration.StepContext) (err error) {

	// auxiliary
	cfg := ctx.Cfg
	z := o.Zone
	ctx.IntIter = 0
	unsteady := cfg.Unsteady() && !cfg.Harmonic()
	nlevels := len(z.Solvers[iteration.FlowSys])

	// direct solution of unsteady (or moving grid) problems
	if ((cfg.Movement.Active && ctx.ExtIter == 0) || cfg.Unsteady()) && !cfg.Harmonic() {
		d := cfg.Adjoint.UnstAdjointIter - ctx.ExtIter - 1
		ctx.Printf(" Loading flow solution from direct iteration %d.\n", d)
		for level := 0; level < nlevels; level++ {
			flow := z.Solver(iteration.FlowSys, level)
			err = flow.LoadRestart(ctx, d)
			if err != nil {
				return chk.Err("cannot load flow solution of direct iteration %d:\n%v", d, err)
			}
			if cfg.DualTime() {
				flow.CopySlot(iteration.SlotTimeN1, iteration.SlotTimeN)
				flow.CopySlot(iteration.SlotTimeN, iteration.SlotSol)
			}
		}
	}

	// direct flow solve
	if ctx.ExtIter == 0 || unsteady {
		ctx.Printf(" Single iteration of the direct solver to store the flow state.\n")
		ctx.SetGlobalParam(iteration.FlowSys)
		err = z.Integration(iteration.FlowSys).MultiGridIteration(ctx, iteration.FlowSys)
		if err != nil {
			return chk.Err("direct flow iteration failed:\n%v", err)
		}
		if cfg.Rans() {
			ctx.SetGlobalParam(iteration.TurbSys)
			err = z.Integration(iteration.TurbSys).SingleGridIteration(ctx, iteration.TurbSys)
			if err != nil {
				return chk.Err("direct turbulence iteration failed:\n%v", err)
			}
			if cfg.Flow.Transition {
				ctx.SetGlobalParam(iteration.TransSys)
				err = z.Integration(iteration.TransSys).SingleGridIteration(ctx, iteration.TransSys)
				if err != nil {
					return chk.Err("direct transition iteration failed:\n%v", err)
				}
			}
		}

		// adjoint boundary conditions
		nearfield := cfg.Adjoint.ObjFunc == "equivalent_area" || cfg.Adjoint.ObjFunc == "nearfield_pressure"
		for level := 0; level < len(z.Solvers[iteration.AdjFlowSys]); level++ {
			adj := contAdjFlow(z, level)
			adj.SetForceProjVector(ctx)
			if nearfield {
				adj.SetIntBoundaryJump(ctx)
			}
		}
	}
	return
}

// Iterate runs one iteration of the adjoint flow and of the adjoint turbulence
func (o *AdjFluid) Iterate(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	ctx.SetGlobalParam(iteration.AdjFlowSys)
	err = o.Zone.Integration(iteration.AdjFlowSys).MultiGridIteration(ctx, iteration.AdjFlowSys)
	if err != nil {
		return chk.Err("adjoint flow iteration failed:\n%v", err)
	}
	if cfg.Turbulent() {
		ctx.SetGlobalParam(iteration.AdjTurbSys)
		err = o.Zone.Integration(iteration.AdjTurbSys).SingleGridIteration(ctx, iteration.AdjTurbSys)
		if err != nil {
			return chk.Err("adjoint turbulence iteration failed:\n%v", err)
		}
	}
	if cfg.DualTime() {
		o.Out.SetConvHistoryBody(ctx, iteration.AdjFlowSys, 0)
	}
	return
}

// Update pushes back the adjoint time levels and tests the physical time
func (o *AdjFluid) Update(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	if !cfg.DualTime() {
		return
	}
	integr := o.Zone.Integration(iteration.AdjFlowSys)
	for level := 0; level < o.Zone.NLevels(); level++ {
		integr.SetDualTimeSolver(ctx, level)
		integr.SetConvergence(false)
	}
	if iteration.PhysicalTimeReached(ctx.ExtIter, cfg.Time.Dt, cfg.Time.Total) {
		integr.SetConvergence(true)
	}
	return
}

// Monitor returns the adjoint flow convergence and writes the history of steady runs
func (o *AdjFluid) Monitor(ctx *iteration.StepContext) (stop bool) {
	cfg := ctx.Cfg
	o.Toc()
	stop = o.Zone.Integration(iteration.AdjFlowSys).Convergence()
	if cfg.Steady() {
		o.Out.SetConvHistoryBody(ctx, iteration.AdjFlowSys, o.UsedTime)
	}
	return
}

// Solve runs the inner loop
func (o *AdjFluid) Solve(ctx *iteration.StepContext) error {
	return iteration.Loop(o, &o.Base, o.Zone.Integration(iteration.AdjFlowSys), ctx)
}
