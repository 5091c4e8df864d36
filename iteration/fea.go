// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// FEA implements the structural iteration with linear, Newton-Raphson and incremental load strategies
type FEA struct {
	Base
	Aitken *Aitken // dynamic relaxation of FSI displacements
}

// set factory
func init() {
	Register("fea", func(z *Zone, out Output) Iteration {
		return NewFEA(z, out)
	})
}

// NewFEA returns a new structural iteration
func NewFEA(z *Zone, out Output) *FEA {
	return &FEA{
		Base:   Base{Zone: z, Out: out},
		Aitken: NewAitken(z.Cfg.Struct.AitkenStatic, z.Cfg.Struct.AitkenMin, z.Cfg.Struct.AitkenMax),
	}
}

// Iterate runs the structural solution of one step
//  Note: the discrete adjoint of the structure runs only the first Newton iteration
func (o *FEA) Iterate(ctx *StepContext) (err error) {

	// auxiliary
	cfg := ctx.Cfg
	fea := o.Zone.Struct()
	integr := o.Zone.Integration(FEASys)
	ctx.IntIter = 0

	// prevent the solver from stopping in intermediate FSI sub-iterations
	integr.SetConvergence(false)

	// strategies
	switch {
	case cfg.Linear():
		ctx.SetGlobalParam(FEASys)
		err = o.structural(ctx, integr)
	case cfg.IncrementalLoad():
		err = o.incremental(ctx, fea, integr)
	default:
		err = o.direct(ctx, fea, integr)
	}
	if err != nil {
		return
	}

	// objective function
	penalty := cfg.Struct.DV == "young_modulus" || cfg.Struct.DV == "density"
	switch cfg.Struct.ObjFunc {
	case "reference_geometry":
		if penalty {
			fea.StiffnessPenalty(ctx)
		}
		fea.ComputeOFRefGeom(ctx)
	case "reference_node":
		if penalty {
			fea.StiffnessPenalty(ctx)
		}
		fea.ComputeOFRefNode(ctx)
	case "volume_fraction":
		fea.ComputeOFVolFrac(ctx)
	}
	return
}

// Update computes the nodal stresses and advances the dynamic state
func (o *FEA) Update(ctx *StepContext) (err error) {
	cfg := ctx.Cfg
	fea := o.Zone.Struct()
	fea.ComputeNodalStress(ctx)
	if cfg.Struct.Dynamic {
		integr := o.Zone.Integration(FEASys)
		integr.SetStructuralSolver(ctx)
		integr.SetConvergence(false)
		if PhysicalTimeReached(ctx.ExtIter, cfg.Struct.DynDt, cfg.Struct.DynTotal) {
			integr.SetConvergence(true)
		}
		return
	}
	if cfg.Solver.FSI && cfg.Struct.TimeScheme == "newmark_implicit" {
		fea.ImplicitNewmarkRelaxation(ctx)
	}
	return
}

// Predictor predicts the displacements of the structure before the fluid recomputes its boundary
func (o *FEA) Predictor(ctx *StepContext) (err error) {
	fea := o.Zone.Struct()
	fea.PredictStructDisplacement(ctx)
	fea.InitiateComms(CommSolutionPred)
	fea.CompleteComms(CommSolutionPred)
	return
}

// Relaxation relaxes the predicted displacements with the Aitken coefficient
func (o *FEA) Relaxation(ctx *StepContext) (err error) {
	fea := o.Zone.Struct()
	sol := fea.Field(SlotSol)
	prev := fea.Field(SlotPredOld)
	if len(sol) != len(prev) {
		return chk.Err("predicted displacements are not available: len(sol)=%d != len(pred)=%d", len(sol), len(prev))
	}
	o.Aitken.Coefficient(ctx.OuterIter, sol, prev)
	pred := o.Aitken.Relax(sol, prev)
	fea.SetField(SlotPred, pred)
	fea.SetField(SlotPredOld, pred)
	fea.InitiateComms(CommSolutionPredOld)
	fea.CompleteComms(CommSolutionPredOld)
	ctx.Printf("Aitken relaxation coefficient: %g\n", o.Aitken.Omega)
	return
}

// Solve runs one structural sub-iteration
func (o *FEA) Solve(ctx *StepContext) (err error) {
	integr := o.Zone.Integration(FEASys)
	defer integr.SetConvergence(false)
	err = o.Iterate(ctx)
	if err != nil {
		return
	}
	if ctx.Cfg.Solver.Multizone {
		o.Out.SetConvHistoryBody(ctx, FEASys, 0)
	}
	return
}

// LoadIncrements returns the load fractions (i+1)/n of n increments; the last one is exactly 1
func LoadIncrements(n int) (loads []float64) {
	loads = make([]float64, n)
	for i := 0; i < n; i++ {
		loads[i] = float64(i+1) / float64(n)
	}
	return
}

// MeetsCriteria returns whether the log10 of the displacement, residual and energy errors are all
// below the criteria
func MeetsCriteria(fea StructSolver, criteria [3]float64) bool {
	for i := 0; i < 3; i++ {
		if !(math.Log10(fea.ResFEM(i)) < criteria[i]) {
			return false
		}
	}
	return true
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// structural runs one structural iteration with the current counters
func (o *FEA) structural(ctx *StepContext, integr Integration) (err error) {
	err = integr.StructuralIteration(ctx, FEASys)
	if err != nil {
		return chk.Err("structural iteration %d failed:\n%v", ctx.IntIter, err)
	}
	return
}

// newton runs the Newton-Raphson sub-iterations from IntIter = first; the stresses are computed
// (and the history written) before each sub-iteration
func (o *FEA) newton(ctx *StepContext, fea StructSolver, integr Integration, first int, history func(it int) bool) (err error) {
	nsub := ctx.Cfg.Struct.NSubIter
	for it := first; it < nsub; it++ {
		fea.ComputeNodalStress(ctx)
		if history(it) {
			o.Out.SetConvHistoryBody(ctx, FEASys, 0)
		}
		ctx.IntIter = it
		err = o.structural(ctx, integr)
		if err != nil {
			return
		}
		if integr.Convergence() {
			break
		}
	}
	return
}

// direct runs the Newton-Raphson iterations at full load
func (o *FEA) direct(ctx *StepContext, fea StructSolver, integr Integration) (err error) {
	cfg := ctx.Cfg
	adjoint := cfg.DiscAdjFEA()
	ctx.SetGlobalParam(FEASys)
	if !adjoint {
		o.Out.SetConvHistoryHeader(ctx, FEASys)
	}
	err = o.structural(ctx, integr)
	if err != nil || adjoint {
		return
	}
	freq := cfg.Struct.PrintFreq
	return o.newton(ctx, fea, integr, 1, func(it int) bool { return (it-1)%freq == 0 })
}

// incremental probes the full load with two Newton iterations and falls back to load increments
// if the convergence criteria are not met
//  Note: the probe always takes two Newton iterations, independently of NSubIter
func (o *FEA) incremental(ctx *StepContext, fea StructSolver, integr Integration) (err error) {

	// store the current solution and apply the full load
	cfg := ctx.Cfg
	fea.SetInitialCondition(ctx)
	fea.SetLoadIncrement(1.0)
	fea.SetForceCoeff(1.0)
	ctx.SetGlobalParam(FEASys)
	if !cfg.DiscAdjFEA() {
		o.Out.SetConvHistoryHeader(ctx, FEASys)
	}

	// probe
	always := func(int) bool { return true }
	for it := 0; it < 2; it++ {
		ctx.IntIter = it
		err = o.structural(ctx, integr)
		if err != nil {
			return
		}
		fea.ComputeNodalStress(ctx)
		o.Out.SetConvHistoryBody(ctx, FEASys, 0)
	}

	// regular Newton-Raphson iterations
	if MeetsCriteria(fea, cfg.Struct.IncCriteria) {
		return o.newton(ctx, fea, integr, 2, always)
	}

	// restart from the stored solution and run all load increments
	ctx.Printf("-- Incremental load: criteria not met; restarting with %d increments\n", cfg.Struct.NIncrements)
	fea.ResetInitialCondition(ctx)
	loads := LoadIncrements(cfg.Struct.NIncrements)
	for i, load := range loads {
		integr.SetConvergence(false)
		ctx.SetGlobalParam(FEASys)
		fea.SetLoadIncrement(load)
		ctx.Printf("\n-- Incremental load: increment %d ----------------------------------------\n", i+1)
		ctx.IntIter = 0
		err = o.structural(ctx, integr)
		if err != nil {
			return
		}
		err = o.newton(ctx, fea, integr, 1, always)
		if err != nil {
			return
		}
		if i < len(loads)-1 {
			fea.ComputeNodalStress(ctx)
			o.Out.SetConvHistoryBody(ctx, FEASys, 0)
		}
	}
	return
}
