// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
)

// DiscAdjFluid implements the discrete adjoint of the fluid iteration; the forward iteration is
// run by the driver
type DiscAdjFluid struct {
	iteration.Base
	Loader  *Loader  // direct time levels of unsteady runs
	session *Session // tape
}

// set factory
func init() {
	iteration.Register("discadjfluid", func(z *iteration.Zone, out iteration.Output) iteration.Iteration {
		return NewDiscAdjFluid(z, out)
	})
}

// NewDiscAdjFluid returns a new discrete adjoint fluid iteration
func NewDiscAdjFluid(z *iteration.Zone, out iteration.Output) *DiscAdjFluid {
	return &DiscAdjFluid{
		Base:   iteration.Base{Zone: z, Out: out},
		Loader: NewLoader(z, false),
	}
}

// Attach sets the tape session
func (o *DiscAdjFluid) Attach(s *Session) { o.session = s }

// Session returns the tape session
func (o *DiscAdjFluid) Session() *Session { return o.session }

// Integration returns the adjoint flow integration
func (o *DiscAdjFluid) Integration() iteration.Integration {
	return o.Zone.Integration(iteration.AdjFlowSys)
}

// Preprocess loads the direct time levels, stores the direct solution and stages the adjoint
// residuals
func (o *DiscAdjFluid) Preprocess(ctx *iteration.StepContext) (err error) {

	// auxiliary
	o.Tic()
	cfg := ctx.Cfg
	z := o.Zone
	ctx.IntIter = 0

	// inverse design targets
	if cfg.Flow.InvDesignCp {
		o.Out.SetCpInverseDesign(ctx)
	}
	if cfg.Flow.InvDesignHeat {
		o.Out.SetHeatFluxInverseDesign(ctx)
	}

	// direct time levels
	err = o.Loader.Load(ctx)
	if err != nil {
		return
	}

	// store the direct solution to be restored before each recording
	if ctx.ExtIter == 0 || cfg.DualTime() {
		for level := 0; level < len(z.Solvers[iteration.AdjFlowSys]); level++ {
			storeDirect(z, iteration.FlowSys, iteration.AdjFlowSys, level)
		}
		if cfg.Turbulent() {
			storeDirect(z, iteration.TurbSys, iteration.AdjTurbSys, iteration.Mesh0)
		}
		if cfg.Flow.WeaklyHeat {
			storeDirect(z, iteration.HeatSys, iteration.AdjHeatSys, iteration.Mesh0)
		}
	}

	// adjoint residuals
	err = z.Solver(iteration.AdjFlowSys, iteration.Mesh0).Preprocessing(ctx, iteration.Mesh0)
	if err != nil {
		return
	}
	if cfg.Turbulent() {
		err = z.Solver(iteration.AdjTurbSys, iteration.Mesh0).Preprocessing(ctx, iteration.Mesh0)
		if err != nil {
			return
		}
	}
	if cfg.Flow.WeaklyHeat {
		err = z.Solver(iteration.AdjHeatSys, iteration.Mesh0).Preprocessing(ctx, iteration.Mesh0)
	}
	return
}

// Iterate extracts the adjoints of the inputs after a reverse sweep and monitors the residual
func (o *DiscAdjFluid) Iterate(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	adj := adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0)
	adj.ExtractAdjointSolution(ctx)
	adj.ExtractAdjointVariables(ctx)
	z.Integration(iteration.AdjFlowSys).ConvergenceMonitoring(ctx, math.Log10(adj.ResRMS(0)))
	if cfg.Turbulent() {
		adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).ExtractAdjointSolution(ctx)
	}
	if cfg.Flow.WeaklyHeat {
		adjSolver(z, iteration.AdjHeatSys, iteration.Mesh0).ExtractAdjointSolution(ctx)
	}
	return
}

// InitializeAdjoint seeds the objective function and the adjoints of the output variables
func (o *DiscAdjFluid) InitializeAdjoint(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	adj := adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0)
	adj.SetAdjObjFunc(ctx)
	adj.SetAdjointOutput(ctx)
	if cfg.Turbulent() {
		adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).SetAdjointOutput(ctx)
	}
	if cfg.Flow.WeaklyHeat {
		adjSolver(z, iteration.AdjHeatSys, iteration.Mesh0).SetAdjointOutput(ctx)
	}
	return
}

// InitializeAdjointCrossTerm seeds the objective function and the output adjoints of the flow and
// turbulence when the coupling terms of other disciplines are computed
//  Note: the one-shot variant does not seed the flow outputs here
func (o *DiscAdjFluid) InitializeAdjointCrossTerm(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	adj := adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0)
	adj.SetAdjObjFunc(ctx)
	if cfg.Solver.Kind != "oneshot" {
		adj.SetAdjointOutput(ctx)
	}
	if cfg.Turbulent() {
		adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).SetAdjointOutput(ctx)
	}
	return
}

// RegisterInput registers the inputs of kind
func (o *DiscAdjFluid) RegisterInput(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	switch kind {
	case FlowConsVars, Combined:
		adj := adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0)
		adj.RegisterSolution(ctx)
		adj.RegisterVariables(ctx)
		if cfg.Turbulent() {
			adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).RegisterSolution(ctx)
		}
		if cfg.Flow.WeaklyHeat {
			adjSolver(z, iteration.AdjHeatSys, iteration.Mesh0).RegisterSolution(ctx)
		}
	case MeshCoords, GeometryCrossTerm:
		z.Geometry(iteration.Mesh0).RegisterCoordinates(ctx)
	case FlowCrossTerm:
		adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0).RegisterSolution(ctx)
		if cfg.Turbulent() {
			adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).RegisterSolution(ctx)
		}
	}
	return
}

// SetRecording restores the direct solution of all adjoint solvers before a pass
func (o *DiscAdjFluid) SetRecording(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	if z.HasSolver(iteration.AdjFEASys) {
		adjSolver(z, iteration.AdjFEASys, iteration.Mesh0).SetRecording(ctx)
	}
	for level := 0; level < len(z.Solvers[iteration.AdjFlowSys]); level++ {
		adjSolver(z, iteration.AdjFlowSys, level).SetRecording(ctx)
	}
	if cfg.Turbulent() {
		adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).SetRecording(ctx)
	}
	if cfg.Flow.WeaklyHeat {
		adjSolver(z, iteration.AdjHeatSys, iteration.Mesh0).SetRecording(ctx)
	}
	return
}

// SetDependencies updates the grid when required and recomputes the flow-turbulence and
// flow-heat coupling
func (o *DiscAdjFluid) SetDependencies(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	if updatesGeometry(kind) {
		o.Zone.Geometry(iteration.Mesh0).UpdateGeometry(ctx)
	}
	return o.coupling(ctx)
}

// RegisterOutput registers the direct state as output
func (o *DiscAdjFluid) RegisterOutput(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	registerOutput(ctx, o.Zone, iteration.FlowSys)
	if cfg.Turbulent() {
		registerOutput(ctx, o.Zone, iteration.TurbSys)
	}
	if cfg.Flow.WeaklyHeat {
		registerOutput(ctx, o.Zone, iteration.HeatSys)
	}
	return
}

// Update resets the convergence flag of dual-time runs
func (o *DiscAdjFluid) Update(ctx *iteration.StepContext) (err error) {
	if ctx.Cfg.DualTime() {
		o.Zone.Integration(iteration.AdjFlowSys).SetConvergence(false)
	}
	return
}

// Monitor returns the adjoint convergence and writes the history of steady runs
func (o *DiscAdjFluid) Monitor(ctx *iteration.StepContext) (stop bool) {
	cfg := ctx.Cfg
	o.Toc()
	stop = o.Zone.Integration(iteration.AdjFlowSys).Convergence()
	if cfg.Steady() && !(cfg.Solver.Multizone && cfg.Solver.NInnerIter == 1) {
		o.Out.SetConvHistoryBody(ctx, iteration.AdjFlowSys, o.UsedTime)
	}
	return
}

// Solve runs Preprocess and the reverse sweeps on the current recording
func (o *DiscAdjFluid) Solve(ctx *iteration.StepContext) error {
	return Solve(o, ctx)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// coupling exchanges the flow solution and recomputes the turbulence and heat states depending on it
func (o *DiscAdjFluid) coupling(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	flow := z.Solver(iteration.FlowSys, iteration.Mesh0)
	comms(flow)
	if cfg.Turbulent() {
		ctx.SetGlobalParam(iteration.FlowSys)
		err = flow.Preprocessing(ctx, iteration.Mesh0)
		if err != nil {
			return
		}
		turb := z.Solver(iteration.TurbSys, iteration.Mesh0)
		err = turb.Postprocessing(ctx, iteration.Mesh0)
		if err != nil {
			return
		}
		comms(turb)
	}
	if cfg.Flow.WeaklyHeat {
		err = heatDependencies(ctx, z)
	}
	return
}

// heatDependencies recomputes the heat-flux areas and the heat state
func heatDependencies(ctx *iteration.StepContext, z *iteration.Zone) (err error) {
	heat := z.Heat()
	heat.SetHeatfluxAreas(ctx)
	ctx.SetGlobalParam(iteration.HeatSys)
	err = heat.Preprocessing(ctx, iteration.Mesh0)
	if err != nil {
		return
	}
	err = heat.Postprocessing(ctx, iteration.Mesh0)
	if err != nil {
		return
	}
	comms(heat)
	return
}
