// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
)

// OneShot implements the one-shot fluid iteration: flow state and grid coordinates are recorded
// together (Combined) so that one tape serves the primal and adjoint updates of each outer step
type OneShot struct {
	DiscAdjFluid
}

// set factory
func init() {
	iteration.Register("oneshot", func(z *iteration.Zone, out iteration.Output) iteration.Iteration {
		return NewOneShot(z, out)
	})
}

// NewOneShot returns a new one-shot iteration
func NewOneShot(z *iteration.Zone, out iteration.Output) *OneShot {
	return &OneShot{DiscAdjFluid: *NewDiscAdjFluid(z, out)}
}

// RegisterInput registers the flow state (FlowConsVars or Combined) and the grid coordinates
// (MeshCoords or Combined)
func (o *OneShot) RegisterInput(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	if kind == FlowConsVars || kind == Combined {
		adj := adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0)
		adj.RegisterSolution(ctx)
		adj.RegisterVariables(ctx)
		if cfg.Turbulent() {
			adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).RegisterSolution(ctx)
		}
	}
	if kind == MeshCoords || kind == Combined {
		z.Geometry(iteration.Mesh0).RegisterCoordinates(ctx)
	}
	return
}

// SetDependencies updates the grid (also for Combined) and recomputes the coupling
func (o *OneShot) SetDependencies(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	if updatesGeometry(kind) || kind == Combined {
		o.Zone.Geometry(iteration.Mesh0).UpdateGeometry(ctx)
	}
	return o.coupling(ctx)
}

// InitializeAdjointUpdate seeds the output adjoints with the adjoint update of the last step
func (o *OneShot) InitializeAdjointUpdate(ctx *iteration.StepContext) (err error) {
	z := o.Zone
	adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0).SetAdjointOutputUpdate(ctx)
	if ctx.Cfg.Turbulent() {
		adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).SetAdjointOutputUpdate(ctx)
	}
	return
}

// InitializeAdjointZero zeroes the output adjoints
func (o *OneShot) InitializeAdjointZero(ctx *iteration.StepContext) (err error) {
	z := o.Zone
	adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0).SetAdjointOutputZero(ctx)
	if ctx.Cfg.Turbulent() {
		adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).SetAdjointOutputZero(ctx)
	}
	return
}

// IterateNoResidual extracts the adjoints without updating the residual of the extracted
// solution; heat is not extracted. The history is written only if the configuration asks for it
func (o *OneShot) IterateNoResidual(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	z := o.Zone
	adj := adjSolver(z, iteration.AdjFlowSys, iteration.Mesh0)
	adj.ExtractAdjointSolutionClean(ctx)
	adj.ExtractAdjointVariables(ctx)
	z.Integration(iteration.AdjFlowSys).ConvergenceMonitoring(ctx, math.Log10(adj.ResRMS(0)))
	if cfg.Turbulent() {
		adjSolver(z, iteration.AdjTurbSys, iteration.Mesh0).ExtractAdjointSolutionClean(ctx)
	}
	if cfg.Adjoint.OneShotHistory {
		o.Out.SetConvHistoryBody(ctx, iteration.AdjFlowSys, 0)
	}
	return
}

// Solve runs Preprocess and the reverse sweeps on the current recording
func (o *OneShot) Solve(ctx *iteration.StepContext) error {
	return Solve(o, ctx)
}
