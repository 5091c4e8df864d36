// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import "github.com/bmunguia/su2-oneshot/iteration"

// DiscAdjHeat implements the discrete adjoint of the heat iteration
type DiscAdjHeat struct {
	iteration.Base
	Loader  *Loader  // direct time levels of unsteady runs
	session *Session // tape
}

// set factory
func init() {
	iteration.Register("discadjheat", func(z *iteration.Zone, out iteration.Output) iteration.Iteration {
		return NewDiscAdjHeat(z, out)
	})
}

// NewDiscAdjHeat returns a new discrete adjoint heat iteration
func NewDiscAdjHeat(z *iteration.Zone, out iteration.Output) *DiscAdjHeat {
	return &DiscAdjHeat{
		Base:   iteration.Base{Zone: z, Out: out},
		Loader: NewLoader(z, true),
	}
}

// Attach sets the tape session
func (o *DiscAdjHeat) Attach(s *Session) { o.session = s }

// Session returns the tape session
func (o *DiscAdjHeat) Session() *Session { return o.session }

// Integration returns the adjoint heat integration
func (o *DiscAdjHeat) Integration() iteration.Integration {
	return o.Zone.Integration(iteration.AdjHeatSys)
}

// Preprocess loads the direct time levels, stores the direct solution and stages the adjoint residual
func (o *DiscAdjHeat) Preprocess(ctx *iteration.StepContext) (err error) {
	o.Tic()
	ctx.IntIter = 0
	err = o.Loader.Load(ctx)
	if err != nil {
		return
	}
	if ctx.ExtIter == 0 || ctx.Cfg.DualTime() {
		storeDirect(o.Zone, iteration.HeatSys, iteration.AdjHeatSys, iteration.Mesh0)
	}
	return o.Zone.Solver(iteration.AdjHeatSys, iteration.Mesh0).Preprocessing(ctx, iteration.Mesh0)
}

// Iterate extracts the adjoint solution
func (o *DiscAdjHeat) Iterate(ctx *iteration.StepContext) (err error) {
	adjSolver(o.Zone, iteration.AdjHeatSys, iteration.Mesh0).ExtractAdjointSolution(ctx)
	return
}

// InitializeAdjoint seeds the adjoints of the output temperatures
func (o *DiscAdjHeat) InitializeAdjoint(ctx *iteration.StepContext) (err error) {
	adjSolver(o.Zone, iteration.AdjHeatSys, iteration.Mesh0).SetAdjointOutput(ctx)
	return
}

// RegisterInput registers the temperatures (FlowConsVars or Combined) or the grid coordinates
func (o *DiscAdjHeat) RegisterInput(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	switch kind {
	case FlowConsVars, Combined:
		adj := adjSolver(o.Zone, iteration.AdjHeatSys, iteration.Mesh0)
		adj.RegisterSolution(ctx)
		adj.RegisterVariables(ctx)
	case MeshCoords:
		o.Zone.Geometry(iteration.Mesh0).RegisterCoordinates(ctx)
	}
	return
}

// SetRecording restores the direct solution before a pass
func (o *DiscAdjHeat) SetRecording(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	adjSolver(o.Zone, iteration.AdjHeatSys, iteration.Mesh0).SetRecording(ctx)
	return
}

// SetDependencies updates the grid when required and recomputes the heat state
func (o *DiscAdjHeat) SetDependencies(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	if updatesGeometry(kind) {
		o.Zone.Geometry(iteration.Mesh0).UpdateGeometry(ctx)
	}
	return heatDependencies(ctx, o.Zone)
}

// RegisterOutput registers the temperatures and the grid coordinates as output
func (o *DiscAdjHeat) RegisterOutput(ctx *iteration.StepContext) (err error) {
	adjSolver(o.Zone, iteration.AdjHeatSys, iteration.Mesh0).RegisterOutput(ctx)
	o.Zone.Geometry(iteration.Mesh0).RegisterOutputCoordinates(ctx)
	return
}

// Update resets the convergence flag of dual-time runs
func (o *DiscAdjHeat) Update(ctx *iteration.StepContext) (err error) {
	if ctx.Cfg.DualTime() {
		o.Zone.Integration(iteration.AdjHeatSys).SetConvergence(false)
	}
	return
}

// Output does nothing; the heat adjoint writes no result files
func (o *DiscAdjHeat) Output(ctx *iteration.StepContext, iter int, stop bool) error { return nil }

// Solve runs Preprocess and the reverse sweeps on the current recording
func (o *DiscAdjHeat) Solve(ctx *iteration.StepContext) error {
	return Solve(o, ctx)
}
