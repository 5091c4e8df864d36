// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import "github.com/bmunguia/su2-oneshot/iteration"

// DiscAdjTurbo implements the discrete adjoint of the turbomachinery iteration; the boundary
// averages are recomputed inside each recorded pass
type DiscAdjTurbo struct {
	DiscAdjFluid
}

// set factory
func init() {
	iteration.Register("discadjturbo", func(z *iteration.Zone, out iteration.Output) iteration.Iteration {
		return NewDiscAdjTurbo(z, out)
	})
}

// NewDiscAdjTurbo returns a new discrete adjoint turbomachinery iteration
func NewDiscAdjTurbo(z *iteration.Zone, out iteration.Output) *DiscAdjTurbo {
	return &DiscAdjTurbo{DiscAdjFluid: *NewDiscAdjFluid(z, out)}
}

// SetDependencies recomputes the fluid coupling and the averages on the inflow and outflow boundaries
func (o *DiscAdjTurbo) SetDependencies(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	err = o.DiscAdjFluid.SetDependencies(ctx, kind)
	if err != nil {
		return
	}
	turbo := o.Zone.Turbo()
	turbo.TurboAverageProcess(ctx, iteration.Inflow)
	turbo.TurboAverageProcess(ctx, iteration.Outflow)
	turbo.GatherInOutAverageValues(ctx)
	return
}

// Postprocess computes the turbomachinery performance of single-zone runs
func (o *DiscAdjTurbo) Postprocess(ctx *iteration.StepContext) (err error) {
	if ctx.Cfg.Singlezone() {
		o.Out.ComputeTurboPerformance(ctx)
	}
	return
}

// Solve runs Preprocess and the reverse sweeps on the current recording
func (o *DiscAdjTurbo) Solve(ctx *iteration.StepContext) error {
	return Solve(o, ctx)
}
