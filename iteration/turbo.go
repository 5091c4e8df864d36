// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

// Turbo implements the turbomachinery flow iteration; it extends Fluid with boundary averaging
type Turbo struct {
	Fluid
}

// set factory
func init() {
	Register("turbo", func(z *Zone, out Output) Iteration {
		return NewTurbo(z, out)
	})
}

// NewTurbo returns a new turbomachinery iteration
func NewTurbo(z *Zone, out Output) *Turbo {
	return &Turbo{Fluid: *NewFluid(z, out)}
}

// Preprocess averages the flow at the inflow and outflow boundaries
func (o *Turbo) Preprocess(ctx *StepContext) (err error) {
	turbo := o.Zone.Turbo()
	turbo.TurboAverageProcess(ctx, Inflow)
	turbo.TurboAverageProcess(ctx, Outflow)
	return
}

// Postprocess averages the boundaries and computes the turbomachinery performance
func (o *Turbo) Postprocess(ctx *StepContext) (err error) {
	turbo := o.Zone.Turbo()
	turbo.TurboAverageProcess(ctx, Inflow)
	turbo.TurboAverageProcess(ctx, Outflow)
	turbo.GatherInOutAverageValues(ctx)
	if ctx.Cfg.Singlezone() && ctx.Cfg.DiscreteAdjoint() {
		o.Out.ComputeTurboPerformance(ctx)
	}
	return
}

// Solve runs the inner loop
func (o *Turbo) Solve(ctx *StepContext) error {
	return Loop(o, &o.Base, o.Zone.Integration(FlowSys), ctx)
}
