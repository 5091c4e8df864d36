// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Stepper advances the state of a solver by one step
type Stepper interface {
	Step(ctx *iteration.StepContext) error
	Residual() float64 // norm of the last update or residual
}

// Integration implements iteration.Integration for one system
//  Note: the solution has converged when log10 of the monitored value is below Tol
type Integration struct {
	Stepper  Stepper   // solver of the system; nil for adjoint systems
	Tol      float64   // tolerance on log10 of the residual
	Monitors []float64 // all monitored values
	conv     bool      // convergence flag
}

// NewIntegration returns a new integration service
func NewIntegration(s Stepper, tol float64) *Integration {
	return &Integration{Stepper: s, Tol: tol}
}

// MultiGridIteration runs one step; the grid has one level
func (o *Integration) MultiGridIteration(ctx *iteration.StepContext, sys iteration.System) error {
	return o.step(ctx, sys)
}

// SingleGridIteration runs one step
func (o *Integration) SingleGridIteration(ctx *iteration.StepContext, sys iteration.System) error {
	return o.step(ctx, sys)
}

// StructuralIteration runs one Newton update
func (o *Integration) StructuralIteration(ctx *iteration.StepContext, sys iteration.System) error {
	return o.step(ctx, sys)
}

// SetDualTimeSolver pushes back the time levels of a field
func (o *Integration) SetDualTimeSolver(ctx *iteration.StepContext, level int) {
	if f, ok := o.Stepper.(*Field); ok {
		f.SetDualTime()
	}
}

// SetStructuralSolver pushes back the time levels of a structure
func (o *Integration) SetStructuralSolver(ctx *iteration.StepContext) {
	if s, ok := o.Stepper.(*Spring); ok {
		s.SetDynamic()
	}
}

// ConvergenceMonitoring sets the convergence flag
func (o *Integration) ConvergenceMonitoring(ctx *iteration.StepContext, monitor float64) {
	o.Monitors = append(o.Monitors, monitor)
	o.conv = monitor < o.Tol
}

// SetConvergence sets the convergence flag
func (o *Integration) SetConvergence(converged bool) { o.conv = converged }

// Convergence returns the convergence flag
func (o *Integration) Convergence() bool { return o.conv }

// step runs one step and monitors the residual
func (o *Integration) step(ctx *iteration.StepContext, sys iteration.System) (err error) {
	if o.Stepper == nil {
		return chk.Err("%v integration has no solver to step", sys)
	}
	err = o.Stepper.Step(ctx)
	if err != nil {
		return
	}
	o.ConvergenceMonitoring(ctx, math.Log10(o.Stepper.Residual()))
	return
}
