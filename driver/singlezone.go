// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"time"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
	"github.com/rs/zerolog"
)

// Singlezone runs the forward time loop of one zone
type Singlezone struct {
	Zone    *iteration.Zone     // collaborators
	It      iteration.Iteration // forward iteration
	Sys     iteration.System    // direct system holding the physical time convergence
	Log     zerolog.Logger      // run events
	Metrics *Metrics            // counters
}

// NewSinglezone returns a new forward driver of the forward kind of the zone's iteration
func NewSinglezone(z *iteration.Zone, out iteration.Output, log zerolog.Logger, m *Metrics) (o *Singlezone, err error) {
	direct, sys, _, err := Disciplines(z.Cfg.Solver.Kind)
	if err != nil {
		return
	}
	it, err := iteration.New(direct, z, out)
	if err != nil {
		return
	}
	if m == nil {
		m = NewMetrics("su2oneshot")
	}
	o = &Singlezone{Zone: z, It: it, Sys: sys, Log: log, Metrics: m}
	return
}

// Preprocess sets the physical time step and the initial condition of the first step
func (o *Singlezone) Preprocess(ctx *iteration.StepContext, timeIter int) (err error) {
	ctx.ExtIter = timeIter
	ctx.IntIter = 0
	if timeIter == 0 {
		o.Zone.Solver(o.Sys, iteration.Mesh0).SetInitialCondition(ctx)
	}
	return
}

// Run runs all physical time steps; steady runs have one step
//  Note: unsteady runs persist the direct state of each step for the adjoint and stop when
//        Update marks the physical time as reached
func (o *Singlezone) Run(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	n := NTimeIter(cfg)
	for timeIter := 0; timeIter < n; timeIter++ {

		// solve
		t0 := time.Now()
		err = o.Preprocess(ctx, timeIter)
		if err != nil {
			return
		}
		err = o.It.Solve(ctx)
		if err != nil {
			return chk.Err("forward solution failed at time step %d:\n%v", timeIter, err)
		}
		err = o.It.Update(ctx)
		if err != nil {
			return chk.Err("update failed at time step %d:\n%v", timeIter, err)
		}

		// persist direct state
		if cfg.Unsteady() {
			err = o.SaveRestart(ctx, timeIter)
			if err != nil {
				return
			}
		}
		err = o.It.Postprocess(ctx)
		if err != nil {
			return chk.Err("postprocess failed at time step %d:\n%v", timeIter, err)
		}

		// monitor
		o.Metrics.TimeSteps.Inc()
		o.Metrics.observe("forward", t0)
		o.Log.Info().Int("step", timeIter).Str("sys", o.Sys.String()).Float64("res", residual(o.Zone, o.Sys)).Msg("time step")
		if cfg.Unsteady() {
			integr := o.Zone.Integration(o.Sys)
			stop := integr.Convergence()
			integr.SetConvergence(false)
			if stop {
				ctx.Printf(" Physical time reached at step %d.\n", timeIter)
				break
			}
		}
	}
	return
}

// SaveRestart persists the state of all direct solvers at step
func (o *Singlezone) SaveRestart(ctx *iteration.StepContext, step int) (err error) {
	for _, sys := range directSystems {
		if !o.Zone.HasSolver(sys) {
			continue
		}
		if r, ok := o.Zone.Solver(sys, iteration.Mesh0).(Restarter); ok {
			err = r.SaveRestart(ctx, step)
			if err != nil {
				return chk.Err("cannot save %v restart of step %d:\n%v", sys, step, err)
			}
		}
	}
	return
}
