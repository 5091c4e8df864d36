// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Iteration is a discrete-adjoint iteration
type Iteration interface {
	iteration.Iteration
	Recordable
	InitializeAdjoint(ctx *iteration.StepContext) error // seeds the objective and the output adjoints
	Attach(s *Session)                                  // sets the tape session
	Session() *Session                                  // returns the tape session; may be nil
	Integration() iteration.Integration                 // integration holding the adjoint convergence flag
}

// NAdjointIter returns the number of reverse sweeps of one adjoint step
func NAdjointIter(ctx *iteration.StepContext) int {
	if ctx.Cfg.Steady() {
		return ctx.Cfg.Solver.NAdjIter
	}
	return ctx.Cfg.Solver.NInnerIter
}

// Loop runs the reverse sweeps of one adjoint step on the recorded tape; the adjoint convergence
// flag is false when Loop returns
//  Note: each sweep seeds the objective (InitializeAdjoint and seed), computes the adjoint,
//        extracts it (Iterate), tests convergence (Monitor) and clears the adjoint values
//  Input:
//    seed -- extra seeding after InitializeAdjoint; e.g. the driver's objective function. may be nil
func Loop(it Iteration, ctx *iteration.StepContext, seed func(ctx *iteration.StepContext) error) (err error) {
	s := it.Session()
	if s == nil {
		return chk.Err("adjoint loop requires a tape session")
	}
	integr := it.Integration()
	defer integr.SetConvergence(false)
	steady := ctx.Cfg.Steady()
	n := NAdjointIter(ctx)
	for i := 0; i < n; i++ {
		ctx.IntIter = i
		if steady {
			ctx.ExtIter = i
		}
		err = it.InitializeAdjoint(ctx)
		if err != nil {
			return chk.Err("cannot initialize adjoint at sweep %d:\n%v", i, err)
		}
		if seed != nil {
			err = seed(ctx)
			if err != nil {
				return chk.Err("cannot seed objective function at sweep %d:\n%v", i, err)
			}
		}
		err = s.ComputeAdjoint()
		if err != nil {
			return
		}
		err = it.Iterate(ctx)
		if err != nil {
			return chk.Err("adjoint iterate failed at sweep %d:\n%v", i, err)
		}
		stop := it.Monitor(ctx)
		err = s.ClearAdjoints()
		if err != nil {
			return
		}
		if steady {
			err = it.Output(ctx, ctx.ExtIter, stop)
			if err != nil {
				return
			}
		}
		if stop {
			break
		}
	}
	return
}

// Solve runs Preprocess and then the reverse sweeps on the current recording
func Solve(it Iteration, ctx *iteration.StepContext) (err error) {
	err = it.Preprocess(ctx)
	if err != nil {
		return chk.Err("adjoint preprocess failed:\n%v", err)
	}
	return Loop(it, ctx, nil)
}
