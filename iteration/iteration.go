// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package iteration implements the phases of one discipline step (fluid, turbomachinery,
// high-order fluid, heat and structure) driven through a StepContext
package iteration

import (
	"sort"
	"time"

	"github.com/cpmech/gosl/chk"
)

// Iteration defines the phases of one discipline step
type Iteration interface {
	Preprocess(ctx *StepContext) error                  // setup before the inner loop
	Iterate(ctx *StepContext) error                     // advances the state by one inner step
	Update(ctx *StepContext) error                      // pushes back time levels and tests physical time
	Monitor(ctx *StepContext) bool                      // returns true if the inner loop must stop
	Output(ctx *StepContext, iter int, stop bool) error // writes result files if required
	Postprocess(ctx *StepContext) error                 // finalisation after the inner loop
	Solve(ctx *StepContext) error                       // Preprocess once, then Iterate and Monitor
}

// allocators holds all available iterations; kind => allocator
var allocators = make(map[string]func(z *Zone, out Output) Iteration)

// Register registers an allocator; panics if kind was registered already
func Register(kind string, alloc func(z *Zone, out Output) Iteration) {
	if _, ok := allocators[kind]; ok {
		chk.Panic("iteration %q is registered already", kind)
	}
	allocators[kind] = alloc
}

// New allocates a new iteration
//  Input:
//    kind -- fluid, turbo, femfluid, heat, fea, adjfluid, discadjfluid, discadjturbo,
//            discadjheat, discadjfea or oneshot
//    z    -- zone with the collaborators
//    out  -- output collaborator
func New(kind string, z *Zone, out Output) (it Iteration, err error) {
	alloc, ok := allocators[kind]
	if !ok {
		return nil, chk.Err("cannot find iteration named %q", kind)
	}
	return alloc(z, out), nil
}

// Kinds returns the names of all registered iterations
func Kinds() (kinds []string) {
	for k := range allocators {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return
}

// Base implements the default phases
type Base struct {
	Zone      *Zone     // collaborators
	Out       Output    // output collaborator
	StartTime time.Time // wall clock at the beginning of the step
	UsedTime  float64   // wall time [s] used by the step so far
}

// Preprocess does nothing
func (o *Base) Preprocess(ctx *StepContext) error { return nil }

// Iterate does nothing
func (o *Base) Iterate(ctx *StepContext) error { return nil }

// Update does nothing
func (o *Base) Update(ctx *StepContext) error { return nil }

// Monitor never stops
func (o *Base) Monitor(ctx *StepContext) bool { return false }

// Postprocess does nothing
func (o *Base) Postprocess(ctx *StepContext) error { return nil }

// Output writes result files when required
func (o *Base) Output(ctx *StepContext, iter int, stop bool) (err error) {
	if !WriteResults(ctx, iter) {
		return
	}
	err = o.Out.SetResultFiles(ctx, iter)
	if err != nil {
		return chk.Err("cannot write result files:\n%v", err)
	}
	err = o.Out.SetSpecialOutput(ctx, iter)
	if err != nil {
		return chk.Err("cannot write special output:\n%v", err)
	}
	return
}

// Tic sets the starting time
func (o *Base) Tic() {
	o.StartTime = time.Now()
}

// Toc updates the used time
func (o *Base) Toc() {
	o.UsedTime = time.Since(o.StartTime).Seconds()
}

// WriteResults returns whether result files must be written at iter
func WriteResults(ctx *StepContext, iter int) (write bool) {
	cfg := ctx.Cfg
	freq := cfg.Output.WrtSolFreq
	dclIter := cfg.Solver.NExtIter - cfg.Flow.IterDCLDAlpha - 1
	periodic := cfg.Steady() || cfg.Harmonic() || cfg.RotatingFrame()
	if freq > 0 && iter%freq == 0 && iter != 0 && periodic {
		write = true
	}
	if cfg.Output.WrtInletFile {
		write = true
	}
	if cfg.Flow.FixedCL {
		if dclIter == iter {
			write = true
		}
		if dclIter < iter {
			write = false
		}
		if cfg.Solver.NExtIter-1 == iter {
			write = true
		}
	}
	return
}

// Loop runs Preprocess once then Iterate and Monitor at most N times; the convergence flag of
// integr is always false when Loop returns
//  Note: N = nInnerIter for multizone problems; nIter otherwise. With N == 1, the driving
//        counter is the outer (block-coupling) iteration
func Loop(it Iteration, b *Base, integr Integration, ctx *StepContext) (err error) {
	defer integr.SetConvergence(false)
	cfg := ctx.Cfg
	n := cfg.Solver.NIter
	if cfg.Solver.Multizone {
		n = cfg.Solver.NInnerIter
	}
	b.Tic()
	err = it.Preprocess(ctx)
	if err != nil {
		return chk.Err("preprocess failed:\n%v", err)
	}
	for i := 0; i < n; i++ {
		if n == 1 {
			ctx.SetDriving(ctx.OuterIter)
		} else {
			ctx.SetDriving(i)
		}
		err = it.Iterate(ctx)
		if err != nil {
			return chk.Err("iterate failed at inner iteration %d:\n%v", i, err)
		}
		stop := it.Monitor(ctx)
		if cfg.Singlezone() {
			err = it.Output(ctx, i, stop)
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
