// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Loader reconstructs the time levels of the direct trajectory replayed by one unsteady adjoint step
//  Note: the steps must be loaded oldest first; each push back assumes the destination slot is free
type Loader struct {
	Zone    *iteration.Zone    // collaborators
	Systems []iteration.System // direct systems loaded and shifted together; the first one is the mean flow (or heat)
	Name    string             // name used in messages
}

// NewLoader returns a loader of the direct systems of a fluid (or heat) adjoint
//  Input:
//    z    -- zone with the direct solvers
//    heat -- heat equation only; otherwise: mean flow plus turbulence (RANS) and weakly coupled heat
func NewLoader(z *iteration.Zone, heat bool) (o *Loader) {
	o = &Loader{Zone: z}
	if heat {
		o.Systems = []iteration.System{iteration.HeatSys}
		o.Name = "heat"
		return
	}
	o.Systems = []iteration.System{iteration.FlowSys}
	o.Name = "flow"
	if z.Cfg.Rans() {
		o.Systems = append(o.Systems, iteration.TurbSys)
	}
	if z.Cfg.Flow.WeaklyHeat {
		o.Systems = append(o.Systems, iteration.HeatSys)
	}
	return
}

// DirectIter returns the direct step replayed at the adjoint step ctx.ExtIter
func DirectIter(ctx *iteration.StepContext) (d int) {
	d = ctx.Cfg.Adjoint.UnstAdjointIter - ctx.ExtIter - 2
	if ctx.Cfg.DualTime() {
		d++
	}
	return
}

// Load loads the direct time levels of an unsteady run; does nothing for steady runs
func (o *Loader) Load(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	if cfg.Steady() {
		return
	}
	d := DirectIter(ctx)
	if ctx.ExtIter == 0 {
		if cfg.DualTime2nd() {
			err = o.LoadStep(ctx, d-2)
			if err != nil {
				return
			}
			o.shift(iteration.SlotTimeN, iteration.SlotSol)
			o.shift(iteration.SlotTimeN1, iteration.SlotTimeN)
		}
		if cfg.DualTime() {
			err = o.LoadStep(ctx, d-1)
			if err != nil {
				return
			}
			o.shift(iteration.SlotTimeN, iteration.SlotSol)
		}
		return o.LoadStep(ctx, d)
	}
	if !cfg.DualTime() {
		return
	}

	// previous level into the old slot; then push the levels forward
	if cfg.DualTime1st() {
		err = o.LoadStep(ctx, d-1)
	} else {
		err = o.LoadStep(ctx, d-2)
	}
	if err != nil {
		return
	}
	o.shift(iteration.SlotOld, iteration.SlotSol)
	o.shift(iteration.SlotSol, iteration.SlotTimeN)
	if cfg.DualTime1st() {
		o.shift(iteration.SlotTimeN, iteration.SlotOld)
		return
	}
	o.shift(iteration.SlotTimeN, iteration.SlotTimeN1)
	o.shift(iteration.SlotTimeN1, iteration.SlotOld)
	return
}

// LoadStep loads the direct solution of step into SlotSol; a negative step sets the
// free-stream state
func (o *Loader) LoadStep(ctx *iteration.StepContext, step int) (err error) {
	if step >= 0 {
		ctx.Printf(" Loading %s solution from direct iteration %d.\n", o.Name, step)
		for _, sys := range o.Systems {
			err = o.Zone.Solver(sys, iteration.Mesh0).LoadRestart(ctx, step)
			if err != nil {
				return chk.Err("cannot load %v solution of direct iteration %d:\n%v", sys, step, err)
			}
		}
		return
	}
	ctx.Printf(" Setting freestream conditions at direct iteration %d.\n", step)
	for _, sys := range o.Systems {
		for level, s := range o.Zone.Solvers[sys] {
			s.SetFreeStreamSolution()
			if sys == iteration.FlowSys {
				err = s.Preprocessing(ctx, level)
			} else {
				err = s.Postprocessing(ctx, level)
			}
			if err != nil {
				return chk.Err("cannot set %v free-stream state on level %d:\n%v", sys, level, err)
			}
		}
	}
	return
}

// shift copies slot src into slot dst of all systems on all levels
func (o *Loader) shift(dst, src iteration.Slot) {
	for _, sys := range o.Systems {
		for _, s := range o.Zone.Solvers[sys] {
			s.CopySlot(dst, src)
		}
	}
}
