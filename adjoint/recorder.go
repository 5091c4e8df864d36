// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Recordable is a discipline whose forward step can be recorded
type Recordable interface {
	SetRecording(ctx *iteration.StepContext, kind RecordingKind) error    // restores the direct solution before a pass
	RegisterInput(ctx *iteration.StepContext, kind RecordingKind) error   // registers the inputs of kind
	SetDependencies(ctx *iteration.StepContext, kind RecordingKind) error // recomputes the coupling variables
	RegisterOutput(ctx *iteration.StepContext) error                      // registers the direct state as output
}

// Recorder records one forward pass of a discipline on the tape
type Recorder struct {
	Session    *Session                              // tape session
	Current    RecordingKind                         // kind recorded last
	Objective  func(ctx *iteration.StepContext) error // computes and registers the objective function; may be nil
	Discharges int                                   // number of passive passes run to clear stale indices
}

// Record records one forward pass with the inputs of kind
//  Note: if a recording of a different kind exists, one passive pass is run first with all
//        coupling variables recomputed; this clears the tape indices held by the state
//        variables. Kind None runs a passive pass only
func (o *Recorder) Record(ctx *iteration.StepContext, kind RecordingKind, v Recordable, forward func(ctx *iteration.StepContext) error) (err error) {

	// check
	if o.Session == nil {
		return chk.Err("cannot record %v: recorder has no session", kind)
	}

	// reset the tape
	o.Session.Reset()

	// discharge the previous recording
	if kind != None && o.Current != kind && o.Current != None {
		ctx.Printf(" Clearing the %v recording before recording %v.\n", o.Current, kind)
		err = v.SetRecording(ctx, kind)
		if err != nil {
			return chk.Err("cannot prepare passive pass:\n%v", err)
		}
		err = v.SetDependencies(ctx, AllVariables)
		if err != nil {
			return chk.Err("cannot clear coupling variables:\n%v", err)
		}
		err = forward(ctx)
		if err != nil {
			return chk.Err("passive pass failed:\n%v", err)
		}
		o.Discharges++
	}

	// prepare and register the inputs
	err = v.SetRecording(ctx, kind)
	if err != nil {
		return chk.Err("cannot prepare %v recording:\n%v", kind, err)
	}
	if kind != None {
		err = o.Session.Start(kind)
		if err != nil {
			return
		}
		err = o.Session.RegisterInput()
		if err != nil {
			return
		}
		err = v.RegisterInput(ctx, kind)
		if err != nil {
			return chk.Err("cannot register %v inputs:\n%v", kind, err)
		}
	}

	// recorded pass
	err = v.SetDependencies(ctx, kind)
	if err != nil {
		return chk.Err("cannot set dependencies of %v recording:\n%v", kind, err)
	}
	err = forward(ctx)
	if err != nil {
		return chk.Err("%v recording failed:\n%v", kind, err)
	}

	// outputs
	if kind != None {
		err = o.Session.RegisterOutput()
		if err != nil {
			return
		}
		err = v.RegisterOutput(ctx)
		if err != nil {
			return chk.Err("cannot register outputs of %v recording:\n%v", kind, err)
		}
	}
	if o.Objective != nil {
		err = o.Objective(ctx)
		if err != nil {
			return chk.Err("cannot compute objective function:\n%v", err)
		}
	}
	if kind != None {
		err = o.Session.Stop()
		if err != nil {
			return
		}
	}
	o.Current = kind
	return
}
