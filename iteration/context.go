// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/cpmech/gosl/io"
)

// StepContext holds the iteration counters of one zone/instance
//  Note: the counters are mutated only through the StepContext passed to each call
type StepContext struct {

	// location
	Zone int // zone index
	Inst int // instance index

	// counters
	ExtIter   int // physical time step (or steady iteration)
	IntIter   int // inner pseudo-time or Newton iteration
	OuterIter int // block-coupling iteration (multizone/FSI)

	// runtime
	System System // runtime system set by SetGlobalParam before calling a discipline

	// configuration
	Cfg     *inp.Config // configuration of this zone
	Root    bool        // root processor
	Verbose bool        // verbose printing (only on the root processor)
}

// NewStepContext returns a context for one zone/instance with zeroed counters
func NewStepContext(cfg *inp.Config, zone, inst int) (o *StepContext) {
	o = new(StepContext)
	o.Zone = zone
	o.Inst = inst
	o.Cfg = cfg
	o.Root = true
	o.Verbose = cfg.Data.Verbose
	return
}

// SetDriving sets the driving counter: ExtIter when steady; IntIter with dual-time stepping
func (o *StepContext) SetDriving(i int) {
	if o.Cfg.Steady() {
		o.ExtIter = i
	}
	if o.Cfg.DualTime() {
		o.IntIter = i
	}
}

// Driving returns the driving counter
func (o *StepContext) Driving() int {
	if o.Cfg.DualTime() {
		return o.IntIter
	}
	return o.ExtIter
}

// SetGlobalParam sets the runtime system before calling a discipline
func (o *StepContext) SetGlobalParam(sys System) {
	o.System = sys
}

// Key returns the registry key of this context
func (o *StepContext) Key() Key {
	return Key{o.Zone, o.Inst}
}

// Clone returns a copy of the counters sharing the same configuration
func (o *StepContext) Clone() *StepContext {
	c := *o
	return &c
}

// Printf prints a message when verbose
func (o *StepContext) Printf(msg string, prm ...interface{}) {
	if o.Verbose && o.Root {
		io.Pf(msg, prm...)
	}
}
