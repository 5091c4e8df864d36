// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// AdjointField implements the discrete adjoint of a Field
//  Note: the adjoint solution is kept in SlotSol and the one of the previous sweep in SlotOld
type AdjointField struct {
	*Slots
	Sys    iteration.System // AdjFlowSys or AdjHeatSys
	Direct *Field           // direct solver
	Obj    *Objective       // objective seeded by SetAdjObjFunc; may be nil

	// sensitivities
	SensQ float64 // adjoint of the source

	// auxiliary
	in  []Real  // registered state
	qin Real    // registered source
	res float64 // RMS of the last adjoint update
}

// NewAdjointField returns the adjoint of a field solver
func NewAdjointField(sys iteration.System, direct *Field) (o *AdjointField) {
	o = new(AdjointField)
	o.Slots = NewSlots(len(direct.U))
	o.Sys = sys
	o.Direct = direct
	return
}

// Preprocessing does nothing
func (o *AdjointField) Preprocessing(ctx *iteration.StepContext, level int) error { return nil }

// Postprocessing does nothing
func (o *AdjointField) Postprocessing(ctx *iteration.StepContext, level int) error { return nil }

// InitiateComms does nothing
func (o *AdjointField) InitiateComms(kind iteration.CommKind) {}

// CompleteComms does nothing
func (o *AdjointField) CompleteComms(kind iteration.CommKind) {}

// LoadRestart fails; adjoint states are not persisted
func (o *AdjointField) LoadRestart(ctx *iteration.StepContext, step int) error {
	return chk.Err("%v solver has no restarts", o.Sys)
}

// SetFreeStreamSolution zeroes the adjoint solution
func (o *AdjointField) SetFreeStreamSolution() { o.ZeroSlot(iteration.SlotSol) }

// SetInitialCondition zeroes the adjoint solution
func (o *AdjointField) SetInitialCondition(ctx *iteration.StepContext) {
	o.ZeroSlot(iteration.SlotSol)
}

// ResRMS returns the RMS of the last adjoint update
func (o *AdjointField) ResRMS(ivar int) float64 { return o.res }

// SetRecording restores the direct solution; state and source become passive
func (o *AdjointField) SetRecording(ctx *iteration.StepContext) {
	o.Direct.SetField(iteration.SlotSol, o.Slots.Field(iteration.SlotDirect))
	o.Direct.Q = o.Direct.Q.Passive()
}

// RegisterSolution registers the direct state as input
func (o *AdjointField) RegisterSolution(ctx *iteration.StepContext) {
	t := o.Direct.Tape
	for i := range o.Direct.U {
		t.Register(&o.Direct.U[i])
	}
	o.in = append(o.in[:0], o.Direct.U...)
}

// RegisterVariables registers the source as input
func (o *AdjointField) RegisterVariables(ctx *iteration.StepContext) {
	o.Direct.Tape.Register(&o.Direct.Q)
	o.qin = o.Direct.Q
}

// RegisterOutput registers the direct state as output
func (o *AdjointField) RegisterOutput(ctx *iteration.StepContext) {
	o.Direct.RegisterOutput(ctx)
}

// ExtractAdjointSolution stores the adjoints of the registered state and updates the residual
func (o *AdjointField) ExtractAdjointSolution(ctx *iteration.StepContext) {
	lam := o.extract()
	sol := o.Slots.Field(iteration.SlotSol)
	sum := 0.0
	for i := range lam {
		d := lam[i] - sol[i]
		sum += d * d
	}
	o.res = math.Sqrt(sum / float64(len(lam)))
	o.Slots.CopySlot(iteration.SlotOld, iteration.SlotSol)
	o.Slots.SetField(iteration.SlotSol, lam)
}

// ExtractAdjointSolutionClean stores the adjoints of the registered state
func (o *AdjointField) ExtractAdjointSolutionClean(ctx *iteration.StepContext) {
	o.Slots.CopySlot(iteration.SlotOld, iteration.SlotSol)
	o.Slots.SetField(iteration.SlotSol, o.extract())
}

// ExtractAdjointVariables stores the adjoint of the source
func (o *AdjointField) ExtractAdjointVariables(ctx *iteration.StepContext) {
	o.SensQ = o.Direct.Tape.Gradient(o.qin)
}

// SetAdjObjFunc seeds the objective function
func (o *AdjointField) SetAdjObjFunc(ctx *iteration.StepContext) {
	if o.Obj != nil {
		o.Obj.Seed(ctx, ObjWeight(ctx))
	}
}

// SetAdjointOutput seeds the output adjoints with the adjoint solution
func (o *AdjointField) SetAdjointOutput(ctx *iteration.StepContext) {
	o.seed(o.Slots.Field(iteration.SlotSol), nil)
}

// SetAdjointOutputUpdate seeds the output adjoints with the last adjoint update
func (o *AdjointField) SetAdjointOutputUpdate(ctx *iteration.StepContext) {
	o.seed(o.Slots.Field(iteration.SlotSol), o.Slots.Field(iteration.SlotOld))
}

// SetAdjointOutputZero seeds the output adjoints with zero
func (o *AdjointField) SetAdjointOutputZero(ctx *iteration.StepContext) {
	o.seed(make([]float64, len(o.Direct.Out)), nil)
}

// SetSensitivity stores the adjoints of the grid coordinates
func (o *AdjointField) SetSensitivity(ctx *iteration.StepContext) {
	o.Direct.Grid.SetSensitivity()
}

// Sensitivity returns the stored sensitivity of the coordinate of a point
func (o *AdjointField) Sensitivity(ipoint int) float64 {
	return o.Direct.Grid.Sensitivity(ipoint)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// extract returns the adjoints of the registered state; zero if the state was not registered
func (o *AdjointField) extract() (lam []float64) {
	lam = make([]float64, len(o.Direct.U))
	for i := range o.in {
		lam[i] = o.Direct.Tape.Gradient(o.in[i])
	}
	return
}

// seed sets the adjoints of the outputs to a - b
func (o *AdjointField) seed(a, b []float64) {
	t := o.Direct.Tape
	for i, out := range o.Direct.Out {
		v := a[i]
		if b != nil {
			v -= b[i]
		}
		t.SetGradient(out, v)
	}
}
