// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// AdjointSpring implements the discrete adjoint of a Spring
type AdjointSpring struct {
	*Slots
	Direct  *Spring   // direct solver
	Mat     *Material // design values
	Dynamic bool      // accumulate the sensitivities of all time steps

	// sensitivities of the last sweep
	SensE, SensNu, SensRho, SensRhoDL, SensEField, SensDV []float64

	// total sensitivities
	totE, totNu, totRho, totEField, totDV []float64

	// auxiliary
	in  []Real  // registered displacements
	res float64 // norm of the last adjoint update
}

// NewAdjointSpring returns the adjoint of a spring chain
func NewAdjointSpring(direct *Spring, mat *Material, dynamic bool) (o *AdjointSpring) {
	o = new(AdjointSpring)
	o.Slots = NewSlots(len(direct.U))
	o.Direct = direct
	o.Mat = mat
	o.Dynamic = dynamic
	return
}

// Preprocessing does nothing
func (o *AdjointSpring) Preprocessing(ctx *iteration.StepContext, level int) error { return nil }

// Postprocessing does nothing
func (o *AdjointSpring) Postprocessing(ctx *iteration.StepContext, level int) error { return nil }

// InitiateComms does nothing
func (o *AdjointSpring) InitiateComms(kind iteration.CommKind) {}

// CompleteComms does nothing
func (o *AdjointSpring) CompleteComms(kind iteration.CommKind) {}

// LoadRestart fails; adjoint states are not persisted
func (o *AdjointSpring) LoadRestart(ctx *iteration.StepContext, step int) error {
	return chk.Err("adjfea solver has no restarts")
}

// SetFreeStreamSolution zeroes the adjoint solution
func (o *AdjointSpring) SetFreeStreamSolution() { o.ZeroSlot(iteration.SlotSol) }

// SetInitialCondition zeroes the adjoint solution
func (o *AdjointSpring) SetInitialCondition(ctx *iteration.StepContext) {
	o.ZeroSlot(iteration.SlotSol)
}

// ResRMS returns the norm of the last adjoint update
func (o *AdjointSpring) ResRMS(ivar int) float64 { return o.res }

// SetRecording restores the direct state; displacements and material become passive
func (o *AdjointSpring) SetRecording(ctx *iteration.StepContext) {
	d := o.Direct
	d.SetField(iteration.SlotSol, o.Slots.Field(iteration.SlotDirect))
	if o.Dynamic {
		d.Slots.SetField(iteration.SlotAccel, o.Slots.Field(iteration.SlotDirectAccel))
		d.Slots.SetField(iteration.SlotVel, o.Slots.Field(iteration.SlotDirectVel))
	}
	o.Mat.Passivate()
}

// RegisterSolution registers the displacements as input
func (o *AdjointSpring) RegisterSolution(ctx *iteration.StepContext) {
	for i := range o.Direct.U {
		o.Direct.Tape.Register(&o.Direct.U[i])
	}
	o.in = append(o.in[:0], o.Direct.U...)
}

// RegisterVariables registers the material values, electric field and design variables as input
func (o *AdjointSpring) RegisterVariables(ctx *iteration.StepContext) {
	o.Mat.Register(o.Direct.Tape)
}

// RegisterOutput registers the displacements as output
func (o *AdjointSpring) RegisterOutput(ctx *iteration.StepContext) {
	o.Direct.RegisterOutput(ctx)
}

// ExtractAdjointSolution stores the adjoints of the displacements and updates the residual
func (o *AdjointSpring) ExtractAdjointSolution(ctx *iteration.StepContext) {
	lam := o.extract()
	sol := o.Slots.Field(iteration.SlotSol)
	sum := 0.0
	for i := range lam {
		d := lam[i] - sol[i]
		sum += d * d
	}
	o.res = math.Sqrt(sum)
	o.Slots.CopySlot(iteration.SlotOld, iteration.SlotSol)
	o.Slots.SetField(iteration.SlotSol, lam)
}

// ExtractAdjointSolutionClean stores the adjoints of the displacements
func (o *AdjointSpring) ExtractAdjointSolutionClean(ctx *iteration.StepContext) {
	o.Slots.CopySlot(iteration.SlotOld, iteration.SlotSol)
	o.Slots.SetField(iteration.SlotSol, o.extract())
}

// ExtractAdjointVariables stores the adjoints of the material values
func (o *AdjointSpring) ExtractAdjointVariables(ctx *iteration.StepContext) {
	t := o.Direct.Tape
	o.SensE = gradients(t, o.Mat.E)
	o.SensNu = gradients(t, o.Mat.Nu)
	o.SensRho = gradients(t, o.Mat.Rho)
	o.SensRhoDL = gradients(t, o.Mat.RhoDL)
	o.SensEField = gradients(t, o.Mat.EField)
	o.SensDV = gradients(t, o.Mat.DV)
}

// SetAdjObjFunc seeds the objective function computed by the recorded iteration
func (o *AdjointSpring) SetAdjObjFunc(ctx *iteration.StepContext) {
	o.Direct.Tape.SetGradient(o.Direct.Obj, 1)
}

// SetAdjointOutput seeds the output adjoints with the adjoint solution
func (o *AdjointSpring) SetAdjointOutput(ctx *iteration.StepContext) {
	o.seed(o.Slots.Field(iteration.SlotSol), nil)
}

// SetAdjointOutputUpdate seeds the output adjoints with the last adjoint update
func (o *AdjointSpring) SetAdjointOutputUpdate(ctx *iteration.StepContext) {
	o.seed(o.Slots.Field(iteration.SlotSol), o.Slots.Field(iteration.SlotOld))
}

// SetAdjointOutputZero seeds the output adjoints with zero
func (o *AdjointSpring) SetAdjointOutputZero(ctx *iteration.StepContext) {
	o.seed(make([]float64, len(o.Direct.Out)), nil)
}

// SetSensitivity sets the total sensitivities; dynamic runs accumulate them over the time steps
func (o *AdjointSpring) SetSensitivity(ctx *iteration.StepContext) {
	o.totE = total(o.totE, o.SensE, o.Dynamic)
	o.totNu = total(o.totNu, o.SensNu, o.Dynamic)
	o.totRho = total(o.totRho, o.SensRho, o.Dynamic)
	o.totEField = total(o.totEField, o.SensEField, o.Dynamic)
	o.totDV = total(o.totDV, o.SensDV, o.Dynamic)
}

// BCClampedPost zeroes the adjoint displacement of a clamped node
func (o *AdjointSpring) BCClampedPost(ctx *iteration.StepContext, marker int) {
	sol := o.Slots.Field(iteration.SlotSol)
	if marker >= 0 && marker < len(sol) {
		sol[marker] = 0
	}
}

// material values /////////////////////////////////////////////////////////////////////////////////

// ValYoung returns the elasticity modulus i
func (o *AdjointSpring) ValYoung(i int) float64 { return value(o.Mat.E, i) }

// ValPoisson returns the Poisson ratio i
func (o *AdjointSpring) ValPoisson(i int) float64 { return value(o.Mat.Nu, i) }

// ValRho returns the density i
func (o *AdjointSpring) ValRho(i int) float64 { return value(o.Mat.Rho, i) }

// ValRhoDL returns the dead-load density i
func (o *AdjointSpring) ValRhoDL(i int) float64 { return value(o.Mat.RhoDL, i) }

// NEField returns the number of electric field components
func (o *AdjointSpring) NEField() int { return len(o.Mat.EField) }

// ValEField returns the electric field component i
func (o *AdjointSpring) ValEField(i int) float64 { return value(o.Mat.EField, i) }

// NDVFEA returns the number of design variables
func (o *AdjointSpring) NDVFEA() int { return len(o.Mat.DV) }

// ValDVFEA returns the design variable i
func (o *AdjointSpring) ValDVFEA(i int) float64 { return value(o.Mat.DV, i) }

// TotalSensE returns the total sensitivity of the elasticity modulus i
func (o *AdjointSpring) TotalSensE(i int) float64 { return at(o.totE, i) }

// TotalSensNu returns the total sensitivity of the Poisson ratio i
func (o *AdjointSpring) TotalSensNu(i int) float64 { return at(o.totNu, i) }

// TotalSensRho returns the total sensitivity of the density i
func (o *AdjointSpring) TotalSensRho(i int) float64 { return at(o.totRho, i) }

// TotalSensEField returns the total sensitivity of the electric field component i
func (o *AdjointSpring) TotalSensEField(i int) float64 { return at(o.totEField, i) }

// TotalSensDVFEA returns the total sensitivity of the design variable i
func (o *AdjointSpring) TotalSensDVFEA(i int) float64 { return at(o.totDV, i) }

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// extract returns the adjoints of the registered displacements
func (o *AdjointSpring) extract() (lam []float64) {
	lam = make([]float64, len(o.Direct.U))
	for i := range o.in {
		lam[i] = o.Direct.Tape.Gradient(o.in[i])
	}
	return
}

// seed sets the adjoints of the outputs to a - b
func (o *AdjointSpring) seed(a, b []float64) {
	t := o.Direct.Tape
	for i, out := range o.Direct.Out {
		v := a[i]
		if b != nil {
			v -= b[i]
		}
		t.SetGradient(out, v)
	}
}

// gradients returns the adjoint values of x
func gradients(t *Tape, x []Real) (g []float64) {
	g = make([]float64, len(x))
	for i, r := range x {
		g[i] = t.Gradient(r)
	}
	return
}

// total returns the new total sensitivities
func total(tot, local []float64, accumulate bool) []float64 {
	if !accumulate || len(tot) != len(local) {
		return append([]float64{}, local...)
	}
	for i := range tot {
		tot[i] += local[i]
	}
	return tot
}

// value returns the value of x[i]; zero if out of range
func value(x []Real, i int) float64 {
	if i < 0 || i >= len(x) {
		return 0
	}
	return x[i].V
}

// at returns v[i]; zero if out of range
func at(v []float64, i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}
