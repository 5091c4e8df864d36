// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Spring implements a chain of nonlinear springs clamped at node 0 and loaded at the tip
//  Note: the force in spring j is f_j = E (d_j + α d_j³) with d_j = u_j - u_{j-1}. One step is a
//        Newton update u := u - K⁻¹ r where the tangent K is computed with plain values. Dynamic
//        runs add the inertia ρ (u - uⁿ) / Δt² to the residual
type Spring struct {
	*Slots
	Tape  *Tape   // recording
	Term  *Term   // material values used by the elements
	U     []Real  // [n] displacements of nodes 1..n
	F     float64 // tip load
	Alpha float64 // cubic stiffening
	Grav  float64 // dead load per unit dead-load density

	// objective functions
	RefNode int       // index in U of the reference node
	Target  float64   // target displacement of the reference node
	RefGeom []float64 // [n] reference geometry; zero if nil
	Obj     Real      // last computed objective function

	// results
	Out    []Real    // displacements registered as tape output
	Stress []float64 // [n] spring forces

	// auxiliary
	load     float64    // load increment
	coeff    float64    // force coefficient
	resfem   [3]float64 // displacement, residual and energy norms
	initial  []float64  // stored initial condition
	restarts restarts   // persisted states
}

// NewSpring returns a chain with n free nodes
func NewSpring(tape *Tape, term *Term, n int, force, alpha float64) (o *Spring) {
	if n < 1 {
		chk.Panic("spring chain requires at least one free node")
	}
	o = new(Spring)
	o.Slots = NewSlots(n)
	o.Tape = tape
	o.Term = term
	o.U = make([]Real, n)
	o.F = force
	o.Alpha = alpha
	o.RefNode = n - 1
	o.Stress = make([]float64, n)
	o.load, o.coeff = 1, 1
	o.restarts = make(restarts)
	return
}

// Step runs one Newton update
func (o *Spring) Step(ctx *iteration.StepContext) (err error) {

	// auxiliary
	t := o.Tape
	n := len(o.U)
	k := o.Term.E[0]
	ext := t.Scale(o.load*o.coeff*o.Grav, o.Term.RhoDL[0])

	// spring forces and tangent stiffnesses
	f := make([]Real, n+1)
	kt := make([]float64, n+1)
	var prev Real
	for j := 0; j < n; j++ {
		d := t.Sub(o.U[j], prev)
		f[j] = t.Mul(k, t.Add(d, t.Scale(o.Alpha, t.Cube(d))))
		kt[j] = k.V * (1 + 3*o.Alpha*d.V*d.V)
		prev = o.U[j]
	}

	// residual and tangent
	var inertia Real
	var m, dt2 float64
	var timeN []float64
	if ctx != nil && ctx.Cfg.Struct.Dynamic {
		dt2 = ctx.Cfg.Struct.DynDt * ctx.Cfg.Struct.DynDt
		inertia = t.Scale(1/dt2, o.Term.Rho[0])
		m = inertia.V
		timeN = o.Slots.Field(iteration.SlotTimeN)
	}
	r := make([]Real, n)
	K := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		r[i] = t.Sub(t.Sub(f[i], f[i+1]), ext)
		if i == n-1 {
			r[i] = t.Shift(r[i], -o.load*o.coeff*o.F)
		}
		K.Set(i, i, kt[i]+kt[i+1])
		if i < n-1 {
			K.Set(i, i+1, -kt[i+1])
			K.Set(i+1, i, -kt[i+1])
		}
		if timeN != nil {
			r[i] = t.Add(r[i], t.Mul(inertia, t.Shift(o.U[i], -timeN[i])))
			K.Set(i, i, K.At(i, i)+m)
		}
	}
	var P mat.Dense
	err = P.Inverse(K)
	if err != nil {
		return chk.Err("singular structural tangent:\n%v", err)
	}

	// update
	unew := make([]Real, n)
	var du2, r2, en float64
	for i := 0; i < n; i++ {
		var du Real
		for j := 0; j < n; j++ {
			du = t.Add(du, t.Scale(P.At(i, j), r[j]))
		}
		unew[i] = t.Sub(o.U[i], du)
		du2 += du.V * du.V
		r2 += r[i].V * r[i].V
		en += du.V * r[i].V
	}
	o.resfem = [3]float64{math.Sqrt(du2), math.Sqrt(r2), math.Abs(en)}
	o.U = unew
	o.sync()
	if timeN != nil {
		o.kinematics(ctx)
	}
	return
}

// Residual returns the norm of the last residual
func (o *Spring) Residual() float64 { return o.resfem[1] }

// SetField copies v into slot s; the displacements follow the solution slot
func (o *Spring) SetField(s iteration.Slot, v []float64) {
	o.Slots.SetField(s, v)
	if s == iteration.SlotSol {
		o.passive()
	}
}

// CopySlot sets dst := src; the displacements follow the solution slot
func (o *Spring) CopySlot(dst, src iteration.Slot) {
	o.Slots.CopySlot(dst, src)
	if dst == iteration.SlotSol {
		o.passive()
	}
}

// ZeroSlot sets s := 0; the displacements follow the solution slot
func (o *Spring) ZeroSlot(s iteration.Slot) {
	o.Slots.ZeroSlot(s)
	if s == iteration.SlotSol {
		o.passive()
	}
}

// Preprocessing does nothing
func (o *Spring) Preprocessing(ctx *iteration.StepContext, level int) error { return nil }

// Postprocessing does nothing
func (o *Spring) Postprocessing(ctx *iteration.StepContext, level int) error { return nil }

// InitiateComms does nothing
func (o *Spring) InitiateComms(kind iteration.CommKind) {}

// CompleteComms does nothing
func (o *Spring) CompleteComms(kind iteration.CommKind) {}

// SaveRestart persists the displacements, accelerations and velocities of step
func (o *Spring) SaveRestart(ctx *iteration.StepContext, step int) error {
	o.restarts.save(step, o, iteration.SlotSol, iteration.SlotAccel, iteration.SlotVel)
	return nil
}

// LoadRestart loads the state persisted at step
func (o *Spring) LoadRestart(ctx *iteration.StepContext, step int) error {
	return o.restarts.load(step, o, "fea")
}

// SetFreeStreamSolution zeroes the displacements
func (o *Spring) SetFreeStreamSolution() { o.ZeroSlot(iteration.SlotSol) }

// SetInitialCondition stores the current displacements
func (o *Spring) SetInitialCondition(ctx *iteration.StepContext) {
	o.initial = append(o.initial[:0], o.Slots.Field(iteration.SlotSol)...)
}

// ResetInitialCondition restores the displacements stored by SetInitialCondition
func (o *Spring) ResetInitialCondition(ctx *iteration.StepContext) {
	if len(o.initial) == len(o.U) {
		o.SetField(iteration.SlotSol, o.initial)
	}
}

// ResRMS returns the norm of the last displacement update
func (o *Spring) ResRMS(ivar int) float64 { return o.resfem[0] }

// ResFEM returns the displacement (0), residual (1) or energy (2) norm
func (o *Spring) ResFEM(i int) float64 { return o.resfem[i] }

// ComputeNodalStress computes the spring forces
func (o *Spring) ComputeNodalStress(ctx *iteration.StepContext) {
	k := o.Term.E[0].V
	prev := 0.0
	for j, u := range o.U {
		d := u.V - prev
		o.Stress[j] = k * (d + o.Alpha*d*d*d)
		prev = u.V
	}
}

// SetLoadIncrement sets the load increment
func (o *Spring) SetLoadIncrement(f float64) { o.load = f }

// SetForceCoeff sets the force coefficient
func (o *Spring) SetForceCoeff(f float64) { o.coeff = f }

// StiffnessPenalty does nothing; the chain has no penalty term
func (o *Spring) StiffnessPenalty(ctx *iteration.StepContext) {}

// ComputeOFRefGeom computes J = Σ (u_i - ref_i)²
func (o *Spring) ComputeOFRefGeom(ctx *iteration.StepContext) {
	t := o.Tape
	var j Real
	for i, u := range o.U {
		ref := 0.0
		if o.RefGeom != nil {
			ref = o.RefGeom[i]
		}
		j = t.Add(j, t.Sq(t.Shift(u, -ref)))
	}
	o.Obj = j
}

// ComputeOFRefNode computes J = (u_ref - target)²
func (o *Spring) ComputeOFRefNode(ctx *iteration.StepContext) {
	t := o.Tape
	o.Obj = t.Sq(t.Shift(o.U[o.RefNode], -o.Target))
}

// ComputeOFVolFrac computes J as the mean density
func (o *Spring) ComputeOFVolFrac(ctx *iteration.StepContext) {
	t := o.Tape
	o.Obj = t.Scale(1/float64(len(o.Term.Rho)), t.Sum(o.Term.Rho...))
}

// Objective returns the last computed objective function
func (o *Spring) Objective() float64 { return o.Obj.V }

// PredictStructDisplacement predicts the displacements with the current velocities
func (o *Spring) PredictStructDisplacement(ctx *iteration.StepContext) {
	dt := ctx.Cfg.Struct.DynDt
	sol := o.Slots.Field(iteration.SlotSol)
	vel := o.Slots.Field(iteration.SlotVel)
	pred := make([]float64, len(sol))
	for i := range sol {
		pred[i] = sol[i] + dt*vel[i]
	}
	o.Slots.SetField(iteration.SlotPred, pred)
}

// ImplicitNewmarkRelaxation does nothing; the predicted displacements are relaxed by the iteration
func (o *Spring) ImplicitNewmarkRelaxation(ctx *iteration.StepContext) {}

// SetDynamic pushes back the time levels
func (o *Spring) SetDynamic() {
	o.Slots.CopySlot(iteration.SlotTimeN, iteration.SlotSol)
	o.Slots.CopySlot(iteration.SlotAccelN, iteration.SlotAccel)
	o.Slots.CopySlot(iteration.SlotVelN, iteration.SlotVel)
}

// RegisterOutput keeps the displacements as tape output
func (o *Spring) RegisterOutput(ctx *iteration.StepContext) {
	o.Out = append(o.Out[:0], o.U...)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// kinematics computes the velocities and accelerations by backward differences
func (o *Spring) kinematics(ctx *iteration.StepContext) {
	dt := ctx.Cfg.Struct.DynDt
	sol := o.Slots.Field(iteration.SlotSol)
	solN := o.Slots.Field(iteration.SlotTimeN)
	velN := o.Slots.Field(iteration.SlotVelN)
	vel := make([]float64, len(sol))
	acc := make([]float64, len(sol))
	for i := range sol {
		vel[i] = (sol[i] - solN[i]) / dt
		acc[i] = (vel[i] - velN[i]) / dt
	}
	o.Slots.SetField(iteration.SlotVel, vel)
	o.Slots.SetField(iteration.SlotAccel, acc)
}

// sync copies the displacements into the solution slot
func (o *Spring) sync() {
	sol := o.Slots.Field(iteration.SlotSol)
	for i := range o.U {
		sol[i] = o.U[i].V
	}
}

// passive sets the displacements from the solution slot; the displacements become passive
func (o *Spring) passive() {
	sol := o.Slots.Field(iteration.SlotSol)
	o.U = make([]Real, len(sol))
	for i, v := range sol {
		o.U[i] = Const(v)
	}
}
