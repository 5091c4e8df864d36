// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Field implements a scalar diffusion-source solver usable as mean flow or heat
//  Note: one step computes u_i := (u_{i-1} + u_{i+1}) / 4 + Q h_i (+ u^n_i / 4 with dual-time
//        stepping) with u = 0 outside of the grid. The step is a contraction and its fixed point
//        depends on the source Q and on the coordinates through h
type Field struct {
	*Slots
	Sys  iteration.System // discipline
	Grid *Grid            // grid
	Tape *Tape            // recording
	U    []Real           // [npoint] state
	Q    Real             // source
	Inf  float64          // freestream value
	Vinf []float64        // freestream velocity

	// outputs
	Out []Real // state registered as tape output

	// turbomachinery averages
	AvgIn  float64 // average state on the inflow half
	AvgOut float64 // average state on the outflow half

	// wind gust
	Gust    [][]float64 // [npoint] gust velocities
	GustDer [][]float64 // [npoint] gust derivatives

	// auxiliary
	res      float64  // RMS of the last update
	restarts restarts // persisted states
}

// NewField returns a new field solver with zero state
func NewField(sys iteration.System, grid *Grid, q float64) (o *Field) {
	n := grid.NPoint()
	o = new(Field)
	o.Slots = NewSlots(n)
	o.Sys = sys
	o.Grid = grid
	o.Tape = grid.Tape
	o.U = make([]Real, n)
	o.Q = Const(q)
	o.Gust = make([][]float64, n)
	o.GustDer = make([][]float64, n)
	o.restarts = make(restarts)
	return
}

// Step advances the state by one step
func (o *Field) Step(ctx *iteration.StepContext) (err error) {
	t := o.Tape
	n := len(o.U)
	h := o.Grid.H
	var timeN []float64
	if ctx != nil && ctx.Cfg.DualTime() {
		timeN = o.Slots.Field(iteration.SlotTimeN)
	}
	unew := make([]Real, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		var nb Real
		if i > 0 {
			nb = o.U[i-1]
		}
		if i < n-1 {
			nb = t.Add(nb, o.U[i+1])
		}
		unew[i] = t.Add(t.Scale(0.25, nb), t.Mul(o.Q, h[i]))
		if timeN != nil {
			unew[i] = t.Shift(unew[i], 0.25*timeN[i])
		}
		d := unew[i].V - o.U[i].V
		sum += d * d
	}
	o.res = math.Sqrt(sum / float64(n))
	o.U = unew
	o.sync()
	if math.IsNaN(o.res) {
		return chk.Err("%v field diverged", o.Sys)
	}
	return
}

// Residual returns the RMS of the last update
func (o *Field) Residual() float64 { return o.res }

// SetField copies v into slot s; the state follows the solution slot
func (o *Field) SetField(s iteration.Slot, v []float64) {
	o.Slots.SetField(s, v)
	if s == iteration.SlotSol {
		o.passive()
	}
}

// CopySlot sets dst := src; the state follows the solution slot
func (o *Field) CopySlot(dst, src iteration.Slot) {
	o.Slots.CopySlot(dst, src)
	if dst == iteration.SlotSol {
		o.passive()
	}
}

// ZeroSlot sets s := 0; the state follows the solution slot
func (o *Field) ZeroSlot(s iteration.Slot) {
	o.Slots.ZeroSlot(s)
	if s == iteration.SlotSol {
		o.passive()
	}
}

// Preprocessing does nothing
func (o *Field) Preprocessing(ctx *iteration.StepContext, level int) error { return nil }

// Postprocessing does nothing
func (o *Field) Postprocessing(ctx *iteration.StepContext, level int) error { return nil }

// InitiateComms does nothing; the grid has one partition
func (o *Field) InitiateComms(kind iteration.CommKind) {}

// CompleteComms does nothing; the grid has one partition
func (o *Field) CompleteComms(kind iteration.CommKind) {}

// SaveRestart persists the solution of step
func (o *Field) SaveRestart(ctx *iteration.StepContext, step int) error {
	o.restarts.save(step, o, iteration.SlotSol)
	return nil
}

// LoadRestart loads the solution persisted at step
func (o *Field) LoadRestart(ctx *iteration.StepContext, step int) error {
	return o.restarts.load(step, o, o.Sys.String())
}

// SetFreeStreamSolution sets the freestream state
func (o *Field) SetFreeStreamSolution() {
	v := make([]float64, len(o.U))
	for i := range v {
		v[i] = o.Inf
	}
	o.SetField(iteration.SlotSol, v)
}

// SetInitialCondition sets the freestream state unless restarting
func (o *Field) SetInitialCondition(ctx *iteration.StepContext) {
	if !ctx.Cfg.Restarting() {
		o.SetFreeStreamSolution()
	}
}

// ResRMS returns the RMS of the last update
func (o *Field) ResRMS(ivar int) float64 { return o.res }

// RegisterOutput keeps the state as tape output
func (o *Field) RegisterOutput(ctx *iteration.StepContext) {
	o.Out = append(o.Out[:0], o.U...)
}

// flow and heat ///////////////////////////////////////////////////////////////////////////////////

// VelocityInf returns the freestream velocity component
func (o *Field) VelocityInf(idim int) float64 {
	if idim < len(o.Vinf) {
		return o.Vinf[idim]
	}
	return 0
}

// SetWindGust sets the gust velocity at a point
func (o *Field) SetWindGust(ipoint int, g []float64) {
	o.Gust[ipoint] = append(o.Gust[ipoint][:0], g...)
}

// SetWindGustDer sets the gust derivatives at a point
func (o *Field) SetWindGustDer(ipoint int, d []float64) {
	o.GustDer[ipoint] = append(o.GustDer[ipoint][:0], d...)
}

// Aeroelastic does nothing; the grid has no aeroelastic surfaces
func (o *Field) Aeroelastic(ctx *iteration.StepContext) error { return nil }

// SetHeatfluxAreas does nothing; the dual lengths are the areas
func (o *Field) SetHeatfluxAreas(ctx *iteration.StepContext) {}

// TurboAverageProcess averages the state on the inflow (first) or outflow (second) half
func (o *Field) TurboAverageProcess(ctx *iteration.StepContext, marker iteration.TurboMarker) {
	n := len(o.U)
	a, b := 0, n/2
	if marker == iteration.Outflow {
		a, b = n/2, n
	}
	sum := 0.0
	for i := a; i < b; i++ {
		sum += o.U[i].V
	}
	avg := sum / float64(b-a)
	if marker == iteration.Outflow {
		o.AvgOut = avg
	} else {
		o.AvgIn = avg
	}
}

// GatherInOutAverageValues does nothing; the averages are on the root processor
func (o *Field) GatherInOutAverageValues(ctx *iteration.StepContext) {}

// SetDualTime pushes back the time levels
func (o *Field) SetDualTime() {
	o.Slots.CopySlot(iteration.SlotTimeN1, iteration.SlotTimeN)
	o.Slots.CopySlot(iteration.SlotTimeN, iteration.SlotSol)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// sync copies the state into the solution slot
func (o *Field) sync() {
	sol := o.Slots.Field(iteration.SlotSol)
	for i := range o.U {
		sol[i] = o.U[i].V
	}
}

// passive sets the state from the solution slot; the state becomes passive
func (o *Field) passive() {
	sol := o.Slots.Field(iteration.SlotSol)
	o.U = make([]Real, len(sol))
	for i, v := range sol {
		o.U[i] = Const(v)
	}
}
