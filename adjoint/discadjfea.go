// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"math"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// DiscAdjFEA implements the discrete adjoint of the structural iteration. It holds the forward
// structural iteration and records it itself
type DiscAdjFEA struct {
	iteration.Base
	FEA      *iteration.FEA // forward structural iteration
	Recorder Recorder       // recording controller
	Report   *Report        // sensitivity reports of standalone runs; may be nil

	// auxiliary
	header bool // report header written
}

// set factory
func init() {
	iteration.Register("discadjfea", func(z *iteration.Zone, out iteration.Output) iteration.Iteration {
		return NewDiscAdjFEA(z, out)
	})
}

// NewDiscAdjFEA returns a new discrete adjoint structural iteration; the reports are written in the
// output directory of standalone (not FSI) runs
func NewDiscAdjFEA(z *iteration.Zone, out iteration.Output) (o *DiscAdjFEA) {
	o = &DiscAdjFEA{
		Base: iteration.Base{Zone: z, Out: out},
		FEA:  iteration.NewFEA(z, out),
	}
	if !z.Cfg.Solver.FSI {
		o.Report = &Report{Dir: z.Cfg.Data.DirOut, Verbose: z.Cfg.Data.Verbose}
	}
	return
}

// Attach sets the tape session
func (o *DiscAdjFEA) Attach(s *Session) { o.Recorder.Session = s }

// Session returns the tape session
func (o *DiscAdjFEA) Session() *Session { return o.Recorder.Session }

// Integration returns the adjoint structural integration
func (o *DiscAdjFEA) Integration() iteration.Integration {
	return o.Zone.Integration(iteration.AdjFEASys)
}

// DirectExtIter returns the direct step replayed by a dynamic adjoint at ctx.ExtIter
func (o *DiscAdjFEA) DirectExtIter(ctx *iteration.StepContext) int {
	return ctx.Cfg.Adjoint.UnstAdjointIter - ctx.ExtIter - 1
}

// Preprocess loads the direct states of dynamic runs, stores the direct solution and stages the
// adjoint residual
func (o *DiscAdjFEA) Preprocess(ctx *iteration.StepContext) (err error) {

	// report header
	cfg := ctx.Cfg
	z := o.Zone
	if o.Report != nil && ctx.Root && !o.header {
		err = o.Report.WriteHeader(cfg)
		if err != nil {
			return
		}
		o.header = true
	}

	// direct states
	ctx.IntIter = 0
	fea := z.Solver(iteration.FEASys, iteration.Mesh0)
	adj := z.Solver(iteration.AdjFEASys, iteration.Mesh0)
	if cfg.Struct.Dynamic {
		d := o.DirectExtIter(ctx)
		err = o.LoadDynamic(ctx, d-1)
		if err != nil {
			return
		}
		fea.CopySlot(iteration.SlotTimeN, iteration.SlotSol)
		fea.CopySlot(iteration.SlotAccelN, iteration.SlotAccel)
		fea.CopySlot(iteration.SlotVelN, iteration.SlotVel)
		err = o.LoadDynamic(ctx, d)
		if err != nil {
			return
		}
		adj.SetField(iteration.SlotDirect, fea.Field(iteration.SlotSol))
		adj.SetField(iteration.SlotDirectAccel, fea.Field(iteration.SlotAccel))
		adj.SetField(iteration.SlotDirectVel, fea.Field(iteration.SlotVel))
	} else {
		adj.SetField(iteration.SlotDirect, fea.Field(iteration.SlotSol))
	}
	return adj.Preprocessing(ctx, iteration.Mesh0)
}

// LoadDynamic loads the direct state of step; a negative step sets the static state (zero
// displacement, acceleration and velocity)
func (o *DiscAdjFEA) LoadDynamic(ctx *iteration.StepContext, step int) (err error) {
	fea := o.Zone.Solver(iteration.FEASys, iteration.Mesh0)
	if step >= 0 {
		ctx.Printf(" Loading FEA solution from direct iteration %d.\n", step)
		err = fea.LoadRestart(ctx, step)
		if err != nil {
			return chk.Err("cannot load structural solution of direct iteration %d:\n%v", step, err)
		}
		return
	}
	ctx.Printf(" Setting static conditions at direct iteration %d.\n", step)
	fea.ZeroSlot(iteration.SlotSol)
	fea.ZeroSlot(iteration.SlotAccel)
	fea.ZeroSlot(iteration.SlotVel)
	return
}

// Record records one forward structural iteration with the inputs of kind
//  Note: dynamic runs replay the direct step UnstAdjointIter - ExtIter - 1; the counters are
//        restored afterwards
func (o *DiscAdjFEA) Record(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	intIter := ctx.IntIter
	extIter := ctx.ExtIter
	defer func() { ctx.IntIter = intIter }()
	forward := func(c *iteration.StepContext) (e error) {
		if c.Cfg.Struct.Dynamic {
			c.ExtIter = o.DirectExtIter(c)
		}
		defer func() { c.ExtIter = extIter }()
		return o.FEA.Iterate(c)
	}
	return o.Recorder.Record(ctx, kind, o, forward)
}

// Iterate extracts the adjoints of the displacements and material variables
func (o *DiscAdjFEA) Iterate(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	adj := feaAdjoint(o.Zone)
	integr := o.Zone.Integration(iteration.AdjFEASys)
	adj.ExtractAdjointSolution(ctx)
	adj.ExtractAdjointVariables(ctx)
	integr.ConvergenceMonitoring(ctx, math.Log10(adj.ResRMS(0)))
	if ctx.IntIter != cfg.Solver.NIter-1 {
		o.Out.SetConvHistoryBody(ctx, iteration.AdjFEASys, 0)
	}
	if cfg.Struct.Dynamic {
		integr.SetConvergence(false)
	}
	return
}

// InitializeAdjoint seeds the objective function and the adjoints of the output displacements
func (o *DiscAdjFEA) InitializeAdjoint(ctx *iteration.StepContext) (err error) {
	adj := feaAdjoint(o.Zone)
	adj.SetAdjObjFunc(ctx)
	adj.SetAdjointOutput(ctx)
	return
}

// InitializeAdjointCrossTerm seeds the objective function and the output adjoints when the coupling
// terms of other disciplines are computed
func (o *DiscAdjFEA) InitializeAdjointCrossTerm(ctx *iteration.StepContext) error {
	return o.InitializeAdjoint(ctx)
}

// SetRecording restores the direct solution before a pass
func (o *DiscAdjFEA) SetRecording(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	feaAdjoint(o.Zone).SetRecording(ctx)
	return
}

// RegisterInput registers the displacements and the material variables for any kind
func (o *DiscAdjFEA) RegisterInput(ctx *iteration.StepContext, kind RecordingKind) (err error) {
	adj := feaAdjoint(o.Zone)
	adj.RegisterSolution(ctx)
	adj.RegisterVariables(ctx)
	return
}

// SetDependencies passes the material, electric field and design variables of the adjoint solver
// to the numerics terms
func (o *DiscAdjFEA) SetDependencies(ctx *iteration.StepContext, kind RecordingKind) (err error) {

	// terms
	cfg := ctx.Cfg
	z := o.Zone
	adj := feaAdjoint(z)
	fea, ok := z.Numerics(iteration.FEATerm)
	if !ok {
		return chk.Err("structural adjoint requires the linear elasticity term")
	}
	elemBased := cfg.ElementBased()
	deEffects := cfg.DEEffects()
	var mats []iteration.Numerics
	if elemBased {
		for _, t := range []iteration.Term{iteration.MatNHComp, iteration.MatIdealDE, iteration.MatKnowles} {
			n, ok := z.Numerics(t)
			if !ok {
				return chk.Err("element-based structural adjoint requires numerics term %d", t)
			}
			mats = append(mats, n)
		}
	}
	var de iteration.Numerics
	if deEffects {
		de, ok = z.Numerics(iteration.DETerm)
		if !ok {
			return chk.Err("dielectric effects require the dielectric elastomer term")
		}
	}

	// material properties and densities
	for i := 0; i < cfg.Struct.NElasticity; i++ {
		young, poisson := adj.ValYoung(i), adj.ValPoisson(i)
		rho, rhoDL := adj.ValRho(i), adj.ValRhoDL(i)
		fea.SetMaterialProperties(i, young, poisson)
		fea.SetMaterialDensity(i, rho, rhoDL)
		for _, m := range mats {
			m.SetMaterialProperties(i, young, poisson)
			m.SetMaterialDensity(i, rho, rhoDL)
		}
	}

	// electric field
	if deEffects {
		for i := 0; i < adj.NEField(); i++ {
			fea.SetElectricField(i, adj.ValEField(i))
			de.SetElectricField(i, adj.ValEField(i))
		}
	}

	// design variables
	switch cfg.Struct.DV {
	case "young_modulus", "poisson_ratio", "density", "dead_weight", "electric_field":
		for i := 0; i < adj.NDVFEA(); i++ {
			v := adj.ValDVFEA(i)
			fea.SetDVVal(i, v)
			if deEffects {
				de.SetDVVal(i, v)
			}
			for _, m := range mats {
				m.SetDVVal(i, v)
			}
		}
	}
	return
}

// RegisterOutput registers the displacements as output
func (o *DiscAdjFEA) RegisterOutput(ctx *iteration.StepContext) (err error) {
	feaAdjoint(o.Zone).RegisterOutput(ctx)
	return
}

// Postprocess gathers the sensitivities, writes the reports and corrects the adjoint at the
// clamped markers
func (o *DiscAdjFEA) Postprocess(ctx *iteration.StepContext) (err error) {
	cfg := ctx.Cfg
	adj := feaAdjoint(o.Zone)
	adj.SetSensitivity(ctx)
	if o.Report != nil && ctx.Root {
		err = o.Report.AppendRow(ctx, o.Zone.Struct(), adj)
		if err != nil {
			return
		}
		err = o.Report.WriteGradient(cfg, adj)
		if err != nil {
			return
		}
	}
	for _, marker := range cfg.Struct.Clamped {
		adj.BCClampedPost(ctx, marker)
	}
	return
}

// Solve runs Preprocess, records the forward iteration if required and runs the reverse sweeps
func (o *DiscAdjFEA) Solve(ctx *iteration.StepContext) (err error) {
	err = o.Preprocess(ctx)
	if err != nil {
		return chk.Err("adjoint preprocess failed:\n%v", err)
	}
	if o.Recorder.Current != FlowConsVars || ctx.Cfg.Struct.Dynamic {
		err = o.Record(ctx, FlowConsVars)
		if err != nil {
			return
		}
	}
	return Loop(o, ctx, nil)
}
