// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"time"

	"github.com/bmunguia/su2-oneshot/adjoint"
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
	"github.com/rs/zerolog"
)

// DiscAdjSinglezone drives the discrete adjoint of one zone
//  Note: the tape holds the main recording (state variables) while the reverse sweeps run; the
//        secondary recording (grid coordinates) is made once in Postprocess to gather the
//        sensitivities
type DiscAdjSinglezone struct {

	// collaborators
	Zone     *iteration.Zone     // zone
	Adj      adjoint.Iteration   // adjoint iteration
	Direct   iteration.Iteration // forward iteration recorded on the tape; nil for structures
	FEA      *adjoint.DiscAdjFEA // structural adjoint recording itself; nil otherwise
	Session  *adjoint.Session    // tape session
	Recorder adjoint.Recorder    // recording controller of fluid and heat
	Obj      Objective           // objective function; nil for structures
	Log      zerolog.Logger      // run events
	Metrics  *Metrics            // counters

	// data
	NAdjointIter       int                   // reverse sweeps of one step
	MainVariables      adjoint.RecordingKind // kind of the main recording
	SecondaryVariables adjoint.RecordingKind // kind of the secondary recording; None to skip it
	ObjFunc            float64               // value of the objective function

	// auxiliary
	sys iteration.System // direct system
	adj iteration.System // adjoint system
}

// NewDiscAdjSinglezone returns a new discrete adjoint driver of the zone's iteration
//  Input:
//   obj -- objective function recorded after the forward pass; ignored by structures which
//          compute their own objective function
func NewDiscAdjSinglezone(z *iteration.Zone, out iteration.Output, session *adjoint.Session, obj Objective, log zerolog.Logger, m *Metrics) (o *DiscAdjSinglezone, err error) {

	// check
	cfg := z.Cfg
	if !cfg.DiscreteAdjoint() {
		return nil, chk.Err("iteration %q is not a discrete adjoint", cfg.Solver.Kind)
	}
	if session == nil {
		return nil, chk.Err("discrete adjoint driver requires a tape session")
	}
	direct, sys, adj, err := Disciplines(cfg.Solver.Kind)
	if err != nil {
		return
	}
	if m == nil {
		m = NewMetrics("su2oneshot")
	}

	// new driver
	o = &DiscAdjSinglezone{Zone: z, Session: session, Log: log, Metrics: m, sys: sys, adj: adj}
	it, err := iteration.New(cfg.Solver.Kind, z, out)
	if err != nil {
		return nil, err
	}
	var ok bool
	o.Adj, ok = it.(adjoint.Iteration)
	if !ok {
		return nil, chk.Err("iteration %q cannot run reverse sweeps", cfg.Solver.Kind)
	}
	o.Adj.Attach(session)

	// recordings
	o.MainVariables = adjoint.FlowConsVars
	if fea, isFEA := it.(*adjoint.DiscAdjFEA); isFEA {
		o.FEA = fea
		o.FEA.Recorder.Objective = o.SetObjFunction
		o.SecondaryVariables = adjoint.None
		return
	}
	o.Obj = obj
	o.SecondaryVariables = adjoint.MeshCoords
	o.Direct, err = iteration.New(direct, z, out)
	if err != nil {
		return nil, err
	}
	o.Recorder = adjoint.Recorder{Session: session, Objective: o.SetObjFunction}
	return
}

// RecordingState returns the kind held by the tape
func (o *DiscAdjSinglezone) RecordingState() adjoint.RecordingKind {
	if o.FEA != nil {
		return o.FEA.Recorder.Current
	}
	return o.Recorder.Current
}

// StartSolver runs Preprocess, Run and Postprocess for all physical time steps
func (o *DiscAdjSinglezone) StartSolver(ctx *iteration.StepContext) (err error) {
	n := NTimeIter(ctx.Cfg)
	for timeIter := 0; timeIter < n; timeIter++ {
		err = o.Preprocess(ctx, timeIter)
		if err != nil {
			return
		}
		err = o.Run(ctx)
		if err != nil {
			return
		}
		err = o.Postprocess(ctx)
		if err != nil {
			return
		}
	}
	return
}

// Preprocess prepares the adjoint step timeIter and records the main variables if the tape
// holds another recording or if the run is unsteady
func (o *DiscAdjSinglezone) Preprocess(ctx *iteration.StepContext, timeIter int) (err error) {
	ctx.ExtIter = timeIter
	err = o.Adj.Preprocess(ctx)
	if err != nil {
		return chk.Err("adjoint preprocess failed at time step %d:\n%v", timeIter, err)
	}
	if o.RecordingState() != o.MainVariables || ctx.Cfg.Unsteady() {
		err = o.MainRecording(ctx)
	}
	return
}

// Run runs the reverse sweeps on the main recording
func (o *DiscAdjSinglezone) Run(ctx *iteration.StepContext) (err error) {
	t0 := time.Now()
	o.NAdjointIter = adjoint.NAdjointIter(ctx)
	seed := func(c *iteration.StepContext) error {
		o.Metrics.Sweeps.Inc()
		return o.SetAdjObjFunction(c)
	}
	err = adjoint.Loop(o.Adj, ctx, seed)
	if err != nil {
		return chk.Err("reverse sweeps failed:\n%v", err)
	}
	o.Metrics.observe("sweeps", t0)
	o.Log.Info().Int("sweeps", ctx.IntIter+1).Str("sys", o.adj.String()).Float64("res", residual(o.Zone, o.adj)).Msg("adjoint step")
	return
}

// Postprocess records the secondary variables and gathers the sensitivities
func (o *DiscAdjSinglezone) Postprocess(ctx *iteration.StepContext) (err error) {
	if o.SecondaryVariables != adjoint.None {
		err = o.SecondaryRecording(ctx)
		if err != nil {
			return
		}
	}
	err = o.Adj.Postprocess(ctx)
	if err != nil {
		return chk.Err("adjoint postprocess failed:\n%v", err)
	}
	return
}

// SetRecording records one forward pass with the inputs of kind
func (o *DiscAdjSinglezone) SetRecording(ctx *iteration.StepContext, kind adjoint.RecordingKind) (err error) {
	t0 := time.Now()
	if o.FEA != nil {
		err = o.FEA.Record(ctx, kind)
	} else {
		err = o.Recorder.Record(ctx, kind, o.Adj, func(c *iteration.StepContext) error {
			return o.DirectRun(c, kind)
		})
	}
	if err != nil {
		return chk.Err("cannot record %v:\n%v", kind, err)
	}
	o.Metrics.Recordings.WithLabelValues(kind.String()).Inc()
	o.Metrics.observe("recording", t0)
	o.Log.Debug().Str("kind", kind.String()).Float64("obj", o.ObjFunc).Msg("recording")
	return
}

// DirectRun runs one forward iteration
func (o *DiscAdjSinglezone) DirectRun(ctx *iteration.StepContext, kind adjoint.RecordingKind) (err error) {
	err = o.Direct.Preprocess(ctx)
	if err != nil {
		return
	}
	err = o.Direct.Iterate(ctx)
	if err != nil {
		return
	}
	o.PrintDirectResidual(ctx, kind)
	return
}

// PrintDirectResidual prints the residual of the forward iteration of a recording
func (o *DiscAdjSinglezone) PrintDirectResidual(ctx *iteration.StepContext, kind adjoint.RecordingKind) {
	if kind != o.MainVariables {
		return
	}
	res := residual(o.Zone, o.sys)
	ctx.Printf("\n Direct iteration residual of %v recording: log10[RMS %v] = %g\n", kind, o.sys, res)
	o.Log.Debug().Str("sys", o.sys.String()).Float64("res", res).Msg("direct residual")
}

// SetObjFunction computes the objective function after the forward pass
func (o *DiscAdjSinglezone) SetObjFunction(ctx *iteration.StepContext) (err error) {
	switch {
	case o.Obj != nil:
		err = o.Obj.Compute(ctx)
		if err != nil {
			return
		}
		o.ObjFunc = o.Obj.Value()
	case o.FEA != nil:
		o.ObjFunc = o.Zone.Struct().Objective()
	}
	o.Metrics.ObjFunc.Set(o.ObjFunc)
	return
}

// SetAdjObjFunction seeds the adjoint of the objective function with one; unsteady runs scale the
// seed by the number of time steps
func (o *DiscAdjSinglezone) SetAdjObjFunction(ctx *iteration.StepContext) (err error) {
	if o.Obj == nil || !ctx.Root {
		return
	}
	seed := 1.0
	if ctx.Cfg.Unsteady() {
		seed = 1.0 / float64(ctx.Cfg.Solver.NExtIter)
	}
	return o.Obj.Seed(ctx, seed)
}

// MainRecording records the main variables after a passive pass
func (o *DiscAdjSinglezone) MainRecording(ctx *iteration.StepContext) (err error) {
	err = o.SetRecording(ctx, adjoint.None)
	if err != nil {
		return
	}
	return o.SetRecording(ctx, o.MainVariables)
}

// SecondaryRecording records the secondary variables after a passive pass and runs one reverse
// sweep to gather the sensitivities
func (o *DiscAdjSinglezone) SecondaryRecording(ctx *iteration.StepContext) (err error) {

	// recording
	err = o.SetRecording(ctx, adjoint.None)
	if err != nil {
		return
	}
	err = o.SetRecording(ctx, o.SecondaryVariables)
	if err != nil {
		return
	}

	// reverse sweep
	err = o.Adj.InitializeAdjoint(ctx)
	if err != nil {
		return
	}
	err = o.SetAdjObjFunction(ctx)
	if err != nil {
		return
	}
	err = o.Session.ComputeAdjoint()
	if err != nil {
		return
	}
	adj, ok := o.Zone.Solver(o.adj, iteration.Mesh0).(adjoint.AdjointSolver)
	if !ok {
		return chk.Err("%v solver cannot gather sensitivities", o.adj)
	}
	adj.SetSensitivity(ctx)
	return o.Session.ClearAdjoints()
}
