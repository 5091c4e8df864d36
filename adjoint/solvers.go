// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// AdjointSolver is the adjoint counterpart of a discipline solver; the direct solution stored
// in SlotDirect is restored by SetRecording
type AdjointSolver interface {
	iteration.Solver
	SetRecording(ctx *iteration.StepContext)                // restores the direct solution
	RegisterSolution(ctx *iteration.StepContext)            // registers the direct solution as input
	RegisterVariables(ctx *iteration.StepContext)           // registers the free-stream or material variables as input
	RegisterOutput(ctx *iteration.StepContext)              // registers the direct solution as output
	ExtractAdjointSolution(ctx *iteration.StepContext)      // stores the input adjoints and updates the residual
	ExtractAdjointSolutionClean(ctx *iteration.StepContext) // stores the input adjoints; residual untouched
	ExtractAdjointVariables(ctx *iteration.StepContext)     // stores the adjoints of the registered variables
	SetAdjObjFunc(ctx *iteration.StepContext)               // seeds the adjoint of the objective function
	SetAdjointOutput(ctx *iteration.StepContext)            // seeds the output adjoints with the current solution
	SetAdjointOutputUpdate(ctx *iteration.StepContext)      // seeds the output adjoints with the solution update
	SetAdjointOutputZero(ctx *iteration.StepContext)        // zeroes the output adjoints
	SetSensitivity(ctx *iteration.StepContext)              // gathers the sensitivities
}

// FEAAdjoint is the adjoint of a structural solver
type FEAAdjoint interface {
	AdjointSolver
	ValYoung(i int) float64   // elasticity modulus i
	ValPoisson(i int) float64 // Poisson ratio i
	ValRho(i int) float64     // density i
	ValRhoDL(i int) float64   // dead-load density i
	NEField() int             // number of electric field components
	ValEField(i int) float64  // electric field component i
	NDVFEA() int              // number of design variables
	ValDVFEA(i int) float64   // design variable i
	TotalSensE(i int) float64
	TotalSensNu(i int) float64
	TotalSensRho(i int) float64
	TotalSensEField(i int) float64
	TotalSensDVFEA(i int) float64
	BCClampedPost(ctx *iteration.StepContext, marker int) // corrects the adjoint at a clamped marker
}

// ContAdjFlow is the continuous adjoint flow solver
type ContAdjFlow interface {
	iteration.Solver
	SetForceProjVector(ctx *iteration.StepContext) // adjoint boundary condition on walls
	SetIntBoundaryJump(ctx *iteration.StepContext) // internal boundary condition on near-field surfaces
}

// OutputRegistrar is a direct solver that registers its state as tape output
type OutputRegistrar interface {
	RegisterOutput(ctx *iteration.StepContext)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// adjSolver returns the adjoint solver of sys on a multigrid level
func adjSolver(z *iteration.Zone, sys iteration.System, level int) AdjointSolver {
	s, ok := z.Solver(sys, level).(AdjointSolver)
	if !ok {
		chk.Panic("%v solver on level %d does not implement AdjointSolver", sys, level)
	}
	return s
}

// feaAdjoint returns the adjoint structural solver
func feaAdjoint(z *iteration.Zone) FEAAdjoint {
	s, ok := z.Solver(iteration.AdjFEASys, iteration.Mesh0).(FEAAdjoint)
	if !ok {
		chk.Panic("adjfea solver does not implement FEAAdjoint")
	}
	return s
}

// contAdjFlow returns the continuous adjoint flow solver on a multigrid level
func contAdjFlow(z *iteration.Zone, level int) ContAdjFlow {
	s, ok := z.Solver(iteration.AdjFlowSys, level).(ContAdjFlow)
	if !ok {
		chk.Panic("adjflow solver on level %d does not implement ContAdjFlow", level)
	}
	return s
}

// registerOutput registers the state of the direct solver of sys as tape output
func registerOutput(ctx *iteration.StepContext, z *iteration.Zone, sys iteration.System) {
	s, ok := z.Solver(sys, iteration.Mesh0).(OutputRegistrar)
	if !ok {
		chk.Panic("%v solver cannot register its state as output", sys)
	}
	s.RegisterOutput(ctx)
}

// storeDirect copies the solution of sys into the direct slot of the adjoint solver adj
func storeDirect(z *iteration.Zone, sys, adj iteration.System, level int) {
	z.Solver(adj, level).SetField(iteration.SlotDirect, z.Solver(sys, level).Field(iteration.SlotSol))
}

// updatesGeometry returns whether kind recomputes the dual grid before the recorded pass
func updatesGeometry(kind RecordingKind) bool {
	switch kind {
	case MeshCoords, None, GeometryCrossTerm, AllVariables:
		return true
	}
	return false
}

// comms exchanges the solution of a solver
func comms(s iteration.Solver) {
	s.InitiateComms(iteration.CommSolution)
	s.CompleteComms(iteration.CommSolution)
}
