// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

// Storage holds the slots of a discretised state; each slot is a flat array of nPoint*nVar values
type Storage interface {
	Field(s Slot) []float64       // returns the values in slot s (shared; do not keep)
	SetField(s Slot, v []float64) // copies v into slot s
	CopySlot(dst, src Slot)       // dst := src
	ZeroSlot(s Slot)              // s := 0
}

// Solver advances the state of one discipline on one multigrid level
type Solver interface {
	Storage
	Preprocessing(ctx *StepContext, level int) error  // stages residuals and gradients
	Postprocessing(ctx *StepContext, level int) error // computes secondary variables
	InitiateComms(kind CommKind)                      // starts the halo exchange (collective)
	CompleteComms(kind CommKind)                      // completes the halo exchange (collective)
	LoadRestart(ctx *StepContext, step int) error     // loads the persisted state of step into SlotSol
	SetFreeStreamSolution()                           // sets the freestream state in SlotSol
	SetInitialCondition(ctx *StepContext)             // sets (or stores) the initial condition
	ResRMS(ivar int) float64                          // RMS residual of variable ivar
}

// FlowSolver is a mean-flow solver
type FlowSolver interface {
	Solver
	VelocityInf(idim int) float64        // freestream velocity component
	SetWindGust(ipoint int, g []float64) // sets the gust velocity at a point
	SetWindGustDer(ipoint int, d []float64)
	Aeroelastic(ctx *StepContext) error // solves the aeroelastic equations and moves the surface
}

// TurboSolver averages the flow on turbomachinery boundaries
type TurboSolver interface {
	TurboAverageProcess(ctx *StepContext, marker TurboMarker)
	GatherInOutAverageValues(ctx *StepContext) // gathers the averages on the root processor
}

// HeatSolver is a heat solver
type HeatSolver interface {
	Solver
	SetHeatfluxAreas(ctx *StepContext)
}

// StructSolver is a structural solver
type StructSolver interface {
	Solver
	ComputeNodalStress(ctx *StepContext)
	ResetInitialCondition(ctx *StepContext) // restores the state stored by SetInitialCondition
	SetLoadIncrement(f float64)
	SetForceCoeff(f float64)
	ResFEM(i int) float64 // convergence criteria: 0=displacement 1=residual 2=energy
	StiffnessPenalty(ctx *StepContext)
	ComputeOFRefGeom(ctx *StepContext)
	ComputeOFRefNode(ctx *StepContext)
	ComputeOFVolFrac(ctx *StepContext)
	Objective() float64 // value of the last computed objective function
	PredictStructDisplacement(ctx *StepContext)
	ImplicitNewmarkRelaxation(ctx *StepContext)
}

// Integration drives the solution of one system
type Integration interface {
	MultiGridIteration(ctx *StepContext, sys System) error
	SingleGridIteration(ctx *StepContext, sys System) error
	StructuralIteration(ctx *StepContext, sys System) error
	SetDualTimeSolver(ctx *StepContext, level int) // pushes back the time levels
	SetStructuralSolver(ctx *StepContext)          // updates the dynamic structural state
	ConvergenceMonitoring(ctx *StepContext, monitor float64)
	SetConvergence(converged bool)
	Convergence() bool
}

// Geometry holds the grid of one multigrid level
type Geometry interface {
	NPoint() int
	NDim() int
	Coord(ipoint int) []float64
	AddCoord(ipoint, idim int, delta float64)
	GridVel(ipoint int) []float64
	SetGridVel(ipoint int, v []float64)
	SetGridVelocity(ctx *StepContext) // finite differences the grid velocity from the time levels
	UpdateGeometry(ctx *StepContext)  // recomputes the dual grid after changing coordinates
	RegisterCoordinates(ctx *StepContext)
	RegisterOutputCoordinates(ctx *StepContext)
}

// Numerics holds material data of one FEA term
type Numerics interface {
	SetMaterialProperties(i int, young, poisson float64)
	SetMaterialDensity(i int, rho, rhoDL float64)
	SetElectricField(i int, e float64)
	SetDVVal(i int, v float64)
}

// MeshMover moves the volume grid
type MeshMover interface {
	RigidTranslation(ctx *StepContext)
	RigidPlunging(ctx *StepContext)
	RigidPitching(ctx *StepContext)
	RigidRotation(ctx *StepContext)
	UpdateMultiGrid(ctx *StepContext)
	SetVolumeDeformation(ctx *StepContext, updateGeo bool)
	SetVolumeDeformationElas(ctx *StepContext, updateGeo bool)
	NIterMesh() int // linear iterations of the last deformation; zero for a static mesh
}

// SurfaceMover moves the boundary surfaces
type SurfaceMover interface {
	SurfaceTranslating(ctx *StepContext)
	SurfacePlunging(ctx *StepContext)
	SurfacePitching(ctx *StepContext)
	SurfaceRotating(ctx *StepContext)
	SetExternalDeformation(ctx *StepContext)
}

// Output writes convergence history and result files
type Output interface {
	SetConvHistoryHeader(ctx *StepContext, sys System)
	SetConvHistoryBody(ctx *StepContext, sys System, usedTime float64)
	SetCFLNumber(ctx *StepContext)
	SetCpInverseDesign(ctx *StepContext)
	SetHeatFluxInverseDesign(ctx *StepContext)
	ComputeTurboPerformance(ctx *StepContext)
	SetResultFiles(ctx *StepContext, iter int) error
	SetSpecialOutput(ctx *StepContext, iter int) error
}
