// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

// System tags one discipline (and the runtime system set before calling it)
type System int

// systems
const (
	FlowSys    System = iota // mean flow
	TurbSys                  // turbulence model
	TransSys                 // transition model
	HeatSys                  // heat equation
	FEASys                   // structure
	AdjFlowSys               // adjoint mean flow
	AdjTurbSys               // adjoint turbulence
	AdjHeatSys               // adjoint heat
	AdjFEASys                // adjoint structure
)

var systemNames = []string{"flow", "turb", "trans", "heat", "fea", "adjflow", "adjturb", "adjheat", "adjfea"}

// String returns the name of the system
func (o System) String() string {
	if o < 0 || int(o) >= len(systemNames) {
		return "unknown"
	}
	return systemNames[o]
}

// Mesh0 is the finest multigrid level
const Mesh0 = 0

// Slot selects one storage slot of a solver state
type Slot int

// slots
const (
	SlotSol       Slot = iota // current solution
	SlotOld                   // solution of the previous inner iteration
	SlotTimeN                 // solution at time level n
	SlotTimeN1                // solution at time level n-1
	SlotAccel                 // acceleration
	SlotAccelN                // acceleration at time level n
	SlotVel                   // velocity
	SlotVelN                  // velocity at time level n
	SlotPred                  // predicted displacement (FSI)
	SlotPredOld               // predicted displacement of the previous outer iteration
	SlotDirect                // direct solution stored by adjoint solvers
	SlotDirectAccel           // direct acceleration stored by adjoint solvers
	SlotDirectVel             // direct velocity stored by adjoint solvers
	SlotDirectGeom            // direct coordinates (grid)
	nslots
)

// NSlots returns the number of storage slots
func NSlots() int { return int(nslots) }

// CommKind selects the field exchanged between partitions
type CommKind int

// kinds of communication
const (
	CommSolution        CommKind = iota // solution
	CommSolutionPred                    // predicted displacement
	CommSolutionPredOld                 // predicted displacement of the previous outer iteration
	CommSolutionAdjoint                 // adjoint solution
)

// TurboMarker selects the turbomachinery boundary for averaging
type TurboMarker int

// turbomachinery markers
const (
	Inflow TurboMarker = iota
	Outflow
)

// Term selects one FEA numerics term
type Term int

// numerics terms
const (
	FEATerm    Term = iota // linear elasticity
	DETerm                 // dielectric elastomer
	MatNHComp              // compressible neo-Hookean
	MatIdealDE             // ideal dielectric elastomer
	MatKnowles             // Knowles material
)
