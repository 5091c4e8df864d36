// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package driver implements the single-zone drivers: the forward time loop and the discrete
// adjoint driver with its main and secondary recordings
package driver

import (
	"math"

	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
)

// Restarter persists the state of a solver at one step
type Restarter interface {
	SaveRestart(ctx *iteration.StepContext, step int) error
}

// Objective is the objective function recorded with the forward pass
type Objective interface {
	Compute(ctx *iteration.StepContext) error          // computes (and records) the objective function
	Seed(ctx *iteration.StepContext, w float64) error // seeds the adjoint of the objective function
	Value() float64                                   // value of the last computed objective function
}

// Disciplines returns the forward iteration kind, the direct system and the adjoint system of an
// iteration kind
func Disciplines(kind string) (direct string, sys, adj iteration.System, err error) {
	switch kind {
	case "fluid", "adjfluid", "discadjfluid", "oneshot":
		return "fluid", iteration.FlowSys, iteration.AdjFlowSys, nil
	case "turbo", "discadjturbo":
		return "turbo", iteration.FlowSys, iteration.AdjFlowSys, nil
	case "femfluid":
		return "femfluid", iteration.FlowSys, iteration.AdjFlowSys, nil
	case "heat", "discadjheat":
		return "heat", iteration.HeatSys, iteration.AdjHeatSys, nil
	case "fea", "discadjfea":
		return "fea", iteration.FEASys, iteration.AdjFEASys, nil
	}
	err = chk.Err("cannot find disciplines of iteration %q", kind)
	return
}

// NTimeIter returns the number of physical time steps; one for steady runs
func NTimeIter(cfg *inp.Config) int {
	if cfg.Steady() {
		return 1
	}
	return cfg.Solver.NExtIter
}

// directSystems holds the systems persisted by restarts
var directSystems = []iteration.System{iteration.FlowSys, iteration.TurbSys, iteration.TransSys, iteration.HeatSys, iteration.FEASys}

// residual returns log10 of the RMS residual of the first variable of sys
func residual(z *iteration.Zone, sys iteration.System) float64 {
	if !z.HasSolver(sys) {
		return math.Inf(-1)
	}
	return math.Log10(z.Solver(sys, iteration.Mesh0).ResRMS(0))
}
