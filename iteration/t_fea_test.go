// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// lastIndex returns the last position of entry in the log; -1 if not found
func lastIndex(log []string, entry string) int {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i] == entry {
			return i
		}
	}
	return -1
}

func Test_fea01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fea01. nonlinear direct Newton with 3 sub-iterations")

	cfg := newConfig("fea")
	cfg.Struct.Nonlinear = true
	cfg.Struct.NSubIter = 3
	fz := newFakeZone(cfg)
	it := NewFEA(fz.z, fz.out)
	ctx := NewStepContext(cfg, 0, 0)
	err := it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	fea := fz.integr[FEASys]
	chk.Ints(tst, "Newton indices", fea.indices, []int{0, 1, 2})
	chk.Int(tst, "headers", fz.out.headers, 1)
	chk.Int(tst, "bodies", fz.out.bodies[FEASys], 2)
	chk.Int(tst, "stresses", fz.c.count("fea.ComputeNodalStress"), 2)

	// stress and history precede each sub-iteration
	chk.String(tst, fz.c.log[0], "out.Header")
	chk.String(tst, fz.c.log[1], "fea.iterate")
	chk.String(tst, fz.c.log[2], "fea.ComputeNodalStress")
	chk.String(tst, fz.c.log[3], "out.Body")
	chk.String(tst, fz.c.log[4], "fea.iterate")

	// convergence at index 1
	fz = newFakeZone(cfg)
	fz.integr[FEASys].convAt = 1
	it = NewFEA(fz.z, fz.out)
	err = it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "Newton indices (converged)", fz.integr[FEASys].indices, []int{0, 1})

	// history frequency
	cfg.Struct.NSubIter = 6
	cfg.Struct.PrintFreq = 2
	fz = newFakeZone(cfg)
	it = NewFEA(fz.z, fz.out)
	err = it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Int(tst, "bodies with frequency 2", fz.out.bodies[FEASys], 3)

	// discrete adjoint runs only the first iteration
	cfg.Solver.Kind = "discadjfea"
	fz = newFakeZone(cfg)
	it = NewFEA(fz.z, fz.out)
	err = it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "adjoint indices", fz.integr[FEASys].indices, []int{0})
	chk.Int(tst, "adjoint headers", fz.out.headers, 0)
}

func Test_fea02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fea02. incremental load with failing probe")

	cfg := newConfig("fea")
	cfg.Struct.Nonlinear = true
	cfg.Struct.IncrementalLoad = true
	cfg.Struct.NIncrements = 2
	cfg.Struct.NSubIter = 3
	cfg.Struct.IncCriteria = [3]float64{-2, -2, -2}
	fz := newFakeZone(cfg)
	fz.fea.res = [3]float64{1, 1e-3, 1e-3}
	it := NewFEA(fz.z, fz.out)
	ctx := NewStepContext(cfg, 0, 0)
	err := it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// probe (0,1) then two full sequences (0,1,2)
	chk.Ints(tst, "indices", fz.integr[FEASys].indices, []int{0, 1, 0, 1, 2, 0, 1, 2})
	chk.Array(tst, "loads", 1e-17, fz.fea.loads, []float64{1, 0.5, 1})
	chk.Int(tst, "rollback", fz.c.count("fea.ResetInitialCondition"), 1)
	chk.Int(tst, "stored", fz.c.count("fea.SetInitialCondition"), 1)

	// history after the first increment; not after the last one
	log := fz.c.log
	second := lastIndex(log, "fea.SetLoadIncrement(1)")
	chk.String(tst, log[second-1], "out.Body")
	chk.String(tst, log[second-2], "fea.ComputeNodalStress")
	chk.String(tst, log[len(log)-1], "fea.iterate")
}

func Test_fea03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fea03. incremental load with successful probe")

	cfg := newConfig("fea")
	cfg.Struct.Nonlinear = true
	cfg.Struct.IncrementalLoad = true
	cfg.Struct.NIncrements = 4
	cfg.Struct.NSubIter = 4
	cfg.Struct.IncCriteria = [3]float64{-2, -2, -2}
	fz := newFakeZone(cfg)
	fz.fea.res = [3]float64{1e-5, 1e-5, 1e-5}
	it := NewFEA(fz.z, fz.out)
	ctx := NewStepContext(cfg, 0, 0)
	err := it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "indices", fz.integr[FEASys].indices, []int{0, 1, 2, 3})
	chk.Array(tst, "loads", 1e-17, fz.fea.loads, []float64{1})
	chk.Int(tst, "rollback", fz.c.count("fea.ResetInitialCondition"), 0)

	// incremental load is ignored by linear problems
	cfg.Struct.Nonlinear = false
	fz = newFakeZone(cfg)
	it = NewFEA(fz.z, fz.out)
	err = it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Ints(tst, "linear indices", fz.integr[FEASys].indices, []int{0})
	chk.Int(tst, "linear runtime system", int(fz.integr[FEASys].systems[0]), int(FEASys))
	chk.Int(tst, "linear loads", len(fz.fea.loads), 0)
}

func Test_fea04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fea04. load increments")

	chk.Array(tst, "4 increments", 1e-17, LoadIncrements(4), []float64{0.25, 0.5, 0.75, 1})
	for n := 1; n < 50; n++ {
		loads := LoadIncrements(n)
		chk.Float64(tst, sf("last of %d", n), 1e-17, loads[n-1], 1.0)
		for i := 1; i < n; i++ {
			if loads[i] <= loads[i-1] {
				tst.Errorf("test failed: loads must increase\n")
				return
			}
		}
	}
}

func Test_fea05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fea05. objective, update, predictor and relaxation")

	cfg := newConfig("fea")
	cfg.Struct.ObjFunc = "reference_node"
	cfg.Struct.DV = "young_modulus"
	fz := newFakeZone(cfg)
	it := NewFEA(fz.z, fz.out)
	ctx := NewStepContext(cfg, 0, 0)
	err := it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	n := len(fz.c.log)
	chk.String(tst, fz.c.log[n-2], "fea.StiffnessPenalty")
	chk.String(tst, fz.c.log[n-1], "fea.ComputeOFRefNode")

	cfg.Struct.ObjFunc = "volume_fraction"
	err = it.Iterate(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.String(tst, fz.c.log[len(fz.c.log)-1], "fea.ComputeOFVolFrac")
	chk.Int(tst, "penalties", fz.c.count("fea.StiffnessPenalty"), 1)

	// dynamic update
	cfg.Struct.Dynamic = true
	cfg.Struct.DynDt = 0.5
	cfg.Struct.DynTotal = 2
	ctx.ExtIter = 2
	err = it.Update(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Int(tst, "structural solver", fz.c.count("fea.SetStructuralSolver"), 1)
	if fz.integr[FEASys].Convergence() {
		tst.Errorf("test failed: 1.5 < 2 must not converge\n")
	}
	ctx.ExtIter = 3
	err = it.Update(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if !fz.integr[FEASys].Convergence() {
		tst.Errorf("test failed: 2 >= 2 must converge\n")
	}

	// static FSI update
	cfg.Struct.Dynamic = false
	cfg.Solver.FSI = true
	err = it.Update(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Int(tst, "Newmark relaxation", fz.c.count("fea.NewmarkRelaxation"), 1)

	// solve resets the convergence flag
	err = it.Solve(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if fz.integr[FEASys].Convergence() {
		tst.Errorf("test failed: convergence must be reset\n")
	}

	// predictor
	err = it.Predictor(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Int(tst, "pred comms", fz.c.count(sf("fea.CompleteComms(%d)", CommSolutionPred)), 1)

	// relaxation
	fz.fea.SetField(SlotSol, []float64{1, 2})
	fz.fea.SetField(SlotPredOld, []float64{0, 0})
	ctx.OuterIter = 0
	err = it.Relaxation(ctx)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Float64(tst, "ω0", 1e-15, it.Aitken.Omega, 0.5)
	chk.Array(tst, "pred", 1e-15, fz.fea.Field(SlotPred), []float64{0.5, 1})
	chk.Array(tst, "pred old", 1e-15, fz.fea.Field(SlotPredOld), []float64{0.5, 1})
	chk.Int(tst, "pred old comms", fz.c.count(sf("fea.CompleteComms(%d)", CommSolutionPredOld)), 1)
}

func Test_aitken01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("aitken01. dynamic relaxation coefficient")

	a := NewAitken(0.5, 0, 1)
	w := a.Coefficient(0, []float64{1, 2}, []float64{0, 0})
	chk.Float64(tst, "ω0", 1e-15, w, 0.5)
	chk.Array(tst, "relaxed", 1e-15, a.Relax([]float64{1, 2}, []float64{0, 0}), []float64{0.5, 1})

	// r1 = (1.5, 1); Δr = (0.5, -1); ω1 = -0.5·(-1.5)/1.25
	w = a.Coefficient(1, []float64{2, 2}, []float64{0.5, 1})
	chk.Float64(tst, "ω1", 1e-15, w, 0.6)

	// zero denominator keeps the previous coefficient
	w = a.Coefficient(2, []float64{2, 2}, []float64{0.5, 1})
	chk.Float64(tst, "ω2", 1e-15, w, 0.6)

	// clamping
	a = NewAitken(0.5, 0.1, 1)
	a.Coefficient(0, []float64{1}, []float64{0})
	w = a.Coefficient(1, []float64{0.9}, []float64{0})
	chk.Float64(tst, "ω clamped to max", 1e-15, w, 1)
	a = NewAitken(0.5, 0.1, 1)
	a.Coefficient(0, []float64{1}, []float64{0})
	w = a.Coefficient(1, []float64{3}, []float64{0})
	chk.Float64(tst, "ω clamped to min", 1e-15, w, 0.1)

	// restarting the outer loop
	w = a.Coefficient(0, []float64{3}, []float64{0})
	chk.Float64(tst, "ω restarted", 1e-15, w, 0.5)
}
