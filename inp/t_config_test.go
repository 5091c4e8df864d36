// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_config01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config01")

	cfg, err := ReadConfig("data/fluid01.yaml", "")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	io.Pforan("cfg.Key = %v\n", cfg.Key)
	chk.String(tst, cfg.Key, "fluid01")
	chk.String(tst, cfg.EncType, "json")
	chk.String(tst, cfg.Solver.Kind, "fluid")
	chk.Int(tst, "nmglevels", cfg.Solver.NMGLevels, 2)
	chk.Int(tst, "niter", cfg.Solver.NIter, 100)
	chk.Int(tst, "nadjiter", cfg.Solver.NAdjIter, 100)
	chk.Array(tst, "freestream", 1e-15, cfg.Flow.Freestream, []float64{0.8, 0})
	chk.Float64(tst, "wavelength", 1e-15, cfg.Gust.WaveLength, 2.0)
	chk.String(tst, cfg.Gust.VortexFile, "vortex_distribution.txt")

	if !cfg.Steady() || cfg.DualTime() || cfg.Unsteady() {
		tst.Errorf("test failed: steady case has wrong marching flags\n")
	}
	if !cfg.Rans() || !cfg.Turbulent() {
		tst.Errorf("test failed: rans flags are wrong\n")
	}
	if cfg.DiscreteAdjoint() || !cfg.Singlezone() {
		tst.Errorf("test failed: kind flags are wrong\n")
	}
}

func Test_config02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config02")

	cfg, err := ReadConfig("data/fea01.json", "alias")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.String(tst, cfg.Key, "fea01-alias")
	chk.String(tst, cfg.EncType, "gob")
	chk.Int(tst, "nincrements", cfg.Struct.NIncrements, 4)
	chk.Int(tst, "nsubiter", cfg.Struct.NSubIter, 8)
	chk.Array(tst, "inccriteria", 1e-15, cfg.Struct.IncCriteria[:], []float64{-2, -2, -2})
	chk.Int(tst, "nelasticity", cfg.Struct.NElasticity, 2)
	chk.Int(tst, "npoisson", cfg.Struct.NPoisson, 1)
	if !cfg.DiscreteAdjoint() || !cfg.DiscAdjFEA() {
		tst.Errorf("test failed: discadjfea must be a discrete adjoint\n")
	}
	if !cfg.IncrementalLoad() || cfg.Linear() {
		tst.Errorf("test failed: incremental load must be engaged for nonlinear problems\n")
	}

	// incremental load is ignored by linear problems
	cfg.Struct.Nonlinear = false
	if cfg.IncrementalLoad() {
		tst.Errorf("test failed: incremental load must be ignored for linear problems\n")
	}
}

func Test_config03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("config03")

	_, err := ReadConfig("data/bad01.yaml", "")
	if err == nil {
		tst.Errorf("test failed: unknown kind of solver must be rejected\n")
		return
	}
	io.Pforan("err = %v\n", err)

	_, err = ReadConfig("data/notfound.yaml", "")
	if err == nil {
		tst.Errorf("test failed: missing file must be reported\n")
	}

	var cfg Config
	cfg.SetDefault()
	cfg.PostProcess()
	cfg.Time.Marching = "dt_stepping_2nd"
	if err = cfg.Validate(); err == nil {
		tst.Errorf("test failed: dual-time without dt must be rejected\n")
	}
	cfg.Time.Dt = 0.1
	if err = cfg.Validate(); err != nil {
		tst.Errorf("test failed: %v\n", err)
	}
	if !cfg.DualTime2nd() || !cfg.DualTime() {
		tst.Errorf("test failed: second order dual-time flags are wrong\n")
	}
}
