// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ReverseAdjointFile is the name of the sensitivity report of structural adjoints
const ReverseAdjointFile = "Results_Reverse_Adjoint.txt"

// Report writes the sensitivity reports of structural adjoints
type Report struct {
	Dir     string // output directory
	Verbose bool   // show messages
}

// GradientFile returns the name of the gradient file of a kind of design variable; ok is false if
// the kind has no gradient file
func GradientFile(dv string) (fn string, ok bool) {
	switch dv {
	case "young_modulus":
		return "grad_young.opt", true
	case "poisson_ratio":
		return "grad_poisson.opt", true
	case "density", "dead_weight":
		return "grad_density.opt", true
	case "electric_field":
		return "grad_efield.opt", true
	}
	return "", false
}

// WriteHeader creates the report with one column per sensitivity
func (o *Report) WriteHeader(cfg *inp.Config) (err error) {
	var buf bytes.Buffer
	io.Ff(&buf, "Obj_Func ")
	for i := 0; i < cfg.Struct.NElasticity; i++ {
		io.Ff(&buf, "Sens_E_%d\t", i)
	}
	for i := 0; i < cfg.Struct.NPoisson; i++ {
		io.Ff(&buf, "Sens_Nu_%d\t", i)
	}
	if cfg.Struct.Dynamic {
		for i := 0; i < cfg.Struct.NDensity; i++ {
			io.Ff(&buf, "Sens_Rho_%d\t", i)
		}
	}
	if cfg.Struct.DEEffects {
		for i := 0; i < cfg.Struct.NEField; i++ {
			io.Ff(&buf, "Sens_EField_%d\t", i)
		}
	}
	io.Ff(&buf, "\n")
	return o.save(ReverseAdjointFile, &buf, false)
}

// AppendRow appends the objective function and the sensitivities of the current step
func (o *Report) AppendRow(ctx *iteration.StepContext, fea iteration.StructSolver, adj FEAAdjoint) (err error) {
	cfg := ctx.Cfg
	var buf bytes.Buffer
	io.Ff(&buf, "%d\t", ctx.ExtIter)
	switch cfg.Struct.ObjFunc {
	case "reference_geometry", "reference_node", "volume_fraction":
		io.Ff(&buf, "%.15e\t", fea.Objective())
	}
	for i := 0; i < cfg.Struct.NElasticity; i++ {
		io.Ff(&buf, "%.15e\t", adj.TotalSensE(i))
	}
	for i := 0; i < cfg.Struct.NPoisson; i++ {
		io.Ff(&buf, "%.15e\t", adj.TotalSensNu(i))
	}
	if cfg.Struct.Dynamic {
		for i := 0; i < cfg.Struct.NDensity; i++ {
			io.Ff(&buf, "%.15e\t", adj.TotalSensRho(i))
		}
	}
	if cfg.Struct.DEEffects {
		for i := 0; i < cfg.Struct.NEField; i++ {
			io.Ff(&buf, "%.15e\t", adj.TotalSensEField(i))
		}
	}
	for i := 0; i < adj.NDVFEA(); i++ {
		io.Ff(&buf, "%.15e\t", adj.TotalSensDVFEA(i))
	}
	io.Ff(&buf, "\n")
	return o.save(ReverseAdjointFile, &buf, true)
}

// WriteGradient writes the total sensitivity of each design variable; does nothing if the kind of
// design variable has no gradient file
func (o *Report) WriteGradient(cfg *inp.Config, adj FEAAdjoint) (err error) {
	fn, ok := GradientFile(cfg.Struct.DV)
	if !ok {
		return
	}
	var buf bytes.Buffer
	io.Ff(&buf, "INDEX\tGRAD\n")
	for i := 0; i < adj.NDVFEA(); i++ {
		io.Ff(&buf, "%d\t%.15e\n", i, adj.TotalSensDVFEA(i))
	}
	return o.save(fn, &buf, false)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// save writes (or appends) the buffer to a file in the output directory
func (o *Report) save(fn string, buf *bytes.Buffer, appending bool) (err error) {
	err = os.MkdirAll(o.Dir, 0777)
	if err != nil {
		return chk.Err("cannot create directory %q:\n%v", o.Dir, err)
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appending {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	fpath := filepath.Join(o.Dir, fn)
	fil, err := os.OpenFile(fpath, flag, 0644)
	if err != nil {
		return chk.Err("cannot open file %q:\n%v", fpath, err)
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if o.Verbose {
		io.Pfblue2("file <%s> written\n", fpath)
	}
	return
}
