// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"math"
	"os"

	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
	"github.com/rs/zerolog"
)

// ResFloor is the smallest log10 residual recorded; zero residuals are recorded as ResFloor
const ResFloor = -20.0

// Row holds one line of the convergence history
type Row struct {
	Sys       string  // system
	ExtIter   int     // physical time step (or steady iteration)
	IntIter   int     // inner iteration
	OuterIter int     // block-coupling iteration
	Res       float64 // log10 of the RMS residual of the first variable
	Time      float64 // wall time [s] used by the step so far
}

// History writes the convergence history and result files of one zone; it implements
// iteration.Output
type History struct {
	Zone *iteration.Zone // collaborators
	Log  zerolog.Logger  // run events
	Sum  *Summary        // summary; saved by SetSpecialOutput
	Rows []Row           // all rows

	// auxiliary
	headers map[iteration.System]bool // headers already written
}

// NewHistory returns a new history of zone z
func NewHistory(z *iteration.Zone, log zerolog.Logger) (o *History) {
	cfg := z.Cfg
	o = new(History)
	o.Zone = z
	o.Log = log
	o.Sum = NewSummary(cfg.Data.DirOut, cfg.Key, cfg.EncType, cfg.Data.Nproc)
	o.headers = make(map[iteration.System]bool)
	return
}

// SetConvHistoryHeader prints the header of sys once
func (o *History) SetConvHistoryHeader(ctx *iteration.StepContext, sys iteration.System) {
	if o.headers[sys] {
		return
	}
	o.headers[sys] = true
	ctx.Printf("\n%8s%8s%8s%14s%11s\n", "ExtIter", "IntIter", "Outer", "Res["+sys.String()+"]", "Time[s]")
	o.Log.Debug().Str("sys", sys.String()).Int("zone", ctx.Zone).Msg("history header")
}

// SetConvHistoryBody records one row with the residual of sys
func (o *History) SetConvHistoryBody(ctx *iteration.StepContext, sys iteration.System, usedTime float64) {
	o.SetConvHistoryHeader(ctx, sys)
	row := Row{
		Sys:       sys.String(),
		ExtIter:   ctx.ExtIter,
		IntIter:   ctx.IntIter,
		OuterIter: ctx.OuterIter,
		Res:       o.residual(sys),
		Time:      usedTime,
	}
	o.Rows = append(o.Rows, row)
	o.Sum.Resids[row.Sys] = append(o.Sum.Resids[row.Sys], row.Res)
	ctx.Printf("%8d%8d%8d%14.6f%11.3f\n", row.ExtIter, row.IntIter, row.OuterIter, row.Res, row.Time)
	o.Log.Debug().Str("sys", row.Sys).Int("ext", row.ExtIter).Int("int", row.IntIter).Float64("res", row.Res).Msg("history")
}

// SetCFLNumber records the CFL adaptation request
func (o *History) SetCFLNumber(ctx *iteration.StepContext) {
	o.Log.Debug().Int("ext", ctx.ExtIter).Msg("adapt CFL number")
}

// SetCpInverseDesign records the pressure target request
func (o *History) SetCpInverseDesign(ctx *iteration.StepContext) {
	o.Log.Debug().Int("ext", ctx.ExtIter).Msg("pressure inverse design")
}

// SetHeatFluxInverseDesign records the heat-flux target request
func (o *History) SetHeatFluxInverseDesign(ctx *iteration.StepContext) {
	o.Log.Debug().Int("ext", ctx.ExtIter).Msg("heat-flux inverse design")
}

// ComputeTurboPerformance records the turbomachinery performance request
func (o *History) ComputeTurboPerformance(ctx *iteration.StepContext) {
	o.Log.Debug().Int("ext", ctx.ExtIter).Msg("turbomachinery performance")
}

// SetResultFiles saves the solutions of all systems on the finest level
func (o *History) SetResultFiles(ctx *iteration.StepContext, iter int) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.Sum.Enc)

	// encode solutions
	sols := make(map[string][]float64)
	for sys := range o.Zone.Solvers {
		if o.Zone.HasSolver(sys) {
			sols[sys.String()] = o.Zone.Solver(sys, iteration.Mesh0).Field(iteration.SlotSol)
		}
	}
	err = enc.Encode(iter)
	if err != nil {
		return chk.Err("cannot encode iteration:\n%v", err)
	}
	err = enc.Encode(sols)
	if err != nil {
		return chk.Err("cannot encode solutions:\n%v", err)
	}

	// save file
	fn := resPath(o.Sum.Dirout, o.Sum.Fnkey, o.Sum.Enc, iter, ctx.Zone)
	err = saveFile(fn, &buf, ctx.Verbose && ctx.Root)
	if err != nil {
		return
	}
	o.Sum.OutIters = append(o.Sum.OutIters, iter)
	o.Log.Info().Int("iter", iter).Str("file", fn).Msg("result files written")
	return
}

// SetSpecialOutput saves the summary
func (o *History) SetSpecialOutput(ctx *iteration.StepContext, iter int) (err error) {
	if !ctx.Root {
		return
	}
	return o.Sum.Save(ctx.Verbose)
}

// ReadResults reads the solutions saved by SetResultFiles
func ReadResults(dir, fnkey, enctype string, iter, proc int) (sols map[string][]float64, err error) {

	// open file
	fn := resPath(dir, fnkey, enctype, iter, proc)
	fil, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("cannot open result file:\n%v", err)
	}
	defer fil.Close()

	// decode
	dec := GetDecoder(fil, enctype)
	var it int
	err = dec.Decode(&it)
	if err != nil {
		return nil, chk.Err("cannot decode iteration:\n%v", err)
	}
	if it != iter {
		return nil, chk.Err("result file <%s> holds iteration %d", fn, it)
	}
	err = dec.Decode(&sols)
	if err != nil {
		return nil, chk.Err("cannot decode solutions:\n%v", err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// residual returns log10 of the RMS residual of the first variable of sys
func (o *History) residual(sys iteration.System) float64 {
	if !o.Zone.HasSolver(sys) {
		return ResFloor
	}
	r := o.Zone.Solver(sys, iteration.Mesh0).ResRMS(0)
	if !(r > 0) {
		return ResFloor
	}
	return math.Max(math.Log10(r), ResFloor)
}

