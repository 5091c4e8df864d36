// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newConfig returns a configuration with defaults and a large iteration budget
func newConfig(kind string) *inp.Config {
	cfg := new(inp.Config)
	cfg.SetDefault()
	cfg.Solver.Kind = kind
	cfg.Solver.NIter = 300
	cfg.Solver.NAdjIter = 300
	cfg.PostProcess()
	return cfg
}

// counter counts the history rows written by the iterations
type counter struct {
	bodies map[iteration.System]int
}

func newCounter() *counter { return &counter{bodies: make(map[iteration.System]int)} }

func (o *counter) SetConvHistoryHeader(ctx *iteration.StepContext, sys iteration.System) {}
func (o *counter) SetConvHistoryBody(ctx *iteration.StepContext, sys iteration.System, usedTime float64) {
	o.bodies[sys]++
}
func (o *counter) SetCFLNumber(ctx *iteration.StepContext) {}
func (o *counter) SetCpInverseDesign(ctx *iteration.StepContext) {}
func (o *counter) SetHeatFluxInverseDesign(ctx *iteration.StepContext) {}
func (o *counter) ComputeTurboPerformance(ctx *iteration.StepContext) {}
func (o *counter) SetResultFiles(ctx *iteration.StepContext, iter int) error { return nil }
func (o *counter) SetSpecialOutput(ctx *iteration.StepContext, iter int) error { return nil }
