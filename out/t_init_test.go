// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"testing"

	"github.com/bmunguia/su2-oneshot/inp"
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

// newConfig returns a steady flow configuration writing to a temporary directory
func newConfig(tst *testing.T, enctype string) *inp.Config {
	cfg := new(inp.Config)
	cfg.SetDefault()
	cfg.Solver.Kind = "fluid"
	cfg.Solver.NIter = 300
	cfg.Data.Encoder = enctype
	cfg.Data.DirOut = tst.TempDir()
	cfg.Output.WrtSolFreq = 5
	cfg.Key = "bump"
	cfg.PostProcess()
	return cfg
}
