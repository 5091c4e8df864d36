// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

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

// newConfig returns a steady configuration writing to a temporary directory
func newConfig(tst *testing.T, kind string) *inp.Config {
	cfg := new(inp.Config)
	cfg.SetDefault()
	cfg.Solver.Kind = kind
	cfg.Solver.NIter = 300
	cfg.Solver.NAdjIter = 300
	cfg.Data.DirOut = tst.TempDir()
	cfg.Key = "case"
	cfg.PostProcess()
	return cfg
}
