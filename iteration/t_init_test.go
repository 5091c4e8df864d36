// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

var sf = io.Sf

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newConfig returns a configuration with defaults
func newConfig(kind string) *inp.Config {
	cfg := new(inp.Config)
	cfg.SetDefault()
	cfg.Solver.Kind = kind
	cfg.PostProcess()
	return cfg
}
