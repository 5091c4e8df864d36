// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_tape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tape01. reverse sweep")

	t := NewTape()
	x, y := Const(3), Const(2)
	t.StartRecording()
	t.Register(&x)
	t.Register(&y)
	f := t.Add(t.Mul(x, y), t.Sq(x))     // x y + x²
	g := t.Div(t.Sqrt(t.Shift(f, 1)), y) // √(f + 1) / y
	h := t.Sub(t.Cube(y), t.Scale(2, x)) // y³ - 2 x
	t.StopRecording()
	chk.Float64(tst, "f", 1e-15, f.V, 15)
	chk.Float64(tst, "g", 1e-15, g.V, 2)
	chk.Float64(tst, "h", 1e-15, h.V, 2)

	// df/dx, df/dy
	t.SetGradient(f, 1)
	t.ComputeAdjoint()
	chk.Float64(tst, "df/dx", 1e-15, t.Gradient(x), 8)
	chk.Float64(tst, "df/dy", 1e-15, t.Gradient(y), 3)

	// dg/dx, dg/dy
	t.ClearAdjoints()
	t.SetGradient(g, 1)
	t.ComputeAdjoint()
	chk.Float64(tst, "dg/dx", 1e-15, t.Gradient(x), 8/(2*4*2.0))
	chk.Float64(tst, "dg/dy", 1e-15, t.Gradient(y), 3/(2*4*2.0)-4/4.0)

	// combined seeding
	t.ClearAdjoints()
	t.SetGradient(f, 1)
	t.SetGradient(h, 2)
	t.ComputeAdjoint()
	chk.Float64(tst, "dx", 1e-15, t.Gradient(x), 8-4)
	chk.Float64(tst, "dy", 1e-15, t.Gradient(y), 3+2*12)
}

func Test_tape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tape02. passive values and stale indices")

	// passive tape
	t := NewTape()
	x := Const(2)
	t.Register(&x)
	chk.Int(tst, "passive index", x.I, 0)
	y := t.Mul(x, x)
	chk.Int(tst, "recorded", t.Len(), 0)
	chk.Float64(tst, "y", 1e-15, y.V, 4)

	// record then reset
	t.StartRecording()
	t.Register(&x)
	y = t.Mul(x, x)
	chk.Int(tst, "recorded", t.Len(), 2)
	t.Reset()
	if t.Active() {
		tst.Errorf("test failed: tape must be passive after reset\n")
		return
	}

	// stale indices are passive in the new recording
	t.StartRecording()
	z := Const(5)
	t.Register(&z)
	w := t.Add(t.Mul(y, z), x)
	chk.Int(tst, "x and y are passive", t.Len(), 3)
	t.StopRecording()
	t.SetGradient(y, 1)
	t.SetGradient(w, 1)
	t.ComputeAdjoint()
	chk.Float64(tst, "dw/dz", 1e-15, t.Gradient(z), 4)
	chk.Float64(tst, "stale x", 1e-15, t.Gradient(x), 0)
	chk.Float64(tst, "stale y", 1e-15, t.Gradient(y), 0)

	// values
	chk.Array(tst, "values", 1e-15, Values([]Real{x, z, w}), []float64{2, 5, 22})
	if math.IsNaN(t.Gradient(Real{})) {
		tst.Errorf("test failed: gradient of constant must be zero\n")
	}
}
