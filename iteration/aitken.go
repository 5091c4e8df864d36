// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Aitken computes the dynamic relaxation coefficient of the block-coupling (FSI) iterations
type Aitken struct {
	Omega  float64 // current coefficient
	Static float64 // coefficient of the first outer iteration
	Min    float64 // lower bound
	Max    float64 // upper bound

	// auxiliary
	rprev []float64 // residual of the previous outer iteration
}

// NewAitken returns a new Aitken relaxation
func NewAitken(static, min, max float64) *Aitken {
	return &Aitken{Omega: static, Static: static, Min: min, Max: max}
}

// Coefficient computes the coefficient at the outer iteration from the residual r = sol - prev
//  Note: ω_k = -ω_{k-1} · r_{k-1}·(r_k - r_{k-1}) / |r_k - r_{k-1}|²; ω_{k-1} is kept if the
//        denominator vanishes; ω is clamped to [Min, Max]
func (o *Aitken) Coefficient(outer int, sol, prev []float64) float64 {
	r := make([]float64, len(sol))
	floats.SubTo(r, sol, prev)
	if outer == 0 || len(o.rprev) != len(r) {
		o.Omega = o.Static
	} else {
		dr := make([]float64, len(r))
		floats.SubTo(dr, r, o.rprev)
		den := floats.Dot(dr, dr)
		if den > 1e-15 {
			o.Omega = -o.Omega * floats.Dot(o.rprev, dr) / den
		}
	}
	o.Omega = math.Max(o.Min, math.Min(o.Max, o.Omega))
	o.rprev = r
	return o.Omega
}

// Relax returns ω·sol + (1-ω)·prev
func (o *Aitken) Relax(sol, prev []float64) (res []float64) {
	res = make([]float64, len(sol))
	floats.ScaleTo(res, o.Omega, sol)
	floats.AddScaled(res, 1.0-o.Omega, prev)
	return
}
