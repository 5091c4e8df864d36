// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// Material holds the design values of a structure; these are registered as tape input
type Material struct {
	E      []Real // [nElasticity] elasticity moduli
	Nu     []Real // [nPoisson] Poisson ratios
	Rho    []Real // [nDensity] densities
	RhoDL  []Real // [nDensity] dead-load densities
	EField []Real // [nEField] electric field components
	DV     []Real // [nDV] design variables
}

// NewMaterial returns a material with one modulus, ratio and density
func NewMaterial(young, poisson, rho, rhoDL float64) *Material {
	return &Material{
		E:     []Real{Const(young)},
		Nu:    []Real{Const(poisson)},
		Rho:   []Real{Const(rho)},
		RhoDL: []Real{Const(rhoDL)},
	}
}

// Register registers all values as tape input
func (o *Material) Register(t *Tape) {
	for _, v := range o.all() {
		for i := range v {
			t.Register(&v[i])
		}
	}
}

// Passivate drops the tape indices of all values
func (o *Material) Passivate() {
	for _, v := range o.all() {
		for i := range v {
			v[i] = v[i].Passive()
		}
	}
}

// all returns all arrays
func (o *Material) all() [][]Real {
	return [][]Real{o.E, o.Nu, o.Rho, o.RhoDL, o.EField, o.DV}
}

// Term implements iteration.Numerics for the elements of a structure
//  Note: the setters receive plain values. When a value equals the one held by the material, the
//        (possibly registered) material value is taken, keeping the recorded dependency
type Term struct {
	Mat    *Material // design values
	E      []Real    // elasticity moduli used by the elements
	Nu     []Real    // Poisson ratios used by the elements
	Rho    []Real    // densities used by the elements
	RhoDL  []Real    // dead-load densities used by the elements
	EField []Real    // electric field used by the elements
	DV     []Real    // design variables used by the elements
}

// NewTerm returns a term holding the material values
func NewTerm(mat *Material) (o *Term) {
	o = &Term{Mat: mat}
	for i, v := range mat.E {
		o.E = set(o.E, mat.E, i, v.V)
	}
	for i, v := range mat.Nu {
		o.Nu = set(o.Nu, mat.Nu, i, v.V)
	}
	for i, v := range mat.Rho {
		o.Rho = set(o.Rho, mat.Rho, i, v.V)
		o.RhoDL = set(o.RhoDL, mat.RhoDL, i, mat.RhoDL[i].V)
	}
	return
}

// SetMaterialProperties sets the modulus and Poisson ratio i
func (o *Term) SetMaterialProperties(i int, young, poisson float64) {
	o.E = set(o.E, o.Mat.E, i, young)
	o.Nu = set(o.Nu, o.Mat.Nu, i, poisson)
}

// SetMaterialDensity sets the density and dead-load density i
func (o *Term) SetMaterialDensity(i int, rho, rhoDL float64) {
	o.Rho = set(o.Rho, o.Mat.Rho, i, rho)
	o.RhoDL = set(o.RhoDL, o.Mat.RhoDL, i, rhoDL)
}

// SetElectricField sets the electric field component i
func (o *Term) SetElectricField(i int, e float64) {
	o.EField = set(o.EField, o.Mat.EField, i, e)
}

// SetDVVal sets the design variable i
func (o *Term) SetDVVal(i int, v float64) {
	o.DV = set(o.DV, o.Mat.DV, i, v)
}

// set sets dst[i] to src[i] if it holds v; to the passive v otherwise
func set(dst, src []Real, i int, v float64) []Real {
	for len(dst) <= i {
		dst = append(dst, Real{})
	}
	if i < len(src) && src[i].V == v {
		dst[i] = src[i]
	} else {
		dst[i] = Const(v)
	}
	return dst
}
