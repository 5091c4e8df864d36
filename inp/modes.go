// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// time marching //////////////////////////////////////////////////////////////////////////////////

// Steady returns true if there is no physical time
func (o *Config) Steady() bool { return o.Time.Marching == "steady" }

// DualTime1st returns true for first order dual-time stepping
func (o *Config) DualTime1st() bool { return o.Time.Marching == "dt_stepping_1st" }

// DualTime2nd returns true for second order dual-time stepping
func (o *Config) DualTime2nd() bool { return o.Time.Marching == "dt_stepping_2nd" }

// DualTime returns true for dual-time stepping of any order
func (o *Config) DualTime() bool { return o.DualTime1st() || o.DualTime2nd() }

// Unsteady returns true if there is physical time of any kind
func (o *Config) Unsteady() bool { return !o.Steady() }

// Harmonic returns true for harmonic balance problems
func (o *Config) Harmonic() bool { return o.Time.Marching == "harmonic_balance" }

// RotatingFrame returns true for rotational frame problems
func (o *Config) RotatingFrame() bool { return o.Time.Marching == "rotational_frame" }

// kind of solver /////////////////////////////////////////////////////////////////////////////////

// Singlezone returns true if the problem is not multizone
func (o *Config) Singlezone() bool { return !o.Solver.Multizone }

// DiscreteAdjoint returns true if the kind of solver is a discrete adjoint one
func (o *Config) DiscreteAdjoint() bool {
	switch o.Solver.Kind {
	case "discadjfluid", "discadjturbo", "discadjheat", "discadjfea", "oneshot":
		return true
	}
	return false
}

// ContinuousAdjoint returns true for the continuous adjoint flow solver
func (o *Config) ContinuousAdjoint() bool { return o.Solver.Kind == "adjfluid" }

// DiscAdjFEA returns true for the discrete adjoint structural solver
func (o *Config) DiscAdjFEA() bool { return o.Solver.Kind == "discadjfea" }

// Rans returns true if turbulence equations are solved
func (o *Config) Rans() bool { return o.Solver.Equations == "rans" }

// Turbulent returns true if turbulence equations are differentiated (not frozen)
func (o *Config) Turbulent() bool { return o.Rans() && !o.Flow.FrozenVisc }

// Restarting returns true if the flow starts from a restart file
func (o *Config) Restarting() bool { return o.Solver.Restart || o.Solver.RestartFlow }

// grid movement //////////////////////////////////////////////////////////////////////////////////

// SurfaceMovement returns whether a surface movement kind is active
func (o *Config) SurfaceMovement(kind string) bool {
	for _, s := range o.Movement.Surface {
		if s == kind {
			return true
		}
	}
	return false
}

// structure //////////////////////////////////////////////////////////////////////////////////////

// Linear returns true for small deformations
func (o *Config) Linear() bool { return !o.Struct.Nonlinear }

// IncrementalLoad returns true if the incremental load is engaged; only nonlinear problems use it
func (o *Config) IncrementalLoad() bool { return o.Struct.Nonlinear && o.Struct.IncrementalLoad }

// ElementBased returns true if element-based material models are instantiated
func (o *Config) ElementBased() bool {
	return o.Struct.Nonlinear && o.Struct.MaterialKind != "linear"
}

// DEEffects returns true if dielectric elastomer terms are instantiated
func (o *Config) DEEffects() bool { return o.Struct.Nonlinear && o.Struct.DEEffects }

// DVHasDensity returns true if the design variable changes the material density
func (o *Config) DVHasDensity() bool { return o.Struct.DV == "density" || o.Struct.DV == "dead_weight" }
