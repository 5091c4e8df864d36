// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import "github.com/cpmech/gosl/chk"

// SetGridMovement moves the grid according to the kind of grid movement and the moving surfaces
//  Note: continuous adjoint runs do not finite difference the grid velocities
func SetGridMovement(ctx *StepContext, z *Zone) (err error) {

	// auxiliary
	cfg := ctx.Cfg
	kind := cfg.Movement.Kind
	adjoint := cfg.ContinuousAdjoint()
	mesh := z.Mesh
	surf := z.Surface
	needMesh := func() {
		if mesh == nil {
			chk.Panic("grid movement %q requires a mesh mover", kind)
		}
	}
	needSurf := func() {
		if surf == nil {
			chk.Panic("surface movement requires a surface mover")
		}
	}
	rigid := func() {
		needMesh()
		mesh.RigidTranslation(ctx)
		mesh.RigidPlunging(ctx)
		mesh.RigidPitching(ctx)
		mesh.RigidRotation(ctx)
		mesh.UpdateMultiGrid(ctx)
	}

	// volume movement
	switch kind {
	case "rigid_motion":
		ctx.Printf("\n-------------------------- Moving the grid (rigid motion) -----------------------\n")
		rigid()

	case "elasticity":
		if ctx.ExtIter != 0 {
			ctx.Printf(" Deforming the grid using the linear elasticity solution.\n")
			geo := z.Geometry(Mesh0)
			fea := z.Struct()
			ndim := geo.NDim()
			un := fea.Field(SlotTimeN)
			un1 := fea.Field(SlotTimeN1)
			for ip := 0; ip < geo.NPoint(); ip++ {
				for i := 0; i < ndim; i++ {
					geo.AddCoord(ip, i, un[ip*ndim+i]-un1[ip*ndim+i])
				}
			}
		}
	}

	// deforming surfaces
	if cfg.SurfaceMovement("deforming") {
		needMesh()
		needSurf()
		ctx.Printf(" Updating surface positions.\n")
		surf.SurfaceTranslating(ctx)
		mesh.SetVolumeDeformation(ctx, true)
		surf.SurfacePlunging(ctx)
		mesh.SetVolumeDeformation(ctx, true)
		surf.SurfacePitching(ctx)
		mesh.SetVolumeDeformation(ctx, true)
		surf.SurfaceRotating(ctx)
		mesh.SetVolumeDeformation(ctx, true)
		if !adjoint {
			z.Geometry(Mesh0).SetGridVelocity(ctx)
		}
		mesh.UpdateMultiGrid(ctx)
	}

	// aeroelastic surfaces
	if cfg.SurfaceMovement("aeroelastic") || cfg.SurfaceMovement("aeroelastic_rigid_motion") {
		if ctx.IntIter == 0 {
			if kind == "aeroelastic_rigid_motion" {
				ctx.Printf(" Performing rigid mesh transformation.\n")
				rigid()
			}
		} else if ctx.IntIter%cfg.Movement.AeroelasticIter == 0 {
			needMesh()
			ctx.Printf(" Solving aeroelastic equations and updating surface positions.\n")
			err = z.Flow(Mesh0).Aeroelastic(ctx)
			if err != nil {
				return chk.Err("aeroelastic solution failed:\n%v", err)
			}
			mesh.SetVolumeDeformation(ctx, true)
			z.Geometry(Mesh0).SetGridVelocity(ctx)
			mesh.UpdateMultiGrid(ctx)
		}
	}

	// fluid-structure interaction
	if cfg.SurfaceMovement("fluid_structure") {
		needMesh()
		ctx.Printf(" Deforming the volume grid due to the fluid-structure interaction.\n")
		mesh.SetVolumeDeformation(ctx, true)
		static := mesh.NIterMesh() == 0
		if !adjoint && !static {
			ctx.Printf(" Computing grid velocities by finite differencing.\n")
			z.Geometry(Mesh0).SetGridVelocity(ctx)
		} else if static {
			ctx.Printf(" The mesh is static; setting grid velocities to zero.\n")
		}
		mesh.UpdateMultiGrid(ctx)
	}

	// static fluid-structure interaction
	if cfg.SurfaceMovement("fluid_structure_static") && !cfg.DiscreteAdjoint() {
		needMesh()
		ctx.Printf(" Deforming the volume grid due to the static fluid-structure interaction.\n")
		mesh.SetVolumeDeformationElas(ctx, true)
		mesh.UpdateMultiGrid(ctx)
	}

	// external surface movement
	if cfg.SurfaceMovement("external") || cfg.SurfaceMovement("external_rotation") {
		needMesh()
		needSurf()
		if kind == "external_rotation" {
			ctx.Printf(" Rotating the grid.\n")
			mesh.RigidRotation(ctx)
		}
		ctx.Printf(" Updating surface locations from the external file.\n")
		surf.SetExternalDeformation(ctx)
		mesh.SetVolumeDeformation(ctx, true)
		if !adjoint {
			z.Geometry(Mesh0).SetGridVelocity(ctx)
		}
		mesh.UpdateMultiGrid(ctx)
	}
	return
}
