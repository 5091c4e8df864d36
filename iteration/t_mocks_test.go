// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/cpmech/gosl/io"
)

// calls records the calls to the collaborators
type calls struct {
	log []string
}

func (o *calls) add(msg string, prm ...interface{}) {
	o.log = append(o.log, io.Sf(msg, prm...))
}

func (o *calls) count(entry string) (n int) {
	for _, l := range o.log {
		if l == entry {
			n++
		}
	}
	return
}

// storage ////////////////////////////////////////////////////////////////////////////////////////

type fakeStorage struct {
	slots map[Slot][]float64
}

func newStorage() fakeStorage { return fakeStorage{slots: make(map[Slot][]float64)} }

func (o *fakeStorage) Field(s Slot) []float64 { return o.slots[s] }

func (o *fakeStorage) SetField(s Slot, v []float64) {
	o.slots[s] = append([]float64{}, v...)
}

func (o *fakeStorage) CopySlot(dst, src Slot) {
	o.slots[dst] = append([]float64{}, o.slots[src]...)
}

func (o *fakeStorage) ZeroSlot(s Slot) {
	o.slots[s] = make([]float64, len(o.slots[s]))
}

// solvers ////////////////////////////////////////////////////////////////////////////////////////

type fakeSolver struct {
	fakeStorage
	c    *calls
	name string
}

func (o *fakeSolver) Preprocessing(ctx *StepContext, level int) error {
	o.c.add("%s.Preprocessing", o.name)
	return nil
}
func (o *fakeSolver) Postprocessing(ctx *StepContext, level int) error {
	o.c.add("%s.Postprocessing", o.name)
	return nil
}
func (o *fakeSolver) InitiateComms(kind CommKind) { o.c.add("%s.InitiateComms(%d)", o.name, kind) }
func (o *fakeSolver) CompleteComms(kind CommKind) { o.c.add("%s.CompleteComms(%d)", o.name, kind) }
func (o *fakeSolver) LoadRestart(ctx *StepContext, step int) error {
	o.c.add("%s.LoadRestart(%d)", o.name, step)
	o.slots[SlotSol] = []float64{float64(step)}
	return nil
}
func (o *fakeSolver) SetFreeStreamSolution() { o.c.add("%s.SetFreeStreamSolution", o.name) }
func (o *fakeSolver) SetInitialCondition(ctx *StepContext) {
	o.c.add("%s.SetInitialCondition", o.name)
}
func (o *fakeSolver) ResRMS(ivar int) float64 { return 1e-3 }

type fakeFlow struct {
	fakeSolver
	vinf []float64
	gust map[int][]float64
}

func newFakeFlow(c *calls) *fakeFlow {
	return &fakeFlow{fakeSolver: fakeSolver{newStorage(), c, "flow"}, vinf: []float64{1, 0}, gust: make(map[int][]float64)}
}

func (o *fakeFlow) VelocityInf(idim int) float64 { return o.vinf[idim] }
func (o *fakeFlow) SetWindGust(ip int, g []float64) {
	o.gust[ip] = append([]float64{}, g...)
}
func (o *fakeFlow) SetWindGustDer(ip int, d []float64) {}
func (o *fakeFlow) Aeroelastic(ctx *StepContext) error {
	o.c.add("flow.Aeroelastic")
	return nil
}
func (o *fakeFlow) TurboAverageProcess(ctx *StepContext, marker TurboMarker) {
	o.c.add("flow.TurboAverageProcess(%d)", marker)
}
func (o *fakeFlow) GatherInOutAverageValues(ctx *StepContext) { o.c.add("flow.GatherInOutAverageValues") }

type fakeStruct struct {
	fakeSolver
	res   [3]float64 // ResFEM values
	loads []float64  // load increments
}

func newFakeStruct(c *calls) *fakeStruct {
	return &fakeStruct{fakeSolver: fakeSolver{newStorage(), c, "fea"}}
}

func (o *fakeStruct) ComputeNodalStress(ctx *StepContext) { o.c.add("fea.ComputeNodalStress") }
func (o *fakeStruct) ResetInitialCondition(ctx *StepContext) {
	o.c.add("fea.ResetInitialCondition")
}
func (o *fakeStruct) SetLoadIncrement(f float64) {
	o.c.add("fea.SetLoadIncrement(%g)", f)
	o.loads = append(o.loads, f)
}
func (o *fakeStruct) SetForceCoeff(f float64) { o.c.add("fea.SetForceCoeff(%g)", f) }
func (o *fakeStruct) ResFEM(i int) float64 { return o.res[i] }
func (o *fakeStruct) StiffnessPenalty(ctx *StepContext) { o.c.add("fea.StiffnessPenalty") }
func (o *fakeStruct) ComputeOFRefGeom(ctx *StepContext) { o.c.add("fea.ComputeOFRefGeom") }
func (o *fakeStruct) ComputeOFRefNode(ctx *StepContext) { o.c.add("fea.ComputeOFRefNode") }
func (o *fakeStruct) ComputeOFVolFrac(ctx *StepContext) { o.c.add("fea.ComputeOFVolFrac") }
func (o *fakeStruct) Objective() float64 { return 0 }
func (o *fakeStruct) PredictStructDisplacement(ctx *StepContext) { o.c.add("fea.Predict") }
func (o *fakeStruct) ImplicitNewmarkRelaxation(ctx *StepContext) { o.c.add("fea.NewmarkRelaxation") }

// integration ////////////////////////////////////////////////////////////////////////////////////

type fakeIntegr struct {
	c       *calls
	name    string
	conv    bool
	convAt  int      // converge when the driving counter reaches convAt; -1 => never
	indices []int    // driving counters (IntIter for structures) at each iteration
	systems []System // runtime systems at each iteration
}

func newFakeIntegr(c *calls, name string) *fakeIntegr {
	return &fakeIntegr{c: c, name: name, convAt: -1}
}

func (o *fakeIntegr) iterate(ctx *StepContext, sys System, idx int) error {
	o.c.add("%s.iterate", o.name)
	o.indices = append(o.indices, idx)
	o.systems = append(o.systems, ctx.System)
	if o.convAt >= 0 && idx >= o.convAt {
		o.conv = true
	}
	return nil
}
func (o *fakeIntegr) MultiGridIteration(ctx *StepContext, sys System) error {
	return o.iterate(ctx, sys, ctx.Driving())
}
func (o *fakeIntegr) SingleGridIteration(ctx *StepContext, sys System) error {
	return o.iterate(ctx, sys, ctx.Driving())
}
func (o *fakeIntegr) StructuralIteration(ctx *StepContext, sys System) error {
	return o.iterate(ctx, sys, ctx.IntIter)
}
func (o *fakeIntegr) SetDualTimeSolver(ctx *StepContext, level int) {
	o.c.add("%s.SetDualTimeSolver(%d)", o.name, level)
}
func (o *fakeIntegr) SetStructuralSolver(ctx *StepContext) { o.c.add("%s.SetStructuralSolver", o.name) }
func (o *fakeIntegr) ConvergenceMonitoring(ctx *StepContext, monitor float64) {}
func (o *fakeIntegr) SetConvergence(converged bool) { o.conv = converged }
func (o *fakeIntegr) Convergence() bool { return o.conv }

// geometry ///////////////////////////////////////////////////////////////////////////////////////

type fakeGeom struct {
	c       *calls
	coords  [][]float64
	gridvel [][]float64
}

func newFakeGeom(c *calls, coords [][]float64) *fakeGeom {
	o := &fakeGeom{c: c, coords: coords}
	for range coords {
		o.gridvel = append(o.gridvel, make([]float64, len(coords[0])))
	}
	return o
}

func (o *fakeGeom) NPoint() int { return len(o.coords) }
func (o *fakeGeom) NDim() int { return len(o.coords[0]) }
func (o *fakeGeom) Coord(ip int) []float64 { return o.coords[ip] }
func (o *fakeGeom) AddCoord(ip, idim int, delta float64) { o.coords[ip][idim] += delta }
func (o *fakeGeom) GridVel(ip int) []float64 { return o.gridvel[ip] }
func (o *fakeGeom) SetGridVel(ip int, v []float64) { copy(o.gridvel[ip], v) }
func (o *fakeGeom) SetGridVelocity(ctx *StepContext) { o.c.add("geo.SetGridVelocity") }
func (o *fakeGeom) UpdateGeometry(ctx *StepContext) { o.c.add("geo.UpdateGeometry") }
func (o *fakeGeom) RegisterCoordinates(ctx *StepContext) { o.c.add("geo.RegisterCoordinates") }
func (o *fakeGeom) RegisterOutputCoordinates(ctx *StepContext) {}

// movers /////////////////////////////////////////////////////////////////////////////////////////

type fakeMesh struct {
	c     *calls
	niter int
}

func (o *fakeMesh) RigidTranslation(ctx *StepContext) { o.c.add("mesh.RigidTranslation") }
func (o *fakeMesh) RigidPlunging(ctx *StepContext) { o.c.add("mesh.RigidPlunging") }
func (o *fakeMesh) RigidPitching(ctx *StepContext) { o.c.add("mesh.RigidPitching") }
func (o *fakeMesh) RigidRotation(ctx *StepContext) { o.c.add("mesh.RigidRotation") }
func (o *fakeMesh) UpdateMultiGrid(ctx *StepContext) { o.c.add("mesh.UpdateMultiGrid") }
func (o *fakeMesh) SetVolumeDeformation(ctx *StepContext, updateGeo bool) {
	o.c.add("mesh.SetVolumeDeformation")
}
func (o *fakeMesh) SetVolumeDeformationElas(ctx *StepContext, updateGeo bool) {
	o.c.add("mesh.SetVolumeDeformationElas")
}
func (o *fakeMesh) NIterMesh() int { return o.niter }

// output /////////////////////////////////////////////////////////////////////////////////////////

type fakeOutput struct {
	c       *calls
	headers int
	bodies  map[System]int
	results []int
}

func newFakeOutput(c *calls) *fakeOutput {
	return &fakeOutput{c: c, bodies: make(map[System]int)}
}

func (o *fakeOutput) SetConvHistoryHeader(ctx *StepContext, sys System) {
	o.c.add("out.Header")
	o.headers++
}
func (o *fakeOutput) SetConvHistoryBody(ctx *StepContext, sys System, usedTime float64) {
	o.c.add("out.Body")
	o.bodies[sys]++
}
func (o *fakeOutput) SetCFLNumber(ctx *StepContext) { o.c.add("out.SetCFLNumber") }
func (o *fakeOutput) SetCpInverseDesign(ctx *StepContext) { o.c.add("out.SetCpInverseDesign") }
func (o *fakeOutput) SetHeatFluxInverseDesign(ctx *StepContext) { o.c.add("out.SetHeatFluxInverseDesign") }
func (o *fakeOutput) ComputeTurboPerformance(ctx *StepContext) { o.c.add("out.ComputeTurboPerformance") }
func (o *fakeOutput) SetResultFiles(ctx *StepContext, iter int) error {
	o.results = append(o.results, iter)
	return nil
}
func (o *fakeOutput) SetSpecialOutput(ctx *StepContext, iter int) error { return nil }

// zone ///////////////////////////////////////////////////////////////////////////////////////////

// fakeZone holds a zone and its fakes
type fakeZone struct {
	c      *calls
	z      *Zone
	flow   *fakeFlow
	fea    *fakeStruct
	geo    *fakeGeom
	mesh   *fakeMesh
	out    *fakeOutput
	integr map[System]*fakeIntegr
}

// newFakeZone returns a zone with a flow solver on all levels, a structure, and integrations of all
// forward systems
func newFakeZone(cfg *inp.Config) (o *fakeZone) {
	o = &fakeZone{c: new(calls), integr: make(map[System]*fakeIntegr)}
	o.z = NewZone(cfg)
	o.flow = newFakeFlow(o.c)
	o.fea = newFakeStruct(o.c)
	o.geo = newFakeGeom(o.c, [][]float64{{0, 0}, {0.5, 0}, {1, 0}, {1.5, 0}})
	o.mesh = &fakeMesh{c: o.c}
	o.out = newFakeOutput(o.c)
	for level := 0; level < o.z.NLevels(); level++ {
		o.z.SetSolver(FlowSys, level, o.flow)
		o.z.SetGeometry(level, o.geo)
	}
	o.z.SetSolver(FEASys, Mesh0, o.fea)
	for _, sys := range []System{FlowSys, TurbSys, TransSys, HeatSys, FEASys} {
		o.integr[sys] = newFakeIntegr(o.c, sys.String())
		o.z.Integrs[sys] = o.integr[sys]
	}
	o.z.Mesh = o.mesh
	return
}
