// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/bmunguia/su2-oneshot/iteration"
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

// has returns whether entry was logged
func (o *calls) has(entry string) bool { return o.count(entry) > 0 }

// index returns the position of the first entry; -1 if absent
func (o *calls) index(entry string) int {
	for i, l := range o.log {
		if l == entry {
			return i
		}
	}
	return -1
}

// reset clears the log
func (o *calls) reset() { o.log = nil }

// tape ///////////////////////////////////////////////////////////////////////////////////////////

type fakeTape struct {
	c *calls
}

func (o *fakeTape) Reset()          { o.c.add("tape.Reset") }
func (o *fakeTape) StartRecording() { o.c.add("tape.Start") }
func (o *fakeTape) StopRecording()  { o.c.add("tape.Stop") }
func (o *fakeTape) ComputeAdjoint() { o.c.add("tape.ComputeAdjoint") }
func (o *fakeTape) ClearAdjoints()  { o.c.add("tape.ClearAdjoints") }

// recordable /////////////////////////////////////////////////////////////////////////////////////

type fakeRecordable struct {
	c *calls
}

func (o *fakeRecordable) SetRecording(ctx *iteration.StepContext, kind RecordingKind) error {
	o.c.add("SetRecording(%v)", kind)
	return nil
}
func (o *fakeRecordable) RegisterInput(ctx *iteration.StepContext, kind RecordingKind) error {
	o.c.add("RegisterInput(%v)", kind)
	return nil
}
func (o *fakeRecordable) SetDependencies(ctx *iteration.StepContext, kind RecordingKind) error {
	o.c.add("SetDependencies(%v)", kind)
	return nil
}
func (o *fakeRecordable) RegisterOutput(ctx *iteration.StepContext) error {
	o.c.add("RegisterOutput")
	return nil
}

// solver /////////////////////////////////////////////////////////////////////////////////////////

// fakeSolver implements the direct and adjoint solver contracts of all disciplines
type fakeSolver struct {
	c     *calls
	name  string
	slots map[iteration.Slot][]float64
	res   float64 // RMS residual
	obj   float64 // objective function

	// material data of the structural adjoint
	young, poisson, rho, rhoDL, efield, dv []float64
	sensE, sensNu, sensRho, sensEField    []float64
	sensDV                                []float64
}

func newFakeSolver(c *calls, name string) *fakeSolver {
	return &fakeSolver{c: c, name: name, slots: make(map[iteration.Slot][]float64), res: 1e-3}
}

// storage
func (o *fakeSolver) Field(s iteration.Slot) []float64 { return o.slots[s] }
func (o *fakeSolver) SetField(s iteration.Slot, v []float64) {
	o.slots[s] = append([]float64{}, v...)
}
func (o *fakeSolver) CopySlot(dst, src iteration.Slot) {
	o.slots[dst] = append([]float64{}, o.slots[src]...)
}
func (o *fakeSolver) ZeroSlot(s iteration.Slot) {
	o.slots[s] = make([]float64, len(o.slots[s]))
}

// solver
func (o *fakeSolver) Preprocessing(ctx *iteration.StepContext, level int) error {
	o.c.add("%s.Preprocessing", o.name)
	return nil
}
func (o *fakeSolver) Postprocessing(ctx *iteration.StepContext, level int) error {
	o.c.add("%s.Postprocessing", o.name)
	return nil
}
func (o *fakeSolver) InitiateComms(kind iteration.CommKind) { o.c.add("%s.InitiateComms", o.name) }
func (o *fakeSolver) CompleteComms(kind iteration.CommKind) { o.c.add("%s.CompleteComms", o.name) }
func (o *fakeSolver) LoadRestart(ctx *iteration.StepContext, step int) error {
	o.c.add("%s.LoadRestart(%d)", o.name, step)
	o.slots[iteration.SlotSol] = []float64{float64(step)}
	return nil
}
func (o *fakeSolver) SetFreeStreamSolution() {
	o.c.add("%s.SetFreeStreamSolution", o.name)
	o.slots[iteration.SlotSol] = []float64{-1}
}
func (o *fakeSolver) SetInitialCondition(ctx *iteration.StepContext) {
	o.c.add("%s.SetInitialCondition", o.name)
}
func (o *fakeSolver) ResRMS(ivar int) float64 { return o.res }

// flow and turbomachinery
func (o *fakeSolver) VelocityInf(idim int) float64            { return 0 }
func (o *fakeSolver) SetWindGust(ipoint int, g []float64)     {}
func (o *fakeSolver) SetWindGustDer(ipoint int, d []float64)  {}
func (o *fakeSolver) Aeroelastic(ctx *iteration.StepContext) error { return nil }
func (o *fakeSolver) TurboAverageProcess(ctx *iteration.StepContext, marker iteration.TurboMarker) {
	o.c.add("%s.TurboAverageProcess(%d)", o.name, marker)
}
func (o *fakeSolver) GatherInOutAverageValues(ctx *iteration.StepContext) {
	o.c.add("%s.GatherInOutAverageValues", o.name)
}

// heat
func (o *fakeSolver) SetHeatfluxAreas(ctx *iteration.StepContext) {
	o.c.add("%s.SetHeatfluxAreas", o.name)
}

// structure
func (o *fakeSolver) ComputeNodalStress(ctx *iteration.StepContext)    { o.c.add("%s.ComputeNodalStress", o.name) }
func (o *fakeSolver) ResetInitialCondition(ctx *iteration.StepContext) {}
func (o *fakeSolver) SetLoadIncrement(f float64)                       {}
func (o *fakeSolver) SetForceCoeff(f float64)                          {}
func (o *fakeSolver) ResFEM(i int) float64                             { return o.res }
func (o *fakeSolver) StiffnessPenalty(ctx *iteration.StepContext)      {}
func (o *fakeSolver) ComputeOFRefGeom(ctx *iteration.StepContext)      {}
func (o *fakeSolver) ComputeOFRefNode(ctx *iteration.StepContext) {
	o.c.add("%s.ComputeOFRefNode", o.name)
}
func (o *fakeSolver) ComputeOFVolFrac(ctx *iteration.StepContext)          {}
func (o *fakeSolver) Objective() float64                                   { return o.obj }
func (o *fakeSolver) PredictStructDisplacement(ctx *iteration.StepContext) {}
func (o *fakeSolver) ImplicitNewmarkRelaxation(ctx *iteration.StepContext) {}

// adjoint
func (o *fakeSolver) SetRecording(ctx *iteration.StepContext) {
	o.c.add("%s.SetRecording", o.name)
	o.CopySlot(iteration.SlotSol, iteration.SlotDirect)
}
func (o *fakeSolver) RegisterSolution(ctx *iteration.StepContext) {
	o.c.add("%s.RegisterSolution", o.name)
}
func (o *fakeSolver) RegisterVariables(ctx *iteration.StepContext) {
	o.c.add("%s.RegisterVariables", o.name)
}
func (o *fakeSolver) RegisterOutput(ctx *iteration.StepContext) { o.c.add("%s.RegisterOutput", o.name) }
func (o *fakeSolver) ExtractAdjointSolution(ctx *iteration.StepContext) {
	o.c.add("%s.ExtractAdjointSolution", o.name)
}
func (o *fakeSolver) ExtractAdjointSolutionClean(ctx *iteration.StepContext) {
	o.c.add("%s.ExtractAdjointSolutionClean", o.name)
}
func (o *fakeSolver) ExtractAdjointVariables(ctx *iteration.StepContext) {
	o.c.add("%s.ExtractAdjointVariables", o.name)
}
func (o *fakeSolver) SetAdjObjFunc(ctx *iteration.StepContext) { o.c.add("%s.SetAdjObjFunc", o.name) }
func (o *fakeSolver) SetAdjointOutput(ctx *iteration.StepContext) {
	o.c.add("%s.SetAdjointOutput", o.name)
}
func (o *fakeSolver) SetAdjointOutputUpdate(ctx *iteration.StepContext) {
	o.c.add("%s.SetAdjointOutputUpdate", o.name)
}
func (o *fakeSolver) SetAdjointOutputZero(ctx *iteration.StepContext) {
	o.c.add("%s.SetAdjointOutputZero", o.name)
}
func (o *fakeSolver) SetSensitivity(ctx *iteration.StepContext) { o.c.add("%s.SetSensitivity", o.name) }

// structural adjoint
func (o *fakeSolver) ValYoung(i int) float64        { return o.young[i] }
func (o *fakeSolver) ValPoisson(i int) float64      { return o.poisson[i] }
func (o *fakeSolver) ValRho(i int) float64          { return o.rho[i] }
func (o *fakeSolver) ValRhoDL(i int) float64        { return o.rhoDL[i] }
func (o *fakeSolver) NEField() int                  { return len(o.efield) }
func (o *fakeSolver) ValEField(i int) float64       { return o.efield[i] }
func (o *fakeSolver) NDVFEA() int                   { return len(o.dv) }
func (o *fakeSolver) ValDVFEA(i int) float64        { return o.dv[i] }
func (o *fakeSolver) TotalSensE(i int) float64      { return o.sensE[i] }
func (o *fakeSolver) TotalSensNu(i int) float64     { return o.sensNu[i] }
func (o *fakeSolver) TotalSensRho(i int) float64    { return o.sensRho[i] }
func (o *fakeSolver) TotalSensEField(i int) float64 { return o.sensEField[i] }
func (o *fakeSolver) TotalSensDVFEA(i int) float64  { return o.sensDV[i] }
func (o *fakeSolver) BCClampedPost(ctx *iteration.StepContext, marker int) {
	o.c.add("%s.BCClampedPost(%d)", o.name, marker)
}

// continuous adjoint
func (o *fakeSolver) SetForceProjVector(ctx *iteration.StepContext) {
	o.c.add("%s.SetForceProjVector", o.name)
}
func (o *fakeSolver) SetIntBoundaryJump(ctx *iteration.StepContext) {
	o.c.add("%s.SetIntBoundaryJump", o.name)
}

// integration ////////////////////////////////////////////////////////////////////////////////////

type fakeIntegr struct {
	c        *calls
	name     string
	conv     bool
	convAt   int       // converge at the convAt-th monitoring; 0 => never
	monitors []float64 // monitored values
	exts     []int     // ExtIter at each structural iteration
}

func newFakeIntegr(c *calls, name string) *fakeIntegr { return &fakeIntegr{c: c, name: name} }

func (o *fakeIntegr) MultiGridIteration(ctx *iteration.StepContext, sys iteration.System) error {
	o.c.add("%s.MultiGrid", o.name)
	return nil
}
func (o *fakeIntegr) SingleGridIteration(ctx *iteration.StepContext, sys iteration.System) error {
	o.c.add("%s.SingleGrid", o.name)
	return nil
}
func (o *fakeIntegr) StructuralIteration(ctx *iteration.StepContext, sys iteration.System) error {
	o.c.add("%s.Structural", o.name)
	o.exts = append(o.exts, ctx.ExtIter)
	return nil
}
func (o *fakeIntegr) SetDualTimeSolver(ctx *iteration.StepContext, level int) {
	o.c.add("%s.SetDualTimeSolver(%d)", o.name, level)
}
func (o *fakeIntegr) SetStructuralSolver(ctx *iteration.StepContext) {}
func (o *fakeIntegr) ConvergenceMonitoring(ctx *iteration.StepContext, monitor float64) {
	o.monitors = append(o.monitors, monitor)
	if o.convAt > 0 && len(o.monitors) >= o.convAt {
		o.conv = true
	}
}
func (o *fakeIntegr) SetConvergence(converged bool) { o.conv = converged }
func (o *fakeIntegr) Convergence() bool             { return o.conv }

// geometry ///////////////////////////////////////////////////////////////////////////////////////

type fakeGeom struct {
	c *calls
}

func (o *fakeGeom) NPoint() int                                      { return 1 }
func (o *fakeGeom) NDim() int                                        { return 2 }
func (o *fakeGeom) Coord(ipoint int) []float64                       { return []float64{0, 0} }
func (o *fakeGeom) AddCoord(ipoint, idim int, delta float64)         {}
func (o *fakeGeom) GridVel(ipoint int) []float64                     { return []float64{0, 0} }
func (o *fakeGeom) SetGridVel(ipoint int, v []float64)               {}
func (o *fakeGeom) SetGridVelocity(ctx *iteration.StepContext)       {}
func (o *fakeGeom) UpdateGeometry(ctx *iteration.StepContext)        { o.c.add("geo.UpdateGeometry") }
func (o *fakeGeom) RegisterCoordinates(ctx *iteration.StepContext)   { o.c.add("geo.RegisterCoordinates") }
func (o *fakeGeom) RegisterOutputCoordinates(ctx *iteration.StepContext) {
	o.c.add("geo.RegisterOutputCoordinates")
}

// numerics ///////////////////////////////////////////////////////////////////////////////////////

type fakeNumerics struct {
	c    *calls
	name string
}

func (o *fakeNumerics) SetMaterialProperties(i int, young, poisson float64) {
	o.c.add("%s.SetMaterialProperties(%d,%g,%g)", o.name, i, young, poisson)
}
func (o *fakeNumerics) SetMaterialDensity(i int, rho, rhoDL float64) {
	o.c.add("%s.SetMaterialDensity(%d,%g,%g)", o.name, i, rho, rhoDL)
}
func (o *fakeNumerics) SetElectricField(i int, e float64) {
	o.c.add("%s.SetElectricField(%d,%g)", o.name, i, e)
}
func (o *fakeNumerics) SetDVVal(i int, v float64) { o.c.add("%s.SetDVVal(%d,%g)", o.name, i, v) }

// output /////////////////////////////////////////////////////////////////////////////////////////

type fakeOutput struct {
	c       *calls
	bodies  map[iteration.System]int
	results []int
}

func newFakeOutput(c *calls) *fakeOutput {
	return &fakeOutput{c: c, bodies: make(map[iteration.System]int)}
}

func (o *fakeOutput) SetConvHistoryHeader(ctx *iteration.StepContext, sys iteration.System) {}
func (o *fakeOutput) SetConvHistoryBody(ctx *iteration.StepContext, sys iteration.System, usedTime float64) {
	o.c.add("out.Body(%v)", sys)
	o.bodies[sys]++
}
func (o *fakeOutput) SetCFLNumber(ctx *iteration.StepContext) {}
func (o *fakeOutput) SetCpInverseDesign(ctx *iteration.StepContext) {
	o.c.add("out.SetCpInverseDesign")
}
func (o *fakeOutput) SetHeatFluxInverseDesign(ctx *iteration.StepContext) {
	o.c.add("out.SetHeatFluxInverseDesign")
}
func (o *fakeOutput) ComputeTurboPerformance(ctx *iteration.StepContext) {
	o.c.add("out.ComputeTurboPerformance")
}
func (o *fakeOutput) SetResultFiles(ctx *iteration.StepContext, iter int) error {
	o.results = append(o.results, iter)
	return nil
}
func (o *fakeOutput) SetSpecialOutput(ctx *iteration.StepContext, iter int) error { return nil }

// zone ///////////////////////////////////////////////////////////////////////////////////////////

// fakeZone holds a zone with direct and adjoint solvers of all disciplines
type fakeZone struct {
	c       *calls
	z       *iteration.Zone
	solvers map[iteration.System]*fakeSolver // finest level
	integr  map[iteration.System]*fakeIntegr
	geo     *fakeGeom
	out     *fakeOutput
	tape    *fakeTape
	session *Session
}

// newFakeZone returns a zone with all solvers on the finest level and the flow solvers on all levels
func newFakeZone(cfg *inp.Config) (o *fakeZone) {
	o = &fakeZone{c: new(calls), solvers: make(map[iteration.System]*fakeSolver), integr: make(map[iteration.System]*fakeIntegr)}
	o.z = iteration.NewZone(cfg)
	o.geo = &fakeGeom{c: o.c}
	o.out = newFakeOutput(o.c)
	o.tape = &fakeTape{c: o.c}
	o.session = NewSession(o.tape)
	systems := []iteration.System{
		iteration.FlowSys, iteration.TurbSys, iteration.TransSys, iteration.HeatSys, iteration.FEASys,
		iteration.AdjFlowSys, iteration.AdjTurbSys, iteration.AdjHeatSys, iteration.AdjFEASys,
	}
	for _, sys := range systems {
		s := newFakeSolver(o.c, sys.String())
		o.solvers[sys] = s
		o.z.SetSolver(sys, iteration.Mesh0, s)
		o.integr[sys] = newFakeIntegr(o.c, sys.String())
		o.z.Integrs[sys] = o.integr[sys]
	}
	for level := 0; level < o.z.NLevels(); level++ {
		o.z.SetGeometry(level, o.geo)
		if level > 0 {
			o.z.SetSolver(iteration.FlowSys, level, newFakeSolver(o.c, io.Sf("flow%d", level)))
			o.z.SetSolver(iteration.AdjFlowSys, level, newFakeSolver(o.c, io.Sf("adjflow%d", level)))
		}
	}
	for t, name := range map[iteration.Term]string{
		iteration.FEATerm:    "fea",
		iteration.DETerm:     "de",
		iteration.MatNHComp:  "nh",
		iteration.MatIdealDE: "idealde",
		iteration.MatKnowles: "knowles",
	} {
		o.z.Terms[t] = &fakeNumerics{c: o.c, name: "term." + name}
	}
	return
}

// setMaterial sets the material data of the structural adjoint
func (o *fakeZone) setMaterial() {
	a := o.solvers[iteration.AdjFEASys]
	a.young, a.poisson = []float64{200}, []float64{0.3}
	a.rho, a.rhoDL = []float64{7.8}, []float64{0.5}
	a.efield = []float64{10}
	a.dv = []float64{1, 2}
	a.sensE, a.sensNu = []float64{0.25}, []float64{-0.5}
	a.sensRho, a.sensEField = []float64{0.125}, []float64{4}
	a.sensDV = []float64{1.5, -2.5}
}
