// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"sort"

	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/cpmech/gosl/chk"
)

// Key locates one zone/instance
type Key struct {
	Zone int // zone index
	Inst int // instance index
}

// Zone holds the handles of all disciplines of one zone/instance
type Zone struct {
	Cfg     *inp.Config            // configuration
	Geoms   []Geometry             // [nLevels] grids
	Solvers map[System][]Solver    // [sys][level] solvers; turbulence, transition and heat only on Mesh0
	Integrs map[System]Integration // [sys] integration services
	Terms   map[Term]Numerics      // FEA numerics terms
	Mesh    MeshMover              // volume grid movement; may be nil
	Surface SurfaceMover           // surface movement; may be nil
}

// NewZone allocates a new zone with empty tables
func NewZone(cfg *inp.Config) (o *Zone) {
	o = new(Zone)
	o.Cfg = cfg
	o.Solvers = make(map[System][]Solver)
	o.Integrs = make(map[System]Integration)
	o.Terms = make(map[Term]Numerics)
	return
}

// NLevels returns the number of multigrid levels
func (o *Zone) NLevels() int { return o.Cfg.Solver.NMGLevels + 1 }

// SetSolver sets the solver of a system on a multigrid level
func (o *Zone) SetSolver(sys System, level int, s Solver) {
	for len(o.Solvers[sys]) <= level {
		o.Solvers[sys] = append(o.Solvers[sys], nil)
	}
	o.Solvers[sys][level] = s
}

// SetGeometry sets the grid of a multigrid level
func (o *Zone) SetGeometry(level int, g Geometry) {
	for len(o.Geoms) <= level {
		o.Geoms = append(o.Geoms, nil)
	}
	o.Geoms[level] = g
}

// HasSolver returns whether a system has a solver on the finest level
func (o *Zone) HasSolver(sys System) bool {
	ss := o.Solvers[sys]
	return len(ss) > 0 && ss[Mesh0] != nil
}

// Solver returns the solver of a system on a multigrid level
func (o *Zone) Solver(sys System, level int) Solver {
	ss := o.Solvers[sys]
	if level < 0 || level >= len(ss) || ss[level] == nil {
		chk.Panic("zone has no %v solver on level %d", sys, level)
	}
	return ss[level]
}

// Flow returns the mean-flow solver on a multigrid level
func (o *Zone) Flow(level int) FlowSolver {
	s, ok := o.Solver(FlowSys, level).(FlowSolver)
	if !ok {
		chk.Panic("flow solver on level %d does not implement FlowSolver", level)
	}
	return s
}

// Heat returns the heat solver
func (o *Zone) Heat() HeatSolver {
	s, ok := o.Solver(HeatSys, Mesh0).(HeatSolver)
	if !ok {
		chk.Panic("heat solver does not implement HeatSolver")
	}
	return s
}

// Struct returns the structural solver
func (o *Zone) Struct() StructSolver {
	s, ok := o.Solver(FEASys, Mesh0).(StructSolver)
	if !ok {
		chk.Panic("structural solver does not implement StructSolver")
	}
	return s
}

// Turbo returns the turbomachinery averaging of the mean-flow solver
func (o *Zone) Turbo() TurboSolver {
	s, ok := o.Solver(FlowSys, Mesh0).(TurboSolver)
	if !ok {
		chk.Panic("flow solver does not implement TurboSolver")
	}
	return s
}

// Integration returns the integration service of a system
func (o *Zone) Integration(sys System) Integration {
	it, ok := o.Integrs[sys]
	if !ok || it == nil {
		chk.Panic("zone has no %v integration", sys)
	}
	return it
}

// Geometry returns the grid of a multigrid level
func (o *Zone) Geometry(level int) Geometry {
	if level < 0 || level >= len(o.Geoms) || o.Geoms[level] == nil {
		chk.Panic("zone has no geometry on level %d", level)
	}
	return o.Geoms[level]
}

// Numerics returns a FEA numerics term; ok is false if the term was not instantiated
func (o *Zone) Numerics(t Term) (n Numerics, ok bool) {
	n, ok = o.Terms[t]
	return
}

// Registry holds all zones/instances
type Registry struct {
	zones map[Key]*Zone
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{zones: make(map[Key]*Zone)}
}

// Add adds a zone/instance; panics if it was added already
func (o *Registry) Add(zone, inst int, z *Zone) {
	k := Key{zone, inst}
	if _, ok := o.zones[k]; ok {
		chk.Panic("zone %d instance %d exists already", zone, inst)
	}
	o.zones[k] = z
}

// Get returns a zone/instance
func (o *Registry) Get(k Key) *Zone {
	z, ok := o.zones[k]
	if !ok {
		chk.Panic("cannot find zone %d instance %d", k.Zone, k.Inst)
	}
	return z
}

// Keys returns all keys sorted by zone then instance
func (o *Registry) Keys() (keys []Key) {
	for k := range o.zones {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Zone == keys[j].Zone {
			return keys[i].Inst < keys[j].Inst
		}
		return keys[i].Zone < keys[j].Zone
	})
	return
}
