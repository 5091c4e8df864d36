// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iteration

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Vortex holds the data of one vortex of a vortex gust
type Vortex struct {
	X0       float64 // initial x-coordinate of the centre
	Y0       float64 // y-coordinate of the centre
	Strength float64 // circulation; positive clockwise
	Rcore    float64 // core radius
}

// Velocity returns the velocity induced at (x,y) when the centre is at (xc, Y0)
//  Note: vθ = Γ/(2π) · r/(r²+rc²); the velocity is zero at the centre
func (o Vortex) Velocity(x, y, xc float64) (u, v float64) {
	dx, dy := x-xc, y-o.Y0
	r2 := dx*dx + dy*dy
	if r2 == 0 {
		return
	}
	r := math.Sqrt(r2)
	vth := o.Strength / (2.0 * math.Pi) * r / (r2 + o.Rcore*o.Rcore)
	return vth * dy / r, -vth * dx / r
}

// ReadVortices reads a vortex distribution file
//  Format: one header line followed by lines with "x0 y0 strength core_radius"; blank lines are ignored
func ReadVortices(fn string) (vortices []Vortex, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("there is no vortex data file:\n%v", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	header := true
	for nl := 1; sc.Scan(); nl++ {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, chk.Err("%s:%d: vortex line must have 4 fields; got %d", fn, nl, len(fields))
		}
		var vals [4]float64
		for i := 0; i < 4; i++ {
			vals[i], err = strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, chk.Err("%s:%d: cannot parse vortex data:\n%v", fn, nl, err)
			}
		}
		vortices = append(vortices, Vortex{vals[0], vals[1], vals[2], vals[3]})
	}
	if err = sc.Err(); err != nil {
		return nil, chk.Err("cannot read vortex file %q:\n%v", fn, err)
	}
	return
}

// GustProfile returns the gust amplitude of the top_hat, sine, one_m_cosine and eog profiles
// at the gust coordinate xi; the gust is zero unless 0 < xi < periods
func GustProfile(kind string, amp, xi, periods float64) float64 {
	if !(xi > 0 && xi < periods) {
		return 0
	}
	switch kind {
	case "top_hat":
		return amp
	case "sine":
		return amp * math.Sin(2.0*math.Pi*xi)
	case "one_m_cosine":
		return amp * (1.0 - math.Cos(2.0*math.Pi*xi))
	case "eog":
		return -0.37 * amp * math.Sin(3.0*math.Pi*xi) * (1.0 - math.Cos(2.0*math.Pi*xi))
	}
	return 0
}

// SetWindGustField imposes the gust on all levels of the flow as a negative grid velocity
// (field velocity method); the gust derivatives are set to zero
//  Input:
//    vortices -- vortex distribution; used by the vortex gust only
func SetWindGustField(ctx *StepContext, z *Zone, vortices []Vortex) (err error) {

	// parameters
	cfg := ctx.Cfg
	kind := cfg.Gust.Type
	xbegin := cfg.Gust.BeginLoc
	tbegin := cfg.Gust.BeginTime
	L := cfg.Gust.WaveLength
	amp := cfg.Gust.Ampl
	n := cfg.Gust.Periods
	dir := 1
	if cfg.Gust.Dir == "x" {
		dir = 0
	}
	if L <= 0 && kind != "vortex" {
		return chk.Err("the gust length needs to be positive; L = %g is invalid", L)
	}
	t := float64(ctx.ExtIter) * cfg.Time.Dt
	uinf := z.Flow(Mesh0).VelocityInf(0)
	gustGrid := cfg.Movement.Kind == "gust"

	// message
	ctx.Printf("\nRunning simulation with a wind gust.\n")
	ndim := z.Geometry(Mesh0).NDim()
	if ndim < 2 {
		return chk.Err("wind gust requires a grid with at least 2 dimensions")
	}
	if ndim != 2 {
		ctx.Printf("WARNING - wind gust capability is only verified for 2 dimensional simulations.\n")
	}
	switch kind {
	case "top_hat", "sine", "one_m_cosine", "eog", "vortex":
	default:
		ctx.Printf("No wind gust specified.\n")
	}

	// all levels and points
	gust := make([]float64, ndim)
	der := make([]float64, 3)
	newvel := make([]float64, ndim)
	for level := 0; level < z.NLevels(); level++ {
		geo := z.Geometry(level)
		flow := z.Flow(level)
		for ip := 0; ip < geo.NPoint(); ip++ {
			if gustGrid {
				for i := range newvel {
					newvel[i] = 0
				}
				geo.SetGridVel(ip, newvel)
			}
			for i := range gust {
				gust[i] = 0
			}
			if t >= tbegin {
				x := geo.Coord(ip)
				xc := uinf * (t - tbegin)
				if kind == "vortex" {
					for _, vx := range vortices {
						u, v := vx.Velocity(x[0], x[1], vx.X0+xc)
						gust[0] += u
						gust[1] += v
					}
				} else {
					xi := (x[0] - xbegin - xc) / L
					gust[dir] = GustProfile(kind, amp, xi, n)
				}
			}
			flow.SetWindGust(ip, gust)
			flow.SetWindGustDer(ip, der)
			gv := geo.GridVel(ip)
			for i := 0; i < ndim; i++ {
				newvel[i] = gv[i] - gust[i]
			}
			geo.SetGridVel(ip, newvel)
		}
	}
	return
}
