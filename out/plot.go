// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Figure size
var (
	FigWidth  = 16 * vg.Centimeter
	FigHeight = 10 * vg.Centimeter
)

// ResidualCurves returns the convergence curves of a summary sorted by system name
func ResidualCurves(sum *Summary) (names []string, curves []plotter.XYs) {
	for name, res := range sum.Resids {
		if len(res) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		res := sum.Resids[name]
		xy := make(plotter.XYs, len(res))
		for i, r := range res {
			xy[i].X = float64(i)
			xy[i].Y = r
		}
		curves = append(curves, xy)
	}
	return
}

// PlotResiduals draws the convergence curves of a summary
//  Input:
//   dirout -- directory to save figure
//   fname  -- file name; e.g. residuals.png or residuals.svg
func PlotResiduals(sum *Summary, dirout, fname string, verbose bool) (err error) {

	// curves
	names, curves := ResidualCurves(sum)
	if len(curves) == 0 {
		return chk.Err("summary of %q has no residuals", sum.Fnkey)
	}

	// plot
	p := plot.New()
	p.Title.Text = sum.Fnkey
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10(residual)"
	p.Add(plotter.NewGrid())
	for i, xy := range curves {
		l, e := plotter.NewLine(xy)
		if e != nil {
			return chk.Err("cannot draw %s residuals:\n%v", names[i], e)
		}
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Dashes = plotutil.Dashes(i)
		p.Add(l)
		p.Legend.Add(names[i], l)
	}
	p.Legend.Top = true

	// save figure
	err = os.MkdirAll(dirout, 0777)
	if err != nil {
		return chk.Err("cannot create directory %q:\n%v", dirout, err)
	}
	fn := filepath.Join(dirout, fname)
	err = p.Save(FigWidth, FigHeight, fn)
	if err != nil {
		return chk.Err("cannot save figure:\n%v", err)
	}
	if verbose {
		io.Pfblue2("file <%s> written\n", fn)
	}
	return
}
