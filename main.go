// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"time"

	"github.com/bmunguia/su2-oneshot/adjoint"
	"github.com/bmunguia/su2-oneshot/driver"
	"github.com/bmunguia/su2-oneshot/inp"
	"github.com/bmunguia/su2-oneshot/iteration"
	"github.com/bmunguia/su2-oneshot/model"
	"github.com/bmunguia/su2-oneshot/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// caseData holds the reference collaborators of the command line runs
type caseData struct {
	npoint int     // number of grid points of flow and heat cases
	source float64 // source of flow and heat cases
	nelem  int     // number of springs of structural cases
	young  float64 // elasticity modulus
	rhoDL  float64 // dead-load density
	force  float64 // tip load
	alpha  float64 // cubic stiffening
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()
	setupLogging()

	// commands
	if err := newRootCmd().Execute(); err != nil {
		chk.Panic("%v", err)
	}
}

// setupLogging configures zerolog from LOG_LEVEL
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "su2oneshot",
		Short:         "Iteration control and discrete adjoint of single-zone cases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newResidPlotCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var data caseData
	var alias string
	var plot bool
	cmd := &cobra.Command{
		Use:   "run <case.yaml>",
		Short: "Run the forward and, for adjoint kinds, the discrete adjoint solution of a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := inp.ReadConfig(args[0], alias)
			if err != nil {
				return err
			}
			return run(cfg, &data, plot)
		},
	}
	f := cmd.Flags()
	f.StringVar(&alias, "alias", "", "word appended to the filename key")
	f.BoolVar(&plot, "plot", false, "plot the residuals")
	f.IntVar(&data.npoint, "npoint", 17, "number of grid points (flow and heat)")
	f.Float64Var(&data.source, "source", 1, "source term (flow and heat)")
	f.IntVar(&data.nelem, "nelem", 4, "number of springs (structure)")
	f.Float64Var(&data.young, "young", 10, "elasticity modulus (structure)")
	f.Float64Var(&data.rhoDL, "rhodl", 0.5, "dead-load density (structure)")
	f.Float64Var(&data.force, "force", 1, "tip load (structure)")
	f.Float64Var(&data.alpha, "alpha", 0.1, "cubic stiffening (structure)")
	return cmd
}

func newResidPlotCmd() *cobra.Command {
	var enctype, fname string
	cmd := &cobra.Command{
		Use:   "residplot <dirout> <fnkey>",
		Short: "Plot the convergence history saved in a summary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := out.ReadSum(args[0], args[1], enctype)
			if err != nil {
				return err
			}
			return out.PlotResiduals(sum, args[0], fname, true)
		},
	}
	cmd.Flags().StringVar(&enctype, "enc", "gob", "encoder type of the summary (gob or json)")
	cmd.Flags().StringVar(&fname, "fig", "residuals.png", "figure file name")
	return cmd
}

// run solves a case with the reference collaborators
func run(cfg *inp.Config, data *caseData, plot bool) (err error) {

	// case
	cpu := time.Now()
	c, err := newCase(cfg, data)
	if err != nil {
		return
	}
	hist := out.NewHistory(c.Zone, log.Logger)
	metrics := driver.NewMetrics("su2oneshot")
	if cfg.Data.Verbose {
		io.PfWhite("\nsu2oneshot -- %s (%s)\n\n", cfg.Key, cfg.Solver.Kind)
	}

	// forward solution with the forward kind
	direct, _, _, err := driver.Disciplines(cfg.Solver.Kind)
	if err != nil {
		return
	}
	fcfg := *cfg
	fcfg.Solver.Kind = direct
	c.Zone.Cfg = &fcfg
	fwd, err := driver.NewSinglezone(c.Zone, hist, log.Logger, metrics)
	if err != nil {
		return
	}
	err = fwd.Run(iteration.NewStepContext(&fcfg, 0, 0))
	if err != nil {
		return
	}
	c.Zone.Cfg = cfg

	// discrete adjoint
	if cfg.DiscreteAdjoint() {
		var obj driver.Objective
		if c.Obj != nil {
			obj = c.Obj
		}
		var adj *driver.DiscAdjSinglezone
		adj, err = driver.NewDiscAdjSinglezone(c.Zone, hist, adjoint.NewSession(c.Tape), obj, log.Logger, metrics)
		if err != nil {
			return
		}
		err = adj.StartSolver(iteration.NewStepContext(cfg, 0, 0))
		if err != nil {
			return
		}
		report(c, adj)
	}

	// summary and figure
	err = hist.Sum.Save(cfg.Data.Verbose)
	if err != nil {
		return
	}
	if plot {
		err = out.PlotResiduals(hist.Sum, cfg.Data.DirOut, cfg.Key+"_residuals.png", cfg.Data.Verbose)
		if err != nil {
			return
		}
	}
	log.Info().Str("case", cfg.Key).Dur("cpu", time.Since(cpu)).Msg("done")
	return
}

// newCase allocates the reference collaborators of the kind of solver
func newCase(cfg *inp.Config, data *caseData) (c *model.Case, err error) {
	_, sys, _, err := driver.Disciplines(cfg.Solver.Kind)
	if err != nil {
		return
	}
	switch sys {
	case iteration.HeatSys:
		c = model.NewHeatCase(cfg, data.npoint, data.source)
	case iteration.FEASys:
		mat := model.NewMaterial(data.young, 0.3, 7.8, data.rhoDL)
		c = model.NewStructCase(cfg, data.nelem, mat, data.force, data.alpha)
	default:
		c = model.NewFlowCase(cfg, data.npoint, data.source)
	}
	return
}

// report prints the objective function and the sensitivities
func report(c *model.Case, adj *driver.DiscAdjSinglezone) {
	io.Pf("\nobjective function = %g\n", adj.ObjFunc)
	if c.Adjoint != nil {
		io.Pf("dJ/dQ = %g\n", c.Adjoint.SensQ)
		for i := 0; i < c.Grid.NPoint(); i++ {
			io.Pf("dJ/dx[%d] = %g\n", i, c.Adjoint.Sensitivity(i))
		}
	}
	if c.AdjSpring != nil {
		io.Pf("dJ/dE = %g\n", c.AdjSpring.TotalSensE(0))
		io.Pf("dJ/dν = %g\n", c.AdjSpring.TotalSensNu(0))
	}
}
