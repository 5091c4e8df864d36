// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.yaml or .json) case file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Data holds global data for a case
type Data struct {
	Desc    string `yaml:"desc"    json:"desc"`                                             // description of case
	DirOut  string `yaml:"dirout"  json:"dirout"`                                           // directory for output; e.g. /tmp/su2oneshot
	Encoder string `yaml:"encoder" json:"encoder" validate:"omitempty,oneof=gob json"`      // encoder name; e.g. "gob" "json"
	Verbose bool   `yaml:"verbose" json:"verbose"`                                          // show messages
	Nproc   int    `yaml:"nproc"   json:"nproc"   validate:"gte=0"`                          // number of processes sharing the partitions
}

// SolverData holds the kind of iteration and the iteration budget
type SolverData struct {

	// kind of problem
	Kind      string `yaml:"kind"      json:"kind"      validate:"required,oneof=fluid turbo femfluid heat fea adjfluid discadjfluid discadjturbo discadjheat discadjfea oneshot"`
	Equations string `yaml:"equations" json:"equations" validate:"omitempty,oneof=euler navier_stokes rans les"` // flow equations
	Multizone bool   `yaml:"multizone" json:"multizone"`                                                          // multizone problem
	NZone     int    `yaml:"nzone"     json:"nzone"     validate:"gte=1"`                                          // number of zones
	NMGLevels int    `yaml:"nmglevels" json:"nmglevels" validate:"gte=0"`                                          // number of coarse multigrid levels

	// iteration budget
	NIter      int `yaml:"niter"      json:"niter"      validate:"gte=1"` // pseudo-time iterations of a single-zone problem
	NInnerIter int `yaml:"ninneriter" json:"ninneriter" validate:"gte=1"` // inner iterations of one block of a multizone problem
	NExtIter   int `yaml:"nextiter"   json:"nextiter"   validate:"gte=1"` // number of physical time steps (or outer iterations)
	NAdjIter   int `yaml:"nadjiter"   json:"nadjiter"   validate:"gte=0"` // adjoint fixed-point iterations; 0 => NIter

	// options
	Restart     bool `yaml:"restart"     json:"restart"`     // restart from a previous solution
	RestartFlow bool `yaml:"restartflow" json:"restartflow"` // restart the flow from a previous solution
	CFLAdapt    bool `yaml:"cfladapt"    json:"cfladapt"`    // adaptive CFL number
	FSI         bool `yaml:"fsi"         json:"fsi"`         // fluid-structure interaction
}

// TimeData holds time marching data
type TimeData struct {
	Marching string  `yaml:"marching" json:"marching" validate:"required,oneof=steady dt_stepping_1st dt_stepping_2nd time_stepping harmonic_balance rotational_frame"`
	Dt       float64 `yaml:"dt"       json:"dt"       validate:"gte=0"` // physical time step
	Total    float64 `yaml:"total"    json:"total"    validate:"gte=0"` // physical time horizon
}

// FlowData holds flow options
type FlowData struct {
	Freestream    []float64 `yaml:"freestream"    json:"freestream"    validate:"min=2,max=3"` // nondimensional freestream velocity
	Transition    bool      `yaml:"transition"    json:"transition"`                           // Langtry-Menter transition model
	FrozenVisc    bool      `yaml:"frozenvisc"    json:"frozenvisc"`                           // frozen viscosity in discrete adjoint
	WeaklyHeat    bool      `yaml:"weaklyheat"    json:"weaklyheat"`                           // weakly coupled heat equation
	InvDesignCp   bool      `yaml:"invdesigncp"   json:"invdesigncp"`                          // inverse design on pressure coefficient
	InvDesignHeat bool      `yaml:"invdesignheat" json:"invdesignheat"`                        // inverse design on heat flux
	FixedCL       bool      `yaml:"fixedcl"       json:"fixedcl"`                              // fixed lift coefficient mode
	IterDCLDAlpha int       `yaml:"iterdcldalpha" json:"iterdcldalpha" validate:"gte=0"`       // iterations to evaluate dCL/dAlpha
}

// GustData holds wind gust data
type GustData struct {
	Active     bool    `yaml:"active"     json:"active"`                                                               // apply a wind gust
	Type       string  `yaml:"type"       json:"type"       validate:"omitempty,oneof=none top_hat sine one_m_cosine eog vortex"` // gust profile
	Dir        string  `yaml:"dir"        json:"dir"        validate:"omitempty,oneof=x y"`                             // direction of gust velocity
	WaveLength float64 `yaml:"wavelength" json:"wavelength"`                                                           // gust length L
	Periods    float64 `yaml:"periods"    json:"periods"    validate:"gte=0"`                                           // number of gust periods n
	Ampl       float64 `yaml:"ampl"       json:"ampl"`                                                                 // gust amplitude
	BeginTime  float64 `yaml:"begintime"  json:"begintime"`                                                            // time when the gust starts
	BeginLoc   float64 `yaml:"beginloc"   json:"beginloc"`                                                             // location of gust front at begin time
	VortexFile string  `yaml:"vortexfile" json:"vortexfile"`                                                           // vortex distribution file
}

// MovementData holds dynamic grid data
type MovementData struct {
	Active          bool     `yaml:"active"          json:"active"`                                                                                                                            // grid movement
	Kind            string   `yaml:"kind"            json:"kind"            validate:"omitempty,oneof=none rigid_motion elasticity steady_translation rotating_frame aeroelastic aeroelastic_rigid_motion gust external external_rotation fluid_structure"` // kind of grid movement
	Surface         []string `yaml:"surface"         json:"surface"         validate:"dive,oneof=deforming aeroelastic aeroelastic_rigid_motion fluid_structure fluid_structure_static external external_rotation"`
	Aeroelastic     bool     `yaml:"aeroelastic"     json:"aeroelastic"`                    // aeroelastic simulation
	AeroelasticIter int      `yaml:"aeroelasticiter" json:"aeroelasticiter" validate:"gte=1"` // inner iterations between aeroelastic updates
	DeformOutput    bool     `yaml:"deformoutput"    json:"deformoutput"`                   // show deformation messages
}

// StructData holds structural (FEA) data
type StructData struct {

	// analysis
	Nonlinear       bool       `yaml:"nonlinear"       json:"nonlinear"`                         // large deformations
	IncrementalLoad bool       `yaml:"incrementalload" json:"incrementalload"`                   // incremental load if direct Newton is not enough
	NIncrements     int        `yaml:"nincrements"     json:"nincrements"     validate:"gte=1"`  // number of load increments
	IncCriteria     [3]float64 `yaml:"inccriteria"     json:"inccriteria"`                       // log10 criteria {UTOL, RTOL, ETOL}
	NSubIter        int        `yaml:"nsubiter"        json:"nsubiter"        validate:"gte=1"`  // Newton-Raphson sub-iterations
	PrintFreq       int        `yaml:"printfreq"       json:"printfreq"       validate:"gte=1"`  // history frequency of sub-iterations

	// dynamics
	Dynamic     bool    `yaml:"dynamic"     json:"dynamic"`                                                                  // dynamic analysis
	DynDt       float64 `yaml:"dyndt"       json:"dyndt"       validate:"gte=0"`                                              // structural time step
	DynTotal    float64 `yaml:"dyntotal"    json:"dyntotal"    validate:"gte=0"`                                              // structural time horizon
	TimeScheme  string  `yaml:"timescheme"  json:"timescheme"  validate:"omitempty,oneof=newmark_implicit generalized_alpha cd_explicit"`

	// objective and design variables
	ObjFunc      string `yaml:"objfunc"      json:"objfunc"      validate:"omitempty,oneof=none reference_geometry reference_node volume_fraction"`
	DV           string `yaml:"dv"           json:"dv"           validate:"omitempty,oneof=none young_modulus poisson_ratio density dead_weight electric_field"`
	NElasticity  int    `yaml:"nelasticity"  json:"nelasticity"  validate:"gte=0"` // number of elasticity moduli
	NPoisson     int    `yaml:"npoisson"     json:"npoisson"     validate:"gte=0"` // number of Poisson ratios
	NDensity     int    `yaml:"ndensity"     json:"ndensity"     validate:"gte=0"` // number of material densities
	NEField      int    `yaml:"nefield"      json:"nefield"      validate:"gte=0"` // number of electric field components
	DEEffects    bool   `yaml:"deeffects"    json:"deeffects"`                     // dielectric elastomer effects
	MaterialKind string `yaml:"materialkind" json:"materialkind" validate:"omitempty,oneof=linear neo_hookean ideal_de knowles"`
	Clamped      []int  `yaml:"clamped"      json:"clamped"`                       // indices of clamped markers

	// fluid-structure relaxation
	AitkenStatic float64 `yaml:"aitkenstatic" json:"aitkenstatic" validate:"gt=0"` // static relaxation ω0
	AitkenMin    float64 `yaml:"aitkenmin"    json:"aitkenmin"    validate:"gte=0"` // lower bound of dynamic ω
	AitkenMax    float64 `yaml:"aitkenmax"    json:"aitkenmax"    validate:"gt=0"`  // upper bound of dynamic ω
}

// AdjointData holds adjoint data
type AdjointData struct {
	UnstAdjointIter int    `yaml:"unstadjointiter" json:"unstadjointiter" validate:"gte=0"`                                                          // number of direct steps replayed by an unsteady adjoint
	OneShotHistory  bool   `yaml:"oneshothistory"  json:"oneshothistory"`                                                                            // write history in one-shot iterations without residual
	ObjFunc         string `yaml:"objfunc"         json:"objfunc"         validate:"omitempty,oneof=drag lift moment heat equivalent_area nearfield_pressure"` // flow objective function
}

// OutputData holds output frequencies
type OutputData struct {
	WrtSolFreq   int  `yaml:"wrtsolfreq"   json:"wrtsolfreq"   validate:"gte=1"` // frequency of result files
	WrtInletFile bool `yaml:"wrtinletfile" json:"wrtinletfile"`                  // write inlet profile template
}

// Config holds all data of one zone
type Config struct {

	// input data
	Data     Data         `yaml:"data"     json:"data"`
	Solver   SolverData   `yaml:"solver"   json:"solver"`
	Time     TimeData     `yaml:"time"     json:"time"`
	Flow     FlowData     `yaml:"flow"     json:"flow"`
	Gust     GustData     `yaml:"gust"     json:"gust"`
	Movement MovementData `yaml:"movement" json:"movement"`
	Struct   StructData   `yaml:"struct"   json:"struct"`
	Adjoint  AdjointData  `yaml:"adjoint"  json:"adjoint"`
	Output   OutputData   `yaml:"output"   json:"output"`

	// derived
	Key     string // filename key; e.g. mycase.yaml => mycase
	EncType string // encoder type; "gob" or "json"
}

// validate is shared by all configurations
var validate = validator.New(validator.WithRequiredStructEnabled())

// ReadConfig reads all data of a case from a .yaml (or .json) file
//  Input:
//   filepath -- case filename including full path
//   alias    -- word to be appended to the filename key; e.g. when running multiple cases
func ReadConfig(fpath, alias string) (o *Config, err error) {

	// read file
	b, err := os.ReadFile(fpath)
	if err != nil {
		return nil, chk.Err("cannot read case file %q:\n%v", fpath, err)
	}

	// set default values
	o = new(Config)
	o.SetDefault()

	// decode
	switch strings.ToLower(filepath.Ext(fpath)) {
	case ".json", ".sim":
		err = json.Unmarshal(b, o)
	default:
		err = yaml.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("cannot unmarshal case file %q:\n%v", fpath, err)
	}

	// filename key
	fn := filepath.Base(fpath)
	o.Key = strings.TrimSuffix(fn, filepath.Ext(fn))
	if alias != "" {
		o.Key += "-" + alias
	}

	// derived data and checks
	o.PostProcess()
	err = o.Validate()
	return
}

// SetDefault sets defaults values
func (o *Config) SetDefault() {

	// global
	o.Data.Encoder = "gob"
	o.Data.Nproc = 1

	// solver
	o.Solver.Kind = "fluid"
	o.Solver.Equations = "euler"
	o.Solver.NZone = 1
	o.Solver.NIter = 1
	o.Solver.NInnerIter = 1
	o.Solver.NExtIter = 1

	// time
	o.Time.Marching = "steady"

	// flow
	o.Flow.Freestream = []float64{1, 0}

	// gust
	o.Gust.Type = "none"
	o.Gust.Dir = "y"
	o.Gust.Periods = 1
	o.Gust.VortexFile = "vortex_distribution.txt"

	// grid movement
	o.Movement.Kind = "none"
	o.Movement.AeroelasticIter = 1

	// structure
	o.Struct.NIncrements = 10
	o.Struct.NSubIter = 1
	o.Struct.PrintFreq = 1
	o.Struct.TimeScheme = "newmark_implicit"
	o.Struct.ObjFunc = "none"
	o.Struct.DV = "none"
	o.Struct.NElasticity = 1
	o.Struct.NPoisson = 1
	o.Struct.NDensity = 1
	o.Struct.MaterialKind = "linear"
	o.Struct.AitkenStatic = 0.5
	o.Struct.AitkenMin = 0.0
	o.Struct.AitkenMax = 1.0

	// adjoint
	o.Adjoint.ObjFunc = "drag"

	// output
	o.Output.WrtSolFreq = 1000
}

// PostProcess sets derived values after the file has been decoded
func (o *Config) PostProcess() {
	o.EncType = o.Data.Encoder
	if o.EncType == "" {
		o.EncType = "gob"
	}
	if o.Solver.NAdjIter < 1 {
		o.Solver.NAdjIter = o.Solver.NIter
	}
	if o.Data.DirOut == "" {
		o.Data.DirOut = "/tmp/su2oneshot/" + o.Key
	}
}

// Validate checks the struct tags and the cross-field rules
func (o *Config) Validate() (err error) {
	err = validate.Struct(o)
	if err != nil {
		return chk.Err("invalid configuration:\n%v", err)
	}
	if o.Struct.AitkenMin > o.Struct.AitkenMax {
		return chk.Err("invalid configuration: aitkenmin=%g must not exceed aitkenmax=%g", o.Struct.AitkenMin, o.Struct.AitkenMax)
	}
	if o.DualTime() && o.Time.Dt <= 0 {
		return chk.Err("invalid configuration: dual-time stepping requires dt > 0 (dt=%g)", o.Time.Dt)
	}
	if o.Struct.Dynamic && o.Struct.DynDt <= 0 {
		return chk.Err("invalid configuration: dynamic analysis requires dyndt > 0 (dyndt=%g)", o.Struct.DynDt)
	}
	return
}
