// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package adjoint implements the discrete-adjoint iterations: the recording session of the
// reverse-mode tape, the recording controller, the unsteady state loader and the adjoint variants
// of the fluid, turbomachinery, heat and structural iterations
package adjoint

import "github.com/cpmech/gosl/chk"

// RecordingKind selects the inputs registered on the tape
type RecordingKind int

// kinds of recording
const (
	None              RecordingKind = iota // passive pass; nothing is registered
	FlowConsVars                           // conservative (state) variables
	MeshCoords                             // grid coordinates
	Combined                               // state variables and grid coordinates (one-shot)
	FlowCrossTerm                          // state variables of the coupled disciplines
	GeometryCrossTerm                      // grid coordinates of the coupled disciplines
	AllVariables                           // every coupling variable; used to clear indices
)

var kindNames = []string{"none", "flow_cons_vars", "mesh_coords", "combined", "flow_cross_term", "geometry_cross_term", "all_variables"}

// String returns the name of the recording kind
func (o RecordingKind) String() string {
	if o < 0 || int(o) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[o]
}

// Tape is the process-wide reverse-mode recording
type Tape interface {
	Reset()          // drops the recorded operations
	StartRecording() // subsequent operations are recorded
	StopRecording()  // subsequent operations are passive
	ComputeAdjoint() // reverse sweep from the seeded outputs to the registered inputs
	ClearAdjoints()  // zeroes all adjoint values; the recorded operations are kept
}

// State is the state of a recording session
type State int

// states
const (
	Idle      State = iota // tape empty and passive
	Recording              // operations are being recorded
	Stopped                // a recording is available for reverse sweeps
)

var stateNames = []string{"idle", "recording", "stopped"}

// String returns the name of the state
func (o State) String() string {
	if o < 0 || int(o) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[o]
}

// Session controls the tape with explicit transitions
//  Note: Reset: any => Idle; Start: Idle => Recording; Stop: Recording => Stopped.
//        Inputs and outputs are registered only while Recording and an output requires at
//        least one input. Reverse sweeps require Stopped
type Session struct {
	tape  Tape          // recording
	state State         // current state
	kind  RecordingKind // kind being recorded (or recorded)
	nin   int           // number of registered inputs
	nout  int           // number of registered outputs
}

// NewSession returns a new session in the Idle state
func NewSession(tape Tape) *Session {
	if tape == nil {
		chk.Panic("session requires a tape")
	}
	return &Session{tape: tape}
}

// State returns the current state
func (o *Session) State() State { return o.state }

// Kind returns the kind being recorded or recorded last; None when Idle
func (o *Session) Kind() RecordingKind { return o.kind }

// Reset drops any recording
func (o *Session) Reset() {
	o.tape.Reset()
	o.state = Idle
	o.kind = None
	o.nin, o.nout = 0, 0
}

// Start starts recording
func (o *Session) Start(kind RecordingKind) (err error) {
	if o.state != Idle {
		return chk.Err("cannot start %v recording: session is %v", kind, o.state)
	}
	if kind == None {
		return chk.Err("cannot start recording of kind none")
	}
	o.tape.StartRecording()
	o.state = Recording
	o.kind = kind
	return
}

// RegisterInput accounts for one input registration
func (o *Session) RegisterInput() (err error) {
	if o.state != Recording {
		return chk.Err("cannot register input: session is %v", o.state)
	}
	o.nin++
	return
}

// RegisterOutput accounts for one output registration
func (o *Session) RegisterOutput() (err error) {
	if o.state != Recording {
		return chk.Err("cannot register output: session is %v", o.state)
	}
	if o.nin == 0 {
		return chk.Err("cannot register output of %v recording before any input", o.kind)
	}
	o.nout++
	return
}

// Stop stops recording
func (o *Session) Stop() (err error) {
	if o.state != Recording {
		return chk.Err("cannot stop recording: session is %v", o.state)
	}
	o.tape.StopRecording()
	o.state = Stopped
	return
}

// ComputeAdjoint runs one reverse sweep
func (o *Session) ComputeAdjoint() (err error) {
	if o.state != Stopped {
		return chk.Err("cannot compute adjoint: session is %v", o.state)
	}
	o.tape.ComputeAdjoint()
	return
}

// ClearAdjoints zeroes the adjoint values of the recording
func (o *Session) ClearAdjoints() (err error) {
	if o.state != Stopped {
		return chk.Err("cannot clear adjoints: session is %v", o.state)
	}
	o.tape.ClearAdjoints()
	return
}
