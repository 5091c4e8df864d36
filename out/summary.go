// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
)

// Summary records summary of outputs
type Summary struct {

	// main data
	Nproc    int                  // number of processors used in last run; equal to 1 if not distributed
	OutIters []int                // iterations with result files
	Resids   map[string][]float64 // [sys][iter] log10 of the RMS residual of the first variable
	Dirout   string               // directory where results are stored
	Fnkey    string               // filename key of case
	Enc      string               // encoder type
}

// NewSummary returns a new summary
func NewSummary(dirout, fnkey, enctype string, nproc int) *Summary {
	if nproc < 1 {
		nproc = 1
	}
	return &Summary{Nproc: nproc, Resids: make(map[string][]float64), Dirout: dirout, Fnkey: fnkey, Enc: enctype}
}

// Save saves summary to disc
func (o Summary) Save(verbose bool) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.Enc)

	// encode summary
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	fn := sumPath(o.Dirout, o.Fnkey, o.Enc, 0)
	return saveFile(fn, &buf, verbose)
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fn := sumPath(dir, fnkey, enctype, 0) // reading always from proc # 0
	fil, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("cannot open summary file:\n%v", err)
	}
	defer fil.Close()

	// decode summary
	var sum Summary
	dec := GetDecoder(fil, enctype)
	err = dec.Decode(&sum)
	if err != nil {
		return nil, chk.Err("cannot decode summary <%s>:\n%v", fn, err)
	}
	return &sum, nil
}
