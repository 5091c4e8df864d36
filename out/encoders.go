// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the output collaborator of the iterations: convergence history, result
// files, summaries and residual plots
package out

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func resPath(dir, fnkey, enctype string, iter, proc int) string {
	return filepath.Join(dir, io.Sf("%s_p%d_res_%010d.%s", fnkey, proc, iter, enctype))
}

func sumPath(dir, fnkey, enctype string, proc int) string {
	return filepath.Join(dir, io.Sf("%s_p%d_sum.%s", fnkey, proc, enctype))
}

func saveFile(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	err = os.MkdirAll(filepath.Dir(filename), 0777)
	if err != nil {
		return chk.Err("cannot create directory for <%s>:\n%v", filename, err)
	}
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
