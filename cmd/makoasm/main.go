// This file is part of mako - https://github.com/db47h/mako
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The makoasm command assembles Mako assembly source files into program
// images, and disassembles program images.
//
// Usage:
//
//	makoasm [-o image] source.asm
//	makoasm -d [-base n] image
//
//	-base int
//		  address of the first disassembled cell
//	-d	disassemble image to stdout
//	-debug
//		  enable debug diagnostics
//	-o filename
//		  write the assembled image to filename (default: source name with a
//		  .img extension)
//
// Assembled images are big endian 32 bit cells, as loaded by mako.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/db47h/mako/asm"
	"github.com/db47h/mako/internal/config"
	"github.com/db47h/mako/vm"
)

var (
	disasm  bool
	base    int
	outName string
	debug   bool
)

func assemble(name, out string, log commonlog.Logger) (err error) {
	if out == name {
		return errors.Errorf("assemble: output would overwrite %s", name)
	}
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "assemble")
	}
	defer f.Close()
	img, err := asm.Assemble(name, bufio.NewReader(f))
	if err != nil {
		return err
	}
	o, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "assemble")
	}
	defer func() {
		if e := o.Close(); err == nil && e != nil {
			err = errors.Wrap(e, "assemble")
		}
	}()
	if err = vm.Save(o, img); err != nil {
		return err
	}
	log.Infof("%s: %d cells written to %s", name, len(img), out)
	return nil
}

func disassemble(name string, base int, w io.Writer) error {
	img, n, err := vm.LoadFile(name)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err = asm.DisassembleAll(img[:n], base, bw); err != nil {
		return err
	}
	return errors.Wrap(bw.Flush(), "disassemble")
}

func main() {
	flag.BoolVar(&disasm, "d", false, "disassemble image to stdout")
	flag.IntVar(&base, "base", 0, "address of the first disassembled cell")
	flag.StringVar(&outName, "o", "", "write the assembled image to `filename` (default: source name with a .img extension)")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	log := config.CreateLogger(debug, !debug)
	name := flag.Arg(0)

	var err error
	if disasm {
		err = disassemble(name, base, os.Stdout)
	} else {
		out := outName
		if out == "" {
			out = strings.TrimSuffix(name, filepath.Ext(name)) + ".img"
		}
		err = assemble(name, out, log)
	}
	if err != nil {
		if debug {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
