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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/term"

	"github.com/db47h/mako/device"
	"github.com/db47h/mako/gfx"
	"github.com/db47h/mako/internal/config"
	"github.com/db47h/mako/vm"
)

type fileList []string

func (f *fileList) String() string     { return "" }
func (f *fileList) Set(s string) error { *f = append(*f, s); return nil }
func (f *fileList) Get() interface{}   { return *f }

var (
	configFile string
	headless   bool
	frames     int
	snapshot   string
	noAudio    bool
	noRawIO    bool
	noThread   bool
	debug      bool
	quiet      bool
	dump       bool
	scale      int
	fps        int
	withFiles  fileList
)

// machine groups a VM instance with its devices.
type machine struct {
	i       *vm.Instance
	codeLen int
	screen  *gfx.Compositor
	console *device.Console
	pad     *device.Gamepad
	keys    *device.KeyQueue
	audio   *device.AudioQueue
	code    int // exit status set by the Finished function
	log     commonlog.Logger
}

func setupIO(log commonlog.Logger) (raw bool, tearDown func()) {
	if noRawIO || !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}
	restore, err := setRawIO(os.Stdin.Fd())
	if err != nil {
		log.Warningf("cannot switch terminal to raw mode: %v", err)
		return false, nil
	}
	tearDown = func() {
		if err := restore(); err != nil {
			log.Errorf("%v", err)
		}
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		log.Debugf("terminal size %dx%d", w, h)
	}
	return true, tearDown
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}
	// explicit flags override the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			cfg.Window.Scale = scale
		case "fps":
			cfg.Frame.Rate = fps
		case "noaudio":
			cfg.Audio.Disabled = noAudio
		}
	})
	return cfg, cfg.Validate()
}

func newMachine(name string, cfg *config.Config, log commonlog.Logger) (*machine, error) {
	img, n, err := vm.LoadFile(name)
	if err != nil {
		return nil, err
	}
	log.Infof("loaded %s: %d cells, image size %d", name, n, len(img))
	m := &machine{
		codeLen: n,
		screen:  gfx.New(),
		pad:     new(device.Gamepad),
		keys:    device.NewKeyQueue(0),
		log:     log,
	}
	var inputs []io.Reader
	for _, w := range withFiles {
		f, err := os.Open(w)
		if err != nil {
			return nil, errors.Wrap(err, "-with")
		}
		inputs = append(inputs, f)
	}
	inputs = append(inputs, os.Stdin)
	m.console = device.NewConsole(os.Stdout)
	for k := len(inputs) - 1; k >= 0; k-- {
		m.console.PushInput(inputs[k])
	}
	opts := []vm.Option{
		vm.Console(m.console),
		vm.Gamepad(m.pad),
		vm.Keyboard(m.keys),
		vm.Display(m.screen),
		vm.Threaded(!noThread),
		vm.Logger(log),
		vm.Finished(func(code int) { m.code = code }),
	}
	if !cfg.Audio.Disabled && !headless {
		m.audio = device.NewAudioQueue(cfg.Audio.Buffer)
		opts = append(opts, vm.Audio(m.audio))
	}
	m.i, err = vm.New(img, n, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func atExit(m *machine, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	if m != nil && m.i != nil {
		i := m.i
		fmt.Fprintf(os.Stderr, "PC: %v, Stack: %v, Addr: %v\n", i.Image[vm.PC], i.Data(), i.Address())
	}
}

func main() {
	flag.StringVar(&configFile, "config", "", "load configuration from TOML file `filename`")
	flag.IntVar(&scale, "scale", 2, "window scale factor")
	flag.IntVar(&fps, "fps", 60, "frames per second")
	flag.BoolVar(&headless, "headless", false, "run without a window")
	flag.IntVar(&frames, "frames", 60, "number of frames to run in headless mode")
	flag.StringVar(&snapshot, "snapshot", "", "in headless mode, write the last frame to PNG file `filename`")
	flag.BoolVar(&noAudio, "noaudio", false, "disable audio output")
	flag.BoolVar(&noRawIO, "noraw", false, "disable raw terminal IO")
	flag.BoolVar(&noThread, "nothread", false, "disable the threaded code cache")
	flag.BoolVar(&dump, "dump", false, "dump stacks and code image upon exit")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")
	flag.BoolVar(&quiet, "quiet", false, "only log errors")
	flag.Var(&withFiles, "with", "Add `filename` to the console input list (can be specified multiple times)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	os.Exit(run())
}

func run() (code int) {
	var err error
	var m *machine

	log := config.CreateLogger(debug, quiet)
	defer func() {
		if m != nil {
			if e := m.console.Flush(); err == nil {
				err = e
			}
			if err == nil && dump {
				err = dumpVM(m.i, m.codeLen, os.Stdout)
			}
		}
		atExit(m, err)
		if err != nil && code == 0 {
			code = 1
		}
	}()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	cfg, err := loadConfig()
	if err != nil {
		return 1
	}
	m, err = newMachine(flag.Arg(0), cfg, log)
	if err != nil {
		return 1
	}
	raw, tearDown := setupIO(log)
	if tearDown != nil {
		defer tearDown()
	}
	m.console.Raw = raw

	if headless {
		err = runHeadless(m, frames, snapshot, cfg.Window.Scale)
	} else {
		err = runWindow(m, cfg)
	}
	return m.code
}
