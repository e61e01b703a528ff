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

// Package config handles the mako shell configuration and logger setup.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Config is the mako.toml configuration file.
type Config struct {
	Window Window `toml:"window"`
	Audio  Audio  `toml:"audio"`
	Frame  Frame  `toml:"frame"`
	Keys   Keys   `toml:"keys"`
}

// Window configures the display window.
type Window struct {
	Scale      int    `toml:"scale"`
	Title      string `toml:"title"`
	Fullscreen bool   `toml:"fullscreen"`
}

// Audio configures the audio output.
type Audio struct {
	SampleRate int  `toml:"sample_rate"`
	Buffer     int  `toml:"buffer"`
	Disabled   bool `toml:"disabled"`
}

// Frame configures frame pacing.
type Frame struct {
	Rate int `toml:"rate"`
}

// Keys maps gamepad buttons to keyboard key names.
type Keys struct {
	Up    []string `toml:"up"`
	Right []string `toml:"right"`
	Down  []string `toml:"down"`
	Left  []string `toml:"left"`
	A     []string `toml:"a"`
	B     []string `toml:"b"`
}

// Default returns the default configuration.
func Default() *Config {
	c := new(Config)
	c.fill()
	return c
}

// Load reads the configuration file at path. Missing values are set to their
// defaults.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for k := range u {
			keys[k] = u[k].String()
		}
		return nil, errors.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	c.fill()
	if err = c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return &c, nil
}

func (c *Config) fill() {
	if c.Window.Scale == 0 {
		c.Window.Scale = 2
	}
	if c.Window.Title == "" {
		c.Window.Title = "mako"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 8000
	}
	if c.Audio.Buffer == 0 {
		c.Audio.Buffer = 1024
	}
	if c.Frame.Rate == 0 {
		c.Frame.Rate = 60
	}
	k := &c.Keys
	for _, b := range []struct {
		keys *[]string
		def  []string
	}{
		{&k.Up, []string{"ArrowUp"}},
		{&k.Right, []string{"ArrowRight"}},
		{&k.Down, []string{"ArrowDown"}},
		{&k.Left, []string{"ArrowLeft"}},
		{&k.A, []string{"Enter", "Space", "Z"}},
		{&k.B, []string{"X", "ShiftLeft", "ShiftRight"}},
	} {
		if len(*b.keys) == 0 {
			*b.keys = b.def
		}
	}
}

// Validate checks that configuration values are in range.
func (c *Config) Validate() error {
	switch {
	case c.Window.Scale < 1:
		return errors.Errorf("window scale must be at least 1, got %d", c.Window.Scale)
	case c.Audio.SampleRate < 1:
		return errors.Errorf("invalid audio sample rate %d", c.Audio.SampleRate)
	case c.Audio.Buffer < 1:
		return errors.Errorf("invalid audio buffer size %d", c.Audio.Buffer)
	case c.Frame.Rate < 1:
		return errors.Errorf("invalid frame rate %d", c.Frame.Rate)
	}
	return nil
}

// CreateLogger configures the log backend and returns the application logger.
func CreateLogger(debug, quiet bool) commonlog.Logger {
	verbosity := 0
	if debug {
		verbosity = 2
	} else if quiet {
		verbosity = -1
	}
	commonlog.Configure(verbosity, nil)
	return commonlog.GetLogger("mako")
}
