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

package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/db47h/mako/internal/config"
)

func writeConfig(t *testing.T, s string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "mako.toml")
	if err := os.WriteFile(name, []byte(s), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestDefault(t *testing.T) {
	c := config.Default()
	if c.Window.Scale != 2 || c.Window.Title != "mako" || c.Audio.SampleRate != 8000 ||
		c.Audio.Buffer != 1024 || c.Frame.Rate != 60 {
		t.Errorf("bad defaults: %+v", c)
	}
	if !reflect.DeepEqual(c.Keys.A, []string{"Enter", "Space", "Z"}) {
		t.Errorf("bad default A keys: %v", c.Keys.A)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestLoad(t *testing.T) {
	name := writeConfig(t, `
[window]
scale = 3
fullscreen = true

[audio]
disabled = true

[keys]
a = ["J"]
`)
	c, err := config.Load(name)
	if err != nil {
		t.Fatal(err)
	}
	if c.Window.Scale != 3 || !c.Window.Fullscreen || !c.Audio.Disabled {
		t.Errorf("values not decoded: %+v", c)
	}
	if c.Window.Title != "mako" || c.Frame.Rate != 60 || c.Audio.SampleRate != 8000 {
		t.Errorf("defaults not set: %+v", c)
	}
	if !reflect.DeepEqual(c.Keys.A, []string{"J"}) || !reflect.DeepEqual(c.Keys.Up, []string{"ArrowUp"}) {
		t.Errorf("bad key bindings: %+v", c.Keys)
	}
}

func TestLoad_errors(t *testing.T) {
	for _, td := range []struct {
		name string
		src  string
		msg  string
	}{
		{"unknown", "[window]\nzoom = 2\n", "unknown keys: window.zoom"},
		{"syntax", "[window\n", "config"},
		{"range", "[frame]\nrate = -1\n", "invalid frame rate -1"},
	} {
		_, err := config.Load(writeConfig(t, td.src))
		if err == nil || !strings.Contains(err.Error(), td.msg) {
			t.Errorf("%s: expected error containing %q, got %v", td.name, td.msg, err)
		}
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCreateLogger(t *testing.T) {
	if l := config.CreateLogger(false, true); l == nil {
		t.Fatal("nil logger")
	}
}
