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

//go:build !headless

package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"

	"github.com/db47h/mako/device"
	"github.com/db47h/mako/gfx"
	"github.com/db47h/mako/internal/config"
	"github.com/db47h/mako/vm"
)

var statusFace = text.NewGoXFace(basicfont.Face7x13)

type binding struct {
	key    ebiten.Key
	button vm.Cell
}

// keyBindings maps key names, as returned by ebiten.Key.String, to gamepad
// buttons. Names are case insensitive.
func keyBindings(k config.Keys) ([]binding, error) {
	names := make(map[string]ebiten.Key)
	for key := ebiten.Key(0); key <= ebiten.KeyMax; key++ {
		names[strings.ToLower(key.String())] = key
	}
	var bs []binding
	for _, b := range []struct {
		names  []string
		button vm.Cell
	}{
		{k.Up, device.Up},
		{k.Right, device.Right},
		{k.Down, device.Down},
		{k.Left, device.Left},
		{k.A, device.A},
		{k.B, device.B},
	} {
		for _, n := range b.names {
			key, ok := names[strings.ToLower(n)]
			if !ok {
				return nil, errors.Errorf("unknown key name %q", n)
			}
			bs = append(bs, binding{key, b.button})
		}
	}
	return bs, nil
}

// game runs one VM frame per tick and presents the last rendered frame.
type game struct {
	m        *machine
	bindings []binding
	runes    []rune
	pix      []byte
	screen   *ebiten.Image
	frames   int
	status   bool
	err      error
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.m.log.Infof("window closed after %d frames", g.frames)
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.status = !g.status
	}

	var buttons vm.Cell
	for _, b := range g.bindings {
		if ebiten.IsKeyPressed(b.key) {
			buttons |= b.button
		}
	}
	g.m.pad.Set(buttons)

	g.runes = ebiten.AppendInputChars(g.runes[:0])
	for _, r := range g.runes {
		g.m.keys.Push(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		g.m.keys.Push('\r')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.m.keys.Push('\b')
	}

	switch err := g.m.i.Run(); err {
	case nil:
	case vm.ErrHalted:
		return ebiten.Termination
	default:
		g.err = err
		return ebiten.Termination
	}
	g.m.screen.CopyPixels(g.pix)
	g.frames++
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(gfx.Width, gfx.Height)
	}
	g.screen.WritePixels(g.pix)
	screen.DrawImage(g.screen, nil)
	if g.status {
		vector.DrawFilledRect(screen, 0, 0, gfx.Width, 16, color.RGBA{0, 0, 0, 180}, false)
		s := fmt.Sprintf("%d %.0ffps %dins", g.frames, ebiten.ActualTPS(), g.m.i.InstructionCount())
		op := &text.DrawOptions{}
		op.GeoM.Translate(4, 2)
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, s, statusFace, op)
	}
}

// Layout keeps the logical screen size. ebiten scales it to the window,
// preserving the aspect ratio.
func (g *game) Layout(_, _ int) (int, int) {
	return gfx.Width, gfx.Height
}

func runWindow(m *machine, cfg *config.Config) error {
	bindings, err := keyBindings(cfg.Keys)
	if err != nil {
		return err
	}
	if m.audio != nil {
		stop, err := startAudio(m.audio, cfg.Audio, m.log)
		if err != nil {
			// stores to AU are dropped
			m.log.Warningf("audio disabled: %v", err)
			m.audio.Close()
		} else {
			defer stop()
		}
	}

	ebiten.SetWindowSize(gfx.Width*cfg.Window.Scale, gfx.Height*cfg.Window.Scale)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(cfg.Frame.Rate)

	g := &game{
		m:        m,
		bindings: bindings,
		pix:      make([]byte, gfx.Width*gfx.Height*4),
	}
	if err = ebiten.RunGame(g); err != nil {
		return errors.Wrap(err, "window")
	}
	return g.err
}
