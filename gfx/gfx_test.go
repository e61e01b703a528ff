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

package gfx_test

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/db47h/mako/asm"
	"github.com/db47h/mako/gfx"
	"github.com/db47h/mako/vm"
)

const (
	gp      = 1000
	gt      = 3000
	sp      = 4000
	st      = 6000
	memSize = 16384
)

// opaque colors as stored in memory; compared against frame pixels through
// uint32 conversions, so they must not be constants.
var (
	red   vm.Cell = -0x10000   // 0xFFFF0000
	green vm.Cell = -0xFF0100  // 0xFF00FF00
	blue  vm.Cell = -0xFFFF01  // 0xFF0000FF
	black vm.Cell = -0x1000000 // 0xFF000000
)

// scene returns a memory image with an empty grid and sprite table.
func scene() []vm.Cell {
	mem := make([]vm.Cell, memSize)
	mem[vm.GP], mem[vm.GT], mem[vm.SP], mem[vm.ST] = gp, gt, sp, st
	for k := 0; k < gfx.GridColumns*gfx.GridRows; k++ {
		mem[gp+k] = -1
	}
	return mem
}

// fillTile sets all pixels of grid tile t to col.
func fillTile(mem []vm.Cell, t int, col vm.Cell) {
	for k := 0; k < 64; k++ {
		mem[gt+t*64+k] = col
	}
}

func setSprite(mem []vm.Cell, n int, status, tile, x, y vm.Cell) {
	e := sp + n*4
	mem[e], mem[e+1], mem[e+2], mem[e+3] = status, tile, x, y
}

func render(t *testing.T, mem []vm.Cell) *gfx.Compositor {
	c := gfx.New()
	if err := c.Render(mem); err != nil {
		t.Fatal(err)
	}
	return c
}

func pixel(c *gfx.Compositor, x, y int) uint32 {
	return c.Frame()[y*gfx.Width+x]
}

func TestRender_background(t *testing.T) {
	for _, cl := range []vm.Cell{red, 0x00123456} {
		mem := scene()
		mem[vm.CL] = cl
		c := render(t, mem)
		for k, p := range c.Frame() {
			if p != uint32(cl) {
				t.Fatalf("CL %08x: pixel %d is %08x", uint32(cl), k, p)
			}
		}
	}
}

func TestRender_invisibleSprite(t *testing.T) {
	mem := scene()
	mem[vm.CL] = black
	for k := 0; k < 64; k++ {
		mem[st+k] = red
	}
	setSprite(mem, 0, 0, 0, 10, 10)
	c := render(t, mem)
	if p := pixel(c, 12, 12); p != uint32(black) {
		t.Errorf("invisible sprite drawn: %08x", p)
	}
	// negative tiles are skipped
	setSprite(mem, 0, 1, -1, 10, 10)
	c = render(t, mem)
	if p := pixel(c, 12, 12); p != uint32(black) {
		t.Errorf("sprite with negative tile drawn: %08x", p)
	}
	setSprite(mem, 0, 1, 0, 10, 10)
	c = render(t, mem)
	if p := pixel(c, 12, 12); p != uint32(red) {
		t.Errorf("visible sprite not drawn: %08x", p)
	}
}

func TestRender_zOrder(t *testing.T) {
	mem := scene()
	fillTile(mem, 1, green)
	for k := 0; k < 64; k++ {
		mem[st+k] = red
	}
	mem[gp] = 1
	setSprite(mem, 0, 1, 0, 0, 0)
	if p := pixel(render(t, mem), 3, 3); p != uint32(red) {
		t.Errorf("low grid tile drawn above sprite: %08x", p)
	}
	mem[gp] = 1 | gfx.GridZMask
	if p := pixel(render(t, mem), 3, 3); p != uint32(green) {
		t.Errorf("high grid tile drawn below sprite: %08x", p)
	}
	// later sprites are drawn over earlier ones
	for k := 0; k < 64; k++ {
		mem[st+64+k] = blue
	}
	mem[gp] = -1
	setSprite(mem, 1, 1, 1, 0, 0)
	if p := pixel(render(t, mem), 3, 3); p != uint32(blue) {
		t.Errorf("sprite 1 not drawn over sprite 0: %08x", p)
	}
}

func TestRender_mirror(t *testing.T) {
	mem := scene()
	// 16x8 sprite with a unique color per pixel
	w, h := gfx.SpriteSize(0x0101)
	if w != 16 || h != 8 {
		t.Fatalf("expected 16x8 sprite, got %dx%d", w, h)
	}
	for k := 0; k < w*h; k++ {
		mem[st+k] = black | vm.Cell(k)
	}
	src := func(x, y int) uint32 { return uint32(black | vm.Cell(y*w+x)) }

	for _, m := range []struct {
		name   string
		status vm.Cell
		fn     func(x, y int) (int, int)
	}{
		{"none", 0x0101, func(x, y int) (int, int) { return x, y }},
		{"horizontal", 0x0101 | gfx.HMirrorMask, func(x, y int) (int, int) { return w - 1 - x, y }},
		{"vertical", 0x0101 | gfx.VMirrorMask, func(x, y int) (int, int) { return x, h - 1 - y }},
		{"both", 0x0101 | gfx.HMirrorMask | gfx.VMirrorMask, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }},
	} {
		setSprite(mem, 0, m.status, 0, 100, 50)
		c := render(t, mem)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sx, sy := m.fn(x, y)
				if p := pixel(c, 100+x, 50+y); p != src(sx, sy) {
					t.Fatalf("%s: pixel (%d, %d): expected %08x, got %08x", m.name, x, y, src(sx, sy), p)
				}
			}
		}
	}
}

// Mirroring a partly hidden sprite changes which source pixels are shown but
// not which screen pixels are drawn.
func TestRender_mirrorClipped(t *testing.T) {
	mem := scene()
	mem[vm.CL] = blue
	w, h := gfx.SpriteSize(0x0101)
	for k := 0; k < w*h; k++ {
		mem[st+k] = black | vm.Cell(k)
	}
	const px, py = -5, -3
	for _, m := range []struct {
		name   string
		status vm.Cell
		hflip  bool
		vflip  bool
	}{
		{"none", 0x0101, false, false},
		{"horizontal", 0x0101 | gfx.HMirrorMask, true, false},
		{"vertical", 0x0101 | gfx.VMirrorMask, false, true},
		{"both", 0x0101 | gfx.HMirrorMask | gfx.VMirrorMask, true, true},
	} {
		setSprite(mem, 0, m.status, 0, px, py)
		c := render(t, mem)
		for y := 0; y < 12; y++ {
			for x := 0; x < 20; x++ {
				sx, sy := x-px, y-py
				exp := uint32(blue)
				if sx < w && sy < h {
					if m.hflip {
						sx = w - 1 - sx
					}
					if m.vflip {
						sy = h - 1 - sy
					}
					exp = uint32(black | vm.Cell(sy*w+sx))
				}
				if p := pixel(c, x, y); p != exp {
					t.Fatalf("%s: pixel (%d, %d): expected %08x, got %08x", m.name, x, y, exp, p)
				}
			}
		}
	}
}

func TestRender_clipping(t *testing.T) {
	mem := scene()
	for k := 0; k < 64; k++ {
		mem[st+k] = black | vm.Cell(k)
	}
	setSprite(mem, 0, 1, 0, -4, -4)
	setSprite(mem, 1, 1, 0, gfx.Width-4, gfx.Height-4)
	setSprite(mem, 2, 1, 0, -100, 500)
	c := render(t, mem)
	if p := pixel(c, 0, 0); p != uint32(black|(4*8+4)) {
		t.Errorf("top left: expected source pixel (4, 4), got %08x", p)
	}
	if p := pixel(c, gfx.Width-1, gfx.Height-1); p != uint32(black|(3*8+3)) {
		t.Errorf("bottom right: expected source pixel (3, 3), got %08x", p)
	}
}

func TestRender_alpha(t *testing.T) {
	mem := scene()
	mem[vm.CL] = black
	fillTile(mem, 0, 0x7FFF0000)
	mem[gt+9] = red
	mem[gp] = 0
	c := render(t, mem)
	if p := pixel(c, 0, 0); p != uint32(black) {
		t.Errorf("translucent pixel drawn: %08x", p)
	}
	if p := pixel(c, 1, 1); p != uint32(red) {
		t.Errorf("opaque pixel not drawn: %08x", p)
	}
}

func TestRender_gridStrideAndScroll(t *testing.T) {
	mem := scene()
	mem[vm.GS] = 3
	for k := 0; k < gfx.GridRows*(gfx.GridColumns+3); k++ {
		mem[gp+k] = -1
	}
	fillTile(mem, 2, green)
	// row 1, column 1
	mem[gp+(gfx.GridColumns+3)+1] = 2
	c := render(t, mem)
	if p := pixel(c, 8, 8); p != uint32(green) {
		t.Errorf("tile not drawn at (8, 8): %08x", p)
	}
	if p := pixel(c, 7, 7); p == uint32(green) {
		t.Error("tile drawn at (7, 7)")
	}
	mem[vm.SX], mem[vm.SY] = 4, -2
	c = render(t, mem)
	if p := pixel(c, 4, 10); p != uint32(green) {
		t.Errorf("scrolled tile not drawn at (4, 10): %08x", p)
	}
	if p := pixel(c, 12, 10); p == uint32(green) {
		t.Error("scrolled tile drawn at (12, 10)")
	}
}

func TestRender_fault(t *testing.T) {
	mem := scene()
	mem[vm.SP] = memSize - 2
	mem[memSize-2] = 1
	err := gfx.New().Render(mem)
	e, ok := errors.Cause(err).(*vm.Error)
	if !ok || e.Errno != vm.IllegalAddress || e.Addr != memSize {
		t.Fatalf("expected illegal address %d, got %v", memSize, err)
	}

	mem = scene()
	setSprite(mem, 0, 1, 1000, 0, 0)
	if err = gfx.New().Render(mem); err == nil {
		t.Fatal("expected fault for sprite bitmap outside memory")
	}
}

func TestSnapshot(t *testing.T) {
	mem := scene()
	mem[vm.CL] = red
	c := render(t, mem)
	var b bytes.Buffer
	if err := c.Snapshot(&b, 2); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	if sz := img.Bounds().Size(); sz.X != 2*gfx.Width || sz.Y != 2*gfx.Height {
		t.Errorf("bad snapshot size %v", sz)
	}
	r, g, bl, a := img.At(639, 479).RGBA()
	if r != 0xFFFF || g != 0 || bl != 0 || a != 0xFFFF {
		t.Errorf("bad snapshot color %x %x %x %x", r, g, bl, a)
	}
}

// A program that sets the background color and yields a frame.
func TestRender_vm(t *testing.T) {
	code := `
		.dat main .dat 512 .dat 768
		.org 16
	:main
		0xFF0000FF CL ! sync
		0xFF00FF00 CL ! sync
		jump -1
	`
	prog, err := asm.Assemble("vm", strings.NewReader(code))
	if err != nil {
		t.Fatal(err)
	}
	img := make(vm.Image, vm.MinImageSize*4)
	copy(img, prog)
	img[vm.GP], img[vm.SP] = 1000, 2500
	for k := 0; k < gfx.GridColumns*gfx.GridRows; k++ {
		img[1000+k] = -1
	}
	c := gfx.New()
	i, err := vm.New(img, len(prog), vm.Display(c))
	if err != nil {
		t.Fatal(err)
	}
	for _, col := range []uint32{0xFF0000FF, 0xFF00FF00} {
		if err = i.Run(); err != nil {
			t.Fatal(err)
		}
		if p := pixel(c, 160, 120); p != col {
			t.Errorf("expected %08x, got %08x", col, p)
		}
	}
	if err = i.Run(); err != vm.ErrHalted {
		t.Errorf("expected halt, got %v", err)
	}
}
