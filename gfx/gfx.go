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

// Package gfx implements the Mako display compositor.
//
// On every SYNC, the compositor rebuilds a 320x240 frame from the VM's memory:
// it fills the screen with the background color, draws the tiles of the grid
// that are below the sprite layer, then the sprites and finally the grid tiles
// flagged with GridZMask.
//
// All colors are packed 0xAARRGGBB values. Tile and sprite pixels are only
// drawn when fully opaque (alpha 0xFF); the background color is used as is.
package gfx

import (
	"image"

	"github.com/db47h/mako/vm"
)

// Screen dimensions.
const (
	Width  = 320
	Height = 240
)

// Tile grid geometry.
const (
	TileSize    = 8
	GridColumns = 41
	GridRows    = 31
)

// SpriteCount is the number of entries in the sprite table. Each entry is 4
// cells: status, tile, x and y.
const SpriteCount = 256

// Status and tile flags.
const (
	GridZMask   = 0x40000000 // grid tile is drawn above sprites
	HMirrorMask = 0x10000    // sprite is mirrored horizontally
	VMirrorMask = 0x20000    // sprite is mirrored vertically
)

// Compositor renders frames from a VM's memory.
type Compositor struct {
	frame []uint32
	mem   []vm.Cell
}

// New returns a new Compositor.
func New() *Compositor {
	return &Compositor{frame: make([]uint32, Width*Height)}
}

// Frame returns the last rendered frame, row major.
func (c *Compositor) Frame() []uint32 {
	return c.frame
}

// Image returns a copy of the last rendered frame. Pixels are made fully
// opaque.
func (c *Compositor) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	c.CopyPixels(img.Pix)
	return img
}

// CopyPixels writes the last rendered frame to p as opaque RGBA bytes. p must
// be at least Width*Height*4 bytes long.
func (c *Compositor) CopyPixels(p []byte) {
	for k, col := range c.frame {
		p[k*4] = byte(col >> 16)
		p[k*4+1] = byte(col >> 8)
		p[k*4+2] = byte(col)
		p[k*4+3] = 0xFF
	}
}

// Render composites a new frame from mem. Reading a table or bitmap outside of
// mem aborts the frame and returns an IllegalAddress *vm.Error.
func (c *Compositor) Render(mem []vm.Cell) (err error) {
	defer func() {
		if e := recover(); e != nil {
			f, ok := e.(*vm.Error)
			if !ok {
				panic(e)
			}
			err = f
		}
	}()
	c.mem = mem
	defer func() { c.mem = nil }()

	bg := uint32(c.at(int(vm.CL)))
	for k := range c.frame {
		c.frame[k] = bg
	}
	c.drawGrid(false)
	sp := int(c.at(int(vm.SP)))
	sx, sy := int(c.at(int(vm.SX))), int(c.at(int(vm.SY)))
	for s := 0; s < SpriteCount; s++ {
		e := sp + s*4
		status := c.at(e)
		if status&1 == 0 {
			continue
		}
		c.drawSprite(c.at(e+1), status, int(c.at(e+2))-sx, int(c.at(e+3))-sy)
	}
	c.drawGrid(true)
	return nil
}

func (c *Compositor) at(addr int) vm.Cell {
	if addr < 0 || addr >= len(c.mem) {
		panic(vm.AddressFault(addr))
	}
	return c.mem[addr]
}

func (c *Compositor) plot(x, y int, col vm.Cell) {
	if uint32(col)&0xFF000000 != 0xFF000000 {
		return
	}
	c.frame[y*Width+x] = uint32(col)
}

func (c *Compositor) drawGrid(high bool) {
	gp := int(c.at(int(vm.GP)))
	gs := int(c.at(int(vm.GS)))
	sx, sy := int(c.at(int(vm.SX))), int(c.at(int(vm.SY)))
	i := gp
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridColumns; col++ {
			t := c.at(i)
			i++
			if (t&GridZMask != 0) != high {
				continue
			}
			c.drawTile(t, col*TileSize-sx, row*TileSize-sy)
		}
		i += gs
	}
}

func (c *Compositor) drawTile(tile vm.Cell, px, py int) {
	if tile < 0 {
		return
	}
	tile &^= GridZMask
	base := int(c.at(int(vm.GT))) + int(tile)*TileSize*TileSize
	x0, y0, x1, y1 := clip(px, py, TileSize, TileSize)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.plot(px+x, py+y, c.at(base+y*TileSize+x))
		}
	}
}

// SpriteSize returns the size in pixels of a sprite with the given status.
func SpriteSize(status vm.Cell) (w, h int) {
	w = int((status&0x0F00)>>8+1) * 8
	h = int((status&0xF000)>>12+1) * 8
	return w, h
}

func (c *Compositor) drawSprite(tile, status vm.Cell, px, py int) {
	if tile < 0 {
		return
	}
	w, h := SpriteSize(status)
	base := int(c.at(int(vm.ST))) + int(tile)*w*h
	hflip, vflip := status&HMirrorMask != 0, status&VMirrorMask != 0
	x0, y0, x1, y1 := clip(px, py, w, h)
	for y := y0; y < y1; y++ {
		sy := y
		if vflip {
			sy = h - 1 - y
		}
		for x := x0; x < x1; x++ {
			sx := x
			if hflip {
				sx = w - 1 - x
			}
			c.plot(px+x, py+y, c.at(base+sy*w+sx))
		}
	}
}

// clip returns the visible part of a w×h rectangle drawn at (px, py), in
// rectangle coordinates.
func clip(px, py, w, h int) (x0, y0, x1, y1 int) {
	x1, y1 = w, h
	if px < 0 {
		x0 = -px
	}
	if py < 0 {
		y0 = -py
	}
	if px+w > Width {
		x1 = Width - px
	}
	if py+h > Height {
		y1 = Height - py
	}
	return x0, y0, x1, y1
}
