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

package gfx

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Snapshot writes the last rendered frame to w as a PNG image, enlarged by the
// given integer scale factor with nearest neighbor sampling.
func (c *Compositor) Snapshot(w io.Writer, scale int) error {
	var img image.Image = c.Image()
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}
	return errors.Wrap(png.Encode(w, img), "snapshot")
}

// SnapshotFile writes a PNG snapshot to the named file.
func (c *Compositor) SnapshotFile(name string, scale int) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}
	defer func() {
		if e := f.Close(); err == nil && e != nil {
			err = errors.Wrap(e, "snapshot")
		}
	}()
	return c.Snapshot(f, scale)
}
