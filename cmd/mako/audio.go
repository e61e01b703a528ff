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
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/db47h/mako/device"
	"github.com/db47h/mako/internal/config"
)

// startAudio plays samples from q on the default audio output. The returned
// function stops playback and closes q.
func startAudio(q *device.AudioQueue, cfg config.Audio, log commonlog.Logger) (func(), error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatUnsignedInt8,
		BufferSize:   time.Duration(cfg.Buffer) * time.Second / time.Duration(cfg.SampleRate),
	})
	if err != nil {
		return nil, errors.Wrap(err, "audio")
	}
	<-ready
	p := ctx.NewPlayer(q)
	p.Play()
	log.Infof("audio: %d Hz, %d samples buffer", cfg.SampleRate, cfg.Buffer)
	return func() {
		q.Close()
		p.Close()
	}, nil
}
