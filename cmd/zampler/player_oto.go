// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package main

import (
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// player streams stereo float32 audio to the default output device.
type player struct {
	ctx    *oto.Context
	player *oto.Player
}

func newPlayer(rate int, latency time.Duration, r io.Reader) (*player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	p := &player{ctx: ctx, player: ctx.NewPlayer(r)}
	p.player.Play()
	return p, nil
}

func (p *player) Close() error {
	return p.player.Close()
}
