// SPDX-License-Identifier: EPL-2.0

//go:build headless

package main

import (
	"io"
	"time"
)

// player pulls audio at the device rate and discards it.
type player struct {
	stop chan struct{}
	done chan struct{}
}

func newPlayer(rate int, latency time.Duration, r io.Reader) (*player, error) {
	latency = max(latency, 10*time.Millisecond)
	buf := make([]byte, int(int64(rate)*int64(latency)/int64(time.Second))*8)
	p := &player{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(p.done)
		t := time.NewTicker(latency)
		defer t.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-t.C:
				if _, err := r.Read(buf); err != nil {
					return
				}
			}
		}
	}()
	return p, nil
}

func (p *player) Close() error {
	close(p.stop)
	<-p.done
	return nil
}
