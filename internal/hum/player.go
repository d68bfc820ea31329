package hum

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"vortex/internal/loop"
)

// Volume is the player level applied on top of the drone's own gain.
const Volume = 0.22

const readyTimeout = 2 * time.Second

// Player streams a Drone through the system audio device.
type Player struct {
	ctx    *oto.Context
	player oto.Player
	drone  *Drone
}

// Start opens the audio device and begins playing the drone. oto allows a
// single context per process, so Start should be called at most once.
func Start() (*Player, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("audio context: %w", err)
	}
	select {
	case <-ready:
	case <-time.After(readyTimeout):
		return nil, fmt.Errorf("audio context: not ready after %v", readyTimeout)
	}

	d := NewDrone()
	p := ctx.NewPlayer(d)
	p.SetVolume(Volume)
	p.Play()
	return &Player{ctx: ctx, player: p, drone: d}, nil
}

func (p *Player) Drone() *Drone { return p.drone }

// Close stops playback. It is safe to call more than once.
func (p *Player) Close() error {
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}

// Host is the part of the driver the hum listens to.
type Host interface {
	Subscribe(t loop.EventType, fn loop.EventHandler)
	OnDispose(fn func())
}

// Follow drives the drone from each frame's step statistics and stops it
// when the host is disposed.
func Follow(h Host, d *Drone, closer func() error, logger *log.Logger) {
	h.Subscribe(loop.EventFrame, func(e loop.Event) {
		d.SetEngagement(e.Stats.NearFraction())
	})
	if closer == nil {
		return
	}
	h.OnDispose(func() {
		if err := closer(); err != nil && logger != nil {
			logger.Printf("close audio: %v", err)
		}
	})
}

// Attach starts the drone and follows h. Failure leaves the host silent;
// it is logged and otherwise ignored.
func Attach(h Host, logger *log.Logger) *Player {
	p, err := Start()
	if err != nil {
		if logger != nil {
			logger.Printf("audio init failed (continuing without sound): %v", err)
		}
		return nil
	}
	Follow(h, p.drone, p.Close, logger)
	return p
}
