package hum

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	frameBytes   = 4 * ChannelCount // float32 LE per channel
)

const (
	idleGain    = 0.18 // level with no particle engaged
	engageScale = 6.0  // a sixth of the field near the pointer is full level
	gainGlide   = 0.0004
)

// A1, E2, A2, C3: a low minor drone.
var droneChord = []float64{55.0, 82.41, 110.0, 130.81}

// Drone is an endless FM pad whose level and brightness follow how much of
// the field the vortex is holding. Read runs on the audio goroutine;
// SetEngagement may be called from any goroutine.
type Drone struct {
	target atomic.Uint64 // math.Float64bits of the target level

	t    float64
	gain float64
}

func NewDrone() *Drone {
	d := &Drone{gain: idleGain}
	d.target.Store(math.Float64bits(idleGain))
	return d
}

// SetEngagement maps the near-particle fraction of the last step onto the
// drone's target level.
func (d *Drone) SetEngagement(nearFraction float64) {
	if math.IsNaN(nearFraction) {
		nearFraction = 0
	}
	e := clamp(nearFraction*engageScale, 0, 1)
	d.target.Store(math.Float64bits(idleGain + (1-idleGain)*e))
}

// Target is the level the drone is gliding toward.
func (d *Drone) Target() float64 {
	return math.Float64frombits(d.target.Load())
}

// Read fills p with interleaved stereo float32 samples. It never returns EOF.
func (d *Drone) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	target := d.Target()
	const dt = 1.0 / SampleRate
	for i := 0; i < frames; i++ {
		d.gain += (target - d.gain) * gainGlide
		left, right := d.sample()
		putStereoF32LR(p, i, left, right)
		d.t += dt
	}
	// Wrap the clock hourly to keep sin arguments small.
	if d.t > 3600 {
		d.t -= 3600
	}
	return frames * frameBytes, nil
}

func (d *Drone) sample() (float64, float64) {
	t := d.t
	pad := fmPad(t, droneChord, 0.4+0.6*d.gain)
	sub := math.Sin(2*math.Pi*droneChord[0]*0.5*t) * 0.25

	// Slow auto-pan so the drone breathes.
	pan := 0.5 + 0.2*math.Sin(2*math.Pi*0.07*t)
	s := (pad + sub) * d.gain * 0.5
	return softSat(s * (1 - pan) * 2), softSat(s * pan * 2)
}

// fmPad returns a pad sample from a chord using four detuned FM voices per
// note; env scales the modulation depth.
func fmPad(t float64, chord []float64, env float64) float64 {
	s := 0.0
	detunes := [4]float64{-0.004, -0.001, 0.002, 0.005}
	for _, freq := range chord {
		for _, dt := range detunes {
			f := freq * (1 + dt)
			vib := 1 + 0.003*math.Sin(2*math.Pi*(0.23+f*0.0007)*t)
			s += fm(t, f*vib, 1.45, 0.75*env) * 0.048
		}
	}
	return softSat(s)
}

func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// softSat applies gentle tanh-like saturation.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/x
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

func putStereoF32LR(buf []byte, i int, left, right float64) {
	binary.LittleEndian.PutUint32(buf[i*frameBytes:], math.Float32bits(float32(left)))
	binary.LittleEndian.PutUint32(buf[i*frameBytes+4:], math.Float32bits(float32(right)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
