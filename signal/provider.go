package signal

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Sampled is a provider whose value is pushed by a host: MIDI readers
// publish controller positions, window toolkits publish normalized
// cursor coordinates. Set and CurrentValue are safe from any
// goroutine.
type Sampled struct {
	bits atomic.Uint64
}

// NewSampled creates a provider holding the initial value.
func NewSampled(initial float64) *Sampled {
	s := &Sampled{}
	s.Set(initial)
	return s
}

// Set publishes a new value, clamped to [0, 1].
func (s *Sampled) Set(v float64) {
	s.bits.Store(math.Float64bits(clamp01(v)))
}

// CurrentValue returns the last published value.
func (s *Sampled) CurrentValue() float64 {
	return math.Float64frombits(s.bits.Load())
}

// Waveform selects an LFO shape.
type Waveform int

const (
	// Sine oscillates smoothly between 0 and 1.
	Sine Waveform = iota

	// Square alternates between 0 and 1 at half period.
	Square

	// Saw ramps from 0 to 1 and snaps back.
	Saw

	// Triangle ramps up then down symmetrically.
	Triangle
)

// LFO is a free-running low frequency oscillator. The value is a pure
// function of wall time, so sampling is lock-free and two engines
// sampling the same LFO observe the same phase.
type LFO struct {
	wave  Waveform
	rate  float64
	start time.Time
}

// NewLFO creates an oscillator of the given shape running at rate
// cycles per second. Non-positive rates hold the oscillator at phase
// zero.
func NewLFO(wave Waveform, rate float64) *LFO {
	return &LFO{wave: wave, rate: rate, start: time.Now()}
}

// CurrentValue returns the oscillator's value at the current time.
func (l *LFO) CurrentValue() float64 {
	if l.rate <= 0 {
		return l.valueAt(0)
	}
	phase := time.Since(l.start).Seconds() * l.rate
	return l.valueAt(phase - math.Floor(phase))
}

// valueAt evaluates the waveform at phase in [0, 1).
func (l *LFO) valueAt(phase float64) float64 {
	switch l.wave {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return 0
	case Saw:
		return phase
	case Triangle:
		if phase < 0.5 {
			return 2 * phase
		}
		return 2 - 2*phase
	default:
		return 0.5 + 0.5*math.Sin(2*math.Pi*phase)
	}
}

// RandomWalk drifts smoothly between random targets, producing a
// continuous value rather than per-sample noise. rate is the maximum
// change per second.
type RandomWalk struct {
	mu     sync.Mutex
	rng    *rand.Rand
	rate   float64
	cur    float64
	target float64
	last   time.Time
}

// NewRandomWalk creates a walk advancing at most rate units per
// second. A seed of 0 seeds from the current time.
func NewRandomWalk(rate float64, seed int64) *RandomWalk {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &RandomWalk{
		rng:    rng,
		rate:   rate,
		cur:    rng.Float64(),
		target: rng.Float64(),
		last:   time.Now(),
	}
}

// CurrentValue advances the walk by the elapsed wall time and returns
// the new position.
func (r *RandomWalk) CurrentValue() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	dt := now.Sub(r.last).Seconds()
	r.last = now

	step := r.rate * dt
	diff := r.target - r.cur
	if math.Abs(diff) <= step {
		r.cur = r.target
		r.target = r.rng.Float64()
	} else if diff > 0 {
		r.cur += step
	} else {
		r.cur -= step
	}
	return r.cur
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
