package signal

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"
	"sync/atomic"

	algofft "github.com/cwbudde/algo-fft"
)

// Spectrum is a provider driven by audio band energy. The host pushes
// PCM samples from its audio callback; every hop the provider runs a
// windowed FFT, integrates the configured frequency band and publishes
// the smoothed, normalized energy.
//
// Push is called from the audio goroutine, CurrentValue from the frame
// loop. The published value crosses between them atomically.
type Spectrum struct {
	mu sync.Mutex

	plan    *algofft.Plan[complex128]
	fftSize int
	hop     int

	window     []float64
	windowGain float64

	ring   []float64
	write  int
	filled int
	toHop  int

	input  []complex128
	output []complex128

	sampleRate float64
	loBin      int
	hiBin      int
	smoothing  float64
	gain       float64

	smoothed float64
	ready    bool
	bits     atomic.Uint64
}

// SpectrumConfig configures a Spectrum provider.
type SpectrumConfig struct {
	// FFTSize is the analysis frame length. Must be one of 256, 512,
	// 1024, 2048, 4096 or 8192; anything else falls back to 2048.
	FFTSize int

	// SampleRate is the PCM sample rate in Hz.
	SampleRate float64

	// LowHz and HighHz bound the integrated frequency band.
	LowHz, HighHz float64

	// Smoothing in [0, 0.95] blends successive frames; 0 disables it.
	Smoothing float64

	// Gain scales the band energy before clamping to [0, 1]. Zero
	// selects a default of 4.
	Gain float64
}

// NewSpectrum creates a band energy provider.
func NewSpectrum(cfg SpectrumConfig) (*Spectrum, error) {
	switch cfg.FFTSize {
	case 256, 512, 1024, 2048, 4096, 8192:
	default:
		cfg.FFTSize = 2048
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("signal: invalid sample rate %v", cfg.SampleRate)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("signal: fft plan: %w", err)
	}

	win := hannWindow(cfg.FFTSize)
	sum := 0.0
	for _, w := range win {
		sum += w
	}

	nyquist := cfg.SampleRate / 2
	lo := clampHz(cfg.LowHz, nyquist)
	hi := clampHz(cfg.HighHz, nyquist)
	if hi <= lo {
		lo, hi = 0, nyquist
	}
	binHz := cfg.SampleRate / float64(cfg.FFTSize)

	gain := cfg.Gain
	if gain == 0 {
		gain = 4
	}

	s := &Spectrum{
		plan:       plan,
		fftSize:    cfg.FFTSize,
		hop:        cfg.FFTSize / 2,
		window:     win,
		windowGain: sum / float64(cfg.FFTSize),
		ring:       make([]float64, cfg.FFTSize),
		input:      make([]complex128, cfg.FFTSize),
		output:     make([]complex128, cfg.FFTSize),
		sampleRate: cfg.SampleRate,
		loBin:      int(lo / binHz),
		hiBin:      int(hi / binHz),
		smoothing:  clampRange(cfg.Smoothing, 0, 0.95),
		gain:       gain,
	}
	if s.hiBin > cfg.FFTSize/2 {
		s.hiBin = cfg.FFTSize / 2
	}
	return s, nil
}

// Push feeds PCM samples into the analyzer. Samples are expected in
// [-1, 1]; every hop interval a new value is published.
func (s *Spectrum) Push(samples []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, x := range samples {
		s.ring[s.write] = x
		s.write++
		if s.write >= s.fftSize {
			s.write = 0
		}
		if s.filled < s.fftSize {
			s.filled++
		}
		s.toHop++
		if s.filled >= s.fftSize && s.toHop >= s.hop {
			s.toHop = 0
			s.analyze()
		}
	}
}

// CurrentValue returns the latest published band energy in [0, 1].
func (s *Spectrum) CurrentValue() float64 {
	return math.Float64frombits(s.bits.Load())
}

// analyze runs one windowed FFT over the ring contents and publishes
// the integrated band energy. Caller holds mu.
func (s *Spectrum) analyze() {
	read := s.write
	for i := 0; i < s.fftSize; i++ {
		s.input[i] = complex(s.ring[read]*s.window[i], 0)
		read++
		if read >= s.fftSize {
			read = 0
		}
	}

	if err := s.plan.Forward(s.output, s.input); err != nil {
		return
	}

	const eps = 1e-12
	norm := float64(s.fftSize) * math.Max(s.windowGain, eps)

	energy := 0.0
	for k := s.loBin; k <= s.hiBin; k++ {
		mag := cmplx.Abs(s.output[k]) / norm
		if k > 0 && k < s.fftSize/2 {
			mag *= 2
		}
		energy += mag * mag
	}
	v := clamp01(math.Sqrt(energy) * s.gain)

	if s.ready && s.smoothing > 0 {
		v = s.smoothing*s.smoothed + (1-s.smoothing)*v
	}
	s.smoothed = v
	s.ready = true
	s.bits.Store(math.Float64bits(v))
}

// hannWindow generates a periodic Hann window of length n.
func hannWindow(n int) []float64 {
	win := make([]float64, n)
	for i := range win {
		win[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return win
}

func clampHz(v, nyquist float64) float64 {
	return clampRange(v, 0, nyquist)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
