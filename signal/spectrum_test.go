package signal

import (
	"math"
	"testing"
)

func sineSamples(n int, freq, sampleRate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestSpectrumConfigSanitizes(t *testing.T) {
	if _, err := NewSpectrum(SpectrumConfig{SampleRate: 0}); err == nil {
		t.Error("zero sample rate accepted")
	}

	s, err := NewSpectrum(SpectrumConfig{FFTSize: 1000, SampleRate: 48000})
	if err != nil {
		t.Fatalf("NewSpectrum: %v", err)
	}
	if s.fftSize != 2048 {
		t.Errorf("fftSize = %d, want fallback 2048", s.fftSize)
	}
}

func TestSpectrumBandEnergy(t *testing.T) {
	const sampleRate = 48000

	t.Run("tone inside the band reads high", func(t *testing.T) {
		s, err := NewSpectrum(SpectrumConfig{
			FFTSize:    1024,
			SampleRate: sampleRate,
			LowHz:      800,
			HighHz:     1200,
		})
		if err != nil {
			t.Fatalf("NewSpectrum: %v", err)
		}
		s.Push(sineSamples(4096, 1000, sampleRate))
		if got := s.CurrentValue(); got < 0.5 {
			t.Errorf("in-band tone = %v, want >= 0.5", got)
		}
	})

	t.Run("tone outside the band reads low", func(t *testing.T) {
		s, err := NewSpectrum(SpectrumConfig{
			FFTSize:    1024,
			SampleRate: sampleRate,
			LowHz:      8000,
			HighHz:     12000,
		})
		if err != nil {
			t.Fatalf("NewSpectrum: %v", err)
		}
		s.Push(sineSamples(4096, 1000, sampleRate))
		if got := s.CurrentValue(); got > 0.1 {
			t.Errorf("out-of-band tone = %v, want near 0", got)
		}
	})

	t.Run("silence reads zero", func(t *testing.T) {
		s, err := NewSpectrum(SpectrumConfig{FFTSize: 1024, SampleRate: sampleRate})
		if err != nil {
			t.Fatalf("NewSpectrum: %v", err)
		}
		s.Push(make([]float64, 4096))
		if got := s.CurrentValue(); got > 1e-3 {
			t.Errorf("silence = %v, want 0", got)
		}
	})
}

func TestSpectrumNoValueBeforeFirstFrame(t *testing.T) {
	s, err := NewSpectrum(SpectrumConfig{FFTSize: 1024, SampleRate: 48000})
	if err != nil {
		t.Fatalf("NewSpectrum: %v", err)
	}
	s.Push(sineSamples(100, 440, 48000)) // far less than one frame
	if got := s.CurrentValue(); got != 0 {
		t.Errorf("value before first full frame = %v, want 0", got)
	}
}
