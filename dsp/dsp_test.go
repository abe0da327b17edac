package dsp

import (
	"math"
	"testing"
)

func TestFastSinMatchesMathSin(t *testing.T) {
	for _, phase := range []float64{0, 0.5, math.Pi / 2, math.Pi, 3 * math.Pi / 2, -1.0, 7.0} {
		got := FastSin(phase)
		want := math.Sin(phase)
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("FastSin(%v) = %v, want ~%v", phase, got, want)
		}
	}
}

func TestFastTanhClampsOutsideRange(t *testing.T) {
	if FastTanh(100) != 1 {
		t.Errorf("FastTanh(100) = %v, want 1", FastTanh(100))
	}
	if FastTanh(-100) != -1 {
		t.Errorf("FastTanh(-100) = %v, want -1", FastTanh(-100))
	}
}

func TestOscillatorSineFillsBoundedSamples(t *testing.T) {
	osc := Oscillator{Kind: WaveSine}
	buf := make([]float64, 64)
	var phase float64
	osc.Fill(buf, &phase, 440, 48000, new(float64), 0, 0, nil, nil)
	for i, x := range buf {
		if x < -1.0001 || x > 1.0001 {
			t.Fatalf("sample %d = %v out of [-1,1]", i, x)
		}
	}
}

func TestOscillatorWhiteNoiseBounded(t *testing.T) {
	osc := Oscillator{Kind: WaveWhiteNoise}
	buf := make([]float64, 256)
	var phase float64
	noise := NewNoiseState(12345)
	osc.Fill(buf, &phase, 0, 48000, new(float64), 0, 0, noise, nil)
	for i, x := range buf {
		if x < -1.0001 || x > 1.0001 {
			t.Fatalf("noise sample %d = %v out of [-1,1]", i, x)
		}
	}
}

func TestOscillatorDeterministicGivenSameState(t *testing.T) {
	mk := func() ([]float64, *float64) {
		buf := make([]float64, 32)
		phase := new(float64)
		return buf, phase
	}
	osc := Oscillator{Kind: WaveSaw}
	buf1, phase1 := mk()
	buf2, phase2 := mk()
	osc.Fill(buf1, phase1, 220, 48000, new(float64), 0, 0, nil, nil)
	osc.Fill(buf2, phase2, 220, 48000, new(float64), 0, 0, nil, nil)
	for i := range buf1 {
		if buf1[i] != buf2[i] {
			t.Fatalf("non-deterministic fill at %d: %v vs %v", i, buf1[i], buf2[i])
		}
	}
}

func TestSVFilterLowPassAttenuatesHighFreq(t *testing.T) {
	f := NewSVFilter()
	buf := make([]float64, 512)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * float64(i) * 8000 / 48000)
	}
	f.Process(buf, 0.05, 0.1, SVFLowPass)
	var peak float64
	for _, x := range buf[256:] {
		if math.Abs(x) > peak {
			peak = math.Abs(x)
		}
	}
	if peak > 0.5 {
		t.Errorf("low-pass did not attenuate high frequency content, peak=%v", peak)
	}
}

func TestBitcrushQuantizes(t *testing.T) {
	buf := []float64{0.123456, -0.654321}
	Bitcrush(buf, 4)
	for _, x := range buf {
		if x < -1 || x > 1 {
			t.Errorf("bitcrushed sample out of range: %v", x)
		}
		if x*16 != math.Round(x*16) {
			t.Errorf("bitcrushed sample %v is not a multiple of 1/16", x)
		}
	}
}

func TestDistortStaysBounded(t *testing.T) {
	buf := make([]float64, 128)
	for i := range buf {
		buf[i] = 2.5 * math.Sin(float64(i))
	}
	Distort(buf, 0.8)
	for i, x := range buf {
		if x < -1.01 || x > 1.01 {
			t.Fatalf("distorted sample %d = %v out of [-1,1]", i, x)
		}
	}
}

func TestSanitizeFlushesNaNAndDenormals(t *testing.T) {
	if got := sanitize(math.NaN()); got != 0 {
		t.Errorf("sanitize(NaN) = %v, want 0", got)
	}
	if got := sanitize(math.Inf(1)); got != 0 {
		t.Errorf("sanitize(+Inf) = %v, want 0", got)
	}
	if got := sanitize(1e-35); got != 0 {
		t.Errorf("sanitize(denormal) = %v, want 0", got)
	}
}
