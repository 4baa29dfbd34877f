package datastream

import (
	"math"
	"testing"
)

func TestZipfGeneratorDeterministic(t *testing.T) {
	a := NewZipfDataGenerator(100, 1.2, 0.0, 99)
	b := NewZipfDataGenerator(100, 1.2, 0.0, 99)
	for i := 0; i < 1000; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("sequence diverged at %d: %d vs %d", i, x, y)
		}
	}
}

func TestZipfGeneratorRange(t *testing.T) {
	n := 50
	gen := NewZipfDataGenerator(n, 1.5, 0.5, 7)
	for i := 0; i < 5000; i++ {
		r := gen.Next()
		if r < 0 || r >= n {
			t.Fatalf("rank out of range: %d", r)
		}
	}
}

func TestZipfCDFMonotone(t *testing.T) {
	gen := NewZipfDataGenerator(64, 1.2, 0.0, 1)
	cdf := gen.GetCDF()
	prev := 0.0
	for i, v := range cdf {
		if v < prev {
			t.Fatalf("cdf not monotone at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if math.Abs(cdf[len(cdf)-1]-1.0) > 1e-9 {
		t.Errorf("cdf does not sum to 1: %v", cdf[len(cdf)-1])
	}
}

func TestZipfWeightsNormalized(t *testing.T) {
	gen := NewZipfDataGenerator(32, 2.0, 1.0, 3)
	sum := 0.0
	for _, w := range gen.GetPDF() {
		if w <= 0 {
			t.Fatalf("non-positive weight: %v", w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights sum = %v, want 1", sum)
	}
}

func TestUniformGeneratorCoverage(t *testing.T) {
	n := 16
	gen := NewUniformDataGenerator(n, 42)
	seen := make([]int, n)
	for i := 0; i < n*200; i++ {
		seen[gen.Next()]++
	}
	for rank, c := range seen {
		if c == 0 {
			t.Errorf("rank %d never drawn", rank)
		}
	}
}

func TestUniformEntropy(t *testing.T) {
	gen := NewUniformDataGenerator(8, 1)
	if got := gen.Entropy(); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("Entropy = %v, want 3.0", got)
	}
}

func TestDataStreamInterface(t *testing.T) {
	var _ DataStream = NewZipfDataGenerator(4, 1.0, 0.0, 1)
	var _ DataStream = NewUniformDataGenerator(4, 1)
}
