package quant

import (
	"math"
	"testing"
)

func TestMovingAverageWarmupAndValues(t *testing.T) {
	got := MovingAverage([]float64{10, 11, 12, 13, 14}, 3)
	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("index %d must be undefined before window fills, got %v", i, got[i])
		}
	}
	want := []float64{11, 12, 13}
	for i, w := range want {
		if !approx(got[i+2], w) {
			t.Fatalf("ma[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestMovingAverageShorterThanWindow(t *testing.T) {
	got := MovingAverage([]float64{10, 11}, 3)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Fatalf("series shorter than window must be all-NaN, got [%d]=%v", i, v)
		}
	}
}

func TestAnnualizedVolatilityWarmup(t *testing.T) {
	closes := []float64{10, 10, 11, 9, 12}
	got := AnnualizedVolatility(closes, 3)
	// first return undefined shifts warm-up one row past the MA's
	for i := 0; i < 3; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("vol[%d] must be undefined, got %v", i, got[i])
		}
	}
	for i := 3; i < len(closes); i++ {
		if math.IsNaN(got[i]) {
			t.Fatalf("vol[%d] must be defined", i)
		}
	}
}

func TestAnnualizedVolatilityValue(t *testing.T) {
	closes := []float64{100, 110, 99, 108.9}
	got := AnnualizedVolatility(closes, 3)
	// returns: 0.1, -0.1, 0.1 → sample std = sqrt(( (0.1-r̄)² … )/2)
	rets := []float64{0.1, -0.1, 0.1}
	mean := (rets[0] + rets[1] + rets[2]) / 3
	var ss float64
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	want := math.Sqrt(ss/2) * math.Sqrt(252)
	if !approx(got[3], want) {
		t.Fatalf("vol[3] = %v, want %v", got[3], want)
	}
}

func TestVolatilityWindowOneUndefined(t *testing.T) {
	got := AnnualizedVolatility([]float64{10, 11, 12}, 1)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Fatalf("window 1 has no sample stddev, got [%d]=%v", i, v)
		}
	}
}
