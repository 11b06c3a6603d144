package quant

import "math"

// TradingDaysPerYear is the annualization assumption for volatility.
const TradingDaysPerYear = 252

// MovingAverage computes the trailing simple moving average of window w over
// an adjusted, date-sorted close series. Positions before the window is fully
// populated are NaN, not zero.
func MovingAverage(closes []float64, w int) []float64 {
	out := nanSeries(len(closes))
	if w <= 0 || len(closes) < w {
		return out
	}
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= w {
			sum -= closes[i-w]
		}
		if i >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// AnnualizedVolatility computes the trailing sample standard deviation of
// simple percentage returns over window w, scaled by sqrt(252). The first
// return is undefined (no prior close), so the warm-up is one row longer
// than the moving average's: values start at index w, not w-1.
func AnnualizedVolatility(closes []float64, w int) []float64 {
	out := nanSeries(len(closes))
	if w < 2 || len(closes) <= w {
		return out
	}
	returns := nanSeries(len(closes))
	for i := 1; i < len(closes); i++ {
		returns[i] = closes[i]/closes[i-1] - 1
	}
	for i := w; i < len(closes); i++ {
		win := returns[i-w+1 : i+1]
		out[i] = sampleStd(win) * math.Sqrt(TradingDaysPerYear)
	}
	return out
}

// sampleStd is the ddof=1 standard deviation of a fully populated window.
func sampleStd(xs []float64) float64 {
	n := float64(len(xs))
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= n
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / (n - 1))
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
