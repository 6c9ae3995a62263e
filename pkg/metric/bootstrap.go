package metric

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// BootstrapInterval is the confidence interval of a measure estimated by resampling
type BootstrapInterval struct {
	Lower  float64
	Upper  float64
	StdDev float64
	Mean   float64
}

// Measure reduces a sample to one statistic
type Measure func([]float64) float64

// Bootstrap estimates the confidence interval of measure over values by
// drawing samples resamples with replacement. confidence is e.g. 0.95.
func Bootstrap(values []float64, measure Measure, samples int, confidence float64) BootstrapInterval {
	if len(values) == 0 || samples <= 0 {
		return BootstrapInterval{}
	}

	data := resample(values, measure, samples)
	slices.Sort(data)

	tail := 1 - confidence
	mean, stdDev := stat.MeanStdDev(data, nil)

	return BootstrapInterval{
		Lower:  stat.Quantile(tail/2, stat.LinInterp, data, nil),
		Upper:  stat.Quantile(1-tail/2, stat.LinInterp, data, nil),
		StdDev: stdDev,
		Mean:   mean,
	}
}

func resample(values []float64, measure Measure, samples int) []float64 {
	data := make([]float64, 0, samples)
	draw := make([]float64, len(values))

	for i := 0; i < samples; i++ {
		for j := range draw {
			draw[j] = lo.Sample(values)
		}
		data = append(data, measure(draw))
	}
	return data
}
