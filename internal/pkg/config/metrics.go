package config

import (
	"golang.org/x/tools/benchmark/parse"
)

// MetricName identifies a benchmark metric (e.g. "nsPerOp", "allocsPerOp").
type MetricName string

// Standard benchmark metric names.
const (
	MetricNsPerOp     MetricName = "nsPerOp"
	MetricAllocsPerOp MetricName = "allocsPerOp"
	MetricBytesPerOp  MetricName = "bytesPerOp"
	MetricMBPerS      MetricName = "MBytesPerS"
)

// String returns the metric name as a plain string.
func (m MetricName) String() string {
	return string(m)
}

// IsValid reports whether the metric name is one of the known benchmark metrics.
func (m MetricName) IsValid() bool {
	switch m {
	case MetricNsPerOp, MetricAllocsPerOp, MetricBytesPerOp, MetricMBPerS:
		return true
	default:
		return false
	}
}

// Value extracts the metric from a benchmark measurement.
//
// It returns false when the benchmark did not measure this metric.
func (m MetricName) Value(bench *parse.Benchmark) (float64, bool) {
	if bench == nil {
		return 0, false
	}

	switch m {
	case MetricNsPerOp:
		return bench.NsPerOp, bench.Measured&parse.NsPerOp != 0
	case MetricAllocsPerOp:
		return float64(bench.AllocsPerOp), bench.Measured&parse.AllocsPerOp != 0
	case MetricBytesPerOp:
		return float64(bench.AllocedBytesPerOp), bench.Measured&parse.AllocedBytesPerOp != 0
	case MetricMBPerS:
		return bench.MBPerS, bench.Measured&parse.MBPerS != 0
	default:
		return 0, false
	}
}

// AllMetricNames returns all known benchmark metric names.
func AllMetricNames() []MetricName {
	return []MetricName{
		MetricNsPerOp,
		MetricAllocsPerOp,
		MetricBytesPerOp,
		MetricMBPerS,
	}
}
