// Package bench runs the candidate solution and summarizes the pyperf report
// it produces.
package bench

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/exp/slices"
)

const (
	DATE_LAYOUT   = "2006-01-02 15:04:05"
	FALLBACK_DATE = "2025-03-21 08:00:00.000"

	// pyperf reports seconds; every time field of Stats is in microseconds.
	MICROS_PER_SECOND = 1_000_000
)

var (
	ErrNoValues = errors.New("benchmark has no values")

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

type Stats struct {
	TotalDuration   float64            `json:"total_duration"`
	StartDate       time.Time          `json:"start_date"`
	EndDate         time.Time          `json:"end_date"`
	RawMin          float64            `json:"raw_min"`
	RawMax          float64            `json:"raw_max"`
	CalibrationRuns int                `json:"calibration_runs"`
	ValueRuns       int                `json:"value_runs"`
	TotalRuns       int                `json:"total_runs"`
	WarmupsPerRun   int                `json:"warmups_per_run"`
	ValuesPerRun    int                `json:"values_per_run"`
	LoopIterations  int                `json:"loop_iterations"`
	TotalValues     int                `json:"total_values"`
	Minimum         float64            `json:"minimum"`
	Median          float64            `json:"median"`
	MAD             float64            `json:"mad"`
	Mean            float64            `json:"mean"`
	StdDev          float64            `json:"stddev"`
	Maximum         float64            `json:"maximum"`
	Percentiles     map[string]float64 `json:"percentiles"`
	Outliers        int                `json:"outliers"`
}

func (s *Stats) MeanMillis() float64 {
	return s.Mean / 1000
}

type report struct {
	Benchmarks []struct {
		Runs []run `json:"runs"`
	} `json:"benchmarks"`
	Metadata struct {
		Date     string  `json:"date"`
		Duration float64 `json:"duration"`
		Loops    int     `json:"loops"`
	} `json:"metadata"`
}

type run struct {
	Values []float64 `json:"values"`
	// Each warmup is a (loops, value) pair.
	Warmups  [][]float64 `json:"warmups"`
	Metadata *struct {
		Date string `json:"date"`
	} `json:"metadata"`
}

var percentilePoints = []struct {
	name string
	p    float64
}{
	{"0th", 0}, {"5th", 0.05}, {"25th", 0.25}, {"50th", 0.5}, {"75th", 0.75}, {"95th", 0.95}, {"100th", 1},
}

func ParseFile(path string, skippedCalibration bool) (*Stats, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read benchmark output: %w", err)
	}
	stats, err := Parse(data, skippedCalibration)
	if err != nil {
		return nil, nil, err
	}
	return stats, data, nil
}

// Parse summarizes a pyperf JSON report. Unless calibration was skipped, the
// first run is the calibration run and contributes no values.
func Parse(data []byte, skippedCalibration bool) (*Stats, error) {
	var rep report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("unable to decode benchmark: %w", err)
	}
	if len(rep.Benchmarks) == 0 {
		return nil, ErrNoValues
	}
	runs := rep.Benchmarks[0].Runs

	valueRuns := runs
	if !skippedCalibration && len(runs) > 0 {
		valueRuns = runs[1:]
	}

	var raw []float64
	for _, r := range valueRuns {
		raw = append(raw, r.Values...)
	}
	if len(raw) == 0 {
		return nil, ErrNoValues
	}

	values := make([]float64, len(raw))
	for i, v := range raw {
		values[i] = v * MICROS_PER_SECOND
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := &Stats{
		TotalRuns:   len(runs),
		ValueRuns:   len(valueRuns),
		TotalValues: len(values),
		Minimum:     sorted[0],
		Maximum:     sorted[len(sorted)-1],
		RawMin:      slices.Min(raw) * MICROS_PER_SECOND,
		RawMax:      slices.Max(raw) * MICROS_PER_SECOND,
		Median:      median(sorted),
		Mean:        mean(values),
		StdDev:      stddev(values),
		Percentiles: make(map[string]float64, len(percentilePoints)),
	}

	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - s.Median)
	}
	slices.Sort(deviations)
	s.MAD = median(deviations)

	for _, pp := range percentilePoints {
		s.Percentiles[pp.name] = percentile(sorted, pp.p)
	}
	q1, q3 := percentile(sorted, 0.25), percentile(sorted, 0.75)
	iqr := q3 - q1
	for _, v := range values {
		if v < q1-1.5*iqr || v > q3+1.5*iqr {
			s.Outliers++
		}
	}

	if !skippedCalibration {
		s.CalibrationRuns = len(runs[0].Warmups)
	}
	if len(valueRuns) > 0 {
		s.WarmupsPerRun = len(valueRuns[0].Warmups)
		s.ValuesPerRun = len(valueRuns[0].Values)
	}

	s.LoopIterations = 1
	if len(runs) > 0 && len(runs[0].Warmups) > 0 && len(runs[0].Warmups[0]) > 0 {
		s.LoopIterations = int(runs[0].Warmups[0][0])
	} else if rep.Metadata.Loops > 0 {
		s.LoopIterations = rep.Metadata.Loops
	}

	if skippedCalibration {
		s.StartDate = parseDate(rep.Metadata.Date)
		s.EndDate = s.StartDate.Add(time.Duration(rep.Metadata.Duration) * time.Second)
	} else {
		s.StartDate = parseDate(runDate(runs[0]))
		s.EndDate = parseDate(runDate(runs[len(runs)-1]))
	}
	s.TotalDuration = math.Trunc(s.EndDate.Sub(s.StartDate).Seconds())

	return s, nil
}

// WriteParsed stores the summary next to the raw report as `[stats, raw]`.
func WriteParsed(path string, s *Stats, raw []byte) error {
	out, err := json.MarshalIndent([]any{s, jsoniter.RawMessage(raw)}, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode benchmark results: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("unable to write benchmark results: %w", err)
	}
	return nil
}

func runDate(r run) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.Date
}

func parseDate(s string) time.Time {
	t, err := time.Parse(DATE_LAYOUT, s)
	if err != nil {
		t, _ = time.Parse(DATE_LAYOUT, FALLBACK_DATE)
	}
	return t
}

func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the sample standard deviation.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	base := int(math.Floor(pos))
	if base >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[base] + (pos-float64(base))*(sorted[base+1]-sorted[base])
}
