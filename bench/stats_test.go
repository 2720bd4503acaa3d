package bench

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calibratedReport = `{
  "benchmarks": [{
    "runs": [
      {"warmups": [[1, 0.5], [2, 0.6], [4, 0.7]], "metadata": {"date": "2025-01-01 10:00:00.000"}},
      {"warmups": [[4, 0.11]], "values": [0.1, 0.2, 0.3], "metadata": {"date": "2025-01-01 10:00:10.000"}},
      {"warmups": [[4, 0.12]], "values": [0.4, 2.0], "metadata": {"date": "2025-01-01 10:00:30.500"}}
    ]
  }],
  "metadata": {"loops": 4}
}`

const skippedReport = `{
  "benchmarks": [{
    "runs": [
      {"warmups": [], "values": [0.25]},
      {"warmups": [], "values": [0.75]}
    ]
  }],
  "metadata": {"date": "2025-02-02 12:00:00.250", "duration": 12.7, "loops": 1}
}`

func TestParseCalibrated(t *testing.T) {
	s, err := Parse([]byte(calibratedReport), false)
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalRuns)
	assert.Equal(t, 2, s.ValueRuns)
	assert.Equal(t, 3, s.CalibrationRuns)
	assert.Equal(t, 1, s.WarmupsPerRun)
	assert.Equal(t, 3, s.ValuesPerRun)
	assert.Equal(t, 1, s.LoopIterations)
	assert.Equal(t, 5, s.TotalValues)

	assert.InDelta(t, 100_000, s.Minimum, 1e-6)
	assert.InDelta(t, 2_000_000, s.Maximum, 1e-6)
	assert.InDelta(t, 100_000, s.RawMin, 1e-6)
	assert.InDelta(t, 2_000_000, s.RawMax, 1e-6)
	assert.InDelta(t, 300_000, s.Median, 1e-6)
	assert.InDelta(t, 600_000, s.Mean, 1e-6)
	assert.InDelta(t, 100_000, s.MAD, 1e-6)
	assert.InDelta(t, 790_569.415, s.StdDev, 1e-3)
	assert.InDelta(t, 600, s.MeanMillis(), 1e-9)
	assert.Equal(t, 1, s.Outliers)

	assert.Len(t, s.Percentiles, 7)
	assert.InDelta(t, 100_000, s.Percentiles["0th"], 1e-6)
	assert.InDelta(t, 200_000, s.Percentiles["25th"], 1e-6)
	assert.InDelta(t, 300_000, s.Percentiles["50th"], 1e-6)
	assert.InDelta(t, 400_000, s.Percentiles["75th"], 1e-6)
	assert.InDelta(t, 1_680_000, s.Percentiles["95th"], 1e-6)
	assert.InDelta(t, 2_000_000, s.Percentiles["100th"], 1e-6)

	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), s.StartDate)
	assert.Equal(t, 30.0, s.TotalDuration)
}

func TestParseSkippedCalibration(t *testing.T) {
	s, err := Parse([]byte(skippedReport), true)
	require.NoError(t, err)

	assert.Equal(t, 0, s.CalibrationRuns)
	assert.Equal(t, 2, s.ValueRuns)
	assert.Equal(t, 2, s.TotalRuns)
	assert.Equal(t, 1, s.LoopIterations)
	assert.InDelta(t, 500_000, s.Mean, 1e-6)
	assert.InDelta(t, 500_000, s.Median, 1e-6)
	assert.Equal(t, 12.0, s.TotalDuration)
	assert.Equal(t, 2025, s.StartDate.Year())
	assert.Equal(t, time.February, s.StartDate.Month())
}

func TestParseFallbackDate(t *testing.T) {
	s, err := Parse([]byte(`{"benchmarks": [{"runs": [{"values": [1.0]}]}], "metadata": {"date": "yesterday"}}`), true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 21, 8, 0, 0, 0, time.UTC), s.StartDate)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0, s.Outliers)
}

func TestParseNoValues(t *testing.T) {
	_, err := Parse([]byte(`{"benchmarks": [{"runs": [{"warmups": [[1, 0.1]]}]}]}`), false)
	assert.ErrorIs(t, err, ErrNoValues)

	_, err = Parse([]byte(`{"benchmarks": []}`), true)
	assert.ErrorIs(t, err, ErrNoValues)

	_, err = Parse([]byte(`not json`), true)
	assert.Error(t, err)
}

func TestWriteParsed(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bench.json")
	require.NoError(t, os.WriteFile(in, []byte(skippedReport), 0644))

	s, raw, err := ParseFile(in, true)
	require.NoError(t, err)

	out := filepath.Join(dir, "bench_parsed.json")
	require.NoError(t, WriteParsed(out, s, raw))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var parts []map[string]any
	require.NoError(t, json.Unmarshal(b, &parts))
	require.Len(t, parts, 2)
	assert.InDelta(t, 500_000, parts[0]["mean"], 1e-6)
	assert.Contains(t, parts[1], "benchmarks")
}
