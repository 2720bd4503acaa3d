package generator

import (
	"brc/cities"
	"brc/solver"
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	rowPattern = regexp.MustCompile(`^[^;\n]+;-?\d{1,2}\.\d$`)
)

func newTestGenerator(options ...Option) *Generator {
	return New(append([]Option{WithLogger(testLogger)}, options...)...)
}

func TestBuildChunk(t *testing.T) {
	c := BuildChunk(rand.New(rand.NewSource(1)), 10_000)
	assert.Equal(t, 10_000, c.Rows)
	assert.GreaterOrEqual(t, cap(c.Data), 10_000*BYTES_PER_ROW)
	require.True(t, bytes.HasSuffix(c.Data, []byte("\n")))
	assert.False(t, bytes.HasSuffix(c.Data, []byte("\n\n")))

	known := make(map[string]bool)
	for _, name := range cities.Names {
		known[name] = true
	}

	lines := strings.Split(strings.TrimSuffix(string(c.Data), "\n"), "\n")
	assert.Len(t, lines, 10_000)
	for _, line := range lines {
		require.Regexp(t, rowPattern, line)

		city, temp, _ := strings.Cut(line, ";")
		assert.True(t, known[city], city)
		assert.NotEqual(t, "-0.0", temp)

		v, err := strconv.ParseFloat(temp, 64)
		require.NoError(t, err)
		assert.Less(t, v, MAX_TEMP)
		assert.Greater(t, v, -MAX_TEMP)
	}
}

func TestRandomTempStaysInsideBounds(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	var lo, hi float64
	for range 200_000 {
		v := randomTemp(r)
		require.Less(t, v, MAX_TEMP)
		require.Greater(t, v, -MAX_TEMP)
		require.False(t, math.Signbit(v) && v == 0)
		require.Equal(t, v, math.Round(v*10)/10)
		lo, hi = min(lo, v), max(hi, v)
	}
	assert.Equal(t, -98.9, lo)
	assert.Equal(t, 98.9, hi)
}

func TestBuildChunkEmpty(t *testing.T) {
	c := BuildChunk(rand.New(rand.NewSource(1)), 0)
	assert.Empty(t, c.Data)
	assert.Equal(t, 0, c.Rows)
}

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(WithWorkers(3), WithChunkRows(1_000), WithSeed(9))
	res, err := g.Stream(context.Background(), &buf, 2_500)
	require.NoError(t, err)

	assert.Equal(t, 2_500, res.Rows)
	assert.Equal(t, int64(buf.Len()), res.Bytes)
	assert.Equal(t, 2_500, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.NotContains(t, buf.String(), "\n\n")

	stats, err := solver.ReduceReference(&buf)
	require.NoError(t, err)
	var total int
	for _, s := range stats {
		total += s.Count
	}
	assert.Equal(t, 2_500, total)
}

func TestStreamZeroRows(t *testing.T) {
	var buf bytes.Buffer
	res, err := newTestGenerator().Stream(context.Background(), &buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)
	assert.Equal(t, 0, buf.Len())
}

func TestSeedReproducesMultiset(t *testing.T) {
	sortedLines := func() []string {
		var buf bytes.Buffer
		g := newTestGenerator(WithWorkers(4), WithChunkRows(100), WithSeed(1234))
		_, err := g.Stream(context.Background(), &buf, 1_000)
		require.NoError(t, err)
		lines := strings.Split(buf.String(), "\n")
		slices.Sort(lines)
		return lines
	}
	assert.Equal(t, sortedLines(), sortedLines())
}

func TestStreamProgress(t *testing.T) {
	var logs bytes.Buffer
	g := newTestGenerator(
		WithWorkers(2),
		WithChunkRows(1_000),
		WithProgressEvery(1_000),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	_, err := g.Stream(context.Background(), io.Discard, 5_000)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(logs.String(), "msg=progress"))
	assert.Contains(t, logs.String(), "pct=100.0")
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errDiskFull
}

func TestStreamWriterFailureStopsProducers(t *testing.T) {
	g := newTestGenerator(WithWorkers(2), WithChunkRows(100), WithWriterBuffer(16))
	_, err := g.Stream(context.Background(), failingWriter{}, 100_000)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestGenerator(WithChunkRows(10)).Stream(ctx, io.Discard, 1_000_000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testcase_1000_x.txt")
	res, err := newTestGenerator(WithChunkRows(300)).Generate(context.Background(), path, 1_000)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)

	stats, err := solver.SolveReference(path)
	require.NoError(t, err)
	var total int
	for _, s := range stats {
		total += s.Count
	}
	assert.Equal(t, 1_000, total)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, res.Bytes, fi.Size())
}

func TestGenerateBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "testcase.txt")
	_, err := newTestGenerator().Generate(context.Background(), path, 10)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func BenchmarkBuildChunk(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	for n := 0; n < b.N; n++ {
		BuildChunk(r, 10_000)
	}
}
