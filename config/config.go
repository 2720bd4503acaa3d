// Package config resolves the harness knobs. Defaults are overridden by the
// environment, which is overridden by command-line flags.
package config

import (
	"brc/bench"
	"brc/generator"
	"brc/solver"
	"brc/testcases"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/exp/slog"
)

const (
	DEFAULT_LEVEL         = 10.0
	DEFAULT_WORKERS       = generator.DEFAULT_WORKERS
	DEFAULT_CHUNK_ROWS    = generator.DEFAULT_CHUNK_ROWS
	DEFAULT_WRITER_BUFFER = generator.DEFAULT_WRITER_BUFFER
	DEFAULT_SRC_DIR       = "src"
	DEFAULT_OUTPUT_DIR    = "output"
	DEFAULT_TIMEOUT       = 10 * time.Minute
	ROWS_PER_LEVEL        = 1_000_000
)

var ErrInvalidEnv = errors.New("invalid environment variable")

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type Config struct {
	Level        float64
	Workers      int
	ChunkRows    int
	WriterBuffer int
	// ReadBatch of 0 derives the batch size from the row count.
	ReadBatch int

	TestcaseDir     string
	SrcDir          string
	OutputDir       string
	Timeout         time.Duration
	Python          string
	SkipCalibration bool
	Debug           bool
}

func Default() Config {
	return Config{
		Level:        DEFAULT_LEVEL,
		Workers:      DEFAULT_WORKERS,
		ChunkRows:    DEFAULT_CHUNK_ROWS,
		WriterBuffer: DEFAULT_WRITER_BUFFER,
		TestcaseDir:  testcases.DEFAULT_DIR,
		SrcDir:       DEFAULT_SRC_DIR,
		OutputDir:    DEFAULT_OUTPUT_DIR,
		Timeout:      DEFAULT_TIMEOUT,
		Python:       bench.DEFAULT_PYTHON,
	}
}

// Rows is floor(Level * 1e6).
func (c Config) Rows() int {
	return int(math.Floor(c.Level * ROWS_PER_LEVEL))
}

func (c Config) ReadBatchRows() int {
	if c.ReadBatch > 0 {
		return c.ReadBatch
	}
	return solver.ReadBatchFor(c.Rows())
}

func (c Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func (c Config) GeneratorOptions(logger *slog.Logger) []generator.Option {
	return []generator.Option{
		generator.WithWorkers(c.Workers),
		generator.WithChunkRows(c.ChunkRows),
		generator.WithWriterBuffer(c.WriterBuffer),
		generator.WithLogger(logger),
	}
}

func (c Config) SolverOptions(logger *slog.Logger) []solver.Option {
	opts := []solver.Option{
		solver.WithWorkers(c.Workers),
		solver.WithLogger(logger),
	}
	if c.ReadBatch > 0 {
		opts = append(opts, solver.WithReadBatch(c.ReadBatch))
	}
	return opts
}

// envVars pairs each environment knob with the flag that overrides it.
var envVars = []struct {
	key, flag string
}{
	{"LEVEL", "level"},
	{"WORKERS", "workers"},
	{"CHUNK_ROWS", "chunk-rows"},
	{"WRITER_BUFFER", "writer-buffer"},
	{"READ_BATCH", "read-batch"},
}

// validate reports the first bad knob by its flag name.
func (c Config) validate() (string, error) {
	switch {
	case math.IsNaN(c.Level) || math.IsInf(c.Level, 0) || c.Level < 0:
		return "level", fmt.Errorf("level must be a non-negative number, got %v", c.Level)
	case c.Workers < 1:
		return "workers", fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.ChunkRows < 1:
		return "chunk-rows", fmt.Errorf("chunk rows must be positive, got %d", c.ChunkRows)
	case c.WriterBuffer < 1:
		return "writer-buffer", fmt.Errorf("writer buffer must be positive, got %d", c.WriterBuffer)
	case c.ReadBatch < 0:
		return "read-batch", fmt.Errorf("read batch must not be negative, got %d", c.ReadBatch)
	case c.Timeout <= 0:
		return "timeout", fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return "", nil
}

// FromEnv applies LEVEL, WORKERS, CHUNK_ROWS, WRITER_BUFFER and READ_BATCH on
// top of c. Values that do not parse leave their field untouched and are
// returned keyed by variable name. Range checks happen in Load. A nil lookup
// reads the process environment.
func (c Config) FromEnv(lookup LookupFunc) (Config, map[string]error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	errs := make(map[string]error)
	for _, e := range envVars {
		v, ok := lookup(e.key)
		if !ok {
			continue
		}
		var err error
		switch e.key {
		case "LEVEL":
			c.Level, err = parseFloat(v, c.Level)
		case "WORKERS":
			c.Workers, err = parseInt(v, c.Workers)
		case "CHUNK_ROWS":
			c.ChunkRows, err = parseInt(v, c.ChunkRows)
		case "WRITER_BUFFER":
			c.WriterBuffer, err = parseInt(v, c.WriterBuffer)
		case "READ_BATCH":
			c.ReadBatch, err = parseInt(v, c.ReadBatch)
		}
		if err != nil {
			errs[e.key] = err
		}
	}
	return c, errs
}

func parseFloat(v string, fallback float64) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, err
	}
	return f, nil
}

func parseInt(v string, fallback int) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, err
	}
	return n, nil
}

// Bind registers the knobs on fs with c as the defaults. The returned pointer
// is filled in once fs is parsed.
func (c Config) Bind(fs *pflag.FlagSet) *Config {
	out := c
	fs.Float64VarP(&out.Level, "level", "l", c.Level, "millions of rows to generate")
	fs.IntVarP(&out.Workers, "workers", "w", c.Workers, "producer and reducer goroutines")
	fs.IntVar(&out.ChunkRows, "chunk-rows", c.ChunkRows, "rows per generated chunk")
	fs.IntVar(&out.WriterBuffer, "writer-buffer", c.WriterBuffer, "writer buffer size in bytes")
	fs.IntVar(&out.ReadBatch, "read-batch", c.ReadBatch, "lines per solver batch, 0 derives it from the row count")
	fs.StringVar(&out.TestcaseDir, "testcases", c.TestcaseDir, "directory holding inputs and answers")
	fs.StringVar(&out.SrcDir, "src", c.SrcDir, "candidate directory")
	fs.StringVar(&out.OutputDir, "output", c.OutputDir, "directory for status and benchmark files")
	fs.DurationVar(&out.Timeout, "timeout", c.Timeout, "candidate run timeout")
	fs.StringVar(&out.Python, "python", c.Python, "python interpreter")
	fs.BoolVar(&out.SkipCalibration, "skip-calibration", c.SkipCalibration, "run pyperf with a single loop")
	fs.BoolVar(&out.Debug, "debug", c.Debug, "debug logging")
	return &out
}

// Load layers defaults, environment and args, then validates the result once.
// Callers may register extra flags on fs before calling Load. On error the
// returned Config still carries every flag that parsed, so callers can find
// their output directory.
func Load(fs *pflag.FlagSet, args []string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	c, envErrs := Default().FromEnv(lookup)

	out := c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return *out, fmt.Errorf("unable to parse flags: %w", err)
	}

	for _, e := range envVars {
		if err, ok := envErrs[e.key]; ok && !fs.Changed(e.flag) {
			return *out, fmt.Errorf("%w %s: %w", ErrInvalidEnv, e.key, err)
		}
	}

	flag, err := out.validate()
	if err == nil {
		return *out, nil
	}
	if !fs.Changed(flag) {
		for _, e := range envVars {
			if _, set := lookup(e.key); set && e.flag == flag {
				return *out, fmt.Errorf("%w %s: %w", ErrInvalidEnv, e.key, err)
			}
		}
	}
	return *out, err
}
