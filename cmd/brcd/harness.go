package main

import (
	"brc/bench"
	"brc/config"
	"brc/generator"
	"brc/solver"
	"brc/testcases"
	"brc/validator"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/slog"
)

const (
	OUTPUT_FILE     = "output.txt"
	BENCH_FILE      = "bench.json"
	BENCH_PARSED    = "bench_parsed.json"
	SUCCESS_MESSAGE = "All tests passed and benchmark completed"
)

// candidate is the external solution under test.
type candidate interface {
	RunCandidate(ctx context.Context, timeout time.Duration) (bench.TestResult, error)
	RunBenchmark(ctx context.Context, outPath string, skipCalibration bool) error
}

type harness struct {
	cfg       config.Config
	logger    *slog.Logger
	candidate candidate
	generate  testcases.GenerateFunc
	solve     testcases.SolveFunc
}

func newHarness(cfg config.Config) *harness {
	logger := cfg.Logger()
	return &harness{
		cfg:       cfg,
		logger:    logger,
		candidate: bench.NewRunner(cfg.Python, cfg.SrcDir, logger),
		generate: func(ctx context.Context, path string, rows int) error {
			_, err := generator.New(cfg.GeneratorOptions(logger)...).Generate(ctx, path, rows)
			return err
		},
		solve: func(ctx context.Context, inputPath, answerPath string) error {
			opts := append(cfg.SolverOptions(logger), solver.WithReadBatch(cfg.ReadBatchRows()))
			_, err := solver.New(opts...).Solve(ctx, inputPath, answerPath)
			return err
		},
	}
}

// run drives one evaluation. The returned error is the status message shown
// to the submitter.
func (h *harness) run(ctx context.Context) (*bench.Stats, error) {
	rows := h.cfg.Rows()
	h.logger.Info("preparing testcase", slog.Float64("level", h.cfg.Level), slog.Int("rows", rows))

	store, err := testcases.NewStore(h.cfg.TestcaseDir, h.logger)
	if err != nil {
		return nil, fmt.Errorf("Failed to create testcase directory: %w", err)
	}
	tc, err := store.FindOrCreate(ctx, rows, h.generate, h.solve)
	if err != nil {
		return nil, fmt.Errorf("Failed to prepare testcase: %w", err)
	}

	if err := os.MkdirAll(h.cfg.OutputDir, testcases.DEFAULT_PERM); err != nil {
		return nil, fmt.Errorf("Failed to create output directory: %w", err)
	}
	dst, err := testcases.CopyTo(tc.InputPath, h.cfg.SrcDir)
	if err != nil {
		return nil, fmt.Errorf("Failed to copy testcase file: %w", err)
	}
	h.logger.Info("copied testcase", slog.String("from", tc.InputPath), slog.String("to", dst))

	expected, err := validator.ReadLines(tc.AnswerPath)
	if err != nil {
		return nil, fmt.Errorf("Failed to open expected output file: %w", err)
	}
	if err := os.Remove(tc.AnswerPath); err != nil {
		return nil, fmt.Errorf("Failed to delete output file: %w", err)
	}

	res, err := h.candidate.RunCandidate(ctx, h.cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("Failed to run candidate: %w", err)
	}
	if !res.Success {
		return nil, errors.New(res.Message)
	}
	h.logger.Info("candidate finished", slog.Duration("runtime", res.Runtime))

	h.logger.Info("testing output")
	check, err := validator.Validate(expected, filepath.Join(h.cfg.SrcDir, OUTPUT_FILE))
	if err != nil {
		return nil, fmt.Errorf("Failed to validate output: %w", err)
	}
	if !check.Success {
		if check.Diff != "" {
			h.logger.Debug("output differs", slog.String("diff", check.Diff))
		}
		return nil, errors.New(check.Message)
	}
	h.logger.Info(check.Message)

	h.logger.Info("running benchmark")
	benchPath := filepath.Join(h.cfg.OutputDir, BENCH_FILE)
	if err := h.candidate.RunBenchmark(ctx, benchPath, h.cfg.SkipCalibration); err != nil {
		return nil, fmt.Errorf("Failed to run benchmark: %w", err)
	}

	stats, raw, err := bench.ParseFile(benchPath, h.cfg.SkipCalibration)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse benchmark: %w", err)
	}
	h.logger.Info("average runtime", slog.String("ms", fmt.Sprintf("%.6f", stats.MeanMillis())))

	if err := bench.WriteParsed(filepath.Join(h.cfg.OutputDir, BENCH_PARSED), stats, raw); err != nil {
		return nil, fmt.Errorf("Failed to write benchmark results: %w", err)
	}
	return stats, nil
}
