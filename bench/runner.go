package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/exp/slog"
)

const (
	DEFAULT_PYTHON = "python3.13"
	DEFAULT_SCRIPT = "main.py"
)

// DefaultFlags runs the candidate on the free-threaded interpreter.
var DefaultFlags = []string{"-X", "gil=0"}

type TestResult struct {
	Success bool
	Message string
	Runtime time.Duration
}

// Runner drives the external Python candidate. The zero values of Flags and
// Script are used as is, NewRunner fills in the defaults.
type Runner struct {
	Python string
	Flags  []string
	Script string
	Dir    string
	Logger *slog.Logger
}

func NewRunner(python, dir string, logger *slog.Logger) *Runner {
	if python == "" {
		python = DEFAULT_PYTHON
	}
	return &Runner{
		Python: python,
		Flags:  DefaultFlags,
		Script: DEFAULT_SCRIPT,
		Dir:    dir,
		Logger: logger,
	}
}

func (r *Runner) candidateArgs() []string {
	args := append([]string{}, r.Flags...)
	return append(args, r.Script)
}

// RunCandidate runs the candidate once and kills it if it outlives timeout.
// Failures of the candidate itself are reported through TestResult; the error
// is reserved for not being able to start it.
func (r *Runner) RunCandidate(ctx context.Context, timeout time.Duration) (TestResult, error) {
	r.Logger.Info("running unbenchmarked test", slog.String("dir", r.Dir), slog.Duration("timeout", timeout))

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, r.Python, r.candidateArgs()...)
	cmd.Dir = r.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return TestResult{}, fmt.Errorf("unable to run %s: %w", r.Script, err)
	}
	err := cmd.Wait()
	runtime := time.Since(start)

	if errors.Is(tctx.Err(), context.DeadlineExceeded) {
		r.Logger.Warn("candidate timed out, killed it", slog.Duration("timeout", timeout))
		return TestResult{
			Message: fmt.Sprintf("Process timed out after %d seconds", int(timeout.Seconds())),
		}, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return TestResult{
				Message: fmt.Sprintf("Python process failed with non-zero exit code: %s", exitErr.ProcessState),
				Runtime: runtime,
			}, nil
		}
		return TestResult{Message: err.Error()}, nil
	}

	r.Logger.Info("candidate completed", slog.Duration("runtime", runtime))
	return TestResult{
		Success: true,
		Message: "Test completed successfully",
		Runtime: runtime,
	}, nil
}

func (r *Runner) benchmarkArgs(outPath string, skipCalibration bool) []string {
	args := append([]string{}, r.Flags...)
	args = append(args, "-m", "pyperf", "command", "-o", outPath, "-p", "1")
	if skipCalibration {
		args = append(args, "--loops", "1")
	}
	args = append(args, "--", r.Python)
	return append(args, r.candidateArgs()...)
}

// RunBenchmark runs the candidate under pyperf, which writes its JSON report
// to outPath. A stale report is removed first.
func (r *Runner) RunBenchmark(ctx context.Context, outPath string, skipCalibration bool) error {
	outPath, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("unable to resolve benchmark path: %w", err)
	}
	r.Logger.Info("running benchmark", slog.String("out", outPath), slog.Bool("skip_calibration", skipCalibration))

	if err := os.Remove(outPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove stale benchmark: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.Python, r.benchmarkArgs(outPath, skipCalibration)...)
	cmd.Dir = r.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}
	return nil
}
