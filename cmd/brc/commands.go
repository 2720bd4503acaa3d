package main

import (
	"brc/bench"
	"brc/generator"
	"brc/solver"
	"brc/testcases"
	"brc/validator"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rodaine/table"
)

func genCmd(ctx context.Context, e *env) error {
	logger := e.cfg.Logger()
	rows := e.cfg.Rows()

	path := e.stringFlag("out")
	if path == "" {
		store, err := testcases.NewStore(e.cfg.TestcaseDir, logger)
		if err != nil {
			return err
		}
		id, err := uuid.GenerateUUID()
		if err != nil {
			return fmt.Errorf("unable to generate testcase id: %w", err)
		}
		path = filepath.Join(store.Dir(), testcases.InputName(rows, id))
	}

	opts := e.cfg.GeneratorOptions(logger)
	if seed := e.uint64Flag("seed"); seed != 0 {
		opts = append(opts, generator.WithSeed(seed))
	}
	res, err := generator.New(opts...).Generate(ctx, path, rows)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, res.Path)
	return nil
}

func singleArg(e *env, what string) (string, error) {
	if len(e.args()) != 1 {
		return "", fmt.Errorf("%w: expected exactly one %s", errUsage, what)
	}
	return e.args()[0], nil
}

func solveCmd(ctx context.Context, e *env) error {
	input, err := singleArg(e, "input file")
	if err != nil {
		return err
	}
	answer := e.stringFlag("out")
	if answer == "" {
		answer = solver.AnswerPathFor(input)
	}

	if e.boolFlag("reference") {
		stats, err := solver.SolveReference(input)
		if err != nil {
			return err
		}
		if err := solver.WriteAnswerFile(answer, stats); err != nil {
			return err
		}
	} else {
		sum, err := solver.New(e.cfg.SolverOptions(e.cfg.Logger())...).Solve(ctx, input, answer)
		if err != nil {
			return err
		}
		if sum.Skipped > 0 {
			fmt.Fprintf(e.out, "skipped %d malformed lines\n", sum.Skipped)
		}
	}
	fmt.Fprintln(e.out, answer)
	return nil
}

func answerLines(stats map[string]*solver.Stat) ([]string, error) {
	var buf bytes.Buffer
	if err := solver.WriteAnswer(&buf, stats); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), nil
}

// verifyCmd solves the input on both paths and compares the answers.
func verifyCmd(ctx context.Context, e *env) error {
	input, err := singleArg(e, "input file")
	if err != nil {
		return err
	}

	start := time.Now()
	want, err := solver.SolveReference(input)
	if err != nil {
		return err
	}
	refElapsed := time.Since(start)

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("unable to open input: %w", err)
	}
	defer f.Close()

	s := solver.New(e.cfg.SolverOptions(e.cfg.Logger())...)
	global, sum, err := s.Reduce(ctx, f)
	if err != nil {
		return err
	}

	expected, err := answerLines(want)
	if err != nil {
		return err
	}
	actual, err := answerLines(global.Stats())
	if err != nil {
		return err
	}

	res := validator.Compare(expected, actual)
	fmt.Fprintf(e.out, "reference %v, concurrent %v, %d cities\n", refElapsed, sum.Elapsed, sum.Cities)
	return report(e, res)
}

func report(e *env, res validator.Result) error {
	if res.Success {
		fmt.Fprintln(e.out, color.GreenString(res.Message))
		return nil
	}
	fmt.Fprintln(e.out, color.RedString(res.Message))
	if res.Diff != "" {
		fmt.Fprintln(e.out, res.Diff)
	}
	return errMismatch
}

func validateCmd(_ context.Context, e *env) error {
	if len(e.args()) != 2 {
		return fmt.Errorf("%w: expected <expected> <actual>", errUsage)
	}
	res, err := validator.ValidateFiles(e.args()[0], e.args()[1])
	if err != nil {
		return err
	}
	return report(e, res)
}

func statsCmd(_ context.Context, e *env) error {
	path, err := singleArg(e, "benchmark report")
	if err != nil {
		return err
	}
	stats, raw, err := bench.ParseFile(path, e.cfg.SkipCalibration)
	if err != nil {
		return err
	}
	if out := e.stringFlag("out"); out != "" {
		if err := bench.WriteParsed(out, stats, raw); err != nil {
			return err
		}
	}

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	tbl := table.
		New("Runs", "Values", "Loops", "Min (ms)", "Median (ms)", "Mean (ms)", "StdDev (ms)", "Max (ms)", "Outliers").
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt).
		WithWriter(e.out)

	tbl.AddRow(
		stats.ValueRuns,
		stats.TotalValues,
		stats.LoopIterations,
		fmt.Sprintf("%.3f", stats.Minimum/1000),
		fmt.Sprintf("%.3f", stats.Median/1000),
		fmt.Sprintf("%.3f", stats.MeanMillis()),
		fmt.Sprintf("%.3f", stats.StdDev/1000),
		fmt.Sprintf("%.3f", stats.Maximum/1000),
		stats.Outliers,
	)
	tbl.Print()
	fmt.Fprintf(e.out, "started %s, took %.1fs\n", stats.StartDate.Format(time.DateTime), stats.TotalDuration)
	return nil
}

func showCmd(_ context.Context, e *env) error {
	path, err := singleArg(e, "answer file")
	if err != nil {
		return err
	}
	lines, err := validator.ReadLines(path)
	if err != nil {
		return err
	}

	data := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		city, values, err := validator.ParseAnswerLine(line)
		if err != nil {
			return err
		}
		row := []string{city}
		for _, v := range values {
			row = append(row, fmt.Sprintf("%.1f", v))
		}
		data = append(data, row)
	}

	tw := tablewriter.NewWriter(e.out)
	tw.SetHeader([]string{"City", "Min", "Mean", "Max"})
	tw.AppendBulk(data)
	tw.Render()
	return nil
}
