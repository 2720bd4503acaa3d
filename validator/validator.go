// Package validator compares a candidate's answer file against the reference
// answer, line by line.
package validator

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/andreyvit/diff"
)

const EPSILON = 1e-6

var ErrMalformedAnswer = errors.New("malformed answer line")

type Result struct {
	Success bool
	Message string

	// Line diff of expected against actual, set on failure.
	Diff string
}

// ParseAnswerLine splits `city=min/mean/max` into the city and its values.
func ParseAnswerLine(line string) (string, []float64, error) {
	parts := strings.Split(line, "=")
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("%w: %s", ErrMalformedAnswer, line)
	}

	fields := strings.Split(parts[1], "/")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: bad value %q in %s", ErrMalformedAnswer, f, line)
		}
		values = append(values, v)
	}
	return parts[0], values, nil
}

func ValidateFiles(expectedPath, actualPath string) (Result, error) {
	expected, err := ReadLines(expectedPath)
	if err != nil {
		return Result{}, err
	}
	return Validate(expected, actualPath)
}

// Validate checks the answer at actualPath against the expected lines. A
// mismatch is reported through Result; the error is reserved for failures
// reading actualPath after it was opened.
func Validate(expected []string, actualPath string) (Result, error) {
	f, err := os.Open(actualPath)
	if err != nil {
		return Result{Message: fmt.Sprintf("Failed to open test output file: %v", err)}, nil
	}
	defer f.Close()

	actual, err := readNonBlank(f)
	if err != nil {
		return Result{}, fmt.Errorf("unable to read test output: %w", err)
	}

	res := Compare(nonBlank(expected), actual)
	if !res.Success {
		res.Diff = diff.LineDiff(strings.Join(expected, "\n"), strings.Join(actual, "\n"))
	}
	return res, nil
}

// Compare applies the validation rules to two sets of non-blank lines.
func Compare(expected, actual []string) Result {
	if len(actual) != len(expected) {
		return failf("Number of cities mismatch: expected %d cities, got %d", len(expected), len(actual))
	}

	positions := make(map[string]int, len(actual))
	for i, line := range actual {
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			return failf("Malformed line in test output: %s", line)
		}
		positions[parts[0]] = i
	}

	for pos, line := range expected {
		city, want, err := ParseAnswerLine(line)
		if err != nil {
			return failf("Malformed line in expected output: %s", line)
		}

		actualPos, ok := positions[city]
		if !ok {
			return failf("Missing city %s in test output", city)
		}
		if actualPos != pos {
			return failf("City '%s' is out of order: expected at position %d, found at position %d", city, pos, actualPos)
		}

		_, got, err := ParseAnswerLine(actual[actualPos])
		if err != nil {
			return failf("Failed to parse value in test output: %s", actual[actualPos])
		}
		if len(got) != len(want) {
			return failf("Number of values mismatch for city %s: expected %d, got %d", city, len(want), len(got))
		}
		for i := range want {
			if math.Abs(got[i]-want[i]) > EPSILON {
				return failf("Value mismatch for city %s at position %d: expected %v, got %v", city, i, want[i], got[i])
			}
		}
	}

	cities := make(map[string]bool, len(expected))
	for _, line := range expected {
		city, _, _ := strings.Cut(line, "=")
		cities[city] = true
	}
	for _, line := range actual {
		city, _, _ := strings.Cut(line, "=")
		if !cities[city] {
			return failf("Unexpected city %s in test output", city)
		}
	}

	return Result{
		Success: true,
		Message: "All tests passed successfully! Output matches expected format and order.",
	}
}

func failf(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return lines, nil
}

func readNonBlank(f *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
