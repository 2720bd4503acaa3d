// Package testcases lays out generated inputs and their reference answers on
// disk and hands them to the candidate.
package testcases

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	INPUT_PREFIX  = "testcase_"
	ANSWER_PREFIX = "answer_"
	EXT           = ".txt"
)

var ErrBadName = errors.New("not a testcase file name")

func InputName(rows int, id string) string {
	return fmt.Sprintf("%s%d_%s%s", INPUT_PREFIX, rows, id, EXT)
}

func AnswerName(rows int, id string) string {
	return fmt.Sprintf("%s%d_%s%s", ANSWER_PREFIX, rows, id, EXT)
}

// ParseName recovers rows and id from an input or answer file name. The id
// binds an input to its answer.
func ParseName(path string) (int, string, error) {
	name := filepath.Base(path)

	var rest string
	switch {
	case strings.HasPrefix(name, INPUT_PREFIX):
		rest = strings.TrimPrefix(name, INPUT_PREFIX)
	case strings.HasPrefix(name, ANSWER_PREFIX):
		rest = strings.TrimPrefix(name, ANSWER_PREFIX)
	default:
		return 0, "", fmt.Errorf("%w: %s", ErrBadName, name)
	}

	rest, ok := strings.CutSuffix(rest, EXT)
	if !ok {
		return 0, "", fmt.Errorf("%w: %s", ErrBadName, name)
	}
	rowsStr, id, ok := strings.Cut(rest, "_")
	if !ok || id == "" {
		return 0, "", fmt.Errorf("%w: %s", ErrBadName, name)
	}
	rows, err := strconv.Atoi(rowsStr)
	if err != nil || rows < 0 {
		return 0, "", fmt.Errorf("%w: %s", ErrBadName, name)
	}
	return rows, id, nil
}
