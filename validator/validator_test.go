package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expected = []string{
	"A=1.2/1.8/2.4",
	"B=3.4/3.4/3.4",
	"Gali-Makhian-Wali=-9.9/0.0/9.9",
}

func writeAnswer(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		name    string
		actual  string
		success bool
		message string
	}{
		{"exact", "A=1.2/1.8/2.4\nB=3.4/3.4/3.4\nGali-Makhian-Wali=-9.9/0.0/9.9\n", true, "All tests passed"},
		{"blank lines ignored", "\nA=1.2/1.8/2.4\n  \nB=3.4/3.4/3.4\nGali-Makhian-Wali=-9.9/0.0/9.9\n\n", true, "All tests passed"},
		{"equivalent numbers", "A=1.20/1.8/2.4\nB=3.4/3.4/3.4\nGali-Makhian-Wali=-9.9/-0.0/9.9", true, "All tests passed"},
		{"missing line", "A=1.2/1.8/2.4\nB=3.4/3.4/3.4\n", false, "Number of cities mismatch: expected 3 cities, got 2"},
		{"malformed", "A=1.2/1.8/2.4\nB\nGali-Makhian-Wali=-9.9/0.0/9.9\n", false, "Malformed line in test output: B"},
		{"out of order", "B=3.4/3.4/3.4\nA=1.2/1.8/2.4\nGali-Makhian-Wali=-9.9/0.0/9.9\n", false, "City 'A' is out of order: expected at position 0, found at position 1"},
		{"wrong mean", "A=1.2/1.7/2.4\nB=3.4/3.4/3.4\nGali-Makhian-Wali=-9.9/0.0/9.9\n", false, "Value mismatch for city A at position 1: expected 1.8, got 1.7"},
		{"missing city", "A=1.2/1.8/2.4\nC=3.4/3.4/3.4\nGali-Makhian-Wali=-9.9/0.0/9.9\n", false, "Missing city B in test output"},
		{"value count", "A=1.2/1.8\nB=3.4/3.4/3.4\nGali-Makhian-Wali=-9.9/0.0/9.9\n", false, "Number of values mismatch for city A: expected 3, got 2"},
		{"bad number", "A=1.2/x/2.4\nB=3.4/3.4/3.4\nGali-Makhian-Wali=-9.9/0.0/9.9\n", false, "Failed to parse value in test output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(expected, writeAnswer(t, tt.actual))
			require.NoError(t, err)
			assert.Equal(t, tt.success, res.Success, res.Message)
			assert.Contains(t, res.Message, tt.message)
			if tt.success {
				assert.Empty(t, res.Diff)
			} else {
				assert.NotEmpty(t, res.Diff)
			}
		})
	}
}

func TestValidateMissingFile(t *testing.T) {
	res, err := Validate(expected, filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Failed to open test output file")
}

func TestCompareUnexpectedCity(t *testing.T) {
	res := Compare([]string{"A=1.0/1.0/1.0", "B=1.0/1.0/1.0"}, []string{"A=1.0/1.0/1.0", "A=1.0/1.0/1.0"})
	assert.False(t, res.Success)
}

func TestValidateIsIdempotent(t *testing.T) {
	path := writeAnswer(t, strings.Join(expected, "\n")+"\n")
	res, err := ValidateFiles(path, path)
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)
}

func TestValidateEmptyAnswers(t *testing.T) {
	path := writeAnswer(t, "")
	res, err := ValidateFiles(path, path)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestParseAnswerLine(t *testing.T) {
	city, values, err := ParseAnswerLine("South Dumdum=-1.0/0.0/1.0")
	require.NoError(t, err)
	assert.Equal(t, "South Dumdum", city)
	assert.Equal(t, []float64{-1, 0, 1}, values)

	_, _, err = ParseAnswerLine("a=b=c")
	assert.ErrorIs(t, err, ErrMalformedAnswer)
	_, _, err = ParseAnswerLine("a=1.0/zz/2.0")
	assert.ErrorIs(t, err, ErrMalformedAnswer)
}

func TestReadLinesMissing(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
