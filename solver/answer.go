package solver

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// RoundMean rounds sum/count to one decimal, half away from zero, and never
// returns negative zero.
func RoundMean(sum float64, count int) float64 {
	mean := math.Round(sum/float64(count)*10) / 10
	if mean == 0 {
		return 0
	}
	return mean
}

// FormatLine prints the extremes as observed, in their shortest form with at
// least one fractional digit. Only the mean is rounded.
func FormatLine(city string, s *Stat) string {
	return fmt.Sprintf("%s=%s/%.1f/%s\n", city, formatTemp(s.Min), s.Mean(), formatTemp(s.Max))
}

func formatTemp(t float32) string {
	if t == 0 {
		return "0.0"
	}
	out := strconv.FormatFloat(float64(t), 'f', -1, 32)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// WriteAnswer writes one line per city in byte order of the city names.
func WriteAnswer(w io.Writer, stats map[string]*Stat) error {
	cities := maps.Keys(stats)
	slices.Sort(cities)

	bw := bufio.NewWriter(w)
	for _, city := range cities {
		s := stats[city]
		if s == nil || s.Count == 0 {
			continue
		}
		if _, err := bw.WriteString(FormatLine(city, s)); err != nil {
			return fmt.Errorf("unable to write answer: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to flush answer: %w", err)
	}
	return nil
}

func WriteAnswerFile(path string, stats map[string]*Stat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create answer file: %w", err)
	}
	if err := WriteAnswer(f, stats); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close answer file: %w", err)
	}
	return nil
}

// AnswerPathFor maps testcase_<rows>_<id>.txt to answer_<rows>_<id>.txt in
// the same directory. Other names get an answer_ prefix.
func AnswerPathFor(inputPath string) string {
	dir, name := filepath.Split(inputPath)
	name = strings.TrimPrefix(name, "testcase_")
	return filepath.Join(dir, "answer_"+name)
}
