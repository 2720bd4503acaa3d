package solver

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

// SolveReference is the strict single-threaded path: the first malformed
// line aborts the run with its line number. Tests use it to check that a
// corpus is well formed and as an oracle for the parallel path.
func SolveReference(path string) (map[string]*Stat, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to map input: %w", err)
	}
	defer ra.Close()

	return ReduceReference(io.NewSectionReader(ra, 0, int64(ra.Len())))
}

func ReduceReference(r io.Reader) (map[string]*Stat, error) {
	stats := make(map[string]*Stat)
	br := bufio.NewReaderSize(r, READ_BUFFER_SIZE)

	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unable to read input: %w", err)
		}
		if len(line) > 0 {
			if line[len(line)-1] == '\n' {
				line = line[:len(line)-1]
			}

			city, temp, perr := ParseLine(line)
			switch {
			case errors.Is(perr, ErrBlankLine):
			case perr != nil:
				return nil, fmt.Errorf("line %d: %w", lineNo, perr)
			default:
				if s, ok := stats[string(city)]; ok {
					s.Add(temp)
				} else {
					stats[string(city)] = newStat(temp)
				}
			}
		}
		if err != nil {
			return stats, nil
		}
	}
}
