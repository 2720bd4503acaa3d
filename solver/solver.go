package solver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

const (
	DEFAULT_WORKERS      = 10
	MAX_READ_BATCH       = 10_000_000
	READ_BUFFER_SIZE     = 8 * 1024 * 1024 // 8 MB
	ESTIMATED_LINE_BYTES = 16
)

// ReadBatchFor is the default number of lines pulled per batch for a corpus
// of the given size.
func ReadBatchFor(rows int) int {
	return max(min(MAX_READ_BATCH, rows/100), 1)
}

type Solver struct {
	workers    int
	readBatch  int
	readBuffer int
	logger     *slog.Logger
}

type Summary struct {
	Lines   int
	Skipped int
	Cities  int
	Batches int
	Elapsed time.Duration
}

func New(options ...Option) *Solver {
	s := &Solver{
		workers:    DEFAULT_WORKERS,
		readBuffer: READ_BUFFER_SIZE,
		logger:     slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// Solve reduces the corpus at inputPath and writes the sorted answer to
// answerPath, truncating it.
func (s *Solver) Solve(ctx context.Context, inputPath, answerPath string) (Summary, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("unable to open input: %w", err)
	}
	defer f.Close()

	batch := s.readBatch
	if batch <= 0 {
		fi, err := f.Stat()
		if err != nil {
			return Summary{}, fmt.Errorf("unable to stat input: %w", err)
		}
		batch = ReadBatchFor(int(fi.Size() / ESTIMATED_LINE_BYTES))
	}

	global, sum, err := s.reduce(ctx, f, batch)
	if err != nil {
		return sum, err
	}
	if err := WriteAnswerFile(answerPath, global.Stats()); err != nil {
		return sum, err
	}

	s.logger.Info(
		"solved testcase",
		slog.String("input", inputPath),
		slog.String("answer", answerPath),
		slog.Int("lines", sum.Lines),
		slog.Int("cities", sum.Cities),
		slog.Int("skipped", sum.Skipped),
		slog.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}

// Reduce runs the batched reduction over r and returns the merged map.
func (s *Solver) Reduce(ctx context.Context, r io.Reader) (*Global, Summary, error) {
	batch := s.readBatch
	if batch <= 0 {
		batch = MAX_READ_BATCH
	}
	return s.reduce(ctx, r, batch)
}

func (s *Solver) reduce(ctx context.Context, r io.Reader, batchLines int) (*Global, Summary, error) {
	start := time.Now()
	br := bufio.NewReaderSize(r, s.readBuffer)
	global := NewGlobal()

	var (
		b       batch
		batches int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, Summary{}, err
		}

		eof, err := b.fill(br, batchLines)
		if err != nil {
			return nil, Summary{}, fmt.Errorf("unable to read input: %w", err)
		}
		if b.len() > 0 {
			s.dispatch(&b, global)
			batches++
			s.logger.Debug("merged batch", slog.Int("batch", batches), slog.Int("lines", b.len()))
		}
		if eof {
			break
		}
	}

	return global, Summary{
		Lines:   global.Lines(),
		Skipped: global.Skipped(),
		Cities:  len(global.Stats()),
		Batches: batches,
		Elapsed: time.Since(start),
	}, nil
}

// dispatch splits the batch by line index into one slice per worker and
// blocks until every worker has merged.
func (s *Solver) dispatch(b *batch, global *Global) {
	n := b.len()

	var wg sync.WaitGroup
	for w := range s.workers {
		lo, hi := w*n/s.workers, (w+1)*n/s.workers
		if lo == hi {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := NewPartial()
			for i := lo; i < hi; i++ {
				p.AddLine(b.line(i))
			}
			global.Merge(p)
		}()
	}
	wg.Wait()
}

// batch holds whole lines, without their newline, back to back in one
// buffer. It is only written between dispatches.
type batch struct {
	buf  []byte
	ends []int
}

func (b *batch) len() int {
	return len(b.ends)
}

func (b *batch) line(i int) []byte {
	var start int
	if i > 0 {
		start = b.ends[i-1]
	}
	return b.buf[start:b.ends[i]]
}

// fill reads up to limit lines and reports whether the reader is exhausted.
// Empty lines are not stored.
func (b *batch) fill(r *bufio.Reader, limit int) (bool, error) {
	b.buf, b.ends = b.buf[:0], b.ends[:0]

	for len(b.ends) < limit {
		start := len(b.buf)

		var err error
		for {
			var chunk []byte
			chunk, err = r.ReadSlice('\n')
			b.buf = append(b.buf, chunk...)
			if !errors.Is(err, bufio.ErrBufferFull) {
				break
			}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}

		if n := len(b.buf); n > start && b.buf[n-1] == '\n' {
			b.buf = b.buf[:n-1]
		}
		if len(b.buf) > start {
			b.ends = append(b.ends, len(b.buf))
		}
		if err != nil {
			return true, nil
		}
	}
	return false, nil
}
