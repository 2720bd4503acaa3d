package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

const (
	DEFAULT_WORKERS       = 10
	DEFAULT_CHUNK_ROWS    = 1_000_000
	DEFAULT_WRITER_BUFFER = 8 * 1024 * 1024 // 8 MB
	PROGRESS_EVERY        = 50_000_000
	MAX_LATENCY_SAMPLES   = 10_000
)

var ErrChannelClosed = errors.New("writer exited before producers finished")

type Generator struct {
	workers       int
	chunkRows     int
	writerBuffer  int
	progressEvery int
	seed          uint64
	logger        *slog.Logger
}

type Result struct {
	Path    string
	Rows    int
	Bytes   int64
	Elapsed time.Duration

	// Time spent rendering a single chunk.
	ChunkAvg time.Duration
	ChunkP99 time.Duration
}

func New(options ...Option) *Generator {
	g := &Generator{
		workers:       DEFAULT_WORKERS,
		chunkRows:     DEFAULT_CHUNK_ROWS,
		writerBuffer:  DEFAULT_WRITER_BUFFER,
		progressEvery: PROGRESS_EVERY,
		seed:          uint64(time.Now().UnixNano()),
		logger:        slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
	for _, opt := range options {
		g = opt(g)
	}
	return g
}

// Generate writes rows random measurements to path. A partially written file
// is removed on failure.
func (g *Generator) Generate(ctx context.Context, path string, rows int) (Result, error) {
	g.logger.Info(
		"generating testcase",
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Int("workers", g.workers),
	)

	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("unable to create output file: %w", err)
	}

	res, err := g.Stream(ctx, f, rows)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("unable to close output file: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
		return Result{}, err
	}
	res.Path = path

	g.logger.Info(
		"generated testcase",
		slog.String("path", path),
		slog.Duration("elapsed", res.Elapsed),
		slog.String("size_gb", fmt.Sprintf("%.2f", float64(res.Bytes)/(1024*1024*1024))),
		slog.Duration("chunk_p99", res.ChunkP99),
	)
	return res, nil
}

// Stream runs the producers and the single writer against w. Chunks reach w
// in arrival order, not in production order.
func (g *Generator) Stream(ctx context.Context, w io.Writer, rows int) (Result, error) {
	start := time.Now()
	numChunks := (rows + g.chunkRows - 1) / g.chunkRows
	tach := tachymeter.New(&tachymeter.Config{Size: max(1, min(numChunks, MAX_LATENCY_SAMPLES))})

	chunks := make(chan Chunk, 2*g.workers)
	wr := newWriter(w, g.writerBuffer, rows, g.progressEvery, g.logger)

	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return wr.drain(chunks)
	})
	eg.Go(func() error {
		defer close(chunks)
		return g.produce(ectx, chunks, rows, tach)
	})

	if err := eg.Wait(); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, err
	}

	res := Result{
		Rows:    wr.rows,
		Bytes:   wr.bytes,
		Elapsed: time.Since(start),
	}
	if numChunks > 0 {
		m := tach.Calc()
		res.ChunkAvg = m.Time.Avg
		res.ChunkP99 = m.Time.P99
	}
	return res, nil
}

func (g *Generator) produce(ctx context.Context, out chan<- Chunk, rows int, tach *tachymeter.Tachymeter) error {
	pg, pctx := errgroup.WithContext(ctx)
	pg.SetLimit(g.workers)

	for i, start := 0, 0; start < rows; i, start = i+1, start+g.chunkRows {
		if pctx.Err() != nil {
			break
		}
		n := min(g.chunkRows, rows-start)
		r := rand.New(rand.NewSource(g.seed + uint64(i)))

		pg.Go(func() error {
			t := time.Now()
			c := BuildChunk(r, n)
			tach.AddTime(time.Since(t))

			select {
			case out <- c:
				return nil
			case <-pctx.Done():
				return ErrChannelClosed
			}
		})
	}
	if err := pg.Wait(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ErrChannelClosed
	}
	return nil
}
