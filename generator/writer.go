package generator

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/slog"
)

// writer is the only owner of the output handle. It drains chunks until the
// channel is closed and reports progress every progressEvery rows.
type writer struct {
	bw            *bufio.Writer
	totalRows     int
	progressEvery int
	logger        *slog.Logger

	rows  int
	bytes int64
}

func newWriter(w io.Writer, bufSize, totalRows, progressEvery int, logger *slog.Logger) *writer {
	return &writer{
		bw:            bufio.NewWriterSize(w, bufSize),
		totalRows:     totalRows,
		progressEvery: progressEvery,
		logger:        logger,
	}
}

func (w *writer) drain(chunks <-chan Chunk) error {
	start := time.Now()
	nextReport := w.progressEvery

	for c := range chunks {
		n, err := w.bw.Write(c.Data)
		w.bytes += int64(n)
		if err != nil {
			return fmt.Errorf("unable to write chunk: %w", err)
		}
		w.rows += c.Rows

		if w.progressEvery > 0 && w.rows >= nextReport {
			elapsed := time.Since(start)
			w.logger.Info(
				"progress",
				slog.Int("rows", w.rows),
				slog.Duration("elapsed", elapsed),
				slog.String("mrows_per_sec", fmt.Sprintf("%.2f", float64(w.rows)/elapsed.Seconds()/1e6)),
				slog.String("pct", fmt.Sprintf("%.1f", float64(w.rows)/float64(w.totalRows)*100)),
			)
			for nextReport <= w.rows {
				nextReport += w.progressEvery
			}
		}
	}

	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("unable to flush output: %w", err)
	}
	return nil
}
