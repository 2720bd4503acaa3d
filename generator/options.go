package generator

import "golang.org/x/exp/slog"

type Option func(*Generator) *Generator

func WithWorkers(n int) Option {
	return func(g *Generator) *Generator {
		if n > 0 {
			g.workers = n
		}
		return g
	}
}

func WithChunkRows(n int) Option {
	return func(g *Generator) *Generator {
		if n > 0 {
			g.chunkRows = n
		}
		return g
	}
}

func WithWriterBuffer(n int) Option {
	return func(g *Generator) *Generator {
		if n > 0 {
			g.writerBuffer = n
		}
		return g
	}
}

func WithProgressEvery(rows int) Option {
	return func(g *Generator) *Generator {
		g.progressEvery = rows
		return g
	}
}

// WithSeed makes every chunk's contents reproducible. Chunk order in the
// file still depends on scheduling.
func WithSeed(seed uint64) Option {
	return func(g *Generator) *Generator {
		g.seed = seed
		return g
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) *Generator {
		g.logger = l
		return g
	}
}
