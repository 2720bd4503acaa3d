package solver

import "golang.org/x/exp/slog"

type Option func(*Solver) *Solver

func WithWorkers(n int) Option {
	return func(s *Solver) *Solver {
		if n > 0 {
			s.workers = n
		}
		return s
	}
}

// WithReadBatch sets the number of lines per batch. Zero keeps the
// size-derived default.
func WithReadBatch(n int) Option {
	return func(s *Solver) *Solver {
		s.readBatch = n
		return s
	}
}

func WithReadBuffer(n int) Option {
	return func(s *Solver) *Solver {
		if n > 0 {
			s.readBuffer = n
		}
		return s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) *Solver {
		s.logger = l
		return s
	}
}
