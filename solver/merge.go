package solver

import "sync"

// Global is the solve-wide accumulator. Workers touch it exactly once, at the
// end of their slice, so lock hold time is bounded by the number of distinct
// cities and not by the number of lines.
type Global struct {
	mu sync.Mutex

	stats   map[string]*Stat
	lines   int
	skipped int
	merges  int
}

func NewGlobal() *Global {
	return &Global{stats: make(map[string]*Stat)}
}

func (g *Global) Merge(p *Partial) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p.Each(func(city string, s *Stat) {
		gs, ok := g.stats[city]
		if !ok {
			cp := *s
			g.stats[city] = &cp
			return
		}
		gs.Merge(s)
	})
	g.lines += p.lines
	g.skipped += p.skipped
	g.merges++
}

// Stats must only be read once every worker has merged.
func (g *Global) Stats() map[string]*Stat {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

func (g *Global) Lines() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lines
}

func (g *Global) Skipped() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.skipped
}

func (g *Global) Merges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.merges
}
