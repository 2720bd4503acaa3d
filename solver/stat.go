package solver

import (
	"unsafe"

	"github.com/dolthub/swiss"
)

const PARTIAL_CAPACITY = 1024

// Stat is the per-city fold. Temperatures are kept as float32 while the sum
// is carried as float64 so that ~1e8 observations keep their last digit.
type Stat struct {
	Min   float32
	Max   float32
	Sum   float64
	Count int
}

func newStat(temp float32) *Stat {
	return &Stat{
		Min:   temp,
		Max:   temp,
		Sum:   float64(temp),
		Count: 1,
	}
}

func (s *Stat) Add(temp float32) {
	s.Min = min(s.Min, temp)
	s.Max = max(s.Max, temp)
	s.Sum += float64(temp)
	s.Count++
}

func (s *Stat) Merge(o *Stat) {
	s.Min = min(s.Min, o.Min)
	s.Max = max(s.Max, o.Max)
	s.Sum += o.Sum
	s.Count += o.Count
}

func (s *Stat) Mean() float64 {
	return RoundMean(s.Sum, s.Count)
}

// Partial is a worker-local accumulator. It is never shared; the only way its
// contents reach other goroutines is through Global.Merge.
type Partial struct {
	stats   *swiss.Map[string, *Stat]
	lines   int
	skipped int
}

func NewPartial() *Partial {
	return &Partial{stats: swiss.NewMap[string, *Stat](PARTIAL_CAPACITY)}
}

// AddLine folds one raw line, dropping blank and malformed ones.
func (p *Partial) AddLine(line []byte) {
	city, temp, kind := parseLine(line)
	switch kind {
	case lineBlank:
		return
	case lineMalformed:
		p.skipped++
		return
	}
	p.lines++

	// The lookup key borrows the batch buffer; only inserts copy it.
	key := unsafe.String(unsafe.SliceData(city), len(city))
	if s, ok := p.stats.Get(key); ok {
		s.Add(temp)
		return
	}
	p.stats.Put(string(city), newStat(temp))
}

func (p *Partial) Add(city string, temp float32) {
	p.lines++
	if s, ok := p.stats.Get(city); ok {
		s.Add(temp)
		return
	}
	p.stats.Put(city, newStat(temp))
}

func (p *Partial) Len() int {
	return p.stats.Count()
}

func (p *Partial) Get(city string) (*Stat, bool) {
	return p.stats.Get(city)
}

func (p *Partial) Each(f func(city string, s *Stat)) {
	p.stats.Iter(func(k string, v *Stat) (stop bool) {
		f(k, v)
		return false
	})
}
