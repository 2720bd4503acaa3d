package generator

import (
	"brc/cities"
	"strconv"

	"golang.org/x/exp/rand"
)

const (
	BYTES_PER_ROW = 30
	MAX_TEMP      = 99.0

	// Largest magnitude in tenths strictly below MAX_TEMP.
	MAX_TENTHS = int(MAX_TEMP*10) - 1
)

// Chunk is a block of rows owned by one producer until it is sent; nobody
// mutates it after that.
type Chunk struct {
	Data []byte
	Rows int
}

// BuildChunk renders rows lines of `city;t.t\n` with cities drawn uniformly
// and temperatures uniform in (-MAX_TEMP, MAX_TEMP).
func BuildChunk(r *rand.Rand, rows int) Chunk {
	data := make([]byte, 0, rows*BYTES_PER_ROW)
	for range rows {
		data = append(data, cities.Random(r)...)
		data = append(data, ';')
		data = strconv.AppendFloat(data, randomTemp(r), 'f', 1, 64)
		data = append(data, '\n')
	}
	return Chunk{Data: data, Rows: rows}
}

// randomTemp draws a whole number of tenths uniformly from the open interval
// (-MAX_TEMP, MAX_TEMP). Zero comes out as +0.
func randomTemp(r *rand.Rand) float64 {
	return float64(r.Intn(2*MAX_TENTHS+1)-MAX_TENTHS) / 10
}
