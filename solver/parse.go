package solver

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrMalformedLine = errors.New("malformed line")
	ErrBlankLine     = errors.New("blank line")
)

type lineKind int

const (
	lineOK lineKind = iota
	lineBlank
	lineMalformed
)

// ParseLine splits a `city;temperature` record. Empty and whitespace-only
// lines yield ErrBlankLine, anything else that cannot be split or parsed
// yields ErrMalformedLine. The returned city aliases line.
func ParseLine(line []byte) ([]byte, float32, error) {
	city, temp, kind := parseLine(line)
	switch kind {
	case lineBlank:
		return nil, 0, ErrBlankLine
	case lineMalformed:
		return nil, 0, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return city, temp, nil
}

// parseLine is the non-allocating form of ParseLine used by the workers.
func parseLine(line []byte) ([]byte, float32, lineKind) {
	city, rest, found := bytes.Cut(line, []byte{';'})
	if !found {
		if len(bytes.TrimSpace(line)) == 0 {
			return nil, 0, lineBlank
		}
		return nil, 0, lineMalformed
	}
	if len(city) == 0 {
		return nil, 0, lineMalformed
	}

	temp, ok := parseTemp(rest)
	if !ok {
		return nil, 0, lineMalformed
	}
	return city, temp, lineOK
}

func parseTemp(b []byte) (float32, bool) {
	b = bytes.TrimRight(b, " \t\r")
	if tenths, ok := parseTenths(b); ok {
		// Exact integer over exact divisor, so this rounds the same way
		// strconv.ParseFloat(s, 32) does.
		return float32(tenths) / 10, true
	}

	f, err := strconv.ParseFloat(string(b), 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return float32(f), true
}

// Inspired by https://benhoyt.com/writings/go-1brc/
// parseTenths handles the generated shape -?d?d.d and reports false for
// anything else.
func parseTenths(b []byte) (int32, bool) {
	var negative bool
	if len(b) > 0 && b[0] == '-' {
		negative = true
		b = b[1:]
	}
	if len(b) < 3 || len(b) > 4 || b[len(b)-2] != '.' {
		return 0, false
	}

	var temp int32
	for i, c := range b {
		if i == len(b)-2 {
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		temp = temp*10 + int32(c-'0')
	}

	if negative {
		temp = -temp
	}
	return temp, true
}
