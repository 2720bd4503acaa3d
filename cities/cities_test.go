package cities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestNamesAreSafeKeys(t *testing.T) {
	assert.NotEmpty(t, Names)
	for _, name := range Names {
		assert.NotEmpty(t, name)
		assert.False(t, strings.ContainsAny(name, ";=/\n"), "bad city %q", name)
	}
}

func TestRandomCoversPool(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	seen := make(map[string]bool)
	for range 100_000 {
		seen[Random(r)] = true
	}

	distinct := make(map[string]bool)
	for _, name := range Names {
		distinct[name] = true
	}
	assert.Equal(t, len(distinct), len(seen))
}
