package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	id := "0b6f3c1e-5a0e-4c11-9d1e-3a5b7c9d1f20"
	assert.Equal(t, "testcase_1000_"+id+".txt", InputName(1000, id))
	assert.Equal(t, "answer_1000_"+id+".txt", AnswerName(1000, id))

	for _, name := range []string{InputName(1000, id), AnswerName(1000, id), "/some/dir/" + InputName(1000, id)} {
		rows, got, err := ParseName(name)
		require.NoError(t, err, name)
		assert.Equal(t, 1000, rows)
		assert.Equal(t, id, got)
	}
}

func TestParseNameRejects(t *testing.T) {
	for _, name := range []string{
		"testcase.txt",
		"output.txt",
		"testcase_1000.txt",
		"testcase_abc_x.txt",
		"testcase_-1_x.txt",
		"testcase_1000_.txt",
		"testcase_1000_x.csv",
	} {
		_, _, err := ParseName(name)
		assert.ErrorIs(t, err, ErrBadName, name)
	}
}
