package testcases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

const (
	DEFAULT_DIR  = "testcases"
	COPY_NAME    = "testcase.txt"
	DEFAULT_PERM = 0755
)

type (
	GenerateFunc func(ctx context.Context, path string, rows int) error
	SolveFunc    func(ctx context.Context, inputPath, answerPath string) error
)

type Testcase struct {
	Rows       int
	ID         string
	InputPath  string
	AnswerPath string
}

type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, DEFAULT_PERM); err != nil {
		return nil, fmt.Errorf("unable to initialize directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) testcase(rows int, id string) Testcase {
	return Testcase{
		Rows:       rows,
		ID:         id,
		InputPath:  filepath.Join(s.dir, InputName(rows, id)),
		AnswerPath: filepath.Join(s.dir, AnswerName(rows, id)),
	}
}

// Find returns an existing input of the given size. When several exist the
// lexically first one wins.
func (s *Store) Find(rows int) (Testcase, bool, error) {
	pattern := filepath.Join(s.dir, INPUT_PREFIX+strconv.Itoa(rows)+"_*"+EXT)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return Testcase{}, false, fmt.Errorf("unable to collect testcase files: %w", err)
	}
	slices.Sort(matches)

	for _, m := range matches {
		r, id, err := ParseName(m)
		if err != nil || r != rows {
			continue
		}
		return s.testcase(rows, id), true, nil
	}
	return Testcase{}, false, nil
}

// FindOrCreate reuses an input of the requested size or generates a new one,
// then always solves it so the answer is fresh.
func (s *Store) FindOrCreate(ctx context.Context, rows int, gen GenerateFunc, solve SolveFunc) (Testcase, error) {
	tc, found, err := s.Find(rows)
	if err != nil {
		return Testcase{}, err
	}

	if found {
		s.logger.Info("testcase already exists, reusing it", slog.String("path", tc.InputPath))
	} else {
		id, err := uuid.GenerateUUID()
		if err != nil {
			return Testcase{}, fmt.Errorf("unable to generate testcase id: %w", err)
		}
		tc = s.testcase(rows, id)
		if err := gen(ctx, tc.InputPath, rows); err != nil {
			return Testcase{}, fmt.Errorf("unable to generate testcase: %w", err)
		}
		s.logger.Info("generated testcase", slog.String("path", tc.InputPath))
	}

	if err := solve(ctx, tc.InputPath, tc.AnswerPath); err != nil {
		return Testcase{}, fmt.Errorf("unable to solve testcase: %w", err)
	}
	return tc, nil
}

// CopyTo places the input at <dstDir>/testcase.txt, replacing any previous
// copy, and checks the copy against the source digest.
func CopyTo(srcPath, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, DEFAULT_PERM); err != nil {
		return "", fmt.Errorf("unable to create %s: %w", dstDir, err)
	}
	dstPath := filepath.Join(dstDir, COPY_NAME)
	if err := os.Remove(dstPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("unable to remove stale copy: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("source file does not exist: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("unable to create copy: %w", err)
	}

	h := xxhash.New()
	if _, err := io.Copy(io.MultiWriter(dst, h), src); err != nil {
		dst.Close()
		return "", fmt.Errorf("unable to copy testcase file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("unable to copy testcase file: %w", err)
	}

	got, err := Digest(dstPath)
	if err != nil {
		return "", err
	}
	if got != h.Sum64() {
		return "", fmt.Errorf("copy of %s is corrupt: digest %x, want %x", srcPath, got, h.Sum64())
	}
	return dstPath, nil
}

// Digest is the xxhash64 of the file contents.
func Digest(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return h.Sum64(), nil
}
