// SPDX-License-Identifier: MPL-2.0

package checksum

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	emptyMD5    = "d41d8cd98f00b204e9800998ecf8427e"
	emptyBLAKE3 = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
)

// countingReader records the size of every Read call it serves.
type countingReader struct {
	r     io.Reader
	sizes []int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.sizes = append(c.sizes, len(p))
	return c.r.Read(p)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestReader_EmptyInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		algo Algorithm
		want string
	}{
		{"", emptyMD5},
		{AlgorithmMD5, emptyMD5},
		{AlgorithmBLAKE3, emptyBLAKE3},
	}
	for _, tt := range tests {
		got, err := Reader(bytes.NewReader(nil), tt.algo)
		if err != nil {
			t.Fatalf("Reader(%q) error = %v", tt.algo, err)
		}
		if got != tt.want {
			t.Errorf("Reader(%q) on empty input = %s, want %s", tt.algo, got, tt.want)
		}
	}
}

func TestReader_KnownDigest(t *testing.T) {
	t.Parallel()

	got, err := Reader(strings.NewReader("The quick brown fox jumps over the lazy dog"), AlgorithmMD5)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	if want := "9e107d9d372bb6826bd81d3542a419d6"; got != want {
		t.Errorf("Reader() = %s, want %s", got, want)
	}
}

func TestReader_ReadsFixedBlocks(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("ipm"), BlockSize) // three blocks worth
	cr := &countingReader{r: bytes.NewReader(data)}

	if _, err := Reader(cr, AlgorithmMD5); err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	for i, size := range cr.sizes {
		if size != BlockSize {
			t.Errorf("read %d used buffer of %d bytes, want %d", i, size, BlockSize)
		}
	}
	if len(cr.sizes) < 3 {
		t.Errorf("expected at least 3 reads for %d bytes, got %d", len(data), len(cr.sizes))
	}
}

func TestReader_PropagatesReadError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("disk on fire")
	_, err := Reader(failingReader{err: sentinel}, AlgorithmMD5)
	if !errors.Is(err, sentinel) {
		t.Fatalf("Reader() error = %v, want %v", err, sentinel)
	}
}

func TestReader_InvalidAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := Reader(strings.NewReader("x"), Algorithm("crc32"))
	if !errors.Is(err, ErrInvalidAlgorithm) {
		t.Fatalf("Reader() error = %v, want ErrInvalidAlgorithm", err)
	}
}

func TestFile_Reproducible(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "coc.ipk")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, 3*BlockSize+7), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	for _, algo := range []Algorithm{AlgorithmMD5, AlgorithmBLAKE3} {
		first, err := File(path, algo)
		if err != nil {
			t.Fatalf("File(%s) error = %v", algo, err)
		}
		second, err := File(path, algo)
		if err != nil {
			t.Fatalf("File(%s) error = %v", algo, err)
		}
		if first != second {
			t.Errorf("File(%s) not reproducible: %s != %s", algo, first, second)
		}
	}
}

func TestFile_EmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.ipk")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := File(path, AlgorithmMD5)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if got != emptyMD5 {
		t.Errorf("File() = %s, want %s", got, emptyMD5)
	}
}

func TestFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := File(filepath.Join(t.TempDir(), "missing.ipk"), AlgorithmMD5)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("File() error = %v, want os.ErrNotExist", err)
	}
}
