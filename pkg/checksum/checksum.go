// SPDX-License-Identifier: MPL-2.0

// Package checksum computes the content digests recorded in the catalog for
// every package archive.
//
// Input is always consumed in fixed BlockSize reads so memory use does not
// depend on archive size. Read errors are returned to the caller as-is.
package checksum

import (
	"crypto/md5" //nolint:gosec // md5 is the digest installers already verify against
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

const (
	// BlockSize is the fixed read size used while hashing.
	BlockSize = 16 * 1024

	// AlgorithmMD5 is the default digest; it is what existing ipm clients verify.
	AlgorithmMD5 Algorithm = "md5"
	// AlgorithmBLAKE3 is the 256-bit BLAKE3 digest.
	AlgorithmBLAKE3 Algorithm = "blake3"
)

// ErrInvalidAlgorithm is the sentinel error wrapped by InvalidAlgorithmError.
var ErrInvalidAlgorithm = errors.New("invalid checksum algorithm")

type (
	// Algorithm names a supported digest function.
	Algorithm string

	// InvalidAlgorithmError is returned when an Algorithm value is not recognized.
	InvalidAlgorithmError struct {
		Value Algorithm
	}
)

// Error implements the error interface.
func (e *InvalidAlgorithmError) Error() string {
	return fmt.Sprintf("invalid checksum algorithm %q (valid: %s, %s)", e.Value, AlgorithmMD5, AlgorithmBLAKE3)
}

// Unwrap returns ErrInvalidAlgorithm for errors.Is() compatibility.
func (e *InvalidAlgorithmError) Unwrap() error { return ErrInvalidAlgorithm }

// String returns the string representation of the Algorithm.
func (a Algorithm) String() string { return string(a) }

// Validate returns an error if the Algorithm is not supported.
// The zero value is valid and means AlgorithmMD5.
func (a Algorithm) Validate() error {
	switch a {
	case "", AlgorithmMD5, AlgorithmBLAKE3:
		return nil
	default:
		return &InvalidAlgorithmError{Value: a}
	}
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case "", AlgorithmMD5:
		return md5.New(), nil //nolint:gosec // see import
	case AlgorithmBLAKE3:
		return blake3.New(), nil
	default:
		return nil, &InvalidAlgorithmError{Value: a}
	}
}

// Reader returns the lowercase hex digest of everything readable from r.
func Reader(r io.Reader, algo Algorithm) (string, error) {
	h, err := algo.newHash()
	if err != nil {
		return "", err
	}

	buf := make([]byte, BlockSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n]) //nolint:errcheck // hash.Hash writes never fail
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", readErr
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// File returns the lowercase hex digest of the file at path.
func File(path string, algo Algorithm) (string, error) {
	if err := algo.Validate(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		// Read-only file handle; close errors are exotic (NFS edge cases).
		_ = f.Close()
	}()

	return Reader(f, algo)
}
