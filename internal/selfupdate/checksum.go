// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// checksumsAssetName is the optional manifest published next to the binaries.
const checksumsAssetName = "checksums.txt"

var (
	// ErrChecksumMismatch is wrapped by ChecksumError.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrAssetNotFound is returned when a release or its manifest lacks a file.
	ErrAssetNotFound = errors.New("asset not found")
)

type (
	// Checksums maps file names to lowercase hex SHA-256 digests.
	Checksums map[string]string

	// ChecksumError is returned when a downloaded binary does not hash to the
	// digest its release lists.
	ChecksumError struct {
		Filename string
		Expected string
		Got      string
	}
)

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s: release lists %s, download hashes to %s",
		e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// ParseChecksums reads a sha256sum manifest. Text ("<digest>  <file>") and
// binary ("<digest> *<file>") entries are accepted and other lines are
// skipped. A manifest without a single entry is an error.
func ParseChecksums(r io.Reader) (Checksums, error) {
	sums := Checksums{}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		digest, name, ok := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		if !ok || !isSHA256Hex(digest) {
			continue
		}
		name = strings.TrimPrefix(strings.TrimLeft(name, " "), "*")
		if name == "" {
			continue
		}
		sums[name] = strings.ToLower(digest)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading checksums: %w", err)
	}

	if len(sums) == 0 {
		return nil, errors.New("checksum manifest lists no files")
	}
	return sums, nil
}

// Lookup returns the digest listed for name.
func (c Checksums) Lookup(name string) (string, error) {
	if digest, ok := c[name]; ok {
		return digest, nil
	}
	return "", fmt.Errorf("%w: %s is not listed in %s", ErrAssetNotFound, name, checksumsAssetName)
}

func isSHA256Hex(s string) bool {
	b, err := hex.DecodeString(s)
	return err == nil && len(b) == sha256.Size
}
