// SPDX-License-Identifier: MPL-2.0

package generator

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
)

// Request describes a single password to generate.
type Request struct {
	// Length is the exact number of characters in the password.
	Length int
	// Complexity selects the tier's alphabet and mandatory classes.
	Complexity Complexity
	// IncludeSpecial requires at least one special character and adds the
	// Special class to the filler alphabet.
	IncludeSpecial bool
}

// Generate returns one password of the given length for the tier. It is a
// convenience wrapper around Request.Generate.
func Generate(length int, complexity Complexity, includeSpecial bool) (string, error) {
	return Request{Length: length, Complexity: complexity, IncludeSpecial: includeSpecial}.Generate()
}

// MinLength returns the smallest length the request's tier and special flag
// can satisfy: one character per mandatory class, and never less than one.
func (r Request) MinLength() int {
	return max(1, len(mandatoryClasses(r.Complexity, r.IncludeSpecial)))
}

// Validate reports whether the request can be generated. It returns an
// *UnsupportedComplexityError for an undefined tier and an
// *InvalidLengthError when Length is below MinLength.
func (r Request) Validate() error {
	if ok, errs := r.Complexity.IsValid(); !ok {
		return errs[0]
	}
	if minimum := r.MinLength(); r.Length < minimum {
		return &InvalidLengthError{Length: r.Length, Minimum: minimum}
	}
	return nil
}

// Generate returns one password using a freshly seeded generator.
func (r Request) Generate() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	return generate(newRand(), r), nil
}

// GenerateFrom returns one password drawing all randomness from rng. The
// request is validated before any draw. rng must not be shared with
// concurrent callers.
func GenerateFrom(rng *rand.Rand, r Request) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	return generate(rng, r), nil
}

// generate draws one password for a request that has already passed Validate.
func generate(rng *rand.Rand, r Request) string {
	alphabet := workingAlphabet(r.Complexity, r.IncludeSpecial)
	buf := make([]byte, 0, r.Length)

	for _, class := range mandatoryClasses(r.Complexity, r.IncludeSpecial) {
		buf = append(buf, class[rng.IntN(len(class))])
	}
	for len(buf) < r.Length {
		buf = append(buf, alphabet[rng.IntN(len(alphabet))])
	}

	rng.Shuffle(len(buf), func(i, j int) {
		buf[i], buf[j] = buf[j], buf[i]
	})

	return string(buf)
}

// newRand returns a ChaCha8 generator seeded from the host entropy source.
func newRand() *rand.Rand {
	var seed [32]byte
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = cryptorand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}
