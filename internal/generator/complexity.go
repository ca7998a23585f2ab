// SPDX-License-Identifier: MPL-2.0

package generator

import (
	"strings"
)

const (
	// ComplexitySimple draws from lowercase letters only.
	ComplexitySimple Complexity = iota + 1
	// ComplexitySecure mixes lowercase, uppercase and digits, one of each guaranteed.
	ComplexitySecure
	// ComplexityComplex adds special characters to the Secure alphabet.
	ComplexityComplex
)

// Complexity is the password complexity tier. The zero value is not a valid
// tier; values are obtained from the constants or ParseComplexity.
type Complexity int

// Complexities returns all tiers in increasing order of required diversity.
func Complexities() []Complexity {
	return []Complexity{ComplexitySimple, ComplexitySecure, ComplexityComplex}
}

// ParseComplexity maps a tier token to its Complexity. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseComplexity(token string) (Complexity, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "simple":
		return ComplexitySimple, nil
	case "secure":
		return ComplexitySecure, nil
	case "complex":
		return ComplexityComplex, nil
	default:
		return 0, &UnsupportedComplexityError{Value: token}
	}
}

// String returns the canonical lowercase token for the tier.
func (c Complexity) String() string {
	switch c {
	case ComplexitySimple:
		return "simple"
	case ComplexitySecure:
		return "secure"
	case ComplexityComplex:
		return "complex"
	}
	return "unknown"
}

// IsValid returns whether c is one of the defined tiers, and a list of
// validation errors if it is not.
func (c Complexity) IsValid() (bool, []error) {
	switch c {
	case ComplexitySimple, ComplexitySecure, ComplexityComplex:
		return true, nil
	default:
		return false, []error{&UnsupportedComplexityError{Value: c.String()}}
	}
}

// Set parses token into c. Together with String and Type it lets a
// *Complexity back a command-line flag.
func (c *Complexity) Set(token string) error {
	parsed, err := ParseComplexity(token)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Type names the flag value type in help output.
func (c *Complexity) Type() string {
	return "complexity"
}

// MarshalText encodes the tier as its token.
func (c Complexity) MarshalText() ([]byte, error) {
	if ok, errs := c.IsValid(); !ok {
		return nil, errs[0]
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a tier token.
func (c *Complexity) UnmarshalText(text []byte) error {
	return c.Set(string(text))
}
