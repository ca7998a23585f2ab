// SPDX-License-Identifier: MPL-2.0

package generator

// Character classes. The four sets are disjoint.
const (
	// Lowercase is the lowercase ASCII letter class.
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	// Uppercase is the uppercase ASCII letter class.
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// Digits is the decimal digit class.
	Digits = "0123456789"
	// Special is the punctuation class used for special characters.
	Special = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// tierClasses lists the classes forming each tier's base alphabet.
//
//nolint:gochecknoglobals // Fixed lookup table.
var tierClasses = map[Complexity][]string{
	ComplexitySimple:  {Lowercase},
	ComplexitySecure:  {Lowercase, Uppercase, Digits},
	ComplexityComplex: {Lowercase, Uppercase, Digits, Special},
}

// workingAlphabet returns the filler alphabet for a request. With the special
// flag the Special class is appended after the tier's base classes even when
// the tier already contains it, so Complex+special draws filler characters
// from a set where every special character appears twice. The duplication is
// kept so filler draws follow the same distribution as earlier pwdgen releases.
func workingAlphabet(c Complexity, includeSpecial bool) []byte {
	classes := tierClasses[c]

	size := 0
	for _, class := range classes {
		size += len(class)
	}
	if includeSpecial {
		size += len(Special)
	}

	alphabet := make([]byte, 0, size)
	for _, class := range classes {
		alphabet = append(alphabet, class...)
	}
	if includeSpecial {
		alphabet = append(alphabet, Special...)
	}
	return alphabet
}

// mandatoryClasses returns the classes that must each contribute one
// character, in draw order.
func mandatoryClasses(c Complexity, includeSpecial bool) []string {
	var classes []string
	if c == ComplexitySecure || c == ComplexityComplex {
		classes = append(classes, Lowercase, Uppercase, Digits)
	}
	if includeSpecial {
		classes = append(classes, Special)
	}
	return classes
}
