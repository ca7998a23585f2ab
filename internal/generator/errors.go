// SPDX-License-Identifier: MPL-2.0

package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLength is the sentinel error wrapped by InvalidLengthError.
	ErrInvalidLength = errors.New("invalid password length")

	// ErrUnsupportedComplexity is the sentinel error wrapped by UnsupportedComplexityError.
	ErrUnsupportedComplexity = errors.New("unsupported complexity")

	// ErrInvalidQuantity is the sentinel error wrapped by InvalidQuantityError.
	ErrInvalidQuantity = errors.New("invalid password quantity")
)

// MaxQuantity is the largest number of passwords a single batch generates.
const MaxQuantity = 10000

type (
	// InvalidLengthError is returned when a requested length cannot hold the
	// characters its tier and special flag make mandatory, or falls below a
	// caller-imposed minimum.
	InvalidLengthError struct {
		Length  int
		Minimum int
	}

	// InvalidQuantityError is returned when a batch asks for fewer than one
	// password or more than MaxQuantity.
	InvalidQuantityError struct {
		Quantity int
		Maximum  int
	}

	// UnsupportedComplexityError is returned for a tier token or value outside
	// simple, secure and complex.
	UnsupportedComplexityError struct {
		Value string
	}
)

// Error implements the error interface for InvalidLengthError.
func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid password length %d: must be at least %d", e.Length, e.Minimum)
}

// Unwrap returns ErrInvalidLength for errors.Is() compatibility.
func (e *InvalidLengthError) Unwrap() error { return ErrInvalidLength }

// Error implements the error interface for InvalidQuantityError.
func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid password quantity %d: must be between 1 and %d", e.Quantity, e.Maximum)
}

// Unwrap returns ErrInvalidQuantity for errors.Is() compatibility.
func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }

// ValidateQuantity returns an *InvalidQuantityError unless 1 <= quantity <= MaxQuantity.
func ValidateQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return &InvalidQuantityError{Quantity: quantity, Maximum: MaxQuantity}
	}
	return nil
}

// Error implements the error interface for UnsupportedComplexityError.
func (e *UnsupportedComplexityError) Error() string {
	tokens := make([]string, 0, 3)
	for _, c := range Complexities() {
		tokens = append(tokens, c.String())
	}
	return fmt.Sprintf("unsupported complexity %q (valid: %s)", e.Value, strings.Join(tokens, ", "))
}

// Unwrap returns ErrUnsupportedComplexity for errors.Is() compatibility.
func (e *UnsupportedComplexityError) Unwrap() error { return ErrUnsupportedComplexity }
