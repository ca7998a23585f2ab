// SPDX-License-Identifier: MPL-2.0

// Package generator implements randomized password generation by complexity tier.
//
// A request names a length, a Complexity tier and whether special characters
// are required. Secure and Complex tiers guarantee at least one lowercase
// letter, uppercase letter and digit; the special flag guarantees at least one
// special character on any tier. The remaining positions are drawn uniformly
// from the tier's working alphabet and the whole buffer is shuffled with a
// uniform Fisher-Yates permutation.
//
// Every call owns its own ChaCha8 generator seeded from crypto/rand, so the
// package holds no shared mutable state and is safe for concurrent use.
package generator
