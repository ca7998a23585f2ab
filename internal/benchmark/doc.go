// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the pwdgen hot paths:
//   - single password generation for every tier
//   - parallel batch generation
//   - CUE config loading and schema validation
//
// To generate a profile, run:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
