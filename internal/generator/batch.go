// SPDX-License-Identifier: MPL-2.0

package generator

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Batch generates quantity passwords for req in parallel. The result holds
// the passwords in slot order; each one independently satisfies the request.
// The request is validated once up front so a bad request fails before any
// goroutine starts.
func Batch(ctx context.Context, req Request, quantity int) ([]string, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwords := make([]string, quantity)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range passwords {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			passwords[i] = generate(newRand(), req)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation canceled: %w", err)
	}
	return passwords, nil
}
