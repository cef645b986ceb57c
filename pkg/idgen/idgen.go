// Package idgen builds prefixed identifiers and retries on collision.
package idgen

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/pickup-store/internal/apperror"
)

const DefaultAttempts = 20

// ExistsFunc reports whether an id is already taken.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Generator produces Prefix+Suffix() ids.
type Generator struct {
	Prefix   string
	Suffix   func() string
	Attempts int
}

var (
	Product  = Generator{Prefix: "P-", Suffix: Hex(6, true)}
	Category = Generator{Prefix: "cat-", Suffix: Hex(8, false)}
	Customer = Generator{Prefix: "CUST-", Suffix: Digits(100, 999)}
	Order    = Generator{Prefix: "ORD-", Suffix: Timestamped(time.Now, 4)}
)

// Next returns a fresh candidate without checking for collisions.
func (g Generator) Next() string {
	return g.Prefix + g.Suffix()
}

// Generate returns the first candidate that exists reports as free.
// When every attempt collides it fails with a conflict error.
func (g Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	attempts := g.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	for i := 0; i < attempts; i++ {
		id := g.Next()
		taken, err := exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check id %s: %w", id, err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", apperror.Conflict("idgen.Generate", g.Prefix,
		fmt.Sprintf("no free %s id after %d attempts", strings.TrimSuffix(g.Prefix, "-"), attempts))
}

// Digits yields a random decimal number in [lo, hi].
func Digits(lo, hi int) func() string {
	return func() string {
		return strconv.Itoa(lo + rand.Intn(hi-lo+1))
	}
}

// Hex yields n random hex characters.
func Hex(n int, upper bool) func() string {
	return func() string {
		s := strings.ReplaceAll(uuid.NewString(), "-", "")
		if n < len(s) {
			s = s[:n]
		}
		if upper {
			s = strings.ToUpper(s)
		}
		return s
	}
}

// Timestamped yields yymmddhhmmss-<n hex> using the given clock.
func Timestamped(now func() time.Time, n int) func() string {
	hex := Hex(n, true)
	return func() string {
		return now().UTC().Format("060102150405") + "-" + hex()
	}
}
