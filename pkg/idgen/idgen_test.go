package idgen

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/pickup-store/internal/apperror"
)

func never(context.Context, string) (bool, error) { return false, nil }

func TestGeneratorsProduceExpectedShapes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		gen     Generator
		pattern string
	}{
		{Product, `^P-[0-9A-F]{6}$`},
		{Category, `^cat-[0-9a-f]{8}$`},
		{Customer, `^CUST-[1-9][0-9]{2}$`},
		{Order, `^ORD-[0-9]{12}-[0-9A-F]{4}$`},
	}
	for _, tt := range tests {
		t.Run(tt.gen.Prefix, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				id, err := tt.gen.Generate(ctx, never)
				require.NoError(t, err)
				assert.Regexp(t, regexp.MustCompile(tt.pattern), id)
			}
		})
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	id, err := Customer.Generate(context.Background(), exists)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 3, calls)
}

func TestGenerateFailsWithConflictWhenExhausted(t *testing.T) {
	always := func(context.Context, string) (bool, error) { return true, nil }
	gen := Generator{Prefix: "CUST-", Suffix: Digits(100, 999), Attempts: 5}

	_, err := gen.Generate(context.Background(), always)

	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestGeneratePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := Product.Generate(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestTimestampedUsesClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	id := Generator{Prefix: "ORD-", Suffix: Timestamped(clock, 4)}.Next()
	assert.Regexp(t, `^ORD-260304050607-[0-9A-F]{4}$`, id)
}
