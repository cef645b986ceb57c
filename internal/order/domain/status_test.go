package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusPacked, StatusReady, StatusCompleted, StatusCancelled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusPacked}:    true,
		{StatusPending, StatusReady}:     true,
		{StatusPending, StatusCompleted}: true,
		{StatusPending, StatusCancelled}: true,
		{StatusPacked, StatusReady}:      true,
		{StatusPacked, StatusCompleted}:  true,
		{StatusPacked, StatusCancelled}:  true,
		{StatusReady, StatusCompleted}:   true,
		{StatusReady, StatusCancelled}:   true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesAreClosed(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		assert.True(t, from.IsTerminal())
		for _, to := range []Status{StatusPending, StatusPacked, StatusReady, StatusCompleted, StatusCancelled} {
			assert.False(t, CanTransition(from, to))
		}
	}
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("ready")
	assert.True(t, ok)
	assert.Equal(t, StatusReady, st)

	_, ok = ParseStatus("shipped")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestComputeTotal(t *testing.T) {
	items := []Item{
		{ProductID: "P-001", Price: decimal.RequireFromString("180.00"), Quantity: 2},
		{ProductID: "P-002", Price: decimal.RequireFromString("120.50"), Quantity: 1},
	}
	assert.True(t, ComputeTotal(items).Equal(decimal.RequireFromString("480.50")))
	assert.True(t, ComputeTotal(nil).IsZero())
}
