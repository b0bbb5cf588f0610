package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesUnderlying(t *testing.T) {
	base := errors.New("boom")
	wrapped := Wrap(base, ErrorCategoryData, "csv_provider", "load")

	require.NotNil(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "DATA")
	assert.Contains(t, wrapped.Error(), "csv_provider")
	assert.False(t, wrapped.IsRetryable())

	assert.Nil(t, Wrap(nil, ErrorCategoryData, "csv_provider", "load"))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, New(ErrorCategoryFatal, "engine", "run", "x").IsFatal())
	assert.True(t, New(ErrorCategoryStrategyDoc, "dsl", "load", "x").IsFatal())
	assert.False(t, New(ErrorCategoryData, "data", "load", "x").IsFatal())
}

func TestRetryableCategories(t *testing.T) {
	assert.True(t, New(ErrorCategoryNetwork, "feed", "next", "x").IsRetryable())
	assert.True(t, New(ErrorCategoryTimeout, "feed", "next", "x").IsRetryable())
	assert.False(t, New(ErrorCategoryPortfolio, "engine", "open", "x").IsRetryable())

	forced := New(ErrorCategoryData, "data", "load", "x").WithRetryable(true)
	assert.True(t, forced.IsRetryable())
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCategory
	}{
		{errors.New("context deadline exceeded"), ErrorCategoryTimeout},
		{errors.New("dial tcp: connection refused"), ErrorCategoryNetwork},
		{errors.New(`unresolved constant reference "@x"`), ErrorCategoryStrategyDoc},
		{errors.New("invalid timestamp at line 3"), ErrorCategoryData},
		{errors.New("something else entirely"), ErrorCategoryEvaluation},
	}

	for _, tc := range cases {
		got := Categorize(tc.err, "test", "op")
		assert.Equal(t, tc.want, got.Category, tc.err.Error())
	}

	// already-categorized errors pass through untouched
	original := New(ErrorCategoryPortfolio, "engine", "open", "x")
	assert.Same(t, original, Categorize(fmt.Errorf("%w", original), "test", "op"))
}
