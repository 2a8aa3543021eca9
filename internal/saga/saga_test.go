package saga

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteRunsAllSteps(t *testing.T) {
	var order []string

	s := New(slog.Default(), "test",
		Step{
			Name: "first",
			Run: func(ctx context.Context) error {
				order = append(order, "first")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-first")
				return nil
			},
		},
		Step{
			Name: "second",
			Run: func(ctx context.Context) error {
				order = append(order, "second")
				return nil
			},
		},
	)

	err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestExecuteCompensatesInReverse(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	s := New(slog.Default(), "test",
		Step{
			Name: "first",
			Run: func(ctx context.Context) error {
				order = append(order, "first")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-first")
				return nil
			},
		},
		Step{
			Name: "second",
			Run: func(ctx context.Context) error {
				order = append(order, "second")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-second")
				return nil
			},
		},
		Step{
			Name: "third",
			Run: func(ctx context.Context) error {
				return boom
			},
		},
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second", "undo-second", "undo-first"}, order)
}

func TestFirstStepFailureCompensatesNothing(t *testing.T) {
	var compensated bool
	boom := errors.New("boom")

	s := New(slog.Default(), "test",
		Step{
			Name: "first",
			Run: func(ctx context.Context) error {
				return boom
			},
			Compensate: func(ctx context.Context) error {
				compensated = true
				return nil
			},
		},
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.False(t, compensated)
}

func TestCompensationFailureDoesNotMaskStepError(t *testing.T) {
	boom := errors.New("boom")

	s := New(slog.Default(), "test",
		Step{
			Name: "first",
			Run:  func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				return errors.New("undo failed")
			},
		},
		Step{
			Name: "second",
			Run:  func(ctx context.Context) error { return boom },
		},
	)

	err := s.Execute(context.Background())
	assert.ErrorIs(t, err, boom)
}
