package hints_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/foundry/internal/adapters/hints"
	"go.trai.ch/foundry/internal/core/domain"
)

func TestProcessor_ExpectRevert(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		message string
	}{
		{name: "no message", code: "expect_revert()"},
		{name: "double quoted", code: `expect_revert("x must be positive")`, message: "x must be positive"},
		{name: "single quoted", code: `expect_revert('x must be positive')`, message: "x must be positive"},
		{name: "escaped quote", code: `expect_revert("say \"no\"")`, message: `say "no"`},
		{name: "surrounding whitespace", code: "  expect_revert( 'boom' )\n", message: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := domain.Hint{PC: 4, Code: tt.code}
			scope := &domain.HintScope{}

			err := hints.NewProcessor().ExecuteHint(context.Background(), hint, scope)
			require.NoError(t, err)
			assert.True(t, scope.ExpectRevert)
			assert.Equal(t, tt.message, scope.ExpectedRevertMessage)
			assert.Equal(t, []domain.Hint{hint}, scope.Handled)
		})
	}
}

func TestProcessor_NotHandled(t *testing.T) {
	codes := []string{
		"memory[ap] = to_felt_or_relocatable(ids.x)",
		"from starkware.cairo.common.math_utils import assert_integer\nassert_integer(ids.a)",
		"print(ids.x)",
		"expect_revert(ids.x)",
		`expect_revert("unterminated)`,
		"",
	}

	for _, code := range codes {
		scope := &domain.HintScope{}
		err := hints.NewProcessor().ExecuteHint(context.Background(), domain.Hint{Code: code}, scope)
		require.ErrorIs(t, err, domain.ErrHintNotHandled, code)
		assert.False(t, scope.ExpectRevert)
		assert.Empty(t, scope.Handled)
	}
}

func TestProcessor_ExpectRevert_TooManyArguments(t *testing.T) {
	scope := &domain.HintScope{}
	err := hints.NewProcessor().ExecuteHint(context.Background(), domain.Hint{Code: `expect_revert("a", "b")`}, scope)
	require.Error(t, err)
	assert.ErrorContains(t, err, "at most one argument")
	assert.Empty(t, scope.Handled)
}

func TestProcessor_Register(t *testing.T) {
	p := hints.NewProcessor()
	var got []string
	p.Register("skip", func(_ context.Context, args []string, _ *domain.HintScope) error {
		got = args
		return nil
	})
	p.Register("fail", func(context.Context, []string, *domain.HintScope) error {
		return errors.New("custom failure")
	})

	scope := &domain.HintScope{}
	require.NoError(t, p.ExecuteHint(context.Background(), domain.Hint{Code: `skip("a", 'b')`}, scope))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Len(t, scope.Handled, 1)

	err := p.ExecuteHint(context.Background(), domain.Hint{Code: "fail()"}, scope)
	require.Error(t, err)
	assert.ErrorContains(t, err, "custom failure")
	assert.Len(t, scope.Handled, 1)
}
