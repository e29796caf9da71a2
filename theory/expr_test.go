package theory

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_RationalRoundTrip(t *testing.T) {
	val, err := Evaluate("9 + 1/3")
	require.NoError(t, err)

	ticks := RoundTicks(val, 480)
	assert.Equal(t, int64(4480), ticks)
}

func TestEvaluate_ArithmeticGrammar(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want *big.Rat
	}{
		{"integer", "4", big.NewRat(4, 1)},
		{"decimal", "1.5", big.NewRat(3, 2)},
		{"addition", "1 + 2", big.NewRat(3, 1)},
		{"precedence", "2 + 3 * 4", big.NewRat(14, 1)},
		{"parens", "(2 + 3) * 4", big.NewRat(20, 1)},
		{"division", "1/3", big.NewRat(1, 3)},
		{"unary minus", "-2 + 5", big.NewRat(3, 1)},
		{"nested unary", "4 - -2", big.NewRat(6, 1)},
		{"whitespace", "  1   +    1  ", big.NewRat(2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, 0, tt.want.Cmp(got), "expected %v got %v", tt.want, got)
		})
	}
}

func TestEvaluate_MalformedExpressions(t *testing.T) {
	tests := []string{
		"",
		"1 +",
		"(1 + 2",
		"1 / 0",
		"1 2",
		"abc",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Evaluate(expr)
			assert.Error(t, err)
		})
	}
}

func TestEvaluate_NumericTypes(t *testing.T) {
	v, err := Evaluate(3)
	require.NoError(t, err)
	assert.Equal(t, "3", v.RatString())

	v, err = Evaluate(int64(7))
	require.NoError(t, err)
	assert.Equal(t, "7", v.RatString())

	v, err = Evaluate(1.25)
	require.NoError(t, err)
	assert.Equal(t, "5/4", v.RatString())
}

func TestRoundTicks(t *testing.T) {
	assert.Equal(t, int64(960), RoundTicks(big.NewRat(2, 1), 480))
	assert.Equal(t, int64(240), RoundTicks(big.NewRat(1, 2), 480))
	// 0.5 ticks rounds away from zero
	assert.Equal(t, int64(1), RoundTicks(big.NewRat(1, 2), 1))
}
