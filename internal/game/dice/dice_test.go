package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/deckbattle/internal/game/dice"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestParse_Forms(t *testing.T) {
	cases := map[string]dice.Expression{
		"d6":    {Raw: "d6", Count: 1, Sides: 6},
		"2d6":   {Raw: "2d6", Count: 2, Sides: 6},
		"1d5+7": {Raw: "1d5+7", Count: 1, Sides: 5, Modifier: 7},
		"3d4-1": {Raw: "3d4-1", Count: 3, Sides: 4, Modifier: -1},
	}
	for in, want := range cases {
		got, err := dice.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "6", "0d6", "xd6", "2dx", "2d6+x"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestRoll_StaysInRange(t *testing.T) {
	expr := dice.MustParse("1d5+7")
	assert.Equal(t, 8, expr.Min())
	assert.Equal(t, 12, expr.Max())
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		total := dice.Roll(expr, dice.NewSeededSource(seed)).Total()
		assert.GreaterOrEqual(rt, total, 8)
		assert.LessOrEqual(rt, total, 12)
	})
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	assert.Panics(t, func() { src.Intn(0) })
}

func TestChance_Bounds(t *testing.T) {
	assert.False(t, dice.Chance(fixedSrc{val: 0}, 0))
	assert.True(t, dice.Chance(fixedSrc{val: 99}, 100))
	assert.True(t, dice.Chance(fixedSrc{val: 49}, 50))
	assert.False(t, dice.Chance(fixedSrc{val: 50}, 50))
}

func TestProbability_Bounds(t *testing.T) {
	assert.False(t, dice.Probability(fixedSrc{val: 0}, 0))
	assert.True(t, dice.Probability(fixedSrc{val: 999}, 1))
	assert.True(t, dice.Probability(fixedSrc{val: 249}, 0.25))
	assert.False(t, dice.Probability(fixedSrc{val: 250}, 0.25))
}

func TestRoller_IsSource(t *testing.T) {
	var src dice.Source = dice.NewLoggedRoller(fixedSrc{val: 3}, zap.NewNop())
	assert.Equal(t, 3, src.Intn(10))
}
