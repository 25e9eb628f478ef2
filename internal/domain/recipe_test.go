package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/remix/internal/model"
)

func TestNewRecipe_FieldsWithinDesignedRanges(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		recipe := NewRecipe(r)

		assert.GreaterOrEqual(t, recipe.ControlFlowFlatteningThreshold, 0.3)
		assert.Less(t, recipe.ControlFlowFlatteningThreshold, 0.8)
		assert.GreaterOrEqual(t, recipe.DeadCodeInjectionThreshold, 0.2)
		assert.Less(t, recipe.DeadCodeInjectionThreshold, 0.7)
		assert.GreaterOrEqual(t, recipe.StringArrayThreshold, 0.4)
		assert.Less(t, recipe.StringArrayThreshold, 0.8)
		assert.GreaterOrEqual(t, recipe.StringArrayWrappersCount, 1)
		assert.LessOrEqual(t, recipe.StringArrayWrappersCount, 4)
		assert.GreaterOrEqual(t, recipe.SplitStringsChunkLength, 2)
		assert.LessOrEqual(t, recipe.SplitStringsChunkLength, 7)
	}
}

func TestNewRecipe_FixedFieldsAlwaysEnabled(t *testing.T) {
	r := rand.New(rand.NewSource(2))

	recipe := NewRecipe(r)

	assert.True(t, recipe.ControlFlowFlattening)
	assert.True(t, recipe.DeadCodeInjection)
	assert.True(t, recipe.StringArray)
	assert.True(t, recipe.StringArrayRotate)
	assert.True(t, recipe.StringArrayShuffle)
	assert.True(t, recipe.StringArrayIndexShift)
	assert.True(t, recipe.SplitStrings)
	assert.True(t, recipe.UnicodeEscapeSequence)
	assert.True(t, recipe.NumbersToExpressions)
	assert.True(t, recipe.SelfDefending)
	assert.True(t, recipe.TransformObjectKeys)
	assert.Equal(t, m.IdentifierScheme, recipe.IdentifierNamesGenerator)
}

func TestNewRecipe_WrappersChainedOnlyAboveOne(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	sawSingle := false
	sawChained := false

	for i := 0; i < 200; i++ {
		recipe := NewRecipe(r)

		if recipe.StringArrayWrappersCount == 1 {
			assert.False(t, recipe.StringArrayWrappersChained)

			sawSingle = true
		} else {
			assert.True(t, recipe.StringArrayWrappersChained)

			sawChained = true
		}
	}

	require.True(t, sawSingle, "expected at least one single-wrapper recipe")
	require.True(t, sawChained, "expected at least one chained-wrapper recipe")
}

// Repeated sampling must exercise the full designed envelope: the flattening
// threshold has to cover [0.3, 0.8] and both encodings have to show up with
// non-trivial frequency.
func TestNewRecipe_StatisticalRangeCoverage(t *testing.T) {
	r := rand.New(rand.NewSource(4))

	const samples = 2000

	lowest := 1.0
	highest := 0.0
	encodings := map[m.StringEncoding]int{}
	wrapperTypes := map[m.WrapperType]int{}
	wrapperCounts := map[int]int{}
	chunkLengths := map[int]int{}

	for i := 0; i < samples; i++ {
		recipe := NewRecipe(r)

		if recipe.ControlFlowFlatteningThreshold < lowest {
			lowest = recipe.ControlFlowFlatteningThreshold
		}

		if recipe.ControlFlowFlatteningThreshold > highest {
			highest = recipe.ControlFlowFlatteningThreshold
		}

		encodings[recipe.StringArrayEncoding]++
		wrapperTypes[recipe.StringArrayWrappersType]++
		wrapperCounts[recipe.StringArrayWrappersCount]++
		chunkLengths[recipe.SplitStringsChunkLength]++
	}

	assert.Less(t, lowest, 0.35, "flattening threshold never approached lower bound")
	assert.Greater(t, highest, 0.75, "flattening threshold never approached upper bound")

	// With 2000 uniform samples each binary choice should land well above
	// a few hundred hits.
	assert.Greater(t, encodings[m.EncodingCipher], 200)
	assert.Greater(t, encodings[m.EncodingBase64], 200)
	assert.Greater(t, wrapperTypes[m.WrapperVariable], 200)
	assert.Greater(t, wrapperTypes[m.WrapperFunction], 200)

	for count := 1; count <= 4; count++ {
		assert.Greater(t, wrapperCounts[count], 0, "wrapper count %d never sampled", count)
	}

	for length := 2; length <= 7; length++ {
		assert.Greater(t, chunkLengths[length], 0, "chunk length %d never sampled", length)
	}
}

func TestNewRecipe_DeterministicForSeededSource(t *testing.T) {
	first := NewRecipe(rand.New(rand.NewSource(42)))
	second := NewRecipe(rand.New(rand.NewSource(42)))

	assert.Equal(t, first, second)
}
