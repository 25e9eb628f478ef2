// Package domain contains the core variant build pipeline: recipe
// generation, source dispatch, and binary module patching.
package domain

import (
	"log/slog"
	"math/rand"

	m "github.com/mouse-blink/remix/internal/model"
)

// Designed sampling ranges for the randomized recipe fields. Continuous
// values are drawn uniformly from [min, max); integer values from
// [min, max]. The ranges are fixed so every run stays inside the envelope
// the transform engine is known to handle.
const (
	flatteningMin = 0.3
	flatteningMax = 0.8

	deadCodeMin = 0.2
	deadCodeMax = 0.7

	stringTableMin = 0.4
	stringTableMax = 0.8

	wrappersMin = 1
	wrappersMax = 4

	chunkLengthMin = 2
	chunkLengthMax = 7
)

// NewRecipe samples one ObfuscationRecipe from the designed ranges. The
// random source is injected so tests can pin the sampling; production
// callers seed it per process. A recipe is generated exactly once per run
// and shared read-only by every script transform in that run.
func NewRecipe(r *rand.Rand) m.ObfuscationRecipe {
	encoding := m.EncodingCipher
	if r.Intn(2) == 1 {
		encoding = m.EncodingBase64
	}

	wrapperType := m.WrapperVariable
	if r.Intn(2) == 1 {
		wrapperType = m.WrapperFunction
	}

	wrappers := intBetween(r, wrappersMin, wrappersMax)

	recipe := m.ObfuscationRecipe{
		ControlFlowFlattening:          true,
		ControlFlowFlatteningThreshold: floatBetween(r, flatteningMin, flatteningMax),
		DeadCodeInjection:              true,
		DeadCodeInjectionThreshold:     floatBetween(r, deadCodeMin, deadCodeMax),
		StringArray:                    true,
		StringArrayEncoding:            encoding,
		StringArrayThreshold:           floatBetween(r, stringTableMin, stringTableMax),
		StringArrayWrappersCount:       wrappers,
		StringArrayWrappersType:        wrapperType,
		StringArrayWrappersChained:     wrappers > 1,
		StringArrayRotate:              true,
		StringArrayShuffle:             true,
		StringArrayIndexShift:          true,
		SplitStrings:                   true,
		SplitStringsChunkLength:        intBetween(r, chunkLengthMin, chunkLengthMax),
		UnicodeEscapeSequence:          true,
		IdentifierNamesGenerator:       m.IdentifierScheme,
		NumbersToExpressions:           true,
		SelfDefending:                  true,
		TransformObjectKeys:            true,
	}

	slog.Debug("sampled recipe",
		"encoding", recipe.StringArrayEncoding,
		"wrappers", recipe.StringArrayWrappersCount,
		"wrapperType", recipe.StringArrayWrappersType,
	)

	return recipe
}

func floatBetween(r *rand.Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

func intBetween(r *rand.Rand, min, max int) int {
	return min + r.Intn(max-min+1)
}
