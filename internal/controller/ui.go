// Package controller provides output adapters for displaying variant build
// results.
package controller

import (
	m "github.com/mouse-blink/remix/internal/model"
)

// UI defines the interface for presenting a finished run to the user.
// Implementations can use different output methods (plain text, styled
// terminal output, etc).
type UI interface {
	// DisplaySummary renders the dispatch counters and the per-module patch
	// results of one run.
	DisplaySummary(outcome m.RunOutcome, patches []m.PatchResult) error
}
