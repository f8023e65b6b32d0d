// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion wraps the web-grounded generative completion service.
// The pipeline depends only on the Client contract: prompt in, text plus
// grounding citations out. Vendor specifics stay in this package.
package completion

import (
	"context"

	"github.com/meshintel/litradar/pkg/types"
)

// Options controls one completion call.
type Options struct {
	// Grounding enables the web-search tool so the response carries citations.
	Grounding bool
}

// Result is one completion response.
type Result struct {
	// Text is the generated free text.
	Text string

	// Citations lists the grounding sources. Empty when grounding was
	// disabled or failed; callers must treat records from an uncited
	// response as unverifiable.
	Citations []types.Citation
}

// Client submits prompts to a completion service. Implementations handle
// retries internally; a returned error means the budget is exhausted and the
// caller should degrade to zero results rather than abort.
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (Result, error)
}
