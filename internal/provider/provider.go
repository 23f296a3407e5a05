package provider

import (
	"context"

	"github.com/attune-labs/attune/internal/emotion"
)

// Provider is one response-generating service in the failover chain.
type Provider interface {
	// Name identifies the provider in resolutions and status listings.
	Name() string
	// Configured reports whether the provider has the credentials it
	// needs. Unconfigured providers are skipped, not errored.
	Configured() bool
	// Generate produces a response to the user's message, colored by
	// the current emotion vector. Each provider derives its own prompt
	// from the vector's dominant channel.
	Generate(ctx context.Context, message string, v emotion.Vector) (string, error)
}

// Resolution is the outcome of a chain resolution: the response text
// and the name of the provider that produced it.
type Resolution struct {
	Text     string `json:"response"`
	Provider string `json:"provider"`
}

// Status is one entry of a side-effect-free chain listing.
type Status struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}
