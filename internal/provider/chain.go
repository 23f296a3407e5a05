package provider

import (
	"context"
	"log/slog"

	"github.com/attune-labs/attune/internal/emotion"
	"github.com/attune-labs/attune/internal/metrics"
)

// fallbackText is returned only if the guaranteed-success tail breaks
// its contract. Callers still get a Resolution, never an error.
const fallbackText = "I'm here with you. Tell me more about what's on your mind."

// Chain tries providers in priority order until one succeeds. The
// constructor order is the priority order; the last provider must be
// always-configured and infallible so Resolve can always answer.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Resolve produces a response for message under the given emotion
// context. Unconfigured providers are skipped without being invoked;
// a failing provider is logged and the next one is tried. Each provider
// is attempted at most once per call. Resolve never returns an error.
func (c *Chain) Resolve(ctx context.Context, message string, v emotion.Vector) Resolution {
	if v.IsZero() {
		v = emotion.Neutral()
	}

	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		metrics.ProviderAttempts.WithLabelValues(p.Name()).Inc()
		text, err := p.Generate(ctx, message, v)
		if err != nil {
			metrics.ProviderFailures.WithLabelValues(p.Name()).Inc()
			c.logger.Warn("provider failed, trying next",
				"provider", p.Name(),
				"error", err,
			)
			continue
		}
		metrics.Resolutions.WithLabelValues(p.Name()).Inc()
		return Resolution{Text: text, Provider: p.Name()}
	}

	// Unreachable when the chain is built with the local tail, but a
	// misconfigured chain still answers with a generic response.
	if len(c.providers) == 0 {
		c.logger.Error("provider chain is empty")
		return Resolution{Text: fallbackText, Provider: "none"}
	}

	tail := c.providers[len(c.providers)-1]
	text, err := tail.Generate(ctx, message, v)
	if err != nil {
		c.logger.Error("guaranteed provider failed, contract violated",
			"provider", tail.Name(),
			"error", err,
		)
		return Resolution{Text: fallbackText, Provider: tail.Name()}
	}
	metrics.Resolutions.WithLabelValues(tail.Name()).Inc()
	return Resolution{Text: text, Provider: tail.Name()}
}

// List returns the name and configuration state of every provider in
// priority order, without invoking any of them.
func (c *Chain) List() []Status {
	out := make([]Status, 0, len(c.providers))
	for _, p := range c.providers {
		out = append(out, Status{Name: p.Name(), Configured: p.Configured()})
	}
	return out
}
