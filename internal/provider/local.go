package provider

import (
	"context"

	"github.com/attune-labs/attune/internal/emotion"
)

// Local is the guaranteed-success tail of the chain. It answers from a
// canned response table keyed by dominant channel and intensity band,
// needs no credentials and never fails.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (l *Local) Name() string { return "local" }

func (l *Local) Configured() bool { return true }

var localResponses = map[string][2]string{
	// [0] mild (intensity < 60), [1] strong
	"happy": {
		"You seem to be in good spirits. What's been going well?",
		"That's a big smile! I'd love to hear what's making you this happy.",
	},
	"sad": {
		"You seem a little down. Want to talk about it?",
		"I can tell something's weighing on you. I'm here, take your time.",
	},
	"angry": {
		"Something seems to be bothering you. What happened?",
		"You seem really frustrated. Let it out, I'm listening.",
	},
	"surprised": {
		"You look surprised. Did something unexpected happen?",
		"Whoa, that caught you off guard! Tell me about it.",
	},
	"fearful": {
		"You seem a bit uneasy. Is everything alright?",
		"It looks like something's worrying you. Whatever it is, you're not alone.",
	},
	"disgusted": {
		"Something doesn't sit right with you, does it?",
		"That clearly didn't go down well. What's going on?",
	},
	"neutral": {
		"How are you feeling right now?",
		"I'm here whenever you want to talk.",
	},
}

func (l *Local) Generate(ctx context.Context, message string, v emotion.Vector) (string, error) {
	name, value := emotion.Dominant(v)
	pair, ok := localResponses[name]
	if !ok {
		pair = localResponses["neutral"]
	}
	if value >= 60 {
		return pair[1], nil
	}
	return pair[0], nil
}
