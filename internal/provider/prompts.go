package provider

import (
	"fmt"

	"github.com/attune-labs/attune/internal/emotion"
)

const companionPromptTemplate = `You are Attune, a warm, concise companion.

The user's current emotional reading from facial analysis is %s at %.0f%% intensity.
Acknowledge their state implicitly rather than naming the measurement. Keep your
reply to two or three sentences, conversational and supportive. Never mention
cameras, detectors, or that you were told their emotion.`

// companionSystemPrompt builds the shared system prompt from the
// dominant channel and its intensity. Per-provider request shaping
// stays inside each descriptor; the persona is common.
func companionSystemPrompt(v emotion.Vector) string {
	name, value := emotion.Dominant(v)
	return fmt.Sprintf(companionPromptTemplate, name, value)
}
