package services

// PromptBuilder merges context, recent draft text, and templates into
// the system/user message pair sent to the completion endpoint.
// Templates come from the user's settings override when one is usable,
// else from the built-in defaults. Substitution is literal: a
// placeholder with no content becomes the empty string, never the
// placeholder text itself.
type PromptBuilder interface {
	// BuildSystemPrompt fills {TOKENS_TO_GENERATE}, {CONTEXT_NOTES} and
	// {DOCUMENTS_CONTEXT} in the continuation system template.
	BuildSystemPrompt(tokenBudget int, contextNotes, documentsContext string) string

	// BuildUserPrompt fills {RECENT_TEXT} in the continuation user
	// template. recentText is the trailing window of the draft, never
	// the full document.
	BuildUserPrompt(recentText string) string

	// ImproveSystemPrompt returns the fixed editing persona used by
	// improve-selection; the user prompt is the selection verbatim.
	ImproveSystemPrompt() string

	// BrainstormPrompts returns the fixed idea-generation persona and
	// the user prompt built from recent text, or a generic prompt when
	// the draft is empty.
	BrainstormPrompts(recentText string) (system, user string)
}
