package models

// GenerationKind identifies which drafting action a completion request
// serves. The four kinds share one client contract and differ only in
// prompt content and where the result lands.
type GenerationKind string

const (
	KindContinueEnd    GenerationKind = "continue_end"
	KindContinueCursor GenerationKind = "continue_cursor"
	KindImprove        GenerationKind = "improve"
	KindBrainstorm     GenerationKind = "brainstorm"
)

// Valid returns true for a known generation kind.
func (k GenerationKind) Valid() bool {
	switch k {
	case KindContinueEnd, KindContinueCursor, KindImprove, KindBrainstorm:
		return true
	}
	return false
}

// GenerationResult carries a completed generation back to the caller.
// RequestID and DocumentID tag the request so a response arriving for a
// document that is no longer active is discarded instead of being
// written into whatever happens to be open.
type GenerationResult struct {
	RequestID  string         `json:"request_id"`
	DocumentID string         `json:"document_id"`
	Kind       GenerationKind `json:"kind"`
	Text       string         `json:"text"`
	Offset     int            `json:"offset"` // splice position for cursor continuation
	Stale      bool           `json:"stale"`  // target moved on before the response returned
}

// ContextEntry is one enabled document's contribution to the assembled
// AI context, in project order.
type ContextEntry struct {
	Type      DocumentType `json:"type"`
	Title     string       `json:"title"`
	PlainText string       `json:"plain_text"`
}
