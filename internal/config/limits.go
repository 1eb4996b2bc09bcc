package config

const (
	// MaxProjectTitleLength is the maximum length for project titles.
	// Short, descriptive titles keep project pickers usable.
	MaxProjectTitleLength = 255

	// MaxDocumentTitleLength is the maximum length for document titles.
	MaxDocumentTitleLength = 255

	// MaxGenreLength is the maximum length for a project's genre tag.
	MaxGenreLength = 100

	// ContinueRecentWindow is how many trailing characters of the draft
	// go into a continuation prompt. The recent window, never the full
	// document, bounds request size.
	ContinueRecentWindow = 4000

	// BrainstormRecentWindow is the trailing window for brainstorm
	// prompts; ideas need less anchoring than prose continuation.
	BrainstormRecentWindow = 2000

	// MaxGenerationTokens caps the user-selectable token budget.
	MaxGenerationTokens = 4096

	// SnapshotKey is the single fixed key the encrypted application
	// snapshot is stored under in the local store.
	SnapshotKey = "inkwell.state"
)
