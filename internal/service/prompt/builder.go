// Package prompt merges context, recent draft text and templates into
// the system/user message pair for a generation call.
package prompt

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

//go:embed templates/*.yaml
var templateFiles embed.FS

// Placeholders substituted literally into templates. A placeholder with
// no content becomes the empty string, never the placeholder text.
const (
	placeholderTokens    = "{TOKENS_TO_GENERATE}"
	placeholderNotes     = "{CONTEXT_NOTES}"
	placeholderDocuments = "{DOCUMENTS_CONTEXT}"
	placeholderRecent    = "{RECENT_TEXT}"
)

// defaults mirrors templates/defaults.yaml.
type defaults struct {
	Continuation struct {
		System string `yaml:"system"`
		User   string `yaml:"user"`
	} `yaml:"continuation"`
	Improve struct {
		System string `yaml:"system"`
	} `yaml:"improve"`
	Brainstorm struct {
		System      string `yaml:"system"`
		User        string `yaml:"user"`
		GenericUser string `yaml:"generic_user"`
	} `yaml:"brainstorm"`
}

// Builder implements services.PromptBuilder. The settings provider is
// consulted on every build so a template override saved mid-session
// takes effect immediately.
type Builder struct {
	defaults defaults
	settings func() *models.Settings
}

// NewBuilder loads the embedded default templates.
func NewBuilder(settings func() *models.Settings) (*Builder, error) {
	data, err := templateFiles.ReadFile("templates/defaults.yaml")
	if err != nil {
		return nil, fmt.Errorf("read default templates: %w", err)
	}

	var d defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse default templates: %w", err)
	}

	return &Builder{
		defaults: d,
		settings: settings,
	}, nil
}

var _ services.PromptBuilder = (*Builder)(nil)

// continuationTemplates returns the user override when usable, else the
// built-in pair. The usability rule (both halves non-empty after
// trimming) is enforced when settings are saved; this re-check only
// guards against stale persisted state.
func (b *Builder) continuationTemplates() (system, user string) {
	if s := b.settings(); s != nil && s.Templates.Usable() {
		return s.Templates.System, s.Templates.User
	}
	return b.defaults.Continuation.System, b.defaults.Continuation.User
}

// BuildSystemPrompt fills the continuation system template.
func (b *Builder) BuildSystemPrompt(tokenBudget int, contextNotes, documentsContext string) string {
	system, _ := b.continuationTemplates()
	return strings.NewReplacer(
		placeholderTokens, strconv.Itoa(tokenBudget),
		placeholderNotes, contextNotes,
		placeholderDocuments, documentsContext,
	).Replace(system)
}

// BuildUserPrompt fills the continuation user template with the
// trailing window of the draft.
func (b *Builder) BuildUserPrompt(recentText string) string {
	_, user := b.continuationTemplates()
	return strings.ReplaceAll(user, placeholderRecent, recentText)
}

// ImproveSystemPrompt returns the fixed editing persona.
func (b *Builder) ImproveSystemPrompt() string {
	return b.defaults.Improve.System
}

// BrainstormPrompts returns the fixed idea persona plus a user prompt
// built from recent text, or the generic prompt for an empty draft.
func (b *Builder) BrainstormPrompts(recentText string) (system, user string) {
	system = b.defaults.Brainstorm.System
	if strings.TrimSpace(recentText) == "" {
		return system, b.defaults.Brainstorm.GenericUser
	}
	return system, strings.ReplaceAll(b.defaults.Brainstorm.User, placeholderRecent, recentText)
}
