package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/persistence"
	"inkwell/internal/service/assembly"
	"inkwell/internal/service/prompt"
	"inkwell/internal/store"
)

// memoryKV keeps controller tests off the filesystem.
type memoryKV struct {
	data map[string][]byte
}

func (m *memoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memoryKV) Put(ctx context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memoryKV) Close() error { return nil }

// mockClient lets a test hook into the network boundary.
type mockClient struct {
	completeFn func(ctx context.Context, req *services.CompletionRequest) (string, error)
	lastReq    *services.CompletionRequest
}

func (m *mockClient) Complete(ctx context.Context, req *services.CompletionRequest) (string, error) {
	m.lastReq = req
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return "generated text", nil
}

func (m *mockClient) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	return nil, nil
}

func newTestController(t *testing.T) (*Controller, *store.Store, *mockClient) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	st := store.New()
	gateway := persistence.NewGateway(&memoryKV{data: make(map[string][]byte)}, "test", logger)

	ctrl := NewController(st, gateway, models.DefaultSettings(), "default/model", logger)

	builder, err := prompt.NewBuilder(ctrl.Settings)
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	client := &mockClient{}
	ctrl.Wire(assembly.New(st, logger), builder, client)
	return ctrl, st, client
}

func seedWorkspace(t *testing.T, st *store.Store) {
	t.Helper()
	st.PutProject(&models.Project{ID: "p1", Title: "Novel"})
	st.PutProject(&models.Project{ID: "p2", Title: "Other"})
	docs := []models.Document{
		{ID: "style", ProjectID: "p1", Title: "Voice", Type: models.TypeWritingStyle, Content: "<p>Terse.</p>", Enabled: true, Order: 0},
		{ID: "draft", ProjectID: "p1", Title: "Chapter 1", Type: models.TypeChapter, Content: "<p>The map was wrong.</p>", Enabled: true, Order: 1},
		{ID: "other", ProjectID: "p2", Title: "Elsewhere", Type: models.TypeChapter, Content: "<p>Different book.</p>", Enabled: true, Order: 0},
	}
	for i := range docs {
		st.PutDocument(&docs[i])
	}
}

func TestOpenDocument_AlsoOpensItsProject(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenProject(ctx, "p2"); err != nil {
		t.Fatalf("OpenProject failed: %v", err)
	}

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	projectID, documentID := ctrl.State()
	if projectID != "p1" || documentID != "draft" {
		t.Errorf("expected state (p1, draft), got (%s, %s)", projectID, documentID)
	}
}

func TestOpenProject_ClosesForeignActiveDocument(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	if _, err := ctrl.OpenProject(ctx, "p2"); err != nil {
		t.Fatalf("OpenProject failed: %v", err)
	}

	projectID, documentID := ctrl.State()
	if projectID != "p2" {
		t.Errorf("expected current project p2, got %s", projectID)
	}
	if documentID != "" {
		t.Errorf("expected active document cleared, got %s", documentID)
	}
}

func TestOpenProject_Missing(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	_, err := ctrl.OpenProject(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRestoreLastOpened(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)

	settings := ctrl.settings
	settings.LastProjectID = "p1"
	settings.LastDocumentID = "draft"

	ctrl.RestoreLastOpened()
	projectID, documentID := ctrl.State()
	if projectID != "p1" || documentID != "draft" {
		t.Errorf("expected restored state (p1, draft), got (%s, %s)", projectID, documentID)
	}
}

func TestRestoreLastOpened_SkipsVanishedRecords(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)

	ctrl.settings.LastProjectID = "p1"
	ctrl.settings.LastDocumentID = "deleted-doc"

	ctrl.RestoreLastOpened()
	projectID, documentID := ctrl.State()
	if projectID != "p1" {
		t.Errorf("expected project restored, got %s", projectID)
	}
	if documentID != "" {
		t.Errorf("expected vanished document skipped, got %s", documentID)
	}
}

func TestGenerate_ContinuePromptContents(t *testing.T) {
	ctrl, st, client := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	result, err := ctrl.Generate(ctx, &services.GenerateRequest{
		Kind:         models.KindContinueEnd,
		ContextNotes: "Keep it grim.",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.Stale {
		t.Error("result should not be stale")
	}
	if result.Text != "generated text" {
		t.Errorf("expected completion text passed through, got %q", result.Text)
	}
	if result.DocumentID != "draft" {
		t.Errorf("result tagged with wrong document: %s", result.DocumentID)
	}
	if result.RequestID == "" {
		t.Error("expected a request ID")
	}

	// The enabled sibling document is in the system prompt; the draft
	// itself is not duplicated there.
	if !strings.Contains(client.lastReq.System, "[Writing Style: Voice]") {
		t.Errorf("expected context document in system prompt, got %q", client.lastReq.System)
	}
	if strings.Contains(client.lastReq.System, "The map was wrong.") {
		t.Error("active draft must be excluded from its own context")
	}
	if !strings.Contains(client.lastReq.System, "Keep it grim.") {
		t.Error("expected context notes in system prompt")
	}
	if !strings.Contains(client.lastReq.User, "The map was wrong.") {
		t.Errorf("expected recent draft text in user prompt, got %q", client.lastReq.User)
	}
}

func TestGenerate_ContinueVariantsSendIdenticalRequests(t *testing.T) {
	ctrl, st, client := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	if _, err := ctrl.Generate(ctx, &services.GenerateRequest{Kind: models.KindContinueEnd}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	fromEnd := *client.lastReq

	result, err := ctrl.Generate(ctx, &services.GenerateRequest{Kind: models.KindContinueCursor, CursorOffset: 12})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	fromCursor := *client.lastReq

	if fromEnd.System != fromCursor.System || fromEnd.User != fromCursor.User {
		t.Error("continue-from-end and continue-from-cursor must send the same prompts")
	}
	if result.Offset != 12 {
		t.Errorf("expected cursor offset carried on the result, got %d", result.Offset)
	}
}

func TestGenerate_ImproveSendsSelectionVerbatim(t *testing.T) {
	ctrl, st, client := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	selection := "The map was wrong, and she knew it."
	if _, err := ctrl.Generate(ctx, &services.GenerateRequest{
		Kind:      models.KindImprove,
		Selection: selection,
	}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if client.lastReq.User != selection {
		t.Errorf("improve must send the selection verbatim, got %q", client.lastReq.User)
	}
	if strings.Contains(client.lastReq.System, "[Writing Style") {
		t.Error("improve must not carry assembled context")
	}
}

func TestGenerate_ImproveRequiresSelection(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	_, err := ctrl.Generate(ctx, &services.GenerateRequest{Kind: models.KindImprove, Selection: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestGenerate_RequiresOpenDocument(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)

	_, err := ctrl.Generate(context.Background(), &services.GenerateRequest{Kind: models.KindContinueEnd})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestGenerate_UnknownKind(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	_, err := ctrl.Generate(context.Background(), &services.GenerateRequest{Kind: "summarize"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestGenerate_StaleWhenDocumentSwitchedMidFlight(t *testing.T) {
	ctrl, st, client := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	// switch documents while the request is in flight
	client.completeFn = func(ctx context.Context, req *services.CompletionRequest) (string, error) {
		if _, err := ctrl.OpenDocument(ctx, "other"); err != nil {
			t.Fatalf("mid-flight OpenDocument failed: %v", err)
		}
		return "late text", nil
	}

	result, err := ctrl.Generate(ctx, &services.GenerateRequest{Kind: models.KindContinueEnd})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !result.Stale {
		t.Fatal("expected stale result after document switch")
	}
	if result.Text != "" {
		t.Errorf("stale result must carry no text, got %q", result.Text)
	}
	if result.DocumentID != "draft" {
		t.Errorf("result keeps its original target, got %s", result.DocumentID)
	}
}

func TestGenerate_StaleWhenDocumentDeletedMidFlight(t *testing.T) {
	ctrl, st, client := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	client.completeFn = func(ctx context.Context, req *services.CompletionRequest) (string, error) {
		st.DeleteDocument("draft")
		ctrl.DocumentDeleted("draft")
		return "late text", nil
	}

	result, err := ctrl.Generate(ctx, &services.GenerateRequest{Kind: models.KindContinueEnd})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !result.Stale || result.Text != "" {
		t.Errorf("expected discarded stale result, got stale=%v text=%q", result.Stale, result.Text)
	}
}

func TestGenerate_SuccessRemembersModelParameters(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	temp := 0.3
	maxTokens := 750
	if _, err := ctrl.Generate(ctx, &services.GenerateRequest{
		Kind:        models.KindContinueEnd,
		Model:       "vendor/model-x",
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	s := ctrl.Settings()
	if s.LastModel != "vendor/model-x" {
		t.Errorf("expected model remembered, got %q", s.LastModel)
	}
	if s.LastTemperature != 0.3 || s.LastMaxTokens != 750 {
		t.Errorf("expected parameters remembered, got temp=%v tokens=%d", s.LastTemperature, s.LastMaxTokens)
	}

	// next request without an explicit model reuses the remembered one
	client := ctrl.client.(*mockClient)
	if _, err := ctrl.Generate(ctx, &services.GenerateRequest{Kind: models.KindContinueEnd}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if client.lastReq.Model != "vendor/model-x" {
		t.Errorf("expected remembered model reused, got %q", client.lastReq.Model)
	}
}

func TestGenerate_ErrorLeavesSettingsUntouched(t *testing.T) {
	ctrl, st, client := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	client.completeFn = func(ctx context.Context, req *services.CompletionRequest) (string, error) {
		return "", &domain.NetworkError{Message: "connection refused"}
	}

	_, err := ctrl.Generate(ctx, &services.GenerateRequest{Kind: models.KindContinueEnd, Model: "vendor/broken"})
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected network error passed through, got %v", err)
	}

	if ctrl.Settings().LastModel == "vendor/broken" {
		t.Error("failed generation must not be remembered as last model")
	}
}

func TestUpdateSettings_RejectsPartialTemplateOverride(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	_, err := ctrl.UpdateSettings(context.Background(), &services.UpdateSettingsRequest{
		Templates: &models.TemplateOverride{System: "only system", User: "  "},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateSettings_AppliesPartialUpdate(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	ctx := context.Background()

	theme := "light"
	fontSize := 18
	updated, err := ctrl.UpdateSettings(ctx, &services.UpdateSettingsRequest{
		Theme:          &theme,
		FontSize:       &fontSize,
		FavoriteModels: []string{"vendor/a", "vendor/b"},
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	if updated.Theme != "light" || updated.FontSize != 18 {
		t.Errorf("expected updated theme and font size, got %q %d", updated.Theme, updated.FontSize)
	}
	if !updated.FavoriteModels["vendor/a"] || !updated.FavoriteModels["vendor/b"] {
		t.Errorf("expected favorites replaced, got %v", updated.FavoriteModels)
	}

	// untouched fields keep their values
	if updated.LastMaxTokens != models.DefaultSettings().LastMaxTokens {
		t.Errorf("unrelated setting changed: %d", updated.LastMaxTokens)
	}
}

func TestUpdateSettings_ClearTemplates(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	ctx := context.Background()

	if _, err := ctrl.UpdateSettings(ctx, &services.UpdateSettingsRequest{
		Templates: &models.TemplateOverride{System: "s", User: "u"},
	}); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	updated, err := ctrl.UpdateSettings(ctx, &services.UpdateSettingsRequest{ClearTemplates: true})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if updated.Templates != nil {
		t.Error("expected templates cleared")
	}
}

func TestSettings_ReturnsIsolatedCopy(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	s := ctrl.Settings()
	s.Theme = "mangled"
	s.FavoriteModels["x"] = true

	if ctrl.Settings().Theme == "mangled" {
		t.Error("mutating the returned settings must not affect the controller")
	}
	if ctrl.Settings().FavoriteModels["x"] {
		t.Error("favorites map must be copied")
	}
}

func TestPersist_RoundTripsThroughGateway(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if err := ctrl.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	snap, err := ctrl.gateway.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a persisted snapshot")
	}
	if len(snap.Projects) != 2 || len(snap.Documents) != 3 {
		t.Errorf("expected full state persisted, got %d projects %d documents", len(snap.Projects), len(snap.Documents))
	}
}

func TestImportBackup_ReplacesStateAndPersists(t *testing.T) {
	ctrl, st, _ := newTestController(t)
	seedWorkspace(t, st)
	ctx := context.Background()

	if _, err := ctrl.OpenDocument(ctx, "draft"); err != nil {
		t.Fatalf("OpenDocument failed: %v", err)
	}

	backup := []byte(`{
		"projects": [{"id": "np", "title": "Imported"}],
		"documents": [{"id": "nd", "project_id": "np", "title": "Loose", "type": "notes", "enabled": true}],
		"settings": {"theme": "light", "font_size": 14, "autosave_interval": 2000000000}
	}`)

	if err := ctrl.ImportBackup(ctx, backup); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}

	if st.GetProject("p1") != nil {
		t.Error("previous state must be replaced")
	}
	if st.GetProject("np") == nil {
		t.Error("imported project missing")
	}
	if ctrl.Settings().Theme != "light" {
		t.Errorf("imported settings not applied, theme=%q", ctrl.Settings().Theme)
	}

	// documents list after import repairs the missing order
	docs := st.Documents("np")
	if len(docs) != 1 || docs[0].Order != 0 {
		t.Errorf("expected repaired order 0, got %+v", docs)
	}

	// imported state survives a reload
	snap, err := ctrl.gateway.Load(ctx)
	if err != nil || snap == nil {
		t.Fatalf("expected persisted snapshot after import, err=%v", err)
	}
	if len(snap.Projects) != 1 || snap.Projects[0].ID != "np" {
		t.Errorf("persisted snapshot does not match import: %+v", snap.Projects)
	}
}
