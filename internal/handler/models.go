package handler

import (
	"log/slog"
	"net/http"
	"sort"

	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// ModelsHandler handles model catalog HTTP requests
type ModelsHandler struct {
	client  services.CompletionClient
	session services.SessionService
	logger  *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(client services.CompletionClient, session services.SessionService, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		client:  client,
		session: session,
		logger:  logger,
	}
}

// ListModels returns the available models with the user's favorites
// flagged and sorted first
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	list, err := h.client.ListModels(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	favorites := h.session.Settings().FavoriteModels
	for i := range list {
		list[i].Favorite = favorites[list[i].ID]
	}

	// Favorites first, then free models, then alphabetical.
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Favorite != list[j].Favorite {
			return list[i].Favorite
		}
		if list[i].Free != list[j].Free {
			return list[i].Free
		}
		return list[i].Name < list[j].Name
	})

	httputil.RespondJSON(w, http.StatusOK, list)
}
