package handler

import (
	"log/slog"
	"net/http"

	"synapse/internal/capabilities"
	"synapse/internal/domain/models/chat"
	"synapse/internal/httputil"
)

// ModelsHandler serves the model catalog and the mode/language options
type ModelsHandler struct {
	registry *capabilities.Registry
	provider string // active generation backend
	logger   *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(registry *capabilities.Registry, provider string, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		registry: registry,
		provider: provider,
		logger:   logger,
	}
}

// ProviderResponse represents a provider with its models
type ProviderResponse struct {
	ID     string          `json:"id"`
	Active bool            `json:"active"`
	Models []ModelResponse `json:"models"`
}

// ModelResponse represents a model's capabilities for the API response
type ModelResponse struct {
	ID            string           `json:"id"`
	DisplayName   string           `json:"display_name"`
	Description   string           `json:"description,omitempty"`
	Role          string           `json:"role"`
	ContextWindow int              `json:"context_window,omitempty"`
	Capabilities  CapabilitiesInfo `json:"capabilities"`
	Voices        []string         `json:"voices,omitempty"`
}

// CapabilitiesInfo represents model capabilities
type CapabilitiesInfo struct {
	ImageInput  bool `json:"image_input"`
	AudioOutput bool `json:"audio_output"`
	Streaming   bool `json:"streaming"`
}

// OptionsResponse lists the selectable modes and languages
type OptionsResponse struct {
	Modes           []chat.Option `json:"modes"`
	Languages       []chat.Option `json:"languages"`
	DefaultMode     chat.Mode     `json:"default_mode"`
	DefaultLanguage chat.Language `json:"default_language"`
}

// GetCapabilities returns model capabilities for every known provider
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	providers := make([]ProviderResponse, 0, len(capabilities.Providers))
	for _, id := range capabilities.Providers {
		models, err := h.registry.ListProviderModels(id)
		if err != nil {
			h.logger.Warn("provider missing from capability registry", "provider", id, "error", err)
			continue
		}
		providers = append(providers, convertProvider(id, id == h.provider, models))
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
	})
}

// GetOptions returns the modes and languages with display labels
// GET /api/options
func (h *ModelsHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, OptionsResponse{
		Modes:           chat.Modes(),
		Languages:       chat.Languages(),
		DefaultMode:     chat.DefaultMode,
		DefaultLanguage: chat.DefaultLanguage,
	})
}

// convertProvider keeps the registry's YAML order
func convertProvider(id string, active bool, models []capabilities.ModelCapabilities) ProviderResponse {
	out := make([]ModelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, ModelResponse{
			ID:            m.ID,
			DisplayName:   m.DisplayName,
			Description:   m.Description,
			Role:          string(m.Role),
			ContextWindow: m.ContextWindow,
			Capabilities: CapabilitiesInfo{
				ImageInput:  m.SupportsVision,
				AudioOutput: m.SupportsAudioOut,
				Streaming:   m.SupportsStreaming,
			},
			Voices: m.Voices,
		})
	}
	return ProviderResponse{ID: id, Active: active, Models: out}
}
