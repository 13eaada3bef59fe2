package capabilities

import "gopkg.in/yaml.v3"

// ModelRole is what the service uses a model for
type ModelRole string

const (
	ModelRoleDefault ModelRole = "default" // text-only generation
	ModelRolePro     ModelRole = "pro"     // generation with media attached
	ModelRoleSpeech  ModelRole = "speech"  // text-to-speech
)

// ModelCapabilities represents all metadata for a specific model
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	// Display information
	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	Role ModelRole `yaml:"role" json:"role"`

	// Core capabilities
	SupportsVision    bool `yaml:"supports_vision" json:"supports_vision"`
	SupportsAudioOut  bool `yaml:"supports_audio_out" json:"supports_audio_out"`
	SupportsStreaming bool `yaml:"supports_streaming" json:"supports_streaming"`

	// Limits
	ContextWindow int `yaml:"context_window" json:"context_window"`
	MaxOutput     int `yaml:"max_output" json:"max_output"`

	// Voices lists prebuilt voice names for speech models
	Voices []string `yaml:"voices,omitempty" json:"voices,omitempty"`
}

// ProviderCapabilities represents all models for a provider
type ProviderCapabilities struct {
	Provider string              `yaml:"provider" json:"provider"`
	Models   []ModelCapabilities `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML implements custom YAML unmarshaling to preserve model order from YAML file
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "provider" {
			p.Provider = node.Content[i+1].Value
			break
		}
	}

	// Decode models into a map first to get the full data
	type modelsOnly struct {
		Models map[string]ModelCapabilities `yaml:"models"`
	}
	var m modelsOnly
	if err := node.Decode(&m); err != nil {
		return err
	}

	// modelsNode.Content alternates: key, value, key, value...
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		modelsNode := node.Content[i+1]
		for j := 0; j+1 < len(modelsNode.Content); j += 2 {
			modelID := modelsNode.Content[j].Value
			if model, ok := m.Models[modelID]; ok {
				model.ID = modelID
				p.Models = append(p.Models, model)
			}
		}
		break
	}

	return nil
}
