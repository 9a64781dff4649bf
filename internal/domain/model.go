package domain

import "time"

// AIModel represents a configured LLM provider/model pair.
//
// At most one model carries IsDefault=true. That invariant is enforced by the
// backend when a default is set; the console mirrors it optimistically by
// clearing the flag on all other cached models.
type AIModel struct {
	ID        int64     `json:"id"`
	Provider  string    `json:"provider"`
	ModelName string    `json:"model_name"`
	APIKey    string    `json:"api_key,omitempty"`
	BaseURL   string    `json:"base_url,omitempty"`
	IsEnabled bool      `json:"is_enabled"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns "provider/model_name" for listings.
func (m *AIModel) DisplayName() string {
	if m.Provider == "" {
		return m.ModelName
	}
	return m.Provider + "/" + m.ModelName
}
