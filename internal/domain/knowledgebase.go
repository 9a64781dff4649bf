package domain

import "time"

// KnowledgeBase represents a document collection agents can retrieve from.
type KnowledgeBase struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	EmbeddingModel string    `json:"embedding_model"`
	DocumentsCount int       `json:"documents_count"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
