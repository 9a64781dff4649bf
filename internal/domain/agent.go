package domain

import "time"

// Agent represents an AI agent configuration owned by the backend. Tools,
// knowledge bases and the model are referenced by id only; those targets can
// be deleted independently, so references may dangle.
type Agent struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Prompt         string    `json:"prompt"`
	AIModelID      *int64    `json:"ai_model_id"`
	Temperature    float64   `json:"temperature"`
	Tools          IDList    `json:"tools"`
	KnowledgeBases IDList    `json:"knowledge_bases"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// References reports whether the agent references the given entity id through
// the field named by kind ("ai_model", "tool" or "knowledge_base").
func (a *Agent) References(kind ReferenceKind, id int64) bool {
	switch kind {
	case ReferenceModel:
		return a.AIModelID != nil && *a.AIModelID == id
	case ReferenceTool:
		return a.Tools.Contains(id)
	case ReferenceKnowledgeBase:
		return a.KnowledgeBases.Contains(id)
	default:
		return false
	}
}

// ReferenceKind names an agent field that holds ids of other entities.
type ReferenceKind string

const (
	ReferenceModel         ReferenceKind = "ai_model"
	ReferenceTool          ReferenceKind = "tool"
	ReferenceKnowledgeBase ReferenceKind = "knowledge_base"
)
