package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
)

// Seed loads a small demo dataset so every console screen has something to
// show. It is a no-op when the database already contains agents.
func (s *Store) Seed(ctx context.Context) error {
	existing, err := s.count(ctx, "agents", nil)
	if err != nil {
		return err
	}
	if existing > 0 {
		slog.Info("mock store already seeded, skipping")
		return nil
	}

	models := []domain.AIModel{
		{Provider: "openai", ModelName: "gpt-4o", IsEnabled: true},
		{Provider: "anthropic", ModelName: "claude-sonnet", IsEnabled: true},
		{Provider: "ollama", ModelName: "llama3", BaseURL: "http://localhost:11434", IsEnabled: false},
	}
	modelIDs := make([]int64, 0, len(models))
	for i := range models {
		stored, err := s.CreateModel(ctx, &models[i])
		if err != nil {
			return fmt.Errorf("seed models: %w", err)
		}
		modelIDs = append(modelIDs, stored.ID)
	}
	isDefault := true
	if _, err := s.UpdateModel(ctx, modelIDs[0], ModelPatch{IsDefault: &isDefault}); err != nil {
		return fmt.Errorf("seed default model: %w", err)
	}

	tools := []domain.MCPTool{
		{Name: "web-search", Category: "search", Type: "http", IsActive: true, Permissions: []string{"network"}},
		{Name: "file-reader", Category: "filesystem", Type: "stdio", IsActive: true, Permissions: []string{"read"}},
		{Name: "code-runner", Category: "execution", Type: "stdio", IsActive: false, Permissions: []string{"read", "write", "exec"}},
	}
	toolIDs := make([]int64, 0, len(tools))
	for i := range tools {
		stored, err := s.CreateTool(ctx, &tools[i])
		if err != nil {
			return fmt.Errorf("seed tools: %w", err)
		}
		toolIDs = append(toolIDs, stored.ID)
	}

	kbs := []domain.KnowledgeBase{
		{Name: "Product docs", EmbeddingModel: "text-embedding-3-small"},
		{Name: "Support tickets", EmbeddingModel: "text-embedding-3-small"},
	}
	kbIDs := make([]int64, 0, len(kbs))
	for i := range kbs {
		stored, err := s.CreateKnowledgeBase(ctx, &kbs[i])
		if err != nil {
			return fmt.Errorf("seed knowledge bases: %w", err)
		}
		kbIDs = append(kbIDs, stored.ID)
	}

	agents := []domain.Agent{
		{
			Name:           "Support triage",
			Prompt:         "You triage incoming support requests.",
			AIModelID:      &modelIDs[0],
			Temperature:    0.3,
			Tools:          domain.IDList{toolIDs[0], toolIDs[1]},
			KnowledgeBases: domain.IDList{kbIDs[1]},
			IsActive:       true,
		},
		{
			Name:        "Docs writer",
			Prompt:      "You draft product documentation.",
			AIModelID:   &modelIDs[1],
			Temperature: 0.7,
			Tools:       domain.IDList{toolIDs[1]},
			IsActive:    true,
		},
	}
	for i := range agents {
		if _, err := s.CreateAgent(ctx, &agents[i]); err != nil {
			return fmt.Errorf("seed agents: %w", err)
		}
	}

	// One row keeps its reference lists as JSON-encoded strings, the shape
	// older backend rows still have in production dumps.
	legacy, err := s.CreateAgent(ctx, &domain.Agent{
		Name:        "Legacy crawler",
		Prompt:      "You crawl and summarize web pages.",
		AIModelID:   &modelIDs[0],
		Temperature: 0.5,
		IsActive:    false,
	})
	if err != nil {
		return fmt.Errorf("seed legacy agent: %w", err)
	}
	legacyTools := fmt.Sprintf("\"[%d]\"", toolIDs[0])
	if err := s.SetAgentReferencesRaw(ctx, legacy.ID, legacyTools, `"[]"`); err != nil {
		return fmt.Errorf("seed legacy references: %w", err)
	}

	now := time.Now().UTC()
	assets := []domain.Asset{
		{Name: "ThinkPad X1", CategoryID: 1, DepartmentID: 1, Location: "Floor 2", Price: 1899, PurchaseDate: ptr(now.AddDate(-1, -2, 0))},
		{Name: "Dell U2723 monitor", CategoryID: 1, DepartmentID: 1, Location: "Floor 2", Price: 520, PurchaseDate: ptr(now.AddDate(0, -8, 0))},
		{Name: "Standing desk", CategoryID: 2, DepartmentID: 2, Location: "Floor 3", Price: 430, PurchaseDate: ptr(now.AddDate(-2, 0, 0))},
		{Name: "Conference camera", CategoryID: 3, DepartmentID: 2, Location: "Meeting room A", Price: 780, PurchaseDate: ptr(now.AddDate(0, -3, 0))},
		{Name: "Label printer", CategoryID: 3, DepartmentID: 3, Location: "Warehouse", Price: 210, Status: domain.AssetStatusMaintenance, PurchaseDate: ptr(now.AddDate(-3, -6, 0))},
	}
	assetIDs := make([]int64, 0, len(assets))
	for i := range assets {
		stored, err := s.CreateAsset(ctx, &assets[i])
		if err != nil {
			return fmt.Errorf("seed assets: %w", err)
		}
		assetIDs = append(assetIDs, stored.ID)
	}

	dueSoon := now.AddDate(0, 0, 14)
	if _, err := s.CreateBorrow(ctx, &domain.BorrowRecord{
		AssetID:    assetIDs[0],
		Borrower:   "Alex Chen",
		Department: "Engineering",
		DueAt:      &dueSoon,
		Remark:     "On-call laptop",
	}); err != nil {
		return fmt.Errorf("seed borrows: %w", err)
	}
	overdueSince := now.AddDate(0, 0, -3)
	if _, err := s.CreateBorrow(ctx, &domain.BorrowRecord{
		AssetID:    assetIDs[3],
		Borrower:   "Sam Rivera",
		Department: "Sales",
		BorrowedAt: now.AddDate(0, 0, -10),
		DueAt:      &overdueSince,
	}); err != nil {
		return fmt.Errorf("seed overdue borrow: %w", err)
	}

	task, err := s.CreateInventoryTask(ctx, "Q3 stock take")
	if err != nil {
		return fmt.Errorf("seed inventory task: %w", err)
	}
	if _, err := s.StartInventoryTask(ctx, task.ID); err != nil {
		return fmt.Errorf("seed inventory start: %w", err)
	}
	results := []domain.InventoryResult{
		domain.InventoryResultNormal,
		domain.InventoryResultNormal,
		domain.InventoryResultDamaged,
	}
	for i, result := range results {
		if _, err := s.SubmitInventoryRecord(ctx, &domain.InventoryRecord{
			TaskID:  task.ID,
			AssetID: assetIDs[i],
			Result:  result,
		}); err != nil {
			return fmt.Errorf("seed inventory records: %w", err)
		}
	}

	slog.Info("mock store seeded",
		"agents", len(agents)+1,
		"models", len(models),
		"tools", len(tools),
		"assets", len(assets),
	)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
