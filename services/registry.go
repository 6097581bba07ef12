package services

import (
	"context"
	"sync"
	"time"

	"operator/models"
)

// fetchedModels is the constant catalog the mock "fetch" returns. Nothing
// is ever requested from the configured API URL.
var fetchedModels = []models.Model{
	{
		ID:          "yescale/llama-3-8b-instruct",
		Name:        "Llama 3 8B Instruct",
		Description: "Meta's Llama 3 8B Instruct model",
	},
	{
		ID:          "yescale/llama-3-70b-instruct",
		Name:        "Llama 3 70B Instruct",
		Description: "Meta's Llama 3 70B Instruct model",
	},
	{
		ID:          "yescale/mistral-7b-instruct",
		Name:        "Mistral 7B Instruct",
		Description: "Mistral AI's 7B Instruct model",
	},
	{
		ID:          "yescale/mixtral-8x7b-instruct",
		Name:        "Mixtral 8x7B Instruct",
		Description: "Mistral AI's Mixtral 8x7B Instruct model",
	},
}

// ModelRegistry holds the fetched model pool. The pool is in-memory only:
// it starts empty and is filled by Refresh, mirroring the original's
// non-persisted fetch results.
type ModelRegistry struct {
	mu      sync.RWMutex
	fetched []models.Model
	delay   time.Duration
}

func NewModelRegistry(delay time.Duration) *ModelRegistry {
	return &ModelRegistry{delay: delay}
}

// Refresh simulates fetching the provider's model list.
func (mr *ModelRegistry) Refresh(ctx context.Context) ([]models.Model, error) {
	if mr.delay > 0 {
		timer := time.NewTimer(mr.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	models := make([]models.Model, len(fetchedModels))
	copy(models, fetchedModels)

	mr.mu.Lock()
	mr.fetched = models
	mr.mu.Unlock()

	return models, nil
}

// Fetched returns the current in-memory pool (empty before first Refresh).
func (mr *ModelRegistry) Fetched() []models.Model {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	out := make([]models.Model, len(mr.fetched))
	copy(out, mr.fetched)
	return out
}
