package stratum

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/stratum/pkg/core"
)

// Typed wraps a resolved payload with its provenance.
type Typed[T any] struct {
	Value  T
	Source core.Source
}

// ResolveAs resolves an entity and decodes the payload into T. Resolution
// itself never fails; only a decode mismatch between T and the payload shape
// produces an error.
func ResolveAs[T any](ctx context.Context, e *Engine, entityType EntityType, scopeID string) (Typed[T], error) {
	res := e.Resolve(ctx, entityType, scopeID)

	var value T
	if err := json.Unmarshal(res.Payload, &value); err != nil {
		return Typed[T]{}, fmt.Errorf("decode %s/%s: %w", entityType, scopeID, err)
	}
	return Typed[T]{Value: value, Source: res.Source}, nil
}

// ResolveCategories is the typed shorthand for the categories index.
func ResolveCategories(ctx context.Context, e *Engine) (Typed[core.CategoryIndex], error) {
	return ResolveAs[core.CategoryIndex](ctx, e, Categories, GlobalScope)
}

// ResolveQuestionnaire is the typed shorthand for one questionnaire by its
// id. Every tier, bundled defaults and update prefetch included, addresses
// questionnaires by this bare id.
func ResolveQuestionnaire(ctx context.Context, e *Engine, id string) (Typed[core.Questionnaire], error) {
	return ResolveAs[core.Questionnaire](ctx, e, Questionnaire, id)
}

// ResolveKnowledgeBlock is the typed shorthand for one knowledge block.
func ResolveKnowledgeBlock(ctx context.Context, e *Engine, id string) (Typed[core.KnowledgeBlock], error) {
	return ResolveAs[core.KnowledgeBlock](ctx, e, Knowledge, id)
}
