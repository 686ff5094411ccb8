package resolve

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/stratum/pkg/core"
)

// mockPayload is the terminal tier: a statically defined minimal valid
// instance per entity type. List-shaped entities yield an empty list, never
// null; single-entity lookups yield a sentinel marked in its metadata so
// callers can distinguish it from a real empty entity.
func mockPayload(entityType core.EntityType, scopeID string) json.RawMessage {
	switch entityType {
	case core.EntityCategories:
		return json.RawMessage(`{"categories":[]}`)

	case core.EntityQuestionnaire:
		return json.RawMessage(fmt.Sprintf(
			`{"id":%q,"title":"Content unavailable","description":"This questionnaire could not be loaded.","questions":[],"metadata":{"sentinel":true}}`,
			scopeID))

	case core.EntityKnowledge:
		return json.RawMessage(fmt.Sprintf(
			`{"id":%q,"title":"Content unavailable","initial_question":"","paths":{},"context_variables":{"sentinel":"true"}}`,
			scopeID))

	default:
		return json.RawMessage(fmt.Sprintf(`{"id":%q,"content":"","sentinel":true}`, scopeID))
	}
}
