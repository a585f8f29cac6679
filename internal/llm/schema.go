package llm

import "github.com/docpipe/docpipe/constants"

// BuildEntityJSONSchema returns the JSON-Schema (draft 2020-12 subset) for
// the entity-extraction reply, as a generic map. Used locally to validate
// the model's output before it is decoded into an EntityBundle.
func BuildEntityJSONSchema() map[string]any {
	props := map[string]any{
		"persons":       stringListProp(),
		"organizations": stringListProp(),
		"locations":     stringListProp(),
		"dates":         stringListProp(),
		"numbers":       stringListProp(),
		"emails":        stringListProp(),
		"phones":        stringListProp(),
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required": []string{
			"persons", "organizations", "locations", "dates",
			"numbers", "emails", "phones",
		},
	}
}

// BuildClassificationJSONSchema returns the JSON-Schema for the
// classification reply.
func BuildClassificationJSONSchema() map[string]any {
	props := map[string]any{
		"document_type": map[string]any{"type": "string", "minLength": 1},
		"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"key_topics":    stringListProp(),
		"language":      map[string]any{"type": "string"},
		"sentiment": map[string]any{
			"type": "string",
			"enum": []string{"positive", "negative", "neutral"},
		},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"document_type", "confidence", "sentiment"},
	}
}

// SchemaFor returns the reply schema for a task, or nil when the task's
// output has no fixed contract (structuring follows the caller's shape,
// summaries are freeform).
func SchemaFor(kind constants.TaskKind) map[string]any {
	switch kind {
	case constants.TaskEntities:
		return BuildEntityJSONSchema()
	case constants.TaskClassify:
		return BuildClassificationJSONSchema()
	}
	return nil
}

func stringListProp() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}
