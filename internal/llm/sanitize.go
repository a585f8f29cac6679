package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var entityListKeys = []string{
	"persons", "organizations", "locations", "dates", "numbers", "emails", "phones",
}

// SanitizeEntityFields normalizes an entity reply that missed the schema so
// the document can still validate. Scalars are wrapped into lists, list
// elements are coerced to strings, missing lists become empty, and unknown
// keys are removed.
func SanitizeEntityFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize entities: decode: %w", err)
	}

	var changed []string
	out := make(map[string]any, len(entityListKeys))
	for _, k := range entityListKeys {
		v, ok := m[k]
		if !ok || v == nil {
			out[k] = []string{}
			changed = append(changed, k+"(missing)")
			continue
		}
		switch t := v.(type) {
		case []any:
			list := make([]string, 0, len(t))
			coerced := false
			for _, e := range t {
				s, wasString := e.(string)
				if !wasString {
					s = coerceToString(e)
					coerced = true
				}
				if s = strings.TrimSpace(s); s != "" {
					list = append(list, s)
				}
			}
			if coerced {
				changed = append(changed, k+"(coerced)")
			}
			out[k] = list
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out[k] = []string{s}
			} else {
				out[k] = []string{}
			}
			changed = append(changed, k+"(scalar)")
		default:
			out[k] = []string{coerceToString(t)}
			changed = append(changed, k+"(type)")
		}
	}
	for k := range m {
		if _, ok := out[k]; !ok {
			changed = append(changed, k+"(unknown)")
		}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, changed, fmt.Errorf("sanitize entities: encode: %w", err)
	}
	return b, changed, nil
}

// SanitizeClassificationFields repairs the common offenders in a
// classification reply: confidence given as a string or out of range,
// sentiment with stray casing or an off-enum label, key_topics as a scalar,
// and keys outside the schema.
func SanitizeClassificationFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize classification: decode: %w", err)
	}

	var changed []string

	// confidence: accept "0.85" and clamp to [0,1]
	switch t := m["confidence"].(type) {
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			m["confidence"] = clamp01(f)
			changed = append(changed, "confidence(string)")
		} else {
			m["confidence"] = 0.0
			changed = append(changed, "confidence(unparseable)")
		}
	case float64:
		if c := clamp01(t); c != t {
			m["confidence"] = c
			changed = append(changed, "confidence(range)")
		}
	case nil:
		m["confidence"] = 0.0
		changed = append(changed, "confidence(missing)")
	}

	// sentiment: normalize casing; off-enum labels degrade to neutral
	if v, ok := m["sentiment"].(string); ok {
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "positive", "negative", "neutral":
		default:
			s = "neutral"
			changed = append(changed, "sentiment(off-enum)")
		}
		if s != v {
			m["sentiment"] = s
		}
	} else {
		m["sentiment"] = "neutral"
		changed = append(changed, "sentiment(missing)")
	}

	// key_topics: scalar -> single-element list; coerce elements
	switch t := m["key_topics"].(type) {
	case string:
		m["key_topics"] = []string{strings.TrimSpace(t)}
		changed = append(changed, "key_topics(scalar)")
	case []any:
		list := make([]string, 0, len(t))
		for _, e := range t {
			if s := strings.TrimSpace(coerceToString(e)); s != "" {
				list = append(list, s)
			}
		}
		m["key_topics"] = list
	case nil:
		m["key_topics"] = []string{}
		changed = append(changed, "key_topics(missing)")
	}

	// trim the plain strings; drop empty optionals
	for _, k := range []string{"document_type", "language"} {
		if v, ok := m[k].(string); ok {
			s := strings.TrimSpace(v)
			if s == "" {
				delete(m, k)
				changed = append(changed, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	// remove unknown keys (schema is additionalProperties=false)
	allowed := map[string]struct{}{
		"document_type": {}, "confidence": {}, "key_topics": {},
		"language": {}, "sentiment": {},
	}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			changed = append(changed, k+"(unknown)")
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, changed, fmt.Errorf("sanitize classification: encode: %w", err)
	}
	return b, changed, nil
}

func coerceToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
