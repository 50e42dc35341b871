package router

import (
	"encoding/json"
	"strings"
)

// ExtractObject digs the first balanced JSON object out of raw LLM output
// and unmarshals it into a Classification. Models routinely wrap the
// object in markdown fences or append prose after it; this tolerates both.
// Anything unparseable yields {Tool: "none"} and ok=false — malformed
// classifier output is a conversation fallback, never an error.
func ExtractObject(raw string) (Classification, bool) {
	none := Classification{Tool: "none"}

	raw = stripFences(raw)

	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return none, false
	}
	raw = raw[start:]

	// Walk forward counting brace depth; each time a candidate object
	// closes, try to parse it. Handles nested params objects and
	// trailing garbage after the valid JSON.
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				var cls Classification
				if err := json.Unmarshal([]byte(raw[:i+1]), &cls); err != nil {
					continue
				}
				if cls.Tool == "" {
					cls.Tool = "none"
				}
				return cls, true
			}
		}
	}

	return none, false
}

// stripFences removes a markdown code fence around the payload if present.
func stripFences(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}
	parts := strings.Split(raw, "```")
	if len(parts) < 2 {
		return raw
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}
