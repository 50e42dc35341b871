// Package tools defines the handler contract the intent router dispatches
// to, plus the built-in handlers (system info, timers and reminders).
// External handlers (app control, web search, messaging) implement the
// same interface and register at startup.
package tools

import (
	"math"
	"strconv"
)

// Handler executes one classified action and returns the sentence to
// speak. Implementations must not panic past the router boundary; the
// router converts any fault into an apology string regardless.
type Handler interface {
	Execute(action string, params map[string]any) (string, error)
}

// ParamInt coerces a parameter to int. JSON numbers decode as float64,
// but an LLM classifier occasionally emits them as quoted strings.
func ParamInt(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// ParamString coerces a parameter to string.
func ParamString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
