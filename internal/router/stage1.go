package router

import (
	"strconv"
	"strings"
)

// classifyKeywords is the stage-1 deterministic classifier. Categories are
// evaluated in a fixed priority order, most specific first, and the first
// match wins. ok=false means "inconclusive", which is not the same as a
// confirmed tool:"none" — stage 2 decides those.
func classifyKeywords(text string) (Classification, bool) {
	norm := normalize(text)

	for _, match := range stage1Matchers {
		if cls, ok := match(norm, text); ok {
			return cls, true
		}
	}
	return Classification{}, false
}

type matcher func(norm, original string) (Classification, bool)

// Order matters: explicit, narrow categories come before broad ones so
// that e.g. "search for opening hours" routes to search, not app control.
var stage1Matchers = []matcher{
	matchTime,
	matchDate,
	matchBattery,
	matchWeather,
	matchCurrentEvents,
	matchExplicitSearch,
	matchVolume,
	matchBrightness,
	matchReminder,
	matchAppControl,
}

func matchTime(norm, _ string) (Classification, bool) {
	if containsAny(norm, "what time", "current time", "tell me the time",
		"whats the time", "what is the time", "time right now", "time is it") {
		return Classification{Tool: "system_info", Action: "time"}, true
	}
	return Classification{}, false
}

func matchDate(norm, _ string) (Classification, bool) {
	if containsAny(norm, "what date", "current date", "what day",
		"todays date", "what is today", "which day") {
		return Classification{Tool: "system_info", Action: "date"}, true
	}
	return Classification{}, false
}

func matchBattery(norm, _ string) (Classification, bool) {
	if containsAny(norm, "battery", "charge level", "power left", "how much charge") {
		return Classification{Tool: "system_info", Action: "battery"}, true
	}
	return Classification{}, false
}

func matchWeather(norm, original string) (Classification, bool) {
	if containsAny(norm, "weather", "temperature", "how hot", "how cold",
		"forecast", "rain today", "humidity") {
		return searchFor(original), true
	}
	return Classification{}, false
}

func matchCurrentEvents(norm, original string) (Classification, bool) {
	if containsAny(norm, "price of", "stock price", "bitcoin", "crypto",
		"score", "who won", "match result", "latest news", "current news",
		"headlines", "trending") {
		return searchFor(original), true
	}
	return Classification{}, false
}

func matchExplicitSearch(norm, original string) (Classification, bool) {
	for _, verb := range []string{"search for ", "search about ", "look up ", "google ", "find out "} {
		if idx := strings.Index(norm, verb); idx >= 0 {
			query := strings.TrimSpace(norm[idx+len(verb):])
			if query == "" {
				query = original
			}
			return Classification{
				Tool:   "web_search",
				Action: "search",
				Params: map[string]any{"query": query},
			}, true
		}
	}
	return Classification{}, false
}

func matchVolume(norm, _ string) (Classification, bool) {
	switch {
	case strings.Contains(norm, "unmute"):
		return Classification{Tool: "app_control", Action: "unmute"}, true
	case strings.Contains(norm, "mute"):
		return Classification{Tool: "app_control", Action: "mute"}, true
	case containsAny(norm, "set volume", "volume to", "turn volume"):
		if level, ok := firstNumber(norm); ok {
			return Classification{
				Tool:   "app_control",
				Action: "volume_set",
				Params: map[string]any{"level": level},
			}, true
		}
		return Classification{}, false
	case containsAny(norm, "volume up", "turn up the volume", "louder"):
		return Classification{Tool: "app_control", Action: "volume_up"}, true
	case containsAny(norm, "volume down", "turn down the volume", "quieter"):
		return Classification{Tool: "app_control", Action: "volume_down"}, true
	}
	return Classification{}, false
}

func matchBrightness(norm, _ string) (Classification, bool) {
	if !strings.Contains(norm, "brightness") {
		return Classification{}, false
	}
	switch {
	case containsAny(norm, "set brightness", "brightness to"):
		if level, ok := firstNumber(norm); ok {
			return Classification{
				Tool:   "app_control",
				Action: "brightness_set",
				Params: map[string]any{"level": level},
			}, true
		}
		return Classification{Tool: "app_control", Action: "brightness_up"}, true
	case containsAny(norm, "brightness up", "brightness to maximum", "brighter"):
		return Classification{Tool: "app_control", Action: "brightness_up"}, true
	case containsAny(norm, "brightness down", "dimmer"):
		return Classification{Tool: "app_control", Action: "brightness_down"}, true
	}
	return Classification{}, false
}

func matchReminder(norm, _ string) (Classification, bool) {
	isTimer := containsAny(norm, "set a timer", "set timer", "timer for", "countdown")
	isReminder := containsAny(norm, "remind me", "set a reminder", "set reminder")
	if !isTimer && !isReminder {
		return Classification{}, false
	}

	minutes, seconds, found := scanDuration(norm)
	if !found {
		// No parseable duration; hand it to stage 2.
		return Classification{}, false
	}

	params := map[string]any{}
	if minutes > 0 {
		params["minutes"] = minutes
	}
	if seconds > 0 {
		params["seconds"] = seconds
	}

	if isReminder {
		if msg := reminderMessage(norm); msg != "" {
			params["message"] = msg
		}
		return Classification{Tool: "reminder", Action: "reminder", Params: params}, true
	}
	return Classification{Tool: "reminder", Action: "timer", Params: params}, true
}

func matchAppControl(norm, _ string) (Classification, bool) {
	// "open whatsapp" is app control; "send a whatsapp message" is not.
	if containsAny(norm, "message", "send a", "text to") {
		return Classification{}, false
	}

	for prefix, action := range map[string]string{
		"open ":   "open_app",
		"launch ": "open_app",
		"close ":  "close_app",
		"quit ":   "close_app",
	} {
		if strings.HasPrefix(norm, prefix) {
			app := strings.TrimSpace(strings.TrimPrefix(norm, prefix))
			app = strings.TrimSuffix(app, " please")
			if app == "" {
				continue
			}
			return Classification{
				Tool:   "app_control",
				Action: action,
				Params: map[string]any{"app": app},
			}, true
		}
	}
	return Classification{}, false
}

func searchFor(query string) Classification {
	return Classification{
		Tool:   "web_search",
		Action: "search",
		Params: map[string]any{"query": strings.TrimSpace(query)},
	}
}

// normalize lowercases and drops punctuation so keyword checks see a
// uniform shape.
func normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '!', '?', ';', ':', '"', '\'':
			return -1
		}
		return r
	}, text)
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// firstNumber scans tokens for the first integer.
func firstNumber(text string) (int, bool) {
	for _, tok := range strings.Fields(text) {
		if n, err := strconv.Atoi(tok); err == nil {
			return n, true
		}
	}
	return 0, false
}

// scanDuration finds "<n> seconds|minutes|hours" token pairs and a couple
// of spoken forms ("a minute", "an hour", "half an hour").
func scanDuration(text string) (minutes, seconds int, found bool) {
	switch {
	case strings.Contains(text, "half an hour"):
		return 30, 0, true
	case strings.Contains(text, "an hour"):
		return 60, 0, true
	case strings.Contains(text, "a minute"):
		return 1, 0, true
	}

	tokens := strings.Fields(text)
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || i+1 >= len(tokens) {
			continue
		}
		switch unit := tokens[i+1]; {
		case strings.HasPrefix(unit, "hour"):
			minutes += n * 60
			found = true
		case strings.HasPrefix(unit, "minute"):
			minutes += n
			found = true
		case strings.HasPrefix(unit, "second"):
			seconds += n
			found = true
		}
	}
	return minutes, seconds, found
}

// reminderMessage pulls the free-text payload out of phrases like
// "remind me in 10 minutes to call mom".
func reminderMessage(norm string) string {
	idx := strings.Index(norm, " to ")
	if idx < 0 {
		return ""
	}
	msg := strings.TrimSpace(norm[idx+4:])

	// "remind me to drink water in 5 minutes": drop the trailing
	// duration phrase from the message.
	if in := strings.LastIndex(msg, " in "); in >= 0 {
		if _, _, ok := scanDuration(msg[in:]); ok {
			msg = strings.TrimSpace(msg[:in])
		}
	}
	return msg
}
