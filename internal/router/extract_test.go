package router

import "testing"

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Classification
		ok   bool
	}{
		{
			name: "plain object",
			raw:  `{"tool": "system_info", "action": "time"}`,
			want: Classification{Tool: "system_info", Action: "time"},
			ok:   true,
		},
		{
			name: "trailing prose",
			raw:  `{"tool": "none"} I classified this as conversation because...`,
			want: Classification{Tool: "none"},
			ok:   true,
		},
		{
			name: "leading prose",
			raw:  `Sure! Here is the classification: {"tool": "reminder", "action": "timer", "params": {"minutes": 5}}`,
			want: Classification{Tool: "reminder", Action: "timer"},
			ok:   true,
		},
		{
			name: "markdown fences",
			raw:  "```json\n{\"tool\": \"web_search\", \"action\": \"search\"}\n```",
			want: Classification{Tool: "web_search", Action: "search"},
			ok:   true,
		},
		{
			name: "nested params object",
			raw:  `{"tool": "whatsapp", "action": "send", "params": {"contact": "Mom", "message": "hi"}}`,
			want: Classification{Tool: "whatsapp", Action: "send"},
			ok:   true,
		},
		{
			name: "truncated braces",
			raw:  `{"tool": "system_info", "action": "ti`,
			want: Classification{Tool: "none"},
			ok:   false,
		},
		{
			name: "no opening brace",
			raw:  `tool none`,
			want: Classification{Tool: "none"},
			ok:   false,
		},
		{
			name: "non-json garbage in braces",
			raw:  `{this is not json}`,
			want: Classification{Tool: "none"},
			ok:   false,
		},
		{
			name: "empty string",
			raw:  "",
			want: Classification{Tool: "none"},
			ok:   false,
		},
		{
			name: "empty object defaults to none",
			raw:  `{}`,
			want: Classification{Tool: "none"},
			ok:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractObject(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok = %v, expected %v", ok, tc.ok)
			}
			if got.Tool != tc.want.Tool || got.Action != tc.want.Action {
				t.Errorf("got {%s %s}, expected {%s %s}",
					got.Tool, got.Action, tc.want.Tool, tc.want.Action)
			}
		})
	}
}

func TestExtractObjectNestedParams(t *testing.T) {
	cls, ok := ExtractObject(`{"tool": "reminder", "action": "reminder", "params": {"minutes": 10, "message": "call Mom"}} done`)
	if !ok {
		t.Fatal("expected successful extraction")
	}
	if m, _ := cls.Params["minutes"].(float64); m != 10 {
		t.Errorf("expected minutes 10, got %v", cls.Params["minutes"])
	}
	if msg, _ := cls.Params["message"].(string); msg != "call Mom" {
		t.Errorf("expected message %q, got %v", "call Mom", cls.Params["message"])
	}
}
