package ai

import (
	"errors"
	"testing"
)

func TestExtractJSONFromCodeFence(t *testing.T) {
	var payload map[string]int
	if err := ExtractJSON("```json\n{\"a\":1}\n```", &payload); err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if payload["a"] != 1 {
		t.Errorf("payload = %v, want a=1", payload)
	}
}

func TestExtractJSONFromProseWrapper(t *testing.T) {
	text := "好的，这是您需要的数据：\n{\"executiveSummary\": \"综述\"}\n希望对您有帮助。"

	var payload struct {
		ExecutiveSummary string `json:"executiveSummary"`
	}
	if err := ExtractJSON(text, &payload); err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if payload.ExecutiveSummary != "综述" {
		t.Errorf("executiveSummary = %q", payload.ExecutiveSummary)
	}
}

func TestExtractJSONArray(t *testing.T) {
	var items []int
	if err := ExtractJSON("```\n[1,2,3]\n```", &items); err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if len(items) != 3 || items[2] != 3 {
		t.Errorf("items = %v", items)
	}
}

func TestExtractJSONNoBraces(t *testing.T) {
	var payload map[string]any
	err := ExtractJSON("很抱歉，我无法完成这个请求。", &payload)
	if err == nil {
		t.Fatal("expected parse error for brace-free prose")
	}
	if !errors.Is(err, ErrUnparsable) {
		t.Errorf("error = %v, want ErrUnparsable", err)
	}
}

func TestExtractJSONMalformedSpan(t *testing.T) {
	var payload map[string]any
	if err := ExtractJSON("{\"a\": }", &payload); !errors.Is(err, ErrUnparsable) {
		t.Errorf("error = %v, want ErrUnparsable", err)
	}
}
