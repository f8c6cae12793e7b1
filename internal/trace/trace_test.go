package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSessionWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	s := NewSession(path)

	s.Emit(Event{Timestamp: time.Unix(100, 0).UTC(), Kind: "call", Name: "calculate_tip", Depth: 1, File: "tips.building", Line: 4, Column: 5})
	s.Emit(Event{Timestamp: time.Unix(101, 0).UTC(), Kind: "return", Name: "calculate_tip", Depth: 1})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d:\n%s", len(lines), data)
	}

	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if first.Kind != "call" || first.Name != "calculate_tip" || first.Line != 4 {
		t.Errorf("event round trip wrong: %+v", first)
	}

	var second Event
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 1 is not JSON: %v", err)
	}
	if second.Kind != "return" {
		t.Errorf("second event wrong: %+v", second)
	}
	if second.File != "" || second.Line != 0 {
		t.Errorf("omitempty fields must stay empty: %+v", second)
	}
}
