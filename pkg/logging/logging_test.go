package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	metalava "github.com/goliatone/go-metalava"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid json log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestScopeWritesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: DebugLevel, Output: &buf, JSON: true})

	scope := metalava.NewScope(":app", nil, logger.Options()...)
	scope.SetDocumentation(metalava.DocumentationPublic)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected one log line, got %d: %s", len(entries), buf.String())
	}
	if entries[0]["msg"] != "setting assigned" || entries[0]["key"] != "documentation" {
		t.Fatalf("unexpected entry %v", entries[0])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: WarnLevel, Output: &buf, JSON: true})
	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown", "code", 7)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 || entries[0]["msg"] != "shown" {
		t.Fatalf("expected only the error entry, got %v", entries)
	}
}

func TestLogEvaluation(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: DebugLevel, Output: &buf, JSON: true})

	logger.LogEvaluation(metalava.EvaluatorLogEvent{Engine: "expr", Expr: "format == \"v4\"", Scope: ":", Duration: time.Millisecond})
	logger.LogEvaluation(metalava.EvaluatorLogEvent{Engine: "cel", Expr: "bad(", Scope: ":", Err: errors.New("syntax")})

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0]["level"] != "debug" || entries[0]["engine"] != "expr" {
		t.Fatalf("unexpected success entry %v", entries[0])
	}
	if entries[1]["level"] != "warn" || entries[1]["err"] != "syntax" {
		t.Fatalf("unexpected failure entry %v", entries[1])
	}
}
