package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"scenebridge/internal/config"
	"scenebridge/internal/scene/memory"
	"scenebridge/internal/store"
)

func TestNewLogger(t *testing.T) {
	t.Run("json at debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&buf, config.LogConfig{Level: "debug", Format: "json"}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Debug("hello", "request_id", "r1")
		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("expected json output, got %q", buf.String())
		}
		if line["request_id"] != "r1" {
			t.Fatalf("unexpected log line: %v", line)
		}
	})

	t.Run("override raises level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"}, "error")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Warn("dropped")
		if buf.Len() != 0 {
			t.Fatalf("expected warn to be filtered, got %q", buf.String())
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		if _, err := newLogger(&bytes.Buffer{}, config.LogConfig{Level: "chatty"}, ""); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := newLogger(&bytes.Buffer{}, config.LogConfig{Format: "xml"}, ""); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestParseValue(t *testing.T) {
	if v := parseValue("hello"); v != "hello" {
		t.Fatalf("expected bare string, got %v", v)
	}
	if v := parseValue(`"#FF0000"`); v != "#FF0000" {
		t.Fatalf("expected json string, got %v", v)
	}
	if v := parseValue("42"); v != 42.0 {
		t.Fatalf("expected number, got %v", v)
	}
	m, ok := parseValue(`{"width":150}`).(map[string]any)
	if !ok || m["width"] != 150.0 {
		t.Fatalf("expected object, got %v", m)
	}
}

func TestOpenJournal(t *testing.T) {
	ctx := context.Background()

	s, err := openJournal(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(store.Nop); !ok {
		t.Fatalf("expected Nop journal, got %T", s)
	}

	s, err = openJournal(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close(ctx)
	if err := s.RecordMutation(ctx, store.MutationRecord{RequestID: "r1", Node: "n", ComponentType: "c", Property: "p"}); err != nil {
		t.Fatalf("recording: %v", err)
	}

	if _, err := openJournal(ctx, "mysql://localhost/db"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported scheme error, got %v", err)
	}
}

func TestSampleFixtureLoads(t *testing.T) {
	var f memory.Fixture
	if err := json.Unmarshal([]byte(sampleFixture), &f); err != nil {
		t.Fatalf("sample fixture is not valid json: %v", err)
	}
	s, err := memory.FromFixture(f)
	if err != nil {
		t.Fatalf("sample fixture rejected: %v", err)
	}
	if got := len(s.NodeIDs()); got != 2 {
		t.Fatalf("expected 2 nodes, got %d", got)
	}
}
