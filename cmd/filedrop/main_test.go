package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTrace(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunReplay(t *testing.T) {
	path := writeTrace(t, `
name: image-drop
frame: element:frame
acceptType: image/*
steps:
  - {type: dragenter, at: frame}
  - {type: dragover, at: target, items: [{type: image/png}]}
  - {type: drop, at: target, files: [{name: cat.png, type: image/png}]}
`)

	var out bytes.Buffer
	if err := runReplay(&out, path); err != nil {
		t.Fatalf("runReplay: %v", err)
	}
	got := out.String()
	for _, want := range []string{"trace image-drop", "over-frame-accept", "callbacks=drop", "3 steps"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunReplayErrors(t *testing.T) {
	testCases := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.yaml")},
		{"bad step", writeTrace(t, "steps:\n  - {type: dragstart, at: target}\n")},
	}

	for _, tc := range testCases {
		var out bytes.Buffer
		if err := runReplay(&out, tc.path); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
