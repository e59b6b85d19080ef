package ui

import (
	"testing"

	"github.com/justyntemme/filedrop/internal/dnd"
)

func TestNewSource(t *testing.T) {
	testCases := []struct {
		name       string
		typ        string
		effect     string
		wantType   string
		wantEffect string
	}{
		{"photo.png", "", "", "image/png", dnd.EffectAll},
		{"notes.txt", "", "", "text/plain", dnd.EffectAll},
		{"blob", "application/octet-stream", "", "application/octet-stream", dnd.EffectAll},
		{"selection", "text/plain", dnd.EffectCopyMove, "text/plain", dnd.EffectCopyMove},
	}

	for _, tc := range testCases {
		s := NewSource(tc.name, tc.typ, 1, tc.effect)
		if s.Type != tc.wantType {
			t.Errorf("%s: type expected %q, got %q", tc.name, tc.wantType, s.Type)
		}
		if s.EffectAllowed != tc.wantEffect {
			t.Errorf("%s: effect expected %q, got %q", tc.name, tc.wantEffect, s.EffectAllowed)
		}
		f := s.File()
		if f.Name != tc.name || f.Path != s.Path || f.Size != 1 {
			t.Errorf("%s: unexpected file %+v", tc.name, f)
		}
	}
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()
	seen := make(map[string]bool)
	for _, s := range sources {
		if seen[s.Path] {
			t.Errorf("duplicate source path %q", s.Path)
		}
		seen[s.Path] = true
	}
	last := sources[len(sources)-1]
	if dnd.IsFileDrag(last.EffectAllowed) {
		t.Errorf("selection source should not look like a file drag")
	}
}
