package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFrame(t *testing.T) {
	testCases := []struct {
		input   string
		kind    string
		id      string
		wantErr bool
	}{
		{"document", FrameDocument, "", false},
		{"window", FrameWindow, "", false},
		{"element:drop-area", FrameElement, "drop-area", false},
		{"element:", "", "", true},
		{"", "", "", true},
		{"body", "", "", true},
		{"Document", "", "", true},
	}

	for _, tc := range testCases {
		kind, id, err := ParseFrame(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFrame(%q): expected error %v, got %v", tc.input, tc.wantErr, err)
			continue
		}
		if kind != tc.kind || id != tc.id {
			t.Errorf("ParseFrame(%q): expected (%q, %q), got (%q, %q)", tc.input, tc.kind, tc.id, kind, id)
		}
		var cerr *ConfigError
		if tc.wantErr && !errors.As(err, &cerr) {
			t.Errorf("ParseFrame(%q): expected *ConfigError, got %T", tc.input, err)
		}
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		mod   func(c *Config)
		field string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty accept is fine", func(c *Config) { c.Zone.AcceptType = "" }, ""},
		{"bad frame", func(c *Config) { c.Zone.Frame = "body" }, "zone.frame"},
		{"bad effect", func(c *Config) { c.Zone.DropEffect = "teleport" }, "zone.dropEffect"},
		{"negative limit", func(c *Config) { c.Journal.RecentLimit = -1 }, "journal.recentLimit"},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mod(cfg)
		err := cfg.Validate()
		if tc.field == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("%s: expected *ConfigError, got %v", tc.name, err)
			continue
		}
		if cerr.Field != tc.field {
			t.Errorf("%s: expected field %q, got %q", tc.name, tc.field, cerr.Field)
		}
	}
}

func TestManagerLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filedrop", "config.json")
	m := NewManagerAt(path)

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if m.GetZone().DropEffect != "copy" {
		t.Errorf("expected default drop effect copy, got %q", m.GetZone().DropEffect)
	}
}

func TestManagerLoadInvalidKeepsDefaults(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"bad json", `{"zone": `},
		{"bad frame", `{"zone": {"frame": "nowhere"}}`},
	}

	for _, tc := range testCases {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
			t.Fatal(err)
		}
		m := NewManagerAt(path)
		if err := m.Load(); err != nil {
			t.Errorf("%s: Load should not fail, got %v", tc.name, err)
		}
		if m.ParseError() == nil {
			t.Errorf("%s: expected ParseError to be set", tc.name)
		}
		if m.GetZone().Frame != FrameDocument {
			t.Errorf("%s: expected default frame, got %q", tc.name, m.GetZone().Frame)
		}
	}
}

func TestManagerLoadPartialKeepsMissingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"zone": {"frame": "element:main", "acceptType": "image/*", "dropEffect": "move"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManagerAt(path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Get()
	if cfg.Zone.AcceptType != "image/*" || cfg.Zone.DropEffect != "move" || cfg.Zone.Frame != "element:main" {
		t.Errorf("zone not loaded: %+v", cfg.Zone)
	}
	if cfg.Window.Title != "filedrop" {
		t.Errorf("missing window section should keep defaults, got %+v", cfg.Window)
	}
}

func TestManagerSetters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := NewManagerAt(path)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	if err := m.SetDropEffect("bogus"); err == nil {
		t.Error("SetDropEffect(bogus): expected error")
	}
	if err := m.SetDropEffect("link"); err != nil {
		t.Errorf("SetDropEffect(link): %v", err)
	}
	if err := m.SetFrame("element:"); err == nil {
		t.Error("SetFrame(element:): expected error")
	}
	m.SetAcceptType(".pdf")
	m.SetTargetAlwaysVisible(true)

	reloaded := NewManagerAt(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	zone := reloaded.GetZone()
	if zone.DropEffect != "link" || zone.AcceptType != ".pdf" || !zone.TargetAlwaysVisible {
		t.Errorf("setters not persisted: %+v", zone)
	}
}

func TestGenerateConfigBacksUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"zone":{"frame":"window"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	backup, err := generateConfigAt(path)
	if err != nil {
		t.Fatalf("generateConfigAt: %v", err)
	}
	if backup == "" {
		t.Fatal("expected a backup path")
	}
	data, err := os.ReadFile(backup)
	if err != nil || string(data) != `{"zone":{"frame":"window"}}` {
		t.Errorf("backup content wrong: %q, %v", data, err)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	m := NewManagerAt(path)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(m, 20)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	content := `{"zone": {"frame": "window", "acceptType": "text/*", "dropEffect": "copy"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-w.Notify():
		if cfg.Zone.Frame != "window" || cfg.Zone.AcceptType != "text/*" {
			t.Errorf("unexpected reloaded zone: %+v", cfg.Zone)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
