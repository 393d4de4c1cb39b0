package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/objective/manifest"
	"github.com/chazu/objective/object"
)

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	content := `
[allocator]
max_slots = 64

[fetch]
timeout = "5s"
`
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Allocator.MaxSlots != 64 {
		t.Errorf("MaxSlots = %d, want 64", cfg.Allocator.MaxSlots)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.UserAgent != manifest.DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.Fetch.UserAgent, manifest.DefaultUserAgent)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(t.TempDir()); err == nil {
		t.Error("expected an error for a directory without objective.toml")
	}
}

// ---------------------------------------------------------------------------
// Command output
// ---------------------------------------------------------------------------

// slotLine returns the fields of the describe output line for slot.
func slotLine(out, slot string) []string {
	for line := range strings.Lines(out) {
		fields := strings.Fields(line)
		if len(fields) == 3 && fields[1] == slot {
			return fields
		}
	}
	return nil
}

func TestDescribeClass(t *testing.T) {
	readyClasses()

	var buf bytes.Buffer
	if err := describeClass(&buf, "MutableString"); err != nil {
		t.Fatalf("describeClass failed: %v", err)
	}
	out := buf.String()

	if first, _, _ := strings.Cut(out, "\n"); first != "MutableString : String : Object" {
		t.Errorf("header = %q, want MutableString : String : Object", first)
	}
	tests := []struct {
		slot, owner string
	}{
		{"init", "Object"},
		{"hasPrefix", "String"},
		{"appendString", "MutableString"},
	}
	for _, tt := range tests {
		fields := slotLine(out, tt.slot)
		if fields == nil {
			t.Errorf("slot %s missing from output:\n%s", tt.slot, out)
			continue
		}
		if fields[2] != tt.owner {
			t.Errorf("slot %s owner = %s, want %s", tt.slot, fields[2], tt.owner)
		}
	}
	if fields := slotLine(out, "init"); fields != nil && fields[0] != "0" {
		t.Errorf("init position = %s, want 0", fields[0])
	}
	for _, ivar := range []string{"chars", "capacity"} {
		if !strings.Contains(out, ivar) {
			t.Errorf("instance variable %s missing from output", ivar)
		}
	}

	if err := describeClass(&buf, "Nope"); err == nil {
		t.Error("expected an error for an unknown class")
	}
}

func TestPrintTree(t *testing.T) {
	readyClasses()

	var buf bytes.Buffer
	printTree(&buf, object.ObjectClass, 0)
	out := buf.String()

	for _, want := range []string{
		"Object (",
		"\n  String (",
		"\n    MutableString (",
		"\n  Lock (",
		"\n    Condition (",
		"\n    URLSessionDataTask (",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
}

func TestArchiveWords(t *testing.T) {
	var buf bytes.Buffer
	if err := archiveWords(&buf, []string{"a", "b"}); err != nil {
		t.Fatalf("archiveWords failed: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], " bytes: ") {
		t.Errorf("encoding line = %q", lines[0])
	}
	if lines[1] != "decoded: (a, b)" {
		t.Errorf("decoded line = %q, want %q", lines[1], "decoded: (a, b)")
	}
	if lines[2] != "equal:   true" {
		t.Errorf("equal line = %q, want %q", lines[2], "equal:   true")
	}
}
