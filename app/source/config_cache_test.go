package source

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

func TestConfigCacheRun(t *testing.T) {
	dir := t.TempDir()

	writeSourceFile(t, dir, "lemauricien.yml", `
name: Le Mauricien
homepage: https://lemauricien.com
feed_url: https://www.lemauricien.com/feed/
priority: 2
enabled: true
`)
	writeSourceFile(t, dir, "defimedia.yml", `
name: Defi Media Group
homepage: defimedia.info/
priority: 1
enabled: true
settings:
  max_candidates: 8
`)
	writeSourceFile(t, dir, "disabled.yml", `
homepage: https://example.com
priority: 3
enabled: false
`)

	cc := NewConfigCache(dir)
	if err := cc.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cc.GetSourceCount() != 3 {
		t.Errorf("Expected 3 sources, got %d", cc.GetSourceCount())
	}

	sources := cc.GetSources()
	if sources[0].Name != "Defi Media Group" {
		t.Errorf("Expected priority order, first source was %s", sources[0].Name)
	}
	if sources[0].Homepage != "https://defimedia.info" {
		t.Errorf("Expected homepage to be normalized, got %s", sources[0].Homepage)
	}
	if sources[0].Settings.MaxCandidates != 8 {
		t.Errorf("Expected max_candidates 8, got %d", sources[0].Settings.MaxCandidates)
	}

	enabled := cc.GetEnabledSources()
	if len(enabled) != 2 {
		t.Errorf("Expected 2 enabled sources, got %d", len(enabled))
	}

	desc, err := cc.GetSource("disabled")
	if err != nil {
		t.Fatalf("Expected to find source by file name, got: %v", err)
	}
	if desc.Name != "disabled" {
		t.Errorf("Expected name to default to file name, got %s", desc.Name)
	}
}

func TestConfigCacheMissingDir(t *testing.T) {
	cc := NewConfigCache("/nonexistent/sources")
	if err := cc.Run(); err != nil {
		t.Errorf("Expected missing directory to be tolerated, got: %v", err)
	}
	if cc.GetSourceCount() != 0 {
		t.Errorf("Expected 0 sources, got %d", cc.GetSourceCount())
	}
}

func TestConfigCacheInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "broken.yml", `
name: Broken
enabled: true
`)

	cc := NewConfigCache(dir)
	if err := cc.Run(); err == nil {
		t.Error("Expected error for config without homepage")
	}
}
