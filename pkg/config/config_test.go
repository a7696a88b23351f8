package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Workflow != "" {
		t.Errorf("Workflow should be empty, got %q", cfg.Workflow)
	}
	if cfg.LogLevel != "" {
		t.Errorf("LogLevel should be empty, got %q", cfg.LogLevel)
	}
	if cfg.IncludeAllAuthors(false) {
		t.Error("IncludeAllAuthors(false) should be false without config")
	}
}

func writeProjectConfig(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, ConfigDir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_ValidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeProjectConfig(t, tmpDir, `
workflow: "deploy-experimental.yml"
log_level: "debug"
log_format: "json"
authors: "all"
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Workflow != "deploy-experimental.yml" {
		t.Errorf("Workflow = %q, want %q", cfg.Workflow, "deploy-experimental.yml")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if !cfg.IncludeAllAuthors(false) {
		t.Error("IncludeAllAuthors(false) should be true with authors: all")
	}
}

func TestLoad_SearchParentDirectories(t *testing.T) {
	// tmpDir/
	//   .expdeploy/config.yaml
	//   subdir/nested/
	tmpDir := t.TempDir()
	writeProjectConfig(t, tmpDir, "workflow: \"4242\"\n")

	nested := filepath.Join(tmpDir, "subdir", "nested")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Workflow != "4242" {
		t.Errorf("Workflow = %q, want %q", cfg.Workflow, "4242")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeProjectConfig(t, tmpDir, "workflow: [unterminated\n")

	if _, err := Load(tmpDir); err == nil {
		t.Fatal("Load() should fail on invalid YAML")
	}
}

func TestLoad_InvalidAuthors(t *testing.T) {
	tmpDir := t.TempDir()
	writeProjectConfig(t, tmpDir, "authors: everyone\n")

	if _, err := Load(tmpDir); err == nil {
		t.Fatal("Load() should reject an unknown authors value")
	}
}

func TestResolveString(t *testing.T) {
	cfg := &ProjectConfig{}

	tests := []struct {
		name         string
		cli          string
		env          string
		config       string
		defaultValue string
		want         string
		wantSource   string
	}{
		{"cli wins", "a", "b", "c", "d", "a", SourceCLI},
		{"env over config", "", "b", "c", "d", "b", SourceEnv},
		{"config over default", "", "", "c", "d", "c", SourceConfig},
		{"default", "", "", "", "d", "d", SourceDefault},
		{"empty default", "", "", "", "", "", SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source := cfg.ResolveString(tt.cli, tt.env, tt.config, tt.defaultValue)
			if got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
			if source != tt.wantSource {
				t.Errorf("source = %q, want %q", source, tt.wantSource)
			}
		})
	}
}

func TestResolveWorkflow(t *testing.T) {
	cfg := &ProjectConfig{Workflow: "deploy.yml"}

	if got, src := cfg.ResolveWorkflow("", ""); got != "deploy.yml" || src != SourceConfig {
		t.Errorf("ResolveWorkflow() = (%q, %q), want config value", got, src)
	}
	if got, src := cfg.ResolveWorkflow("", "4242"); got != "4242" || src != SourceEnv {
		t.Errorf("ResolveWorkflow() = (%q, %q), want env value", got, src)
	}
	if got, src := cfg.ResolveWorkflow("77", "4242"); got != "77" || src != SourceCLI {
		t.Errorf("ResolveWorkflow() = (%q, %q), want cli value", got, src)
	}

	empty := &ProjectConfig{}
	if got, _ := empty.ResolveWorkflow("", ""); got != "" {
		t.Errorf("ResolveWorkflow() = %q, want empty for interactive selection", got)
	}
}

func TestResolveLogSettings(t *testing.T) {
	cfg := &ProjectConfig{LogLevel: "info", LogFormat: "json"}

	if got, src := cfg.ResolveLogLevel("", "", "warn"); got != "info" || src != SourceConfig {
		t.Errorf("ResolveLogLevel() = (%q, %q)", got, src)
	}
	if got, src := cfg.ResolveLogLevel("debug", "", "warn"); got != "debug" || src != SourceCLI {
		t.Errorf("ResolveLogLevel() = (%q, %q)", got, src)
	}
	if got, src := cfg.ResolveLogFormat("", "console", "console"); got != "console" || src != SourceEnv {
		t.Errorf("ResolveLogFormat() = (%q, %q)", got, src)
	}
}

func TestIncludeAllAuthors(t *testing.T) {
	mine := &ProjectConfig{Authors: AuthorsMine}
	if mine.IncludeAllAuthors(false) {
		t.Error("authors: mine should not include all authors")
	}
	if !mine.IncludeAllAuthors(true) {
		t.Error("--all-authors should widen the list")
	}
}
