package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"harshagw/dictgrade/internal/config"
	"harshagw/dictgrade/internal/morph"
)

func TestLoadFromReader_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.DataDir != ".dictgrade" || cfg.LogLevel != config.LogInfo || cfg.Workers != 4 || cfg.ClampRatios {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFromReader_Fields(t *testing.T) {
	t.Parallel()
	yaml := `
data_dir: /tmp/grades
log_level: debug
workers: 2
clamp_ratios: true
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/tmp/grades" || cfg.LogLevel != config.LogDebug || cfg.Workers != 2 || !cfg.ClampRatios {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()
	_, err := config.LoadFromReader(strings.NewReader("data_dri: x\n"))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.Contains(err.Error(), "data_dri") {
		t.Errorf("error should mention the field, got: %v", err)
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	t.Parallel()
	yaml := `
data_dir: ""
log_level: verbose
workers: 0
dictionary: /does/not/exist.dict
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{"data_dir", "log_level", "workers", "dictionary"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()
	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("expected %q to be valid", l)
		}
	}
	if config.LogLevel("trace").IsValid() {
		t.Error("expected trace to be invalid")
	}
}

func TestLoad_FileAndDictionary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	b := morph.NewBuilder()
	b.Add("играют", "играть")
	dictPath, err := b.Build(dir, "test")
	if err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "dictgrade.yaml")
	content := "data_dir: " + filepath.Join(dir, "data") + "\ndictionary: " + dictPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	n, closeFn, err := cfg.OpenNormalizer()
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	if lemma, ok := n.Normalize("Играют"); !ok || lemma != "играть" {
		t.Errorf("expected играть, got %q (%v)", lemma, ok)
	}

	pc := cfg.PracticeConfig(n, config.NewLogger(cfg.LogLevel))
	if pc.Dir != cfg.DataDir || pc.Workers != cfg.Workers || pc.Normalizer == nil || pc.Logger == nil {
		t.Errorf("unexpected practice config %+v", pc)
	}
}

func TestOpenNormalizer_None(t *testing.T) {
	t.Parallel()
	n, closeFn, err := config.Default().OpenNormalizer()
	if err != nil {
		t.Fatal(err)
	}
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	if _, ok := n.Normalize("слово"); ok {
		t.Error("expected no normalization without a dictionary")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
