package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig tests that NewConfig returns a Config with expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default TagName is contenido", func(t *testing.T) {
		t.Parallel()
		if cfg.TagName != "contenido" {
			t.Errorf("expected %q, got %q", "contenido", cfg.TagName)
		}
	})

	t.Run("default ElementName is webformData", func(t *testing.T) {
		t.Parallel()
		if cfg.ElementName != "webformData" {
			t.Errorf("expected %q, got %q", "webformData", cfg.ElementName)
		}
	})

	t.Run("default Format is xml and Printer is tree", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != FormatXML || cfg.Printer != PrinterTree {
			t.Errorf("expected xml/tree, got %s/%s", cfg.Format, cfg.Printer)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != DefaultBatchSize {
			t.Errorf("expected %d, got %d", DefaultBatchSize, cfg.BatchSize)
		}
	})

	t.Run("history is off and stored under the data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveHistory {
			t.Error("expected SaveHistory to be false")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"json format is valid", func(c *Config) { c.Format = FormatJSON }, nil},
		{"markdown format is valid", func(c *Config) { c.Format = FormatMarkdown }, nil},
		{"pretty format with token printer is valid", func(c *Config) {
			c.Format = FormatPretty
			c.Printer = PrinterToken
		}, nil},
		{"html alone is valid", func(c *Config) { c.HTML = true }, nil},
		{"color alone is valid", func(c *Config) { c.Color = true }, nil},
		{"empty tag returns ErrEmptyTagName", func(c *Config) { c.TagName = "" }, ErrEmptyTagName},
		{"empty element returns ErrEmptyElementName", func(c *Config) { c.ElementName = "" }, ErrEmptyElementName},
		{"unknown format returns ErrInvalidFormat", func(c *Config) { c.Format = "yaml" }, ErrInvalidFormat},
		{"empty format returns ErrInvalidFormat", func(c *Config) { c.Format = "" }, ErrInvalidFormat},
		{"unknown printer returns ErrInvalidPrinter", func(c *Config) { c.Printer = "dom" }, ErrInvalidPrinter},
		{"zero batch size returns ErrInvalidBatchSize", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"negative batch size returns ErrInvalidBatchSize", func(c *Config) { c.BatchSize = -1 }, ErrInvalidBatchSize},
		{"html and color returns ErrConflictingOutputs", func(c *Config) {
			c.HTML = true
			c.Color = true
		}, ErrConflictingOutputs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestConfigStdin tests standard input detection.
func TestConfigStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sources []string
		want    bool
	}{
		{"no sources", nil, true},
		{"dash", []string{"-"}, true},
		{"one file", []string{"a.xml"}, false},
		{"dash with a file", []string{"-", "a.xml"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Sources = tt.sources
			if got := cfg.Stdin(); got != tt.want {
				t.Errorf("Stdin() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFileGetProfile tests profile merging.
func TestFileGetProfile(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: Profile{Tag: "payload", Format: FormatJSON},
		Profiles: map[string]Profile{
			"forms": {Tag: "contenido", Element: "webformData"},
			"empty": {},
		},
	}

	t.Run("empty name returns defaults", func(t *testing.T) {
		t.Parallel()

		got, err := cf.GetProfile("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(cf.Defaults, got); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("profile values override defaults", func(t *testing.T) {
		t.Parallel()

		got, err := cf.GetProfile("forms")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Profile{Tag: "contenido", Element: "webformData", Format: FormatJSON}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty profile keeps defaults", func(t *testing.T) {
		t.Parallel()

		got, err := cf.GetProfile("empty")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(cf.Defaults, got); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown profile returns ErrProfileNotFound", func(t *testing.T) {
		t.Parallel()

		if _, err := cf.GetProfile("missing"); !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("nil profiles map", func(t *testing.T) {
		t.Parallel()

		if _, err := (&File{}).GetProfile("forms"); !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})
}

// TestFileApplyTo tests overlaying a configuration file onto a Config.
func TestFileApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("non-zero values override", func(t *testing.T) {
		t.Parallel()

		color, history := true, true
		cf := &File{
			Defaults: Profile{Tag: "payload", Printer: PrinterToken},
			Color:    &color,
			Batch:    8,
			History:  &history,
		}

		cfg := NewConfig()
		if err := cf.ApplyTo(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.TagName != "payload" || cfg.Printer != PrinterToken {
			t.Errorf("expected payload/token, got %s/%s", cfg.TagName, cfg.Printer)
		}
		if cfg.ElementName != DefaultElementName || cfg.Format != DefaultFormat {
			t.Errorf("expected unset values to keep defaults, got %s/%s", cfg.ElementName, cfg.Format)
		}
		if !cfg.Color || !cfg.SaveHistory || cfg.BatchSize != 8 {
			t.Errorf("expected color, history and batch 8, got %v %v %d", cfg.Color, cfg.SaveHistory, cfg.BatchSize)
		}
	})

	t.Run("explicit false disables", func(t *testing.T) {
		t.Parallel()

		off := false
		cfg := NewConfig()
		cfg.Color = true
		if err := (&File{Color: &off}).ApplyTo(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Color {
			t.Error("expected color to be disabled")
		}
	})

	t.Run("selected profile is applied", func(t *testing.T) {
		t.Parallel()

		cf := &File{Profiles: map[string]Profile{"alt": {Element: "form"}}}
		cfg := NewConfig()
		cfg.Profile = "alt"
		if err := cf.ApplyTo(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ElementName != "form" {
			t.Errorf("expected element form, got %q", cfg.ElementName)
		}
	})

	t.Run("missing profile leaves config untouched", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Profile = "nope"
		err := (&File{Defaults: Profile{Tag: "x"}}).ApplyTo(cfg)
		if !errors.Is(err, ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
		if cfg.TagName != DefaultTagName {
			t.Errorf("expected default tag, got %q", cfg.TagName)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.xmldecode")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".xmldecode")
		content := `defaults:
  tag: contenido
  format: markdown
profiles:
  legacy:
    tag: "ns:payload"
    element: formData
    printer: token
color: true
batch: 2
history: false
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Defaults.Tag != "contenido" || cf.Defaults.Format != FormatMarkdown {
			t.Errorf("unexpected defaults %+v", cf.Defaults)
		}
		want := Profile{Tag: "ns:payload", Element: "formData", Printer: PrinterToken}
		if diff := cmp.Diff(want, cf.Profiles["legacy"]); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}
		if cf.Color == nil || !*cf.Color {
			t.Error("expected color true")
		}
		if cf.History == nil || *cf.History {
			t.Error("expected history explicitly false")
		}
		if cf.Batch != 2 {
			t.Errorf("expected batch 2, got %d", cf.Batch)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".xmldecode")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Profiles map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".xmldecode")
		if err := os.WriteFile(configPath, []byte("defaults:\n  tag: x\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Profiles == nil {
			t.Error("expected Profiles map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("search does not panic without a config", func(_ *testing.T) {
		// The result depends on the machine running the test.
		_ = FindConfigFile("")
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"XDGDataDir":   XDGDataDir(),
		"XDGConfigDir": XDGConfigDir(),
	} {
		t.Run(name+" ends with the app name", func(t *testing.T) {
			t.Parallel()
			if !strings.HasSuffix(dir, AppName) {
				t.Errorf("expected %q to end with %q", dir, AppName)
			}
		})
	}
}
