package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"badc0de.net/pkg/go-rsi/ttesting"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	ttesting.AssertEqualInt(t, "Indent", cfg.Indent, 0)
	ttesting.AssertEqualInt(t, "Parallelism", cfg.Parallelism, 1)
	ttesting.AssertEqualString(t, "Splitter", cfg.Splitter, "")
	if !cfg.MakeParents {
		t.Error("MakeParents should default to true")
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("Fetch.Timeout = %v; want 30s", cfg.Fetch.Timeout)
	}
	ttesting.AssertEqualString(t, "Print.Mode", cfg.Print.Mode, "24bit")
	ttesting.AssertEqualString(t, "Web.ListenAddress", cfg.Web.ListenAddress, ":8080")
	ttesting.AssertEqualString(t, "Web.Root", cfg.Web.Root, ".")
	if cfg.Web.MaxAge != time.Hour {
		t.Errorf("Web.MaxAge = %v; want 1h", cfg.Web.MaxAge)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
license: CC-BY-SA-3.0
copyright: Taken from tgstation
indent: 2
splitter: hyphen
fetch:
  timeout: 5s
web:
  root: /srv/rsi
  max_age: 10m
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	ttesting.AssertEqualString(t, "License", cfg.License, "CC-BY-SA-3.0")
	ttesting.AssertEqualString(t, "Copyright", cfg.Copyright, "Taken from tgstation")
	ttesting.AssertEqualInt(t, "Indent", cfg.Indent, 2)
	ttesting.AssertEqualString(t, "Splitter", cfg.Splitter, "hyphen")
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("Fetch.Timeout = %v; want 5s", cfg.Fetch.Timeout)
	}
	ttesting.AssertEqualString(t, "Web.Root", cfg.Web.Root, "/srv/rsi")
	if cfg.Web.MaxAge != 10*time.Minute {
		t.Errorf("Web.MaxAge = %v; want 10m", cfg.Web.MaxAge)
	}
	// Untouched keys keep their defaults.
	ttesting.AssertEqualInt(t, "Parallelism", cfg.Parallelism, 1)
	ttesting.AssertEqualString(t, "Web.ListenAddress", cfg.Web.ListenAddress, ":8080")
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("indent: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
	if _, err := LoadFile(path + ".missing"); !os.IsNotExist(err) {
		t.Errorf("missing file: got %v; want not-exist", err)
	}
}

func TestParseValidates(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative indent", "indent: -1", "indent"},
		{"zero parallelism", "parallelism: 0", "parallelism"},
		{"unknown splitter", "splitter: sideways", "sideways"},
		{"negative timeout", "fetch:\n  timeout: -1s", "timeout"},
		{"negative max age", "web:\n  max_age: -1s", "max age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "license: MIT\nindent: 4\nparallelism: 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", path, "-indent", "1", "-root", "icons"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Flag beats file, file beats default.
	ttesting.AssertEqualInt(t, "Indent", cfg.Indent, 1)
	ttesting.AssertEqualString(t, "License", cfg.License, "MIT")
	ttesting.AssertEqualInt(t, "Parallelism", cfg.Parallelism, 2)
	ttesting.AssertEqualString(t, "Web.Root", cfg.Web.Root, "icons")
	// Flags left at their defaults do not clobber the file.
	ttesting.AssertEqualString(t, "Web.ListenAddress", cfg.Web.ListenAddress, ":8080")
}

func TestLoadWithoutFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config=", "-splitter", "number"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ttesting.AssertEqualString(t, "Splitter", cfg.Splitter, "number")
	ttesting.AssertEqualInt(t, "Parallelism", cfg.Parallelism, 1)
}

func TestLoadBeforeParse(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	f.config = ""
	if _, err := Load(f); err == nil {
		t.Error("Load before Parse succeeded")
	}
}

func TestMarshal(t *testing.T) {
	cfg := Default()
	cfg.License = "MIT"
	b, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ttesting.AssertEqualString(t, "License", back.License, "MIT")
	if back.Web.MaxAge != time.Hour {
		t.Errorf("Web.MaxAge = %v; want 1h", back.Web.MaxAge)
	}
}
