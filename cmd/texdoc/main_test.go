package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/texdoc/config"
)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = runWithArgs(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeSource(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("# Notes\n\nSome *text*.\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return dir, path
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"build"}, 2},
		{"missing source", []string{"print"}, 2},
		{"two sources", []string{"print", "a.md", "b.md"}, 2},
		{"bad flag", []string{"print", "-nope", "a.md"}, 2},
		{"export without output", []string{"export", "a.md"}, 2},
	}
	for _, tt := range tests {
		if tt.name == "export without output" {
			_, src := writeSource(t)
			tt.args = []string{"export", src}
		}
		code, _, _ := run(t, tt.args...)
		if code != tt.code {
			t.Errorf("%s: exit code = %d, want %d", tt.name, code, tt.code)
		}
	}
}

func TestHelp(t *testing.T) {
	code, out, _ := run(t, "help")
	if code != 0 || !strings.Contains(out, "Commands:") {
		t.Errorf("help = %d, %q", code, out)
	}
}

func TestPrint(t *testing.T) {
	_, src := writeSource(t)
	code, out, errOut := run(t, "print", src)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	for _, want := range []string{`\title{Notes}`, `\section*{Notes}`, `Some \emph{text}.`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestExportAndMap(t *testing.T) {
	dir, src := writeSource(t)
	dest := filepath.Join(dir, "notes.tex")

	if code, _, errOut := run(t, "export", "-o", dest, src); code != 0 {
		t.Fatalf("export exit code = %d, stderr = %s", code, errOut)
	}
	if data, err := os.ReadFile(dest); err != nil || !bytes.Contains(data, []byte(`\begin{document}`)) {
		t.Errorf("exported file = %q, %v", data, err)
	}

	code, out, _ := run(t, "map", src)
	if code != 0 || !strings.Contains(out, "1 Text") {
		t.Errorf("map = %d, %q", code, out)
	}
}

func TestRender_MissingEngine(t *testing.T) {
	_, src := writeSource(t)
	t.Setenv("TEXDOC_WORKDIR", t.TempDir())
	code, _, errOut := run(t, "render", "-engine", "texdoc-no-such-engine", src)
	if code != 1 || !strings.Contains(errOut, "engine pass 1 failed") {
		t.Errorf("render = %d, stderr = %q", code, errOut)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, src := writeSource(t)
	if code, _, _ := run(t, "print", "-log-level", "loud", src); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestConfigCommand(t *testing.T) {
	code, out, _ := run(t, "config")
	if code != 0 || !strings.Contains(out, "engine: xelatex") {
		t.Errorf("config = %d, %q", code, out)
	}

	path := filepath.Join(t.TempDir(), "texdoc.yaml")
	if code, _, _ := run(t, "config", "-o", path); code != 0 {
		t.Fatalf("config -o exit code = %d", code)
	}
	cfg, err := config.Load(path)
	if err != nil || cfg.Render.Passes != 3 {
		t.Errorf("Load() = %+v, %v", cfg, err)
	}
}
