package texdoc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/texdoc/config"
	"github.com/tsawler/texdoc/manifest"
	"github.com/tsawler/texdoc/render"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// fakeEngine writes a PDF into the job directory.
func fakeEngine(calls *int) func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		*calls++
		return nil, os.WriteFile(filepath.Join(dir, "output.pdf"), []byte("%PDF-1.5"), 0o644)
	}
}

func TestOpen(t *testing.T) {
	// Test with non-existent file
	if _, err := Open("nonexistent.yaml").Tex(); err == nil {
		t.Error("expected error for non-existent file")
	}
	if _, err := Open("").Tex(); err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := Open("notes.docx").Tex()
	if err == nil || !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("Tex() error = %v", err)
	}
}

func TestMarkdownSource(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.md", "# Intro\n\nHello *world*.\n")

	tex, err := Open(path).Tex()
	if err != nil {
		t.Fatalf("Tex() error = %v", err)
	}
	for _, want := range []string{`\title{Intro}`, `\section*{Intro}`, `Hello \emph{world}.`, `\end{document}`} {
		if !strings.Contains(tex, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestHTMLSource(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.html",
		"<html><head><title>Page</title></head><body><h2>Part</h2><p>a &amp; b</p></body></html>")

	tex, err := Open(path).Tex()
	if err != nil {
		t.Fatalf("Tex() error = %v", err)
	}
	for _, want := range []string{`\title{Page}`, `\subsection*{Part}`, `a \& b`} {
		if !strings.Contains(tex, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestManifestSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "report.yaml", `title: Report
parts:
  - section:
      title: Summary
      parts:
        - text: All good.
`)

	b := Open(path).Font("Lato")
	tex, err := b.Tex()
	if err != nil {
		t.Fatalf("Tex() error = %v", err)
	}
	if !strings.Contains(tex, `\section{Summary}`) || !strings.Contains(tex, "Lato") {
		t.Errorf("unexpected output:\n%s", tex)
	}

	var buf bytes.Buffer
	if err := b.Map(&buf); err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if !strings.Contains(buf.String(), "| title: Summary") {
		t.Errorf("Map() = %q", buf.String())
	}

	out := filepath.Join(dir, "report.tex")
	if err := b.Export(out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if data, _ := os.ReadFile(out); !bytes.Contains(data, []byte(`\section{Summary}`)) {
		t.Error("exported file does not hold the document")
	}
}

func TestFromManifest(t *testing.T) {
	m, err := manifest.New(t.TempDir(), manifest.Node{Text: ptr("inline")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tex := Must(FromManifest(m).Tex())
	if !strings.Contains(tex, "inline") {
		t.Errorf("Tex() = %q", tex)
	}
}

func ptr(s string) *string { return &s }

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.md", "# Intro\n\ntext\n")
	dest := filepath.Join(dir, "out", "notes.pdf")

	calls := 0
	var progress bytes.Buffer
	res, err := Open(path).
		Passes(2).
		WorkDir(t.TempDir()).
		Progress(&progress).
		Runner(render.RunnerFunc(fakeEngine(&calls))).
		Render(context.Background(), dest)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if calls != 2 || res.Passes != 2 {
		t.Errorf("engine ran %d times, Result.Passes = %d", calls, res.Passes)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("PDF not written: %v", err)
	}
	if progress.Len() == 0 {
		t.Error("no progress written")
	}
}

func TestRender_InvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.md", "text\n")
	_, err := Open(path).Passes(0).Render(context.Background(), "x.pdf")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Render() error = %v, want config.ErrInvalid", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "texdoc.yaml", "render:\n  engine: lualatex\n")

	b := Open("x.md").ConfigFile(cfgPath)
	if got := b.Config().Render.Engine; got != "lualatex" {
		t.Errorf("Engine = %q, want lualatex", got)
	}

	// Missing files keep the defaults.
	if got := Open("x.md").ConfigFile(filepath.Join(dir, "none.yaml")).Config().Render.Engine; got != "xelatex" {
		t.Errorf("Engine = %q, want xelatex", got)
	}

	// Parse failures surface at the terminal operation.
	bad := writeFile(t, dir, "bad.yaml", "render: [")
	if _, err := Open("x.md").ConfigFile(bad).Tex(); err == nil {
		t.Error("expected config error from Tex()")
	}
}

func TestChainImmutability(t *testing.T) {
	base := Open("report.yaml")

	lua := base.Engine("lualatex")
	kept := base.KeepIntermediates()

	if base.options.config.Render.Engine != "xelatex" || base.options.config.Render.Keep {
		t.Error("base builder was modified")
	}
	if lua.options.config.Render.Engine != "lualatex" || lua.options.config.Render.Keep {
		t.Error("lua builder should only change the engine")
	}
	if !kept.options.config.Render.Keep || kept.options.config.Render.Engine != "xelatex" {
		t.Error("kept builder should only change keep")
	}

	cfg := config.Default()
	derived := base.WithConfig(cfg).Engine("pdflatex")
	if cfg.Render.Engine != "xelatex" {
		t.Error("WithConfig should not alias the caller's config")
	}
	if derived.Config().Render.Engine != "pdflatex" {
		t.Error("derived builder lost its engine")
	}
}

func TestMust(t *testing.T) {
	// Test Must with successful result
	result := Must("hello", nil)
	if result != "hello" {
		t.Errorf("expected 'hello', got %q", result)
	}

	// Test Must with error (should panic)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Must to panic on error")
		}
	}()
	Must("", os.ErrNotExist)
}
