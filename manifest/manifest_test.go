package manifest

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/texdoc/latex"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
}

func writeImage(t *testing.T, path string, enc func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 5; x < 15; x++ {
		img.Set(x, 5, color.Black)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		t.Fatalf("encode error = %v", err)
	}
}

func mustParse(t *testing.T, src, dir string) *Manifest {
	t.Helper()
	m, err := Parse([]byte(src), dir)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return m
}

func mustSerialize(t *testing.T, m *Manifest) string {
	t.Helper()
	doc, err := m.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	tex, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	return tex
}

func TestParse_OneKindPerNode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
	}{
		{
			"two kinds",
			"parts:\n  - text: a\n    raw: b\n",
			"parts[0]",
		},
		{
			"empty entry nested",
			"parts:\n  - section:\n      title: A\n      parts:\n        - text: ok\n        - {}\n",
			"parts[0].section.parts[1]",
		},
		{
			"inside a column",
			"parts:\n  - columns:\n      - - text: a\n      - - {}\n",
			"parts[0].columns[1][0]",
		},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.src), t.TempDir())
		if !errors.Is(err, ErrInvalidNode) {
			t.Errorf("%s: Parse() error = %v, want ErrInvalidNode", tt.name, err)
			continue
		}
		if !strings.HasPrefix(err.Error(), tt.path+":") {
			t.Errorf("%s: error %q does not start with %q", tt.name, err, tt.path)
		}
	}
}

func TestParse_UnknownKey(t *testing.T) {
	if _, err := Parse([]byte("titel: Report\n"), "."); err == nil {
		t.Error("Parse() with unknown key should fail")
	}
}

func TestParse_ListItems(t *testing.T) {
	m := mustParse(t, `parts:
  - list:
      items:
        - first
        - {text: nested, level: 2}
        - {text: plain}
`, ".")
	got := m.Parts[0].List.Items
	want := []ListItem{{"first", 1}, {"nested", 2}, {"plain", 1}}
	if len(got) != len(want) {
		t.Fatalf("Items = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Items[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoad_ResolvesRelativeNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.yaml", "figure_dir: out\n")

	m, err := Load(filepath.Join(dir, "doc.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.BaseDir() != dir {
		t.Errorf("BaseDir() = %q, want %q", m.BaseDir(), dir)
	}
	if got, want := m.figureDir(), filepath.Join(dir, "out"); got != want {
		t.Errorf("figureDir() = %q, want %q", got, want)
	}
	if got := m.resolve("/abs/x.csv"); got != "/abs/x.csv" {
		t.Errorf("resolve(abs) = %q", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "overview.md", "# Goals\n\nShip *it*.\n")
	writeFile(t, dir, "sales.csv", "region,q1\nnorth,1\nsouth,2\n")
	writeFile(t, dir, "appendix.pdf", "%PDF-1.4")
	writeFile(t, dir, "notes.html", "<html><body><nav>menu</nav><h1>Notes</h1><p>50% done</p></body></html>")
	writeImage(t, filepath.Join(dir, "photo.png"), func(f *os.File, img image.Image) error { return png.Encode(f, img) })
	writeImage(t, filepath.Join(dir, "chart.gif"), func(f *os.File, img image.Image) error { return gif.Encode(f, img, nil) })

	m := mustParse(t, `title: Report
author: Finance
options:
  toc: false
page_style:
  left_header: ACME
parts:
  - section:
      title: Overview
      parts:
        - markdown: overview.md
        - html: notes.html
        - table:
            label: tab:sales
            caption: Sales
            source: sales.csv
            highlight: {column: q1, values: ["2"], color: yellow}
        - section:
            title: Details
            numbered: false
            parts:
              - bold: Key
  - figure: {label: photo, path: photo.png, caption: Photo}
  - figure: {label: chart, path: chart.gif}
  - clearpage: true
  - pages:
      sources: [appendix.pdf]
      rotate: 90
`, dir)

	doc, err := m.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.Options().TableOfContents {
		t.Error("toc override ignored")
	}
	tex, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	for _, want := range []string{
		`\title{Report}`,
		`\fancyhead[L]{ACME}`,
		`\section{Overview}`,
		`\subsection*{Goals}`,
		`Ship \emph{it}.`,
		`\subsection*{Notes}`,
		`50\% done`,
		`\rowcolor{yellow}`,
		`south`,
		`\label{tab:sales}`,
		`\subsection*{Details}`,
		`\textbf{Key}`,
		filepath.ToSlash(filepath.Join(dir, "photo.png")),
		filepath.ToSlash(filepath.Join(dir, "figures", "chart.png")),
		"\\clearpage",
		`angle=90`,
		filepath.ToSlash(filepath.Join(dir, "appendix.pdf")),
	} {
		if !strings.Contains(tex, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(tex, "menu") {
		t.Error("navigation was not filtered from HTML")
	}
	if strings.Index(tex, `\section{Overview}`) > strings.Index(tex, `\subsection*{Details}`) {
		t.Error("nested section emitted before its parent")
	}
	if _, err := os.Stat(filepath.Join(dir, "figures", "chart.png")); err != nil {
		t.Errorf("converted figure not written: %v", err)
	}
}

func TestBuild_RecordsAndColumns(t *testing.T) {
	m := mustParse(t, `parts:
  - columns:
      - - table:
            type: tabular
            label: tab:a
            records: [[k, v], [a, "1"]]
      - - text: left
        - text: right
  - environment:
      wrap: [{centering: true}, {minipage: 0.5}]
      parts:
        - text: boxed
`, t.TempDir())

	tex := mustSerialize(t, m)
	for _, want := range []string{`\begin{multicols}{2}`, "left", "right", "boxed", "minipage"} {
		if !strings.Contains(tex, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		path string
	}{
		{
			"no table data",
			"parts:\n  - table: {label: t}\n",
			ErrNoTableData, "parts[0]",
		},
		{
			"both table sources",
			"parts:\n  - table: {label: t, source: a.csv, records: [[a]]}\n",
			ErrNoTableData, "parts[0]",
		},
		{
			"unsupported table source",
			"parts:\n  - section:\n      title: A\n      parts:\n        - table: {label: t, source: a.txt}\n",
			ErrUnsupportedSource, "parts[0].section.parts[0]",
		},
		{
			"unsupported figure",
			"parts:\n  - figure: {label: f, path: notes.docx}\n",
			ErrUnsupportedSource, "parts[0]",
		},
		{
			"page source not pdf",
			"parts:\n  - pages: {sources: [a.png]}\n",
			ErrUnsupportedSource, "parts[0]",
		},
		{
			"bare tabular at top level",
			"parts:\n  - table: {type: tabular, label: t, records: [[k, v], [a, b]]}\n",
			latex.ErrStructuralPlacement, "parts[0]",
		},
	}
	for _, tt := range tests {
		m := mustParse(t, tt.src, t.TempDir())
		_, err := m.Build(nil)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: Build() error = %v, want %v", tt.name, err, tt.want)
			continue
		}
		var pe *PathError
		if !errors.As(err, &pe) || pe.Path != tt.path {
			t.Errorf("%s: error path = %v, want %q", tt.name, err, tt.path)
		}
	}
}

func TestBuild_SectionDepth(t *testing.T) {
	m := mustParse(t, `parts:
  - section:
      title: One
      parts:
        - section:
            title: Two
            parts:
              - section:
                  title: Three
                  parts:
                    - section: {title: Four}
`, t.TempDir())

	_, err := m.Build(nil)
	var pe *PathError
	if !errors.As(err, &pe) {
		t.Fatalf("Build() error = %v, want *PathError", err)
	}
	want := "parts[0].section.parts[0].section.parts[0].section.parts[0]"
	if pe.Path != want {
		t.Errorf("Path = %q, want %q", pe.Path, want)
	}
}

func TestWrap_ExactlyOne(t *testing.T) {
	env, err := latex.NewEnvironment(latex.NewText("x"))
	if err != nil {
		t.Fatalf("NewEnvironment() error = %v", err)
	}
	if err := wrap(env, WrapSpec{}); err == nil {
		t.Error("wrap() with nothing set should fail")
	}
	if err := wrap(env, WrapSpec{Centering: true, Landscape: true}); err == nil {
		t.Error("wrap() with two environments should fail")
	}
	width := 0.8
	if err := wrap(env, WrapSpec{Adjustbox: &AdjustboxSpec{MaxWidth: &width}}); err != nil {
		t.Errorf("wrap(adjustbox) error = %v", err)
	}
}

func TestBuild_ZeroScales(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"figure width", "parts:\n  - figure: {label: f, path: a.pdf, max_width: 0}\n"},
		{"figure height", "parts:\n  - figure: {label: f, path: a.pdf, max_height: 0}\n"},
		{"minipage", "parts:\n  - environment:\n      wrap: [{minipage: 0}]\n      parts:\n        - text: x\n"},
		{"adjustbox width", "parts:\n  - environment:\n      wrap: [{adjustbox: {max_width: 0}}]\n      parts:\n        - text: x\n"},
		{"adjustbox height", "parts:\n  - environment:\n      wrap: [{adjustbox: {max_height: 0}}]\n      parts:\n        - text: x\n"},
	}
	for _, tt := range tests {
		m := mustParse(t, tt.src, t.TempDir())
		_, err := m.Build(nil)
		if !errors.Is(err, latex.ErrInvalidScale) {
			t.Errorf("%s: Build() error = %v, want ErrInvalidScale", tt.name, err)
		}
	}

	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "%PDF-1.4")
	m := mustParse(t, "parts:\n  - pages: {sources: [a.pdf], scale: 0}\n", dir)
	doc, err := m.Build(nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := doc.Serialize(); !errors.Is(err, latex.ErrInvalidScale) {
		t.Errorf("pages scale 0: Serialize() error = %v, want ErrInvalidScale", err)
	}
}
