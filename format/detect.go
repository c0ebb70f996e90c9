// Package format identifies the files texdoc consumes: images for figures,
// PDFs for embedded pages, and tabular or text sources for tables and body
// text.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// GIF indicates a GIF image.
	GIF
	// TIFF indicates a TIFF image.
	TIFF
	// BMP indicates a Windows bitmap.
	BMP
	// CSV indicates comma-separated values.
	CSV
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// HTML indicates an HTML document.
	HTML
	// Markdown indicates a Markdown document.
	Markdown
	// TeX indicates LaTeX source.
	TeX
	// YAML indicates a YAML document, such as a manifest.
	YAML
)

// info describes a format. The first extension is the canonical one.
type info struct {
	name string
	exts []string
}

var table = map[Format]info{
	PDF:      {"PDF", []string{".pdf"}},
	PNG:      {"PNG", []string{".png"}},
	JPEG:     {"JPEG", []string{".jpg", ".jpeg"}},
	GIF:      {"GIF", []string{".gif"}},
	TIFF:     {"TIFF", []string{".tiff", ".tif"}},
	BMP:      {"BMP", []string{".bmp"}},
	CSV:      {"CSV", []string{".csv"}},
	XLSX:     {"XLSX", []string{".xlsx"}},
	HTML:     {"HTML", []string{".html", ".htm"}},
	Markdown: {"Markdown", []string{".md", ".markdown"}},
	TeX:      {"TeX", []string{".tex"}},
	YAML:     {"YAML", []string{".yaml", ".yml"}},
}

// byExt is the reverse of table, keyed by lower-case extension.
var byExt = func() map[string]Format {
	m := make(map[string]Format)
	for f, in := range table {
		for _, e := range in.exts {
			m[e] = f
		}
	}
	return m
}()

func (f Format) String() string {
	if in, ok := table[f]; ok {
		return in.name
	}
	return "Unknown"
}

// Extension returns the canonical file extension, with the dot.
func (f Format) Extension() string {
	if in, ok := table[f]; ok {
		return in.exts[0]
	}
	return ""
}

// IsImage reports whether the format is a raster image.
func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, GIF, TIFF, BMP:
		return true
	}
	return false
}

// IsGraphic reports whether the typesetting engine can include the file
// directly. Other images must be converted first.
func (f Format) IsGraphic() bool {
	switch f {
	case PDF, PNG, JPEG:
		return true
	}
	return false
}

// IsTabular reports whether the format can be read into a frame.
func (f Format) IsTabular() bool {
	return f == CSV || f == XLSX
}

// Detect identifies a file by its extension, ignoring case.
func Detect(filename string) Format {
	return byExt[strings.ToLower(filepath.Ext(filename))]
}

var signatures = []struct {
	magic  []byte
	format Format
}{
	{[]byte("%PDF"), PDF},
	{[]byte("\x89PNG\r\n\x1a\n"), PNG},
	{[]byte{0xFF, 0xD8, 0xFF}, JPEG},
	{[]byte("GIF87a"), GIF},
	{[]byte("GIF89a"), GIF},
	{[]byte("II*\x00"), TIFF},
	{[]byte("MM\x00*"), TIFF},
	{[]byte("BM"), BMP},
}

// DetectFromMagic identifies content by its leading bytes. ZIP archives,
// and text formats other than HTML, cannot be told apart by a prefix and
// are Unknown.
func DetectFromMagic(data []byte) Format {
	for _, s := range signatures {
		if bytes.HasPrefix(data, s.magic) {
			return s.format
		}
	}
	if looksLikeHTML(data) {
		return HTML
	}
	return Unknown
}

// looksLikeHTML accepts a doctype or <html> start tag, or an XML
// declaration followed by <html> within the first 512 bytes.
func looksLikeHTML(data []byte) bool {
	head := bytes.ToUpper(bytes.TrimLeft(data[:min(512, len(data))], " \t\r\n"))
	switch {
	case bytes.HasPrefix(head, []byte("<!DOCTYPE HTML")), bytes.HasPrefix(head, []byte("<HTML")):
		return true
	case bytes.HasPrefix(head, []byte("<?XML")):
		return bytes.Contains(head, []byte("<HTML"))
	}
	return false
}

var zipMagic = []byte("PK\x03\x04")

// DetectFromReader inspects the content to determine format. Unlike
// DetectFromMagic it can recognize XLSX workbooks inside ZIP archives.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat reports XLSX for archives with a workbook part.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/") {
			return XLSX, nil
		}
	}
	return Unknown, nil
}

// DetectFile combines content and name: content wins when it is
// conclusive, otherwise the extension decides.
func DetectFile(name string, r io.ReaderAt, size int64) (Format, error) {
	f, err := DetectFromReader(r, size)
	if err != nil {
		return Unknown, err
	}
	if f != Unknown {
		return f, nil
	}
	return Detect(name), nil
}
