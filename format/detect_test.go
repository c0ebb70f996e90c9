package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{PNG, "PNG"},
		{JPEG, "JPEG"},
		{TIFF, "TIFF"},
		{CSV, "CSV"},
		{XLSX, "XLSX"},
		{HTML, "HTML"},
		{Markdown, "Markdown"},
		{YAML, "YAML"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, ".pdf"},
		{PNG, ".png"},
		{JPEG, ".jpg"},
		{BMP, ".bmp"},
		{XLSX, ".xlsx"},
		{Markdown, ".md"},
		{TeX, ".tex"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Classes(t *testing.T) {
	tests := []struct {
		format                      Format
		image, graphic, tabularData bool
	}{
		{PDF, false, true, false},
		{PNG, true, true, false},
		{JPEG, true, true, false},
		{TIFF, true, false, false},
		{GIF, true, false, false},
		{CSV, false, false, true},
		{XLSX, false, false, true},
		{HTML, false, false, false},
	}

	for _, tt := range tests {
		if got := tt.format.IsImage(); got != tt.image {
			t.Errorf("%v.IsImage() = %v", tt.format, got)
		}
		if got := tt.format.IsGraphic(); got != tt.graphic {
			t.Errorf("%v.IsGraphic() = %v", tt.format, got)
		}
		if got := tt.format.IsTabular(); got != tt.tabularData {
			t.Errorf("%v.IsTabular() = %v", tt.format, got)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"report.pdf", PDF},
		{"report.PDF", PDF},
		{"chart.png", PNG},
		{"photo.jpg", JPEG},
		{"photo.JPEG", JPEG},
		{"scan.tif", TIFF},
		{"scan.tiff", TIFF},
		{"icon.bmp", BMP},
		{"anim.gif", GIF},
		{"data.csv", CSV},
		{"data.xlsx", XLSX},
		{"data.Xlsx", XLSX},
		{"page.html", HTML},
		{"page.htm", HTML},
		{"notes.md", Markdown},
		{"notes.markdown", Markdown},
		{"out.tex", TeX},
		{"report.yml", YAML},
		{"report.yaml", YAML},
		{"document.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/file.pdf", PDF},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		data string
		want Format
	}{
		{"%PDF-1.4", PDF},
		{"\x89PNG\r\n\x1a\n\x00\x00", PNG},
		{"\xff\xd8\xff\xe0", JPEG},
		{"GIF87a...", GIF},
		{"GIF89a...", GIF},
		{"II*\x00\x08\x00", TIFF},
		{"MM\x00*\x00\x00", TIFF},
		{"BM\x00\x00", BMP},
		{"PK\x03\x04\x00\x00\x00\x00", Unknown},
		{"<!DOCTYPE html>\n<html>", HTML},
		{"  \n  <!doctype HTML PUBLIC", HTML},
		{"<html lang=en>", HTML},
		{`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`, HTML},
		{`<?xml version="1.0"?><svg/>`, Unknown},
		{"", Unknown},
		{"Hello, World!", Unknown},
	}

	for _, tt := range tests {
		if got := DetectFromMagic([]byte(tt.data)); got != tt.want {
			t.Errorf("DetectFromMagic(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func zipWith(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", n, err)
		}
		if _, err := w.Write([]byte("<x/>")); err != nil {
			t.Fatalf("Write error = %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromReader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"workbook", zipWith(t, "[Content_Types].xml", "xl/workbook.xml"), XLSX},
		{"other archive", zipWith(t, "word/document.xml"), Unknown},
		{"pdf", []byte("%PDF-1.4\n%%EOF"), PDF},
		{"short", []byte("M"), Unknown},
	}

	for _, tt := range tests {
		got, err := DetectFromReader(bytes.NewReader(tt.data), int64(len(tt.data)))
		if err != nil || got != tt.want {
			t.Errorf("%s: DetectFromReader() = %v, %v, want %v", tt.name, got, err, tt.want)
		}
	}

	broken := []byte("PK\x03\x04truncated")
	if _, err := DetectFromReader(bytes.NewReader(broken), int64(len(broken))); err == nil {
		t.Error("DetectFromReader() of a truncated archive should fail")
	}
}

func TestDetectFile(t *testing.T) {
	csv := []byte("a,b\n1,2\n")
	got, err := DetectFile("data.csv", bytes.NewReader(csv), int64(len(csv)))
	if err != nil || got != CSV {
		t.Errorf("DetectFile(csv) = %v, %v; want CSV", got, err)
	}

	// Content wins over a misleading name.
	png := []byte("\x89PNG\r\n\x1a\nrest")
	got, err = DetectFile("chart.pdf", bytes.NewReader(png), int64(len(png)))
	if err != nil || got != PNG {
		t.Errorf("DetectFile(png named pdf) = %v, %v; want PNG", got, err)
	}
}
