// Package plot provides raster figures that latex.NewPlotFigure can save.
//
// An [Image] wraps any [image.Image] and implements the plottable
// contract: SaveToFile(path, dpi, tight) writes the image at the requested
// resolution, optionally trimmed to its content. The output format is
// taken from the path extension.
//
//	img, err := plot.Load("chart.tiff")
//	if err != nil {
//	    return err
//	}
//	fig, err := latex.NewPlotFigure("fig:chart", img, latex.FigureCaption("Sales"))
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/tsawler/texdoc/format"
)

// DefaultSourceDPI is the resolution an image is assumed to have when
// nothing else is known, matching the usual screen figure density.
const DefaultSourceDPI = 100

var (
	// ErrUnsupportedFormat is returned for paths and files the package
	// cannot encode or decode.
	ErrUnsupportedFormat = errors.New("plot: unsupported image format")
	// ErrEmptyImage is returned for images without pixels.
	ErrEmptyImage = errors.New("plot: empty image")
	// ErrInvalidDPI is returned for a non-positive resolution.
	ErrInvalidDPI = errors.New("plot: dpi must be positive")
)

// Image is a raster figure.
type Image struct {
	img image.Image
	// SourceDPI is the resolution of the wrapped pixels.
	SourceDPI int
	// Background is the colour trimmed away by a tight save.
	Background color.Color
	// Format is the encoding used when the target has no known extension
	// and the extension reported by FileExtension.
	Format format.Format
	// JPEGQuality is used for JPEG output.
	JPEGQuality int
}

// New wraps img. Saves default to PNG.
func New(img image.Image) *Image {
	return &Image{
		img:         img,
		SourceDPI:   DefaultSourceDPI,
		Background:  color.White,
		Format:      format.PNG,
		JPEGQuality: 90,
	}
}

// Load decodes an image file. PNG, JPEG, GIF, TIFF and BMP are supported.
// The loaded image keeps its format when it is one the typesetting engine
// can include, otherwise it is saved as PNG.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading image info: %w", err)
	}
	fmtType, err := format.DetectFile(path, f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("detecting image format: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	img, err := decode(f, fmtType)
	if err != nil {
		return nil, err
	}

	out := New(img)
	if fmtType.IsGraphic() {
		out.Format = fmtType
	}
	return out, nil
}

func decode(r io.Reader, f format.Format) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch f {
	case format.PNG:
		img, err = png.Decode(r)
	case format.JPEG:
		img, err = jpeg.Decode(r)
	case format.GIF:
		img, err = gif.Decode(r)
	case format.TIFF:
		img, err = tiff.Decode(r)
	case format.BMP:
		img, err = bmp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %v: %w", f, err)
	}
	return img, nil
}

// Bounds returns the bounds of the wrapped image.
func (i *Image) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// FileExtension reports the extension used for generated figure files.
func (i *Image) FileExtension() string {
	if ext := i.Format.Extension(); ext != "" {
		return ext
	}
	return format.PNG.Extension()
}

// SaveToFile writes the image to path at dpi. With tight set, uniform
// Background borders are cropped first. The image is resampled by
// dpi/SourceDPI.
func (i *Image) SaveToFile(path string, dpi int, tight bool) error {
	if dpi <= 0 {
		return ErrInvalidDPI
	}

	enc := format.Detect(path)
	if enc == format.Unknown {
		enc = i.Format
	}

	out, err := i.Render(dpi, tight)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image file: %w", err)
	}
	if err := i.encode(f, out, enc); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Render returns the pixels SaveToFile would write.
func (i *Image) Render(dpi int, tight bool) (image.Image, error) {
	if dpi <= 0 {
		return nil, ErrInvalidDPI
	}
	src := i.img
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	rect := src.Bounds()
	if tight {
		rect = trim(src, i.Background)
	}

	source := i.SourceDPI
	if source <= 0 {
		source = DefaultSourceDPI
	}
	w := max(1, rect.Dx()*dpi/source)
	h := max(1, rect.Dy()*dpi/source)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == rect.Dx() && h == rect.Dy() {
		draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
		return dst, nil
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, rect, draw.Src, nil)
	return dst, nil
}

func (i *Image) encode(w io.Writer, img image.Image, f format.Format) error {
	var err error
	switch f {
	case format.PNG:
		err = png.Encode(w, img)
	case format.JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: i.JPEGQuality})
	case format.GIF:
		err = gif.Encode(w, img, nil)
	case format.TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case format.BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encoding %v: %w", f, err)
	}
	return nil
}

// trim returns the smallest rectangle holding every pixel that differs
// from bg. An image made only of bg keeps its full bounds.
func trim(img image.Image, bg color.Color) image.Rectangle {
	bounds := img.Bounds()
	br, bgG, bb, ba := bg.RGBA()
	same := func(x, y int) bool {
		r, g, b, a := img.At(x, y).RGBA()
		return r == br && g == bgG && b == bb && a == ba
	}

	out := image.Rectangle{Min: bounds.Max, Max: bounds.Min}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if same(x, y) {
				continue
			}
			out.Min.X = min(out.Min.X, x)
			out.Min.Y = min(out.Min.Y, y)
			out.Max.X = max(out.Max.X, x+1)
			out.Max.Y = max(out.Max.Y, y+1)
		}
	}
	if out.Empty() {
		return bounds
	}
	return out
}
