package rasterimage

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const RGBAChannels = 4

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

const jpegQuality = 90

// EncodeError is returned when an image cannot be encoded or written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("encoding image: %s", e.Err)
	}
	return fmt.Sprintf("writing image to %q: %s", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// RawImage is a premultiplied RGBA pixel buffer as produced by a rendering engine.
type RawImage struct {
	Data     []byte
	Width    int
	Height   int
	Channels int
}

func NewRawImage(data []byte, width, height int) (*RawImage, errorsx.Error) {
	if width <= 0 || height <= 0 {
		return nil, errorsx.Errorf("image dimensions must be positive but were %dx%d", width, height)
	}

	expectedLen := width * height * RGBAChannels
	if len(data) != expectedLen {
		return nil, errorsx.Errorf("expected %d bytes for a %dx%d image but got %d", expectedLen, width, height, len(data))
	}

	return &RawImage{
		Data:     data,
		Width:    width,
		Height:   height,
		Channels: RGBAChannels,
	}, nil
}

// Image shares the raw buffer, it is not copied.
func (r *RawImage) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Data,
		Stride: r.Width * r.Channels,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

func FormatFromPath(path string) (Format, errorsx.Error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return "", errorsx.Errorf("unsupported image file extension: %q", ext)
	}
}

func (r *RawImage) Encode(w io.Writer, format Format) errorsx.Error {
	img := r.Image()

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return errorsx.Wrap(&EncodeError{Err: fmt.Errorf("unknown format: %q", format)})
	}
	if err != nil {
		return errorsx.Wrap(&EncodeError{Err: err}, "format", format)
	}

	return nil
}

// WriteFile encodes the image in the format given by the path's extension.
func (r *RawImage) WriteFile(fs gofs.Fs, path string) errorsx.Error {
	format, err := FormatFromPath(path)
	if err != nil {
		return errorsx.Wrap(&EncodeError{Path: path, Err: err})
	}

	file, createErr := fs.Create(path)
	if createErr != nil {
		return errorsx.Wrap(&EncodeError{Path: path, Err: createErr})
	}
	defer file.Close()

	err = r.Encode(file, format)
	if err != nil {
		return errorsx.Wrap(&EncodeError{Path: path, Err: errorsx.Cause(err)}, "format", format)
	}

	closeErr := file.Close()
	if closeErr != nil {
		return errorsx.Wrap(&EncodeError{Path: path, Err: closeErr})
	}

	return nil
}
