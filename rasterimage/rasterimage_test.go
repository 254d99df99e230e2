package rasterimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func newTestImage(t *testing.T) *RawImage {
	data := make([]byte, 4*2*RGBAChannels)
	for i := 0; i < len(data); i += 4 {
		copy(data[i:], []byte{0x10, 0x20, 0x30, 0xff})
	}
	// top right pixel
	copy(data[3*4:], []byte{0xff, 0, 0, 0xff})

	rawImage, err := NewRawImage(data, 4, 2)
	require.Nil(t, err)
	return rawImage
}

func TestNewRawImage(t *testing.T) {
	_, err := NewRawImage(make([]byte, 10), 2, 2)
	assert.NotNil(t, err)

	_, err = NewRawImage(nil, 0, 0)
	assert.NotNil(t, err)

	rawImage, err := NewRawImage(make([]byte, 16), 2, 2)
	require.Nil(t, err)
	assert.Equal(t, RGBAChannels, rawImage.Channels)
}

func TestRawImage_Image(t *testing.T) {
	img := newTestImage(t).Image()

	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, img.RGBAAt(3, 0))
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0xff}, img.RGBAAt(3, 1))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.png", FormatPNG},
		{"/a/b/OUT.PNG", FormatPNG},
		{"x.jpg", FormatJPEG},
		{"x.jpeg", FormatJPEG},
		{"x.tif", FormatTIFF},
		{"x.tiff", FormatTIFF},
		{"x.bmp", FormatBMP},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFromPath("x.gif")
	assert.NotNil(t, err)
}

func TestRawImage_WriteFile(t *testing.T) {
	rawImage := newTestImage(t)
	fs := mockfs.NewMockFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))

	decoders := map[string]func(data []byte) (image.Image, error){
		"/out/frame.png": func(data []byte) (image.Image, error) {
			return png.Decode(bytes.NewReader(data))
		},
		"/out/frame.tiff": func(data []byte) (image.Image, error) {
			return tiff.Decode(bytes.NewReader(data))
		},
		"/out/frame.bmp": func(data []byte) (image.Image, error) {
			return bmp.Decode(bytes.NewReader(data))
		},
	}

	for path, decode := range decoders {
		t.Run(path, func(t *testing.T) {
			err := rawImage.WriteFile(fs, path)
			require.Nil(t, err)

			data, readErr := fs.ReadFile(path)
			require.NoError(t, readErr)

			img, decodeErr := decode(data)
			require.NoError(t, decodeErr)

			r, g, b, a := img.At(3, 0).RGBA()
			assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
		})
	}
}

func TestRawImage_WriteFile_jpeg(t *testing.T) {
	fs := mockfs.NewMockFs()

	err := newTestImage(t).WriteFile(fs, "/frame.jpg")
	require.Nil(t, err)

	data, readErr := fs.ReadFile("/frame.jpg")
	require.NoError(t, readErr)
	assert.True(t, bytes.HasPrefix(data, []byte{0xff, 0xd8}))
}

func TestRawImage_WriteFile_unsupportedExtension(t *testing.T) {
	err := newTestImage(t).WriteFile(mockfs.NewMockFs(), "/frame.gif")
	require.NotNil(t, err)

	encodeErr, ok := errorsx.Cause(err).(*EncodeError)
	require.True(t, ok)
	assert.Equal(t, "/frame.gif", encodeErr.Path)
}
