package fonts

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	defaultFont     *truetype.Font
	defaultFontErr  errorsx.Error
	defaultFontOnce sync.Once
)

func loadDefaultFont() (*truetype.Font, errorsx.Error) {
	font, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return font, nil
}

// DefaultFont is the Go regular font, parsed on first use.
func DefaultFont() (*truetype.Font, errorsx.Error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = loadDefaultFont()
	})

	return defaultFont, defaultFontErr
}

// RenderTextTile draws text in black, starting at the centre of an otherwise transparent image.
func RenderTextTile(font *truetype.Font, size image.Rectangle, text string) (*image.RGBA, errorsx.Error) {
	img := image.NewRGBA(size)
	x := size.Min.X + size.Dx()/2
	y := size.Min.Y + size.Dy()/2

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(font)
	ctx.SetFontSize(16.0)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	_, err := ctx.DrawString(text, freetype.Pt(x, y))
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return img, nil
}
