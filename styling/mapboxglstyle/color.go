package mapboxglstyle

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.NRGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"silver":      {0xc0, 0xc0, 0xc0, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"yellow":      {0xff, 0xff, 0, 0xff},
	"orange":      {0xff, 0xa5, 0, 0xff},
	"purple":      {0x80, 0, 0x80, 0xff},
	"navy":        {0, 0, 0x80, 0xff},
	"teal":        {0, 0x80, 0x80, 0xff},
	"aqua":        {0, 0xff, 0xff, 0xff},
	"cyan":        {0, 0xff, 0xff, 0xff},
	"lime":        {0, 0xff, 0, 0xff},
	"magenta":     {0xff, 0, 0xff, 0xff},
	"fuchsia":     {0xff, 0, 0xff, 0xff},
	"maroon":      {0x80, 0, 0, 0xff},
	"olive":       {0x80, 0x80, 0, 0xff},
}

// ParseColor parses a CSS color as used in style documents:
// #rgb, #rrggbb, rgb(), rgba(), hsl(), hsla() and a set of named colors.
func ParseColor(s string) (color.NRGBA, errorsx.Error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if named, ok := namedColors[s]; ok {
		return named, nil
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}

	fn, args, err := splitColorFunction(s)
	if err != nil {
		return color.NRGBA{}, errorsx.Wrap(err, "color", s)
	}

	switch fn {
	case "rgb", "rgba":
		if len(args) != len(fn) {
			return color.NRGBA{}, errorsx.Errorf("%s() takes %d arguments but got %d (%q)", fn, len(fn), len(args), s)
		}
		var channels [3]uint8
		for i := 0; i < 3; i++ {
			value, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return color.NRGBA{}, errorsx.Wrap(err, "color", s)
			}
			channels[i] = uint8(clamp(value, 0, 255))
		}
		alpha := uint8(0xff)
		if fn == "rgba" {
			alpha, err = parseAlpha(args[3])
			if err != nil {
				return color.NRGBA{}, errorsx.Wrap(err, "color", s)
			}
		}
		return color.NRGBA{channels[0], channels[1], channels[2], alpha}, nil
	case "hsl", "hsla":
		if len(args) != len(fn) {
			return color.NRGBA{}, errorsx.Errorf("%s() takes %d arguments but got %d (%q)", fn, len(fn), len(args), s)
		}
		hue, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return color.NRGBA{}, errorsx.Wrap(err, "color", s)
		}
		saturation, err := parsePercentage(args[1])
		if err != nil {
			return color.NRGBA{}, errorsx.Wrap(err, "color", s)
		}
		lightness, err := parsePercentage(args[2])
		if err != nil {
			return color.NRGBA{}, errorsx.Wrap(err, "color", s)
		}
		alpha := uint8(0xff)
		if fn == "hsla" {
			alpha, err = parseAlpha(args[3])
			if err != nil {
				return color.NRGBA{}, errorsx.Wrap(err, "color", s)
			}
		}
		r, g, b := colorful.Hsl(hue, saturation, lightness).Clamped().RGB255()
		return color.NRGBA{r, g, b, alpha}, nil
	default:
		return color.NRGBA{}, errorsx.Errorf("unknown color: %q", s)
	}
}

func parseHexColor(s string) (color.NRGBA, errorsx.Error) {
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, errorsx.Wrap(err, "color", s)
	}

	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 0xff}, nil
}

func splitColorFunction(s string) (string, []string, errorsx.Error) {
	openIndex := strings.Index(s, "(")
	if openIndex == -1 || !strings.HasSuffix(s, ")") {
		return "", nil, errorsx.Errorf("unknown color: %q", s)
	}

	args := strings.Split(s[openIndex+1:len(s)-1], ",")
	for i, arg := range args {
		args[i] = strings.TrimSpace(arg)
	}

	return s[:openIndex], args, nil
}

func parseAlpha(s string) (uint8, errorsx.Error) {
	alpha, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errorsx.Wrap(err)
	}

	return uint8(clamp(alpha, 0, 1)*0xff + 0.5), nil
}

func parsePercentage(s string) (float64, errorsx.Error) {
	value, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, errorsx.Wrap(err)
	}

	return clamp(value, 0, 100) / 100, nil
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
