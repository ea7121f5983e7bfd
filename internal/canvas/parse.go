package canvas

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrBadColor is returned by ParseColor.
var ErrBadColor = errors.New("invalid color")

// ParseColor accepts an SVG color name, #RGB, #RRGGBB, or three
// comma-separated components where "_" keeps that channel, as in "_,255,_".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("%w %q: want three components", ErrBadColor, s)
		}
		var c Color
		for i, p := range parts {
			p = strings.TrimSpace(p)
			if p == "_" {
				continue
			}
			v, err := strconv.ParseUint(p, 0, 8)
			if err != nil {
				return Color{}, fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
			}
			c[i] = Ch(uint8(v))
		}
		return c, nil
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGB(rgba.R, rgba.G, rgba.B), nil
	}
	return Color{}, fmt.Errorf("%w %q", ErrBadColor, s)
}

func parseHex(hex string) (Color, error) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("%w #%s: invalid hex length", ErrBadColor, hex)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w #%s: %v", ErrBadColor, hex, err)
	}
	return RGB(uint8(val>>16), uint8(val>>8), uint8(val)), nil
}

// String formats c so that ParseColor reads it back: #RRGGBB when every
// channel is set, the component form otherwise.
func (c Color) String() string {
	if c.Full() {
		return c.Hex()
	}
	parts := make([]string, 3)
	for i, ch := range c {
		parts[i] = "_"
		if ch.Set {
			parts[i] = strconv.Itoa(int(ch.V))
		}
	}
	return strings.Join(parts, ",")
}
