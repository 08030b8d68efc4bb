package theme

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FallbackHSL is returned by HexToHSL for anything it cannot parse.
const FallbackHSL = "0 0% 0%"

var hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// IsValidHexColor reports whether s is #RGB or #RRGGBB.
func IsValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// HexToHSL converts a 3 or 6 digit hex color, with or without the leading
// '#', to the "H S% L%" triple used by CSS variables. Malformed input
// yields FallbackHSL.
func HexToHSL(hex string) string {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if !IsValidHexColor(hex) {
		return FallbackHSL
	}
	hex = hex[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	r := channel(hex[0:2])
	g := channel(hex[2:4])
	b := channel(hex[4:6])

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2

	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return fmt.Sprintf("%d %d%% %d%%", round(h*360), round(s*100), round(l*100))
}

func channel(pair string) float64 {
	v, _ := strconv.ParseUint(pair, 16, 8)
	return float64(v) / 255
}

// round matches JavaScript Math.round for non-negative input.
func round(f float64) int { return int(math.Floor(f + 0.5)) }
