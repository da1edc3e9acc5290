package model

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// cssNamedColors is the small set of keywords accepted without a warning.
// Full CSS color syntax is the browser's business; this only catches typos.
var cssNamedColors = map[string]bool{
	"transparent":  true,
	"black":        true,
	"white":        true,
	"red":          true,
	"green":        true,
	"blue":         true,
	"gray":         true,
	"grey":         true,
	"orange":       true,
	"purple":       true,
	"yellow":       true,
	"currentcolor": true,
	"inherit":      true,
}

// CheckColor reports whether a color string looks usable.
// It never rejects input: an empty string is valid (meaning "inherit"),
// hex colors are parsed with go-colorful, and rgb()/hsl() functions and
// common keywords are passed through. The returned error is a warning.
func CheckColor(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	if strings.HasPrefix(v, "#") {
		switch len(v) - 1 {
		case 3, 4, 6, 8:
		default:
			return fmt.Errorf("color '%s' is not a valid hex color: expected 3, 4, 6 or 8 digits", value)
		}
		if _, err := colorful.Hex(normalizeHex(v)); err != nil {
			return fmt.Errorf("color '%s' is not a valid hex color: %v", value, err)
		}
		return nil
	}

	lower := strings.ToLower(v)
	for _, fn := range []string{"rgb(", "rgba(", "hsl(", "hsla(", "var("} {
		if strings.HasPrefix(lower, fn) && strings.HasSuffix(lower, ")") {
			return nil
		}
	}
	if cssNamedColors[lower] {
		return nil
	}

	return fmt.Errorf("color '%s' is not a hex color, color function or known keyword", value)
}

// normalizeHex rewrites any hex form to #rrggbb for colorful.Hex, dropping alpha.
func normalizeHex(v string) string {
	digits := v[1:]
	switch len(digits) {
	case 3, 4:
		return "#" + string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	case 8:
		return "#" + digits[:6]
	}
	return v
}

// ValidateRendererConfig validates a config after defaults have been applied.
func ValidateRendererConfig(c RendererConfig) error {
	switch c.Backend {
	case BackendChromium, BackendPlaywright:
	default:
		return fmt.Errorf("unknown renderer backend '%s' (expected %s or %s)", c.Backend, BackendChromium, BackendPlaywright)
	}

	if c.DeviceScaleFactor <= 0 {
		return fmt.Errorf("device scale factor must be positive, got %v", c.DeviceScaleFactor)
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("timeout cannot be negative, got %dms", c.TimeoutMS)
	}

	return nil
}
