package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/png"
	"math"
	"strings"
)

// decorateJS is an arrow function taking {title, icon, iconColor}. It wraps the
// first <pre> of the page in window chrome inside #stage and returns the stage
// size in CSS pixels.
//
//go:embed decorate.js
var decorateJS string

// fontsReadyJS resolves once every declared font face has finished loading
const fontsReadyJS = `() => document.fonts.ready.then(() => document.fonts.size)`

// stageSelector is the element whose bounding box becomes the image
const stageSelector = "#stage"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// DecorateScript returns the in-page decoration function source
func DecorateScript() string {
	return strings.TrimSpace(decorateJS)
}

// checkPNG verifies a screenshot actually holds PNG data
func checkPNG(data []byte) error {
	if !bytes.HasPrefix(data, pngSignature) {
		return fmt.Errorf("screenshot is not a PNG (got %d bytes)", len(data))
	}
	return nil
}

// checkStageSize verifies a screenshot covers a stage of cssWidth x cssHeight
// CSS pixels at the device scale. Up to one CSS pixel of rounding is tolerated.
func checkStageSize(img []byte, cssWidth, cssHeight, scale float64) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("failed to read screenshot size: %w", err)
	}

	slack := int(math.Max(1, math.Ceil(scale)))
	wantWidth := int(math.Round(cssWidth * scale))
	wantHeight := int(math.Round(cssHeight * scale))
	if absInt(cfg.Width-wantWidth) > slack || absInt(cfg.Height-wantHeight) > slack {
		return fmt.Errorf("screenshot is %dx%d px, want %dx%d for a %.0fx%.0f CSS px stage at scale %v",
			cfg.Width, cfg.Height, wantWidth, wantHeight, cssWidth, cssHeight, scale)
	}
	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
