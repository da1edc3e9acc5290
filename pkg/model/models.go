package model

import (
	"path/filepath"
	"strings"
)

// DefaultBackground is the stage color used when --background is not given
const DefaultBackground = "#A5A6F6"

// Backend names accepted in RendererConfig.Backend
const (
	BackendChromium   = "chromium"
	BackendPlaywright = "playwright"
)

// IconFontFamily is the font-family name the bundled icon font is registered under
const IconFontFamily = "ImprintNerdSymbols"

// IconFontFile is the file name of the bundled icon font
const IconFontFile = "SymbolsNerdFontMono-Regular.ttf"

// Request holds the parameters of a single invocation
type Request struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	IconColor  string `json:"icon_color,omitempty"` // Empty falls back to the inherited foreground color
	Background string `json:"background"`
}

// Decoration returns the window chrome parameters passed into the page
func (r Request) Decoration() Decoration {
	return Decoration{
		Title:     r.Title,
		Icon:      r.Icon,
		IconColor: r.IconColor,
	}
}

// Decoration holds the values the in-page decoration script receives
type Decoration struct {
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	IconColor string `json:"iconColor"`
}

// ScriptArg converts the decoration into the plain object handed to page scripts.
func (d Decoration) ScriptArg() map[string]interface{} {
	return map[string]interface{}{
		"title":     d.Title,
		"icon":      d.Icon,
		"iconColor": d.IconColor,
	}
}

// Job is everything a rendering backend needs to produce one screenshot
type Job struct {
	InputURL   string     `json:"input_url"`
	Stylesheet string     `json:"-"`
	Decoration Decoration `json:"decoration"`
}

// Layout holds the fixed rendering constants, all in CSS pixels unless noted
type Layout struct {
	FontPX          int
	LineHeight      float64 // Unitless multiplier
	PaddingPX       int     // Stage padding around the window
	WindowRadius    int
	TitlebarHeight  int
	TitlePadding    int
	TitleGap        int
	TitleIconSize   int
	ControlsGap     int
	ButtonWidth     int
	ButtonHeight    int
	ButtonRadius    int
	SVGSize         int
	PrePaddingY     int
	PrePaddingX     int
	ButtonIconAlpha float64
}

// DefaultLayout returns the layout every render uses
func DefaultLayout() Layout {
	return Layout{
		FontPX:          18,
		LineHeight:      1.25,
		PaddingPX:       40,
		WindowRadius:    14,
		TitlebarHeight:  36,
		TitlePadding:    9,
		TitleGap:        6,
		TitleIconSize:   16,
		ControlsGap:     2,
		ButtonWidth:     36,
		ButtonHeight:    28,
		ButtonRadius:    6,
		SVGSize:         15,
		PrePaddingY:     14,
		PrePaddingX:     16,
		ButtonIconAlpha: 0.78,
	}
}

// RendererConfig holds renderer configuration
type RendererConfig struct {
	// Rendering backend: "chromium" (default, go-rod) or "playwright" (requires the Node.js driver)
	Backend string `json:"backend" yaml:"backend"`
	// Path to Chrome/Chromium binary (optional, auto-detect if empty)
	ChromiumPath      string  `json:"chromium_path" yaml:"chromium_path"`
	DeviceScaleFactor float64 `json:"device_scale_factor" yaml:"device_scale_factor"`
	ViewportWidth     int     `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight    int     `json:"viewport_height" yaml:"viewport_height"`
	// 0 keeps the driver's own defaults
	TimeoutMS int  `json:"timeout_ms" yaml:"timeout_ms"`
	Headless  bool `json:"headless" yaml:"headless"`
	// Needed when running as root or in Docker
	NoSandbox  bool `json:"no_sandbox" yaml:"no_sandbox"`
	DisableGPU bool `json:"disable_gpu" yaml:"disable_gpu"`
	// Overrides the bundled font lookup
	IconFontPath string `json:"icon_font_path" yaml:"icon_font_path"`
}

// WithDefaults returns a copy of the config with zero values replaced by defaults
func (c RendererConfig) WithDefaults() RendererConfig {
	if c.Backend == "" {
		c.Backend = BackendChromium
	}
	if c.ViewportWidth == 0 {
		c.ViewportWidth = 1920
	}
	if c.ViewportHeight == 0 {
		c.ViewportHeight = 1080
	}
	if c.DeviceScaleFactor == 0 {
		c.DeviceScaleFactor = 2.0
	}
	// Always headless; there is no window to show
	c.Headless = true
	return c
}

// OutputFormat is the encoding of the written artifact
type OutputFormat string

const (
	FormatPNG OutputFormat = "png"
	FormatPDF OutputFormat = "pdf"
)

// FormatForPath picks the output format from the file extension.
// Anything that is not .pdf is written as PNG.
func FormatForPath(path string) OutputFormat {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FormatPDF
	}
	return FormatPNG
}
