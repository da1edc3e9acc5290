package model

import (
	"strings"
	"testing"
)

func TestCheckColor(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		expectError   bool
		errorContains string
	}{
		{
			name:        "empty color means inherit",
			value:       "",
			expectError: false,
		},
		{
			name:        "default background",
			value:       DefaultBackground,
			expectError: false,
		},
		{
			name:        "lowercase hex",
			value:       "#a5a6f6",
			expectError: false,
		},
		{
			name:        "shorthand hex",
			value:       "#fff",
			expectError: false,
		},
		{
			name:        "shorthand hex with alpha",
			value:       "#fff8",
			expectError: false,
		},
		{
			name:        "hex with alpha",
			value:       "#11223380",
			expectError: false,
		},
		{
			name:        "surrounding whitespace is ignored",
			value:       "  #000000 ",
			expectError: false,
		},
		{
			name:        "rgb function passes through",
			value:       "rgb(10, 20, 30)",
			expectError: false,
		},
		{
			name:        "rgba function passes through",
			value:       "rgba(0,0,0,.5)",
			expectError: false,
		},
		{
			name:        "known keyword",
			value:       "Transparent",
			expectError: false,
		},
		{
			name:          "five digit hex",
			value:         "#12345",
			expectError:   true,
			errorContains: "expected 3, 4, 6 or 8 digits",
		},
		{
			name:          "non hex digits",
			value:         "#zzzzzz",
			expectError:   true,
			errorContains: "not a valid hex color",
		},
		{
			name:          "missing hash",
			value:         "a5a6f6",
			expectError:   true,
			errorContains: "not a hex color",
		},
		{
			name:          "unterminated function",
			value:         "rgb(1,2,3",
			expectError:   true,
			errorContains: "rgb(1,2,3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckColor(tt.value)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %v", tt.errorContains, err)
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestValidateRendererConfig(t *testing.T) {
	tests := []struct {
		name          string
		config        RendererConfig
		expectError   bool
		errorContains string
	}{
		{
			name:        "defaults are valid",
			config:      RendererConfig{}.WithDefaults(),
			expectError: false,
		},
		{
			name:        "playwright backend",
			config:      RendererConfig{Backend: BackendPlaywright}.WithDefaults(),
			expectError: false,
		},
		{
			name:          "unknown backend",
			config:        RendererConfig{Backend: "firefox"}.WithDefaults(),
			expectError:   true,
			errorContains: "unknown renderer backend 'firefox'",
		},
		{
			name:          "negative scale",
			config:        RendererConfig{DeviceScaleFactor: -1}.WithDefaults(),
			expectError:   true,
			errorContains: "scale factor must be positive",
		},
		{
			name:          "negative viewport",
			config:        RendererConfig{ViewportWidth: -10}.WithDefaults(),
			expectError:   true,
			errorContains: "viewport must be positive",
		},
		{
			name:          "negative timeout",
			config:        RendererConfig{TimeoutMS: -5}.WithDefaults(),
			expectError:   true,
			errorContains: "timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRendererConfig(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %v", tt.errorContains, err)
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	c := RendererConfig{}.WithDefaults()

	if c.Backend != BackendChromium {
		t.Errorf("Expected backend %s, got %s", BackendChromium, c.Backend)
	}
	if c.DeviceScaleFactor != 2.0 {
		t.Errorf("Expected scale 2, got %v", c.DeviceScaleFactor)
	}
	if c.ViewportWidth != 1920 || c.ViewportHeight != 1080 {
		t.Errorf("Expected 1920x1080 viewport, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if !c.Headless {
		t.Errorf("Expected headless to be forced on")
	}
	if c.TimeoutMS != 0 {
		t.Errorf("Expected timeout to stay at driver default, got %d", c.TimeoutMS)
	}

	custom := RendererConfig{DeviceScaleFactor: 1, Backend: BackendPlaywright}.WithDefaults()
	if custom.DeviceScaleFactor != 1 || custom.Backend != BackendPlaywright {
		t.Errorf("Explicit values were overwritten: %+v", custom)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want OutputFormat
	}{
		{"out.png", FormatPNG},
		{"out.PDF", FormatPDF},
		{"dir.pdf/out.png", FormatPNG},
		{"shot", FormatPNG},
		{"/tmp/report.pdf", FormatPDF},
	}

	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestRequestDecoration(t *testing.T) {
	req := Request{Title: "hello.go", Icon: "", IconColor: "#00ADD8"}
	arg := req.Decoration().ScriptArg()

	if arg["title"] != "hello.go" {
		t.Errorf("Expected title hello.go, got %v", arg["title"])
	}
	if arg["icon"] != "" {
		t.Errorf("Expected icon glyph to pass through, got %q", arg["icon"])
	}
	if arg["iconColor"] != "#00ADD8" {
		t.Errorf("Expected iconColor #00ADD8, got %v", arg["iconColor"])
	}
	if len(arg) != 3 {
		t.Errorf("Expected exactly 3 keys, got %d", len(arg))
	}
}
