package assets

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/yourusername/codeshot/pkg/document"
	"github.com/yourusername/codeshot/pkg/model"
)

// EnvIconFont names the environment variable that overrides the icon font location
const EnvIconFont = "CODESHOT_ICON_FONT"

// IconFont is a located and verified icon font
type IconFont struct {
	Path string
	URL  string
	Name string // Full font name from the name table, if present
}

// executable is swapped out in tests
var executable = os.Executable

// candidatePaths lists where the icon font is looked for, in order of preference
func candidatePaths(override string) []string {
	var paths []string
	if override != "" {
		paths = append(paths, override)
	}
	if env := os.Getenv(EnvIconFont); env != "" {
		paths = append(paths, env)
	}

	if exe, err := executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, model.IconFontFile),
			filepath.Join(filepath.Dir(dir), model.IconFontFile), // Install layout: bin/codeshot + font one level up
			filepath.Join(filepath.Dir(dir), "share", "codeshot", model.IconFontFile),
		)
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, model.IconFontFile))
	}
	return paths
}

// LocateIconFont finds the bundled icon font and verifies that it parses.
// An explicit override that does not exist is an error rather than a fallthrough.
func LocateIconFont(override string) (*IconFont, error) {
	if override != "" {
		expanded, err := document.ExpandUser(override)
		if err != nil {
			return nil, err
		}
		override = expanded
		if _, err := os.Stat(override); err != nil {
			return nil, fmt.Errorf("icon font %s is not accessible: %w", override, err)
		}
	}

	for _, path := range candidatePaths(override) {
		log.Printf("DEBUG: Checking icon font path: %s", path)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return LoadIconFont(path)
	}

	return nil, fmt.Errorf("icon font %s not found; install it next to the codeshot binary or pass --icon-font", model.IconFontFile)
}

// LoadIconFont verifies path holds a TrueType/OpenType font and returns its file URI
func LoadIconFont(path string) (*IconFont, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve icon font path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon font: %w", err)
	}

	name, err := VerifyFont(data)
	if err != nil {
		return nil, fmt.Errorf("icon font %s is unusable: %w", abs, err)
	}

	log.Printf("DEBUG: Using icon font %q at %s", name, abs)
	return &IconFont{Path: abs, URL: document.FileURI(abs), Name: name}, nil
}

// VerifyFont parses font data and returns its full name (empty if the font has none)
func VerifyFont(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("font file is empty")
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse font: %w", err)
	}
	if f.NumGlyphs() == 0 {
		return "", errors.New("font has no glyphs")
	}

	name, err := f.Name(nil, sfnt.NameIDFull)
	if err != nil {
		// Missing name records are harmless; the browser only needs the glyphs
		return "", nil
	}
	return name, nil
}
