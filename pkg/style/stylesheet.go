// Package style builds the stylesheet that turns a bare <pre> page into a
// framed window on a padded, colored stage.
package style

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/yourusername/codeshot/pkg/model"
)

//go:embed window.css.tmpl
var windowCSS string

var windowTemplate = template.Must(template.New("window.css").Option("missingkey=error").Parse(windowCSS))

type stylesheetData struct {
	Layout     model.Layout
	Background string
	FontFamily string
	FontURL    string
}

// Stylesheet renders the window stylesheet for the given stage background and
// icon font URI. Values are inserted verbatim; a malformed color only shows up
// as a wrong-looking render.
func Stylesheet(layout model.Layout, background, iconFontURL string) string {
	var b strings.Builder
	err := windowTemplate.Execute(&b, stylesheetData{
		Layout:     layout,
		Background: background,
		FontFamily: model.IconFontFamily,
		FontURL:    iconFontURL,
	})
	if err != nil {
		// The template is static and its data is a plain struct
		panic(fmt.Sprintf("window stylesheet template failed: %v", err))
	}
	return b.String()
}
