// Command codeshot renders a syntax-highlighted HTML snippet as a PNG that
// looks like a screenshot of a desktop window.
package main

import (
	"github.com/yourusername/codeshot/pkg/cli"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.Version = version
	cli.Execute(cli.NewRootCommand())
}
