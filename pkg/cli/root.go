// Package cli implements the codeshot command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/codeshot/pkg/config"
	"github.com/yourusername/codeshot/pkg/model"
	"github.com/yourusername/codeshot/pkg/shot"
)

// Version is the build version, injected from main
var Version = "dev"

// renderFlags holds the flag values of the root command
type renderFlags struct {
	title        string
	icon         string
	iconColor    string
	background   string
	scale        float64
	backend      string
	chromiumPath string
	iconFont     string
	timeoutMS    int
	noSandbox    bool
	configPath   string
	verbose      bool
}

// runFunc performs a render; replaced in tests
type runFunc func(cmd *cobra.Command, cfg model.RendererConfig, req model.Request) error

func runShot(cmd *cobra.Command, cfg model.RendererConfig, req model.Request) error {
	return shot.NewRunner(cfg).Run(cmd.Context(), req)
}

// NewRootCommand creates the codeshot command
func NewRootCommand() *cobra.Command {
	return newRootCommand(runShot)
}

func newRootCommand(run runFunc) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "codeshot <input_path> <output_path>",
		Short: "Render a highlighted HTML code snippet as a window screenshot",
		Long: `codeshot loads an HTML file holding a syntax-highlighted <pre> block,
frames it in a desktop-style window (titlebar, icon, controls, drop shadow)
on a colored stage, and saves a screenshot of it with headless Chromium.

The output format follows the extension: .pdf writes a single page PDF,
anything else a PNG.

Examples:
  codeshot snippet.html snippet.png
  codeshot snippet.html ~/shots/main.png --title main.go --icon $'' --icon-color '#00ADD8'
  codeshot snippet.html out.png --background '#1E1E2E' --scale 3`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		Version:       Version,

		// Usage is shown for argument and flag errors only, which cobra
		// reports before PreRunE runs
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			setupLogging(flags.verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, req, err := resolve(cmd, flags, args)
			if err != nil {
				return err
			}
			return run(cmd, cfg, req)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.title, "title", "", "title for the window")
	f.StringVar(&flags.icon, "icon", "", "file icon glyph for the titlebar (drawn with the bundled icon font)")
	f.StringVar(&flags.iconColor, "icon-color", "", "hex color for the icon (default: the code's foreground color)")
	f.StringVar(&flags.background, "background", model.DefaultBackground, "hex color for the stage behind the window")
	f.Float64Var(&flags.scale, "scale", 2, "device pixel scale of the output image")
	f.StringVar(&flags.backend, "backend", model.BackendChromium, "browser driver: chromium (go-rod) or playwright")
	f.StringVar(&flags.chromiumPath, "chromium-path", "", "path to the Chrome/Chromium binary (auto-detected if empty)")
	f.StringVar(&flags.iconFont, "icon-font", "", "path to the icon font (default: "+model.IconFontFile+" next to the binary)")
	f.IntVar(&flags.timeoutMS, "timeout-ms", 0, "timeout for page operations in milliseconds (0: driver defaults)")
	f.BoolVar(&flags.noSandbox, "no-sandbox", false, "disable the Chromium sandbox (needed as root or in Docker)")
	f.StringVar(&flags.configPath, "config", "", "YAML config file (default: $XDG_CONFIG_HOME/codeshot/config.yaml)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

// resolve merges the config file and flags into the renderer config and request.
// Flags win over the config file only when they were set explicitly.
func resolve(cmd *cobra.Command, flags *renderFlags, args []string) (model.RendererConfig, model.Request, error) {
	path, explicit := flags.configPath, flags.configPath != ""
	if !explicit {
		path = config.DefaultPath()
	}
	file, err := config.Load(path, explicit)
	if err != nil {
		return model.RendererConfig{}, model.Request{}, err
	}

	cfg := file.Renderer
	changed := cmd.Flags().Changed
	if changed("scale") {
		cfg.DeviceScaleFactor = flags.scale
	}
	if changed("backend") {
		cfg.Backend = flags.backend
	}
	if changed("chromium-path") {
		cfg.ChromiumPath = flags.chromiumPath
	}
	if changed("icon-font") {
		cfg.IconFontPath = flags.iconFont
	}
	if changed("timeout-ms") {
		cfg.TimeoutMS = flags.timeoutMS
	}
	if changed("no-sandbox") {
		cfg.NoSandbox = flags.noSandbox
	}

	file.Renderer = cfg
	resolved, err := file.Resolve()
	if err != nil {
		return model.RendererConfig{}, model.Request{}, err
	}

	background := flags.background
	if !changed("background") && file.Background != "" {
		background = file.Background
	}

	req := model.Request{
		InputPath:  args[0],
		OutputPath: args[1],
		Title:      flags.title,
		Icon:       flags.icon,
		IconColor:  flags.iconColor,
		Background: background,
	}
	return resolved, req, nil
}

// Execute runs the root command and exits non-zero on any failure
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
