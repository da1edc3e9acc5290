// Package shot runs one render: resolve the input, build the stylesheet,
// drive the browser, write the image.
package shot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/codeshot/pkg/assets"
	"github.com/yourusername/codeshot/pkg/document"
	"github.com/yourusername/codeshot/pkg/model"
	"github.com/yourusername/codeshot/pkg/output"
	"github.com/yourusername/codeshot/pkg/render"
	"github.com/yourusername/codeshot/pkg/style"
)

// BackendFactory creates the rendering backend for a run
type BackendFactory func(config model.RendererConfig) (render.Backend, error)

// Runner renders requests with a fixed renderer configuration
type Runner struct {
	config     model.RendererConfig
	layout     model.Layout
	newBackend BackendFactory
}

// NewRunner creates a runner that uses the real browser backends
func NewRunner(config model.RendererConfig) *Runner {
	return &Runner{
		config:     config.WithDefaults(),
		layout:     model.DefaultLayout(),
		newBackend: render.NewBackend,
	}
}

// WithBackendFactory replaces the backend constructor, mainly for tests
func (r *Runner) WithBackendFactory(f BackendFactory) *Runner {
	r.newBackend = f
	return r
}

// Run renders req.InputPath to req.OutputPath. Each step completes before the
// next starts, and the browser is shut down on every return path.
func (r *Runner) Run(ctx context.Context, req model.Request) error {
	start := time.Now()

	if req.Background == "" {
		req.Background = model.DefaultBackground
	}
	for _, c := range []struct{ flag, value string }{
		{"background", req.Background},
		{"icon-color", req.IconColor},
	} {
		if err := model.CheckColor(c.value); err != nil {
			log.Printf("WARNING: --%s: %v; passing it to the browser unchanged", c.flag, err)
		}
	}

	src, err := document.Resolve(req.InputPath)
	if err != nil {
		return err
	}
	if _, err := document.Inspect(src.Path); err != nil {
		return err
	}

	outputPath, err := document.ExpandUser(req.OutputPath)
	if err != nil {
		return err
	}

	font, err := assets.LocateIconFont(r.config.IconFontPath)
	if err != nil {
		return err
	}

	job := &model.Job{
		InputURL:   src.URL,
		Stylesheet: style.Stylesheet(r.layout, req.Background, font.URL),
		Decoration: req.Decoration(),
	}

	backend, err := r.newBackend(r.config)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("WARNING: [SHOT] Failed to close %s renderer: %v", backend.Name(), err)
		}
	}()

	log.Printf("DEBUG: [SHOT] Rendering %s with %s backend at scale %v", src.Path, backend.Name(), r.config.DeviceScaleFactor)
	img, err := backend.Capture(ctx, job)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", src.Path, err)
	}

	if err := output.Write(outputPath, img, r.config.DeviceScaleFactor); err != nil {
		return err
	}

	log.Printf("DEBUG: [SHOT] Done in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
