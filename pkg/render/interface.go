package render

import (
	"context"
	"fmt"

	"github.com/yourusername/codeshot/pkg/model"
)

// Backend defines the interface for rendering backends
type Backend interface {
	// Capture loads the job's page, injects the stylesheet, decorates the code
	// block and returns a PNG of the stage element
	Capture(ctx context.Context, job *model.Job) ([]byte, error)

	// Close shuts down the browser and cleans up resources
	Close() error

	// Name returns the name of the backend
	Name() string
}

// NewBackend creates a new rendering backend for the configured driver.
// Every backend owns at most one browser and one page.
func NewBackend(config model.RendererConfig) (Backend, error) {
	switch config.Backend {
	case model.BackendChromium, "":
		return NewChromiumRenderer(config), nil
	case model.BackendPlaywright:
		return NewPlaywrightRenderer(config), nil
	default:
		return nil, fmt.Errorf("unknown renderer backend '%s'", config.Backend)
	}
}
