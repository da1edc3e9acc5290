package render

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/yourusername/codeshot/pkg/model"
)

// ChromiumRenderer captures code windows with Chromium driven over CDP by go-rod
type ChromiumRenderer struct {
	config     model.RendererConfig
	browser    *rod.Browser
	process    browserProcess
	instanceID string // Unique ID for this renderer instance
	profileDir string // Unique profile directory for this instance
}

// browserProcess is the launched Chrome process, as seen through its launcher
type browserProcess interface {
	Kill()
	Cleanup()
}

// connectBrowser attaches go-rod to a launched browser's DevTools endpoint
var connectBrowser = func(controlURL string) (*rod.Browser, error) {
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	return browser, nil
}

var removeAll = os.RemoveAll

// chromeCandidates lists Chrome binaries checked when none is configured, in order of preference
var chromeCandidates = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",

	// macOS
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// findChromeBinary tries to locate Chrome binary in common locations
func findChromeBinary(candidates []string) string {
	for _, path := range candidates {
		log.Printf("DEBUG: Checking Chrome path: %s", path)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0111 != 0 {
			log.Printf("DEBUG: Found executable Chrome binary at: %s", path)
			return path
		}
		log.Printf("DEBUG: File exists but is not executable: %s", path)
	}

	log.Printf("DEBUG: No Chrome binary found in any candidate paths")
	return ""
}

// generateInstanceID creates a unique identifier for this renderer instance
func generateInstanceID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// NewChromiumRenderer creates a new Chromium renderer instance
func NewChromiumRenderer(config model.RendererConfig) *ChromiumRenderer {
	config = config.WithDefaults()

	instanceID := generateInstanceID()
	profileDir := filepath.Join(os.TempDir(), ".codeshot-chromium-"+instanceID)

	log.Printf("DEBUG: Created new ChromiumRenderer instance: %s, profile dir: %s", instanceID, profileDir)

	return &ChromiumRenderer{
		config:     config,
		browser:    nil, // Lazy initialization
		instanceID: instanceID,
		profileDir: profileDir,
	}
}

// getBrowser initializes or returns existing browser instance
func (r *ChromiumRenderer) getBrowser() (*rod.Browser, error) {
	if r.browser != nil {
		return r.browser, nil
	}

	if err := os.MkdirAll(r.profileDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create browser profile directory: %w", err)
	}

	l := launcher.New()

	chromePath := r.config.ChromiumPath
	if chromePath == "" {
		chromePath = findChromeBinary(chromeCandidates)
	}

	if chromePath != "" {
		l = l.Bin(chromePath)
		log.Printf("DEBUG: Using Chrome binary: %s", chromePath)
	} else {
		log.Printf("WARNING: No Chrome binary found, go-rod will look one up or download it")
		log.Printf("WARNING: Pass --chromium-path to pin a specific browser")
	}

	l = l.Set("no-first-run")             // Skip first-run wizards
	l = l.Set("no-default-browser-check") // Don't check if Chrome is default browser
	l = l.Set("disable-dev-shm-usage")    // Use /tmp instead of /dev/shm (prevents crashes in Docker)
	l = l.Set("hide-scrollbars")          // Keep scrollbars out of the captured stage
	l = l.Set("font-render-hinting", "none")
	l = l.Set("disable-breakpad")

	if r.config.NoSandbox {
		l = l.Set("no-sandbox")
		l = l.Set("disable-setuid-sandbox")
	}
	if r.config.DisableGPU {
		l = l.Set("disable-gpu")
	}

	// User data directory must be unique per instance to avoid SingletonLock errors
	l = l.UserDataDir(r.profileDir)
	l = l.Headless(r.config.Headless)

	log.Printf("DEBUG: Launching Chrome browser (instance: %s)...", r.instanceID)
	launchURL, err := l.Launch()
	if err != nil {
		if chromePath != "" {
			if _, statErr := os.Stat(chromePath); statErr != nil {
				log.Printf("ERROR: Chrome binary not accessible: %v", statErr)
			}
			return nil, fmt.Errorf("failed to launch browser at '%s': %w", chromePath, err)
		}
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	log.Printf("DEBUG: Chrome launched successfully, debug URL: %s", launchURL)
	return r.attach(l, launchURL)
}

// attach connects to a launched browser, killing it when the connection fails
func (r *ChromiumRenderer) attach(proc browserProcess, controlURL string) (*rod.Browser, error) {
	browser, err := connectBrowser(controlURL)
	if err != nil {
		log.Printf("ERROR: Failed to connect to Chrome, killing it (instance: %s)", r.instanceID)
		proc.Kill()
		proc.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r.browser = browser
	r.process = proc
	return browser, nil
}

// stageClip builds the capture request for the stage box, given in CSS pixels.
// The clip scale stays 1 because the emulated device scale factor already
// multiplies the captured pixels.
func stageClip(box *proto.DOMRect) *proto.PageCaptureScreenshot {
	return &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	}
}

// Capture renders the job's page as a decorated window and screenshots the stage
func (r *ChromiumRenderer) Capture(ctx context.Context, job *model.Job) ([]byte, error) {
	browser, err := r.getBrowser()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if r.config.TimeoutMS > 0 {
		page = page.Timeout(time.Duration(r.config.TimeoutMS) * time.Millisecond)
		defer page.CancelTimeout()
	}

	if err := page.SetViewport(
		&proto.EmulationSetDeviceMetricsOverride{
			Width:             r.config.ViewportWidth,
			Height:            r.config.ViewportHeight,
			DeviceScaleFactor: r.config.DeviceScaleFactor,
			Mobile:            false,
		},
	); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	log.Printf("DEBUG: Navigating to %s", job.InputURL)
	if err := page.Navigate(job.InputURL); err != nil {
		return nil, fmt.Errorf("failed to navigate to input: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for page load: %w", err)
	}

	if err := page.AddStyleTag("", job.Stylesheet); err != nil {
		return nil, fmt.Errorf("failed to inject stylesheet: %w", err)
	}

	res, err := page.Eval(DecorateScript(), job.Decoration.ScriptArg())
	if err != nil {
		return nil, fmt.Errorf("failed to decorate page: %w", err)
	}
	log.Printf("DEBUG: Stage is %.0fx%.0f CSS px at scale %v",
		res.Value.Get("width").Num(), res.Value.Get("height").Num(), r.config.DeviceScaleFactor)

	if _, err := page.Eval(fontsReadyJS); err != nil {
		log.Printf("WARNING: Failed to wait for fonts: %v", err)
	}

	stage, err := page.Element(stageSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to find stage element: %w", err)
	}

	shape, err := stage.Shape()
	if err != nil {
		return nil, fmt.Errorf("failed to measure stage element: %w", err)
	}
	box := shape.Box()
	if box == nil {
		return nil, fmt.Errorf("stage element has no layout box")
	}

	img, err := page.Screenshot(false, stageClip(box))
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := checkPNG(img); err != nil {
		return nil, err
	}
	if err := checkStageSize(img, box.Width, box.Height, r.config.DeviceScaleFactor); err != nil {
		return nil, err
	}

	log.Printf("DEBUG: Captured %d bytes", len(img))
	return img, nil
}

// Close closes the browser instance, waits for its process to exit and
// removes the profile directory
func (r *ChromiumRenderer) Close() error {
	var err error
	if r.browser != nil {
		log.Printf("DEBUG: Closing Chromium browser (instance: %s)", r.instanceID)
		err = r.browser.Close()
		r.browser = nil
	}

	if r.process != nil {
		if err != nil {
			log.Printf("WARNING: Failed to close Chrome cleanly, killing it: %v", err)
			r.process.Kill()
		}
		// Blocks until Chrome has exited
		r.process.Cleanup()
		r.process = nil
	}

	if r.profileDir != "" {
		log.Printf("DEBUG: Cleaning up profile directory: %s", r.profileDir)
		if rmErr := removeAll(r.profileDir); rmErr != nil {
			log.Printf("WARNING: Failed to remove profile directory %s: %v", r.profileDir, rmErr)
		}
	}

	return err
}

// Name returns the backend name
func (r *ChromiumRenderer) Name() string {
	return model.BackendChromium
}
