package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/playwright-community/playwright-go"

	"github.com/yourusername/codeshot/pkg/model"
)

// PlaywrightRenderer captures code windows with Chromium driven by Playwright
type PlaywrightRenderer struct {
	config     model.RendererConfig
	browser    playwright.Browser
	stopDriver func() error // Stops the Playwright Node.js driver
	instanceID string
}

// NewPlaywrightRenderer creates a new Playwright renderer instance
func NewPlaywrightRenderer(config model.RendererConfig) *PlaywrightRenderer {
	config = config.WithDefaults()

	instanceID := generateInstanceID()
	log.Printf("DEBUG: Created new PlaywrightRenderer instance: %s", instanceID)

	return &PlaywrightRenderer{
		config:     config,
		browser:    nil, // Lazy initialization
		instanceID: instanceID,
	}
}

// launchArgs returns the Chromium command line flags for the configured options
func (r *PlaywrightRenderer) launchArgs() []string {
	args := []string{
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-dev-shm-usage",
		"--hide-scrollbars",
		"--font-render-hinting=none",
		"--disable-breakpad",
	}
	if r.config.NoSandbox {
		args = append(args, "--no-sandbox", "--disable-setuid-sandbox")
	}
	if r.config.DisableGPU {
		args = append(args, "--disable-gpu")
	}
	return args
}

// getBrowser initializes or returns existing browser instance
func (r *PlaywrightRenderer) getBrowser() (playwright.Browser, error) {
	if r.browser != nil {
		return r.browser, nil
	}

	log.Printf("DEBUG: Initializing Playwright (instance: %s)", r.instanceID)
	if cache := os.Getenv("PLAYWRIGHT_BROWSERS_PATH"); cache != "" {
		log.Printf("DEBUG: PLAYWRIGHT_BROWSERS_PATH=%s", cache)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start Playwright: %w\n\nPlaywright needs its Node.js driver installed; use --backend chromium to drive Chrome directly", err)
	}
	r.stopDriver = pw.Stop

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.config.Headless),
		Args:     r.launchArgs(),
	}

	chromiumPath := r.config.ChromiumPath
	if chromiumPath == "" {
		chromiumPath = findChromeBinary(chromeCandidates)
	}
	if chromiumPath != "" {
		launchOptions.ExecutablePath = playwright.String(chromiumPath)
		log.Printf("DEBUG: Using system Chromium: %s", chromiumPath)
	} else {
		log.Printf("WARNING: No system Chromium found, will try Playwright's bundled version")
	}

	log.Printf("DEBUG: Launching Chromium browser with Playwright...")
	browser, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chromium: %w", err)
	}

	r.browser = browser
	return browser, nil
}

// Capture renders the job's page as a decorated window and screenshots the stage.
// Playwright calls are not context aware, so ctx is checked between steps.
func (r *PlaywrightRenderer) Capture(ctx context.Context, job *model.Job) ([]byte, error) {
	browser, err := r.getBrowser()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  r.config.ViewportWidth,
			Height: r.config.ViewportHeight,
		},
		DeviceScaleFactor: playwright.Float(r.config.DeviceScaleFactor),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	defer browserContext.Close()

	page, err := browserContext.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if r.config.TimeoutMS > 0 {
		page.SetDefaultTimeout(float64(r.config.TimeoutMS))
	}

	log.Printf("DEBUG: Navigating to %s", job.InputURL)
	if _, err := page.Goto(job.InputURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return nil, fmt.Errorf("failed to navigate to input: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := page.AddStyleTag(playwright.PageAddStyleTagOptions{
		Content: playwright.String(job.Stylesheet),
	}); err != nil {
		return nil, fmt.Errorf("failed to inject stylesheet: %w", err)
	}

	res, err := page.Evaluate(DecorateScript(), job.Decoration.ScriptArg())
	if err != nil {
		return nil, fmt.Errorf("failed to decorate page: %w", err)
	}
	size, _ := res.(map[string]interface{})
	stageWidth, stageHeight := jsNumber(size["width"]), jsNumber(size["height"])
	log.Printf("DEBUG: Stage is %.0fx%.0f CSS px at scale %v", stageWidth, stageHeight, r.config.DeviceScaleFactor)

	if _, err := page.Evaluate(fontsReadyJS); err != nil {
		log.Printf("WARNING: Failed to wait for fonts: %v", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := page.Locator(stageSelector).Screenshot()
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := checkPNG(img); err != nil {
		return nil, err
	}
	if stageWidth > 0 && stageHeight > 0 {
		if err := checkStageSize(img, stageWidth, stageHeight, r.config.DeviceScaleFactor); err != nil {
			return nil, err
		}
	}

	log.Printf("DEBUG: Captured %d bytes", len(img))
	return img, nil
}

// Close closes the browser and stops the driver, attempting both even when
// one of them fails
func (r *PlaywrightRenderer) Close() error {
	var errs []error
	if r.browser != nil {
		log.Printf("DEBUG: Closing Playwright browser (instance: %s)", r.instanceID)
		if err := r.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		r.browser = nil
	}
	if r.stopDriver != nil {
		log.Printf("DEBUG: Stopping Playwright (instance: %s)", r.instanceID)
		if err := r.stopDriver(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop Playwright: %w", err))
		}
		r.stopDriver = nil
	}
	return errors.Join(errs...)
}

// jsNumber reads a number returned by Evaluate, which decodes integral
// values as int and the rest as float64
func jsNumber(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// Name returns the backend name
func (r *PlaywrightRenderer) Name() string {
	return model.BackendPlaywright
}
