package shot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yourusername/codeshot/pkg/model"
	"github.com/yourusername/codeshot/pkg/render"
)

// fakeBackend records what it was asked to render
type fakeBackend struct {
	jobs       []*model.Job
	captureErr error
	closed     int
	img        []byte
}

func (f *fakeBackend) Capture(ctx context.Context, job *model.Job) ([]byte, error) {
	f.jobs = append(f.jobs, job)
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	return f.img, nil
}

func (f *fakeBackend) Close() error {
	f.closed++
	return nil
}

func (f *fakeBackend) Name() string {
	return "fake"
}

type fixture struct {
	dir     string
	input   string
	backend *fakeBackend
	runner  *Runner
	config  model.RendererConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	fontPath := filepath.Join(dir, model.IconFontFile)
	require.NoError(t, os.WriteFile(fontPath, goregular.TTF, 0644))

	input := filepath.Join(dir, "hello.html")
	require.NoError(t, os.WriteFile(input, []byte(`<html><body style="background:#282a36;color:#f8f8f2"><pre>fmt.Println("hi")</pre></body></html>`), 0644))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 2))))

	f := &fixture{
		dir:     dir,
		input:   input,
		backend: &fakeBackend{img: buf.Bytes()},
	}
	f.runner = NewRunner(model.RendererConfig{IconFontPath: fontPath, DeviceScaleFactor: 3}).
		WithBackendFactory(func(config model.RendererConfig) (render.Backend, error) {
			f.config = config
			return f.backend, nil
		})
	return f
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "hello.png")

	err := f.runner.Run(context.Background(), model.Request{
		InputPath:  f.input,
		OutputPath: out,
		Title:      "hello.go",
		IconColor:  "#00ADD8",
	})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, f.backend.img, got)

	require.Len(t, f.backend.jobs, 1)
	job := f.backend.jobs[0]
	assert.True(t, strings.HasPrefix(job.InputURL, "file:///"))
	assert.True(t, strings.HasSuffix(job.InputURL, "/hello.html"))
	assert.Equal(t, model.Decoration{Title: "hello.go", IconColor: "#00ADD8"}, job.Decoration)
	assert.Contains(t, job.Stylesheet, "background: "+model.DefaultBackground+";")
	assert.Contains(t, job.Stylesheet, "/"+model.IconFontFile+`")`)

	assert.Equal(t, 3.0, f.config.DeviceScaleFactor)
	assert.Equal(t, 1, f.backend.closed)
}

func TestRunPDF(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "hello.pdf")

	require.NoError(t, f.runner.Run(context.Background(), model.Request{InputPath: f.input, OutputPath: out}))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(got, []byte("%PDF-")))
}

func TestRunMissingInput(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "out.png")

	err := f.runner.Run(context.Background(), model.Request{
		InputPath:  filepath.Join(f.dir, "missing.html"),
		OutputPath: out,
	})
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, f.backend.jobs, "no browser work for a missing input")
}

func TestRunInputWithoutCode(t *testing.T) {
	f := newFixture(t)
	input := filepath.Join(f.dir, "prose.html")
	require.NoError(t, os.WriteFile(input, []byte("<p>no code here</p>"), 0644))

	err := f.runner.Run(context.Background(), model.Request{InputPath: input, OutputPath: filepath.Join(f.dir, "out.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no <pre> element")
	assert.Zero(t, f.backend.closed, "backend is never created")
}

func TestRunMissingOutputDirectory(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "nope", "out.png")

	err := f.runner.Run(context.Background(), model.Request{InputPath: f.input, OutputPath: out})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write output file")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, 1, f.backend.closed, "browser is closed after a failed write")
}

func TestRunCaptureFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.captureErr = errors.New("boom")
	out := filepath.Join(f.dir, "out.png")

	err := f.runner.Run(context.Background(), model.Request{InputPath: f.input, OutputPath: out})
	require.Error(t, err)
	assert.ErrorIs(t, err, f.backend.captureErr)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, 1, f.backend.closed, "browser is closed after a failed capture")
}

func TestRunBackendFactoryError(t *testing.T) {
	f := newFixture(t)
	f.runner.WithBackendFactory(func(model.RendererConfig) (render.Backend, error) {
		return nil, errors.New("no chrome")
	})

	err := f.runner.Run(context.Background(), model.Request{InputPath: f.input, OutputPath: filepath.Join(f.dir, "out.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create renderer: no chrome")
}

func TestRunMissingFont(t *testing.T) {
	f := newFixture(t)
	f.runner.config.IconFontPath = filepath.Join(f.dir, "gone.ttf")

	err := f.runner.Run(context.Background(), model.Request{InputPath: f.input, OutputPath: filepath.Join(f.dir, "out.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "icon font")
	assert.Empty(t, f.backend.jobs)
}
