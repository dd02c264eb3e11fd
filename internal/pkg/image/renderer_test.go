package image //nolint:revive // it's okay for an internal package to use this name

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/processout/picasso/internal/pkg/config"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestMain(m *testing.M) {
	os.Setenv("CHROME_FLAGS", "--no-sandbox")
	os.Exit(m.Run())
}

func TestRenderFailingReader(t *testing.T) {
	r := New()
	errExpected := errors.New("read failure")
	dest := &bytes.Buffer{}

	err := r.Render(dest, &failingReader{err: errExpected})
	require.Error(t, err)
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "read content")
}

func TestRenderFailingWriter(t *testing.T) {
	skipIfNoBrowser(t)

	r := New()
	html := `<html><body><p>hello</p></body></html>`
	errExpected := errors.New("write failure")

	err := r.Render(&failingWriter{err: errExpected}, strings.NewReader(html))
	require.Error(t, err)
	require.ErrorIs(t, err, errExpected)
	assert.Contains(t, err.Error(), "writing screenshot")
}

func TestRenderSimpleHTML(t *testing.T) {
	skipIfNoBrowser(t)

	r := New()
	html := `<!DOCTYPE html><html><body style="background:white"><h1>Test</h1></body></html>`
	dest := &bytes.Buffer{}

	require.NoError(t, r.Render(dest, strings.NewReader(html)))

	output := dest.Bytes()
	require.NotEmpty(t, output)

	// PNG magic bytes: 0x89 P N G
	pngMagic := []byte{0x89, 0x50, 0x4E, 0x47}
	assert.True(t, bytes.HasPrefix(output, pngMagic),
		"output does not start with PNG magic bytes, got %x", output[:min(4, len(output))])
}

func TestRenderEmptyHTML(t *testing.T) {
	skipIfNoBrowser(t)

	r := New()
	dest := &bytes.Buffer{}

	require.NoError(t, r.Render(dest, strings.NewReader("")))

	// Should still produce a valid PNG (blank page screenshot)
	pngMagic := []byte{0x89, 0x50, 0x4E, 0x47}
	assert.True(t, bytes.HasPrefix(dest.Bytes(), pngMagic),
		"expected valid PNG output even for empty HTML")
}

func TestRenderSVG(t *testing.T) {
	skipIfNoBrowser(t)

	r := New(WithFormat(FormatSVG), WithWidth(200), WithHeight(100), WithSleep(100*time.Millisecond))
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100"><rect width="200" height="100" fill="#ff0000"/></svg>`
	dest := &bytes.Buffer{}

	require.NoError(t, r.Render(dest, strings.NewReader(svg)))
	assert.True(t, bytes.HasPrefix(dest.Bytes(), []byte{0x89, 0x50, 0x4E, 0x47}))
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().RenderContext(ctx, &bytes.Buffer{}, strings.NewReader("<p>hello</p>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taking screenshot")
}

func TestDataURL(t *testing.T) {
	content := []byte(`<rect fill="#ff0000"/>`)

	t.Run("html", func(t *testing.T) {
		url := New().dataURL(content)
		require.True(t, strings.HasPrefix(url, "data:text/html;base64,"))
		assert.NotContains(t, url, "#")
	})

	t.Run("svg", func(t *testing.T) {
		url := New(WithFormat(FormatSVG)).dataURL(content)
		encoded, found := strings.CutPrefix(url, "data:image/svg+xml;base64,")
		require.True(t, found)

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, content, decoded)
	})
}

func TestOptions(t *testing.T) {
	o := optionsWithDefaults([]Option{WithScreenshot(config.Screenshot{Width: 800, Sleep: "250ms"}), WithFormat("")})
	assert.Equal(t, int64(800), o.Width)
	assert.Equal(t, defaultHeight, o.Height)
	assert.Equal(t, 250*time.Millisecond, o.SleepDuration)
	assert.Equal(t, FormatHTML, o.Format)

	o = optionsWithDefaults([]Option{WithScreenshot(config.Screenshot{Sleep: "invalid"}), WithHeight(-1)})
	assert.Equal(t, defaultWait, o.SleepDuration)
	assert.Equal(t, defaultHeight, o.Height)
}

// helpers

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func skipIfNoBrowser(t *testing.T) {
	t.Helper()
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome/Chromium browser found, skipping integration test")
}
