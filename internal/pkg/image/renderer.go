// Package image converts a HTML page or a SVG document into a PNG screenshot.
package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// Renderer knows how to take a screenshot from a HTML or SVG input and writes it as PNG.
type Renderer struct {
	options

	l *slog.Logger
}

// New builds an image [Renderer].
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "image")),
	}
}

// Render a PNG image as a screenshot from an input [io.Reader].
func (r *Renderer) Render(dest io.Writer, source io.Reader) error {
	return r.RenderContext(context.Background(), dest, source)
}

// RenderContext is like [Renderer.Render], with a [context.Context] to cancel the browser session.
func (r *Renderer) RenderContext(ctx context.Context, dest io.Writer, source io.Reader) error {
	screenshot, err := r.screenshot(ctx, source)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	_, err = dest.Write(screenshot)
	if err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	r.l.Debug("screenshot taken", slog.String("format", string(r.Format)), slog.Int("bytes", len(screenshot)))

	return nil
}

// dataURL embeds the content as base64: raw "#" characters in colors would otherwise end the URL.
func (r *Renderer) dataURL(content []byte) string {
	return "data:" + string(r.Format) + ";base64," + base64.StdEncoding.EncodeToString(content)
}

func (r *Renderer) screenshot(parent context.Context, reader io.Reader) ([]byte, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	const qualityPNG = 100 // 100 to force PNG

	var screenshot []byte
	err = chromedp.Run(ctx,
		chromedp.Emulate(device.Info{
			Height:    r.Height,
			Width:     r.Width,
			Landscape: true,
		}),
		chromedp.Navigate(r.dataURL(content)),
		chromedp.Sleep(r.SleepDuration), // scripted pages need some time to render
		chromedp.FullScreenshot(&screenshot, qualityPNG),
	)
	if err != nil {
		return nil, err
	}

	return screenshot, nil
}
