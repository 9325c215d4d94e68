package inanna

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdownConverter abstracts Markdown to HTML conversion. The layout engine
// treats the conversion as a black box producing an HTML fragment.
type markdownConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// goldmarkConverter converts Markdown to an HTML fragment using goldmark.
type goldmarkConverter struct {
	md goldmark.Markdown
}

// newGoldmarkConverter creates a goldmarkConverter with GFM extensions and
// syntax highlighting for fenced code blocks.
func newGoldmarkConverter() *goldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so slide styles control colors
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(), // Self-closing tags
		),
	)
	return &goldmarkConverter{md: md}
}

// ToHTML converts slide Markdown to an HTML fragment. The fragment is not
// wrapped in a document; the compositor owns the surrounding markup.
// Supports context cancellation via goroutine + select since goldmark does
// not take a context.
func (c *goldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
