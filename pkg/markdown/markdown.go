// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package markdown renders post bodies to HTML.
//
// Raw HTML embedded in the source is dropped (goldmark's default), so the
// output is safe to inject into the frontend without a second sanitizer.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a renderer with GitHub-flavoured extensions enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render returns the HTML form of source.
func (renderer *Renderer) Render(source string) (string, error) {
	var buffer bytes.Buffer
	if err := renderer.engine.Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("markdown: render failed: %w", err)
	}
	return buffer.String(), nil
}
