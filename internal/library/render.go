package library

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// noteMarkdown renders note content, which is stored as Markdown
var noteMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderNoteHTML converts a note's Markdown content to HTML
func RenderNoteHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := noteMarkdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}
	return buf.String(), nil
}
