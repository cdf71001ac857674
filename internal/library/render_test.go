package library

import (
	"strings"
	"testing"
)

func TestRenderNoteHTML(t *testing.T) {
	html, err := RenderNoteHTML("# Bridge\n\nDouble the **guitar** here.")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>guitar</strong>") {
		t.Errorf("unexpected render output: %s", html)
	}
}

func TestRenderNoteHTMLTables(t *testing.T) {
	html, err := RenderNoteHTML("| take | verdict |\n|------|---------|\n| 1 | keep |")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected GFM table rendering, got: %s", html)
	}
}
